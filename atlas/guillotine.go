package atlas

import "math"

// guillotinePacker implements guillotine bin packing: every placement
// cuts the chosen free rectangle into two disjoint remainders with a
// single horizontal or vertical split. Free rectangles therefore never
// overlap, unlike MaxRects.
//
// Placement picks the free rectangle with the smallest leftover area
// (best area fit). The split axis follows the shorter leftover so the
// larger remainder stays as square as possible.
type guillotinePacker struct {
	width   int
	height  int
	padding int

	freeRects []Region
}

func newGuillotinePacker(width, height, padding int) *guillotinePacker {
	return &guillotinePacker{
		width:     width,
		height:    height,
		padding:   padding,
		freeRects: []Region{{X: 0, Y: 0, Width: width, Height: height}},
	}
}

func (p *guillotinePacker) insert(w, h int) (Region, bool) {
	if w == 0 || h == 0 {
		if len(p.freeRects) > 0 {
			fr := p.freeRects[0]
			return Region{X: fr.X, Y: fr.Y, Width: w, Height: h}, true
		}
		return Region{Width: w, Height: h}, true
	}

	if w > p.width || h > p.height {
		return Region{}, false
	}

	paddedW, paddedH := footprint(w, h, p.padding, p.width, p.height)
	best, _ := p.findBest(paddedW, paddedH)
	if best < 0 {
		return Region{}, false
	}

	fr := p.freeRects[best]
	placed := Region{X: fr.X, Y: fr.Y, Width: w, Height: h}

	// Remove the chosen free rectangle and split the leftover in two.
	p.freeRects[best] = p.freeRects[len(p.freeRects)-1]
	p.freeRects = p.freeRects[:len(p.freeRects)-1]

	leftoverW := fr.Width - paddedW
	leftoverH := fr.Height - paddedH
	if leftoverW < leftoverH {
		// Horizontal cut: narrow strip to the right, wide strip below.
		if leftoverW > 0 {
			p.freeRects = append(p.freeRects, Region{
				X: fr.X + paddedW, Y: fr.Y,
				Width: leftoverW, Height: paddedH,
			})
		}
		if leftoverH > 0 {
			p.freeRects = append(p.freeRects, Region{
				X: fr.X, Y: fr.Y + paddedH,
				Width: fr.Width, Height: leftoverH,
			})
		}
	} else {
		// Vertical cut: strip below the placement, tall strip right.
		if leftoverH > 0 {
			p.freeRects = append(p.freeRects, Region{
				X: fr.X, Y: fr.Y + paddedH,
				Width: paddedW, Height: leftoverH,
			})
		}
		if leftoverW > 0 {
			p.freeRects = append(p.freeRects, Region{
				X: fr.X + paddedW, Y: fr.Y,
				Width: leftoverW, Height: fr.Height,
			})
		}
	}
	return placed, true
}

func (p *guillotinePacker) probe(w, h int) (int, bool) {
	if w == 0 || h == 0 {
		return 0, true
	}
	if w > p.width || h > p.height {
		return 0, false
	}
	paddedW, paddedH := footprint(w, h, p.padding, p.width, p.height)
	best, waste := p.findBest(paddedW, paddedH)
	if best < 0 {
		return 0, false
	}
	return waste, true
}

// findBest returns the index of the free rectangle with the smallest
// leftover area, or -1.
func (p *guillotinePacker) findBest(paddedW, paddedH int) (best, bestWaste int) {
	best = -1
	bestWaste = math.MaxInt
	for i, fr := range p.freeRects {
		if fr.Width < paddedW || fr.Height < paddedH {
			continue
		}
		waste := fr.Area() - paddedW*paddedH
		if waste < bestWaste {
			best = i
			bestWaste = waste
		}
	}
	return best, bestWaste
}

func (p *guillotinePacker) free(r Region) {
	if !r.IsValid() {
		return
	}
	freed := Region{X: r.X, Y: r.Y, Width: r.Width + p.padding, Height: r.Height + p.padding}
	if freed.X+freed.Width > p.width {
		freed.Width = p.width - freed.X
	}
	if freed.Y+freed.Height > p.height {
		freed.Height = p.height - freed.Y
	}
	p.freeRects = append(p.freeRects, freed)
}

func (p *guillotinePacker) reset() {
	p.freeRects = p.freeRects[:0]
	p.freeRects = append(p.freeRects, Region{X: 0, Y: 0, Width: p.width, Height: p.height})
}
