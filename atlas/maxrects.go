package atlas

import "math"

// maxRectsPacker implements the MaxRects bin-packing heuristic with the
// best-short-side-fit rule: among free rectangles large enough for the
// request, choose the one minimizing the shorter leftover dimension,
// breaking ties on the longer leftover dimension.
//
// The packer maintains a list of maximal free rectangles. Placing a
// rectangle splits every overlapping free rectangle into up to four
// remainders, then prunes free rectangles contained in another.
//
// Freed regions are appended to the free list without coalescing;
// fragmentation is reclaimed by a full repack (Allocator.OptimizeAtlas).
type maxRectsPacker struct {
	width   int
	height  int
	padding int

	freeRects []Region
}

func newMaxRectsPacker(width, height, padding int) *maxRectsPacker {
	return &maxRectsPacker{
		width:     width,
		height:    height,
		padding:   padding,
		freeRects: []Region{{X: 0, Y: 0, Width: width, Height: height}},
	}
}

func (p *maxRectsPacker) insert(w, h int) (Region, bool) {
	if w == 0 || h == 0 {
		// Degenerate but valid placement. Anchor at the first free
		// rectangle so the region stays inside the page.
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
	best, _, _ := p.findBest(paddedW, paddedH)
	if best < 0 {
		return Region{}, false
	}

	fr := p.freeRects[best]
	placed := Region{X: fr.X, Y: fr.Y, Width: w, Height: h}
	p.splitFree(Region{X: fr.X, Y: fr.Y, Width: paddedW, Height: paddedH})
	return placed, true
}

func (p *maxRectsPacker) probe(w, h int) (int, bool) {
	if w == 0 || h == 0 {
		return 0, true
	}
	if w > p.width || h > p.height {
		return 0, false
	}
	paddedW, paddedH := footprint(w, h, p.padding, p.width, p.height)
	best, short, long := p.findBest(paddedW, paddedH)
	if best < 0 {
		return 0, false
	}
	// Lexicographic (short, long) packed into one score; short-side
	// leftover dominates, matching the in-page selection rule.
	return short<<16 | long, true
}

// findBest returns the index of the free rectangle minimizing the
// shorter leftover dimension (tie-break on the longer), or -1.
func (p *maxRectsPacker) findBest(paddedW, paddedH int) (best, bestShort, bestLong int) {
	best = -1
	bestShort = math.MaxInt
	bestLong = math.MaxInt
	for i, fr := range p.freeRects {
		if fr.Width < paddedW || fr.Height < paddedH {
			continue
		}
		leftoverW := fr.Width - paddedW
		leftoverH := fr.Height - paddedH
		short, long := leftoverW, leftoverH
		if short > long {
			short, long = long, short
		}
		if short < bestShort || (short == bestShort && long < bestLong) {
			best = i
			bestShort = short
			bestLong = long
		}
	}
	return best, bestShort, bestLong
}

func (p *maxRectsPacker) free(r Region) {
	if !r.IsValid() {
		return
	}
	// The placement consumed the padded footprint; return the same.
	freed := Region{X: r.X, Y: r.Y, Width: r.Width + p.padding, Height: r.Height + p.padding}
	if freed.X+freed.Width > p.width {
		freed.Width = p.width - freed.X
	}
	if freed.Y+freed.Height > p.height {
		freed.Height = p.height - freed.Y
	}
	p.freeRects = append(p.freeRects, freed)
}

func (p *maxRectsPacker) reset() {
	p.freeRects = p.freeRects[:0]
	p.freeRects = append(p.freeRects, Region{X: 0, Y: 0, Width: p.width, Height: p.height})
}

// splitFree carves the used rectangle out of every overlapping free
// rectangle, keeping up to four remainders each, then prunes free
// rectangles fully contained in another.
func (p *maxRectsPacker) splitFree(used Region) {
	next := p.freeRects[:0:0]
	for _, fr := range p.freeRects {
		if !fr.Overlaps(used) {
			next = append(next, fr)
			continue
		}
		// Left remainder.
		if used.X > fr.X {
			next = append(next, Region{
				X: fr.X, Y: fr.Y,
				Width: used.X - fr.X, Height: fr.Height,
			})
		}
		// Right remainder.
		if used.X+used.Width < fr.X+fr.Width {
			next = append(next, Region{
				X: used.X + used.Width, Y: fr.Y,
				Width: fr.X + fr.Width - (used.X + used.Width), Height: fr.Height,
			})
		}
		// Top remainder.
		if used.Y > fr.Y {
			next = append(next, Region{
				X: fr.X, Y: fr.Y,
				Width: fr.Width, Height: used.Y - fr.Y,
			})
		}
		// Bottom remainder.
		if used.Y+used.Height < fr.Y+fr.Height {
			next = append(next, Region{
				X: fr.X, Y: used.Y + used.Height,
				Width: fr.Width, Height: fr.Y + fr.Height - (used.Y + used.Height),
			})
		}
	}
	p.freeRects = pruneContained(next)
}

// pruneContained removes free rectangles fully contained in another.
func pruneContained(rects []Region) []Region {
	out := make([]Region, 0, len(rects))
	for i, r := range rects {
		contained := false
		for j, o := range rects {
			if i == j {
				continue
			}
			if o.ContainsRegion(r) && (r != o || i > j) {
				contained = true
				break
			}
		}
		if !contained {
			out = append(out, r)
		}
	}
	return out
}
