package atlas

// shelfPacker implements a simple shelf-packing algorithm.
//
// The area is divided into horizontal "shelves". Each new rectangle is
// placed on the first shelf with enough remaining width and a compatible
// height, or a new shelf is created below the last one. Fast and cheap,
// at the cost of wasted space above short items on tall shelves.
//
// Freed regions are not reused: shelves only grow rightward. A full
// repack (Allocator.OptimizeAtlas) reclaims the space.
type shelfPacker struct {
	width   int
	height  int
	padding int

	shelves []shelf
}

// shelf represents a horizontal strip.
type shelf struct {
	y      int // Top Y coordinate of this shelf
	height int // Height of this shelf (tallest item so far)
	nextX  int // Next available X position on this shelf
}

func newShelfPacker(width, height, padding int) *shelfPacker {
	return &shelfPacker{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]shelf, 0, 16),
	}
}

func (p *shelfPacker) insert(w, h int) (Region, bool) {
	if w == 0 || h == 0 {
		return Region{Width: w, Height: h}, true
	}

	if w > p.width || h > p.height {
		return Region{}, false
	}
	paddedW, paddedH := footprint(w, h, p.padding, p.width, p.height)

	// Try existing shelves.
	for i := range p.shelves {
		s := &p.shelves[i]
		if s.nextX+paddedW > p.width {
			continue
		}
		if paddedH > s.height {
			// Taller than the shelf. The last shelf may grow if
			// there is room below; earlier shelves are fixed.
			if i != len(p.shelves)-1 || s.y+paddedH > p.height {
				continue
			}
			s.height = paddedH
		}
		r := Region{X: s.nextX, Y: s.y, Width: w, Height: h}
		s.nextX += paddedW
		return r, true
	}

	// Open a new shelf below the last one.
	newY := 0
	if n := len(p.shelves); n > 0 {
		last := p.shelves[n-1]
		newY = last.y + last.height
	}
	if newY+paddedH > p.height {
		return Region{}, false
	}
	p.shelves = append(p.shelves, shelf{y: newY, height: paddedH, nextX: paddedW})
	return Region{X: 0, Y: newY, Width: w, Height: h}, true
}

// probe mirrors insert's first-fit shelf choice. The score is the
// vertical waste above the item on the chosen shelf; opening a new
// shelf scores the full page height so reuse is always preferred.
func (p *shelfPacker) probe(w, h int) (int, bool) {
	if w == 0 || h == 0 {
		return 0, true
	}
	if w > p.width || h > p.height {
		return 0, false
	}
	paddedW, paddedH := footprint(w, h, p.padding, p.width, p.height)

	for i := range p.shelves {
		s := &p.shelves[i]
		if s.nextX+paddedW > p.width {
			continue
		}
		if paddedH > s.height {
			if i != len(p.shelves)-1 || s.y+paddedH > p.height {
				continue
			}
			// Growing the last shelf: no waste above the item.
			return 0, true
		}
		return s.height - paddedH, true
	}

	newY := 0
	if n := len(p.shelves); n > 0 {
		last := p.shelves[n-1]
		newY = last.y + last.height
	}
	if newY+paddedH > p.height {
		return 0, false
	}
	return p.height, true
}

func (p *shelfPacker) free(Region) {
	// Shelves cannot reclaim interior space; repack handles it.
}

func (p *shelfPacker) reset() {
	p.shelves = p.shelves[:0]
}
