package atlas

// packer is the bin-packing strategy contract. Implementations place
// axis-aligned rectangles inside a fixed pageW x pageH area, applying the
// configured padding to each request, and report placements without the
// padding included.
//
// All three strategies (maxrects, shelf, guillotine) satisfy this one
// contract and are tested against it.
type packer interface {
	// insert finds space for a w x h rectangle. Returns the placed
	// region and true, or a zero region and false when no free space
	// is large enough. Zero-area requests succeed as degenerate
	// placements.
	insert(w, h int) (Region, bool)

	// probe reports whether a w x h rectangle would fit, and how
	// tightly, without committing a placement. Lower scores are
	// tighter fits; scores are only comparable between packers of the
	// same strategy. A probe that reports a fit guarantees the next
	// insert of the same size succeeds.
	probe(w, h int) (score int, ok bool)

	// free returns a previously placed region to the free pool so a
	// later insert of equal or smaller size may reuse it. Strategies
	// that cannot reuse freed space (shelf) treat this as a no-op;
	// OptimizeAtlas compensates with a full repack.
	free(r Region)

	// reset discards all placements, making the full area free again.
	reset()
}

// footprint returns the padded request size, clamped to the page so
// padding is not demanded past the page edge. A page-sized texture
// therefore still fits; padding only separates it from neighbors.
func footprint(w, h, padding, pageW, pageH int) (int, int) {
	pw := w + padding
	if pw > pageW {
		pw = pageW
	}
	ph := h + padding
	if ph > pageH {
		ph = pageH
	}
	return pw, ph
}

// newPacker creates the strategy selected by the configuration.
func newPacker(alg Algorithm, width, height, padding int) packer {
	switch alg {
	case AlgorithmShelf:
		return newShelfPacker(width, height, padding)
	case AlgorithmGuillotine:
		return newGuillotinePacker(width, height, padding)
	default:
		return newMaxRectsPacker(width, height, padding)
	}
}
