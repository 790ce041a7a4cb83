package atlas

import "fmt"

// Region represents a rectangular region within an atlas page.
type Region struct {
	// X is the left edge of the region.
	X int
	// Y is the top edge of the region.
	Y int
	// Width is the region width.
	Width int
	// Height is the region height.
	Height int
}

// IsValid returns true if the region has positive dimensions.
func (r Region) IsValid() bool {
	return r.Width > 0 && r.Height > 0
}

// Area returns the region area in pixels.
func (r Region) Area() int {
	return r.Width * r.Height
}

// Contains returns true if the point (x, y) is inside the region.
func (r Region) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Overlaps returns true if the two regions share any interior area.
// Touching edges do not overlap.
func (r Region) Overlaps(o Region) bool {
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// ContainsRegion returns true if o lies fully inside r.
func (r Region) ContainsRegion(o Region) bool {
	return o.X >= r.X && o.Y >= r.Y &&
		o.X+o.Width <= r.X+r.Width && o.Y+o.Height <= r.Y+r.Height
}

// String returns a string representation of the region.
func (r Region) String() string {
	return fmt.Sprintf("Region(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// UV holds normalized [0,1] texture coordinates mapping an atlas
// sub-region for sampling. (U0,V0) is the top-left corner, (U1,V1) the
// bottom-right.
type UV struct {
	U0, V0 float64
	U1, V1 float64
}

// uvFor computes the normalized coordinates of r within a pageW x pageH
// surface.
func uvFor(r Region, pageW, pageH int) UV {
	if pageW <= 0 || pageH <= 0 {
		return UV{}
	}
	return UV{
		U0: float64(r.X) / float64(pageW),
		V0: float64(r.Y) / float64(pageH),
		U1: float64(r.X+r.Width) / float64(pageW),
		V1: float64(r.Y+r.Height) / float64(pageH),
	}
}
