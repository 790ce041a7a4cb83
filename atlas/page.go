package atlas

import (
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"
)

// bytesPerPixel is the pixel stride of page surfaces (RGBA8).
const bytesPerPixel = 4

// Entry records where a texture lives inside an atlas page.
type Entry struct {
	// TextureID is the caller-supplied texture identifier.
	TextureID string

	// AtlasID identifies the owning page.
	AtlasID int

	// Region is the packed rectangle in page pixels.
	Region Region

	// UV holds the normalized coordinates of Region within the page,
	// recomputed whenever the entry moves during a repack.
	UV UV

	// LastUsed is the time of the most recent add or lookup. Eviction
	// order is driven by the allocator's recency list; the timestamp is
	// informational.
	LastUsed time.Time
}

// Page is a single atlas surface. Textures are packed into the page by
// the allocator's strategy; the backing pixels live in an RGBA surface
// that integration layers upload to the GPU when Version changes.
type Page struct {
	id      int
	format  gputypes.TextureFormat
	size    gputypes.Extent3D
	surface *image.RGBA
	packer  packer
	entries map[string]*Entry

	lastOptimized time.Time
	version       int
}

func newPage(id, width, height int, format gputypes.TextureFormat, alg Algorithm, padding int) *Page {
	return &Page{
		id:      id,
		format:  format,
		size:    gputypes.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		surface: image.NewRGBA(image.Rect(0, 0, width, height)),
		packer:  newPacker(alg, width, height, padding),
		entries: make(map[string]*Entry),
	}
}

// ID returns the page identifier.
func (p *Page) ID() int { return p.id }

// Width returns the page width in pixels.
func (p *Page) Width() int { return int(p.size.Width) }

// Height returns the page height in pixels.
func (p *Page) Height() int { return int(p.size.Height) }

// Format returns the pixel format of the page surface.
func (p *Page) Format() gputypes.TextureFormat { return p.format }

// Extent returns the page dimensions as a GPU extent.
func (p *Page) Extent() gputypes.Extent3D { return p.size }

// Surface returns the backing pixel surface. Callers must treat it as
// read-only; the allocator owns the pixels.
func (p *Page) Surface() *image.RGBA { return p.surface }

// Version increments on every surface mutation. Integration layers use
// it to detect when the page needs a GPU re-upload.
func (p *Page) Version() int { return p.version }

// EntryCount returns the number of textures packed on the page.
func (p *Page) EntryCount() int { return len(p.entries) }

// LastOptimized returns when the page was last repacked, or the zero
// time if it never was.
func (p *Page) LastOptimized() time.Time { return p.lastOptimized }

// Utilization returns the fraction of page area covered by entries,
// from 0.0 to 1.0.
func (p *Page) Utilization() float64 {
	total := p.Width() * p.Height()
	if total == 0 {
		return 0
	}
	used := 0
	for _, e := range p.entries {
		used += e.Region.Area()
	}
	return float64(used) / float64(total)
}

// place records an entry on the page and blits its pixels. It enforces
// the packing invariants: the rect must lie inside the page and must not
// overlap any used rect. Violations are bugs in the packing strategy and
// panic.
func (p *Page) place(e *Entry, pixels *image.RGBA) {
	r := e.Region
	if r.X < 0 || r.Y < 0 || r.X+r.Width > p.Width() || r.Y+r.Height > p.Height() {
		panic(fmt.Sprintf("atlas: invariant violation: %v outside %dx%d page %d",
			r, p.Width(), p.Height(), p.id))
	}
	for _, other := range p.entries {
		if other.TextureID != e.TextureID && r.Overlaps(other.Region) {
			panic(fmt.Sprintf("atlas: invariant violation: %v overlaps %v (%q) on page %d",
				r, other.Region, other.TextureID, p.id))
		}
	}

	p.entries[e.TextureID] = e
	e.AtlasID = p.id
	e.UV = uvFor(r, p.Width(), p.Height())
	p.blit(r, pixels)
}

// blit copies source pixels into the region, clamping the source to the
// region size. A nil source leaves the surface untouched but still bumps
// the version so reserved space is not stale on the GPU.
func (p *Page) blit(r Region, pixels *image.RGBA) {
	p.version++
	if pixels == nil || !r.IsValid() {
		return
	}
	sr := pixels.Bounds()
	if sr.Dx() > r.Width {
		sr.Max.X = sr.Min.X + r.Width
	}
	if sr.Dy() > r.Height {
		sr.Max.Y = sr.Min.Y + r.Height
	}
	draw.Copy(p.surface, image.Pt(r.X, r.Y), pixels, sr, draw.Src, nil)
}

// extract copies the entry's current pixels out of the surface.
func (p *Page) extract(e *Entry) *image.RGBA {
	r := e.Region
	out := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	if r.IsValid() {
		sr := image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
		draw.Copy(out, image.Pt(0, 0), p.surface, sr, draw.Src, nil)
	}
	return out
}

// clearSurface replaces the surface with a fresh zeroed one.
func (p *Page) clearSurface() {
	p.surface = image.NewRGBA(image.Rect(0, 0, p.Width(), p.Height()))
	p.version++
}
