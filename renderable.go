package batch

// Point represents a 2D point.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Rect is an axis-aligned rectangle with a top-left origin.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Empty returns true for a rectangle with no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Union returns the smallest rectangle containing both r and o.
// An empty rectangle is the identity.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1 := max(r.X+r.W, o.X+o.W)
	y1 := max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// touches reports whether the rectangles overlap or their edges come
// within eps of each other.
func (r Rect) touches(o Rect, eps float64) bool {
	return r.X-eps <= o.X+o.W && o.X-eps <= r.X+r.W &&
		r.Y-eps <= o.Y+o.H && o.Y-eps <= r.Y+r.H
}

// BlendMode names a fixed-function blending equation.
type BlendMode string

// Common blend modes.
const (
	BlendNormal   BlendMode = "normal"
	BlendAdd      BlendMode = "add"
	BlendMultiply BlendMode = "multiply"
	BlendScreen   BlendMode = "screen"
)

// Renderable is the structural contract for objects the engine can
// batch. The engine holds references only for the duration of a pass; it
// never owns a renderable and never calls Dispose on one.
//
// TextureID, BlendMode and ShaderID may return zero values for objects
// that do not use the corresponding state; zero values group together
// like any other key.
type Renderable interface {
	// ID identifies the renderable for diagnostics.
	ID() string

	// Bounds returns the object's axis-aligned bounding rectangle.
	Bounds() Rect

	// Visible reports whether the object should be drawn. Grouping
	// includes invisible objects; visibility is a rendering concern.
	Visible() bool

	// ZIndex is the paint-order layer. Batching never reorders items
	// across different z-indices.
	ZIndex() int

	// TextureID names the texture the object samples, or "".
	TextureID() string

	// BlendMode returns the object's blending equation.
	BlendMode() BlendMode

	// ShaderID names the object's shader program, or "".
	ShaderID() string

	// Render issues the object's draw operations against ctx.
	Render(ctx GraphicsContext)

	// HitTest reports whether the point lies inside the object.
	HitTest(p Point) bool

	// Dispose releases caller-owned resources. The engine never calls
	// this.
	Dispose()
}

// GraphicsContext is the output collaborator: a thin surface over
// platform draw primitives. Implementations live outside the engine
// (see integration/gpubridge for one). A nil context is always valid;
// every engine operation degrades to a no-op rather than failing when
// the presentation surface is unavailable.
type GraphicsContext interface {
	// BindTexture selects the texture for subsequent submissions.
	BindTexture(textureID string)

	// SetBlend selects the blending equation.
	SetBlend(mode BlendMode)

	// SetProgram selects the shader program.
	SetProgram(shaderID string)

	// SubmitElements issues one draw call covering count elements.
	SubmitElements(count int)

	// SubmitInstanced issues one draw call repeating count elements
	// for instances instances.
	SubmitInstanced(count, instances int)
}
