package batch

// Shared test doubles for the engine tests.

// fakeRenderable implements Renderable with settable draw state.
type fakeRenderable struct {
	id       string
	bounds   Rect
	visible  bool
	z        int
	tex      string
	blend    BlendMode
	shader   string
	rendered int
	disposed bool
}

func (f *fakeRenderable) ID() string           { return f.id }
func (f *fakeRenderable) Bounds() Rect         { return f.bounds }
func (f *fakeRenderable) Visible() bool        { return f.visible }
func (f *fakeRenderable) ZIndex() int          { return f.z }
func (f *fakeRenderable) TextureID() string    { return f.tex }
func (f *fakeRenderable) BlendMode() BlendMode { return f.blend }
func (f *fakeRenderable) ShaderID() string     { return f.shader }
func (f *fakeRenderable) HitTest(p Point) bool {
	return p.X >= f.bounds.X && p.X < f.bounds.X+f.bounds.W &&
		p.Y >= f.bounds.Y && p.Y < f.bounds.Y+f.bounds.H
}
func (f *fakeRenderable) Dispose() { f.disposed = true }

func (f *fakeRenderable) Render(ctx GraphicsContext) {
	f.rendered++
	if ctx != nil {
		ctx.BindTexture(f.tex)
		ctx.SubmitElements(1)
	}
}

// sprite builds a visible renderable with the given texture at a
// position.
func sprite(id, tex string, x, y float64) *fakeRenderable {
	return &fakeRenderable{
		id:      id,
		bounds:  Rect{X: x, Y: y, W: 10, H: 10},
		visible: true,
		tex:     tex,
		blend:   BlendNormal,
	}
}

// recordingContext implements GraphicsContext and records every call.
type recordingContext struct {
	binds     []string
	blends    []BlendMode
	programs  []string
	submits   int
	instanced []int // Instance counts of SubmitInstanced calls.
}

func (c *recordingContext) BindTexture(id string)      { c.binds = append(c.binds, id) }
func (c *recordingContext) SetBlend(mode BlendMode)    { c.blends = append(c.blends, mode) }
func (c *recordingContext) SetProgram(id string)       { c.programs = append(c.programs, id) }
func (c *recordingContext) SubmitElements(count int)   { c.submits++ }
func (c *recordingContext) SubmitInstanced(count, instances int) {
	c.instanced = append(c.instanced, instances)
}
