package batch

import "fmt"

// BatchKey is the draw-state signature that defines batch membership:
// renderables with equal keys may share a batch. ZBucket is the exact
// z-index; items on different layers never mix, which preserves paint
// order across batches.
type BatchKey struct {
	TextureID string
	Blend     BlendMode
	ShaderID  string
	ZBucket   int
}

// Classify computes the batch key for a renderable. It is a pure
// function of the renderable's draw state.
func Classify(r Renderable) BatchKey {
	return BatchKey{
		TextureID: r.TextureID(),
		Blend:     r.BlendMode(),
		ShaderID:  r.ShaderID(),
		ZBucket:   r.ZIndex(),
	}
}

// String returns a string representation of the key.
func (k BatchKey) String() string {
	return fmt.Sprintf("Key(tex=%q blend=%q shader=%q z=%d)", k.TextureID, k.Blend, k.ShaderID, k.ZBucket)
}
