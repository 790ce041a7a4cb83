package batch

import (
	"fmt"
	"time"
)

// BatchState tracks a batch through its lifecycle.
type BatchState uint8

// Batch lifecycle states. A batch accepts items while Open, stops at
// Closed (size cap reached or explicit flush), becomes Rendered once its
// draws are submitted, and Disposed when the dispatcher clears it.
const (
	BatchOpen BatchState = iota
	BatchClosed
	BatchRendered
	BatchDisposed
)

// String returns the state name.
func (s BatchState) String() string {
	switch s {
	case BatchOpen:
		return "open"
	case BatchClosed:
		return "closed"
	case BatchRendered:
		return "rendered"
	case BatchDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(s))
	}
}

// Batch is an ordered set of renderables sharing one draw-state key,
// submitted together to minimize draw calls. Items keep insertion order;
// the batch holds non-owning references.
type Batch struct {
	id          int64
	key         BatchKey
	items       []Renderable
	canInstance bool
	bounds      Rect
	createdAt   time.Time
	state       BatchState
}

// ID returns the batch identifier, unique within its grouper.
func (b *Batch) ID() int64 { return b.id }

// Key returns the draw-state key shared by all items.
func (b *Batch) Key() BatchKey { return b.key }

// Len returns the number of items in the batch.
func (b *Batch) Len() int { return len(b.items) }

// Items returns the batch contents in insertion order. The slice is
// shared; callers must not mutate it.
func (b *Batch) Items() []Renderable { return b.items }

// CanInstance reports whether the batch qualifies for instanced
// rendering: at least the instancing threshold of items, all sharing
// identical texture and blend state.
func (b *Batch) CanInstance() bool { return b.canInstance }

// Bounds returns the aggregate bounding rectangle of all items.
func (b *Batch) Bounds() Rect { return b.bounds }

// CreatedAt returns when the batch was opened.
func (b *Batch) CreatedAt() time.Time { return b.createdAt }

// State returns the batch lifecycle state.
func (b *Batch) State() BatchState { return b.state }

// append adds an item and maintains the aggregate bounds and the
// instancing flag. threshold is the instancing threshold in effect.
func (b *Batch) append(r Renderable, threshold int) {
	b.items = append(b.items, r)
	b.bounds = b.bounds.Union(r.Bounds())

	if !b.canInstance && len(b.items) >= threshold {
		b.canInstance = b.uniformInstanceState()
	}
}

// uniformInstanceState verifies every item shares the first item's
// texture and blend mode. Key equality already guarantees this; the
// check guards against renderables whose state mutated after
// classification.
func (b *Batch) uniformInstanceState() bool {
	if len(b.items) == 0 {
		return false
	}
	tex := b.items[0].TextureID()
	blend := b.items[0].BlendMode()
	for _, it := range b.items[1:] {
		if it.TextureID() != tex || it.BlendMode() != blend {
			return false
		}
	}
	return true
}

// close stops the batch from accepting items.
func (b *Batch) close() {
	if b.state == BatchOpen {
		b.state = BatchClosed
	}
}

// markRendered records that the batch's draws were submitted.
func (b *Batch) markRendered() {
	if b.state == BatchOpen || b.state == BatchClosed {
		b.state = BatchRendered
	}
}

// dispose drops the item references and retires the batch.
func (b *Batch) dispose() {
	b.items = nil
	b.state = BatchDisposed
}
