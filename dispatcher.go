package batch

import (
	"fmt"
	"image"

	"github.com/gogpu/batch/atlas"
	"github.com/gogpu/batch/internal/logging"
)

// DispatcherStats is a snapshot of dispatcher counters.
type DispatcherStats struct {
	// TotalItems is the number of currently tracked items. Rendering
	// does not reset it; Clear does.
	TotalItems int

	// TotalBatches is the number of currently tracked batches.
	TotalBatches int

	// DrawCalls accumulates submissions across render passes until
	// Clear.
	DrawCalls int
}

// Dispatcher is the engine façade: it owns a grouper, an optimizer, a
// spatial grouper and (unless injected) an atlas allocator, and
// orchestrates them against an external graphics context.
//
// Dispatcher is not safe for concurrent use.
type Dispatcher struct {
	events    *Events
	grouper   *Grouper
	optimizer *Optimizer
	spatial   *SpatialGrouper
	allocator *atlas.Allocator

	drawCalls int
}

// New creates a dispatcher. Options follow the functional pattern; see
// Option. New panics only on an invalid WithAtlasConfig value, which is
// a programming error.
func New(opts ...Option) *Dispatcher {
	o := defaultDispatcherOptions()
	for _, opt := range opts {
		opt(&o)
	}

	events := o.events
	if events == nil {
		events = NewEvents()
	}

	alloc := o.allocator
	if alloc == nil {
		cfg := atlas.DefaultConfig()
		if o.atlasConfig != nil {
			cfg = *o.atlasConfig
		}
		var err error
		alloc, err = atlas.NewAllocator(cfg)
		if err != nil {
			panic(fmt.Sprintf("batch: invalid atlas config: %v", err))
		}
	}

	g := NewGrouper(o.maxBatchSize, o.instancingThreshold, events)
	return &Dispatcher{
		events:    events,
		grouper:   g,
		optimizer: NewOptimizer(g, events, o.mergeEpsilon),
		spatial:   NewSpatialGrouper(o.clusterRadius),
		allocator: alloc,
	}
}

// Events returns the dispatcher's notification topics.
func (d *Dispatcher) Events() *Events { return d.events }

// Allocator returns the atlas allocator, shared or owned.
func (d *Dispatcher) Allocator() *atlas.Allocator { return d.allocator }

// Batches returns the tracked batches in creation order.
func (d *Dispatcher) Batches() []*Batch { return d.grouper.Batches() }

// AddToBatch classifies the renderable and appends it to the matching
// batch, opening one if needed.
func (d *Dispatcher) AddToBatch(r Renderable) {
	d.grouper.AddToBatch(r)
}

// OptimizeBatches merges adjacent same-key batches. See
// Optimizer.OptimizeBatches.
func (d *Dispatcher) OptimizeBatches() {
	d.optimizer.OptimizeBatches()
}

// GroupSpatially clusters renderables by z-layer and proximity. The
// pass is independent of the tracked batches.
func (d *Dispatcher) GroupSpatially(rs []Renderable) []SpatialGroup {
	return d.spatial.PerformGrouping(rs)
}

// SpatialStats returns accumulated spatial grouping statistics.
func (d *Dispatcher) SpatialStats() SpatialStats { return d.spatial.Stats() }

// RenderBatches submits each tracked batch against the context: one
// instanced draw call for instancing-eligible batches, one draw per
// item otherwise. Batches advance to the Rendered state.
//
// A nil context is a valid degraded collaborator: the pass is a no-op
// that never panics, batch states still advance, and item counts stay
// observable via Stats.
func (d *Dispatcher) RenderBatches(ctx GraphicsContext) {
	for _, b := range d.grouper.batches {
		if b.state == BatchRendered || b.state == BatchDisposed || b.Len() == 0 {
			continue
		}
		b.close()

		if ctx == nil {
			b.markRendered()
			continue
		}

		if b.CanInstance() {
			key := b.Key()
			ctx.BindTexture(key.TextureID)
			ctx.SetBlend(key.Blend)
			ctx.SetProgram(key.ShaderID)
			ctx.SubmitInstanced(1, b.Len())
			d.drawCalls++

			d.events.InstancedRenderExecuted.Publish(InstancedRenderEvent{
				BatchID:       b.ID(),
				InstanceCount: b.Len(),
			})
		} else {
			for _, r := range b.Items() {
				r.Render(ctx)
				d.drawCalls++
			}
		}
		b.markRendered()
	}
}

// Stats returns a snapshot of the dispatcher counters.
func (d *Dispatcher) Stats() DispatcherStats {
	return DispatcherStats{
		TotalItems:   d.grouper.ItemCount(),
		TotalBatches: d.grouper.Len(),
		DrawCalls:    d.drawCalls,
	}
}

// AddTextureToAtlas packs a texture into the shared atlas and fires a
// texture-atlas-updated notification on success. Returns nil when the
// request exceeds the maximum atlas dimensions.
func (d *Dispatcher) AddTextureToAtlas(id string, width, height int, pixels *image.RGBA) *atlas.Entry {
	e := d.allocator.AddTexture(id, width, height, pixels)
	if e != nil {
		d.events.TextureAtlasUpdated.Publish(TextureAtlasUpdatedEvent{TextureID: id, Entry: e})
	}
	return e
}

// TextureAtlas looks up a texture in the shared atlas, or nil.
func (d *Dispatcher) TextureAtlas(id string) *atlas.Entry {
	return d.allocator.GetTexture(id)
}

// Clear disposes all tracked batches and resets the queue and counters.
// The shared atlas is untouched; its lifetime is independent and it may
// be shared across dispatcher instances.
func (d *Dispatcher) Clear() {
	d.grouper.Clear()
	d.drawCalls = 0
	logging.Logger().Debug("batch: dispatcher cleared")
}
