// Package batch groups drawable 2D objects into a minimal set of GPU
// draw submissions.
//
// # Overview
//
// Renderables are classified by draw state (texture, blend mode, shader,
// z-index) into size-capped batches. Batches large enough and uniform
// enough are flagged for instancing, so one submission covers the whole
// batch instead of one per item. A separate spatial grouper clusters
// renderables by z-layer and proximity for optimization passes, and the
// optimizer merges adjacent same-key batches to cut draw calls further.
//
// # Quick Start
//
//	import "github.com/gogpu/batch"
//
//	d := batch.New()
//	for _, sprite := range sprites {
//	    d.AddToBatch(sprite)
//	}
//	d.RenderBatches(ctx) // ctx may be nil; rendering degrades to a no-op
//
//	stats := d.Stats()
//	fmt.Println(stats.DrawCalls)
//
// Texture packing is handled by the atlas sub-package; the dispatcher
// exposes pass-through helpers (AddTextureToAtlas, TextureAtlas) against
// a shared allocator.
//
// # Architecture
//
// The package is organized into:
//   - Public API: Dispatcher, Grouper, SpatialGrouper, Optimizer, Batch
//   - atlas: texture-atlas allocator with pluggable bin packing
//   - event: typed publish/subscribe topics
//   - integration/gpubridge: draw submission through gogpu/gpucontext
//
// The engine is single-threaded and synchronous: every operation runs to
// completion on the caller's goroutine, and nothing here locks. Hosts
// with multiple goroutines must serialize calls per instance.
package batch
