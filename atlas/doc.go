// Package atlas packs many small textures into shared atlas surfaces to
// reduce texture binding changes during rendering.
//
// The Allocator manages a set of fixed-size pages. Each texture is placed
// on a page by a configurable bin-packing strategy (MaxRects, shelf or
// guillotine), receives normalized UV coordinates for sampling, and is
// tracked in least-recently-used order so the allocator can evict cold
// entries under memory pressure. Fragmented pages can be repacked in place
// with OptimizeAtlas.
//
// # Usage
//
//	alloc, err := atlas.NewAllocator(atlas.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	entry := alloc.AddTexture("sprite", 64, 64, pixels)
//	if entry == nil {
//	    // Request exceeded the maximum page dimensions.
//	}
//	uv := entry.UV // Normalized [0,1] coordinates within the page.
//
// # Error model
//
// Capacity conditions (oversized requests) and unknown ids return nil or
// false, never errors. Contract violations such as negative dimensions
// panic: they indicate a bug in the caller, and failing fast beats
// corrupting packing state.
//
// The allocator is not safe for concurrent use. The batching engine is
// single-threaded; multi-threaded hosts must serialize calls per instance.
package atlas
