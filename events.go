package batch

import (
	"github.com/gogpu/batch/atlas"
	"github.com/gogpu/batch/event"
)

// BatchCreatedEvent is published when a grouper opens a batch, including
// continuation batches after a size-cap split.
type BatchCreatedEvent struct {
	BatchID int64
	Key     BatchKey
}

// InstancedRenderEvent is published when a whole batch is submitted as a
// single instanced draw call.
type InstancedRenderEvent struct {
	BatchID       int64
	InstanceCount int
}

// BatchOptimizedEvent is published after a merge pass, carrying the
// batch counts around it.
type BatchOptimizedEvent struct {
	BeforeCount int
	AfterCount  int
}

// TextureAtlasUpdatedEvent is published when a dispatcher pass-through
// successfully adds a texture to the shared atlas.
type TextureAtlasUpdatedEvent struct {
	TextureID string
	Entry     *atlas.Entry
}

// Events groups the engine's notification topics. Allocator-level
// notifications (atlas-created, memory-pressure, texture-added/-removed)
// live on the allocator itself; see atlas.Allocator.Events.
type Events struct {
	BatchCreated            event.Topic[BatchCreatedEvent]
	InstancedRenderExecuted event.Topic[InstancedRenderEvent]
	BatchOptimized          event.Topic[BatchOptimizedEvent]
	TextureAtlasUpdated     event.Topic[TextureAtlasUpdatedEvent]
}

// NewEvents creates an empty event set.
func NewEvents() *Events {
	return &Events{}
}
