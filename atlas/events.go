package atlas

import "github.com/gogpu/batch/event"

// AtlasCreatedEvent is published when the allocator opens a new page.
type AtlasCreatedEvent struct {
	AtlasID int
	Width   int
	Height  int
}

// MemoryPressureEvent is published before an LRU eviction pass runs.
type MemoryPressureEvent struct {
	// TotalMemory is the current entry pixel memory in bytes.
	TotalMemory uint64
	// Threshold is the configured memory limit in bytes.
	Threshold uint64
}

// TextureAddedEvent is published after a texture is packed.
type TextureAddedEvent struct {
	TextureID string
	Entry     *Entry
}

// TextureRemovedEvent is published after a texture is removed or evicted.
type TextureRemovedEvent struct {
	TextureID string
	// Evicted is true when the removal was an LRU eviction rather than
	// an explicit RemoveTexture call.
	Evicted bool
}

// Events groups the allocator's notification topics.
type Events struct {
	AtlasCreated   event.Topic[AtlasCreatedEvent]
	MemoryPressure event.Topic[MemoryPressureEvent]
	TextureAdded   event.Topic[TextureAddedEvent]
	TextureRemoved event.Topic[TextureRemovedEvent]
}
