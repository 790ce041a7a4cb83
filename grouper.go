package batch

import (
	"time"

	"github.com/gogpu/batch/internal/logging"
)

// Grouper classifies renderables by draw-state key and accumulates them
// into size-capped batches.
//
// Grouper is not safe for concurrent use.
type Grouper struct {
	maxBatchSize        int
	instancingThreshold int
	events              *Events

	open    map[BatchKey]*Batch
	batches []*Batch // Creation order.

	nextBatchID int64
	itemCount   int
}

// NewGrouper creates a grouper. events may be nil to disable
// notifications; size and threshold fall back to the defaults when not
// positive.
func NewGrouper(maxBatchSize, instancingThreshold int, events *Events) *Grouper {
	if maxBatchSize <= 0 {
		maxBatchSize = DefaultMaxBatchSize
	}
	if instancingThreshold <= 0 {
		instancingThreshold = DefaultInstancingThreshold
	}
	return &Grouper{
		maxBatchSize:        maxBatchSize,
		instancingThreshold: instancingThreshold,
		events:              events,
		open:                make(map[BatchKey]*Batch),
	}
}

// AddToBatch appends the renderable to the open batch matching its key.
// The first item of a new key opens a batch; a batch at capacity is
// closed and a continuation batch with the same key opened. Both fire a
// batch-created notification.
func (g *Grouper) AddToBatch(r Renderable) *Batch {
	key := Classify(r)

	b := g.open[key]
	if b != nil && b.state != BatchOpen {
		// Closed or already rendered; only Open batches accept items.
		b = nil
	}
	if b != nil && b.Len() >= g.maxBatchSize {
		b.close()
		logging.Logger().Debug("batch: size cap reached, splitting",
			"batch", b.ID(), "key", key.String(), "size", b.Len())
		b = nil
	}
	if b == nil {
		b = g.newBatch(key)
	}

	b.append(r, g.instancingThreshold)
	g.itemCount++
	return b
}

// Batches returns all tracked batches in creation order, including
// closed and rendered ones.
func (g *Grouper) Batches() []*Batch {
	out := make([]*Batch, len(g.batches))
	copy(out, g.batches)
	return out
}

// Len returns the number of tracked batches.
func (g *Grouper) Len() int { return len(g.batches) }

// ItemCount returns the total number of items across tracked batches.
func (g *Grouper) ItemCount() int { return g.itemCount }

// Clear disposes all batches and resets counters. The shared atlas is
// untouched; its lifetime is independent of any grouper.
func (g *Grouper) Clear() {
	for _, b := range g.batches {
		b.dispose()
	}
	g.batches = g.batches[:0]
	g.open = make(map[BatchKey]*Batch)
	g.itemCount = 0
}

func (g *Grouper) newBatch(key BatchKey) *Batch {
	g.nextBatchID++
	b := &Batch{
		id:        g.nextBatchID,
		key:       key,
		createdAt: time.Now(),
		state:     BatchOpen,
	}
	g.open[key] = b
	g.batches = append(g.batches, b)

	if g.events != nil {
		g.events.BatchCreated.Publish(BatchCreatedEvent{BatchID: b.id, Key: key})
	}
	return b
}

// removeBatches drops the given batches from tracking after a merge
// pass. Item counts are preserved by the caller moving items before
// removal.
func (g *Grouper) removeBatches(dead map[*Batch]bool) {
	if len(dead) == 0 {
		return
	}
	kept := g.batches[:0]
	for _, b := range g.batches {
		if dead[b] {
			if g.open[b.key] == b {
				delete(g.open, b.key)
			}
			b.dispose()
			continue
		}
		kept = append(kept, b)
	}
	g.batches = kept
}
