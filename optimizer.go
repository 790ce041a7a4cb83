package batch

import "github.com/gogpu/batch/internal/logging"

// Optimizer merges adjacent same-key batches to reduce draw-call count.
//
// Optimizer is not safe for concurrent use.
type Optimizer struct {
	grouper      *Grouper
	events       *Events
	epsilon      float64
	maxBatchSize int
}

// NewOptimizer creates an optimizer over the grouper's batches. eps is
// the maximum gap, in pixels, at which two batch bounds count as
// adjacent; non-positive eps uses the default.
func NewOptimizer(g *Grouper, events *Events, eps float64) *Optimizer {
	if eps <= 0 {
		eps = defaultMergeEpsilon
	}
	return &Optimizer{
		grouper:      g,
		events:       events,
		epsilon:      eps,
		maxBatchSize: g.maxBatchSize,
	}
}

// OptimizeBatches scans batches sharing an identical key and merges
// pairs whose aggregate bounds touch within the epsilon gap. The pass
// never raises the batch count, never drops or duplicates an item, and
// skips merges that would exceed the size cap. Rendered and disposed
// batches are left untouched. A batch-optimized notification carries
// the before/after counts.
func (o *Optimizer) OptimizeBatches() {
	batches := o.grouper.batches
	before := len(batches)

	byKey := make(map[BatchKey][]*Batch)
	for _, b := range batches {
		// Only batches that have not been rendered may move items:
		// merging into a Rendered batch would strand the items behind
		// the render pass, and merging a Rendered batch into an open
		// one would submit its items twice.
		if b.state != BatchOpen && b.state != BatchClosed {
			continue
		}
		byKey[b.key] = append(byKey[b.key], b)
	}

	dead := make(map[*Batch]bool)
	for _, group := range byKey {
		if len(group) < 2 {
			continue
		}
		// Greedy forward merge: fold each later batch into the
		// earliest compatible survivor. Item order within the key is
		// preserved because later batches append after earlier ones.
		for i := 0; i < len(group); i++ {
			dst := group[i]
			if dead[dst] {
				continue
			}
			for j := i + 1; j < len(group); j++ {
				src := group[j]
				if dead[src] {
					continue
				}
				if dst.Len()+src.Len() > o.maxBatchSize {
					continue
				}
				if !dst.bounds.touches(src.bounds, o.epsilon) {
					continue
				}
				o.merge(dst, src)
				dead[src] = true
			}
		}
	}

	o.grouper.removeBatches(dead)
	after := len(o.grouper.batches)

	if o.events != nil {
		o.events.BatchOptimized.Publish(BatchOptimizedEvent{BeforeCount: before, AfterCount: after})
	}
	if len(dead) > 0 {
		logging.Logger().Debug("batch: merged adjacent batches",
			"before", before, "after", after)
	}
}

// merge appends src's items to dst and refreshes dst's aggregate state.
func (o *Optimizer) merge(dst, src *Batch) {
	dst.items = append(dst.items, src.items...)
	dst.bounds = dst.bounds.Union(src.bounds)
	src.items = nil

	if !dst.canInstance && dst.Len() >= o.grouper.instancingThreshold {
		dst.canInstance = dst.uniformInstanceState()
	}
}
