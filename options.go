package batch

import "github.com/gogpu/batch/atlas"

// Default engine tuning values.
const (
	// DefaultMaxBatchSize caps the number of items per batch before a
	// split.
	DefaultMaxBatchSize = 10000

	// DefaultInstancingThreshold is the minimum batch size eligible
	// for instanced rendering.
	DefaultInstancingThreshold = 50

	// DefaultClusterRadius is the spatial grouping radius in pixels.
	DefaultClusterRadius = 100.0

	// defaultMergeEpsilon is the gap at which batch bounds still count
	// as adjacent for merging.
	defaultMergeEpsilon = 0.5
)

// Option configures a Dispatcher during creation.
//
// Example:
//
//	// Default configuration
//	d := batch.New()
//
//	// Shared allocator across dispatchers (dependency injection)
//	d := batch.New(batch.WithAllocator(alloc))
type Option func(*options)

// options holds optional configuration for Dispatcher creation.
type options struct {
	maxBatchSize        int
	instancingThreshold int
	clusterRadius       float64
	mergeEpsilon        float64
	allocator           *atlas.Allocator
	atlasConfig         *atlas.Config
	events              *Events
}

// defaultDispatcherOptions returns the default dispatcher options.
func defaultDispatcherOptions() options {
	return options{
		maxBatchSize:        DefaultMaxBatchSize,
		instancingThreshold: DefaultInstancingThreshold,
		clusterRadius:       DefaultClusterRadius,
		mergeEpsilon:        defaultMergeEpsilon,
	}
}

// WithMaxBatchSize caps batch size before a split. Values below one are
// ignored.
func WithMaxBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBatchSize = n
		}
	}
}

// WithInstancingThreshold sets the minimum batch size for instanced
// rendering. Values below one are ignored.
func WithInstancingThreshold(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.instancingThreshold = n
		}
	}
}

// WithClusterRadius sets the spatial grouping radius in pixels.
func WithClusterRadius(r float64) Option {
	return func(o *options) {
		if r > 0 {
			o.clusterRadius = r
		}
	}
}

// WithMergeEpsilon sets the adjacency gap for batch merging.
func WithMergeEpsilon(eps float64) Option {
	return func(o *options) {
		if eps > 0 {
			o.mergeEpsilon = eps
		}
	}
}

// WithAllocator shares an existing atlas allocator with the dispatcher.
// The allocator's lifetime stays independent: Dispatcher.Clear never
// touches it, and several dispatchers may share one.
func WithAllocator(a *atlas.Allocator) Option {
	return func(o *options) {
		o.allocator = a
	}
}

// WithAtlasConfig configures the dispatcher's own allocator. Ignored
// when WithAllocator is also given. Invalid configurations panic in New:
// a bad hardcoded config is a programming error.
func WithAtlasConfig(cfg atlas.Config) Option {
	return func(o *options) {
		o.atlasConfig = &cfg
	}
}

// WithEvents shares an existing event set, letting several components
// publish to the same subscribers.
func WithEvents(e *Events) Option {
	return func(o *options) {
		if e != nil {
			o.events = e
		}
	}
}
