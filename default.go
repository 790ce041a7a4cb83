package batch

import "sync/atomic"

// defaultPtr stores the process-wide default dispatcher. It is explicit
// process-wide state, not hidden singleton magic: lazily constructed on
// first use and torn down only via ResetDefault, so tests can reset
// cleanly.
var defaultPtr atomic.Pointer[Dispatcher]

// Default returns the process-wide default dispatcher, creating it with
// the default configuration on first use.
func Default() *Dispatcher {
	if d := defaultPtr.Load(); d != nil {
		return d
	}
	d := New()
	if defaultPtr.CompareAndSwap(nil, d) {
		return d
	}
	return defaultPtr.Load()
}

// ResetDefault tears down the default dispatcher. Its batches are
// cleared and the next Default call constructs a fresh instance. The
// old instance's allocator is not disposed; callers that shared it keep
// a valid reference.
func ResetDefault() {
	if d := defaultPtr.Swap(nil); d != nil {
		d.Clear()
	}
}
