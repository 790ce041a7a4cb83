// Package event provides a minimal typed publish/subscribe primitive.
//
// A Topic carries one payload type; subscribers receive every published
// value synchronously, in subscription order, on the publisher's goroutine.
// Topics are not safe for concurrent use: the batching engine is
// single-threaded and hosts must serialize access per instance.
package event

// Topic is a typed event channel. The zero value is ready to use.
//
// Subscribe returns a cancel function that removes the subscriber; cancel
// is idempotent. Publishing to a topic with no subscribers is a no-op.
type Topic[T any] struct {
	subs   map[int]func(T)
	order  []int
	nextID int
}

// Subscribe registers fn to receive every subsequently published value.
// The returned cancel function removes the subscription.
func (t *Topic[T]) Subscribe(fn func(T)) (cancel func()) {
	if t.subs == nil {
		t.subs = make(map[int]func(T))
	}
	id := t.nextID
	t.nextID++
	t.subs[id] = fn
	t.order = append(t.order, id)

	return func() {
		if _, ok := t.subs[id]; !ok {
			return
		}
		delete(t.subs, id)
		for i, v := range t.order {
			if v == id {
				t.order = append(t.order[:i], t.order[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers v to all current subscribers in subscription order.
// A subscriber may cancel itself (or others) during delivery; the
// remaining subscribers of the current publish still each receive v
// exactly once.
func (t *Topic[T]) Publish(v T) {
	if len(t.order) == 0 {
		return
	}
	// Snapshot the order: cancel shifts t.order in place, which would
	// skip or repeat subscribers mid-iteration.
	order := make([]int, len(t.order))
	copy(order, t.order)
	for _, id := range order {
		if fn, ok := t.subs[id]; ok {
			fn(v)
		}
	}
}

// Len returns the number of active subscribers.
func (t *Topic[T]) Len() int {
	return len(t.subs)
}
