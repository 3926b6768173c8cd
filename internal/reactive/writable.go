// Package reactive provides a small synchronous observable value container.
package reactive

import "sync"

// Writable holds a value and notifies subscribers synchronously on every change.
//
// Subscribers are called outside the value lock, in subscription order. Deliveries are serialized:
// a subscriber never sees an older value after a newer one. A subscriber may Get the value or
// unsubscribe, but must not Set, Update or Subscribe on the same Writable.
type Writable[T any] struct {
	// deliver is held from a change until its notifications are done.
	deliver sync.Mutex

	mu     sync.Mutex
	value  T
	nextID int
	subs   []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

func NewWritable[T any](initial T) *Writable[T] {
	return &Writable[T]{value: initial}
}

func (w *Writable[T]) Get() T {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.value
}

func (w *Writable[T]) Set(v T) {
	w.deliver.Lock()
	defer w.deliver.Unlock()

	w.mu.Lock()
	w.value = v
	subs := w.snapshotLocked()
	w.mu.Unlock()
	notify(subs, v)
}

// Update replaces the value with fn(current) atomically with respect to other writers.
func (w *Writable[T]) Update(fn func(T) T) T {
	v, _ := w.Mutate(func(cur T) (T, bool) { return fn(cur), true })
	return v
}

// Mutate is Update with an opt-out: when fn reports false the value is kept and nobody is notified.
func (w *Writable[T]) Mutate(fn func(T) (T, bool)) (T, bool) {
	w.deliver.Lock()
	defer w.deliver.Unlock()

	w.mu.Lock()
	v, changed := fn(w.value)
	if !changed {
		cur := w.value
		w.mu.Unlock()
		return cur, false
	}
	w.value = v
	subs := w.snapshotLocked()
	w.mu.Unlock()
	notify(subs, v)
	return v, true
}

// Subscribe registers fn and immediately replays the current value to it.
// The returned func removes the subscription; calling it more than once is harmless.
func (w *Writable[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	w.deliver.Lock()
	w.mu.Lock()
	w.nextID++
	id := w.nextID
	w.subs = append(w.subs, subscriber[T]{id: id, fn: fn})
	v := w.value
	w.mu.Unlock()

	fn(v)
	w.deliver.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			for i, s := range w.subs {
				if s.id == id {
					w.subs = append(w.subs[:i:i], w.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers reports the number of active subscriptions.
func (w *Writable[T]) Subscribers() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.subs)
}

func (w *Writable[T]) snapshotLocked() []subscriber[T] {
	if len(w.subs) == 0 {
		return nil
	}
	out := make([]subscriber[T], len(w.subs))
	copy(out, w.subs)
	return out
}

func notify[T any](subs []subscriber[T], v T) {
	for _, s := range subs {
		s.fn(v)
	}
}
