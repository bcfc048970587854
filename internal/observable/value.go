// Package observable provides a value container that notifies subscribers
// synchronously whenever the held value is replaced.
package observable

import "sync"

// Value holds a T and a list of listeners.
//
// Set notifies every listener registered at the time of the call, in
// subscription order, on the caller's goroutine, before returning. Concurrent
// Set calls are serialised so listeners never observe interleaved emissions.
// A listener must not call Set on the same Value.
type Value[T any] struct {
	mu     sync.RWMutex
	emit   sync.Mutex
	value  T
	nextID uint64
	subs   []subscriber[T]
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// New returns a Value holding initial.
func New[T any](initial T) *Value[T] {
	return &Value[T]{value: initial}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Set replaces the value and notifies subscribers.
func (v *Value[T]) Set(val T) {
	v.emit.Lock()
	defer v.emit.Unlock()

	v.mu.Lock()
	v.value = val
	subs := make([]subscriber[T], len(v.subs))
	copy(subs, v.subs)
	v.mu.Unlock()

	for _, s := range subs {
		s.fn(val)
	}
}

// Subscribe registers fn for future emissions and returns a function that
// removes it. The returned function is idempotent. The current value is not
// replayed; call Get after subscribing when the initial state matters.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.mu.Lock()
	v.nextID++
	id := v.nextID
	v.subs = append(v.subs, subscriber[T]{id: id, fn: fn})
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			for i, s := range v.subs {
				if s.id == id {
					v.subs = append(v.subs[:i:i], v.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Len returns the number of active subscribers.
func (v *Value[T]) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.subs)
}
