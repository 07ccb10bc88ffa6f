package reactive

import "sync"

type listener[T any] struct {
	id int
	fn func(T)
}

// Value is an observable cell. The zero value is not usable; use [NewValue].
type Value[T any] struct {
	mu        sync.RWMutex
	current   T
	nextID    int
	listeners []listener[T]
}

// NewValue returns a Value holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{current: initial}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Set stores next and calls every subscriber with it, in subscription order.
//
// Subscribers run on the calling goroutine after the lock is released, so they
// may call Get, Set or Subscribe on the same Value.
func (v *Value[T]) Set(next T) {
	v.mu.Lock()
	v.current = next
	fns := make([]func(T), len(v.listeners))
	for i, l := range v.listeners {
		fns[i] = l.fn
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}

// Subscribe registers fn for future Sets and returns a func that removes it.
// Calling the returned func more than once is a no-op.
func (v *Value[T]) Subscribe(fn func(T)) func() {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.listeners = append(v.listeners, listener[T]{id: id, fn: fn})
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { v.remove(id) })
	}
}

func (v *Value[T]) remove(id int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, l := range v.listeners {
		if l.id == id {
			v.listeners = append(v.listeners[:i:i], v.listeners[i+1:]...)
			return
		}
	}
}
