package debug

import (
	"sync"
)

// Ring is a fixed-capacity buffer that overwrites its oldest element when full.
type Ring[T any] struct {
	mu       sync.RWMutex
	items    []T
	capacity int
	head     int
	count    int
}

// NewRing creates a Ring. A non-positive capacity selects 1000.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = 1000
	}
	return &Ring[T]{
		items:    make([]T, capacity),
		capacity: capacity,
	}
}

// Add appends v, evicting the oldest element when full.
func (r *Ring[T]) Add(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[r.head] = v
	r.head = (r.head + 1) % r.capacity
	if r.count < r.capacity {
		r.count++
	}
}

// All returns the elements oldest first.
func (r *Ring[T]) All() []T {
	return r.Find(func(T) bool { return true })
}

// Last returns up to n elements, newest first.
func (r *Ring[T]) Last(n int) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n > r.count {
		n = r.count
	}
	if n < 0 {
		n = 0
	}

	result := make([]T, n)
	for i := 0; i < n; i++ {
		result[i] = r.items[(r.head-1-i+r.capacity)%r.capacity]
	}
	return result
}

// Find returns the elements matching keep, oldest first.
func (r *Ring[T]) Find(keep func(T) bool) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start := 0
	if r.count == r.capacity {
		start = r.head
	}

	result := make([]T, 0, r.count)
	for i := 0; i < r.count; i++ {
		v := r.items[(start+i)%r.capacity]
		if keep(v) {
			result = append(result, v)
		}
	}
	return result
}

// Len returns the number of stored elements.
func (r *Ring[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Clear removes every element.
func (r *Ring[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.items)
	r.head = 0
	r.count = 0
}
