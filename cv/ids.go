package cv

import "sync"

// IDAllocator hands out monotonically increasing list ids.
type IDAllocator struct {
	mu   sync.Mutex
	last int64
}

// NewIDAllocator seeds the allocator above the largest existing id.
func NewIDAllocator(existing ...int64) *IDAllocator {
	a := &IDAllocator{}
	a.Observe(existing...)
	return a
}

// Observe raises the floor so future ids never collide with ids.
func (a *IDAllocator) Observe(ids ...int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, id := range ids {
		if id > a.last {
			a.last = id
		}
	}
}

// Next returns a fresh id.
func (a *IDAllocator) Next() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last++
	return a.last
}
