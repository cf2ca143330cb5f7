package export

import "sync/atomic"

// flight admits a single holder at a time.
type flight struct {
	held atomic.Bool
}

func (f *flight) acquire() bool {
	return f.held.CompareAndSwap(false, true)
}

func (f *flight) release() {
	f.held.Store(false)
}

func (f *flight) busy() bool {
	return f.held.Load()
}
