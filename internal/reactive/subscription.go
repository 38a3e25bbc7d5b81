package reactive

import "sync/atomic"

const (
	subPending int32 = iota
	subFired
	subCancelled
)

// Subscription is the handle of a one-shot listener registered with NotifyOnce.
type Subscription[T any] struct {
	cell  *Cell[T]
	fn    func(T)
	state atomic.Int32
}

// Pending reports whether the listener is still waiting for a write.
func (s *Subscription[T]) Pending() bool {
	return s.state.Load() == subPending
}

// Fired reports whether the listener has run.
func (s *Subscription[T]) Fired() bool {
	return s.state.Load() == subFired
}

// Cancel unregisters a listener that has not fired yet. It returns false when the listener
// already fired or was cancelled before.
func (s *Subscription[T]) Cancel() bool {
	if !s.Pending() {
		return false
	}

	return s.cell.remove(s)
}
