package reactive

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrTypeMismatch is returned when a key is registered again with a different value type.
var ErrTypeMismatch = errors.New("cell registered with a different type")

// Registry owns the process-wide cells of one store, one per key. It is built once by the
// composition root and passed to whatever needs a cell.
type Registry struct {
	store Storage
	opts  []Option

	mu    sync.Mutex
	cells map[string]any
}

// NewRegistry returns a registry whose cells persist to store. opts apply to every cell.
func NewRegistry(store Storage, opts ...Option) *Registry {
	return &Registry{
		store: store,
		opts:  opts,
		cells: make(map[string]any),
	}
}

// Register constructs the cell for key on first use and returns the same cell afterwards.
// initial is only used by the first registration.
func Register[T any](r *Registry, initial T, key string, opts ...Option) (*Cell[T], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.cells[key]; ok {
		cell, ok := existing.(*Cell[T])
		if !ok {
			return nil, fmt.Errorf("%w: key %q holds %T", ErrTypeMismatch, key, existing)
		}

		return cell, nil
	}

	all := make([]Option, 0, len(r.opts)+len(opts))
	all = append(all, r.opts...)
	all = append(all, opts...)

	cell := New(r.store, initial, key, all...)
	r.cells[key] = cell

	return cell, nil
}

// Keys lists the registered keys in order.
func (r *Registry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.cells))
	for k := range r.cells {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
