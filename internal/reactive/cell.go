package reactive

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Storage is the durable key/value contract the cell writes through to.
// database.Store satisfies it.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

type settings struct {
	logger *slog.Logger
	absent func(any) bool
}

// Option configures a cell or registry.
type Option func(*settings)

// WithLogger sets the logger used to report swallowed storage failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAbsent designates values that mean "absent": writing one removes the durable entry
// instead of storing it.
func WithAbsent[T any](isAbsent func(T) bool) Option {
	return func(s *settings) {
		s.absent = func(v any) bool {
			t, ok := v.(T)

			return ok && isAbsent(t)
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	return s
}

// Cell holds one named value in memory with write-through persistence.
type Cell[T any] struct {
	key     string
	initial T
	store   Storage
	logger  *slog.Logger
	absent  func(any) bool

	// writeMu serializes Write so listeners and storage observe writes in issue order.
	writeMu sync.Mutex

	mu        sync.RWMutex
	current   T
	listeners []*Subscription[T]
}

// New constructs a cell for key, seeded from store when it holds a value, else from initial.
// A nil store yields a memory-only cell.
func New[T any](store Storage, initial T, key string, opts ...Option) *Cell[T] {
	s := newSettings(opts)

	c := &Cell[T]{
		key:     key,
		initial: initial,
		store:   store,
		logger:  s.logger.With("key", key),
		absent:  s.absent,
		current: initial,
	}

	c.seed()

	return c
}

func (c *Cell[T]) seed() {
	if c.store == nil {
		return
	}

	text, ok, err := c.store.Get(c.key)
	if err != nil {
		c.logger.Warn("reading stored value failed, using default", "error", err)
		return
	}

	if !ok {
		return
	}

	res := decode[T](text)
	if res.err != nil {
		c.logger.Warn("stored value ignored, using default", "error", res.err)
		return
	}

	if res.raw {
		c.logger.Debug("stored value is not JSON, using raw text")
	}

	c.current = res.value
}

// Key returns the storage key.
func (c *Cell[T]) Key() string {
	return c.key
}

// Read returns the current value. It performs no I/O.
func (c *Cell[T]) Read() T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.current
}

// Write replaces the value, notifies the listeners registered at call time, then persists.
// Persistence failures never reach the caller.
func (c *Cell[T]) Write(v T) {
	c.write(v, false)
}

// Clear resets the cell to its default and removes the durable entry, so a fresh cell for
// the same key starts from its default again.
func (c *Cell[T]) Clear() {
	c.write(c.initial, true)
}

func (c *Cell[T]) write(v T, remove bool) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	c.current = v
	pending := c.listeners
	c.listeners = nil

	for _, sub := range pending {
		sub.state.Store(subFired)
	}
	c.mu.Unlock()

	for _, sub := range pending {
		sub.fn(v)
	}

	c.persist(v, remove)
}

func (c *Cell[T]) persist(v T, remove bool) {
	if c.store == nil {
		return
	}

	if remove || (c.absent != nil && c.absent(v)) {
		if err := c.store.Remove(c.key); err != nil {
			c.logger.Warn("removing stored value failed", "error", err)
		}

		return
	}

	text, err := encode(v)
	if err != nil {
		c.logger.Warn("encoding value failed, not persisted", "error", err)
		return
	}

	if err := c.store.Set(c.key, text); err != nil {
		c.logger.Warn("persisting value failed", "error", err)
	}
}

// NotifyOnce registers fn to run exactly once, on the next Write, with the new value.
// Re-register inside fn to keep listening.
func (c *Cell[T]) NotifyOnce(fn func(T)) *Subscription[T] {
	sub := &Subscription[T]{cell: c, fn: fn}

	c.mu.Lock()
	c.listeners = append(c.listeners, sub)
	c.mu.Unlock()

	return sub
}

// Watch calls fn on every Write until the returned stop function is called. It re-arms a
// NotifyOnce listener before each call to fn.
func (c *Cell[T]) Watch(fn func(T)) (stop func()) {
	var (
		stopped atomic.Bool
		current atomic.Pointer[Subscription[T]]
		arm     func()
	)

	arm = func() {
		current.Store(c.NotifyOnce(func(v T) {
			if stopped.Load() {
				return
			}

			arm()
			fn(v)
		}))
	}

	arm()

	return func() {
		stopped.Store(true)

		if sub := current.Load(); sub != nil {
			sub.Cancel()
		}
	}
}

// Next returns a channel that receives the value of the next Write.
func (c *Cell[T]) Next() <-chan T {
	ch := make(chan T, 1)

	c.NotifyOnce(func(v T) {
		ch <- v
	})

	return ch
}

func (c *Cell[T]) remove(sub *Subscription[T]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, s := range c.listeners {
		if s == sub {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			sub.state.Store(subCancelled)

			return true
		}
	}

	return false
}
