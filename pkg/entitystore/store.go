// Package entitystore provides generic in-memory entity stores with snapshot
// reads, per-store versions and multi-store transactions.
package entitystore

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Entity is implemented by values kept in a Store. WithEntityID returns a copy
// of the value carrying the given identity.
type Entity[T any] interface {
	EntityID() int64
	WithEntityID(id int64) T
}

// Observer is notified after a mutation of a store commits.
type Observer interface {
	StoreChanged(name string, version uint64, size int)
}

// Options configures a Store.
type Options struct {
	// Latency is a cooperative delay applied before every operation to
	// emulate a remote backend. The wait is aborted when ctx is done.
	Latency time.Duration
	// MonotonicIDs assigns ids from a counter that never goes backwards.
	// When false, ids are max(existing)+1 and the highest id is reused after
	// the record holding it is deleted.
	MonotonicIDs bool
	Observers    []Observer
}

var storeSeq atomic.Uint64

// Store is an ordered in-memory collection with identity assignment and
// snapshot reads. Every method is safe for concurrent use.
type Store[T Entity[T]] struct {
	mu      sync.RWMutex
	seq     uint64
	name    string
	items   []T
	lastID  int64
	version atomic.Uint64

	latency   time.Duration
	monotonic bool
	observers []Observer

	// transaction state, guarded by mu held in write mode
	dirty      bool
	snapItems  []T
	snapLastID int64
}

func New[T Entity[T]](name string, opts Options) *Store[T] {
	return &Store[T]{
		seq:       storeSeq.Add(1),
		name:      name,
		latency:   opts.Latency,
		monotonic: opts.MonotonicIDs,
		observers: append([]Observer(nil), opts.Observers...),
	}
}

func (s *Store[T]) Name() string { return s.name }

// Version increases by one for every committed mutation (or transaction).
func (s *Store[T]) Version() uint64 { return s.version.Load() }

// Insert stores a copy of v under a freshly assigned id and returns the id.
func (s *Store[T]) Insert(ctx context.Context, v T) (int64, error) {
	var id int64
	err := s.mutate(ctx, func() bool {
		id = s.nextID()
		s.items = append(s.items, cloneValue(v.WithEntityID(id)))
		if id > s.lastID {
			s.lastID = id
		}
		return true
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// All returns a point-in-time copy of every record in insertion order.
func (s *Store[T]) All(ctx context.Context) ([]T, error) {
	return s.Find(ctx, nil)
}

// Find returns copies of the records matching pred. A nil pred matches all.
func (s *Store[T]) Find(ctx context.Context, pred func(T) bool) ([]T, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	out := make([]T, 0, len(s.items))
	for _, item := range s.items {
		if pred != nil && !pred(item) {
			continue
		}
		out = append(out, cloneValue(item))
	}
	return out, nil
}

// FindOne returns the first record matching pred, or nil.
func (s *Store[T]) FindOne(ctx context.Context, pred func(T) bool) (*T, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	for _, item := range s.items {
		if pred(item) {
			cp := cloneValue(item)
			return &cp, nil
		}
	}
	return nil, nil
}

// Get returns the record with the given id, or nil when absent.
func (s *Store[T]) Get(ctx context.Context, id int64) (*T, error) {
	return s.FindOne(ctx, func(v T) bool { return v.EntityID() == id })
}

func (s *Store[T]) Count(ctx context.Context) (int, error) {
	unlock, err := s.read(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()
	return len(s.items), nil
}

// Update replaces the record with the given id. It reports false when no
// such record exists.
func (s *Store[T]) Update(ctx context.Context, id int64, v T) (bool, error) {
	return s.Modify(ctx, id, func(T) T { return v })
}

// Modify replaces the record with the given id by a copy of fn(current)
// under a single write lock.
func (s *Store[T]) Modify(ctx context.Context, id int64, fn func(T) T) (bool, error) {
	found := false
	err := s.mutate(ctx, func() bool {
		for i, item := range s.items {
			if item.EntityID() != id {
				continue
			}
			s.items[i] = cloneValue(fn(cloneValue(item)).WithEntityID(id))
			found = true
			return true
		}
		return false
	})
	return found, err
}

// ModifyWhere applies fn to every record matching pred and returns how many
// records were rewritten.
func (s *Store[T]) ModifyWhere(ctx context.Context, pred func(T) bool, fn func(T) T) (int, error) {
	n := 0
	err := s.mutate(ctx, func() bool {
		for i, item := range s.items {
			if !pred(item) {
				continue
			}
			s.items[i] = cloneValue(fn(cloneValue(item)).WithEntityID(item.EntityID()))
			n++
		}
		return n > 0
	})
	return n, err
}

// Delete removes the record with the given id.
func (s *Store[T]) Delete(ctx context.Context, id int64) (bool, error) {
	n, err := s.DeleteWhere(ctx, func(v T) bool { return v.EntityID() == id })
	return n > 0, err
}

// DeleteWhere removes every record matching pred and returns the count.
func (s *Store[T]) DeleteWhere(ctx context.Context, pred func(T) bool) (int, error) {
	n := 0
	err := s.mutate(ctx, func() bool {
		kept := s.items[:0:0]
		for _, item := range s.items {
			if pred(item) {
				n++
				continue
			}
			kept = append(kept, item)
		}
		if n == 0 {
			return false
		}
		s.items = kept
		return true
	})
	return n, err
}

func (s *Store[T]) nextID() int64 {
	if s.monotonic {
		return s.lastID + 1
	}
	var highest int64
	for _, item := range s.items {
		if id := item.EntityID(); id > highest {
			highest = id
		}
	}
	return highest + 1
}

func (s *Store[T]) read(ctx context.Context) (func(), error) {
	if s.heldBy(ctx) {
		return func() {}, nil
	}
	if err := s.await(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	return s.mu.RUnlock, nil
}

func (s *Store[T]) mutate(ctx context.Context, fn func() bool) error {
	if s.heldBy(ctx) {
		if fn() {
			s.dirty = true
		}
		return nil
	}
	if err := s.await(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	changed := fn()
	var version uint64
	if changed {
		version = s.version.Add(1)
	}
	size := len(s.items)
	s.mu.Unlock()

	if changed {
		s.notify(version, size)
	}
	return nil
}

func (s *Store[T]) await(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Store[T]) notify(version uint64, size int) {
	for _, o := range s.observers {
		o.StoreChanged(s.name, version, size)
	}
}

func cloneValue[T any](v T) T {
	if c, ok := any(v).(interface{ Clone() T }); ok {
		return c.Clone()
	}
	return v
}
