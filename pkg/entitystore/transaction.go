package entitystore

import (
	"context"
	"sort"
)

// Lockable is a store that can take part in RunInTransaction.
type Lockable interface {
	Name() string
	lockOrder() uint64
	await(ctx context.Context) error
	begin()
	rollback()
	commit()
}

type txKey struct{}

// RunInTransaction runs fn with exclusive access to every given store.
// Stores are locked in creation order so concurrent transactions over
// overlapping stores cannot deadlock. Store methods called with the context
// passed to fn skip their own locking. When fn returns an error (or panics)
// the stores are restored to their state before the transaction; otherwise
// each modified store bumps its version once and notifies its observers.
//
// Stores already held by an enclosing transaction are joined, not relocked.
func RunInTransaction(ctx context.Context, fn func(ctx context.Context) error, stores ...Lockable) error {
	held := heldFromContext(ctx)

	acquire := make([]Lockable, 0, len(stores))
	seen := make(map[uint64]struct{}, len(stores))
	for _, st := range stores {
		order := st.lockOrder()
		if _, ok := held[order]; ok {
			continue
		}
		if _, ok := seen[order]; ok {
			continue
		}
		seen[order] = struct{}{}
		acquire = append(acquire, st)
	}
	sort.Slice(acquire, func(i, j int) bool {
		return acquire[i].lockOrder() < acquire[j].lockOrder()
	})

	for _, st := range acquire {
		if err := st.await(ctx); err != nil {
			return err
		}
	}

	for _, st := range acquire {
		st.begin()
	}

	next := make(map[uint64]struct{}, len(held)+len(acquire))
	for k := range held {
		next[k] = struct{}{}
	}
	for k := range seen {
		next[k] = struct{}{}
	}
	txCtx := context.WithValue(ctx, txKey{}, next)

	committed := false
	defer func() {
		if committed {
			return
		}
		for i := len(acquire) - 1; i >= 0; i-- {
			acquire[i].rollback()
		}
	}()

	if err := fn(txCtx); err != nil {
		return err
	}

	committed = true
	for i := len(acquire) - 1; i >= 0; i-- {
		acquire[i].commit()
	}
	return nil
}

func heldFromContext(ctx context.Context) map[uint64]struct{} {
	if ctx == nil {
		return nil
	}
	held, _ := ctx.Value(txKey{}).(map[uint64]struct{})
	return held
}

func (s *Store[T]) heldBy(ctx context.Context) bool {
	held := heldFromContext(ctx)
	if held == nil {
		return false
	}
	_, ok := held[s.seq]
	return ok
}

func (s *Store[T]) lockOrder() uint64 { return s.seq }

func (s *Store[T]) begin() {
	s.mu.Lock()
	s.dirty = false
	s.snapItems = append([]T(nil), s.items...)
	s.snapLastID = s.lastID
}

func (s *Store[T]) rollback() {
	s.items = s.snapItems
	s.lastID = s.snapLastID
	s.snapItems = nil
	s.dirty = false
	s.mu.Unlock()
}

func (s *Store[T]) commit() {
	changed := s.dirty
	var version uint64
	if changed {
		version = s.version.Add(1)
	}
	size := len(s.items)
	s.snapItems = nil
	s.dirty = false
	s.mu.Unlock()

	if changed {
		s.notify(version, size)
	}
}
