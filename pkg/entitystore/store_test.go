package entitystore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type note struct {
	ID   int64
	Text string
	Tags []string
}

func (n note) EntityID() int64 { return n.ID }

func (n note) WithEntityID(id int64) note { n.ID = id; return n }

func (n note) Clone() note {
	n.Tags = append([]string(nil), n.Tags...)
	return n
}

type recorder struct {
	mu      sync.Mutex
	changes []uint64
}

func (r *recorder) StoreChanged(name string, version uint64, size int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, version)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changes)
}

func TestInsertAssignsMaxPlusOne(t *testing.T) {
	ctx := context.Background()
	s := New[note]("notes", Options{})

	id, err := s.Insert(ctx, note{Text: "a"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	id, err = s.Insert(ctx, note{Text: "b"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	_, err = s.Delete(ctx, 1)
	require.NoError(t, err)

	id, err = s.Insert(ctx, note{Text: "c"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
}

func TestInsertReusesDeletedMaxID(t *testing.T) {
	ctx := context.Background()
	s := New[note]("notes", Options{})

	_, _ = s.Insert(ctx, note{Text: "a"})
	id, _ := s.Insert(ctx, note{Text: "b"})
	ok, err := s.Delete(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)

	again, err := s.Insert(ctx, note{Text: "c"})
	require.NoError(t, err)
	assert.Equal(t, id, again, "legacy max+1 assignment reuses the deleted id")
}

func TestMonotonicIDsNeverReuse(t *testing.T) {
	ctx := context.Background()
	s := New[note]("notes", Options{MonotonicIDs: true})

	_, _ = s.Insert(ctx, note{Text: "a"})
	id, _ := s.Insert(ctx, note{Text: "b"})
	_, _ = s.Delete(ctx, id)

	again, err := s.Insert(ctx, note{Text: "c"})
	require.NoError(t, err)
	assert.Equal(t, id+1, again)
}

func TestGetReturnsInsertedValueWithID(t *testing.T) {
	ctx := context.Background()
	s := New[note]("notes", Options{})

	in := note{Text: "hello", Tags: []string{"x"}}
	id, err := s.Insert(ctx, in)
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)

	want := in
	want.ID = id
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Fatalf("unexpected record (-want +got):\n%s", diff)
	}

	missing, err := s.Get(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSnapshotsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New[note]("notes", Options{})
	id, _ := s.Insert(ctx, note{Text: "a", Tags: []string{"x"}})

	all, err := s.All(ctx)
	require.NoError(t, err)
	all[0].Text = "mutated"
	all[0].Tags[0] = "mutated"

	got, _ := s.Get(ctx, id)
	assert.Equal(t, "a", got.Text)
	assert.Equal(t, []string{"x"}, got.Tags)
}

func TestStoredRecordsDoNotShareCallerSlices(t *testing.T) {
	ctx := context.Background()
	s := New[note]("notes", Options{})

	in := note{Text: "a", Tags: []string{"x"}}
	id, err := s.Insert(ctx, in)
	require.NoError(t, err)
	in.Tags[0] = "mutated"

	got, _ := s.Get(ctx, id)
	require.NotNil(t, got)
	assert.Equal(t, []string{"x"}, got.Tags)

	replacement := note{Text: "b", Tags: []string{"y"}}
	ok, err := s.Update(ctx, id, replacement)
	require.NoError(t, err)
	require.True(t, ok)
	replacement.Tags[0] = "mutated"

	var kept []string
	_, err = s.ModifyWhere(ctx, func(note) bool { return true }, func(v note) note {
		kept = []string{"z"}
		v.Tags = kept
		return v
	})
	require.NoError(t, err)
	kept[0] = "mutated"

	got, _ = s.Get(ctx, id)
	require.NotNil(t, got)
	assert.Equal(t, "b", got.Text)
	assert.Equal(t, []string{"z"}, got.Tags)
}

func TestUpdateAndDeleteMissingAreNoOps(t *testing.T) {
	ctx := context.Background()
	s := New[note]("notes", Options{})
	_, _ = s.Insert(ctx, note{Text: "a"})
	before := s.Version()

	ok, err := s.Update(ctx, 42, note{Text: "x"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Delete(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, before, s.Version())
}

func TestUpdateKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	s := New[note]("notes", Options{})
	id, _ := s.Insert(ctx, note{Text: "a"})

	ok, err := s.Update(ctx, id, note{ID: 1000, Text: "b"})
	require.NoError(t, err)
	require.True(t, ok)

	got, _ := s.Get(ctx, id)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "b", got.Text)
}

func TestDeleteWhereAndModifyWhere(t *testing.T) {
	ctx := context.Background()
	s := New[note]("notes", Options{})
	for _, text := range []string{"keep", "drop", "drop", "keep"} {
		_, _ = s.Insert(ctx, note{Text: text})
	}

	n, err := s.ModifyWhere(ctx, func(v note) bool { return v.Text == "keep" }, func(v note) note {
		v.Tags = []string{"kept"}
		return v
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.DeleteWhere(ctx, func(v note) bool { return v.Text == "drop" })
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, _ := s.All(ctx)
	require.Len(t, all, 2)
	for _, v := range all {
		assert.Equal(t, []string{"kept"}, v.Tags)
	}
}

func TestVersionAndObservers(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	s := New[note]("notes", Options{Observers: []Observer{rec}})

	id, _ := s.Insert(ctx, note{Text: "a"})
	_, _ = s.Update(ctx, id, note{Text: "b"})
	_, _ = s.All(ctx)

	assert.Equal(t, uint64(2), s.Version())
	assert.Equal(t, 2, rec.count())
}

func TestLatencyHonoursCancellation(t *testing.T) {
	s := New[note]("notes", Options{Latency: 20 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Insert(ctx, note{Text: "a"})
	require.ErrorIs(t, err, context.Canceled)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRunInTransactionCommitsOnce(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	a := New[note]("a", Options{Observers: []Observer{rec}})
	b := New[note]("b", Options{Observers: []Observer{rec}})

	err := RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := a.Insert(ctx, note{Text: "1"}); err != nil {
			return err
		}
		if _, err := a.Insert(ctx, note{Text: "2"}); err != nil {
			return err
		}
		_, err := b.Insert(ctx, note{Text: "3"})
		return err
	}, a, b)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), a.Version())
	assert.Equal(t, uint64(1), b.Version())
	assert.Equal(t, 2, rec.count())
}

func TestRunInTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	a := New[note]("a", Options{})
	b := New[note]("b", Options{})
	keep, _ := a.Insert(ctx, note{Text: "keep"})

	boom := errors.New("boom")
	err := RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := a.Delete(ctx, keep); err != nil {
			return err
		}
		if _, err := b.Insert(ctx, note{Text: "new"}); err != nil {
			return err
		}
		return boom
	}, a, b)
	require.ErrorIs(t, err, boom)

	got, _ := a.Get(ctx, keep)
	assert.NotNil(t, got)
	n, _ := b.Count(ctx)
	assert.Equal(t, 0, n)
	assert.Equal(t, uint64(1), a.Version())
	assert.Equal(t, uint64(0), b.Version())
}

func TestRunInTransactionNestedJoinsHeldStores(t *testing.T) {
	ctx := context.Background()
	a := New[note]("a", Options{})
	b := New[note]("b", Options{})

	err := RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := a.Insert(ctx, note{Text: "outer"}); err != nil {
			return err
		}
		return RunInTransaction(ctx, func(ctx context.Context) error {
			_, err := b.Insert(ctx, note{Text: "inner"})
			return err
		}, a, b)
	}, a)
	require.NoError(t, err)

	na, _ := a.Count(ctx)
	nb, _ := b.Count(ctx)
	assert.Equal(t, 1, na)
	assert.Equal(t, 1, nb)
}

func TestRunInTransactionInsertIfAbsentIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New[note]("notes", Options{})

	var g errgroup.Group
	for i := 0; i < 32; i++ {
		g.Go(func() error {
			return RunInTransaction(ctx, func(ctx context.Context) error {
				existing, err := s.FindOne(ctx, func(v note) bool { return v.Text == "only" })
				if err != nil || existing != nil {
					return err
				}
				_, err = s.Insert(ctx, note{Text: "only"})
				return err
			}, s)
		})
	}
	require.NoError(t, g.Wait())

	n, _ := s.Count(ctx)
	assert.Equal(t, 1, n)
}

func TestConcurrentInsertsAssignDistinctIDs(t *testing.T) {
	ctx := context.Background()
	s := New[note]("notes", Options{})

	var g errgroup.Group
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			_, err := s.Insert(ctx, note{Text: "x"})
			return err
		})
	}
	require.NoError(t, g.Wait())

	all, _ := s.All(ctx)
	seen := map[int64]bool{}
	for _, v := range all {
		assert.False(t, seen[v.ID], "duplicate id %d", v.ID)
		seen[v.ID] = true
	}
	assert.Len(t, seen, 50)
}
