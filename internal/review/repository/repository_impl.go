package repository

import (
	"context"
	"sort"

	"github.com/smallbiznis/hostelhub/internal/datastore"
	"github.com/smallbiznis/hostelhub/internal/review/domain"
	"github.com/smallbiznis/hostelhub/pkg/entitystore"
)

type repo struct {
	store *entitystore.Store[domain.Review]
}

func Provide(db *datastore.DB) domain.Repository {
	return &repo{store: db.Reviews}
}

func (r *repo) Create(ctx context.Context, review *domain.Review) error {
	id, err := r.store.Insert(ctx, *review)
	if err != nil {
		return err
	}
	review.ID = id
	return nil
}

func (r *repo) FindByID(ctx context.Context, id int64) (*domain.Review, error) {
	return r.store.Get(ctx, id)
}

func (r *repo) SetApproved(ctx context.Context, id int64, approved bool) (*domain.Review, error) {
	var written domain.Review
	ok, err := r.store.Modify(ctx, id, func(v domain.Review) domain.Review {
		v.Approved = approved
		written = v
		return v
	})
	if err != nil || !ok {
		return nil, err
	}
	return &written, nil
}

func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	return r.store.Delete(ctx, id)
}

func (r *repo) ApprovedByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	items, err := r.store.Find(ctx, func(v domain.Review) bool {
		return v.Approved && v.ProductID == productID
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (r *repo) Pending(ctx context.Context) ([]domain.Review, error) {
	items, err := r.store.Find(ctx, func(v domain.Review) bool { return !v.Approved })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (r *repo) ByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	items, err := r.store.Find(ctx, func(v domain.Review) bool { return v.UserID == userID })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}
