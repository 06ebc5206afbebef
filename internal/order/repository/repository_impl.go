package repository

import (
	"context"
	"sort"
	"time"

	"github.com/smallbiznis/hostelhub/internal/datastore"
	"github.com/smallbiznis/hostelhub/internal/order/domain"
	"github.com/smallbiznis/hostelhub/pkg/entitystore"
)

type repo struct {
	store *entitystore.Store[domain.Order]
}

func Provide(db *datastore.DB) domain.Repository {
	return &repo{store: db.Orders}
}

func (r *repo) Create(ctx context.Context, order *domain.Order) error {
	id, err := r.store.Insert(ctx, *order)
	if err != nil {
		return err
	}
	order.ID = id
	return nil
}

func (r *repo) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	return r.store.Get(ctx, id)
}

func (r *repo) FindAll(ctx context.Context) ([]domain.Order, error) {
	return r.store.All(ctx)
}

func (r *repo) ByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	items, err := r.store.Find(ctx, func(o domain.Order) bool { return o.UserID == userID })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (r *repo) UpdateStatus(ctx context.Context, id int64, status domain.Status, at time.Time) (bool, error) {
	return r.store.Modify(ctx, id, func(o domain.Order) domain.Order {
		o.Status = status
		o.UpdatedAt = at
		return o
	})
}
