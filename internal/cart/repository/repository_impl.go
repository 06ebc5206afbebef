package repository

import (
	"context"

	"github.com/smallbiznis/hostelhub/internal/cart/domain"
	"github.com/smallbiznis/hostelhub/internal/datastore"
	"github.com/smallbiznis/hostelhub/pkg/entitystore"
)

type repo struct {
	store *entitystore.Store[domain.Line]
}

func Provide(db *datastore.DB) domain.Repository {
	return &repo{store: db.CartLines}
}

func (r *repo) FindLine(ctx context.Context, sessionID string, productID int64) (*domain.Line, error) {
	return r.store.FindOne(ctx, func(l domain.Line) bool {
		return l.SessionID == sessionID && l.ProductID == productID
	})
}

func (r *repo) Create(ctx context.Context, line *domain.Line) error {
	id, err := r.store.Insert(ctx, *line)
	if err != nil {
		return err
	}
	line.ID = id
	return nil
}

func (r *repo) Remove(ctx context.Context, sessionID string, productID int64) (bool, error) {
	n, err := r.store.DeleteWhere(ctx, func(l domain.Line) bool {
		return l.SessionID == sessionID && l.ProductID == productID
	})
	return n > 0, err
}

func (r *repo) Clear(ctx context.Context, sessionID string) (int, error) {
	return r.store.DeleteWhere(ctx, func(l domain.Line) bool { return l.SessionID == sessionID })
}

func (r *repo) Lines(ctx context.Context, sessionID string) ([]domain.Line, error) {
	return r.store.Find(ctx, func(l domain.Line) bool { return l.SessionID == sessionID })
}
