package repository

import (
	"context"
	"strings"

	"github.com/smallbiznis/hostelhub/internal/datastore"
	"github.com/smallbiznis/hostelhub/internal/product/domain"
	"github.com/smallbiznis/hostelhub/pkg/entitystore"
)

type repo struct {
	store *entitystore.Store[domain.Product]
}

func Provide(db *datastore.DB) domain.Repository {
	return &repo{store: db.Products}
}

func (r *repo) Create(ctx context.Context, product *domain.Product) error {
	id, err := r.store.Insert(ctx, *product)
	if err != nil {
		return err
	}
	product.ID = id
	return nil
}

func (r *repo) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	return r.store.Get(ctx, id)
}

func (r *repo) FindAll(ctx context.Context) ([]domain.Product, error) {
	return r.store.All(ctx)
}

func (r *repo) List(ctx context.Context, filter domain.ListRequest) ([]domain.Product, error) {
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	return r.store.Find(ctx, func(p domain.Product) bool {
		if query != "" && !matchesText(p, query) {
			return false
		}
		if filter.Type != "" && p.Type != filter.Type {
			return false
		}
		if filter.Category != "" && p.Category != filter.Category {
			return false
		}
		if filter.City != "" && !strings.EqualFold(p.City, filter.City) {
			return false
		}
		if filter.MinPrice != nil && p.Price < *filter.MinPrice {
			return false
		}
		if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
			return false
		}
		return true
	})
}

func (r *repo) Search(ctx context.Context, text string) ([]domain.Product, error) {
	query := strings.ToLower(text)
	return r.store.Find(ctx, func(p domain.Product) bool {
		return matchesText(p, query)
	})
}

func (r *repo) ByType(ctx context.Context, productType string) ([]domain.Product, error) {
	return r.store.Find(ctx, func(p domain.Product) bool { return p.Type == productType })
}

func (r *repo) ByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return r.store.Find(ctx, func(p domain.Product) bool { return p.Category == category })
}

func (r *repo) ByCity(ctx context.Context, city string) ([]domain.Product, error) {
	return r.store.Find(ctx, func(p domain.Product) bool { return strings.EqualFold(p.City, city) })
}

func (r *repo) Update(ctx context.Context, product *domain.Product) (bool, error) {
	if product == nil {
		return false, nil
	}
	return r.store.Update(ctx, product.ID, *product)
}

func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	return r.store.Delete(ctx, id)
}

// matchesText expects query already lower-cased.
func matchesText(p domain.Product, query string) bool {
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Description), query)
}
