package domain

import "context"

// Repository reads and writes the product catalog. Lookups return nil when
// the product does not exist.
type Repository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id int64) (*Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	List(ctx context.Context, filter ListRequest) ([]Product, error)
	Search(ctx context.Context, text string) ([]Product, error)
	ByType(ctx context.Context, productType string) ([]Product, error)
	ByCategory(ctx context.Context, category string) ([]Product, error)
	ByCity(ctx context.Context, city string) ([]Product, error)
	Update(ctx context.Context, product *Product) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
