package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Product, error)
	List(ctx context.Context, req ListRequest) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Search(ctx context.Context, text string) ([]Product, error)
	ByType(ctx context.Context, productType string) ([]Product, error)
	ByCategory(ctx context.Context, category string) ([]Product, error)
	ByCity(ctx context.Context, city string) ([]Product, error)
	Update(ctx context.Context, req UpdateRequest) (*Product, error)
	Delete(ctx context.Context, id string) error
}

// ListRequest narrows the catalog. Empty fields match everything; Query is a
// case-insensitive substring match over name or description.
type ListRequest struct {
	Query    string   `form:"q"`
	Type     string   `form:"type"`
	Category string   `form:"category"`
	City     string   `form:"city"`
	MinPrice *float64 `form:"min_price"`
	MaxPrice *float64 `form:"max_price"`
}

type CreateRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	ImageURL    string  `json:"image_url"`
}

type UpdateRequest struct {
	ID          string   `json:"-"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category"`
	Type        *string  `json:"type"`
	City        *string  `json:"city"`
	Country     *string  `json:"country"`
	ImageURL    *string  `json:"image_url"`
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidPrice = errors.New("invalid_price")
	ErrInvalidStock = errors.New("invalid_stock")
	ErrNotFound     = errors.New("not_found")
	ErrInvalidID    = errors.New("invalid_id")
)
