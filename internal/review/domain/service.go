package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Review, error)
	Approve(ctx context.Context, id string) (*Review, error)
	Reject(ctx context.Context, id string) (*Review, error)
	Delete(ctx context.Context, id string) error
	ByProduct(ctx context.Context, productID string) ([]Review, error)
	Summary(ctx context.Context, productID string) (*Summary, error)
	Pending(ctx context.Context) ([]Review, error)
	ByUser(ctx context.Context, userID string) ([]Review, error)
}

type CreateRequest struct {
	ProductID  string `json:"-"`
	UserID     string `json:"user_id"`
	AuthorName string `json:"author_name"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	// Approved defaults to true.
	Approved *bool `json:"approved"`
}

var (
	ErrInvalidRating = errors.New("invalid_rating")
	ErrInvalidAuthor = errors.New("invalid_author")
	ErrInvalidUser   = errors.New("invalid_user")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
