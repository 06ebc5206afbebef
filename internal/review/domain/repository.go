package domain

import "context"

type Repository interface {
	Create(ctx context.Context, review *Review) error
	FindByID(ctx context.Context, id int64) (*Review, error)
	// SetApproved returns the review as written, or nil when it does not exist.
	SetApproved(ctx context.Context, id int64, approved bool) (*Review, error)
	Delete(ctx context.Context, id int64) (bool, error)
	// ApprovedByProduct returns approved reviews, newest first.
	ApprovedByProduct(ctx context.Context, productID int64) ([]Review, error)
	// Pending returns unapproved reviews, oldest first.
	Pending(ctx context.Context) ([]Review, error)
	ByUser(ctx context.Context, userID string) ([]Review, error)
}
