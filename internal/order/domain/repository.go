package domain

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id int64) (*Order, error)
	FindAll(ctx context.Context) ([]Order, error)
	// ByUser returns the user's orders, newest first.
	ByUser(ctx context.Context, userID string) ([]Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status, at time.Time) (bool, error)
}

// ReceiptRenderer renders a printable receipt for an order.
type ReceiptRenderer interface {
	RenderReceipt(order Order) ([]byte, error)
}
