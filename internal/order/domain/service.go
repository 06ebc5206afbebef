package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Place records a new confirmed order. It joins a transaction already
	// holding the order store.
	Place(ctx context.Context, req PlaceRequest) (*Order, error)
	Get(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	ByUser(ctx context.Context, userID string) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status string) (*Order, error)
	Receipt(ctx context.Context, id string) ([]byte, error)
}

type PlaceRequest struct {
	UserID          string
	Items           []Item
	DeliveryAddress string
	PaymentMethod   string
}

var (
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInvalidTransition  = errors.New("invalid_transition")
	ErrInvalidUser        = errors.New("invalid_user")
	ErrInvalidItems       = errors.New("invalid_items")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
	ErrReceiptUnavailable = errors.New("receipt_unavailable")
)
