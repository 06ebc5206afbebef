package domain

import (
	"context"
	"errors"

	orderdomain "github.com/smallbiznis/hostelhub/internal/order/domain"
)

type Service interface {
	NewSession() string
	// Add puts the product in the cart unless it is already there. It reports
	// whether a line was added.
	Add(ctx context.Context, sessionID, productID string) (bool, error)
	Remove(ctx context.Context, sessionID, productID string) (bool, error)
	Clear(ctx context.Context, sessionID string) error
	View(ctx context.Context, sessionID string) (*Cart, error)
	Total(ctx context.Context, sessionID string) (float64, error)
	// Checkout turns the cart into a confirmed order and empties it in one
	// step. An empty cart yields ErrEmptyCart and no order.
	Checkout(ctx context.Context, req CheckoutRequest) (*orderdomain.Order, error)
}

type Cart struct {
	SessionID string  `json:"session_id"`
	Lines     []Line  `json:"lines"`
	Total     float64 `json:"total"`
}

type CheckoutRequest struct {
	SessionID       string `json:"-"`
	UserID          string `json:"user_id"`
	DeliveryAddress string `json:"delivery_address"`
	PaymentMethod   string `json:"payment_method"`
}

var (
	ErrInvalidSession  = errors.New("invalid_session")
	ErrInvalidProduct  = errors.New("invalid_product")
	ErrProductNotFound = errors.New("product_not_found")
	ErrEmptyCart       = errors.New("empty_cart")
)
