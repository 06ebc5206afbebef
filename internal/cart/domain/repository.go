package domain

import "context"

type Repository interface {
	FindLine(ctx context.Context, sessionID string, productID int64) (*Line, error)
	Create(ctx context.Context, line *Line) error
	Remove(ctx context.Context, sessionID string, productID int64) (bool, error)
	Clear(ctx context.Context, sessionID string) (int, error)
	// Lines returns the session's lines in the order they were added.
	Lines(ctx context.Context, sessionID string) ([]Line, error)
}
