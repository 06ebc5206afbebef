package domain

import (
	"context"
	"time"
)

type Repository interface {
	CreateThread(ctx context.Context, thread *Thread) error
	FindThreadByID(ctx context.Context, id int64) (*Thread, error)
	// FindThread looks a thread up by product and canonical participant pair.
	FindThread(ctx context.Context, productID int64, pair []string) (*Thread, error)
	// ThreadsByUser returns the user's threads, most recently active first.
	ThreadsByUser(ctx context.Context, userID string) ([]Thread, error)
	SetLastMessage(ctx context.Context, threadID int64, content string, at time.Time) (bool, error)

	CreateMessage(ctx context.Context, message *Message) error
	// MessagesByThread returns messages oldest first.
	MessagesByThread(ctx context.Context, threadID int64) ([]Message, error)
	// MarkRead flips unread messages not sent by readerID and returns how
	// many changed.
	MarkRead(ctx context.Context, threadID int64, readerID string) (int, error)
	// CountUnread counts unread messages addressed to userID in the given
	// threads.
	CountUnread(ctx context.Context, userID string, threadIDs ...int64) (int, error)
}
