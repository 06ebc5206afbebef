package domain

import (
	"context"
	"errors"
)

type Service interface {
	GetOrCreateThread(ctx context.Context, req ThreadRequest) (*Thread, error)
	Thread(ctx context.Context, threadID string) (*Thread, error)
	// Send appends a message and refreshes the thread's last message in one
	// step. Sending to an unknown thread is a no-op that returns nil.
	Send(ctx context.Context, req SendRequest) (*Message, error)
	ByUser(ctx context.Context, userID string) ([]Thread, error)
	ByThread(ctx context.Context, threadID string) ([]Message, error)
	MarkRead(ctx context.Context, threadID, readerID string) (int, error)
	UnreadCount(ctx context.Context, threadID, userID string) (int, error)
	TotalUnread(ctx context.Context, userID string) (int, error)
}

type ThreadRequest struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	UserA       string `json:"user_a"`
	UserB       string `json:"user_b"`
}

type SendRequest struct {
	ThreadID   string `json:"-"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Content    string `json:"content"`
	Type       string `json:"type"`
}

var (
	ErrInvalidParticipants = errors.New("invalid_participants")
	ErrInvalidSender       = errors.New("invalid_sender")
	ErrInvalidContent      = errors.New("invalid_content")
	ErrInvalidMessageType  = errors.New("invalid_message_type")
	ErrInvalidUser         = errors.New("invalid_user")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)
