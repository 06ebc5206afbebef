package domain

import (
	"slices"
	"strings"
	"time"
)

type MessageType string

const (
	MessageTypeText   MessageType = "TEXT"
	MessageTypeImage  MessageType = "IMAGE"
	MessageTypeSystem MessageType = "SYSTEM"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeSystem:
		return true
	default:
		return false
	}
}

// ParseMessageType defaults to TEXT for an empty value.
func ParseMessageType(value string) (MessageType, error) {
	value = strings.ToUpper(strings.TrimSpace(value))
	if value == "" {
		return MessageTypeText, nil
	}
	t := MessageType(value)
	if !t.Valid() {
		return "", ErrInvalidMessageType
	}
	return t, nil
}

// Thread is a conversation about one listing between exactly two users.
// LastMessage and LastMessageTime mirror the newest message of the thread.
type Thread struct {
	ID              int64     `json:"id"`
	ProductID       int64     `json:"product_id"`
	Participants    []string  `json:"participants"`
	ProductName     string    `json:"product_name"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
	CreatedAt       time.Time `json:"created_at"`
}

func (t Thread) EntityID() int64 { return t.ID }

func (t Thread) WithEntityID(id int64) Thread {
	t.ID = id
	return t
}

func (t Thread) Clone() Thread {
	t.Participants = slices.Clone(t.Participants)
	return t
}

func (t Thread) HasParticipant(userID string) bool {
	return slices.Contains(t.Participants, userID)
}

// Matches reports whether the thread is about productID between the given
// canonical pair.
func (t Thread) Matches(productID int64, pair []string) bool {
	return t.ProductID == productID && slices.Equal(t.Participants, pair)
}

// Pair returns the canonical (sorted) form of an unordered participant pair.
func Pair(a, b string) []string {
	if b < a {
		a, b = b, a
	}
	return []string{a, b}
}

type Message struct {
	ID         int64       `json:"id"`
	ChatID     int64       `json:"chat_id"`
	SenderID   string      `json:"sender_id"`
	SenderName string      `json:"sender_name"`
	Content    string      `json:"content"`
	Type       MessageType `json:"type"`
	CreatedAt  time.Time   `json:"timestamp"`
	Read       bool        `json:"read"`
}

func (m Message) EntityID() int64 { return m.ID }

func (m Message) WithEntityID(id int64) Message {
	m.ID = id
	return m
}
