package repository

import (
	"context"
	"sort"
	"time"

	"github.com/smallbiznis/hostelhub/internal/chat/domain"
	"github.com/smallbiznis/hostelhub/internal/datastore"
	"github.com/smallbiznis/hostelhub/pkg/entitystore"
)

type repo struct {
	threads  *entitystore.Store[domain.Thread]
	messages *entitystore.Store[domain.Message]
}

func Provide(db *datastore.DB) domain.Repository {
	return &repo{threads: db.Threads, messages: db.Messages}
}

func (r *repo) CreateThread(ctx context.Context, thread *domain.Thread) error {
	id, err := r.threads.Insert(ctx, *thread)
	if err != nil {
		return err
	}
	thread.ID = id
	return nil
}

func (r *repo) FindThreadByID(ctx context.Context, id int64) (*domain.Thread, error) {
	return r.threads.Get(ctx, id)
}

func (r *repo) FindThread(ctx context.Context, productID int64, pair []string) (*domain.Thread, error) {
	return r.threads.FindOne(ctx, func(t domain.Thread) bool {
		return t.Matches(productID, pair)
	})
}

func (r *repo) ThreadsByUser(ctx context.Context, userID string) ([]domain.Thread, error) {
	items, err := r.threads.Find(ctx, func(t domain.Thread) bool {
		return t.HasParticipant(userID)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].LastMessageTime.After(items[j].LastMessageTime)
	})
	return items, nil
}

func (r *repo) SetLastMessage(ctx context.Context, threadID int64, content string, at time.Time) (bool, error) {
	return r.threads.Modify(ctx, threadID, func(t domain.Thread) domain.Thread {
		t.LastMessage = content
		t.LastMessageTime = at
		return t
	})
}

func (r *repo) CreateMessage(ctx context.Context, message *domain.Message) error {
	id, err := r.messages.Insert(ctx, *message)
	if err != nil {
		return err
	}
	message.ID = id
	return nil
}

func (r *repo) MessagesByThread(ctx context.Context, threadID int64) ([]domain.Message, error) {
	items, err := r.messages.Find(ctx, func(m domain.Message) bool { return m.ChatID == threadID })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (r *repo) MarkRead(ctx context.Context, threadID int64, readerID string) (int, error) {
	return r.messages.ModifyWhere(ctx,
		func(m domain.Message) bool {
			return m.ChatID == threadID && m.SenderID != readerID && !m.Read
		},
		func(m domain.Message) domain.Message {
			m.Read = true
			return m
		},
	)
}

func (r *repo) CountUnread(ctx context.Context, userID string, threadIDs ...int64) (int, error) {
	if len(threadIDs) == 0 {
		return 0, nil
	}
	wanted := make(map[int64]struct{}, len(threadIDs))
	for _, id := range threadIDs {
		wanted[id] = struct{}{}
	}
	items, err := r.messages.Find(ctx, func(m domain.Message) bool {
		if m.Read || m.SenderID == userID {
			return false
		}
		_, ok := wanted[m.ChatID]
		return ok
	})
	if err != nil {
		return 0, err
	}
	return len(items), nil
}
