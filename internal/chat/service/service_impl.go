package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/smallbiznis/hostelhub/internal/chat/domain"
	"github.com/smallbiznis/hostelhub/internal/clock"
	"github.com/smallbiznis/hostelhub/internal/config"
	"github.com/smallbiznis/hostelhub/internal/datastore"
	"github.com/smallbiznis/hostelhub/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	DB          *datastore.DB
	Log         *zap.Logger
	Clock       clock.Clock
	Repo        domain.Repository
	StoreConfig *config.StoreConfigHolder `optional:"true"`
	Metrics     *metrics.Metrics          `optional:"true"`
}

type Service struct {
	db          *datastore.DB
	log         *zap.Logger
	clock       clock.Clock
	repo        domain.Repository
	storeConfig *config.StoreConfigHolder
	metrics     *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("chat.service"),
		clock:       p.Clock,
		repo:        p.Repo,
		storeConfig: p.StoreConfig,
		metrics:     p.Metrics,
	}
}

// GetOrCreateThread returns the thread for the product between the two users,
// creating it when missing. The participant order does not matter.
func (s *Service) GetOrCreateThread(ctx context.Context, req domain.ThreadRequest) (*domain.Thread, error) {
	productID, err := parseID(req.ProductID)
	if err != nil {
		return nil, err
	}
	userA, userB := strings.TrimSpace(req.UserA), strings.TrimSpace(req.UserB)
	if userA == "" || userB == "" || userA == userB {
		return nil, domain.ErrInvalidParticipants
	}
	pair := domain.Pair(userA, userB)

	var (
		thread  *domain.Thread
		created bool
	)
	err = s.db.Transaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.FindThread(ctx, productID, pair)
		if err != nil {
			return err
		}
		if existing != nil {
			thread = existing
			return nil
		}

		now := s.clock.Now()
		t := &domain.Thread{
			ProductID:       productID,
			Participants:    pair,
			ProductName:     strings.TrimSpace(req.ProductName),
			LastMessage:     s.storeConfig.OpeningMessage(),
			LastMessageTime: now,
			CreatedAt:       now,
		}
		if err := s.repo.CreateThread(ctx, t); err != nil {
			return err
		}
		thread, created = t, true
		return nil
	}, s.db.Threads)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordThread(ctx, created)
	if created {
		s.log.Info("chat thread created",
			zap.Int64("thread_id", thread.ID),
			zap.Int64("product_id", productID),
		)
	}
	return thread, nil
}

func (s *Service) Thread(ctx context.Context, threadID string) (*domain.Thread, error) {
	id, err := parseID(threadID)
	if err != nil {
		return nil, err
	}
	thread, err := s.repo.FindThreadByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, domain.ErrNotFound
	}
	return thread, nil
}

func (s *Service) Send(ctx context.Context, req domain.SendRequest) (*domain.Message, error) {
	threadID, err := parseID(req.ThreadID)
	if err != nil {
		return nil, err
	}
	senderID := strings.TrimSpace(req.SenderID)
	if senderID == "" {
		return nil, domain.ErrInvalidSender
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, domain.ErrInvalidContent
	}
	msgType, err := domain.ParseMessageType(req.Type)
	if err != nil {
		return nil, err
	}

	var sent *domain.Message
	err = s.db.Transaction(ctx, func(ctx context.Context) error {
		thread, err := s.repo.FindThreadByID(ctx, threadID)
		if err != nil || thread == nil {
			return err
		}

		msg := &domain.Message{
			ChatID:     threadID,
			SenderID:   senderID,
			SenderName: strings.TrimSpace(req.SenderName),
			Content:    content,
			Type:       msgType,
			CreatedAt:  s.clock.Now(),
		}
		if err := s.repo.CreateMessage(ctx, msg); err != nil {
			return err
		}
		if _, err := s.repo.SetLastMessage(ctx, threadID, msg.Content, msg.CreatedAt); err != nil {
			return err
		}
		sent = msg
		return nil
	}, s.db.Threads, s.db.Messages)
	if err != nil {
		return nil, err
	}
	if sent == nil {
		s.log.Debug("message to unknown thread dropped", zap.Int64("thread_id", threadID))
		return nil, nil
	}

	s.metrics.RecordMessage(ctx, string(sent.Type))
	return sent, nil
}

func (s *Service) ByUser(ctx context.Context, userID string) ([]domain.Thread, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUser
	}
	return s.repo.ThreadsByUser(ctx, userID)
}

func (s *Service) ByThread(ctx context.Context, threadID string) ([]domain.Message, error) {
	id, err := parseID(threadID)
	if err != nil {
		return nil, err
	}
	return s.repo.MessagesByThread(ctx, id)
}

func (s *Service) MarkRead(ctx context.Context, threadID, readerID string) (int, error) {
	id, err := parseID(threadID)
	if err != nil {
		return 0, err
	}
	readerID = strings.TrimSpace(readerID)
	if readerID == "" {
		return 0, domain.ErrInvalidUser
	}
	n, err := s.repo.MarkRead(ctx, id, readerID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Debug("messages marked read", zap.Int64("thread_id", id), zap.Int("count", n))
	}
	return n, nil
}

func (s *Service) UnreadCount(ctx context.Context, threadID, userID string) (int, error) {
	id, err := parseID(threadID)
	if err != nil {
		return 0, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, domain.ErrInvalidUser
	}
	return s.repo.CountUnread(ctx, userID, id)
}

// TotalUnread counts unread messages across every thread of the user. Both
// stores are read under one transaction so the count matches a single
// point in time.
func (s *Service) TotalUnread(ctx context.Context, userID string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, domain.ErrInvalidUser
	}

	var total int
	err := s.db.Transaction(ctx, func(ctx context.Context) error {
		threads, err := s.repo.ThreadsByUser(ctx, userID)
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(threads))
		for _, t := range threads {
			ids = append(ids, t.ID)
		}
		total, err = s.repo.CountUnread(ctx, userID, ids...)
		return err
	}, s.db.Threads, s.db.Messages)
	return total, err
}

func parseID(id string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || parsed <= 0 {
		return 0, domain.ErrInvalidID
	}
	return parsed, nil
}
