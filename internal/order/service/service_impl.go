package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/hostelhub/internal/clock"
	"github.com/smallbiznis/hostelhub/internal/config"
	"github.com/smallbiznis/hostelhub/internal/datastore"
	"github.com/smallbiznis/hostelhub/internal/observability/logger"
	"github.com/smallbiznis/hostelhub/internal/observability/metrics"
	"github.com/smallbiznis/hostelhub/internal/order/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	DB          *datastore.DB
	Log         *zap.Logger
	Clock       clock.Clock
	GenID       *snowflake.Node
	Repo        domain.Repository
	Receipts    domain.ReceiptRenderer    `optional:"true"`
	StoreConfig *config.StoreConfigHolder `optional:"true"`
	Metrics     *metrics.Metrics          `optional:"true"`
}

type Service struct {
	db          *datastore.DB
	log         *zap.Logger
	clock       clock.Clock
	genID       *snowflake.Node
	repo        domain.Repository
	receipts    domain.ReceiptRenderer
	storeConfig *config.StoreConfigHolder
	metrics     *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("order.service"),
		clock:       p.Clock,
		genID:       p.GenID,
		repo:        p.Repo,
		receipts:    p.Receipts,
		storeConfig: p.StoreConfig,
		metrics:     p.Metrics,
	}
}

func (s *Service) Place(ctx context.Context, req domain.PlaceRequest) (*domain.Order, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, domain.ErrInvalidUser
	}
	if len(req.Items) == 0 {
		return nil, domain.ErrInvalidItems
	}

	now := s.clock.Now()
	order := &domain.Order{
		Reference:       s.genID.Generate().String(),
		UserID:          userID,
		Items:           append([]domain.Item(nil), req.Items...),
		Total:           domain.SumItems(req.Items),
		Status:          domain.StatusConfirmed,
		DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
		PaymentMethod:   strings.TrimSpace(req.PaymentMethod),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	logger.WithContext(ctx, s.log).Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.String("reference", order.Reference),
		zap.Int("items", len(order.Items)),
	)
	return order, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	orderID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.FindAll(ctx)
}

func (s *Service) ByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUser
	}
	return s.repo.ByUser(ctx, userID)
}

// UpdateStatus writes a new status. Unless transition enforcement is turned
// on in the store config, any non-blank status is accepted.
func (s *Service) UpdateStatus(ctx context.Context, id string, status string) (*domain.Order, error) {
	orderID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	next := domain.NormalizeStatus(status)
	if next == "" {
		return nil, domain.ErrInvalidStatus
	}
	enforce := s.storeConfig.EnforceOrderTransitions()
	if enforce && !next.Known() {
		return nil, domain.ErrInvalidStatus
	}

	var (
		updated  *domain.Order
		previous domain.Status
	)
	err = s.db.Transaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if enforce && !domain.CanTransition(current.Status, next) {
			return fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, current.Status, next)
		}

		now := s.clock.Now()
		if _, err := s.repo.UpdateStatus(ctx, orderID, next, now); err != nil {
			return err
		}
		previous = current.Status
		current.Status = next
		current.UpdatedAt = now
		updated = current
		return nil
	}, s.db.Orders)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordOrderStatus(ctx, string(previous), string(next))
	logger.WithContext(ctx, s.log).Info("order status updated",
		zap.Int64("order_id", orderID),
		zap.String("from", string(previous)),
		zap.String("to", string(next)),
		zap.Bool("enforced", enforce),
	)
	return updated, nil
}

func (s *Service) Receipt(ctx context.Context, id string) ([]byte, error) {
	if s.receipts == nil {
		return nil, domain.ErrReceiptUnavailable
	}
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := s.receipts.RenderReceipt(*order)
	if err != nil {
		logger.WithContext(ctx, s.log).Error("render receipt failed", zap.Int64("order_id", order.ID), zap.Error(err))
		return nil, err
	}
	return doc, nil
}

func parseID(id string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || parsed <= 0 {
		return 0, domain.ErrInvalidID
	}
	return parsed, nil
}
