package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/hostelhub/internal/cart/domain"
	"github.com/smallbiznis/hostelhub/internal/clock"
	"github.com/smallbiznis/hostelhub/internal/datastore"
	"github.com/smallbiznis/hostelhub/internal/observability/logger"
	"github.com/smallbiznis/hostelhub/internal/observability/metrics"
	orderdomain "github.com/smallbiznis/hostelhub/internal/order/domain"
	productdomain "github.com/smallbiznis/hostelhub/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	DB       *datastore.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Repo     domain.Repository
	Products productdomain.Repository
	Orders   orderdomain.Service
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	db       *datastore.DB
	log      *zap.Logger
	clock    clock.Clock
	repo     domain.Repository
	products productdomain.Repository
	orders   orderdomain.Service
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("cart.service"),
		clock:    p.Clock,
		repo:     p.Repo,
		products: p.Products,
		orders:   p.Orders,
		metrics:  p.Metrics,
	}
}

func (s *Service) NewSession() string {
	return ulid.Make().String()
}

func (s *Service) Add(ctx context.Context, sessionID, productID string) (bool, error) {
	session, err := parseSession(sessionID)
	if err != nil {
		return false, err
	}
	pid, err := parseProductID(productID)
	if err != nil {
		return false, err
	}

	product, err := s.products.FindByID(ctx, pid)
	if err != nil {
		return false, err
	}
	if product == nil {
		return false, domain.ErrProductNotFound
	}

	added := false
	err = s.db.Transaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.FindLine(ctx, session, pid)
		if err != nil || existing != nil {
			return err
		}
		line := &domain.Line{
			SessionID: session,
			ProductID: pid,
			Product:   *product,
			AddedAt:   s.clock.Now(),
		}
		if err := s.repo.Create(ctx, line); err != nil {
			return err
		}
		added = true
		return nil
	}, s.db.CartLines)
	if err != nil {
		return false, err
	}

	s.metrics.RecordCartAdd(ctx, added)
	return added, nil
}

func (s *Service) Remove(ctx context.Context, sessionID, productID string) (bool, error) {
	session, err := parseSession(sessionID)
	if err != nil {
		return false, err
	}
	pid, err := parseProductID(productID)
	if err != nil {
		return false, err
	}
	return s.repo.Remove(ctx, session, pid)
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	session, err := parseSession(sessionID)
	if err != nil {
		return err
	}
	_, err = s.repo.Clear(ctx, session)
	return err
}

func (s *Service) View(ctx context.Context, sessionID string) (*domain.Cart, error) {
	session, err := parseSession(sessionID)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.Lines(ctx, session)
	if err != nil {
		return nil, err
	}
	return &domain.Cart{
		SessionID: session,
		Lines:     lines,
		Total:     domain.Total(lines),
	}, nil
}

func (s *Service) Total(ctx context.Context, sessionID string) (float64, error) {
	cart, err := s.View(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return cart.Total, nil
}

func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (*orderdomain.Order, error) {
	session, err := parseSession(req.SessionID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.UserID) == "" {
		return nil, orderdomain.ErrInvalidUser
	}

	var placed *orderdomain.Order
	err = s.db.Transaction(ctx, func(ctx context.Context) error {
		lines, err := s.repo.Lines(ctx, session)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}

		items := make([]orderdomain.Item, 0, len(lines))
		for _, l := range lines {
			items = append(items, orderdomain.Item{
				ProductID: l.ProductID,
				Name:      l.Product.Name,
				UnitPrice: l.Product.Price,
				Quantity:  1,
			})
		}

		order, err := s.orders.Place(ctx, orderdomain.PlaceRequest{
			UserID:          req.UserID,
			Items:           items,
			DeliveryAddress: req.DeliveryAddress,
			PaymentMethod:   req.PaymentMethod,
		})
		if err != nil {
			return err
		}
		if _, err := s.repo.Clear(ctx, session); err != nil {
			return err
		}
		placed = order
		return nil
	}, s.db.CartLines, s.db.Orders)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			s.log.Debug("checkout on empty cart", zap.String("session_id", session))
		}
		return nil, err
	}

	s.metrics.RecordCheckout(ctx, placed.PaymentMethod, placed.Total)
	logger.WithContext(ctx, s.log).Info("checkout completed",
		zap.String("session_id", session),
		zap.Int64("order_id", placed.ID),
		zap.Float64("total", placed.Total),
	)
	return placed, nil
}

func parseSession(sessionID string) (string, error) {
	id, err := ulid.ParseStrict(strings.TrimSpace(sessionID))
	if err != nil {
		return "", domain.ErrInvalidSession
	}
	return id.String(), nil
}

func parseProductID(id string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || parsed <= 0 {
		return 0, domain.ErrInvalidProduct
	}
	return parsed, nil
}
