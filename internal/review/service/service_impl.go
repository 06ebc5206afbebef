package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/smallbiznis/hostelhub/internal/clock"
	"github.com/smallbiznis/hostelhub/internal/observability/metrics"
	"github.com/smallbiznis/hostelhub/internal/review/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Clock   clock.Clock
	Repo    domain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	clock   clock.Clock
	repo    domain.Repository
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("review.service"),
		clock:   p.Clock,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Review, error) {
	productID, err := parseID(req.ProductID)
	if err != nil {
		return nil, err
	}
	if req.Rating < domain.MinRating || req.Rating > domain.MaxRating {
		return nil, domain.ErrInvalidRating
	}
	author := strings.TrimSpace(req.AuthorName)
	if author == "" {
		return nil, domain.ErrInvalidAuthor
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, domain.ErrInvalidUser
	}

	approved := true
	if req.Approved != nil {
		approved = *req.Approved
	}

	review := &domain.Review{
		ProductID:  productID,
		UserID:     userID,
		AuthorName: author,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
		CreatedAt:  s.clock.Now(),
		Approved:   approved,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.metrics.RecordReview(ctx, review.Rating)
	s.log.Debug("review created",
		zap.Int64("review_id", review.ID),
		zap.Int64("product_id", productID),
		zap.Bool("approved", approved),
	)
	return review, nil
}

func (s *Service) Approve(ctx context.Context, id string) (*domain.Review, error) {
	return s.moderate(ctx, id, true)
}

func (s *Service) Reject(ctx context.Context, id string) (*domain.Review, error) {
	return s.moderate(ctx, id, false)
}

func (s *Service) moderate(ctx context.Context, id string, approved bool) (*domain.Review, error) {
	reviewID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.SetApproved(ctx, reviewID, approved)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	decision := "rejected"
	if approved {
		decision = "approved"
	}
	s.metrics.RecordModeration(ctx, decision)
	s.log.Info("review moderated", zap.Int64("review_id", reviewID), zap.String("decision", decision))
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	reviewID, err := parseID(id)
	if err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, reviewID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) ByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	pid, err := parseID(productID)
	if err != nil {
		return nil, err
	}
	return s.repo.ApprovedByProduct(ctx, pid)
}

// Summary is recomputed from the approved reviews on every call.
func (s *Service) Summary(ctx context.Context, productID string) (*domain.Summary, error) {
	pid, err := parseID(productID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ApprovedByProduct(ctx, pid)
	if err != nil {
		return nil, err
	}
	summary := domain.Summarize(pid, items)
	return &summary, nil
}

func (s *Service) Pending(ctx context.Context) ([]domain.Review, error) {
	return s.repo.Pending(ctx)
}

func (s *Service) ByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUser
	}
	return s.repo.ByUser(ctx, userID)
}

func parseID(id string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || parsed <= 0 {
		return 0, domain.ErrInvalidID
	}
	return parsed, nil
}
