package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"github.com/smallbiznis/hostelhub/internal/clock"
	"github.com/smallbiznis/hostelhub/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("product.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Price < 0 {
		return nil, domain.ErrInvalidPrice
	}
	if req.Stock < 0 {
		return nil, domain.ErrInvalidStock
	}

	now := s.clock.Now()
	p := &domain.Product{
		Name:        name,
		Slug:        slug.Make(name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    strings.TrimSpace(req.Category),
		Type:        strings.TrimSpace(req.Type),
		City:        strings.TrimSpace(req.City),
		Country:     strings.TrimSpace(req.Country),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.Debug("product created", zap.Int64("product_id", p.ID), zap.String("slug", p.Slug))
	return p, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Product, error) {
	filter := domain.ListRequest{
		Query:    strings.TrimSpace(req.Query),
		Type:     strings.TrimSpace(req.Type),
		Category: strings.TrimSpace(req.Category),
		City:     strings.TrimSpace(req.City),
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) Search(ctx context.Context, text string) ([]domain.Product, error) {
	return s.repo.Search(ctx, strings.TrimSpace(text))
}

func (s *Service) ByType(ctx context.Context, productType string) ([]domain.Product, error) {
	return s.repo.ByType(ctx, strings.TrimSpace(productType))
}

func (s *Service) ByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.repo.ByCategory(ctx, strings.TrimSpace(category))
}

func (s *Service) ByCity(ctx context.Context, city string) ([]domain.Product, error) {
	return s.repo.ByCity(ctx, strings.TrimSpace(city))
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Product, error) {
	item, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		item.Name = name
		item.Slug = slug.Make(name)
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, domain.ErrInvalidPrice
		}
		item.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, domain.ErrInvalidStock
		}
		item.Stock = *req.Stock
	}
	if req.Category != nil {
		item.Category = strings.TrimSpace(*req.Category)
	}
	if req.Type != nil {
		item.Type = strings.TrimSpace(*req.Type)
	}
	if req.City != nil {
		item.City = strings.TrimSpace(*req.City)
	}
	if req.Country != nil {
		item.Country = strings.TrimSpace(*req.Country)
	}
	if req.ImageURL != nil {
		item.ImageURL = strings.TrimSpace(*req.ImageURL)
	}

	item.UpdatedAt = s.clock.Now()
	ok, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, err
	}
	if !ok {
		// deleted between read and write
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	productID, err := parseID(id)
	if err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, productID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	s.log.Debug("product deleted", zap.Int64("product_id", productID))
	return nil
}

func parseID(id string) (int64, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || parsed <= 0 {
		return 0, domain.ErrInvalidID
	}
	return parsed, nil
}
