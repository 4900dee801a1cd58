package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/transport"
)

const MsgMissingProductFields = "Missing required product fields"

type CatalogService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	// Index is optional; without it search runs against the database.
	Index search.Index
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// GetProducts lists newest first; limit <= 0 returns the whole catalog.
func (s *CatalogService) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, offset, limit)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	title := strings.TrimSpace(req.Title)
	desc := strings.TrimSpace(req.Description)
	if title == "" || desc == "" || req.PriceCents == nil {
		return nil, invalid("", MsgMissingProductFields)
	}
	if *req.PriceCents < 0 {
		return nil, invalid("price_cents", "price_cents must not be negative")
	}
	prod := &models.Product{
		Title:       title,
		Description: desc,
		PriceCents:  *req.PriceCents,
		ImageURL:    strings.TrimSpace(req.ImageURL),
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, invalid("stock", "stock must not be negative")
		}
		prod.Stock = *req.Stock
	}

	created, err := s.Repo.CreateProduct(ctx, prod)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.publish(ctx, productEvent(events.TypeProductCreated, created))
	s.reindex(ctx, created)
	return created, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, req transport.UpdateProductRequest, id string) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	if err := validatePatch(&req); err != nil {
		return nil, err
	}

	prod, err := s.Repo.PatchProduct(ctx, req, id)
	if err != nil {
		return nil, notFound(err)
	}

	s.publish(ctx, productEvent(events.TypeProductUpdated, prod))
	s.reindex(ctx, prod)
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return notFound(err)
	}

	s.publish(ctx, events.ProductEvent{Type: events.TypeProductDeleted, ProductID: id, At: time.Now().UTC()})
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Error("search_delete_failed", "product_id", id, "error", err)
		}
	}
	return nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, invalid("q", "Search query is required")
	}

	if s.Index != nil {
		total, items, err := s.Index.Search(ctx, q, offset, limit)
		if err == nil {
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "reason", "falling back to database", "error", err)
	}
	return s.Repo.SearchProducts(ctx, q, offset, limit)
}

func validatePatch(req *transport.UpdateProductRequest) error {
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		if t == "" {
			return invalid("title", "title must not be empty")
		}
		req.Title = &t
	}
	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		if d == "" {
			return invalid("description", "description must not be empty")
		}
		req.Description = &d
	}
	if req.PriceCents != nil && *req.PriceCents < 0 {
		return invalid("price_cents", "price_cents must not be negative")
	}
	if req.Stock != nil && *req.Stock < 0 {
		return invalid("stock", "stock must not be negative")
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func productEvent(typ string, p *models.Product) events.ProductEvent {
	return events.ProductEvent{
		Type:       typ,
		ProductID:  p.ID,
		Title:      p.Title,
		PriceCents: p.PriceCents,
		Stock:      p.Stock,
		At:         time.Now().UTC(),
	}
}

func (s *CatalogService) publish(ctx context.Context, ev events.ProductEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, events.TopicProducts, ev.ProductID, ev); err != nil {
		logging.FromContext(ctx).Error("publish_failed", "topic", events.TopicProducts, "type", ev.Type, "error", err)
	}
}

func (s *CatalogService) reindex(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Error("search_index_failed", "product_id", p.ID, "error", err)
	}
}
