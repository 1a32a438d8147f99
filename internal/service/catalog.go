package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avanti-store/catalog-backend/internal/models"
	"github.com/avanti-store/catalog-backend/internal/mykafka"
	"github.com/avanti-store/catalog-backend/internal/store"
	"github.com/avanti-store/catalog-backend/pkg/logging"
)

const productEventsTopic = "product_events"

// ProductInput carries raw form values; Price and Sizes are parsed here so
// all callers share the same defaulting rules.
type ProductInput struct {
	Name     string
	Category string
	Price    string
	Stock    string
	Sizes    string
	Img      *string
}

// CatalogService owns the product collection. Producer may be nil when no
// broker is configured.
type CatalogService struct {
	Products *store.Collection[models.Product]
	Producer *mykafka.Producer
}

func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	return s.Products.Load()
}

func (s *CatalogService) Get(ctx context.Context, id string) (*models.Product, error) {
	products, err := s.Products.Load()
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	if strings.TrimSpace(in.Name) == "" {
		l.Warn("create_failed", "status", 400, "reason", "name is required")
		return nil, ErrValidation
	}

	price := parsePrice(in.Price, 0)
	if price < 0 {
		l.Warn("create_failed", "status", 400, "reason", "negative price")
		return nil, ErrValidation
	}

	product := models.Product{
		ID:       uuid.NewString(),
		Name:     in.Name,
		Category: in.Category,
		Price:    price,
		Img:      in.Img,
		Stock:    in.Stock == "true",
		Sizes:    parseSizes(in.Sizes),
	}

	err := s.Products.Update(func(products []models.Product) ([]models.Product, error) {
		return append(products, product), nil
	})
	if err != nil {
		l.Error("create_failed", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, product.ID, map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})
	l.Info("create_success", "product_id", product.ID)
	return &product, nil
}

func (s *CatalogService) Update(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update", "product_id", id)

	var updated models.Product
	err := s.Products.Update(func(products []models.Product) ([]models.Product, error) {
		for i := range products {
			if products[i].ID != id {
				continue
			}
			p := &products[i]
			// a price that fails to parse keeps the stored value
			price := parsePrice(in.Price, p.Price)
			if price < 0 {
				return nil, ErrValidation
			}
			p.Name = in.Name
			p.Category = in.Category
			p.Price = price
			p.Img = in.Img
			p.Stock = in.Stock == "true"
			p.Sizes = parseSizes(in.Sizes)
			updated = *p
			return products, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		switch err {
		case ErrNotFound:
			l.Warn("update_failed", "status", 404, "reason", "unknown product")
		case ErrValidation:
			l.Warn("update_failed", "status", 400, "reason", "negative price")
		default:
			l.Error("update_failed", "status", 500, "error", err)
		}
		return nil, err
	}

	s.publish(ctx, id, map[string]any{
		"type":      "product_updated",
		"productID": id,
		"name":      updated.Name,
	})
	l.Info("update_success")
	return &updated, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete", "product_id", id)

	err := s.Products.Update(func(products []models.Product) ([]models.Product, error) {
		next := make([]models.Product, 0, len(products))
		for _, p := range products {
			if p.ID != id {
				next = append(next, p)
			}
		}
		if len(next) == len(products) {
			return nil, ErrNotFound
		}
		return next, nil
	})
	if err != nil {
		if err == ErrNotFound {
			l.Warn("delete_failed", "status", 404, "reason", "unknown product")
		} else {
			l.Error("delete_failed", "status", 500, "error", err)
		}
		return err
	}

	s.publish(ctx, id, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	l.Info("delete_success")
	return nil
}

func (s *CatalogService) publish(ctx context.Context, key string, event map[string]any) {
	if s.Producer == nil {
		return
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pctx, productEventsTopic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "topic", productEventsTopic, "error", err)
	}
}

func parsePrice(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseSizes(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
