package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra/cache"
	rabbit "storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/pkg/logger"
	"storefront-service/internal/repository"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// CatalogService owns product persistence and the catalog queries.
type CatalogService struct {
	repo      repository.ProductRepository
	cache     cache.ProductCache
	publisher rabbit.PublisherInterface
	log       *logger.Logger
	fills     singleflight.Group
}

func NewCatalogService(r repository.ProductRepository, pub rabbit.PublisherInterface, baseLog *logger.Logger) *CatalogService {
	return &CatalogService{
		repo:      r,
		publisher: pub,
		log:       baseLog.With("service", "CatalogService"),
	}
}

// SetCache enables the product read cache.
func (s *CatalogService) SetCache(c cache.ProductCache) {
	s.cache = c
}

// CreateProduct is idempotent on (name, category): when a product with the
// same name and category exists it is returned and nothing is inserted.
func (s *CatalogService) CreateProduct(ctx context.Context, in domain.NewProduct) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", domain.ErrInvalidArgument)
	}
	price, err := domain.ParsePrice(in.Price)
	if err != nil {
		return nil, err
	}
	var category *string
	if in.Category != nil && strings.TrimSpace(*in.Category) != "" {
		c := strings.TrimSpace(*in.Category)
		category = &c
	}

	var (
		out     *domain.Product
		created bool
	)
	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		existing, err := s.repo.FindByNameAndCategory(ctx, tx, name, category)
		if err == nil {
			out = existing
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		p := &domain.Product{Name: name, Price: price, Category: category}
		if err := s.repo.Create(ctx, tx, p); err != nil {
			return err
		}
		out, created = p, true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		go s.publish(context.Background(), domain.EventProductCreated, domain.ProductCreatedEvent{
			ProductID: out.ID,
			Name:      out.Name,
			Price:     out.Price,
			Category:  out.Category,
		})
	} else {
		s.log.Info("product already exists", "id", out.ID, "name", name)
	}
	return out, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: product id is required", domain.ErrInvalidArgument)
	}
	if s.cache != nil {
		p, ok, err := s.cache.Get(ctx, id)
		if err != nil {
			s.log.Warn("product cache read failed", "id", id, "error", err)
		} else if ok {
			return p, nil
		}
	}

	v, err, _ := s.fills.Do(strconv.FormatUint(id, 10), func() (interface{}, error) {
		p, err := s.repo.FindByID(ctx, nil, id)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, p); err != nil {
				s.log.Warn("product cache write failed", "id", id, "error", err)
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	p := *v.(*domain.Product)
	return &p, nil
}

func (s *CatalogService) FilterProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Category = strings.TrimSpace(f.Category)
	if f.Empty() {
		return nil, fmt.Errorf("%w: must have name, price or category to search products", domain.ErrInvalidArgument)
	}
	return s.repo.Filter(ctx, nil, f)
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.ProductSummary, error) {
	return s.repo.List(ctx, nil)
}

// GetMostPopular ranks products by the number of distinct orders holding
// them. limit <= 0 means no cap.
func (s *CatalogService) GetMostPopular(ctx context.Context, limit int, category string) ([]domain.PopularProduct, error) {
	if limit < 0 {
		limit = 0
	}
	return s.repo.MostPopular(ctx, nil, limit, strings.TrimSpace(category))
}

// DeleteProduct refuses to remove a product that line items still reference.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint64) error {
	if id == 0 {
		return fmt.Errorf("%w: product id is required", domain.ErrInvalidArgument)
	}
	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		n, err := s.repo.CountOrderItems(ctx, tx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("product %d: %w", id, domain.ErrProductInUse)
		}
		rows, err := s.repo.Delete(ctx, tx, id)
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.log.Warn("product cache evict failed", "id", id, "error", err)
		}
	}
	return nil
}

// WarmCache loads the top products by popularity into the cache and
// returns how many were loaded. It is a no-op without a cache.
func (s *CatalogService) WarmCache(ctx context.Context, limit int) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	top, err := s.repo.MostPopular(ctx, nil, limit, "")
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range top {
		if _, err := s.GetProduct(ctx, p.ProductID); err != nil {
			s.log.Warn("cache warmup skipped product", "id", p.ProductID, "error", err)
			continue
		}
		n++
	}
	return n, nil
}

func (s *CatalogService) publish(ctx context.Context, pattern string, evt any) {
	if err := s.publisher.Publish(ctx, pattern, evt); err != nil {
		s.log.Warn("failed to publish event", "pattern", pattern, "error", err)
	}
}
