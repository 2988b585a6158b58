package repository

import (
	"context"

	"storefront-service/internal/domain"

	"gorm.io/gorm"
)

// ProductRepository methods run on tx when it is non-nil, otherwise on the
// repository's own pool.
type ProductRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *domain.Product) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint64) (*domain.Product, error)
	FindByNameAndCategory(ctx context.Context, tx *gorm.DB, name string, category *string) (*domain.Product, error)
	Filter(ctx context.Context, tx *gorm.DB, f domain.ProductFilter) ([]domain.Product, error)
	List(ctx context.Context, tx *gorm.DB) ([]domain.ProductSummary, error)
	MostPopular(ctx context.Context, tx *gorm.DB, limit int, category string) ([]domain.PopularProduct, error)
	CountOrderItems(ctx context.Context, tx *gorm.DB, productID uint64) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint64) (int64, error)
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
