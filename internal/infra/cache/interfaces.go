package cache

import (
	"context"

	"storefront-service/internal/domain"
)

// ProductCache is a read-through cache for single products. Get reports
// ok=false on a miss; errors are for a broken backend only.
type ProductCache interface {
	Get(ctx context.Context, id uint64) (p *domain.Product, ok bool, err error)
	Set(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id uint64) error
}

var _ ProductCache = (*RedisProductCache)(nil)
