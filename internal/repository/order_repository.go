package repository

import (
	"context"

	"storefront-service/internal/domain"

	"gorm.io/gorm"
)

type OrderRepository interface {
	// FindOpenByUser returns domain.ErrNotFound when the user has no open order.
	FindOpenByUser(ctx context.Context, tx *gorm.DB, userID uint64) (*domain.Order, error)
	// CreateOpen inserts an open order. A concurrent open order for the same
	// user surfaces as gorm.ErrDuplicatedKey.
	CreateOpen(ctx context.Context, tx *gorm.DB, userID uint64) (*domain.Order, error)
	// LockOpenByUser is FindOpenByUser under a row lock. It sees open orders
	// committed after tx began.
	LockOpenByUser(ctx context.Context, tx *gorm.DB, userID uint64) (*domain.Order, error)
	FindByID(ctx context.Context, tx *gorm.DB, id uint64) (*domain.Order, error)
	// LockByID is FindByID holding a row lock until tx ends.
	LockByID(ctx context.Context, tx *gorm.DB, id uint64) (*domain.Order, error)
	FindByUser(ctx context.Context, tx *gorm.DB, userID uint64, status domain.OrderStatus) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint64, status domain.OrderStatus) error
	Delete(ctx context.Context, tx *gorm.DB, id uint64) (int64, error)

	Items(ctx context.Context, tx *gorm.DB, orderID uint64) ([]domain.OrderItem, error)
	InsertItem(ctx context.Context, tx *gorm.DB, item *domain.OrderProduct) error
	SetItemQty(ctx context.Context, tx *gorm.DB, orderID, productID uint64, qty int64) (int64, error)
	DeleteItem(ctx context.Context, tx *gorm.DB, orderID, productID uint64) (int64, error)
	DeleteItems(ctx context.Context, tx *gorm.DB, orderID uint64) error

	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
