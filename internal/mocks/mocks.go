package mocks

import (
	"context"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockOrderRepository struct {
	mock.Mock
}

type MockProductRepository struct {
	mock.Mock
}

type MockReportRepository struct {
	mock.Mock
}

type MockProductLookup struct {
	mock.Mock
}

type MockProductCache struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

var (
	_ repository.OrderRepository   = (*MockOrderRepository)(nil)
	_ repository.ProductRepository = (*MockProductRepository)(nil)
	_ repository.ReportRepository  = (*MockReportRepository)(nil)
)

func (m *MockPublisher) Publish(ctx context.Context, topic string, message interface{}) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}

func (m *MockProductLookup) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductCache) Get(ctx context.Context, id uint64) (*domain.Product, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Product), args.Bool(1), args.Error(2)
}

func (m *MockProductCache) Set(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductCache) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Transaction runs fn without a real transaction; the repository methods
// called from fn receive a nil tx.

func (m *MockOrderRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (m *MockOrderRepository) FindOpenByUser(ctx context.Context, tx *gorm.DB, userID uint64) (*domain.Order, error) {
	args := m.Called(ctx, tx, userID)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *MockOrderRepository) LockOpenByUser(ctx context.Context, tx *gorm.DB, userID uint64) (*domain.Order, error) {
	args := m.Called(ctx, tx, userID)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *MockOrderRepository) CreateOpen(ctx context.Context, tx *gorm.DB, userID uint64) (*domain.Order, error) {
	args := m.Called(ctx, tx, userID)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint64) (*domain.Order, error) {
	args := m.Called(ctx, tx, id)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *MockOrderRepository) LockByID(ctx context.Context, tx *gorm.DB, id uint64) (*domain.Order, error) {
	args := m.Called(ctx, tx, id)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, tx *gorm.DB, userID uint64, status domain.OrderStatus) ([]domain.Order, error) {
	args := m.Called(ctx, tx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint64, status domain.OrderStatus) error {
	args := m.Called(ctx, tx, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, tx *gorm.DB, id uint64) (int64, error) {
	args := m.Called(ctx, tx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Items(ctx context.Context, tx *gorm.DB, orderID uint64) ([]domain.OrderItem, error) {
	args := m.Called(ctx, tx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderItem), args.Error(1)
}

func (m *MockOrderRepository) InsertItem(ctx context.Context, tx *gorm.DB, item *domain.OrderProduct) error {
	args := m.Called(ctx, tx, item)
	return args.Error(0)
}

func (m *MockOrderRepository) SetItemQty(ctx context.Context, tx *gorm.DB, orderID, productID uint64, qty int64) (int64, error) {
	args := m.Called(ctx, tx, orderID, productID, qty)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) DeleteItem(ctx context.Context, tx *gorm.DB, orderID, productID uint64) (int64, error) {
	args := m.Called(ctx, tx, orderID, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) DeleteItems(ctx context.Context, tx *gorm.DB, orderID uint64) error {
	args := m.Called(ctx, tx, orderID)
	return args.Error(0)
}

func orderOrNil(v interface{}) *domain.Order {
	if v == nil {
		return nil
	}
	return v.(*domain.Order)
}

func (m *MockProductRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (m *MockProductRepository) Create(ctx context.Context, tx *gorm.DB, p *domain.Product) error {
	args := m.Called(ctx, tx, p)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint64) (*domain.Product, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindByNameAndCategory(ctx context.Context, tx *gorm.DB, name string, category *string) (*domain.Product, error) {
	args := m.Called(ctx, tx, name, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Filter(ctx context.Context, tx *gorm.DB, f domain.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, tx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, tx *gorm.DB) ([]domain.ProductSummary, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProductSummary), args.Error(1)
}

func (m *MockProductRepository) MostPopular(ctx context.Context, tx *gorm.DB, limit int, category string) ([]domain.PopularProduct, error) {
	args := m.Called(ctx, tx, limit, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PopularProduct), args.Error(1)
}

func (m *MockProductRepository) CountOrderItems(ctx context.Context, tx *gorm.DB, productID uint64) (int64, error) {
	args := m.Called(ctx, tx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, tx *gorm.DB, id uint64) (int64, error) {
	args := m.Called(ctx, tx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) UsersWithOrders(ctx context.Context) ([]domain.UserOrderRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserOrderRow), args.Error(1)
}

func (m *MockReportRepository) OrderProducts(ctx context.Context) ([]domain.OrderProduct, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderProduct), args.Error(1)
}

func (m *MockReportRepository) ProductOrders(ctx context.Context, sort *repository.ReportSort, limit int) ([]domain.ProductSales, error) {
	args := m.Called(ctx, sort, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProductSales), args.Error(1)
}
