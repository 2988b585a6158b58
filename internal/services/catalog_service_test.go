package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra/cache"
	"storefront-service/internal/mocks"
	"storefront-service/internal/pkg/logger"
	"storefront-service/internal/repository/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newMockedCatalogService() (*CatalogService, *mocks.MockProductRepository) {
	repo := new(mocks.MockProductRepository)
	pub := new(mocks.MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return NewCatalogService(repo, pub, logger.Nop()), repo
}

func TestCatalogService_CreateProduct(t *testing.T) {
	tests := []struct {
		name          string
		in            domain.NewProduct
		expectedPrice int64
		expectedError error
	}{
		{name: "decimal price is major units", in: domain.NewProduct{Name: "Desk", Price: "12.34"}, expectedPrice: 1234},
		{name: "integer price is subunits", in: domain.NewProduct{Name: "Desk", Price: "1234"}, expectedPrice: 1234},
		{name: "blank category is no category", in: domain.NewProduct{Name: "Desk", Price: "1", Category: strPtr("  ")}, expectedPrice: 1},
		{name: "missing name", in: domain.NewProduct{Name: " ", Price: "1"}, expectedError: domain.ErrInvalidArgument},
		{name: "bad price", in: domain.NewProduct{Name: "Desk", Price: "abc"}, expectedError: domain.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := newMockedCatalogService()
			if tt.expectedError == nil {
				repo.On("FindByNameAndCategory", mock.Anything, mock.Anything, "Desk", (*string)(nil)).Return(nil, domain.ErrNotFound)
				repo.On("Create", mock.Anything, mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil).Run(func(args mock.Arguments) {
					args.Get(2).(*domain.Product).ID = 42
				})
			}

			got, err := service.CreateProduct(context.Background(), tt.in)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint64(42), got.ID)
			assert.Equal(t, tt.expectedPrice, got.Price)
			assert.Nil(t, got.Category)
			repo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_CreateProductIsIdempotent(t *testing.T) {
	service, repo := newMockedCatalogService()
	existing := &domain.Product{ID: 7, Name: "Chair", Price: 9900, Category: strPtr("furniture")}
	repo.On("FindByNameAndCategory", mock.Anything, mock.Anything, "Chair", strPtr("furniture")).Return(existing, nil)

	got, err := service.CreateProduct(context.Background(), domain.NewProduct{Name: "Chair", Price: "1.00", Category: strPtr("furniture")})
	require.NoError(t, err)
	assert.Equal(t, existing, got)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	tests := []struct {
		name          string
		id            uint64
		setupMocks    func(*mocks.MockProductRepository)
		expectedError error
	}{
		{
			name: "unreferenced product is deleted",
			id:   TestProductID,
			setupMocks: func(repo *mocks.MockProductRepository) {
				repo.On("CountOrderItems", mock.Anything, mock.Anything, TestProductID).Return(int64(0), nil)
				repo.On("Delete", mock.Anything, mock.Anything, TestProductID).Return(int64(1), nil)
			},
		},
		{
			name: "referenced product is kept",
			id:   TestProductID,
			setupMocks: func(repo *mocks.MockProductRepository) {
				repo.On("CountOrderItems", mock.Anything, mock.Anything, TestProductID).Return(int64(3), nil)
			},
			expectedError: domain.ErrProductInUse,
		},
		{
			name: "missing product",
			id:   TestProductID,
			setupMocks: func(repo *mocks.MockProductRepository) {
				repo.On("CountOrderItems", mock.Anything, mock.Anything, TestProductID).Return(int64(0), nil)
				repo.On("Delete", mock.Anything, mock.Anything, TestProductID).Return(int64(0), nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name:          "zero id",
			id:            0,
			setupMocks:    func(repo *mocks.MockProductRepository) {},
			expectedError: domain.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := newMockedCatalogService()
			tt.setupMocks(repo)

			err := service.DeleteProduct(context.Background(), tt.id)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_FilterProductsRequiresCriteria(t *testing.T) {
	service, repo := newMockedCatalogService()

	_, err := service.FilterProducts(context.Background(), domain.ProductFilter{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	repo.AssertNotCalled(t, "Filter", mock.Anything, mock.Anything, mock.Anything)

	repo.On("Filter", mock.Anything, mock.Anything, domain.ProductFilter{Category: "books"}).Return([]domain.Product{{ID: 1, Name: "Go"}}, nil)
	got, err := service.FilterProducts(context.Background(), domain.ProductFilter{Category: " books "})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCatalogService_GetProductUsesCache(t *testing.T) {
	service, repo := newMockedCatalogService()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	service.SetCache(cache.NewRedisProductCache(rdb, time.Minute))

	product := &domain.Product{ID: TestProductID, Name: "Notebook", Price: 350}
	repo.On("FindByID", mock.Anything, mock.Anything, TestProductID).Return(product, nil).Once()

	ctx := context.Background()
	first, err := service.GetProduct(ctx, TestProductID)
	require.NoError(t, err)
	second, err := service.GetProduct(ctx, TestProductID)
	require.NoError(t, err)

	assert.Equal(t, product.Name, first.Name)
	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "FindByID", 1)

	repo.On("CountOrderItems", mock.Anything, mock.Anything, TestProductID).Return(int64(0), nil)
	repo.On("Delete", mock.Anything, mock.Anything, TestProductID).Return(int64(1), nil)
	require.NoError(t, service.DeleteProduct(ctx, TestProductID))
	assert.False(t, mr.Exists("product:100"))
}

func TestCatalogService_GetProductCacheFailureFallsBack(t *testing.T) {
	service, repo := newMockedCatalogService()
	c := new(mocks.MockProductCache)
	service.SetCache(c)

	product := &domain.Product{ID: TestProductID, Name: "Notebook", Price: 350}
	c.On("Get", mock.Anything, TestProductID).Return(nil, false, errors.New("connection refused"))
	c.On("Set", mock.Anything, product).Return(errors.New("connection refused"))
	repo.On("FindByID", mock.Anything, mock.Anything, TestProductID).Return(product, nil)

	got, err := service.GetProduct(context.Background(), TestProductID)
	require.NoError(t, err)
	assert.Equal(t, "Notebook", got.Name)
	c.AssertExpectations(t)
}

func TestCatalog_StoreBacked(t *testing.T) {
	s := newStorefront(t)
	ctx := context.Background()

	book, err := s.catalog.CreateProduct(ctx, domain.NewProduct{Name: "Go Book", Price: "39.90", Category: strPtr("books")})
	require.NoError(t, err)
	assert.Equal(t, int64(3990), book.Price)

	dup, err := s.catalog.CreateProduct(ctx, domain.NewProduct{Name: "Go Book", Price: "1", Category: strPtr("books")})
	require.NoError(t, err)
	assert.Equal(t, book.ID, dup.ID)
	assert.Equal(t, int64(3990), dup.Price)

	other, err := s.catalog.CreateProduct(ctx, domain.NewProduct{Name: "Go Book", Price: "1"})
	require.NoError(t, err)
	assert.NotEqual(t, book.ID, other.ID)

	list, err := s.catalog.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	found, err := s.catalog.FilterProducts(ctx, domain.ProductFilter{Name: "book"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = s.catalog.GetProduct(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalog_MostPopularAndDeleteRestricted(t *testing.T) {
	s := newStorefront(t)
	ctx := context.Background()
	u1 := testutil.SeedUser(t, s.db, "u1")
	u2 := testutil.SeedUser(t, s.db, "u2")
	tea := testutil.SeedProduct(t, s.db, "Tea", 300, "drinks")
	coffee := testutil.SeedProduct(t, s.db, "Coffee", 400, "drinks")
	cake := testutil.SeedProduct(t, s.db, "Cake", 600, "food")

	testutil.SeedOrder(t, s.db, u1.ID, domain.StatusFulfilled, map[uint64]int64{tea.ID: 1, coffee.ID: 10})
	testutil.SeedOrder(t, s.db, u2.ID, domain.StatusOpen, map[uint64]int64{tea.ID: 2, cake.ID: 1})
	testutil.SeedOrder(t, s.db, u2.ID, domain.StatusCancelled, map[uint64]int64{tea.ID: 1})

	top, err := s.catalog.GetMostPopular(ctx, 2, "")
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, tea.ID, top[0].ProductID)
	assert.Equal(t, int64(3), top[0].OrderCount)
	assert.Equal(t, int64(4), top[0].ItemCount)

	drinks, err := s.catalog.GetMostPopular(ctx, -1, "drinks")
	require.NoError(t, err)
	assert.Len(t, drinks, 2)

	assert.ErrorIs(t, s.catalog.DeleteProduct(ctx, tea.ID), domain.ErrProductInUse)
	_, err = s.catalog.GetProduct(ctx, tea.ID)
	assert.NoError(t, err)
}

func TestCatalogService_WarmCache(t *testing.T) {
	service, repo := newMockedCatalogService()

	n, err := service.WarmCache(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, n)
	repo.AssertNotCalled(t, "MostPopular", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	c := new(mocks.MockProductCache)
	service.SetCache(c)
	repo.On("MostPopular", mock.Anything, mock.Anything, 10, "").Return([]domain.PopularProduct{
		{ProductID: 1, Name: "Tea"},
		{ProductID: 2, Name: "Gone"},
	}, nil)
	c.On("Get", mock.Anything, mock.Anything).Return(nil, false, nil)
	c.On("Set", mock.Anything, mock.Anything).Return(nil)
	repo.On("FindByID", mock.Anything, mock.Anything, uint64(1)).Return(&domain.Product{ID: 1, Name: "Tea"}, nil)
	repo.On("FindByID", mock.Anything, mock.Anything, uint64(2)).Return(nil, domain.ErrNotFound)

	n, err = service.WarmCache(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	c.AssertNumberOfCalls(t, "Set", 1)
}
