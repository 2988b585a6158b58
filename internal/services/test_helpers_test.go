package services

import (
	"testing"

	"storefront-service/internal/domain"
	rabbit "storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/pkg/logger"
	"storefront-service/internal/repository/sqlstore"
	"storefront-service/internal/repository/testutil"

	"gorm.io/gorm"
)

const (
	TestUserID    = uint64(1)
	TestOrderID   = uint64(10)
	TestProductID = uint64(100)
)

func CreateMockOrder(id, userID uint64, status domain.OrderStatus, items ...domain.OrderItem) *domain.Order {
	if items == nil {
		items = []domain.OrderItem{}
	}
	return &domain.Order{ID: id, UserID: userID, Status: status, Items: items}
}

func CreateMockItem(orderID, productID uint64, qty int64) domain.OrderItem {
	return domain.OrderItem{OrderID: orderID, ProductID: productID, Quantity: qty, Name: "Test Product", Price: 1000}
}

type storefront struct {
	db      *gorm.DB
	catalog *CatalogService
	orders  *OrderService
	reports *ReportService
}

// newStorefront wires the real services over a private in-memory database.
func newStorefront(t *testing.T) *storefront {
	t.Helper()
	db := testutil.DB(t)
	log := logger.Nop()
	pub := rabbit.NopPublisher{}

	catalog := NewCatalogService(sqlstore.NewProductRepository(db, log), pub, log)
	return &storefront{
		db:      db,
		catalog: catalog,
		orders:  NewOrderService(sqlstore.NewOrderRepository(db, log), catalog, pub, log),
		reports: NewReportService(sqlstore.NewReportRepository(db, log), log),
	}
}
