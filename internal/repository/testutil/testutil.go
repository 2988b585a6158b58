package testutil

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra/database"
	"storefront-service/internal/pkg/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var (
	dbSeq uint64

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a freshly migrated in-memory SQLite database private to tb.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	name := fmt.Sprintf("file:storefront_test_%d?mode=memory&cache=shared", atomic.AddUint64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(name)), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("test db pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	return db
}

func SeedUser(tb testing.TB, db *gorm.DB, username string) *domain.User {
	tb.Helper()
	u := &domain.User{Username: username, PasswordDigest: "x", FirstName: "First " + username, LastName: "Last " + username}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func SeedProduct(tb testing.TB, db *gorm.DB, name string, price int64, category string) *domain.Product {
	tb.Helper()
	p := &domain.Product{Name: name, Price: price}
	if category != "" {
		p.Category = &category
	}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("seed product %s: %v", name, err)
	}
	return p
}

// SeedOrder inserts an order with the given line items (product id -> quantity).
func SeedOrder(tb testing.TB, db *gorm.DB, userID uint64, status domain.OrderStatus, items map[uint64]int64) *domain.Order {
	tb.Helper()
	o := &domain.Order{UserID: userID, Status: status}
	if status == domain.StatusOpen {
		slot := userID
		o.OpenSlot = &slot
	}
	if err := db.Create(o).Error; err != nil {
		tb.Fatalf("seed order: %v", err)
	}
	for productID, qty := range items {
		row := &domain.OrderProduct{OrderID: o.ID, ProductID: productID, Quantity: qty}
		if err := db.Create(row).Error; err != nil {
			tb.Fatalf("seed order item: %v", err)
		}
	}
	return o
}
