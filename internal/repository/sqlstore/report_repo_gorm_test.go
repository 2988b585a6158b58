package sqlstore

import (
	"context"
	"testing"

	"storefront-service/internal/domain"
	"storefront-service/internal/repository"
	"storefront-service/internal/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRepo_UsersWithOrders(t *testing.T) {
	db := testutil.DB(t)
	repo := NewReportRepository(db, testutil.Logger(t))

	alice := testutil.SeedUser(t, db, "alice")
	bob := testutil.SeedUser(t, db, "bob")
	testutil.SeedUser(t, db, "no-orders")

	a1 := testutil.SeedOrder(t, db, alice.ID, domain.StatusFulfilled, nil)
	a2 := testutil.SeedOrder(t, db, alice.ID, domain.StatusOpen, nil)
	b1 := testutil.SeedOrder(t, db, bob.ID, domain.StatusCancelled, nil)

	rows, err := repo.UsersWithOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.UserOrderRow{
		{OrderID: a1.ID, UserID: alice.ID, Username: "alice", FirstName: "First alice", LastName: "Last alice", Status: domain.StatusFulfilled},
		{OrderID: a2.ID, UserID: alice.ID, Username: "alice", FirstName: "First alice", LastName: "Last alice", Status: domain.StatusOpen},
		{OrderID: b1.ID, UserID: bob.ID, Username: "bob", FirstName: "First bob", LastName: "Last bob", Status: domain.StatusCancelled},
	}, rows)
}

func TestReportRepo_OrderProducts(t *testing.T) {
	db := testutil.DB(t)
	repo := NewReportRepository(db, testutil.Logger(t))
	user := testutil.SeedUser(t, db, "op")
	p := testutil.SeedProduct(t, db, "p", 100, "")

	rows, err := repo.OrderProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)

	o1 := testutil.SeedOrder(t, db, user.ID, domain.StatusFulfilled, map[uint64]int64{p.ID: 3})
	o2 := testutil.SeedOrder(t, db, user.ID, domain.StatusOpen, map[uint64]int64{p.ID: 1})

	rows, err = repo.OrderProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.OrderProduct{
		{OrderID: o1.ID, ProductID: p.ID, Quantity: 3},
		{OrderID: o2.ID, ProductID: p.ID, Quantity: 1},
	}, rows)
}

func TestReportRepo_ProductOrders(t *testing.T) {
	db := testutil.DB(t)
	repo := NewReportRepository(db, testutil.Logger(t))
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "sales")

	saw := testutil.SeedProduct(t, db, "saw", 1500, "tools")
	axe := testutil.SeedProduct(t, db, "axe", 3000, "tools")
	testutil.SeedOrder(t, db, user.ID, domain.StatusFulfilled, map[uint64]int64{saw.ID: 1, axe.ID: 5})
	testutil.SeedOrder(t, db, user.ID, domain.StatusFulfilled, map[uint64]int64{saw.ID: 2})

	sawRow := domain.ProductSales{ProductID: saw.ID, Name: "saw", OrderCount: 2, OrderQty: 3}
	axeRow := domain.ProductSales{ProductID: axe.ID, Name: "axe", OrderCount: 1, OrderQty: 5}

	unsorted, err := repo.ProductOrders(ctx, nil, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.ProductSales{sawRow, axeRow}, unsorted)

	tests := []struct {
		name string
		sort *repository.ReportSort
		want []domain.ProductSales
	}{
		{name: "order count desc", sort: &repository.ReportSort{Column: repository.SortOrderCount, Desc: true}, want: []domain.ProductSales{sawRow, axeRow}},
		{name: "order qty desc", sort: &repository.ReportSort{Column: repository.SortOrderQty, Desc: true}, want: []domain.ProductSales{axeRow, sawRow}},
		{name: "name asc", sort: &repository.ReportSort{Column: repository.SortProductName}, want: []domain.ProductSales{axeRow, sawRow}},
		{name: "product id asc", sort: &repository.ReportSort{Column: repository.SortProductID}, want: []domain.ProductSales{sawRow, axeRow}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ProductOrders(ctx, tt.sort, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	limited, err := repo.ProductOrders(ctx, &repository.ReportSort{Column: repository.SortOrderQty, Desc: true}, 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.ProductSales{axeRow}, limited)

	bogus, err := repo.ProductOrders(ctx, &repository.ReportSort{Column: "DROP TABLE products"}, 0)
	require.NoError(t, err)
	assert.Len(t, bogus, 2)
}
