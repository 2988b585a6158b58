package repository

import (
	"context"
	"strings"

	"storefront-service/internal/domain"
)

// ReportSort is an already whitelisted ORDER BY for ProductOrders.
type ReportSort struct {
	Column string
	Desc   bool
}

type ReportRepository interface {
	UsersWithOrders(ctx context.Context) ([]domain.UserOrderRow, error)
	OrderProducts(ctx context.Context) ([]domain.OrderProduct, error)
	ProductOrders(ctx context.Context, sort *ReportSort, limit int) ([]domain.ProductSales, error)
}

const (
	SortProductID    = "product_id"
	SortProductName  = "products_name"
	SortOrderCount   = "order_count"
	SortOrderQty     = "order_qty"
	sortDirAscending = "ASC"
	sortDirDescend   = "DESC"
)

// NewReportSort validates caller sort input against the fixed column and
// direction whitelists. Anything outside them yields nil (no ORDER BY).
func NewReportSort(column, direction string) *ReportSort {
	col := strings.ToLower(strings.TrimSpace(column))
	switch col {
	case SortProductID, SortProductName, SortOrderCount, SortOrderQty:
	default:
		return nil
	}
	switch strings.ToUpper(strings.TrimSpace(direction)) {
	case sortDirAscending:
		return &ReportSort{Column: col}
	case sortDirDescend:
		return &ReportSort{Column: col, Desc: true}
	default:
		return nil
	}
}
