package sqlstore

import (
	"context"

	"storefront-service/internal/domain"
	"storefront-service/internal/pkg/logger"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Identifiers cannot be bound as parameters, so every sortable column is
// mapped from its whitelisted key to a fixed column reference.
var productOrderSortColumns = map[string]clause.Column{
	repository.SortProductID:   {Table: "orders_products", Name: "product_id"},
	repository.SortProductName: {Table: "products", Name: "name"},
	repository.SortOrderCount:  {Name: "order_count"},
	repository.SortOrderQty:    {Name: "order_qty"},
}

type reportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReportRepository(db *gorm.DB, baseLog *logger.Logger) repository.ReportRepository {
	return &reportRepo{db: db, log: baseLog.With("repo", "ReportRepository")}
}

func (r *reportRepo) UsersWithOrders(ctx context.Context) ([]domain.UserOrderRow, error) {
	out := []domain.UserOrderRow{}
	err := r.db.WithContext(ctx).
		Table("users").
		Select("orders.id AS order_id, users.id AS user_id, users.username, users.first_name, users.last_name, orders.status").
		Joins("INNER JOIN orders ON orders.user_id = users.id").
		Order("users.id ASC").
		Order("orders.id ASC").
		Scan(&out).Error
	if err != nil {
		r.log.Error("users with orders failed", "error", err)
		return nil, err
	}
	return out, nil
}

func (r *reportRepo) OrderProducts(ctx context.Context) ([]domain.OrderProduct, error) {
	out := []domain.OrderProduct{}
	err := r.db.WithContext(ctx).
		Order("order_id ASC").
		Order("product_id ASC").
		Find(&out).Error
	if err != nil {
		r.log.Error("load order products failed", "error", err)
		return nil, err
	}
	return out, nil
}

func (r *reportRepo) ProductOrders(ctx context.Context, sort *repository.ReportSort, limit int) ([]domain.ProductSales, error) {
	q := r.db.WithContext(ctx).
		Table("orders_products").
		Select("orders_products.product_id AS product_id, products.name AS name, " +
			"COUNT(DISTINCT orders_products.order_id) AS order_count, " +
			"SUM(orders_products.quantity) AS order_qty").
		Joins("INNER JOIN products ON products.id = orders_products.product_id").
		Group("orders_products.product_id, products.name")

	if sort != nil {
		if col, ok := productOrderSortColumns[sort.Column]; ok {
			q = q.Order(clause.OrderByColumn{Column: col, Desc: sort.Desc})
		} else {
			r.log.Warn("ignoring unknown sort column", "column", sort.Column)
		}
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	out := []domain.ProductSales{}
	if err := q.Scan(&out).Error; err != nil {
		r.log.Error("product orders failed", "error", err)
		return nil, err
	}
	return out, nil
}
