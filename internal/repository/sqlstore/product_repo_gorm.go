package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront-service/internal/domain"
	"storefront-service/internal/pkg/logger"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
)

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepository(db *gorm.DB, baseLog *logger.Logger) repository.ProductRepository {
	return &productRepo{db: db, log: baseLog.With("repo", "ProductRepository")}
}

func (r *productRepo) Create(ctx context.Context, tx *gorm.DB, p *domain.Product) error {
	if err := pick(ctx, r.db, tx).Create(p).Error; err != nil {
		r.log.Error("create product failed", "name", p.Name, "error", err)
		return err
	}
	if p.ID == 0 {
		return errors.New("failed to assign product ID")
	}
	return nil
}

func (r *productRepo) FindByID(ctx context.Context, tx *gorm.DB, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := pick(ctx, r.db, tx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
		}
		r.log.Error("find product failed", "id", id, "error", err)
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByNameAndCategory(ctx context.Context, tx *gorm.DB, name string, category *string) (*domain.Product, error) {
	q := pick(ctx, r.db, tx).Where("name = ?", name)
	if category == nil {
		q = q.Where("category IS NULL")
	} else {
		q = q.Where("category = ?", *category)
	}

	var p domain.Product
	if err := q.Order("id ASC").First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %q: %w", name, domain.ErrNotFound)
		}
		r.log.Error("find product by name failed", "name", name, "error", err)
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) Filter(ctx context.Context, tx *gorm.DB, f domain.ProductFilter) ([]domain.Product, error) {
	q := pick(ctx, r.db, tx).Model(&domain.Product{})
	if f.Name != "" {
		q = q.Where("name LIKE ? ESCAPE '!'", containsPattern(f.Name))
	}
	if f.Category != "" {
		q = q.Where("category LIKE ? ESCAPE '!'", containsPattern(f.Category))
	}
	if f.Price > 0 {
		q = q.Where("price = ?", f.Price)
	}

	out := []domain.Product{}
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		r.log.Error("filter products failed", "filter", f, "error", err)
		return nil, err
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern matches s literally anywhere in the column.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func (r *productRepo) List(ctx context.Context, tx *gorm.DB) ([]domain.ProductSummary, error) {
	out := []domain.ProductSummary{}
	err := pick(ctx, r.db, tx).
		Model(&domain.Product{}).
		Select("id", "name", "price").
		Order("id ASC").
		Scan(&out).Error
	if err != nil {
		r.log.Error("list products failed", "error", err)
		return nil, err
	}
	return out, nil
}

func (r *productRepo) MostPopular(ctx context.Context, tx *gorm.DB, limit int, category string) ([]domain.PopularProduct, error) {
	q := pick(ctx, r.db, tx).
		Table("orders_products").
		Select("orders_products.product_id AS product_id, products.name AS name, " +
			"COUNT(DISTINCT orders_products.order_id) AS order_count, " +
			"SUM(orders_products.quantity) AS item_count").
		Joins("INNER JOIN products ON products.id = orders_products.product_id")
	if category != "" {
		q = q.Where("products.category = ?", category)
	}
	q = q.Group("orders_products.product_id, products.name").
		Order("order_count DESC").
		Order("orders_products.product_id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	out := []domain.PopularProduct{}
	if err := q.Scan(&out).Error; err != nil {
		r.log.Error("most popular products failed", "limit", limit, "category", category, "error", err)
		return nil, err
	}
	return out, nil
}

func (r *productRepo) CountOrderItems(ctx context.Context, tx *gorm.DB, productID uint64) (int64, error) {
	var n int64
	err := pick(ctx, r.db, tx).
		Model(&domain.OrderProduct{}).
		Where("product_id = ?", productID).
		Count(&n).Error
	return n, err
}

func (r *productRepo) Delete(ctx context.Context, tx *gorm.DB, id uint64) (int64, error) {
	res := pick(ctx, r.db, tx).Delete(&domain.Product{}, id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return 0, fmt.Errorf("product %d: %w", id, domain.ErrProductInUse)
		}
		r.log.Error("delete product failed", "id", id, "error", res.Error)
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *productRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return inTx(ctx, r.db, fn)
}
