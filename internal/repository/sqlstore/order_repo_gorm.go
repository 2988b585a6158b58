package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"storefront-service/internal/domain"
	"storefront-service/internal/pkg/logger"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepository(db *gorm.DB, baseLog *logger.Logger) repository.OrderRepository {
	return &orderRepo{db: db, log: baseLog.With("repo", "OrderRepository")}
}

func (r *orderRepo) FindOpenByUser(ctx context.Context, tx *gorm.DB, userID uint64) (*domain.Order, error) {
	return r.findOpenByUser(pick(ctx, r.db, tx), userID)
}

func (r *orderRepo) findOpenByUser(q *gorm.DB, userID uint64) (*domain.Order, error) {
	var o domain.Order
	err := q.
		Where("user_id = ? AND status = ?", userID, domain.StatusOpen).
		Order("id ASC").
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("open order for user %d: %w", userID, domain.ErrNotFound)
		}
		r.log.Error("find open order failed", "user_id", userID, "error", err)
		return nil, err
	}
	return &o, nil
}

// CreateOpen runs the insert under a savepoint so a unique violation leaves
// an enclosing transaction usable for the re-read.
func (r *orderRepo) CreateOpen(ctx context.Context, tx *gorm.DB, userID uint64) (*domain.Order, error) {
	slot := userID
	o := &domain.Order{UserID: userID, Status: domain.StatusOpen, OpenSlot: &slot}

	err := pick(ctx, r.db, tx).Transaction(func(sp *gorm.DB) error {
		return sp.Create(o).Error
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			r.log.Error("create open order failed", "user_id", userID, "error", err)
		}
		return nil, err
	}
	if o.ID == 0 {
		return nil, errors.New("failed to assign order ID")
	}
	o.Items = []domain.OrderItem{}
	return o, nil
}

func (r *orderRepo) LockOpenByUser(ctx context.Context, tx *gorm.DB, userID uint64) (*domain.Order, error) {
	return r.findOpenByUser(pick(ctx, r.db, tx).Clauses(clause.Locking{Strength: "UPDATE"}), userID)
}

func (r *orderRepo) FindByID(ctx context.Context, tx *gorm.DB, id uint64) (*domain.Order, error) {
	return r.findByID(pick(ctx, r.db, tx), id)
}

func (r *orderRepo) LockByID(ctx context.Context, tx *gorm.DB, id uint64) (*domain.Order, error) {
	return r.findByID(pick(ctx, r.db, tx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *orderRepo) findByID(q *gorm.DB, id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := q.First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
		}
		r.log.Error("find order failed", "id", id, "error", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByUser(ctx context.Context, tx *gorm.DB, userID uint64, status domain.OrderStatus) ([]domain.Order, error) {
	q := pick(ctx, r.db, tx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	out := []domain.Order{}
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		r.log.Error("find orders by user failed", "user_id", userID, "status", status, "error", err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint64, status domain.OrderStatus) error {
	if status == domain.StatusOpen {
		return fmt.Errorf("%w: orders enter open only on creation", domain.ErrInvalidArgument)
	}
	updates := map[string]any{"status": status, "open_slot": nil}
	res := pick(ctx, r.db, tx).Model(&domain.Order{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		r.log.Error("update order status failed", "id", id, "status", status, "error", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, tx *gorm.DB, id uint64) (int64, error) {
	res := pick(ctx, r.db, tx).Delete(&domain.Order{}, id)
	if res.Error != nil {
		r.log.Error("delete order failed", "id", id, "error", res.Error)
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *orderRepo) Items(ctx context.Context, tx *gorm.DB, orderID uint64) ([]domain.OrderItem, error) {
	out := []domain.OrderItem{}
	err := pick(ctx, r.db, tx).
		Table("orders_products").
		Select("orders_products.order_id, orders_products.product_id, orders_products.quantity, products.name, products.price").
		Joins("INNER JOIN products ON products.id = orders_products.product_id").
		Where("orders_products.order_id = ?", orderID).
		Order("orders_products.product_id ASC").
		Scan(&out).Error
	if err != nil {
		r.log.Error("load order items failed", "order_id", orderID, "error", err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) InsertItem(ctx context.Context, tx *gorm.DB, item *domain.OrderProduct) error {
	if item.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidArgument)
	}
	if err := pick(ctx, r.db, tx).Create(item).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("product %d: %w", item.ProductID, domain.ErrNotFound)
		}
		r.log.Error("insert order item failed", "order_id", item.OrderID, "product_id", item.ProductID, "error", err)
		return err
	}
	return nil
}

func (r *orderRepo) SetItemQty(ctx context.Context, tx *gorm.DB, orderID, productID uint64, qty int64) (int64, error) {
	if qty < 1 {
		return 0, fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidArgument)
	}
	res := pick(ctx, r.db, tx).
		Model(&domain.OrderProduct{}).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		Update("quantity", qty)
	if res.Error != nil {
		r.log.Error("update item quantity failed", "order_id", orderID, "product_id", productID, "error", res.Error)
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *orderRepo) DeleteItem(ctx context.Context, tx *gorm.DB, orderID, productID uint64) (int64, error) {
	res := pick(ctx, r.db, tx).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		Delete(&domain.OrderProduct{})
	if res.Error != nil {
		r.log.Error("delete order item failed", "order_id", orderID, "product_id", productID, "error", res.Error)
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *orderRepo) DeleteItems(ctx context.Context, tx *gorm.DB, orderID uint64) error {
	err := pick(ctx, r.db, tx).
		Where("order_id = ?", orderID).
		Delete(&domain.OrderProduct{}).Error
	if err != nil {
		r.log.Error("delete order items failed", "order_id", orderID, "error", err)
	}
	return err
}

func (r *orderRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return inTx(ctx, r.db, fn)
}
