package services

import (
	"context"
	"errors"
	"fmt"

	"storefront-service/internal/domain"
	rabbit "storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/pkg/logger"
	"storefront-service/internal/repository"

	"gorm.io/gorm"
)

// ProductLookup resolves catalog products for cart additions.
type ProductLookup interface {
	GetProduct(ctx context.Context, id uint64) (*domain.Product, error)
}

var _ ProductLookup = (*CatalogService)(nil)

// OrderService is the cart state machine. Every user has at most one open
// order; only open orders accept item changes.
//
// Work for one user is serialized in process by userLocks and every
// read-then-write runs in a single transaction holding the order row lock.
// The open_slot unique index backs this up across processes.
type OrderService struct {
	repo      repository.OrderRepository
	products  ProductLookup
	publisher rabbit.PublisherInterface
	log       *logger.Logger
	userLocks *keyedMutex
}

func NewOrderService(r repository.OrderRepository, p ProductLookup, pub rabbit.PublisherInterface, baseLog *logger.Logger) *OrderService {
	return &OrderService{
		repo:      r,
		products:  p,
		publisher: pub,
		log:       baseLog.With("service", "OrderService"),
		userLocks: newKeyedMutex(),
	}
}

func validUserID(userID uint64) error {
	if userID == 0 {
		return fmt.Errorf("%w: missing valid logged in user id", domain.ErrInvalidArgument)
	}
	return nil
}

// GetOpenOrder finds the user's open order with its items, creating an
// empty one when none exists.
func (s *OrderService) GetOpenOrder(ctx context.Context, userID uint64) (*domain.Order, error) {
	if err := validUserID(userID); err != nil {
		return nil, err
	}
	unlock := s.userLocks.Lock(userID)
	defer unlock()

	var (
		order   *domain.Order
		created bool
	)
	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		o, c, err := s.findOrCreateOpen(ctx, tx, userID)
		if err != nil {
			return err
		}
		if o.Items, err = s.repo.Items(ctx, tx, o.ID); err != nil {
			return err
		}
		order, created = o, c
		return nil
	})
	if err != nil {
		return nil, err
	}
	if created {
		go s.publish(context.Background(), domain.EventOrderOpened, domain.OrderEvent{OrderID: order.ID, UserID: userID, Status: order.Status})
	}
	return order, nil
}

// CreateUserOrder returns the user's open order, creating it when needed.
// An existing open order is returned as is, items included.
func (s *OrderService) CreateUserOrder(ctx context.Context, userID uint64) (*domain.Order, error) {
	return s.GetOpenOrder(ctx, userID)
}

// FindOpenOrder returns the user's open order with its items, or
// domain.ErrNotFound. Unlike GetOpenOrder it never creates one.
func (s *OrderService) FindOpenOrder(ctx context.Context, userID uint64) (*domain.Order, error) {
	if err := validUserID(userID); err != nil {
		return nil, err
	}
	o, err := s.repo.FindOpenByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if o.Items, err = s.repo.Items(ctx, nil, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

// findOrCreateOpen must run under the user's lock. A duplicate-key insert
// means another process opened the order first; it is re-read with a
// locking read, which sees rows committed after tx's snapshot.
func (s *OrderService) findOrCreateOpen(ctx context.Context, tx *gorm.DB, userID uint64) (*domain.Order, bool, error) {
	o, err := s.repo.FindOpenByUser(ctx, tx, userID)
	if err == nil {
		return o, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	o, err = s.repo.CreateOpen(ctx, tx, userID)
	if err == nil {
		s.log.Info("opened order", "order_id", o.ID, "user_id", userID)
		return o, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, err
	}

	s.log.Warn("open order created concurrently, re-reading", "user_id", userID)
	o, err = s.repo.LockOpenByUser(ctx, tx, userID)
	if err != nil {
		return nil, false, err
	}
	return o, false, nil
}

// FilterOrders lists a user's orders, optionally by status. Items are not loaded.
func (s *OrderService) FilterOrders(ctx context.Context, userID uint64, status domain.OrderStatus) ([]domain.Order, error) {
	if err := validUserID(userID); err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", domain.ErrInvalidArgument, status)
	}
	return s.repo.FindByUser(ctx, nil, userID, status)
}

// GetOrder loads any order by id, open or closed, with its items.
func (s *OrderService) GetOrder(ctx context.Context, orderID uint64) (*domain.Order, error) {
	o, err := s.repo.FindByID(ctx, nil, orderID)
	if err != nil {
		return nil, err
	}
	if o.Items, err = s.repo.Items(ctx, nil, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderService) GetOrderItems(ctx context.Context, orderID uint64) ([]domain.OrderItem, error) {
	return s.repo.Items(ctx, nil, orderID)
}

func (s *OrderService) GetProductQtyFromOrder(order *domain.Order, productID uint64) int64 {
	return order.ProductQty(productID)
}

// UpdateOrderProductQty overwrites the quantity of a product already in
// the order. The order is re-read under a row lock and must still be open.
func (s *OrderService) UpdateOrderProductQty(ctx context.Context, productID uint64, qty int64, order *domain.Order) (*domain.Order, error) {
	if order == nil || order.ID == 0 {
		return nil, fmt.Errorf("%w: order is required", domain.ErrInvalidArgument)
	}
	if qty < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1, remove the item instead", domain.ErrInvalidArgument)
	}
	if order.UserID != 0 {
		unlock := s.userLocks.Lock(order.UserID)
		defer unlock()
	}

	var out *domain.Order
	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		o, err := s.lockOpenOrder(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		if o.Items, err = s.repo.Items(ctx, tx, o.ID); err != nil {
			return err
		}
		if o.ProductQty(productID) == 0 {
			return fmt.Errorf("product %d in order %d: %w", productID, o.ID, domain.ErrNotFound)
		}
		out, err = s.setQty(ctx, tx, o, productID, qty)
		return err
	})
	if err != nil {
		return nil, err
	}
	go s.publish(context.Background(), domain.EventOrderItemUpdated, domain.OrderEvent{OrderID: out.ID, UserID: out.UserID, ProductID: productID, Quantity: qty})
	return out, nil
}

// AddProductToActiveOrder puts qty of a product in the user's cart. A
// product already in the cart has qty added to its quantity. qty <= 0
// leaves the cart untouched.
func (s *OrderService) AddProductToActiveOrder(ctx context.Context, productID uint64, qty int64, userID uint64) (*domain.Order, error) {
	if err := validUserID(userID); err != nil {
		return nil, err
	}
	if qty <= 0 {
		return s.GetOpenOrder(ctx, userID)
	}
	if productID == 0 {
		return nil, fmt.Errorf("%w: product id is required", domain.ErrInvalidArgument)
	}
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	unlock := s.userLocks.Lock(userID)
	defer unlock()

	var (
		out     *domain.Order
		created bool
		newQty  int64
		merged  bool
	)
	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		o, c, err := s.findOrCreateOpen(ctx, tx, userID)
		if err != nil {
			return err
		}
		created = c
		if o, err = s.lockOpenOrder(ctx, tx, o.ID); err != nil {
			return err
		}
		if o.Items, err = s.repo.Items(ctx, tx, o.ID); err != nil {
			return err
		}

		if existing := o.ProductQty(productID); existing > 0 {
			newQty, merged = existing+qty, true
			out, err = s.setQty(ctx, tx, o, productID, newQty)
			return err
		}

		newQty = qty
		if err := s.repo.InsertItem(ctx, tx, &domain.OrderProduct{OrderID: o.ID, ProductID: productID, Quantity: qty}); err != nil {
			return err
		}
		if o.Items, err = s.repo.Items(ctx, tx, o.ID); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		go s.publish(context.Background(), domain.EventOrderOpened, domain.OrderEvent{OrderID: out.ID, UserID: userID, Status: domain.StatusOpen})
	}
	pattern := domain.EventOrderItemAdded
	if merged {
		pattern = domain.EventOrderItemUpdated
	}
	go s.publish(context.Background(), pattern, domain.OrderEvent{OrderID: out.ID, UserID: userID, ProductID: productID, Quantity: newQty})
	return out, nil
}

// RemoveProductFromActiveOrder drops a product from the user's cart. A user
// without an open order gets domain.ErrNotFound.
func (s *OrderService) RemoveProductFromActiveOrder(ctx context.Context, productID, userID uint64) (*domain.Order, error) {
	order, err := s.FindOpenOrder(ctx, userID)
	if err != nil {
		return nil, err
	}

	res, err := s.DeleteOrderItem(ctx, order.ID, productID)
	if err != nil {
		return nil, err
	}
	switch res {
	case domain.ItemDeleted:
	case domain.ItemNotInOrder:
		return nil, fmt.Errorf("product %d in order %d: %w", productID, order.ID, domain.ErrNotFound)
	case domain.OrderNotOpen:
		return nil, domain.ErrOrderNotOpen
	default:
		return nil, fmt.Errorf("order %d: %w", order.ID, domain.ErrNotFound)
	}

	if order.Items, err = s.repo.Items(ctx, nil, order.ID); err != nil {
		return nil, err
	}
	return order, nil
}

// DeleteOrder removes an order and its line items. It does not check the
// order's status. deleted is false when no such order existed.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uint64) (bool, error) {
	var rows int64
	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.repo.DeleteItems(ctx, tx, orderID); err != nil {
			return err
		}
		var err error
		rows, err = s.repo.Delete(ctx, tx, orderID)
		return err
	})
	if err != nil {
		s.log.Error("delete order failed", "order_id", orderID, "error", err)
		return false, err
	}
	if rows == 0 {
		return false, nil
	}
	go s.publish(context.Background(), domain.EventOrderDeleted, domain.OrderEvent{OrderID: orderID})
	return true, nil
}

// DeleteOrderItem removes one product from an open order. The result tells
// a business-rule no-op apart from a deletion; err is only for store failures.
func (s *OrderService) DeleteOrderItem(ctx context.Context, orderID, productID uint64) (domain.DeleteItemResult, error) {
	result := domain.ItemDeleted
	var userID uint64
	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		o, err := s.repo.LockByID(ctx, tx, orderID)
		if errors.Is(err, domain.ErrNotFound) {
			result = domain.OrderNotFound
			return nil
		}
		if err != nil {
			return err
		}
		if !o.IsOpen() {
			result = domain.OrderNotOpen
			return nil
		}
		userID = o.UserID
		rows, err := s.repo.DeleteItem(ctx, tx, orderID, productID)
		if err != nil {
			return err
		}
		if rows == 0 {
			result = domain.ItemNotInOrder
		}
		return nil
	})
	if err != nil {
		s.log.Error("delete order item failed", "order_id", orderID, "product_id", productID, "error", err)
		return result, err
	}
	if result != domain.ItemDeleted {
		s.log.Info("order item not deleted", "order_id", orderID, "product_id", productID, "result", result.String())
		return result, nil
	}
	go s.publish(context.Background(), domain.EventOrderItemRemoved, domain.OrderEvent{OrderID: orderID, UserID: userID, ProductID: productID})
	return result, nil
}

// SetOrderStatus closes an open order. Fulfillment and expiry pipelines
// call this; the storefront itself never closes orders.
func (s *OrderService) SetOrderStatus(ctx context.Context, orderID uint64, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() || status == domain.StatusOpen {
		return nil, fmt.Errorf("%w: cannot move an order to status %q", domain.ErrInvalidArgument, status)
	}

	var out *domain.Order
	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		o, err := s.lockOpenOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if err := s.repo.UpdateStatus(ctx, tx, orderID, status); err != nil {
			return err
		}
		o.Status, o.OpenSlot = status, nil
		if o.Items, err = s.repo.Items(ctx, tx, o.ID); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	go s.publish(context.Background(), domain.EventOrderStatusChanged, domain.OrderEvent{OrderID: out.ID, UserID: out.UserID, Status: status})
	return out, nil
}

func (s *OrderService) lockOpenOrder(ctx context.Context, tx *gorm.DB, orderID uint64) (*domain.Order, error) {
	o, err := s.repo.LockByID(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsOpen() {
		s.log.Warn("refusing to modify closed order", "order_id", orderID, "status", o.Status)
		return nil, fmt.Errorf("order %d is %s: %w", orderID, o.Status, domain.ErrOrderNotOpen)
	}
	return o, nil
}

func (s *OrderService) setQty(ctx context.Context, tx *gorm.DB, o *domain.Order, productID uint64, qty int64) (*domain.Order, error) {
	if _, err := s.repo.SetItemQty(ctx, tx, o.ID, productID, qty); err != nil {
		return nil, err
	}
	items, err := s.repo.Items(ctx, tx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (s *OrderService) publish(ctx context.Context, pattern string, evt domain.OrderEvent) {
	if err := s.publisher.Publish(ctx, pattern, evt); err != nil {
		s.log.Warn("failed to publish event", "pattern", pattern, "order_id", evt.OrderID, "error", err)
	}
}
