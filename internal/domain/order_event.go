package domain

const (
	EventProductCreated     = "product.created"
	EventOrderOpened        = "order.opened"
	EventOrderItemAdded     = "order.item_added"
	EventOrderItemUpdated   = "order.item_updated"
	EventOrderItemRemoved   = "order.item_removed"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderDeleted       = "order.deleted"
)

type OrderEvent struct {
	OrderID   uint64      `json:"orderId"`
	UserID    uint64      `json:"userId,omitempty"`
	ProductID uint64      `json:"productId,omitempty"`
	Quantity  int64       `json:"quantity,omitempty"`
	Status    OrderStatus `json:"status,omitempty"`
}

type ProductCreatedEvent struct {
	ProductID uint64  `json:"productId"`
	Name      string  `json:"name"`
	Price     int64   `json:"price"`
	Category  *string `json:"category,omitempty"`
}
