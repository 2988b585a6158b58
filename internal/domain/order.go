package domain

type OrderStatus string

const (
	StatusOpen      OrderStatus = "open"
	StatusFulfilled OrderStatus = "fulfilled"
	StatusCancelled OrderStatus = "cancelled"
	StatusExpired   OrderStatus = "expired"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusFulfilled, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// Order is a user's cart while open. Items is the join of its line items
// with product name and price at read time and is never persisted here.
//
// OpenSlot holds UserID while the order is open and NULL otherwise; the
// unique index on it allows at most one open order per user.
type Order struct {
	ID       uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID   uint64      `json:"user_id" gorm:"not null;index"`
	Status   OrderStatus `json:"status" gorm:"type:varchar(16);not null;default:'open';index"`
	OpenSlot *uint64     `json:"-" gorm:"uniqueIndex:ux_orders_open_slot"`
	Items    []OrderItem `json:"items" gorm:"-"`
}

func (o *Order) IsOpen() bool {
	return o != nil && o.Status == StatusOpen
}

// ProductQty returns the quantity of productID in the loaded items, 0 if absent.
func (o *Order) ProductQty(productID uint64) int64 {
	if o == nil {
		return 0
	}
	for _, it := range o.Items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

// OrderProduct is a row of the orders_products relation. Product carries the
// foreign key only; a referenced product cannot be deleted.
type OrderProduct struct {
	OrderID   uint64   `json:"order_id" gorm:"primaryKey;autoIncrement:false"`
	ProductID uint64   `json:"product_id" gorm:"primaryKey;autoIncrement:false;index"`
	Quantity  int64    `json:"quantity" gorm:"not null"`
	Product   *Product `json:"-" gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (OrderProduct) TableName() string { return "orders_products" }

type OrderItem struct {
	OrderID   uint64 `json:"order_id"`
	ProductID uint64 `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
}

type DeleteItemResult int

const (
	ItemDeleted DeleteItemResult = iota
	ItemNotInOrder
	OrderNotFound
	OrderNotOpen
)

func (r DeleteItemResult) String() string {
	switch r {
	case ItemDeleted:
		return "deleted"
	case ItemNotInOrder:
		return "item_not_in_order"
	case OrderNotFound:
		return "order_not_found"
	case OrderNotOpen:
		return "order_not_open"
	default:
		return "unknown"
	}
}
