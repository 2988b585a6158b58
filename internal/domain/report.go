package domain

type UserOrderRow struct {
	OrderID   uint64      `json:"order_id"`
	UserID    uint64      `json:"user_id"`
	Username  string      `json:"username"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Status    OrderStatus `json:"status"`
}

type UserOrders struct {
	UserID    uint64             `json:"user_id"`
	Username  string             `json:"username"`
	FirstName string             `json:"first_name"`
	LastName  string             `json:"last_name"`
	Orders    []UserOrderSummary `json:"orders"`
}

type UserOrderSummary struct {
	OrderID uint64         `json:"order_id"`
	Status  OrderStatus    `json:"status"`
	Items   []OrderProduct `json:"items"`
}

type ProductSales struct {
	ProductID  uint64 `json:"product_id"`
	Name       string `json:"name"`
	OrderCount int64  `json:"order_count"`
	OrderQty   int64  `json:"order_qty"`
}
