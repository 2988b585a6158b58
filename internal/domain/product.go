package domain

type Product struct {
	ID       uint64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name     string  `json:"name" gorm:"size:255;not null;index"`
	Price    int64   `json:"price" gorm:"not null"`
	Category *string `json:"category,omitempty" gorm:"size:255;index"`
}

// ProductSummary is the list projection of a product; category is left out.
type ProductSummary struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// NewProduct is a creation candidate. Price is raw caller input, see ParsePrice.
type NewProduct struct {
	Name     string
	Price    string
	Category *string
}

type ProductFilter struct {
	Name     string
	Category string
	Price    int64
}

func (f ProductFilter) Empty() bool {
	return f.Name == "" && f.Category == "" && f.Price <= 0
}

type PopularProduct struct {
	ProductID  uint64 `json:"product_id"`
	Name       string `json:"name"`
	OrderCount int64  `json:"order_count"`
	ItemCount  int64  `json:"item_count"`
}
