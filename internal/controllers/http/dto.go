package http

import (
	"bytes"
	"encoding/json"
	"errors"
)

// PriceInput keeps the literal text of a JSON price so 15.00 and "15.00"
// reach price parsing unchanged. Both numbers and strings are accepted.
type PriceInput string

func (p *PriceInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*p = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = PriceInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("price must be a number or a numeric string")
	}
	*p = PriceInput(n.String())
	return nil
}

type CreateProductRequest struct {
	Name     string     `json:"name" binding:"required"`
	Price    PriceInput `json:"price" binding:"required"`
	Category *string    `json:"category"`
}

type OrderProductRequest struct {
	ProductID uint64 `json:"product_id" binding:"required"`
	Quantity  int64  `json:"quantity"`
}

type DeleteOrderItemResponse struct {
	OrderID   uint64 `json:"order_id"`
	ProductID uint64 `json:"product_id"`
	Result    string `json:"result"`
}

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
