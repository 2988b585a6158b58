package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOrderNotOpen    = errors.New("cannot modify a closed order")
	ErrProductInUse    = errors.New("product is referenced by order items")
)
