package service

import "errors"

// Ошибки бизнес-логики; транспортный слой сопоставляет их с HTTP-статусами через errors.Is
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrUnauthenticated    = errors.New("user is not logged in")
	ErrUnauthorized       = errors.New("admin privileges required")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateProduct   = errors.New("product with this name already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidProduct     = errors.New("invalid product")
	ErrPaymentService     = errors.New("payment service error")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)
