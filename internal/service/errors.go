package service

import "errors"

// Error taxonomy surfaced to handlers. NotFound errors map to 404, validation
// and stock errors to 400/409; none is fatal to the process.
var (
	ErrProductNotFound     = errors.New("product not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrProductUnavailable  = errors.New("product no longer available")
	ErrUnavailableStock    = errors.New("requested quantity exceeds available stock")
	ErrEmailInUse          = errors.New("email already in use")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrIdempotentKeyExists = errors.New("idempotent key already exists")
)
