package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidInput     = errors.New("invalid input")

	// ErrTxConflict covers lock wait timeouts, deadlocks and other transient
	// transaction failures. The unit is atomic, so callers may retry.
	ErrTxConflict = errors.New("transaction conflict")
)

// InsufficientStockError is a terminal business error; it is never retried.
type InsufficientStockError struct {
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: have %d, need %d", e.Available, e.Requested)
}
