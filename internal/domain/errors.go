package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a missing entity and one that exists but is
	// not owned by the caller. The two are indistinguishable to clients.
	ErrNotFound = errors.New("not found")

	// ErrEmptyCart is returned by checkout when the cart has no lines.
	ErrEmptyCart = errors.New("cart is empty")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
