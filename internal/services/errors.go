package services

import (
	"errors"

	"anynow/internal/bridge"
)

var (
	ErrBadCreds    = errors.New("invalid email or password")
	ErrBlocked     = errors.New("account is blocked")
	ErrNotLoggedIn = errors.New("not logged in")
	ErrCartEmpty   = errors.New("cart is empty")
	ErrValidation  = errors.New("validation failed")
)

// ValidationError carries a message that is safe to show to the user.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(msg string) error { return &ValidationError{Msg: msg} }

// IsConflict reports a uniqueness violation such as a taken email.
func IsConflict(err error) bool { return errors.Is(err, bridge.ErrConflict) }
