package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCurrency    = errors.New("invalid currency code")
	ErrInvalidDisplayName = errors.New("display name must not be empty")
)
