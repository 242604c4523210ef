package errors

import "errors"

var (
	ErrInvalidOwner        = errors.New("invalid owner")
	ErrInvalidUser         = errors.New("invalid user")
	ErrInvalidExpiry       = errors.New("expiry must be in the future")
	ErrInsufficientBalance = errors.New("owner balance insufficient to freeze")
)
