package errors

import "errors"

var (
	ErrInvalidHolder       = errors.New("invalid holder")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
)
