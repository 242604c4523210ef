package errors

import "errors"

var (
	ErrInvalidAvatarID   = errors.New("invalid avatar id")
	ErrAvatarExists      = errors.New("avatar already exists")
	ErrAvatarNotFound    = errors.New("avatar not found")
	ErrInvalidHandle     = errors.New("invalid handle")
	ErrAlreadyEnabled    = errors.New("module already enabled")
	ErrNotEnabled        = errors.New("module not enabled")
	ErrBrokenLink        = errors.New("preceding handle does not precede module")
	ErrUnauthorized      = errors.New("caller is not authorized")
	ErrIncompatibleGuard = errors.New("guard does not advertise the guard capability")
	ErrGuardRejected     = errors.New("guard rejected the execution")
	ErrInvalidCallMode   = errors.New("invalid call mode")
)
