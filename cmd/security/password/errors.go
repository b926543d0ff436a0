package password

import "errors"

// Public, stable errors for callers.
var (
	ErrPasswordEmpty   = errors.New("password is empty")
	ErrPasswordTooLong = errors.New("password too long")
	ErrInvalidHash     = errors.New("invalid password hash")
)
