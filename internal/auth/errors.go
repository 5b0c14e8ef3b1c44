package auth

import "errors"

var (
	// ErrUnauthorized is returned for an unknown email and for a wrong
	// password alike, so callers cannot tell which one failed.
	ErrUnauthorized = errors.New("invalid email or password")

	// ErrAccountDisabled is returned after a valid credential match when the
	// account status is not active. Wraps carry the concrete status.
	ErrAccountDisabled = errors.New("account is not active")

	// ErrInvalidToken indicates a token failed signature, expiry or kind checks.
	ErrInvalidToken = errors.New("invalid token")

	ErrNotFound     = errors.New("auth: not found")
	ErrConflict     = errors.New("auth: already exists")
	ErrInvalidInput = errors.New("auth: invalid input")
)
