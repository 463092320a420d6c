package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTooManyAttempts indicates the login rate limit was hit.
	ErrTooManyAttempts = errors.New("too many login attempts")
)
