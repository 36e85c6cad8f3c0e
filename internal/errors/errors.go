package errors

import (
	"errors"
	"fmt"
)

// Common error types shared by the client, session storage and the dev backend
var (
	// Authentication errors
	ErrUserNotFound = errors.New("user not found")

	// Token errors
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Session storage errors
	ErrStorage         = errors.New("session storage failure")
	ErrUnknownBackend  = errors.New("unknown session backend")
	ErrSessionNotFound = errors.New("session not found")

	// General errors
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
