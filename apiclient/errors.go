package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind tags an APIError with the class of failure it represents.
type ErrorKind int

const (
	// KindApplication is any non-2xx response that is not an auth failure (validation,
	// not-found, server fault). The message is the most specific one the server gave.
	KindApplication ErrorKind = iota
	// KindNetwork means no response arrived: the server was unreachable or the call timed out.
	KindNetwork
	// KindAuth is an auth failure that was not recovered, e.g. a second 401 after a retry.
	KindAuth
	// KindSessionExpired means the session could not be refreshed and has been cleared.
	KindSessionExpired
)

func (k ErrorKind) String() string {
	switch k {
	case KindApplication:
		return "application"
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindSessionExpired:
		return "session_expired"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

var (
	ErrSessionExpired = errors.New("session expired, please sign in again")
	ErrUnreachable    = errors.New("server unreachable")
	ErrTimeout        = errors.New("request timed out")
	ErrNotAuthorized  = errors.New("not authorized")
)

const defaultFallbackMessage = "request failed"

// APIError is the single error type returned by Client.Do for failed calls.
type APIError struct {
	Kind    ErrorKind
	Status  int    // HTTP status, zero when no response arrived
	Message string // human-readable, safe to show to the user
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first APIError in err's chain and whether one was found.
func KindOf(err error) (ErrorKind, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

func sessionExpiredError(cause error) *APIError {
	err := ErrSessionExpired
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrSessionExpired, cause)
	}
	return &APIError{
		Kind:    KindSessionExpired,
		Message: ErrSessionExpired.Error(),
		Err:     err,
	}
}

func networkError(err error) *APIError {
	if errors.Is(err, context.Canceled) {
		return &APIError{Kind: KindNetwork, Message: "request cancelled", Err: err}
	}
	sentinel := ErrUnreachable
	if isTimeout(err) {
		sentinel = ErrTimeout
	}
	return &APIError{
		Kind:    KindNetwork,
		Message: sentinel.Error(),
		Err:     fmt.Errorf("%w: %w", sentinel, err),
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func applicationError(res *Response, fallback string) *APIError {
	msg := extractMessage(res.Body)
	if msg == "" {
		msg = fallback
	}
	if msg == "" {
		msg = defaultFallbackMessage
	}
	return &APIError{
		Kind:    KindApplication,
		Status:  res.StatusCode,
		Message: msg,
	}
}

func authError(res *Response) *APIError {
	msg := extractMessage(res.Body)
	if msg == "" {
		msg = ErrNotAuthorized.Error()
	}
	return &APIError{
		Kind:    KindAuth,
		Status:  res.StatusCode,
		Message: msg,
		Err:     ErrNotAuthorized,
	}
}
