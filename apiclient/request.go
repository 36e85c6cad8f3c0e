package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Route path constants for the dashboard API
const (
	RouteLogin   = "/auth/login"
	RouteRefresh = "/auth/refresh"
	RouteLogout  = "/auth/logout"
	RouteMe      = "/api/me"
)

// RequestConfig describes one API call.
type RequestConfig struct {
	Method string
	// Path is appended to the client's base URL unless it is already absolute
	Path   string
	Query  url.Values
	Header http.Header
	// Body is sent as-is when it is []byte or io.Reader, otherwise it is JSON-encoded
	Body any
	// SkipAuth opts the call out of auth-failure handling: a 401/403 is returned as an
	// ordinary error and never triggers a refresh.
	SkipAuth bool
	// Timeout applies to each attempt; zero uses the client default
	Timeout time.Duration
	// FallbackMessage is used for application errors whose body has no message
	FallbackMessage string
}

// Response is a completed 2xx call with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 || v == nil {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("[apiclient Decode] invalid response body: %w", err)
	}
	return nil
}

func (r *Response) ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// attempt marks a call that has already been replayed once.
type attempt struct {
	retried bool
}

// encodeBody turns the configured body into bytes up front so the call can be replayed.
func encodeBody(body any) ([]byte, bool, error) {
	switch b := body.(type) {
	case nil:
		return nil, false, nil
	case []byte:
		return b, false, nil
	case string:
		return []byte(b), false, nil
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, false, fmt.Errorf("[apiclient encodeBody] failed to read body: %w", err)
		}
		return data, false, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, false, fmt.Errorf("[apiclient encodeBody] failed to encode body: %w", err)
		}
		return data, true, nil
	}
}

func newBodyReader(body []byte) io.Reader {
	if body == nil {
		return nil
	}
	return bytes.NewReader(body)
}
