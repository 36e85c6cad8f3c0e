package config

import (
	"strings"
	"time"
)

const (
	apiBaseURLVar     = "API_BASE_URL"
	requestTimeoutVar = "REQUEST_TIMEOUT"
	refreshTimeoutVar = "REFRESH_TIMEOUT"
)

type Client struct{}

var _ ClientConfig = Client{}

// GetAPIBaseURL returns the dashboard API root without a trailing slash (e.g. "http://localhost:8080")
func (Client) GetAPIBaseURL() string {
	return strings.TrimRight(GetEnv(apiBaseURLVar, "http://localhost:8080"), "/")
}

func (Client) GetRequestTimeout() time.Duration {
	return GetDuration(requestTimeoutVar, 30*time.Second)
}

// GetRefreshTimeout bounds the shared refresh call. Expiry of this timeout counts as a refresh failure.
func (Client) GetRefreshTimeout() time.Duration {
	return GetDuration(refreshTimeoutVar, 10*time.Second)
}

func (Client) GetUserAgent() string {
	return "maintdash-client/1.0"
}
