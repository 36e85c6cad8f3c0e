package config

import (
	"fmt"
	"time"
)

type DevServer struct{}

var _ DevServerConfig = DevServer{}

func (DevServer) GetPort() string {
	port := GetEnv("PORT", "8080")
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (DevServer) GetJWTSecret() string {
	return GetEnv("JWT_SECRET", "dev-only-secret")
}

// GetAccessTokenExpiry defaults to 5 minutes; refresh tokens outlive it by days
func (DevServer) GetAccessTokenExpiry() time.Duration {
	return GetDuration("ACCESS_TOKEN_EXPIRY", 5*time.Minute)
}

func (DevServer) GetRefreshTokenExpiry() time.Duration {
	return GetDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour) // 7 days
}
