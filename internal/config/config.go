package config

import "time"

type Config interface {
	EnvConfig
	ClientConfig
	StorageConfig
	DevServerConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type ClientConfig interface {
	GetAPIBaseURL() string
	GetRequestTimeout() time.Duration
	GetRefreshTimeout() time.Duration
	GetUserAgent() string
}

type StorageConfig interface {
	GetSessionBackend() string
	GetSessionFile() string
	GetRedisAddr() string
	GetRedisKeyPrefix() string
}

type DevServerConfig interface {
	GetPort() string
	GetJWTSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
}

type mainConfig struct {
	EnvVars
	Client
	Storage
	DevServer
}

func New() Config {
	return mainConfig{}
}
