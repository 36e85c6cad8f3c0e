package config

import "strings"

const (
	SessionBackendMemory = "memory"
	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
)

type Storage struct{}

var _ StorageConfig = Storage{}

func (Storage) GetSessionBackend() string {
	return strings.ToLower(GetEnv("SESSION_BACKEND", SessionBackendFile))
}

func (Storage) GetSessionFile() string {
	return GetEnv("SESSION_FILE", "./data/session.json")
}

func (Storage) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Storage) GetRedisKeyPrefix() string {
	return GetEnv("REDIS_KEY_PREFIX", "maintdash:session")
}
