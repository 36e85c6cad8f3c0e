package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jrsteele09/go-maint-dashboard/internal/config"
	apperrors "github.com/jrsteele09/go-maint-dashboard/internal/errors"
	"github.com/jrsteele09/go-maint-dashboard/session"
	"github.com/jrsteele09/go-maint-dashboard/session/filerepo"
	"github.com/jrsteele09/go-maint-dashboard/session/redisrepo"
	fakesessionrepo "github.com/jrsteele09/go-maint-dashboard/session/repofake"
	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 3 * time.Second

// newSessionRepo builds the configured session backend. The returned close func is never nil.
func newSessionRepo(ctx context.Context, cfg config.StorageConfig) (session.Repo, func() error, error) {
	noop := func() error { return nil }

	switch backend := cfg.GetSessionBackend(); backend {
	case config.SessionBackendMemory:
		return fakesessionrepo.NewFakeSessionRepo(), noop, nil
	case config.SessionBackendFile:
		return filerepo.New(cfg.GetSessionFile()), noop, nil
	case config.SessionBackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.GetRedisAddr()})
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			return nil, noop, fmt.Errorf("[maintdash newSessionRepo] redis at %s: %w: %w", cfg.GetRedisAddr(), apperrors.ErrStorage, err)
		}
		return redisrepo.New(rdb, cfg.GetRedisKeyPrefix()), rdb.Close, nil
	default:
		return nil, noop, fmt.Errorf("[maintdash newSessionRepo] %w: %q", apperrors.ErrUnknownBackend, backend)
	}
}
