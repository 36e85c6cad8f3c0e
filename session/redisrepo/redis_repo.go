package redisrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jrsteele09/go-maint-dashboard/session"
	"github.com/redis/go-redis/v9"
)

var _ session.Repo = (*RedisRepo)(nil)

// RedisRepo keeps each session entry under "<prefix>:<key>" so a shared Redis can hold the
// sessions of many clients side by side.
type RedisRepo struct {
	rdb    redis.UniversalClient
	prefix string
}

func New(rdb redis.UniversalClient, prefix string) *RedisRepo {
	return &RedisRepo{rdb: rdb, prefix: prefix}
}

func (rr *RedisRepo) key(k string) string {
	if rr.prefix == "" {
		return k
	}
	return rr.prefix + ":" + k
}

func (rr *RedisRepo) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := rr.rdb.Get(ctx, rr.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("[redisrepo Get] %s: %w", key, err)
	}
	return v, true, nil
}

// Put writes all entries with a single MSET
func (rr *RedisRepo) Put(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	values := make([]any, 0, len(entries)*2)
	for k, v := range entries {
		values = append(values, rr.key(k), v)
	}
	if err := rr.rdb.MSet(ctx, values...).Err(); err != nil {
		return fmt.Errorf("[redisrepo Put] %w", err)
	}
	return nil
}

func (rr *RedisRepo) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, rr.key(k))
	}
	if err := rr.rdb.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("[redisrepo Delete] %w", err)
	}
	return nil
}
