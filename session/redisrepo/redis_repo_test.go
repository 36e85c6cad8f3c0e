package redisrepo_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/go-maint-dashboard/session"
	"github.com/jrsteele09/go-maint-dashboard/session/redisrepo"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T, prefix string) (*redisrepo.RedisRepo, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return redisrepo.New(rdb, prefix), mr
}

func TestRedisRepo_PrefixedKeys(t *testing.T) {
	ctx := context.Background()
	repo, mr := newRedisRepo(t, "maintdash:session")

	require.NoError(t, repo.Put(ctx, map[string]string{
		session.KeyAccessToken:  "a",
		session.KeyRefreshToken: "r",
	}))

	v, err := mr.Get("maintdash:session:accessToken")
	require.NoError(t, err)
	require.Equal(t, "a", v)

	got, ok, err := repo.Get(ctx, session.KeyRefreshToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "r", got)

	require.NoError(t, repo.Delete(ctx, session.Keys...))
	require.False(t, mr.Exists("maintdash:session:accessToken"))
	require.False(t, mr.Exists("maintdash:session:refreshToken"))
}

func TestRedisRepo_Missing(t *testing.T) {
	repo, _ := newRedisRepo(t, "")
	_, ok, err := repo.Get(context.Background(), session.KeyUser)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisRepo_StorePurgesNullString(t *testing.T) {
	ctx := context.Background()
	repo, mr := newRedisRepo(t, "p")
	require.NoError(t, mr.Set("p:accessToken", "null"))
	require.NoError(t, mr.Set("p:refreshToken", "r"))

	store := session.NewStore(repo)
	require.Equal(t, session.Session{}, store.Read(ctx))
	require.False(t, mr.Exists("p:accessToken"))
}

func TestRedisRepo_ConnectionError(t *testing.T) {
	repo, mr := newRedisRepo(t, "p")
	mr.Close()

	_, _, err := repo.Get(context.Background(), session.KeyAccessToken)
	require.Error(t, err)
}
