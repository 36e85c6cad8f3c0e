package filerepo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-maint-dashboard/session"
	"github.com/jrsteele09/go-maint-dashboard/session/filerepo"
	"github.com/stretchr/testify/require"
)

func TestFileRepo_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	repo := filerepo.New(path)

	_, ok, err := repo.Get(ctx, session.KeyAccessToken)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, repo.Put(ctx, map[string]string{
		session.KeyAccessToken:  "a",
		session.KeyRefreshToken: "r",
	}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// a second instance sees the same data
	v, ok, err := filerepo.New(path).Get(ctx, session.KeyRefreshToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "r", v)

	require.NoError(t, repo.Delete(ctx, session.KeyAccessToken))
	_, ok, err = repo.Get(ctx, session.KeyAccessToken)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, repo.Delete(ctx, session.Keys...))
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err), "file is removed once empty")
}

func TestFileRepo_WithStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"accessToken":"undefined","refreshToken":"r"}`), 0o600))

	store := session.NewStore(filerepo.New(path))
	require.Equal(t, session.Session{}, store.Read(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "undefined")
}

func TestFileRepo_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0o600))

	_, _, err := filerepo.New(path).Get(context.Background(), session.KeyUser)
	require.Error(t, err)
}
