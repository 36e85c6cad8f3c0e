package session_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	apperrors "github.com/jrsteele09/go-maint-dashboard/internal/errors"
	"github.com/jrsteele09/go-maint-dashboard/session"
	fakesessionrepo "github.com/jrsteele09/go-maint-dashboard/session/repofake"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testAccessToken  = "access-1"
	testRefreshToken = "refresh-1"
)

var testUser = &session.UserProfile{ID: "user-1", Email: "jane@example.com", Name: "Jane", Role: "admin"}

func setupStore(t *testing.T) (*session.Store, *fakesessionrepo.FakeSessionRepo) {
	t.Helper()
	repo := fakesessionrepo.NewFakeSessionRepo()
	return session.NewStore(repo), repo
}

func TestRead_EmptyStorage(t *testing.T) {
	store, _ := setupStore(t)
	require.Equal(t, session.Session{}, store.Read(context.Background()))
}

func TestWriteThenRead(t *testing.T) {
	ctx := context.Background()
	store, repo := setupStore(t)

	err := store.Write(ctx, session.Session{AccessToken: testAccessToken, RefreshToken: testRefreshToken, User: testUser})
	require.NoError(t, err)
	require.Equal(t, 3, repo.Len())

	got := store.Read(ctx)
	require.Equal(t, testAccessToken, got.AccessToken)
	require.Equal(t, testRefreshToken, got.RefreshToken)
	require.Equal(t, testUser, got.User)
}

func TestWrite_NilUserRemovesStoredUser(t *testing.T) {
	ctx := context.Background()
	store, repo := setupStore(t)

	require.NoError(t, store.Write(ctx, session.Session{AccessToken: "a", RefreshToken: "r", User: testUser}))
	require.NoError(t, store.Write(ctx, session.Session{AccessToken: "a2", RefreshToken: "r2"}))

	_, ok, err := repo.Get(ctx, session.KeyUser)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, store.Read(ctx).User)
}

func TestWrite_RejectsPartialSession(t *testing.T) {
	store, repo := setupStore(t)

	err := store.Write(context.Background(), session.Session{AccessToken: "only-access"})
	require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	require.Zero(t, repo.Len())
}

func TestRead_PartialSessionIsAbsent(t *testing.T) {
	ctx := context.Background()
	store, repo := setupStore(t)
	require.NoError(t, repo.Put(ctx, map[string]string{session.KeyAccessToken: "dangling"}))

	require.Equal(t, session.Session{}, store.Read(ctx))
}

func TestRead_UndefinedAccessTokenIsPurged(t *testing.T) {
	ctx := context.Background()
	store, repo := setupStore(t)
	require.NoError(t, repo.Put(ctx, map[string]string{
		session.KeyAccessToken:  "undefined",
		session.KeyRefreshToken: testRefreshToken,
	}))

	require.Equal(t, session.Session{}, store.Read(ctx))

	_, ok, err := repo.Get(ctx, session.KeyAccessToken)
	require.NoError(t, err)
	require.False(t, ok, "sentinel entry should be removed on read")

	_, ok, err = repo.Get(ctx, session.KeyRefreshToken)
	require.NoError(t, err)
	require.True(t, ok, "real entries are left alone")
}

func TestRead_SentinelValues(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"undefined", "undefined"},
		{"null", "null"},
		{"blank", "   "},
		{"padded null", " null\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			store, repo := setupStore(t)
			require.NoError(t, repo.Put(ctx, map[string]string{
				session.KeyAccessToken:  testAccessToken,
				session.KeyRefreshToken: testRefreshToken,
				session.KeyUser:         tc.raw,
			}))

			got := store.Read(ctx)
			require.True(t, got.Valid())
			require.Nil(t, got.User)
			require.Equal(t, 2, repo.Len())
		})
	}
}

func TestRead_UndecodableUserIsPurged(t *testing.T) {
	ctx := context.Background()
	store, repo := setupStore(t)
	require.NoError(t, repo.Put(ctx, map[string]string{
		session.KeyAccessToken:  testAccessToken,
		session.KeyRefreshToken: testRefreshToken,
		session.KeyUser:         "{not json",
	}))

	got := store.Read(ctx)
	require.True(t, got.Valid())
	require.Nil(t, got.User)
	require.Equal(t, 2, repo.Len())
}

func TestUpdateTokens_PreservesRefreshTokenAndUser(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)
	require.NoError(t, store.Write(ctx, session.Session{AccessToken: testAccessToken, RefreshToken: testRefreshToken, User: testUser}))

	require.NoError(t, store.UpdateTokens(ctx, "access-2", "", nil))

	got := store.Read(ctx)
	require.Equal(t, "access-2", got.AccessToken)
	require.Equal(t, testRefreshToken, got.RefreshToken)
	require.Equal(t, testUser, got.User)
}

func TestUpdateTokens_RotatesRefreshTokenAndUser(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t)
	require.NoError(t, store.Write(ctx, session.Session{AccessToken: testAccessToken, RefreshToken: testRefreshToken, User: testUser}))

	renamed := &session.UserProfile{ID: "user-1", Email: "jane@example.com", Name: "Jane Doe"}
	require.NoError(t, store.UpdateTokens(ctx, "access-2", "refresh-2", renamed))

	got := store.Read(ctx)
	require.Equal(t, "access-2", got.AccessToken)
	require.Equal(t, "refresh-2", got.RefreshToken)
	require.Equal(t, renamed, got.User)
}

func TestUpdateTokens_NoSession(t *testing.T) {
	store, _ := setupStore(t)
	err := store.UpdateTokens(context.Background(), "access-2", "", nil)
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store, repo := setupStore(t)
	require.NoError(t, store.Write(ctx, session.Session{AccessToken: testAccessToken, RefreshToken: testRefreshToken, User: testUser}))

	require.NoError(t, store.Clear(ctx))
	require.Zero(t, repo.Len())
	require.Equal(t, session.Session{}, store.Read(ctx))
}

type failingRepo struct{ err error }

func (f failingRepo) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingRepo) Put(context.Context, map[string]string) error     { return f.err }
func (f failingRepo) Delete(context.Context, ...string) error          { return f.err }

func TestStorageErrors(t *testing.T) {
	ctx := context.Background()
	store := session.NewStore(failingRepo{err: errors.New("disk on fire")})

	require.Equal(t, session.Session{}, store.Read(ctx), "read never fails")
	require.ErrorIs(t, store.Write(ctx, session.Session{AccessToken: "a", RefreshToken: "r"}), apperrors.ErrStorage)
	require.ErrorIs(t, store.Clear(ctx), apperrors.ErrStorage)

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, apperrors.ErrStorage)
	require.ErrorIs(t, store.UpdateTokens(ctx, "a2", "", nil), apperrors.ErrStorage)
}

func TestLoad_AbsentIsNotAnError(t *testing.T) {
	store, _ := setupStore(t)
	sess, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, session.Session{}, sess)
}

func TestReadFailureIsLoggedToStoreLogger(t *testing.T) {
	var buf bytes.Buffer
	store := session.NewStore(failingRepo{err: errors.New("disk on fire")}, session.WithLogger(zerolog.New(&buf)))

	require.Equal(t, session.Session{}, store.Read(context.Background()))
	require.Contains(t, buf.String(), "session storage read failed")
	require.Contains(t, buf.String(), "disk on fire")
}
