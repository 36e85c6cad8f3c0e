package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-maint-dashboard/apiclient"
	"github.com/jrsteele09/go-maint-dashboard/session"
	fakesessionrepo "github.com/jrsteele09/go-maint-dashboard/session/repofake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	oldAccessToken   = "access-old"
	newAccessToken   = "access-new"
	testRefreshToken = "refresh-1"
)

var testUser = &session.UserProfile{ID: "user-1", Email: "jane@example.com", Name: "Jane"}

type testConfig struct {
	baseURL        string
	requestTimeout time.Duration
	refreshTimeout time.Duration
}

func (c testConfig) GetAPIBaseURL() string { return c.baseURL }
func (c testConfig) GetRequestTimeout() time.Duration {
	if c.requestTimeout == 0 {
		return 5 * time.Second
	}
	return c.requestTimeout
}
func (c testConfig) GetRefreshTimeout() time.Duration {
	if c.refreshTimeout == 0 {
		return 5 * time.Second
	}
	return c.refreshTimeout
}
func (testConfig) GetUserAgent() string { return "apiclient-test" }

// testFixture holds a client wired to an httptest server and an in-memory session store
type testFixture struct {
	server  *httptest.Server
	repo    *fakesessionrepo.FakeSessionRepo
	store   *session.Store
	metrics *apiclient.Metrics
	client  *apiclient.Client
}

func setupTestFixture(t *testing.T, handler http.Handler, opts ...apiclient.Option) *testFixture {
	t.Helper()
	return setupTestFixtureWithConfig(t, handler, testConfig{}, opts...)
}

func setupTestFixtureWithConfig(t *testing.T, handler http.Handler, cfg testConfig, opts ...apiclient.Option) *testFixture {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	repo := fakesessionrepo.NewFakeSessionRepo()
	store := session.NewStore(repo)
	metrics := apiclient.NewMetrics(prometheus.NewRegistry())

	cfg.baseURL = srv.URL
	opts = append([]apiclient.Option{apiclient.WithLogger(zerolog.Nop()), apiclient.WithMetrics(metrics)}, opts...)

	return &testFixture{
		server:  srv,
		repo:    repo,
		store:   store,
		metrics: metrics,
		client:  apiclient.New(cfg, store, opts...),
	}
}

// signIn seeds the store with the old access token and a refresh token
func (f *testFixture) signIn(t *testing.T) {
	t.Helper()
	err := f.store.Write(context.Background(), session.Session{
		AccessToken:  oldAccessToken,
		RefreshToken: testRefreshToken,
		User:         testUser,
	})
	require.NoError(t, err)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func requireKind(t *testing.T, err error, kind apiclient.ErrorKind) *apiclient.APIError {
	t.Helper()
	require.Error(t, err)
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, kind, apiErr.Kind, "unexpected kind for %v", err)
	return apiErr
}
