package sites_test

import (
	"context"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-maint-dashboard/apiclient"
	"github.com/jrsteele09/go-maint-dashboard/devserver"
	"github.com/jrsteele09/go-maint-dashboard/internal/utils"
	"github.com/jrsteele09/go-maint-dashboard/session"
	fakesessionrepo "github.com/jrsteele09/go-maint-dashboard/session/repofake"
	"github.com/jrsteele09/go-maint-dashboard/sites"
	"github.com/jrsteele09/go-maint-dashboard/token/jwt"
	"github.com/jrsteele09/go-maint-dashboard/token/refresh"
	refreshrepofake "github.com/jrsteele09/go-maint-dashboard/token/refresh/repofake"
	"github.com/jrsteele09/go-maint-dashboard/users"
	fakeuserrepo "github.com/jrsteele09/go-maint-dashboard/users/repofake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	editorEmail  = "jane@example.com"
	viewerEmail  = "vic@example.com"
	testPassword = "Password123"
)

type serverConfig struct{}

func (serverConfig) GetAppName() string                   { return "maintdash" }
func (serverConfig) GetEnv() string                       { return "TEST" }
func (serverConfig) GetLogLevel() string                  { return "debug" }
func (serverConfig) GetPort() string                      { return ":0" }
func (serverConfig) GetJWTSecret() string                 { return "test-secret" }
func (serverConfig) GetAccessTokenExpiry() time.Duration  { return 5 * time.Minute }
func (serverConfig) GetRefreshTokenExpiry() time.Duration { return time.Hour }

type clientConfig struct{ baseURL string }

func (c clientConfig) GetAPIBaseURL() string          { return c.baseURL }
func (clientConfig) GetRequestTimeout() time.Duration { return 5 * time.Second }
func (clientConfig) GetRefreshTimeout() time.Duration { return 5 * time.Second }
func (clientConfig) GetUserAgent() string             { return "sites-test" }

// testClock shifts the dev server's notion of time for access and refresh tokens
type testClock struct {
	access  atomic.Int64
	refresh atomic.Int64
}

func (c *testClock) advanceAccess(d time.Duration)  { c.access.Add(int64(d)) }
func (c *testClock) advanceRefresh(d time.Duration) { c.refresh.Add(int64(d)) }

type testFixture struct {
	clock   *testClock
	store   *session.Store
	metrics *apiclient.Metrics
	client  *apiclient.Client
	service *sites.Service
}

func setupTestFixture(t *testing.T, email string) *testFixture {
	t.Helper()

	clock := &testClock{}
	jwt.NowTimeFunc = func() time.Time { return time.Now().Add(time.Duration(clock.access.Load())) }
	refresh.NowTimeFunc = func() time.Time { return time.Now().Add(time.Duration(clock.refresh.Load())) }
	t.Cleanup(func() {
		jwt.NowTimeFunc = time.Now
		refresh.NowTimeFunc = time.Now
	})

	srv := devserver.New(serverConfig{}, fakeuserrepo.NewFakeUserRepo(), refreshrepofake.NewFakeRefreshTokenRepo(), zerolog.Nop())
	_, err := srv.SeedUser(editorEmail, "Jane", "Doe", testPassword, users.RoleTechnician)
	require.NoError(t, err)
	_, err = srv.SeedUser(viewerEmail, "Vic", "Viewer", testPassword, users.RoleViewer)
	require.NoError(t, err)
	srv.SeedDemoSites()

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	store := session.NewStore(fakesessionrepo.NewFakeSessionRepo())
	metrics := apiclient.NewMetrics(prometheus.NewRegistry())
	client := apiclient.New(clientConfig{baseURL: ts.URL}, store,
		apiclient.WithLogger(zerolog.Nop()),
		apiclient.WithMetrics(metrics),
		apiclient.WithHTTPClient(ts.Client()),
	)

	_, err = client.Login(context.Background(), apiclient.Credentials{Email: email, Password: testPassword})
	require.NoError(t, err)

	return &testFixture{
		clock:   clock,
		store:   store,
		metrics: metrics,
		client:  client,
		service: sites.NewService(client),
	}
}

func TestCMSSites_CRUD(t *testing.T) {
	f := setupTestFixture(t, editorEmail)
	ctx := context.Background()

	list, err := f.service.CMS.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	maintained := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	created, err := f.service.CMS.Create(ctx, sites.CMSSite{
		Name:           "Careers",
		URL:            "https://careers.example.com",
		Platform:       "wordpress",
		Status:         sites.StatusActive,
		LastMaintained: utils.Ptr(maintained),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Careers", created.Name)
	require.True(t, maintained.Equal(utils.Value(created.LastMaintained)))

	created.Status = sites.StatusMaintenance
	updated, err := f.service.CMS.Update(ctx, created.ID, *created)
	require.NoError(t, err)
	require.Equal(t, sites.StatusMaintenance, updated.Status)

	got, err := f.service.CMS.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, updated.Status, got.Status)

	require.NoError(t, f.service.CMS.Delete(ctx, created.ID))

	_, err = f.service.CMS.Get(ctx, created.ID)
	kind, ok := apiclient.KindOf(err)
	require.True(t, ok)
	require.Equal(t, apiclient.KindApplication, kind)
	require.EqualError(t, err, "CMS site not found")
}

func TestHelpdeskSites_CRUD(t *testing.T) {
	f := setupTestFixture(t, editorEmail)
	ctx := context.Background()

	created, err := f.service.Helpdesk.Create(ctx, sites.HelpdeskSite{
		Name:        "Partner desk",
		Provider:    "zendesk",
		OpenTickets: utils.Ptr(4),
	})
	require.NoError(t, err)
	require.Equal(t, 4, utils.Value(created.OpenTickets))

	list, err := f.service.Helpdesk.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	_, err = f.service.Helpdesk.Create(ctx, sites.HelpdeskSite{})
	require.EqualError(t, err, "Site name is required")
}

func TestExpiredAccessTokenIsRefreshedTransparently(t *testing.T) {
	f := setupTestFixture(t, editorEmail)
	ctx := context.Background()
	before := f.client.Session(ctx)

	f.clock.advanceAccess(10 * time.Minute)

	list, err := f.service.CMS.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	after := f.client.Session(ctx)
	require.NotEqual(t, before.AccessToken, after.AccessToken)
	require.NotEqual(t, before.RefreshToken, after.RefreshToken, "the dev server rotates refresh tokens")
	require.Equal(t, editorEmail, after.User.Email)
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Refreshes.WithLabelValues("success")))
}

func TestConcurrentCallsShareOneRefresh(t *testing.T) {
	const n = 10
	f := setupTestFixture(t, editorEmail)
	ctx := context.Background()

	f.clock.advanceAccess(10 * time.Minute)

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, errs[i] = f.service.CMS.List(ctx)
			} else {
				_, errs[i] = f.service.Helpdesk.List(ctx)
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	// a second refresh would have presented the rotated-away token and failed
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Refreshes.WithLabelValues("success")))
	require.Zero(t, testutil.ToFloat64(f.metrics.Refreshes.WithLabelValues("failure")))
	require.True(t, f.client.Session(ctx).Valid())
}

func TestExpiredRefreshTokenEndsSession(t *testing.T) {
	f := setupTestFixture(t, editorEmail)
	ctx := context.Background()

	f.clock.advanceAccess(10 * time.Minute)
	f.clock.advanceRefresh(2 * time.Hour)

	_, err := f.service.CMS.List(ctx)
	require.True(t, apiclient.IsSessionExpired(err))
	require.Equal(t, session.Session{}, f.client.Session(ctx))

	// later calls go out without a credential and expire straight away
	_, err = f.service.Helpdesk.List(ctx)
	require.True(t, apiclient.IsSessionExpired(err))
}

func TestViewerForbiddenIsNotAnAuthFailure(t *testing.T) {
	f := setupTestFixture(t, viewerEmail)
	ctx := context.Background()

	_, err := f.service.CMS.Create(ctx, sites.CMSSite{Name: "Nope"})
	kind, ok := apiclient.KindOf(err)
	require.True(t, ok)
	require.Equal(t, apiclient.KindApplication, kind)
	require.EqualError(t, err, "Insufficient permissions")

	require.Zero(t, testutil.ToFloat64(f.metrics.Refreshes.WithLabelValues("success")))
	require.True(t, f.client.Session(ctx).Valid())
}

func TestLogoutRevokesServerSide(t *testing.T) {
	f := setupTestFixture(t, editorEmail)
	ctx := context.Background()

	require.NoError(t, f.client.Logout(ctx))
	require.Equal(t, session.Session{}, f.client.Session(ctx))

	_, err := f.service.CMS.List(ctx)
	require.True(t, apiclient.IsSessionExpired(err))
}
