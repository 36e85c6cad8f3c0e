package apiclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-maint-dashboard/internal/config"
	"github.com/jrsteele09/go-maint-dashboard/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	headerRequestID = "X-Request-ID"
)

// Client is an HTTP client for the dashboard API that authenticates every call from the
// session store and recovers once from an expired access token.
type Client struct {
	baseURL        string
	userAgent      string
	requestTimeout time.Duration
	httpClient     *http.Client
	store          *session.Store
	coordinator    *Coordinator
	refresher      Refresher
	refreshTimeout time.Duration
	logger         zerolog.Logger
	metrics        *Metrics
}

type Option func(*Client)

// WithHTTPClient replaces the underlying transport client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithRefresher replaces the default POST /auth/refresh call
func WithRefresher(r Refresher) Option {
	return func(c *Client) { c.refresher = r }
}

// New creates a client and its refresh coordinator over the given session store.
func New(cfg config.ClientConfig, store *session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(cfg.GetAPIBaseURL(), "/"),
		userAgent:      cfg.GetUserAgent(),
		requestTimeout: cfg.GetRequestTimeout(),
		refreshTimeout: cfg.GetRefreshTimeout(),
		httpClient:     &http.Client{},
		store:          store,
		logger:         log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = NewMetrics(nil)
	}
	if c.refresher == nil {
		c.refresher = httpRefresher{client: c}
	}
	c.coordinator = NewCoordinator(store, c.refresher, c.refreshTimeout, c.logger, c.metrics)
	return c
}

// Coordinator returns the client's refresh coordinator
func (c *Client) Coordinator() *Coordinator {
	return c.coordinator
}

// Session returns the current session snapshot
func (c *Client) Session(ctx context.Context) session.Session {
	return c.store.Read(ctx)
}

// Do performs the call. Non-2xx responses come back as *APIError. An auth failure triggers
// one refresh (shared with any concurrent callers) and one replay with the new token; a
// replayed call that fails again is not retried. Calls that carry their own Authorization
// header are never refreshed or replayed.
func (c *Client) Do(ctx context.Context, rc RequestConfig) (*Response, error) {
	body, isJSON, err := encodeBody(rc.Body)
	if err != nil {
		return nil, err
	}

	att := &attempt{}
	requestID := uuid.NewString()
	explicitCredential := rc.Header.Get(headerAuthorization) != ""
	var bearer string

	for {
		res, usedToken, err := c.send(ctx, rc, body, isJSON, bearer, requestID)
		if err != nil {
			return nil, err
		}
		if res.ok() {
			return res, nil
		}

		class := Classify(Result{StatusCode: res.StatusCode, Body: res.Body, SkipAuth: rc.SkipAuth})
		if !class.IsAuthFailure {
			return nil, applicationError(res, rc.FallbackMessage)
		}
		if explicitCredential {
			return nil, authError(res)
		}
		if att.retried {
			c.logger.Warn().Str("method", rc.Method).Str("path", rc.Path).Int("status", res.StatusCode).
				Msg("auth failure after retry, giving up")
			return nil, authError(res)
		}
		att.retried = true

		bearer, err = c.coordinator.Refresh(ctx, usedToken)
		if err != nil {
			return nil, err
		}
		c.metrics.Retries.Inc()
		c.logger.Debug().Str("method", rc.Method).Str("path", rc.Path).Str("request_id", requestID).
			Msg("retrying with refreshed token")
	}
}

// send performs a single attempt. bearer, when set, overrides any Authorization header;
// otherwise the request is decorated from the session store. It returns the access token
// the attempt was sent with, or "" if it was not decorated from the store.
func (c *Client) send(ctx context.Context, rc RequestConfig, body []byte, isJSON bool, bearer, requestID string) (*Response, string, error) {
	timeout := rc.Timeout
	if timeout <= 0 {
		timeout = c.requestTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	method := rc.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(rc), newBodyReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("[apiclient send] failed to build request: %w", err)
	}
	for k, values := range rc.Header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	if isJSON && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set(headerRequestID, requestID)

	var usedToken string
	if bearer != "" {
		setBearer(req, bearer)
		usedToken = bearer
	} else if req.Header.Get(headerAuthorization) == "" {
		sess := c.store.Read(ctx)
		Decorate(req, sess)
		usedToken = sess.AccessToken
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", method).Str("path", rc.Path).Msg("request failed without response")
		return nil, "", networkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", networkError(err)
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, usedToken, nil
}

func (c *Client) url(rc RequestConfig) string {
	u := rc.Path
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = c.baseURL + "/" + strings.TrimLeft(u, "/")
	}
	if len(rc.Query) > 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + rc.Query.Encode()
	}
	return u
}

// Credentials are the email/password pair posted to the login endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
	User         *session.UserProfile `json:"user,omitempty"`
}

// Login exchanges credentials for a session and stores it.
func (c *Client) Login(ctx context.Context, creds Credentials) (session.Session, error) {
	res, err := c.Do(ctx, RequestConfig{
		Method:          http.MethodPost,
		Path:            RouteLogin,
		Body:            creds,
		SkipAuth:        true,
		FallbackMessage: "login failed",
	})
	if err != nil {
		return session.Session{}, err
	}

	var lr loginResponse
	if err := res.Decode(&lr); err != nil {
		return session.Session{}, err
	}

	sess := session.Session{AccessToken: lr.AccessToken, RefreshToken: lr.RefreshToken, User: lr.User}
	if !sess.Valid() {
		return session.Session{}, &APIError{Kind: KindApplication, Status: res.StatusCode, Message: "login response missing tokens"}
	}
	if err := c.store.Write(ctx, sess); err != nil {
		return session.Session{}, fmt.Errorf("[apiclient Login] %w", err)
	}

	c.logger.Info().Str("user", userEmail(sess.User)).Msg("signed in")
	return sess, nil
}

// Logout asks the server to revoke the refresh token, then clears the local session no
// matter what the server said. Only a failure to clear local storage is returned.
func (c *Client) Logout(ctx context.Context) error {
	sess := c.store.Read(ctx)
	if sess.RefreshToken != "" {
		_, err := c.Do(ctx, RequestConfig{
			Method:   http.MethodPost,
			Path:     RouteLogout,
			Body:     refreshRequest{RefreshToken: sess.RefreshToken},
			SkipAuth: true,
		})
		if err != nil {
			c.logger.Warn().Err(err).Msg("remote logout failed, clearing local session anyway")
		}
	}

	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("[apiclient Logout] %w", err)
	}
	return nil
}

// Get fetches path and decodes the JSON response into out
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, in, out)
}

func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, in, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	res, err := c.Do(ctx, RequestConfig{Method: method, Path: path, Body: in})
	if err != nil {
		return err
	}
	return res.Decode(out)
}

func userEmail(u *session.UserProfile) string {
	if u == nil {
		return ""
	}
	return u.Email
}

// IsSessionExpired reports whether err means the user has to sign in again
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}
