package apiclient

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-maint-dashboard/session"
	"github.com/rs/zerolog"
)

// State of a Coordinator.
type State int

const (
	StateIdle State = iota
	StateRefreshing
)

func (s State) String() string {
	if s == StateRefreshing {
		return "REFRESHING"
	}
	return "IDLE"
}

// flight is one outstanding refresh call. done is closed exactly once, after token/err are set.
type flight struct {
	done  chan struct{}
	token string
	err   error
}

// Coordinator makes sure at most one refresh call is in flight per client and hands its
// outcome to every caller that asked for it while it was running.
type Coordinator struct {
	store     *session.Store
	refresher Refresher
	timeout   time.Duration
	logger    zerolog.Logger
	metrics   *Metrics

	lock    sync.Mutex
	pending *flight
}

func NewCoordinator(store *session.Store, refresher Refresher, timeout time.Duration, logger zerolog.Logger, metrics *Metrics) *Coordinator {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Coordinator{
		store:     store,
		refresher: refresher,
		timeout:   timeout,
		logger:    logger,
		metrics:   metrics,
	}
}

// State reports whether a refresh call is currently outstanding.
func (c *Coordinator) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.pending != nil {
		return StateRefreshing
	}
	return StateIdle
}

// Refresh returns a fresh access token, joining the refresh already in flight if there is
// one. failedToken is the token the caller's request was rejected with; if the stored token
// has moved on since, that newer token is returned without another refresh call.
//
// When there is no refresh token, or the refresh call fails, the session is cleared and an
// APIError of kind KindSessionExpired is returned to every waiter. Cancelling ctx only stops
// this caller from waiting; the refresh itself runs to completion. A caller whose ctx is
// already done, or a failure reading session storage, leaves the session untouched.
func (c *Coordinator) Refresh(ctx context.Context, failedToken string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.lock.Lock()
	f := c.pending
	if f != nil {
		c.metrics.Coalesced.Inc()
	} else {
		sess, err := c.store.Load(context.WithoutCancel(ctx))
		if err != nil {
			c.lock.Unlock()
			c.metrics.Refreshes.WithLabelValues(outcomeStorageError).Inc()
			c.logger.Error().Err(err).Msg("cannot read session for token refresh")
			return "", err
		}
		if failedToken != "" && sess.Valid() && sess.AccessToken != failedToken {
			c.lock.Unlock()
			c.metrics.Refreshes.WithLabelValues(outcomeAlreadyFresh).Inc()
			return sess.AccessToken, nil
		}
		if sess.RefreshToken == "" {
			c.lock.Unlock()
			c.metrics.Refreshes.WithLabelValues(outcomeNoRefreshToken).Inc()
			c.expire(ctx, nil)
			return "", sessionExpiredError(nil)
		}

		f = &flight{done: make(chan struct{})}
		c.pending = f
		go c.run(context.WithoutCancel(ctx), f, sess.RefreshToken)
	}
	c.lock.Unlock()

	select {
	case <-f.done:
		return f.token, f.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Coordinator) run(ctx context.Context, f *flight, refreshToken string) {
	started := time.Now()
	c.logger.Debug().Msg("token refresh started")

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	res, err := c.refresher.Refresh(callCtx, refreshToken)
	cancel()

	if err == nil && (res == nil || res.AccessToken == "") {
		err = errNoAccessToken
	}
	if err == nil {
		err = c.store.UpdateTokens(ctx, res.AccessToken, res.RefreshToken, res.User)
	}

	if err != nil {
		c.metrics.Refreshes.WithLabelValues(outcomeFailure).Inc()
		c.expire(ctx, err)
		f.err = sessionExpiredError(err)
	} else {
		c.metrics.Refreshes.WithLabelValues(outcomeSuccess).Inc()
		c.logger.Info().Dur("took", time.Since(started)).Msg("token refreshed")
		f.token = res.AccessToken
	}

	c.lock.Lock()
	c.pending = nil
	c.lock.Unlock()
	close(f.done)
}

func (c *Coordinator) expire(ctx context.Context, cause error) {
	ev := c.logger.Warn()
	if cause != nil {
		ev = ev.Err(cause)
	}
	ev.Msg("session expired, clearing stored credentials")

	if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
		c.logger.Error().Err(err).Msg("failed to clear session")
	}
}
