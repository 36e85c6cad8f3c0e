package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/jrsteele09/go-maint-dashboard/session"
)

// RefreshResult is the body of a successful refresh call. RefreshToken is only set when
// the server rotates it.
type RefreshResult struct {
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken,omitempty"`
	User         *session.UserProfile `json:"user,omitempty"`
}

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error)
}

// RefreshFunc adapts a plain function to Refresher.
type RefreshFunc func(ctx context.Context, refreshToken string) (*RefreshResult, error)

func (f RefreshFunc) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	return f(ctx, refreshToken)
}

var errNoAccessToken = errors.New("refresh response carried no access token")

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// httpRefresher posts to the refresh endpoint through the client's own transport. The call
// is SkipAuth so a 401/403 from it can never start another refresh.
type httpRefresher struct {
	client *Client
}

func (r httpRefresher) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	res, err := r.client.Do(ctx, RequestConfig{
		Method:          http.MethodPost,
		Path:            RouteRefresh,
		Body:            refreshRequest{RefreshToken: refreshToken},
		SkipAuth:        true,
		FallbackMessage: "token refresh failed",
	})
	if err != nil {
		return nil, err
	}

	var out RefreshResult
	if err := res.Decode(&out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, errNoAccessToken
	}
	return &out, nil
}
