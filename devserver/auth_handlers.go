package devserver

import (
	"net/http"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-maint-dashboard/internal/errors"
	"github.com/jrsteele09/go-maint-dashboard/session"
	"github.com/jrsteele09/go-maint-dashboard/users"
)

const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeInvalid  = "invalid"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
	TokenType    string               `json:"tokenType"`
	ExpiresIn    int64                `json:"expiresIn"` // seconds
	User         *session.UserProfile `json:"user"`
}

// LoginHandler exchanges email and password for an access/refresh token pair
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			s.metrics.authRequests.WithLabelValues("login", outcomeInvalid).Inc()
			writeJSONError(w, "invalid_request", "Invalid request body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			s.metrics.authRequests.WithLabelValues("login", outcomeInvalid).Inc()
			writeJSONError(w, "invalid_request", "Email and password are required", http.StatusBadRequest)
			return
		}

		user, err := s.users.GetByEmail(req.Email)
		if err != nil || !users.CheckPasswordHash(req.Password, user.PasswordHash) {
			s.metrics.authRequests.WithLabelValues("login", outcomeRejected).Inc()
			writeJSONError(w, "invalid_credentials", "Invalid email or password", http.StatusUnauthorized)
			return
		}
		if user.Blocked {
			s.metrics.authRequests.WithLabelValues("login", outcomeRejected).Inc()
			writeJSONError(w, "account_blocked", "Account is blocked", http.StatusForbidden)
			return
		}

		refreshToken, err := s.refreshTokens.Create(user.ID)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to create refresh token")
			writeJSONError(w, "server_error", "Login failed", http.StatusInternalServerError)
			return
		}
		res, err := s.tokenResponse(user, refreshToken)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to create access token")
			writeJSONError(w, "server_error", "Login failed", http.StatusInternalServerError)
			return
		}

		if err := s.users.SetLastLogin(user.Email); err != nil {
			s.logger.Warn().Err(err).Str("user", user.Email).Msg("failed to record last login")
		}
		s.metrics.authRequests.WithLabelValues("login", outcomeSuccess).Inc()
		s.logger.Info().Str("user", user.Email).Msg("user logged in")
		writeJSON(w, http.StatusOK, res)
	}
}

// RefreshHandler rotates the refresh token and issues a new access token. The presented
// refresh token is single use.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := decodeJSON(w, r, &req); err != nil || req.RefreshToken == "" {
			s.metrics.authRequests.WithLabelValues("refresh", outcomeInvalid).Inc()
			writeJSONError(w, "invalid_request", "Refresh token is required", http.StatusBadRequest)
			return
		}

		rt, next, err := s.refreshTokens.Rotate(req.RefreshToken)
		if err != nil {
			s.metrics.authRequests.WithLabelValues("refresh", outcomeRejected).Inc()
			msg := "Invalid refresh token"
			if apperrors.Is(err, apperrors.ErrRefreshTokenExpired) {
				msg = "Refresh token expired"
			}
			writeJSONError(w, "invalid_grant", msg, http.StatusUnauthorized)
			return
		}

		user, err := s.users.GetByID(rt.UserID)
		if err != nil || user.Blocked {
			if _, revokeErr := s.refreshTokens.RevokeUser(rt.UserID); revokeErr != nil {
				s.logger.Warn().Err(revokeErr).Str("userID", rt.UserID).Msg("failed to revoke refresh tokens")
			}
			s.metrics.authRequests.WithLabelValues("refresh", outcomeRejected).Inc()
			writeJSONError(w, "invalid_grant", "Invalid refresh token", http.StatusUnauthorized)
			return
		}

		res, err := s.tokenResponse(user, next)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to create access token")
			writeJSONError(w, "server_error", "Token refresh failed", http.StatusInternalServerError)
			return
		}

		s.metrics.authRequests.WithLabelValues("refresh", outcomeSuccess).Inc()
		s.logger.Debug().Str("user", user.Email).Msg("token refreshed")
		writeJSON(w, http.StatusOK, res)
	}
}

// LogoutHandler revokes the refresh token and, when one is presented, the access token.
// It always answers 204 so clients can clear local state unconditionally.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		_ = decodeJSON(w, r, &req)
		if req.RefreshToken != "" {
			if err := s.refreshTokens.Delete(req.RefreshToken); err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
				s.logger.Warn().Err(err).Msg("failed to delete refresh token")
			}
		}

		if rawToken, ok := bearerToken(r); ok {
			if claims, err := s.tokens.Parse(rawToken); err == nil && claims.ExpiresAt != nil {
				if err := s.revoked.Add(claims.ID, claims.ExpiresAt.Time); err != nil {
					s.logger.Warn().Err(err).Str("jti", claims.ID).Msg("failed to revoke access token")
				}
			}
		}

		s.metrics.authRequests.WithLabelValues("logout", outcomeSuccess).Inc()
		w.WriteHeader(http.StatusNoContent)
	}
}

// MeHandler returns the profile of the authenticated user
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())
		if user == nil {
			writeJSONError(w, "unauthorized", "Unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, user.Profile())
	}
}

func (s *Server) tokenResponse(user *users.User, refreshToken string) (*tokenResponse, error) {
	accessToken, err := s.tokens.CreateAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &tokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.config.GetAccessTokenExpiry() / time.Second),
		User:         user.Profile(),
	}, nil
}
