package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	apperrors "github.com/jrsteele09/go-maint-dashboard/internal/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Store owns the Session for one client. Every other component reads it through Read and
// never keeps the result across a blocking call.
type Store struct {
	repo   Repo
	logger zerolog.Logger
	lock   sync.Mutex
}

type Option func(*Store)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates a session store over the given storage
func NewStore(repo Repo, opts ...Option) *Store {
	s := &Store{repo: repo, logger: log.Logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read returns the current session snapshot. It never fails: storage errors are logged and
// reported as an absent session. Entries holding "undefined", "null" or only whitespace
// are deleted from storage and treated as missing.
func (s *Store) Read(ctx context.Context) Session {
	sess, err := s.Load(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("session storage read failed")
		return Session{}
	}
	return sess
}

// Load is Read for callers that must tell a storage failure apart from an absent session.
// Errors wrap ErrStorage.
func (s *Store) Load(ctx context.Context) (Session, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.readLocked(ctx)
}

// Write replaces the stored session. A nil User removes the stored user entry.
func (s *Store) Write(ctx context.Context, sess Session) error {
	if !sess.Valid() {
		return fmt.Errorf("[session Write] both tokens are required: %w", apperrors.ErrInvalidRequest)
	}

	entries := map[string]string{
		KeyAccessToken:  sess.AccessToken,
		KeyRefreshToken: sess.RefreshToken,
	}
	if sess.User != nil {
		userJSON, err := json.Marshal(sess.User)
		if err != nil {
			return fmt.Errorf("[session Write] failed to encode user: %w", err)
		}
		entries[KeyUser] = string(userJSON)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.repo.Put(ctx, entries); err != nil {
		return fmt.Errorf("[session Write] %w: %w", apperrors.ErrStorage, err)
	}
	if sess.User == nil {
		if err := s.repo.Delete(ctx, KeyUser); err != nil {
			return fmt.Errorf("[session Write] %w: %w", apperrors.ErrStorage, err)
		}
	}
	return nil
}

// UpdateTokens applies a refresh result. The access token is always replaced; the refresh
// token and user only when supplied. It fails if there is no session to update.
func (s *Store) UpdateTokens(ctx context.Context, accessToken, refreshToken string, user *UserProfile) error {
	if accessToken == "" {
		return fmt.Errorf("[session UpdateTokens] access token is required: %w", apperrors.ErrInvalidRequest)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	current, err := s.readLocked(ctx)
	if err != nil {
		return err
	}
	if refreshToken == "" {
		refreshToken = current.RefreshToken
	}
	if refreshToken == "" {
		return fmt.Errorf("[session UpdateTokens] %w", apperrors.ErrSessionNotFound)
	}

	entries := map[string]string{
		KeyAccessToken:  accessToken,
		KeyRefreshToken: refreshToken,
	}
	if user != nil {
		userJSON, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("[session UpdateTokens] failed to encode user: %w", err)
		}
		entries[KeyUser] = string(userJSON)
	}

	if err := s.repo.Put(ctx, entries); err != nil {
		return fmt.Errorf("[session UpdateTokens] %w: %w", apperrors.ErrStorage, err)
	}
	return nil
}

// Clear removes all three entries
func (s *Store) Clear(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.repo.Delete(ctx, Keys...); err != nil {
		return fmt.Errorf("[session Clear] %w: %w", apperrors.ErrStorage, err)
	}
	return nil
}

func (s *Store) readLocked(ctx context.Context) (Session, error) {
	var (
		sess  Session
		purge []string
	)

	for _, key := range Keys {
		raw, ok, err := s.repo.Get(ctx, key)
		if err != nil {
			return Session{}, fmt.Errorf("[session Load] key %s: %w: %w", key, apperrors.ErrStorage, err)
		}
		if !ok {
			continue
		}
		if IsEmptyValue(raw) {
			purge = append(purge, key)
			continue
		}

		switch key {
		case KeyAccessToken:
			sess.AccessToken = raw
		case KeyRefreshToken:
			sess.RefreshToken = raw
		case KeyUser:
			var user UserProfile
			if err := json.Unmarshal([]byte(raw), &user); err != nil {
				purge = append(purge, key)
				continue
			}
			sess.User = &user
		}
	}

	if len(purge) > 0 {
		s.logger.Debug().Strs("keys", purge).Msg("purging empty session entries")
		if err := s.repo.Delete(ctx, purge...); err != nil {
			s.logger.Warn().Err(err).Strs("keys", purge).Msg("failed to purge empty session entries")
		}
	}

	if !sess.Valid() {
		return Session{}, nil
	}
	return sess, nil
}

// IsEmptyValue reports whether a stored value stands for "no value". Older clients wrote the
// literal text "undefined" or "null" when a field was missing.
func IsEmptyValue(raw string) bool {
	switch strings.TrimSpace(raw) {
	case "", "undefined", "null":
		return true
	}
	return false
}
