package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-maint-dashboard/internal/config"
	apperrors "github.com/jrsteele09/go-maint-dashboard/internal/errors"
	"github.com/jrsteele09/go-maint-dashboard/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const Issuer = "maintdash-dev"

// Claims carried by an access token
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwtlib.RegisteredClaims
}

// Creator signs and verifies HS256 access tokens
type Creator struct {
	secret []byte
	expiry time.Duration
}

// NewCreator creates a new JWT creator
func NewCreator(cfg config.DevServerConfig) *Creator {
	return &Creator{
		secret: []byte(cfg.GetJWTSecret()),
		expiry: cfg.GetAccessTokenExpiry(),
	}
}

// CreateAccessToken creates a short-lived access token for the user
func (c *Creator) CreateAccessToken(user *users.User) (string, error) {
	now := NowTimeFunc()
	claims := Claims{
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   user.ID,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(c.expiry)),
			ID:        uuid.New().String(), // for revocation
		},
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and expiry of rawToken. Expired tokens return
// ErrTokenExpired, anything else that fails returns ErrInvalidToken.
func (c *Creator) Parse(rawToken string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwtlib.ParseWithClaims(rawToken, claims, c.verificationKey,
		jwtlib.WithIssuer(Issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(NowTimeFunc),
	)
	if err != nil {
		if apperrors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidToken, err)
	}
	return claims, nil
}

func (c *Creator) verificationKey(token *jwtlib.Token) (any, error) {
	if _, ok := token.Method.(*jwtlib.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return c.secret, nil
}
