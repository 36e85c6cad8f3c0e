package refresh

import (
	"time"
)

// StoredRefreshToken is the server-side record of an issued refresh token.
// The client only receives Token, an opaque random string.
type StoredRefreshToken struct {
	Token  string    // The random token string sent to the client
	UserID string    // Owner
	Iat    time.Time // Issued at
}

// Repo stores refresh token records keyed by the token string.
type Repo interface {
	Upsert(refreshToken *StoredRefreshToken) error
	Delete(token string) error
	Get(token string) (*StoredRefreshToken, error)
	DeleteByUserID(userID string) (int, error)
}
