package session

// Storage keys. All three are written together on login/refresh and removed together on clear.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

// Keys lists every entry the store owns, in the order they are read.
var Keys = []string{KeyAccessToken, KeyRefreshToken, KeyUser}

// UserProfile is the signed-in dashboard user as returned by login and refresh.
type UserProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Session is the durable credential triple for one client.
// AccessToken and RefreshToken are either both set or both empty; anything else is read as
// an absent session.
type Session struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         *UserProfile `json:"user,omitempty"`
}

// Valid reports whether both tokens are present.
func (s Session) Valid() bool {
	return s.AccessToken != "" && s.RefreshToken != ""
}
