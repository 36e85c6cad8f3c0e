package apiclient

import (
	"net/http"

	"github.com/jrsteele09/go-maint-dashboard/session"
	"golang.org/x/oauth2"
)

const headerAuthorization = "Authorization"

// Decorate adds the session's access token as a bearer credential, unless the request
// already carries an Authorization header or there is no token.
func Decorate(req *http.Request, sess session.Session) {
	if sess.AccessToken == "" || req.Header.Get(headerAuthorization) != "" {
		return
	}
	setBearer(req, sess.AccessToken)
}

func setBearer(req *http.Request, accessToken string) {
	tok := &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
	tok.SetAuthHeader(req)
}
