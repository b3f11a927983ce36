package middleware

import (
	"net/http"

	"wellportal/services/tokenstore"
	"wellportal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionIDKey     = "sid"
	cookieOptionsKey = "sidCookie"
)

type cookieOptions struct {
	secure bool
	maxAge int
}

// SessionCookie makes sure every browser carries an opaque session id. The
// tokens themselves never leave the server.
func SessionCookie(secure bool, maxAgeSeconds int) gin.HandlerFunc {
	opts := cookieOptions{secure: secure, maxAge: maxAgeSeconds}
	return func(c *gin.Context) {
		c.Set(cookieOptionsKey, opts)
		sid, err := c.Cookie(utils.SessionCookie)
		if err != nil || uuid.Validate(sid) != nil {
			sid = uuid.NewString()
			setSessionCookie(c, sid, opts)
		}
		c.Set(sessionIDKey, sid)
		c.Next()
	}
}

// RotateSession moves the request onto sid and sends it as the new cookie.
// Called once a login succeeds so a session id seen before the login is
// worthless after it.
func RotateSession(c *gin.Context, sid string) {
	v, _ := c.Get(cookieOptionsKey)
	opts, _ := v.(cookieOptions)
	setSessionCookie(c, sid, opts)
	c.Set(sessionIDKey, sid)
}

func setSessionCookie(c *gin.Context, sid string, opts cookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.SessionCookie, sid, opts.maxAge, "/", "", opts.secure, true)
}

// SessionID returns the request's session id, or "".
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

// StoreFor returns the token store of the request's session.
func StoreFor(c *gin.Context, provider tokenstore.Provider) tokenstore.Store {
	return provider.For(SessionID(c))
}
