package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"console/internal/backend"
	"console/internal/service"
	"console/internal/session"
)

const (
	sessionKey = "session"
	clientKey  = "backendClient"
)

// RequireSession loads the session behind the cookie and attaches it, together with a
// bearer-authenticated backend client, to the request. Requests without a live session
// are redirected to /login.
func RequireSession(auth service.AuthService, client *backend.Client, cookie CookieOptions, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := auth.Current(c.Request.Context(), SessionID(c, cookie))
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				log.WithError(err).Error("session lookup failed")
			}
			ClearSessionCookie(c, cookie)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(sessionKey, sess)
		c.Set(clientKey, client.WithToken(sess.Token))
		c.Next()
	}
}

// CurrentSession returns the session attached by RequireSession.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok
}

// Client returns the bearer-authenticated backend client attached by RequireSession.
func Client(c *gin.Context) (*backend.Client, bool) {
	v, ok := c.Get(clientKey)
	if !ok {
		return nil, false
	}
	cl, ok := v.(*backend.Client)
	return cl, ok
}
