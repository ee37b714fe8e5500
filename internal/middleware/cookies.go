package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieOptions configures the session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// SetSessionCookie stores the opaque session id as an HttpOnly cookie.
// The browser never sees the backend token.
func SetSessionCookie(c *gin.Context, opts CookieOptions, id string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if opts.MaxAge > 0 && maxAge > int(opts.MaxAge.Seconds()) {
		maxAge = int(opts.MaxAge.Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(opts.Name, id, maxAge, "/", "", opts.Secure, true)
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(c *gin.Context, opts CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(opts.Name, "", -1, "/", "", opts.Secure, true)
}

// SessionID returns the id carried by the session cookie, or "".
func SessionID(c *gin.Context, opts CookieOptions) string {
	id, err := c.Cookie(opts.Name)
	if err != nil {
		return ""
	}
	return id
}
