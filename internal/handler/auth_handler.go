package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"

	"console/internal/middleware"
	"console/internal/service"
	"console/internal/view"
)

const (
	msgInvalidCredentials = "Invalid username or password. Please try again."
	msgLoginUnavailable   = "An unexpected error occurred. Please try again later."
)

type AuthHandler struct {
	*Deps
	limit gin.HandlerFunc
}

// NewAuthHandler sets up the login and logout endpoints. limit throttles POST /login and may be nil.
func NewAuthHandler(deps *Deps, limit gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{Deps: deps, limit: limit}
}

// RegisterRoutes binds the public endpoints
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/login", h.LoginPage)
	if h.limit != nil {
		router.POST("/login", h.limit, h.Login)
	} else {
		router.POST("/login", h.Login)
	}
	router.POST("/logout", h.Logout)
}

// LoginPage handles GET /login. A visitor with a live session goes straight to the dashboard.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if id := middleware.SessionID(c, h.Cookie); id != "" {
		if _, err := h.Auth.Current(c.Request.Context(), id); err == nil {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
	}
	c.HTML(http.StatusOK, "login", h.page(c, "Login", view.Login{}))
}

// Login handles POST /login. Any previous session is dropped first, so a failed
// attempt always leaves the browser logged out.
func (h *AuthHandler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	if id := middleware.SessionID(c, h.Cookie); id != "" {
		if err := h.Auth.Logout(c.Request.Context(), id); err != nil {
			h.Log.WithError(err).Warn("failed to drop previous session")
		}
		middleware.ClearSessionCookie(c, h.Cookie)
	}

	if username == "" || password == "" {
		p := h.page(c, "Login", view.Login{Username: username})
		p.Error = msgInvalidCredentials
		c.HTML(http.StatusUnprocessableEntity, "login", p)
		return
	}

	sess, err := h.Auth.Login(c.Request.Context(), username, password)
	if err != nil {
		status, msg := http.StatusUnauthorized, msgInvalidCredentials
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.Log.WithError(err).WithField("username", username).Error("login failed")
			status, msg = http.StatusBadGateway, msgLoginUnavailable
		}
		p := h.page(c, "Login", view.Login{Username: username})
		p.Error = msg
		c.HTML(status, "login", p)
		return
	}

	middleware.SetSessionCookie(c, h.Cookie, sess.ID, sess.ExpiresAt)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), middleware.SessionID(c, h.Cookie)); err != nil {
		h.Log.WithError(err).Error("logout failed")
	}
	middleware.ClearSessionCookie(c, h.Cookie)
	c.Redirect(http.StatusSeeOther, "/login")
}
