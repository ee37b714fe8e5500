package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"console/internal/middleware"
	"console/pkg/response"
)

// SessionInfo is the JSON view of the current session. The token is never exposed.
type SessionInfo struct {
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type SystemHandler struct {
	*Deps
}

func NewSystemHandler(deps *Deps) *SystemHandler {
	return &SystemHandler{Deps: deps}
}

// RegisterRoutes binds the JSON endpoints. They answer 401 instead of redirecting.
func (h *SystemHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.Health)
	router.GET("/api/session", h.Session)
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	response.JSON(c, response.Success(http.StatusOK, gin.H{"status": "OK"}))
}

// Session handles GET /api/session
func (h *SystemHandler) Session(c *gin.Context) {
	sess, err := h.Auth.Current(c.Request.Context(), middleware.SessionID(c, h.Cookie))
	if err != nil {
		response.JSON(c, response.Error(http.StatusUnauthorized, "no active session"))
		return
	}
	response.JSON(c, response.Success(http.StatusOK, SessionInfo{
		Username:    sess.User.Username,
		Role:        sess.User.Role,
		Permissions: sess.Permissions.List(),
		ExpiresAt:   sess.ExpiresAt,
	}))
}
