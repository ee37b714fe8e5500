package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"console/internal/service"
	"console/internal/view"
)

type DashboardHandler struct {
	*Deps
	dashboard service.DashboardService
}

func NewDashboardHandler(deps *Deps, dashboard service.DashboardService) *DashboardHandler {
	return &DashboardHandler{Deps: deps, dashboard: dashboard}
}

// RegisterRoutes binds the dashboard to an authenticated group
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", h.Dashboard)
}

// Dashboard handles GET /dashboard: one card per permitted entity.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	sess, api, ok := h.sessionAPI(c)
	if !ok {
		return
	}
	stats := h.dashboard.Stats(c.Request.Context(), api, sess.Permissions.List())

	cards := make([]view.Card, 0, len(stats))
	missing := 0
	for _, s := range stats {
		if h.expired(c, s.Err) {
			return
		}
		if !s.Counted() {
			missing++
		}
		card := view.Card{Title: s.Title, Value: s.Value}
		if s.Slug == service.EmployeeSlug {
			card.Href = "/employees"
		} else if _, known := h.Registry.Describe(s.Slug); known {
			card.Href = "/manage/" + s.Slug
		}
		cards = append(cards, card)
	}
	p := h.page(c, "Dashboard", view.Dashboard{Cards: cards})
	if missing > 0 {
		p.Notice = "Some counts could not be loaded and are shown as " + service.Placeholder
	}
	c.HTML(http.StatusOK, "dashboard", p)
}
