package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"console/internal/backend"
	"console/internal/entity"
	"console/internal/form"
	"console/internal/middleware"
	"console/internal/service"
	"console/internal/session"
	"console/internal/view"
	"console/pkg/pagination"
)

// Deps are shared by every page handler.
type Deps struct {
	Registry *entity.Registry
	Auth     service.AuthService
	Cookie   middleware.CookieOptions
	Log      *logrus.Logger
	PageSize int
}

func (d *Deps) page(c *gin.Context, title string, content any) view.Page {
	p := view.Page{Title: title, Content: content}
	if sess, ok := middleware.CurrentSession(c); ok {
		u := sess.User
		p.User = &u
		p.Nav = view.Navigation(d.Registry, sess.Permissions, c.Request.URL.Path)
	}
	return p
}

// sessionAPI returns the session and the bearer client attached by the session guard.
func (d *Deps) sessionAPI(c *gin.Context) (*session.Session, service.API, bool) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return nil, nil, false
	}
	client, ok := middleware.Client(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return nil, nil, false
	}
	return sess, client, true
}

// expired ends the session when the backend no longer accepts its token.
// It reports whether the response has been written.
func (d *Deps) expired(c *gin.Context, err error) bool {
	if !backend.IsUnauthorized(err) {
		return false
	}
	if sess, ok := middleware.CurrentSession(c); ok {
		if lerr := d.Auth.Logout(c.Request.Context(), sess.ID); lerr != nil {
			d.Log.WithError(lerr).Error("failed to drop rejected session")
		}
	}
	middleware.ClearSessionCookie(c, d.Cookie)
	c.Redirect(http.StatusFound, "/login")
	return true
}

// failureStatus maps a write failure to the status of the re-rendered page.
func failureStatus(err error) int {
	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrForbidden), backend.IsForbidden(err):
		return http.StatusForbidden
	case errors.Is(err, service.ErrRecordNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// errorMessage is the user-visible text for a failed call.
func errorMessage(action string, err error) string {
	var (
		verr   *form.ValidationError
		apiErr *backend.APIError
	)
	switch {
	case errors.As(err, &verr):
		return "Please fill in every required field."
	case errors.Is(err, service.ErrForbidden):
		return "You are not allowed to do that."
	case errors.Is(err, service.ErrRecordNotFound):
		return "That record no longer exists."
	case errors.As(err, &apiErr):
		return fmt.Sprintf("Failed to %s: %s", action, apiErr.Message())
	default:
		return fmt.Sprintf("Failed to %s. Please try again.", action)
	}
}

// paginate slices records for the requested page and builds the pager links.
func (d *Deps) paginate(c *gin.Context, base string, records []backend.Record) ([]backend.Record, view.Pager) {
	params := pagination.Parse(c, d.PageSize)
	visible, meta := pagination.Slice(records, params)
	pager := view.Pager{Page: meta.Page, Pages: meta.Pages, Total: meta.Total}
	if meta.HasPrev {
		pager.PrevHref = fmt.Sprintf("%s?page=%d&limit=%d", base, meta.Page-1, meta.Limit)
	}
	if meta.HasNext {
		pager.NextHref = fmt.Sprintf("%s?page=%d&limit=%d", base, meta.Page+1, meta.Limit)
	}
	return visible, pager
}
