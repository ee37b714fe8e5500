package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"console/internal/backend"
	"console/internal/entity"
	"console/internal/form"
	"console/internal/service"
	"console/internal/session"
	"console/internal/view"
)

// EntityHandler serves the generic CRUD pages under /manage/{slug}.
type EntityHandler struct {
	*Deps
	entities service.EntityService
}

func NewEntityHandler(deps *Deps, entities service.EntityService) *EntityHandler {
	return &EntityHandler{Deps: deps, entities: entities}
}

// RegisterRoutes binds the generic entity pages to an authenticated group
func (h *EntityHandler) RegisterRoutes(router *gin.RouterGroup) {
	m := router.Group("/manage/:slug")
	{
		m.GET("", h.List)
		m.GET("/new", h.New)
		m.POST("", h.Create)
		m.GET("/:id/edit", h.Edit)
		m.POST("/:id", h.Update)
		m.GET("/:id/delete", h.ConfirmDelete)
		m.POST("/:id/delete", h.Delete)
	}
}

// resolve renders the unknown or disabled page itself and reports false in that case.
// No backend call is made before a slug resolves.
func (h *EntityHandler) resolve(c *gin.Context) (entity.Descriptor, *session.Session, service.API, bool) {
	sess, api, ok := h.sessionAPI(c)
	if !ok {
		return entity.Descriptor{}, nil, nil, false
	}
	slug := c.Param("slug")
	d, state := h.entities.Resolve(slug, sess.Permissions)
	switch state {
	case service.StateUnknownEntity:
		c.HTML(http.StatusNotFound, "message", h.page(c, "Unknown Entity", view.Message{
			Heading:   "Unknown Entity: " + slug,
			Message:   "There is no entity type with this name.",
			BackHref:  "/dashboard",
			BackLabel: "Back to dashboard",
		}))
		return d, nil, nil, false
	case service.StateDisabled:
		c.HTML(http.StatusForbidden, "message", h.page(c, d.Title, view.Message{
			Heading:   d.Title,
			Message:   d.Title + " is not enabled for your organisation.",
			BackHref:  "/dashboard",
			BackLabel: "Back to dashboard",
		}))
		return d, nil, nil, false
	}
	return d, sess, api, true
}

func listHref(d entity.Descriptor) string {
	return "/manage/" + d.Slug
}

func (h *EntityHandler) listView(c *gin.Context, d entity.Descriptor, records []backend.Record) view.List {
	visible, pager := h.paginate(c, listHref(d), records)
	headers := make([]string, 0, len(d.ListColumns))
	for _, col := range d.ListColumns {
		headers = append(headers, col.Header)
	}
	rows := make([]view.Row, 0, len(visible))
	for _, rec := range visible {
		cells := make([]string, 0, len(d.ListColumns))
		for _, col := range d.ListColumns {
			cells = append(cells, rec.String(col.Accessor))
		}
		rows = append(rows, view.Row{
			Cells:      cells,
			EditHref:   fmt.Sprintf("%s/%s/edit", listHref(d), url.PathEscape(rec.ID())),
			DeleteHref: fmt.Sprintf("%s/%s/delete", listHref(d), url.PathEscape(rec.ID())),
		})
	}
	return view.List{
		Heading:  "Manage " + d.Title,
		NewHref:  listHref(d) + "/new",
		NewLabel: "Create New",
		Headers:  headers,
		Rows:     rows,
		Actions:  true,
		Empty:    "No " + d.Title + " yet.",
		Pager:    pager,
	}
}

// renderList loads the list and renders it, with errMsg shown above it when set.
func (h *EntityHandler) renderList(c *gin.Context, api service.API, sess *session.Session, status int, errMsg string) {
	ep := h.entities.Load(c.Request.Context(), api, c.Param("slug"), sess.Permissions)
	if h.expired(c, ep.Err) {
		return
	}
	p := h.page(c, ep.Descriptor.Title, h.listView(c, ep.Descriptor, ep.Records))
	p.Error = errMsg
	if ep.State == service.StateLoadError {
		if p.Error == "" {
			p.Error = errorMessage("load "+ep.Descriptor.Title, ep.Err)
		}
		if status == http.StatusOK {
			status = http.StatusBadGateway
		}
	}
	c.HTML(status, "list", p)
}

// List handles GET /manage/:slug
func (h *EntityHandler) List(c *gin.Context) {
	_, sess, api, ok := h.resolve(c)
	if !ok {
		return
	}
	h.renderList(c, api, sess, http.StatusOK, "")
}

func (h *EntityHandler) renderForm(c *gin.Context, status int, d entity.Descriptor, id string, draft form.Draft, errMsg string) {
	heading, action := "Create "+d.Title, listHref(d)
	if id != "" {
		heading, action = "Edit "+d.Title, fmt.Sprintf("%s/%s", listHref(d), url.PathEscape(id))
	}
	p := h.page(c, heading, view.Form{
		Heading:     heading,
		Action:      action,
		SubmitLabel: "Save",
		CancelHref:  listHref(d),
		Inputs:      form.Build(d.Fields, draft, form.BuildOptions{}),
	})
	p.Error = errMsg
	c.HTML(status, "form", p)
}

// New handles GET /manage/:slug/new
func (h *EntityHandler) New(c *gin.Context) {
	d, _, _, ok := h.resolve(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, d, "", form.New(d.Fields, nil), "")
}

// Create handles POST /manage/:slug. On failure the form is shown again with the submitted draft.
func (h *EntityHandler) Create(c *gin.Context) {
	d, sess, api, ok := h.resolve(c)
	if !ok {
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		h.renderForm(c, http.StatusBadRequest, d, "", form.New(d.Fields, nil), "Could not read the submitted form.")
		return
	}
	draft := form.FromValues(d.Fields, c.Request.PostForm)
	if _, err := h.entities.Create(c.Request.Context(), api, d.Slug, sess.Permissions, draft); err != nil {
		if h.expired(c, err) {
			return
		}
		h.Log.WithError(err).WithField("entity", d.Slug).Warn("create failed")
		h.renderForm(c, failureStatus(err), d, "", draft, errorMessage("save "+d.Title, err))
		return
	}
	c.Redirect(http.StatusSeeOther, listHref(d))
}

// Edit handles GET /manage/:slug/:id/edit
func (h *EntityHandler) Edit(c *gin.Context) {
	d, sess, api, ok := h.resolve(c)
	if !ok {
		return
	}
	_, rec, err := h.entities.Find(c.Request.Context(), api, d.Slug, c.Param("id"), sess.Permissions)
	if err != nil {
		if h.expired(c, err) {
			return
		}
		h.renderList(c, api, sess, failureStatus(err), errorMessage("load the record", err))
		return
	}
	h.renderForm(c, http.StatusOK, d, c.Param("id"), form.New(d.Fields, rec), "")
}

// Update handles POST /manage/:slug/:id
func (h *EntityHandler) Update(c *gin.Context) {
	d, sess, api, ok := h.resolve(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := c.Request.ParseForm(); err != nil {
		h.renderForm(c, http.StatusBadRequest, d, id, form.New(d.Fields, nil), "Could not read the submitted form.")
		return
	}
	draft := form.FromValues(d.Fields, c.Request.PostForm)
	if _, err := h.entities.Update(c.Request.Context(), api, d.Slug, id, sess.Permissions, draft); err != nil {
		if h.expired(c, err) {
			return
		}
		h.Log.WithError(err).WithFields(logrus.Fields{"entity": d.Slug, "id": id}).Warn("update failed")
		h.renderForm(c, failureStatus(err), d, id, draft, errorMessage("save "+d.Title, err))
		return
	}
	c.Redirect(http.StatusSeeOther, listHref(d))
}

// ConfirmDelete handles GET /manage/:slug/:id/delete
func (h *EntityHandler) ConfirmDelete(c *gin.Context) {
	d, _, _, ok := h.resolve(c)
	if !ok {
		return
	}
	id := c.Param("id")
	c.HTML(http.StatusOK, "confirm", h.page(c, "Delete "+d.Title, view.Confirm{
		Heading:    "Delete " + d.Title,
		Message:    "Are you sure you want to delete this item?",
		Action:     fmt.Sprintf("%s/%s/delete", listHref(d), url.PathEscape(id)),
		CancelHref: listHref(d),
	}))
}

// Delete handles POST /manage/:slug/:id/delete. Without confirm=yes nothing is deleted.
func (h *EntityHandler) Delete(c *gin.Context) {
	d, sess, api, ok := h.resolve(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if c.PostForm("confirm") != "yes" {
		c.Redirect(http.StatusSeeOther, fmt.Sprintf("%s/%s/delete", listHref(d), url.PathEscape(id)))
		return
	}
	if err := h.entities.Delete(c.Request.Context(), api, d.Slug, id, sess.Permissions); err != nil {
		if h.expired(c, err) {
			return
		}
		h.Log.WithError(err).WithFields(logrus.Fields{"entity": d.Slug, "id": id}).Warn("delete failed")
		h.renderList(c, api, sess, failureStatus(err), errorMessage("delete the record", err))
		return
	}
	c.Redirect(http.StatusSeeOther, listHref(d))
}
