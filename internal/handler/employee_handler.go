package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"console/internal/backend"
	"console/internal/form"
	"console/internal/service"
	"console/internal/session"
	"console/internal/view"
)

const employeesHref = "/employees"

type EmployeeHandler struct {
	*Deps
	employees service.EmployeeService
}

func NewEmployeeHandler(deps *Deps, employees service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{Deps: deps, employees: employees}
}

// RegisterRoutes binds the employee pages to an authenticated group
func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	e := router.Group(employeesHref)
	{
		e.GET("", h.List)
		e.GET("/new", h.New)
		e.POST("", h.Create)
		e.GET("/:id/edit", h.Edit)
		e.POST("/:id", h.Update)
		e.GET("/:id/delete", h.ConfirmDelete)
		e.POST("/:id/delete", h.Delete)
	}
}

func (h *EmployeeHandler) renderList(c *gin.Context, api service.API, status int, errMsg string) {
	records, err := h.employees.List(c.Request.Context(), api)
	if err != nil {
		if h.expired(c, err) {
			return
		}
		records = []backend.Record{}
		if errMsg == "" {
			errMsg = errorMessage("load employees", err)
		}
		if status == http.StatusOK {
			status = http.StatusBadGateway
		}
	}

	visible, pager := h.paginate(c, employeesHref, records)
	rows := make([]view.Row, 0, len(visible))
	for _, rec := range visible {
		name := strings.TrimSpace(rec.String("firstName") + " " + rec.String("lastName"))
		rows = append(rows, view.Row{
			Cells:      []string{name, rec.String("email")},
			EditHref:   fmt.Sprintf("%s/%s/edit", employeesHref, url.PathEscape(rec.ID())),
			DeleteHref: fmt.Sprintf("%s/%s/delete", employeesHref, url.PathEscape(rec.ID())),
		})
	}
	p := h.page(c, "Employees", view.List{
		Heading:  "Employees",
		NewHref:  employeesHref + "/new",
		NewLabel: "Create New Employee",
		Headers:  []string{"Name", "Email"},
		Rows:     rows,
		Actions:  true,
		Empty:    "No employees yet.",
		Pager:    pager,
	})
	p.Error = errMsg
	c.HTML(status, "list", p)
}

// List handles GET /employees
func (h *EmployeeHandler) List(c *gin.Context) {
	_, api, ok := h.sessionAPI(c)
	if !ok {
		return
	}
	h.renderList(c, api, http.StatusOK, "")
}

// references loads the picker options. It reports false when the session was rejected.
func (h *EmployeeHandler) references(c *gin.Context, api service.API, sess *session.Session) (service.ReferenceSet, bool) {
	refs := h.employees.References(c.Request.Context(), api, sess.Permissions)
	for _, failed := range refs.Failed() {
		if h.expired(c, failed.Err) {
			return refs, false
		}
	}
	return refs, true
}

func (h *EmployeeHandler) renderForm(c *gin.Context, status int, id string, refs service.ReferenceSet, draft form.Draft, errMsg string) {
	heading, action := "Create Employee", employeesHref
	if id != "" {
		heading, action = "Edit Employee", fmt.Sprintf("%s/%s", employeesHref, url.PathEscape(id))
	}

	fields := refs.Fields()
	shown := make(map[string]bool, len(fields))
	for _, f := range fields {
		shown[f.Name] = true
	}
	var hidden []form.Input
	for _, name := range draft.Names() {
		if !shown[name] {
			hidden = append(hidden, form.Input{Name: name, Value: draft.Value(name)})
		}
	}

	notices := make([]string, 0, len(refs.Failed()))
	for _, failed := range refs.Failed() {
		notices = append(notices, fmt.Sprintf("%s options could not be loaded, so the picker is hidden.", failed.Label))
	}

	p := h.page(c, heading, view.Form{
		Heading:     heading,
		Action:      action,
		SubmitLabel: "Save",
		CancelHref:  employeesHref,
		Inputs:      form.Build(fields, draft, refs.BuildOptions()),
		Hidden:      hidden,
		Notices:     notices,
	})
	p.Error = errMsg
	c.HTML(status, "form", p)
}

// New handles GET /employees/new
func (h *EmployeeHandler) New(c *gin.Context) {
	sess, api, ok := h.sessionAPI(c)
	if !ok {
		return
	}
	refs, ok := h.references(c, api, sess)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, "", refs, form.New(service.DraftFields(), nil), "")
}

// Create handles POST /employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	h.save(c, "")
}

// Edit handles GET /employees/:id/edit
func (h *EmployeeHandler) Edit(c *gin.Context) {
	sess, api, ok := h.sessionAPI(c)
	if !ok {
		return
	}
	rec, err := h.employees.Find(c.Request.Context(), api, c.Param("id"))
	if err != nil {
		if h.expired(c, err) {
			return
		}
		h.renderList(c, api, failureStatus(err), errorMessage("load the employee", err))
		return
	}
	refs, ok := h.references(c, api, sess)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, c.Param("id"), refs, form.New(service.DraftFields(), rec), "")
}

// Update handles POST /employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	h.save(c, c.Param("id"))
}

// save creates (id == "") or updates an employee. On failure the form is shown again with the draft.
func (h *EmployeeHandler) save(c *gin.Context, id string) {
	sess, api, ok := h.sessionAPI(c)
	if !ok {
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "could not read the submitted form")
		return
	}
	draft := form.FromValues(service.DraftFields(), c.Request.PostForm)

	refs, ok := h.references(c, api, sess)
	if !ok {
		return
	}

	var err error
	if id == "" {
		_, err = h.employees.Create(c.Request.Context(), api, refs, draft)
	} else {
		_, err = h.employees.Update(c.Request.Context(), api, id, refs, draft)
	}
	if err != nil {
		if h.expired(c, err) {
			return
		}
		h.Log.WithError(err).WithFields(logrus.Fields{"entity": service.EmployeeSlug, "id": id}).Warn("save failed")
		h.renderForm(c, failureStatus(err), id, refs, draft, errorMessage("save the employee", err))
		return
	}
	c.Redirect(http.StatusSeeOther, employeesHref)
}

// ConfirmDelete handles GET /employees/:id/delete
func (h *EmployeeHandler) ConfirmDelete(c *gin.Context) {
	if _, _, ok := h.sessionAPI(c); !ok {
		return
	}
	id := c.Param("id")
	c.HTML(http.StatusOK, "confirm", h.page(c, "Delete Employee", view.Confirm{
		Heading:    "Delete Employee",
		Message:    "Are you sure you want to delete this employee?",
		Action:     fmt.Sprintf("%s/%s/delete", employeesHref, url.PathEscape(id)),
		CancelHref: employeesHref,
	}))
}

// Delete handles POST /employees/:id/delete
func (h *EmployeeHandler) Delete(c *gin.Context) {
	_, api, ok := h.sessionAPI(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if c.PostForm("confirm") != "yes" {
		c.Redirect(http.StatusSeeOther, fmt.Sprintf("%s/%s/delete", employeesHref, url.PathEscape(id)))
		return
	}
	if err := h.employees.Delete(c.Request.Context(), api, id); err != nil {
		if h.expired(c, err) {
			return
		}
		h.Log.WithError(err).WithFields(logrus.Fields{"entity": service.EmployeeSlug, "id": id}).Warn("delete failed")
		h.renderList(c, api, failureStatus(err), errorMessage("delete the employee", err))
		return
	}
	c.Redirect(http.StatusSeeOther, employeesHref)
}
