package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"console/internal/backend"
	"console/internal/form"
	"console/internal/service"
	"console/internal/session"
	"console/internal/view"
)

type UserHandler struct {
	*Deps
	users service.UserService
}

// NewUserHandler sets up the routing dependencies for User pages
func NewUserHandler(deps *Deps, users service.UserService) *UserHandler {
	return &UserHandler{Deps: deps, users: users}
}

// RegisterRoutes binds the user pages to an authenticated group
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/users", h.List)
	router.POST("/users", h.Create)
}

// render shows the user list, and the create form for admins.
func (h *UserHandler) render(c *gin.Context, api service.API, sess *session.Session, status int, draft form.Draft, errMsg string) {
	records, err := h.users.List(c.Request.Context(), api)
	if err != nil {
		if h.expired(c, err) {
			return
		}
		records = []backend.Record{}
		if errMsg == "" {
			errMsg = errorMessage("load users", err)
		}
		if status == http.StatusOK {
			status = http.StatusBadGateway
		}
	}

	visible, pager := h.paginate(c, "/users", records)
	rows := make([]view.Row, 0, len(visible))
	for _, rec := range visible {
		rows = append(rows, view.Row{Cells: []string{rec.String("username"), rec.String("role")}})
	}
	content := view.Users{List: view.List{
		Heading: "User Management",
		Headers: []string{"Username", "Role"},
		Rows:    rows,
		Empty:   "No users yet.",
		Pager:   pager,
	}}
	if sess.User.IsAdmin() {
		content.Form = &view.Form{
			Heading:     "Create New User",
			Action:      "/users",
			SubmitLabel: "Create User",
			CancelHref:  "/users",
			Inputs: form.Build(service.UserFields, draft, form.BuildOptions{
				Options: map[string][]form.Option{"role": service.RoleOptions},
			}),
		}
	}
	p := h.page(c, "Users", content)
	p.Error = errMsg
	c.HTML(status, "users", p)
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	sess, api, ok := h.sessionAPI(c)
	if !ok {
		return
	}
	h.render(c, api, sess, http.StatusOK, service.NewUserDraft(), "")
}

// Create handles POST /users. Only admins may create users.
func (h *UserHandler) Create(c *gin.Context) {
	sess, api, ok := h.sessionAPI(c)
	if !ok {
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "could not read the submitted form")
		return
	}
	draft := form.FromValues(service.UserFields, c.Request.PostForm)
	if _, err := h.users.Create(c.Request.Context(), api, sess.User, draft); err != nil {
		if h.expired(c, err) {
			return
		}
		h.Log.WithError(err).WithField("actor", sess.User.Username).Warn("create user failed")
		// the password is never echoed back
		draft.Set("password", "")
		h.render(c, api, sess, failureStatus(err), draft, errorMessage("create the user", err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/users")
}
