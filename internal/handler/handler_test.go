package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"console/internal/backend/backendtest"
	"console/internal/entity"
	"console/internal/logging"
	"console/internal/middleware"
	"console/internal/service"
	"console/internal/session"
	"console/internal/view"
)

const cookieName = "console_session"

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	router *gin.Engine
	fake   *backendtest.Fake
	store  *session.MemoryStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fake := backendtest.New(t)
	store := session.NewMemoryStore()
	log := logging.Discard()

	reg, err := entity.Default()
	require.NoError(t, err)
	renderer, err := view.New()
	require.NoError(t, err)

	client := fake.Client(t)
	deps := &Deps{
		Registry: reg,
		Auth:     service.NewAuthService(client, store, time.Hour, log),
		Cookie:   middleware.CookieOptions{Name: cookieName, MaxAge: time.Hour},
		Log:      log,
		PageSize: 20,
	}
	svc := Services{
		Entities:  service.NewEntityService(reg),
		Employees: service.NewEmployeeService(log),
		Dashboard: service.NewDashboardService(reg, log),
		Users:     service.NewUserService(),
	}
	return &harness{
		router: NewRouter(deps, client, renderer, svc, RouterOptions{}),
		fake:   fake,
		store:  store,
	}
}

func (h *harness) do(method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

// login signs in and clears the recorded backend calls.
func (h *harness) login(t *testing.T, username, password, role string, enabled ...string) *http.Cookie {
	t.Helper()
	h.fake.AddUser(username, password, role, enabled...)
	rec := h.do(http.MethodPost, "/login", url.Values{"username": {username}, "password": {password}}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName && c.Value != "" {
			h.fake.Reset()
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

var navLink = regexp.MustCompile(`<a href="[^"]+"(?: class="active")?>([^<]+)</a>`)

func navTitles(body string) []string {
	start := strings.Index(body, "<nav>")
	end := strings.Index(body, "</nav>")
	if start < 0 || end < start {
		return nil
	}
	var titles []string
	for _, m := range navLink.FindAllStringSubmatch(body[start:end], -1) {
		titles = append(titles, m[1])
	}
	return titles
}
