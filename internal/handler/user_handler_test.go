package handler

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"console/internal/backend"
)

func TestUsers_AdminCanCreate(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t, "ana", "secret", "admin")

	rec := h.do(http.MethodGet, "/users", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Create New User")

	rec = h.do(http.MethodPost, "/users", url.Values{
		"username": {"bob"}, "password": {"hunter2"}, "role": {""},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	users := h.fake.Records("users")
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].String("username"))
	assert.Equal(t, "member", users[0].String("role"))

	rec = h.do(http.MethodGet, "/users", nil, cookie)
	assert.Contains(t, rec.Body.String(), "<td>bob</td>")
}

func TestUsers_MemberCannotCreate(t *testing.T) {
	h := newHarness(t)
	h.fake.Seed("users", backend.Record{"username": "ana", "role": "member"})
	cookie := h.login(t, "ana", "secret", "member")

	rec := h.do(http.MethodGet, "/users", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Create New User")
	assert.Contains(t, rec.Body.String(), "<td>ana</td>")

	rec = h.do(http.MethodPost, "/users", url.Values{
		"username": {"mallory"}, "password": {"x"}, "role": {"admin"},
	}, cookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "You are not allowed to do that.")
	assert.Len(t, h.fake.Records("users"), 1)
}

func TestUsers_FailureNeverEchoesPassword(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t, "ana", "secret", "admin")
	h.fake.Fail("users", http.StatusInternalServerError)

	rec := h.do(http.MethodPost, "/users", url.Values{
		"username": {"bob"}, "password": {"hunter2"}, "role": {"member"},
	}, cookie)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="bob"`)
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestUsers_ForbiddenListKeepsSession(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t, "ana", "secret", "member", "teams")
	h.fake.Fail("users", http.StatusForbidden)

	rec := h.do(http.MethodGet, "/users", nil, cookie)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to load users: injected failure")
	assert.Contains(t, rec.Body.String(), "No users yet.")
	assert.Equal(t, 1, h.store.Len())

	rec = h.do(http.MethodGet, "/dashboard", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUsers_ForbiddenCreateKeepsDraft(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t, "ana", "secret", "admin")
	h.fake.Fail("users", http.StatusForbidden)

	rec := h.do(http.MethodPost, "/users", url.Values{
		"username": {"bob"}, "password": {"hunter2"}, "role": {"member"},
	}, cookie)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="bob"`)
	assert.Equal(t, 1, h.store.Len())
}
