package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"console/internal/backend"
	"console/internal/backend/backendtest"
	"console/internal/logging"
	"console/internal/metrics"
)

func TestClient_Login(t *testing.T) {
	fake := backendtest.New(t)
	fake.AddUser("ana", "secret", "admin", "locations", "job-roles")

	res, err := fake.Client(t).Login(context.Background(), "ana", "secret")
	require.NoError(t, err)
	assert.Equal(t, backendtest.Token, res.Token)
	assert.Equal(t, backend.User{Username: "ana", Role: "admin"}, res.User)
	assert.Equal(t, []string{"locations", "job-roles"}, res.Tenant.EnabledEntities)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].Authorization)
}

func TestClient_LoginRejected(t *testing.T) {
	fake := backendtest.New(t)
	fake.AddUser("ana", "secret", "admin")

	_, err := fake.Client(t).Login(context.Background(), "ana", "wrong")
	assert.True(t, errors.Is(err, backend.ErrUnauthorized), "got %v", err)
}

func TestClient_BearerAttachedToEveryCall(t *testing.T) {
	fake := backendtest.New(t)
	c := fake.Client(t).WithToken(backendtest.Token)
	ctx := context.Background()

	created, err := c.Create(ctx, "teams", backend.Record{"name": "Platform"})
	require.NoError(t, err)
	_, err = c.List(ctx, "teams")
	require.NoError(t, err)
	_, err = c.Update(ctx, "teams", created.ID(), backend.Record{"name": "Core"})
	require.NoError(t, err)
	require.NoError(t, c.Delete(ctx, "teams", created.ID()))

	calls := fake.Calls()
	require.Len(t, calls, 4)
	for _, call := range calls {
		assert.Equal(t, "Bearer "+backendtest.Token, call.Authorization, "%s %s", call.Method, call.Path)
	}
	assert.Equal(t, "/api/v1/teams/"+created.ID(), calls[2].Path)
	assert.Equal(t, http.MethodPut, calls[2].Method)
}

func TestClient_CRUDRoundTrip(t *testing.T) {
	fake := backendtest.New(t)
	c := fake.Client(t).WithToken(backendtest.Token)
	ctx := context.Background()

	created, err := c.Create(ctx, "job-roles", backend.Record{"name": "Engineer", "level": "3"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID())

	list, err := c.List(ctx, "job-roles")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Engineer", list[0].String("name"))

	_, err = c.Update(ctx, "job-roles", created.ID(), backend.Record{"name": "Senior Engineer", "level": "4"})
	require.NoError(t, err)
	list, err = c.List(ctx, "job-roles")
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer", list[0].String("name"))

	require.NoError(t, c.Delete(ctx, "job-roles", created.ID()))
	list, err = c.List(ctx, "job-roles")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestClient_NullListIsEmpty(t *testing.T) {
	fake := backendtest.New(t)

	list, err := fake.Client(t).WithToken(backendtest.Token).List(context.Background(), "costs")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	fake := backendtest.New(t)
	fake.Fail("teams", http.StatusInternalServerError)
	fake.Fail("costs", http.StatusForbidden)
	c := fake.Client(t).WithToken(backendtest.Token)
	ctx := context.Background()

	_, err := c.List(ctx, "teams")
	var apiErr *backend.APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "injected failure", apiErr.Message())

	_, err = c.List(ctx, "costs")
	assert.False(t, backend.IsUnauthorized(err), "a 403 must not end the session")
	assert.True(t, backend.IsForbidden(err))
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)

	_, err = fake.Client(t).WithToken("stale").List(ctx, "locations")
	assert.True(t, backend.IsUnauthorized(err))
}

func TestClient_LargeIntegerIDsKeepPrecision(t *testing.T) {
	fake := backendtest.New(t)
	fake.Seed("teams", backend.Record{"id": int64(9007199254740993), "name": "Core", "headcount": 12})
	c := fake.Client(t).WithToken(backendtest.Token)
	ctx := context.Background()

	list, err := c.List(ctx, "teams")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "9007199254740993", list[0].ID())
	assert.Equal(t, "12", list[0].String("headcount"))

	_, ok := backend.Find(list, "9007199254740993")
	assert.True(t, ok)
	require.NoError(t, c.Delete(ctx, "teams", list[0].ID()))
	assert.Empty(t, fake.Records("teams"))
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := backend.New(url, nil, time.Second, logging.Discard(), nil)
	require.NoError(t, err)

	_, err = c.WithToken("t").List(context.Background(), "teams")
	require.Error(t, err)
	assert.False(t, backend.IsUnauthorized(err))
	var apiErr *backend.APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	}))
	t.Cleanup(srv.Close)

	c, err := backend.New(srv.URL, srv.Client(), 0, logging.Discard(), nil)
	require.NoError(t, err)
	_, err = c.List(context.Background(), "teams")
	assert.True(t, errors.Is(err, backend.ErrMalformedResponse), "got %v", err)
}

func TestClient_RecordsMetrics(t *testing.T) {
	fake := backendtest.New(t)
	reg := prometheus.NewRegistry()
	c, err := backend.New(fake.Server.URL, fake.Server.Client(), 0, logging.Discard(), metrics.NewBackend(reg))
	require.NoError(t, err)

	_, err = c.WithToken(backendtest.Token).List(context.Background(), "teams")
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "console_backend_requests_total")
	assert.Contains(t, names, "console_backend_request_duration_seconds")
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := backend.New("localhost:3000", nil, 0, nil, nil)
	assert.Error(t, err)
}

func TestRecord_String(t *testing.T) {
	r := backend.Record{
		"id":     float64(42),
		"name":   "Berlin",
		"budget": 1250.5,
		"active": true,
		"nested": map[string]any{"x": 1},
		"none":   nil,
	}
	assert.Equal(t, "42", r.ID())
	assert.Equal(t, "Berlin", r.String("name"))
	assert.Equal(t, "1250.5", r.String("budget"))
	assert.Equal(t, "true", r.String("active"))
	assert.Equal(t, "", r.String("nested"))
	assert.Equal(t, "", r.String("none"))
	assert.Equal(t, "", r.String("missing"))

	found, ok := backend.Find([]backend.Record{{"id": "a"}, r}, "42")
	assert.True(t, ok)
	assert.Equal(t, "Berlin", found.String("name"))
	_, ok = backend.Find(nil, "42")
	assert.False(t, ok)
}
