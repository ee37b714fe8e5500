package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBackend_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBackend(reg)

	m.Observe("list", "teams", "ok", 20*time.Millisecond)
	m.Observe("list", "teams", "ok", 30*time.Millisecond)
	m.Observe("create", "teams", "error", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("list", "teams", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("create", "teams", "error")))
}

func TestBackend_NilIsNoop(t *testing.T) {
	var m *Backend
	assert.NotPanics(t, func() { m.Observe("list", "teams", "ok", time.Second) })
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewBackend(reg).Observe("delete", "costs", "ok", time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `console_backend_requests_total{entity="costs",operation="delete",result="ok"} 1`))
}
