package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"console/internal/backend"
	"console/internal/entity"
	"console/internal/logging"
)

func newDashboardService(t *testing.T) DashboardService {
	t.Helper()
	reg, err := entity.Default()
	require.NoError(t, err)
	return NewDashboardService(reg, logging.Discard())
}

func TestDashboardService_OneCardPerPermittedSlug(t *testing.T) {
	api := newStubAPI()
	api.lists["locations"] = []backend.Record{{"id": "1"}, {"id": "2"}}
	api.lists["job-roles"] = []backend.Record{{"id": "1"}}

	cards := newDashboardService(t).Stats(context.Background(), api, []string{"locations", "job-roles"})

	require.Len(t, cards, 2)
	assert.Equal(t, StatCard{Slug: "locations", Title: "Locations", Value: "2"}, cards[0])
	assert.Equal(t, StatCard{Slug: "job-roles", Title: "Job Roles", Value: "1"}, cards[1])
	assert.Len(t, api.Calls(), 2)
}

func TestDashboardService_FailedCountKeepsPlaceholder(t *testing.T) {
	api := newStubAPI()
	api.lists["teams"] = []backend.Record{{"id": "1"}}
	api.fail["employees"] = &backend.APIError{Status: 503}

	cards := newDashboardService(t).Stats(context.Background(), api, []string{"employees", "teams"})

	require.Len(t, cards, 2)
	assert.Equal(t, "Employees", cards[0].Title)
	assert.Equal(t, Placeholder, cards[0].Value)
	assert.False(t, cards[0].Counted())
	assert.Equal(t, "1", cards[1].Value)
	assert.True(t, cards[1].Counted())
}

func TestDashboardService_NoPermissions(t *testing.T) {
	api := newStubAPI()

	cards := newDashboardService(t).Stats(context.Background(), api, nil)
	assert.Empty(t, cards)
	assert.Empty(t, api.Calls())
}
