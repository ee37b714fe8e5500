package service

import (
	"context"
	"net/url"
	"sort"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"console/internal/backend"
	"console/internal/form"
	"console/internal/logging"
	"console/internal/session"
)

func allReferenceSlugs() []string {
	slugs := make([]string, 0, len(References))
	for _, r := range References {
		slugs = append(slugs, r.Slug)
	}
	return slugs
}

func TestReferences_MatchRegistry(t *testing.T) {
	reg := newEntityService(t)
	require.Len(t, References, 10)
	for _, r := range References {
		_, state := reg.Resolve(r.Slug, session.NewPermissionSet([]string{r.Slug}))
		assert.Equal(t, StateLoading, state, r.Slug)
	}
}

func TestEmployeeService_ReferencesAreIsolated(t *testing.T) {
	api := newStubAPI()
	for _, slug := range allReferenceSlugs() {
		api.lists[slug] = []backend.Record{{"id": "1", "name": slug + "-one"}}
	}
	api.fail["teams"] = &backend.APIError{Status: 500}

	svc := NewEmployeeService(logging.Discard())
	refs := svc.References(context.Background(), api, session.NewPermissionSet(allReferenceSlugs()))

	require.Len(t, refs.Lists, 10)
	assert.Len(t, refs.Available(), 9)
	failed := refs.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "teams", failed[0].Slug)

	fields := refs.Fields()
	assert.Len(t, fields, len(EmployeeFields)+9)
	for _, f := range fields {
		assert.NotEqual(t, "teamId", f.Name)
	}

	inputs := form.Build(fields, form.New(DraftFields(), nil), refs.BuildOptions())
	assert.Len(t, inputs, 12)
	assert.Equal(t, "Select a location...", inputs[3].Placeholder)
	assert.Equal(t, []form.Option{{Value: "1", Label: "locations-one"}}, inputs[3].Options)
}

func TestEmployeeService_OnlyPermittedReferencesFetched(t *testing.T) {
	api := newStubAPI()
	svc := NewEmployeeService(logging.Discard())

	refs := svc.References(context.Background(), api, session.NewPermissionSet([]string{"job-roles", "locations", "employees"}))

	calls := api.Calls()
	sort.Strings(calls)
	assert.Equal(t, []string{"list job-roles", "list locations"}, calls)
	require.Len(t, refs.Lists, 2)
	assert.Equal(t, "locations", refs.Lists[0].Slug)
	assert.Equal(t, "job-roles", refs.Lists[1].Slug)
}

func TestEmployeeService_CreateSendsEveryField(t *testing.T) {
	api := newStubAPI()
	svc := NewEmployeeService(logging.Discard())
	refs := ReferenceSet{Lists: []ReferenceList{{Reference: References[0]}}}

	draft := form.FromValues(DraftFields(), url.Values{
		"firstName": {"Ada"}, "lastName": {"Lovelace"}, "email": {"ada@example.com"}, "locationId": {"1"},
	})
	_, err := svc.Create(context.Background(), api, refs, draft)
	require.NoError(t, err)

	require.Len(t, api.created, 1)
	payload := api.created[0]
	assert.Len(t, payload, 13)
	assert.Equal(t, "1", payload["locationId"])
	assert.Equal(t, "", payload["accessLevelId"])
}

func TestEmployeeService_RenderedPickersAreRequired(t *testing.T) {
	api := newStubAPI()
	svc := NewEmployeeService(logging.Discard())
	refs := ReferenceSet{Lists: []ReferenceList{{Reference: References[0]}}}

	draft := form.FromValues(DraftFields(), url.Values{
		"firstName": {"Ada"}, "lastName": {"Lovelace"}, "email": {"ada@example.com"},
	})
	_, err := svc.Create(context.Background(), api, refs, draft)

	var verr *form.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"locationId"}, verr.Fields)
	assert.Empty(t, api.Calls())
}

func TestEmployeeService_Find(t *testing.T) {
	api := newStubAPI()
	api.lists[EmployeeSlug] = []backend.Record{{"id": "5", "firstName": "Ada"}}
	svc := NewEmployeeService(logging.Discard())

	rec, err := svc.Find(context.Background(), api, "5")
	require.NoError(t, err)
	assert.Equal(t, "Ada", rec.String("firstName"))

	_, err = svc.Find(context.Background(), api, "6")
	assert.True(t, errors.Is(err, ErrRecordNotFound))
}
