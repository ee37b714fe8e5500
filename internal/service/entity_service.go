package service

import (
	"context"

	"github.com/go-faster/errors"

	"console/internal/backend"
	"console/internal/entity"
	"console/internal/form"
)

var (
	ErrUnknownEntity  = errors.New("unknown entity")
	ErrEntityDisabled = errors.New("entity not enabled for this tenant")
	ErrRecordNotFound = errors.New("record not found")
)

// PageState is where a /manage/{slug} navigation ended up.
type PageState int

const (
	StateUnknownEntity PageState = iota
	StateDisabled
	StateLoading
	StateLoaded
	StateLoadError
)

func (s PageState) String() string {
	switch s {
	case StateUnknownEntity:
		return "unknown-entity"
	case StateDisabled:
		return "disabled"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateLoadError:
		return "load-error"
	default:
		return "invalid"
	}
}

// EntityPage is the result of loading one entity list.
type EntityPage struct {
	Descriptor entity.Descriptor
	State      PageState
	Records    []backend.Record
	Err        error
}

// EntityService implements generic CRUD over every registered entity type.
type EntityService interface {
	Resolve(slug string, perms entity.Permissions) (entity.Descriptor, PageState)
	Load(ctx context.Context, api API, slug string, perms entity.Permissions) *EntityPage
	Find(ctx context.Context, api API, slug, id string, perms entity.Permissions) (entity.Descriptor, backend.Record, error)
	Create(ctx context.Context, api API, slug string, perms entity.Permissions, draft form.Draft) (backend.Record, error)
	Update(ctx context.Context, api API, slug, id string, perms entity.Permissions, draft form.Draft) (backend.Record, error)
	Delete(ctx context.Context, api API, slug, id string, perms entity.Permissions) error
}

type entityService struct {
	registry *entity.Registry
}

// NewEntityService returns a new instance of EntityService
func NewEntityService(registry *entity.Registry) EntityService {
	return &entityService{registry: registry}
}

// Resolve maps a slug to its descriptor without touching the network.
// A known, permitted slug resolves to StateLoading.
func (s *entityService) Resolve(slug string, perms entity.Permissions) (entity.Descriptor, PageState) {
	d, ok := s.registry.Describe(slug)
	if !ok {
		return entity.Descriptor{}, StateUnknownEntity
	}
	if perms == nil || !perms.IsEnabled(d.Slug) {
		return d, StateDisabled
	}
	return d, StateLoading
}

func (s *entityService) guard(slug string, perms entity.Permissions) (entity.Descriptor, error) {
	d, state := s.Resolve(slug, perms)
	switch state {
	case StateUnknownEntity:
		return d, errors.Wrapf(ErrUnknownEntity, "%q", slug)
	case StateDisabled:
		return d, errors.Wrapf(ErrEntityDisabled, "%q", slug)
	}
	return d, nil
}

// Load lists the records of slug. A failed list yields StateLoadError with no records.
func (s *entityService) Load(ctx context.Context, api API, slug string, perms entity.Permissions) *EntityPage {
	d, state := s.Resolve(slug, perms)
	page := &EntityPage{Descriptor: d, State: state, Records: []backend.Record{}}
	if state != StateLoading {
		return page
	}

	records, err := api.List(ctx, d.Slug)
	if err != nil {
		page.State = StateLoadError
		page.Err = err
		return page
	}
	page.State = StateLoaded
	page.Records = records
	return page
}

// Find locates one record for editing. The backend has no single-record read, so the list is searched.
func (s *entityService) Find(ctx context.Context, api API, slug, id string, perms entity.Permissions) (entity.Descriptor, backend.Record, error) {
	d, err := s.guard(slug, perms)
	if err != nil {
		return d, nil, err
	}
	records, err := api.List(ctx, d.Slug)
	if err != nil {
		return d, nil, err
	}
	rec, ok := backend.Find(records, id)
	if !ok {
		return d, nil, errors.Wrapf(ErrRecordNotFound, "%s/%s", d.Slug, id)
	}
	return d, rec, nil
}

func (s *entityService) Create(ctx context.Context, api API, slug string, perms entity.Permissions, draft form.Draft) (backend.Record, error) {
	d, err := s.guard(slug, perms)
	if err != nil {
		return nil, err
	}
	if err := draft.Validate(d.Fields); err != nil {
		return nil, err
	}
	return api.Create(ctx, d.Slug, draft.Record())
}

func (s *entityService) Update(ctx context.Context, api API, slug, id string, perms entity.Permissions, draft form.Draft) (backend.Record, error) {
	d, err := s.guard(slug, perms)
	if err != nil {
		return nil, err
	}
	if err := draft.Validate(d.Fields); err != nil {
		return nil, err
	}
	return api.Update(ctx, d.Slug, id, draft.Record())
}

// Delete is never retried.
func (s *entityService) Delete(ctx context.Context, api API, slug, id string, perms entity.Permissions) error {
	d, err := s.guard(slug, perms)
	if err != nil {
		return err
	}
	return api.Delete(ctx, d.Slug, id)
}
