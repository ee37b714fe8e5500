package service

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"

	"console/internal/backend"
	"console/internal/entity"
	"console/internal/form"
)

// EmployeeSlug is the backend collection of employees. It is not a registry entity.
const EmployeeSlug = "employees"

// Reference is one employee attribute that points at a record of another entity.
type Reference struct {
	Slug        string
	Field       string
	Label       string
	Placeholder string
}

// References are the employee pickers in display order.
var References = []Reference{
	{Slug: "locations", Field: "locationId", Label: "Location", Placeholder: "Select a location..."},
	{Slug: "departments", Field: "departmentId", Label: "Department", Placeholder: "Select a department..."},
	{Slug: "managers", Field: "managerId", Label: "Manager", Placeholder: "Select a manager..."},
	{Slug: "job-roles", Field: "jobRoleId", Label: "Job Role", Placeholder: "Select a job role..."},
	{Slug: "employement-types", Field: "employementTypeId", Label: "Employment Type", Placeholder: "Select an employment type..."},
	{Slug: "teams", Field: "teamId", Label: "Team", Placeholder: "Select a team..."},
	{Slug: "costs", Field: "costId", Label: "Cost Center", Placeholder: "Select a cost center..."},
	{Slug: "hardware-assets", Field: "hardwareAssetId", Label: "Hardware Asset", Placeholder: "Select a hardware asset..."},
	{Slug: "onboarding-buddy", Field: "onboardingBuddyId", Label: "Onboarding Buddy", Placeholder: "Select an onboarding buddy..."},
	{Slug: "access-levels", Field: "accessLevelId", Label: "Access Level", Placeholder: "Select an access level..."},
}

// EmployeeFields are the attributes every employee form shows.
var EmployeeFields = []entity.FieldSpec{
	{Name: "firstName", Label: "First Name", Type: entity.FieldText, Required: true},
	{Name: "lastName", Label: "Last Name", Type: entity.FieldText, Required: true},
	{Name: "email", Label: "Email", Type: entity.FieldEmail, Required: true},
}

// DraftFields is the full employee payload: fixed attributes plus every reference,
// including pickers the tenant cannot see.
func DraftFields() []entity.FieldSpec {
	fields := append([]entity.FieldSpec(nil), EmployeeFields...)
	for _, r := range References {
		fields = append(fields, r.field(false))
	}
	return fields
}

func (r Reference) field(required bool) entity.FieldSpec {
	return entity.FieldSpec{Name: r.Field, Label: r.Label, Type: entity.FieldSelect, Required: required}
}

// ReferenceList is the outcome of fetching one reference's options.
type ReferenceList struct {
	Reference
	Options []form.Option
	Err     error
}

// ReferenceSet holds one list per permitted reference, in display order.
type ReferenceSet struct {
	Lists []ReferenceList
}

// Available returns the lists that loaded.
func (s ReferenceSet) Available() []ReferenceList {
	out := make([]ReferenceList, 0, len(s.Lists))
	for _, l := range s.Lists {
		if l.Err == nil {
			out = append(out, l)
		}
	}
	return out
}

// Failed returns the lists whose fetch failed.
func (s ReferenceSet) Failed() []ReferenceList {
	var out []ReferenceList
	for _, l := range s.Lists {
		if l.Err != nil {
			out = append(out, l)
		}
	}
	return out
}

// Fields are the inputs to render: fixed attributes plus one required picker per loaded list.
func (s ReferenceSet) Fields() []entity.FieldSpec {
	fields := append([]entity.FieldSpec(nil), EmployeeFields...)
	for _, l := range s.Available() {
		fields = append(fields, l.field(true))
	}
	return fields
}

func (s ReferenceSet) BuildOptions() form.BuildOptions {
	opts := form.BuildOptions{
		Options:      make(map[string][]form.Option, len(s.Lists)),
		Placeholders: make(map[string]string, len(s.Lists)),
	}
	for _, l := range s.Available() {
		opts.Options[l.Field] = l.Options
		opts.Placeholders[l.Field] = l.Placeholder
	}
	return opts
}

// EmployeeService manages employees and the option lists of their reference pickers.
type EmployeeService interface {
	References(ctx context.Context, api API, perms entity.Permissions) ReferenceSet
	List(ctx context.Context, api API) ([]backend.Record, error)
	Find(ctx context.Context, api API, id string) (backend.Record, error)
	Create(ctx context.Context, api API, refs ReferenceSet, draft form.Draft) (backend.Record, error)
	Update(ctx context.Context, api API, id string, refs ReferenceSet, draft form.Draft) (backend.Record, error)
	Delete(ctx context.Context, api API, id string) error
}

type employeeService struct {
	log *logrus.Logger
}

// NewEmployeeService returns a new instance of EmployeeService
func NewEmployeeService(log *logrus.Logger) EmployeeService {
	return &employeeService{log: log}
}

// References fetches the option list of every permitted reference concurrently.
// Each fetch succeeds or fails on its own.
func (s *employeeService) References(ctx context.Context, api API, perms entity.Permissions) ReferenceSet {
	var enabled []Reference
	for _, r := range References {
		if perms != nil && perms.IsEnabled(r.Slug) {
			enabled = append(enabled, r)
		}
	}

	lists := make([]ReferenceList, len(enabled))
	var wg conc.WaitGroup
	for i, r := range enabled {
		wg.Go(func() {
			records, err := api.List(ctx, r.Slug)
			if err != nil {
				s.log.WithError(err).WithField("entity", r.Slug).Warn("reference list unavailable")
				lists[i] = ReferenceList{Reference: r, Err: err}
				return
			}
			lists[i] = ReferenceList{Reference: r, Options: form.OptionsFrom(records, "name")}
		})
	}
	wg.Wait()
	return ReferenceSet{Lists: lists}
}

func (s *employeeService) List(ctx context.Context, api API) ([]backend.Record, error) {
	return api.List(ctx, EmployeeSlug)
}

func (s *employeeService) Find(ctx context.Context, api API, id string) (backend.Record, error) {
	records, err := api.List(ctx, EmployeeSlug)
	if err != nil {
		return nil, err
	}
	rec, ok := backend.Find(records, id)
	if !ok {
		return nil, errors.Wrapf(ErrRecordNotFound, "%s/%s", EmployeeSlug, id)
	}
	return rec, nil
}

func (s *employeeService) Create(ctx context.Context, api API, refs ReferenceSet, draft form.Draft) (backend.Record, error) {
	if err := draft.Validate(refs.Fields()); err != nil {
		return nil, err
	}
	return api.Create(ctx, EmployeeSlug, draft.Record())
}

func (s *employeeService) Update(ctx context.Context, api API, id string, refs ReferenceSet, draft form.Draft) (backend.Record, error) {
	if err := draft.Validate(refs.Fields()); err != nil {
		return nil, err
	}
	return api.Update(ctx, EmployeeSlug, id, draft.Record())
}

func (s *employeeService) Delete(ctx context.Context, api API, id string) error {
	return api.Delete(ctx, EmployeeSlug, id)
}
