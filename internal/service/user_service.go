package service

import (
	"context"

	"github.com/go-faster/errors"

	"console/internal/backend"
	"console/internal/entity"
	"console/internal/form"
	"console/internal/session"
)

const (
	UserSlug    = "users"
	DefaultRole = "member"
)

// ErrForbidden is returned when a non-admin tries to create a user.
var ErrForbidden = errors.New("only admins can create users")

// UserFields is the create-user form.
var UserFields = []entity.FieldSpec{
	{Name: "username", Label: "Username (email)", Type: entity.FieldText, Required: true},
	{Name: "password", Label: "Password", Type: entity.FieldPassword, Required: true},
	{Name: "role", Label: "Role", Type: entity.FieldSelect, Required: true},
}

// RoleOptions are the roles an admin can grant.
var RoleOptions = []form.Option{
	{Value: DefaultRole, Label: "Member"},
	{Value: session.RoleAdmin, Label: "Admin"},
}

// NewUserDraft returns an empty create-user draft with the default role.
func NewUserDraft() form.Draft {
	d := form.New(UserFields, nil)
	d.Set("role", DefaultRole)
	return d
}

type UserService interface {
	List(ctx context.Context, api API) ([]backend.Record, error)
	Create(ctx context.Context, api API, actor session.User, draft form.Draft) (backend.Record, error)
}

type userService struct{}

// NewUserService returns a new instance of UserService
func NewUserService() UserService {
	return &userService{}
}

func (s *userService) List(ctx context.Context, api API) ([]backend.Record, error) {
	return api.List(ctx, UserSlug)
}

// Create registers a backend user. The password is forwarded once and never stored by the console.
func (s *userService) Create(ctx context.Context, api API, actor session.User, draft form.Draft) (backend.Record, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if draft.Value("role") == "" {
		draft.Set("role", DefaultRole)
	}
	if err := draft.Validate(UserFields); err != nil {
		return nil, err
	}
	if !validRole(draft.Value("role")) {
		return nil, errors.Errorf("unknown role %q", draft.Value("role"))
	}
	return api.Create(ctx, UserSlug, draft.Record())
}

func validRole(role string) bool {
	for _, o := range RoleOptions {
		if o.Value == role {
			return true
		}
	}
	return false
}
