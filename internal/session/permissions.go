package session

import (
	"encoding/json"
	"strings"

	"console/pkg/casing"
)

// PermissionSet is the ordered list of entity slugs enabled for the tenant of a session.
// The zero value is an empty set.
type PermissionSet struct {
	slugs []string
	index map[string]struct{}
}

// NewPermissionSet normalises slugs to hyphen-case, drops blanks and keeps first occurrences in order.
func NewPermissionSet(slugs []string) PermissionSet {
	ps := PermissionSet{
		slugs: make([]string, 0, len(slugs)),
		index: make(map[string]struct{}, len(slugs)),
	}
	for _, s := range slugs {
		s = casing.ToKebab(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := ps.index[s]; dup {
			continue
		}
		ps.index[s] = struct{}{}
		ps.slugs = append(ps.slugs, s)
	}
	return ps
}

// IsEnabled reports whether slug (hyphen or camel case) is in the set.
func (p PermissionSet) IsEnabled(slug string) bool {
	_, ok := p.index[casing.ToKebab(slug)]
	return ok
}

// List returns the slugs in the order the backend supplied them.
func (p PermissionSet) List() []string {
	return append([]string(nil), p.slugs...)
}

func (p PermissionSet) Len() int {
	return len(p.slugs)
}

func (p PermissionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.List())
}

func (p *PermissionSet) UnmarshalJSON(data []byte) error {
	var slugs []string
	if err := json.Unmarshal(data, &slugs); err != nil {
		return err
	}
	*p = NewPermissionSet(slugs)
	return nil
}
