package entity

import (
	"bytes"
	_ "embed"
	"io"
	"os"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"

	"console/pkg/casing"
)

//go:embed entities.yaml
var defaultDocument []byte

// ErrInvalidRegistry wraps every validation failure found while loading a registry document.
var ErrInvalidRegistry = errors.New("invalid entity registry")

// Permissions is the read side of a permission set as seen by the registry.
type Permissions interface {
	IsEnabled(slug string) bool
}

// Registry is the read-only lookup from entity slug to descriptor.
// It is built once by Load and has no mutators.
type Registry struct {
	ordered []Descriptor
	byKey   map[string]int
}

type document struct {
	Entities []Descriptor `yaml:"entities"`
}

// Default loads the registry embedded in the binary.
func Default() (*Registry, error) {
	return Load(bytes.NewReader(defaultDocument))
}

// LoadFile loads a registry document from disk, falling back to the embedded one when path is empty.
func LoadFile(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open entity registry")
	}
	defer f.Close()
	return Load(f)
}

// Load parses and validates a registry document.
func Load(r io.Reader) (*Registry, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode entity registry")
	}

	reg := &Registry{
		ordered: make([]Descriptor, 0, len(doc.Entities)),
		byKey:   make(map[string]int, len(doc.Entities)),
	}
	for i, d := range doc.Entities {
		for j := range d.Fields {
			if d.Fields[j].Type == "" {
				d.Fields[j].Type = FieldText
			}
		}
		if err := validate(d); err != nil {
			return nil, errors.Wrapf(err, "entity #%d (%q)", i, d.Slug)
		}
		d.Key = casing.ToCamel(d.Slug)
		if _, dup := reg.byKey[d.Key]; dup {
			return nil, errors.Wrapf(ErrInvalidRegistry, "duplicate slug %q", d.Slug)
		}
		reg.byKey[d.Key] = len(reg.ordered)
		reg.ordered = append(reg.ordered, d)
	}
	return reg, nil
}

func validate(d Descriptor) error {
	if !casing.IsKebab(d.Slug) {
		return errors.Wrap(ErrInvalidRegistry, "slug must be lower-case and hyphen-separated")
	}
	if casing.ToKebab(casing.ToCamel(d.Slug)) != d.Slug {
		return errors.Wrap(ErrInvalidRegistry, "slug does not survive camel/kebab round trip")
	}
	if d.Title == "" {
		return errors.Wrap(ErrInvalidRegistry, "title is required")
	}
	if len(d.Fields) == 0 {
		return errors.Wrap(ErrInvalidRegistry, "at least one field is required")
	}
	if len(d.ListColumns) == 0 {
		return errors.Wrap(ErrInvalidRegistry, "at least one list column is required")
	}
	seen := make(map[string]bool, len(d.Fields))
	for _, f := range d.Fields {
		if f.Name == "" {
			return errors.Wrap(ErrInvalidRegistry, "field name is required")
		}
		if seen[f.Name] {
			return errors.Wrapf(ErrInvalidRegistry, "duplicate field %q", f.Name)
		}
		seen[f.Name] = true
	}
	for _, c := range d.ListColumns {
		if c.Accessor == "" {
			return errors.Wrap(ErrInvalidRegistry, "column accessor is required")
		}
	}
	return nil
}

// Describe resolves a slug ("job-roles") or key ("jobRoles") to its descriptor.
// The boolean is false for unknown entities.
func (r *Registry) Describe(slugOrKey string) (Descriptor, bool) {
	idx, ok := r.byKey[casing.ToCamel(slugOrKey)]
	if !ok {
		return Descriptor{}, false
	}
	return r.ordered[idx].clone(), true
}

// All returns every descriptor in registry order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(r.ordered))
	for i, d := range r.ordered {
		out[i] = d.clone()
	}
	return out
}

// Len returns the number of registered entity types.
func (r *Registry) Len() int {
	return len(r.ordered)
}

// VisibleEntities returns, in registry order, the descriptors whose slug is enabled in perms.
func VisibleEntities(reg *Registry, perms Permissions) []Descriptor {
	if reg == nil || perms == nil {
		return nil
	}
	out := make([]Descriptor, 0, len(reg.ordered))
	for _, d := range reg.ordered {
		if perms.IsEnabled(d.Slug) {
			out = append(out, d.clone())
		}
	}
	return out
}
