package entity

import (
	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"
)

// FieldType is the closed set of input kinds a descriptor field can declare.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldDate     FieldType = "date"
	FieldNumber   FieldType = "number"
	FieldSelect   FieldType = "select"
	FieldPassword FieldType = "password"
	FieldTextarea FieldType = "textarea"
)

var knownFieldTypes = map[FieldType]bool{
	FieldText:     true,
	FieldEmail:    true,
	FieldDate:     true,
	FieldNumber:   true,
	FieldSelect:   true,
	FieldPassword: true,
	FieldTextarea: true,
}

// ErrUnknownFieldType is returned when a registry document names a field type outside the closed set.
var ErrUnknownFieldType = errors.New("unknown field type")

// Valid reports whether t is one of the declared field types.
func (t FieldType) Valid() bool {
	return knownFieldTypes[t]
}

func (t *FieldType) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw == "" {
		*t = FieldText
		return nil
	}
	ft := FieldType(raw)
	if !ft.Valid() {
		return errors.Wrapf(ErrUnknownFieldType, "line %d: %q", value.Line, raw)
	}
	*t = ft
	return nil
}

// FieldSpec describes one form input. Name is the camelCased record attribute key.
type FieldSpec struct {
	Name     string    `yaml:"name"`
	Label    string    `yaml:"label"`
	Type     FieldType `yaml:"type"`
	Required bool      `yaml:"required"`
}

// ColumnSpec describes one list column.
type ColumnSpec struct {
	Accessor string `yaml:"accessor"`
	Header   string `yaml:"header"`
}

// Descriptor is the registry entry for one entity type.
type Descriptor struct {
	Slug        string       `yaml:"slug"`
	Key         string       `yaml:"-"`
	Title       string       `yaml:"title"`
	Fields      []FieldSpec  `yaml:"fields"`
	ListColumns []ColumnSpec `yaml:"listColumns"`
}

func (d Descriptor) clone() Descriptor {
	out := d
	out.Fields = append([]FieldSpec(nil), d.Fields...)
	out.ListColumns = append([]ColumnSpec(nil), d.ListColumns...)
	return out
}
