// Package form turns entity field declarations into editable drafts and input view models.
package form

import (
	"net/url"
	"strings"

	"console/internal/backend"
	"console/internal/entity"
	"console/pkg/casing"
)

// Widget is how a field type renders.
type Widget struct {
	Element   string // input, select or textarea
	InputType string // type attribute for Element == "input"
}

var widgets = map[entity.FieldType]Widget{
	entity.FieldText:     {Element: "input", InputType: "text"},
	entity.FieldEmail:    {Element: "input", InputType: "email"},
	entity.FieldDate:     {Element: "input", InputType: "date"},
	entity.FieldNumber:   {Element: "input", InputType: "number"},
	entity.FieldPassword: {Element: "input", InputType: "password"},
	entity.FieldSelect:   {Element: "select"},
	entity.FieldTextarea: {Element: "textarea"},
}

// WidgetFor returns the widget of t, falling back to a text input.
func WidgetFor(t entity.FieldType) Widget {
	if w, ok := widgets[t]; ok {
		return w
	}
	return widgets[entity.FieldText]
}

// Draft holds one string value per declared field and nothing else.
type Draft struct {
	names  []string
	values map[string]string
}

// New builds a draft for fields, pre-filled from initial. Absent or non-scalar
// attributes start as "".
func New(fields []entity.FieldSpec, initial backend.Record) Draft {
	d := empty(fields)
	for _, f := range fields {
		d.values[f.Name] = initial.String(f.Name)
	}
	return d
}

// FromValues builds a draft from a submitted form. Keys that are not declared fields are ignored.
func FromValues(fields []entity.FieldSpec, values url.Values) Draft {
	d := empty(fields)
	for _, f := range fields {
		d.values[f.Name] = values.Get(f.Name)
	}
	return d
}

func empty(fields []entity.FieldSpec) Draft {
	d := Draft{
		names:  make([]string, 0, len(fields)),
		values: make(map[string]string, len(fields)),
	}
	for _, f := range fields {
		if _, dup := d.values[f.Name]; dup {
			continue
		}
		d.names = append(d.names, f.Name)
		d.values[f.Name] = ""
	}
	return d
}

func (d Draft) Value(name string) string {
	return d.values[name]
}

// Set changes a declared field. It reports false for names outside the draft.
func (d Draft) Set(name, value string) bool {
	if _, ok := d.values[name]; !ok {
		return false
	}
	d.values[name] = value
	return true
}

// Names returns the field names in declaration order.
func (d Draft) Names() []string {
	return append([]string(nil), d.names...)
}

func (d Draft) Len() int {
	return len(d.names)
}

// Record converts the draft into the payload sent to the backend. Every field is
// present, including ones the user left unchanged.
func (d Draft) Record() backend.Record {
	rec := make(backend.Record, len(d.names))
	for _, n := range d.names {
		rec[n] = d.values[n]
	}
	return rec
}

// Missing lists required fields whose value is blank.
func (d Draft) Missing(fields []entity.FieldSpec) []string {
	var missing []string
	for _, f := range fields {
		if f.Required && strings.TrimSpace(d.values[f.Name]) == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// Validate returns a *ValidationError when a required field is blank.
func (d Draft) Validate(fields []entity.FieldSpec) error {
	if missing := d.Missing(fields); len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// ValidationError names the required fields left blank.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// Option is one choice of a select input.
type Option struct {
	Value string
	Label string
}

// Input is the view model of one rendered field.
type Input struct {
	Name        string
	Label       string
	Value       string
	Element     string
	Type        string
	Required    bool
	Placeholder string
	Options     []Option
}

// BuildOptions supplies select choices and placeholders keyed by field name.
type BuildOptions struct {
	Options      map[string][]Option
	Placeholders map[string]string
}

// Build renders fields against d in declaration order.
func Build(fields []entity.FieldSpec, d Draft, opts BuildOptions) []Input {
	inputs := make([]Input, 0, len(fields))
	for _, f := range fields {
		w := WidgetFor(f.Type)
		inputs = append(inputs, Input{
			Name:        f.Name,
			Label:       Label(f),
			Value:       d.Value(f.Name),
			Element:     w.Element,
			Type:        w.InputType,
			Required:    f.Required,
			Placeholder: opts.Placeholders[f.Name],
			Options:     opts.Options[f.Name],
		})
	}
	return inputs
}

// Label returns the declared label, or one derived from the field name ("serialNumber" -> "Serial Number").
func Label(f entity.FieldSpec) string {
	if f.Label != "" {
		return f.Label
	}
	return casing.Title(f.Name)
}

// OptionsFrom turns reference records into select options labelled by labelKey.
func OptionsFrom(records []backend.Record, labelKey string) []Option {
	opts := make([]Option, 0, len(records))
	for _, r := range records {
		label := r.String(labelKey)
		if label == "" {
			label = r.ID()
		}
		opts = append(opts, Option{Value: r.ID(), Label: label})
	}
	return opts
}
