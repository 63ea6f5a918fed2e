package model

import (
	"encoding/json"
	"strings"
)

// FieldType discriminates the Field variants.
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldSelect FieldType = "select"
)

// ParseFieldType maps an authored type string to a FieldType. Anything that
// is not "select" renders as a text input.
func ParseFieldType(s string) FieldType {
	if strings.TrimSpace(s) == string(FieldSelect) {
		return FieldSelect
	}
	return FieldText
}

// Field is one input slot on a template. Select carries the select-only
// attributes and is nil for text fields.
type Field struct {
	ID          string
	Label       string
	Type        FieldType
	Required    bool
	Placeholder string
	Select      *SelectOptions
}

// SelectOptions holds the choices of a select field.
type SelectOptions struct {
	Static  []string
	Dynamic DynamicOptions
}

// NewField returns the blank field created by the editor's "add field" action.
func NewField() Field {
	return Field{Type: FieldText}
}

// DisplayLabel returns the label, falling back to the id.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.ID
}

// StaticOptions returns the author-typed choices, nil for text fields.
func (f Field) StaticOptions() []string {
	if f.Select == nil {
		return nil
	}
	return f.Select.Static
}

// DynamicOptions returns the computed-options configuration.
func (f Field) DynamicOptions() DynamicOptions {
	if f.Select == nil {
		return DynamicOptions{}
	}
	return f.Select.Dynamic
}

// WithType switches the variant. Leaving select discards static and dynamic
// options; entering select starts with no options.
func (f Field) WithType(t FieldType) Field {
	f.Type = t
	if t != FieldSelect {
		f.Select = nil
		return f
	}
	if f.Select == nil {
		f.Select = &SelectOptions{}
	}
	return f
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	out := f
	if f.Select != nil {
		sel := SelectOptions{Dynamic: f.Select.Dynamic.clone()}
		if f.Select.Static != nil {
			sel.Static = append([]string(nil), f.Select.Static...)
		}
		out.Select = &sel
	}
	return out
}

type fieldDoc struct {
	ID             string    `json:"id" yaml:"id"`
	Label          string    `json:"label" yaml:"label"`
	Type           FieldType `json:"type" yaml:"type"`
	Required       bool      `json:"required" yaml:"required"`
	Placeholder    string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options        []string  `json:"options,omitempty" yaml:"options,omitempty"`
	OptionsDynamic any       `json:"optionsDynamic,omitempty" yaml:"optionsDynamic,omitempty"`
}

func (f Field) doc() fieldDoc {
	d := fieldDoc{
		ID:          f.ID,
		Label:       f.Label,
		Type:        f.Type,
		Required:    f.Required,
		Placeholder: f.Placeholder,
	}
	if d.Type == "" {
		d.Type = FieldText
	}
	if f.Type == FieldSelect && f.Select != nil {
		d.Options = f.Select.Static
		d.OptionsDynamic = f.Select.Dynamic.export()
	}
	return d
}

// MarshalJSON encodes the field in the stored collection shape.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.doc())
}

// MarshalYAML encodes the field in the stored collection shape.
func (f Field) MarshalYAML() (any, error) {
	return f.doc(), nil
}

// DecodeField builds a Field from a decoded JSON or YAML object. ok is false
// when raw is not an object.
func DecodeField(raw any) (Field, bool) {
	m, ok := asObject(raw)
	if !ok {
		return Field{}, false
	}
	f := Field{
		ID:          asString(m["id"]),
		Label:       asString(m["label"]),
		Type:        ParseFieldType(asString(m["type"])),
		Required:    asBool(m["required"]),
		Placeholder: asString(m["placeholder"]),
	}
	if f.Type == FieldSelect {
		f.Select = &SelectOptions{
			Static:  asStrings(m["options"]),
			Dynamic: DecodeDynamicOptions(m["optionsDynamic"]),
		}
	}
	return f, true
}
