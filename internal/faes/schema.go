// Package faes models the versioned, schema-driven inspection form (FAES): its
// schema, finalization rules, file flattening and the printable projection of a
// submission.
package faes

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidSchema reports a schema that cannot drive validation or layout.
var ErrInvalidSchema = errors.New("faes: invalid schema")

// Option is one choice of a select or multiselect field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// UnmarshalJSON accepts both {"value","label"} objects and bare strings.
func (o *Option) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*o = Option{Value: s, Label: s}
		return nil
	}
	type plain Option
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Label == "" {
		p.Label = p.Value
	}
	*o = Option(p)
	return nil
}

// Field is a typed form field. Repeater fields carry their child fields in Fields.
type Field struct {
	ID       string    `json:"id" validate:"required"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type" validate:"required,fieldtype"`
	Required bool      `json:"required"`
	Options  []Option  `json:"options,omitempty"`
	Fields   []Field   `json:"fields,omitempty" validate:"dive"`
	MinItems int       `json:"min_items,omitempty" validate:"gte=0"`
	Unit     string    `json:"unit,omitempty"`
}

// DisplayLabel falls back to the field id when the schema omits a label.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.ID
}

// OptionLabel maps a stored option value to its label.
func (f Field) OptionLabel(value string) string {
	for _, o := range f.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// Section groups fields under a printed title.
type Section struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Fields []Field `json:"fields" validate:"dive"`
}

// Schema is one version of the form definition.
type Schema struct {
	ID       int64     `json:"id"`
	Version  string    `json:"version"`
	Title    string    `json:"title" validate:"required"`
	Sections []Section `json:"sections" validate:"required,min=1,dive"`
}

// UnmarshalJSON tolerates numeric versions.
func (s *Schema) UnmarshalJSON(data []byte) error {
	type plain Schema
	var aux struct {
		plain
		Version json.RawMessage `json:"version"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = Schema(aux.plain)
	if len(aux.Version) > 0 {
		var str string
		if err := json.Unmarshal(aux.Version, &str); err == nil {
			s.Version = str
		} else {
			s.Version = string(aux.Version)
		}
	}
	return nil
}

// Field finds a top-level field by id.
func (s Schema) Field(id string) (Field, bool) {
	for _, sec := range s.Sections {
		for _, f := range sec.Fields {
			if f.ID == id {
				return f, true
			}
		}
	}
	return Field{}, false
}

var schemaValidator = newSchemaValidator()

func newSchemaValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("fieldtype", func(fl validator.FieldLevel) bool {
		return FieldType(fl.Field().String()).Valid()
	})
	return v
}

// Validate checks the schema structure. Repeaters must declare child fields and
// field ids must be unique within their container.
func (s Schema) Validate() error {
	if err := schemaValidator.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	seen := make(map[string]struct{})
	for _, sec := range s.Sections {
		for _, f := range sec.Fields {
			if _, dup := seen[f.ID]; dup {
				return fmt.Errorf("%w: duplicate field %q", ErrInvalidSchema, f.ID)
			}
			seen[f.ID] = struct{}{}
			if err := validateChildren(f); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateChildren(f Field) error {
	if f.Type != FieldRepeater {
		return nil
	}
	if len(f.Fields) == 0 {
		return fmt.Errorf("%w: repeater %q has no fields", ErrInvalidSchema, f.ID)
	}
	seen := make(map[string]struct{}, len(f.Fields))
	for _, child := range f.Fields {
		if child.Type == FieldRepeater {
			return fmt.Errorf("%w: nested repeater %q in %q", ErrInvalidSchema, child.ID, f.ID)
		}
		if _, dup := seen[child.ID]; dup {
			return fmt.Errorf("%w: duplicate field %q in %q", ErrInvalidSchema, child.ID, f.ID)
		}
		seen[child.ID] = struct{}{}
	}
	return nil
}

// ParseSchema decodes and validates a schema document.
func ParseSchema(data []byte) (Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return Schema{}, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}
