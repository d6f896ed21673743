package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"event-lists-go/models"
)

type FieldKind string

const (
	FieldKindStatic FieldKind = "static"
	FieldKindCustom FieldKind = "custom"
)

// Field is a tagged variant over list columns: either one of the canonical
// static columns or a per-event custom form field resolved through the type
// registry.
type Field struct {
	Kind    FieldKind
	Key     string
	FieldID string
	TypeTag string
}

func StaticField(key string) Field {
	return Field{Kind: FieldKindStatic, Key: key}
}

func CustomField(fieldID, typeTag string) Field {
	return Field{Kind: FieldKindCustom, FieldID: fieldID, TypeTag: typeTag}
}

// FieldCapabilities is the behavior a field type contributes: validating a
// submitted raw value, rendering a stored datum for display, and formatting
// it for spreadsheet export.
type FieldCapabilities struct {
	Validate func(raw json.RawMessage, field models.RegistrationFormField) error
	Render   func(datum *models.RegistrationData) string
	Export   func(datum *models.RegistrationData) string
}

func stringValue(datum *models.RegistrationData) string {
	if len(datum.Value) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(datum.Value, &s); err == nil {
		return s
	}
	return strings.Trim(string(datum.Value), `"`)
}

func numberValue(datum *models.RegistrationData) string {
	if len(datum.Value) == 0 {
		return ""
	}
	var n float64
	if err := json.Unmarshal(datum.Value, &n); err != nil {
		return ""
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func checkboxValue(datum *models.RegistrationData) string {
	var b bool
	if err := json.Unmarshal(datum.Value, &b); err != nil || !b {
		return "No"
	}
	return "Yes"
}

func choiceValue(datum *models.RegistrationData) string {
	if datum.ChoiceValue == nil {
		return ""
	}
	for _, choice := range decodeFieldChoices(datum.Field) {
		if choice.ID == *datum.ChoiceValue {
			return choice.Caption
		}
	}
	// stale choice id: fall back to the raw value instead of failing
	return *datum.ChoiceValue
}

func fileValue(datum *models.RegistrationData) string {
	if datum.Filename == nil {
		return ""
	}
	return *datum.Filename
}

var fieldTypeRegistry = map[string]FieldCapabilities{
	"text": {
		Validate: func(raw json.RawMessage, field models.RegistrationFormField) error {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("field '%s' expects a string", field.Title)
			}
			if field.IsRequired && strings.TrimSpace(s) == "" {
				return fmt.Errorf("field '%s' is required", field.Title)
			}
			return nil
		},
		Render: stringValue,
		Export: stringValue,
	},
	"number": {
		Validate: func(raw json.RawMessage, field models.RegistrationFormField) error {
			var n float64
			if err := json.Unmarshal(raw, &n); err != nil {
				return fmt.Errorf("field '%s' expects a number", field.Title)
			}
			return nil
		},
		Render: numberValue,
		Export: numberValue,
	},
	"checkbox": {
		Validate: func(raw json.RawMessage, field models.RegistrationFormField) error {
			var b bool
			if err := json.Unmarshal(raw, &b); err != nil {
				return fmt.Errorf("field '%s' expects a boolean", field.Title)
			}
			return nil
		},
		Render: checkboxValue,
		Export: checkboxValue,
	},
	"single_choice": {
		Validate: func(raw json.RawMessage, field models.RegistrationFormField) error {
			var choice string
			if err := json.Unmarshal(raw, &choice); err != nil {
				return fmt.Errorf("field '%s' expects a choice id", field.Title)
			}
			if choice == "" {
				if field.IsRequired {
					return fmt.Errorf("field '%s' is required", field.Title)
				}
				return nil
			}
			for _, known := range decodeFieldChoices(field) {
				if known.ID == choice {
					return nil
				}
			}
			return fmt.Errorf("field '%s' has no choice '%s'", field.Title, choice)
		},
		Render: choiceValue,
		Export: choiceValue,
	},
	"file": {
		Validate: func(raw json.RawMessage, field models.RegistrationFormField) error {
			return nil
		},
		Render: fileValue,
		Export: fileValue,
	},
}

// FieldTypeFor resolves a type tag to its capability set.
func FieldTypeFor(tag string) (FieldCapabilities, bool) {
	caps, ok := fieldTypeRegistry[tag]
	return caps, ok
}

// RenderFieldValue renders a stored datum through the registry; unknown type
// tags render empty rather than failing.
func RenderFieldValue(datum *models.RegistrationData) string {
	caps, ok := FieldTypeFor(datum.Field.InputType)
	if !ok {
		return ""
	}
	return caps.Render(datum)
}

// ExportFieldValue formats a stored datum for spreadsheet export.
func ExportFieldValue(datum *models.RegistrationData) string {
	caps, ok := FieldTypeFor(datum.Field.InputType)
	if !ok {
		return ""
	}
	return caps.Export(datum)
}

// SchemaField is one assembled form field.
type SchemaField struct {
	Name       string        `json:"name"`
	Title      string        `json:"title"`
	TypeTag    string        `json:"type"`
	IsRequired bool          `json:"is_required"`
	Choices    []fieldChoice `json:"choices,omitempty"`
}

// Schema is an immutable assembled form layout.
type Schema struct {
	Fields []SchemaField `json:"fields"`
}

// AssembleSchema combines a base schema with per-event custom field
// definitions into a new schema value. Custom fields get names of the form
// "custom_<id>"; definitions whose type tag is not registered are skipped,
// matching how a field whose implementation went away simply disappears from
// the form. Neither input is mutated.
func AssembleSchema(base []SchemaField, defs []models.RegistrationFormField) Schema {
	fields := make([]SchemaField, 0, len(base)+len(defs))
	fields = append(fields, base...)
	for _, def := range defs {
		if _, ok := FieldTypeFor(def.InputType); !ok {
			continue
		}
		fields = append(fields, SchemaField{
			Name:       "custom_" + def.ID,
			Title:      def.Title,
			TypeTag:    def.InputType,
			IsRequired: def.IsRequired,
			Choices:    decodeFieldChoices(def),
		})
	}
	return Schema{Fields: fields}
}

// BaseRegistrationSchema is the personal-data section every registration
// form starts with.
func BaseRegistrationSchema() []SchemaField {
	return []SchemaField{
		{Name: "first_name", Title: "First Name", TypeTag: "text", IsRequired: true},
		{Name: "last_name", Title: "Last Name", TypeTag: "text", IsRequired: true},
		{Name: "email", Title: "Email", TypeTag: "text", IsRequired: true},
		{Name: "affiliation", Title: "Affiliation", TypeTag: "text"},
	}
}
