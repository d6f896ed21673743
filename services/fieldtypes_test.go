package services

import (
	"encoding/json"
	"testing"

	"event-lists-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func choiceField() models.RegistrationFormField {
	return models.RegistrationFormField{
		ID:        "f1",
		Title:     "Diet",
		InputType: "single_choice",
		Choices:   datatypes.JSON(`[{"id":"veg","caption":"Vegetarian"},{"id":"any","caption":"Anything"}]`),
	}
}

func TestFieldTypeForKnownTags(t *testing.T) {
	for _, tag := range []string{"text", "number", "checkbox", "single_choice", "file"} {
		_, ok := FieldTypeFor(tag)
		assert.True(t, ok, "tag %q must be registered", tag)
	}
	_, ok := FieldTypeFor("telepathy")
	assert.False(t, ok)
}

func TestRenderFieldValues(t *testing.T) {
	textField := models.RegistrationFormField{Title: "Notes", InputType: "text"}
	assert.Equal(t, "hello", RenderFieldValue(&models.RegistrationData{
		Field: textField, Value: datatypes.JSON(`"hello"`),
	}))

	numberField := models.RegistrationFormField{Title: "Guests", InputType: "number"}
	assert.Equal(t, "2", RenderFieldValue(&models.RegistrationData{
		Field: numberField, Value: datatypes.JSON(`2`),
	}))

	checkboxField := models.RegistrationFormField{Title: "Dinner", InputType: "checkbox"}
	assert.Equal(t, "Yes", RenderFieldValue(&models.RegistrationData{
		Field: checkboxField, Value: datatypes.JSON(`true`),
	}))
	assert.Equal(t, "No", RenderFieldValue(&models.RegistrationData{
		Field: checkboxField, Value: datatypes.JSON(`false`),
	}))

	choice := "veg"
	assert.Equal(t, "Vegetarian", RenderFieldValue(&models.RegistrationData{
		Field: choiceField(), ChoiceValue: &choice,
	}))

	// a stale choice id renders raw instead of failing
	stale := "gone"
	assert.Equal(t, "gone", RenderFieldValue(&models.RegistrationData{
		Field: choiceField(), ChoiceValue: &stale,
	}))

	filename := "cv.pdf"
	fileField := models.RegistrationFormField{Title: "CV", InputType: "file"}
	assert.Equal(t, "cv.pdf", RenderFieldValue(&models.RegistrationData{
		Field: fileField, Filename: &filename,
	}))

	unknownField := models.RegistrationFormField{Title: "X", InputType: "telepathy"}
	assert.Equal(t, "", RenderFieldValue(&models.RegistrationData{Field: unknownField}))
}

func TestChoiceValidation(t *testing.T) {
	caps, ok := FieldTypeFor("single_choice")
	require.True(t, ok)
	field := choiceField()

	assert.NoError(t, caps.Validate(json.RawMessage(`"veg"`), field))
	assert.Error(t, caps.Validate(json.RawMessage(`"unknown"`), field))
	assert.Error(t, caps.Validate(json.RawMessage(`42`), field))

	// empty is fine unless the field is required
	assert.NoError(t, caps.Validate(json.RawMessage(`""`), field))
	field.IsRequired = true
	assert.Error(t, caps.Validate(json.RawMessage(`""`), field))
}

func TestAssembleSchema(t *testing.T) {
	base := BaseRegistrationSchema()
	defs := []models.RegistrationFormField{
		choiceField(),
		{ID: "f2", Title: "Fax", InputType: "fax_number"},
		{ID: "f3", Title: "Notes", InputType: "text"},
	}

	schema := AssembleSchema(base, defs)

	// base fields first, unknown types skipped
	require.Len(t, schema.Fields, len(base)+2)
	assert.Equal(t, "first_name", schema.Fields[0].Name)
	assert.Equal(t, "custom_f1", schema.Fields[len(base)].Name)
	require.Len(t, schema.Fields[len(base)].Choices, 2)
	assert.Equal(t, "Vegetarian", schema.Fields[len(base)].Choices[0].Caption)
	assert.Equal(t, "custom_f3", schema.Fields[len(base)+1].Name)
}

func TestAssembleSchemaDoesNotMutateBase(t *testing.T) {
	base := BaseRegistrationSchema()
	originalLen := len(base)

	AssembleSchema(base, []models.RegistrationFormField{
		{ID: "f1", Title: "Notes", InputType: "text"},
	})
	assert.Len(t, base, originalLen)
}
