package services

import (
	"testing"
	"time"

	"event-lists-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestGenerateContributionSpreadsheet(t *testing.T) {
	svc := NewSpreadsheetService()
	session := models.Session{Title: "Plenary"}
	contributions := []models.Contribution{
		{
			FriendlyID:   2,
			Title:        "Second",
			DurationMins: 30,
			Session:      &session,
			PersonLinks: []models.ContributionPersonLink{
				{IsSpeaker: true, Person: models.EventPerson{FirstName: "Ada", LastName: "Lovelace"}},
				{IsSpeaker: true, Person: models.EventPerson{FirstName: "Grace", LastName: "Hopper"}},
			},
			Attachments: []models.ContributionAttachment{
				{DownloadURL: "https://files.example.com/a.pdf"},
			},
		},
		{FriendlyID: 1, Title: "First"},
	}

	headers, rows := svc.GenerateContributionSpreadsheet(contributions)
	assert.Equal(t, []string{"Id", "Title", "Description", "Date", "Duration", "Type", "Session", "Track", "Presenters", "Materials"}, headers)
	require.Len(t, rows, 2)

	// sorted by friendly id
	assert.Equal(t, "1", rows[0]["Id"])
	assert.Equal(t, "2", rows[1]["Id"])

	// absent associations render empty under every header
	for _, header := range headers {
		_, ok := rows[0][header]
		assert.True(t, ok, "row must carry header %q", header)
	}
	assert.Equal(t, "", rows[0]["Session"])
	assert.Equal(t, "", rows[0]["Date"])

	assert.Equal(t, "Plenary", rows[1]["Session"])
	assert.Equal(t, "Ada Lovelace, Grace Hopper", rows[1]["Presenters"])
	assert.Equal(t, "https://files.example.com/a.pdf", rows[1]["Materials"])
	assert.Equal(t, "30m", rows[1]["Duration"])
}

func TestGenerateContributionSpreadsheetDoesNotMutateInput(t *testing.T) {
	svc := NewSpreadsheetService()
	contributions := []models.Contribution{
		{FriendlyID: 5, Title: "B"},
		{FriendlyID: 1, Title: "A"},
	}

	svc.GenerateContributionSpreadsheet(contributions)
	assert.Equal(t, 5, contributions[0].FriendlyID)
}

func TestGenerateRegistrationSpreadsheet(t *testing.T) {
	svc := NewSpreadsheetService()
	field := models.RegistrationFormField{
		ID:        "f1",
		Title:     "T-shirt size",
		InputType: "single_choice",
		Choices:   datatypes.JSON(`[{"id":"ch1","caption":"Medium"},{"id":"ch2","caption":"Large"}]`),
	}
	choiceID := "ch2"
	registrations := []models.Registration{
		{
			FriendlyID: 4,
			FirstName:  "Ada",
			LastName:   "Lovelace",
			Email:      "ada@example.com",
			State:      models.RegistrationStateComplete,
			CheckedIn:  true,
			CreatedAt:  time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
			Data: []models.RegistrationData{
				{FieldID: "f1", ChoiceValue: &choiceID, Field: field},
			},
		},
		{
			FriendlyID: 2,
			FirstName:  "Grace",
			LastName:   "Hopper",
			Email:      "grace@example.com",
			State:      models.RegistrationStatePending,
		},
	}

	headers, rows := svc.GenerateRegistrationSpreadsheet(
		registrations,
		[]string{"id", "name", "state", "checked_in", "registration_date"},
		[]string{"f1"},
		map[string]models.RegistrationFormField{"f1": field})

	assert.Equal(t, []string{"Id", "Name", "State", "Checked in", "Registration date", "T-shirt size"}, headers)
	require.Len(t, rows, 2)

	assert.Equal(t, "2", rows[0]["Id"])
	assert.Equal(t, "Grace Hopper", rows[0]["Name"])
	assert.Equal(t, "pending", rows[0]["State"])
	assert.Equal(t, "No", rows[0]["Checked in"])
	assert.Equal(t, "", rows[0]["T-shirt size"])

	assert.Equal(t, "Ada Lovelace", rows[1]["Name"])
	assert.Equal(t, "Yes", rows[1]["Checked in"])
	assert.Equal(t, "2026-03-14", rows[1]["Registration date"])
	assert.Equal(t, "Large", rows[1]["T-shirt size"])
}

func TestFormatHumanDuration(t *testing.T) {
	assert.Equal(t, "0m", formatHumanDuration(0))
	assert.Equal(t, "45m", formatHumanDuration(45*time.Minute))
	assert.Equal(t, "1h", formatHumanDuration(60*time.Minute))
	assert.Equal(t, "1h 30m", formatHumanDuration(90*time.Minute))
	assert.Equal(t, "3h", formatHumanDuration(180*time.Minute))
}
