package services

import (
	"testing"
	"time"

	"event-lists-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduledContribution(mins int) models.Contribution {
	return models.Contribution{
		DurationMins:   mins,
		TimetableEntry: &models.TimetableEntry{StartDT: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)},
	}
}

func TestTotalDurations(t *testing.T) {
	contributions := []models.Contribution{
		scheduledContribution(30),
		scheduledContribution(45),
		scheduledContribution(60),
		{DurationMins: 20},
		{DurationMins: 25},
	}

	total, scheduled := totalDurations(contributions)
	assert.Equal(t, 180*time.Minute, total)
	assert.Equal(t, 135*time.Minute, scheduled)
}

func TestTotalDurationsEmpty(t *testing.T) {
	total, scheduled := totalDurations(nil)
	assert.Equal(t, time.Duration(0), total)
	assert.Equal(t, time.Duration(0), scheduled)
}

func TestBuildContributionRow(t *testing.T) {
	session := models.Session{Title: "Plenary"}
	track := models.Track{Title: "Physics"}
	contribType := models.ContributionType{Name: "Talk"}
	contribution := models.Contribution{
		ID:           "c1",
		FriendlyID:   7,
		Title:        "Opening",
		Description:  "Welcome talk",
		DurationMins: 90,
		Session:      &session,
		Track:        &track,
		Type:         &contribType,
		TimetableEntry: &models.TimetableEntry{
			StartDT: time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC),
		},
		PersonLinks: []models.ContributionPersonLink{
			{IsSpeaker: true, Person: models.EventPerson{FirstName: "Ada", LastName: "Lovelace"}},
			{IsSpeaker: false, Person: models.EventPerson{FirstName: "Grace", LastName: "Hopper"}},
		},
		Attachments: []models.ContributionAttachment{{Title: "Slides"}},
	}

	row := buildContributionRow(&contribution)
	assert.Equal(t, 7, row.FriendlyID)
	assert.Equal(t, "Opening", row.Title)
	assert.Equal(t, "1h 30m", row.Duration)
	assert.True(t, row.Scheduled)
	require.NotNil(t, row.Date)
	assert.Equal(t, "2026-06-01 09:30", *row.Date)
	require.NotNil(t, row.Session)
	assert.Equal(t, "Plenary", *row.Session)
	assert.Equal(t, []string{"Ada Lovelace"}, row.Speakers)
	assert.Equal(t, 1, row.Attachments)
}

func TestBuildContributionRowBareRecord(t *testing.T) {
	contribution := models.Contribution{ID: "c2", FriendlyID: 3, Title: "Draft"}

	row := buildContributionRow(&contribution)
	assert.Nil(t, row.Date)
	assert.Nil(t, row.Session)
	assert.Nil(t, row.Track)
	assert.Nil(t, row.Type)
	assert.False(t, row.Scheduled)
	assert.Empty(t, row.Speakers)
	assert.Equal(t, "0m", row.Duration)
}

func TestFilterStatistics(t *testing.T) {
	got := filterStatistics(3, 10, 180*time.Minute, 135*time.Minute)
	assert.Equal(t, "Showing 3 entries out of 10 (total duration 3h, scheduled 2h 15m)", got)

	got = filterStatistics(1, 1, 45*time.Minute, 0)
	assert.Equal(t, "Showing 1 entry out of 1 (total duration 45m, scheduled 0m)", got)
}
