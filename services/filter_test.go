package services

import (
	"testing"

	"event-lists-go/models"

	"github.com/elliotchance/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKnownItems() KnownItems {
	sessionChoices := orderedmap.NewOrderedMap()
	sessionChoices.Set(models.FilterValueNone, "No session")
	sessionChoices.Set("s1", "Plenary")
	sessionChoices.Set("s2", "Workshops")
	trackChoices := orderedmap.NewOrderedMap()
	trackChoices.Set(models.FilterValueNone, "No track")
	trackChoices.Set("t1", "Physics")
	statusChoices := orderedmap.NewOrderedMap()
	statusChoices.Set("scheduled", "Scheduled")
	statusChoices.Set("unscheduled", "Not scheduled")

	return newKnownItems([]ListItem{
		{Key: "session", Title: "Session", Column: "session_id", Choices: sessionChoices, HasNoValue: true},
		{Key: "track", Title: "Track", Column: "track_id", Choices: trackChoices, HasNoValue: true},
		{Key: "status", Title: "Status", Choices: statusChoices},
	}, []string{"id", "title", "session", "track"})
}

func TestBuildFilterConditionsEmptySelection(t *testing.T) {
	known := testKnownItems()

	assert.Nil(t, buildFilterConditions(nil, known))
	assert.Nil(t, buildFilterConditions(map[string][]string{}, known))
	// a key present with no values imposes no constraint
	assert.Nil(t, buildFilterConditions(map[string][]string{"session": {}}, known))
}

func TestBuildFilterConditionsSentinel(t *testing.T) {
	known := testKnownItems()

	conds := buildFilterConditions(map[string][]string{
		"session": {"s1", models.FilterValueNone},
	}, known)
	require.Len(t, conds, 1)
	assert.Equal(t, "session_id", conds[0].Column)
	assert.True(t, conds[0].IncludeNull)
	assert.Equal(t, []string{"s1"}, conds[0].Values)

	conds = buildFilterConditions(map[string][]string{
		"session": {models.FilterValueNone},
	}, known)
	require.Len(t, conds, 1)
	assert.True(t, conds[0].IncludeNull)
	assert.Empty(t, conds[0].Values)
}

func TestBuildFilterConditionsDeterministicOrder(t *testing.T) {
	known := testKnownItems()

	selection := map[string][]string{
		"track":   {"t1"},
		"session": {"s2"},
	}
	for i := 0; i < 20; i++ {
		conds := buildFilterConditions(selection, known)
		require.Len(t, conds, 2)
		assert.Equal(t, "session_id", conds[0].Column)
		assert.Equal(t, "track_id", conds[1].Column)
	}
}

func TestBuildFilterConditionsSkipsDerivedItems(t *testing.T) {
	known := testKnownItems()

	conds := buildFilterConditions(map[string][]string{
		"status": {"scheduled"},
	}, known)
	assert.Empty(t, conds)
}

func TestParseBinarySelection(t *testing.T) {
	assert.Nil(t, parseBinarySelection(nil, "scheduled", "unscheduled"))
	assert.Nil(t, parseBinarySelection([]string{"scheduled", "unscheduled"}, "scheduled", "unscheduled"))

	got := parseBinarySelection([]string{"scheduled"}, "scheduled", "unscheduled")
	require.NotNil(t, got)
	assert.True(t, *got)

	got = parseBinarySelection([]string{"unscheduled"}, "scheduled", "unscheduled")
	require.NotNil(t, got)
	assert.False(t, *got)
}

func TestValidateConfigAgainstItems(t *testing.T) {
	known := testKnownItems()

	err := validateConfigAgainstItems(models.ListConfigDto{
		Items:          map[string][]string{"session": {"s1"}, "status": {"scheduled"}},
		VisibleColumns: []string{"id", "session"},
	}, known)
	assert.NoError(t, err)

	err = validateConfigAgainstItems(models.ListConfigDto{
		Items: map[string][]string{"speaker": {"x"}},
	}, known)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown filter")

	err = validateConfigAgainstItems(models.ListConfigDto{
		VisibleColumns: []string{"speaker"},
	}, known)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown column")

	// the sentinel is only valid on items offering an empty choice
	err = validateConfigAgainstItems(models.ListConfigDto{
		Items: map[string][]string{"status": {models.FilterValueNone}},
	}, known)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no empty choice")

	// stale values are tolerated: they match zero rows instead of blocking
	err = validateConfigAgainstItems(models.ListConfigDto{
		Items: map[string][]string{"session": {"deleted-session-id"}},
	}, known)
	assert.NoError(t, err)
}

func TestDisplayColumnsKeepsStoredOrder(t *testing.T) {
	known := testKnownItems()

	columns := DisplayColumns(models.ListConfigData{
		VisibleColumns: []string{"track", "id", "ghost", "title"},
	}, known)
	assert.Equal(t, []string{"track", "id", "title"}, columns)

	assert.Empty(t, DisplayColumns(models.ListConfigData{}, known))
}

func TestSummaryText(t *testing.T) {
	assert.Equal(t, "Showing 1 entry out of 10", summaryText(1, 10))
	assert.Equal(t, "Showing 0 entries out of 10", summaryText(0, 10))
	assert.Equal(t, "Showing 7 entries out of 7", summaryText(7, 7))
}

func TestChoiceLabelsPreservesOrder(t *testing.T) {
	known := testKnownItems()

	labels := known.ByKey["session"].ChoiceLabels()
	require.Len(t, labels, 3)
	assert.Equal(t, models.FilterValueNone, labels[0]["value"])
	assert.Equal(t, "No session", labels[0]["label"])
	assert.Equal(t, "Plenary", labels[1]["label"])
	assert.Equal(t, "Workshops", labels[2]["label"])
}
