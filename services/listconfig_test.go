package services

import (
	"encoding/json"
	"testing"

	"event-lists-go/middleware"
	"event-lists-go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockListConfigStore struct {
	get        func(userID string, ctx models.ListContext) (*models.ListConfig, error)
	save       func(config *models.ListConfig) error
	insertLink func(link *models.StaticListLink) error
	getLink    func(token string) (*models.StaticListLink, error)
}

func (m *mockListConfigStore) Get(userID string, ctx models.ListContext) (*models.ListConfig, error) {
	return m.get(userID, ctx)
}

func (m *mockListConfigStore) Save(config *models.ListConfig) error {
	return m.save(config)
}

func (m *mockListConfigStore) InsertStaticLink(link *models.StaticListLink) error {
	return m.insertLink(link)
}

func (m *mockListConfigStore) GetStaticLink(token string) (*models.StaticListLink, error) {
	return m.getLink(token)
}

func testContext() models.ListContext {
	return models.ListContext{EventID: "e1", ListType: models.ListTypeContribution}
}

func TestGetConfigDefaultsWhenMissing(t *testing.T) {
	store := &mockListConfigStore{
		get: func(string, models.ListContext) (*models.ListConfig, error) { return nil, nil },
	}
	svc := NewListConfigService(store)
	known := testKnownItems()

	data, err := svc.GetConfig("u1", testContext(), known)
	require.NoError(t, err)
	assert.Empty(t, data.Items)
	assert.Equal(t, known.Columns, data.VisibleColumns)
}

func TestGetConfigDefaultsOnUnreadablePayload(t *testing.T) {
	store := &mockListConfigStore{
		get: func(string, models.ListContext) (*models.ListConfig, error) {
			return &models.ListConfig{ID: "cfg1", Payload: []byte("{broken")}, nil
		},
	}
	svc := NewListConfigService(store)
	known := testKnownItems()

	data, err := svc.GetConfig("u1", testContext(), known)
	require.NoError(t, err)
	assert.Empty(t, data.Items)
	assert.Equal(t, known.Columns, data.VisibleColumns)
}

func TestGetConfigFillsMissingColumns(t *testing.T) {
	payload, _ := json.Marshal(map[string]interface{}{
		"items": map[string][]string{"session": {"s1"}},
	})
	store := &mockListConfigStore{
		get: func(string, models.ListContext) (*models.ListConfig, error) {
			return &models.ListConfig{Payload: payload}, nil
		},
	}
	svc := NewListConfigService(store)
	known := testKnownItems()

	data, err := svc.GetConfig("u1", testContext(), known)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, data.Items["session"])
	assert.Equal(t, known.Columns, data.VisibleColumns)
}

func TestStoreConfigRejectsUnknownKeyWithoutSaving(t *testing.T) {
	saved := false
	store := &mockListConfigStore{
		save: func(*models.ListConfig) error {
			saved = true
			return nil
		},
	}
	svc := NewListConfigService(store)

	err := svc.StoreConfig("u1", testContext(), models.ListConfigDto{
		Items: map[string][]string{"speaker": {"x"}},
	}, testKnownItems())

	require.Error(t, err)
	var customErr *middleware.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, middleware.ValidationError, customErr.Type)
	assert.False(t, saved, "rejected payload must leave the store untouched")
}

func TestStoreConfigDropsEmptySelections(t *testing.T) {
	var savedConfig *models.ListConfig
	store := &mockListConfigStore{
		save: func(config *models.ListConfig) error {
			savedConfig = config
			return nil
		},
	}
	svc := NewListConfigService(store)

	err := svc.StoreConfig("u1", testContext(), models.ListConfigDto{
		Items: map[string][]string{
			"session": {"s1"},
			"track":   {},
		},
		VisibleColumns: []string{"id", "title"},
	}, testKnownItems())
	require.NoError(t, err)
	require.NotNil(t, savedConfig)

	var data models.ListConfigData
	require.NoError(t, json.Unmarshal(savedConfig.Payload, &data))
	assert.Equal(t, []string{"s1"}, data.Items["session"])
	_, hasTrack := data.Items["track"]
	assert.False(t, hasTrack)
	assert.Equal(t, []string{"id", "title"}, data.VisibleColumns)
}

func TestStaticTokenSnapshotsAreIsolated(t *testing.T) {
	links := map[string]*models.StaticListLink{}
	store := &mockListConfigStore{
		insertLink: func(link *models.StaticListLink) error {
			copied := *link
			links[link.Token] = &copied
			return nil
		},
		getLink: func(token string) (*models.StaticListLink, error) {
			return links[token], nil
		},
	}
	svc := NewListConfigService(store)

	first := models.ListConfigData{
		Items:          map[string][]string{"session": {"s1"}},
		VisibleColumns: []string{"id"},
	}
	token1, err := svc.GenerateStaticToken(testContext(), first)
	require.NoError(t, err)

	second := models.ListConfigData{
		Items:          map[string][]string{"track": {"t1"}},
		VisibleColumns: []string{"id", "title"},
	}
	token2, err := svc.GenerateStaticToken(testContext(), second)
	require.NoError(t, err)
	assert.NotEqual(t, token1, token2)

	data, listCtx, err := svc.ResolveStaticToken(token1)
	require.NoError(t, err)
	assert.Equal(t, first.Items, data.Items)
	assert.Equal(t, first.VisibleColumns, data.VisibleColumns)
	assert.Equal(t, testContext(), listCtx)

	data, _, err = svc.ResolveStaticToken(token2)
	require.NoError(t, err)
	assert.Equal(t, second.Items, data.Items)
}

func TestResolveStaticTokenUnknown(t *testing.T) {
	store := &mockListConfigStore{
		getLink: func(string) (*models.StaticListLink, error) { return nil, nil },
	}
	svc := NewListConfigService(store)

	_, _, err := svc.ResolveStaticToken("nope")
	require.Error(t, err)
	var customErr *middleware.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, middleware.NotFoundError, customErr.Type)
}
