package services

import (
	"encoding/json"
	"log"

	"event-lists-go/middleware"
	"event-lists-go/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListConfigStore persists per-user list configurations and the immutable
// static link snapshots.
type ListConfigStore interface {
	Get(userID string, ctx models.ListContext) (*models.ListConfig, error)
	Save(config *models.ListConfig) error
	InsertStaticLink(link *models.StaticListLink) error
	GetStaticLink(token string) (*models.StaticListLink, error)
}

type GormListConfigStore struct {
	db *gorm.DB
}

func NewGormListConfigStore(db *gorm.DB) *GormListConfigStore {
	return &GormListConfigStore{db: db}
}

func (s *GormListConfigStore) Get(userID string, ctx models.ListContext) (*models.ListConfig, error) {
	var config models.ListConfig
	err := s.db.Where("user_id = ? AND event_id = ? AND list_type = ? AND regform_id = ?",
		userID, ctx.EventID, ctx.ListType, ctx.RegformID).First(&config).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (s *GormListConfigStore) Save(config *models.ListConfig) error {
	existing := models.ListConfig{
		UserID:    config.UserID,
		EventID:   config.EventID,
		ListType:  config.ListType,
		RegformID: config.RegformID,
	}
	return s.db.Where("user_id = ? AND event_id = ? AND list_type = ? AND regform_id = ?",
		config.UserID, config.EventID, config.ListType, config.RegformID).
		Assign(models.ListConfig{Payload: config.Payload}).
		FirstOrCreate(&existing).Error
}

func (s *GormListConfigStore) InsertStaticLink(link *models.StaticListLink) error {
	return s.db.Create(link).Error
}

func (s *GormListConfigStore) GetStaticLink(token string) (*models.StaticListLink, error) {
	var link models.StaticListLink
	err := s.db.Where("token = ?", token).First(&link).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// ListConfigService owns stored filter/column configurations: reading with
// defaults, validated writes, and static link snapshots.
type ListConfigService struct {
	store ListConfigStore
}

func NewListConfigService(store ListConfigStore) *ListConfigService {
	return &ListConfigService{store: store}
}

func defaultConfig(known KnownItems) models.ListConfigData {
	return models.ListConfigData{
		Items:          map[string][]string{},
		VisibleColumns: append([]string(nil), known.Columns...),
	}
}

// ApplyConfigDefaults fills the gaps of a decoded payload: a missing column
// selection means "all known columns", so rows stored before a column was
// introduced keep rendering.
func ApplyConfigDefaults(data models.ListConfigData, known KnownItems) models.ListConfigData {
	if data.Items == nil {
		data.Items = map[string][]string{}
	}
	if data.VisibleColumns == nil {
		data.VisibleColumns = append([]string(nil), known.Columns...)
	}
	return data
}

// GetConfig returns the user's stored configuration for the context, or a
// fresh default when nothing was stored yet. Missing data is never an error.
func (s *ListConfigService) GetConfig(userID string, ctx models.ListContext, known KnownItems) (models.ListConfigData, error) {
	row, err := s.store.Get(userID, ctx)
	if err != nil {
		return models.ListConfigData{}, middleware.NewInternalServerError("Error loading list configuration", err.Error())
	}
	if row == nil {
		return defaultConfig(known), nil
	}
	var data models.ListConfigData
	if err := json.Unmarshal(row.Payload, &data); err != nil {
		log.Printf("Discarding unreadable list config %s: %v", row.ID, err)
		return defaultConfig(known), nil
	}
	return ApplyConfigDefaults(data, known), nil
}

// StoreConfig validates the payload against the context's known items and
// persists it. A rejected payload leaves the stored configuration untouched.
func (s *ListConfigService) StoreConfig(userID string, ctx models.ListContext, dto models.ListConfigDto, known KnownItems) error {
	if err := validateConfigAgainstItems(dto, known); err != nil {
		return middleware.NewValidationError("Invalid list configuration", err.Error())
	}

	data := models.ListConfigData{
		Items:          map[string][]string{},
		VisibleColumns: dto.VisibleColumns,
	}
	for key, values := range dto.Items {
		if len(values) == 0 {
			continue
		}
		data.Items[key] = values
	}
	if data.VisibleColumns == nil {
		data.VisibleColumns = append([]string(nil), known.Columns...)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return middleware.NewInternalServerError("Error encoding list configuration", err.Error())
	}

	config := models.ListConfig{
		UserID:    userID,
		EventID:   ctx.EventID,
		ListType:  ctx.ListType,
		RegformID: ctx.RegformID,
		Payload:   payload,
	}
	if err := s.store.Save(&config); err != nil {
		return middleware.NewInternalServerError("Error storing list configuration", err.Error())
	}
	return nil
}

// GenerateStaticToken snapshots the given configuration into an insert-only
// record and returns its opaque token. Each call mints a fresh token, so
// concurrent calls never touch each other's snapshots and a later change to
// the live configuration cannot leak into an already shared link.
func (s *ListConfigService) GenerateStaticToken(ctx models.ListContext, data models.ListConfigData) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", middleware.NewInternalServerError("Error encoding list configuration", err.Error())
	}
	link := models.StaticListLink{
		Token:     uuid.New().String(),
		EventID:   ctx.EventID,
		ListType:  ctx.ListType,
		RegformID: ctx.RegformID,
		Payload:   payload,
	}
	if err := s.store.InsertStaticLink(&link); err != nil {
		return "", middleware.NewInternalServerError("Error storing static list link", err.Error())
	}
	return link.Token, nil
}

// ResolveStaticToken loads a snapshot. The caller applies context defaults
// via ApplyConfigDefaults once it has resolved the known items.
func (s *ListConfigService) ResolveStaticToken(token string) (models.ListConfigData, models.ListContext, error) {
	link, err := s.store.GetStaticLink(token)
	if err != nil {
		return models.ListConfigData{}, models.ListContext{}, middleware.NewInternalServerError("Error loading static list link", err.Error())
	}
	if link == nil {
		return models.ListConfigData{}, models.ListContext{}, middleware.NewNotFoundError("Unknown static list link", token)
	}
	var data models.ListConfigData
	if err := json.Unmarshal(link.Payload, &data); err != nil {
		return models.ListConfigData{}, models.ListContext{}, middleware.NewInternalServerError("Error decoding static list link", err.Error())
	}
	ctx := models.ListContext{
		EventID:   link.EventID,
		ListType:  link.ListType,
		RegformID: link.RegformID,
	}
	return data, ctx, nil
}
