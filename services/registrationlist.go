package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"event-lists-go/middleware"
	"event-lists-go/models"

	"github.com/elliotchance/orderedmap"
	"gorm.io/gorm"
)

// RegistrationStaticColumns is the canonical display/export column order for
// registration lists. Custom form fields follow after these.
var RegistrationStaticColumns = []string{
	"id", "name", "email", "state", "checked_in", "registration_date",
}

const fieldKeyPrefix = "field_"

type RegistrationListService struct {
	db            *gorm.DB
	configService *ListConfigService
	serverHost    string
}

func NewRegistrationListService(db *gorm.DB, configService *ListConfigService, serverHost string) *RegistrationListService {
	return &RegistrationListService{db: db, configService: configService, serverHost: serverHost}
}

type RegistrationRow struct {
	ID               string            `json:"id"`
	FriendlyID       int               `json:"friendly_id"`
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	State            string            `json:"state"`
	CheckedIn        bool              `json:"checked_in"`
	RegistrationDate string            `json:"registration_date"`
	FieldValues      map[string]string `json:"field_values"`
}

type RegistrationListResult struct {
	Registrations []models.Registration
	Fields        []models.RegistrationFormField
	TotalEntries  int64
}

type RegistrationRenderResult struct {
	Rows             []RegistrationRow `json:"rows"`
	TotalMatched     int               `json:"total_matched"`
	TotalEntries     int64             `json:"total_entries"`
	FilterStatistics string            `json:"filter_statistics"`
	HideTarget       *bool             `json:"hide_target,omitempty"`
}

func (s *RegistrationListService) Context(eventID, regformID string) models.ListContext {
	return models.ListContext{EventID: eventID, ListType: models.ListTypeRegistration, RegformID: regformID}
}

// Regform loads the registration form, scoped to the event and excluding
// soft-deleted forms, with its field definitions attached.
func (s *RegistrationListService) Regform(eventID, regformID string) (*models.RegistrationForm, error) {
	var regform models.RegistrationForm
	err := s.db.Where("id = ? AND event_id = ? AND is_deleted = ?", regformID, eventID, false).
		Preload("Fields", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&regform).Error
	if err == gorm.ErrRecordNotFound {
		return nil, middleware.NewNotFoundError("Registration form not found", regformID)
	}
	if err != nil {
		return nil, middleware.NewInternalServerError("Error loading registration form", err.Error())
	}
	return &regform, nil
}

type fieldChoice struct {
	ID      string `json:"id"`
	Caption string `json:"caption"`
}

func decodeFieldChoices(field models.RegistrationFormField) []fieldChoice {
	var choices []fieldChoice
	if len(field.Choices) == 0 {
		return choices
	}
	if err := json.Unmarshal(field.Choices, &choices); err != nil {
		log.Printf("Unreadable choices on field %s: %v", field.ID, err)
		return nil
	}
	return choices
}

// KnownItems resolves the form's filterable items: the registration state,
// the checked-in flag, and one dynamic item per choice-typed custom field.
func (s *RegistrationListService) KnownItems(regform *models.RegistrationForm) KnownItems {
	stateChoices := orderedmap.NewOrderedMap()
	stateChoices.Set(string(models.RegistrationStateComplete), "Complete")
	stateChoices.Set(string(models.RegistrationStatePending), "Pending")
	stateChoices.Set(string(models.RegistrationStateRejected), "Rejected")
	stateChoices.Set(string(models.RegistrationStateWithdrawn), "Withdrawn")

	checkedInChoices := orderedmap.NewOrderedMap()
	checkedInChoices.Set("yes", "Checked in")
	checkedInChoices.Set("no", "Not checked in")

	items := []ListItem{
		{Key: "state", Title: "State", Column: "state", Choices: stateChoices},
		{Key: "checked_in", Title: "Checked in", Choices: checkedInChoices},
	}

	columns := append([]string(nil), RegistrationStaticColumns...)
	for _, field := range regform.Fields {
		columns = append(columns, fieldKeyPrefix+field.ID)
		if field.InputType != "single_choice" {
			continue
		}
		choices := orderedmap.NewOrderedMap()
		choices.Set(models.FilterValueNone, "No answer")
		for _, choice := range decodeFieldChoices(field) {
			choices.Set(choice.ID, choice.Caption)
		}
		items = append(items, ListItem{
			Key:        fieldKeyPrefix + field.ID,
			Title:      field.Title,
			Choices:    choices,
			HasNoValue: true,
		})
	}
	return newKnownItems(items, columns)
}

func (s *RegistrationListService) buildQuery(regformID string) *gorm.DB {
	return s.db.Model(&models.Registration{}).
		Where("regform_id = ? AND is_deleted = ?", regformID, false).
		Order("friendly_id ASC").
		Preload("Data.Field")
}

func (s *RegistrationListService) countScope(regformID string) *gorm.DB {
	return s.db.Model(&models.Registration{}).
		Where("regform_id = ? AND is_deleted = ?", regformID, false)
}

// applyFilters binds the selection: the state condition hits its column, the
// checked-in item is a derived two-choice filter, and dynamic field items
// match through the submitted registration data.
func (s *RegistrationListService) applyFilters(query *gorm.DB, items map[string][]string, known KnownItems) *gorm.DB {
	query = applyConditions(query, buildFilterConditions(items, known))

	if checkedIn := parseBinarySelection(items["checked_in"], "yes", "no"); checkedIn != nil {
		query = query.Where("checked_in = ?", *checkedIn)
	}

	for _, item := range known.Items {
		if !strings.HasPrefix(item.Key, fieldKeyPrefix) {
			continue
		}
		selected := items[item.Key]
		if len(selected) == 0 {
			continue
		}
		fieldID := strings.TrimPrefix(item.Key, fieldKeyPrefix)
		includeNone := false
		values := make([]string, 0, len(selected))
		for _, value := range selected {
			if value == models.FilterValueNone {
				includeNone = true
				continue
			}
			values = append(values, value)
		}
		const answeredSQL = `EXISTS (SELECT 1 FROM "RegistrationData" rd WHERE rd.registration_id = "Registration".id AND rd.field_id = ? AND rd.choice_value IN ?)`
		const unansweredSQL = `NOT EXISTS (SELECT 1 FROM "RegistrationData" rd WHERE rd.registration_id = "Registration".id AND rd.field_id = ? AND rd.choice_value IS NOT NULL)`
		switch {
		case includeNone && len(values) > 0:
			query = query.Where("("+answeredSQL+" OR "+unansweredSQL+")", fieldID, values, fieldID)
		case includeNone:
			query = query.Where(unansweredSQL, fieldID)
		default:
			query = query.Where(answeredSQL, fieldID, values)
		}
	}
	return query
}

func (s *RegistrationListService) GetListKwargs(regform *models.RegistrationForm, data models.ListConfigData, known KnownItems) (*RegistrationListResult, error) {
	var totalEntries int64
	if err := s.countScope(regform.ID).Count(&totalEntries).Error; err != nil {
		return nil, middleware.NewInternalServerError("Error counting registrations", err.Error())
	}

	var registrations []models.Registration
	start := time.Now()
	query := s.applyFilters(s.buildQuery(regform.ID), data.Items, known)
	if err := query.Find(&registrations).Error; err != nil {
		return nil, middleware.NewInternalServerError("Error loading registrations", err.Error())
	}
	log.Printf("Registration list: regform=%s matched=%d of=%d duration=%v",
		regform.ID, len(registrations), totalEntries, time.Since(start))

	return &RegistrationListResult{
		Registrations: registrations,
		Fields:        regform.Fields,
		TotalEntries:  totalEntries,
	}, nil
}

func (s *RegistrationListService) RenderList(regform *models.RegistrationForm, data models.ListConfigData, known KnownItems, targetRegistrationID string) (*RegistrationRenderResult, error) {
	kwargs, err := s.GetListKwargs(regform, data, known)
	if err != nil {
		return nil, err
	}

	rows := make([]RegistrationRow, 0, len(kwargs.Registrations))
	for i := range kwargs.Registrations {
		rows = append(rows, buildRegistrationRow(&kwargs.Registrations[i]))
	}

	result := &RegistrationRenderResult{
		Rows:             rows,
		TotalMatched:     len(rows),
		TotalEntries:     kwargs.TotalEntries,
		FilterStatistics: summaryText(len(rows), kwargs.TotalEntries),
	}
	if targetRegistrationID != "" {
		hidden := true
		for i := range kwargs.Registrations {
			if kwargs.Registrations[i].ID == targetRegistrationID {
				hidden = false
				break
			}
		}
		result.HideTarget = &hidden
	}
	return result, nil
}

func buildRegistrationRow(r *models.Registration) RegistrationRow {
	row := RegistrationRow{
		ID:               r.ID,
		FriendlyID:       r.FriendlyID,
		Name:             r.FullName(),
		Email:            r.Email,
		State:            string(r.State),
		CheckedIn:        r.CheckedIn,
		RegistrationDate: r.CreatedAt.Format("2006-01-02"),
		FieldValues:      map[string]string{},
	}
	for i := range r.Data {
		datum := &r.Data[i]
		row.FieldValues[datum.FieldID] = RenderFieldValue(datum)
	}
	return row
}

func (s *RegistrationListService) GenerateStaticURL(userID string, regform *models.RegistrationForm, known KnownItems) (string, error) {
	ctx := s.Context(regform.EventID, regform.ID)
	data, err := s.configService.GetConfig(userID, ctx, known)
	if err != nil {
		return "", err
	}
	token, err := s.configService.GenerateStaticToken(ctx, data)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/v1/events/%s/regforms/%s/registrations?config=%s",
		s.serverHost, regform.EventID, regform.ID, token), nil
}

// GetListExportConfig splits the visible columns into static column ids in
// canonical order and custom field ids in form order.
func (s *RegistrationListService) GetListExportConfig(regform *models.RegistrationForm, data models.ListConfigData) ([]string, []string) {
	visible := make(map[string]bool, len(data.VisibleColumns))
	for _, col := range data.VisibleColumns {
		visible[col] = true
	}
	staticColumns := make([]string, 0, len(RegistrationStaticColumns))
	for _, col := range RegistrationStaticColumns {
		if visible[col] {
			staticColumns = append(staticColumns, col)
		}
	}
	fieldIDs := make([]string, 0, len(regform.Fields))
	for _, field := range regform.Fields {
		if visible[fieldKeyPrefix+field.ID] {
			fieldIDs = append(fieldIDs, field.ID)
		}
	}
	return staticColumns, fieldIDs
}

// FilteredRegistrations returns the raw filtered records for the exporters.
func (s *RegistrationListService) FilteredRegistrations(regform *models.RegistrationForm, data models.ListConfigData, known KnownItems) ([]models.Registration, error) {
	var registrations []models.Registration
	query := s.applyFilters(s.buildQuery(regform.ID), data.Items, known)
	if err := query.Find(&registrations).Error; err != nil {
		return nil, middleware.NewInternalServerError("Error loading registrations", err.Error())
	}
	return registrations, nil
}
