package services

import (
	"fmt"
	"log"
	"time"

	"event-lists-go/middleware"
	"event-lists-go/models"

	"github.com/elliotchance/orderedmap"
	"gorm.io/gorm"
)

// ContributionStaticColumns is the canonical display/export column order for
// contribution lists.
var ContributionStaticColumns = []string{
	"id", "title", "description", "date", "duration", "type", "session", "track", "presenters", "materials",
}

// scheduledSQL matches contributions holding a timetable slot.
const scheduledSQL = `EXISTS (SELECT 1 FROM "TimetableEntry" tte WHERE tte.contribution_id = "Contribution".id)`

type ContributionListService struct {
	db            *gorm.DB
	configService *ListConfigService
	serverHost    string
}

func NewContributionListService(db *gorm.DB, configService *ListConfigService, serverHost string) *ContributionListService {
	return &ContributionListService{db: db, configService: configService, serverHost: serverHost}
}

// ContributionRow is the display payload for one list entry.
type ContributionRow struct {
	ID           string   `json:"id"`
	FriendlyID   int      `json:"friendly_id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Date         *string  `json:"date,omitempty"`
	DurationMins int      `json:"duration_mins"`
	Duration     string   `json:"duration"`
	Session      *string  `json:"session,omitempty"`
	Track        *string  `json:"track,omitempty"`
	Type         *string  `json:"type,omitempty"`
	Scheduled    bool     `json:"scheduled"`
	Speakers     []string `json:"speakers"`
	Attachments  int      `json:"attachments"`
}

type ContributionListResult struct {
	Contributions     []models.Contribution
	Sessions          []map[string]interface{}
	Tracks            []map[string]interface{}
	TotalEntries      int64
	TotalDuration     time.Duration
	ScheduledDuration time.Duration
}

type ListRenderResult struct {
	Rows             []ContributionRow        `json:"rows"`
	Sessions         []map[string]interface{} `json:"sessions"`
	Tracks           []map[string]interface{} `json:"tracks"`
	TotalMatched     int                      `json:"total_matched"`
	TotalEntries     int64                    `json:"total_entries"`
	FilterStatistics string                   `json:"filter_statistics"`
	HideTarget       *bool                    `json:"hide_target,omitempty"`
}

// Context builds the list context for an event's contribution list.
func (s *ContributionListService) Context(eventID string) models.ListContext {
	return models.ListContext{EventID: eventID, ListType: models.ListTypeContribution}
}

// KnownItems resolves the event's filterable items: session, track and type
// (each with the sentinel "no value" choice first) plus the derived status
// item. Fails with a not-found error when the event is gone.
func (s *ContributionListService) KnownItems(eventID string) (KnownItems, error) {
	var event models.Event
	err := s.db.Where("id = ? AND is_deleted = ?", eventID, false).First(&event).Error
	if err == gorm.ErrRecordNotFound {
		return KnownItems{}, middleware.NewNotFoundError("Event not found", eventID)
	}
	if err != nil {
		return KnownItems{}, middleware.NewInternalServerError("Error loading event", err.Error())
	}

	var sessions []models.Session
	if err := s.db.Where("event_id = ?", eventID).Order("title ASC").Find(&sessions).Error; err != nil {
		return KnownItems{}, middleware.NewInternalServerError("Error loading sessions", err.Error())
	}
	var tracks []models.Track
	if err := s.db.Where("event_id = ?", eventID).Order("position ASC").Find(&tracks).Error; err != nil {
		return KnownItems{}, middleware.NewInternalServerError("Error loading tracks", err.Error())
	}
	var types []models.ContributionType
	if err := s.db.Where("event_id = ?", eventID).Order("name ASC").Find(&types).Error; err != nil {
		return KnownItems{}, middleware.NewInternalServerError("Error loading contribution types", err.Error())
	}

	sessionChoices := orderedmap.NewOrderedMap()
	sessionChoices.Set(models.FilterValueNone, "No session")
	for _, session := range sessions {
		sessionChoices.Set(session.ID, session.Title)
	}
	trackChoices := orderedmap.NewOrderedMap()
	trackChoices.Set(models.FilterValueNone, "No track")
	for _, track := range tracks {
		trackChoices.Set(track.ID, track.Title)
	}
	typeChoices := orderedmap.NewOrderedMap()
	typeChoices.Set(models.FilterValueNone, "No type")
	for _, contribType := range types {
		typeChoices.Set(contribType.ID, contribType.Name)
	}
	statusChoices := orderedmap.NewOrderedMap()
	statusChoices.Set("scheduled", "Scheduled")
	statusChoices.Set("unscheduled", "Not scheduled")

	items := []ListItem{
		{Key: "session", Title: "Session", Column: "session_id", Choices: sessionChoices, HasNoValue: true},
		{Key: "track", Title: "Track", Column: "track_id", Choices: trackChoices, HasNoValue: true},
		{Key: "type", Title: "Type", Column: "type_id", Choices: typeChoices, HasNoValue: true},
		{Key: "status", Title: "Status", Choices: statusChoices},
	}
	return newKnownItems(items, ContributionStaticColumns), nil
}

// buildQuery is the base retrieval query: the event's live contributions in
// friendly-id order with every association the renderer and the exporters
// touch eager-loaded, so no per-row round trips happen downstream.
func (s *ContributionListService) buildQuery(eventID string) *gorm.DB {
	return s.db.Model(&models.Contribution{}).
		Where("event_id = ? AND is_deleted = ?", eventID, false).
		Order("friendly_id ASC").
		Preload("Session").
		Preload("Track").
		Preload("Type").
		Preload("TimetableEntry").
		Preload("PersonLinks.Person").
		Preload("Attachments")
}

func (s *ContributionListService) countScope(eventID string) *gorm.DB {
	return s.db.Model(&models.Contribution{}).
		Where("event_id = ? AND is_deleted = ?", eventID, false)
}

// applyFilters binds the stored selection to the query. The status item is
// derived from timetable slot existence rather than a column, so it is
// handled next to the categorical conditions.
func (s *ContributionListService) applyFilters(query *gorm.DB, items map[string][]string, known KnownItems) *gorm.DB {
	query = applyConditions(query, buildFilterConditions(items, known))
	if scheduled := parseBinarySelection(items["status"], "scheduled", "unscheduled"); scheduled != nil {
		if *scheduled {
			query = query.Where(scheduledSQL)
		} else {
			query = query.Where("NOT " + scheduledSQL)
		}
	}
	return query
}

// GetListKwargs runs the unfiltered count and the filtered retrieval and
// computes the duration aggregates. The two reads may observe different
// database snapshots; the counts are advisory, not transactional.
func (s *ContributionListService) GetListKwargs(eventID string, data models.ListConfigData, known KnownItems) (*ContributionListResult, error) {
	var totalEntries int64
	if err := s.countScope(eventID).Count(&totalEntries).Error; err != nil {
		return nil, middleware.NewInternalServerError("Error counting contributions", err.Error())
	}

	var contributions []models.Contribution
	start := time.Now()
	query := s.applyFilters(s.buildQuery(eventID), data.Items, known)
	if err := query.Find(&contributions).Error; err != nil {
		return nil, middleware.NewInternalServerError("Error loading contributions", err.Error())
	}
	log.Printf("Contribution list: event=%s matched=%d of=%d duration=%v",
		eventID, len(contributions), totalEntries, time.Since(start))

	var sessions []models.Session
	if err := s.db.Where("event_id = ?", eventID).Order("title ASC").Find(&sessions).Error; err != nil {
		return nil, middleware.NewInternalServerError("Error loading sessions", err.Error())
	}
	var tracks []models.Track
	if err := s.db.Where("event_id = ?", eventID).Order("position ASC").Find(&tracks).Error; err != nil {
		return nil, middleware.NewInternalServerError("Error loading tracks", err.Error())
	}

	totalDuration, scheduledDuration := totalDurations(contributions)
	result := &ContributionListResult{
		Contributions:     contributions,
		Sessions:          make([]map[string]interface{}, 0, len(sessions)),
		Tracks:            make([]map[string]interface{}, 0, len(tracks)),
		TotalEntries:      totalEntries,
		TotalDuration:     totalDuration,
		ScheduledDuration: scheduledDuration,
	}
	for _, session := range sessions {
		result.Sessions = append(result.Sessions, map[string]interface{}{
			"id":               session.ID,
			"title":            session.Title,
			"background_color": session.BackgroundColor,
			"text_color":       session.TextColor,
		})
	}
	for _, track := range tracks {
		result.Tracks = append(result.Tracks, map[string]interface{}{
			"id":    track.ID,
			"title": track.Title,
		})
	}
	return result, nil
}

// totalDurations sums the duration of all matched contributions and,
// separately, of the scheduled ones only.
func totalDurations(contributions []models.Contribution) (time.Duration, time.Duration) {
	var total, scheduled time.Duration
	for i := range contributions {
		total += contributions[i].Duration()
		if contributions[i].IsScheduled() {
			scheduled += contributions[i].Duration()
		}
	}
	return total, scheduled
}

// RenderList produces the full display payload. When targetContribID is
// non-empty the result reports whether the current filters hide that entry,
// so a caller editing it can warn the user; a record deleted between query
// and render simply counts as hidden.
func (s *ContributionListService) RenderList(eventID string, data models.ListConfigData, known KnownItems, targetContribID string) (*ListRenderResult, error) {
	kwargs, err := s.GetListKwargs(eventID, data, known)
	if err != nil {
		return nil, err
	}

	rows := make([]ContributionRow, 0, len(kwargs.Contributions))
	for i := range kwargs.Contributions {
		rows = append(rows, buildContributionRow(&kwargs.Contributions[i]))
	}

	result := &ListRenderResult{
		Rows:         rows,
		Sessions:     kwargs.Sessions,
		Tracks:       kwargs.Tracks,
		TotalMatched: len(rows),
		TotalEntries: kwargs.TotalEntries,
		FilterStatistics: filterStatistics(len(rows), kwargs.TotalEntries,
			kwargs.TotalDuration, kwargs.ScheduledDuration),
	}
	if targetContribID != "" {
		hidden := true
		for i := range kwargs.Contributions {
			if kwargs.Contributions[i].ID == targetContribID {
				hidden = false
				break
			}
		}
		result.HideTarget = &hidden
	}
	return result, nil
}

func buildContributionRow(c *models.Contribution) ContributionRow {
	row := ContributionRow{
		ID:           c.ID,
		FriendlyID:   c.FriendlyID,
		Title:        c.Title,
		Description:  c.Description,
		DurationMins: c.DurationMins,
		Duration:     formatHumanDuration(c.Duration()),
		Scheduled:    c.IsScheduled(),
		Speakers:     []string{},
		Attachments:  len(c.Attachments),
	}
	if c.TimetableEntry != nil {
		date := c.TimetableEntry.StartDT.Format("2006-01-02 15:04")
		row.Date = &date
	}
	if c.Session != nil {
		row.Session = &c.Session.Title
	}
	if c.Track != nil {
		row.Track = &c.Track.Title
	}
	if c.Type != nil {
		row.Type = &c.Type.Name
	}
	for i := range c.PersonLinks {
		if c.PersonLinks[i].IsSpeaker {
			row.Speakers = append(row.Speakers, c.PersonLinks[i].Person.FullName())
		}
	}
	return row
}

func filterStatistics(shown int, total int64, totalDuration, scheduledDuration time.Duration) string {
	return fmt.Sprintf("%s (total duration %s, scheduled %s)",
		summaryText(shown, total),
		formatHumanDuration(totalDuration),
		formatHumanDuration(scheduledDuration))
}

// GenerateStaticURL snapshots the user's live configuration and returns a
// shareable URL carrying the snapshot token.
func (s *ContributionListService) GenerateStaticURL(userID, eventID string, known KnownItems) (string, error) {
	ctx := s.Context(eventID)
	data, err := s.configService.GetConfig(userID, ctx, known)
	if err != nil {
		return "", err
	}
	token, err := s.configService.GenerateStaticToken(ctx, data)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/v1/events/%s/contributions?config=%s", s.serverHost, eventID, token), nil
}

// FilteredContributions returns the raw filtered records for the exporters.
func (s *ContributionListService) FilteredContributions(eventID string, data models.ListConfigData, known KnownItems) ([]models.Contribution, error) {
	var contributions []models.Contribution
	query := s.applyFilters(s.buildQuery(eventID), data.Items, known)
	if err := query.Find(&contributions).Error; err != nil {
		return nil, middleware.NewInternalServerError("Error loading contributions", err.Error())
	}
	return contributions, nil
}
