package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

type RegistrationState string

const (
	RegistrationStateComplete  RegistrationState = "complete"
	RegistrationStatePending   RegistrationState = "pending"
	RegistrationStateRejected  RegistrationState = "rejected"
	RegistrationStateWithdrawn RegistrationState = "withdrawn"
)

type User struct {
	ID           string    `gorm:"type:text;primary_key;default:uuid_generate_v4()" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         *string   `json:"name,omitempty"`
	PasswordHash *string   `gorm:"column:password_hash" json:"-"`
	Status       *Status   `gorm:"type:status" json:"status,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`

	ListConfigs []ListConfig `gorm:"foreignKey:UserID" json:"list_configs"`
}

type Event struct {
	ID        string    `gorm:"type:text;primary_key;default:uuid_generate_v4()" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsDeleted bool      `gorm:"default:false;index" json:"is_deleted"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Sessions          []Session          `gorm:"foreignKey:EventID" json:"sessions"`
	Tracks            []Track            `gorm:"foreignKey:EventID" json:"tracks"`
	ContributionTypes []ContributionType `gorm:"foreignKey:EventID" json:"contribution_types"`
	Contributions     []Contribution     `gorm:"foreignKey:EventID" json:"contributions"`
	RegistrationForms []RegistrationForm `gorm:"foreignKey:EventID" json:"registration_forms"`
}

type Session struct {
	ID              string `gorm:"type:text;primary_key;default:uuid_generate_v4()" json:"id"`
	EventID         string `gorm:"not null;index" json:"event_id"`
	Title           string `gorm:"not null" json:"title"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`

	Event Event `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"event"`
}

type Track struct {
	ID       string `gorm:"type:text;primary_key;default:uuid_generate_v4()" json:"id"`
	EventID  string `gorm:"not null;index" json:"event_id"`
	Title    string `gorm:"not null" json:"title"`
	Position int    `gorm:"default:0" json:"position"`

	Event Event `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"event"`
}

type ContributionType struct {
	ID      string `gorm:"type:text;primary_key;default:uuid_generate_v4()" json:"id"`
	EventID string `gorm:"not null;index" json:"event_id"`
	Name    string `gorm:"not null" json:"name"`

	Event Event `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"event"`
}

// Contribution is one timetable-schedulable talk/paper of an event.
// FriendlyID is the human-facing sequential number used for stable ordering;
// it is assigned per event and never reused.
type Contribution struct {
	ID           string    `gorm:"type:text;primary_key;default:uuid_generate_v4()" json:"id"`
	EventID      string    `gorm:"not null;index:idx_contribution_event" json:"event_id"`
	FriendlyID   int       `gorm:"not null;index:idx_contribution_friendly" json:"friendly_id"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `json:"description"`
	DurationMins int       `gorm:"default:0" json:"duration_mins"`
	SessionID    *string   `gorm:"index" json:"session_id,omitempty"`
	TrackID      *string   `gorm:"index" json:"track_id,omitempty"`
	TypeID       *string   `gorm:"index" json:"type_id,omitempty"`
	IsDeleted    bool      `gorm:"default:false;index" json:"is_deleted"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Event          Event                    `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"event"`
	Session        *Session                 `gorm:"foreignKey:SessionID" json:"session,omitempty"`
	Track          *Track                   `gorm:"foreignKey:TrackID" json:"track,omitempty"`
	Type           *ContributionType        `gorm:"foreignKey:TypeID" json:"type,omitempty"`
	TimetableEntry *TimetableEntry          `gorm:"foreignKey:ContributionID" json:"timetable_entry,omitempty"`
	PersonLinks    []ContributionPersonLink `gorm:"foreignKey:ContributionID" json:"person_links"`
	Attachments    []ContributionAttachment `gorm:"foreignKey:ContributionID" json:"attachments"`
}

func (c *Contribution) Duration() time.Duration {
	return time.Duration(c.DurationMins) * time.Minute
}

// IsScheduled reports whether the contribution holds a timetable slot.
// Only meaningful when TimetableEntry was eager-loaded.
func (c *Contribution) IsScheduled() bool {
	return c.TimetableEntry != nil
}

type TimetableEntry struct {
	ID             string    `gorm:"type:text;primary_key;default:uuid_generate_v4()" json:"id"`
	EventID        string    `gorm:"not null;index" json:"event_id"`
	ContributionID string    `gorm:"not null;uniqueIndex" json:"contribution_id"`
	StartDT        time.Time `gorm:"column:start_dt" json:"start_dt"`
}

type EventPerson struct {
	ID          string `gorm:"type:text;primary_key;default:uuid_generate_v4()" json:"id"`
	EventID     string `gorm:"not null;index" json:"event_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Affiliation string `json:"affiliation"`
}

func (p *EventPerson) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type ContributionPersonLink struct {
	ID             string `gorm:"type:text;primary_key;default:uuid_generate_v4()" json:"id"`
	ContributionID string `gorm:"not null;index" json:"contribution_id"`
	PersonID       string `gorm:"not null" json:"person_id"`
	IsSpeaker      bool   `gorm:"default:false" json:"is_speaker"`
	IsSubmitter    bool   `gorm:"default:false" json:"is_submitter"`
	AuthorType     string `gorm:"default:'none'" json:"author_type"`

	Person EventPerson `gorm:"foreignKey:PersonID" json:"person"`
}

type ContributionAttachment struct {
	ID             string `gorm:"type:text;primary_key;default:uuid_generate_v4()" json:"id"`
	ContributionID string `gorm:"not null;index" json:"contribution_id"`
	Title          string `json:"title"`
	DownloadURL    string `gorm:"column:download_url" json:"download_url"`
}

type RegistrationForm struct {
	ID        string    `gorm:"type:text;primary_key;default:uuid_generate_v4()" json:"id"`
	EventID   string    `gorm:"not null;index" json:"event_id"`
	Title     string    `gorm:"not null" json:"title"`
	IsDeleted bool      `gorm:"default:false;index" json:"is_deleted"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Event  Event                   `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"event"`
	Fields []RegistrationFormField `gorm:"foreignKey:RegformID" json:"fields"`
}

// RegistrationFormField is a per-event custom field definition. InputType is
// the tag resolved through the field type registry; Choices holds the ordered
// option list for choice-typed fields as [{"id": ..., "caption": ...}].
type RegistrationFormField struct {
	ID         string         `gorm:"type:text;primary_key;default:uuid_generate_v4()" json:"id"`
	RegformID  string         `gorm:"not null;index" json:"regform_id"`
	Title      string         `gorm:"not null" json:"title"`
	InputType  string         `gorm:"not null" json:"input_type"`
	IsRequired bool           `gorm:"default:false" json:"is_required"`
	Position   int            `gorm:"default:0" json:"position"`
	Choices    datatypes.JSON `json:"choices,omitempty"`
}

type Registration struct {
	ID         string            `gorm:"type:text;primary_key;default:uuid_generate_v4()" json:"id"`
	RegformID  string            `gorm:"not null;index" json:"regform_id"`
	FriendlyID int               `gorm:"not null" json:"friendly_id"`
	UserID     *string           `json:"user_id,omitempty"`
	FirstName  string            `json:"first_name"`
	LastName   string            `json:"last_name"`
	Email      string            `json:"email"`
	State      RegistrationState `gorm:"default:'pending';index" json:"state"`
	CheckedIn  bool              `gorm:"default:false" json:"checked_in"`
	IsDeleted  bool              `gorm:"default:false;index" json:"is_deleted"`
	CreatedAt  time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	Regform RegistrationForm   `gorm:"foreignKey:RegformID;constraint:OnDelete:CASCADE" json:"regform"`
	Data    []RegistrationData `gorm:"foreignKey:RegistrationID" json:"data"`
}

func (r *Registration) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// RegistrationData is one submitted value of a registration. Choice-typed
// fields additionally store the selected option id in ChoiceValue so filter
// predicates can hit a plain column; file fields store the uploaded filename
// and its storage id.
type RegistrationData struct {
	ID             string         `gorm:"type:text;primary_key;default:uuid_generate_v4()" json:"id"`
	RegistrationID string         `gorm:"not null;index:idx_regdata_registration" json:"registration_id"`
	FieldID        string         `gorm:"not null;index:idx_regdata_field" json:"field_id"`
	Value          datatypes.JSON `json:"value,omitempty"`
	ChoiceValue    *string        `gorm:"index" json:"choice_value,omitempty"`
	Filename       *string        `json:"filename,omitempty"`
	StorageFileID  *string        `gorm:"column:storage_file_id" json:"storage_file_id,omitempty"`

	Field RegistrationFormField `gorm:"foreignKey:FieldID" json:"field"`
}

func (*User) TableName() string {
	return "User"
}

func (*Event) TableName() string {
	return "Event"
}

func (*Session) TableName() string {
	return "Session"
}

func (*Track) TableName() string {
	return "Track"
}

func (*ContributionType) TableName() string {
	return "ContributionType"
}

func (*Contribution) TableName() string {
	return "Contribution"
}

func (*TimetableEntry) TableName() string {
	return "TimetableEntry"
}

func (*EventPerson) TableName() string {
	return "EventPerson"
}

func (*ContributionPersonLink) TableName() string {
	return "ContributionPersonLink"
}

func (*ContributionAttachment) TableName() string {
	return "ContributionAttachment"
}

func (*RegistrationForm) TableName() string {
	return "RegistrationForm"
}

func (*RegistrationFormField) TableName() string {
	return "RegistrationFormField"
}

func (*Registration) TableName() string {
	return "Registration"
}

func (*RegistrationData) TableName() string {
	return "RegistrationData"
}
