package models

import (
	"time"

	"gorm.io/datatypes"
)

type ListType string

const (
	ListTypeContribution ListType = "contribution"
	ListTypeRegistration ListType = "registration"
)

// ListContext identifies one filterable list: an event plus a list type, and
// for registration lists the registration form. Immutable per request.
type ListContext struct {
	EventID   string   `json:"event_id"`
	ListType  ListType `json:"list_type"`
	RegformID string   `json:"regform_id,omitempty"`
}

// ListConfigData is the decoded configuration payload: selected filter values
// per filter key plus the visible columns in display order.
type ListConfigData struct {
	Items          map[string][]string `json:"items"`
	VisibleColumns []string            `json:"visibleColumns"`
}

// ListConfig stores one user's saved configuration for a list context.
// Last writer wins; the payload is replaced wholesale on store.
type ListConfig struct {
	ID        string         `gorm:"type:text;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    string         `gorm:"not null;uniqueIndex:idx_listconfig_owner,priority:1" json:"user_id"`
	EventID   string         `gorm:"not null;uniqueIndex:idx_listconfig_owner,priority:2" json:"event_id"`
	ListType  ListType       `gorm:"not null;uniqueIndex:idx_listconfig_owner,priority:3" json:"list_type"`
	RegformID string         `gorm:"default:'';uniqueIndex:idx_listconfig_owner,priority:4" json:"regform_id"`
	Payload   datatypes.JSON `json:"payload"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
}

// StaticListLink is an immutable snapshot of a configuration, addressable by
// an opaque token for shareable URLs. Rows are insert-only.
type StaticListLink struct {
	Token     string         `gorm:"type:text;primary_key" json:"token"`
	EventID   string         `gorm:"not null;index" json:"event_id"`
	ListType  ListType       `gorm:"not null" json:"list_type"`
	RegformID string         `gorm:"default:''" json:"regform_id"`
	Payload   datatypes.JSON `json:"payload"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (*ListConfig) TableName() string {
	return "ListConfig"
}

func (*StaticListLink) TableName() string {
	return "StaticListLink"
}
