package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// MemberRole scopes a user's role within one workspace.
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "OWNER"
	MemberRoleAdmin  MemberRole = "ADMIN"
	MemberRoleMember MemberRole = "MEMBER"
)

// Member is a user's profile within one workspace. PublicSlug is the only
// identifier exposed on unauthenticated profile endpoints.
type Member struct {
	ID          string      `db:"id" json:"id"`
	WorkspaceID string      `db:"workspace_id" json:"workspace_id"`
	UserID      *string     `db:"user_id" json:"user_id,omitempty"`
	FullName    string      `db:"full_name" json:"full_name"`
	Email       string      `db:"email" json:"email"`
	Phone       *string     `db:"phone" json:"phone,omitempty"`
	UnitID      *string     `db:"unit_id" json:"unit_id,omitempty"`
	Role        MemberRole  `db:"role" json:"role"`
	PublicSlug  string      `db:"public_slug" json:"public_slug"`
	Profile     ProfileData `db:"profile" json:"profile"`
	Active      bool        `db:"active" json:"active"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// ProfileData stores free-form member profile fields persisted as JSONB.
type ProfileData map[string]interface{}

// Value marshals the profile to JSON for persistence.
func (p ProfileData) Value() (driver.Value, error) {
	if p == nil {
		p = ProfileData{}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal member profile: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the profile map.
func (p *ProfileData) Scan(value interface{}) error {
	if value == nil {
		*p = ProfileData{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for ProfileData", value)
	}
	if len(data) == 0 {
		*p = ProfileData{}
		return nil
	}
	return json.Unmarshal(data, p)
}

// MemberFilter captures list criteria for workspace members.
type MemberFilter struct {
	WorkspaceID string
	UnitID      string
	Role        *MemberRole
	Active      *bool
	Search      string
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
