package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// FormTemplate is a configurable form definition owned by a workspace.
type FormTemplate struct {
	ID          string         `db:"id" json:"id"`
	WorkspaceID string         `db:"workspace_id" json:"workspace_id"`
	Name        string         `db:"name" json:"name"`
	PublicSlug  string         `db:"public_slug" json:"public_slug"`
	Description *string        `db:"description" json:"description,omitempty"`
	Fields      TemplateFields `db:"fields" json:"fields"`
	Active      bool           `db:"active" json:"active"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// TemplateField describes one input of a form template.
type TemplateField struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required,omitempty"`
	Options  []string `json:"options,omitempty"`
}

// TemplateFields is the JSONB-persisted field list.
type TemplateFields []TemplateField

// Value marshals the field list to JSON for persistence.
func (f TemplateFields) Value() (driver.Value, error) {
	if f == nil {
		f = TemplateFields{}
	}
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal template fields: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the field list.
func (f *TemplateFields) Scan(value interface{}) error {
	if value == nil {
		*f = TemplateFields{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for TemplateFields", value)
	}
	if len(data) == 0 {
		*f = TemplateFields{}
		return nil
	}
	return json.Unmarshal(data, f)
}

// FormTemplateFilter captures list criteria for templates.
type FormTemplateFilter struct {
	WorkspaceID string
	Active      *bool
	Search      string
	Page        int
	PageSize    int
}
