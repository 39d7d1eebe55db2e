package models

import "time"

// WorkspaceType categorises tenant organizations.
type WorkspaceType string

const (
	WorkspaceTypeEducation  WorkspaceType = "EDUCATION"
	WorkspaceTypeCorporate  WorkspaceType = "CORPORATE"
	WorkspaceTypeNonProfit  WorkspaceType = "NON_PROFIT"
	WorkspaceTypeGovernment WorkspaceType = "GOVERNMENT"
)

// Workspace is a tenant organization owning members, units, templates and
// branding.
type Workspace struct {
	ID                string             `db:"id" json:"id"`
	Name              string             `db:"name" json:"name"`
	Slug              string             `db:"slug" json:"slug"`
	Type              WorkspaceType      `db:"type" json:"type"`
	LogoURL           *string            `db:"logo_url" json:"logo_url,omitempty"`
	StampURL          *string            `db:"stamp_url" json:"stamp_url,omitempty"`
	PrimaryColor      *string            `db:"primary_color" json:"primary_color,omitempty"`
	Address           *string            `db:"address" json:"address,omitempty"`
	Motto             *string            `db:"motto" json:"motto,omitempty"`
	DefaultReportType ReportTemplateType `db:"default_report_type" json:"default_report_type"`
	Active            bool               `db:"active" json:"active"`
	CreatedAt         time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `db:"updated_at" json:"updated_at"`
}

// WorkspaceBranding is a read-only snapshot taken at report generation
// time. Later branding edits never retroactively alter issued reports.
type WorkspaceBranding struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	LogoURL      string `json:"logo_url,omitempty"`
	StampURL     string `json:"stamp_url,omitempty"`
	PrimaryColor string `json:"primary_color,omitempty"`
	Address      string `json:"address,omitempty"`
	Motto        string `json:"motto,omitempty"`
}

// Branding snapshots the workspace's current branding fields.
func (w *Workspace) Branding() WorkspaceBranding {
	b := WorkspaceBranding{
		Name: w.Name,
		Type: string(w.Type),
	}
	if w.LogoURL != nil {
		b.LogoURL = *w.LogoURL
	}
	if w.StampURL != nil {
		b.StampURL = *w.StampURL
	}
	if w.PrimaryColor != nil {
		b.PrimaryColor = *w.PrimaryColor
	}
	if w.Address != nil {
		b.Address = *w.Address
	}
	if w.Motto != nil {
		b.Motto = *w.Motto
	}
	return b
}

// WorkspaceFilter captures list criteria for workspaces.
type WorkspaceFilter struct {
	Type      *WorkspaceType
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
