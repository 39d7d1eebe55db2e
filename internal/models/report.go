package models

import (
	"strings"
	"time"
)

// ReportTemplateType selects one of the renderable report layouts.
type ReportTemplateType string

const (
	ReportTemplateTranscript  ReportTemplateType = "TRANSCRIPT"
	ReportTemplateCertificate ReportTemplateType = "CERTIFICATE"
	ReportTemplateReceipt     ReportTemplateType = "RECEIPT"
	ReportTemplateAttendance  ReportTemplateType = "ATTENDANCE"
	ReportTemplateGeneric     ReportTemplateType = "GENERIC"
)

// ParseReportTemplateType normalises raw input; unknown values fall back to
// the generic layout rather than failing the request.
func ParseReportTemplateType(raw string) ReportTemplateType {
	switch ReportTemplateType(strings.ToUpper(strings.TrimSpace(raw))) {
	case ReportTemplateTranscript:
		return ReportTemplateTranscript
	case ReportTemplateCertificate:
		return ReportTemplateCertificate
	case ReportTemplateReceipt:
		return ReportTemplateReceipt
	case ReportTemplateAttendance:
		return ReportTemplateAttendance
	default:
		return ReportTemplateGeneric
	}
}

// ReportMetadata is generated once per report and immutable afterwards.
type ReportMetadata struct {
	ReferenceNumber string    `json:"reference_number"`
	GeneratedAt     time.Time `json:"generated_at"`
	QRCodeDataURL   string    `json:"-"`
}

// IssuedReport records a generated report so externally quoted reference
// numbers can be verified later.
type IssuedReport struct {
	ID               string             `db:"id" json:"id"`
	ReferenceNumber  string             `db:"reference_number" json:"reference_number"`
	WorkspaceID      *string            `db:"workspace_id" json:"workspace_id,omitempty"`
	TemplateName     string             `db:"template_name" json:"template_name"`
	TemplateType     ReportTemplateType `db:"template_type" json:"template_type"`
	SubmittedBy      string             `db:"submitted_by" json:"submitted_by"`
	SubmittedByEmail string             `db:"submitted_by_email" json:"submitted_by_email"`
	Filename         string             `db:"filename" json:"filename"`
	SizeBytes        int64              `db:"size_bytes" json:"size_bytes"`
	GeneratedAt      time.Time          `db:"generated_at" json:"generated_at"`
}
