package dto

import "time"

// GenerateReportRequest captures POST /reports/generate payload. ReportData
// is free-form; templateName, submittedBy and submittedByEmail are required
// keys inside it.
type GenerateReportRequest struct {
	ReportData  map[string]interface{} `json:"reportData" validate:"required"`
	Filename    string                 `json:"filename,omitempty"`
	WorkspaceID string                 `json:"workspaceId,omitempty"`
}

// GenerateReportResponse returns the rendered PDF inline, base64 encoded.
type GenerateReportResponse struct {
	Success         bool   `json:"success"`
	ReferenceNumber string `json:"referenceNumber"`
	Filename        string `json:"filename"`
	PDF             string `json:"pdf"`
	Size            int64  `json:"size"`
}

// VerifyReportResponse answers public verification lookups by reference
// number.
type VerifyReportResponse struct {
	Valid           bool       `json:"valid"`
	ReferenceNumber string     `json:"referenceNumber"`
	TemplateName    string     `json:"templateName,omitempty"`
	TemplateType    string     `json:"templateType,omitempty"`
	SubmittedBy     string     `json:"submittedBy,omitempty"`
	GeneratedAt     *time.Time `json:"generatedAt,omitempty"`
}
