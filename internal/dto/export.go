package dto

import "github.com/noah-isme/workspace-admin-api/internal/models"

// ExportRequest captures POST /exports payload.
type ExportRequest struct {
	Type        models.ExportType   `json:"type" validate:"required,oneof=members assignments reports"`
	WorkspaceID string              `json:"workspaceId" validate:"required,uuid"`
	UnitID      *string             `json:"unitId,omitempty" validate:"omitempty,uuid"`
	Format      models.ExportFormat `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportJobResponse is returned after enqueueing an export.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ExportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse exposes job progress metadata.
type ExportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ExportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
