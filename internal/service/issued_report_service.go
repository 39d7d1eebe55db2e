package service

import (
	"context"

	"github.com/noah-isme/workspace-admin-api/internal/models"
	appErrors "github.com/noah-isme/workspace-admin-api/pkg/errors"
)

type issuedReportLister interface {
	ListByWorkspace(ctx context.Context, workspaceID string, limit int) ([]models.IssuedReport, error)
}

// IssuedReportLister exposes the issuance history for a workspace.
type IssuedReportLister struct {
	repo issuedReportLister
}

// NewIssuedReportLister constructs the lister.
func NewIssuedReportLister(repo issuedReportLister) *IssuedReportLister {
	return &IssuedReportLister{repo: repo}
}

// List returns issued reports for the workspace, newest first. The PDF
// payloads are never stored, only issuance metadata.
func (s *IssuedReportLister) List(ctx context.Context, workspaceID string, limit int) ([]models.IssuedReport, error) {
	reports, err := s.repo.ListByWorkspace(ctx, workspaceID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list issued reports")
	}
	return reports, nil
}
