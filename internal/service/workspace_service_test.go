package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/workspace-admin-api/internal/dto"
	"github.com/noah-isme/workspace-admin-api/internal/models"
	"github.com/noah-isme/workspace-admin-api/internal/repository"
	appErrors "github.com/noah-isme/workspace-admin-api/pkg/errors"
)

type stubWorkspaceRepo struct {
	createErrs []error
	slugs      []string
	byID       *models.Workspace
	findErr    error
}

func (s *stubWorkspaceRepo) Create(ctx context.Context, ws *models.Workspace) error {
	s.slugs = append(s.slugs, ws.Slug)
	if len(s.createErrs) == 0 {
		return nil
	}
	err := s.createErrs[0]
	s.createErrs = s.createErrs[1:]
	return err
}

func (s *stubWorkspaceRepo) FindByID(ctx context.Context, id string) (*models.Workspace, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.byID, nil
}

func (s *stubWorkspaceRepo) FindBySlug(ctx context.Context, slug string) (*models.Workspace, error) {
	return s.byID, nil
}

func (s *stubWorkspaceRepo) List(ctx context.Context, filter models.WorkspaceFilter) ([]models.Workspace, int, error) {
	return nil, 0, nil
}

func (s *stubWorkspaceRepo) Update(ctx context.Context, ws *models.Workspace) error { return nil }
func (s *stubWorkspaceRepo) Delete(ctx context.Context, id string) error            { return nil }

func TestWorkspaceServiceCreateGeneratesSlug(t *testing.T) {
	repo := &stubWorkspaceRepo{}
	svc := NewWorkspaceService(repo, nil, nil)

	ws, err := svc.Create(context.Background(), dto.CreateWorkspaceRequest{
		Name: "Acme Corp",
		Type: "CORPORATE",
	})
	require.NoError(t, err)
	require.Contains(t, ws.Slug, "acme-corp-")
	require.Equal(t, models.ReportTemplateGeneric, ws.DefaultReportType)
	require.True(t, ws.Active)
}

func TestWorkspaceServiceCreateRetriesSlugCollision(t *testing.T) {
	repo := &stubWorkspaceRepo{createErrs: []error{repository.ErrUniqueViolation, nil}}
	svc := NewWorkspaceService(repo, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateWorkspaceRequest{
		Name: "Acme Corp",
		Type: "CORPORATE",
	})
	require.NoError(t, err)
	require.Len(t, repo.slugs, 2)
	// Each attempt regenerates the random suffix.
	require.NotEqual(t, repo.slugs[0], repo.slugs[1])
}

func TestWorkspaceServiceCreateExhaustsRetries(t *testing.T) {
	repo := &stubWorkspaceRepo{createErrs: []error{
		repository.ErrUniqueViolation,
		repository.ErrUniqueViolation,
		repository.ErrUniqueViolation,
		repository.ErrUniqueViolation,
	}}
	svc := NewWorkspaceService(repo, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateWorkspaceRequest{
		Name: "Acme Corp",
		Type: "CORPORATE",
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestWorkspaceServiceCreateRejectsInvalidType(t *testing.T) {
	svc := NewWorkspaceService(&stubWorkspaceRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateWorkspaceRequest{
		Name: "Acme Corp",
		Type: "STARTUP",
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestWorkspaceServiceUpdateParsesReportType(t *testing.T) {
	repo := &stubWorkspaceRepo{byID: &models.Workspace{
		ID:                "ws-1",
		Name:              "Acme Corp",
		Type:              models.WorkspaceTypeCorporate,
		DefaultReportType: models.ReportTemplateGeneric,
	}}
	svc := NewWorkspaceService(repo, nil, nil)

	reportType := "certificate"
	ws, err := svc.Update(context.Background(), "ws-1", dto.UpdateWorkspaceRequest{DefaultReportType: &reportType})
	require.NoError(t, err)
	require.Equal(t, models.ReportTemplateCertificate, ws.DefaultReportType)
}
