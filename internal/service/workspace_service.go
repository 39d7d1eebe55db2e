package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/workspace-admin-api/internal/dto"
	"github.com/noah-isme/workspace-admin-api/internal/models"
	"github.com/noah-isme/workspace-admin-api/internal/repository"
	appErrors "github.com/noah-isme/workspace-admin-api/pkg/errors"
	"github.com/noah-isme/workspace-admin-api/pkg/slug"
)

// Slug collisions are rare; a handful of regenerations is plenty.
const slugRetryLimit = 3

type workspaceRepository interface {
	Create(ctx context.Context, ws *models.Workspace) error
	FindByID(ctx context.Context, id string) (*models.Workspace, error)
	FindBySlug(ctx context.Context, slug string) (*models.Workspace, error)
	List(ctx context.Context, filter models.WorkspaceFilter) ([]models.Workspace, int, error)
	Update(ctx context.Context, ws *models.Workspace) error
	Delete(ctx context.Context, id string) error
}

// WorkspaceService handles tenant workspace use-cases.
type WorkspaceService struct {
	repo      workspaceRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWorkspaceService constructs the workspace service.
func NewWorkspaceService(repo workspaceRepository, validate *validator.Validate, logger *zap.Logger) *WorkspaceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkspaceService{repo: repo, validator: validate, logger: logger}
}

// Create registers a new workspace, generating its slug from the name.
// On a slug collision the random suffix is regenerated and the insert
// retried.
func (s *WorkspaceService) Create(ctx context.Context, req dto.CreateWorkspaceRequest) (*models.Workspace, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid workspace payload")
	}
	reportType := models.ReportTemplateGeneric
	if req.DefaultReportType != "" {
		reportType = models.ParseReportTemplateType(req.DefaultReportType)
	}
	ws := &models.Workspace{
		Name:              req.Name,
		Type:              models.WorkspaceType(req.Type),
		LogoURL:           req.LogoURL,
		StampURL:          req.StampURL,
		PrimaryColor:      req.PrimaryColor,
		Address:           req.Address,
		Motto:             req.Motto,
		DefaultReportType: reportType,
		Active:            true,
	}

	for attempt := 0; ; attempt++ {
		ws.Slug = slug.ForWorkspace(req.Name)
		err := s.repo.Create(ctx, ws)
		if err == nil {
			return ws, nil
		}
		if errors.Is(err, repository.ErrUniqueViolation) && attempt < slugRetryLimit {
			s.logger.Warn("workspace slug collision, regenerating",
				zap.String("slug", ws.Slug),
				zap.Int("attempt", attempt+1),
			)
			continue
		}
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "workspace slug conflict")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create workspace")
	}
}

// Get returns one workspace by id.
func (s *WorkspaceService) Get(ctx context.Context, id string) (*models.Workspace, error) {
	ws, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "workspace not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workspace")
	}
	return ws, nil
}

// List returns workspaces with pagination metadata.
func (s *WorkspaceService) List(ctx context.Context, filter models.WorkspaceFilter) ([]models.Workspace, *models.Pagination, error) {
	workspaces, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list workspaces")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return workspaces, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Update applies partial changes to a workspace. The slug never changes
// after creation; branding edits only affect reports generated afterwards.
func (s *WorkspaceService) Update(ctx context.Context, id string, req dto.UpdateWorkspaceRequest) (*models.Workspace, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid workspace payload")
	}
	ws, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		ws.Name = *req.Name
	}
	if req.Type != nil {
		ws.Type = models.WorkspaceType(*req.Type)
	}
	if req.LogoURL != nil {
		ws.LogoURL = req.LogoURL
	}
	if req.StampURL != nil {
		ws.StampURL = req.StampURL
	}
	if req.PrimaryColor != nil {
		ws.PrimaryColor = req.PrimaryColor
	}
	if req.Address != nil {
		ws.Address = req.Address
	}
	if req.Motto != nil {
		ws.Motto = req.Motto
	}
	if req.DefaultReportType != nil {
		ws.DefaultReportType = models.ParseReportTemplateType(*req.DefaultReportType)
	}
	if req.Active != nil {
		ws.Active = *req.Active
	}
	if err := s.repo.Update(ctx, ws); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "workspace not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update workspace")
	}
	return ws, nil
}

// Delete removes a workspace.
func (s *WorkspaceService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "workspace not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete workspace")
	}
	return nil
}
