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

type formTemplateRepository interface {
	Create(ctx context.Context, t *models.FormTemplate) error
	FindByID(ctx context.Context, id string) (*models.FormTemplate, error)
	FindBySlug(ctx context.Context, slug string) (*models.FormTemplate, error)
	List(ctx context.Context, filter models.FormTemplateFilter) ([]models.FormTemplate, int, error)
	Update(ctx context.Context, t *models.FormTemplate) error
	Delete(ctx context.Context, id string) error
}

// FormTemplateService handles form template use-cases.
type FormTemplateService struct {
	repo      formTemplateRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFormTemplateService constructs the form template service.
func NewFormTemplateService(repo formTemplateRepository, validate *validator.Validate, logger *zap.Logger) *FormTemplateService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormTemplateService{repo: repo, validator: validate, logger: logger}
}

// Create registers a form template with a slug derived from its name.
func (s *FormTemplateService) Create(ctx context.Context, workspaceID string, req dto.CreateFormTemplateRequest) (*models.FormTemplate, error) {
	if workspaceID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "workspace id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid template payload")
	}
	if err := validateFieldKeys(req.Fields); err != nil {
		return nil, err
	}
	t := &models.FormTemplate{
		WorkspaceID: workspaceID,
		Name:        req.Name,
		PublicSlug:  slug.ForTemplate(req.Name),
		Description: req.Description,
		Fields:      toTemplateFields(req.Fields),
		Active:      true,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "template slug already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create template")
	}
	return t, nil
}

// Get returns one template by id.
func (s *FormTemplateService) Get(ctx context.Context, id string) (*models.FormTemplate, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template")
	}
	return t, nil
}

// List returns templates with pagination metadata.
func (s *FormTemplateService) List(ctx context.Context, filter models.FormTemplateFilter) ([]models.FormTemplate, *models.Pagination, error) {
	if filter.WorkspaceID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "workspace id is required")
	}
	templates, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list templates")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return templates, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Update applies partial changes to a template. Field edits affect only
// assignments created afterwards; existing assignments keep responding
// against the field set they were assigned with.
func (s *FormTemplateService) Update(ctx context.Context, id string, req dto.UpdateFormTemplateRequest) (*models.FormTemplate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid template payload")
	}
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.Fields != nil {
		if err := validateFieldKeys(req.Fields); err != nil {
			return nil, err
		}
		t.Fields = toTemplateFields(req.Fields)
	}
	if req.Active != nil {
		t.Active = *req.Active
	}
	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update template")
	}
	return t, nil
}

// Delete removes a template.
func (s *FormTemplateService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "template not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete template")
	}
	return nil
}

func validateFieldKeys(fields []dto.TemplateFieldSpec) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Key]; dup {
			return appErrors.Clone(appErrors.ErrValidation, "duplicate field key: "+f.Key)
		}
		seen[f.Key] = struct{}{}
		if f.Type == "select" && len(f.Options) == 0 {
			return appErrors.Clone(appErrors.ErrValidation, "select field needs options: "+f.Key)
		}
	}
	return nil
}

func toTemplateFields(specs []dto.TemplateFieldSpec) models.TemplateFields {
	fields := make(models.TemplateFields, 0, len(specs))
	for _, f := range specs {
		fields = append(fields, models.TemplateField{
			Key:      f.Key,
			Label:    f.Label,
			Type:     f.Type,
			Required: f.Required,
			Options:  f.Options,
		})
	}
	return fields
}
