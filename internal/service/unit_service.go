package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/workspace-admin-api/internal/dto"
	"github.com/noah-isme/workspace-admin-api/internal/models"
	appErrors "github.com/noah-isme/workspace-admin-api/pkg/errors"
)

type unitRepository interface {
	Create(ctx context.Context, u *models.Unit) error
	FindByID(ctx context.Context, id string) (*models.Unit, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Unit, error)
	Update(ctx context.Context, u *models.Unit) error
	Delete(ctx context.Context, id string) error
}

// UnitService manages the organizational unit hierarchy of a workspace.
type UnitService struct {
	repo      unitRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUnitService constructs the unit service.
func NewUnitService(repo unitRepository, validate *validator.Validate, logger *zap.Logger) *UnitService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnitService{repo: repo, validator: validate, logger: logger}
}

// Create adds a unit, optionally under a parent in the same workspace.
func (s *UnitService) Create(ctx context.Context, workspaceID string, req dto.CreateUnitRequest) (*models.Unit, error) {
	if workspaceID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "workspace id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid unit payload")
	}
	if req.ParentID != nil {
		if err := s.requireSameWorkspace(ctx, *req.ParentID, workspaceID); err != nil {
			return nil, err
		}
	}
	u := &models.Unit{
		WorkspaceID: workspaceID,
		ParentID:    req.ParentID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create unit")
	}
	return u, nil
}

// Get returns one unit by id.
func (s *UnitService) Get(ctx context.Context, id string) (*models.Unit, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "unit not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load unit")
	}
	return u, nil
}

// Tree assembles the unit hierarchy of a workspace. Units whose parent is
// missing are promoted to roots instead of being dropped.
func (s *UnitService) Tree(ctx context.Context, workspaceID string) ([]*dto.UnitTreeNode, error) {
	if workspaceID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "workspace id is required")
	}
	units, err := s.repo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list units")
	}
	nodes := make(map[string]*dto.UnitTreeNode, len(units))
	for _, u := range units {
		nodes[u.ID] = &dto.UnitTreeNode{
			ID:          u.ID,
			Name:        u.Name,
			Description: u.Description,
			Children:    []*dto.UnitTreeNode{},
		}
	}
	roots := make([]*dto.UnitTreeNode, 0)
	for _, u := range units {
		node := nodes[u.ID]
		if u.ParentID != nil {
			if parent, ok := nodes[*u.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots, nil
}

// Update applies partial changes to a unit. Re-parenting onto the unit's
// own subtree is rejected.
func (s *UnitService) Update(ctx context.Context, id string, req dto.UpdateUnitRequest) (*models.Unit, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid unit payload")
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ParentID != nil {
		if *req.ParentID == id {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unit cannot be its own parent")
		}
		if err := s.requireSameWorkspace(ctx, *req.ParentID, u.WorkspaceID); err != nil {
			return nil, err
		}
		if err := s.requireOutsideSubtree(ctx, id, *req.ParentID, u.WorkspaceID); err != nil {
			return nil, err
		}
		u.ParentID = req.ParentID
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Description != nil {
		u.Description = req.Description
	}
	if err := s.repo.Update(ctx, u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "unit not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update unit")
	}
	return u, nil
}

// Delete removes a unit. Children survive and become roots.
func (s *UnitService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "unit not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete unit")
	}
	return nil
}

func (s *UnitService) requireSameWorkspace(ctx context.Context, unitID, workspaceID string) error {
	parent, err := s.repo.FindByID(ctx, unitID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "parent unit not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load parent unit")
	}
	if parent.WorkspaceID != workspaceID {
		return appErrors.Clone(appErrors.ErrValidation, "parent unit belongs to another workspace")
	}
	return nil
}

// requireOutsideSubtree walks from the candidate parent to the root and
// fails if it passes through the unit being re-parented.
func (s *UnitService) requireOutsideSubtree(ctx context.Context, unitID, parentID, workspaceID string) error {
	units, err := s.repo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list units")
	}
	parents := make(map[string]*string, len(units))
	for _, u := range units {
		parents[u.ID] = u.ParentID
	}
	cursor := &parentID
	for cursor != nil {
		if *cursor == unitID {
			return appErrors.Clone(appErrors.ErrValidation, "cannot move unit under its own subtree")
		}
		cursor = parents[*cursor]
	}
	return nil
}
