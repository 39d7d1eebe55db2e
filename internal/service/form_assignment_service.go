package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/workspace-admin-api/internal/dto"
	"github.com/noah-isme/workspace-admin-api/internal/models"
	"github.com/noah-isme/workspace-admin-api/internal/repository"
	appErrors "github.com/noah-isme/workspace-admin-api/pkg/errors"
	"github.com/noah-isme/workspace-admin-api/pkg/slug"
)

type formAssignmentRepository interface {
	Create(ctx context.Context, a *models.FormAssignment) error
	FindByID(ctx context.Context, id string) (*models.FormAssignment, error)
	FindBySlug(ctx context.Context, slug string) (*models.FormAssignment, error)
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.FormAssignment, int, error)
	UpdateStatus(ctx context.Context, a *models.FormAssignment) error
	AppendSubmission(ctx context.Context, rec *models.SubmissionRecord) error
	ListSubmissions(ctx context.Context, assignmentID string) ([]models.SubmissionRecord, error)
}

// FormAssignmentService drives the assignment lifecycle:
// PENDING → IN_PROGRESS → SUBMITTED → APPROVED | REJECTED.
type FormAssignmentService struct {
	repo      formAssignmentRepository
	templates formTemplateRepository
	members   memberRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFormAssignmentService constructs the assignment service.
func NewFormAssignmentService(repo formAssignmentRepository, templates formTemplateRepository, members memberRepository, validate *validator.Validate, logger *zap.Logger) *FormAssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormAssignmentService{
		repo:      repo,
		templates: templates,
		members:   members,
		validator: validate,
		logger:    logger,
	}
}

// Create assigns an active template to a member of the same workspace and
// derives the public slug from template and member names.
func (s *FormAssignmentService) Create(ctx context.Context, workspaceID string, req dto.CreateAssignmentRequest) (*models.FormAssignment, error) {
	if workspaceID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "workspace id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	tpl, err := s.templates.FindByID(ctx, req.TemplateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "template not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template")
	}
	if tpl.WorkspaceID != workspaceID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "template belongs to another workspace")
	}
	if !tpl.Active {
		return nil, appErrors.Clone(appErrors.ErrInactiveResource, "template is inactive")
	}
	member, err := s.members.FindByID(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load member")
	}
	if member.WorkspaceID != workspaceID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "member belongs to another workspace")
	}

	a := &models.FormAssignment{
		WorkspaceID:   workspaceID,
		TemplateID:    tpl.ID,
		MemberID:      member.ID,
		PublicSlug:    slug.ForAssignment(member.FullName, tpl.Name),
		Status:        models.AssignmentStatusPending,
		AllowMultiple: req.AllowMultiple,
		Responses:     models.ResponseData{},
		Active:        true,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "assignment slug already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return a, nil
}

// Get returns one assignment by id.
func (s *FormAssignmentService) Get(ctx context.Context, id string) (*models.FormAssignment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	return a, nil
}

// List returns assignments with pagination metadata.
func (s *FormAssignmentService) List(ctx context.Context, filter models.AssignmentFilter) ([]models.FormAssignment, *models.Pagination, error) {
	if filter.WorkspaceID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "workspace id is required")
	}
	assignments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return assignments, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Start moves a pending assignment into progress. Submitting also starts
// implicitly, so this mainly serves clients that save drafts.
func (s *FormAssignmentService) Start(ctx context.Context, id string) (*models.FormAssignment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.Status.CanTransition(models.AssignmentStatusInProgress) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "assignment cannot be started from status "+string(a.Status))
	}
	a.Status = models.AssignmentStatusInProgress
	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment")
	}
	return a, nil
}

// Submit records responses for an assignment resolved by public slug.
// Single-shot assignments move to SUBMITTED. Allow-multiple assignments
// append a submission record and stay re-submittable in IN_PROGRESS.
func (s *FormAssignmentService) Submit(ctx context.Context, publicSlug string, req dto.SubmitAssignmentRequest) (*models.FormAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}
	a, err := s.repo.FindBySlug(ctx, publicSlug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if !a.Active {
		return nil, appErrors.Clone(appErrors.ErrInactiveResource, "assignment is no longer accepting submissions")
	}
	if a.Status != models.AssignmentStatusPending && a.Status != models.AssignmentStatusInProgress {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "assignment already submitted")
	}
	if err := s.validateResponses(ctx, a.TemplateID, req.Responses); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if a.AllowMultiple {
		rec := &models.SubmissionRecord{
			AssignmentID: a.ID,
			Responses:    models.ResponseData(req.Responses),
			SubmittedAt:  now,
		}
		if err := s.repo.AppendSubmission(ctx, rec); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record submission")
		}
		a.Status = models.AssignmentStatusInProgress
		a.Responses = models.ResponseData{}
		a.SubmittedAt = &now
	} else {
		a.Status = models.AssignmentStatusSubmitted
		a.Responses = models.ResponseData(req.Responses)
		a.SubmittedAt = &now
	}
	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment")
	}
	return a, nil
}

// Review resolves a submitted assignment to APPROVED or REJECTED.
func (s *FormAssignmentService) Review(ctx context.Context, id string, reviewerID string, req dto.ReviewAssignmentRequest) (*models.FormAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := models.AssignmentStatus(req.Decision)
	if !a.Status.CanTransition(next) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "assignment cannot be reviewed from status "+string(a.Status))
	}
	now := time.Now().UTC()
	a.Status = next
	a.ReviewedAt = &now
	a.ReviewedBy = &reviewerID
	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment")
	}
	return a, nil
}

// SetActive toggles whether the public slug accepts traffic.
func (s *FormAssignmentService) SetActive(ctx context.Context, id string, active bool) (*models.FormAssignment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Active = active
	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment")
	}
	return a, nil
}

// Submissions returns the append-only submission history for an assignment.
func (s *FormAssignmentService) Submissions(ctx context.Context, id string) ([]dto.SubmissionRecordResponse, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	records, err := s.repo.ListSubmissions(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	out := make([]dto.SubmissionRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, dto.SubmissionRecordResponse{
			ID:          rec.ID,
			Responses:   rec.Responses,
			SubmittedAt: rec.SubmittedAt,
		})
	}
	return out, nil
}

// validateResponses checks required template fields are answered. Unknown
// keys are allowed through; templates evolve independently of assignments.
func (s *FormAssignmentService) validateResponses(ctx context.Context, templateID string, responses map[string]interface{}) error {
	tpl, err := s.templates.FindByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Template deleted after assignment; accept the submission as-is.
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template")
	}
	for _, f := range tpl.Fields {
		if !f.Required {
			continue
		}
		v, ok := responses[f.Key]
		if !ok || v == nil || v == "" {
			return appErrors.Clone(appErrors.ErrValidation, "missing required field: "+f.Key)
		}
	}
	return nil
}
