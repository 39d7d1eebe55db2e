package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/workspace-admin-api/internal/dto"
	"github.com/noah-isme/workspace-admin-api/internal/models"
	appErrors "github.com/noah-isme/workspace-admin-api/pkg/errors"
)

type stubAssignmentRepo struct {
	created  *models.FormAssignment
	bySlug   *models.FormAssignment
	byID     *models.FormAssignment
	findErr  error
	updated  *models.FormAssignment
	appended *models.SubmissionRecord
	records  []models.SubmissionRecord
}

func (s *stubAssignmentRepo) Create(ctx context.Context, a *models.FormAssignment) error {
	s.created = a
	return nil
}

func (s *stubAssignmentRepo) FindByID(ctx context.Context, id string) (*models.FormAssignment, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.byID, nil
}

func (s *stubAssignmentRepo) FindBySlug(ctx context.Context, slug string) (*models.FormAssignment, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.bySlug, nil
}

func (s *stubAssignmentRepo) List(ctx context.Context, filter models.AssignmentFilter) ([]models.FormAssignment, int, error) {
	return nil, 0, nil
}

func (s *stubAssignmentRepo) UpdateStatus(ctx context.Context, a *models.FormAssignment) error {
	s.updated = a
	return nil
}

func (s *stubAssignmentRepo) AppendSubmission(ctx context.Context, rec *models.SubmissionRecord) error {
	s.appended = rec
	return nil
}

func (s *stubAssignmentRepo) ListSubmissions(ctx context.Context, assignmentID string) ([]models.SubmissionRecord, error) {
	return s.records, nil
}

type stubTemplateRepo struct {
	byID    *models.FormTemplate
	findErr error
}

func (s *stubTemplateRepo) Create(ctx context.Context, t *models.FormTemplate) error { return nil }

func (s *stubTemplateRepo) FindByID(ctx context.Context, id string) (*models.FormTemplate, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.byID, nil
}

func (s *stubTemplateRepo) FindBySlug(ctx context.Context, slug string) (*models.FormTemplate, error) {
	return s.byID, nil
}

func (s *stubTemplateRepo) List(ctx context.Context, filter models.FormTemplateFilter) ([]models.FormTemplate, int, error) {
	return nil, 0, nil
}

func (s *stubTemplateRepo) Update(ctx context.Context, t *models.FormTemplate) error { return nil }
func (s *stubTemplateRepo) Delete(ctx context.Context, id string) error              { return nil }

func activeTemplate() *models.FormTemplate {
	return &models.FormTemplate{
		ID:          "tpl-1",
		WorkspaceID: "ws-1",
		Name:        "Expense Form",
		Active:      true,
		Fields: models.TemplateFields{
			{Key: "amount", Label: "Amount", Type: "number", Required: true},
			{Key: "note", Label: "Note", Type: "text"},
		},
	}
}

func activeMemberRepo() *stubMemberRepo {
	return &stubMemberRepo{byID: &models.Member{
		ID:          "mem-1",
		WorkspaceID: "ws-1",
		FullName:    "Jane Smith",
		Active:      true,
	}}
}

func newAssignmentService(repo *stubAssignmentRepo, templates *stubTemplateRepo, members *stubMemberRepo) *FormAssignmentService {
	return NewFormAssignmentService(repo, templates, members, nil, nil)
}

func TestAssignmentCreateDerivesSlug(t *testing.T) {
	repo := &stubAssignmentRepo{}
	svc := newAssignmentService(repo, &stubTemplateRepo{byID: activeTemplate()}, activeMemberRepo())

	a, err := svc.Create(context.Background(), "ws-1", dto.CreateAssignmentRequest{
		TemplateID: "6f1e8a62-1111-4a2b-9c3d-222233334444",
		MemberID:   "6f1e8a62-5555-4a2b-9c3d-666677778888",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(a.PublicSlug, "jane-smith-expense-form-"))
	require.Equal(t, models.AssignmentStatusPending, a.Status)
	require.True(t, a.Active)
}

func TestAssignmentCreateRejectsInactiveTemplate(t *testing.T) {
	tpl := activeTemplate()
	tpl.Active = false
	svc := newAssignmentService(&stubAssignmentRepo{}, &stubTemplateRepo{byID: tpl}, activeMemberRepo())

	_, err := svc.Create(context.Background(), "ws-1", dto.CreateAssignmentRequest{
		TemplateID: "6f1e8a62-1111-4a2b-9c3d-222233334444",
		MemberID:   "6f1e8a62-5555-4a2b-9c3d-666677778888",
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrInactiveResource.Code, appErrors.FromError(err).Code)
}

func TestAssignmentCreateRejectsCrossWorkspaceMember(t *testing.T) {
	members := activeMemberRepo()
	members.byID.WorkspaceID = "ws-other"
	svc := newAssignmentService(&stubAssignmentRepo{}, &stubTemplateRepo{byID: activeTemplate()}, members)

	_, err := svc.Create(context.Background(), "ws-1", dto.CreateAssignmentRequest{
		TemplateID: "6f1e8a62-1111-4a2b-9c3d-222233334444",
		MemberID:   "6f1e8a62-5555-4a2b-9c3d-666677778888",
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssignmentSubmitSingleShot(t *testing.T) {
	repo := &stubAssignmentRepo{bySlug: &models.FormAssignment{
		ID:         "asg-1",
		TemplateID: "tpl-1",
		PublicSlug: "expense-form-jane-smith-q8r4t1",
		Status:     models.AssignmentStatusPending,
		Active:     true,
	}}
	svc := newAssignmentService(repo, &stubTemplateRepo{byID: activeTemplate()}, activeMemberRepo())

	a, err := svc.Submit(context.Background(), "expense-form-jane-smith-q8r4t1", dto.SubmitAssignmentRequest{
		Responses: map[string]interface{}{"amount": 120.5},
	})
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusSubmitted, a.Status)
	require.NotNil(t, a.SubmittedAt)
	require.Nil(t, repo.appended)
	require.Equal(t, 120.5, a.Responses["amount"])
}

func TestAssignmentSubmitAllowMultipleAppends(t *testing.T) {
	repo := &stubAssignmentRepo{bySlug: &models.FormAssignment{
		ID:            "asg-1",
		TemplateID:    "tpl-1",
		PublicSlug:    "expense-form-jane-smith-q8r4t1",
		Status:        models.AssignmentStatusInProgress,
		AllowMultiple: true,
		Active:        true,
	}}
	svc := newAssignmentService(repo, &stubTemplateRepo{byID: activeTemplate()}, activeMemberRepo())

	a, err := svc.Submit(context.Background(), "expense-form-jane-smith-q8r4t1", dto.SubmitAssignmentRequest{
		Responses: map[string]interface{}{"amount": 42},
	})
	require.NoError(t, err)
	// Stays re-submittable; the responses live in the append-only record.
	require.Equal(t, models.AssignmentStatusInProgress, a.Status)
	require.Empty(t, a.Responses)
	require.NotNil(t, repo.appended)
	require.Equal(t, 42, repo.appended.Responses["amount"])
}

func TestAssignmentSubmitMissingRequiredField(t *testing.T) {
	repo := &stubAssignmentRepo{bySlug: &models.FormAssignment{
		ID:         "asg-1",
		TemplateID: "tpl-1",
		Status:     models.AssignmentStatusPending,
		Active:     true,
	}}
	svc := newAssignmentService(repo, &stubTemplateRepo{byID: activeTemplate()}, activeMemberRepo())

	_, err := svc.Submit(context.Background(), "slug", dto.SubmitAssignmentRequest{
		Responses: map[string]interface{}{"note": "no amount"},
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssignmentSubmitInactive(t *testing.T) {
	repo := &stubAssignmentRepo{bySlug: &models.FormAssignment{
		ID:     "asg-1",
		Status: models.AssignmentStatusPending,
		Active: false,
	}}
	svc := newAssignmentService(repo, &stubTemplateRepo{byID: activeTemplate()}, activeMemberRepo())

	_, err := svc.Submit(context.Background(), "slug", dto.SubmitAssignmentRequest{
		Responses: map[string]interface{}{"amount": 1},
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrInactiveResource.Code, appErrors.FromError(err).Code)
}

func TestAssignmentSubmitAfterSubmission(t *testing.T) {
	repo := &stubAssignmentRepo{bySlug: &models.FormAssignment{
		ID:     "asg-1",
		Status: models.AssignmentStatusSubmitted,
		Active: true,
	}}
	svc := newAssignmentService(repo, &stubTemplateRepo{byID: activeTemplate()}, activeMemberRepo())

	_, err := svc.Submit(context.Background(), "slug", dto.SubmitAssignmentRequest{
		Responses: map[string]interface{}{"amount": 1},
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestAssignmentReviewTransitions(t *testing.T) {
	repo := &stubAssignmentRepo{byID: &models.FormAssignment{
		ID:     "asg-1",
		Status: models.AssignmentStatusSubmitted,
		Active: true,
	}}
	svc := newAssignmentService(repo, &stubTemplateRepo{byID: activeTemplate()}, activeMemberRepo())

	a, err := svc.Review(context.Background(), "asg-1", "user-1", dto.ReviewAssignmentRequest{Decision: "APPROVED"})
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusApproved, a.Status)
	require.NotNil(t, a.ReviewedAt)
	require.Equal(t, "user-1", *a.ReviewedBy)
}

func TestAssignmentReviewRejectsFromPending(t *testing.T) {
	repo := &stubAssignmentRepo{byID: &models.FormAssignment{
		ID:     "asg-1",
		Status: models.AssignmentStatusPending,
	}}
	svc := newAssignmentService(repo, &stubTemplateRepo{byID: activeTemplate()}, activeMemberRepo())

	_, err := svc.Review(context.Background(), "asg-1", "user-1", dto.ReviewAssignmentRequest{Decision: "APPROVED"})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestAssignmentStatusTransitionTable(t *testing.T) {
	cases := []struct {
		from models.AssignmentStatus
		to   models.AssignmentStatus
		ok   bool
	}{
		{models.AssignmentStatusPending, models.AssignmentStatusInProgress, true},
		{models.AssignmentStatusPending, models.AssignmentStatusSubmitted, false},
		{models.AssignmentStatusInProgress, models.AssignmentStatusSubmitted, true},
		{models.AssignmentStatusSubmitted, models.AssignmentStatusApproved, true},
		{models.AssignmentStatusSubmitted, models.AssignmentStatusRejected, true},
		{models.AssignmentStatusApproved, models.AssignmentStatusRejected, false},
		{models.AssignmentStatusRejected, models.AssignmentStatusPending, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.ok, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestAssignmentSubmitUnknownSlug(t *testing.T) {
	repo := &stubAssignmentRepo{findErr: sql.ErrNoRows}
	svc := newAssignmentService(repo, &stubTemplateRepo{byID: activeTemplate()}, activeMemberRepo())

	_, err := svc.Submit(context.Background(), "missing", dto.SubmitAssignmentRequest{
		Responses: map[string]interface{}{"amount": 1},
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
