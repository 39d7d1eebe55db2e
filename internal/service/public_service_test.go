package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/workspace-admin-api/internal/models"
	appErrors "github.com/noah-isme/workspace-admin-api/pkg/errors"
)

type stubUnitRepo struct {
	byID    *models.Unit
	findErr error
}

func (s *stubUnitRepo) Create(ctx context.Context, u *models.Unit) error { return nil }

func (s *stubUnitRepo) FindByID(ctx context.Context, id string) (*models.Unit, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.byID, nil
}

func (s *stubUnitRepo) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Unit, error) {
	return nil, nil
}

func (s *stubUnitRepo) Update(ctx context.Context, u *models.Unit) error { return nil }
func (s *stubUnitRepo) Delete(ctx context.Context, id string) error      { return nil }

type stubPublicCache struct {
	store map[string]interface{}
	sets  int
}

func (s *stubPublicCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	_, ok := s.store[key]
	return ok, nil
}

func (s *stubPublicCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.store == nil {
		s.store = map[string]interface{}{}
	}
	s.store[key] = value
	s.sets++
	return nil
}

func newPublicService(assignments *stubAssignmentRepo, members *stubMemberRepo, cache publicCache) *PublicService {
	workspaces := &stubWorkspaceRepo{byID: &models.Workspace{ID: "ws-1", Name: "Acme Corp"}}
	units := &stubUnitRepo{byID: &models.Unit{ID: "unit-1", Name: "Engineering"}}
	templates := &stubTemplateRepo{byID: activeTemplate()}
	return NewPublicService(assignments, templates, members, workspaces, units, cache, time.Minute, nil)
}

func TestPublicMemberSanitizesProfile(t *testing.T) {
	unitID := "unit-1"
	members := &stubMemberRepo{bySlug: &models.Member{
		ID:          "mem-1",
		WorkspaceID: "ws-1",
		FullName:    "Jane Smith",
		Role:        models.MemberRoleMember,
		UnitID:      &unitID,
		Active:      true,
		Profile: models.ProfileData{
			"department": "Engineering",
			"ssn":        "123-45-6789",
		},
	}}
	svc := newPublicService(&stubAssignmentRepo{}, members, nil)

	resp, cached, err := svc.Member(context.Background(), "jane-smith-k3m9p2")
	require.NoError(t, err)
	require.False(t, cached)
	require.Equal(t, "Jane Smith", resp.FullName)
	require.Equal(t, "Acme Corp", resp.Workspace)
	require.Equal(t, "Engineering", resp.UnitName)
	require.Contains(t, resp.Profile, "department")
	require.NotContains(t, resp.Profile, "ssn")
}

func TestPublicMemberUnknownSlug(t *testing.T) {
	members := &stubMemberRepo{findErr: sql.ErrNoRows}
	svc := newPublicService(&stubAssignmentRepo{}, members, nil)

	_, _, err := svc.Member(context.Background(), "missing")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPublicMemberInactive(t *testing.T) {
	members := &stubMemberRepo{bySlug: &models.Member{
		ID:          "mem-1",
		WorkspaceID: "ws-1",
		FullName:    "Jane Smith",
		Active:      false,
	}}
	svc := newPublicService(&stubAssignmentRepo{}, members, nil)

	_, _, err := svc.Member(context.Background(), "jane-smith-k3m9p2")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrInactiveResource.Code, appErrors.FromError(err).Code)
}

func TestPublicAssignmentBuildsView(t *testing.T) {
	assignments := &stubAssignmentRepo{bySlug: &models.FormAssignment{
		ID:          "asg-1",
		WorkspaceID: "ws-1",
		TemplateID:  "tpl-1",
		MemberID:    "mem-1",
		PublicSlug:  "expense-form-jane-smith-q8r4t1",
		Status:      models.AssignmentStatusPending,
		Active:      true,
		AssignedAt:  time.Now().UTC(),
	}}
	svc := newPublicService(assignments, activeMemberRepo(), nil)

	resp, cached, err := svc.Assignment(context.Background(), "expense-form-jane-smith-q8r4t1")
	require.NoError(t, err)
	require.False(t, cached)
	require.Equal(t, "Expense Form", resp.TemplateName)
	require.Equal(t, "Jane Smith", resp.MemberName)
	require.Equal(t, "Acme Corp", resp.Workspace)
	require.Len(t, resp.Fields, 2)
	require.Equal(t, "amount", resp.Fields[0].Key)
}

func TestPublicAssignmentInactiveNotCached(t *testing.T) {
	assignments := &stubAssignmentRepo{bySlug: &models.FormAssignment{
		ID:     "asg-1",
		Active: false,
	}}
	cache := &stubPublicCache{}
	svc := newPublicService(assignments, activeMemberRepo(), cache)

	_, _, err := svc.Assignment(context.Background(), "slug")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrInactiveResource.Code, appErrors.FromError(err).Code)
	require.Zero(t, cache.sets)
}

func TestPublicAssignmentCachesView(t *testing.T) {
	assignments := &stubAssignmentRepo{bySlug: &models.FormAssignment{
		ID:          "asg-1",
		WorkspaceID: "ws-1",
		TemplateID:  "tpl-1",
		MemberID:    "mem-1",
		PublicSlug:  "expense-form-jane-smith-q8r4t1",
		Status:      models.AssignmentStatusPending,
		Active:      true,
	}}
	cache := &stubPublicCache{}
	svc := newPublicService(assignments, activeMemberRepo(), cache)

	_, _, err := svc.Assignment(context.Background(), "expense-form-jane-smith-q8r4t1")
	require.NoError(t, err)
	require.Equal(t, 1, cache.sets)
	require.Contains(t, cache.store, "public:assignment:expense-form-jane-smith-q8r4t1")
}

func TestPublicAssignmentSecondLookupHitsCache(t *testing.T) {
	assignments := &stubAssignmentRepo{bySlug: &models.FormAssignment{
		ID:          "asg-1",
		WorkspaceID: "ws-1",
		TemplateID:  "tpl-1",
		MemberID:    "mem-1",
		PublicSlug:  "jane-smith-expense-form-q8r4t1",
		Status:      models.AssignmentStatusPending,
		Active:      true,
	}}
	cache := &stubPublicCache{}
	svc := newPublicService(assignments, activeMemberRepo(), cache)

	_, cached, err := svc.Assignment(context.Background(), "jane-smith-expense-form-q8r4t1")
	require.NoError(t, err)
	require.False(t, cached)

	_, cached, err = svc.Assignment(context.Background(), "jane-smith-expense-form-q8r4t1")
	require.NoError(t, err)
	require.True(t, cached)
}
