package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/workspace-admin-api/internal/dto"
	"github.com/noah-isme/workspace-admin-api/internal/models"
	"github.com/noah-isme/workspace-admin-api/internal/repository"
	appErrors "github.com/noah-isme/workspace-admin-api/pkg/errors"
)

type stubMemberRepo struct {
	created   *models.Member
	createErr error
	byID      *models.Member
	bySlug    *models.Member
	findErr   error
	updated   *models.Member
}

func (s *stubMemberRepo) Create(ctx context.Context, m *models.Member) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = m
	return nil
}

func (s *stubMemberRepo) FindByID(ctx context.Context, id string) (*models.Member, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.byID, nil
}

func (s *stubMemberRepo) FindBySlug(ctx context.Context, slug string) (*models.Member, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.bySlug, nil
}

func (s *stubMemberRepo) List(ctx context.Context, filter models.MemberFilter) ([]models.Member, int, error) {
	return nil, 0, nil
}

func (s *stubMemberRepo) Update(ctx context.Context, m *models.Member) error {
	s.updated = m
	return nil
}

func (s *stubMemberRepo) Delete(ctx context.Context, id string) error { return nil }

func TestMemberServiceCreateDerivesSlug(t *testing.T) {
	repo := &stubMemberRepo{}
	svc := NewMemberService(repo, nil, nil)

	m, err := svc.Create(context.Background(), "ws-1", dto.CreateMemberRequest{
		FullName: "Jane Smith",
		Email:    "Jane@Example.com",
		Role:     "MEMBER",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(m.PublicSlug, "jane-smith-"))
	require.Equal(t, "jane@example.com", m.Email)
	require.True(t, m.Active)
}

func TestMemberServiceCreateSlugConflict(t *testing.T) {
	repo := &stubMemberRepo{createErr: repository.ErrUniqueViolation}
	svc := NewMemberService(repo, nil, nil)

	_, err := svc.Create(context.Background(), "ws-1", dto.CreateMemberRequest{
		FullName: "Jane Smith",
		Email:    "jane@example.com",
		Role:     "MEMBER",
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestMemberServiceUpdateKeepsSlugStable(t *testing.T) {
	repo := &stubMemberRepo{byID: &models.Member{
		ID:         "mem-1",
		FullName:   "Jane Smith",
		PublicSlug: "jane-smith-k3m9p2",
		Role:       models.MemberRoleMember,
	}}
	svc := NewMemberService(repo, nil, nil)

	newName := "Jane Smith-Jones"
	m, err := svc.Update(context.Background(), "mem-1", dto.UpdateMemberRequest{FullName: &newName})
	require.NoError(t, err)
	require.Equal(t, "Jane Smith-Jones", m.FullName)
	require.Equal(t, "jane-smith-k3m9p2", m.PublicSlug)
}

func TestMemberServiceGetNotFound(t *testing.T) {
	repo := &stubMemberRepo{findErr: sql.ErrNoRows}
	svc := NewMemberService(repo, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSanitizeProfileStripsSensitiveKeys(t *testing.T) {
	profile := models.ProfileData{
		"department":        "Engineering",
		"ssn":               "123-45-6789",
		"Tax-ID":            "XYZ",
		"Employee ID":       "E-42",
		"bank_account":      "0001",
		"bio":               "Hello",
		"ssn_number":        "123-45-6789",
		"user_password":     "hunter2",
		"credit_card_last4": "4242",
	}
	out := SanitizeProfile(profile)
	require.Equal(t, "Engineering", out["department"])
	require.Equal(t, "Hello", out["bio"])
	require.NotContains(t, out, "ssn")
	require.NotContains(t, out, "Tax-ID")
	require.NotContains(t, out, "Employee ID")
	require.NotContains(t, out, "bank_account")
	require.NotContains(t, out, "ssn_number")
	require.NotContains(t, out, "user_password")
	require.NotContains(t, out, "credit_card_last4")
	require.Len(t, out, 2)
}

func TestSanitizeProfileIsShallow(t *testing.T) {
	// Nested maps pass through untouched; only top-level keys are matched.
	profile := models.ProfileData{
		"nested": map[string]interface{}{"ssn": "hidden-in-nested"},
	}
	out := SanitizeProfile(profile)
	require.Contains(t, out, "nested")
}
