package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/workspace-admin-api/internal/dto"
	"github.com/noah-isme/workspace-admin-api/internal/models"
	"github.com/noah-isme/workspace-admin-api/internal/repository"
	appErrors "github.com/noah-isme/workspace-admin-api/pkg/errors"
	"github.com/noah-isme/workspace-admin-api/pkg/slug"
)

// sensitiveProfileKeys are stripped from member profiles before they reach
// any unauthenticated surface. A key is dropped when its normalised form
// contains any of these substrings; nested values are not inspected.
var sensitiveProfileKeys = []string{
	"password",
	"ssn",
	"social_security",
	"tax_id",
	"bank_account",
	"credit_card",
	"internal_id",
	"employee_id",
}

type memberRepository interface {
	Create(ctx context.Context, m *models.Member) error
	FindByID(ctx context.Context, id string) (*models.Member, error)
	FindBySlug(ctx context.Context, slug string) (*models.Member, error)
	List(ctx context.Context, filter models.MemberFilter) ([]models.Member, int, error)
	Update(ctx context.Context, m *models.Member) error
	Delete(ctx context.Context, id string) error
}

// MemberService handles workspace member use-cases.
type MemberService struct {
	repo      memberRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMemberService constructs the member service.
func NewMemberService(repo memberRepository, validate *validator.Validate, logger *zap.Logger) *MemberService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemberService{repo: repo, validator: validate, logger: logger}
}

// Create adds a member to a workspace and derives their public slug from
// the full name.
func (s *MemberService) Create(ctx context.Context, workspaceID string, req dto.CreateMemberRequest) (*models.Member, error) {
	if workspaceID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "workspace id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid member payload")
	}
	m := &models.Member{
		WorkspaceID: workspaceID,
		FullName:    req.FullName,
		Email:       strings.ToLower(req.Email),
		Phone:       req.Phone,
		UnitID:      req.UnitID,
		Role:        models.MemberRole(req.Role),
		PublicSlug:  slug.ForMember(req.FullName),
		Profile:     models.ProfileData(req.Profile),
		Active:      true,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "member slug or email already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create member")
	}
	return m, nil
}

// Get returns one member by id.
func (s *MemberService) Get(ctx context.Context, id string) (*models.Member, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load member")
	}
	return m, nil
}

// List returns members with pagination metadata.
func (s *MemberService) List(ctx context.Context, filter models.MemberFilter) ([]models.Member, *models.Pagination, error) {
	if filter.WorkspaceID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "workspace id is required")
	}
	members, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list members")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return members, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Update applies partial changes to a member. The public slug is stable:
// renaming a member never changes their published profile URL.
func (s *MemberService) Update(ctx context.Context, id string, req dto.UpdateMemberRequest) (*models.Member, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid member payload")
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		m.FullName = *req.FullName
	}
	if req.Email != nil {
		m.Email = strings.ToLower(*req.Email)
	}
	if req.Phone != nil {
		m.Phone = req.Phone
	}
	if req.UnitID != nil {
		m.UnitID = req.UnitID
	}
	if req.Role != nil {
		m.Role = models.MemberRole(*req.Role)
	}
	if req.Profile != nil {
		m.Profile = models.ProfileData(req.Profile)
	}
	if req.Active != nil {
		m.Active = *req.Active
	}
	if err := s.repo.Update(ctx, m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update member")
	}
	return m, nil
}

// Delete removes a member.
func (s *MemberService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "member not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete member")
	}
	return nil
}

// SanitizeProfile returns a copy of the profile with sensitive keys
// removed. Keys are compared case-insensitively with spaces and hyphens
// folded to underscores.
func SanitizeProfile(profile models.ProfileData) map[string]interface{} {
	out := make(map[string]interface{}, len(profile))
	for k, v := range profile {
		if isSensitiveProfileKey(k) {
			continue
		}
		out[k] = v
	}
	return out
}

func isSensitiveProfileKey(k string) bool {
	normalised := normalizeProfileKey(k)
	for _, needle := range sensitiveProfileKeys {
		if strings.Contains(normalised, needle) {
			return true
		}
	}
	return false
}

func normalizeProfileKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	k = strings.ReplaceAll(k, "-", "_")
	k = strings.ReplaceAll(k, " ", "_")
	return k
}
