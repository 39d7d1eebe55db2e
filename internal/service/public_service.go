package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/workspace-admin-api/internal/dto"
	appErrors "github.com/noah-isme/workspace-admin-api/pkg/errors"
)

type publicCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// PublicService serves the unauthenticated slug-addressed surface: member
// profiles and assignment forms. Responses are cached briefly; slugs are
// stable so staleness only delays deactivation, never leaks a new secret.
type PublicService struct {
	assignments formAssignmentRepository
	templates   formTemplateRepository
	members     memberRepository
	workspaces  workspaceRepository
	units       unitRepository
	cache       publicCache
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewPublicService constructs the public read service. cache may be nil.
func NewPublicService(assignments formAssignmentRepository, templates formTemplateRepository, members memberRepository, workspaces workspaceRepository, units unitRepository, cache publicCache, cacheTTL time.Duration, logger *zap.Logger) *PublicService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &PublicService{
		assignments: assignments,
		templates:   templates,
		members:     members,
		workspaces:  workspaces,
		units:       units,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// Assignment resolves a public assignment view by slug. Unknown slugs are
// 404; inactive assignments are 403 and never cached. The second return
// reports whether the view came from cache.
func (s *PublicService) Assignment(ctx context.Context, publicSlug string) (*dto.PublicAssignmentResponse, bool, error) {
	cacheKey := "public:assignment:" + publicSlug
	if s.cache != nil {
		var cached dto.PublicAssignmentResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	a, err := s.assignments.FindBySlug(ctx, publicSlug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if !a.Active {
		return nil, false, appErrors.Clone(appErrors.ErrInactiveResource, "assignment is no longer available")
	}

	tpl, err := s.templates.FindByID(ctx, a.TemplateID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template")
	}
	member, err := s.members.FindByID(ctx, a.MemberID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load member")
	}
	ws, err := s.workspaces.FindByID(ctx, a.WorkspaceID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workspace")
	}

	fields := make([]dto.TemplateFieldSpec, 0, len(tpl.Fields))
	for _, f := range tpl.Fields {
		fields = append(fields, dto.TemplateFieldSpec{
			Key:      f.Key,
			Label:    f.Label,
			Type:     f.Type,
			Required: f.Required,
			Options:  f.Options,
		})
	}
	resp := &dto.PublicAssignmentResponse{
		Slug:          a.PublicSlug,
		TemplateName:  tpl.Name,
		Description:   tpl.Description,
		Fields:        fields,
		Status:        a.Status,
		AllowMultiple: a.AllowMultiple,
		MemberName:    member.FullName,
		Workspace:     ws.Name,
		AssignedAt:    a.AssignedAt,
	}
	s.cacheSet(ctx, cacheKey, resp)
	return resp, false, nil
}

// Member resolves a sanitized public member profile by slug. The second
// return reports whether the profile came from cache.
func (s *PublicService) Member(ctx context.Context, publicSlug string) (*dto.PublicMemberResponse, bool, error) {
	cacheKey := "public:member:" + publicSlug
	if s.cache != nil {
		var cached dto.PublicMemberResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	m, err := s.members.FindBySlug(ctx, publicSlug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "member not found")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load member")
	}
	if !m.Active {
		return nil, false, appErrors.Clone(appErrors.ErrInactiveResource, "member profile is not available")
	}
	ws, err := s.workspaces.FindByID(ctx, m.WorkspaceID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workspace")
	}

	resp := &dto.PublicMemberResponse{
		FullName:  m.FullName,
		Role:      string(m.Role),
		Workspace: ws.Name,
		Profile:   SanitizeProfile(m.Profile),
	}
	if m.UnitID != nil {
		unit, err := s.units.FindByID(ctx, *m.UnitID)
		if err == nil {
			resp.UnitName = unit.Name
		} else if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to resolve member unit", zap.String("unit_id", *m.UnitID), zap.Error(err))
		}
	}
	s.cacheSet(ctx, cacheKey, resp)
	return resp, false, nil
}

func (s *PublicService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("public cache set failed", zap.String("key", key), zap.Error(err))
	}
}
