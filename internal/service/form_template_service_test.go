package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/workspace-admin-api/internal/dto"
	"github.com/noah-isme/workspace-admin-api/internal/models"
	"github.com/noah-isme/workspace-admin-api/internal/repository"
	appErrors "github.com/noah-isme/workspace-admin-api/pkg/errors"
)

// conflictTemplateRepo reports a unique violation on create so slug
// collisions surface as conflicts.
type conflictTemplateRepo struct {
	stubTemplateRepo
}

func (s *conflictTemplateRepo) Create(ctx context.Context, t *models.FormTemplate) error {
	return repository.ErrUniqueViolation
}

func TestTemplateCreateDerivesSlug(t *testing.T) {
	svc := NewFormTemplateService(&stubTemplateRepo{}, nil, nil)

	tpl, err := svc.Create(context.Background(), "ws-1", dto.CreateFormTemplateRequest{
		Name: "Expense Form",
		Fields: []dto.TemplateFieldSpec{
			{Key: "amount", Label: "Amount", Type: "number", Required: true},
		},
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(tpl.PublicSlug, "expense-form-"))
	require.True(t, tpl.Active)
	require.Len(t, tpl.Fields, 1)
}

func TestTemplateCreateRejectsDuplicateFieldKeys(t *testing.T) {
	svc := NewFormTemplateService(&stubTemplateRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), "ws-1", dto.CreateFormTemplateRequest{
		Name: "Expense Form",
		Fields: []dto.TemplateFieldSpec{
			{Key: "amount", Label: "Amount", Type: "number"},
			{Key: "amount", Label: "Amount again", Type: "text"},
		},
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTemplateCreateRejectsSelectWithoutOptions(t *testing.T) {
	svc := NewFormTemplateService(&stubTemplateRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), "ws-1", dto.CreateFormTemplateRequest{
		Name: "Survey",
		Fields: []dto.TemplateFieldSpec{
			{Key: "rating", Label: "Rating", Type: "select"},
		},
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTemplateCreateSlugConflict(t *testing.T) {
	svc := NewFormTemplateService(&conflictTemplateRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), "ws-1", dto.CreateFormTemplateRequest{
		Name: "Expense Form",
		Fields: []dto.TemplateFieldSpec{
			{Key: "amount", Label: "Amount", Type: "number"},
		},
	})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestTemplateListRequiresWorkspace(t *testing.T) {
	svc := NewFormTemplateService(&stubTemplateRepo{}, nil, nil)

	_, _, err := svc.List(context.Background(), models.FormTemplateFilter{})
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
