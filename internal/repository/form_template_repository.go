package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/workspace-admin-api/internal/models"
)

const templateColumns = `id, workspace_id, name, public_slug, description, fields, active, created_at, updated_at`

// FormTemplateRepository manages persistence for form templates.
type FormTemplateRepository struct {
	db *sqlx.DB
}

// NewFormTemplateRepository constructs a FormTemplateRepository.
func NewFormTemplateRepository(db *sqlx.DB) *FormTemplateRepository {
	return &FormTemplateRepository{db: db}
}

// Create inserts a new template row.
func (r *FormTemplateRepository) Create(ctx context.Context, t *models.FormTemplate) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	const query = `INSERT INTO form_templates (` + templateColumns + `)
VALUES (:id, :workspace_id, :name, :public_slug, :description, :fields, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create form template: %w", ErrUniqueViolation)
		}
		return fmt.Errorf("create form template: %w", err)
	}
	return nil
}

// FindByID fetches a template by its identifier.
func (r *FormTemplateRepository) FindByID(ctx context.Context, id string) (*models.FormTemplate, error) {
	const query = `SELECT ` + templateColumns + ` FROM form_templates WHERE id = $1`
	var t models.FormTemplate
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		return nil, fmt.Errorf("find form template: %w", err)
	}
	return &t, nil
}

// FindBySlug fetches a template by public slug.
func (r *FormTemplateRepository) FindBySlug(ctx context.Context, slug string) (*models.FormTemplate, error) {
	const query = `SELECT ` + templateColumns + ` FROM form_templates WHERE public_slug = $1`
	var t models.FormTemplate
	if err := r.db.GetContext(ctx, &t, query, slug); err != nil {
		return nil, fmt.Errorf("find form template by slug: %w", err)
	}
	return &t, nil
}

// List returns templates matching the provided filters.
func (r *FormTemplateRepository) List(ctx context.Context, filter models.FormTemplateFilter) ([]models.FormTemplate, int, error) {
	conditions := []string{"workspace_id = $1"}
	args := []interface{}{filter.WorkspaceID}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT `+templateColumns+` FROM form_templates WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		where, size, offset)

	var templates []models.FormTemplate
	if err := r.db.SelectContext(ctx, &templates, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list form templates: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM form_templates WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count form templates: %w", err)
	}
	return templates, total, nil
}

// Update persists mutable template fields.
func (r *FormTemplateRepository) Update(ctx context.Context, t *models.FormTemplate) error {
	t.UpdatedAt = time.Now().UTC()
	const query = `UPDATE form_templates SET name = :name, description = :description, fields = :fields,
active = :active, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, t)
	if err != nil {
		return fmt.Errorf("update form template: %w", err)
	}
	return requireRowsAffected(result, "form template")
}

// Delete removes a template row.
func (r *FormTemplateRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM form_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete form template: %w", err)
	}
	return requireRowsAffected(result, "form template")
}
