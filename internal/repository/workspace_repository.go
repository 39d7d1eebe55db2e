package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/workspace-admin-api/internal/models"
)

// ErrUniqueViolation marks inserts rejected by a unique index, letting
// callers retry slug generation.
var ErrUniqueViolation = errors.New("unique constraint violation")

const workspaceColumns = `id, name, slug, type, logo_url, stamp_url, primary_color, address, motto, default_report_type, active, created_at, updated_at`

// WorkspaceRepository manages persistence for tenant workspaces.
type WorkspaceRepository struct {
	db *sqlx.DB
}

// NewWorkspaceRepository constructs a WorkspaceRepository.
func NewWorkspaceRepository(db *sqlx.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

// Create inserts a new workspace row.
func (r *WorkspaceRepository) Create(ctx context.Context, ws *models.Workspace) error {
	if ws.ID == "" {
		ws.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if ws.CreatedAt.IsZero() {
		ws.CreatedAt = now
	}
	ws.UpdatedAt = now
	const query = `INSERT INTO workspaces (` + workspaceColumns + `)
VALUES (:id, :name, :slug, :type, :logo_url, :stamp_url, :primary_color, :address, :motto, :default_report_type, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, ws); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create workspace: %w", ErrUniqueViolation)
		}
		return fmt.Errorf("create workspace: %w", err)
	}
	return nil
}

// FindByID fetches a workspace by its identifier.
func (r *WorkspaceRepository) FindByID(ctx context.Context, id string) (*models.Workspace, error) {
	const query = `SELECT ` + workspaceColumns + ` FROM workspaces WHERE id = $1`
	var ws models.Workspace
	if err := r.db.GetContext(ctx, &ws, query, id); err != nil {
		return nil, fmt.Errorf("find workspace: %w", err)
	}
	return &ws, nil
}

// FindBySlug fetches a workspace by its public slug.
func (r *WorkspaceRepository) FindBySlug(ctx context.Context, slug string) (*models.Workspace, error) {
	const query = `SELECT ` + workspaceColumns + ` FROM workspaces WHERE slug = $1`
	var ws models.Workspace
	if err := r.db.GetContext(ctx, &ws, query, slug); err != nil {
		return nil, fmt.Errorf("find workspace by slug: %w", err)
	}
	return &ws, nil
}

// List returns workspaces matching the provided filters.
func (r *WorkspaceRepository) List(ctx context.Context, filter models.WorkspaceFilter) ([]models.Workspace, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, *filter.Type)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR slug LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	where := strings.Join(conditions, " AND ")

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"name":       "name",
		"created_at": "created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT `+workspaceColumns+` FROM workspaces WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		where, column, order, size, offset)

	var workspaces []models.Workspace
	if err := r.db.SelectContext(ctx, &workspaces, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list workspaces: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM workspaces WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count workspaces: %w", err)
	}
	return workspaces, total, nil
}

// Update persists mutable workspace fields.
func (r *WorkspaceRepository) Update(ctx context.Context, ws *models.Workspace) error {
	ws.UpdatedAt = time.Now().UTC()
	const query = `UPDATE workspaces SET name = :name, type = :type, logo_url = :logo_url, stamp_url = :stamp_url,
primary_color = :primary_color, address = :address, motto = :motto, default_report_type = :default_report_type,
active = :active, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, ws)
	if err != nil {
		return fmt.Errorf("update workspace: %w", err)
	}
	return requireRowsAffected(result, "workspace")
}

// Delete removes a workspace row.
func (r *WorkspaceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	return requireRowsAffected(result, "workspace")
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
