package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/workspace-admin-api/internal/models"
)

const unitColumns = `id, workspace_id, parent_id, name, description, created_at, updated_at`

// UnitRepository manages persistence for organizational units.
type UnitRepository struct {
	db *sqlx.DB
}

// NewUnitRepository constructs a UnitRepository.
func NewUnitRepository(db *sqlx.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

// Create inserts a new unit row.
func (r *UnitRepository) Create(ctx context.Context, u *models.Unit) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	const query = `INSERT INTO units (` + unitColumns + `)
VALUES (:id, :workspace_id, :parent_id, :name, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, u); err != nil {
		return fmt.Errorf("create unit: %w", err)
	}
	return nil
}

// FindByID fetches a unit by its identifier.
func (r *UnitRepository) FindByID(ctx context.Context, id string) (*models.Unit, error) {
	const query = `SELECT ` + unitColumns + ` FROM units WHERE id = $1`
	var u models.Unit
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		return nil, fmt.Errorf("find unit: %w", err)
	}
	return &u, nil
}

// ListByWorkspace returns all units of a workspace ordered for stable tree
// assembly.
func (r *UnitRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Unit, error) {
	const query = `SELECT ` + unitColumns + ` FROM units WHERE workspace_id = $1 ORDER BY name ASC`
	var units []models.Unit
	if err := r.db.SelectContext(ctx, &units, query, workspaceID); err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return units, nil
}

// Update persists mutable unit fields.
func (r *UnitRepository) Update(ctx context.Context, u *models.Unit) error {
	u.UpdatedAt = time.Now().UTC()
	const query = `UPDATE units SET parent_id = :parent_id, name = :name, description = :description, updated_at = :updated_at
WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, u)
	if err != nil {
		return fmt.Errorf("update unit: %w", err)
	}
	return requireRowsAffected(result, "unit")
}

// Delete removes a unit row. Children are re-parented by the database via
// ON DELETE SET NULL.
func (r *UnitRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM units WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	return requireRowsAffected(result, "unit")
}
