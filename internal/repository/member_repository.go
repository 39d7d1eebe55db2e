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

const memberColumns = `id, workspace_id, user_id, full_name, email, phone, unit_id, role, public_slug, profile, active, created_at, updated_at`

// MemberRepository manages persistence for workspace members.
type MemberRepository struct {
	db *sqlx.DB
}

// NewMemberRepository constructs a MemberRepository.
func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Create inserts a new member row.
func (r *MemberRepository) Create(ctx context.Context, m *models.Member) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	const query = `INSERT INTO members (` + memberColumns + `)
VALUES (:id, :workspace_id, :user_id, :full_name, :email, :phone, :unit_id, :role, :public_slug, :profile, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create member: %w", ErrUniqueViolation)
		}
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

// FindByID fetches a member by its identifier.
func (r *MemberRepository) FindByID(ctx context.Context, id string) (*models.Member, error) {
	const query = `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	var m models.Member
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, fmt.Errorf("find member: %w", err)
	}
	return &m, nil
}

// FindBySlug fetches a member by public slug. Public endpoints resolve
// members exclusively through this lookup.
func (r *MemberRepository) FindBySlug(ctx context.Context, slug string) (*models.Member, error) {
	const query = `SELECT ` + memberColumns + ` FROM members WHERE public_slug = $1`
	var m models.Member
	if err := r.db.GetContext(ctx, &m, query, slug); err != nil {
		return nil, fmt.Errorf("find member by slug: %w", err)
	}
	return &m, nil
}

// List returns members matching the provided filters.
func (r *MemberRepository) List(ctx context.Context, filter models.MemberFilter) ([]models.Member, int, error) {
	conditions := []string{"workspace_id = $1"}
	args := []interface{}{filter.WorkspaceID}

	if filter.UnitID != "" {
		conditions = append(conditions, fmt.Sprintf("unit_id = $%d", len(args)+1))
		args = append(args, filter.UnitID)
	}
	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, *filter.Role)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	where := strings.Join(conditions, " AND ")

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"full_name":  "full_name",
		"email":      "email",
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

	query := fmt.Sprintf(`SELECT `+memberColumns+` FROM members WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		where, column, order, size, offset)

	var members []models.Member
	if err := r.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list members: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM members WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count members: %w", err)
	}
	return members, total, nil
}

// Update persists mutable member fields.
func (r *MemberRepository) Update(ctx context.Context, m *models.Member) error {
	m.UpdatedAt = time.Now().UTC()
	const query = `UPDATE members SET full_name = :full_name, email = :email, phone = :phone, unit_id = :unit_id,
role = :role, profile = :profile, active = :active, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, m)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return requireRowsAffected(result, "member")
}

// Delete removes a member row.
func (r *MemberRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return requireRowsAffected(result, "member")
}
