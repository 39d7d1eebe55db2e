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

const assignmentColumns = `id, workspace_id, template_id, member_id, public_slug, status, allow_multiple, responses, active, assigned_at, submitted_at, reviewed_at, reviewed_by, created_at, updated_at`

// FormAssignmentRepository manages persistence for form assignments and
// their append-only submission records.
type FormAssignmentRepository struct {
	db *sqlx.DB
}

// NewFormAssignmentRepository constructs a FormAssignmentRepository.
func NewFormAssignmentRepository(db *sqlx.DB) *FormAssignmentRepository {
	return &FormAssignmentRepository{db: db}
}

// Create inserts a new assignment row.
func (r *FormAssignmentRepository) Create(ctx context.Context, a *models.FormAssignment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.AssignedAt.IsZero() {
		a.AssignedAt = now
	}
	a.UpdatedAt = now
	const query = `INSERT INTO form_assignments (` + assignmentColumns + `)
VALUES (:id, :workspace_id, :template_id, :member_id, :public_slug, :status, :allow_multiple, :responses, :active, :assigned_at, :submitted_at, :reviewed_at, :reviewed_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create form assignment: %w", ErrUniqueViolation)
		}
		return fmt.Errorf("create form assignment: %w", err)
	}
	return nil
}

// FindByID fetches an assignment by its identifier.
func (r *FormAssignmentRepository) FindByID(ctx context.Context, id string) (*models.FormAssignment, error) {
	const query = `SELECT ` + assignmentColumns + ` FROM form_assignments WHERE id = $1`
	var a models.FormAssignment
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		return nil, fmt.Errorf("find form assignment: %w", err)
	}
	return &a, nil
}

// FindBySlug fetches an assignment by public slug. This is the only lookup
// the unauthenticated endpoints use.
func (r *FormAssignmentRepository) FindBySlug(ctx context.Context, slug string) (*models.FormAssignment, error) {
	const query = `SELECT ` + assignmentColumns + ` FROM form_assignments WHERE public_slug = $1`
	var a models.FormAssignment
	if err := r.db.GetContext(ctx, &a, query, slug); err != nil {
		return nil, fmt.Errorf("find form assignment by slug: %w", err)
	}
	return &a, nil
}

// List returns assignments matching the provided filters.
func (r *FormAssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.FormAssignment, int, error) {
	conditions := []string{"workspace_id = $1"}
	args := []interface{}{filter.WorkspaceID}

	if filter.TemplateID != "" {
		conditions = append(conditions, fmt.Sprintf("template_id = $%d", len(args)+1))
		args = append(args, filter.TemplateID)
	}
	if filter.MemberID != "" {
		conditions = append(conditions, fmt.Sprintf("member_id = $%d", len(args)+1))
		args = append(args, filter.MemberID)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
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

	query := fmt.Sprintf(`SELECT `+assignmentColumns+` FROM form_assignments WHERE %s ORDER BY assigned_at DESC LIMIT %d OFFSET %d`,
		where, size, offset)

	var assignments []models.FormAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list form assignments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM form_assignments WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count form assignments: %w", err)
	}
	return assignments, total, nil
}

// UpdateStatus transitions an assignment, adjusting lifecycle timestamps.
func (r *FormAssignmentRepository) UpdateStatus(ctx context.Context, a *models.FormAssignment) error {
	a.UpdatedAt = time.Now().UTC()
	const query = `UPDATE form_assignments SET status = :status, responses = :responses, submitted_at = :submitted_at,
reviewed_at = :reviewed_at, reviewed_by = :reviewed_by, active = :active, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, a)
	if err != nil {
		return fmt.Errorf("update form assignment: %w", err)
	}
	return requireRowsAffected(result, "form assignment")
}

// AppendSubmission records one submission cycle for an allow-multiple
// assignment. Rows in submission_records are never updated.
func (r *FormAssignmentRepository) AppendSubmission(ctx context.Context, rec *models.SubmissionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.SubmittedAt.IsZero() {
		rec.SubmittedAt = time.Now().UTC()
	}
	const query = `INSERT INTO submission_records (id, assignment_id, responses, submitted_at)
VALUES (:id, :assignment_id, :responses, :submitted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("append submission record: %w", err)
	}
	return nil
}

// ListSubmissions returns the append-only submission history for an
// assignment, newest first.
func (r *FormAssignmentRepository) ListSubmissions(ctx context.Context, assignmentID string) ([]models.SubmissionRecord, error) {
	const query = `SELECT id, assignment_id, responses, submitted_at FROM submission_records
WHERE assignment_id = $1 ORDER BY submitted_at DESC`
	var records []models.SubmissionRecord
	if err := r.db.SelectContext(ctx, &records, query, assignmentID); err != nil {
		return nil, fmt.Errorf("list submission records: %w", err)
	}
	return records, nil
}
