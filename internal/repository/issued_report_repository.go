package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/workspace-admin-api/internal/models"
)

const issuedReportColumns = `id, reference_number, workspace_id, template_name, template_type, submitted_by, submitted_by_email, filename, size_bytes, generated_at`

// IssuedReportRepository records generated reports for later verification
// of externally quoted reference numbers.
type IssuedReportRepository struct {
	db *sqlx.DB
}

// NewIssuedReportRepository constructs an IssuedReportRepository.
func NewIssuedReportRepository(db *sqlx.DB) *IssuedReportRepository {
	return &IssuedReportRepository{db: db}
}

// Create inserts an issuance row. Reference numbers carry a unique index;
// generation does not retry on collision (probabilistic uniqueness only),
// so a violation surfaces as an error here.
func (r *IssuedReportRepository) Create(ctx context.Context, rep *models.IssuedReport) error {
	if rep.ID == "" {
		rep.ID = uuid.NewString()
	}
	if rep.GeneratedAt.IsZero() {
		rep.GeneratedAt = time.Now().UTC()
	}
	const query = `INSERT INTO issued_reports (` + issuedReportColumns + `)
VALUES (:id, :reference_number, :workspace_id, :template_name, :template_type, :submitted_by, :submitted_by_email, :filename, :size_bytes, :generated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rep); err != nil {
		return fmt.Errorf("create issued report: %w", err)
	}
	return nil
}

// FindByReference resolves an issuance row by its reference number.
func (r *IssuedReportRepository) FindByReference(ctx context.Context, reference string) (*models.IssuedReport, error) {
	const query = `SELECT ` + issuedReportColumns + ` FROM issued_reports WHERE reference_number = $1`
	var rep models.IssuedReport
	if err := r.db.GetContext(ctx, &rep, query, reference); err != nil {
		return nil, fmt.Errorf("find issued report: %w", err)
	}
	return &rep, nil
}

// ListByWorkspace returns issuance rows for a workspace, newest first.
func (r *IssuedReportRepository) ListByWorkspace(ctx context.Context, workspaceID string, limit int) ([]models.IssuedReport, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := fmt.Sprintf(`SELECT `+issuedReportColumns+` FROM issued_reports WHERE workspace_id = $1 ORDER BY generated_at DESC LIMIT %d`, limit)
	var reports []models.IssuedReport
	if err := r.db.SelectContext(ctx, &reports, query, workspaceID); err != nil {
		return nil, fmt.Errorf("list issued reports: %w", err)
	}
	return reports, nil
}
