package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/workspace-admin-api/internal/models"
	"github.com/noah-isme/workspace-admin-api/pkg/export"
	"github.com/noah-isme/workspace-admin-api/pkg/storage"
)

const exportPageSize = 100

type exportMemberSource interface {
	List(ctx context.Context, filter models.MemberFilter) ([]models.Member, int, error)
}

type exportAssignmentSource interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.FormAssignment, int, error)
}

type exportReportSource interface {
	ListByWorkspace(ctx context.Context, workspaceID string, limit int) ([]models.IssuedReport, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService builds export datasets and persists rendered files.
type ExportService struct {
	members     exportMemberSource
	assignments exportAssignmentSource
	reports     exportReportSource
	storage     fileStorage
	csv         csvRenderer
	pdf         pdfRenderer
	signer      *storage.SignedURLSigner
	logger      *zap.Logger
	cfg         ExportConfig
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// NewExportService constructs an ExportService.
func NewExportService(members exportMemberSource, assignments exportAssignmentSource, reports exportReportSource, storage fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		members:     members,
		assignments: assignments,
		reports:     reports,
		storage:     storage,
		csv:         csv,
		pdf:         pdf,
		signer:      signer,
		logger:      logger,
		cfg:         cfg,
	}
}

// Generate builds the dataset according to the job definition and stores
// the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/exports/download/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL
// when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ExportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	wsPart := sanitizeFilename(job.Params.WorkspaceID)
	return fmt.Sprintf("%s_%s_%s.%s", strings.ToLower(string(job.Type)), wsPart, timestamp, job.Params.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ExportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ExportTypeMembers:
		return s.buildMemberDataset(ctx, job.Params)
	case models.ExportTypeAssignments:
		return s.buildAssignmentDataset(ctx, job.Params)
	case models.ExportTypeReports:
		return s.buildReportDataset(ctx, job.Params)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported export type %s", job.Type)
	}
}

func (s *ExportService) buildMemberDataset(ctx context.Context, params models.ExportJobParams) (export.Dataset, string, error) {
	filter := models.MemberFilter{
		WorkspaceID: params.WorkspaceID,
		UnitID:      deref(params.UnitID),
		PageSize:    exportPageSize,
	}
	dataRows := make([]map[string]string, 0)
	for page := 1; ; page++ {
		filter.Page = page
		members, total, err := s.members.List(ctx, filter)
		if err != nil {
			return export.Dataset{}, "", err
		}
		for _, m := range members {
			dataRows = append(dataRows, map[string]string{
				"Full Name":  m.FullName,
				"Email":      m.Email,
				"Role":       string(m.Role),
				"Unit ID":    deref(m.UnitID),
				"Active":     strconv.FormatBool(m.Active),
				"Created At": m.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		if len(dataRows) >= total || len(members) == 0 {
			break
		}
	}
	dataset := export.Dataset{
		Headers: []string{"Full Name", "Email", "Role", "Unit ID", "Active", "Created At"},
		Rows:    dataRows,
	}
	return dataset, "Member Export", nil
}

func (s *ExportService) buildAssignmentDataset(ctx context.Context, params models.ExportJobParams) (export.Dataset, string, error) {
	filter := models.AssignmentFilter{
		WorkspaceID: params.WorkspaceID,
		PageSize:    exportPageSize,
	}
	dataRows := make([]map[string]string, 0)
	for page := 1; ; page++ {
		filter.Page = page
		assignments, total, err := s.assignments.List(ctx, filter)
		if err != nil {
			return export.Dataset{}, "", err
		}
		for _, a := range assignments {
			dataRows = append(dataRows, map[string]string{
				"Template ID":    a.TemplateID,
				"Member ID":      a.MemberID,
				"Status":         string(a.Status),
				"Allow Multiple": strconv.FormatBool(a.AllowMultiple),
				"Assigned At":    a.AssignedAt.UTC().Format(time.RFC3339),
				"Submitted At":   formatExportTime(a.SubmittedAt),
			})
		}
		if len(dataRows) >= total || len(assignments) == 0 {
			break
		}
	}
	dataset := export.Dataset{
		Headers: []string{"Template ID", "Member ID", "Status", "Allow Multiple", "Assigned At", "Submitted At"},
		Rows:    dataRows,
	}
	return dataset, "Assignment Export", nil
}

func (s *ExportService) buildReportDataset(ctx context.Context, params models.ExportJobParams) (export.Dataset, string, error) {
	reports, err := s.reports.ListByWorkspace(ctx, params.WorkspaceID, 500)
	if err != nil {
		return export.Dataset{}, "", err
	}
	dataRows := make([]map[string]string, 0, len(reports))
	for _, r := range reports {
		dataRows = append(dataRows, map[string]string{
			"Reference":    r.ReferenceNumber,
			"Template":     r.TemplateName,
			"Type":         string(r.TemplateType),
			"Submitted By": r.SubmittedBy,
			"Filename":     r.Filename,
			"Size (bytes)": strconv.FormatInt(r.SizeBytes, 10),
			"Generated At": r.GeneratedAt.UTC().Format(time.RFC3339),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Reference", "Template", "Type", "Submitted By", "Filename", "Size (bytes)", "Generated At"},
		Rows:    dataRows,
	}
	return dataset, "Issued Report Export", nil
}

func deref(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func formatExportTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
