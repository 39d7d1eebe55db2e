package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/workspace-admin-api/internal/dto"
	"github.com/noah-isme/workspace-admin-api/internal/models"
	"github.com/noah-isme/workspace-admin-api/internal/report"
	appErrors "github.com/noah-isme/workspace-admin-api/pkg/errors"
	"github.com/noah-isme/workspace-admin-api/pkg/qrcode"
	"github.com/noah-isme/workspace-admin-api/pkg/reference"
)

type workspaceFinder interface {
	FindByID(ctx context.Context, id string) (*models.Workspace, error)
}

type issuedReportStore interface {
	Create(ctx context.Context, rep *models.IssuedReport) error
	FindByReference(ctx context.Context, ref string) (*models.IssuedReport, error)
}

type pdfConverter interface {
	Convert(ctx context.Context, html string) ([]byte, error)
}

type reportMetricsObserver interface {
	ObserveReportGeneration(template string, success bool, duration time.Duration)
}

// ReportServiceConfig governs verification URL construction.
type ReportServiceConfig struct {
	// VerifyBaseURL is the externally reachable origin embedded in QR
	// payloads, e.g. https://reports.example.com.
	VerifyBaseURL string
}

// ReportService runs the report generation pipeline: reference number,
// QR code, HTML rendering, PDF conversion and issuance recording.
type ReportService struct {
	workspaces workspaceFinder
	issued     issuedReportStore
	converter  pdfConverter
	metrics    reportMetricsObserver
	logger     *zap.Logger
	cfg        ReportServiceConfig
}

// NewReportService constructs the report service.
func NewReportService(workspaces workspaceFinder, issued issuedReportStore, converter pdfConverter, cfg ReportServiceConfig, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		workspaces: workspaces,
		issued:     issued,
		converter:  converter,
		logger:     logger,
		cfg:        cfg,
	}
}

// WithMetrics attaches a pipeline metrics observer.
func (s *ReportService) WithMetrics(m reportMetricsObserver) *ReportService {
	s.metrics = m
	return s
}

func (s *ReportService) observe(templateType models.ReportTemplateType, success bool, started time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveReportGeneration(string(templateType), success, time.Since(started))
}

// Generate runs the full pipeline for one request and returns the PDF
// inline. Metadata is generated exactly once; the same reference number
// flows into the QR payload, the rendered document and the issuance record.
func (s *ReportService) Generate(ctx context.Context, req dto.GenerateReportRequest) (*dto.GenerateReportResponse, error) {
	templateName, submittedBy, submittedByEmail, err := requiredReportFields(req.ReportData)
	if err != nil {
		return nil, err
	}
	started := time.Now()

	branding, defaultType := s.resolveBranding(ctx, req.WorkspaceID)
	templateType := resolveTemplateType(req.ReportData, defaultType, templateName)

	meta := models.ReportMetadata{
		ReferenceNumber: reference.Generate(string(templateType)),
		GeneratedAt:     time.Now().UTC(),
	}
	qrURL, err := qrcode.DataURL(s.verifyURL(meta.ReferenceNumber))
	if err != nil {
		s.observe(templateType, false, started)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode verification qr code")
	}
	meta.QRCodeDataURL = qrURL

	html, err := report.Render(templateType, branding, meta, req.ReportData)
	if err != nil {
		s.observe(templateType, false, started)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report document")
	}

	pdf, err := s.converter.Convert(ctx, html)
	if err != nil {
		s.observe(templateType, false, started)
		return nil, appErrors.Wrap(err, appErrors.ErrConversion.Code, appErrors.ErrConversion.Status, "failed to convert report to pdf")
	}

	filename := req.Filename
	if filename == "" {
		filename = buildReportFilename(templateName, meta.GeneratedAt)
	}

	record := &models.IssuedReport{
		ReferenceNumber:  meta.ReferenceNumber,
		TemplateName:     templateName,
		TemplateType:     templateType,
		SubmittedBy:      submittedBy,
		SubmittedByEmail: submittedByEmail,
		Filename:         filename,
		SizeBytes:        int64(len(pdf)),
		GeneratedAt:      meta.GeneratedAt,
	}
	if req.WorkspaceID != "" {
		id := req.WorkspaceID
		record.WorkspaceID = &id
	}
	if err := s.issued.Create(ctx, record); err != nil {
		s.observe(templateType, false, started)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record issued report")
	}

	s.observe(templateType, true, started)
	s.logger.Info("report generated",
		zap.String("reference", meta.ReferenceNumber),
		zap.String("template_type", string(templateType)),
		zap.Int("size_bytes", len(pdf)),
	)

	return &dto.GenerateReportResponse{
		Success:         true,
		ReferenceNumber: meta.ReferenceNumber,
		Filename:        filename,
		PDF:             base64.StdEncoding.EncodeToString(pdf),
		Size:            int64(len(pdf)),
	}, nil
}

// Verify answers whether a reference number belongs to a report this system
// issued. Malformed or unknown references report invalid rather than erroring.
func (s *ReportService) Verify(ctx context.Context, ref string) (*dto.VerifyReportResponse, error) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	if !reference.IsValid(ref) {
		return &dto.VerifyReportResponse{Valid: false, ReferenceNumber: ref}, nil
	}
	rec, err := s.issued.FindByReference(ctx, ref)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &dto.VerifyReportResponse{Valid: false, ReferenceNumber: ref}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up reference")
	}
	generated := rec.GeneratedAt
	return &dto.VerifyReportResponse{
		Valid:           true,
		ReferenceNumber: rec.ReferenceNumber,
		TemplateName:    rec.TemplateName,
		TemplateType:    string(rec.TemplateType),
		SubmittedBy:     rec.SubmittedBy,
		GeneratedAt:     &generated,
	}, nil
}

// resolveBranding loads the workspace branding snapshot and the workspace's
// default report type. A missing or unreadable workspace degrades to
// unbranded output instead of failing the report.
func (s *ReportService) resolveBranding(ctx context.Context, workspaceID string) (models.WorkspaceBranding, models.ReportTemplateType) {
	if workspaceID == "" {
		return models.WorkspaceBranding{}, ""
	}
	ws, err := s.workspaces.FindByID(ctx, workspaceID)
	if err != nil {
		s.logger.Warn("workspace branding unavailable, rendering unbranded",
			zap.String("workspace_id", workspaceID),
			zap.Error(err),
		)
		return models.WorkspaceBranding{}, ""
	}
	return ws.Branding(), ws.DefaultReportType
}

// resolveTemplateType picks the layout: the request's explicit templateType
// wins, then the workspace default, then whatever the template name parses
// to. templateName is free-form, so it only decides the layout when nothing
// more specific is available.
func resolveTemplateType(data map[string]interface{}, workspaceDefault models.ReportTemplateType, templateName string) models.ReportTemplateType {
	if raw := stringField(data, "templateType"); raw != "" {
		return models.ParseReportTemplateType(raw)
	}
	if workspaceDefault != "" {
		return workspaceDefault
	}
	return models.ParseReportTemplateType(templateName)
}

func (s *ReportService) verifyURL(ref string) string {
	base := strings.TrimRight(s.cfg.VerifyBaseURL, "/")
	return fmt.Sprintf("%s/public/reports/%s/verify", base, ref)
}

func requiredReportFields(data map[string]interface{}) (templateName, submittedBy, submittedByEmail string, err error) {
	if len(data) == 0 {
		return "", "", "", appErrors.Clone(appErrors.ErrValidation, "reportData is required")
	}
	templateName = stringField(data, "templateName")
	if templateName == "" {
		return "", "", "", appErrors.Clone(appErrors.ErrValidation, "templateName is required")
	}
	submittedBy = stringField(data, "submittedBy")
	if submittedBy == "" {
		return "", "", "", appErrors.Clone(appErrors.ErrValidation, "submittedBy is required")
	}
	submittedByEmail = stringField(data, "submittedByEmail")
	if submittedByEmail == "" {
		return "", "", "", appErrors.Clone(appErrors.ErrValidation, "submittedByEmail is required")
	}
	return templateName, submittedBy, submittedByEmail, nil
}

func stringField(data map[string]interface{}, key string) string {
	if v, ok := data[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// buildReportFilename derives <Name>_<YYYY-MM-DD>.pdf from the template
// name, keeping only ASCII letters and digits.
func buildReportFilename(templateName string, generatedAt time.Time) string {
	var b strings.Builder
	for _, r := range templateName {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		name = "report"
	}
	return fmt.Sprintf("%s_%s.pdf", name, generatedAt.Format("2006-01-02"))
}
