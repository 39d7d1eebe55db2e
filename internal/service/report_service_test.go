package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/workspace-admin-api/internal/dto"
	"github.com/noah-isme/workspace-admin-api/internal/models"
	appErrors "github.com/noah-isme/workspace-admin-api/pkg/errors"
	"github.com/noah-isme/workspace-admin-api/pkg/reference"
)

type stubWorkspaceFinder struct {
	ws  *models.Workspace
	err error
}

func (s *stubWorkspaceFinder) FindByID(ctx context.Context, id string) (*models.Workspace, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.ws, nil
}

type stubIssuedStore struct {
	created *models.IssuedReport
	found   *models.IssuedReport
	findErr error
	saveErr error
}

func (s *stubIssuedStore) Create(ctx context.Context, rep *models.IssuedReport) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.created = rep
	return nil
}

func (s *stubIssuedStore) FindByReference(ctx context.Context, ref string) (*models.IssuedReport, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.found, nil
}

type stubConverter struct {
	pdf      []byte
	err      error
	lastHTML string
}

func (s *stubConverter) Convert(ctx context.Context, html string) ([]byte, error) {
	s.lastHTML = html
	if s.err != nil {
		return nil, s.err
	}
	return s.pdf, nil
}

func validReportData() map[string]interface{} {
	return map[string]interface{}{
		"templateName":     "transcript",
		"submittedBy":      "Jane Smith",
		"submittedByEmail": "jane@example.com",
		"studentName":      "Jane Smith",
		"courses": []interface{}{
			map[string]interface{}{"code": "CS101", "title": "Intro", "credits": 3, "grade": "A"},
		},
	}
}

func newTestReportService(ws *stubWorkspaceFinder, issued *stubIssuedStore, conv *stubConverter) *ReportService {
	return NewReportService(ws, issued, conv, ReportServiceConfig{VerifyBaseURL: "https://reports.example.com"}, nil)
}

func TestReportServiceGeneratePipeline(t *testing.T) {
	color := "#123456"
	ws := &stubWorkspaceFinder{ws: &models.Workspace{ID: "ws-1", Name: "Acme University", Type: models.WorkspaceTypeEducation, PrimaryColor: &color}}
	issued := &stubIssuedStore{}
	conv := &stubConverter{pdf: []byte("%PDF-1.4 fake")}
	svc := newTestReportService(ws, issued, conv)

	req := dto.GenerateReportRequest{ReportData: validReportData(), WorkspaceID: "ws-1"}
	resp, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.True(t, reference.IsValid(resp.ReferenceNumber))
	require.True(t, strings.HasPrefix(resp.ReferenceNumber, "TR-"))
	require.Equal(t, int64(len(conv.pdf)), resp.Size)

	decoded, err := base64.StdEncoding.DecodeString(resp.PDF)
	require.NoError(t, err)
	require.Equal(t, conv.pdf, decoded)

	// The rendered document carries the branding and the same reference
	// that the issuance record stores.
	require.Contains(t, conv.lastHTML, "Acme University")
	require.Contains(t, conv.lastHTML, resp.ReferenceNumber)
	require.NotNil(t, issued.created)
	require.Equal(t, resp.ReferenceNumber, issued.created.ReferenceNumber)
	require.Equal(t, models.ReportTemplateTranscript, issued.created.TemplateType)
	require.Equal(t, "jane@example.com", issued.created.SubmittedByEmail)
}

func TestReportServiceGenerateValidatesRequiredFields(t *testing.T) {
	svc := newTestReportService(&stubWorkspaceFinder{}, &stubIssuedStore{}, &stubConverter{pdf: []byte("x")})

	for _, missing := range []string{"templateName", "submittedBy", "submittedByEmail"} {
		data := validReportData()
		delete(data, missing)
		_, err := svc.Generate(context.Background(), dto.GenerateReportRequest{ReportData: data})
		require.Error(t, err, missing)
		appErr := appErrors.FromError(err)
		require.Equal(t, appErrors.ErrValidation.Code, appErr.Code, missing)
	}
}

func TestReportServiceGenerateUnknownTemplateFallsBack(t *testing.T) {
	issued := &stubIssuedStore{}
	conv := &stubConverter{pdf: []byte("pdf")}
	svc := newTestReportService(&stubWorkspaceFinder{}, issued, conv)

	data := validReportData()
	data["templateName"] = "quarterly-summary"
	resp, err := svc.Generate(context.Background(), dto.GenerateReportRequest{ReportData: data})
	require.NoError(t, err)
	require.Equal(t, models.ReportTemplateGeneric, issued.created.TemplateType)
	require.True(t, strings.HasPrefix(resp.ReferenceNumber, "GE-"))
}

func TestReportServiceGenerateBrandingFallback(t *testing.T) {
	ws := &stubWorkspaceFinder{err: sql.ErrNoRows}
	issued := &stubIssuedStore{}
	conv := &stubConverter{pdf: []byte("pdf")}
	svc := newTestReportService(ws, issued, conv)

	resp, err := svc.Generate(context.Background(), dto.GenerateReportRequest{ReportData: validReportData(), WorkspaceID: "missing"})
	require.NoError(t, err)
	require.True(t, resp.Success)
}

func TestReportServiceGenerateConversionFailure(t *testing.T) {
	conv := &stubConverter{err: errors.New("renderer crashed")}
	issued := &stubIssuedStore{}
	svc := newTestReportService(&stubWorkspaceFinder{}, issued, conv)

	_, err := svc.Generate(context.Background(), dto.GenerateReportRequest{ReportData: validReportData()})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrConversion.Code, appErr.Code)
	// No issuance record for a failed conversion.
	require.Nil(t, issued.created)
}

func TestReportServiceGenerateFilenameFromTemplateName(t *testing.T) {
	issued := &stubIssuedStore{}
	conv := &stubConverter{pdf: []byte("pdf")}
	svc := newTestReportService(&stubWorkspaceFinder{}, issued, conv)

	data := validReportData()
	data["templateName"] = "Official Transcript (v2)"
	resp, err := svc.Generate(context.Background(), dto.GenerateReportRequest{ReportData: data})
	require.NoError(t, err)
	want := "OfficialTranscriptv2_" + time.Now().UTC().Format("2006-01-02") + ".pdf"
	require.Equal(t, want, resp.Filename)
}

func TestReportServiceGenerateExplicitTemplateType(t *testing.T) {
	issued := &stubIssuedStore{}
	conv := &stubConverter{pdf: []byte("pdf")}
	svc := newTestReportService(&stubWorkspaceFinder{}, issued, conv)

	data := validReportData()
	data["templateName"] = "Spring Gala Award"
	data["templateType"] = "CERTIFICATE"
	data["recipientName"] = "Jane Smith"
	resp, err := svc.Generate(context.Background(), dto.GenerateReportRequest{ReportData: data})
	require.NoError(t, err)
	require.Equal(t, models.ReportTemplateCertificate, issued.created.TemplateType)
	require.True(t, strings.HasPrefix(resp.ReferenceNumber, "CE-"))
}

func TestReportServiceGenerateWorkspaceDefaultType(t *testing.T) {
	ws := &stubWorkspaceFinder{ws: &models.Workspace{
		ID:                "ws-1",
		Name:              "Acme Corp",
		Type:              models.WorkspaceTypeCorporate,
		DefaultReportType: models.ReportTemplateReceipt,
	}}
	issued := &stubIssuedStore{}
	conv := &stubConverter{pdf: []byte("pdf")}
	svc := newTestReportService(ws, issued, conv)

	data := validReportData()
	data["templateName"] = "Monthly Dues"
	resp, err := svc.Generate(context.Background(), dto.GenerateReportRequest{ReportData: data, WorkspaceID: "ws-1"})
	require.NoError(t, err)
	require.Equal(t, models.ReportTemplateReceipt, issued.created.TemplateType)
	require.True(t, strings.HasPrefix(resp.ReferenceNumber, "RE-"))
}

func TestReportServiceGenerateExplicitFilenameWins(t *testing.T) {
	issued := &stubIssuedStore{}
	conv := &stubConverter{pdf: []byte("pdf")}
	svc := newTestReportService(&stubWorkspaceFinder{}, issued, conv)

	resp, err := svc.Generate(context.Background(), dto.GenerateReportRequest{ReportData: validReportData(), Filename: "custom.pdf"})
	require.NoError(t, err)
	require.Equal(t, "custom.pdf", resp.Filename)
	require.Equal(t, "custom.pdf", issued.created.Filename)
}

func TestReportServiceVerify(t *testing.T) {
	now := time.Now().UTC()
	issued := &stubIssuedStore{found: &models.IssuedReport{
		ReferenceNumber: "TR-2026-A1B2C3",
		TemplateName:    "transcript",
		TemplateType:    models.ReportTemplateTranscript,
		SubmittedBy:     "Jane Smith",
		GeneratedAt:     now,
	}}
	svc := newTestReportService(&stubWorkspaceFinder{}, issued, &stubConverter{})

	resp, err := svc.Verify(context.Background(), "tr-2026-a1b2c3")
	require.NoError(t, err)
	require.True(t, resp.Valid)
	require.Equal(t, "TR-2026-A1B2C3", resp.ReferenceNumber)
	require.Equal(t, "Jane Smith", resp.SubmittedBy)
}

func TestReportServiceVerifyMalformedReference(t *testing.T) {
	svc := newTestReportService(&stubWorkspaceFinder{}, &stubIssuedStore{}, &stubConverter{})

	resp, err := svc.Verify(context.Background(), "not-a-reference")
	require.NoError(t, err)
	require.False(t, resp.Valid)
}

func TestReportServiceVerifyUnknownReference(t *testing.T) {
	issued := &stubIssuedStore{findErr: sql.ErrNoRows}
	svc := newTestReportService(&stubWorkspaceFinder{}, issued, &stubConverter{})

	resp, err := svc.Verify(context.Background(), "ZZ-2026-000000")
	require.NoError(t, err)
	require.False(t, resp.Valid)
}

type stubReportMetrics struct {
	template string
	success  bool
	calls    int
}

func (s *stubReportMetrics) ObserveReportGeneration(template string, success bool, duration time.Duration) {
	s.template = template
	s.success = success
	s.calls++
}

func TestReportServiceGenerateObservesMetrics(t *testing.T) {
	metrics := &stubReportMetrics{}
	svc := newTestReportService(&stubWorkspaceFinder{}, &stubIssuedStore{}, &stubConverter{pdf: []byte("%PDF")}).WithMetrics(metrics)

	_, err := svc.Generate(context.Background(), dto.GenerateReportRequest{ReportData: validReportData()})
	require.NoError(t, err)
	require.Equal(t, 1, metrics.calls)
	require.True(t, metrics.success)
	require.Equal(t, string(models.ReportTemplateTranscript), metrics.template)
}

func TestReportServiceConversionFailureObservesMetrics(t *testing.T) {
	metrics := &stubReportMetrics{}
	conv := &stubConverter{err: errors.New("wkhtmltopdf exited 1")}
	svc := newTestReportService(&stubWorkspaceFinder{}, &stubIssuedStore{}, conv).WithMetrics(metrics)

	_, err := svc.Generate(context.Background(), dto.GenerateReportRequest{ReportData: validReportData()})
	require.Error(t, err)
	require.Equal(t, 1, metrics.calls)
	require.False(t, metrics.success)
}
