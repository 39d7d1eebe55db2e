package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/workspace-admin-api/internal/models"
	"github.com/noah-isme/workspace-admin-api/pkg/export"
	"github.com/noah-isme/workspace-admin-api/pkg/storage"
)

type memberSourceStub struct{}

func (memberSourceStub) List(ctx context.Context, filter models.MemberFilter) ([]models.Member, int, error) {
	if filter.Page > 1 {
		return nil, 2, nil
	}
	return []models.Member{
		{ID: "mem-1", FullName: "Jane Smith", Email: "jane@example.com", Role: models.MemberRoleMember, Active: true, CreatedAt: time.Now()},
		{ID: "mem-2", FullName: "John Doe", Email: "john@example.com", Role: models.MemberRoleAdmin, Active: true, CreatedAt: time.Now()},
	}, 2, nil
}

type assignmentSourceStub struct{}

func (assignmentSourceStub) List(ctx context.Context, filter models.AssignmentFilter) ([]models.FormAssignment, int, error) {
	if filter.Page > 1 {
		return nil, 1, nil
	}
	return []models.FormAssignment{
		{ID: "asg-1", TemplateID: "tpl-1", MemberID: "mem-1", Status: models.AssignmentStatusSubmitted, AssignedAt: time.Now()},
	}, 1, nil
}

type reportSourceStub struct{}

func (reportSourceStub) ListByWorkspace(ctx context.Context, workspaceID string, limit int) ([]models.IssuedReport, error) {
	return []models.IssuedReport{
		{ID: "rep-1", ReferenceNumber: "TR-2026-A1B2C3", TemplateName: "transcript", TemplateType: models.ReportTemplateTranscript, SubmittedBy: "Jane Smith", Filename: "JaneSmith_2026-08-29.pdf", SizeBytes: 1024, GeneratedAt: time.Now()},
	}, nil
}

func newExportServiceForTest(t *testing.T) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	cfg := ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}
	svc := NewExportService(memberSourceStub{}, assignmentSourceStub{}, reportSourceStub{}, store, signer, cfg, zap.NewNop(), export.NewCSVExporter(), export.NewPDFExporter())
	return svc, store
}

func TestExportServiceGenerateMembersCSV(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ExportJob{
		ID:        "job-1",
		Type:      models.ExportTypeMembers,
		Params:    models.ExportJobParams{WorkspaceID: "ws-1", Format: models.ExportFormatCSV},
		CreatedBy: "admin",
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	require.NotEmpty(t, result.RelativePath)
	require.Contains(t, result.URL, "/exports/download/")

	path := store.Path(result.RelativePath)
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportServiceGenerateReportsPDF(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ExportJob{
		ID:        "job-2",
		Type:      models.ExportTypeReports,
		Params:    models.ExportJobParams{WorkspaceID: "ws-1", Format: models.ExportFormatPDF},
		CreatedBy: "admin",
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	require.Equal(t, models.ExportFormatPDF, result.Format)

	path := filepath.Clean(store.Path(result.RelativePath))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportServiceGenerateAssignmentsCSV(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	job := &models.ExportJob{
		ID:        "job-3",
		Type:      models.ExportTypeAssignments,
		Params:    models.ExportJobParams{WorkspaceID: "ws-1", Format: models.ExportFormatCSV},
		CreatedBy: "admin",
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
}

func TestExportServiceRejectsUnknownType(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	job := &models.ExportJob{
		ID:     "job-4",
		Type:   models.ExportType("calendar"),
		Params: models.ExportJobParams{WorkspaceID: "ws-1", Format: models.ExportFormatCSV},
	}
	_, err := svc.Generate(context.Background(), job)
	require.Error(t, err)
}
