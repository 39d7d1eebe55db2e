package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/workspace-admin-api/internal/dto"
	"github.com/noah-isme/workspace-admin-api/internal/models"
	appErrors "github.com/noah-isme/workspace-admin-api/pkg/errors"
)

type reportServiceMock struct {
	generateResp *dto.GenerateReportResponse
	generateErr  error
	history      []models.IssuedReport
	historyErr   error
}

func (m *reportServiceMock) Generate(ctx context.Context, req dto.GenerateReportRequest) (*dto.GenerateReportResponse, error) {
	return m.generateResp, m.generateErr
}

func (m *reportServiceMock) List(ctx context.Context, workspaceID string, limit int) ([]models.IssuedReport, error) {
	return m.history, m.historyErr
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestReportHandlerGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{
		generateResp: &dto.GenerateReportResponse{
			Success:         true,
			ReferenceNumber: "TR-2026-A1B2C3",
			Filename:        "JaneSmith_2026-08-29.pdf",
			PDF:             "JVBERi0=",
			Size:            1024,
		},
	}
	handler := NewReportHandler(mockSvc, mockSvc)

	payload, _ := json.Marshal(dto.GenerateReportRequest{
		ReportData: map[string]interface{}{
			"templateName":     "transcript",
			"submittedBy":      "Jane Smith",
			"submittedByEmail": "jane@example.com",
		},
	})
	c, w := newGinContext(http.MethodPost, "/reports/generate", payload)

	handler.Generate(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "TR-2026-A1B2C3")
}

func TestReportHandlerGenerateInvalidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportServiceMock{}, &reportServiceMock{})

	c, w := newGinContext(http.MethodPost, "/reports/generate", []byte("{not json"))

	handler.Generate(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlerGenerateConversionFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{generateErr: appErrors.ErrConversion}
	handler := NewReportHandler(mockSvc, mockSvc)

	payload, _ := json.Marshal(dto.GenerateReportRequest{
		ReportData: map[string]interface{}{"templateName": "transcript"},
	})
	c, w := newGinContext(http.MethodPost, "/reports/generate", payload)

	handler.Generate(c)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), appErrors.ErrConversion.Code)
}

func TestReportHandlerHistory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{history: []models.IssuedReport{
		{ReferenceNumber: "CE-2026-X9Y8Z7", TemplateName: "certificate", GeneratedAt: time.Now()},
	}}
	handler := NewReportHandler(mockSvc, mockSvc)

	c, w := newGinContext(http.MethodGet, "/reports?workspaceId=ws-1", nil)

	handler.History(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "CE-2026-X9Y8Z7")
}

func TestReportHandlerHistoryRequiresWorkspace(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportServiceMock{}, &reportServiceMock{})

	c, w := newGinContext(http.MethodGet, "/reports", nil)

	handler.History(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
