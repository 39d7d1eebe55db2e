package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/workspace-admin-api/internal/dto"
	"github.com/noah-isme/workspace-admin-api/internal/middleware"
	"github.com/noah-isme/workspace-admin-api/internal/models"
	appErrors "github.com/noah-isme/workspace-admin-api/pkg/errors"
)

type publicServiceMock struct {
	assignment    *dto.PublicAssignmentResponse
	assignmentErr error
	cached        bool
	member        *dto.PublicMemberResponse
	memberErr     error
	submitted     *models.FormAssignment
	submitErr     error
	verify        *dto.VerifyReportResponse
	verifyErr     error
}

func (m *publicServiceMock) Assignment(ctx context.Context, publicSlug string) (*dto.PublicAssignmentResponse, bool, error) {
	return m.assignment, m.cached, m.assignmentErr
}

func (m *publicServiceMock) Member(ctx context.Context, publicSlug string) (*dto.PublicMemberResponse, bool, error) {
	return m.member, m.cached, m.memberErr
}

func (m *publicServiceMock) Submit(ctx context.Context, publicSlug string, req dto.SubmitAssignmentRequest) (*models.FormAssignment, error) {
	return m.submitted, m.submitErr
}

func (m *publicServiceMock) Verify(ctx context.Context, ref string) (*dto.VerifyReportResponse, error) {
	return m.verify, m.verifyErr
}

func buildPublicRouter(mock *publicServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.WithResponseMeta())
	h := NewPublicHandler(mock, mock, mock)
	r.GET("/public/assignments/:slug", h.Assignment)
	r.POST("/public/assignments/:slug/submissions", h.Submit)
	r.GET("/public/members/:slug", h.Member)
	r.GET("/public/reports/:reference/verify", h.VerifyReport)
	return r
}

func performRequest(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPublicHandlerAssignment(t *testing.T) {
	router := buildPublicRouter(&publicServiceMock{
		assignment: &dto.PublicAssignmentResponse{
			Slug:         "expense-form-jane-smith-q8r4t1",
			TemplateName: "Expense Form",
			MemberName:   "Jane Smith",
			Workspace:    "Acme Corp",
			Status:       models.AssignmentStatusPending,
		},
	})

	req, _ := http.NewRequest(http.MethodGet, "/public/assignments/expense-form-jane-smith-q8r4t1", nil)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "Expense Form")
	require.Contains(t, resp.Body.String(), `"cache_hit":false`)
	require.Contains(t, resp.Body.String(), "processing_time_ms")
}

func TestPublicHandlerAssignmentReportsCacheHit(t *testing.T) {
	router := buildPublicRouter(&publicServiceMock{
		assignment: &dto.PublicAssignmentResponse{Slug: "expense-form-jane-smith-q8r4t1"},
		cached:     true,
	})

	req, _ := http.NewRequest(http.MethodGet, "/public/assignments/expense-form-jane-smith-q8r4t1", nil)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"cache_hit":true`)
}

func TestPublicHandlerAssignmentInactive(t *testing.T) {
	router := buildPublicRouter(&publicServiceMock{
		assignmentErr: appErrors.ErrInactiveResource,
	})

	req, _ := http.NewRequest(http.MethodGet, "/public/assignments/old-slug", nil)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusForbidden, resp.Code)
	require.Contains(t, resp.Body.String(), appErrors.ErrInactiveResource.Code)
}

func TestPublicHandlerSubmit(t *testing.T) {
	now := time.Now().UTC()
	router := buildPublicRouter(&publicServiceMock{
		submitted: &models.FormAssignment{
			Status:      models.AssignmentStatusSubmitted,
			SubmittedAt: &now,
		},
	})

	body := `{"responses":{"amount":42}}`
	req, _ := http.NewRequest(http.MethodPost, "/public/assignments/some-slug/submissions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), string(models.AssignmentStatusSubmitted))
}

func TestPublicHandlerSubmitInvalidBody(t *testing.T) {
	router := buildPublicRouter(&publicServiceMock{})

	req, _ := http.NewRequest(http.MethodPost, "/public/assignments/some-slug/submissions", bytes.NewBufferString("{broken"))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPublicHandlerMemberNotFound(t *testing.T) {
	router := buildPublicRouter(&publicServiceMock{
		memberErr: appErrors.ErrNotFound,
	})

	req, _ := http.NewRequest(http.MethodGet, "/public/members/missing", nil)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestPublicHandlerVerifyReport(t *testing.T) {
	router := buildPublicRouter(&publicServiceMock{
		verify: &dto.VerifyReportResponse{
			Valid:           true,
			ReferenceNumber: "TR-2026-A1B2C3",
			TemplateName:    "transcript",
		},
	})

	req, _ := http.NewRequest(http.MethodGet, "/public/reports/TR-2026-A1B2C3/verify", nil)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"valid":true`)
}
