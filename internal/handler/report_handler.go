package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/workspace-admin-api/internal/dto"
	"github.com/noah-isme/workspace-admin-api/internal/models"
	appErrors "github.com/noah-isme/workspace-admin-api/pkg/errors"
	"github.com/noah-isme/workspace-admin-api/pkg/response"
)

type reportGenerator interface {
	Generate(ctx context.Context, req dto.GenerateReportRequest) (*dto.GenerateReportResponse, error)
}

type reportHistory interface {
	List(ctx context.Context, workspaceID string, limit int) ([]models.IssuedReport, error)
}

// ReportHandler exposes report generation and history endpoints.
type ReportHandler struct {
	reports reportGenerator
	issued  reportHistory
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports reportGenerator, issued reportHistory) *ReportHandler {
	return &ReportHandler{reports: reports, issued: issued}
}

// Generate godoc
// @Summary Generate a PDF report from submitted form data
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.GenerateReportRequest true "Report payload"
// @Success 200 {object} response.Envelope
// @Router /reports/generate [post]
func (h *ReportHandler) Generate(c *gin.Context) {
	var req dto.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.reports.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// History godoc
// @Summary List issued reports for a workspace
// @Tags Reports
// @Produce json
// @Param workspaceId query string true "Workspace ID"
// @Param limit query int false "Max records"
// @Success 200 {object} response.Envelope
// @Router /reports [get]
func (h *ReportHandler) History(c *gin.Context) {
	workspaceID := c.Query("workspaceId")
	if workspaceID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "workspaceId required"))
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	reports, err := h.issued.List(c.Request.Context(), workspaceID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, nil)
}
