package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/workspace-admin-api/internal/dto"
	"github.com/noah-isme/workspace-admin-api/internal/models"
	"github.com/noah-isme/workspace-admin-api/internal/service"
	appErrors "github.com/noah-isme/workspace-admin-api/pkg/errors"
	"github.com/noah-isme/workspace-admin-api/pkg/response"
)

// FormAssignmentHandler exposes the assignment lifecycle endpoints.
type FormAssignmentHandler struct {
	assignments *service.FormAssignmentService
}

// NewFormAssignmentHandler constructs FormAssignmentHandler.
func NewFormAssignmentHandler(assignments *service.FormAssignmentService) *FormAssignmentHandler {
	return &FormAssignmentHandler{assignments: assignments}
}

// List godoc
// @Summary List form assignments of a workspace
// @Tags FormAssignments
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param templateId query string false "Filter by template"
// @Param memberId query string false "Filter by member"
// @Param status query string false "Filter by lifecycle status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{workspaceId}/form-assignments [get]
func (h *FormAssignmentHandler) List(c *gin.Context) {
	var filter models.AssignmentFilter
	filter.WorkspaceID = c.Param("workspaceId")
	filter.TemplateID = c.Query("templateId")
	filter.MemberID = c.Query("memberId")
	if raw := c.Query("status"); raw != "" {
		status := models.AssignmentStatus(strings.ToUpper(raw))
		filter.Status = &status
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	assignments, pagination, err := h.assignments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, pagination)
}

// Get godoc
// @Summary Get assignment detail
// @Tags FormAssignments
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{workspaceId}/form-assignments/{id} [get]
func (h *FormAssignmentHandler) Get(c *gin.Context) {
	assignment, err := h.assignments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Create godoc
// @Summary Assign a form template to a member
// @Tags FormAssignments
// @Accept json
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param payload body dto.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /workspaces/{workspaceId}/form-assignments [post]
func (h *FormAssignmentHandler) Create(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	assignment, err := h.assignments.Create(c.Request.Context(), c.Param("workspaceId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Start godoc
// @Summary Mark an assignment as in progress
// @Tags FormAssignments
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{workspaceId}/form-assignments/{id}/start [post]
func (h *FormAssignmentHandler) Start(c *gin.Context) {
	assignment, err := h.assignments.Start(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Review godoc
// @Summary Approve or reject a submitted assignment
// @Tags FormAssignments
// @Accept json
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param id path string true "Assignment ID"
// @Param payload body dto.ReviewAssignmentRequest true "Review decision"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{workspaceId}/form-assignments/{id}/review [post]
func (h *FormAssignmentHandler) Review(c *gin.Context) {
	var req dto.ReviewAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	reviewerID := ""
	if claims := claimsFromContext(c); claims != nil {
		reviewerID = claims.UserID
	}
	assignment, err := h.assignments.Review(c.Request.Context(), c.Param("id"), reviewerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// SetActive godoc
// @Summary Toggle the public availability of an assignment
// @Tags FormAssignments
// @Accept json
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param id path string true "Assignment ID"
// @Param payload body dto.SetAssignmentActiveRequest true "Active flag"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{workspaceId}/form-assignments/{id}/active [put]
func (h *FormAssignmentHandler) SetActive(c *gin.Context) {
	var req dto.SetAssignmentActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	assignment, err := h.assignments.SetActive(c.Request.Context(), c.Param("id"), *req.Active)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Submissions godoc
// @Summary List submission history of an assignment
// @Tags FormAssignments
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{workspaceId}/form-assignments/{id}/submissions [get]
func (h *FormAssignmentHandler) Submissions(c *gin.Context) {
	submissions, err := h.assignments.Submissions(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submissions, nil)
}
