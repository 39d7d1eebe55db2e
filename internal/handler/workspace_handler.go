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

// WorkspaceHandler exposes workspace endpoints.
type WorkspaceHandler struct {
	workspaces *service.WorkspaceService
}

// NewWorkspaceHandler constructs WorkspaceHandler.
func NewWorkspaceHandler(workspaces *service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces}
}

// List godoc
// @Summary List workspaces
// @Tags Workspaces
// @Produce json
// @Param type query string false "Filter by workspace type"
// @Param active query bool false "Filter by active state"
// @Param search query string false "Search by name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /workspaces [get]
func (h *WorkspaceHandler) List(c *gin.Context) {
	var filter models.WorkspaceFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	if raw := c.Query("type"); raw != "" {
		wsType := models.WorkspaceType(strings.ToUpper(raw))
		filter.Type = &wsType
	}
	if active := c.Query("active"); active != "" {
		v := active == "true"
		filter.Active = &v
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	workspaces, pagination, err := h.workspaces.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workspaces, pagination)
}

// Get godoc
// @Summary Get workspace detail
// @Tags Workspaces
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{workspaceId} [get]
func (h *WorkspaceHandler) Get(c *gin.Context) {
	workspace, err := h.workspaces.Get(c.Request.Context(), c.Param("workspaceId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workspace, nil)
}

// Create godoc
// @Summary Create workspace
// @Tags Workspaces
// @Accept json
// @Produce json
// @Param payload body dto.CreateWorkspaceRequest true "Workspace payload"
// @Success 201 {object} response.Envelope
// @Router /workspaces [post]
func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req dto.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	workspace, err := h.workspaces.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, workspace)
}

// Update godoc
// @Summary Update workspace
// @Tags Workspaces
// @Accept json
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param payload body dto.UpdateWorkspaceRequest true "Workspace payload"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{workspaceId} [put]
func (h *WorkspaceHandler) Update(c *gin.Context) {
	var req dto.UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	workspace, err := h.workspaces.Update(c.Request.Context(), c.Param("workspaceId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workspace, nil)
}

// Delete godoc
// @Summary Deactivate workspace
// @Tags Workspaces
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Success 204
// @Router /workspaces/{workspaceId} [delete]
func (h *WorkspaceHandler) Delete(c *gin.Context) {
	if err := h.workspaces.Delete(c.Request.Context(), c.Param("workspaceId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
