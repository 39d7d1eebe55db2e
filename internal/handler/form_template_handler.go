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

// FormTemplateHandler exposes form template endpoints.
type FormTemplateHandler struct {
	templates *service.FormTemplateService
}

// NewFormTemplateHandler constructs FormTemplateHandler.
func NewFormTemplateHandler(templates *service.FormTemplateService) *FormTemplateHandler {
	return &FormTemplateHandler{templates: templates}
}

// List godoc
// @Summary List form templates of a workspace
// @Tags FormTemplates
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param active query bool false "Filter by active state"
// @Param search query string false "Search by name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{workspaceId}/form-templates [get]
func (h *FormTemplateHandler) List(c *gin.Context) {
	var filter models.FormTemplateFilter
	filter.WorkspaceID = c.Param("workspaceId")
	filter.Search = strings.TrimSpace(c.Query("search"))
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

	templates, pagination, err := h.templates.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, templates, pagination)
}

// Get godoc
// @Summary Get form template detail
// @Tags FormTemplates
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param id path string true "Template ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{workspaceId}/form-templates/{id} [get]
func (h *FormTemplateHandler) Get(c *gin.Context) {
	template, err := h.templates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, template, nil)
}

// Create godoc
// @Summary Create form template
// @Tags FormTemplates
// @Accept json
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param payload body dto.CreateFormTemplateRequest true "Template payload"
// @Success 201 {object} response.Envelope
// @Router /workspaces/{workspaceId}/form-templates [post]
func (h *FormTemplateHandler) Create(c *gin.Context) {
	var req dto.CreateFormTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	template, err := h.templates.Create(c.Request.Context(), c.Param("workspaceId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, template)
}

// Update godoc
// @Summary Update form template
// @Tags FormTemplates
// @Accept json
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param id path string true "Template ID"
// @Param payload body dto.UpdateFormTemplateRequest true "Template payload"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{workspaceId}/form-templates/{id} [put]
func (h *FormTemplateHandler) Update(c *gin.Context) {
	var req dto.UpdateFormTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	template, err := h.templates.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, template, nil)
}

// Delete godoc
// @Summary Deactivate form template
// @Tags FormTemplates
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param id path string true "Template ID"
// @Success 204
// @Router /workspaces/{workspaceId}/form-templates/{id} [delete]
func (h *FormTemplateHandler) Delete(c *gin.Context) {
	if err := h.templates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
