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

// MemberHandler exposes member endpoints scoped to a workspace.
type MemberHandler struct {
	members *service.MemberService
}

// NewMemberHandler constructs MemberHandler.
func NewMemberHandler(members *service.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

// List godoc
// @Summary List workspace members
// @Tags Members
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param unitId query string false "Filter by unit"
// @Param role query string false "Filter by role"
// @Param active query bool false "Filter by active state"
// @Param search query string false "Search by name or email"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{workspaceId}/members [get]
func (h *MemberHandler) List(c *gin.Context) {
	var filter models.MemberFilter
	filter.WorkspaceID = c.Param("workspaceId")
	filter.UnitID = c.Query("unitId")
	filter.Search = strings.TrimSpace(c.Query("search"))
	if raw := c.Query("role"); raw != "" {
		role := models.MemberRole(strings.ToUpper(raw))
		filter.Role = &role
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

	members, pagination, err := h.members.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, members, pagination)
}

// Get godoc
// @Summary Get member detail
// @Tags Members
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param id path string true "Member ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{workspaceId}/members/{id} [get]
func (h *MemberHandler) Get(c *gin.Context) {
	member, err := h.members.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// Create godoc
// @Summary Add a member to a workspace
// @Tags Members
// @Accept json
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param payload body dto.CreateMemberRequest true "Member payload"
// @Success 201 {object} response.Envelope
// @Router /workspaces/{workspaceId}/members [post]
func (h *MemberHandler) Create(c *gin.Context) {
	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	member, err := h.members.Create(c.Request.Context(), c.Param("workspaceId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, member)
}

// Update godoc
// @Summary Update member
// @Tags Members
// @Accept json
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param id path string true "Member ID"
// @Param payload body dto.UpdateMemberRequest true "Member payload"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{workspaceId}/members/{id} [put]
func (h *MemberHandler) Update(c *gin.Context) {
	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	member, err := h.members.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// Delete godoc
// @Summary Deactivate member
// @Tags Members
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param id path string true "Member ID"
// @Success 204
// @Router /workspaces/{workspaceId}/members/{id} [delete]
func (h *MemberHandler) Delete(c *gin.Context) {
	if err := h.members.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
