package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/workspace-admin-api/internal/dto"
	"github.com/noah-isme/workspace-admin-api/internal/service"
	appErrors "github.com/noah-isme/workspace-admin-api/pkg/errors"
	"github.com/noah-isme/workspace-admin-api/pkg/response"
)

// UnitHandler exposes organizational unit endpoints.
type UnitHandler struct {
	units *service.UnitService
}

// NewUnitHandler constructs UnitHandler.
func NewUnitHandler(units *service.UnitService) *UnitHandler {
	return &UnitHandler{units: units}
}

// Tree godoc
// @Summary Get the unit hierarchy of a workspace
// @Tags Units
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{workspaceId}/units [get]
func (h *UnitHandler) Tree(c *gin.Context) {
	tree, err := h.units.Tree(c.Request.Context(), c.Param("workspaceId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tree, nil)
}

// Get godoc
// @Summary Get unit detail
// @Tags Units
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param id path string true "Unit ID"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{workspaceId}/units/{id} [get]
func (h *UnitHandler) Get(c *gin.Context) {
	unit, err := h.units.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, unit, nil)
}

// Create godoc
// @Summary Create unit
// @Tags Units
// @Accept json
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param payload body dto.CreateUnitRequest true "Unit payload"
// @Success 201 {object} response.Envelope
// @Router /workspaces/{workspaceId}/units [post]
func (h *UnitHandler) Create(c *gin.Context) {
	var req dto.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	unit, err := h.units.Create(c.Request.Context(), c.Param("workspaceId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, unit)
}

// Update godoc
// @Summary Update unit
// @Tags Units
// @Accept json
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param id path string true "Unit ID"
// @Param payload body dto.UpdateUnitRequest true "Unit payload"
// @Success 200 {object} response.Envelope
// @Router /workspaces/{workspaceId}/units/{id} [put]
func (h *UnitHandler) Update(c *gin.Context) {
	var req dto.UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	unit, err := h.units.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, unit, nil)
}

// Delete godoc
// @Summary Delete unit
// @Tags Units
// @Produce json
// @Param workspaceId path string true "Workspace ID"
// @Param id path string true "Unit ID"
// @Success 204
// @Router /workspaces/{workspaceId}/units/{id} [delete]
func (h *UnitHandler) Delete(c *gin.Context) {
	if err := h.units.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
