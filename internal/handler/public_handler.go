package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/workspace-admin-api/internal/dto"
	"github.com/noah-isme/workspace-admin-api/internal/middleware"
	"github.com/noah-isme/workspace-admin-api/internal/models"
	appErrors "github.com/noah-isme/workspace-admin-api/pkg/errors"
	"github.com/noah-isme/workspace-admin-api/pkg/response"
)

type publicReader interface {
	Assignment(ctx context.Context, publicSlug string) (*dto.PublicAssignmentResponse, bool, error)
	Member(ctx context.Context, publicSlug string) (*dto.PublicMemberResponse, bool, error)
}

type assignmentSubmitter interface {
	Submit(ctx context.Context, publicSlug string, req dto.SubmitAssignmentRequest) (*models.FormAssignment, error)
}

type reportVerifier interface {
	Verify(ctx context.Context, ref string) (*dto.VerifyReportResponse, error)
}

// PublicHandler serves the unauthenticated surface: assignment forms,
// member profiles, and report verification reached via public slugs.
type PublicHandler struct {
	public      publicReader
	assignments assignmentSubmitter
	reports     reportVerifier
}

// NewPublicHandler constructs PublicHandler.
func NewPublicHandler(public publicReader, assignments assignmentSubmitter, reports reportVerifier) *PublicHandler {
	return &PublicHandler{public: public, assignments: assignments, reports: reports}
}

// Assignment godoc
// @Summary View a form assignment by its public slug
// @Tags Public
// @Produce json
// @Param slug path string true "Public slug"
// @Success 200 {object} response.Envelope
// @Router /public/assignments/{slug} [get]
func (h *PublicHandler) Assignment(c *gin.Context) {
	view, cached, err := h.public.Assignment(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, view, nil, middleware.ExtractMeta(c))
}

// Submit godoc
// @Summary Submit responses for a public form assignment
// @Tags Public
// @Accept json
// @Produce json
// @Param slug path string true "Public slug"
// @Param payload body dto.SubmitAssignmentRequest true "Form responses"
// @Success 200 {object} response.Envelope
// @Router /public/assignments/{slug}/submissions [post]
func (h *PublicHandler) Submit(c *gin.Context) {
	var req dto.SubmitAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	assignment, err := h.assignments.Submit(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"status":      assignment.Status,
		"submittedAt": assignment.SubmittedAt,
	}, nil)
}

// Member godoc
// @Summary View a member profile by its public slug
// @Tags Public
// @Produce json
// @Param slug path string true "Public slug"
// @Success 200 {object} response.Envelope
// @Router /public/members/{slug} [get]
func (h *PublicHandler) Member(c *gin.Context) {
	profile, cached, err := h.public.Member(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, profile, nil, middleware.ExtractMeta(c))
}

// VerifyReport godoc
// @Summary Verify a generated report by its reference number
// @Tags Public
// @Produce json
// @Param reference path string true "Reference number"
// @Success 200 {object} response.Envelope
// @Router /public/reports/{reference}/verify [get]
func (h *PublicHandler) VerifyReport(c *gin.Context) {
	result, err := h.reports.Verify(c.Request.Context(), c.Param("reference"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
