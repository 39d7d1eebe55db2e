package dto

import (
	"time"

	"github.com/noah-isme/workspace-admin-api/internal/models"
)

// CreateAssignmentRequest defines payload for assigning a form to a member.
type CreateAssignmentRequest struct {
	TemplateID    string `json:"templateId" validate:"required,uuid"`
	MemberID      string `json:"memberId" validate:"required,uuid"`
	AllowMultiple bool   `json:"allowMultiple"`
}

// SubmitAssignmentRequest carries the filled responses on the public submit
// endpoint.
type SubmitAssignmentRequest struct {
	Responses map[string]interface{} `json:"responses" validate:"required"`
}

// ReviewAssignmentRequest records a review decision for a submitted
// assignment.
type ReviewAssignmentRequest struct {
	Decision string  `json:"decision" validate:"required,oneof=APPROVED REJECTED"`
	Note     *string `json:"note,omitempty"`
}

// SetAssignmentActiveRequest toggles the public availability of an
// assignment link.
type SetAssignmentActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// PublicAssignmentResponse is the unauthenticated view of an assignment,
// enough to render the form without exposing internal identifiers.
type PublicAssignmentResponse struct {
	Slug          string                  `json:"slug"`
	TemplateName  string                  `json:"templateName"`
	Description   *string                 `json:"description,omitempty"`
	Fields        []TemplateFieldSpec     `json:"fields"`
	Status        models.AssignmentStatus `json:"status"`
	AllowMultiple bool                    `json:"allowMultiple"`
	MemberName    string                  `json:"memberName"`
	Workspace     string                  `json:"workspace"`
	AssignedAt    time.Time               `json:"assignedAt"`
}

// SubmissionRecordResponse is one entry in an assignment's submission
// history.
type SubmissionRecordResponse struct {
	ID          string                 `json:"id"`
	Responses   map[string]interface{} `json:"responses"`
	SubmittedAt time.Time              `json:"submittedAt"`
}
