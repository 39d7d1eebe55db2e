package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AssignmentStatus tracks the form assignment lifecycle:
// PENDING → IN_PROGRESS → SUBMITTED → APPROVED | REJECTED.
type AssignmentStatus string

const (
	AssignmentStatusPending    AssignmentStatus = "PENDING"
	AssignmentStatusInProgress AssignmentStatus = "IN_PROGRESS"
	AssignmentStatusSubmitted  AssignmentStatus = "SUBMITTED"
	AssignmentStatusApproved   AssignmentStatus = "APPROVED"
	AssignmentStatusRejected   AssignmentStatus = "REJECTED"
)

// FormAssignment is a per-member instance of a form template awaiting a
// response. PublicSlug is the sole external lookup key.
type FormAssignment struct {
	ID            string           `db:"id" json:"id"`
	WorkspaceID   string           `db:"workspace_id" json:"workspace_id"`
	TemplateID    string           `db:"template_id" json:"template_id"`
	MemberID      string           `db:"member_id" json:"member_id"`
	PublicSlug    string           `db:"public_slug" json:"public_slug"`
	Status        AssignmentStatus `db:"status" json:"status"`
	AllowMultiple bool             `db:"allow_multiple" json:"allow_multiple"`
	Responses     ResponseData     `db:"responses" json:"responses"`
	Active        bool             `db:"active" json:"active"`
	AssignedAt    time.Time        `db:"assigned_at" json:"assigned_at"`
	SubmittedAt   *time.Time       `db:"submitted_at" json:"submitted_at,omitempty"`
	ReviewedAt    *time.Time       `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ReviewedBy    *string          `db:"reviewed_by" json:"reviewed_by,omitempty"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at" json:"updated_at"`
}

// SubmissionRecord is an append-only snapshot of one submission cycle for
// allow-multiple assignments. Records are never updated after insert.
type SubmissionRecord struct {
	ID           string       `db:"id" json:"id"`
	AssignmentID string       `db:"assignment_id" json:"assignment_id"`
	Responses    ResponseData `db:"responses" json:"responses"`
	SubmittedAt  time.Time    `db:"submitted_at" json:"submitted_at"`
}

// ResponseData stores form responses persisted as JSONB.
type ResponseData map[string]interface{}

// Value marshals responses to JSON for persistence.
func (r ResponseData) Value() (driver.Value, error) {
	if r == nil {
		r = ResponseData{}
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal assignment responses: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the response map.
func (r *ResponseData) Scan(value interface{}) error {
	if value == nil {
		*r = ResponseData{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for ResponseData", value)
	}
	if len(data) == 0 {
		*r = ResponseData{}
		return nil
	}
	return json.Unmarshal(data, r)
}

// CanTransition reports whether moving from the current status to next is a
// legal lifecycle step. Review outcomes are only reachable from SUBMITTED.
func (s AssignmentStatus) CanTransition(next AssignmentStatus) bool {
	switch s {
	case AssignmentStatusPending:
		return next == AssignmentStatusInProgress
	case AssignmentStatusInProgress:
		return next == AssignmentStatusSubmitted
	case AssignmentStatusSubmitted:
		return next == AssignmentStatusApproved || next == AssignmentStatusRejected
	default:
		return false
	}
}

// AssignmentFilter captures list criteria for assignments.
type AssignmentFilter struct {
	WorkspaceID string
	TemplateID  string
	MemberID    string
	Status      *AssignmentStatus
	Page        int
	PageSize    int
}
