package dto

// CreateMemberRequest defines payload for adding a member to a workspace.
type CreateMemberRequest struct {
	FullName string                 `json:"fullName" validate:"required,min=2,max=150"`
	Email    string                 `json:"email" validate:"required,email"`
	Phone    *string                `json:"phone,omitempty"`
	UnitID   *string                `json:"unitId,omitempty" validate:"omitempty,uuid"`
	Role     string                 `json:"role" validate:"required,oneof=OWNER ADMIN MEMBER"`
	Profile  map[string]interface{} `json:"profile,omitempty"`
}

// UpdateMemberRequest defines payload for updating member fields.
type UpdateMemberRequest struct {
	FullName *string                `json:"fullName,omitempty" validate:"omitempty,min=2,max=150"`
	Email    *string                `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string                `json:"phone,omitempty"`
	UnitID   *string                `json:"unitId,omitempty" validate:"omitempty,uuid"`
	Role     *string                `json:"role,omitempty" validate:"omitempty,oneof=OWNER ADMIN MEMBER"`
	Profile  map[string]interface{} `json:"profile,omitempty"`
	Active   *bool                  `json:"active,omitempty"`
}

// PublicMemberResponse is the sanitized profile served on unauthenticated
// endpoints. Sensitive profile keys are stripped before it is built.
type PublicMemberResponse struct {
	FullName  string                 `json:"fullName"`
	Role      string                 `json:"role"`
	UnitName  string                 `json:"unitName,omitempty"`
	Workspace string                 `json:"workspace"`
	Profile   map[string]interface{} `json:"profile"`
}
