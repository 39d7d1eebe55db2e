package dto

// CreateWorkspaceRequest defines payload for creating a workspace.
type CreateWorkspaceRequest struct {
	Name              string  `json:"name" validate:"required,min=2,max=150"`
	Type              string  `json:"type" validate:"required,oneof=EDUCATION CORPORATE NON_PROFIT GOVERNMENT"`
	LogoURL           *string `json:"logoUrl,omitempty" validate:"omitempty,url"`
	StampURL          *string `json:"stampUrl,omitempty" validate:"omitempty,url"`
	PrimaryColor      *string `json:"primaryColor,omitempty" validate:"omitempty,hexcolor"`
	Address           *string `json:"address,omitempty"`
	Motto             *string `json:"motto,omitempty"`
	DefaultReportType string  `json:"defaultReportType,omitempty"`
}

// UpdateWorkspaceRequest defines payload for updating workspace fields.
// Nil pointers leave the stored value untouched.
type UpdateWorkspaceRequest struct {
	Name              *string `json:"name,omitempty" validate:"omitempty,min=2,max=150"`
	Type              *string `json:"type,omitempty" validate:"omitempty,oneof=EDUCATION CORPORATE NON_PROFIT GOVERNMENT"`
	LogoURL           *string `json:"logoUrl,omitempty" validate:"omitempty,url"`
	StampURL          *string `json:"stampUrl,omitempty" validate:"omitempty,url"`
	PrimaryColor      *string `json:"primaryColor,omitempty" validate:"omitempty,hexcolor"`
	Address           *string `json:"address,omitempty"`
	Motto             *string `json:"motto,omitempty"`
	DefaultReportType *string `json:"defaultReportType,omitempty"`
	Active            *bool   `json:"active,omitempty"`
}
