package dto

// TemplateFieldSpec defines one field inside a form template.
type TemplateFieldSpec struct {
	Key      string   `json:"key" validate:"required"`
	Label    string   `json:"label" validate:"required"`
	Type     string   `json:"type" validate:"required,oneof=text number date select checkbox"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

// CreateFormTemplateRequest defines payload for creating a form template.
type CreateFormTemplateRequest struct {
	Name        string              `json:"name" validate:"required,min=2,max=150"`
	Description *string             `json:"description,omitempty"`
	Fields      []TemplateFieldSpec `json:"fields" validate:"required,min=1,dive"`
}

// UpdateFormTemplateRequest defines payload for updating a form template.
type UpdateFormTemplateRequest struct {
	Name        *string             `json:"name,omitempty" validate:"omitempty,min=2,max=150"`
	Description *string             `json:"description,omitempty"`
	Fields      []TemplateFieldSpec `json:"fields,omitempty" validate:"omitempty,min=1,dive"`
	Active      *bool               `json:"active,omitempty"`
}
