package dto

// CreateUnitRequest defines payload for creating an organizational unit.
type CreateUnitRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=150"`
	ParentID    *string `json:"parentId,omitempty" validate:"omitempty,uuid"`
	Description *string `json:"description,omitempty"`
}

// UpdateUnitRequest defines payload for updating a unit.
type UpdateUnitRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=150"`
	ParentID    *string `json:"parentId,omitempty" validate:"omitempty,uuid"`
	Description *string `json:"description,omitempty"`
}

// UnitTreeNode is one node of the workspace unit hierarchy.
type UnitTreeNode struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Children    []*UnitTreeNode `json:"children"`
}
