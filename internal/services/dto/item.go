package dto

type CreateItemRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// UpdateItemRequest - nil fields are left unchanged.
type UpdateItemRequest struct {
	ID          string  `json:"id" validate:"required"`
	Name        *string `json:"name" validate:"omitempty,notblank,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type DeleteItemRequest struct {
	ID string `json:"id" validate:"required"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}
