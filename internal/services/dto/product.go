package dto

import "webstarter/internal/models"

type PurchaseRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=100"`
}

type PurchaseResponse struct {
	Product   models.Product `json:"product"`
	Quantity  int            `json:"quantity"`
	Total     int64          `json:"total"`
	Remaining int            `json:"remaining"`
}
