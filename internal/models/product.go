package models

import "gorm.io/datatypes"

// Product - товар витрины. Price is in minor units (cents).
type Product struct {
	BaseModel
	Slug        string                      `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	Name        string                      `gorm:"type:varchar(200);not null" json:"name"`
	Description string                      `gorm:"type:text" json:"description,omitempty"`
	Price       int64                       `gorm:"not null" json:"price"`
	Currency    string                      `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	Stock       int                         `gorm:"not null;default:0" json:"stock"`
	Images      datatypes.JSONSlice[string] `json:"images"`
	IsActive    bool                        `gorm:"not null;default:true" json:"isActive"`
}
