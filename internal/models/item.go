package models

// Item - пример ресурса, принадлежащего пользователю.
type Item struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	UserID      string `gorm:"type:varchar(36);not null;index" json:"userId"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
