package models

// Upload - запись о загруженном файле.
type Upload struct {
	BaseModel
	UserID          string `gorm:"type:varchar(36);not null;index" json:"userId"`
	Key             string `gorm:"column:storage_key;type:varchar(255);uniqueIndex;not null" json:"key"`
	URL             string `gorm:"not null" json:"url"`
	OriginalName    string `json:"originalName"`
	MimeType        string `gorm:"type:varchar(100)" json:"mimeType"`
	Size            int64  `json:"size"`
	StorageProvider string `gorm:"type:varchar(20);default:'local'" json:"storageProvider"` // local, s3, cloudflare_r2
	// Pending - presigned upload, объект в хранилище еще не подтвержден.
	Pending bool `gorm:"not null;default:false;index" json:"pending"`
}
