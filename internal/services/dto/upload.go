package dto

import "time"

type UploadResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type PresignRequest struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required"`
	Size        int64  `json:"size" validate:"required,min=1"`
	Folder      string `json:"folder" validate:"omitempty,max=64,alphanum"`
}

type PresignResponse struct {
	UploadURL string    `json:"uploadUrl"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
