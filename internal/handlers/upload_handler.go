package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"webstarter/internal/services"
	"webstarter/internal/services/dto"
	"webstarter/pkg/apperrors"
)

// ============================================
// UPLOAD HANDLER
// ============================================

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
	}
}

func (h *UploadHandler) RegisterRoutes(r *gin.RouterGroup) {
	uploads := r.Group("/uploads")
	{
		uploads.POST("", h.UploadFile)
		uploads.POST("/presign", h.Presign)
		uploads.DELETE("/*key", h.DeleteFile)
	}
}

type uploadForm struct {
	Folder string `form:"folder" json:"folder" validate:"omitempty,max=64,alphanum"`
}

// UploadFile - multipart, поле "file", необязательное "folder".
func (h *UploadHandler) UploadFile(c *gin.Context) {
	var form uploadForm
	if err := c.ShouldBind(&form); err != nil {
		h.HandleServiceError(c, apperrors.InvalidInput("Invalid form data", ""))
		return
	}
	if err := h.validator.Validate(&form); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.HandleServiceError(c, apperrors.InvalidInput("No file provided", "file"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer file.Close()

	resp, err := h.uploadService.Upload(c.Request.Context(), file, services.FileInfo{
		Name: fileHeader.Filename,
		Size: fileHeader.Size,
	}, form.Folder)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *UploadHandler) Presign(c *gin.Context) {
	var req dto.PresignRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.uploadService.Presign(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UploadHandler) DeleteFile(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		h.HandleServiceError(c, apperrors.InvalidInput("Key is required", "key"))
		return
	}

	if err := h.uploadService.Delete(c.Request.Context(), key); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteResponse{Success: true})
}
