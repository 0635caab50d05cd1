package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"webstarter/internal/services"
	"webstarter/internal/services/dto"
	"webstarter/pkg/apperrors"
)

// ItemHandler - REST вариант CRUD примера (/example).
type ItemHandler struct {
	*BaseHandler
	itemService services.ItemService
}

func NewItemHandler(base *BaseHandler, itemService services.ItemService) *ItemHandler {
	return &ItemHandler{
		BaseHandler: base,
		itemService: itemService,
	}
}

func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	example := rg.Group("/example")
	{
		example.GET("", h.List)
		example.POST("", h.Create)
		example.PATCH("", h.Update)
		example.DELETE("", h.Delete)
	}
}

func (h *ItemHandler) List(c *gin.Context) {
	resp, err := h.itemService.List(c.Request.Context(), ParsePagination(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) Update(c *gin.Context) {
	var req dto.UpdateItemRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete - DELETE /example?id=...
func (h *ItemHandler) Delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		h.HandleServiceError(c, apperrors.InvalidInput("ID is required", "id"))
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteResponse{Success: true})
}
