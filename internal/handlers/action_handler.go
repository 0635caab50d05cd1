package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"webstarter/internal/models"
	"webstarter/internal/services"
	"webstarter/internal/services/dto"
	"webstarter/pkg/apperrors"
)

// ActionHandler exposes item mutations as actions: the response is always
// 200 with an ActionResult body, failures included.
type ActionHandler struct {
	*BaseHandler
	itemService services.ItemService
}

func NewActionHandler(base *BaseHandler, itemService services.ItemService) *ActionHandler {
	return &ActionHandler{
		BaseHandler: base,
		itemService: itemService,
	}
}

func (h *ActionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/actions/items")
	{
		items.POST("/create", h.CreateItem)
		items.POST("/update", h.UpdateItem)
		items.POST("/delete", h.DeleteItem)
	}
}

type deletedItem struct {
	ID string `json:"id"`
}

func (h *ActionHandler) CreateItem(c *gin.Context) {
	c.JSON(http.StatusOK, h.createItem(c))
}

func (h *ActionHandler) createItem(c *gin.Context) apperrors.ActionResult[*models.Item] {
	ctx := c.Request.Context()

	// сначала валидация, потом авторизация
	var req dto.CreateItemRequest
	if err := h.DecodeJSON(c, &req); err != nil {
		return apperrors.HandleAction[*models.Item](ctx, h.errors, err)
	}

	item, err := h.itemService.Create(ctx, &req)
	if err != nil {
		return apperrors.HandleAction[*models.Item](ctx, h.errors, err)
	}
	return apperrors.Ok(item)
}

func (h *ActionHandler) UpdateItem(c *gin.Context) {
	c.JSON(http.StatusOK, h.updateItem(c))
}

func (h *ActionHandler) updateItem(c *gin.Context) apperrors.ActionResult[*models.Item] {
	ctx := c.Request.Context()

	var req dto.UpdateItemRequest
	if err := h.DecodeJSON(c, &req); err != nil {
		return apperrors.HandleAction[*models.Item](ctx, h.errors, err)
	}

	item, err := h.itemService.Update(ctx, &req)
	if err != nil {
		return apperrors.HandleAction[*models.Item](ctx, h.errors, err)
	}
	return apperrors.Ok(item)
}

func (h *ActionHandler) DeleteItem(c *gin.Context) {
	c.JSON(http.StatusOK, h.deleteItem(c))
}

func (h *ActionHandler) deleteItem(c *gin.Context) apperrors.ActionResult[deletedItem] {
	ctx := c.Request.Context()

	var req dto.DeleteItemRequest
	if err := h.DecodeJSON(c, &req); err != nil {
		return apperrors.HandleAction[deletedItem](ctx, h.errors, err)
	}

	if err := h.itemService.Delete(ctx, req.ID); err != nil {
		return apperrors.HandleAction[deletedItem](ctx, h.errors, err)
	}
	return apperrors.Ok(deletedItem{ID: req.ID})
}
