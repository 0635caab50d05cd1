package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"webstarter/internal/services"
	"webstarter/internal/services/dto"
)

type ProductHandler struct {
	*BaseHandler
	productService services.ProductService
}

func NewProductHandler(base *BaseHandler, productService services.ProductService) *ProductHandler {
	return &ProductHandler{
		BaseHandler:    base,
		productService: productService,
	}
}

func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", h.List)
		products.GET("/:slug", h.Get)
		products.POST("/:slug/purchase", h.Purchase)
	}
}

func (h *ProductHandler) List(c *gin.Context) {
	resp, err := h.productService.List(c.Request.Context(), ParsePagination(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.productService.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Purchase(c *gin.Context) {
	var req dto.PurchaseRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.productService.Purchase(c.Request.Context(), c.Param("slug"), req.Quantity)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
