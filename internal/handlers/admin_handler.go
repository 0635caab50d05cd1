package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"webstarter/internal/models"
	"webstarter/internal/services"
	"webstarter/internal/services/dto"
)

// AdminHandler - /admin/*. The group is additionally guarded by
// middleware.RequireAdmin.
type AdminHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewAdminHandler(base *BaseHandler, userService services.UserService) *AdminHandler {
	return &AdminHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *AdminHandler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/users", h.ListUsers)
	admin.PATCH("/users/:id/role", h.ChangeRole)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	resp, err := h.userService.List(c.Request.Context(), ParsePagination(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) ChangeRole(c *gin.Context) {
	var req dto.ChangeRoleRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), c.Param("id"), models.Role(req.Role))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
