package handlers

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"webstarter/internal/logger"
	"webstarter/internal/repositories"
	"webstarter/internal/validator"
	"webstarter/pkg/apperrors"
)

// ============================================================================
// 1. Базовая структура обработчика
// ============================================================================

type BaseHandler struct {
	validator *validator.Validator
	errors    *apperrors.Converter
}

func NewBaseHandler(v *validator.Validator, conv *apperrors.Converter) *BaseHandler {
	return &BaseHandler{
		validator: v,
		errors:    conv,
	}
}

// ============================================================================
// 2. Привязка и валидация
// ============================================================================

// DecodeJSON binds the body and validates it. The returned error is ready
// for Respond or HandleAction.
func (h *BaseHandler) DecodeJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxDebug(c.Request.Context(), "failed to bind JSON body", "error", err.Error(), "path", c.Request.URL.Path)
		if errors.Is(err, io.EOF) {
			return apperrors.InvalidInput("Request body is required", "")
		}
		return apperrors.InvalidInput("Invalid request body", "")
	}
	return h.validator.Validate(obj)
}

// BindAndValidateJSON writes the error response itself; false means the
// handler must return.
func (h *BaseHandler) BindAndValidateJSON(c *gin.Context, obj interface{}) bool {
	if err := h.DecodeJSON(c, obj); err != nil {
		h.HandleServiceError(c, err)
		return false
	}
	return true
}

// ============================================================================
// 3. Ошибки
// ============================================================================

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	h.errors.Respond(c, err)
}

// ============================================================================
// 4. Парсинг
// ============================================================================

func ParseQueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// ParsePagination читает page и limit (по умолчанию 1 и 10).
func ParsePagination(c *gin.Context) repositories.Page {
	return repositories.NewPage(
		ParseQueryInt(c, "page", repositories.DefaultPage),
		ParseQueryInt(c, "limit", repositories.DefaultLimit),
	)
}
