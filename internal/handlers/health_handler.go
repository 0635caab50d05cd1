package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"webstarter/internal/logger"
	"webstarter/pkg/apperrors"
)

// Pinger проверяет доступность зависимости.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	*BaseHandler
	db Pinger
}

func NewHealthHandler(base *BaseHandler, db Pinger) *HealthHandler {
	return &HealthHandler{BaseHandler: base, db: db}
}

func (h *HealthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/healthz", h.Health)
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db(ctx); err != nil {
		logger.CtxWithError(ctx, "health check failed", err)
		h.HandleServiceError(c, apperrors.New(apperrors.KindExternalService, "Database is unavailable",
			http.StatusServiceUnavailable, apperrors.WithCause(err)))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
