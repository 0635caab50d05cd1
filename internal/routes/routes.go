package routes

import (
	"github.com/gin-gonic/gin"

	"webstarter/internal/handlers"
	"webstarter/internal/logger"
)

// Options - то, что нужно маршрутам помимо хэндлеров.
type Options struct {
	// AdminGuard protects /api/admin.
	AdminGuard gin.HandlerFunc
	// APIMiddleware runs for every /api route (rate limiting).
	APIMiddleware []gin.HandlerFunc
	// Metrics serves /metrics when set.
	Metrics gin.HandlerFunc
	// StaticURL/StaticDir serve local uploads when both are set.
	StaticURL string
	StaticDir string
}

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers, opts Options) {
	appHandlers.HealthHandler.RegisterRoutes(ginRouter)
	if opts.Metrics != nil {
		ginRouter.GET("/metrics", opts.Metrics)
	}
	if opts.StaticURL != "" && opts.StaticDir != "" {
		ginRouter.Static(opts.StaticURL, opts.StaticDir)
		logger.Info("serving local uploads", "url", opts.StaticURL, "dir", opts.StaticDir)
	}

	api := ginRouter.Group("/api")
	api.Use(opts.APIMiddleware...)
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.ItemHandler.RegisterRoutes(api)
		appHandlers.ActionHandler.RegisterRoutes(api)
		appHandlers.ProductHandler.RegisterRoutes(api)
		appHandlers.UploadHandler.RegisterRoutes(api)

		admin := api.Group("/admin")
		if opts.AdminGuard != nil {
			admin.Use(opts.AdminGuard)
		}
		appHandlers.AdminHandler.RegisterRoutes(admin)
	}
}
