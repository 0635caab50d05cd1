package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"webstarter/internal/auth"
	"webstarter/internal/config"
	"webstarter/internal/database"
	"webstarter/internal/handlers"
	"webstarter/internal/logger"
	"webstarter/internal/metrics"
	"webstarter/internal/middleware"
	"webstarter/internal/ratelimit"
	"webstarter/internal/reporting"
	"webstarter/internal/repositories"
	"webstarter/internal/routes"
	"webstarter/internal/services"
	"webstarter/internal/storage"
	"webstarter/internal/validator"
	"webstarter/internal/workers"
	"webstarter/pkg/apperrors"
)

// Deps - внешние зависимости, собранные в Run. Tests build them by hand.
type Deps struct {
	DB       *gorm.DB
	Storage  storage.Storage
	Limiter  ratelimit.Limiter
	Reporter *reporting.Reporter
	Metrics  *metrics.Metrics
}

func Run() {
	cfg := config.MustLoad()
	logger.Init(cfg.Env)
	logger.Info("Logger initialized", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Connecting to database...")
	gormDB, err := database.Open(ctx, cfg.Database.URL, cfg.Env)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close(gormDB)
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	storageInstance, err := storage.NewStorage(StorageConfig(cfg))
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", storageInstance.Provider())

	workers.NewUploadWorker(repositories.NewUploadRepository(gormDB), storageInstance).Start(ctx)

	reporter, err := reporting.Init(reporting.Options{DSN: cfg.Sentry.DSN, Environment: cfg.Env})
	if err != nil {
		logger.Fatal("Failed to initialize Sentry", "error", err)
	}
	defer reporter.Flush(2 * time.Second)

	limiter, closeLimiter := newLimiter(ctx, cfg)
	defer closeLimiter()

	router := SetupRouter(cfg, Deps{
		DB:       gormDB,
		Storage:  storageInstance,
		Limiter:  limiter,
		Reporter: reporter,
		Metrics:  metrics.New(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(fmt.Sprintf("🚀 Server starting on %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
}

// newLimiter - Redis если настроен, иначе счетчики в памяти.
func newLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, func()) {
	rlCfg := ratelimit.Config{Requests: cfg.RateLimit.Requests, Window: cfg.RateLimit.Window}

	client, err := ratelimit.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory rate limiter", "error", err)
	}
	if client == nil {
		return ratelimit.NewMemoryLimiter(rlCfg), func() {}
	}
	logger.Info("Rate limiter uses Redis")
	return ratelimit.NewRedisLimiter(client, rlCfg), func() { client.Close() }
}

// StorageConfig maps the app config onto the storage layer. The CDN URL,
// when set, becomes the public prefix of remote objects.
func StorageConfig(cfg *config.Config) storage.Config {
	baseURL := cfg.Storage.BaseURL
	if cfg.Storage.Type != storage.ProviderLocal && cfg.App.CDNURL != "" {
		baseURL = cfg.App.CDNURL
	}
	return storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    baseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
	}
}

func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	opts := []apperrors.ConverterOption{apperrors.WithLogger(logger.FromContext)}
	if deps.Metrics != nil {
		opts = append(opts, apperrors.WithHook(deps.Metrics.ErrorHook()))
	}
	if deps.Reporter != nil {
		opts = append(opts, apperrors.WithHook(deps.Reporter.Hook()))
	}
	conv := apperrors.NewConverter(cfg.Env, opts...)

	guard := auth.NewGuard(nil)
	tokens := auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.SessionTTL, cfg.App.Name)

	// 1. Репозитории
	userRepo := repositories.NewUserRepository(deps.DB)
	itemRepo := repositories.NewItemRepository(deps.DB)
	productRepo := repositories.NewProductRepository(deps.DB)
	uploadRepo := repositories.NewUploadRepository(deps.DB)

	// 2. Сервисы
	serviceContainer := &services.ServiceContainer{
		AuthService:    services.NewAuthService(userRepo, tokens, guard, cfg.IsAdminEmail),
		UserService:    services.NewUserService(userRepo, guard),
		ItemService:    services.NewItemService(itemRepo, guard),
		ProductService: services.NewProductService(productRepo, database.NewTransactor(deps.DB), guard),
		UploadService:  services.NewUploadService(uploadRepo, deps.Storage, guard, services.FileRules{MaxSize: cfg.Upload.MaxSize}),
	}

	// 3. Хэндлеры
	appHandlers := initializeHandlers(cfg, serviceContainer, conv, deps.DB)

	// 4. Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	ginRouter := gin.New()
	ginRouter.Use(
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(),
		conv.RecoveryMiddleware(),
		middleware.CORSMiddleware(cfg.App.URL),
		middleware.SessionMiddleware(auth.NewJWTSessionProvider(tokens, userRepo)),
		conv.ErrorMiddleware(),
	)

	routeOpts := routes.Options{AdminGuard: middleware.RequireAdmin(guard, conv)}
	if deps.Metrics != nil {
		ginRouter.Use(deps.Metrics.Middleware())
		routeOpts.Metrics = deps.Metrics.Handler()
	}
	if deps.Limiter != nil {
		routeOpts.APIMiddleware = append(routeOpts.APIMiddleware, ratelimit.Middleware(deps.Limiter, conv))
	}
	if local, ok := deps.Storage.(*storage.LocalStorage); ok && strings.HasPrefix(cfg.Storage.BaseURL, "/") {
		routeOpts.StaticURL = cfg.Storage.BaseURL
		routeOpts.StaticDir = local.BasePath()
	}

	routes.RegisterRoutes(ginRouter, appHandlers, routeOpts)
	return ginRouter
}

func initializeHandlers(cfg *config.Config, sc *services.ServiceContainer, conv *apperrors.Converter, db *gorm.DB) *handlers.AppHandlers {
	base := handlers.NewBaseHandler(validator.New(), conv)

	return &handlers.AppHandlers{
		HealthHandler:  handlers.NewHealthHandler(base, func(ctx context.Context) error { return database.Ping(ctx, db) }),
		AuthHandler:    handlers.NewAuthHandler(base, sc.AuthService, cfg.IsProduction()),
		ItemHandler:    handlers.NewItemHandler(base, sc.ItemService),
		ActionHandler:  handlers.NewActionHandler(base, sc.ItemService),
		ProductHandler: handlers.NewProductHandler(base, sc.ProductService),
		UploadHandler:  handlers.NewUploadHandler(base, sc.UploadService),
		AdminHandler:   handlers.NewAdminHandler(base, sc.UserService),
	}
}
