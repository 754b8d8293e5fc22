package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"merchconsole/internal/caching"
	"merchconsole/internal/config"
	"merchconsole/internal/handlers"
	"merchconsole/internal/jobs/background"
	"merchconsole/internal/logger"
	"merchconsole/internal/middleware"
	"merchconsole/internal/repositories"
	"merchconsole/internal/services"
	"merchconsole/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger settings come from the config, so fall back to a default one
		bootLog := logger.New("info", false)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)

	minioSvc, err := services.NewMinioService(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.UseSSL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize MinIO service")
	}
	if err := minioSvc.EnsureBucketExists(ctx); err != nil {
		log.Warn().Err(err).Str("bucket", cfg.Minio.Bucket).Msg("image bucket unavailable, previews will show raw keys")
	}

	// Repositories
	categoryRepo := repositories.NewCategoryRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	bulkEditRepo := repositories.NewBulkEditRepo(pool)

	// Services
	clock := clockwork.NewRealClock()
	categorySvc := services.NewCategoryService(categoryRepo, cacheSvc, cfg.Console.CategoryCacheTTL.Duration, cfg.Console.PathSeparator, log.With().Str("component", "categories").Logger())
	productSvc := services.NewProductService(productRepo, bulkEditRepo, categorySvc, minioSvc, services.ProductServiceOptions{
		Clock:          clock,
		Location:       cfg.Console.Location(),
		SortPolicy:     services.VariantSortPolicy(strings.ToLower(cfg.Console.VariantSortPolicy)),
		ImageURLExpiry: cfg.Console.ImageURLExpiry.Duration,
	}, log.With().Str("component", "products").Logger())

	scheduler, err := background.NewJobScheduler(categorySvc, warmTenants(cfg.Console.WarmTenants, log), cfg.Console.CacheWarmInterval.Duration, log.With().Str("component", "jobs").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create job scheduler")
	}
	scheduler.Start()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewRequestValidator()

	versionMiddleware := middleware.NewVersionMiddleware("v1")
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(versionMiddleware.VersionHeader())

	handlers.RegisterRoutes(e,
		handlers.NewCategoryHandlers(categorySvc, log),
		handlers.NewProductHandlers(productSvc, log),
		handlers.NewBulkHandlers(productSvc, log),
		handlers.NewHealthHandlers(pool, cacheSvc, clock, version),
	)

	go func() {
		log.Info().Str("port", cfg.Port).Str("version", version).Msg("merchandising console starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := scheduler.Stop(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown failed")
	}
}

// warmTenants parses the configured tenant IDs, skipping invalid ones
func warmTenants(raw []string, log zerolog.Logger) []uuid.UUID {
	tenants := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			log.Warn().Str("tenant_id", s).Msg("ignoring invalid warm tenant")
			continue
		}
		tenants = append(tenants, id)
	}
	return tenants
}
