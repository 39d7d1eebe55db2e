package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/workspace-admin-api/api/swagger"
	"github.com/noah-isme/workspace-admin-api/internal/handler"
	internalmiddleware "github.com/noah-isme/workspace-admin-api/internal/middleware"
	"github.com/noah-isme/workspace-admin-api/internal/repository"
	"github.com/noah-isme/workspace-admin-api/internal/service"
	"github.com/noah-isme/workspace-admin-api/pkg/cache"
	"github.com/noah-isme/workspace-admin-api/pkg/config"
	"github.com/noah-isme/workspace-admin-api/pkg/database"
	"github.com/noah-isme/workspace-admin-api/pkg/htmlpdf"
	"github.com/noah-isme/workspace-admin-api/pkg/jobs"
	"github.com/noah-isme/workspace-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/workspace-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/workspace-admin-api/pkg/middleware/requestid"
	"github.com/noah-isme/workspace-admin-api/pkg/storage"
)

// @title Workspace Admin API
// @version 1.0.0
// @description Multi-tenant workspace administration with form assignments and PDF report generation
// @BasePath /api/v1
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	templateRepo := repository.NewFormTemplateRepository(db)
	assignmentRepo := repository.NewFormAssignmentRepository(db)
	issuedRepo := repository.NewIssuedReportRepository(db)
	exportJobRepo := repository.NewExportJobRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Public.CacheTTL, logr, true)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "workspace-admin-api",
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	workspaceSvc := service.NewWorkspaceService(workspaceRepo, validate, logr)
	memberSvc := service.NewMemberService(memberRepo, validate, logr)
	unitSvc := service.NewUnitService(unitRepo, validate, logr)
	templateSvc := service.NewFormTemplateService(templateRepo, validate, logr)
	assignmentSvc := service.NewFormAssignmentService(assignmentRepo, templateRepo, memberRepo, validate, logr)
	publicSvc := service.NewPublicService(assignmentRepo, templateRepo, memberRepo, workspaceRepo, unitRepo, cacheSvc, cfg.Public.CacheTTL, logr)

	converter := htmlpdf.NewConverter(htmlpdf.Options{
		BinaryPath:    cfg.Reports.WkhtmltopdfPath,
		Timeout:       cfg.Reports.ConvertTimeout,
		MaxConcurrent: cfg.Reports.MaxConcurrent,
	})
	reportSvc := service.NewReportService(workspaceRepo, issuedRepo, converter, service.ReportServiceConfig{
		VerifyBaseURL: cfg.Reports.VerifyBaseURL,
	}, logr).WithMetrics(metricsSvc)
	issuedLister := service.NewIssuedReportLister(issuedRepo)

	exportStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(memberRepo, assignmentRepo, issuedRepo, exportStorage, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr, nil, nil)

	worker := service.NewExportWorker(exportJobRepo, exportSvc, cfg.Exports.WorkerRetries, logr)
	queue := jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr,
	})
	exportJobSvc := service.NewExportJobService(exportJobRepo, queue, exportSvc, logr, service.ExportJobServiceConfig{
		ResultTTL:       cfg.Exports.SignedURLTTL,
		CleanupInterval: cfg.Exports.CleanupInterval,
		MaxRetries:      cfg.Exports.WorkerRetries,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Exports.Enabled {
		queue.Start(ctx)
		exportJobSvc.RecoverPendingJobs(ctx)
		exportJobSvc.StartCleanup(ctx)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Users:       handler.NewUserHandler(userSvc),
		Workspaces:  handler.NewWorkspaceHandler(workspaceSvc),
		Members:     handler.NewMemberHandler(memberSvc),
		Units:       handler.NewUnitHandler(unitSvc),
		Templates:   handler.NewFormTemplateHandler(templateSvc),
		Assignments: handler.NewFormAssignmentHandler(assignmentSvc),
		Reports:     handler.NewReportHandler(reportSvc, issuedLister),
		Exports:     handler.NewExportHandler(exportJobSvc),
		Public:      handler.NewPublicHandler(publicSvc, assignmentSvc, reportSvc),
		Metrics:     metricsHandler,
	}, authSvc, userRepo)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
	queue.Stop()
}
