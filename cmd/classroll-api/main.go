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
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/classroll-api/api/swagger"
	"github.com/noah-isme/classroll-api/internal/gateway"
	"github.com/noah-isme/classroll-api/internal/handler"
	"github.com/noah-isme/classroll-api/internal/membership"
	"github.com/noah-isme/classroll-api/internal/middleware"
	"github.com/noah-isme/classroll-api/internal/repository"
	"github.com/noah-isme/classroll-api/internal/routes"
	"github.com/noah-isme/classroll-api/internal/service"
	"github.com/noah-isme/classroll-api/pkg/cache"
	"github.com/noah-isme/classroll-api/pkg/config"
	"github.com/noah-isme/classroll-api/pkg/database"
	"github.com/noah-isme/classroll-api/pkg/jobs"
	"github.com/noah-isme/classroll-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/classroll-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/classroll-api/pkg/middleware/requestid"
	"github.com/noah-isme/classroll-api/pkg/storage"
)

// @title Classroll API
// @version 1.0.0
// @description Class, group and attendance management backed by a remote school data service.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()
	metrics := service.NewMetricsService()

	redisClient := connectRedis(ctx, cfg, logr)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var auditRepo service.AuditRepository
	if cfg.Audit.Enabled {
		db := connectPostgres(ctx, cfg, logr)
		defer db.Close()
		auditRepo = repository.NewAuditRepository(db)
	}
	audit := service.NewAuditService(auditRepo, logr)

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, "classroll", logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled && cacheRepo != nil)

	gw := gateway.New(cfg.Gateway, logr, gateway.WithObserver(metrics))
	engine := membership.New()

	var groups *service.GroupService
	if cfg.Gateway.PushMutations && gw.Enabled() {
		pusher := service.NewGroupPushService(gw, logr)
		queue := jobs.NewQueue("group-push", pusher.Handle, jobs.QueueConfig{
			Workers:    cfg.Gateway.PushWorkers,
			MaxRetries: cfg.Gateway.PushRetries,
			Logger:     logr,
			Observer:   metrics,
		})
		queue.Start(ctx)
		defer queue.Stop()
		pusher.Attach(queue)
		groups = service.NewGroupService(engine, validate, audit, pusher, metrics, logr)
	} else {
		groups = service.NewGroupService(engine, validate, audit, nil, metrics, logr)
	}

	authCfg := service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
		Accounts:          cfg.Accounts,
	}
	var auth *service.AuthService
	if redisClient != nil {
		auth = service.NewAuthService(gw, repository.NewSessionRepository(redisClient), audit, validate, logr, authCfg)
	} else {
		logr.Warn("redis unavailable, sessions are not persisted")
		auth = service.NewAuthService(gw, nil, audit, validate, logr, authCfg)
	}

	classes := service.NewClassService(engine, validate, audit, logr)
	students := service.NewStudentService(engine, validate, audit, logr)
	teachers := service.NewTeacherService(engine, validate, logr)
	attendance := service.NewAttendanceService(gw, engine, cacheSvc, validate, logr)
	capture := service.NewCaptureService(gw, cacheSvc, audit, metrics, validate, service.CaptureConfig{
		SnapshotURL:  cfg.Capture.SnapshotURL,
		FrameTimeout: cfg.Capture.FrameTimeout,
		JPEGQuality:  cfg.Capture.JPEGQuality,
		MaxUpload:    cfg.Capture.MaxUpload,
	}, logr)

	store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare export storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exports := service.NewExportService(attendance, engine, store, signer, validate, service.ExportConfig{
		APIPrefix:       cfg.APIPrefix,
		ResultTTL:       cfg.Exports.SignedURLTTL,
		CleanupInterval: cfg.Exports.CleanupInterval,
	}, logr)
	exports.StartCleanup(ctx)

	syncSvc := service.NewSyncService(gw, engine, cacheSvc, metrics, logr, service.SyncConfig{
		TeacherID:      cfg.Gateway.TeacherID,
		GroupID:        cfg.Gateway.GroupID,
		AcademicYearID: cfg.Gateway.AcademicYear,
		Interval:       cfg.Gateway.SyncInterval,
	})
	if gw.Enabled() {
		syncSvc.Start(ctx)
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.Capture.MaxUpload
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready", "gateway": gw.Enabled()})
	})
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	routes.SetupRoutes(r, routes.Dependencies{
		Prefix:     cfg.APIPrefix,
		Auth:       handler.NewAuthHandler(auth),
		Groups:     handler.NewGroupHandler(groups),
		Classes:    handler.NewClassHandler(classes),
		Students:   handler.NewStudentHandler(students),
		Teachers:   handler.NewTeacherHandler(teachers, classes),
		Attendance: handler.NewAttendanceHandler(attendance),
		Capture:    handler.NewCaptureHandler(capture),
		Exports:    handler.NewExportHandler(exports),
		Sync:       handler.NewSyncHandler(syncSvc),
		Metrics:    handler.NewMetricsHandler(metrics),
		Audit:      handler.NewAuditHandler(audit),
		Tokens:     auth,
		Recorder:   audit,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	case <-ctx.Done():
		logr.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logr.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}

func connectRedis(ctx context.Context, cfg *config.Config, logr *zap.Logger) *redis.Client {
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis connection failed", zap.Error(err))
		return nil
	}
	return client
}

func connectPostgres(ctx context.Context, cfg *config.Config, logr *zap.Logger) *sqlx.DB {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	if err := database.Migrate(ctx, db); err != nil {
		logr.Fatal("failed to migrate audit schema", zap.Error(err))
	}
	return db
}
