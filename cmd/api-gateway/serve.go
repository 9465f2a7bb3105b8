package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/noah-isme/land-registry-api/api/swagger"
	"github.com/noah-isme/land-registry-api/internal/handler"
	"github.com/noah-isme/land-registry-api/internal/models"
	"github.com/noah-isme/land-registry-api/internal/repository"
	"github.com/noah-isme/land-registry-api/internal/router"
	"github.com/noah-isme/land-registry-api/internal/service"
	"github.com/noah-isme/land-registry-api/pkg/cache"
	"github.com/noah-isme/land-registry-api/pkg/config"
	"github.com/noah-isme/land-registry-api/pkg/database"
	"github.com/noah-isme/land-registry-api/pkg/jobs"
	"github.com/noah-isme/land-registry-api/pkg/logger"
	"github.com/noah-isme/land-registry-api/pkg/tracing"
)

func newServeCommand() *cobra.Command {
	var autoMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Apply pending migrations before serving")
	return cmd
}

func serve(parent context.Context, autoMigrate bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing, cfg.Env, logr)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logr.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if autoMigrate {
		migrator, err := database.NewMigrator(db.DB, logr)
		if err != nil {
			return err
		}
		if err := migrator.Up(ctx); err != nil {
			return err
		}
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, ULPIN cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
		}
	}

	metrics := service.NewMetricsService()
	authz, err := service.NewAuthorizer(models.RoleCapabilities, logr.Named("authz"))
	if err != nil {
		return err
	}
	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	ownerRepo := repository.NewOwnerRepository(db)
	ownershipRepo := repository.NewOwnershipRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	mutationRepo := repository.NewMutationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	cacheSvc := service.NewCacheService(repository.NewCacheRepository(redisClient, "land-registry"), metrics, cfg.Cache.TTL, logr.Named("cache"), redisClient != nil)

	notifications := service.NewNotificationService(notificationRepo, authz, metrics, logr.Named("notifications"))
	queue := jobs.NewQueue("notifications", notifications.Deliver, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		BufferSize: cfg.Notifications.BufferSize,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Logger:     logr,
	})
	notifications.UseQueue(queue)

	workflowOpts := []service.WorkflowOption{
		service.WithNotifier(notifications),
		service.WithAuditLogger(auditRepo),
		service.WithTransitionMetrics(metrics),
		service.WithPropertyCache(cacheSvc),
	}
	ledger := service.NewOwnershipLedger(ownershipRepo, ownerRepo, logr.Named("ledger"))
	propertySvc := service.NewPropertyService(db, propertyRepo, ownershipRepo, ownerRepo, authz, validate, logr.Named("properties"), workflowOpts...)
	mutationSvc := service.NewMutationService(db, mutationRepo, propertyRepo, ownershipRepo, ownerRepo, ledger, authz, validate, logr.Named("mutations"), workflowOpts...)
	authSvc := service.NewAuthService(userRepo, auditRepo, validate, logr.Named("auth"), service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.Tracing.ServiceName,
	})
	userSvc := service.NewUserService(userRepo, authz, auditRepo, validate, logr.Named("users"))
	ownerSvc := service.NewOwnerService(ownerRepo, authz, auditRepo, validate, logr.Named("owners"))
	auditSvc := service.NewAuditService(auditRepo, authz)
	verificationSvc := service.NewVerificationService(mutationRepo, propertyRepo, ownershipRepo, cacheSvc, logr.Named("verification"))

	checks := map[string]handler.ReadinessCheck{
		"database": db.PingContext,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	engine := router.New(router.Options{
		APIPrefix:      cfg.APIPrefix,
		ServiceName:    cfg.Tracing.ServiceName,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Docs.Enabled,
		EnableTracing:  cfg.Tracing.Enabled,
		Logger:         logr,
		Metrics:        metrics,
		Tokens:         authSvc,
		Authorizer:     authz,
		Auth:           handler.NewAuthHandler(authSvc),
		Users:          handler.NewUserHandler(userSvc),
		Owners:         handler.NewOwnerHandler(ownerSvc),
		Properties:     handler.NewPropertyHandler(propertySvc),
		Mutations:      handler.NewMutationHandler(mutationSvc),
		Notifications:  handler.NewNotificationHandler(notifications),
		Audit:          handler.NewAuditHandler(auditSvc),
		Verification:   handler.NewVerificationHandler(verificationSvc),
		Health:         handler.NewMetricsHandler(metrics, checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	queue.Start(gctx)
	g.Go(func() error {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logr.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		queue.Stop()
		return err
	})

	if err := g.Wait(); err != nil {
		logr.Error("server stopped with error", zap.Error(err))
		return err
	}
	logr.Info("server exited gracefully")
	return nil
}
