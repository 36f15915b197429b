package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"performance-prime/internal/ai"
	"performance-prime/internal/api"
	"performance-prime/internal/common/aws"
	"performance-prime/internal/common/config"
	"performance-prime/internal/common/database"
	commonhttp "performance-prime/internal/common/http"
	"performance-prime/internal/common/logger"
	"performance-prime/internal/common/observability"
	"performance-prime/internal/delivery"
	"performance-prime/internal/dispatcher"
	"performance-prime/internal/media"
	"performance-prime/internal/planner"
	"performance-prime/internal/store"
	"performance-prime/internal/wizard"
)

// retryWithBackoff attempts an operation with exponential backoff.
// Infrastructure dependencies may come up after the service in
// orchestrated environments.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting prime-server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected")

	// --- Stores ---
	scheduledStore := store.NewScheduledNotificationStore(pg.DB, log)
	liveStore := store.NewLiveNotificationStore(pg.DB, log)
	planStore := store.NewWorkoutPlanStore(pg.DB, log)

	// --- Delivery channels ---
	deliveryCfg := delivery.Config{
		EmailEnabled: cfg.Notifications.Email.Enabled,
		PushEnabled:  cfg.Notifications.Push.Enabled,
		FromEmail:    cfg.Notifications.Email.FromEmail,
	}

	var sesClient *aws.SESClient
	var snsClient *aws.SNSClient
	if deliveryCfg.EmailEnabled {
		sesClient, err = aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
	}
	if deliveryCfg.PushEnabled {
		snsClient, err = aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
	}

	var emailService delivery.SESService
	if sesClient != nil {
		emailService = sesClient
	}
	var pushService delivery.SNSService
	if snsClient != nil {
		pushService = snsClient
	}
	channels := delivery.NewChannels(deliveryCfg, emailService, pushService, log)

	// --- Reminder dispatcher ---
	disp := dispatcher.New(dispatcher.Config{
		Interval:    time.Duration(cfg.Dispatcher.Interval) * time.Millisecond,
		BatchSize:   cfg.Dispatcher.BatchSize,
		TickTimeout: time.Duration(cfg.Dispatcher.TickTimeout) * time.Millisecond,
	}, scheduledStore, liveStore, channels, obs, log)
	go disp.Run(ctx)

	// --- Planner, AI, media ---
	generator := planner.NewGenerator(log)
	aiClient := ai.NewClient(
		cfg.APIs.AI.BaseURL,
		cfg.APIs.AI.APIKey,
		cfg.APIs.AI.Model,
		time.Duration(cfg.APIs.AI.Timeout)*time.Millisecond,
		log,
	)

	mediaLoader := media.NewHTTPLoader(commonhttp.NewClient(15*time.Second), cfg.Media.BaseURL)
	mediaCache := media.NewCache(rdb.Client, mediaLoader, time.Duration(cfg.Media.CacheTTL)*time.Second, log)

	wizardStore := wizard.NewRedisStore(rdb.Client, 30*time.Minute)

	// --- HTTP API ---
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	api.SetupRoutes(router, api.Handlers{
		Notifications: api.NewNotificationHandler(scheduledStore, liveStore, log),
		Plans:         api.NewPlanHandler(planStore, generator, aiClient, log),
		Wizard:        api.NewWizardHandler(wizardStore, planStore, generator, aiClient, log),
		Media:         api.NewMediaHandler(mediaCache, log),
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}
	go func() {
		zapLog.Info("API server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("api server failed", zap.Error(err))
		}
	}()

	// --- Metrics server ---
	metricsServer := &http.Server{Addr: cfg.Server.MetricsAddress, Handler: promhttp.Handler()}
	go func() {
		zapLog.Info("Metrics server listening", zap.String("address", cfg.Server.MetricsAddress))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("metrics server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLog.Info("Shutdown signal received, draining...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("api server shutdown failed", zap.Error(err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("metrics server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Shutdown complete")
}
