package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wasin-t/eventbook/internal/di"
	"github.com/wasin-t/eventbook/internal/gateway"
	"github.com/wasin-t/eventbook/internal/metrics"
	"github.com/wasin-t/eventbook/internal/middleware"
	"github.com/wasin-t/eventbook/internal/service"
	"github.com/wasin-t/eventbook/pkg/config"
	"github.com/wasin-t/eventbook/pkg/database"
	"github.com/wasin-t/eventbook/pkg/kafka"
	"github.com/wasin-t/eventbook/pkg/logger"
	pkgredis "github.com/wasin-t/eventbook/pkg/redis"
	"github.com/wasin-t/eventbook/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logCfg := &logger.Config{
		Level:       "info",
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if cfg.App.Debug {
		logCfg.Level = "debug"
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info(fmt.Sprintf("Starting %s %s...", cfg.App.Name, cfg.App.Version))

	ctx := context.Background()

	// Telemetry
	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		appLog.Warn(fmt.Sprintf("Telemetry init failed, tracing disabled: %v", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			appLog.Warn(fmt.Sprintf("Telemetry shutdown error: %v", err))
		}
	}()

	if err := metrics.Init(); err != nil {
		appLog.Warn(fmt.Sprintf("Metrics init failed: %v", err))
	}

	// Database
	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxOpenConns),
		MinConns:        int32(cfg.Database.MaxIdleConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()
	appLog.Info("Database connected")

	// Redis
	redisClient, err := pkgredis.NewClient(ctx, &pkgredis.Config{
		Host:          cfg.Redis.Host,
		Port:          cfg.Redis.Port,
		Password:      cfg.Redis.Password,
		DB:            cfg.Redis.DB,
		PoolSize:      cfg.Redis.PoolSize,
		MinIdleConns:  cfg.Redis.MinIdleConns,
		DialTimeout:   cfg.Redis.DialTimeout,
		ReadTimeout:   cfg.Redis.ReadTimeout,
		WriteTimeout:  cfg.Redis.WriteTimeout,
		MaxRetries:    3,
		RetryInterval: 100 * time.Millisecond,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Redis connection failed: %v", err))
	}
	defer redisClient.Close()
	appLog.Info("Redis connected")

	// Payment gateway: Stripe when configured, mock otherwise
	var paymentGateway gateway.PaymentGateway
	if cfg.Stripe.SecretKey != "" {
		paymentGateway, err = gateway.NewStripeGateway(&gateway.StripeGatewayConfig{
			SecretKey:     cfg.Stripe.SecretKey,
			WebhookSecret: cfg.Stripe.WebhookSecret,
		})
		if err != nil {
			appLog.Fatal(fmt.Sprintf("Stripe gateway init failed: %v", err))
		}
		appLog.Info("Stripe gateway configured")
	} else {
		paymentGateway = gateway.NewMockGateway()
		appLog.Warn("No Stripe key configured, using mock payment gateway")
	}

	// Notification publisher: best effort, no-op when Kafka is down
	var notifier service.Notifier
	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:       cfg.Kafka.Brokers,
		ClientID:      cfg.Kafka.ClientID,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
		LingerMs:      10,
	})
	if err != nil {
		appLog.Warn(fmt.Sprintf("Kafka connection failed, using no-op notifier: %v", err))
		notifier = service.NewNoOpNotifier()
	} else {
		notifier, err = service.NewKafkaNotifier(producer, cfg.Kafka.NotificationTopic, cfg.App.Name)
		if err != nil {
			appLog.Fatal(fmt.Sprintf("Notifier init failed: %v", err))
		}
		appLog.Info("Kafka notifier connected")
	}
	defer notifier.Close()

	container := di.NewContainer(&di.ContainerConfig{
		Config:         cfg,
		DB:             db,
		Redis:          redisClient,
		PaymentGateway: paymentGateway,
		Notifier:       notifier,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(telemetry.Middleware(cfg.App.Name))
	router.Use(middleware.Metrics())

	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	v1 := router.Group("/api/v1")
	{
		// Public catalog and gate verification
		v1.GET("/events", container.EventHandler.List)
		v1.GET("/events/:id", container.EventHandler.Get)
		v1.POST("/tickets/verify", container.TicketHandler.Verify)

		// Provider webhook, authenticated by signature instead of JWT
		v1.POST("/webhooks/stripe", container.WebhookHandler.HandleStripeWebhook)

		// Authenticated surface
		auth := v1.Group("")
		auth.Use(middleware.Auth(cfg.JWT.Secret))
		{
			auth.POST("/events", container.EventHandler.Create)
			auth.PUT("/events/:id", container.EventHandler.Update)
			auth.DELETE("/events/:id", container.EventHandler.Delete)

			auth.POST("/events/:id/bookings", container.BookingHandler.Create)
			auth.GET("/bookings", container.BookingHandler.List)
			auth.GET("/bookings/:id", container.BookingHandler.Get)
			auth.DELETE("/bookings/:id", container.BookingHandler.Cancel)

			auth.POST("/bookings/:id/ticket", container.TicketHandler.Issue)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		appLog.Info(fmt.Sprintf("Listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}
