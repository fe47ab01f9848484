package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conversions/actions"
	"conversions/auth"
	"conversions/config"
	"conversions/logger"
	"conversions/routes"
	"conversions/services"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := logger.Init(cfg.LogFile, true, logger.ParseLevel(cfg.LogLevel)); err != nil {
		logger.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Info("Starting conversion records service...")

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
	}); err != nil {
		logger.Fatalf("sentry.Init: %v", err)
	}
	// Flush buffered events before the program terminates.
	defer sentry.Flush(2 * time.Second)

	ctx := context.Background()

	// Initialize database service
	dbSvc, err := services.NewDatabaseService(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbSvc.Close()
	logger.Info("Connected to database successfully")

	if cfg.DBAutoMigrate {
		if err := dbSvc.Migrate(ctx); err != nil {
			logger.Fatalf("Failed to migrate database: %v", err)
		}
		logger.Info("Database schema is up to date")
	}

	// Status mirror is optional; without Redis it silently does nothing.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("Redis unreachable at %s, status mirror will retry per write: %v", cfg.RedisAddr, err)
		} else {
			logger.Infof("Connected to Redis at %s", cfg.RedisAddr)
		}
		defer redisClient.Close()
	} else {
		logger.Info("REDIS_ADDR not set, status mirror disabled")
	}
	statusMirror := services.NewStatusMirror(redisClient, cfg.RedisPrefix, cfg.StatusMirrorTTL)

	var linkSigner actions.LinkSigner
	if cfg.S3Enabled() {
		s3Svc, err := services.NewS3Service(cfg)
		if err != nil {
			logger.Fatalf("Failed to initialize S3 signer: %v", err)
		}
		linkSigner = s3Svc
		logger.Infof("S3 output links enabled (region=%s, ttl=%v)", cfg.S3Region, cfg.S3PresignTTL)
	}

	var verifier *auth.Verifier
	if cfg.JWTSecret != "" {
		if len(cfg.JWTSecret) < 32 {
			logger.Fatalf("AUTH_JWT_SECRET must be at least 32 bytes")
		}
		verifier = auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTClockSkew)
	} else {
		logger.Warn("AUTH_JWT_SECRET not set, every action will answer UNAUTHORIZED")
	}

	actionService := actions.NewService(dbSvc, statusMirror, linkSigner)

	var handler *routes.Handler
	if verifier != nil {
		handler = routes.NewHandler(actionService, verifier, dbSvc)
	} else {
		handler = routes.NewHandler(actionService, nil, dbSvc)
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           routes.WithCORS(routes.NewRouter(handler), cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutdown signal received, draining requests...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("Shutdown timeout, forcing exit: %v", err)
	}

	logger.Info("Conversion records service stopped")
}
