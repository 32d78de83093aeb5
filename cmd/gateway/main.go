package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/SmartFormAI/FormGuard/pkg/app/scan"
	appsubmission "github.com/SmartFormAI/FormGuard/pkg/app/submission"
	"github.com/SmartFormAI/FormGuard/pkg/classifier"
	"github.com/SmartFormAI/FormGuard/pkg/config"
	handlers "github.com/SmartFormAI/FormGuard/pkg/handlers/http"
	"github.com/SmartFormAI/FormGuard/pkg/infra/cache"
	"github.com/SmartFormAI/FormGuard/pkg/infra/database"
	infraLogger "github.com/SmartFormAI/FormGuard/pkg/infra/logger"
	"github.com/SmartFormAI/FormGuard/pkg/infra/oracle"
	"github.com/SmartFormAI/FormGuard/pkg/infra/repository"
	"github.com/SmartFormAI/FormGuard/pkg/middleware"
	"github.com/SmartFormAI/FormGuard/pkg/server"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger()

	if err := config.Load("./config"); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	db, err := database.NewDB(logger, &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	cacheClient, err := cache.NewClient(cache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	}, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize cache: %v", err)
	}
	defer cacheClient.Close()

	oracleClient := oracle.NewClient(oracle.Config{
		Endpoint: cfg.Oracle.Endpoint,
		Model:    cfg.Oracle.Model,
		APIKey:   cfg.Oracle.APIKey,
		Timeout:  parseTimeout(logger, cfg.Oracle.Timeout),
	}, logger)

	textClassifier := classifier.New(oracleClient, logger)

	// repository
	submissionRepository := repository.NewSubmissionRepository(db.DB)
	securityLogRepository := repository.NewSecurityLogRepository(db.DB)

	// service
	scanner := scan.NewScanner(textClassifier, securityLogRepository, logger)
	submitter := appsubmission.NewSubmitter(scanner, submissionRepository, logger)

	rateLimiter, err := middleware.NewRateLimiterMiddleware(
		cacheClient.RedisClient(), logger, cfg.RateLimiter, nil,
	)
	if err != nil {
		logger.Fatalf("Failed to initialize rate limiter: %v", err)
	}

	middlewareTransport := middleware.Transport{
		AuthMiddleware:         middleware.NewAuthMiddleware(logger, cfg.Auth.JWTSecret),
		RateLimiterMiddleware:  rateLimiter,
		MetricsMiddleware:      middleware.NewMetricsMiddleware(logger),
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(logger),
	}

	handlerTransport := handlers.HandlerTransport{
		ScanInputHandler:        handlers.NewScanInputHandler(logger, textClassifier),
		SubmitFormHandler:       handlers.NewSubmitFormHandler(logger, submitter),
		ListSubmissionsHandler:  handlers.NewListSubmissionsHandler(logger, submissionRepository),
		ListSecurityLogsHandler: handlers.NewListSecurityLogsHandler(logger, securityLogRepository),
		GetVersionHandler:       handlers.NewGetVersionHandler(logger),
	}

	srv := server.NewGatewayServer(server.GatewayServerDI{
		MiddlewareTransport: middlewareTransport,
		HandlerTransport:    handlerTransport,
		Config:              cfg,
		Logger:              logger,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	fmt.Println("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		fmt.Println("error shutting down server:", err)
		os.Exit(1)
	}
	fmt.Println("server gracefully stopped")
}

func parseTimeout(logger *logrus.Logger, raw string) time.Duration {
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		logger.Warnf("invalid oracle timeout %q, using default", raw)
		return 0
	}
	return d
}
