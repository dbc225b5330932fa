package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/pbes/hscode-service/internal/api/handler"
	"github.com/pbes/hscode-service/internal/api/router"
	"github.com/pbes/hscode-service/internal/audit"
	"github.com/pbes/hscode-service/internal/classifier"
	"github.com/pbes/hscode-service/internal/config"
	"github.com/pbes/hscode-service/internal/reference"
	"github.com/pbes/hscode-service/internal/scan"
	"github.com/pbes/hscode-service/shared/logger"
	"github.com/pbes/hscode-service/shared/postgresql"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	// Parse command-line flags
	defaultConfigPath := os.Getenv("API_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/api-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	appLogger := initLogger(&cfg.Logging)

	appLogger.Info("Starting HS code API service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	// Reference dataset index; a missing workbook is not fatal, the index
	// stays empty until a reload succeeds.
	index := reference.NewIndex(cfg.Reference.FilePath, appLogger.Logger)
	if load := index.Reload(); !load.Loaded {
		appLogger.Warn("Reference workbook not loaded",
			slog.String("message", load.Message),
		)
	}

	// External classifier client
	ollamaClient := classifier.NewOllamaClient(classifier.Config{
		BaseURL:   cfg.Ollama.BaseURL,
		Model:     cfg.Ollama.Model,
		TextModel: cfg.Ollama.TextModel,
		Timeout:   cfg.Ollama.Timeout,
	})

	// Optional scan audit trail
	var auditLog scan.AuditLog
	var dbClient *postgresql.Client
	if cfg.AuditEnabled() {
		dbClient, err = initPostgreSQL(&cfg.Database, appLogger.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize audit database: %w", err)
		}
		auditLog = audit.NewStorage(dbClient)
		appLogger.Info("Scan audit trail enabled")
	}

	// Scan orchestration
	store := scan.NewStore(cfg.Scan.JobTTL)
	scanService := scan.NewService(&scan.Config{
		Store:    store,
		Client:   ollamaClient,
		Enricher: scan.NewEnricher(index),
		Audit:    auditLog,
		Logger:   appLogger.Logger,
		Timeout:  cfg.Ollama.Timeout,
	})

	// Initialize router
	r := initRouter(cfg.App.Environment, appLogger.Logger, scanService, store, index, dbClient)

	// Create HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed to start",
				slog.Any("error", err),
			)
			os.Exit(1)
		}
	}()

	appLogger.Info("HS code API service is running",
		slog.String("address", addr),
	)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)

	cleanup := func() {
		cancel()
		if dbClient != nil {
			_ = dbClient.Close()
		}
	}
	defer cleanup()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown",
			slog.Any("error", err),
		)
		return err
	}

	appLogger.Info("Server shutdown complete")
	return nil
}

// initLogger initializes and configures the application logger
func initLogger(cfg *config.LoggingConfig) *logger.Logger {
	return logger.New(&logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableCaller,
		TimeFormat:   time.RFC3339,
	})
}

// initPostgreSQL initializes the audit database client
func initPostgreSQL(cfg *config.DatabaseConfig, logger *slog.Logger) (*postgresql.Client, error) {
	dbConfig := &postgresql.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		Database:        cfg.Database,
		SSLMode:         cfg.SSLMode,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}

	return postgresql.NewClient(dbConfig, logger)
}

// initRouter initializes the Gin router with all routes and middleware
func initRouter(environment string, logger *slog.Logger, scanService *scan.Service, store *scan.Store, index *reference.Index, dbClient *postgresql.Client) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	handlerDeps := &handler.Dependencies{
		Logger:      logger,
		ScanService: scanService,
		Store:       store,
		Index:       index,
	}
	if dbClient != nil {
		handlerDeps.DBHealth = dbClient.HealthCheck
	}

	return router.SetupRouter(handlerDeps)
}
