package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"job-tracker/config"
	"job-tracker/internal/api/handlers"
	"job-tracker/internal/app"
	"job-tracker/internal/companydir"
	"job-tracker/internal/database"
	"job-tracker/internal/server"
	"job-tracker/internal/session"
	"job-tracker/internal/storage"
	"job-tracker/internal/storage/memory"
	"job-tracker/internal/storage/postgres"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// @title           Job Tracker API
// @version         1.0
// @description     Track job applications, their status history and application analytics.

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logFile, _ := config.InitLogging(cfg.Logging)
	if logFile != nil {
		defer logFile.Close()
	}

	// --- Storage ---
	var store storage.Store
	switch cfg.DB.Driver {
	case "memory":
		log.Warn("Using in-memory storage; data is lost on restart")
		store = memory.New()
	default:
		if cfg.DB.MigrateOnStart {
			if err := database.Migrate(cfg.DB); err != nil {
				log.Fatalf("Failed to run database migrations: %v", err)
			}
		}
		dbPool, err := database.NewConnectionPool(cfg.DB)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer dbPool.Close()
		store = postgres.NewStore(dbPool)
	}

	// --- Redis (optional) ---
	var (
		redisClient *redis.Client
		revocations session.RevocationStore
		dirOpts     []companydir.Option
	)
	if cfg.Redis.Enabled {
		redisClient, err = database.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		revocations = session.NewRedisRevocationStore(redisClient)
		dirOpts = append(dirOpts, companydir.WithCache(companydir.NewRedisCache(redisClient), cfg.CompanyDirectory.CacheTTL))
	} else {
		log.Info("Redis disabled: sessions cannot be revoked server side and company searches are not cached")
	}

	application := &app.Application{
		Config:      cfg,
		Store:       store,
		RedisClient: redisClient,
		Validator:   handlers.NewValidator(),
		Sessions:    session.NewManager(cfg.JWT.Secret, cfg.JWT.Expiration, revocations),
		Directory:   companydir.New(cfg.CompanyDirectory.BaseURL, cfg.CompanyDirectory.Timeout, dirOpts...),
	}

	srv := server.NewServer(application)

	// --- Graceful Shutdown Handling ---
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Printf("Received %s, shutting down server...", sig)
	case err := <-serverErr:
		if err != nil {
			log.Errorf("Server error: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server shutdown failed: %v", err)
	}

	log.Println("Application gracefully stopped.")
}
