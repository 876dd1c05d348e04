// Package main is the entry point for the stokpanel API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stokpanel/internal/domain/auth"
	"stokpanel/internal/domain/catalogue"
	"stokpanel/internal/domain/stockcount"
	"stokpanel/internal/importer"
	"stokpanel/internal/infrastructure/cache"
	v1 "stokpanel/internal/infrastructure/http/v1"
	"stokpanel/internal/infrastructure/storage/postgres"
	"stokpanel/internal/infrastructure/storage/postgres/product_repo"
	"stokpanel/internal/netstatus"
	"stokpanel/pkg/config"
	"stokpanel/pkg/logger"
)

func main() {
	config.LoadEnv()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "local") == "local",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting stokpanel server")

	// --- Database connection ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	// --- Redis (session flags) ---
	redisClient, err := cache.NewClient(ctx, cache.Config{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	})
	if err != nil {
		log.Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()
	log.Info("redis connection established")

	// --- Connectivity monitor ---
	onlineFlag := netstatus.NewFlag(true)
	probe := netstatus.NewPoolProbe(pool.Unwrap(), onlineFlag,
		getEnvDuration("NETSTATUS_PROBE_INTERVAL", 10*time.Second))
	probeCtx, stopProbe := context.WithCancel(ctx)
	defer stopProbe()
	go probe.Run(probeCtx)

	// --- Storage and domain services ---
	txManager := postgres.NewTxManager(pool)
	productRepo := product_repo.New(txManager)

	controller := catalogue.NewController(catalogue.Config{
		Repo:    productRepo,
		Monitor: onlineFlag,
	})
	pipeline := importer.NewPipeline(productRepo)
	stockCountService := stockcount.NewService(productRepo, controller)

	// --- Auth ---
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(mustEnv("JWT_SECRET")))
	sessions := cache.NewSessionFlags(redisClient)
	authService := auth.NewService(auth.Config{
		Username:     getEnv("ADMIN_USERNAME", "admin"),
		Password:     getEnv("ADMIN_PASSWORD", "admin"),
		PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
	}, sessions, jwtService)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:       log,
		AuthService:  authService,
		JWTValidator: jwtService,
		Sessions:     sessions,
		Catalogue:    controller,
		ProductRepo:  productRepo,
		Pipeline:     pipeline,
		StockCount:   stockCountService,
		Monitor:      onlineFlag,
		DB:           pool,
		Redis:        redisClient,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stopProbe()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
