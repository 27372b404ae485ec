// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/taskforge/taskforge/internal/config"
	"github.com/taskforge/taskforge/internal/database"
	"github.com/taskforge/taskforge/internal/middleware"
	"github.com/taskforge/taskforge/internal/server"
	"github.com/taskforge/taskforge/internal/service"
	"github.com/taskforge/taskforge/internal/store"
	"github.com/taskforge/taskforge/pkg/auth"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Connect to database
	log.Println("Connecting to PostgreSQL...")
	db, err := database.Connect(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database connection: %v", err)
		}
	}()

	// Run auto migration
	if cfg.Server.AutoMigrate {
		log.Println("🔄 Running auto migration...")
		if err := store.Migrate(context.Background(), db); err != nil {
			log.Fatalf("Failed to run auto migration: %v", err)
		}
		log.Println("✅ Auto migration completed")
	}

	// Initialize token manager
	tokenManager := auth.NewTokenManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenDuration,
		cfg.JWT.RefreshTokenDuration,
	)

	// Initialize services
	st := store.New(db)
	auditService := service.NewAuditService(st)
	authService := service.NewAuthService(st, auth.NewPasswordManager(), tokenManager, auditService)
	projectService := service.NewProjectService(st, auditService)
	taskService := service.NewTaskService(st, auditService)
	subtaskService := service.NewSubTaskService(st, auditService)
	tagService := service.NewTagService(st)

	// Wire up HTTP server
	authenticator := middleware.NewAuthenticator(tokenManager)
	srv := server.New(authService, projectService, taskService, subtaskService, tagService, authenticator)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.HTTPPort),
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 TaskForge HTTP server listening on port %s", cfg.Server.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("📴 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("✅ Server shutdown complete")
}
