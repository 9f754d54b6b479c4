/*
Package main is the entry point for the DCG (Digital Certificate Generator) server.

It loads configuration, initializes the global logging system, wires the
document store, certificate renderer, optional archive, and notification hub
into the course service, and runs the HTTP server with graceful shutdown on
SIGINT/SIGTERM.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dcg/internal/app/archive"
	"dcg/internal/app/cert"
	"dcg/internal/app/course"
	"dcg/internal/app/notify"
	"dcg/internal/app/store"
	"dcg/internal/configs"
	"dcg/internal/handler"
	"dcg/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Str("store_backend", cfg.StoreBackend).
		Str("course", cfg.CourseName).
		Bool("archive_enabled", cfg.ArchiveEnabled()).
		Bool("ephemeral_sessions", cfg.EphemeralSecret).
		Msg("Configuration loaded successfully")

	if cfg.EphemeralSecret {
		logx.Info("No JWT_SECRET configured; sessions will not survive a restart")
	}

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Document store
	var st store.Store
	switch cfg.StoreBackend {
	case configs.StoreBackendPostgres:
		st, err = store.NewPostgresStore(cfg.DatabaseDSN)
	default:
		st, err = store.NewFileStore(cfg.DataDir)
	}
	if err != nil {
		logx.Fatal(err, "Failed to initialize document store")
	}
	defer st.Close()

	// Certificate renderer
	renderer, err := cert.NewRenderer(cfg.CourseName)
	if err != nil {
		logx.Fatal(err, "Failed to initialize certificate renderer")
	}

	// Optional certificate archive
	var archiver archive.Archiver
	if cfg.ArchiveEnabled() {
		archiver, err = archive.NewArchiver(archive.Config{
			S3BucketName:      cfg.S3BucketName,
			S3Endpoint:        cfg.S3Endpoint,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			logx.Fatal(err, "Failed to initialize certificate archive")
		}
	}

	// Notification hub and course service
	hub := notify.NewHub()
	service := course.NewService(st, renderer, archiver, hub.BroadcastStateUpdated)

	// Keep the seeded demo data self-consistent: bob is marked completed but
	// ships without a certificate until the first boot renders one.
	if err := service.EnsureDemoCertificate(ctx, "bob"); err != nil {
		logx.Error(err, "Demo certificate backfill failed")
	}

	// Setup HTTP server and routes
	deps := &handler.AppDeps{
		Service: service,
		Config:  cfg,
		Hub:     hub,
	}
	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("DCG Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	hub.Shutdown()

	logx.Info("Server gracefully stopped.")
}
