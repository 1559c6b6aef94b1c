// Package main provides the entry point for the Curio server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/curioapp/curio-server/internal/api"
	"github.com/curioapp/curio-server/internal/config"
	"github.com/curioapp/curio-server/internal/identity"
	"github.com/curioapp/curio-server/internal/logger"
	"github.com/curioapp/curio-server/internal/service"
	"github.com/curioapp/curio-server/internal/store/sqlite"
	"github.com/curioapp/curio-server/internal/uploads"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "curio: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Curio server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"database_path", cfg.Database.Path,
	)

	st, err := sqlite.Open(cfg.Database.Path, log.Logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	provider := identity.New(cfg.Identity.BaseURL, log.Logger)

	var issuer uploads.Issuer
	if cfg.Uploads.Endpoint != "" {
		client, err := uploads.New(uploads.Options{
			Endpoint:  cfg.Uploads.Endpoint,
			AccessKey: cfg.Uploads.AccessKey,
			SecretKey: cfg.Uploads.SecretKey,
			UseSSL:    cfg.Uploads.UseSSL,
			Bucket:    cfg.Uploads.Bucket,
			PublicURL: cfg.Uploads.PublicURL,
		}, log.Logger)
		if err != nil {
			return fmt.Errorf("create uploads client: %w", err)
		}
		issuer = client
	} else {
		log.Warn("Image uploads disabled, no object store configured")
	}

	services := &api.Services{
		Verifier: provider,
		Auth:     service.NewAuthService(provider, st, log.Logger),
		User:     service.NewUserService(st, log.Logger),
		Tab:      service.NewTabService(st, log.Logger),
		Review:   service.NewReviewService(st, log.Logger),
		Bookmark: service.NewBookmarkService(st, log.Logger),
		Uploads:  issuer,
	}

	server := api.NewServer(st, services, api.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, log.Logger)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
