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

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/Clark-Hu/recipebox/internal/backend"
	"github.com/Clark-Hu/recipebox/internal/config"
	httpserver "github.com/Clark-Hu/recipebox/internal/http"
	"github.com/Clark-Hu/recipebox/internal/logging"
	"github.com/Clark-Hu/recipebox/internal/media"
)

func main() {
	if err := run(); err != nil {
		logger := logging.Logger()
		logger.Fatal().Err(err).Msg("recipebox stopped")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger := logging.WithComponent("server")
	logger.Info().Str("env", cfg.Environment).Str("driver", cfg.StoreDriver).Msg("starting recipebox")

	dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	be, err := backend.Open(dbCtx, cfg, logging.Logger())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer be.Close()

	uploader, err := newUploader(cfg, logging.WithComponent("media"))
	if err != nil {
		return fmt.Errorf("init uploader: %w", err)
	}

	server := httpserver.New(cfg, be, be.Repo, uploader, logging.WithComponent("http"))

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("server error")
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	logger.Info().Msg("shutdown complete")
	return nil
}

func newUploader(cfg config.Config, logger zerolog.Logger) (media.Uploader, error) {
	if !cfg.UploadsConfigured() {
		logger.Warn().Msg("cloudinary credentials missing, uploads disabled")
		return media.Disabled{}, nil
	}
	return media.NewCloudinaryUploader(media.CloudinaryConfig{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.UploadFolder,
		MaxWidth:  cfg.UploadMaxWidth,
		Timeout:   time.Duration(cfg.UploadTimeoutSecs) * time.Second,
	}, logger)
}
