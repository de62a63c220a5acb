// Command dentnotion-backend runs the in-memory dev backend the gateway
// talks to during local development. It keeps no durable state; restarting
// it wipes accounts and resources.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dentnotion/dentnotion/internal/bootstrap"
	"github.com/dentnotion/dentnotion/internal/devbackend"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	backend, err := devbackend.NewServer(devbackend.Options{
		JWTSecret: []byte(cfg.DevBackend.JWTSecret),
		AccessTTL: cfg.DevBackend.AccessTTL,
		Paginated: cfg.DevBackend.Paginated,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         cfg.DevBackend.Addr,
		Handler:      backend.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.InfoContext(ctx, "starting dev backend", "addr", server.Addr, "paginated", cfg.DevBackend.Paginated)
		if serveErr := server.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			logger.ErrorContext(ctx, "dev backend failed", "error", serveErr)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
