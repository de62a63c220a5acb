// Command dentnotion runs the DentNotion session gateway: it holds the
// clinic session, proxies resource calls to the backend, and guards routes.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dentnotion/dentnotion/internal/bootstrap"
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

	logger.InfoContext(ctx, "starting dentnotion gateway",
		"backend", cfg.Backend.BaseURL,
		"session_storage", cfg.Storage.Driver,
		"dev", cfg.IsDev)

	storage, cleanup, err := bootstrap.NewSessionStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := cleanup(); cerr != nil {
			logger.ErrorContext(ctx, "close session storage failed", "error", cerr)
		}
	}()

	services, err := bootstrap.BuildServices(bootstrap.ServicesConfig{
		Config:  cfg,
		Storage: storage,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	// Hydrate the session before serving; the guard answers "loading" to
	// nothing this way, requests only ever see anonymous or authenticated.
	services.Session.Restore(ctx)

	server := bootstrap.StartHTTPServer(bootstrap.HTTPServerConfig{
		Config:   cfg,
		Services: services,
		Logger:   logger,
	})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownErr := bootstrap.ShutdownHTTPServer(bootstrap.ShutdownConfig{
		Context: ctx,
		Server:  server,
		Logger:  logger,
	})
	if shutdownErr != nil && !errors.Is(shutdownErr, context.DeadlineExceeded) {
		return shutdownErr
	}
	return nil
}
