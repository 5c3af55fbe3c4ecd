package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/draftboard/internal/api"
	"github.com/debemdeboas/draftboard/internal/config"
	"github.com/debemdeboas/draftboard/internal/db"
	"github.com/debemdeboas/draftboard/internal/logger"
	"github.com/debemdeboas/draftboard/internal/render"
	"github.com/debemdeboas/draftboard/internal/repository"
	"github.com/debemdeboas/draftboard/internal/service"
	"github.com/debemdeboas/draftboard/internal/sse"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}

	if err := config.LoadConfig(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	cfg := config.AppConfig

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	setLoggers(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		stop()
		os.Exit(1)
	}
}

func setLoggers(log zerolog.Logger) {
	config.SetLogger(logger.Component(log, "config"))
	db.SetLogger(logger.Component(log, "db"))
	repository.SetLogger(logger.Component(log, "repository"))
	service.SetLogger(logger.Component(log, "service"))
	render.SetLogger(logger.Component(log, "render"))
	api.SetLogger(logger.Component(log, "api"))
}

// newHandler wires the service, the event hub and the middleware stack.
func newHandler(cfg *config.Config, repo repository.BlogRepository) http.Handler {
	clients := sse.NewSSEClients()

	svc := service.NewBlogService(repo)
	svc.SetNotifier(api.Broadcaster(clients))

	mux := http.NewServeMux()
	api.NewHandler(svc, clients, cfg.Render.SyntaxTheme).Register(mux)

	return api.NewServerHandler(mux, cfg.Server)
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := repository.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: newHandler(cfg, store),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("backend", cfg.Storage.Backend).
			Msg("Server running")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", cfg.Server.ShutdownTimeout).Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
