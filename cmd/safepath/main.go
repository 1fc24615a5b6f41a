package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"safepath/internal/api"
	"safepath/internal/config"
	"safepath/internal/core"
	"safepath/internal/domain/model"
	"safepath/internal/domain/repository"
	"safepath/internal/infrastructure/safepath"
	"safepath/internal/logger"
	"safepath/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logr, err := logger.New(cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logr.Sync()

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	backend := safepath.NewHTTPClient(cfg.SafePathURL, cfg.HTTPTimeout)

	var hazards model.HazardSource = backend
	if cfg.HazardSource == config.HazardSourcePostgres {
		repo, err := repository.NewPostGISHazardRepository(cfg.PostgresURL, cfg.SearchBBox, cfg.HazardLimit)
		if err != nil {
			return err
		}
		defer repo.Close()
		hazards = repo
	}

	var suggester model.SuggestionFetcher = backend
	if cfg.SuggestSource == config.SuggestSourceOverpass {
		overpass, err := repository.NewOverpassSuggester(cfg.OverpassURL, cfg.HTTPTimeout, cfg.SearchBBox, cfg.SuggestLimit)
		if err != nil {
			return err
		}
		suggester = overpass
	}

	logr.Info("collaborators configured",
		zap.String("safepath_url", cfg.SafePathURL),
		zap.String("hazard_source", cfg.HazardSource),
		zap.String("suggest_source", cfg.SuggestSource))

	scene := render.NewScene()
	origin := core.NewSuggestionSource("origin", suggester, logr, core.WithDelay(cfg.SuggestDelay))
	destination := core.NewSuggestionSource("destination", suggester, logr, core.WithDelay(cfg.SuggestDelay))
	controller := core.NewViewController(backend, scene, logr,
		core.WithHazardSource(hazards),
		core.WithSuggestionSources(origin, destination),
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewHandler(controller, scene, logr).Router(cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logr.Info("starting server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
