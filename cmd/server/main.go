package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/civstack/civharvest/internal/api"
	"github.com/civstack/civharvest/internal/config"
	"github.com/civstack/civharvest/internal/pipeline"
	"github.com/civstack/civharvest/internal/store"
)

func main() {
	godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := store.New(cfg.RawDir, cfg.ProcessedDir)

	var index *store.Index
	if cfg.IndexEnabled {
		var err error
		index, err = store.NewIndex(store.IndexConfig{
			Path:       cfg.IndexDir,
			OllamaURL:  cfg.OllamaURL,
			EmbedModel: cfg.EmbedModel,
		})
		if err != nil {
			log.Error("failed to open vector index", "error", err)
			os.Exit(1)
		}
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, st, index, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting civharvest", "port", cfg.Port, "index_enabled", cfg.IndexEnabled)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
