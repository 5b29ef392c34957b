// movehint-server serves move hints and game history over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/lgbarn/movehint-go/internal/api"
	"github.com/lgbarn/movehint-go/internal/config"
	"github.com/lgbarn/movehint-go/internal/logging"
	"github.com/lgbarn/movehint-go/internal/store"
)

const (
	programVersion  = "0.1.0"
	shutdownTimeout = 10 * time.Second
)

var (
	configFile = flag.String("config", "", "YAML configuration file")
	version    = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("movehint-server version %s\n", programVersion)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	repo, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Error().Err(err).Msg("closing store")
		}
	}()

	srv := newServer(cfg, repo, log)
	errc := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("store", cfg.Store.Backend).
			Bool("safe_king_steps", cfg.Engine.SafeKingSteps).
			Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServer wires the router for cfg.
func newServer(cfg *config.Config, repo store.HistoryRepository, log zerolog.Logger) *http.Server {
	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(api.Deps{
		Store:   repo,
		Engine:  cfg.Engine,
		Session: cfg.Session,
		Log:     log,
	})
	return &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
