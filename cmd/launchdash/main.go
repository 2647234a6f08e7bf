// launchdash - interactive dashboard over SpaceX launch records.
//
// Usage:
//
//	launchdash [--config path] [--data file] [--addr :8050] [--dev]
//
// Flags:
//
//	--config  Path to launchdash.yaml (optional; defaults apply without it)
//	--data    Dataset file or s3://bucket/key, overrides dataset.path
//	--addr    Override server.addr from config
//	--dev     Dev mode: render cache on an in-process miniredis
//
// Environment:
//
//	LAUNCHDASH_DATASET  dataset path when neither config nor --data sets one
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ruslano69/launchdash/internal/api"
	"github.com/ruslano69/launchdash/internal/infra"
	"github.com/ruslano69/launchdash/pkg/launch"
)

func main() {
	dev := flag.Bool("dev", false, "dev mode: in-process miniredis render cache")
	configPath := flag.String("config", "", "path to config file")
	dataPath := flag.String("data", "", "dataset path override (csv, xlsx or s3://bucket/key)")
	addrOverride := flag.String("addr", "", "listen address override (e.g. :8050)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := infra.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("config load failed")
	}
	if *dataPath != "" {
		cfg.Dataset.Path = *dataPath
	}
	if *addrOverride != "" {
		cfg.Server.Addr = *addrOverride
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := infra.SetupLogging(cfg.Log, os.Stderr); err != nil {
		log.Fatal().Err(err).Msg("logging setup failed")
	}
	infra.LogRetries(cfg)

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The dataset is loaded once; a load error is fatal.
	ds, err := launch.LoadSource(ctx, cfg.Dataset)
	if err != nil {
		var le *launch.LoadError
		if errors.As(err, &le) && le.Column != "" {
			log.Fatal().Err(err).Str("source", le.Path).Str("column", le.Column).Msg("dataset load failed")
		}
		log.Fatal().Err(err).Str("source", cfg.Dataset.Name()).Msg("dataset load failed")
	}
	log.Info().
		Str("source", ds.Source()).
		Int("records", ds.Len()).
		Int("sites", len(ds.Sites())).
		Int("booster_categories", len(ds.BoosterCategories())).
		Float64("min_payload", ds.MinPayload()).
		Float64("max_payload", ds.MaxPayload()).
		Uint64("fingerprint", ds.Fingerprint()).
		Msg("dataset loaded")

	inf, err := infra.Setup(ctx, cfg, *dev)
	if err != nil {
		log.Fatal().Err(err).Msg("infrastructure setup failed")
	}
	defer inf.Close()

	if *dev {
		log.Warn().Msg("DEV MODE ACTIVE: render cache on in-process miniredis")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(cfg, inf, ds),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", cfg.Server.Addr).
			Bool("dev", *dev).
			Str("cache", cfg.Cache.Type).
			Msg("launchdash started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
	log.Info().Msg("stopped")
}
