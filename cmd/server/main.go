package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"FlipSentinel/internal/api"
	"FlipSentinel/internal/config"
	"FlipSentinel/internal/marketcache"
	"FlipSentinel/internal/metrics"
	"FlipSentinel/internal/poller"
	"FlipSentinel/internal/recorder"
	"FlipSentinel/internal/telemetry"
	"FlipSentinel/internal/wiki"
)

func main() {
	// .env is optional; real deployments use environment variables.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("config validation")
	}

	log := newLogger(cfg)
	log.Info().Str("addr", cfg.Server.Addr).Msg("FlipSentinel starting")

	// Upstream client
	client := wiki.NewClient(cfg.Wiki.BaseURL, cfg.Wiki.UserAgent, cfg.Wiki.RatePerSec, cfg.Wiki.Timeout.Std())
	log.Info().Str("source", client.Name()).Str("base_url", cfg.Wiki.BaseURL).Msg("upstream configured")

	// Shared state
	cache := marketcache.New()
	store := telemetry.NewStore()
	reg := metrics.New()

	// Recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			log.Info().Str("path", cfg.Database.SQLitePath).Msg("sqlite recorder opened")
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Refresh scheduling
	intervals := poller.Intervals{
		Latest:  cfg.Poll.Latest.Std(),
		FiveMin: cfg.Poll.FiveMin.Std(),
		OneHour: cfg.Poll.OneHour.Std(),
		Mapping: cfg.Poll.Mapping.Std(),
	}
	p := poller.New(client, cache, intervals, reg, log)
	if err := p.Start(); err != nil {
		log.Fatal().Err(err).Msg("start poller")
	}
	defer p.Stop()

	// Websocket hub + periodic recommendation broadcast
	hub := api.NewHub(reg, log)
	go hub.Run()

	broadcaster := api.NewBroadcaster(cache, hub, rec, reg, cfg.Poll.Broadcast.Std(), log)
	if err := broadcaster.Start(); err != nil {
		log.Fatal().Err(err).Msg("start broadcaster")
	}
	defer broadcaster.Stop()

	// HTTP API
	server := api.NewServer(cache, store, hub, reg, cfg.Server.BridgeToken, log)
	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.Router(),
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server")
		}
	}()
	log.Info().Msg("FlipSentinel is running")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("FlipSentinel stopped")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr)
	if cfg.Log.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return logger.Level(level).With().Timestamp().Logger()
}
