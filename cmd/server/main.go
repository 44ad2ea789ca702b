// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

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

	"github.com/rs/zerolog"

	"github.com/tomtom215/bundlecraft/internal/api"
	"github.com/tomtom215/bundlecraft/internal/config"
	"github.com/tomtom215/bundlecraft/internal/events"
	"github.com/tomtom215/bundlecraft/internal/logging"
	"github.com/tomtom215/bundlecraft/internal/recommend"
	"github.com/tomtom215/bundlecraft/internal/signals"
	"github.com/tomtom215/bundlecraft/internal/supervisor"
	"github.com/tomtom215/bundlecraft/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logging.Logger()); err != nil {
		stop()
		logging.Fatal().Err(err).Msg("Bundlecraft stopped")
	}
}

// run wires every component, serves until ctx is canceled and releases
// resources in reverse order of creation.
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("upstream", cfg.Upstream.BaseURL).
		Str("signals_source", cfg.Signals.Source).
		Bool("events_enabled", cfg.Events.Enabled).
		Msg("Starting Bundlecraft")

	gw := initGateway(cfg, logger)
	defer gw.catalog.Close()

	profiles, store, err := initProfiles(cfg.Signals, gw.shop, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error().Err(err).Msg("Error closing signal store")
			}
		}()
	}

	// A nil *signals.Store must not become a non-nil Applier.
	var applier events.Applier
	if store != nil {
		applier = store
	}
	ev, err := initEvents(cfg.Events, applier, logger)
	if err != nil {
		return err
	}
	defer ev.close(logger)

	var recorder recommend.Recorder
	if ev != nil {
		recorder = ev.recorder
	}
	resolver, err := initResolver(cfg, gw, profiles, recorder, logger)
	if err != nil {
		return err
	}

	handler := api.NewHandler(resolver, api.HandlerConfig{MaxLimit: cfg.Recommend.MaxLimit})
	if ev != nil {
		handler.SetRecorder(ev.recorder)
	}
	handler.SetBreakerReporter(gw.client)

	mw := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           api.NewRouter(handler, mw).SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	if store != nil {
		tree.AddDataService(signals.NewGCService(store, 0))
	}
	ev.addToTree(tree)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logger.Info().Str("addr", server.Addr).Msg("Supervisor tree starting")
	err = <-tree.ServeBackground(ctx)

	if report, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(report) > 0 {
		for _, svc := range report {
			logger.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	logger.Info().Msg("Bundlecraft stopped")
	return nil
}
