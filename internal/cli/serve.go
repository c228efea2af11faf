package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/intake/pkg/adapters/http"
	"github.com/aretw0/intake/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions contains the configuration specific to the serve command.
type ServeOptions struct {
	RequestTimeout time.Duration
	// Ready, when set, receives the bound handler before the server starts listening.
	Ready func(http.Handler)
}

// Serve runs the HTTP API until ctx is cancelled.
func Serve(ctx context.Context, cfg Config, opts ServeOptions) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := createServerLogger(cfg.Debug)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	engine, err := createEngine(ctx, cfg, logger, metrics.Hooks())
	if err != nil {
		return err
	}

	store, err := openPersistence(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	serverOpts := []httpAdapter.Option{
		httpAdapter.WithLogger(logger),
		httpAdapter.WithMetrics(registry),
		httpAdapter.WithName(engine.Name),
	}
	if len(cfg.AllowedOrigins) > 0 {
		serverOpts = append(serverOpts, httpAdapter.WithAllowedOrigins(cfg.AllowedOrigins...))
	}
	if opts.RequestTimeout > 0 {
		serverOpts = append(serverOpts, httpAdapter.WithRequestTimeout(opts.RequestTimeout))
	}
	if cfg.PartnerURL != "" {
		client, err := newPartnerClient(cfg, logger)
		if err != nil {
			return err
		}
		serverOpts = append(serverOpts, httpAdapter.WithSubmitter(client))
	}

	handler := httpAdapter.NewHandler(engine, store.Manager(logger), serverOpts...)
	if opts.Ready != nil {
		opts.Ready(handler)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting intake server", "addr", srv.Addr, "questionnaire", engine.Name, "questions", len(engine.Questions()), "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("intake server stopped gracefully")
	return nil
}
