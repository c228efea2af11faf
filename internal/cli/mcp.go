package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/intake/pkg/adapters/mcp"
	"github.com/aretw0/intake/pkg/domain"
)

// Supported MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// MCPOptions contains the configuration specific to the mcp command.
type MCPOptions struct {
	Transport string
	BaseURL   string // public URL of the SSE endpoint, defaults to http://localhost{addr}
}

// ServeMCP exposes the questionnaire to agents over the Model Context Protocol.
func ServeMCP(ctx context.Context, cfg Config, opts MCPOptions) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	// Logs always go to stderr so they never corrupt JSON-RPC on stdout.
	logger := createServerLogger(cfg.Debug)

	engine, err := createEngine(ctx, cfg, logger, domain.LifecycleHooks{})
	if err != nil {
		return err
	}

	store, err := openPersistence(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := mcp.NewServer(engine, store.Manager(logger), mcp.WithLogger(logger))

	switch opts.Transport {
	case "", TransportStdio:
		logger.Info("starting intake MCP server (stdio)", "questionnaire", engine.Name)
		return srv.ServeStdio()
	case TransportSSE:
		baseURL := opts.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost" + cfg.Addr
		}
		logger.Info("starting intake MCP server (sse)", "addr", cfg.Addr, "base_url", baseURL)
		if err := srv.ServeSSE(ctx, cfg.Addr, baseURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("MCP server stopped gracefully")
		return nil
	default:
		return fmt.Errorf("unknown transport %q (supported: stdio, sse)", opts.Transport)
	}
}
