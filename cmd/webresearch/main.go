// Command webresearch is an MCP stdio server exposing web research
// tools: multi_search fans several queries out to a search provider and
// merges the results, fetch_pages downloads pages concurrently and
// extracts their readable text.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"webresearch/internal/adapter/gateway"
	"webresearch/internal/adapter/tool"
	"webresearch/internal/infra/config"
	"webresearch/internal/infra/logger"
	"webresearch/internal/infra/tracer"
)

const (
	serverName    = "webresearch"
	serverVersion = "1.0.0"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", serverName, serverVersion)
		return
	}

	if err := run(*cfgPath); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath string) error {
	// 1. Config. A missing file is fine: defaults plus WEBRESEARCH_*
	// env overrides make the server usable with zero setup.
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// 2. Logger & Tracer. Both write to stderr: stdout belongs to the
	// MCP transport.
	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracerShutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return fmt.Errorf("tracer: %w", err)
	}
	defer tracerShutdown(context.Background())

	// 3. Search backend, optionally behind a circuit breaker.
	backend, err := buildSearchBackend(cfg, log)
	if err != nil {
		return fmt.Errorf("search backend: %w", err)
	}

	// 4. Tools.
	registry := tool.NewRegistry(log)
	registry.Register(tool.NewMultiSearchTool(backend, cfg.Search, log))
	registry.Register(tool.NewFetchPagesTool(cfg.Fetch, log))

	// 5. Serve.
	srv := gateway.NewMCPServer(serverName, serverVersion, registry, log)
	log.Info("starting webresearch MCP server",
		"version", serverVersion,
		"search_backend", backend.Name(),
	)

	if err := srv.ServeStdio(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serve: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func buildSearchBackend(cfg *config.Config, log *slog.Logger) (tool.SearchBackend, error) {
	var backend tool.SearchBackend
	switch cfg.Search.Backend {
	case "searxng":
		backend = tool.NewSearXNGBackend(cfg.Search.SearXNGURL, log)
	case "duckduckgo":
		backend = tool.NewDuckDuckGoBackend("", cfg.Fetch.UserAgent, log)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Search.Backend)
	}

	if cfg.Search.Breaker.Enabled {
		backend = tool.NewCircuitBreakerBackend(backend, cfg.Search.Breaker, log)
	}
	return backend, nil
}
