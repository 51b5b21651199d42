// Oicmcp is the OIC monitoring MCP gateway.
//
// It exposes a curated catalog of monitoring operations against Oracle
// Integration Cloud tenants as MCP tools, served over two wire transports
// on one HTTP listener.
//
// Configuration is loaded from environment variables. See internal/config.
//
// Usage:
//
//	# Start the gateway with defaults
//	oicmcp
//
//	# Configure via environment
//	PORT=8080 OIC_CLIENT_ID_DEV=... OIC_CLIENT_SECRET_DEV=... oicmcp
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/nareshsaladi2024/oicagentops/internal/auth"
	"github.com/nareshsaladi2024/oicagentops/internal/catalog"
	"github.com/nareshsaladi2024/oicagentops/internal/config"
	"github.com/nareshsaladi2024/oicagentops/internal/logging"
	"github.com/nareshsaladi2024/oicagentops/internal/mcp"
	"github.com/nareshsaladi2024/oicagentops/internal/oic"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  oicmcp           Start the MCP gateway\n")
			fmt.Fprintf(os.Stderr, "  oicmcp version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("oicmcp - OIC monitoring MCP gateway\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the gateway and blocks until the context is cancelled.
//
// Initialization order follows the dependency chain: configuration, logger,
// token cache, upstream client, tool catalog, MCP server. Shutdown drains
// in-flight requests within the configured deadline and evicts every cached
// token.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting oicmcp",
		zap.Int("port", cfg.Port),
		zap.Strings("tenants", cfg.ConfiguredTenants()),
		zap.Duration("shutdown_timeout", cfg.ShutdownTimeout))

	tokens, err := auth.NewCache(cfg.TokenDir, logger.Named("auth"))
	if err != nil {
		return fmt.Errorf("failed to initialize token cache: %w", err)
	}
	defer tokens.EvictAll()

	client := oic.NewClient(tokens, logger.Named("oic"))
	cat := catalog.New()
	server := mcp.NewServer(cfg, cat, tokens, client, version, logger.Named("mcp"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown drain exceeded deadline", zap.Error(err))
	}
	return nil
}
