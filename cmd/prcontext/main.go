package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/mark3labs/mcp-go/server"

	githubadapter "github.com/ericfisherdev/prcontext/internal/adapter/driven/github"
	mcpadapter "github.com/ericfisherdev/prcontext/internal/adapter/driving/mcp"
	"github.com/ericfisherdev/prcontext/internal/application"
	"github.com/ericfisherdev/prcontext/internal/config"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration. A missing token is not fatal here; it surfaces
	//    as an authorization failure on the first upstream fetch.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.HasGitHubToken() {
		slog.Warn("no GitHub token configured; API calls will be unauthenticated")
	}
	slog.Info("config loaded",
		"commit_page_size", cfg.CommitPageSize,
		"max_prs_per_call", cfg.MaxPRsPerCall,
		"token_present", cfg.HasGitHubToken(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Wire adapters and services.
	client := githubadapter.NewClient(cfg.GitHubToken)
	discovery := application.NewDiscoveryService(client, cfg.CommitPageSize)
	details := application.NewDetailService(client, cfg.MaxPRsPerCall)
	handler := mcpadapter.NewHandler(discovery, details)

	// 4. Register tools on the MCP server.
	srv := server.NewMCPServer("prcontext", version,
		server.WithToolCapabilities(false),
	)
	srv.AddTool(handler.ListPRsForFileTool())
	srv.AddTool(handler.GetPRDetailsTool())

	// 5. Serve over stdio until stdin closes or a shutdown signal arrives.
	//    Logs go to stderr, so they never corrupt the protocol framing.
	slog.Info("prcontext started", "version", version)

	stdio := server.NewStdioServer(srv)
	errCh := make(chan error, 1)
	go func() {
		errCh <- stdio.Listen(ctx, os.Stdin, os.Stdout)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
		return nil
	case err := <-errCh:
		if err != nil && ctx.Err() == nil {
			return err
		}
		slog.Info("stdin closed, shutting down")
		return nil
	}
}
