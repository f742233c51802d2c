package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "workjournal/internal/adapters/mcp"
	"workjournal/internal/application/commands"
	"workjournal/internal/config"
	"workjournal/internal/journal"
	"workjournal/internal/logging"
)

func main() {
	configFlag := flag.String("config", "", "configuration file path")
	skipSync := flag.Bool("no-sync", false, "do not sync the index at startup")
	flag.Parse()

	cfg, _, _, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("workjournal-mcp: %v", err)
	}

	// stdout carries the protocol
	logger, err := journal.NewLogger(cfg, "workjournal-mcp", true)
	if err != nil {
		log.Fatalf("workjournal-mcp: %v", err)
	}

	j, err := journal.Open(cfg, logger)
	if err != nil {
		log.Fatalf("workjournal-mcp: %v", err)
	}
	defer j.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !*skipSync {
		go func() {
			result, err := commands.NewSyncCommand(j.Sync, j.WorkWeek, j.BasePath()).Execute(ctx)
			if err != nil {
				logger.Warn("startup sync failed", logging.Error(err))
				return
			}
			logger.Info("startup sync finished", slog.String("summary", result.Report.Summary()))
		}()
	}

	mcpServer := server.NewMCPServer(
		"workjournal-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	tools := mcpadapter.Journal{
		Repo:     j.Repo,
		Index:    j.Index,
		Sync:     j.Sync,
		WorkWeek: j.WorkWeek,
	}
	mcpadapter.RegisterReadTools(mcpServer, tools)
	mcpadapter.RegisterWriteTools(mcpServer, tools)

	logger.Info("serving", slog.String(logging.FieldPath, j.BasePath()))
	if err := server.ServeStdio(mcpServer); err != nil {
		cancel()
		j.Close()
		log.Fatalf("workjournal-mcp: %v", err)
	}
}
