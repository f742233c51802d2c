package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"workjournal/internal/application/commands"
	"workjournal/internal/domain"
	"workjournal/internal/ports"
)

// Journal bundles what the tools operate on
type Journal struct {
	Repo     ports.EntryRepository
	Index    ports.EntryIndex
	Sync     ports.Synchronizer
	WorkWeek domain.WorkWeekConfig
}

// RegisterReadTools adds all read-only journal tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, j Journal) {
	s.AddTool(weekEndingTool(), weekEndingHandler(j))
	s.AddTool(canonicalPathTool(), canonicalPathHandler(j))
	s.AddTool(readEntryTool(), readEntryHandler(j))
	s.AddTool(listWeeksTool(), listWeeksHandler(j))
	s.AddTool(listEntriesTool(), listEntriesHandler(j))
}

func dateParam() mcp.ToolOption {
	return mcp.WithString("date",
		mcp.Description("Entry date as YYYY-MM-DD, or today/yesterday/tomorrow. Defaults to today in the work week's timezone."),
	)
}

// --- week_ending ---

func weekEndingTool() mcp.Tool {
	return mcp.NewTool("week_ending",
		mcp.WithDescription("Show which week bucket a date belongs to under the configured work week, without writing anything."),
		dateParam(),
	)
}

func weekEndingHandler(j Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewWeekEndingCommand(j.Repo, j.WorkWeek, req.GetString("date", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "week_ending: %s\n", result.WeekEnding)
		fmt.Fprintf(&sb, "week_start: %s\n", result.WeekStart)
		fmt.Fprintf(&sb, "assignment: %s\n", result.Assignment)
		fmt.Fprintf(&sb, "path: %s\n", result.CanonicalPath)
		sb.WriteString(result.Message)
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- canonical_path ---

func canonicalPathTool() mcp.Tool {
	return mcp.NewTool("canonical_path",
		mcp.WithDescription("Get the path a new entry for a date is written to, the legacy paths it may be read from, and which one exists."),
		dateParam(),
	)
}

func canonicalPathHandler(j Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewPathCommand(j.Repo, j.WorkWeek, req.GetString("date", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "canonical: %s\n", result.Canonical)
		for _, p := range result.Legacy {
			fmt.Fprintf(&sb, "legacy: %s\n", p)
		}
		if result.Existing != nil {
			fmt.Fprintf(&sb, "existing: %s (%s)\n", result.Existing.Path, result.Existing.Layout)
		} else {
			sb.WriteString("existing: none\n")
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- read_entry ---

func readEntryTool() mcp.Tool {
	return mcp.NewTool("read_entry",
		mcp.WithDescription("Read the journal entry for a date. Entries stored in the old per-day layout are found too."),
		dateParam(),
	)
}

func readEntryHandler(j Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewReadEntryCommand(j.Repo, j.Index, j.WorkWeek, req.GetString("date", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(string(result.Entry.Content)), nil
	}
}

// --- list_weeks ---

func listWeeksTool() mcp.Tool {
	return mcp.NewTool("list_weeks",
		mcp.WithDescription("List indexed week buckets, most recent first, with entry and word counts."),
	)
}

func listWeeksHandler(j Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if j.Index == nil {
			return toolError(errNoIndex)
		}
		weeks, err := commands.NewListWeeksCommand(j.Index).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatRows(weeks, func(w domain.WeekSummary) string {
			return fmt.Sprintf("%s  %d entries  %d words", w.WeekEnding, w.Entries, w.Words)
		})
	}
}

// --- list_entries ---

func listEntriesTool() mcp.Tool {
	return mcp.NewTool("list_entries",
		mcp.WithDescription("List indexed entries in date order."),
		mcp.WithString("week_ending",
			mcp.Description("Only list the bucket ending on this date (YYYY-MM-DD). Omit to list every entry."),
		),
	)
}

func listEntriesHandler(j Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if j.Index == nil {
			return toolError(errNoIndex)
		}
		entries, err := commands.NewListEntriesCommand(j.Index, req.GetString("week_ending", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatRows(entries, func(r domain.JournalEntryRecord) string {
			return fmt.Sprintf("%s  week %s  %d words  %s", r.Date, r.WeekEndingDate, r.WordCount, r.FilePath)
		})
	}
}

// --- helpers ---

var errNoIndex = errors.New("the entry index is not available")

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatRows[T any](rows []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(rows) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, r := range rows {
		sb.WriteString(format(r))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}
