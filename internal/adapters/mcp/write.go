package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"workjournal/internal/application/commands"
)

// RegisterWriteTools adds the tools that change the journal or its index.
func RegisterWriteTools(s *server.MCPServer, j Journal) {
	s.AddTool(writeEntryTool(), writeEntryHandler(j))
	s.AddTool(syncTool(), syncHandler(j))
}

// --- write_entry ---

func writeEntryTool() mcp.Tool {
	return mcp.NewTool("write_entry",
		mcp.WithDescription("Write the journal entry for a date to its week bucket, replacing it or appending to it."),
		dateParam(),
		mcp.WithString("content",
			mcp.Description("Entry text"),
			mcp.Required(),
		),
		mcp.WithBoolean("append",
			mcp.Description("Append to the existing entry instead of replacing it"),
		),
	)
}

func writeEntryHandler(j Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewWriteEntryCommand(j.Repo, j.Sync, j.WorkWeek,
			req.GetString("date", ""), []byte(req.GetString("content", "")))
		cmd.Append = req.GetBool("append", false)

		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s (week ending %s)", result.Message, result.WeekEnding)), nil
	}
}

// --- sync ---

func syncTool() mcp.Tool {
	return mcp.NewTool("sync",
		mcp.WithDescription("Walk the journal directory and bring the entry index up to date. Reports files it could not process."),
	)
}

func syncHandler(j Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if j.Sync == nil {
			return toolError(errNoIndex)
		}
		result, err := commands.NewSyncCommand(j.Sync, j.WorkWeek, j.Repo.BasePath()).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		sb.WriteString(result.Message)
		sb.WriteByte('\n')
		for _, skipped := range result.Report.SkippedWithError {
			fmt.Fprintf(&sb, "skipped: %s\n", skipped.Error())
		}
		for _, a := range result.Report.Ambiguities {
			fmt.Fprintf(&sb, "ambiguous: %s indexed %s, ignored %s\n", a.Date, a.Chosen, strings.Join(a.Ignored, ", "))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}
