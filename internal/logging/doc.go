// Package logging builds the slog loggers shared by the CLI, the TUI and the
// MCP server.
//
// Two formats are supported: a compact console format for terminals and JSON
// for everything else. Field names used across packages live here so sync
// passes, writes and reads tag their lines the same way.
package logging
