package logging

import "log/slog"

const (
	// FieldComponent names the subsystem emitting the line.
	FieldComponent = "component"
	// FieldSyncID correlates every line of one sync pass.
	FieldSyncID = "sync_id"
	// FieldDate is an entry date (YYYY-MM-DD).
	FieldDate = "date"
	// FieldPath is an entry file path.
	FieldPath = "path"
	// FieldWeekEnding is a bucket's week-ending date.
	FieldWeekEnding = "week_ending"
	// FieldLayout is canonical, reconfigured or legacy.
	FieldLayout = "layout"
)

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}
