package ports

import (
	"context"

	"workjournal/internal/domain"
)

// EntryIndex is the queryable catalog derived from the entry tree.
// The files on disk stay authoritative; the index can be rebuilt from them.
type EntryIndex interface {
	// Lifecycle
	Open(basePath, dbPath string) error
	Close() error

	// GetEntry returns the record for a date, or nil if the date is not indexed
	GetEntry(ctx context.Context, date domain.Date) (*domain.JournalEntryRecord, error)

	// ListWeeks returns one summary per week bucket, most recent first
	ListWeeks(ctx context.Context) ([]domain.WeekSummary, error)

	// ListEntries returns the records of one bucket in date order.
	// A zero weekEnding lists every record.
	ListEntries(ctx context.Context, weekEnding domain.Date) ([]domain.JournalEntryRecord, error)
}

// Synchronizer brings the index in line with the entry tree
type Synchronizer interface {
	// Sync walks basePath and upserts every entry found. It keeps going past
	// files it cannot process and reports them in the returned report.
	Sync(ctx context.Context, basePath string, cfg domain.WorkWeekConfig) (*domain.SyncReport, error)

	// IndexFile upserts a single entry file, typically right after a write
	IndexFile(ctx context.Context, path string, cfg domain.WorkWeekConfig) (*domain.JournalEntryRecord, error)
}
