package ports

import (
	"context"

	"workjournal/internal/domain"
)

// EntryRepository reads and writes entry files under a base path
type EntryRepository interface {
	BasePath() string

	// CanonicalPath returns where an entry for date is written under cfg
	CanonicalPath(date domain.Date, cfg domain.WorkWeekConfig) string

	// ResolveRead finds the file to read for date: the canonical path first,
	// then each legacy candidate. Returns domain.ErrEntryNotFound if none exist.
	ResolveRead(ctx context.Context, date domain.Date, cfg domain.WorkWeekConfig) (*domain.Resolution, error)

	// ReadEntry resolves and reads an entry
	ReadEntry(ctx context.Context, date domain.Date, cfg domain.WorkWeekConfig) (*domain.EntryContent, error)

	// ReadPath reads an entry at a known path, such as one taken from the index
	ReadPath(ctx context.Context, path string) ([]byte, error)

	// WriteEntry writes content to the canonical path, creating directories
	// as needed, and returns the path written
	WriteEntry(ctx context.Context, date domain.Date, cfg domain.WorkWeekConfig, content []byte) (string, error)

	// UpdateEntry computes new content from the resolved existing content
	// (nil if none) and writes it to the canonical path. Read and write
	// happen under the same per-date lock.
	UpdateEntry(ctx context.Context, date domain.Date, cfg domain.WorkWeekConfig, update func(existing []byte) []byte) (string, error)

	// CreateEntry creates an empty canonical entry if no file exists there.
	// created reports whether this call made the file.
	CreateEntry(ctx context.Context, date domain.Date, cfg domain.WorkWeekConfig) (path string, created bool, err error)
}
