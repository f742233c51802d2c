package commands

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"workjournal/internal/application"
	"workjournal/internal/domain"
	"workjournal/internal/ports"
)

// WriteEntryResult contains the result of writing an entry
type WriteEntryResult struct {
	Date       domain.Date
	Path       string
	WeekEnding domain.Date
	Record     *domain.JournalEntryRecord // nil if indexing failed
	IndexErr   error                      // the write succeeded even when this is set
	Message    string
}

// WriteEntryCommand writes an entry to its canonical path and indexes it
type WriteEntryCommand struct {
	repo    ports.EntryRepository
	sync    ports.Synchronizer
	cfg     domain.WorkWeekConfig
	Date    string
	Content []byte
	Append  bool // add Content after the existing entry instead of replacing it
	Now     func() time.Time
}

// NewWriteEntryCommand creates a new WriteEntryCommand. sync may be nil to
// skip indexing.
func NewWriteEntryCommand(repo ports.EntryRepository, sync ports.Synchronizer, cfg domain.WorkWeekConfig, date string, content []byte) *WriteEntryCommand {
	return &WriteEntryCommand{
		repo:    repo,
		sync:    sync,
		cfg:     cfg,
		Date:    date,
		Content: content,
		Now:     time.Now,
	}
}

// Validate checks if the write operation is valid
func (c *WriteEntryCommand) Validate() error {
	if _, err := application.ParseDateArg("date", c.Date, c.cfg, c.Now()); err != nil {
		return err
	}
	if c.Append && len(bytes.TrimSpace(c.Content)) == 0 {
		return &application.ValidationError{
			Field:   "content",
			Message: "content is required when appending",
		}
	}
	return nil
}

// Execute runs the write entry command
func (c *WriteEntryCommand) Execute(ctx context.Context) (*WriteEntryResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	date, _ := application.ParseDateArg("date", c.Date, c.cfg, c.Now())

	var (
		path string
		err  error
	)
	if c.Append {
		path, err = c.repo.UpdateEntry(ctx, date, c.cfg, func(existing []byte) []byte {
			return appendContent(existing, c.Content)
		})
	} else {
		path, err = c.repo.WriteEntry(ctx, date, c.cfg, c.Content)
	}
	if err != nil {
		return nil, err
	}

	result := &WriteEntryResult{
		Date:       date,
		Path:       path,
		WeekEnding: domain.WeekEnding(date, c.cfg),
		Message:    fmt.Sprintf("Wrote %s", path),
	}

	if c.sync != nil {
		result.Record, result.IndexErr = c.sync.IndexFile(ctx, path, c.cfg)
		if result.IndexErr != nil {
			result.Message += fmt.Sprintf(" (index not updated: %v)", result.IndexErr)
		}
	}
	return result, nil
}

func appendContent(existing, addition []byte) []byte {
	out := make([]byte, 0, len(existing)+len(addition)+1)
	out = append(out, existing...)
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return append(out, addition...)
}
