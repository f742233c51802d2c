package commands

import (
	"context"
	"errors"
	"time"

	"workjournal/internal/application"
	"workjournal/internal/domain"
	"workjournal/internal/ports"
)

// ReadEntryResult contains an entry and where it was found
type ReadEntryResult struct {
	Entry     *domain.EntryContent
	FromIndex bool // found through the index rather than the computed paths
}

// ReadEntryCommand reads the entry for a date
type ReadEntryCommand struct {
	repo  ports.EntryRepository
	index ports.EntryIndex
	cfg   domain.WorkWeekConfig
	Date  string
	Now   func() time.Time
}

// NewReadEntryCommand creates a new ReadEntryCommand. index may be nil.
func NewReadEntryCommand(repo ports.EntryRepository, index ports.EntryIndex, cfg domain.WorkWeekConfig, date string) *ReadEntryCommand {
	return &ReadEntryCommand{repo: repo, index: index, cfg: cfg, Date: date, Now: time.Now}
}

// Execute runs the read entry command.
//
// The canonical path is tried first, then every legacy path. When none
// exists the index is consulted, which knows entries a sync pass found in
// buckets computed under an earlier work week.
func (c *ReadEntryCommand) Execute(ctx context.Context) (*ReadEntryResult, error) {
	date, err := application.ParseDateArg("date", c.Date, c.cfg, c.Now())
	if err != nil {
		return nil, err
	}

	entry, err := c.repo.ReadEntry(ctx, date, c.cfg)
	if err == nil {
		return &ReadEntryResult{Entry: entry}, nil
	}
	if !errors.Is(err, domain.ErrEntryNotFound) {
		return nil, err
	}

	if c.index != nil {
		rec, err := c.index.GetEntry(ctx, date)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			content, err := c.repo.ReadPath(ctx, rec.FilePath)
			if err == nil {
				layout := domain.LayoutReconfigured
				if loc, locErr := domain.LocateEntry(rec.FilePath, c.cfg); locErr == nil {
					layout = loc.Layout
				}
				return &ReadEntryResult{
					Entry: &domain.EntryContent{
						Resolution: domain.Resolution{Date: date, Path: rec.FilePath, Layout: layout},
						Content:    content,
					},
					FromIndex: true,
				}, nil
			}
			if !errors.Is(err, domain.ErrEntryNotFound) {
				return nil, err
			}
		}
	}

	return nil, &application.NotFoundError{Date: date.String()}
}
