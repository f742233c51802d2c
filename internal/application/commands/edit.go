package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"workjournal/internal/application"
	"workjournal/internal/domain"
	"workjournal/internal/ports"
)

// EditEntryResult is the file an editor should open for a date
type EditEntryResult struct {
	Date    domain.Date
	Path    string
	Layout  domain.Layout
	Created bool // this call wrote an empty entry at the canonical path
	Message string
}

// EditEntryCommand finds the entry for a date wherever it lives, creating an
// empty one at the canonical path when none exists yet
type EditEntryCommand struct {
	repo  ports.EntryRepository
	index ports.EntryIndex
	cfg   domain.WorkWeekConfig
	Date  string
	Now   func() time.Time
}

// NewEditEntryCommand creates a new EditEntryCommand. index may be nil.
func NewEditEntryCommand(repo ports.EntryRepository, index ports.EntryIndex, cfg domain.WorkWeekConfig, date string) *EditEntryCommand {
	return &EditEntryCommand{repo: repo, index: index, cfg: cfg, Date: date, Now: time.Now}
}

// Execute runs the edit entry command
func (c *EditEntryCommand) Execute(ctx context.Context) (*EditEntryResult, error) {
	date, err := application.ParseDateArg("date", c.Date, c.cfg, c.Now())
	if err != nil {
		return nil, err
	}

	read := NewReadEntryCommand(c.repo, c.index, c.cfg, date.String())
	read.Now = c.Now
	existing, err := read.Execute(ctx)
	if err == nil {
		return &EditEntryResult{
			Date:    date,
			Path:    existing.Entry.Path,
			Layout:  existing.Entry.Layout,
			Message: fmt.Sprintf("Editing %s (%s)", existing.Entry.Path, existing.Entry.Layout),
		}, nil
	}
	if !errors.Is(err, application.ErrNotFound) {
		return nil, err
	}

	path, created, err := c.repo.CreateEntry(ctx, date, c.cfg)
	if err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("Created %s", path)
	if !created {
		msg = fmt.Sprintf("Editing %s (%s)", path, domain.LayoutCanonical)
	}
	return &EditEntryResult{
		Date:    date,
		Path:    path,
		Layout:  domain.LayoutCanonical,
		Created: created,
		Message: msg,
	}, nil
}
