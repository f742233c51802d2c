package commands

import (
	"context"

	"workjournal/internal/application"
	"workjournal/internal/domain"
	"workjournal/internal/ports"
)

// ListWeeksCommand lists every indexed week bucket
type ListWeeksCommand struct {
	index ports.EntryIndex
}

// NewListWeeksCommand creates a new ListWeeksCommand
func NewListWeeksCommand(index ports.EntryIndex) *ListWeeksCommand {
	return &ListWeeksCommand{index: index}
}

// Execute runs the list weeks command
func (c *ListWeeksCommand) Execute(ctx context.Context) ([]domain.WeekSummary, error) {
	return c.index.ListWeeks(ctx)
}

// ListEntriesCommand lists indexed entries, optionally for one week bucket
type ListEntriesCommand struct {
	index      ports.EntryIndex
	WeekEnding string // empty lists everything
}

// NewListEntriesCommand creates a new ListEntriesCommand
func NewListEntriesCommand(index ports.EntryIndex, weekEnding string) *ListEntriesCommand {
	return &ListEntriesCommand{index: index, WeekEnding: weekEnding}
}

// Validate checks the week ending argument
func (c *ListEntriesCommand) Validate() error {
	if c.WeekEnding == "" {
		return nil
	}
	return application.ValidateDate("weekEnding", c.WeekEnding)
}

// Execute runs the list entries command
func (c *ListEntriesCommand) Execute(ctx context.Context) ([]domain.JournalEntryRecord, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var weekEnding domain.Date
	if c.WeekEnding != "" {
		weekEnding, _ = domain.ParseDate(c.WeekEnding)
	}
	return c.index.ListEntries(ctx, weekEnding)
}
