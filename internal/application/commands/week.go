package commands

import (
	"context"
	"fmt"
	"time"

	"workjournal/internal/application"
	"workjournal/internal/domain"
	"workjournal/internal/ports"
)

// WeekEndingResult describes which bucket a date lands in
type WeekEndingResult struct {
	Date          domain.Date
	WeekEnding    domain.Date
	WeekStart     domain.Date
	Assignment    domain.Assignment
	CanonicalPath string
	Message       string
}

// WeekEndingCommand previews the bucket for a date without touching disk
type WeekEndingCommand struct {
	repo ports.EntryRepository
	cfg  domain.WorkWeekConfig
	Date string
	Now  func() time.Time
}

// NewWeekEndingCommand creates a new WeekEndingCommand. repo may be nil when
// only the dates are needed.
func NewWeekEndingCommand(repo ports.EntryRepository, cfg domain.WorkWeekConfig, date string) *WeekEndingCommand {
	return &WeekEndingCommand{repo: repo, cfg: cfg, Date: date, Now: time.Now}
}

// Validate checks the date argument
func (c *WeekEndingCommand) Validate() error {
	_, err := application.ParseDateArg("date", c.Date, c.cfg, c.Now())
	return err
}

// Execute runs the week ending command
func (c *WeekEndingCommand) Execute(ctx context.Context) (*WeekEndingResult, error) {
	date, err := application.ParseDateArg("date", c.Date, c.cfg, c.Now())
	if err != nil {
		return nil, err
	}

	weekEnding, assignment := domain.Assign(date, c.cfg)
	result := &WeekEndingResult{
		Date:       date,
		WeekEnding: weekEnding,
		WeekStart:  domain.WeekStart(weekEnding, c.cfg),
		Assignment: assignment,
	}
	if c.repo != nil {
		result.CanonicalPath = c.repo.CanonicalPath(date, c.cfg)
	}

	switch assignment {
	case domain.AssignedInWeek:
		result.Message = fmt.Sprintf("%s (%s) belongs to the week ending %s (%s)",
			date, date.Weekday(), weekEnding, weekEnding.Weekday())
	default:
		result.Message = fmt.Sprintf("%s (%s) is outside the work week; assigned to the %s ending %s (%s)",
			date, date.Weekday(), assignment, weekEnding, weekEnding.Weekday())
	}
	return result, nil
}
