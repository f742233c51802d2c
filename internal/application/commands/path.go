package commands

import (
	"context"
	"errors"
	"time"

	"workjournal/internal/application"
	"workjournal/internal/domain"
	"workjournal/internal/ports"
)

// PathResult lists where an entry is written and where it may be read from
type PathResult struct {
	Date      domain.Date
	Canonical string
	Legacy    []string
	Existing  *domain.Resolution // nil when no file exists yet
}

// PathCommand resolves the canonical and legacy locations of a date
type PathCommand struct {
	repo ports.EntryRepository
	cfg  domain.WorkWeekConfig
	Date string
	Now  func() time.Time
}

// NewPathCommand creates a new PathCommand
func NewPathCommand(repo ports.EntryRepository, cfg domain.WorkWeekConfig, date string) *PathCommand {
	return &PathCommand{repo: repo, cfg: cfg, Date: date, Now: time.Now}
}

// Execute runs the path command
func (c *PathCommand) Execute(ctx context.Context) (*PathResult, error) {
	date, err := application.ParseDateArg("date", c.Date, c.cfg, c.Now())
	if err != nil {
		return nil, err
	}

	result := &PathResult{
		Date:      date,
		Canonical: c.repo.CanonicalPath(date, c.cfg),
		Legacy:    domain.LegacyCandidatePaths(date, c.repo.BasePath()),
	}

	res, err := c.repo.ResolveRead(ctx, date, c.cfg)
	switch {
	case err == nil:
		result.Existing = res
	case errors.Is(err, domain.ErrEntryNotFound):
	default:
		return nil, err
	}
	return result, nil
}
