package commands

import (
	"context"

	"workjournal/internal/application"
	"workjournal/internal/domain"
	"workjournal/internal/ports"
)

// SyncResult contains the outcome of a sync pass
type SyncResult struct {
	Report  *domain.SyncReport
	Message string
}

// SyncCommand reconciles the index with the entry tree
type SyncCommand struct {
	sync     ports.Synchronizer
	cfg      domain.WorkWeekConfig
	BasePath string
}

// NewSyncCommand creates a new SyncCommand
func NewSyncCommand(sync ports.Synchronizer, cfg domain.WorkWeekConfig, basePath string) *SyncCommand {
	return &SyncCommand{sync: sync, cfg: cfg, BasePath: basePath}
}

// Validate checks if the sync operation is valid
func (c *SyncCommand) Validate() error {
	return application.ValidateRequired("basePath", c.BasePath)
}

// Execute runs the sync command. A canceled pass returns its partial result
// along with the context error.
func (c *SyncCommand) Execute(ctx context.Context) (*SyncResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	report, err := c.sync.Sync(ctx, c.BasePath, c.cfg)
	if report == nil {
		return nil, err
	}
	return &SyncResult{Report: report, Message: "Sync " + report.Summary()}, err
}
