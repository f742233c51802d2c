// Package journal opens a configured work journal: it resolves the work week,
// builds the logger, and wires the entry tree to its index.
package journal

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"workjournal/internal/adapters/filesystem"
	"workjournal/internal/adapters/sqlite"
	"workjournal/internal/config"
	"workjournal/internal/domain"
	"workjournal/internal/logging"
)

// Journal is an opened journal and everything the front ends need from it
type Journal struct {
	Config      *config.Config
	WorkWeek    domain.WorkWeekConfig
	Corrections []domain.Correction
	Logger      *slog.Logger

	Repo  *filesystem.Repository
	Index *sqlite.Index
	Sync  *sqlite.Synchronizer
}

// NewLogger builds the logger described by the [logging] section. When
// toFile is set, output goes to the binary's file under the log directory
// instead of stderr.
func NewLogger(cfg *config.Config, binary string, toFile bool) (*slog.Logger, error) {
	opts := logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if toFile {
		if path := cfg.LogFile(binary); path != "" {
			opts.OutputPaths = []string{path}
			if opts.Format == "" {
				opts.Format = "json"
			}
		}
	}
	return logging.New(opts)
}

// Open resolves the work week, creates the base directory if needed and
// opens the index. Work-week corrections are logged and kept on the result.
func Open(cfg *config.Config, logger *slog.Logger) (*Journal, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	workWeek, corrections, err := cfg.ResolveWorkWeek()
	if err != nil {
		return nil, err
	}
	for _, c := range corrections {
		logger.Warn("work week adjusted",
			slog.String("field", c.Field),
			slog.String("from", c.From),
			slog.String("to", c.To),
			slog.String("reason", c.Reason),
		)
	}

	if err := os.MkdirAll(cfg.Paths.BasePath, 0o755); err != nil {
		return nil, fmt.Errorf("create base path: %w", err)
	}

	index := sqlite.NewIndex(logger)
	if err := index.Open(cfg.Paths.BasePath, cfg.Paths.IndexPath); err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	sync, err := sqlite.NewSynchronizer(index, sqlite.SyncOptions{
		Workers:     cfg.Sync.Workers,
		FileTimeout: cfg.FileTimeout(),
		Ignore:      cfg.Sync.Ignore,
	}, logger)
	if err != nil {
		return nil, errors.Join(err, index.Close())
	}

	logger.Debug("journal opened",
		slog.String(logging.FieldPath, cfg.Paths.BasePath),
		slog.String("index", index.Path()),
		slog.String("work_week", workWeek.String()),
	)

	return &Journal{
		Config:      cfg,
		WorkWeek:    workWeek,
		Corrections: corrections,
		Logger:      logger,
		Repo:        filesystem.NewRepository(cfg.Paths.BasePath, logger),
		Index:       index,
		Sync:        sync,
	}, nil
}

// BasePath returns the root of the entry tree
func (j *Journal) BasePath() string {
	return j.Repo.BasePath()
}

// Close releases the index
func (j *Journal) Close() error {
	return j.Index.Close()
}
