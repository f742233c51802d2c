package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"workjournal/internal/domain"
	"workjournal/internal/logging"
)

const (
	// StateDir holds lock files and other bookkeeping inside the base path.
	// Hidden, so sync passes never descend into it.
	StateDir = ".workjournal"

	lockRetryDelay = 25 * time.Millisecond
)

// Repository implements ports.EntryRepository using the filesystem
type Repository struct {
	basePath string
	logger   *slog.Logger
}

// NewRepository creates a new filesystem repository rooted at basePath
func NewRepository(basePath string, logger *slog.Logger) *Repository {
	if strings.HasPrefix(basePath, "~") {
		home, _ := os.UserHomeDir()
		basePath = filepath.Join(home, basePath[1:])
	}
	return &Repository{
		basePath: filepath.Clean(basePath),
		logger:   logging.NewComponentLogger(logger, "repository"),
	}
}

// BasePath returns the root of the entry tree
func (r *Repository) BasePath() string {
	return r.basePath
}

// CanonicalPath returns where an entry for date is written under cfg
func (r *Repository) CanonicalPath(date domain.Date, cfg domain.WorkWeekConfig) string {
	return domain.CanonicalPath(date, cfg, r.basePath)
}

// candidates lists the canonical path followed by every legacy path, without duplicates
func (r *Repository) candidates(date domain.Date, cfg domain.WorkWeekConfig) []string {
	paths := []string{r.CanonicalPath(date, cfg)}
	for _, p := range domain.LegacyCandidatePaths(date, r.basePath) {
		if p != paths[0] {
			paths = append(paths, p)
		}
	}
	return paths
}

// ResolveRead finds the file to read for date. The canonical path wins over
// legacy ones; if several copies exist the rest are reported as shadowed.
func (r *Repository) ResolveRead(ctx context.Context, date domain.Date, cfg domain.WorkWeekConfig) (*domain.Resolution, error) {
	var res *domain.Resolution

	for i, path := range r.candidates(date, cfg) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ok, err := isRegularFile(path)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		if res == nil {
			layout := domain.LayoutLegacy
			if i == 0 {
				layout = domain.LayoutCanonical
			}
			res = &domain.Resolution{Date: date, Path: path, Layout: layout}
			continue
		}
		res.Shadowed = append(res.Shadowed, path)
	}

	if res == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, date)
	}

	if res.Ambiguous() {
		r.logger.WarnContext(ctx, "entry exists in more than one layout",
			slog.String(logging.FieldDate, date.String()),
			slog.String(logging.FieldPath, res.Path),
			slog.Any("shadowed", res.Shadowed),
		)
	}
	return res, nil
}

// ReadEntry resolves and reads the entry for date
func (r *Repository) ReadEntry(ctx context.Context, date domain.Date, cfg domain.WorkWeekConfig) (*domain.EntryContent, error) {
	res, err := r.ResolveRead(ctx, date, cfg)
	if err != nil {
		return nil, err
	}
	content, err := r.ReadPath(ctx, res.Path)
	if err != nil {
		return nil, err
	}
	return &domain.EntryContent{Resolution: *res, Content: content}, nil
}

// ReadPath reads an entry file at a known location
func (r *Repository) ReadPath(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, path)
		}
		return nil, fmt.Errorf("failed to read entry: %w", err)
	}
	return content, nil
}

// WriteEntry writes content to the canonical path for date.
//
// Writers of the same date are serialized through a lock file so concurrent
// processes never interleave, and the file is replaced atomically so readers
// see either the old or the new content.
func (r *Repository) WriteEntry(ctx context.Context, date domain.Date, cfg domain.WorkWeekConfig, content []byte) (string, error) {
	unlock, err := r.lockDate(ctx, date)
	if err != nil {
		return "", err
	}
	defer unlock()

	return r.writeCanonical(ctx, date, cfg, content)
}

// UpdateEntry rewrites the entry for date from its current content while
// holding the date's lock. update receives the resolved content (canonical
// first, then legacy) or nil when no entry exists yet. The result is always
// written to the canonical path.
func (r *Repository) UpdateEntry(ctx context.Context, date domain.Date, cfg domain.WorkWeekConfig, update func(existing []byte) []byte) (string, error) {
	unlock, err := r.lockDate(ctx, date)
	if err != nil {
		return "", err
	}
	defer unlock()

	var old []byte
	existing, err := r.ReadEntry(ctx, date, cfg)
	switch {
	case err == nil:
		old = existing.Content
	case errors.Is(err, domain.ErrEntryNotFound):
	default:
		return "", err
	}

	return r.writeCanonical(ctx, date, cfg, update(old))
}

// writeCanonical expects the date's lock to be held
func (r *Repository) writeCanonical(ctx context.Context, date domain.Date, cfg domain.WorkWeekConfig, content []byte) (string, error) {
	path := r.CanonicalPath(date, cfg)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create bucket directory: %w", err)
	}
	if err := writeFileAtomic(path, content); err != nil {
		return "", err
	}

	r.logger.DebugContext(ctx, "entry written",
		slog.String(logging.FieldDate, date.String()),
		slog.String(logging.FieldPath, path),
		slog.Int("bytes", len(content)),
	)
	return path, nil
}

// CreateEntry creates an empty entry at the canonical path unless a file is
// already there. created is false when another writer got there first; the
// existing content is left untouched.
func (r *Repository) CreateEntry(ctx context.Context, date domain.Date, cfg domain.WorkWeekConfig) (path string, created bool, err error) {
	path = r.CanonicalPath(date, cfg)

	unlock, err := r.lockDate(ctx, date)
	if err != nil {
		return "", false, err
	}
	defer unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create bucket directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return path, false, nil
		}
		return "", false, fmt.Errorf("failed to create entry: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", false, fmt.Errorf("failed to close entry: %w", err)
	}

	r.logger.DebugContext(ctx, "entry created",
		slog.String(logging.FieldDate, date.String()),
		slog.String(logging.FieldPath, path),
	)
	return path, true, nil
}

// LockPath returns the lock file guarding writes of date
func (r *Repository) LockPath(date domain.Date) string {
	return filepath.Join(r.basePath, StateDir, "locks", "entry_"+date.String()+".lock")
}

func (r *Repository) lockDate(ctx context.Context, date domain.Date) (func(), error) {
	lockPath := r.LockPath(date)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	lock := flock.New(lockPath)
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to lock entry %s: %w", date, err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to lock entry %s", date)
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			logging.Discard(ctx, r.logger, "unlock entry", err)
		}
	}, nil
}

func writeFileAtomic(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}

	if _, err := tmp.Write(content); err != nil {
		return cleanup(fmt.Errorf("failed to write entry: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(fmt.Errorf("failed to sync entry: %w", err))
	}
	if err := tmp.Chmod(0o644); err != nil {
		return cleanup(fmt.Errorf("failed to set entry mode: %w", err))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close entry: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace entry: %w", err)
	}
	return nil
}

func isRegularFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info.Mode().IsRegular(), nil
}
