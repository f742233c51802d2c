package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"workjournal/internal/domain"
	"workjournal/internal/logging"
	"workjournal/internal/ports"
)

const (
	defaultSyncWorkers = 4
	defaultFileTimeout = 10 * time.Second
)

// SyncOptions tunes a Synchronizer
type SyncOptions struct {
	Workers     int           // files processed in parallel
	FileTimeout time.Duration // per-file read budget
	Ignore      []string      // globs matched against slash-separated paths relative to the base path
}

// Synchronizer implements ports.Synchronizer on top of an Index
type Synchronizer struct {
	idx    *Index
	opts   SyncOptions
	ignore []glob.Glob
	logger *slog.Logger

	// swapped in tests to simulate slow storage and a moving clock
	readFile func(path string) ([]byte, fs.FileInfo, error)
	now      func() time.Time
}

// Ensure Synchronizer implements ports.Synchronizer
var _ ports.Synchronizer = (*Synchronizer)(nil)

// NewSynchronizer creates a synchronizer writing to idx
func NewSynchronizer(idx *Index, opts SyncOptions, logger *slog.Logger) (*Synchronizer, error) {
	if opts.Workers < 1 {
		opts.Workers = defaultSyncWorkers
	}
	if opts.FileTimeout <= 0 {
		opts.FileTimeout = defaultFileTimeout
	}

	ignore := make([]glob.Glob, 0, len(opts.Ignore))
	for _, pattern := range opts.Ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		ignore = append(ignore, g)
	}

	return &Synchronizer{
		idx:      idx,
		opts:     opts,
		ignore:   ignore,
		logger:   logging.NewComponentLogger(logger, "sync"),
		readFile: readEntryFile,
		now:      time.Now,
	}, nil
}

func readEntryFile(path string) ([]byte, fs.FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, nil, errors.New("not a regular file")
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, err
	}
	return content, info, nil
}

// layoutRank orders copies of the same date: the lowest rank is indexed
func layoutRank(l domain.Layout) int {
	switch l {
	case domain.LayoutCanonical:
		return 0
	case domain.LayoutReconfigured:
		return 1
	default:
		return 2
	}
}

// Sync walks basePath and upserts one record per entry date.
//
// Files that cannot be processed are collected in the report and the pass
// goes on. Every upsert commits on its own, so canceling ctx only truncates
// the pass; the partial report is returned together with the context error.
func (s *Synchronizer) Sync(ctx context.Context, basePath string, cfg domain.WorkWeekConfig) (*domain.SyncReport, error) {
	start := s.now()

	absBase, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve base path: %w", err)
	}
	info, err := os.Stat(absBase)
	if err != nil {
		return nil, fmt.Errorf("base path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("base path %s is not a directory", absBase)
	}

	report := &domain.SyncReport{SyncID: uuid.NewString(), BasePath: absBase}
	logger := s.logger.With(slog.String(logging.FieldSyncID, report.SyncID))
	logger.InfoContext(ctx, "sync started",
		slog.String(logging.FieldPath, absBase),
		slog.String("work_week", cfg.String()),
	)

	var mu sync.Mutex
	addSkipped := func(skipped domain.SkippedEntry) {
		mu.Lock()
		report.SkippedWithError = append(report.SkippedWithError, skipped)
		mu.Unlock()
		logger.WarnContext(ctx, "entry skipped",
			slog.String(logging.FieldPath, skipped.Path),
			slog.String("reason", skipped.Reason),
			logging.Error(skipped.Err),
		)
	}

	found, err := s.discover(ctx, absBase, cfg, report, addSkipped)
	if err != nil && !errors.Is(err, ctx.Err()) {
		return nil, err
	}

	winners := s.pickWinners(ctx, logger, found, report)

	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for _, loc := range winners {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			rec, outcome, err := s.indexLocation(ctx, loc, cfg)
			if err != nil {
				if ctx.Err() == nil {
					addSkipped(skippedFrom(loc.Path, err))
				}
				return nil
			}

			mu.Lock()
			switch outcome {
			case outcomeInserted:
				report.Inserted++
			case outcomeUpdated:
				report.Updated++
			case outcomeUnchanged:
				report.Unchanged++
			case outcomeStale:
				report.Conflicts++
			}
			mu.Unlock()

			if outcome == outcomeStale {
				logger.WarnContext(ctx, "index holds a newer state; keeping it",
					slog.String(logging.FieldDate, rec.Date.String()),
					slog.String(logging.FieldPath, rec.FilePath),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	report.Duration = s.now().Sub(start)

	if err := ctx.Err(); err != nil {
		report.Canceled = true
		logger.WarnContext(ctx, "sync canceled", slog.String("summary", report.Summary()))
		return report, err
	}

	if err := s.idx.recordLastSync(ctx, s.now()); err != nil {
		logger.WarnContext(ctx, "failed to record sync time", logging.Error(err))
	}

	sort.Slice(report.SkippedWithError, func(i, j int) bool {
		return report.SkippedWithError[i].Path < report.SkippedWithError[j].Path
	})

	logger.InfoContext(ctx, "sync finished",
		slog.String("summary", report.Summary()),
		slog.Int("mismatched", report.Mismatched),
		slog.Duration("duration", report.Duration),
	)
	return report, nil
}

// discover walks the tree and groups every recognizable entry file by date
func (s *Synchronizer) discover(
	ctx context.Context,
	basePath string,
	cfg domain.WorkWeekConfig,
	report *domain.SyncReport,
	addSkipped func(domain.SkippedEntry),
) (map[domain.Date][]domain.EntryLocation, error) {
	found := make(map[domain.Date][]domain.EntryLocation)

	err := filepath.WalkDir(basePath, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == basePath {
				return err
			}
			addSkipped(domain.SkippedEntry{Path: path, Reason: "unreadable", Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == basePath {
			return nil
		}

		// Skip hidden files and directories (lock files, editor swap files)
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if s.ignored(basePath, path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !domain.IsEntryFileName(d.Name()) {
			return nil
		}

		report.Scanned++

		loc, err := domain.LocateEntry(path, cfg)
		if err != nil {
			addSkipped(skippedFrom(path, err))
			return nil
		}
		found[loc.Date] = append(found[loc.Date], loc)
		return nil
	})
	return found, err
}

func (s *Synchronizer) ignored(basePath, path string) bool {
	if len(s.ignore) == 0 {
		return false
	}
	rel, err := filepath.Rel(basePath, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, g := range s.ignore {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// pickWinners chooses one file per date and returns them in date order.
// Canonical beats reconfigured beats legacy; ties go to the smaller path.
func (s *Synchronizer) pickWinners(
	ctx context.Context,
	logger *slog.Logger,
	found map[domain.Date][]domain.EntryLocation,
	report *domain.SyncReport,
) []domain.EntryLocation {
	winners := make([]domain.EntryLocation, 0, len(found))

	for date, locs := range found {
		sort.Slice(locs, func(i, j int) bool {
			ri, rj := layoutRank(locs[i].Layout), layoutRank(locs[j].Layout)
			if ri != rj {
				return ri < rj
			}
			return locs[i].Path < locs[j].Path
		})
		winner := locs[0]
		winners = append(winners, winner)

		if winner.Mismatched() {
			report.Mismatched++
			logger.DebugContext(ctx, "entry stored outside its computed bucket",
				slog.String(logging.FieldDate, date.String()),
				slog.String(logging.FieldLayout, winner.Layout.String()),
				slog.String(logging.FieldWeekEnding, winner.Bucket.String()),
				slog.String("expected_week_ending", winner.Expected.String()),
			)
		}

		if len(locs) > 1 {
			ignored := make([]string, 0, len(locs)-1)
			for _, l := range locs[1:] {
				ignored = append(ignored, l.Path)
			}
			report.Ambiguities = append(report.Ambiguities, domain.Ambiguity{
				Date:    date,
				Chosen:  winner.Path,
				Ignored: ignored,
			})
			logger.WarnContext(ctx, "entry exists in more than one layout",
				slog.String(logging.FieldDate, date.String()),
				slog.String(logging.FieldPath, winner.Path),
				slog.Any("ignored", ignored),
			)
		}
	}

	sort.Slice(winners, func(i, j int) bool { return winners[i].Date.Before(winners[j].Date) })
	sort.Slice(report.Ambiguities, func(i, j int) bool {
		return report.Ambiguities[i].Date.Before(report.Ambiguities[j].Date)
	})
	return winners
}

// IndexFile upserts the entry at path and returns the record the index now holds
func (s *Synchronizer) IndexFile(ctx context.Context, path string, cfg domain.WorkWeekConfig) (*domain.JournalEntryRecord, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve entry path: %w", err)
	}

	loc, err := domain.LocateEntry(absPath, cfg)
	if err != nil {
		return nil, err
	}

	rec, outcome, err := s.indexLocation(ctx, loc, cfg)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "entry indexed",
		slog.String(logging.FieldDate, rec.Date.String()),
		slog.String(logging.FieldPath, rec.FilePath),
		slog.String(logging.FieldWeekEnding, rec.WeekEndingDate.String()),
		slog.String("outcome", outcome.String()),
	)

	if outcome == outcomeStale {
		s.logger.WarnContext(ctx, "index holds a newer state; keeping it",
			slog.String(logging.FieldDate, rec.Date.String()),
			slog.String(logging.FieldPath, rec.FilePath),
		)
	}
	return s.idx.GetEntry(ctx, loc.Date)
}

// indexLocation reads one entry file under the per-file timeout and upserts it
func (s *Synchronizer) indexLocation(ctx context.Context, loc domain.EntryLocation, cfg domain.WorkWeekConfig) (*domain.JournalEntryRecord, upsertOutcome, error) {
	content, info, err := s.readWithTimeout(ctx, loc.Path)
	if err != nil {
		return nil, 0, err
	}

	words, hasContent := domain.CountWords(content)
	rec := &domain.JournalEntryRecord{
		Date:           loc.Date,
		FilePath:       loc.Path,
		WeekEndingDate: loc.Bucket,
		WordCount:      words,
		HasContent:     hasContent,
		WorkWeek:       cfg.String(),
		CreatedAt:      s.now().UTC(),
		ModifiedAt:     info.ModTime().UTC(),
	}

	outcome, err := s.idx.upsertEntry(ctx, rec)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", errIndexWrite, err)
	}
	return rec, outcome, nil
}

type readResult struct {
	content []byte
	info    fs.FileInfo
	err     error
}

var (
	// errReadTimeout marks a file whose read exceeded the per-file budget
	errReadTimeout = errors.New("read timed out")
	errIndexWrite  = errors.New("index write failed")
)

func (s *Synchronizer) readWithTimeout(ctx context.Context, path string) ([]byte, fs.FileInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.FileTimeout)
	defer cancel()

	done := make(chan readResult, 1)
	go func() {
		content, info, err := s.readFile(path)
		done <- readResult{content: content, info: info, err: err}
	}()

	select {
	case res := <-done:
		return res.content, res.info, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("%w after %s", errReadTimeout, s.opts.FileTimeout)
		}
		return nil, nil, ctx.Err()
	}
}

func skippedFrom(path string, err error) domain.SkippedEntry {
	reason := "unreadable"
	switch {
	case errors.Is(err, domain.ErrMalformedName):
		reason = "malformed entry name"
	case errors.Is(err, domain.ErrUnknownLayout):
		reason = "unrecognized bucket directory"
	case errors.Is(err, errReadTimeout):
		reason = "timed out"
	case errors.Is(err, fs.ErrPermission):
		reason = "permission denied"
	case errors.Is(err, errIndexWrite):
		reason = "index write failed"
	}
	return domain.SkippedEntry{Path: path, Reason: reason, Err: err}
}
