package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"workjournal/internal/domain"
	"workjournal/internal/logging"
	"workjournal/internal/ports"

	_ "modernc.org/sqlite"
)

// schemaVersion is bumped whenever the entries table changes shape. The index
// is a cache of the entry tree, so a mismatch drops and rebuilds it.
const schemaVersion = "2"

// dsnPragmas apply to every pooled connection. Transactions start IMMEDIATE so
// an upsert takes the write lock before reading the row it may replace.
const dsnPragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_txlock=immediate"

// Index implements ports.EntryIndex using SQLite
type Index struct {
	db       *sql.DB
	basePath string
	dbPath   string
	logger   *slog.Logger
}

// Ensure Index implements EntryIndex
var _ ports.EntryIndex = (*Index)(nil)

// NewIndex creates a new SQLite index
func NewIndex(logger *slog.Logger) *Index {
	return &Index{logger: logging.NewComponentLogger(logger, "index")}
}

// Open initializes the index for the given base path. An empty dbPath places
// the database under $XDG_DATA_HOME, named after a hash of basePath.
func (idx *Index) Open(basePath, dbPath string) error {
	// Expand ~ in path
	if len(basePath) > 0 && basePath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		basePath = filepath.Join(home, basePath[1:])
	}

	idx.basePath = filepath.Clean(basePath)
	idx.dbPath = dbPath
	if idx.dbPath == "" {
		idx.dbPath = DatabasePath(idx.basePath)
	}

	if err := os.MkdirAll(filepath.Dir(idx.dbPath), 0o755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", idx.dbPath+dsnPragmas)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	if err := idx.setup(); err != nil {
		db.Close()
		idx.db = nil
		return err
	}
	return nil
}

func (idx *Index) setup() error {
	if _, err := idx.db.Exec(`
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`); err != nil {
		return fmt.Errorf("failed to setup database: %w", err)
	}

	rebuild, err := idx.needsRebuild()
	if err != nil {
		return fmt.Errorf("failed to read index metadata: %w", err)
	}
	if rebuild {
		idx.logger.Info("rebuilding index",
			slog.String("db", idx.dbPath),
			slog.String("schema_version", schemaVersion),
		)
		if _, err := idx.db.Exec(`
			DROP TABLE IF EXISTS entries;
			DELETE FROM meta;
		`); err != nil {
			return fmt.Errorf("failed to drop stale index: %w", err)
		}
	}

	if _, err := idx.db.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			date TEXT PRIMARY KEY,
			file_path TEXT NOT NULL,
			week_ending_date TEXT NOT NULL,
			word_count INTEGER NOT NULL CHECK (word_count >= 0),
			has_content INTEGER NOT NULL,
			work_week TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			modified_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_entries_week_ending ON entries(week_ending_date);
	`); err != nil {
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if err := idx.updateMeta(); err != nil {
		return fmt.Errorf("failed to update metadata: %w", err)
	}
	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// Path returns the database file location
func (idx *Index) Path() string {
	return idx.dbPath
}

// BasePath returns the entry tree this index describes
func (idx *Index) BasePath() string {
	return idx.basePath
}

// needsRebuild reports whether an existing database was written by another
// schema version or for another base path
func (idx *Index) needsRebuild() (bool, error) {
	version, err := idx.metaValue("schema_version")
	if err != nil {
		return false, err
	}
	baseHash, err := idx.metaValue("base_path_hash")
	if err != nil {
		return false, err
	}

	if version == "" && baseHash == "" {
		return false, nil
	}
	return version != schemaVersion || baseHash != hashBasePath(idx.basePath), nil
}

// metaValue returns "" for a missing key
func (idx *Index) metaValue(key string) (string, error) {
	var value string
	err := idx.db.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("meta %s: %w", key, err)
	}
	return value, nil
}

func (idx *Index) updateMeta() error {
	_, err := idx.db.Exec(`
		INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?);
		INSERT OR REPLACE INTO meta (key, value) VALUES ('base_path_hash', ?);
	`, schemaVersion, hashBasePath(idx.basePath))
	return err
}

func (idx *Index) recordLastSync(ctx context.Context, at time.Time) error {
	_, err := idx.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO meta (key, value) VALUES ('last_sync_time', ?)`,
		at.UTC().Format(time.RFC3339Nano))
	return err
}

// LastSync returns when a sync pass last completed, or the zero time
func (idx *Index) LastSync(ctx context.Context) (time.Time, error) {
	var value string
	err := idx.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'last_sync_time'`).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, value)
}

const entryColumns = `date, file_path, week_ending_date, word_count, has_content, work_week, created_at, modified_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.JournalEntryRecord, error) {
	var (
		rec                   domain.JournalEntryRecord
		date, weekEnding      string
		createdAt, modifiedAt int64
	)
	if err := row.Scan(&date, &rec.FilePath, &weekEnding, &rec.WordCount, &rec.HasContent,
		&rec.WorkWeek, &createdAt, &modifiedAt); err != nil {
		return nil, err
	}

	var err error
	if rec.Date, err = domain.ParseDate(date); err != nil {
		return nil, fmt.Errorf("corrupt index row: %w", err)
	}
	if rec.WeekEndingDate, err = domain.ParseDate(weekEnding); err != nil {
		return nil, fmt.Errorf("corrupt index row %s: %w", date, err)
	}
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	rec.ModifiedAt = time.Unix(0, modifiedAt).UTC()
	return &rec, nil
}

// GetEntry retrieves the record for a date, or nil if none is indexed
func (idx *Index) GetEntry(ctx context.Context, date domain.Date) (*domain.JournalEntryRecord, error) {
	row := idx.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE date = ?`, date.String())

	rec, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListWeeks returns one summary per week bucket, most recent first
func (idx *Index) ListWeeks(ctx context.Context) ([]domain.WeekSummary, error) {
	rows, err := idx.db.QueryContext(ctx, `
		SELECT week_ending_date, COUNT(*), COALESCE(SUM(word_count), 0)
		FROM entries
		GROUP BY week_ending_date
		ORDER BY week_ending_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var weeks []domain.WeekSummary
	for rows.Next() {
		var (
			weekEnding string
			summary    domain.WeekSummary
		)
		if err := rows.Scan(&weekEnding, &summary.Entries, &summary.Words); err != nil {
			return nil, err
		}
		if summary.WeekEnding, err = domain.ParseDate(weekEnding); err != nil {
			return nil, fmt.Errorf("corrupt index row: %w", err)
		}
		weeks = append(weeks, summary)
	}
	return weeks, rows.Err()
}

// ListEntries returns the records of one bucket in date order. A zero
// weekEnding lists every record.
func (idx *Index) ListEntries(ctx context.Context, weekEnding domain.Date) ([]domain.JournalEntryRecord, error) {
	query := `SELECT ` + entryColumns + ` FROM entries`
	var args []any
	if !weekEnding.IsZero() {
		query += ` WHERE week_ending_date = ?`
		args = append(args, weekEnding.String())
	}
	query += ` ORDER BY date`

	rows, err := idx.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.JournalEntryRecord
	for rows.Next() {
		rec, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}
