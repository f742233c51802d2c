package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"workjournal/internal/domain"
)

// upsertOutcome is what a single-row upsert did to the index
type upsertOutcome int

const (
	outcomeInserted upsertOutcome = iota
	outcomeUpdated
	outcomeUnchanged
	// outcomeStale: the row already holds a newer state of the same file
	outcomeStale
)

func (o upsertOutcome) String() string {
	switch o {
	case outcomeInserted:
		return "inserted"
	case outcomeUpdated:
		return "updated"
	case outcomeUnchanged:
		return "unchanged"
	default:
		return "stale"
	}
}

// upsertEntry writes rec in its own transaction.
//
// The row is read and written under one IMMEDIATE transaction so concurrent
// passes, in this process or another, serialize per row. A state older than
// the stored one for the same file is rejected: the newer modifiedAt wins.
// CreatedAt and WorkWeek are kept from the first insert.
func (idx *Index) upsertEntry(ctx context.Context, rec *domain.JournalEntryRecord) (outcome upsertOutcome, err error) {
	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert %s: %w", rec.Date, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	existing, err := scanEntry(tx.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE date = ?`, rec.Date.String()))

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx, `
			INSERT INTO entries (`+entryColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, rec.Date.String(), rec.FilePath, rec.WeekEndingDate.String(), rec.WordCount, rec.HasContent,
			rec.WorkWeek, rec.CreatedAt.UnixNano(), rec.ModifiedAt.UnixNano())
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", rec.Date, err)
		}
		outcome = outcomeInserted

	case err != nil:
		return 0, fmt.Errorf("read %s: %w", rec.Date, err)

	case existing.SameState(*rec):
		outcome = outcomeUnchanged

	case existing.FilePath == rec.FilePath && rec.ModifiedAt.Before(existing.ModifiedAt):
		outcome = outcomeStale

	default:
		_, err = tx.ExecContext(ctx, `
			UPDATE entries
			SET file_path = ?, week_ending_date = ?, word_count = ?, has_content = ?, modified_at = ?
			WHERE date = ?
		`, rec.FilePath, rec.WeekEndingDate.String(), rec.WordCount, rec.HasContent,
			rec.ModifiedAt.UnixNano(), rec.Date.String())
		if err != nil {
			return 0, fmt.Errorf("update %s: %w", rec.Date, err)
		}
		outcome = outcomeUpdated
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit %s: %w", rec.Date, err)
	}
	return outcome, nil
}
