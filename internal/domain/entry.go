package domain

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// JournalEntryRecord is one row of the entry index, keyed by Date
type JournalEntryRecord struct {
	Date           Date
	FilePath       string // absolute
	WeekEndingDate Date   // fixed when the entry was bucketed, never recomputed
	WordCount      int
	HasContent     bool
	WorkWeek       string // definition in effect when first indexed, e.g. "1-5 UTC"
	CreatedAt      time.Time
	ModifiedAt     time.Time
}

// SameState reports whether two records describe the same file state.
// Bookkeeping fields (CreatedAt, WorkWeek) are ignored.
func (r JournalEntryRecord) SameState(o JournalEntryRecord) bool {
	return r.Date == o.Date &&
		r.FilePath == o.FilePath &&
		r.WeekEndingDate == o.WeekEndingDate &&
		r.WordCount == o.WordCount &&
		r.HasContent == o.HasContent &&
		r.ModifiedAt.Equal(o.ModifiedAt)
}

// CountWords returns the whitespace-separated word count of content and
// whether it holds anything besides whitespace
func CountWords(content []byte) (int, bool) {
	words := len(bytes.Fields(content))
	return words, words > 0
}

// WeekSummary aggregates the index rows of one bucket
type WeekSummary struct {
	WeekEnding Date
	Entries    int
	Words      int
}

// Resolution is the outcome of locating an entry for reading
type Resolution struct {
	Date     Date
	Path     string
	Layout   Layout
	Shadowed []string // other existing copies ignored because an earlier candidate won
}

// Ambiguous reports whether more than one copy of the entry exists on disk
func (r Resolution) Ambiguous() bool {
	return len(r.Shadowed) > 0
}

// EntryContent is an entry read from disk
type EntryContent struct {
	Resolution
	Content []byte
}

// SkippedEntry is a file a sync pass could not process
type SkippedEntry struct {
	Path   string
	Reason string
	Err    error
}

func (s SkippedEntry) Error() string {
	if s.Err == nil {
		return fmt.Sprintf("%s: %s", s.Path, s.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", s.Path, s.Reason, s.Err)
}

func (s SkippedEntry) Unwrap() error {
	return s.Err
}

// Ambiguity is a date found in more than one place during a sync pass
type Ambiguity struct {
	Date    Date
	Chosen  string
	Ignored []string
}

// SyncReport summarizes one sync pass
type SyncReport struct {
	SyncID           string
	BasePath         string
	Scanned          int
	Inserted         int
	Updated          int
	Unchanged        int
	Mismatched       int // stored bucket differs from what the current config computes
	Conflicts        int // upserts rejected because the index already held a newer state
	Ambiguities      []Ambiguity
	SkippedWithError []SkippedEntry
	Canceled         bool
	Duration         time.Duration
}

// Changed reports whether the pass wrote anything to the index
func (r *SyncReport) Changed() bool {
	return r.Inserted > 0 || r.Updated > 0
}

// Summary renders a one-line description of the pass
func (r *SyncReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scanned %d, inserted %d, updated %d, unchanged %d",
		r.Scanned, r.Inserted, r.Updated, r.Unchanged)
	if n := len(r.SkippedWithError); n > 0 {
		fmt.Fprintf(&b, ", skipped %d", n)
	}
	if r.Conflicts > 0 {
		fmt.Fprintf(&b, ", conflicts %d", r.Conflicts)
	}
	if r.Canceled {
		b.WriteString(" (canceled)")
	}
	return b.String()
}
