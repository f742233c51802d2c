package sqlite

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workjournal/internal/domain"
	"workjournal/internal/logging"
)

var baseTime = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func TestSync_IndexesCanonicalAndLegacyLayouts(t *testing.T) {
	idx, base := setupIndex(t)
	s := newTestSynchronizer(t, idx, SyncOptions{})
	ctx := context.Background()

	writeEntry(t, canonical(t, base, "2025-06-02"), "monday in the new layout", baseTime)
	bare := writeEntry(t, bucketPath(base, "2025-05", "2025-05-20", "2025-05-20"), "bare day bucket", baseTime)
	perDay := writeEntry(t, bucketPath(base, "2025-05", "week_ending_2025-05-21", "2025-05-21"), "old weekly name", baseTime)

	report, err := s.Sync(ctx, base, mondayFriday)
	require.NoError(t, err)
	assert.NotEmpty(t, report.SyncID)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 3, report.Inserted)
	assert.Equal(t, 2, report.Mismatched)
	assert.Empty(t, report.SkippedWithError)

	rec, err := idx.GetEntry(ctx, mustDate(t, "2025-05-20"))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, bare, rec.FilePath)
	assert.Equal(t, "2025-05-20", rec.WeekEndingDate.String(), "bucket comes from the parent directory")
	assert.Equal(t, 3, rec.WordCount)

	rec, err = idx.GetEntry(ctx, mustDate(t, "2025-05-21"))
	require.NoError(t, err)
	assert.Equal(t, perDay, rec.FilePath)

	// Legacy files stay where they are and are not copied into the canonical tree
	assert.FileExists(t, bare)
	assert.FileExists(t, perDay)
	assert.NoFileExists(t, canonical(t, base, "2025-05-20"))
	assert.NoFileExists(t, canonical(t, base, "2025-05-21"))

	last, err := idx.LastSync(ctx)
	require.NoError(t, err)
	assert.False(t, last.IsZero())
}

func TestSync_SecondPassIsNoop(t *testing.T) {
	idx, base := setupIndex(t)
	s := newTestSynchronizer(t, idx, SyncOptions{Workers: 2})
	ctx := context.Background()

	for _, day := range []string{"2025-06-02", "2025-06-03", "2025-06-07", "2025-06-08"} {
		writeEntry(t, canonical(t, base, day), "words for "+day, baseTime)
	}

	first, err := s.Sync(ctx, base, mondayFriday)
	require.NoError(t, err)
	assert.Equal(t, 4, first.Inserted)
	assert.True(t, first.Changed())

	second, err := s.Sync(ctx, base, mondayFriday)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 0, second.Updated)
	assert.Equal(t, 4, second.Unchanged)
	assert.False(t, second.Changed())
	assert.NotEqual(t, first.SyncID, second.SyncID)
}

func TestSync_PicksUpContentChanges(t *testing.T) {
	idx, base := setupIndex(t)
	s := newTestSynchronizer(t, idx, SyncOptions{})
	ctx := context.Background()

	path := writeEntry(t, canonical(t, base, "2025-06-04"), "one two", baseTime)
	_, err := s.Sync(ctx, base, mondayFriday)
	require.NoError(t, err)
	before, err := idx.GetEntry(ctx, mustDate(t, "2025-06-04"))
	require.NoError(t, err)

	writeEntry(t, path, "one two three four", baseTime.Add(time.Hour))
	report, err := s.Sync(ctx, base, mondayFriday)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)

	after, err := idx.GetEntry(ctx, mustDate(t, "2025-06-04"))
	require.NoError(t, err)
	assert.Equal(t, 4, after.WordCount)
	assert.True(t, after.ModifiedAt.Equal(baseTime.Add(time.Hour)))
	assert.True(t, after.CreatedAt.Equal(before.CreatedAt))
}

func TestSync_EmptyFileHasNoContent(t *testing.T) {
	idx, base := setupIndex(t)
	s := newTestSynchronizer(t, idx, SyncOptions{})
	ctx := context.Background()

	writeEntry(t, canonical(t, base, "2025-06-05"), "  \n\t ", baseTime)
	_, err := s.Sync(ctx, base, mondayFriday)
	require.NoError(t, err)

	rec, err := idx.GetEntry(ctx, mustDate(t, "2025-06-05"))
	require.NoError(t, err)
	assert.Equal(t, 0, rec.WordCount)
	assert.False(t, rec.HasContent)
}

func TestSync_SkipsBadFilesAndContinues(t *testing.T) {
	idx, base := setupIndex(t)
	s := newTestSynchronizer(t, idx, SyncOptions{})
	ctx := context.Background()

	good := writeEntry(t, canonical(t, base, "2025-06-02"), "fine", baseTime)
	malformed := writeEntry(t, bucketPath(base, "2025-06", "week_ending_2025-06-06", "2025-13-40"), "x", baseTime)
	stray := writeEntry(t, filepath.Join(base, "entries_2025", "misc", "entry_2025-06-03.txt"), "x", baseTime)
	writeEntry(t, filepath.Join(base, "entries_2025", "notes.txt"), "not an entry", baseTime)
	writeEntry(t, filepath.Join(base, ".workjournal", "locks", "entry_2025-06-02.lock"), "", baseTime)
	writeEntry(t, filepath.Join(filepath.Dir(good), ".entry_2025-06-02.txt.123.tmp"), "partial", baseTime)

	report, err := s.Sync(ctx, base, mondayFriday)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 1, report.Inserted)
	require.Len(t, report.SkippedWithError, 2)

	byPath := map[string]domain.SkippedEntry{}
	for _, sk := range report.SkippedWithError {
		byPath[sk.Path] = sk
	}
	assert.Equal(t, "malformed entry name", byPath[malformed].Reason)
	assert.ErrorIs(t, byPath[malformed], domain.ErrMalformedName)
	assert.Equal(t, "unrecognized bucket directory", byPath[stray].Reason)
}

func TestSync_UnreadableFileIsSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	idx, base := setupIndex(t)
	s := newTestSynchronizer(t, idx, SyncOptions{})

	locked := writeEntry(t, canonical(t, base, "2025-06-03"), "secret", baseTime)
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o644) })
	writeEntry(t, canonical(t, base, "2025-06-04"), "open", baseTime)

	report, err := s.Sync(context.Background(), base, mondayFriday)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)
	require.Len(t, report.SkippedWithError, 1)
	assert.Equal(t, "permission denied", report.SkippedWithError[0].Reason)
}

func TestSync_KeepsBucketsFromEarlierConfig(t *testing.T) {
	idx, base := setupIndex(t)
	s := newTestSynchronizer(t, idx, SyncOptions{})
	ctx := context.Background()

	// Written while the week ran Sunday to Thursday
	old := domain.CanonicalPath(mustDate(t, "2025-06-02"), sundayThursday, base)
	writeEntry(t, old, "thursday bucket", baseTime)

	report, err := s.Sync(ctx, base, mondayFriday)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 1, report.Mismatched)

	rec, err := idx.GetEntry(ctx, mustDate(t, "2025-06-02"))
	require.NoError(t, err)
	assert.Equal(t, "2025-06-05", rec.WeekEndingDate.String())
	assert.Equal(t, old, rec.FilePath)
}

func TestSync_CanonicalCopyWinsAmbiguity(t *testing.T) {
	idx, base := setupIndex(t)
	s := newTestSynchronizer(t, idx, SyncOptions{})
	ctx := context.Background()

	legacy := writeEntry(t, bucketPath(base, "2025-06", "2025-06-03", "2025-06-03"), "old copy", baseTime.Add(time.Hour))
	canon := writeEntry(t, canonical(t, base, "2025-06-03"), "new copy", baseTime)

	report, err := s.Sync(ctx, base, mondayFriday)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Inserted)
	require.Len(t, report.Ambiguities, 1)
	assert.Equal(t, canon, report.Ambiguities[0].Chosen)
	assert.Equal(t, []string{legacy}, report.Ambiguities[0].Ignored)

	rec, err := idx.GetEntry(ctx, mustDate(t, "2025-06-03"))
	require.NoError(t, err)
	assert.Equal(t, canon, rec.FilePath)
	assert.Equal(t, 1, countRows(t, idx))
}

func TestSync_IgnorePatterns(t *testing.T) {
	idx, base := setupIndex(t)
	s := newTestSynchronizer(t, idx, SyncOptions{Ignore: []string{"**/drafts/**"}})

	writeEntry(t, filepath.Join(base, "entries_2025", "drafts", "week_ending_2025-06-06", "entry_2025-06-03.txt"), "draft", baseTime)
	writeEntry(t, canonical(t, base, "2025-06-04"), "kept", baseTime)

	report, err := s.Sync(context.Background(), base, mondayFriday)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.Inserted)
}

func TestNewSynchronizer_RejectsBadPattern(t *testing.T) {
	idx, _ := setupIndex(t)

	_, err := NewSynchronizer(idx, SyncOptions{Ignore: []string{"[unclosed"}}, logging.NewNop())
	assert.Error(t, err)
}

func TestSync_SlowFileTimesOut(t *testing.T) {
	idx, base := setupIndex(t)
	s := newTestSynchronizer(t, idx, SyncOptions{FileTimeout: 50 * time.Millisecond})

	slow := writeEntry(t, canonical(t, base, "2025-06-02"), "stuck", baseTime)
	writeEntry(t, canonical(t, base, "2025-06-03"), "fast", baseTime)

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	s.readFile = func(path string) ([]byte, fs.FileInfo, error) {
		if path == slow {
			<-release
		}
		return readEntryFile(path)
	}

	report, err := s.Sync(context.Background(), base, mondayFriday)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted)
	require.Len(t, report.SkippedWithError, 1)
	assert.Equal(t, slow, report.SkippedWithError[0].Path)
	assert.Equal(t, "timed out", report.SkippedWithError[0].Reason)
}

func TestSync_CancellationTruncatesProgress(t *testing.T) {
	idx, base := setupIndex(t)
	s := newTestSynchronizer(t, idx, SyncOptions{Workers: 1})

	start := mustDate(t, "2025-06-02")
	for i := range 6 {
		writeEntry(t, canonical(t, base, start.AddDays(i).String()), "entry", baseTime)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var reads int
	var mu sync.Mutex
	s.readFile = func(path string) ([]byte, fs.FileInfo, error) {
		mu.Lock()
		reads++
		if reads == 2 {
			cancel()
		}
		mu.Unlock()
		return readEntryFile(path)
	}

	report, err := s.Sync(ctx, base, mondayFriday)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.True(t, report.Canceled)
	assert.Less(t, report.Inserted, 6)
	assert.Equal(t, report.Inserted, countRows(t, idx), "every counted upsert is committed")
	assert.Empty(t, report.SkippedWithError, "canceled work is not reported as failures")

	s.readFile = readEntryFile
	resumed, err := s.Sync(context.Background(), base, mondayFriday)
	require.NoError(t, err)
	assert.Equal(t, 6-report.Inserted, resumed.Inserted)
	assert.Equal(t, 6, countRows(t, idx))
}

func TestSync_CanceledBeforeStart(t *testing.T) {
	idx, base := setupIndex(t)
	s := newTestSynchronizer(t, idx, SyncOptions{})
	writeEntry(t, canonical(t, base, "2025-06-02"), "entry", baseTime)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := s.Sync(ctx, base, mondayFriday)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, report.Canceled)
	assert.Equal(t, 0, countRows(t, idx))
}

func TestSync_MissingBasePath(t *testing.T) {
	idx, base := setupIndex(t)
	s := newTestSynchronizer(t, idx, SyncOptions{})

	_, err := s.Sync(context.Background(), filepath.Join(base, "nope"), mondayFriday)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSync_ConcurrentPassesAgree(t *testing.T) {
	base := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "shared.db")

	start := mustDate(t, "2025-03-03")
	const days = 20
	for i := range days {
		d := start.AddDays(i).String()
		writeEntry(t, canonical(t, base, d), fmt.Sprintf("entry %d", i), baseTime)
	}

	// Two handles on one database stand in for two processes
	var syncs []*Synchronizer
	for range 2 {
		idx := NewIndex(logging.NewNop())
		require.NoError(t, idx.Open(base, dbPath))
		t.Cleanup(func() { idx.Close() })
		syncs = append(syncs, newTestSynchronizer(t, idx, SyncOptions{Workers: 4}))
	}

	reports := make([]*domain.SyncReport, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, s := range syncs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reports[i], errs[i] = s.Sync(context.Background(), base, mondayFriday)
		}()
	}
	wg.Wait()

	for i := range syncs {
		require.NoError(t, errs[i])
		assert.Empty(t, reports[i].SkippedWithError)
	}
	assert.Equal(t, days, reports[0].Inserted+reports[1].Inserted, "each date is inserted exactly once")
	assert.Equal(t, days, reports[0].Unchanged+reports[1].Unchanged)
	assert.Equal(t, days, countRows(t, syncs[0].idx))
}

func TestIndexFile(t *testing.T) {
	idx, base := setupIndex(t)
	s := newTestSynchronizer(t, idx, SyncOptions{})
	ctx := context.Background()

	path := writeEntry(t, canonical(t, base, "2025-06-08"), "sunday joins next week", baseTime)

	rec, err := s.IndexFile(ctx, path, mondayFriday)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-13", rec.WeekEndingDate.String())
	assert.Equal(t, 4, rec.WordCount)
	assert.Equal(t, path, rec.FilePath)

	_, err = s.IndexFile(ctx, filepath.Join(base, "entry_2025-06-09.txt"), mondayFriday)
	assert.ErrorIs(t, err, domain.ErrUnknownLayout)
}

func BenchmarkSync(b *testing.B) {
	idx, base := setupIndex(b)
	s := newTestSynchronizer(b, idx, SyncOptions{Workers: 8})

	start := mustDate(b, "2024-01-01")
	for i := range 365 {
		writeEntry(b, canonical(b, base, start.AddDays(i).String()), "a few words of journal text", baseTime)
	}

	b.ResetTimer()
	for b.Loop() {
		if _, err := s.Sync(context.Background(), base, mondayFriday); err != nil {
			b.Fatalf("sync failed: %v", err)
		}
	}
}
