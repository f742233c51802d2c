package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"workjournal/internal/domain"
	"workjournal/internal/logging"
)

var (
	mondayFriday   = domain.MustResolve(domain.RawWorkWeek{Preset: "monday_friday"})
	sundayThursday = domain.MustResolve(domain.RawWorkWeek{Preset: "sunday_thursday"})
)

func mustDate(t testing.TB, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

// setupIndex opens an index for a fresh base path; the database lives outside the tree
func setupIndex(t testing.TB) (*Index, string) {
	t.Helper()
	base := t.TempDir()
	idx := NewIndex(logging.NewNop())
	require.NoError(t, idx.Open(base, filepath.Join(t.TempDir(), "index.db")))
	t.Cleanup(func() { idx.Close() })
	return idx, base
}

func newTestSynchronizer(t testing.TB, idx *Index, opts SyncOptions) *Synchronizer {
	t.Helper()
	s, err := NewSynchronizer(idx, opts, logging.NewNop())
	require.NoError(t, err)
	return s
}

func writeEntry(t testing.TB, path, content string, mtime time.Time) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func canonical(t testing.TB, base, date string) string {
	t.Helper()
	return domain.CanonicalPath(mustDate(t, date), mondayFriday, base)
}

func bucketPath(base, month, bucket, date string) string {
	return filepath.Join(base, "entries_"+month[:4], "entries_"+month, bucket, "entry_"+date+".txt")
}

func countRows(t testing.TB, idx *Index) int {
	t.Helper()
	var n int
	require.NoError(t, idx.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n))
	return n
}
