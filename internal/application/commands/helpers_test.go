package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"workjournal/internal/adapters/filesystem"
	"workjournal/internal/adapters/sqlite"
	"workjournal/internal/domain"
	"workjournal/internal/logging"
)

var (
	mondayFriday   = domain.MustResolve(domain.RawWorkWeek{Preset: "monday_friday"})
	sundayThursday = domain.MustResolve(domain.RawWorkWeek{Preset: "sunday_thursday"})
)

// fixedNow pins "today" to Tuesday 2025-06-03
func fixedNow() time.Time {
	return time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
}

type journal struct {
	base  string
	repo  *filesystem.Repository
	index *sqlite.Index
	sync  *sqlite.Synchronizer
}

func setupJournal(t *testing.T) *journal {
	t.Helper()
	base := t.TempDir()

	index := sqlite.NewIndex(logging.NewNop())
	if err := index.Open(base, filepath.Join(t.TempDir(), "index.db")); err != nil {
		t.Fatalf("failed to open index: %v", err)
	}
	t.Cleanup(func() { index.Close() })

	sync, err := sqlite.NewSynchronizer(index, sqlite.SyncOptions{}, logging.NewNop())
	if err != nil {
		t.Fatalf("failed to create synchronizer: %v", err)
	}

	return &journal{
		base:  base,
		repo:  filesystem.NewRepository(base, logging.NewNop()),
		index: index,
		sync:  sync,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
