package application

import "workjournal/internal/domain"

// Re-export domain types for use by adapters
type (
	Date               = domain.Date
	WorkWeekConfig     = domain.WorkWeekConfig
	Correction         = domain.Correction
	JournalEntryRecord = domain.JournalEntryRecord
	WeekSummary        = domain.WeekSummary
	SyncReport         = domain.SyncReport
	EntryContent       = domain.EntryContent
)

// DescribeCorrections renders resolver corrections one per line
func DescribeCorrections(corrections []Correction) []string {
	lines := make([]string, 0, len(corrections))
	for _, c := range corrections {
		lines = append(lines, c.String())
	}
	return lines
}
