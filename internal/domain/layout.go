package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	yearDirPrefix   = "entries_"
	weekDirPrefix   = "week_ending_"
	entryFilePrefix = "entry_"
	entryFileExt    = ".txt"
)

// Layout classifies where an entry file lives relative to the canonical tree
type Layout int

const (
	// LayoutCanonical: the file sits in the bucket the current config computes
	LayoutCanonical Layout = iota
	// LayoutReconfigured: a week bucket produced under an earlier work-week config
	LayoutReconfigured
	// LayoutLegacy: the old one-bucket-per-day layout
	LayoutLegacy
)

func (l Layout) String() string {
	switch l {
	case LayoutCanonical:
		return "canonical"
	case LayoutReconfigured:
		return "reconfigured"
	case LayoutLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// YearDirName returns "entries_<year>"
func YearDirName(d Date) string {
	return fmt.Sprintf("%s%04d", yearDirPrefix, d.Year)
}

// MonthDirName returns "entries_<year>-<month>"
func MonthDirName(d Date) string {
	return yearDirPrefix + d.MonthKey()
}

// WeekDirName returns "week_ending_<date>"
func WeekDirName(weekEnding Date) string {
	return weekDirPrefix + weekEnding.String()
}

// EntryFileName returns "entry_<date>.txt"
func EntryFileName(d Date) string {
	return entryFilePrefix + d.String() + entryFileExt
}

// BucketDir returns the directory holding every entry of the week ending on
// weekEnding. Year and month come from the week-ending date so a week that
// straddles a month boundary still lands in a single directory.
func BucketDir(weekEnding Date, basePath string) string {
	return filepath.Join(basePath, YearDirName(weekEnding), MonthDirName(weekEnding), WeekDirName(weekEnding))
}

// CanonicalPath returns the path new entries for date d are written to
func CanonicalPath(d Date, cfg WorkWeekConfig, basePath string) string {
	return filepath.Join(BucketDir(WeekEnding(d, cfg), basePath), EntryFileName(d))
}

// LegacyCandidatePaths enumerates every path the old one-bucket-per-day
// layout could have used for d, in lookup order. Year and month come from the
// entry date itself, as the old layout did.
func LegacyCandidatePaths(d Date, basePath string) []string {
	monthDir := filepath.Join(basePath, YearDirName(d), MonthDirName(d))
	return []string{
		filepath.Join(monthDir, WeekDirName(d), EntryFileName(d)),
		filepath.Join(monthDir, d.String(), EntryFileName(d)),
	}
}

// IsEntryFileName reports whether name looks like an entry file, whether or
// not its embedded date parses
func IsEntryFileName(name string) bool {
	return strings.HasPrefix(name, entryFilePrefix) && strings.HasSuffix(name, entryFileExt)
}

// ParseEntryFileName extracts the date from "entry_<date>.txt"
func ParseEntryFileName(name string) (Date, error) {
	if !IsEntryFileName(name) {
		return Date{}, fmt.Errorf("%w: %s", ErrMalformedName, name)
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(name, entryFilePrefix), entryFileExt)
	d, err := ParseDate(raw)
	if err != nil || d.String() != raw {
		return Date{}, fmt.Errorf("%w: %s", ErrMalformedName, name)
	}
	return d, nil
}

// ParseBucketDirName extracts the date embedded in a bucket directory name.
// weekly is true for "week_ending_<date>" and false for a bare "<date>".
func ParseBucketDirName(name string) (d Date, weekly bool, err error) {
	raw, weekly := strings.CutPrefix(name, weekDirPrefix)
	d, err = ParseDate(raw)
	if err != nil || d.String() != raw {
		return Date{}, false, fmt.Errorf("%w: %s", ErrUnknownLayout, name)
	}
	return d, weekly, nil
}

// EntryLocation is what an entry file's path says about it
type EntryLocation struct {
	Path     string
	Date     Date
	Bucket   Date // week ending embodied by the parent directory
	Expected Date // week ending the current config computes
	Layout   Layout
}

// Mismatched reports whether the stored bucket differs from the computed one
func (l EntryLocation) Mismatched() bool {
	return l.Bucket != l.Expected
}

// LocateEntry classifies an entry file by its name and the directories above it.
//
// A week bucket matching the computed week ending, under the year and month
// directories of that week ending, is canonical. A week bucket named after the
// entry's own date, or a bare date directory, is the legacy per-day layout.
// Any other week bucket, including the right bucket filed under another month,
// was computed under an earlier config and is kept as is; its date is never
// recomputed.
func LocateEntry(path string, cfg WorkWeekConfig) (EntryLocation, error) {
	d, err := ParseEntryFileName(filepath.Base(path))
	if err != nil {
		return EntryLocation{}, err
	}

	loc := EntryLocation{
		Path:     path,
		Date:     d,
		Expected: WeekEnding(d, cfg),
	}

	bucketDir := filepath.Dir(path)
	parent := filepath.Base(bucketDir)
	bucket, weekly, err := ParseBucketDirName(parent)
	if err != nil {
		return EntryLocation{}, err
	}
	loc.Bucket = bucket

	monthDir := filepath.Dir(bucketDir)
	filed := filepath.Base(monthDir) == MonthDirName(bucket) &&
		filepath.Base(filepath.Dir(monthDir)) == YearDirName(bucket)

	switch {
	case weekly && bucket == loc.Expected && filed:
		loc.Layout = LayoutCanonical
	case weekly && bucket == loc.Expected:
		loc.Layout = LayoutReconfigured
	case bucket == d:
		loc.Layout = LayoutLegacy
	case weekly:
		loc.Layout = LayoutReconfigured
	default:
		return EntryLocation{}, fmt.Errorf("%w: %s does not match entry date %s", ErrUnknownLayout, parent, d)
	}
	return loc, nil
}
