package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zone lookups must not depend on the host's zoneinfo
)

// Weekday is an ISO weekday index: Monday=1 .. Sunday=7
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayOf converts a time.Weekday (Sunday=0) to an ISO Weekday (Sunday=7)
func WeekdayOf(w time.Weekday) Weekday {
	if w == time.Sunday {
		return Sunday
	}
	return Weekday(w)
}

// Valid reports whether w is within 1..7
func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

// Next returns the following weekday, wrapping Sunday to Monday
func (w Weekday) Next() Weekday {
	return w%7 + 1
}

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// ParseWeekday accepts a number (1-7) or an English day name or its
// three-letter abbreviation, case-insensitively.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		w := Weekday(n)
		if !w.Valid() {
			return 0, fmt.Errorf("weekday %d out of range 1-7", n)
		}
		return w, nil
	}
	for i := Monday; i <= Sunday; i++ {
		name := strings.ToLower(weekdayNames[i])
		if s == name || s == name[:3] {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday: %q", s)
}

// Preset names a predefined work week
type Preset string

const (
	PresetMondayFriday   Preset = "monday_friday"
	PresetSundayThursday Preset = "sunday_thursday"
	PresetCustom         Preset = "custom"
)

// ParsePreset normalizes spellings like "MondayFriday", "monday-friday" or
// "Monday Friday" to a Preset.
func ParsePreset(s string) (Preset, error) {
	key := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "mondayfriday":
		return PresetMondayFriday, nil
	case "sundaythursday":
		return PresetSundayThursday, nil
	case "custom":
		return PresetCustom, nil
	default:
		return "", fmt.Errorf("unknown preset: %q", s)
	}
}

// presetDays holds the fixed (start, end) pairs of each non-custom preset
var presetDays = map[Preset][2]Weekday{
	PresetMondayFriday:   {Monday, Friday},
	PresetSundayThursday: {Sunday, Thursday},
}

// DefaultTimezone is used when the configured zone is empty or unknown
const DefaultTimezone = "UTC"

// WorkWeekConfig is a validated work-week definition. Obtain one through
// Resolve; the zero value is not usable.
type WorkWeekConfig struct {
	StartDay Weekday
	EndDay   Weekday
	Preset   Preset
	Timezone string

	location *time.Location
}

// Location returns the zone dates are localized to before weekday arithmetic
func (c WorkWeekConfig) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// Wraps reports whether the work week crosses the Sunday/Monday boundary
func (c WorkWeekConfig) Wraps() bool {
	return c.StartDay > c.EndDay
}

// Length returns the number of days in the work week (2..7 once resolved)
func (c WorkWeekConfig) Length() int {
	return int(c.EndDay-c.StartDay+7)%7 + 1
}

// Contains reports whether a weekday is inside the work week
func (c WorkWeekConfig) Contains(w Weekday) bool {
	return IsWithinWorkWeek(w, c.StartDay, c.EndDay)
}

// String renders a compact form such as "1-5 UTC", stored alongside index
// records to show which definition produced their bucket.
func (c WorkWeekConfig) String() string {
	return fmt.Sprintf("%d-%d %s", c.StartDay, c.EndDay, c.Timezone)
}

// RawWorkWeek is an unvalidated work-week definition as it arrives from
// settings. Zero days mean "not set".
type RawWorkWeek struct {
	Preset   string
	StartDay int
	EndDay   int
	Timezone string
}

// Correction records an adjustment Resolve made to a raw definition so the
// caller can tell the user about it.
type Correction struct {
	Field  string
	From   string
	To     string
	Reason string
}

func (c Correction) String() string {
	return fmt.Sprintf("%s: %s -> %s (%s)", c.Field, c.From, c.To, c.Reason)
}

// Resolve validates and normalizes a raw work-week definition.
//
// Presets expand to their fixed days. A custom week whose start and end fall
// on the same day is widened to two days by advancing the end day. An unknown
// timezone falls back to UTC. Each of these adjustments is returned as a
// Correction. Definitions that cannot be repaired return a *ConfigurationError.
func Resolve(raw RawWorkWeek) (WorkWeekConfig, []Correction, error) {
	var corrections []Correction

	preset, err := resolvePreset(raw, &corrections)
	if err != nil {
		return WorkWeekConfig{}, nil, err
	}

	cfg := WorkWeekConfig{Preset: preset}

	if days, ok := presetDays[preset]; ok {
		cfg.StartDay, cfg.EndDay = days[0], days[1]
		if raw.StartDay != 0 && Weekday(raw.StartDay) != cfg.StartDay {
			corrections = append(corrections, Correction{
				Field:  "start_day",
				From:   strconv.Itoa(raw.StartDay),
				To:     strconv.Itoa(int(cfg.StartDay)),
				Reason: fmt.Sprintf("preset %s fixes the start day", preset),
			})
		}
		if raw.EndDay != 0 && Weekday(raw.EndDay) != cfg.EndDay {
			corrections = append(corrections, Correction{
				Field:  "end_day",
				From:   strconv.Itoa(raw.EndDay),
				To:     strconv.Itoa(int(cfg.EndDay)),
				Reason: fmt.Sprintf("preset %s fixes the end day", preset),
			})
		}
	} else {
		start, end := Weekday(raw.StartDay), Weekday(raw.EndDay)
		if !start.Valid() {
			return WorkWeekConfig{}, nil, &ConfigurationError{
				Field:  "start_day",
				Value:  strconv.Itoa(raw.StartDay),
				Reason: "must be between 1 (Monday) and 7 (Sunday)",
			}
		}
		if !end.Valid() {
			return WorkWeekConfig{}, nil, &ConfigurationError{
				Field:  "end_day",
				Value:  strconv.Itoa(raw.EndDay),
				Reason: "must be between 1 (Monday) and 7 (Sunday)",
			}
		}
		if start == end {
			corrections = append(corrections, Correction{
				Field:  "end_day",
				From:   strconv.Itoa(int(end)),
				To:     strconv.Itoa(int(end.Next())),
				Reason: "start and end day are the same; work week widened to two days",
			})
			end = end.Next()
		}
		cfg.StartDay, cfg.EndDay = start, end
	}

	cfg.Timezone, cfg.location = resolveTimezone(raw.Timezone, &corrections)

	return cfg, corrections, nil
}

// MustResolve is Resolve for known-good literals (tests, defaults).
// It panics on a ConfigurationError.
func MustResolve(raw RawWorkWeek) WorkWeekConfig {
	cfg, _, err := Resolve(raw)
	if err != nil {
		panic(err)
	}
	return cfg
}

func resolvePreset(raw RawWorkWeek, corrections *[]Correction) (Preset, error) {
	name := strings.TrimSpace(raw.Preset)
	if name == "" {
		if raw.StartDay == 0 && raw.EndDay == 0 {
			*corrections = append(*corrections, Correction{
				Field:  "preset",
				From:   "",
				To:     string(PresetMondayFriday),
				Reason: "no work week configured; using the default",
			})
			return PresetMondayFriday, nil
		}
		return PresetCustom, nil
	}

	preset, err := ParsePreset(name)
	if err != nil {
		return "", &ConfigurationError{
			Field:  "preset",
			Value:  raw.Preset,
			Reason: "expected monday_friday, sunday_thursday or custom",
		}
	}
	return preset, nil
}

func resolveTimezone(name string, corrections *[]Correction) (string, *time.Location) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultTimezone, time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		*corrections = append(*corrections, Correction{
			Field:  "timezone",
			From:   name,
			To:     DefaultTimezone,
			Reason: "unknown timezone",
		})
		return DefaultTimezone, time.UTC
	}
	return name, loc
}
