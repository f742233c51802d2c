package domain

import "time"

// Assignment describes how a date was mapped to its bucket
type Assignment int

const (
	// AssignedInWeek: the date lies inside the work week
	AssignedInWeek Assignment = iota
	// AssignedPrevious: the day right after the end day joins the week that just ended
	AssignedPrevious
	// AssignedNext: any other off day joins the upcoming week
	AssignedNext
)

func (a Assignment) String() string {
	switch a {
	case AssignedPrevious:
		return "previous week"
	case AssignedNext:
		return "next week"
	default:
		return "in week"
	}
}

// IsWithinWorkWeek reports whether day falls in the span start..end.
// When start > end the span wraps past Sunday.
func IsWithinWorkWeek(day, start, end Weekday) bool {
	if start <= end {
		return start <= day && day <= end
	}
	return day >= start || day <= end
}

// WeekEnding returns the canonical week-ending date for a calendar date.
//
// In-week days map forward to the end day of their own week. Off days are
// reassigned: the day immediately after the end day belongs to the week that
// just ended, every other off day belongs to the next week. The result is
// idempotent and takes at most one date addition.
func WeekEnding(d Date, cfg WorkWeekConfig) Date {
	end, _ := assign(d, cfg)
	return end
}

// Assign is WeekEnding that also reports which rule placed the date
func Assign(d Date, cfg WorkWeekConfig) (Date, Assignment) {
	return assign(d, cfg)
}

func assign(d Date, cfg WorkWeekConfig) (Date, Assignment) {
	day := d.Weekday()
	forward := (int(cfg.EndDay) - int(day) + 7) % 7

	if IsWithinWorkWeek(day, cfg.StartDay, cfg.EndDay) {
		return d.AddDays(forward), AssignedInWeek
	}
	if day == cfg.EndDay.Next() {
		return d.AddDays(-1), AssignedPrevious
	}
	return d.AddDays(forward), AssignedNext
}

// LocalDate localizes t to the configured zone once and drops the time of day
func LocalDate(t time.Time, cfg WorkWeekConfig) Date {
	return DateOf(t.In(cfg.Location()))
}

// WeekEndingDate is WeekEnding for an instant: t is first localized to the
// configured timezone.
func WeekEndingDate(t time.Time, cfg WorkWeekConfig) Date {
	return WeekEnding(LocalDate(t, cfg), cfg)
}

// WeekStart returns the first in-week day of the week ending on end
func WeekStart(end Date, cfg WorkWeekConfig) Date {
	return end.AddDays(1 - cfg.Length())
}
