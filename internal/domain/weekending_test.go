package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

var (
	mondayFriday   = MustResolve(RawWorkWeek{Preset: "monday_friday"})
	sundayThursday = MustResolve(RawWorkWeek{Preset: "sunday_thursday"})
	fridayThursday = MustResolve(RawWorkWeek{StartDay: 5, EndDay: 4})
	wedThu         = MustResolve(RawWorkWeek{StartDay: 3, EndDay: 4})
)

func TestWeekEnding(t *testing.T) {
	tests := []struct {
		name string
		cfg  WorkWeekConfig
		date string
		want string
		rule Assignment
	}{
		{name: "monday in week", cfg: mondayFriday, date: "2025-06-02", want: "2025-06-06", rule: AssignedInWeek},
		{name: "friday is its own end", cfg: mondayFriday, date: "2025-06-06", want: "2025-06-06", rule: AssignedInWeek},
		{name: "saturday joins previous friday", cfg: mondayFriday, date: "2025-06-07", want: "2025-06-06", rule: AssignedPrevious},
		{name: "sunday joins next friday", cfg: mondayFriday, date: "2025-06-08", want: "2025-06-13", rule: AssignedNext},
		{name: "month boundary", cfg: mondayFriday, date: "2025-07-29", want: "2025-08-01", rule: AssignedInWeek},
		{name: "year boundary sunday thursday", cfg: sundayThursday, date: "2024-12-30", want: "2025-01-02", rule: AssignedInWeek},
		{name: "sunday starts sunday thursday week", cfg: sundayThursday, date: "2025-06-01", want: "2025-06-05", rule: AssignedInWeek},
		{name: "friday after thursday end", cfg: sundayThursday, date: "2025-06-06", want: "2025-06-05", rule: AssignedPrevious},
		{name: "saturday before sunday start", cfg: sundayThursday, date: "2025-06-07", want: "2025-06-12", rule: AssignedNext},
		{name: "wrap week friday start", cfg: fridayThursday, date: "2025-06-06", want: "2025-06-12", rule: AssignedInWeek},
		{name: "wrap week spans weekend", cfg: fridayThursday, date: "2025-06-08", want: "2025-06-12", rule: AssignedInWeek},
		{name: "two day week day after end", cfg: wedThu, date: "2025-06-06", want: "2025-06-05", rule: AssignedPrevious},
		{name: "two day week far off day", cfg: wedThu, date: "2025-06-09", want: "2025-06-12", rule: AssignedNext},
		{name: "leap day", cfg: mondayFriday, date: "2024-02-29", want: "2024-03-01", rule: AssignedInWeek},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rule := Assign(mustDate(t, tt.date), tt.cfg)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, tt.rule, rule)
		})
	}
}

func TestWeekEnding_Idempotent(t *testing.T) {
	configs := []WorkWeekConfig{mondayFriday, sundayThursday, fridayThursday, wedThu}
	start := mustDate(t, "2024-12-01")

	for _, cfg := range configs {
		for i := 0; i < 120; i++ {
			d := start.AddDays(i)
			once := WeekEnding(d, cfg)
			assert.Equal(t, once, WeekEnding(once, cfg), "config %s date %s", cfg, d)
			assert.Equal(t, cfg.EndDay, once.Weekday(), "config %s date %s", cfg, d)
		}
	}
}

func TestWeekEnding_SameWeekInstanceSameBucket(t *testing.T) {
	configs := []WorkWeekConfig{mondayFriday, sundayThursday, fridayThursday, wedThu}
	start := mustDate(t, "2025-01-01")

	for _, cfg := range configs {
		for i := 0; i < 60; i++ {
			end := WeekEnding(start.AddDays(i), cfg)
			first := WeekStart(end, cfg)
			for d := first; !end.Before(d); d = d.AddDays(1) {
				assert.Equal(t, end, WeekEnding(d, cfg), "config %s date %s", cfg, d)
			}
		}
	}
}

func TestWeekEndingDate_LocalizesOnce(t *testing.T) {
	tokyo := MustResolve(RawWorkWeek{Preset: "monday_friday", Timezone: "Asia/Tokyo"})

	// Friday 20:00 UTC is already Saturday in Tokyo
	instant := time.Date(2025, 6, 6, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-06", WeekEndingDate(instant, mondayFriday).String())
	assert.Equal(t, Saturday, LocalDate(instant, tokyo).Weekday())
	assert.Equal(t, "2025-06-06", WeekEndingDate(instant, tokyo).String())

	// Sunday 16:00 UTC is Monday in Tokyo
	instant = time.Date(2025, 6, 8, 16, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-13", WeekEndingDate(instant, tokyo).String())
}

func TestWeekEndingDate_AcrossDST(t *testing.T) {
	newYork := MustResolve(RawWorkWeek{Preset: "monday_friday", Timezone: "America/New_York"})

	// DST began 2025-03-09 02:00 local
	before := time.Date(2025, 3, 9, 1, 30, 0, 0, newYork.Location())
	after := time.Date(2025, 3, 9, 3, 30, 0, 0, newYork.Location())

	assert.Equal(t, "2025-03-14", WeekEndingDate(before, newYork).String())
	assert.Equal(t, WeekEndingDate(before, newYork), WeekEndingDate(after, newYork))
}

func TestIsWithinWorkWeek(t *testing.T) {
	assert.True(t, IsWithinWorkWeek(Wednesday, Monday, Friday))
	assert.False(t, IsWithinWorkWeek(Saturday, Monday, Friday))
	assert.True(t, IsWithinWorkWeek(Saturday, Friday, Thursday))
	assert.True(t, IsWithinWorkWeek(Monday, Friday, Tuesday))
	assert.False(t, IsWithinWorkWeek(Wednesday, Friday, Tuesday))
}

func TestWeekStart(t *testing.T) {
	end := mustDate(t, "2025-06-06")
	assert.Equal(t, "2025-06-02", WeekStart(end, mondayFriday).String())

	end = mustDate(t, "2025-06-12")
	assert.Equal(t, "2025-06-06", WeekStart(end, fridayThursday).String())
}
