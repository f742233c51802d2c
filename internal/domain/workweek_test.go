package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Presets(t *testing.T) {
	tests := []struct {
		name      string
		preset    string
		wantStart Weekday
		wantEnd   Weekday
		wantPre   Preset
	}{
		{name: "monday friday", preset: "monday_friday", wantStart: Monday, wantEnd: Friday, wantPre: PresetMondayFriday},
		{name: "camel case", preset: "MondayFriday", wantStart: Monday, wantEnd: Friday, wantPre: PresetMondayFriday},
		{name: "sunday thursday", preset: "sunday-thursday", wantStart: Sunday, wantEnd: Thursday, wantPre: PresetSundayThursday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, corrections, err := Resolve(RawWorkWeek{Preset: tt.preset})
			require.NoError(t, err)
			assert.Empty(t, corrections)
			assert.Equal(t, tt.wantStart, cfg.StartDay)
			assert.Equal(t, tt.wantEnd, cfg.EndDay)
			assert.Equal(t, tt.wantPre, cfg.Preset)
			assert.Equal(t, "UTC", cfg.Timezone)
		})
	}
}

func TestResolve_PresetOverridesDays(t *testing.T) {
	cfg, corrections, err := Resolve(RawWorkWeek{Preset: "monday_friday", StartDay: 2, EndDay: 6})
	require.NoError(t, err)

	assert.Equal(t, Monday, cfg.StartDay)
	assert.Equal(t, Friday, cfg.EndDay)
	require.Len(t, corrections, 2)
	assert.Equal(t, "start_day", corrections[0].Field)
	assert.Equal(t, "end_day", corrections[1].Field)
}

func TestResolve_SameStartAndEndIsWidened(t *testing.T) {
	cfg, corrections, err := Resolve(RawWorkWeek{Preset: "custom", StartDay: 3, EndDay: 3})
	require.NoError(t, err)

	assert.Equal(t, Wednesday, cfg.StartDay)
	assert.Equal(t, Thursday, cfg.EndDay)
	assert.Equal(t, 2, cfg.Length())
	require.Len(t, corrections, 1)
	assert.Equal(t, "end_day", corrections[0].Field)
	assert.Equal(t, "3", corrections[0].From)
	assert.Equal(t, "4", corrections[0].To)
}

func TestResolve_SameDaySundayWrapsToMonday(t *testing.T) {
	cfg, corrections, err := Resolve(RawWorkWeek{StartDay: 7, EndDay: 7})
	require.NoError(t, err)

	assert.Equal(t, PresetCustom, cfg.Preset)
	assert.Equal(t, Sunday, cfg.StartDay)
	assert.Equal(t, Monday, cfg.EndDay)
	assert.True(t, cfg.Wraps())
	assert.Len(t, corrections, 1)
}

func TestResolve_EmptyUsesDefaultPreset(t *testing.T) {
	cfg, corrections, err := Resolve(RawWorkWeek{})
	require.NoError(t, err)

	assert.Equal(t, PresetMondayFriday, cfg.Preset)
	require.Len(t, corrections, 1)
	assert.Equal(t, "preset", corrections[0].Field)
}

func TestResolve_Timezone(t *testing.T) {
	t.Run("known zone", func(t *testing.T) {
		cfg, corrections, err := Resolve(RawWorkWeek{Preset: "monday_friday", Timezone: "Europe/Rome"})
		require.NoError(t, err)
		assert.Empty(t, corrections)
		assert.Equal(t, "Europe/Rome", cfg.Timezone)
		assert.Equal(t, "Europe/Rome", cfg.Location().String())
	})

	t.Run("unknown zone falls back to UTC", func(t *testing.T) {
		cfg, corrections, err := Resolve(RawWorkWeek{Preset: "monday_friday", Timezone: "Mars/Olympus"})
		require.NoError(t, err)
		assert.Equal(t, "UTC", cfg.Timezone)
		require.Len(t, corrections, 1)
		assert.Equal(t, "timezone", corrections[0].Field)
	})
}

func TestResolve_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		raw       RawWorkWeek
		wantField string
	}{
		{name: "unknown preset", raw: RawWorkWeek{Preset: "tuesday_saturday"}, wantField: "preset"},
		{name: "start out of range", raw: RawWorkWeek{StartDay: 0, EndDay: 5}, wantField: "start_day"},
		{name: "end out of range", raw: RawWorkWeek{StartDay: 1, EndDay: 8}, wantField: "end_day"},
		{name: "custom without days", raw: RawWorkWeek{Preset: "custom"}, wantField: "start_day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Resolve(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration))

			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    Weekday
		wantErr bool
	}{
		{in: "1", want: Monday},
		{in: "7", want: Sunday},
		{in: "Friday", want: Friday},
		{in: "thu", want: Thursday},
		{in: "0", wantErr: true},
		{in: "someday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekday(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWeekday_Next(t *testing.T) {
	assert.Equal(t, Tuesday, Monday.Next())
	assert.Equal(t, Monday, Sunday.Next())
}
