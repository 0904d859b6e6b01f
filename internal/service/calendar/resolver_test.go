package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/config"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings struct {
	values map[string]string
}

func (f *fakeSettings) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeSettings) Set(_ context.Context, key, value string) error {
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[key] = value
	return nil
}

type fakeHolidays struct {
	dates map[string]bool
}

func (f *fakeHolidays) Create(_ context.Context, h calendar.HolidayEntry) (calendar.HolidayEntry, error) {
	if f.dates == nil {
		f.dates = map[string]bool{}
	}
	f.dates[h.Date.Format("2006-01-02")] = true
	return h, nil
}

func (f *fakeHolidays) ExistsOnDate(_ context.Context, date time.Time) (bool, error) {
	return f.dates[date.Format("2006-01-02")], nil
}

func (f *fakeHolidays) ListByYear(_ context.Context, _ int) ([]calendar.HolidayEntry, error) {
	return nil, nil
}

func (f *fakeHolidays) Delete(_ context.Context, _ string) error { return nil }

func TestParseWeekendDays(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []time.Weekday
	}{
		{"default pair", "saturday,sunday", []time.Weekday{time.Saturday, time.Sunday}},
		{"friday weekend", "friday, saturday", []time.Weekday{time.Friday, time.Saturday}},
		{"mixed case and spacing", " Sunday , MONDAY ", []time.Weekday{time.Sunday, time.Monday}},
		{"empty falls back", "", []time.Weekday{time.Saturday, time.Sunday}},
		{"garbage falls back", "caturday", []time.Weekday{time.Saturday, time.Sunday}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := ParseWeekendDays(tt.value)
			require.Len(t, set, len(tt.want))
			for _, day := range tt.want {
				assert.True(t, set[day], "expected %s in weekend set", day)
			}
		})
	}
}

func TestClock_At(t *testing.T) {
	clock := NewClock(config.AttendanceConfig{Timezone: "UTC"})
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	got, err := clock.At(date, "09:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC), got)

	_, err = clock.At(date, "25:99")
	assert.Error(t, err)
}

func TestClock_InvalidTimezoneFallsBackToUTC(t *testing.T) {
	clock := NewClock(config.AttendanceConfig{Timezone: "Not/AZone"})
	assert.Equal(t, time.UTC, clock.Location())
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2026, time.March, 2, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), DateOf(ts))
}

func TestResolver_DayKind(t *testing.T) {
	cfg := config.AttendanceConfig{WeekendDays: "saturday,sunday"}
	ctx := context.Background()

	monday := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)

	t.Run("plain workday", func(t *testing.T) {
		r := NewResolver(&fakeSettings{}, &fakeHolidays{}, cfg)
		kind, err := r.DayKind(ctx, monday)
		require.NoError(t, err)
		assert.Equal(t, calendar.Workday, kind)
	})

	t.Run("weekend", func(t *testing.T) {
		r := NewResolver(&fakeSettings{}, &fakeHolidays{}, cfg)
		kind, err := r.DayKind(ctx, saturday)
		require.NoError(t, err)
		assert.Equal(t, calendar.Weekend, kind)
	})

	t.Run("holiday", func(t *testing.T) {
		holidays := &fakeHolidays{dates: map[string]bool{"2026-03-02": true}}
		r := NewResolver(&fakeSettings{}, holidays, cfg)
		kind, err := r.DayKind(ctx, monday)
		require.NoError(t, err)
		assert.Equal(t, calendar.Holiday, kind)
	})

	t.Run("weekend wins over holiday", func(t *testing.T) {
		holidays := &fakeHolidays{dates: map[string]bool{"2026-03-07": true}}
		r := NewResolver(&fakeSettings{}, holidays, cfg)
		kind, err := r.DayKind(ctx, saturday)
		require.NoError(t, err)
		assert.Equal(t, calendar.Weekend, kind)
	})

	t.Run("weekend set from settings row", func(t *testing.T) {
		settings := &fakeSettings{values: map[string]string{
			calendar.SettingWeekendDays: "friday",
		}}
		r := NewResolver(settings, &fakeHolidays{}, cfg)

		friday := time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC)
		kind, err := r.DayKind(ctx, friday)
		require.NoError(t, err)
		assert.Equal(t, calendar.Weekend, kind)

		kind, err = r.DayKind(ctx, saturday)
		require.NoError(t, err)
		assert.Equal(t, calendar.Workday, kind)
	})
}
