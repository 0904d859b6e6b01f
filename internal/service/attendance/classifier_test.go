package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/config"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/calendar"
	"github.com/stretchr/testify/assert"
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

func at(hour, min int) time.Time {
	return time.Date(2026, time.March, 2, hour, min, 0, 0, time.UTC)
}

func TestTotalHours(t *testing.T) {
	tests := []struct {
		name     string
		punchIn  time.Time
		punchOut time.Time
		want     float64
	}{
		{"full working day", at(9, 5), at(17, 35), 8.50},
		{"forty minutes", at(9, 0), at(9, 40), 0.67},
		{"zero duration", at(9, 0), at(9, 0), 0},
		{"seven and a half", at(9, 0), at(16, 30), 7.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TotalHours(tt.punchIn, tt.punchOut), 0.001)
		})
	}
}

func TestProductionHours(t *testing.T) {
	tests := []struct {
		name         string
		totalHours   float64
		breakMinutes int
		want         float64
	}{
		{"forty minute break", 7.50, 40, 6.83},
		{"no break", 8.50, 0, 8.50},
		{"break exceeds total floors at zero", 0.50, 60, 0},
		{"exact hour break", 8.00, 60, 7.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ProductionHours(tt.totalHours, tt.breakMinutes), 0.001)
		})
	}
}

func TestBreakMinutes(t *testing.T) {
	assert.Equal(t, 40, BreakMinutes(at(12, 0), at(12, 40)))
	assert.Equal(t, 0, BreakMinutes(at(12, 0), at(12, 0)))
	assert.Equal(t, 91, BreakMinutes(at(12, 0), at(13, 30).Add(30*time.Second)))
}

func TestClassify(t *testing.T) {
	th := Thresholds{FullDayHours: 7.5, HalfDayHours: 7.0}

	tests := []struct {
		name       string
		totalHours float64
		kind       calendar.DayKind
		want       string
	}{
		{"meets full day threshold", 8.50, calendar.Workday, attendance.StatusPresent},
		{"exactly full day threshold", 7.50, calendar.Workday, attendance.StatusPresent},
		{"between half and full", 7.20, calendar.Workday, attendance.StatusHalfDay},
		{"exactly half day threshold", 7.00, calendar.Workday, attendance.StatusHalfDay},
		{"below half day", 3.00, calendar.Workday, attendance.StatusAbsent},
		{"zero hours", 0, calendar.Workday, attendance.StatusPending},
		{"weekend ignores hours", 9.00, calendar.Weekend, attendance.StatusWeekOff},
		{"holiday ignores hours", 9.00, calendar.Holiday, attendance.StatusHoliday},
		{"weekend with zero hours", 0, calendar.Weekend, attendance.StatusWeekOff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.totalHours, tt.kind, th))
		})
	}
}

func TestClassify_UsesRawTotalHours(t *testing.T) {
	th := Thresholds{FullDayHours: 7.5, HalfDayHours: 7.0}

	// 09:00-17:00 with a 40 minute break: total 8.00 meets the full-day
	// threshold even though production hours (7.33) also would; the decisive
	// input is always the raw total.
	total := TotalHours(at(9, 0), at(17, 0))
	assert.Equal(t, attendance.StatusPresent, Classify(total, calendar.Workday, th))

	// 09:00-16:40 with a long break: total 7.67 still present on raw hours
	// although production drops to 6.17.
	total = TotalHours(at(9, 0), at(16, 40))
	prod := ProductionHours(total, 90)
	assert.Less(t, prod, th.HalfDayHours)
	assert.Equal(t, attendance.StatusPresent, Classify(total, calendar.Workday, th))
}

func TestResolveThresholds(t *testing.T) {
	cfg := config.AttendanceConfig{FullDayHours: 7.5, HalfDayHours: 7.0}
	ctx := context.Background()

	t.Run("defaults when settings missing", func(t *testing.T) {
		th := ResolveThresholds(ctx, &fakeSettings{}, cfg)
		assert.Equal(t, 7.5, th.FullDayHours)
		assert.Equal(t, 7.0, th.HalfDayHours)
	})

	t.Run("settings override defaults", func(t *testing.T) {
		settings := &fakeSettings{values: map[string]string{
			calendar.SettingFullDayHours: "8",
			calendar.SettingHalfDayHours: "4",
		}}
		th := ResolveThresholds(ctx, settings, cfg)
		assert.Equal(t, 8.0, th.FullDayHours)
		assert.Equal(t, 4.0, th.HalfDayHours)
	})

	t.Run("invalid setting falls back to default", func(t *testing.T) {
		settings := &fakeSettings{values: map[string]string{
			calendar.SettingFullDayHours: "not-a-number",
		}}
		th := ResolveThresholds(ctx, settings, cfg)
		assert.Equal(t, 7.5, th.FullDayHours)
	})
}
