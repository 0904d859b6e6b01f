package attendance

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/config"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/calendar"
	"github.com/shopspring/decimal"
)

// Thresholds is the classification config, resolved once per operation so
// tests inject deterministic values instead of reading ambient state.
type Thresholds struct {
	FullDayHours float64
	HalfDayHours float64
}

// ResolveThresholds reads the threshold settings, falling back to the config
// defaults when rows are missing. A broken settings table degrades to the
// documented defaults instead of failing the punch.
func ResolveThresholds(ctx context.Context, settings calendar.SettingRepository, cfg config.AttendanceConfig) Thresholds {
	th := Thresholds{FullDayHours: cfg.FullDayHours, HalfDayHours: cfg.HalfDayHours}

	if value, ok, err := settings.Get(ctx, calendar.SettingFullDayHours); err == nil && ok {
		if parsed, perr := strconv.ParseFloat(value, 64); perr == nil {
			th.FullDayHours = parsed
		} else {
			slog.Warn("Invalid full_day_hours setting, using default", "value", value)
		}
	}
	if value, ok, err := settings.Get(ctx, calendar.SettingHalfDayHours); err == nil && ok {
		if parsed, perr := strconv.ParseFloat(value, 64); perr == nil {
			th.HalfDayHours = parsed
		} else {
			slog.Warn("Invalid half_day_hours setting, using default", "value", value)
		}
	}

	return th
}

// TotalHours returns the elapsed hours between punch-in and punch-out,
// rounded half-up to 2 decimal places.
func TotalHours(punchIn, punchOut time.Time) float64 {
	hours := decimal.NewFromFloat(punchOut.Sub(punchIn).Seconds()).Div(decimal.NewFromInt(3600))
	f, _ := hours.Round(2).Float64()
	return f
}

// ProductionHours is total hours minus break time, floored at zero and
// rounded to 2 decimal places.
func ProductionHours(totalHours float64, breakMinutes int) float64 {
	prod := decimal.NewFromFloat(totalHours).Sub(decimal.NewFromInt(int64(breakMinutes)).Div(decimal.NewFromInt(60)))
	if prod.IsNegative() {
		return 0
	}
	f, _ := prod.Round(2).Float64()
	return f
}

// BreakMinutes rounds a break interval to whole minutes.
func BreakMinutes(start, end time.Time) int {
	mins := decimal.NewFromFloat(end.Sub(start).Minutes())
	return int(mins.Round(0).IntPart())
}

// Classify derives the attendance status for a day. Deterministic and
// side-effect-free so punch-out, corrections, overrides and the auto
// punch-out job all share it without divergence.
//
// Status is classified from raw total hours, not production hours: a day
// that meets the full-day threshold on elapsed time counts as present even
// when breaks pull production hours below it. Production hours are stored
// separately for payroll. Switching this to production hours is a behavior
// change and must not be done silently.
func Classify(totalHours float64, kind calendar.DayKind, th Thresholds) string {
	switch kind {
	case calendar.Weekend:
		return attendance.StatusWeekOff
	case calendar.Holiday:
		return attendance.StatusHoliday
	}

	switch {
	case totalHours >= th.FullDayHours:
		return attendance.StatusPresent
	case totalHours >= th.HalfDayHours:
		return attendance.StatusHalfDay
	case totalHours > 0:
		return attendance.StatusAbsent
	default:
		return attendance.StatusPending
	}
}
