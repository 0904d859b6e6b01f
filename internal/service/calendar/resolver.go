package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/config"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/calendar"
)

// Clock resolves "now" in the organization's configured time zone. Every
// punch timestamp goes through here so client locales can never skew the
// working day.
type Clock struct {
	loc *time.Location
}

func NewClock(cfg config.AttendanceConfig) *Clock {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		slog.Warn("Invalid attendance timezone, falling back to UTC", "timezone", cfg.Timezone)
		loc = time.UTC
	}
	return &Clock{loc: loc}
}

func (c *Clock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

// Today returns the current date truncated to midnight in the org zone.
func (c *Clock) Today() time.Time {
	return DateOf(c.Now())
}

// At builds a timestamp on the given date from an "HH:MM" wall-clock string
// in the org zone.
func (c *Clock) At(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, c.loc), nil
}

// DateOf truncates a timestamp to its calendar date, preserving the zone.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekendSet is the configured set of weekend weekdays, resolved once per
// operation and passed by value so tests can inject deterministic sets.
type WeekendSet map[time.Weekday]bool

var dayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekendDays parses a comma separated day-name list. Unknown names are
// skipped with a warning; an empty result falls back to Saturday/Sunday.
func ParseWeekendDays(value string) WeekendSet {
	set := WeekendSet{}
	for _, name := range strings.Split(value, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		day, ok := dayNames[name]
		if !ok {
			slog.Warn("Unknown weekend day name skipped", "name", name)
			continue
		}
		set[day] = true
	}
	if len(set) == 0 {
		set[time.Saturday] = true
		set[time.Sunday] = true
	}
	return set
}

// Resolver classifies dates as workday, weekend or holiday.
type Resolver struct {
	settings calendar.SettingRepository
	holidays calendar.HolidayRepository
	cfg      config.AttendanceConfig
}

func NewResolver(settings calendar.SettingRepository, holidays calendar.HolidayRepository, cfg config.AttendanceConfig) *Resolver {
	return &Resolver{settings: settings, holidays: holidays, cfg: cfg}
}

// WeekendDays loads the weekend set from the settings table, falling back to
// the config default when the row is missing or unreadable.
func (r *Resolver) WeekendDays(ctx context.Context) WeekendSet {
	value, ok, err := r.settings.Get(ctx, calendar.SettingWeekendDays)
	if err != nil {
		slog.Warn("Failed to read weekend_days setting, using default", "error", err)
		return ParseWeekendDays(r.cfg.WeekendDays)
	}
	if !ok {
		return ParseWeekendDays(r.cfg.WeekendDays)
	}
	return ParseWeekendDays(value)
}

// DayKind classifies a date. Weekend wins over holiday, matching the status
// priority order of the classifier.
func (r *Resolver) DayKind(ctx context.Context, date time.Time) (calendar.DayKind, error) {
	if r.WeekendDays(ctx)[date.Weekday()] {
		return calendar.Weekend, nil
	}

	isHoliday, err := r.holidays.ExistsOnDate(ctx, DateOf(date))
	if err != nil {
		return calendar.Workday, fmt.Errorf("failed to look up holiday: %w", err)
	}
	if isHoliday {
		return calendar.Holiday, nil
	}

	return calendar.Workday, nil
}
