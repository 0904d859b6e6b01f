package calendar

import (
	"time"
)

// DayKind classifies a calendar date for status derivation.
type DayKind string

const (
	Workday DayKind = "workday"
	Weekend DayKind = "weekend"
	Holiday DayKind = "holiday"
)

type HolidayEntry struct {
	ID        string
	Date      time.Time
	Name      string
	CreatedAt time.Time
}

// Setting keys read by the resolver and classifier.
const (
	SettingWeekendDays  = "weekend_days"
	SettingFullDayHours = "full_day_hours"
	SettingHalfDayHours = "half_day_hours"
)
