package calendar

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, h HolidayEntry) (HolidayEntry, error)
	ExistsOnDate(ctx context.Context, date time.Time) (bool, error)
	ListByYear(ctx context.Context, year int) ([]HolidayEntry, error)
	Delete(ctx context.Context, id string) error
}

// SettingRepository - settings key/value table. Missing keys are not an
// error; callers fall back to documented defaults.
type SettingRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}
