package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records.
// Punch/break transitions run inside a transaction; GetForUpdate takes a
// row-level lock so concurrent punches for the same employee serialize at
// the datastore rather than in process.
type AttendanceRepository interface {
	Create(ctx context.Context, att Attendance) (Attendance, error)

	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// GetForUpdate locks the (employee, date) row with SELECT ... FOR UPDATE.
	// Returns nil when no row exists yet.
	GetForUpdate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// GetOpenSession returns the record with punch_in set and punch_out null.
	GetOpenSession(ctx context.Context, employeeID string) (Attendance, error)

	Update(ctx context.Context, att Attendance) error

	// StartSession opens a fresh session on an existing row: sets punch_in,
	// nulls punch_out and the derived fields, and resets status to pending.
	StartSession(ctx context.Context, id string, punchIn time.Time, location *string) error

	// Reset nulls punch and derived fields and sets status back to pending.
	Reset(ctx context.Context, id string) error

	GetMyAttendance(ctx context.Context, employeeID string, filter MyAttendanceFilter) ([]Attendance, int64, error)
}

type BreakRepository interface {
	Create(ctx context.Context, b Break) (Break, error)

	// GetActiveByEmployee returns the single active break, if any.
	GetActiveByEmployee(ctx context.Context, employeeID string) (*Break, error)

	// Close completes a break with the given end time and duration.
	Close(ctx context.Context, id string, endTime time.Time, durationMinutes int) error

	ListByAttendance(ctx context.Context, attendanceID string) ([]Break, error)

	// SumMinutesForAttendance totals completed break durations for a day.
	SumMinutesForAttendance(ctx context.Context, attendanceID string) (int, error)
}

// AuditRepository appends to the attendance_audit log. Entries are never
// updated or deleted.
type AuditRepository interface {
	Create(ctx context.Context, entry AuditEntry) error
	ListByAttendance(ctx context.Context, attendanceID string) ([]AuditEntry, error)
}
