package attendance

import (
	"context"
	"time"
)

// AttendanceService defines the punch/break state machine. The auto punch
// entry points are the same transitions the interactive calls use; the cron
// sweeps invoke them directly so there is one code path per transition.
type AttendanceService interface {
	PunchIn(ctx context.Context, req PunchInRequest) (AttendanceResponse, error)
	PunchOut(ctx context.Context, req PunchOutRequest) (AttendanceResponse, error)
	StartBreak(ctx context.Context, req StartBreakRequest) (BreakResponse, error)
	EndBreak(ctx context.Context, req EndBreakRequest) (BreakResponse, error)

	// AutoPunchIn punches an employee in at the standard start time.
	// No-op when the employee already punched in, the date is a weekend or
	// holiday, or an approved leave covers the date.
	AutoPunchIn(ctx context.Context, employeeID string, date time.Time) (bool, error)

	// AutoPunchOut closes an open session at the standard end time, running
	// the same hours/status computation as an interactive punch-out.
	AutoPunchOut(ctx context.Context, employeeID string, date time.Time) (bool, error)

	// Override directly mutates a record (admin), audited.
	Override(ctx context.Context, req OverrideRequest) (AttendanceResponse, error)

	// Reset nulls punch fields and returns status to pending (admin), audited.
	Reset(ctx context.Context, req ResetRequest) (AttendanceResponse, error)

	GetMyAttendance(ctx context.Context, employeeID string, filter MyAttendanceFilter) (ListAttendanceResponse, error)
	GetDay(ctx context.Context, employeeID string, date time.Time) (AttendanceResponse, error)
}
