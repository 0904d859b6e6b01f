package attendance

import (
	"time"
)

// Status values derived for a day's record.
const (
	StatusPresent = "present"
	StatusHalfDay = "half-day"
	StatusAbsent  = "absent"
	StatusPending = "pending"
	StatusWeekOff = "week-off"
	StatusHoliday = "holiday"
)

// SessionState tags whether the day's work session is still open.
// Computed once when the row is loaded so callers never re-derive
// null-checks on PunchOut.
type SessionState string

const (
	SessionOpen   SessionState = "open"
	SessionClosed SessionState = "closed"
)

type Attendance struct {
	ID               string
	EmployeeID       string
	Date             time.Time
	PunchIn          *time.Time
	PunchOut         *time.Time
	TotalHours       *float64
	BreakMinutes     *int
	ProductionHours  *float64
	Status           string
	PunchInLocation  *string
	PunchOutLocation *string
	AdminOverride    bool
	OverrideReason   *string
	OverrideBy       *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// DTO
	EmployeeName *string
}

// Session reports the tagged state of the record.
func (a Attendance) Session() SessionState {
	if a.PunchIn != nil && a.PunchOut == nil {
		return SessionOpen
	}
	return SessionClosed
}

const (
	BreakStatusActive    = "active"
	BreakStatusCompleted = "completed"
)

type Break struct {
	ID              string
	AttendanceID    string
	EmployeeID      string
	StartTime       time.Time
	EndTime         *time.Time
	DurationMinutes *int
	Status          string
	Reason          *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AuditEntry is an append-only record of an admin override, reset or
// correction applied to an attendance row.
type AuditEntry struct {
	ID           string
	AttendanceID string
	EmployeeID   string
	Action       string
	ActorID      string
	Reason       *string
	Previous     map[string]interface{}
	Current      map[string]interface{}
	CreatedAt    time.Time
}

// Snapshot captures the mutable fields of a record for audit entries.
func (a Attendance) Snapshot() map[string]interface{} {
	snap := map[string]interface{}{
		"status": a.Status,
	}
	if a.PunchIn != nil {
		snap["punch_in"] = a.PunchIn.Format(time.RFC3339)
	}
	if a.PunchOut != nil {
		snap["punch_out"] = a.PunchOut.Format(time.RFC3339)
	}
	if a.TotalHours != nil {
		snap["total_hours"] = *a.TotalHours
	}
	if a.BreakMinutes != nil {
		snap["break_minutes"] = *a.BreakMinutes
	}
	if a.ProductionHours != nil {
		snap["production_hours"] = *a.ProductionHours
	}
	return snap
}
