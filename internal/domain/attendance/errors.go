package attendance

import "errors"

// Attendance domain errors
var (
	// Punch/break state conflicts
	ErrAlreadyActiveSession = errors.New("you already have an active work session")
	ErrNoActiveSession      = errors.New("you have no active work session")
	ErrNotPunchedIn         = errors.New("you have not punched in yet")
	ErrBreakAlreadyActive   = errors.New("a break is already in progress")
	ErrNoActiveBreak        = errors.New("no break is in progress")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrUnauthorized       = errors.New("unauthorized to access this attendance record")
)
