package attendance

import (
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/validator"
)

type PunchInRequest struct {
	EmployeeID string  `json:"-"`
	Location   *string `json:"location,omitempty"`
}

type PunchOutRequest struct {
	EmployeeID string  `json:"-"`
	Location   *string `json:"location,omitempty"`
}

type StartBreakRequest struct {
	EmployeeID string  `json:"-"`
	Reason     *string `json:"reason,omitempty"`
}

func (r StartBreakRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Reason != nil && len(*r.Reason) > 255 {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "must be at most 255 characters"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EndBreakRequest struct {
	EmployeeID string  `json:"-"`
	Note       *string `json:"note,omitempty"`
}

// OverrideRequest is an admin-initiated direct mutation of a record,
// bypassing the normal punch flow. Always audited.
type OverrideRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	PunchIn    *string `json:"punch_in,omitempty"`
	PunchOut   *string `json:"punch_out,omitempty"`
	Status     *string `json:"status,omitempty"`
	Reason     string  `json:"reason"`
	ActorID    string  `json:"-"`
}

func (r OverrideRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, []string{
		StatusPresent, StatusHalfDay, StatusAbsent, StatusPending, StatusWeekOff, StatusHoliday,
	}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "is not a valid attendance status"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ResetRequest nulls the punch fields of a record and sets the status
// back to pending. The row itself is never deleted.
type ResetRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Reason     string `json:"reason"`
	ActorID    string `json:"-"`
}

func (r ResetRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MyAttendanceFilter struct {
	StartDate *string
	EndDate   *string
	Status    *string
	Page      int
	Limit     int
}

type AttendanceResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    *string         `json:"employee_name,omitempty"`
	Date            string          `json:"date"`
	PunchIn         *string         `json:"punch_in"`
	PunchOut        *string         `json:"punch_out"`
	TotalHours      *float64        `json:"total_hours"`
	BreakMinutes    *int            `json:"break_minutes"`
	ProductionHours *float64        `json:"production_hours"`
	Status          string          `json:"status"`
	Session         SessionState    `json:"session"`
	AdminOverride   bool            `json:"admin_override"`
	Breaks          []BreakResponse `json:"breaks,omitempty"`
}

type BreakResponse struct {
	ID              string  `json:"id"`
	StartTime       string  `json:"start_time"`
	EndTime         *string `json:"end_time"`
	DurationMinutes *int    `json:"duration_minutes"`
	Status          string  `json:"status"`
	Reason          *string `json:"reason,omitempty"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}
