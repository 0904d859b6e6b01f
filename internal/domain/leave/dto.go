package leave

import (
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/validator"
)

type CreateLeaveRequestRequest struct {
	EmployeeID string `json:"-"`
	LeaveType  string `json:"leave_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
}

func (r CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.LeaveType) {
		errs = append(errs, validator.ValidationError{Field: "leave_type", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidationResult is returned by ValidateRequest: either valid with the
// computed inclusive day count, or invalid with the violated rule.
type ValidationResult struct {
	Valid     bool   `json:"valid"`
	LeaveDays int    `json:"leave_days"`
	Reason    string `json:"reason,omitempty"`
}

type ReviewLeaveRequestRequest struct {
	ID         string  `json:"-"`
	ReviewerID string  `json:"-"`
	Note       *string `json:"note,omitempty"`
}

type RejectLeaveRequestRequest struct {
	ID         string `json:"-"`
	ReviewerID string `json:"-"`
	Reason     string `json:"reason"`
}

func (r RejectLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AdjustBalanceRequest struct {
	EmployeeID     string   `json:"employee_id"`
	LeaveType      string   `json:"leave_type"`
	Year           int      `json:"year"`
	AllocatedDelta *float64 `json:"allocated_delta,omitempty"`
	CarriedDelta   *float64 `json:"carried_delta,omitempty"`
	Reason         string   `json:"reason"`
	ActorID        string   `json:"-"`
}

func (r AdjustBalanceRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if validator.IsEmpty(r.LeaveType) {
		errs = append(errs, validator.ValidationError{Field: "leave_type", Message: "is required"})
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "is out of range"})
	}
	if r.AllocatedDelta == nil && r.CarriedDelta == nil {
		errs = append(errs, validator.ValidationError{Field: "allocated_delta", Message: "at least one delta is required"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpsertPolicyRequest struct {
	LeaveType          string  `json:"leave_type"`
	AnnualAllocation   float64 `json:"annual_allocation"`
	MonthlyAccrual     float64 `json:"monthly_accrual"`
	MaxCarryForward    float64 `json:"max_carry_forward"`
	MaxConsecutiveDays int     `json:"max_consecutive_days"`
	NoticePeriodDays   int     `json:"notice_period_days"`
	RequiresDocument   bool    `json:"requires_document"`
	IsActive           bool    `json:"is_active"`
}

func (r UpsertPolicyRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.LeaveType) {
		errs = append(errs, validator.ValidationError{Field: "leave_type", Message: "is required"})
	}
	if r.AnnualAllocation < 0 || r.MonthlyAccrual < 0 || r.MaxCarryForward < 0 {
		errs = append(errs, validator.ValidationError{Field: "allocation", Message: "allocation values must not be negative"})
	}
	if r.MaxConsecutiveDays <= 0 {
		errs = append(errs, validator.ValidationError{Field: "max_consecutive_days", Message: "must be positive"})
	}
	if r.NoticePeriodDays < 0 {
		errs = append(errs, validator.ValidationError{Field: "notice_period_days", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BalanceResponse struct {
	LeaveType      string  `json:"leave_type"`
	Year           int     `json:"year"`
	Allocated      float64 `json:"allocated"`
	Used           float64 `json:"used"`
	CarriedForward float64 `json:"carried_forward"`
	Remaining      float64 `json:"remaining"`
}

type LeaveRequestResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	LeaveType  string  `json:"leave_type"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	LeaveDays  int     `json:"leave_days"`
	Reason     string  `json:"reason"`
	Status     string  `json:"status"`
	ReviewNote *string `json:"review_note,omitempty"`
}

// AccrualReport summarizes one monthly accrual run. Partial failure is
// expected and reported, never fatal to the run.
type AccrualReport struct {
	Year      int `json:"year"`
	Month     int `json:"month"`
	Processed int `json:"processed"`
	Accrued   int `json:"accrued"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// CarryForwardReport summarizes a year-end rollover run.
type CarryForwardReport struct {
	FromYear  int `json:"from_year"`
	Processed int `json:"processed"`
	Rolled    int `json:"rolled"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}
