package leave

import (
	"time"
)

// LeavePolicy is the per-type configuration. Read-mostly; admin writes use
// last-writer-wins semantics.
type LeavePolicy struct {
	ID                 string
	LeaveType          string
	AnnualAllocation   float64
	MonthlyAccrual     float64
	MaxCarryForward    float64
	MaxConsecutiveDays int
	NoticePeriodDays   int
	RequiresDocument   bool
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// LeaveBalance is one row per (employee, policy, year).
// remaining = allocated + carried_forward - used, computed on read.
type LeaveBalance struct {
	ID             string
	EmployeeID     string
	PolicyID       string
	Year           int
	Allocated      float64
	Used           float64
	CarriedForward float64
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// DTO
	LeaveType *string
}

func (b LeaveBalance) Remaining() float64 {
	return b.Allocated + b.CarriedForward - b.Used
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

type LeaveRequest struct {
	ID         string
	EmployeeID string
	PolicyID   string
	StartDate  time.Time
	EndDate    time.Time
	LeaveDays  int
	Reason     string
	Status     LeaveRequestStatus
	ReviewedBy *string
	ReviewedAt *time.Time
	ReviewNote *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO
	LeaveType    *string
	EmployeeName *string
}

// LeaveAccrual is the idempotence guard for the monthly sweep: one row per
// (employee, policy, year, month) accrued.
type LeaveAccrual struct {
	ID         string
	EmployeeID string
	PolicyID   string
	Year       int
	Month      int
	Days       float64
	CreatedAt  time.Time
}
