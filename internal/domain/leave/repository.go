package leave

import (
	"context"
	"time"
)

// LeavePolicyRepository - leave_policies table
type LeavePolicyRepository interface {
	Upsert(ctx context.Context, policy LeavePolicy) (LeavePolicy, error)
	GetActiveByType(ctx context.Context, leaveType string) (LeavePolicy, error)
	ListActive(ctx context.Context) ([]LeavePolicy, error)
	List(ctx context.Context) ([]LeavePolicy, error)
}

// LeaveBalanceRepository - leave_balances table
type LeaveBalanceRepository interface {
	// Get returns the (employee, policy, year) row without creating or
	// locking it. ErrBalanceNotFound when missing.
	Get(ctx context.Context, employeeID, policyID string, year int) (LeaveBalance, error)

	// GetOrCreate returns the (employee, policy, year) row, inserting a zero
	// row when none exists.
	GetOrCreate(ctx context.Context, employeeID, policyID string, year int) (LeaveBalance, error)

	// GetForUpdate locks the balance row; callers re-check sufficiency under
	// the lock before incrementing used.
	GetForUpdate(ctx context.Context, employeeID, policyID string, year int) (LeaveBalance, error)

	ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)

	IncrementAllocated(ctx context.Context, id string, days float64) error
	IncrementUsed(ctx context.Context, id string, days float64) error
	IncrementCarriedForward(ctx context.Context, id string, days float64) error
}

// LeaveRequestRepository - leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// ApprovedOverlap returns the first approved request overlapping
	// [start, end] for the employee, or nil.
	ApprovedOverlap(ctx context.Context, employeeID string, start, end time.Time) (*LeaveRequest, error)

	// HasApprovedCovering reports whether an approved leave covers the date.
	HasApprovedCovering(ctx context.Context, employeeID string, date time.Time) (bool, error)

	UpdateStatus(ctx context.Context, id string, status LeaveRequestStatus, reviewerID string, note *string) error
	ListByEmployee(ctx context.Context, employeeID string, year int) ([]LeaveRequest, error)
	ListPending(ctx context.Context) ([]LeaveRequest, error)
}

// LeaveAccrualRepository - leave_accruals table
type LeaveAccrualRepository interface {
	// Exists reports whether the (employee, policy, year, month) combination
	// has already been accrued.
	Exists(ctx context.Context, employeeID, policyID string, year, month int) (bool, error)
	Create(ctx context.Context, accrual LeaveAccrual) (LeaveAccrual, error)
}
