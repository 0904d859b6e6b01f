package leave

import (
	"context"
	"time"
)

// RequestService validates and transitions leave requests.
type RequestService interface {
	// ValidateRequest runs the policy checks without creating anything.
	ValidateRequest(ctx context.Context, employeeID, leaveType string, start, end time.Time) (ValidationResult, error)

	Submit(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	Approve(ctx context.Context, req ReviewLeaveRequestRequest) (LeaveRequestResponse, error)
	Reject(ctx context.Context, req RejectLeaveRequestRequest) (LeaveRequestResponse, error)
	ListMine(ctx context.Context, employeeID string, year int) ([]LeaveRequestResponse, error)
	ListPending(ctx context.Context) ([]LeaveRequestResponse, error)
}

// BalanceService computes and adjusts leave balances. Balances are always
// recomputed from rows, never cached across a request lifecycle.
type BalanceService interface {
	ComputeBalance(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error)
	Adjust(ctx context.Context, req AdjustBalanceRequest) (BalanceResponse, error)
}

// AccrualService runs the scheduled balance mutations.
type AccrualService interface {
	// MonthlyAccrual accrues every active employee x active policy with a
	// positive monthly rate for the month containing now. Idempotent.
	MonthlyAccrual(ctx context.Context, now time.Time) (AccrualReport, error)

	// CarryForward rolls min(remaining, policy max) from fromYear into the
	// next year's balance rows. Idempotent.
	CarryForward(ctx context.Context, fromYear int) (CarryForwardReport, error)
}
