package leave

import (
	"errors"
	"fmt"
)

var (
	ErrPolicyNotFound        = errors.New("leave policy not found or inactive")
	ErrLeaveRequestNotFound  = errors.New("leave request not found")
	ErrLeaveAlreadyProcessed = errors.New("leave request already processed")
	ErrBalanceNotFound       = errors.New("leave balance not found")

	// ErrPolicyViolation is the marker every PolicyViolation matches via
	// errors.Is, so the transport layer maps the whole family at once.
	ErrPolicyViolation = errors.New("leave policy violation")
)

// PolicyViolation carries the specific violated rule. The reason string is
// surfaced verbatim to the caller.
type PolicyViolation struct {
	Rule   string
	Reason string
}

func (e *PolicyViolation) Error() string { return e.Reason }

func (e *PolicyViolation) Is(target error) bool { return target == ErrPolicyViolation }

func violationf(rule, format string, args ...interface{}) *PolicyViolation {
	return &PolicyViolation{Rule: rule, Reason: fmt.Sprintf(format, args...)}
}

func ErrExceedsMaxConsecutive(maxDays, requested int) *PolicyViolation {
	return violationf("max_consecutive_days", "maximum consecutive leave days is %d, requested %d", maxDays, requested)
}

func ErrInsufficientNotice(noticeDays, given int) *PolicyViolation {
	return violationf("notice_period", "minimum notice period is %d days, request gives %d", noticeDays, given)
}

func ErrInsufficientBalance(needed int, remaining float64) *PolicyViolation {
	return violationf("balance", "insufficient leave balance: need %d days, have %.1f remaining", needed, remaining)
}

func ErrOverlappingLeave(start, end string) *PolicyViolation {
	return violationf("overlap", "request overlaps an approved leave from %s to %s", start, end)
}

func ErrInvalidRange() *PolicyViolation {
	return violationf("date_range", "end date must not be before start date")
}
