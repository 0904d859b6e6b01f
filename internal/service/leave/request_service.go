package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/notification"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/database"
	"github.com/clockwise-hr/attendance-backend-go/internal/service/calendar"
)

type RequestServiceImpl struct {
	tx database.TxRunner
	leave.LeaveRequestRepository
	policyRepo   leave.LeavePolicyRepository
	balanceRepo  leave.LeaveBalanceRepository
	employeeRepo employee.EmployeeRepository
	clock        *calendar.Clock
	notifier     notification.Service
}

func NewRequestService(
	tx database.TxRunner,
	requestRepo leave.LeaveRequestRepository,
	policyRepo leave.LeavePolicyRepository,
	balanceRepo leave.LeaveBalanceRepository,
	employeeRepo employee.EmployeeRepository,
	clock *calendar.Clock,
	notifier notification.Service,
) leave.RequestService {
	return &RequestServiceImpl{
		tx:                     tx,
		LeaveRequestRepository: requestRepo,
		policyRepo:             policyRepo,
		balanceRepo:            balanceRepo,
		employeeRepo:           employeeRepo,
		clock:                  clock,
		notifier:               notifier,
	}
}

// LeaveDays is the inclusive calendar day count of a leave range. Weekends
// and holidays inside the range are counted; policies are priced on
// calendar days.
func LeaveDays(start, end time.Time) int {
	return daysBetween(start, end) + 1
}

// daysBetween counts whole calendar days from a to b using the date
// components only. Re-anchoring both dates at UTC midnight keeps a DST
// transition inside the range from skewing the count.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}

// ValidateRequest implements leave.RequestService. Checks run in a fixed
// order so the caller always sees the same violation first; the reason is
// returned verbatim.
func (s *RequestServiceImpl) ValidateRequest(ctx context.Context, employeeID, leaveType string, start, end time.Time) (leave.ValidationResult, error) {
	result, _, err := s.validate(ctx, employeeID, leaveType, start, end)
	return result, err
}

func (s *RequestServiceImpl) validate(ctx context.Context, employeeID, leaveType string, start, end time.Time) (leave.ValidationResult, leave.LeavePolicy, error) {
	invalid := func(v *leave.PolicyViolation) (leave.ValidationResult, leave.LeavePolicy, error) {
		return leave.ValidationResult{Valid: false, Reason: v.Reason}, leave.LeavePolicy{}, nil
	}

	if end.Before(start) {
		return invalid(leave.ErrInvalidRange())
	}

	policy, err := s.policyRepo.GetActiveByType(ctx, leaveType)
	if err != nil {
		if errors.Is(err, leave.ErrPolicyNotFound) {
			return leave.ValidationResult{Valid: false, Reason: err.Error()}, leave.LeavePolicy{}, nil
		}
		return leave.ValidationResult{}, leave.LeavePolicy{}, err
	}

	days := LeaveDays(start, end)

	if policy.MaxConsecutiveDays > 0 && days > policy.MaxConsecutiveDays {
		return invalid(leave.ErrExceedsMaxConsecutive(policy.MaxConsecutiveDays, days))
	}

	if policy.NoticePeriodDays > 0 {
		given := daysBetween(s.clock.Today(), start)
		if given < policy.NoticePeriodDays {
			return invalid(leave.ErrInsufficientNotice(policy.NoticePeriodDays, given))
		}
	}

	// Missing balance row reads as zero remaining; the dry-run validation
	// path must not create rows.
	balance, err := s.balanceRepo.Get(ctx, employeeID, policy.ID, start.Year())
	if err != nil && !errors.Is(err, leave.ErrBalanceNotFound) {
		return leave.ValidationResult{}, leave.LeavePolicy{}, err
	}
	if float64(days) > balance.Remaining() {
		return invalid(leave.ErrInsufficientBalance(days, balance.Remaining()))
	}

	overlap, err := s.LeaveRequestRepository.ApprovedOverlap(ctx, employeeID, start, end)
	if err != nil {
		return leave.ValidationResult{}, leave.LeavePolicy{}, err
	}
	if overlap != nil {
		return invalid(leave.ErrOverlappingLeave(
			overlap.StartDate.Format("2006-01-02"), overlap.EndDate.Format("2006-01-02")))
	}

	return leave.ValidationResult{Valid: true, LeaveDays: days}, policy, nil
}

// Submit implements leave.RequestService. Validation runs at submit time; a
// request that passes here can still fail at approval when the balance has
// moved in between.
func (s *RequestServiceImpl) Submit(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	start = calendar.DateOf(start.In(s.clock.Location()))
	end = calendar.DateOf(end.In(s.clock.Location()))

	var created leave.LeaveRequest
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		result, policy, err := s.validate(ctx, req.EmployeeID, req.LeaveType, start, end)
		if err != nil {
			return err
		}
		if !result.Valid {
			return &leave.PolicyViolation{Rule: "validation", Reason: result.Reason}
		}

		created, err = s.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
			EmployeeID: req.EmployeeID,
			PolicyID:   policy.ID,
			StartDate:  start,
			EndDate:    end,
			LeaveDays:  result.LeaveDays,
			Reason:     req.Reason,
			Status:     leave.LeaveRequestStatusPending,
		})
		if err != nil {
			return err
		}
		created.LeaveType = &policy.LeaveType
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return mapRequestToResponse(created), nil
}

// Approve implements leave.RequestService. The balance row is locked and
// sufficiency re-checked under the lock, so two concurrent approvals cannot
// overdraw.
func (s *RequestServiceImpl) Approve(ctx context.Context, req leave.ReviewLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	var result leave.LeaveRequest
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		lr, err := s.LeaveRequestRepository.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if lr.Status != leave.LeaveRequestStatusPending {
			return leave.ErrLeaveAlreadyProcessed
		}

		// Ensure the row exists, then take the lock.
		if _, err := s.balanceRepo.GetOrCreate(ctx, lr.EmployeeID, lr.PolicyID, lr.StartDate.Year()); err != nil {
			return err
		}
		locked, err := s.balanceRepo.GetForUpdate(ctx, lr.EmployeeID, lr.PolicyID, lr.StartDate.Year())
		if err != nil {
			return err
		}
		if float64(lr.LeaveDays) > locked.Remaining() {
			return leave.ErrInsufficientBalance(lr.LeaveDays, locked.Remaining())
		}

		if err := s.LeaveRequestRepository.UpdateStatus(ctx, lr.ID, leave.LeaveRequestStatusApproved, req.ReviewerID, req.Note); err != nil {
			return err
		}
		if err := s.balanceRepo.IncrementUsed(ctx, locked.ID, float64(lr.LeaveDays)); err != nil {
			return err
		}

		lr.Status = leave.LeaveRequestStatusApproved
		lr.ReviewedBy = &req.ReviewerID
		lr.ReviewNote = req.Note
		result = lr
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	s.notifyReviewed(ctx, result, "approved")

	return mapRequestToResponse(result), nil
}

// Reject implements leave.RequestService. Rejection never touches the
// balance.
func (s *RequestServiceImpl) Reject(ctx context.Context, req leave.RejectLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var result leave.LeaveRequest
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		lr, err := s.LeaveRequestRepository.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if lr.Status != leave.LeaveRequestStatusPending {
			return leave.ErrLeaveAlreadyProcessed
		}

		if err := s.LeaveRequestRepository.UpdateStatus(ctx, lr.ID, leave.LeaveRequestStatusRejected, req.ReviewerID, &req.Reason); err != nil {
			return err
		}

		lr.Status = leave.LeaveRequestStatusRejected
		lr.ReviewedBy = &req.ReviewerID
		lr.ReviewNote = &req.Reason
		result = lr
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	s.notifyReviewed(ctx, result, "rejected")

	return mapRequestToResponse(result), nil
}

func (s *RequestServiceImpl) notifyReviewed(ctx context.Context, lr leave.LeaveRequest, outcome string) {
	recipient := lr.EmployeeID
	if emp, err := s.employeeRepo.GetByID(ctx, lr.EmployeeID); err == nil && emp.UserID != nil {
		recipient = *emp.UserID
	}
	s.notifier.Queue(ctx, notification.QueueRequest{
		RecipientID: recipient,
		Kind:        notification.KindLeaveReviewed,
		Message: fmt.Sprintf("Your leave request from %s to %s was %s",
			lr.StartDate.Format("2006-01-02"), lr.EndDate.Format("2006-01-02"), outcome),
	})
}

// ListMine implements leave.RequestService.
func (s *RequestServiceImpl) ListMine(ctx context.Context, employeeID string, year int) ([]leave.LeaveRequestResponse, error) {
	if year == 0 {
		year = s.clock.Now().Year()
	}
	requests, err := s.LeaveRequestRepository.ListByEmployee(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return mapRequestsToResponses(requests), nil
}

// ListPending implements leave.RequestService.
func (s *RequestServiceImpl) ListPending(ctx context.Context) ([]leave.LeaveRequestResponse, error) {
	requests, err := s.LeaveRequestRepository.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending leave requests: %w", err)
	}
	return mapRequestsToResponses(requests), nil
}

func mapRequestsToResponses(requests []leave.LeaveRequest) []leave.LeaveRequestResponse {
	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, lr := range requests {
		responses = append(responses, mapRequestToResponse(lr))
	}
	return responses
}

func mapRequestToResponse(lr leave.LeaveRequest) leave.LeaveRequestResponse {
	resp := leave.LeaveRequestResponse{
		ID:         lr.ID,
		EmployeeID: lr.EmployeeID,
		StartDate:  lr.StartDate.Format("2006-01-02"),
		EndDate:    lr.EndDate.Format("2006-01-02"),
		LeaveDays:  lr.LeaveDays,
		Reason:     lr.Reason,
		Status:     string(lr.Status),
		ReviewNote: lr.ReviewNote,
	}
	if lr.LeaveType != nil {
		resp.LeaveType = *lr.LeaveType
	}
	return resp
}
