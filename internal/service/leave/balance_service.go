package leave

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/database"
	"github.com/clockwise-hr/attendance-backend-go/internal/service/calendar"
)

type BalanceServiceImpl struct {
	tx          database.TxRunner
	balanceRepo leave.LeaveBalanceRepository
	policyRepo  leave.LeavePolicyRepository
	clock       *calendar.Clock
}

func NewBalanceService(
	tx database.TxRunner,
	balanceRepo leave.LeaveBalanceRepository,
	policyRepo leave.LeavePolicyRepository,
	clock *calendar.Clock,
) leave.BalanceService {
	return &BalanceServiceImpl{
		tx:          tx,
		balanceRepo: balanceRepo,
		policyRepo:  policyRepo,
		clock:       clock,
	}
}

// ComputeBalance implements leave.BalanceService. Remaining is derived on
// read; the stored columns are allocated, used and carried_forward only.
func (s *BalanceServiceImpl) ComputeBalance(ctx context.Context, employeeID string, year int) ([]leave.BalanceResponse, error) {
	if year == 0 {
		year = s.clock.Now().Year()
	}

	balances, err := s.balanceRepo.ListByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}

	responses := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		resp := leave.BalanceResponse{
			Year:           b.Year,
			Allocated:      b.Allocated,
			Used:           b.Used,
			CarriedForward: b.CarriedForward,
			Remaining:      b.Remaining(),
		}
		if b.LeaveType != nil {
			resp.LeaveType = *b.LeaveType
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

// Adjust implements leave.BalanceService. An admin delta on allocated or
// carried-forward days, applied under the row lock.
func (s *BalanceServiceImpl) Adjust(ctx context.Context, req leave.AdjustBalanceRequest) (leave.BalanceResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.BalanceResponse{}, err
	}

	policy, err := s.policyRepo.GetActiveByType(ctx, req.LeaveType)
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	var result leave.LeaveBalance
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.balanceRepo.GetOrCreate(ctx, req.EmployeeID, policy.ID, req.Year); err != nil {
			return err
		}
		balance, err := s.balanceRepo.GetForUpdate(ctx, req.EmployeeID, policy.ID, req.Year)
		if err != nil {
			return err
		}

		if req.AllocatedDelta != nil {
			if err := s.balanceRepo.IncrementAllocated(ctx, balance.ID, *req.AllocatedDelta); err != nil {
				return err
			}
			balance.Allocated += *req.AllocatedDelta
		}
		if req.CarriedDelta != nil {
			if err := s.balanceRepo.IncrementCarriedForward(ctx, balance.ID, *req.CarriedDelta); err != nil {
				return err
			}
			balance.CarriedForward += *req.CarriedDelta
		}

		result = balance
		return nil
	})
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	slog.Info("Leave balance adjusted",
		"employee_id", req.EmployeeID, "leave_type", req.LeaveType, "year", req.Year,
		"allocated_delta", req.AllocatedDelta, "carried_delta", req.CarriedDelta,
		"reason", req.Reason, "actor_id", req.ActorID)

	return leave.BalanceResponse{
		LeaveType:      policy.LeaveType,
		Year:           result.Year,
		Allocated:      result.Allocated,
		Used:           result.Used,
		CarriedForward: result.CarriedForward,
		Remaining:      result.Remaining(),
	}, nil
}
