package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/database"
)

type AccrualServiceImpl struct {
	tx           database.TxRunner
	policyRepo   leave.LeavePolicyRepository
	balanceRepo  leave.LeaveBalanceRepository
	accrualRepo  leave.LeaveAccrualRepository
	employeeRepo employee.EmployeeRepository
}

func NewAccrualService(
	tx database.TxRunner,
	policyRepo leave.LeavePolicyRepository,
	balanceRepo leave.LeaveBalanceRepository,
	accrualRepo leave.LeaveAccrualRepository,
	employeeRepo employee.EmployeeRepository,
) leave.AccrualService {
	return &AccrualServiceImpl{
		tx:           tx,
		policyRepo:   policyRepo,
		balanceRepo:  balanceRepo,
		accrualRepo:  accrualRepo,
		employeeRepo: employeeRepo,
	}
}

// MonthlyAccrual implements leave.AccrualService. One transaction per
// (employee, policy) pair so a single failure skips that pair, not the run.
// The accrual ledger row makes re-runs for the same month no-ops.
func (s *AccrualServiceImpl) MonthlyAccrual(ctx context.Context, now time.Time) (leave.AccrualReport, error) {
	year, month := now.Year(), int(now.Month())
	report := leave.AccrualReport{Year: year, Month: month}

	policies, err := s.policyRepo.ListActive(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list active policies: %w", err)
	}

	employees, err := s.employeeRepo.GetActive(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list active employees: %w", err)
	}

	for _, policy := range policies {
		if policy.MonthlyAccrual <= 0 {
			continue
		}
		for _, emp := range employees {
			report.Processed++

			accrued, err := s.accrueOne(ctx, emp.ID, policy, year, month)
			if err != nil {
				report.Failed++
				slog.Error("Monthly accrual failed for employee",
					"employee_id", emp.ID, "leave_type", policy.LeaveType, "error", err)
				continue
			}
			if accrued {
				report.Accrued++
			} else {
				report.Skipped++
			}
		}
	}

	slog.Info("Monthly accrual run finished",
		"year", year, "month", month,
		"processed", report.Processed, "accrued", report.Accrued,
		"skipped", report.Skipped, "failed", report.Failed)

	return report, nil
}

func (s *AccrualServiceImpl) accrueOne(ctx context.Context, employeeID string, policy leave.LeavePolicy, year, month int) (bool, error) {
	accrued := false
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		exists, err := s.accrualRepo.Exists(ctx, employeeID, policy.ID, year, month)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		if _, err := s.balanceRepo.GetOrCreate(ctx, employeeID, policy.ID, year); err != nil {
			return err
		}
		balance, err := s.balanceRepo.GetForUpdate(ctx, employeeID, policy.ID, year)
		if err != nil {
			return err
		}

		if err := s.balanceRepo.IncrementAllocated(ctx, balance.ID, policy.MonthlyAccrual); err != nil {
			return err
		}
		if _, err := s.accrualRepo.Create(ctx, leave.LeaveAccrual{
			EmployeeID: employeeID,
			PolicyID:   policy.ID,
			Year:       year,
			Month:      month,
			Days:       policy.MonthlyAccrual,
		}); err != nil {
			return err
		}

		accrued = true
		return nil
	})
	return accrued, err
}

// CarryForward implements leave.AccrualService. Rolls
// min(remaining, policy max) from fromYear into the next year. Re-running
// is a no-op because the next year's carried_forward is only written when
// still zero.
func (s *AccrualServiceImpl) CarryForward(ctx context.Context, fromYear int) (leave.CarryForwardReport, error) {
	report := leave.CarryForwardReport{FromYear: fromYear}

	policies, err := s.policyRepo.ListActive(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list active policies: %w", err)
	}

	employees, err := s.employeeRepo.GetActive(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list active employees: %w", err)
	}

	for _, policy := range policies {
		if policy.MaxCarryForward <= 0 {
			continue
		}
		for _, emp := range employees {
			report.Processed++

			rolled, err := s.rollOne(ctx, emp.ID, policy, fromYear)
			if err != nil {
				report.Failed++
				slog.Error("Carry-forward failed for employee",
					"employee_id", emp.ID, "leave_type", policy.LeaveType, "error", err)
				continue
			}
			if rolled {
				report.Rolled++
			} else {
				report.Skipped++
			}
		}
	}

	slog.Info("Carry-forward run finished",
		"from_year", fromYear,
		"processed", report.Processed, "rolled", report.Rolled,
		"skipped", report.Skipped, "failed", report.Failed)

	return report, nil
}

func (s *AccrualServiceImpl) rollOne(ctx context.Context, employeeID string, policy leave.LeavePolicy, fromYear int) (bool, error) {
	rolled := false
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.balanceRepo.GetOrCreate(ctx, employeeID, policy.ID, fromYear); err != nil {
			return err
		}
		source, err := s.balanceRepo.GetForUpdate(ctx, employeeID, policy.ID, fromYear)
		if err != nil {
			return err
		}

		amount := source.Remaining()
		if amount <= 0 {
			return nil
		}
		if amount > policy.MaxCarryForward {
			amount = policy.MaxCarryForward
		}

		if _, err := s.balanceRepo.GetOrCreate(ctx, employeeID, policy.ID, fromYear+1); err != nil {
			return err
		}
		target, err := s.balanceRepo.GetForUpdate(ctx, employeeID, policy.ID, fromYear+1)
		if err != nil {
			return err
		}
		if target.CarriedForward > 0 {
			return nil
		}

		if err := s.balanceRepo.IncrementCarriedForward(ctx, target.ID, amount); err != nil {
			return err
		}
		rolled = true
		return nil
	})
	return rolled, err
}
