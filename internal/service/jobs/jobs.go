package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/config"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/cron"
	"github.com/clockwise-hr/attendance-backend-go/internal/service/calendar"
)

// Jobs registers the scheduled sweeps. Every job is idempotent and gates
// itself on the wall clock, so overlapping or repeated runs are safe.
type Jobs struct {
	attendanceSvc attendance.AttendanceService
	accrualSvc    leave.AccrualService
	employeeRepo  employee.EmployeeRepository
	clock         *calendar.Clock
	cfg           config.AttendanceConfig
}

func New(
	attendanceSvc attendance.AttendanceService,
	accrualSvc leave.AccrualService,
	employeeRepo employee.EmployeeRepository,
	clock *calendar.Clock,
	cfg config.AttendanceConfig,
) *Jobs {
	return &Jobs{
		attendanceSvc: attendanceSvc,
		accrualSvc:    accrualSvc,
		employeeRepo:  employeeRepo,
		clock:         clock,
		cfg:           cfg,
	}
}

// Register wires the sweeps onto the scheduler.
func (j *Jobs) Register(s *cron.Scheduler) {
	s.AddJob("attendance.auto_punch_in", 15*time.Minute, j.AutoPunchInSweep)
	s.AddJob("attendance.auto_punch_out", 15*time.Minute, j.AutoPunchOutSweep)
	s.AddJob("leave.monthly_accrual", 6*time.Hour, j.MonthlyAccrual)
}

// AutoPunchInSweep punches in every active employee who has not punched in
// once the standard start time has passed. Per-employee failures are logged
// and counted, never fatal to the sweep.
func (j *Jobs) AutoPunchInSweep(ctx context.Context) error {
	now := j.clock.Now()
	today := j.clock.Today()

	startAt, err := j.clock.At(today, j.cfg.StandardClockIn)
	if err != nil {
		return err
	}
	if now.Before(startAt) {
		return nil
	}

	return j.sweep(ctx, "auto punch-in", today, j.attendanceSvc.AutoPunchIn)
}

// AutoPunchOutSweep closes lingering open sessions once the standard end
// time has passed.
func (j *Jobs) AutoPunchOutSweep(ctx context.Context) error {
	now := j.clock.Now()
	today := j.clock.Today()

	endAt, err := j.clock.At(today, j.cfg.StandardClockOut)
	if err != nil {
		return err
	}
	if now.Before(endAt) {
		return nil
	}

	return j.sweep(ctx, "auto punch-out", today, j.attendanceSvc.AutoPunchOut)
}

func (j *Jobs) sweep(ctx context.Context, name string, date time.Time, fn func(ctx context.Context, employeeID string, date time.Time) (bool, error)) error {
	employees, err := j.employeeRepo.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active employees: %w", err)
	}

	var applied, failed int
	for _, emp := range employees {
		if emp.HireDate.After(date) {
			continue
		}
		done, err := fn(ctx, emp.ID, date)
		if err != nil {
			failed++
			slog.Error("Sweep failed for employee", "sweep", name, "employee_id", emp.ID, "error", err)
			continue
		}
		if done {
			applied++
		}
	}

	slog.Info("Sweep finished", "sweep", name, "date", date.Format("2006-01-02"),
		"employees", len(employees), "applied", applied, "failed", failed)

	if failed > 0 {
		return fmt.Errorf("%s: %d of %d employees failed", name, failed, len(employees))
	}
	return nil
}

// MonthlyAccrual runs the leave accrual for the current month. The accrual
// ledger guarantees at most one credit per (employee, policy, month), so
// running every few hours doubles as catch-up after downtime.
func (j *Jobs) MonthlyAccrual(ctx context.Context) error {
	_, err := j.accrualSvc.MonthlyAccrual(ctx, j.clock.Now())
	return err
}
