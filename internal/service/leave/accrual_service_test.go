package leave

import (
	"context"
	"testing"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/config"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/attendance-backend-go/internal/service/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeEmployees(ids ...string) *fakeEmployeeRepo {
	f := &fakeEmployeeRepo{}
	for _, id := range ids {
		f.employees = append(f.employees, employee.Employee{ID: id, Status: "active"})
	}
	return f
}

type accrualFixture struct {
	svc         leave.AccrualService
	policyRepo  *fakePolicyRepo
	balanceRepo *fakeBalanceRepo
	accrualRepo *fakeAccrualRepo
}

func newAccrualFixture(employees *fakeEmployeeRepo, policies ...leave.LeavePolicy) *accrualFixture {
	f := &accrualFixture{
		policyRepo:  newFakePolicyRepo(policies...),
		balanceRepo: newFakeBalanceRepo(),
		accrualRepo: newFakeAccrualRepo(),
	}
	f.svc = NewAccrualService(fakeTxRunner{}, f.policyRepo, f.balanceRepo, f.accrualRepo, employees)
	return f
}

var accrualMonth = time.Date(2026, time.April, 1, 3, 0, 0, 0, time.UTC)

func TestMonthlyAccrual(t *testing.T) {
	ctx := context.Background()

	t.Run("credits every active employee once", func(t *testing.T) {
		f := newAccrualFixture(activeEmployees("emp-1", "emp-2"), annualPolicy())

		report, err := f.svc.MonthlyAccrual(ctx, accrualMonth)
		require.NoError(t, err)
		assert.Equal(t, 2026, report.Year)
		assert.Equal(t, 4, report.Month)
		assert.Equal(t, 2, report.Processed)
		assert.Equal(t, 2, report.Accrued)
		assert.Equal(t, 0, report.Skipped)
		assert.Equal(t, 0, report.Failed)

		for _, id := range []string{"emp-1", "emp-2"} {
			balance, err := f.balanceRepo.GetForUpdate(ctx, id, "pol-annual", 2026)
			require.NoError(t, err)
			assert.Equal(t, 1.5, balance.Allocated)
		}
	})

	t.Run("re-run is a no-op", func(t *testing.T) {
		f := newAccrualFixture(activeEmployees("emp-1"), annualPolicy())

		_, err := f.svc.MonthlyAccrual(ctx, accrualMonth)
		require.NoError(t, err)

		report, err := f.svc.MonthlyAccrual(ctx, accrualMonth)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Accrued)
		assert.Equal(t, 1, report.Skipped)

		balance, err := f.balanceRepo.GetForUpdate(ctx, "emp-1", "pol-annual", 2026)
		require.NoError(t, err)
		assert.Equal(t, 1.5, balance.Allocated, "second run must not double-credit")
	})

	t.Run("next month accrues again", func(t *testing.T) {
		f := newAccrualFixture(activeEmployees("emp-1"), annualPolicy())

		_, err := f.svc.MonthlyAccrual(ctx, accrualMonth)
		require.NoError(t, err)
		_, err = f.svc.MonthlyAccrual(ctx, accrualMonth.AddDate(0, 1, 0))
		require.NoError(t, err)

		balance, err := f.balanceRepo.GetForUpdate(ctx, "emp-1", "pol-annual", 2026)
		require.NoError(t, err)
		assert.Equal(t, 3.0, balance.Allocated)
	})

	t.Run("zero rate policies are not processed", func(t *testing.T) {
		unpaid := leave.LeavePolicy{
			ID:                 "pol-unpaid",
			LeaveType:          "unpaid",
			MonthlyAccrual:     0,
			MaxConsecutiveDays: 30,
			IsActive:           true,
		}
		f := newAccrualFixture(activeEmployees("emp-1"), unpaid)

		report, err := f.svc.MonthlyAccrual(ctx, accrualMonth)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Processed)

		_, err = f.balanceRepo.GetForUpdate(ctx, "emp-1", "pol-unpaid", 2026)
		assert.ErrorIs(t, err, leave.ErrBalanceNotFound)
	})

	t.Run("inactive employees are excluded", func(t *testing.T) {
		employees := activeEmployees("emp-1")
		employees.employees = append(employees.employees, employee.Employee{ID: "emp-2", Status: "inactive"})
		f := newAccrualFixture(employees, annualPolicy())

		report, err := f.svc.MonthlyAccrual(ctx, accrualMonth)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Processed)

		_, err = f.balanceRepo.GetForUpdate(ctx, "emp-2", "pol-annual", 2026)
		assert.ErrorIs(t, err, leave.ErrBalanceNotFound)
	})
}

func TestCarryForward(t *testing.T) {
	ctx := context.Background()

	t.Run("caps at the policy maximum", func(t *testing.T) {
		f := newAccrualFixture(activeEmployees("emp-1"), annualPolicy())
		f.balanceRepo.seed("emp-1", "pol-annual", 2026, 18, 10, 0) // 8 remaining, max 5

		report, err := f.svc.CarryForward(ctx, 2026)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Rolled)

		target, err := f.balanceRepo.GetForUpdate(ctx, "emp-1", "pol-annual", 2027)
		require.NoError(t, err)
		assert.Equal(t, 5.0, target.CarriedForward)
	})

	t.Run("rolls the full remainder when under the cap", func(t *testing.T) {
		f := newAccrualFixture(activeEmployees("emp-1"), annualPolicy())
		f.balanceRepo.seed("emp-1", "pol-annual", 2026, 18, 15, 0) // 3 remaining

		_, err := f.svc.CarryForward(ctx, 2026)
		require.NoError(t, err)

		target, err := f.balanceRepo.GetForUpdate(ctx, "emp-1", "pol-annual", 2027)
		require.NoError(t, err)
		assert.Equal(t, 3.0, target.CarriedForward)
	})

	t.Run("nothing remaining skips", func(t *testing.T) {
		f := newAccrualFixture(activeEmployees("emp-1"), annualPolicy())
		f.balanceRepo.seed("emp-1", "pol-annual", 2026, 18, 18, 0)

		report, err := f.svc.CarryForward(ctx, 2026)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Rolled)
		assert.Equal(t, 1, report.Skipped)
	})

	t.Run("re-run is a no-op", func(t *testing.T) {
		f := newAccrualFixture(activeEmployees("emp-1"), annualPolicy())
		f.balanceRepo.seed("emp-1", "pol-annual", 2026, 18, 10, 0)

		_, err := f.svc.CarryForward(ctx, 2026)
		require.NoError(t, err)

		report, err := f.svc.CarryForward(ctx, 2026)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Rolled)
		assert.Equal(t, 1, report.Skipped)

		target, err := f.balanceRepo.GetForUpdate(ctx, "emp-1", "pol-annual", 2027)
		require.NoError(t, err)
		assert.Equal(t, 5.0, target.CarriedForward, "second run must not double-roll")
	})

	t.Run("zero carry forward policies are not processed", func(t *testing.T) {
		p := annualPolicy()
		p.MaxCarryForward = 0
		f := newAccrualFixture(activeEmployees("emp-1"), p)
		f.balanceRepo.seed("emp-1", "pol-annual", 2026, 18, 10, 0)

		report, err := f.svc.CarryForward(ctx, 2026)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Processed)
	})
}

func TestBalanceService(t *testing.T) {
	ctx := context.Background()
	clock := calendar.NewClock(config.AttendanceConfig{Timezone: "UTC"})

	t.Run("compute derives remaining", func(t *testing.T) {
		balanceRepo := newFakeBalanceRepo()
		svc := NewBalanceService(fakeTxRunner{}, balanceRepo, newFakePolicyRepo(annualPolicy()), clock)

		balanceRepo.seed("emp-1", "pol-annual", 2026, 18, 4, 2)

		balances, err := svc.ComputeBalance(ctx, "emp-1", 2026)
		require.NoError(t, err)
		require.Len(t, balances, 1)
		assert.Equal(t, 18.0, balances[0].Allocated)
		assert.Equal(t, 4.0, balances[0].Used)
		assert.Equal(t, 2.0, balances[0].CarriedForward)
		assert.Equal(t, 16.0, balances[0].Remaining)
	})

	t.Run("adjust applies deltas under the lock", func(t *testing.T) {
		balanceRepo := newFakeBalanceRepo()
		svc := NewBalanceService(fakeTxRunner{}, balanceRepo, newFakePolicyRepo(annualPolicy()), clock)

		allocated := 2.0
		carried := 1.0
		resp, err := svc.Adjust(ctx, leave.AdjustBalanceRequest{
			EmployeeID:     "emp-1",
			LeaveType:      "annual",
			Year:           2026,
			AllocatedDelta: &allocated,
			CarriedDelta:   &carried,
			Reason:         "joining bonus",
			ActorID:        "admin-1",
		})
		require.NoError(t, err)
		assert.Equal(t, 2.0, resp.Allocated)
		assert.Equal(t, 1.0, resp.CarriedForward)
		assert.Equal(t, 3.0, resp.Remaining)
	})

	t.Run("adjust unknown leave type", func(t *testing.T) {
		balanceRepo := newFakeBalanceRepo()
		svc := NewBalanceService(fakeTxRunner{}, balanceRepo, newFakePolicyRepo(annualPolicy()), clock)

		allocated := 2.0
		_, err := svc.Adjust(ctx, leave.AdjustBalanceRequest{
			EmployeeID:     "emp-1",
			LeaveType:      "sabbatical",
			Year:           2026,
			AllocatedDelta: &allocated,
			Reason:         "grant",
			ActorID:        "admin-1",
		})
		assert.ErrorIs(t, err, leave.ErrPolicyNotFound)
	})

	t.Run("adjust requires a delta", func(t *testing.T) {
		balanceRepo := newFakeBalanceRepo()
		svc := NewBalanceService(fakeTxRunner{}, balanceRepo, newFakePolicyRepo(annualPolicy()), clock)

		_, err := svc.Adjust(ctx, leave.AdjustBalanceRequest{
			EmployeeID: "emp-1",
			LeaveType:  "annual",
			Year:       2026,
			Reason:     "noop",
			ActorID:    "admin-1",
		})
		assert.Error(t, err)
	})
}
