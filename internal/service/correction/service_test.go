package correction

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/config"
	domAttendance "github.com/clockwise-hr/attendance-backend-go/internal/domain/attendance"
	domCalendar "github.com/clockwise-hr/attendance-backend-go/internal/domain/calendar"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/correction"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/notification"
	"github.com/clockwise-hr/attendance-backend-go/internal/service/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTxRunner struct{}

func (fakeTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSettings struct{}

func (fakeSettings) Get(_ context.Context, _ string) (string, bool, error) { return "", false, nil }
func (fakeSettings) Set(_ context.Context, _, _ string) error             { return nil }

type fakeHolidays struct{}

func (fakeHolidays) Create(_ context.Context, h domCalendar.HolidayEntry) (domCalendar.HolidayEntry, error) {
	return h, nil
}
func (fakeHolidays) ExistsOnDate(_ context.Context, _ time.Time) (bool, error) { return false, nil }
func (fakeHolidays) ListByYear(_ context.Context, _ int) ([]domCalendar.HolidayEntry, error) {
	return nil, nil
}
func (fakeHolidays) Delete(_ context.Context, _ string) error { return nil }

type fakeEmployeeRepo struct{}

func (fakeEmployeeRepo) GetByID(_ context.Context, _ string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}
func (fakeEmployeeRepo) GetActive(_ context.Context) ([]employee.Employee, error) { return nil, nil }

type fakeNotifier struct {
	mu     sync.Mutex
	queued []notification.QueueRequest
}

func (f *fakeNotifier) Queue(_ context.Context, req notification.QueueRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, req)
}

func (f *fakeNotifier) Stop() {}

type fakeCorrectionRepo struct {
	mu          sync.Mutex
	corrections map[string]*correction.Correction
	nextID      int
}

func newFakeCorrectionRepo() *fakeCorrectionRepo {
	return &fakeCorrectionRepo{corrections: map[string]*correction.Correction{}}
}

func (f *fakeCorrectionRepo) Create(_ context.Context, c correction.Correction) (correction.Correction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c.ID = fmt.Sprintf("cor-%d", f.nextID)
	copied := c
	f.corrections[c.ID] = &copied
	return c, nil
}

func (f *fakeCorrectionRepo) GetByID(_ context.Context, id string) (correction.Correction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.corrections[id]; ok {
		return *c, nil
	}
	return correction.Correction{}, correction.ErrCorrectionNotFound
}

func (f *fakeCorrectionRepo) HasPending(_ context.Context, employeeID string, date time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.corrections {
		if c.EmployeeID == employeeID && c.Date.Equal(date) && c.Status == correction.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCorrectionRepo) UpdateStatus(_ context.Context, id string, status correction.Status, reviewerID string, note *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.corrections[id]
	if !ok || c.Status != correction.StatusPending {
		return correction.ErrCorrectionAlreadyProcessed
	}
	c.Status = status
	c.ReviewedBy = &reviewerID
	c.ReviewNote = note
	return nil
}

func (f *fakeCorrectionRepo) ListByEmployee(_ context.Context, employeeID string) ([]correction.Correction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []correction.Correction
	for _, c := range f.corrections {
		if c.EmployeeID == employeeID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCorrectionRepo) ListPending(_ context.Context) ([]correction.Correction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []correction.Correction
	for _, c := range f.corrections {
		if c.Status == correction.StatusPending {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]*domAttendance.Attendance
	nextID  int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: map[string]*domAttendance.Attendance{}}
}

func attKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeAttendanceRepo) Create(_ context.Context, att domAttendance.Attendance) (domAttendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	att.ID = fmt.Sprintf("att-%d", f.nextID)
	copied := att
	f.records[attKey(att.EmployeeID, att.Date)] = &copied
	return att, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*domAttendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if att, ok := f.records[attKey(employeeID, date)]; ok {
		copied := *att
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) GetForUpdate(ctx context.Context, employeeID string, date time.Time) (*domAttendance.Attendance, error) {
	return f.GetByEmployeeAndDate(ctx, employeeID, date)
}

func (f *fakeAttendanceRepo) GetOpenSession(_ context.Context, _ string) (domAttendance.Attendance, error) {
	return domAttendance.Attendance{}, domAttendance.ErrNoActiveSession
}

func (f *fakeAttendanceRepo) Update(_ context.Context, att domAttendance.Attendance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, existing := range f.records {
		if existing.ID == att.ID {
			copied := att
			f.records[key] = &copied
			return nil
		}
	}
	return domAttendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) StartSession(_ context.Context, _ string, _ time.Time, _ *string) error {
	return nil
}

func (f *fakeAttendanceRepo) Reset(_ context.Context, _ string) error { return nil }

func (f *fakeAttendanceRepo) GetMyAttendance(_ context.Context, _ string, _ domAttendance.MyAttendanceFilter) ([]domAttendance.Attendance, int64, error) {
	return nil, 0, nil
}

type fakeBreakRepo struct {
	minutes map[string]int
}

func (f *fakeBreakRepo) Create(_ context.Context, b domAttendance.Break) (domAttendance.Break, error) {
	return b, nil
}

func (f *fakeBreakRepo) GetActiveByEmployee(_ context.Context, _ string) (*domAttendance.Break, error) {
	return nil, nil
}

func (f *fakeBreakRepo) Close(_ context.Context, _ string, _ time.Time, _ int) error { return nil }

func (f *fakeBreakRepo) ListByAttendance(_ context.Context, _ string) ([]domAttendance.Break, error) {
	return nil, nil
}

func (f *fakeBreakRepo) SumMinutesForAttendance(_ context.Context, attendanceID string) (int, error) {
	return f.minutes[attendanceID], nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []domAttendance.AuditEntry
}

func (f *fakeAuditRepo) Create(_ context.Context, entry domAttendance.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) ListByAttendance(_ context.Context, _ string) ([]domAttendance.AuditEntry, error) {
	return nil, nil
}

type fixture struct {
	svc            correction.CorrectionService
	correctionRepo *fakeCorrectionRepo
	attendanceRepo *fakeAttendanceRepo
	breakRepo      *fakeBreakRepo
	auditRepo      *fakeAuditRepo
	notifier       *fakeNotifier
}

func newFixture() *fixture {
	cfg := config.AttendanceConfig{
		Timezone:         "UTC",
		FullDayHours:     7.5,
		HalfDayHours:     7.0,
		StandardClockIn:  "09:00",
		StandardClockOut: "18:00",
		WeekendDays:      "saturday,sunday",
	}
	settings := fakeSettings{}

	f := &fixture{
		correctionRepo: newFakeCorrectionRepo(),
		attendanceRepo: newFakeAttendanceRepo(),
		breakRepo:      &fakeBreakRepo{minutes: map[string]int{}},
		auditRepo:      &fakeAuditRepo{},
		notifier:       &fakeNotifier{},
	}
	f.svc = NewCorrectionService(
		fakeTxRunner{},
		f.correctionRepo,
		f.attendanceRepo,
		f.breakRepo,
		f.auditRepo,
		fakeEmployeeRepo{},
		settings,
		calendar.NewClock(cfg),
		calendar.NewResolver(settings, fakeHolidays{}, cfg),
		f.notifier,
		cfg,
	)
	return f
}

func strPtr(s string) *string { return &s }

// A plain Monday.
const testDate = "2026-03-02"

func submitRequest() correction.SubmitRequest {
	return correction.SubmitRequest{
		EmployeeID: "emp-1",
		Date:       testDate,
		PunchIn:    strPtr("2026-03-02T09:00:00Z"),
		PunchOut:   strPtr("2026-03-02T17:30:00Z"),
		Reason:     "forgot to punch out",
	}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending correction", func(t *testing.T) {
		f := newFixture()
		resp, err := f.svc.Submit(ctx, submitRequest())
		require.NoError(t, err)
		assert.Equal(t, string(correction.StatusPending), resp.Status)
		assert.Equal(t, testDate, resp.Date)
		require.NotNil(t, resp.PunchOut)
	})

	t.Run("one pending correction per day", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Submit(ctx, submitRequest())
		require.NoError(t, err)

		_, err = f.svc.Submit(ctx, submitRequest())
		assert.ErrorIs(t, err, correction.ErrPendingCorrectionExists)
	})

	t.Run("allows a new correction once the previous is processed", func(t *testing.T) {
		f := newFixture()
		resp, err := f.svc.Submit(ctx, submitRequest())
		require.NoError(t, err)
		_, err = f.svc.Reject(ctx, correction.RejectRequest{ID: resp.ID, ReviewerID: "admin-1", Reason: "no"})
		require.NoError(t, err)

		_, err = f.svc.Submit(ctx, submitRequest())
		assert.NoError(t, err)
	})

	t.Run("rejects inverted requested range", func(t *testing.T) {
		f := newFixture()
		req := submitRequest()
		req.PunchIn, req.PunchOut = req.PunchOut, req.PunchIn
		_, err := f.svc.Submit(ctx, req)
		assert.Error(t, err)
	})

	t.Run("requires a reason", func(t *testing.T) {
		f := newFixture()
		req := submitRequest()
		req.Reason = ""
		_, err := f.svc.Submit(ctx, req)
		assert.Error(t, err)
	})
}

func TestApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("rewrites the attendance record and audits", func(t *testing.T) {
		f := newFixture()
		resp, err := f.svc.Submit(ctx, submitRequest())
		require.NoError(t, err)

		approved, err := f.svc.Approve(ctx, correction.ReviewRequest{ID: resp.ID, ReviewerID: "admin-1"})
		require.NoError(t, err)
		assert.Equal(t, string(correction.StatusApproved), approved.Status)

		date, _ := time.Parse("2006-01-02", testDate)
		att, err := f.attendanceRepo.GetByEmployeeAndDate(ctx, "emp-1", date)
		require.NoError(t, err)
		require.NotNil(t, att, "approval should create the missing day record")
		require.NotNil(t, att.TotalHours)
		assert.InDelta(t, 8.5, *att.TotalHours, 0.001)
		assert.Equal(t, domAttendance.StatusPresent, att.Status)

		require.Len(t, f.auditRepo.entries, 1)
		assert.Equal(t, "correction", f.auditRepo.entries[0].Action)
		assert.Equal(t, "admin-1", f.auditRepo.entries[0].ActorID)

		require.Len(t, f.notifier.queued, 1)
		assert.Equal(t, notification.KindCorrectionReviewed, f.notifier.queued[0].Kind)
	})

	t.Run("partial correction keeps the other punch", func(t *testing.T) {
		f := newFixture()
		date, _ := time.Parse("2006-01-02", testDate)
		punchIn := date.Add(9 * time.Hour)
		_, err := f.attendanceRepo.Create(ctx, domAttendance.Attendance{
			EmployeeID: "emp-1",
			Date:       date,
			PunchIn:    &punchIn,
			Status:     domAttendance.StatusPending,
		})
		require.NoError(t, err)

		req := submitRequest()
		req.PunchIn = nil
		resp, err := f.svc.Submit(ctx, req)
		require.NoError(t, err)

		_, err = f.svc.Approve(ctx, correction.ReviewRequest{ID: resp.ID, ReviewerID: "admin-1"})
		require.NoError(t, err)

		att, err := f.attendanceRepo.GetByEmployeeAndDate(ctx, "emp-1", date)
		require.NoError(t, err)
		require.NotNil(t, att.PunchIn)
		assert.Equal(t, 9, att.PunchIn.Hour())
		require.NotNil(t, att.TotalHours)
		assert.InDelta(t, 8.5, *att.TotalHours, 0.001)
	})

	t.Run("existing breaks reduce production hours", func(t *testing.T) {
		f := newFixture()
		date, _ := time.Parse("2006-01-02", testDate)
		punchIn := date.Add(9 * time.Hour)
		att, err := f.attendanceRepo.Create(ctx, domAttendance.Attendance{
			EmployeeID: "emp-1",
			Date:       date,
			PunchIn:    &punchIn,
			Status:     domAttendance.StatusPending,
		})
		require.NoError(t, err)
		f.breakRepo.minutes[att.ID] = 40

		resp, err := f.svc.Submit(ctx, submitRequest())
		require.NoError(t, err)
		_, err = f.svc.Approve(ctx, correction.ReviewRequest{ID: resp.ID, ReviewerID: "admin-1"})
		require.NoError(t, err)

		updated, err := f.attendanceRepo.GetByEmployeeAndDate(ctx, "emp-1", date)
		require.NoError(t, err)
		require.NotNil(t, updated.ProductionHours)
		assert.InDelta(t, 7.83, *updated.ProductionHours, 0.001)
		assert.Equal(t, domAttendance.StatusPresent, updated.Status, "status follows raw total hours")
	})

	t.Run("already processed", func(t *testing.T) {
		f := newFixture()
		resp, err := f.svc.Submit(ctx, submitRequest())
		require.NoError(t, err)
		_, err = f.svc.Approve(ctx, correction.ReviewRequest{ID: resp.ID, ReviewerID: "admin-1"})
		require.NoError(t, err)

		_, err = f.svc.Approve(ctx, correction.ReviewRequest{ID: resp.ID, ReviewerID: "admin-1"})
		assert.ErrorIs(t, err, correction.ErrCorrectionAlreadyProcessed)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Approve(ctx, correction.ReviewRequest{ID: "missing", ReviewerID: "admin-1"})
		assert.ErrorIs(t, err, correction.ErrCorrectionNotFound)
	})
}

func TestReject(t *testing.T) {
	ctx := context.Background()

	t.Run("leaves attendance untouched", func(t *testing.T) {
		f := newFixture()
		resp, err := f.svc.Submit(ctx, submitRequest())
		require.NoError(t, err)

		rejected, err := f.svc.Reject(ctx, correction.RejectRequest{
			ID:         resp.ID,
			ReviewerID: "admin-1",
			Reason:     "no supporting evidence",
		})
		require.NoError(t, err)
		assert.Equal(t, string(correction.StatusRejected), rejected.Status)
		require.NotNil(t, rejected.ReviewNote)
		assert.Equal(t, "no supporting evidence", *rejected.ReviewNote)

		date, _ := time.Parse("2006-01-02", testDate)
		att, err := f.attendanceRepo.GetByEmployeeAndDate(ctx, "emp-1", date)
		require.NoError(t, err)
		assert.Nil(t, att)
		assert.Empty(t, f.auditRepo.entries)

		require.Len(t, f.notifier.queued, 1)
		assert.Equal(t, notification.KindCorrectionReviewed, f.notifier.queued[0].Kind)
	})

	t.Run("requires a reason", func(t *testing.T) {
		f := newFixture()
		resp, err := f.svc.Submit(ctx, submitRequest())
		require.NoError(t, err)

		_, err = f.svc.Reject(ctx, correction.RejectRequest{ID: resp.ID, ReviewerID: "admin-1"})
		assert.Error(t, err)
	})

	t.Run("already processed", func(t *testing.T) {
		f := newFixture()
		resp, err := f.svc.Submit(ctx, submitRequest())
		require.NoError(t, err)
		_, err = f.svc.Reject(ctx, correction.RejectRequest{ID: resp.ID, ReviewerID: "admin-1", Reason: "no"})
		require.NoError(t, err)

		_, err = f.svc.Approve(ctx, correction.ReviewRequest{ID: resp.ID, ReviewerID: "admin-1"})
		assert.ErrorIs(t, err, correction.ErrCorrectionAlreadyProcessed)
	})
}

func TestListPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	first, err := f.svc.Submit(ctx, submitRequest())
	require.NoError(t, err)

	other := submitRequest()
	other.EmployeeID = "emp-2"
	_, err = f.svc.Submit(ctx, other)
	require.NoError(t, err)

	_, err = f.svc.Reject(ctx, correction.RejectRequest{ID: first.ID, ReviewerID: "admin-1", Reason: "no"})
	require.NoError(t, err)

	pending, err := f.svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "emp-2", pending[0].EmployeeID)
}
