package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/config"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/attendance"
	domCalendar "github.com/clockwise-hr/attendance-backend-go/internal/domain/calendar"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/notification"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/database"
	"github.com/clockwise-hr/attendance-backend-go/internal/service/calendar"
)

type AttendanceServiceImpl struct {
	tx database.TxRunner
	attendance.AttendanceRepository
	attendance.BreakRepository
	auditRepo    attendance.AuditRepository
	leaveReqRepo leave.LeaveRequestRepository
	employeeRepo employee.EmployeeRepository
	settings     domCalendar.SettingRepository
	clock        *calendar.Clock
	resolver     *calendar.Resolver
	notifier     notification.Service
	cfg          config.AttendanceConfig
}

func NewAttendanceService(
	tx database.TxRunner,
	attendanceRepo attendance.AttendanceRepository,
	breakRepo attendance.BreakRepository,
	auditRepo attendance.AuditRepository,
	leaveReqRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	settings domCalendar.SettingRepository,
	clock *calendar.Clock,
	resolver *calendar.Resolver,
	notifier notification.Service,
	cfg config.AttendanceConfig,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		BreakRepository:      breakRepo,
		auditRepo:            auditRepo,
		leaveReqRepo:         leaveReqRepo,
		employeeRepo:         employeeRepo,
		settings:             settings,
		clock:                clock,
		resolver:             resolver,
		notifier:             notifier,
		cfg:                  cfg,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

// PunchIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) PunchIn(ctx context.Context, req attendance.PunchInRequest) (attendance.AttendanceResponse, error) {
	now := a.clock.Now()
	today := calendar.DateOf(now)

	var result attendance.Attendance
	err := a.tx.RunInTx(ctx, func(ctx context.Context) error {
		// Lock the day row first so concurrent punch-ins for the same
		// employee serialize at the datastore.
		att, err := a.AttendanceRepository.GetForUpdate(ctx, req.EmployeeID, today)
		if err != nil {
			return fmt.Errorf("failed to lock attendance row: %w", err)
		}

		open, err := a.AttendanceRepository.GetOpenSession(ctx, req.EmployeeID)
		if err != nil && !errors.Is(err, attendance.ErrNoActiveSession) {
			return fmt.Errorf("failed to check open session: %w", err)
		}
		if err == nil && open.ID != "" {
			return attendance.ErrAlreadyActiveSession
		}

		// A lingering active break from an inconsistent prior state would
		// outlive its session; close it at the new punch-in time.
		if err := a.forceCloseActiveBreak(ctx, req.EmployeeID, now); err != nil {
			return err
		}

		if att == nil {
			created, err := a.AttendanceRepository.Create(ctx, attendance.Attendance{
				EmployeeID:      req.EmployeeID,
				Date:            today,
				PunchIn:         &now,
				Status:          attendance.StatusPending,
				PunchInLocation: req.Location,
			})
			if err != nil {
				return fmt.Errorf("failed to create attendance record: %w", err)
			}
			result = created
			return nil
		}

		// Existing row without an open session (override-created or reset):
		// start a fresh session on it.
		if err := a.AttendanceRepository.StartSession(ctx, att.ID, now, req.Location); err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}
		att.PunchIn = &now
		att.PunchOut = nil
		att.TotalHours = nil
		att.BreakMinutes = nil
		att.ProductionHours = nil
		att.Status = attendance.StatusPending
		att.PunchInLocation = req.Location
		result = *att
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(result, nil), nil
}

// PunchOut implements attendance.AttendanceService. This is the single
// authoritative place where the final status for a normal day is set.
func (a *AttendanceServiceImpl) PunchOut(ctx context.Context, req attendance.PunchOutRequest) (attendance.AttendanceResponse, error) {
	now := a.clock.Now()

	var result attendance.Attendance
	err := a.tx.RunInTx(ctx, func(ctx context.Context) error {
		att, err := a.AttendanceRepository.GetOpenSession(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		closed, err := a.closeSession(ctx, &att, now, req.Location)
		if err != nil {
			return err
		}
		result = closed
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(result, nil), nil
}

// closeSession force-closes any active break, computes the derived hour
// fields and classifies the final status. Shared by PunchOut and
// AutoPunchOut so the two paths can never diverge.
func (a *AttendanceServiceImpl) closeSession(ctx context.Context, att *attendance.Attendance, punchOut time.Time, location *string) (attendance.Attendance, error) {
	if att.PunchIn == nil {
		return attendance.Attendance{}, attendance.ErrNoActiveSession
	}
	if punchOut.Before(*att.PunchIn) {
		punchOut = *att.PunchIn
	}

	if err := a.forceCloseActiveBreak(ctx, att.EmployeeID, punchOut); err != nil {
		return attendance.Attendance{}, err
	}

	breakMins, err := a.BreakRepository.SumMinutesForAttendance(ctx, att.ID)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to sum break minutes: %w", err)
	}

	total := TotalHours(*att.PunchIn, punchOut)
	prod := ProductionHours(total, breakMins)

	kind, err := a.resolver.DayKind(ctx, att.Date)
	if err != nil {
		return attendance.Attendance{}, err
	}
	th := ResolveThresholds(ctx, a.settings, a.cfg)
	status := Classify(total, kind, th)

	att.PunchOut = &punchOut
	att.TotalHours = &total
	att.BreakMinutes = &breakMins
	att.ProductionHours = &prod
	att.Status = status
	if location != nil {
		att.PunchOutLocation = location
	}

	if err := a.AttendanceRepository.Update(ctx, *att); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return *att, nil
}

// forceCloseActiveBreak closes an active break at the given instant. A break
// can never outlive the owning session.
func (a *AttendanceServiceImpl) forceCloseActiveBreak(ctx context.Context, employeeID string, endTime time.Time) error {
	b, err := a.BreakRepository.GetActiveByEmployee(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("failed to check active break: %w", err)
	}
	if b == nil {
		return nil
	}

	end := endTime
	if end.Before(b.StartTime) {
		end = b.StartTime
	}
	if err := a.BreakRepository.Close(ctx, b.ID, end, BreakMinutes(b.StartTime, end)); err != nil {
		return fmt.Errorf("failed to force-close break: %w", err)
	}
	return nil
}

// StartBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) StartBreak(ctx context.Context, req attendance.StartBreakRequest) (attendance.BreakResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.BreakResponse{}, err
	}
	now := a.clock.Now()

	var result attendance.Break
	err := a.tx.RunInTx(ctx, func(ctx context.Context) error {
		att, err := a.AttendanceRepository.GetOpenSession(ctx, req.EmployeeID)
		if err != nil {
			if errors.Is(err, attendance.ErrNoActiveSession) {
				return attendance.ErrNotPunchedIn
			}
			return err
		}

		active, err := a.BreakRepository.GetActiveByEmployee(ctx, req.EmployeeID)
		if err != nil {
			return fmt.Errorf("failed to check active break: %w", err)
		}
		if active != nil {
			return attendance.ErrBreakAlreadyActive
		}

		created, err := a.BreakRepository.Create(ctx, attendance.Break{
			AttendanceID: att.ID,
			EmployeeID:   req.EmployeeID,
			StartTime:    now,
			Status:       attendance.BreakStatusActive,
			Reason:       req.Reason,
		})
		if err != nil {
			return fmt.Errorf("failed to create break: %w", err)
		}
		result = created
		return nil
	})
	if err != nil {
		return attendance.BreakResponse{}, err
	}

	return mapBreakToResponse(result), nil
}

// EndBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) EndBreak(ctx context.Context, req attendance.EndBreakRequest) (attendance.BreakResponse, error) {
	now := a.clock.Now()

	var result attendance.Break
	err := a.tx.RunInTx(ctx, func(ctx context.Context) error {
		b, err := a.BreakRepository.GetActiveByEmployee(ctx, req.EmployeeID)
		if err != nil {
			return fmt.Errorf("failed to check active break: %w", err)
		}
		if b == nil {
			return attendance.ErrNoActiveBreak
		}

		duration := BreakMinutes(b.StartTime, now)
		if err := a.BreakRepository.Close(ctx, b.ID, now, duration); err != nil {
			return fmt.Errorf("failed to close break: %w", err)
		}

		b.EndTime = &now
		b.DurationMinutes = &duration
		b.Status = attendance.BreakStatusCompleted
		if req.Note != nil {
			b.Reason = req.Note
		}
		result = *b
		return nil
	})
	if err != nil {
		return attendance.BreakResponse{}, err
	}

	return mapBreakToResponse(result), nil
}

// AutoPunchIn implements attendance.AttendanceService. Called by the daily
// sweep for employees who have not interacted; punches in at the standard
// start time, never the current time.
func (a *AttendanceServiceImpl) AutoPunchIn(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	date = calendar.DateOf(date.In(a.clock.Location()))

	kind, err := a.resolver.DayKind(ctx, date)
	if err != nil {
		return false, err
	}
	if kind != domCalendar.Workday {
		return false, nil
	}

	onLeave, err := a.leaveReqRepo.HasApprovedCovering(ctx, employeeID, date)
	if err != nil {
		return false, fmt.Errorf("failed to check approved leave: %w", err)
	}
	if onLeave {
		return false, nil
	}

	startAt, err := a.clock.At(date, a.cfg.StandardClockIn)
	if err != nil {
		return false, err
	}

	punched := false
	err = a.tx.RunInTx(ctx, func(ctx context.Context) error {
		att, err := a.AttendanceRepository.GetForUpdate(ctx, employeeID, date)
		if err != nil {
			return fmt.Errorf("failed to lock attendance row: %w", err)
		}
		if att != nil && att.PunchIn != nil {
			return nil
		}

		if att == nil {
			if _, err := a.AttendanceRepository.Create(ctx, attendance.Attendance{
				EmployeeID: employeeID,
				Date:       date,
				PunchIn:    &startAt,
				Status:     attendance.StatusPending,
			}); err != nil {
				return fmt.Errorf("failed to create attendance record: %w", err)
			}
		} else {
			if err := a.AttendanceRepository.StartSession(ctx, att.ID, startAt, nil); err != nil {
				return fmt.Errorf("failed to start session: %w", err)
			}
		}
		punched = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if punched {
		a.notifyAfterCommit(ctx, employeeID, notification.KindAutoPunchIn,
			fmt.Sprintf("You were automatically punched in at %s for %s", a.cfg.StandardClockIn, date.Format("2006-01-02")))
	}
	return punched, nil
}

// AutoPunchOut implements attendance.AttendanceService. Runs the same
// hours/status computation as an interactive punch-out, at the standard end
// time.
func (a *AttendanceServiceImpl) AutoPunchOut(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	date = calendar.DateOf(date.In(a.clock.Location()))

	kind, err := a.resolver.DayKind(ctx, date)
	if err != nil {
		return false, err
	}
	if kind != domCalendar.Workday {
		return false, nil
	}

	onLeave, err := a.leaveReqRepo.HasApprovedCovering(ctx, employeeID, date)
	if err != nil {
		return false, fmt.Errorf("failed to check approved leave: %w", err)
	}
	if onLeave {
		return false, nil
	}

	endAt, err := a.clock.At(date, a.cfg.StandardClockOut)
	if err != nil {
		return false, err
	}

	punched := false
	err = a.tx.RunInTx(ctx, func(ctx context.Context) error {
		att, err := a.AttendanceRepository.GetForUpdate(ctx, employeeID, date)
		if err != nil {
			return fmt.Errorf("failed to lock attendance row: %w", err)
		}
		if att == nil || att.PunchIn == nil || att.PunchOut != nil {
			return nil
		}

		if _, err := a.closeSession(ctx, att, endAt, nil); err != nil {
			return err
		}
		punched = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if punched {
		a.notifyAfterCommit(ctx, employeeID, notification.KindAutoPunchOut,
			fmt.Sprintf("You were automatically punched out at %s for %s", a.cfg.StandardClockOut, date.Format("2006-01-02")))
	}
	return punched, nil
}

// notifyAfterCommit queues a best-effort notification once the transaction
// has committed. Notification failure never affects the state change.
func (a *AttendanceServiceImpl) notifyAfterCommit(ctx context.Context, employeeID, kind, message string) {
	recipient := employeeID
	if emp, err := a.employeeRepo.GetByID(ctx, employeeID); err == nil && emp.UserID != nil {
		recipient = *emp.UserID
	}
	a.notifier.Queue(ctx, notification.QueueRequest{
		RecipientID: recipient,
		Kind:        kind,
		Message:     message,
	})
}

// Override implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Override(ctx context.Context, req attendance.OverrideRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	date = calendar.DateOf(date.In(a.clock.Location()))

	var punchIn, punchOut *time.Time
	if req.PunchIn != nil {
		t, err := time.Parse(time.RFC3339, *req.PunchIn)
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("invalid punch_in: %w", err)
		}
		t = t.In(a.clock.Location())
		punchIn = &t
	}
	if req.PunchOut != nil {
		t, err := time.Parse(time.RFC3339, *req.PunchOut)
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("invalid punch_out: %w", err)
		}
		t = t.In(a.clock.Location())
		punchOut = &t
	}
	if punchIn != nil && punchOut != nil && punchOut.Before(*punchIn) {
		return attendance.AttendanceResponse{}, fmt.Errorf("punch_out must not be before punch_in")
	}

	var result attendance.Attendance
	err := a.tx.RunInTx(ctx, func(ctx context.Context) error {
		att, err := a.AttendanceRepository.GetForUpdate(ctx, req.EmployeeID, date)
		if err != nil {
			return fmt.Errorf("failed to lock attendance row: %w", err)
		}
		if att == nil {
			created, err := a.AttendanceRepository.Create(ctx, attendance.Attendance{
				EmployeeID: req.EmployeeID,
				Date:       date,
				Status:     attendance.StatusPending,
			})
			if err != nil {
				return fmt.Errorf("failed to create attendance record: %w", err)
			}
			att = &created
		}

		previous := att.Snapshot()

		if punchIn != nil {
			att.PunchIn = punchIn
		}
		if punchOut != nil {
			att.PunchOut = punchOut
		}

		if att.PunchIn != nil && att.PunchOut != nil {
			breakMins, err := a.BreakRepository.SumMinutesForAttendance(ctx, att.ID)
			if err != nil {
				return fmt.Errorf("failed to sum break minutes: %w", err)
			}
			total := TotalHours(*att.PunchIn, *att.PunchOut)
			prod := ProductionHours(total, breakMins)

			kind, err := a.resolver.DayKind(ctx, att.Date)
			if err != nil {
				return err
			}
			th := ResolveThresholds(ctx, a.settings, a.cfg)

			att.TotalHours = &total
			att.BreakMinutes = &breakMins
			att.ProductionHours = &prod
			att.Status = Classify(total, kind, th)
		}

		// An explicit status wins over the recomputed one.
		if req.Status != nil {
			att.Status = *req.Status
		}

		att.AdminOverride = true
		att.OverrideReason = &req.Reason
		att.OverrideBy = &req.ActorID

		if err := a.AttendanceRepository.Update(ctx, *att); err != nil {
			return fmt.Errorf("failed to update attendance record: %w", err)
		}

		if err := a.auditRepo.Create(ctx, attendance.AuditEntry{
			AttendanceID: att.ID,
			EmployeeID:   att.EmployeeID,
			Action:       "override",
			ActorID:      req.ActorID,
			Reason:       &req.Reason,
			Previous:     previous,
			Current:      att.Snapshot(),
		}); err != nil {
			return fmt.Errorf("failed to write audit entry: %w", err)
		}

		result = *att
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	a.notifyAfterCommit(ctx, req.EmployeeID, notification.KindAttendanceOverride,
		fmt.Sprintf("Your attendance for %s was adjusted by an administrator", req.Date))

	return mapAttendanceToResponse(result, nil), nil
}

// Reset implements attendance.AttendanceService. Resets are field nulling
// plus a status reset, never a row removal.
func (a *AttendanceServiceImpl) Reset(ctx context.Context, req attendance.ResetRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	date = calendar.DateOf(date.In(a.clock.Location()))

	var result attendance.Attendance
	err := a.tx.RunInTx(ctx, func(ctx context.Context) error {
		att, err := a.AttendanceRepository.GetForUpdate(ctx, req.EmployeeID, date)
		if err != nil {
			return fmt.Errorf("failed to lock attendance row: %w", err)
		}
		if att == nil {
			return attendance.ErrAttendanceNotFound
		}

		previous := att.Snapshot()

		if err := a.forceCloseActiveBreak(ctx, req.EmployeeID, a.clock.Now()); err != nil {
			return err
		}
		if err := a.AttendanceRepository.Reset(ctx, att.ID); err != nil {
			return fmt.Errorf("failed to reset attendance record: %w", err)
		}

		att.PunchIn = nil
		att.PunchOut = nil
		att.TotalHours = nil
		att.BreakMinutes = nil
		att.ProductionHours = nil
		att.Status = attendance.StatusPending

		if err := a.auditRepo.Create(ctx, attendance.AuditEntry{
			AttendanceID: att.ID,
			EmployeeID:   att.EmployeeID,
			Action:       "reset",
			ActorID:      req.ActorID,
			Reason:       &req.Reason,
			Previous:     previous,
			Current:      att.Snapshot(),
		}); err != nil {
			return fmt.Errorf("failed to write audit entry: %w", err)
		}

		result = *att
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(result, nil), nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	if filter.Page == 0 {
		filter.Page = 1
	}

	attendances, total, err := a.AttendanceRepository.GetMyAttendance(ctx, employeeID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to get my attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, mapAttendanceToResponse(att, nil))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Attendances: responses,
	}, nil
}

// GetDay implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetDay(ctx context.Context, employeeID string, date time.Time) (attendance.AttendanceResponse, error) {
	date = calendar.DateOf(date.In(a.clock.Location()))

	att, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if att == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}

	breaks, err := a.BreakRepository.ListByAttendance(ctx, att.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to list breaks: %w", err)
	}

	return mapAttendanceToResponse(*att, breaks), nil
}

func mapAttendanceToResponse(att attendance.Attendance, breaks []attendance.Break) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:              att.ID,
		EmployeeID:      att.EmployeeID,
		EmployeeName:    att.EmployeeName,
		Date:            att.Date.Format("2006-01-02"),
		PunchIn:         timePtrToString(att.PunchIn),
		PunchOut:        timePtrToString(att.PunchOut),
		TotalHours:      att.TotalHours,
		BreakMinutes:    att.BreakMinutes,
		ProductionHours: att.ProductionHours,
		Status:          att.Status,
		Session:         att.Session(),
		AdminOverride:   att.AdminOverride,
	}
	for _, b := range breaks {
		resp.Breaks = append(resp.Breaks, mapBreakToResponse(b))
	}
	return resp
}

func mapBreakToResponse(b attendance.Break) attendance.BreakResponse {
	return attendance.BreakResponse{
		ID:              b.ID,
		StartTime:       b.StartTime.Format(time.RFC3339),
		EndTime:         timePtrToString(b.EndTime),
		DurationMinutes: b.DurationMinutes,
		Status:          b.Status,
		Reason:          b.Reason,
	}
}
