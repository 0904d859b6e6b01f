package correction

import (
	"context"
	"fmt"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/config"
	domAttendance "github.com/clockwise-hr/attendance-backend-go/internal/domain/attendance"
	domCalendar "github.com/clockwise-hr/attendance-backend-go/internal/domain/calendar"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/correction"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/notification"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/database"
	attendanceSvc "github.com/clockwise-hr/attendance-backend-go/internal/service/attendance"
	"github.com/clockwise-hr/attendance-backend-go/internal/service/calendar"
)

type CorrectionServiceImpl struct {
	tx database.TxRunner
	correction.CorrectionRepository
	attendanceRepo domAttendance.AttendanceRepository
	breakRepo      domAttendance.BreakRepository
	auditRepo      domAttendance.AuditRepository
	employeeRepo   employee.EmployeeRepository
	settings       domCalendar.SettingRepository
	clock          *calendar.Clock
	resolver       *calendar.Resolver
	notifier       notification.Service
	cfg            config.AttendanceConfig
}

func NewCorrectionService(
	tx database.TxRunner,
	correctionRepo correction.CorrectionRepository,
	attendanceRepo domAttendance.AttendanceRepository,
	breakRepo domAttendance.BreakRepository,
	auditRepo domAttendance.AuditRepository,
	employeeRepo employee.EmployeeRepository,
	settings domCalendar.SettingRepository,
	clock *calendar.Clock,
	resolver *calendar.Resolver,
	notifier notification.Service,
	cfg config.AttendanceConfig,
) correction.CorrectionService {
	return &CorrectionServiceImpl{
		tx:                   tx,
		CorrectionRepository: correctionRepo,
		attendanceRepo:       attendanceRepo,
		breakRepo:            breakRepo,
		auditRepo:            auditRepo,
		employeeRepo:         employeeRepo,
		settings:             settings,
		clock:                clock,
		resolver:             resolver,
		notifier:             notifier,
		cfg:                  cfg,
	}
}

// Submit implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Submit(ctx context.Context, req correction.SubmitRequest) (correction.CorrectionResponse, error) {
	if err := req.Validate(); err != nil {
		return correction.CorrectionResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	date = calendar.DateOf(date.In(s.clock.Location()))

	punchIn, punchOut, err := s.parseRequestedTimes(req.PunchIn, req.PunchOut)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	var result correction.Correction
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		pending, err := s.CorrectionRepository.HasPending(ctx, req.EmployeeID, date)
		if err != nil {
			return fmt.Errorf("failed to check pending correction: %w", err)
		}
		if pending {
			return correction.ErrPendingCorrectionExists
		}

		created, err := s.CorrectionRepository.Create(ctx, correction.Correction{
			EmployeeID:        req.EmployeeID,
			Date:              date,
			RequestedPunchIn:  punchIn,
			RequestedPunchOut: punchOut,
			Reason:            req.Reason,
			AttachmentPath:    req.AttachmentPath,
			Status:            correction.StatusPending,
		})
		if err != nil {
			return fmt.Errorf("failed to create correction: %w", err)
		}
		result = created
		return nil
	})
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	return mapCorrectionToResponse(result), nil
}

func (s *CorrectionServiceImpl) parseRequestedTimes(punchIn, punchOut *string) (*time.Time, *time.Time, error) {
	var in, out *time.Time
	if punchIn != nil {
		t, err := time.Parse(time.RFC3339, *punchIn)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid punch_in: %w", err)
		}
		t = t.In(s.clock.Location())
		in = &t
	}
	if punchOut != nil {
		t, err := time.Parse(time.RFC3339, *punchOut)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid punch_out: %w", err)
		}
		t = t.In(s.clock.Location())
		out = &t
	}
	if in != nil && out != nil && out.Before(*in) {
		return nil, nil, fmt.Errorf("punch_out must not be before punch_in")
	}
	return in, out, nil
}

// Approve implements correction.CorrectionService. The status transition and
// the attendance rewrite commit atomically; a failed rewrite leaves the
// correction pending.
func (s *CorrectionServiceImpl) Approve(ctx context.Context, req correction.ReviewRequest) (correction.CorrectionResponse, error) {
	var result correction.Correction
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		c, err := s.CorrectionRepository.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if c.Status != correction.StatusPending {
			return correction.ErrCorrectionAlreadyProcessed
		}

		if err := s.CorrectionRepository.UpdateStatus(ctx, c.ID, correction.StatusApproved, req.ReviewerID, req.Note); err != nil {
			return err
		}

		if err := s.applyToAttendance(ctx, c, req.ReviewerID); err != nil {
			return err
		}

		c.Status = correction.StatusApproved
		c.ReviewedBy = &req.ReviewerID
		c.ReviewNote = req.Note
		result = c
		return nil
	})
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	s.notifyReviewed(ctx, result, "approved")

	return mapCorrectionToResponse(result), nil
}

// applyToAttendance rewrites the day's record with the corrected times and
// recomputes hours and status through the shared classifier.
func (s *CorrectionServiceImpl) applyToAttendance(ctx context.Context, c correction.Correction, reviewerID string) error {
	att, err := s.attendanceRepo.GetForUpdate(ctx, c.EmployeeID, c.Date)
	if err != nil {
		return fmt.Errorf("failed to lock attendance row: %w", err)
	}
	if att == nil {
		created, err := s.attendanceRepo.Create(ctx, domAttendance.Attendance{
			EmployeeID: c.EmployeeID,
			Date:       c.Date,
			Status:     domAttendance.StatusPending,
		})
		if err != nil {
			return fmt.Errorf("failed to create attendance record: %w", err)
		}
		att = &created
	}

	previous := att.Snapshot()

	if c.RequestedPunchIn != nil {
		att.PunchIn = c.RequestedPunchIn
	}
	if c.RequestedPunchOut != nil {
		att.PunchOut = c.RequestedPunchOut
	}

	if att.PunchIn != nil && att.PunchOut != nil {
		breakMins, err := s.breakRepo.SumMinutesForAttendance(ctx, att.ID)
		if err != nil {
			return fmt.Errorf("failed to sum break minutes: %w", err)
		}
		total := attendanceSvc.TotalHours(*att.PunchIn, *att.PunchOut)
		prod := attendanceSvc.ProductionHours(total, breakMins)

		kind, err := s.resolver.DayKind(ctx, att.Date)
		if err != nil {
			return err
		}
		th := attendanceSvc.ResolveThresholds(ctx, s.settings, s.cfg)

		att.TotalHours = &total
		att.BreakMinutes = &breakMins
		att.ProductionHours = &prod
		att.Status = attendanceSvc.Classify(total, kind, th)
	}

	if err := s.attendanceRepo.Update(ctx, *att); err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}

	return s.auditRepo.Create(ctx, domAttendance.AuditEntry{
		AttendanceID: att.ID,
		EmployeeID:   att.EmployeeID,
		Action:       "correction",
		ActorID:      reviewerID,
		Reason:       &c.Reason,
		Previous:     previous,
		Current:      att.Snapshot(),
	})
}

// Reject implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Reject(ctx context.Context, req correction.RejectRequest) (correction.CorrectionResponse, error) {
	if err := req.Validate(); err != nil {
		return correction.CorrectionResponse{}, err
	}

	var result correction.Correction
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		c, err := s.CorrectionRepository.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if c.Status != correction.StatusPending {
			return correction.ErrCorrectionAlreadyProcessed
		}

		if err := s.CorrectionRepository.UpdateStatus(ctx, c.ID, correction.StatusRejected, req.ReviewerID, &req.Reason); err != nil {
			return err
		}

		c.Status = correction.StatusRejected
		c.ReviewedBy = &req.ReviewerID
		c.ReviewNote = &req.Reason
		result = c
		return nil
	})
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	s.notifyReviewed(ctx, result, "rejected")

	return mapCorrectionToResponse(result), nil
}

func (s *CorrectionServiceImpl) notifyReviewed(ctx context.Context, c correction.Correction, outcome string) {
	recipient := c.EmployeeID
	if emp, err := s.employeeRepo.GetByID(ctx, c.EmployeeID); err == nil && emp.UserID != nil {
		recipient = *emp.UserID
	}
	s.notifier.Queue(ctx, notification.QueueRequest{
		RecipientID: recipient,
		Kind:        notification.KindCorrectionReviewed,
		Message:     fmt.Sprintf("Your attendance correction for %s was %s", c.Date.Format("2006-01-02"), outcome),
	})
}

// ListMine implements correction.CorrectionService.
func (s *CorrectionServiceImpl) ListMine(ctx context.Context, employeeID string) ([]correction.CorrectionResponse, error) {
	corrections, err := s.CorrectionRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list corrections: %w", err)
	}
	return mapCorrectionsToResponses(corrections), nil
}

// ListPending implements correction.CorrectionService.
func (s *CorrectionServiceImpl) ListPending(ctx context.Context) ([]correction.CorrectionResponse, error) {
	corrections, err := s.CorrectionRepository.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending corrections: %w", err)
	}
	return mapCorrectionsToResponses(corrections), nil
}

func mapCorrectionsToResponses(corrections []correction.Correction) []correction.CorrectionResponse {
	responses := make([]correction.CorrectionResponse, 0, len(corrections))
	for _, c := range corrections {
		responses = append(responses, mapCorrectionToResponse(c))
	}
	return responses
}

func mapCorrectionToResponse(c correction.Correction) correction.CorrectionResponse {
	resp := correction.CorrectionResponse{
		ID:             c.ID,
		EmployeeID:     c.EmployeeID,
		EmployeeName:   c.EmployeeName,
		Date:           c.Date.Format("2006-01-02"),
		Reason:         c.Reason,
		AttachmentPath: c.AttachmentPath,
		Status:         string(c.Status),
		ReviewNote:     c.ReviewNote,
	}
	if c.RequestedPunchIn != nil {
		formatted := c.RequestedPunchIn.Format(time.RFC3339)
		resp.PunchIn = &formatted
	}
	if c.RequestedPunchOut != nil {
		formatted := c.RequestedPunchOut.Format(time.RFC3339)
		resp.PunchOut = &formatted
	}
	return resp
}
