package response

import (
	"errors"
	"net/http"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/correction"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/employee"
	"github.com/clockwise-hr/attendance-backend-go/internal/domain/leave"
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyActiveSession):
		Conflict(w, "An active session already exists")
	case errors.Is(err, attendance.ErrNoActiveSession):
		BadRequest(w, "No active session to punch out of", nil)
	case errors.Is(err, attendance.ErrNotPunchedIn):
		BadRequest(w, "Punch in before starting a break", nil)
	case errors.Is(err, attendance.ErrBreakAlreadyActive):
		Conflict(w, "A break is already in progress")
	case errors.Is(err, attendance.ErrNoActiveBreak):
		BadRequest(w, "No active break to end", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, "Not allowed to access this attendance record")

	// Correction domain errors
	case errors.Is(err, correction.ErrPendingCorrectionExists):
		Conflict(w, "A pending correction already exists for this date")
	case errors.Is(err, correction.ErrCorrectionAlreadyProcessed):
		Conflict(w, "Correction already processed")
	case errors.Is(err, correction.ErrCorrectionNotFound):
		NotFound(w, "Correction not found")

	// Leave domain errors. Policy violations surface their reason verbatim.
	case errors.Is(err, leave.ErrPolicyViolation):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrPolicyNotFound):
		NotFound(w, "Leave policy not found or inactive")
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
