package correction

import (
	"github.com/clockwise-hr/attendance-backend-go/internal/pkg/validator"
)

type SubmitRequest struct {
	EmployeeID     string  `json:"-"`
	Date           string  `json:"date"`
	PunchIn        *string `json:"punch_in,omitempty"`
	PunchOut       *string `json:"punch_out,omitempty"`
	Reason         string  `json:"reason"`
	AttachmentPath *string `json:"attachment_path,omitempty"`
}

func (r SubmitRequest) Validate() error {
	var errs validator.ValidationErrors
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if r.PunchIn == nil && r.PunchOut == nil {
		errs = append(errs, validator.ValidationError{Field: "punch_in", Message: "at least one corrected time is required"})
	}
	if r.PunchIn != nil {
		if _, ok := validator.IsValidDateTime(*r.PunchIn); !ok {
			errs = append(errs, validator.ValidationError{Field: "punch_in", Message: "must be a valid RFC3339 timestamp"})
		}
	}
	if r.PunchOut != nil {
		if _, ok := validator.IsValidDateTime(*r.PunchOut); !ok {
			errs = append(errs, validator.ValidationError{Field: "punch_out", Message: "must be a valid RFC3339 timestamp"})
		}
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReviewRequest struct {
	ID         string  `json:"-"`
	ReviewerID string  `json:"-"`
	Note       *string `json:"note,omitempty"`
}

type RejectRequest struct {
	ID         string `json:"-"`
	ReviewerID string `json:"-"`
	Reason     string `json:"reason"`
}

func (r RejectRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CorrectionResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   *string `json:"employee_name,omitempty"`
	Date           string  `json:"date"`
	PunchIn        *string `json:"punch_in"`
	PunchOut       *string `json:"punch_out"`
	Reason         string  `json:"reason"`
	AttachmentPath *string `json:"attachment_path,omitempty"`
	Status         string  `json:"status"`
	ReviewNote     *string `json:"review_note,omitempty"`
}
