package correction

import (
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Correction is an employee-submitted amendment to a day's punch times.
// Exactly one pending correction is permitted per (employee, date).
type Correction struct {
	ID                string
	EmployeeID        string
	Date              time.Time
	RequestedPunchIn  *time.Time
	RequestedPunchOut *time.Time
	Reason            string
	AttachmentPath    *string
	Status            Status
	ReviewedBy        *string
	ReviewedAt        *time.Time
	ReviewNote        *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// DTO
	EmployeeName *string
}
