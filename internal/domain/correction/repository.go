package correction

import (
	"context"
	"time"
)

type CorrectionRepository interface {
	Create(ctx context.Context, c Correction) (Correction, error)
	GetByID(ctx context.Context, id string) (Correction, error)

	// HasPending reports whether a pending correction exists for the
	// (employee, date) pair.
	HasPending(ctx context.Context, employeeID string, date time.Time) (bool, error)

	UpdateStatus(ctx context.Context, id string, status Status, reviewerID string, note *string) error
	ListByEmployee(ctx context.Context, employeeID string) ([]Correction, error)
	ListPending(ctx context.Context) ([]Correction, error)
}
