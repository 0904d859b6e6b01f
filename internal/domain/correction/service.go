package correction

import (
	"context"
)

// CorrectionService drives the pending -> approved|rejected workflow.
// Approval feeds the corrected times back into the attendance record and
// recomputes its hours and status.
type CorrectionService interface {
	Submit(ctx context.Context, req SubmitRequest) (CorrectionResponse, error)
	Approve(ctx context.Context, req ReviewRequest) (CorrectionResponse, error)
	Reject(ctx context.Context, req RejectRequest) (CorrectionResponse, error)
	ListMine(ctx context.Context, employeeID string) ([]CorrectionResponse, error)
	ListPending(ctx context.Context) ([]CorrectionResponse, error)
}
