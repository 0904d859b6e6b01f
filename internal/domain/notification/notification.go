package notification

import (
	"context"
	"time"
)

// Event kinds emitted by the engine.
const (
	KindAutoPunchIn        = "attendance.auto_punch_in"
	KindAutoPunchOut       = "attendance.auto_punch_out"
	KindAttendanceOverride = "attendance.override"
	KindCorrectionReviewed = "correction.reviewed"
	KindLeaveReviewed      = "leave.reviewed"
)

type Notification struct {
	ID          string
	RecipientID string
	Kind        string
	Message     string
	CreatedAt   time.Time
}

type QueueRequest struct {
	RecipientID string
	Kind        string
	Message     string
}

type Repository interface {
	CreateBatch(ctx context.Context, notifications []Notification) error
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]Notification, error)
}

// Service is the fire-and-forget boundary. Queue never blocks the caller
// and delivery failures are logged, not propagated; state transitions must
// not roll back because a notification failed.
type Service interface {
	Queue(ctx context.Context, req QueueRequest)
	Stop()
}
