package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/notification"
)

const (
	queueSize     = 1024
	flushBatch    = 50
	flushInterval = 2 * time.Second
)

// NotificationServiceImpl buffers queued notifications and flushes them to
// the repository in batches from a background worker. Queue never blocks:
// when the buffer is full the notification is dropped and logged. State
// transitions must never stall or fail because of notification delivery.
type NotificationServiceImpl struct {
	repo  notification.Repository
	queue chan notification.Notification
	done  chan struct{}
	wg    sync.WaitGroup
}

func NewNotificationService(repo notification.Repository) notification.Service {
	s := &NotificationServiceImpl{
		repo:  repo,
		queue: make(chan notification.Notification, queueSize),
		done:  make(chan struct{}),
	}
	s.wg.Add(1)
	go s.worker()
	return s
}

// Queue implements notification.Service.
func (s *NotificationServiceImpl) Queue(ctx context.Context, req notification.QueueRequest) {
	n := notification.Notification{
		RecipientID: req.RecipientID,
		Kind:        req.Kind,
		Message:     req.Message,
	}
	select {
	case s.queue <- n:
	default:
		slog.Warn("Notification queue full, dropping notification",
			"recipient_id", req.RecipientID, "kind", req.Kind)
	}
}

// Stop implements notification.Service. Drains the buffer before returning.
func (s *NotificationServiceImpl) Stop() {
	close(s.done)
	s.wg.Wait()
}

func (s *NotificationServiceImpl) worker() {
	defer s.wg.Done()

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	var batch []notification.Notification
	for {
		select {
		case n := <-s.queue:
			batch = append(batch, n)
			if len(batch) >= flushBatch {
				s.flush(batch)
				batch = nil
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flush(batch)
				batch = nil
			}
		case <-s.done:
			for {
				select {
				case n := <-s.queue:
					batch = append(batch, n)
				default:
					if len(batch) > 0 {
						s.flush(batch)
					}
					return
				}
			}
		}
	}
}

func (s *NotificationServiceImpl) flush(batch []notification.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		slog.Error("Failed to flush notification batch", "count", len(batch), "error", err)
		return
	}
	slog.Debug("Flushed notification batch", "count", len(batch))
}
