package notification

import (
	"context"
	"sync"
	"testing"

	"github.com/clockwise-hr/attendance-backend-go/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationRepo struct {
	mu      sync.Mutex
	batches [][]notification.Notification
}

func (f *fakeNotificationRepo) CreateBatch(_ context.Context, notifications []notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	batch := make([]notification.Notification, len(notifications))
	copy(batch, notifications)
	f.batches = append(f.batches, batch)
	return nil
}

func (f *fakeNotificationRepo) ListByRecipient(_ context.Context, _ string, _ int) ([]notification.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationRepo) all() []notification.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []notification.Notification
	for _, batch := range f.batches {
		out = append(out, batch...)
	}
	return out
}

func TestQueue_DrainsOnStop(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		svc.Queue(ctx, notification.QueueRequest{
			RecipientID: "user-1",
			Kind:        notification.KindAutoPunchOut,
			Message:     "closed",
		})
	}
	svc.Stop()

	all := repo.all()
	require.Len(t, all, 10)
	assert.Equal(t, "user-1", all[0].RecipientID)
	assert.Equal(t, notification.KindAutoPunchOut, all[0].Kind)
	assert.Equal(t, "closed", all[0].Message)
}

func TestQueue_EmptyStop(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo)
	svc.Stop()
	assert.Empty(t, repo.all())
}
