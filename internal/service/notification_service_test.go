package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/land-registry-api/internal/models"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
	"github.com/noah-isme/land-registry-api/pkg/jobs"
)

type notificationRepoStub struct {
	mu        sync.Mutex
	created   []*models.Notification
	createErr error
	markErr   error
}

func (s *notificationRepoStub) Create(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	n.ID = int64(len(s.created) + 1)
	s.created = append(s.created, n)
	return nil
}

func (s *notificationRepoStub) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.created {
		if n.UserID == filter.UserID {
			out = append(out, *n)
		}
	}
	return out, len(out), nil
}

func (s *notificationRepoStub) MarkRead(ctx context.Context, id int64, userID string, at time.Time) error {
	return s.markErr
}

func (s *notificationRepoStub) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	return 2, nil
}

func (s *notificationRepoStub) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.created)
}

type enqueueRecorder struct {
	jobs []jobs.Job
	err  error
}

func (e *enqueueRecorder) Enqueue(job jobs.Job) error {
	if e.err != nil {
		return e.err
	}
	e.jobs = append(e.jobs, job)
	return nil
}

func TestNotifyWithoutQueuePersistsImmediately(t *testing.T) {
	repo := &notificationRepoStub{}
	svc := NewNotificationService(repo, newTestAuthorizer(t), nil, nil)

	svc.Notify(context.Background(), "citizen-1", models.EventPropertyApproved, NotificationPayload{
		Title: "Property approved", Message: "ULPIN assigned", EntityType: "property", EntityID: 7, Priority: models.NotificationPriorityHigh,
	})

	require.Equal(t, 1, repo.count())
	n := repo.created[0]
	assert.Equal(t, models.EventPropertyApproved, n.Type)
	require.NotNil(t, n.RelatedEntityID)
	assert.Equal(t, int64(7), *n.RelatedEntityID)
}

func TestNotifyPersistenceFailureIsSwallowed(t *testing.T) {
	repo := &notificationRepoStub{createErr: errors.New("db down")}
	svc := NewNotificationService(repo, newTestAuthorizer(t), nil, nil)

	assert.NotPanics(t, func() {
		svc.Notify(context.Background(), "citizen-1", models.EventMutationRejected, NotificationPayload{Title: "Rejected"})
	})
}

func TestNotifyEnqueuesAndDelivers(t *testing.T) {
	repo := &notificationRepoStub{}
	queue := &enqueueRecorder{}
	svc := NewNotificationService(repo, newTestAuthorizer(t), nil, nil)
	svc.UseQueue(queue)

	svc.Notify(context.Background(), "citizen-1", models.EventMutationApproved, NotificationPayload{Title: "Approved"})
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, 0, repo.count())
	assert.Equal(t, models.NotificationPriorityNormal, queue.jobs[0].Payload.(*models.Notification).Priority)

	require.NoError(t, svc.Deliver(context.Background(), queue.jobs[0]))
	assert.Equal(t, 1, repo.count())
}

func TestNotifyQueueFullIsSwallowed(t *testing.T) {
	repo := &notificationRepoStub{}
	svc := NewNotificationService(repo, newTestAuthorizer(t), nil, nil)
	svc.UseQueue(&enqueueRecorder{err: jobs.ErrQueueClosed})

	svc.Notify(context.Background(), "citizen-1", models.EventMutationApproved, NotificationPayload{Title: "Approved"})
	assert.Equal(t, 0, repo.count())
}

func TestNotificationQueueEndToEnd(t *testing.T) {
	repo := &notificationRepoStub{}
	svc := NewNotificationService(repo, newTestAuthorizer(t), nil, nil)
	queue := jobs.NewQueue("notifications", svc.Deliver, jobs.QueueConfig{Workers: 1, RetryDelay: time.Millisecond})
	queue.Start(context.Background())
	defer queue.Stop()
	svc.UseQueue(queue)

	svc.Notify(context.Background(), "citizen-1", models.EventPropertyRejected, NotificationPayload{Title: "Rejected"})

	require.Eventually(t, func() bool { return repo.count() == 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestNotificationMarkReadForeign(t *testing.T) {
	repo := &notificationRepoStub{markErr: sql.ErrNoRows}
	svc := NewNotificationService(repo, newTestAuthorizer(t), nil, nil)

	err := svc.MarkRead(context.Background(), actorFor("citizen-1", models.RoleCitizen), 42)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestNotificationListScopedToActor(t *testing.T) {
	repo := &notificationRepoStub{}
	svc := NewNotificationService(repo, newTestAuthorizer(t), nil, nil)
	svc.Notify(context.Background(), "citizen-1", models.EventPropertyApproved, NotificationPayload{Title: "a"})
	svc.Notify(context.Background(), "citizen-2", models.EventPropertyApproved, NotificationPayload{Title: "b"})

	items, pagination, err := svc.List(context.Background(), actorFor("citizen-1", models.RoleCitizen), false, 1, 20)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, pagination.TotalCount)
}
