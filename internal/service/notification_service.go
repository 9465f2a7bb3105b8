package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/land-registry-api/internal/models"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
	"github.com/noah-isme/land-registry-api/pkg/jobs"
)

const notificationJobType = "notification.deliver"

// NotificationPayload describes the entity a notification is about.
type NotificationPayload struct {
	Title      string
	Message    string
	EntityType string
	EntityID   int64
	Priority   string
}

type notificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error)
	MarkRead(ctx context.Context, id int64, userID string, at time.Time) error
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

type notificationMetrics interface {
	ObserveNotification(result string)
}

// NotificationService queues in-app notifications and serves the inbox.
type NotificationService struct {
	repo    notificationStore
	queue   jobEnqueuer
	authz   *Authorizer
	metrics notificationMetrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewNotificationService constructs the service. Until a queue is attached notifications are
// written synchronously.
func NewNotificationService(repo notificationStore, authz *Authorizer, metrics notificationMetrics, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		repo:    repo,
		authz:   authz,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// UseQueue routes deliveries through a background queue whose handler is Deliver.
func (s *NotificationService) UseQueue(queue jobEnqueuer) {
	s.queue = queue
}

// Notify builds a notification and hands it to the queue. Failures are logged, never returned.
func (s *NotificationService) Notify(ctx context.Context, userID string, event models.NotificationEvent, payload NotificationPayload) {
	n := &models.Notification{
		UserID:   userID,
		Title:    payload.Title,
		Message:  payload.Message,
		Type:     event,
		Priority: payload.Priority,
	}
	if n.Priority == "" {
		n.Priority = models.NotificationPriorityNormal
	}
	if payload.EntityType != "" {
		n.RelatedEntityType = ptr(payload.EntityType)
		n.RelatedEntityID = ptr(payload.EntityID)
	}

	if s.queue == nil {
		if err := s.persist(context.WithoutCancel(ctx), n); err != nil {
			s.logger.Warn("failed to store notification", zap.String("user_id", userID), zap.String("event", string(event)), zap.Error(err))
		}
		return
	}
	if err := s.queue.Enqueue(jobs.Job{Type: notificationJobType, Payload: n}); err != nil {
		s.observe("dropped")
		s.logger.Warn("failed to enqueue notification", zap.String("user_id", userID), zap.String("event", string(event)), zap.Error(err))
	}
}

// Deliver is the queue handler persisting a notification job.
func (s *NotificationService) Deliver(ctx context.Context, job jobs.Job) error {
	n, ok := job.Payload.(*models.Notification)
	if !ok {
		s.logger.Error("unexpected notification payload", zap.String("job_id", job.ID), zap.String("type", fmt.Sprintf("%T", job.Payload)))
		return nil
	}
	return s.persist(ctx, n)
}

func (s *NotificationService) persist(ctx context.Context, n *models.Notification) error {
	if err := s.repo.Create(ctx, n); err != nil {
		s.observe("failed")
		return err
	}
	s.observe("delivered")
	return nil
}

func (s *NotificationService) observe(result string) {
	if s.metrics != nil {
		s.metrics.ObserveNotification(result)
	}
}

// List returns the actor's notifications.
func (s *NotificationService) List(ctx context.Context, actor *models.JWTClaims, unreadOnly bool, page, pageSize int) ([]models.Notification, *models.Pagination, error) {
	if err := s.authz.Require(actor, models.CapNotificationRead); err != nil {
		return nil, nil, err
	}
	items, total, err := s.repo.List(ctx, models.NotificationFilter{UserID: actor.UserID, UnreadOnly: unreadOnly, Page: page, PageSize: pageSize})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return items, models.NewPagination(page, pageSize, total), nil
}

// MarkRead flags one of the actor's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, actor *models.JWTClaims, id int64) error {
	if err := s.authz.Require(actor, models.CapNotificationRead); err != nil {
		return err
	}
	if err := s.repo.MarkRead(ctx, id, actor.UserID, s.now()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "notification not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notification")
	}
	return nil
}

// MarkAllRead flags every unread notification of the actor and returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, actor *models.JWTClaims) (int64, error) {
	if err := s.authz.Require(actor, models.CapNotificationRead); err != nil {
		return 0, err
	}
	count, err := s.repo.MarkAllRead(ctx, actor.UserID, s.now())
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notifications")
	}
	return count, nil
}
