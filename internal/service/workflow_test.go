package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/land-registry-api/internal/models"
	"github.com/noah-isme/land-registry-api/internal/repository"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
)

type txProviderMock struct {
	db   *sqlx.DB
	mock sqlmock.Sqlmock
}

func newTxProviderMock(t *testing.T) (txProvider, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return &txProviderMock{db: sqlxdb, mock: mock}, mock
}

func (t *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return t.db.BeginTxx(ctx, opts)
}

type sentNotification struct {
	UserID  string
	Event   models.NotificationEvent
	Payload NotificationPayload
}

type notifierRecorder struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *notifierRecorder) Notify(ctx context.Context, userID string, event models.NotificationEvent, payload NotificationPayload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{UserID: userID, Event: event, Payload: payload})
}

func (n *notifierRecorder) recipients(event models.NotificationEvent) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, s := range n.sent {
		if s.Event == event {
			out = append(out, s.UserID)
		}
	}
	return out
}

type auditRecorder struct {
	logs []*models.AuditLog
	err  error
}

func (a *auditRecorder) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if a.err != nil {
		return a.err
	}
	a.logs = append(a.logs, log)
	return nil
}

func (a *auditRecorder) actions() []string {
	out := make([]string, 0, len(a.logs))
	for _, l := range a.logs {
		out = append(out, l.Action)
	}
	return out
}

type transitionRecorder struct {
	outcomes []string
}

func (r *transitionRecorder) ObserveTransition(entity, action, outcome string) {
	r.outcomes = append(r.outcomes, entity+"/"+action+"/"+outcome)
}

func errorCode(err error) string {
	if err == nil {
		return ""
	}
	return appErrors.FromError(err).Code
}

func TestTranslateWriteError(t *testing.T) {
	assert.Nil(t, translateWriteError(nil, "x"))
	assert.Equal(t, appErrors.ErrConcurrentModification.Code, errorCode(translateWriteError(repository.ErrVersionConflict, "x")))
	assert.Equal(t, appErrors.ErrIdentifierCollision.Code, errorCode(translateWriteError(repository.ErrUniqueViolation, "x")))
	assert.Equal(t, appErrors.ErrInternal.Code, errorCode(translateWriteError(errors.New("boom"), "x")))

	typed := appErrors.Clone(appErrors.ErrOwnershipNotFound, "gone")
	assert.Same(t, typed, translateWriteError(typed, "x"))
}

func TestNotFoundOr(t *testing.T) {
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(notFoundOr(sql.ErrNoRows, "missing", "failed")))
	assert.Equal(t, appErrors.ErrInternal.Code, errorCode(notFoundOr(errors.New("down"), "missing", "failed")))
}

func TestAuditMetaDefaults(t *testing.T) {
	meta := auditMetaFrom(context.Background())
	assert.Equal(t, "system", meta.IP)

	meta = auditMetaFrom(WithAuditMeta(context.Background(), "10.0.0.1", "curl"))
	assert.Equal(t, "10.0.0.1", meta.IP)
	assert.Equal(t, "curl", meta.UserAgent)
}
