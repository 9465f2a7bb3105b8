package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/noah-isme/land-registry-api/internal/models"
	"github.com/noah-isme/land-registry-api/internal/repository"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
)

const tracerName = "github.com/noah-isme/land-registry-api/internal/service"

// ledgerTolerance absorbs float rounding when summing percentage shares.
const ledgerTolerance = 1e-6

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type transitionObserver interface {
	ObserveTransition(entity, action, outcome string)
}

// Notifier delivers workflow events to users. Implementations must not block the caller.
type Notifier interface {
	Notify(ctx context.Context, userID string, event models.NotificationEvent, payload NotificationPayload)
}

// auditMeta carries request details that end up on audit rows.
type auditMeta struct {
	IP        string
	UserAgent string
}

type auditMetaKey struct{}

// WithAuditMeta stores client details on ctx for audit rows written by services.
func WithAuditMeta(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, auditMetaKey{}, auditMeta{IP: ip, UserAgent: userAgent})
}

func auditMetaFrom(ctx context.Context) auditMeta {
	if meta, ok := ctx.Value(auditMetaKey{}).(auditMeta); ok {
		return meta
	}
	return auditMeta{IP: "system", UserAgent: "workflow"}
}

// workflowBase bundles the collaborators shared by the property and mutation workflows.
type workflowBase struct {
	tx        txProvider
	authz     *Authorizer
	ids       *IdentifierGenerator
	sanitizer *TextSanitizer
	notifier  Notifier
	audit     auditLogger
	metrics   transitionObserver
	cache     propertyCache
	logger    *zap.Logger
	now       func() time.Time
	tracer    trace.Tracer
}

func newWorkflowBase(tx txProvider, authz *Authorizer, logger *zap.Logger) workflowBase {
	if logger == nil {
		logger = zap.NewNop()
	}
	now := func() time.Time { return time.Now().UTC() }
	return workflowBase{
		tx:        tx,
		authz:     authz,
		ids:       NewIdentifierGenerator(now),
		sanitizer: NewTextSanitizer(),
		logger:    logger,
		now:       now,
		tracer:    otel.Tracer(tracerName),
	}
}

func (b *workflowBase) startSpan(ctx context.Context, name string, id int64, actor *models.JWTClaims) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.Int64("registry.entity_id", id)}
	if actor != nil {
		attrs = append(attrs, attribute.String("registry.actor_role", string(actor.Role)))
	}
	return b.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (b *workflowBase) finish(span trace.Span, entity, action string, err error) {
	outcome := "success"
	if err != nil {
		outcome = appErrors.FromError(err).Code
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}
	span.End()
	if b.metrics != nil {
		b.metrics.ObserveTransition(entity, action, outcome)
	}
}

func (b *workflowBase) begin(ctx context.Context) (*sqlx.Tx, error) {
	if b.tx == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider unavailable")
	}
	tx, err := b.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	return tx, nil
}

func (b *workflowBase) notify(ctx context.Context, userID string, event models.NotificationEvent, payload NotificationPayload) {
	if b.notifier == nil || userID == "" {
		return
	}
	b.notifier.Notify(ctx, userID, event, payload)
}

func (b *workflowBase) emitAudit(ctx context.Context, actor *models.JWTClaims, action, resource string, resourceID int64, oldValues, newValues interface{}) {
	if b.audit == nil {
		return
	}
	meta := auditMetaFrom(ctx)
	id := formatID(resourceID)
	log := &models.AuditLog{
		Action:     action,
		Resource:   resource,
		ResourceID: &id,
		OldValues:  toJSONText(oldValues),
		NewValues:  toJSONText(newValues),
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}
	if actor != nil {
		log.UserID = &actor.UserID
	}
	if err := b.audit.CreateAuditLog(context.WithoutCancel(ctx), log); err != nil {
		b.logger.Warn("failed to persist audit log", zap.String("action", action), zap.Int64("resource_id", resourceID), zap.Error(err))
	}
}

// translateWriteError maps repository sentinels onto workflow errors. Typed errors pass through.
func translateWriteError(err error, message string) error {
	var appErr *appErrors.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, repository.ErrVersionConflict):
		return appErrors.Wrap(err, appErrors.ErrConcurrentModification.Code, appErrors.ErrConcurrentModification.Status, appErrors.ErrConcurrentModification.Message)
	case errors.Is(err, repository.ErrUniqueViolation):
		return appErrors.Wrap(err, appErrors.ErrIdentifierCollision.Code, appErrors.ErrIdentifierCollision.Status, appErrors.ErrIdentifierCollision.Message)
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
	}
}

func notFoundOr(err error, notFound string, internal string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internal)
}

func invalidTransition(entity, from, action string) error {
	return appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("%s in status %s cannot be %s", entity, from, action))
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func toJSONText(v interface{}) types.JSONText {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return types.JSONText(raw)
}

func ptr[T any](v T) *T {
	return &v
}
