package service

import (
	"context"
	"time"

	"github.com/noah-isme/land-registry-api/internal/models"
)

type propertyCache interface {
	PropertyByULPIN(ctx context.Context, ulpin string) (*models.Property, bool)
	StoreProperty(ctx context.Context, property *models.Property)
	ForgetProperty(ctx context.Context, property *models.Property)
}

// WorkflowOption configures the property and mutation workflows.
type WorkflowOption func(*workflowBase)

// WithNotifier sets the sink for post-commit notifications.
func WithNotifier(n Notifier) WorkflowOption {
	return func(b *workflowBase) { b.notifier = n }
}

// WithAuditLogger sets where transition audit rows are written.
func WithAuditLogger(a auditLogger) WorkflowOption {
	return func(b *workflowBase) { b.audit = a }
}

// WithTransitionMetrics sets the transition counter.
func WithTransitionMetrics(m transitionObserver) WorkflowOption {
	return func(b *workflowBase) { b.metrics = m }
}

// WithPropertyCache sets the ULPIN lookup cache.
func WithPropertyCache(c propertyCache) WorkflowOption {
	return func(b *workflowBase) { b.cache = c }
}

// WithClock overrides the time source used for workflow dates and identifier years.
func WithClock(now func() time.Time) WorkflowOption {
	return func(b *workflowBase) {
		if now == nil {
			return
		}
		b.now = now
		b.ids = NewIdentifierGenerator(now)
	}
}

func (b *workflowBase) apply(opts []WorkflowOption) {
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
}
