package service

import (
	"context"

	"github.com/noah-isme/land-registry-api/internal/models"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
)

type auditReader interface {
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, int, error)
}

// AuditService exposes the audit trail to staff.
type AuditService struct {
	repo  auditReader
	authz *Authorizer
}

// NewAuditService constructs the service.
func NewAuditService(repo auditReader, authz *Authorizer) *AuditService {
	return &AuditService{repo: repo, authz: authz}
}

// List returns audit entries newest first.
func (s *AuditService) List(ctx context.Context, actor *models.JWTClaims, filter models.AuditFilter) ([]models.AuditLog, *models.Pagination, error) {
	if err := s.authz.Require(actor, models.CapAuditView); err != nil {
		return nil, nil, err
	}
	logs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit logs")
	}
	return logs, models.NewPagination(filter.Page, filter.PageSize, total), nil
}
