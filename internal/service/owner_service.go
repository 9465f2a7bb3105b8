package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/land-registry-api/internal/dto"
	"github.com/noah-isme/land-registry-api/internal/models"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
)

type ownerDirectory interface {
	Create(ctx context.Context, owner *models.Owner) error
	FindByID(ctx context.Context, id int64) (*models.Owner, error)
	List(ctx context.Context, filter models.OwnerFilter) ([]models.Owner, int, error)
}

// OwnerService maintains the register of parties that can hold shares.
type OwnerService struct {
	repo      ownerDirectory
	authz     *Authorizer
	audit     auditLogger
	sanitizer *TextSanitizer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewOwnerService constructs the service. audit may be nil.
func NewOwnerService(repo ownerDirectory, authz *Authorizer, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *OwnerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &OwnerService{repo: repo, authz: authz, audit: audit, sanitizer: NewTextSanitizer(), validator: validate, logger: logger}
}

// Create registers an owner. Citizens may only link an owner to their own account.
func (s *OwnerService) Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateOwnerRequest) (*models.Owner, error) {
	if err := s.authz.Require(actor, models.CapOwnerCreate); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid owner payload")
	}
	if req.UserID != nil && *req.UserID != actor.UserID && !actor.Role.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "owners can only be linked to your own account")
	}

	fullName, err := s.sanitizer.Required("full_name", req.FullName)
	if err != nil {
		return nil, err
	}

	ownerType := req.OwnerType
	if ownerType == "" {
		ownerType = models.OwnerTypeIndividual
	}
	owner := &models.Owner{
		UserID:     req.UserID,
		FullName:   fullName,
		OwnerType:  ownerType,
		FatherName: s.sanitizer.CleanOptional(req.FatherName),
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    s.sanitizer.CleanOptional(req.Address),
		CreatedBy:  actor.UserID,
	}
	if err := s.repo.Create(ctx, owner); err != nil {
		return nil, translateWriteError(err, "failed to create owner")
	}

	if s.audit != nil {
		meta := auditMetaFrom(ctx)
		id := formatID(owner.ID)
		if err := s.audit.CreateAuditLog(context.WithoutCancel(ctx), &models.AuditLog{
			UserID:     &actor.UserID,
			Action:     models.AuditActionOwnerCreate,
			Resource:   models.AuditResourceOwners,
			ResourceID: &id,
			NewValues:  toJSONText(owner),
			IPAddress:  meta.IP,
			UserAgent:  meta.UserAgent,
		}); err != nil {
			s.logger.Warn("failed to record owner audit log", zap.Error(err))
		}
	}
	return owner, nil
}

// Get returns an owner. Citizens can read owners linked to themselves.
func (s *OwnerService) Get(ctx context.Context, actor *models.JWTClaims, id int64) (*models.Owner, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	owner, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "owner not found", "failed to load owner")
	}
	if s.authz.Can(actor, models.CapOwnerView) {
		return owner, nil
	}
	if owner.UserID != nil && *owner.UserID == actor.UserID {
		return owner, nil
	}
	return nil, appErrors.ErrForbidden
}

// List searches owners. Without owner:view the result is limited to the actor's own records.
func (s *OwnerService) List(ctx context.Context, actor *models.JWTClaims, filter models.OwnerFilter) ([]models.Owner, *models.Pagination, error) {
	if actor == nil {
		return nil, nil, appErrors.ErrUnauthorized
	}
	if !s.authz.Can(actor, models.CapOwnerView) {
		filter.UserID = actor.UserID
	}
	owners, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list owners")
	}
	return owners, models.NewPagination(filter.Page, filter.PageSize, total), nil
}
