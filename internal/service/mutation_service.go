package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/land-registry-api/internal/dto"
	"github.com/noah-isme/land-registry-api/internal/models"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
)

type mutationStore interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, m *models.Mutation) error
	SetNumberTx(ctx context.Context, tx *sqlx.Tx, id int64, number string) error
	GetByID(ctx context.Context, id int64) (*models.Mutation, error)
	LockByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Mutation, error)
	List(ctx context.Context, filter models.MutationFilter) ([]models.Mutation, int, error)
	UpdateWorkflowTx(ctx context.Context, tx *sqlx.Tx, m *models.Mutation, expectedStatus models.MutationStatus, expectedVersion int) error
}

type mutationPropertyReader interface {
	ShareLockByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Property, error)
	LockForLedgerTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Property, error)
}

type mutationOwnershipReader interface {
	GetByID(ctx context.Context, id int64) (*models.Ownership, error)
	HasActiveLinkedOwnerTx(ctx context.Context, tx *sqlx.Tx, propertyID int64, userID string) (bool, error)
}

type propertyLock func(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Property, error)

type mutationOwnerReader interface {
	FindByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Owner, error)
}

type ownershipLedger interface {
	Apply(ctx context.Context, tx *sqlx.Tx, m *models.Mutation, effective time.Time) (*models.LedgerChange, error)
}

// MutationService runs ownership change requests through review and applies approved ones to
// the ownership ledger.
type MutationService struct {
	workflowBase
	mutations  mutationStore
	properties mutationPropertyReader
	ownerships mutationOwnershipReader
	owners     mutationOwnerReader
	ledger     ownershipLedger
	validator  *validator.Validate
}

// NewMutationService constructs the service.
func NewMutationService(tx txProvider, mutations mutationStore, properties mutationPropertyReader, ownerships mutationOwnershipReader, owners mutationOwnerReader, ledger ownershipLedger, authz *Authorizer, validate *validator.Validate, logger *zap.Logger, opts ...WorkflowOption) *MutationService {
	if validate == nil {
		validate = validator.New()
	}
	svc := &MutationService{
		workflowBase: newWorkflowBase(tx, authz, logger),
		mutations:    mutations,
		properties:   properties,
		ownerships:   ownerships,
		owners:       owners,
		ledger:       ledger,
		validator:    validate,
	}
	svc.apply(opts)
	return svc
}

// Submit files a pending mutation against a registered property and numbers it.
func (s *MutationService) Submit(ctx context.Context, actor *models.JWTClaims, req dto.SubmitMutationRequest) (mutation *models.Mutation, err error) {
	ctx, span := s.startSpan(ctx, "MutationService.Submit", req.PropertyID, actor)
	defer func() { s.finish(span, "mutation", "submit", err) }()

	if err = s.authz.Require(actor, models.CapMutationSubmit); err != nil {
		return nil, err
	}
	if verr := s.validator.Struct(req); verr != nil {
		err = appErrors.Wrap(verr, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mutation payload")
		return nil, err
	}
	if err = checkMutationReferences(req); err != nil {
		return nil, err
	}
	reason, err := s.sanitizer.Required("reason", req.Reason)
	if err != nil {
		return nil, err
	}

	fee := models.DefaultMutationFee
	if req.MutationFee != nil {
		fee = *req.MutationFee
	}
	priority := req.Priority
	if priority == "" {
		priority = models.DefaultMutationPriority
	}
	mutation = &models.Mutation{
		PropertyID:      req.PropertyID,
		RequesterID:     actor.UserID,
		MutationType:    req.MutationType,
		FromOwnershipID: req.FromOwnershipID,
		ToOwnerID:       req.ToOwnerID,
		Description:     s.sanitizer.CleanOptional(req.Description),
		Reason:          &reason,
		PreviousOwners:  s.sanitizer.CleanOptional(req.PreviousOwners),
		NewOwners:       s.sanitizer.CleanOptional(req.NewOwners),
		Status:          models.MutationStatusPending,
		MutationFee:     fee,
		PaymentStatus:   models.PaymentStatusPending,
		Priority:        priority,
	}
	if req.TransferredPercentage != nil {
		share := roundShare(*req.TransferredPercentage)
		if share <= 0 {
			err = appErrors.Clone(appErrors.ErrValidation, "transferred_percentage must be at least 0.01")
			return nil, err
		}
		mutation.TransferredPercentage = &share
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.requireRegistered(ctx, tx, req.PropertyID, s.properties.ShareLockByIDTx); err != nil {
		return nil, err
	}
	if err = s.checkReferencedRows(ctx, tx, actor, mutation); err != nil {
		return nil, err
	}

	if cerr := s.mutations.CreateTx(ctx, tx, mutation); cerr != nil {
		err = translateWriteError(cerr, "failed to create mutation")
		return nil, err
	}
	number := s.ids.MutationNumber(mutation)
	if nerr := s.mutations.SetNumberTx(ctx, tx, mutation.ID, number); nerr != nil {
		err = translateWriteError(nerr, "failed to number mutation")
		return nil, err
	}
	mutation.MutationNumber = &number

	if cerr := tx.Commit(); cerr != nil {
		err = appErrors.Wrap(cerr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit mutation")
		return nil, err
	}

	s.emitAudit(ctx, actor, models.AuditActionMutationCreate, models.AuditResourceMutations, mutation.ID, nil, mutation)
	s.logger.Info("mutation submitted",
		zap.Int64("mutation_id", mutation.ID),
		zap.String("mutation_number", number),
		zap.Int64("property_id", mutation.PropertyID),
	)
	return mutation, nil
}

// checkMutationReferences enforces the structured references each mutation type needs.
func checkMutationReferences(req dto.SubmitMutationRequest) error {
	missing := func(field string) error {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is required for %s mutations", field, req.MutationType))
	}
	switch req.MutationType {
	case models.MutationTypeSale, models.MutationTypeInheritance, models.MutationTypeGift,
		models.MutationTypeTransfer, models.MutationTypePartition:
		if req.FromOwnershipID == nil {
			return missing("from_ownership_id")
		}
		if req.ToOwnerID == nil {
			return missing("to_owner_id")
		}
		if req.MutationType == models.MutationTypePartition && req.TransferredPercentage == nil {
			return missing("transferred_percentage")
		}
	case models.MutationTypeAddition:
		if req.ToOwnerID == nil {
			return missing("to_owner_id")
		}
		if req.TransferredPercentage == nil {
			return missing("transferred_percentage")
		}
	case models.MutationTypeRemoval:
		if req.FromOwnershipID == nil {
			return missing("from_ownership_id")
		}
	case models.MutationTypeCorrection:
		if (req.FromOwnershipID == nil) != (req.ToOwnerID == nil) {
			return appErrors.Clone(appErrors.ErrValidation, "correction mutations reference both from_ownership_id and to_owner_id or neither")
		}
	}
	return nil
}

// checkReferencedRows verifies the referenced share and owner exist and that the actor may file
// against them. Citizens must hold the source share; an heir may also file as the receiving owner.
// Without a source share the actor must currently hold some share of the property.
func (s *MutationService) checkReferencedRows(ctx context.Context, tx *sqlx.Tx, actor *models.JWTClaims, m *models.Mutation) error {
	onBehalf := s.authz.Can(actor, models.CapMutationViewAll)
	var holder *models.Owner
	if m.FromOwnershipID != nil {
		row, err := s.ownerships.GetByID(ctx, *m.FromOwnershipID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ownership")
		}
		if err != nil || !row.IsActive || row.PropertyID != m.PropertyID {
			return appErrors.Clone(appErrors.ErrOwnershipNotFound, fmt.Sprintf("ownership %d is not an active share of property %d", *m.FromOwnershipID, m.PropertyID))
		}
		if m.TransferredPercentage != nil && *m.TransferredPercentage > row.Percentage+ledgerTolerance {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("transferred share %.2f exceeds the held share %.2f", *m.TransferredPercentage, row.Percentage))
		}
		owner, err := s.owners.FindByIDTx(ctx, tx, row.OwnerID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load owner")
		}
		holder = owner
	}
	var target *models.Owner
	if m.ToOwnerID != nil {
		owner, err := s.owners.FindByIDTx(ctx, tx, *m.ToOwnerID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("owner %d not found", *m.ToOwnerID))
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load owner")
		}
		target = owner
	}
	if onBehalf {
		return nil
	}

	switch {
	case holder != nil:
		if linkedTo(holder, actor) {
			return nil
		}
		if m.MutationType == models.MutationTypeInheritance && target != nil && linkedTo(target, actor) {
			return nil
		}
		return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("ownership %d is not held by you", *m.FromOwnershipID))
	default:
		linked, err := s.ownerships.HasActiveLinkedOwnerTx(ctx, tx, m.PropertyID, actor.UserID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check ownership")
		}
		if !linked {
			return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("you hold no share of property %d", m.PropertyID))
		}
		return nil
	}
}

func linkedTo(owner *models.Owner, actor *models.JWTClaims) bool {
	return owner.UserID != nil && *owner.UserID == actor.UserID
}

// requireRegistered locks the property so a standing change cannot race the mutation.
func (s *MutationService) requireRegistered(ctx context.Context, tx *sqlx.Tx, propertyID int64, lock propertyLock) error {
	property, err := lock(ctx, tx, propertyID)
	if err != nil {
		return notFoundOr(err, "property not found", "failed to load property")
	}
	if !property.IsRegistered() {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("property %d is %s, not registered", propertyID, property.Status))
	}
	return nil
}

// StartReview takes a pending or answered mutation under review.
func (s *MutationService) StartReview(ctx context.Context, id int64, actor *models.JWTClaims, comments string) (*models.Mutation, error) {
	return s.transition(ctx, id, actor, models.CapMutationReview, "review", func(_ context.Context, _ *sqlx.Tx, m *models.Mutation, now time.Time) (interface{}, error) {
		if m.Status != models.MutationStatusPending && m.Status != models.MutationStatusInformationRequired {
			return nil, invalidTransition("mutation", string(m.Status), "put under review")
		}
		m.Status = models.MutationStatusUnderReview
		s.stamp(m, actor, now, comments)
		return nil, nil
	})
}

// VerifyDocuments records that the supporting documents were checked.
func (s *MutationService) VerifyDocuments(ctx context.Context, id int64, actor *models.JWTClaims, comments string) (*models.Mutation, error) {
	return s.transition(ctx, id, actor, models.CapMutationReview, "verify", func(_ context.Context, _ *sqlx.Tx, m *models.Mutation, now time.Time) (interface{}, error) {
		if m.Status != models.MutationStatusPending && m.Status != models.MutationStatusUnderReview {
			return nil, invalidTransition("mutation", string(m.Status), "verified")
		}
		m.Status = models.MutationStatusDocumentsVerified
		s.stamp(m, actor, now, comments)
		return nil, nil
	})
}

// Approve issues the mutation certificate and applies the change to the ownership ledger in the
// same transaction.
func (s *MutationService) Approve(ctx context.Context, id int64, actor *models.JWTClaims, comments string) (*models.Mutation, error) {
	return s.transition(ctx, id, actor, models.CapMutationReview, "approve", func(ctx context.Context, tx *sqlx.Tx, m *models.Mutation, now time.Time) (interface{}, error) {
		if m.Status.IsTerminal() {
			return nil, invalidTransition("mutation", string(m.Status), "approved")
		}
		// Approvals on one property serialize here so the ledger total is read after any
		// concurrent approval committed.
		if err := s.requireRegistered(ctx, tx, m.PropertyID, s.properties.LockForLedgerTx); err != nil {
			return nil, err
		}
		m.Status = models.MutationStatusApproved
		s.stamp(m, actor, now, comments)
		m.ApprovalDate = ptr(now)
		if m.MutationNumber == nil {
			m.MutationNumber = ptr(s.ids.MutationNumber(m))
		}
		m.CertificateNumber = ptr(s.ids.CertificateNumber(m))
		m.CertificateIssuedDate = ptr(now)

		change, err := s.ledger.Apply(ctx, tx, m, now)
		if err != nil {
			return nil, err
		}
		return change, nil
	})
}

// Reject closes the mutation with a reason.
func (s *MutationService) Reject(ctx context.Context, id int64, actor *models.JWTClaims, reason string) (*models.Mutation, error) {
	cleaned := s.sanitizer.CleanPtr(reason)
	if cleaned == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rejection reason is required")
	}
	return s.transition(ctx, id, actor, models.CapMutationReview, "reject", func(ctx context.Context, tx *sqlx.Tx, m *models.Mutation, now time.Time) (interface{}, error) {
		if m.Status.IsTerminal() {
			return nil, invalidTransition("mutation", string(m.Status), "rejected")
		}
		if err := s.requireRegistered(ctx, tx, m.PropertyID, s.properties.ShareLockByIDTx); err != nil {
			return nil, err
		}
		m.Status = models.MutationStatusRejected
		s.stamp(m, actor, now, "")
		m.RejectionDate = ptr(now)
		m.RejectionReason = cleaned
		return nil, nil
	})
}

// RequestInfo asks the requester for additional information.
func (s *MutationService) RequestInfo(ctx context.Context, id int64, actor *models.JWTClaims, information string) (*models.Mutation, error) {
	cleaned := s.sanitizer.CleanPtr(information)
	if cleaned == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "requested information is required")
	}
	return s.transition(ctx, id, actor, models.CapMutationReview, "request_info", func(ctx context.Context, tx *sqlx.Tx, m *models.Mutation, now time.Time) (interface{}, error) {
		if m.Status.IsTerminal() {
			return nil, invalidTransition("mutation", string(m.Status), "sent back for information")
		}
		if err := s.requireRegistered(ctx, tx, m.PropertyID, s.properties.ShareLockByIDTx); err != nil {
			return nil, err
		}
		m.Status = models.MutationStatusInformationRequired
		s.stamp(m, actor, now, "")
		m.AdditionalInfoRequired = cleaned
		return nil, nil
	})
}

// RespondToInfoRequest lets the requester answer an information request, returning the mutation
// to review.
func (s *MutationService) RespondToInfoRequest(ctx context.Context, id int64, actor *models.JWTClaims, response string) (*models.Mutation, error) {
	cleaned := s.sanitizer.CleanPtr(response)
	if cleaned == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "response is required")
	}
	return s.transition(ctx, id, actor, models.CapMutationRespond, "respond", func(_ context.Context, _ *sqlx.Tx, m *models.Mutation, _ time.Time) (interface{}, error) {
		if m.RequesterID != actor.UserID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "only the requester can respond")
		}
		if m.Status != models.MutationStatusInformationRequired {
			return nil, invalidTransition("mutation", string(m.Status), "answered")
		}
		m.Status = models.MutationStatusUnderReview
		m.CitizenResponse = cleaned
		return nil, nil
	})
}

// RecordPayment marks the fee of an open mutation as paid or waived. Collection happens outside
// the registry; only the outcome is recorded.
func (s *MutationService) RecordPayment(ctx context.Context, id int64, actor *models.JWTClaims, status string) (*models.Mutation, error) {
	if status != models.PaymentStatusPaid && status != models.PaymentStatusWaived {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("payment status must be %s or %s", models.PaymentStatusPaid, models.PaymentStatusWaived))
	}
	return s.transition(ctx, id, actor, models.CapMutationReview, "payment", func(_ context.Context, _ *sqlx.Tx, m *models.Mutation, _ time.Time) (interface{}, error) {
		if m.Status.IsTerminal() {
			return nil, invalidTransition("mutation", string(m.Status), "charged")
		}
		if m.PaymentStatus != models.PaymentStatusPending {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("payment already recorded as %s", m.PaymentStatus))
		}
		m.PaymentStatus = status
		return nil, nil
	})
}

// stamp records the officer handling the mutation.
func (s *MutationService) stamp(m *models.Mutation, actor *models.JWTClaims, now time.Time, comments string) {
	m.ProcessedBy = ptr(actor.UserID)
	m.ProcessingDate = ptr(now)
	if cleaned := s.sanitizer.CleanPtr(comments); cleaned != nil {
		m.OfficerComments = cleaned
	}
}

type mutationMutator func(ctx context.Context, tx *sqlx.Tx, m *models.Mutation, now time.Time) (interface{}, error)

func (s *MutationService) transition(ctx context.Context, id int64, actor *models.JWTClaims, capability models.Capability, action string, mutate mutationMutator) (mutation *models.Mutation, err error) {
	ctx, span := s.startSpan(ctx, "MutationService."+action, id, actor)
	defer func() { s.finish(span, "mutation", action, err) }()

	if err = s.authz.Require(actor, capability); err != nil {
		return nil, err
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	mutation, lerr := s.mutations.LockByIDTx(ctx, tx, id)
	if lerr != nil {
		err = notFoundOr(lerr, "mutation not found", "failed to load mutation")
		return nil, err
	}
	before := *mutation

	extra, merr := mutate(ctx, tx, mutation, s.now())
	if merr != nil {
		err = translateWriteError(merr, "failed to apply mutation")
		return nil, err
	}
	if uerr := s.mutations.UpdateWorkflowTx(ctx, tx, mutation, before.Status, before.Version); uerr != nil {
		err = translateWriteError(uerr, "failed to update mutation")
		return nil, err
	}
	if cerr := tx.Commit(); cerr != nil {
		err = appErrors.Wrap(cerr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit mutation")
		return nil, err
	}

	s.afterTransition(ctx, actor, action, &before, mutation, extra)
	return mutation, nil
}

func (s *MutationService) afterTransition(ctx context.Context, actor *models.JWTClaims, action string, before, after *models.Mutation, extra interface{}) {
	newValues := map[string]interface{}{
		"status":           after.Status,
		"version":          after.Version,
		"officer_comments": after.OfficerComments,
		"payment_status":   after.PaymentStatus,
	}
	if after.CertificateNumber != nil {
		newValues["mutation_certificate_number"] = after.CertificateNumber
	}
	if extra != nil {
		newValues["ledger"] = extra
	}
	s.emitAudit(ctx, actor, mutationAuditAction(action), models.AuditResourceMutations, after.ID,
		map[string]interface{}{"status": before.Status, "version": before.Version, "payment_status": before.PaymentStatus},
		newValues,
	)

	if event, payload, ok := mutationNotification(action, after); ok {
		s.notify(ctx, after.RequesterID, event, payload)
	}
}

func mutationAuditAction(action string) string {
	switch action {
	case "review":
		return models.AuditActionMutationReview
	case "verify":
		return models.AuditActionMutationVerify
	case "approve":
		return models.AuditActionMutationApprove
	case "reject":
		return models.AuditActionMutationReject
	case "request_info":
		return models.AuditActionMutationInfo
	case "payment":
		return models.AuditActionMutationPayment
	default:
		return models.AuditActionMutationRespond
	}
}

func mutationNotification(action string, m *models.Mutation) (models.NotificationEvent, NotificationPayload, bool) {
	number := derefString(m.MutationNumber)
	payload := NotificationPayload{EntityType: "mutation", EntityID: m.ID, Priority: models.NotificationPriorityNormal}
	switch action {
	case "review":
		payload.Title = "Mutation under review"
		payload.Message = fmt.Sprintf("Mutation %s is under review.", number)
		return models.EventMutationUnderReview, payload, true
	case "verify":
		payload.Title = "Mutation documents verified"
		payload.Message = fmt.Sprintf("Documents for mutation %s have been verified.", number)
		return models.EventMutationDocumentsVerified, payload, true
	case "approve":
		payload.Title = "Mutation approved"
		payload.Message = fmt.Sprintf("Mutation %s was approved. Certificate: %s.", number, derefString(m.CertificateNumber))
		payload.Priority = models.NotificationPriorityHigh
		return models.EventMutationApproved, payload, true
	case "reject":
		payload.Title = "Mutation rejected"
		payload.Message = fmt.Sprintf("Mutation %s was rejected: %s", number, derefString(m.RejectionReason))
		payload.Priority = models.NotificationPriorityHigh
		return models.EventMutationRejected, payload, true
	case "request_info":
		payload.Title = "Additional information required"
		payload.Message = fmt.Sprintf("Mutation %s needs more information: %s", number, derefString(m.AdditionalInfoRequired))
		payload.Priority = models.NotificationPriorityHigh
		return models.EventMutationInfoRequired, payload, true
	case "payment":
		payload.Title = "Mutation fee recorded"
		payload.Message = fmt.Sprintf("The fee for mutation %s is marked %s.", number, m.PaymentStatus)
		return models.EventMutationPaymentRecorded, payload, true
	}
	return "", payload, false
}

// Get returns a mutation when the actor may see it.
func (s *MutationService) Get(ctx context.Context, id int64, actor *models.JWTClaims) (*models.MutationView, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	mutation, err := s.mutations.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "mutation not found", "failed to load mutation")
	}
	if !s.authz.Can(actor, models.CapMutationViewAll) {
		if !s.authz.Can(actor, models.CapMutationViewOwn) {
			return nil, appErrors.ErrForbidden
		}
		if mutation.RequesterID != actor.UserID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "mutation belongs to another requester")
		}
	}
	view := mutation.View(s.now())
	return &view, nil
}

// List pages through mutations. Citizens only see their own requests.
func (s *MutationService) List(ctx context.Context, filter models.MutationFilter, actor *models.JWTClaims) ([]models.MutationView, *models.Pagination, error) {
	if actor == nil {
		return nil, nil, appErrors.ErrUnauthorized
	}
	switch {
	case s.authz.Can(actor, models.CapMutationViewAll):
	case s.authz.Can(actor, models.CapMutationViewOwn):
		filter.RequesterID = actor.UserID
	default:
		return nil, nil, appErrors.ErrForbidden
	}
	items, total, err := s.mutations.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list mutations")
	}
	now := s.now()
	views := make([]models.MutationView, 0, len(items))
	for i := range items {
		views = append(views, items[i].View(now))
	}
	return views, models.NewPagination(filter.Page, filter.PageSize, total), nil
}
