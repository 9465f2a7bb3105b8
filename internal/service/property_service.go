package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/land-registry-api/internal/dto"
	"github.com/noah-isme/land-registry-api/internal/models"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
)

type propertyStore interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, p *models.Property) error
	GetByID(ctx context.Context, id int64) (*models.Property, error)
	GetByULPIN(ctx context.Context, ulpin string) (*models.Property, error)
	LockByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Property, error)
	List(ctx context.Context, filter models.PropertyFilter) ([]models.Property, int, error)
	UpdateWorkflowTx(ctx context.Context, tx *sqlx.Tx, p *models.Property, expectedStatus models.PropertyStatus, expectedVersion int) error
	HasLinkedOwner(ctx context.Context, propertyID int64, userID string) (bool, error)
}

type propertyOwnershipStore interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, o *models.Ownership) error
	ListByProperty(ctx context.Context, propertyID int64, activeOnly bool) ([]models.Ownership, error)
	ActiveOwnerUserIDs(ctx context.Context, propertyID int64) ([]string, error)
}

type propertyOwnerStore interface {
	CreateTx(ctx context.Context, tx *sqlx.Tx, owner *models.Owner) error
	FindByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Owner, error)
	FindByUserIDTx(ctx context.Context, tx *sqlx.Tx, userID string) (*models.Owner, error)
}

// PropertyService runs the parcel registration workflow.
type PropertyService struct {
	workflowBase
	properties propertyStore
	ownerships propertyOwnershipStore
	owners     propertyOwnerStore
	validator  *validator.Validate
}

// NewPropertyService constructs the service.
func NewPropertyService(tx txProvider, properties propertyStore, ownerships propertyOwnershipStore, owners propertyOwnerStore, authz *Authorizer, validate *validator.Validate, logger *zap.Logger, opts ...WorkflowOption) *PropertyService {
	if validate == nil {
		validate = validator.New()
	}
	svc := &PropertyService{
		workflowBase: newWorkflowBase(tx, authz, logger),
		properties:   properties,
		ownerships:   ownerships,
		owners:       owners,
		validator:    validate,
	}
	svc.apply(opts)
	return svc
}

// Submit records a new pending parcel together with its declared owners.
func (s *PropertyService) Submit(ctx context.Context, actor *models.JWTClaims, req dto.SubmitPropertyRequest) (detail *models.PropertyDetail, err error) {
	ctx, span := s.startSpan(ctx, "PropertyService.Submit", 0, actor)
	defer func() { s.finish(span, "property", "submit", err) }()

	if err = s.authz.Require(actor, models.CapPropertySubmit); err != nil {
		return nil, err
	}
	if verr := s.validator.Struct(req); verr != nil {
		err = appErrors.Wrap(verr, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid property payload")
		return nil, err
	}

	owners, err := s.cleanDeclaredOwners(req.Owners)
	if err != nil {
		return nil, err
	}
	var required [4]string
	for i, field := range []struct{ name, value string }{
		{"survey_number", req.SurveyNumber},
		{"village_city", req.VillageCity},
		{"district", req.District},
		{"state", req.State},
	} {
		if required[i], err = s.sanitizer.Required(field.name, field.value); err != nil {
			return nil, err
		}
	}

	now := s.now()
	property := &models.Property{
		SurveyNumber:    required[0],
		SubDivision:     s.sanitizer.CleanOptional(req.SubDivision),
		PlotNumber:      s.sanitizer.CleanOptional(req.PlotNumber),
		VillageCity:     required[1],
		Locality:        s.sanitizer.CleanOptional(req.Locality),
		Taluka:          s.sanitizer.CleanOptional(req.Taluka),
		District:        required[2],
		State:           required[3],
		Pincode:         req.Pincode,
		Area:            req.Area,
		AreaUnit:        req.AreaUnit,
		PropertyType:    req.PropertyType,
		PropertySubtype: s.sanitizer.CleanOptional(req.PropertySubtype),
		LandUse:         s.sanitizer.CleanOptional(req.LandUse),
		MarketValue:     req.MarketValue,
		GovernmentValue: req.GovernmentValue,
		Description:     s.sanitizer.CleanOptional(req.Description),
		Status:          models.PropertyStatusPending,
		SubmittedBy:     actor.UserID,
	}
	if len(req.Boundary) > 0 {
		parcel, perr := ParseParcelBoundary(req.Boundary)
		if perr != nil {
			err = appErrors.Wrap(perr, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, perr.Error())
			return nil, err
		}
		boundary := types.JSONText(parcel.Boundary)
		property.Boundary = &boundary
		property.SurveyedAreaSqm = ptr(parcel.AreaSqm)
		property.Latitude = ptr(parcel.Latitude)
		property.Longitude = ptr(parcel.Longitude)
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

	if cerr := s.properties.CreateTx(ctx, tx, property); cerr != nil {
		err = translateWriteError(cerr, "failed to create property")
		return nil, err
	}

	ownerships, err := s.openDeclaredOwnerships(ctx, tx, actor, property, owners, now)
	if err != nil {
		return nil, err
	}

	if cerr := tx.Commit(); cerr != nil {
		err = appErrors.Wrap(cerr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit property")
		return nil, err
	}

	detail = &models.PropertyDetail{PropertyView: property.View(now), Ownerships: ownerships}
	s.emitAudit(ctx, actor, models.AuditActionPropertySubmit, models.AuditResourceProperties, property.ID, nil, detail)
	s.logger.Info("property submitted", zap.Int64("property_id", property.ID), zap.String("submitted_by", actor.UserID))
	return detail, nil
}

// cleanDeclaredOwners sanitizes new owner names and rounds shares before anything is written.
// A share that rounds to zero, or a total above the whole, fails validation.
func (s *PropertyService) cleanDeclaredOwners(declared []dto.DeclaredOwner) ([]dto.DeclaredOwner, error) {
	out := make([]dto.DeclaredOwner, len(declared))
	var total float64
	for i, d := range declared {
		d.Percentage = roundShare(d.Percentage)
		if d.Percentage <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "ownership_percentage must be at least 0.01")
		}
		total += d.Percentage
		if d.OwnerID == nil {
			name, err := s.sanitizer.Required("owner full_name", d.FullName)
			if err != nil {
				return nil, err
			}
			d.FullName = name
		}
		out[i] = d
	}
	if total > 100+ledgerTolerance {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("declared ownership totals %.2f%%", total))
	}
	return out, nil
}

func (s *PropertyService) openDeclaredOwnerships(ctx context.Context, tx *sqlx.Tx, actor *models.JWTClaims, property *models.Property, declared []dto.DeclaredOwner, now time.Time) ([]models.Ownership, error) {
	if len(declared) == 0 {
		owner, err := s.ownerForActor(ctx, tx, actor)
		if err != nil {
			return nil, err
		}
		declared = []dto.DeclaredOwner{{OwnerID: &owner.ID, Percentage: 100}}
	}

	rows := make([]models.Ownership, 0, len(declared))
	for _, d := range declared {
		owner, err := s.resolveDeclaredOwner(ctx, tx, actor, d)
		if err != nil {
			return nil, err
		}
		acquired := now
		if d.AcquisitionDate != nil {
			acquired = d.AcquisitionDate.UTC()
		}
		mode := d.AcquisitionMode
		if mode == "" {
			mode = models.AcquisitionPurchase
		}
		row := models.Ownership{
			PropertyID:      property.ID,
			OwnerID:         owner.ID,
			OwnerName:       owner.FullName,
			Percentage:      d.Percentage,
			OwnershipType:   models.OwnershipTypeForShare(d.Percentage),
			AcquisitionDate: acquired,
			AcquisitionMode: mode,
		}
		if err := s.ownerships.CreateTx(ctx, tx, &row); err != nil {
			return nil, translateWriteError(err, "failed to record ownership")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *PropertyService) resolveDeclaredOwner(ctx context.Context, tx *sqlx.Tx, actor *models.JWTClaims, d dto.DeclaredOwner) (*models.Owner, error) {
	if d.OwnerID != nil {
		owner, err := s.owners.FindByIDTx(ctx, tx, *d.OwnerID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("owner %d not found", *d.OwnerID))
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load owner")
		}
		return owner, nil
	}
	ownerType := d.OwnerType
	if ownerType == "" {
		ownerType = models.OwnerTypeIndividual
	}
	owner := &models.Owner{
		FullName:   d.FullName,
		OwnerType:  ownerType,
		FatherName: s.sanitizer.CleanOptional(d.FatherName),
		Phone:      d.Phone,
		Email:      d.Email,
		Address:    s.sanitizer.CleanOptional(d.Address),
		CreatedBy:  actor.UserID,
	}
	if err := s.owners.CreateTx(ctx, tx, owner); err != nil {
		return nil, translateWriteError(err, "failed to create owner")
	}
	return owner, nil
}

// ownerForActor returns the owner record linked to the actor's account, creating it on first use.
func (s *PropertyService) ownerForActor(ctx context.Context, tx *sqlx.Tx, actor *models.JWTClaims) (*models.Owner, error) {
	owner, err := s.owners.FindByUserIDTx(ctx, tx, actor.UserID)
	if err == nil {
		return owner, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load owner")
	}
	name := strings.TrimSpace(actor.FullName)
	if name == "" {
		name = actor.Email
	}
	if name == "" {
		name = actor.UserID
	}
	owner = &models.Owner{
		UserID:    ptr(actor.UserID),
		FullName:  name,
		OwnerType: models.OwnerTypeIndividual,
		CreatedBy: actor.UserID,
	}
	if actor.Email != "" {
		owner.Email = ptr(actor.Email)
	}
	if err := s.owners.CreateTx(ctx, tx, owner); err != nil {
		return nil, translateWriteError(err, "failed to create owner")
	}
	return owner, nil
}

// StartReview moves a pending property under review.
func (s *PropertyService) StartReview(ctx context.Context, id int64, actor *models.JWTClaims) (*models.Property, error) {
	return s.transition(ctx, id, actor, models.CapPropertyReview, "review", func(p *models.Property, _ time.Time) error {
		if p.Status != models.PropertyStatusPending {
			return invalidTransition("property", string(p.Status), "put under review")
		}
		p.Status = models.PropertyStatusUnderReview
		p.ReviewedBy = ptr(actor.UserID)
		return nil
	})
}

// VerifyDocuments records that the submitted documents were checked.
func (s *PropertyService) VerifyDocuments(ctx context.Context, id int64, actor *models.JWTClaims, remarks string) (*models.Property, error) {
	return s.transition(ctx, id, actor, models.CapPropertyReview, "verify", func(p *models.Property, _ time.Time) error {
		if p.Status != models.PropertyStatusPending && p.Status != models.PropertyStatusUnderReview {
			return invalidTransition("property", string(p.Status), "verified")
		}
		p.Status = models.PropertyStatusDocumentsVerified
		p.ReviewedBy = ptr(actor.UserID)
		if cleaned := s.sanitizer.CleanPtr(remarks); cleaned != nil {
			p.Remarks = cleaned
		}
		return nil
	})
}

// Approve registers the parcel and assigns its ULPIN.
func (s *PropertyService) Approve(ctx context.Context, id int64, actor *models.JWTClaims, remarks string) (*models.Property, error) {
	return s.transition(ctx, id, actor, models.CapPropertyReview, "approve", func(p *models.Property, now time.Time) error {
		if !p.IsPending() {
			return invalidTransition("property", string(p.Status), "approved")
		}
		p.Status = models.PropertyStatusApproved
		p.ApprovedBy = ptr(actor.UserID)
		if p.ReviewedBy == nil {
			p.ReviewedBy = ptr(actor.UserID)
		}
		p.ApprovalDate = ptr(now)
		p.RegistrationDate = ptr(now)
		if cleaned := s.sanitizer.CleanPtr(remarks); cleaned != nil {
			p.Remarks = cleaned
		}
		p.ULPIN = ptr(s.ids.ULPIN(p))
		return nil
	})
}

// Reject closes the registration with a reason.
func (s *PropertyService) Reject(ctx context.Context, id int64, actor *models.JWTClaims, reason string) (*models.Property, error) {
	cleaned := s.sanitizer.CleanPtr(reason)
	if cleaned == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rejection reason is required")
	}
	return s.transition(ctx, id, actor, models.CapPropertyReview, "reject", func(p *models.Property, _ time.Time) error {
		if !p.IsPending() {
			return invalidTransition("property", string(p.Status), "rejected")
		}
		p.Status = models.PropertyStatusRejected
		p.ReviewedBy = ptr(actor.UserID)
		p.RejectionReason = cleaned
		return nil
	})
}

// RequestInfo sends the registration back under review with remarks for the applicant.
func (s *PropertyService) RequestInfo(ctx context.Context, id int64, actor *models.JWTClaims, remarks string) (*models.Property, error) {
	cleaned := s.sanitizer.CleanPtr(remarks)
	if cleaned == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "remarks are required")
	}
	return s.transition(ctx, id, actor, models.CapPropertyReview, "request_info", func(p *models.Property, _ time.Time) error {
		if !p.IsPending() {
			return invalidTransition("property", string(p.Status), "sent back for information")
		}
		p.Status = models.PropertyStatusUnderReview
		p.ReviewedBy = ptr(actor.UserID)
		p.Remarks = cleaned
		return nil
	})
}

// ChangeStanding moves a registered parcel between approved, active, disputed and frozen.
func (s *PropertyService) ChangeStanding(ctx context.Context, id int64, actor *models.JWTClaims, target models.PropertyStatus, remarks string) (*models.Property, error) {
	if !target.IsStanding() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is not a standing", target))
	}
	return s.transition(ctx, id, actor, models.CapPropertyStanding, "standing", func(p *models.Property, _ time.Time) error {
		if !p.Status.IsStanding() || p.Status == target {
			return invalidTransition("property", string(p.Status), "moved to "+string(target))
		}
		p.Status = target
		if cleaned := s.sanitizer.CleanPtr(remarks); cleaned != nil {
			p.Remarks = cleaned
		}
		return nil
	})
}

// transition runs one locked, version-checked state change and its post-commit side effects.
func (s *PropertyService) transition(ctx context.Context, id int64, actor *models.JWTClaims, capability models.Capability, action string, mutate func(p *models.Property, now time.Time) error) (property *models.Property, err error) {
	ctx, span := s.startSpan(ctx, "PropertyService."+action, id, actor)
	defer func() { s.finish(span, "property", action, err) }()

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

	property, lerr := s.properties.LockByIDTx(ctx, tx, id)
	if lerr != nil {
		err = notFoundOr(lerr, "property not found", "failed to load property")
		return nil, err
	}
	before := *property

	if err = mutate(property, s.now()); err != nil {
		return nil, err
	}
	if uerr := s.properties.UpdateWorkflowTx(ctx, tx, property, before.Status, before.Version); uerr != nil {
		err = translateWriteError(uerr, "failed to update property")
		return nil, err
	}
	if cerr := tx.Commit(); cerr != nil {
		err = appErrors.Wrap(cerr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit property")
		return nil, err
	}

	s.afterTransition(ctx, actor, action, &before, property)
	return property, nil
}

func (s *PropertyService) afterTransition(ctx context.Context, actor *models.JWTClaims, action string, before, after *models.Property) {
	if s.cache != nil {
		s.cache.ForgetProperty(ctx, after)
	}
	s.emitAudit(ctx, actor, propertyAuditAction(action), models.AuditResourceProperties, after.ID,
		map[string]interface{}{"status": before.Status, "version": before.Version},
		map[string]interface{}{"status": after.Status, "version": after.Version, "ulpin": after.ULPIN, "remarks": after.Remarks, "rejection_reason": after.RejectionReason},
	)

	event, payload, ok := propertyNotification(action, after)
	if !ok {
		return
	}
	for _, userID := range s.stakeholders(ctx, after) {
		s.notify(ctx, userID, event, payload)
	}
}

// stakeholders are the submitter and every user linked to a current owner.
func (s *PropertyService) stakeholders(ctx context.Context, p *models.Property) []string {
	seen := map[string]struct{}{p.SubmittedBy: {}}
	users := []string{p.SubmittedBy}
	ids, err := s.ownerships.ActiveOwnerUserIDs(ctx, p.ID)
	if err != nil {
		s.logger.Warn("failed to resolve owners for notification", zap.Int64("property_id", p.ID), zap.Error(err))
		return users
	}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		users = append(users, id)
	}
	return users
}

func propertyAuditAction(action string) string {
	switch action {
	case "review":
		return models.AuditActionPropertyReview
	case "verify":
		return models.AuditActionPropertyVerify
	case "approve":
		return models.AuditActionPropertyApprove
	case "reject":
		return models.AuditActionPropertyReject
	case "request_info":
		return models.AuditActionPropertyInfo
	default:
		return models.AuditActionPropertyStanding
	}
}

func propertyNotification(action string, p *models.Property) (models.NotificationEvent, NotificationPayload, bool) {
	payload := NotificationPayload{EntityType: "property", EntityID: p.ID, Priority: models.NotificationPriorityNormal}
	label := fmt.Sprintf("survey %s, %s", p.SurveyNumber, p.VillageCity)
	switch action {
	case "review":
		payload.Title = "Property under review"
		payload.Message = fmt.Sprintf("Registration of %s is now under review.", label)
		return models.EventPropertyUnderReview, payload, true
	case "verify":
		payload.Title = "Property documents verified"
		payload.Message = fmt.Sprintf("Documents for %s have been verified.", label)
		return models.EventPropertyDocumentsVerified, payload, true
	case "approve":
		payload.Title = "Property approved"
		payload.Message = fmt.Sprintf("Registration of %s was approved. ULPIN: %s.", label, derefString(p.ULPIN))
		payload.Priority = models.NotificationPriorityHigh
		return models.EventPropertyApproved, payload, true
	case "reject":
		payload.Title = "Property rejected"
		payload.Message = fmt.Sprintf("Registration of %s was rejected: %s", label, derefString(p.RejectionReason))
		payload.Priority = models.NotificationPriorityHigh
		return models.EventPropertyRejected, payload, true
	case "request_info":
		payload.Title = "Additional information requested"
		payload.Message = fmt.Sprintf("The registrar needs more information for %s: %s", label, derefString(p.Remarks))
		payload.Priority = models.NotificationPriorityHigh
		return models.EventPropertyInfoRequested, payload, true
	case "standing":
		payload.Title = "Property standing changed"
		payload.Message = fmt.Sprintf("%s is now %s.", label, p.Status)
		return models.EventPropertyStandingChanged, payload, true
	}
	return "", payload, false
}

// Get returns a property with its current owners when the actor may see it.
func (s *PropertyService) Get(ctx context.Context, id int64, actor *models.JWTClaims) (*models.PropertyDetail, error) {
	property, err := s.load(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	ownerships, err := s.ownerships.ListByProperty(ctx, id, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ownerships")
	}
	return &models.PropertyDetail{PropertyView: property.View(s.now()), Ownerships: ownerships}, nil
}

// History returns the full ownership ledger of a property, closed rows included.
func (s *PropertyService) History(ctx context.Context, id int64, actor *models.JWTClaims) ([]models.Ownership, error) {
	if _, err := s.load(ctx, id, actor); err != nil {
		return nil, err
	}
	rows, err := s.ownerships.ListByProperty(ctx, id, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ownership history")
	}
	return rows, nil
}

func (s *PropertyService) load(ctx context.Context, id int64, actor *models.JWTClaims) (*models.Property, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "property not found", "failed to load property")
	}
	if s.authz.Can(actor, models.CapPropertyViewAll) {
		return property, nil
	}
	if !s.authz.Can(actor, models.CapPropertyViewOwn) {
		return nil, appErrors.ErrForbidden
	}
	if property.SubmittedBy == actor.UserID {
		return property, nil
	}
	linked, err := s.properties.HasLinkedOwner(ctx, id, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check ownership")
	}
	if !linked {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "property belongs to another applicant")
	}
	return property, nil
}

// GetByULPIN looks up a registered parcel by its identifier, served from cache when possible.
func (s *PropertyService) GetByULPIN(ctx context.Context, ulpin string, actor *models.JWTClaims) (*models.PropertyView, error) {
	if err := s.authz.Require(actor, models.CapPropertyViewAll); err != nil {
		return nil, err
	}
	ulpin = strings.ToUpper(strings.TrimSpace(ulpin))
	if ulpin == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ulpin is required")
	}
	if s.cache != nil {
		if cached, ok := s.cache.PropertyByULPIN(ctx, ulpin); ok {
			view := cached.View(s.now())
			return &view, nil
		}
	}
	property, err := s.properties.GetByULPIN(ctx, ulpin)
	if err != nil {
		return nil, notFoundOr(err, "property not found", "failed to load property")
	}
	if s.cache != nil {
		s.cache.StoreProperty(ctx, property)
	}
	view := property.View(s.now())
	return &view, nil
}

// List pages through properties. Citizens only see their own submissions.
func (s *PropertyService) List(ctx context.Context, filter models.PropertyFilter, actor *models.JWTClaims) ([]models.PropertyView, *models.Pagination, error) {
	if actor == nil {
		return nil, nil, appErrors.ErrUnauthorized
	}
	switch {
	case s.authz.Can(actor, models.CapPropertyViewAll):
	case s.authz.Can(actor, models.CapPropertyViewOwn):
		filter.SubmittedBy = actor.UserID
	default:
		return nil, nil, appErrors.ErrForbidden
	}
	items, total, err := s.properties.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list properties")
	}
	now := s.now()
	views := make([]models.PropertyView, 0, len(items))
	for i := range items {
		views = append(views, items[i].View(now))
	}
	return views, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
