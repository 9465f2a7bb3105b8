package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/land-registry-api/internal/models"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
)

// publicHistoryLimit caps the approved mutations listed on a public property record.
const publicHistoryLimit = 50

type certificateReader interface {
	GetByCertificateNumber(ctx context.Context, number string) (*models.Mutation, error)
	List(ctx context.Context, filter models.MutationFilter) ([]models.Mutation, int, error)
}

type publicPropertyReader interface {
	GetByID(ctx context.Context, id int64) (*models.Property, error)
	GetByULPIN(ctx context.Context, ulpin string) (*models.Property, error)
}

type publicOwnershipReader interface {
	ListByProperty(ctx context.Context, propertyID int64, activeOnly bool) ([]models.Ownership, error)
}

// VerificationService answers unauthenticated lookups of issued certificates and registered
// properties with redacted records.
type VerificationService struct {
	mutations  certificateReader
	properties publicPropertyReader
	ownerships publicOwnershipReader
	cache      *CacheService
	logger     *zap.Logger
}

// NewVerificationService constructs the service. cache may be nil.
func NewVerificationService(mutations certificateReader, properties publicPropertyReader, ownerships publicOwnershipReader, cache *CacheService, logger *zap.Logger) *VerificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VerificationService{mutations: mutations, properties: properties, ownerships: ownerships, cache: cache, logger: logger}
}

// VerifyCertificate confirms a mutation certificate number belongs to an approved mutation.
func (s *VerificationService) VerifyCertificate(ctx context.Context, number string) (*models.CertificateVerification, error) {
	number = strings.ToUpper(strings.TrimSpace(number))
	if number == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "certificate number is required")
	}
	mutation, err := s.mutations.GetByCertificateNumber(ctx, number)
	if err != nil {
		return nil, notFoundOr(err, "certificate not found", "failed to load certificate")
	}
	if !mutation.IsApproved() || mutation.CertificateNumber == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
	}
	property, err := s.properties.GetByID(ctx, mutation.PropertyID)
	if err != nil {
		return nil, notFoundOr(err, "certificate not found", "failed to load property")
	}
	public, ok := property.Public()
	if !ok {
		s.logger.Warn("certificate references an unregistered property",
			zap.String("certificate_number", number),
			zap.Int64("property_id", property.ID),
		)
		return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
	}
	return &models.CertificateVerification{
		CertificateNumber: *mutation.CertificateNumber,
		MutationNumber:    derefString(mutation.MutationNumber),
		MutationType:      mutation.MutationType,
		IssuedAt:          mutation.CertificateIssuedDate,
		Property:          public,
	}, nil
}

// VerifyProperty returns the public record of a registered property: its current owners and
// approved mutations.
func (s *VerificationService) VerifyProperty(ctx context.Context, ulpin string) (*models.PropertyVerification, error) {
	ulpin = strings.ToUpper(strings.TrimSpace(ulpin))
	if ulpin == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ulpin is required")
	}
	property, err := s.propertyByULPIN(ctx, ulpin)
	if err != nil {
		return nil, err
	}
	public, ok := property.Public()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "property not found")
	}

	rows, err := s.ownerships.ListByProperty(ctx, property.ID, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ownerships")
	}
	owners := make([]models.PublicOwnership, 0, len(rows))
	for _, row := range rows {
		owners = append(owners, models.PublicOwnership{
			OwnerName:       row.OwnerName,
			Percentage:      row.Percentage,
			OwnershipType:   row.OwnershipType,
			AcquisitionDate: row.AcquisitionDate,
			AcquisitionMode: row.AcquisitionMode,
		})
	}

	approved, _, err := s.mutations.List(ctx, models.MutationFilter{
		Status:     []models.MutationStatus{models.MutationStatusApproved},
		PropertyID: property.ID,
		Page:       1,
		PageSize:   publicHistoryLimit,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mutation history")
	}
	history := make([]models.PublicMutation, 0, len(approved))
	for _, m := range approved {
		history = append(history, models.PublicMutation{
			MutationNumber:    derefString(m.MutationNumber),
			CertificateNumber: derefString(m.CertificateNumber),
			MutationType:      m.MutationType,
			ApprovalDate:      m.ApprovalDate,
		})
	}
	return &models.PropertyVerification{PublicProperty: public, Owners: owners, Mutations: history}, nil
}

func (s *VerificationService) propertyByULPIN(ctx context.Context, ulpin string) (*models.Property, error) {
	if s.cache != nil {
		if cached, ok := s.cache.PropertyByULPIN(ctx, ulpin); ok {
			return cached, nil
		}
	}
	property, err := s.properties.GetByULPIN(ctx, ulpin)
	if err != nil {
		return nil, notFoundOr(err, "property not found", "failed to load property")
	}
	if s.cache != nil {
		s.cache.StoreProperty(ctx, property)
	}
	return property, nil
}
