package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/land-registry-api/internal/models"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
)

type ledgerOwnershipStore interface {
	LockByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Ownership, error)
	CreateTx(ctx context.Context, tx *sqlx.Tx, o *models.Ownership) error
	CloseTx(ctx context.Context, tx *sqlx.Tx, id int64, endDate time.Time, mutationID *int64) error
	SumActiveTx(ctx context.Context, tx *sqlx.Tx, propertyID int64) (float64, error)
}

type ledgerOwnerStore interface {
	FindByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Owner, error)
}

// OwnershipLedger turns an approved mutation into ledger rows. It always runs inside the caller's
// transaction so the ledger and the mutation status commit or roll back together.
type OwnershipLedger struct {
	ownerships ledgerOwnershipStore
	owners     ledgerOwnerStore
	logger     *zap.Logger
}

// NewOwnershipLedger constructs the ledger.
func NewOwnershipLedger(ownerships ledgerOwnershipStore, owners ledgerOwnerStore, logger *zap.Logger) *OwnershipLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OwnershipLedger{ownerships: ownerships, owners: owners, logger: logger}
}

// Apply records the ownership change described by m, effective at the given instant.
func (l *OwnershipLedger) Apply(ctx context.Context, tx *sqlx.Tx, m *models.Mutation, effective time.Time) (*models.LedgerChange, error) {
	change := &models.LedgerChange{Closed: []int64{}, Opened: []int64{}}

	var err error
	switch m.MutationType {
	case models.MutationTypeSale, models.MutationTypeInheritance, models.MutationTypeGift,
		models.MutationTypeTransfer, models.MutationTypePartition:
		err = l.transfer(ctx, tx, m, effective, change)
	case models.MutationTypeAddition:
		err = l.add(ctx, tx, m, effective, change)
	case models.MutationTypeRemoval:
		err = l.remove(ctx, tx, m, effective, change)
	case models.MutationTypeCorrection:
		if m.FromOwnershipID == nil || m.ToOwnerID == nil {
			return change, nil
		}
		err = l.transfer(ctx, tx, m, effective, change)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported mutation type %q", m.MutationType))
	}
	if err != nil {
		return nil, err
	}

	total, err := l.ownerships.SumActiveTx(ctx, tx, m.PropertyID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to total ownership shares")
	}
	if total > 100+ledgerTolerance {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("active ownership would total %.4f%%", total))
	}

	l.logger.Debug("ledger updated",
		zap.Int64("mutation_id", m.ID),
		zap.Int64("property_id", m.PropertyID),
		zap.Int64s("closed", change.Closed),
		zap.Int64s("opened", change.Opened),
	)
	return change, nil
}

func (l *OwnershipLedger) transfer(ctx context.Context, tx *sqlx.Tx, m *models.Mutation, effective time.Time, change *models.LedgerChange) error {
	if m.ToOwnerID == nil {
		return appErrors.Clone(appErrors.ErrValidation, "to_owner_id is required")
	}
	source, err := l.lockSource(ctx, tx, m)
	if err != nil {
		return err
	}

	share := source.Percentage
	if m.TransferredPercentage != nil {
		share = *m.TransferredPercentage
	}
	if m.MutationType == models.MutationTypePartition && (m.TransferredPercentage == nil || share >= source.Percentage-ledgerTolerance) {
		return appErrors.Clone(appErrors.ErrValidation, "partition must transfer less than the full share")
	}
	if share <= 0 || share > source.Percentage+ledgerTolerance {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("transferred share must be within (0, %.4f]", source.Percentage))
	}
	if err := l.requireOwner(ctx, tx, *m.ToOwnerID); err != nil {
		return err
	}

	if err := l.close(ctx, tx, source.ID, effective, m.ID, change); err != nil {
		return err
	}

	if remainder := source.Percentage - share; remainder > ledgerTolerance {
		retained := &models.Ownership{
			PropertyID:         source.PropertyID,
			OwnerID:            source.OwnerID,
			Percentage:         roundShare(remainder),
			OwnershipType:      models.OwnershipTypeForShare(remainder),
			AcquisitionDate:    source.AcquisitionDate,
			AcquisitionMode:    source.AcquisitionMode,
			OpenedByMutationID: &m.ID,
		}
		if err := l.open(ctx, tx, retained, change); err != nil {
			return err
		}
	}

	return l.open(ctx, tx, &models.Ownership{
		PropertyID:         m.PropertyID,
		OwnerID:            *m.ToOwnerID,
		Percentage:         roundShare(share),
		OwnershipType:      models.OwnershipTypeForShare(share),
		AcquisitionDate:    effective,
		AcquisitionMode:    m.MutationType.AcquisitionMode(),
		OpenedByMutationID: &m.ID,
	}, change)
}

func (l *OwnershipLedger) add(ctx context.Context, tx *sqlx.Tx, m *models.Mutation, effective time.Time, change *models.LedgerChange) error {
	if m.ToOwnerID == nil || m.TransferredPercentage == nil {
		return appErrors.Clone(appErrors.ErrValidation, "addition requires to_owner_id and transferred_percentage")
	}
	share := *m.TransferredPercentage
	if share <= 0 || share > 100 {
		return appErrors.Clone(appErrors.ErrValidation, "transferred_percentage must be within (0, 100]")
	}
	if err := l.requireOwner(ctx, tx, *m.ToOwnerID); err != nil {
		return err
	}
	return l.open(ctx, tx, &models.Ownership{
		PropertyID:         m.PropertyID,
		OwnerID:            *m.ToOwnerID,
		Percentage:         roundShare(share),
		OwnershipType:      models.OwnershipTypeForShare(share),
		AcquisitionDate:    effective,
		AcquisitionMode:    m.MutationType.AcquisitionMode(),
		OpenedByMutationID: &m.ID,
	}, change)
}

func (l *OwnershipLedger) remove(ctx context.Context, tx *sqlx.Tx, m *models.Mutation, effective time.Time, change *models.LedgerChange) error {
	source, err := l.lockSource(ctx, tx, m)
	if err != nil {
		return err
	}
	return l.close(ctx, tx, source.ID, effective, m.ID, change)
}

func (l *OwnershipLedger) lockSource(ctx context.Context, tx *sqlx.Tx, m *models.Mutation) (*models.Ownership, error) {
	if m.FromOwnershipID == nil {
		return nil, appErrors.Clone(appErrors.ErrOwnershipNotFound, "from_ownership_id is required")
	}
	source, err := l.ownerships.LockByIDTx(ctx, tx, *m.FromOwnershipID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrOwnershipNotFound, fmt.Sprintf("ownership %d not found", *m.FromOwnershipID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to lock ownership")
	}
	if !source.IsActive || source.PropertyID != m.PropertyID {
		return nil, appErrors.Clone(appErrors.ErrOwnershipNotFound, fmt.Sprintf("ownership %d is not active on property %d", source.ID, m.PropertyID))
	}
	return source, nil
}

func (l *OwnershipLedger) requireOwner(ctx context.Context, tx *sqlx.Tx, ownerID int64) error {
	if _, err := l.owners.FindByIDTx(ctx, tx, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("owner %d not found", ownerID))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load owner")
	}
	return nil
}

func (l *OwnershipLedger) close(ctx context.Context, tx *sqlx.Tx, id int64, effective time.Time, mutationID int64, change *models.LedgerChange) error {
	if err := l.ownerships.CloseTx(ctx, tx, id, effective, &mutationID); err != nil {
		return translateWriteError(err, "failed to close ownership")
	}
	change.Closed = append(change.Closed, id)
	return nil
}

func (l *OwnershipLedger) open(ctx context.Context, tx *sqlx.Tx, row *models.Ownership, change *models.LedgerChange) error {
	if err := l.ownerships.CreateTx(ctx, tx, row); err != nil {
		return translateWriteError(err, "failed to open ownership")
	}
	change.Opened = append(change.Opened, row.ID)
	return nil
}

// roundShare trims float noise to the two decimals stored in the database.
func roundShare(v float64) float64 {
	return math.Round(v*100) / 100
}
