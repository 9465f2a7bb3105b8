package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/land-registry-api/internal/models"
)

const ownershipColumns = `o.id, o.property_id, o.owner_id, w.full_name AS owner_name, o.ownership_percentage, o.ownership_type,
	o.acquisition_date, o.acquisition_mode, o.is_active, o.end_date, o.opened_by_mutation_id, o.closed_by_mutation_id,
	o.remarks, o.created_at`

// OwnershipRepository manages the ownership ledger rows.
type OwnershipRepository struct {
	db *sqlx.DB
}

// NewOwnershipRepository constructs the repository.
func NewOwnershipRepository(db *sqlx.DB) *OwnershipRepository {
	return &OwnershipRepository{db: db}
}

// CreateTx opens a ledger row.
func (r *OwnershipRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, o *models.Ownership) error {
	const query = `INSERT INTO ownerships (
		property_id, owner_id, ownership_percentage, ownership_type, acquisition_date, acquisition_mode,
		is_active, opened_by_mutation_id, remarks
	) VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $8)
	RETURNING id, created_at`

	row := tx.QueryRowxContext(ctx, query,
		o.PropertyID, o.OwnerID, o.Percentage, o.OwnershipType, o.AcquisitionDate, o.AcquisitionMode,
		o.OpenedByMutationID, o.Remarks,
	)
	if err := row.Scan(&o.ID, &o.CreatedAt); err != nil {
		return wrapWriteError("create ownership", err)
	}
	o.IsActive = true
	return nil
}

// GetByID returns a ledger row.
func (r *OwnershipRepository) GetByID(ctx context.Context, id int64) (*models.Ownership, error) {
	return r.get(ctx, r.db, `SELECT `+ownershipColumns+` FROM ownerships o JOIN owners w ON w.id = o.owner_id WHERE o.id = $1`, id)
}

// LockByIDTx reads a ledger row and locks it for the rest of the transaction.
func (r *OwnershipRepository) LockByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Ownership, error) {
	return r.get(ctx, tx, `SELECT `+ownershipColumns+` FROM ownerships o JOIN owners w ON w.id = o.owner_id WHERE o.id = $1 FOR UPDATE OF o`, id)
}

func (r *OwnershipRepository) get(ctx context.Context, q sqlx.QueryerContext, query string, id int64) (*models.Ownership, error) {
	var o models.Ownership
	if err := sqlx.GetContext(ctx, q, &o, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get ownership: %w", err)
	}
	return &o, nil
}

// CloseTx ends an active ledger row. ErrVersionConflict signals the row was already closed.
func (r *OwnershipRepository) CloseTx(ctx context.Context, tx *sqlx.Tx, id int64, endDate time.Time, mutationID *int64) error {
	const query = `UPDATE ownerships SET is_active = FALSE, end_date = $2, closed_by_mutation_id = $3 WHERE id = $1 AND is_active`
	res, err := tx.ExecContext(ctx, query, id, endDate, mutationID)
	if err != nil {
		return fmt.Errorf("close ownership: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("close ownership rows affected: %w", err)
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// SumActiveTx totals the active shares of a property inside the transaction.
func (r *OwnershipRepository) SumActiveTx(ctx context.Context, tx *sqlx.Tx, propertyID int64) (float64, error) {
	var total float64
	const query = `SELECT COALESCE(SUM(ownership_percentage), 0) FROM ownerships WHERE property_id = $1 AND is_active`
	if err := tx.GetContext(ctx, &total, query, propertyID); err != nil {
		return 0, fmt.Errorf("sum active ownership: %w", err)
	}
	return total, nil
}

// HasActiveLinkedOwnerTx reports whether the user is linked to an owner currently holding a share
// of the property.
func (r *OwnershipRepository) HasActiveLinkedOwnerTx(ctx context.Context, tx *sqlx.Tx, propertyID int64, userID string) (bool, error) {
	const query = `SELECT EXISTS (
		SELECT 1 FROM ownerships o JOIN owners w ON w.id = o.owner_id
		WHERE o.property_id = $1 AND o.is_active AND w.user_id = $2
	)`
	var exists bool
	if err := tx.GetContext(ctx, &exists, query, propertyID, userID); err != nil {
		return false, fmt.Errorf("check active linked owner: %w", err)
	}
	return exists, nil
}

// ListByProperty returns the ledger of a property, newest first. activeOnly limits the result to
// current holdings.
func (r *OwnershipRepository) ListByProperty(ctx context.Context, propertyID int64, activeOnly bool) ([]models.Ownership, error) {
	query := `SELECT ` + ownershipColumns + ` FROM ownerships o JOIN owners w ON w.id = o.owner_id WHERE o.property_id = $1`
	if activeOnly {
		query += ` AND o.is_active`
	}
	query += ` ORDER BY o.acquisition_date DESC, o.id DESC`

	var items []models.Ownership
	if err := r.db.SelectContext(ctx, &items, query, propertyID); err != nil {
		return nil, fmt.Errorf("list ownerships: %w", err)
	}
	return items, nil
}

// ActiveOwnerUserIDs returns the distinct user accounts linked to current owners of a property.
func (r *OwnershipRepository) ActiveOwnerUserIDs(ctx context.Context, propertyID int64) ([]string, error) {
	const query = `SELECT DISTINCT w.user_id FROM ownerships o JOIN owners w ON w.id = o.owner_id
		WHERE o.property_id = $1 AND o.is_active AND w.user_id IS NOT NULL`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, propertyID); err != nil {
		return nil, fmt.Errorf("list owner users: %w", err)
	}
	return ids, nil
}
