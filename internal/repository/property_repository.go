package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/land-registry-api/internal/models"
)

const propertyColumns = `id, ulpin, survey_number, sub_division, plot_number, village_city, locality, taluka, district, state, pincode,
	area, area_unit, surveyed_area_sqm, latitude, longitude, boundary,
	property_type, property_subtype, land_use, market_value, government_value, description,
	status, version, submitted_by, reviewed_by, approved_by, approval_date, registration_date, rejection_reason, remarks,
	created_at, updated_at`

// PropertyRepository persists land parcels and their workflow state.
type PropertyRepository struct {
	db *sqlx.DB
}

// NewPropertyRepository constructs the repository.
func NewPropertyRepository(db *sqlx.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// CreateTx inserts a pending property and fills the generated id, version and timestamps.
func (r *PropertyRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, p *models.Property) error {
	const query = `INSERT INTO properties (
		survey_number, sub_division, plot_number, village_city, locality, taluka, district, state, pincode,
		area, area_unit, surveyed_area_sqm, latitude, longitude, boundary,
		property_type, property_subtype, land_use, market_value, government_value, description,
		status, submitted_by
	) VALUES (
		:survey_number, :sub_division, :plot_number, :village_city, :locality, :taluka, :district, :state, :pincode,
		:area, :area_unit, :surveyed_area_sqm, :latitude, :longitude, :boundary,
		:property_type, :property_subtype, :land_use, :market_value, :government_value, :description,
		:status, :submitted_by
	) RETURNING id, version, created_at, updated_at`

	rows, err := sqlx.NamedQueryContext(ctx, tx, query, p)
	if err != nil {
		return wrapWriteError("create property", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return fmt.Errorf("create property: %w", err)
		}
		return fmt.Errorf("create property: no row returned")
	}
	if err := rows.Scan(&p.ID, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("scan created property: %w", err)
	}
	return nil
}

// GetByID returns a property by id.
func (r *PropertyRepository) GetByID(ctx context.Context, id int64) (*models.Property, error) {
	return r.get(ctx, r.db, `SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id)
}

// GetByULPIN returns the property carrying the given ULPIN.
func (r *PropertyRepository) GetByULPIN(ctx context.Context, ulpin string) (*models.Property, error) {
	return r.get(ctx, r.db, `SELECT `+propertyColumns+` FROM properties WHERE ulpin = $1`, strings.ToUpper(ulpin))
}

// LockByIDTx reads the property and holds a row lock until the transaction ends.
func (r *PropertyRepository) LockByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Property, error) {
	return r.get(ctx, tx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1 FOR UPDATE`, id)
}

// ShareLockByIDTx reads the property and blocks concurrent writers without blocking readers.
func (r *PropertyRepository) ShareLockByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Property, error) {
	return r.get(ctx, tx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1 FOR SHARE`, id)
}

// LockForLedgerTx takes an exclusive row lock that still lets ownership inserts check their
// foreign key. Ledger changes on one property serialize on it.
func (r *PropertyRepository) LockForLedgerTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Property, error) {
	return r.get(ctx, tx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1 FOR NO KEY UPDATE`, id)
}

func (r *PropertyRepository) get(ctx context.Context, q sqlx.QueryerContext, query string, arg interface{}) (*models.Property, error) {
	var p models.Property
	if err := sqlx.GetContext(ctx, q, &p, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return &p, nil
}

// List returns properties matching the filter with the total count.
func (r *PropertyRepository) List(ctx context.Context, filter models.PropertyFilter) ([]models.Property, int, error) {
	var where whereBuilder
	if len(filter.Status) > 0 {
		statuses := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			statuses[i] = string(s)
		}
		where.addIn("status", statuses)
	}
	if filter.State != "" {
		where.add("LOWER(state) = LOWER($%d)", filter.State)
	}
	if filter.District != "" {
		where.add("LOWER(district) = LOWER($%d)", filter.District)
	}
	if filter.PropertyType != "" {
		where.add("property_type = $%d", filter.PropertyType)
	}
	if filter.SubmittedBy != "" {
		where.add("submitted_by = $%d", filter.SubmittedBy)
	}
	if filter.Search != "" {
		where.add("(ulpin ILIKE $%[1]d OR survey_number ILIKE $%[1]d OR village_city ILIKE $%[1]d)", "%"+filter.Search+"%")
	}

	limit, offset := pageBounds(filter.Page, filter.PageSize)
	query := fmt.Sprintf("SELECT %s FROM properties%s ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d", propertyColumns, where.clause(), limit, offset)

	var items []models.Property
	if err := r.db.SelectContext(ctx, &items, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list properties: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM properties"+where.clause(), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count properties: %w", err)
	}
	return items, total, nil
}

// UpdateWorkflowTx persists a workflow transition. The update only applies while the row still
// carries the status and version the caller read; otherwise ErrVersionConflict is returned. An
// existing ULPIN is never overwritten.
func (r *PropertyRepository) UpdateWorkflowTx(ctx context.Context, tx *sqlx.Tx, p *models.Property, expectedStatus models.PropertyStatus, expectedVersion int) error {
	const query = `UPDATE properties SET
		status = $2,
		ulpin = COALESCE(ulpin, $3),
		reviewed_by = $4,
		approved_by = $5,
		approval_date = $6,
		registration_date = $7,
		rejection_reason = $8,
		remarks = $9,
		version = version + 1,
		updated_at = NOW()
	WHERE id = $1 AND status = $10 AND version = $11
	RETURNING version, updated_at`

	row := tx.QueryRowxContext(ctx, query,
		p.ID, p.Status, p.ULPIN, p.ReviewedBy, p.ApprovedBy, p.ApprovalDate, p.RegistrationDate,
		p.RejectionReason, p.Remarks, expectedStatus, expectedVersion,
	)
	if err := row.Scan(&p.Version, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVersionConflict
		}
		return wrapWriteError("update property workflow", err)
	}
	return nil
}

// HasLinkedOwner reports whether the user is linked to an owner holding or having held a share.
func (r *PropertyRepository) HasLinkedOwner(ctx context.Context, propertyID int64, userID string) (bool, error) {
	const query = `SELECT EXISTS (
		SELECT 1 FROM ownerships o JOIN owners w ON w.id = o.owner_id
		WHERE o.property_id = $1 AND w.user_id = $2
	)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, propertyID, userID); err != nil {
		return false, fmt.Errorf("check linked owner: %w", err)
	}
	return exists, nil
}
