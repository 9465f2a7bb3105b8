package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/land-registry-api/internal/models"
)

const ownerColumns = `id, user_id, full_name, owner_type, father_name, phone, email, address, created_by, created_at, updated_at`

// OwnerRepository stores parties that can hold property shares.
type OwnerRepository struct {
	db *sqlx.DB
}

// NewOwnerRepository constructs the repository.
func NewOwnerRepository(db *sqlx.DB) *OwnerRepository {
	return &OwnerRepository{db: db}
}

// Create inserts an owner outside of any workflow transaction.
func (r *OwnerRepository) Create(ctx context.Context, owner *models.Owner) error {
	return r.create(ctx, r.db, owner)
}

// CreateTx inserts an owner as part of a larger transaction.
func (r *OwnerRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, owner *models.Owner) error {
	return r.create(ctx, tx, owner)
}

func (r *OwnerRepository) create(ctx context.Context, q sqlx.QueryerContext, owner *models.Owner) error {
	const query = `INSERT INTO owners (user_id, full_name, owner_type, father_name, phone, email, address, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	row := q.QueryRowxContext(ctx, query,
		owner.UserID, owner.FullName, owner.OwnerType, owner.FatherName, owner.Phone, owner.Email, owner.Address, owner.CreatedBy,
	)
	if err := row.Scan(&owner.ID, &owner.CreatedAt, &owner.UpdatedAt); err != nil {
		return wrapWriteError("create owner", err)
	}
	return nil
}

// FindByID returns an owner by id.
func (r *OwnerRepository) FindByID(ctx context.Context, id int64) (*models.Owner, error) {
	return r.find(ctx, r.db, `SELECT `+ownerColumns+` FROM owners WHERE id = $1`, id)
}

// FindByIDTx returns an owner by id inside a transaction.
func (r *OwnerRepository) FindByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Owner, error) {
	return r.find(ctx, tx, `SELECT `+ownerColumns+` FROM owners WHERE id = $1`, id)
}

// FindByUserIDTx returns the oldest owner record linked to a user account.
func (r *OwnerRepository) FindByUserIDTx(ctx context.Context, tx *sqlx.Tx, userID string) (*models.Owner, error) {
	return r.find(ctx, tx, `SELECT `+ownerColumns+` FROM owners WHERE user_id = $1 ORDER BY id LIMIT 1`, userID)
}

func (r *OwnerRepository) find(ctx context.Context, q sqlx.QueryerContext, query string, arg interface{}) (*models.Owner, error) {
	var owner models.Owner
	if err := sqlx.GetContext(ctx, q, &owner, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find owner: %w", err)
	}
	return &owner, nil
}

// List searches owners by name, email or phone.
func (r *OwnerRepository) List(ctx context.Context, filter models.OwnerFilter) ([]models.Owner, int, error) {
	var where whereBuilder
	if filter.UserID != "" {
		where.add("user_id = $%d", filter.UserID)
	}
	if filter.Search != "" {
		where.add("(full_name ILIKE $%[1]d OR email ILIKE $%[1]d OR phone ILIKE $%[1]d)", "%"+filter.Search+"%")
	}

	limit, offset := pageBounds(filter.Page, filter.PageSize)
	query := fmt.Sprintf("SELECT %s FROM owners%s ORDER BY full_name ASC, id ASC LIMIT %d OFFSET %d", ownerColumns, where.clause(), limit, offset)

	var owners []models.Owner
	if err := r.db.SelectContext(ctx, &owners, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list owners: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM owners"+where.clause(), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count owners: %w", err)
	}
	return owners, total, nil
}
