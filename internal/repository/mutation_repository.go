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

const mutationColumns = `id, mutation_number, mutation_certificate_number, property_id, requester_id, mutation_type,
	from_ownership_id, to_owner_id, transferred_percentage, description, reason, previous_owners, new_owners,
	status, version, processed_by, processing_date, approval_date, rejection_date, rejection_reason,
	officer_comments, additional_info_required, citizen_response, certificate_issued_date,
	mutation_fee, payment_status, priority, created_at, updated_at`

// MutationRepository persists ownership change requests.
type MutationRepository struct {
	db *sqlx.DB
}

// NewMutationRepository constructs the repository.
func NewMutationRepository(db *sqlx.DB) *MutationRepository {
	return &MutationRepository{db: db}
}

// CreateTx inserts a mutation and fills the generated id, version and timestamps. The mutation
// number is assigned afterwards with SetNumberTx because it embeds the id.
func (r *MutationRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, m *models.Mutation) error {
	const query = `INSERT INTO mutations (
		property_id, requester_id, mutation_type, from_ownership_id, to_owner_id, transferred_percentage,
		description, reason, previous_owners, new_owners, status, mutation_fee, payment_status, priority
	) VALUES (
		:property_id, :requester_id, :mutation_type, :from_ownership_id, :to_owner_id, :transferred_percentage,
		:description, :reason, :previous_owners, :new_owners, :status, :mutation_fee, :payment_status, :priority
	) RETURNING id, version, created_at, updated_at`

	rows, err := sqlx.NamedQueryContext(ctx, tx, query, m)
	if err != nil {
		return wrapWriteError("create mutation", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return fmt.Errorf("create mutation: %w", err)
		}
		return fmt.Errorf("create mutation: no row returned")
	}
	if err := rows.Scan(&m.ID, &m.Version, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return fmt.Errorf("scan created mutation: %w", err)
	}
	return nil
}

// SetNumberTx stores the mutation number on a freshly inserted row. The number is write-once.
func (r *MutationRepository) SetNumberTx(ctx context.Context, tx *sqlx.Tx, id int64, number string) error {
	const query = `UPDATE mutations SET mutation_number = $2 WHERE id = $1 AND mutation_number IS NULL`
	res, err := tx.ExecContext(ctx, query, id, number)
	if err != nil {
		return wrapWriteError("assign mutation number", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("assign mutation number rows affected: %w", err)
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// GetByID returns a mutation by id.
func (r *MutationRepository) GetByID(ctx context.Context, id int64) (*models.Mutation, error) {
	return r.get(ctx, r.db, `SELECT `+mutationColumns+` FROM mutations WHERE id = $1`, id)
}

// LockByIDTx reads the mutation and holds a row lock until the transaction ends.
func (r *MutationRepository) LockByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Mutation, error) {
	return r.get(ctx, tx, `SELECT `+mutationColumns+` FROM mutations WHERE id = $1 FOR UPDATE`, id)
}

// GetByCertificateNumber returns the mutation that issued the given certificate.
func (r *MutationRepository) GetByCertificateNumber(ctx context.Context, number string) (*models.Mutation, error) {
	return r.get(ctx, r.db, `SELECT `+mutationColumns+` FROM mutations WHERE mutation_certificate_number = $1`, strings.ToUpper(number))
}

func (r *MutationRepository) get(ctx context.Context, q sqlx.QueryerContext, query string, arg interface{}) (*models.Mutation, error) {
	var m models.Mutation
	if err := sqlx.GetContext(ctx, q, &m, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get mutation: %w", err)
	}
	return &m, nil
}

// List returns mutations matching the filter with the total count.
func (r *MutationRepository) List(ctx context.Context, filter models.MutationFilter) ([]models.Mutation, int, error) {
	var where whereBuilder
	if len(filter.Status) > 0 {
		statuses := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			statuses[i] = string(s)
		}
		where.addIn("status", statuses)
	}
	if filter.Type != "" {
		where.add("mutation_type = $%d", filter.Type)
	}
	if filter.PropertyID > 0 {
		where.add("property_id = $%d", filter.PropertyID)
	}
	if filter.RequesterID != "" {
		where.add("requester_id = $%d", filter.RequesterID)
	}

	limit, offset := pageBounds(filter.Page, filter.PageSize)
	query := fmt.Sprintf("SELECT %s FROM mutations%s ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d", mutationColumns, where.clause(), limit, offset)

	var items []models.Mutation
	if err := r.db.SelectContext(ctx, &items, query, where.args...); err != nil {
		return nil, 0, fmt.Errorf("list mutations: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM mutations"+where.clause(), where.args...); err != nil {
		return nil, 0, fmt.Errorf("count mutations: %w", err)
	}
	return items, total, nil
}

// UpdateWorkflowTx persists a transition guarded by the status and version the caller read.
// Identifiers already stored are never replaced.
func (r *MutationRepository) UpdateWorkflowTx(ctx context.Context, tx *sqlx.Tx, m *models.Mutation, expectedStatus models.MutationStatus, expectedVersion int) error {
	const query = `UPDATE mutations SET
		status = $2,
		mutation_number = COALESCE(mutation_number, $3),
		mutation_certificate_number = COALESCE(mutation_certificate_number, $4),
		processed_by = $5,
		processing_date = $6,
		approval_date = $7,
		rejection_date = $8,
		rejection_reason = $9,
		officer_comments = $10,
		additional_info_required = $11,
		citizen_response = $12,
		certificate_issued_date = $13,
		payment_status = $14,
		version = version + 1,
		updated_at = NOW()
	WHERE id = $1 AND status = $15 AND version = $16
	RETURNING version, updated_at`

	row := tx.QueryRowxContext(ctx, query,
		m.ID, m.Status, m.MutationNumber, m.CertificateNumber, m.ProcessedBy, m.ProcessingDate,
		m.ApprovalDate, m.RejectionDate, m.RejectionReason, m.OfficerComments, m.AdditionalInfoRequired,
		m.CitizenResponse, m.CertificateIssuedDate, m.PaymentStatus, expectedStatus, expectedVersion,
	)
	if err := row.Scan(&m.Version, &m.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVersionConflict
		}
		return wrapWriteError("update mutation workflow", err)
	}
	return nil
}
