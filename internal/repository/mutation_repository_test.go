package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/land-registry-api/internal/models"
)

func columnNames(list string) []string {
	parts := strings.Split(list, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if idx := strings.LastIndex(name, " AS "); idx >= 0 {
			name = name[idx+4:]
		}
		if idx := strings.Index(name, "."); idx >= 0 {
			name = name[idx+1:]
		}
		names = append(names, name)
	}
	return names
}

func mutationRow(id int64, status models.MutationStatus, version int, created time.Time) []driver.Value {
	number := "MUT2025000001"
	return []driver.Value{
		id, number, nil, int64(7), "citizen-1", string(models.MutationTypeSale),
		int64(11), int64(3), 40.0, nil, "sold part", nil, nil,
		string(status), version, nil, nil, nil, nil, nil,
		nil, nil, nil, nil,
		models.DefaultMutationFee, models.PaymentStatusPending, "normal", created, created,
	}
}

func TestMutationRepositoryCreateAssignsNumber(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMutationRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO mutations").
		WillReturnRows(sqlmock.NewRows([]string{"id", "version", "created_at", "updated_at"}).AddRow(int64(1), 1, now, now))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE mutations SET mutation_number = $2 WHERE id = $1 AND mutation_number IS NULL")).
		WithArgs(int64(1), "MUT2025000001").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)

	pct := 40.0
	mutation := &models.Mutation{
		PropertyID:            7,
		RequesterID:           "citizen-1",
		MutationType:          models.MutationTypeSale,
		TransferredPercentage: &pct,
		Status:                models.MutationStatusPending,
		MutationFee:           models.DefaultMutationFee,
		PaymentStatus:         models.PaymentStatusPending,
		Priority:              "normal",
	}
	require.NoError(t, repo.CreateTx(context.Background(), tx, mutation))
	assert.Equal(t, int64(1), mutation.ID)
	assert.Equal(t, 1, mutation.Version)

	require.NoError(t, repo.SetNumberTx(context.Background(), tx, mutation.ID, "MUT2025000001"))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMutationRepositorySetNumberIsWriteOnce(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMutationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE mutations SET mutation_number").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := db.Beginx()
	require.NoError(t, err)
	err = repo.SetNumberTx(context.Background(), tx, 1, "MUT2025000001")
	require.ErrorIs(t, err, ErrVersionConflict)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMutationRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMutationRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(columnNames(mutationColumns)).AddRow(mutationRow(5, models.MutationStatusUnderReview, 2, now)...)
	mock.ExpectQuery(regexp.QuoteMeta("FROM mutations WHERE id = $1")).WithArgs(int64(5)).WillReturnRows(rows)

	found, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, models.MutationStatusUnderReview, found.Status)
	require.NotNil(t, found.MutationNumber)
	assert.Equal(t, "MUT2025000001", *found.MutationNumber)
	require.NotNil(t, found.FromOwnershipID)
	assert.Equal(t, int64(11), *found.FromOwnershipID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMutationRepositoryGetByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMutationRepository(db)

	mock.ExpectQuery("FROM mutations WHERE id").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMutationRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMutationRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(columnNames(mutationColumns)).AddRow(mutationRow(1, models.MutationStatusPending, 1, now)...)
	mock.ExpectQuery(regexp.QuoteMeta("FROM mutations WHERE status IN ($1, $2) AND property_id = $3 AND requester_id = $4 ORDER BY created_at DESC, id DESC LIMIT 10 OFFSET 10")).
		WithArgs("pending", "under_review", int64(7), "citizen-1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM mutations WHERE status IN ($1, $2)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	items, total, err := repo.List(context.Background(), models.MutationFilter{
		Status:      []models.MutationStatus{models.MutationStatusPending, models.MutationStatusUnderReview},
		PropertyID:  7,
		RequesterID: "citizen-1",
		Page:        2,
		PageSize:    10,
	})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 11, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMutationRepositoryUpdateWorkflowConflict(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMutationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND status = $15 AND version = $16")).
		WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}))
	mock.ExpectRollback()

	tx, err := db.Beginx()
	require.NoError(t, err)

	mutation := &models.Mutation{ID: 3, Status: models.MutationStatusUnderReview, Version: 1}
	err = repo.UpdateWorkflowTx(context.Background(), tx, mutation, models.MutationStatusPending, 1)
	require.ErrorIs(t, err, ErrVersionConflict)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMutationRepositoryUpdateWorkflowBumpsVersion(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMutationRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE mutations SET").
		WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}).AddRow(3, now))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)

	cert := "MC2025000003"
	mutation := &models.Mutation{ID: 3, Status: models.MutationStatusApproved, Version: 2, CertificateNumber: &cert}
	require.NoError(t, repo.UpdateWorkflowTx(context.Background(), tx, mutation, models.MutationStatusDocumentsVerified, 2))
	require.NoError(t, tx.Commit())
	assert.Equal(t, 3, mutation.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMutationRepositoryGetByCertificateNumber(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMutationRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM mutations WHERE mutation_certificate_number = $1")).
		WithArgs("MC2025000003").
		WillReturnRows(sqlmock.NewRows(columnNames(mutationColumns)).AddRow(mutationRow(3, models.MutationStatusApproved, 4, now)...))

	m, err := repo.GetByCertificateNumber(context.Background(), "mc2025000003")
	require.NoError(t, err)
	assert.Equal(t, int64(3), m.ID)
	assert.Equal(t, models.MutationStatusApproved, m.Status)

	mock.ExpectQuery(regexp.QuoteMeta("FROM mutations WHERE mutation_certificate_number = $1")).
		WithArgs("MC0000000000").
		WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByCertificateNumber(context.Background(), "MC0000000000")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMutationRepositoryUpdateWorkflowPersistsPayment(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewMutationRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("payment_status = $14")).
		WithArgs(int64(3), models.MutationStatusUnderReview, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), models.PaymentStatusPaid, models.MutationStatusUnderReview, 2).
		WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}).AddRow(3, now))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	mutation := &models.Mutation{ID: 3, Status: models.MutationStatusUnderReview, Version: 2, PaymentStatus: models.PaymentStatusPaid}
	require.NoError(t, repo.UpdateWorkflowTx(context.Background(), tx, mutation, models.MutationStatusUnderReview, 2))
	require.NoError(t, tx.Commit())
	assert.Equal(t, 3, mutation.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}
