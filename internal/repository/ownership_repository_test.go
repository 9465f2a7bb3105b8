package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/land-registry-api/internal/models"
)

func TestOwnershipRepositoryCreateTx(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOwnershipRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO ownerships").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(12), now))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)

	row := &models.Ownership{
		PropertyID:      7,
		OwnerID:         3,
		Percentage:      40,
		OwnershipType:   models.OwnershipTypeJoint,
		AcquisitionDate: now,
		AcquisitionMode: models.AcquisitionPurchase,
	}
	require.NoError(t, repo.CreateTx(context.Background(), tx, row))
	require.NoError(t, tx.Commit())
	assert.Equal(t, int64(12), row.ID)
	assert.True(t, row.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOwnershipRepositoryCreateTxCheckViolation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOwnershipRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO ownerships").WillReturnError(&pq.Error{Code: "23514", Constraint: "ownerships_ownership_percentage_check"})
	mock.ExpectRollback()

	tx, err := db.Beginx()
	require.NoError(t, err)
	err = repo.CreateTx(context.Background(), tx, &models.Ownership{PropertyID: 7, OwnerID: 3, Percentage: 140})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUniqueViolation)
	require.NoError(t, tx.Rollback())
}

func TestOwnershipRepositoryCloseTxAlreadyClosed(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOwnershipRepository(db)

	mutationID := int64(5)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE ownerships SET is_active = FALSE")).
		WithArgs(int64(11), sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := db.Beginx()
	require.NoError(t, err)
	err = repo.CloseTx(context.Background(), tx, 11, time.Now(), &mutationID)
	require.ErrorIs(t, err, ErrVersionConflict)
	require.NoError(t, tx.Rollback())
}

func TestOwnershipRepositorySumActiveTx(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOwnershipRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(ownership_percentage), 0) FROM ownerships")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(100.0))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	total, err := repo.SumActiveTx(context.Background(), tx, 7)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, total, 1e-9)
	require.NoError(t, tx.Commit())
}

func TestOwnershipRepositoryListByPropertyActiveOnly(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOwnershipRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(columnNames(ownershipColumns)).
		AddRow(int64(1), int64(7), int64(3), "Asha Patil", 60.0, "joint", now, "purchase", true, nil, nil, nil, nil, now).
		AddRow(int64(2), int64(7), int64(4), "Ravi Patil", 40.0, "joint", now, "purchase", true, nil, int64(5), nil, nil, now)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE o.property_id = $1 AND o.is_active ORDER BY")).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	items, err := repo.ListByProperty(context.Background(), 7, true)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Asha Patil", items[0].OwnerName)
	require.NotNil(t, items[1].OpenedByMutationID)
	assert.Equal(t, int64(5), *items[1].OpenedByMutationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOwnershipRepositoryActiveOwnerUserIDs(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOwnershipRepository(db)

	mock.ExpectQuery("SELECT DISTINCT w.user_id").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("citizen-1").AddRow("citizen-2"))

	ids, err := repo.ActiveOwnerUserIDs(context.Background(), 7)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"citizen-1", "citizen-2"}, ids)
}

func TestOwnershipRepositoryHasActiveLinkedOwnerTx(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOwnershipRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE o.property_id = $1 AND o.is_active AND w.user_id = $2")).
		WithArgs(int64(7), "citizen-2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	tx, err := db.Beginx()
	require.NoError(t, err)
	linked, err := repo.HasActiveLinkedOwnerTx(context.Background(), tx, 7, "citizen-2")
	require.NoError(t, err)
	assert.False(t, linked)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
