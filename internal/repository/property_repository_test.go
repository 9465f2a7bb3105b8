package repository

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/land-registry-api/internal/models"
)

func propertyRow(id int64, ulpin interface{}, status models.PropertyStatus, version int, created time.Time) []driver.Value {
	return []driver.Value{
		id, ulpin, "123/4", nil, nil, "Shivapur", nil, nil, "Pune", "Maharashtra", "411001",
		2.5, "acre", nil, nil, nil, nil,
		string(models.PropertyTypeAgricultural), nil, nil, nil, nil, nil,
		string(status), version, "citizen-1", nil, nil, nil, nil, nil, nil,
		created, created,
	}
}

func TestPropertyRepositoryCreateTx(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPropertyRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO properties").
		WillReturnRows(sqlmock.NewRows([]string{"id", "version", "created_at", "updated_at"}).AddRow(int64(42), 1, now, now))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)

	property := &models.Property{
		SurveyNumber: "123/4",
		VillageCity:  "Shivapur",
		District:     "Pune",
		State:        "Maharashtra",
		Pincode:      "411001",
		Area:         2.5,
		AreaUnit:     "acre",
		PropertyType: models.PropertyTypeAgricultural,
		Status:       models.PropertyStatusPending,
		SubmittedBy:  "citizen-1",
	}
	require.NoError(t, repo.CreateTx(context.Background(), tx, property))
	require.NoError(t, tx.Commit())
	assert.Equal(t, int64(42), property.ID)
	assert.Equal(t, 1, property.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepositoryGetByULPINUppercases(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPropertyRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(columnNames(propertyColumns)).
		AddRow(propertyRow(1, "MAPUNSHI2025000001", models.PropertyStatusApproved, 4, now)...)
	mock.ExpectQuery(regexp.QuoteMeta("FROM properties WHERE ulpin = $1")).
		WithArgs("MAPUNSHI2025000001").
		WillReturnRows(rows)

	property, err := repo.GetByULPIN(context.Background(), "mapunshi2025000001")
	require.NoError(t, err)
	require.NotNil(t, property.ULPIN)
	assert.Equal(t, "MAPUNSHI2025000001", *property.ULPIN)
	assert.True(t, property.IsApproved())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepositoryLockByIDTx(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPropertyRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM properties WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(columnNames(propertyColumns)).AddRow(propertyRow(1, nil, models.PropertyStatusPending, 1, now)...))
	mock.ExpectRollback()

	tx, err := db.Beginx()
	require.NoError(t, err)
	property, err := repo.LockByIDTx(context.Background(), tx, 1)
	require.NoError(t, err)
	assert.Nil(t, property.ULPIN)
	assert.True(t, property.IsPending())
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPropertyRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM properties WHERE status IN ($1) AND LOWER(district) = LOWER($2) AND (ulpin ILIKE $3 OR survey_number ILIKE $3 OR village_city ILIKE $3) ORDER BY")).
		WithArgs("pending", "pune", "%123%").
		WillReturnRows(sqlmock.NewRows(columnNames(propertyColumns)).AddRow(propertyRow(1, nil, models.PropertyStatusPending, 1, now)...))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM properties WHERE")).
		WithArgs("pending", "pune", "%123%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	items, total, err := repo.List(context.Background(), models.PropertyFilter{
		Status:   []models.PropertyStatus{models.PropertyStatusPending},
		District: "pune",
		Search:   "123",
	})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepositoryUpdateWorkflowConflict(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPropertyRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND status = $10 AND version = $11")).
		WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}))
	mock.ExpectRollback()

	tx, err := db.Beginx()
	require.NoError(t, err)

	property := &models.Property{ID: 1, Status: models.PropertyStatusUnderReview, Version: 1}
	err = repo.UpdateWorkflowTx(context.Background(), tx, property, models.PropertyStatusPending, 1)
	require.ErrorIs(t, err, ErrVersionConflict)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepositoryHasLinkedOwner(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPropertyRepository(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(9), "citizen-2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	linked, err := repo.HasLinkedOwner(context.Background(), 9, "citizen-2")
	require.NoError(t, err)
	assert.True(t, linked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepositoryLockForLedgerTx(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPropertyRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM properties WHERE id = $1 FOR NO KEY UPDATE")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(columnNames(propertyColumns)).AddRow(propertyRow(7, "MAPUNSHI2025000007", models.PropertyStatusActive, 3, now)...))
	mock.ExpectRollback()

	tx, err := db.Beginx()
	require.NoError(t, err)
	property, err := repo.LockForLedgerTx(context.Background(), tx, 7)
	require.NoError(t, err)
	assert.True(t, property.IsRegistered())
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
