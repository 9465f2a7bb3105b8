package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/land-registry-api/internal/models"
	"github.com/noah-isme/land-registry-api/internal/repository"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
)

// memoryLedger keeps ownership rows in a map and ignores the transaction handle.
type memoryLedger struct {
	rows   map[int64]*models.Ownership
	owners map[int64]*models.Owner
	nextID int64
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{rows: map[int64]*models.Ownership{}, owners: map[int64]*models.Owner{}, nextID: 100}
}

func (m *memoryLedger) seed(row models.Ownership) {
	row.IsActive = true
	m.rows[row.ID] = &row
}

func (m *memoryLedger) LockByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Ownership, error) {
	row, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *row
	return &clone, nil
}

func (m *memoryLedger) CreateTx(ctx context.Context, tx *sqlx.Tx, o *models.Ownership) error {
	m.nextID++
	o.ID = m.nextID
	o.IsActive = true
	clone := *o
	m.rows[o.ID] = &clone
	return nil
}

func (m *memoryLedger) CloseTx(ctx context.Context, tx *sqlx.Tx, id int64, endDate time.Time, mutationID *int64) error {
	row, ok := m.rows[id]
	if !ok || !row.IsActive {
		return repository.ErrVersionConflict
	}
	row.IsActive = false
	row.EndDate = &endDate
	row.ClosedByMutationID = mutationID
	return nil
}

func (m *memoryLedger) SumActiveTx(ctx context.Context, tx *sqlx.Tx, propertyID int64) (float64, error) {
	var total float64
	for _, row := range m.rows {
		if row.IsActive && row.PropertyID == propertyID {
			total += row.Percentage
		}
	}
	return total, nil
}

func (m *memoryLedger) FindByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Owner, error) {
	owner, ok := m.owners[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return owner, nil
}

func (m *memoryLedger) active(propertyID int64) []models.Ownership {
	var out []models.Ownership
	for _, row := range m.rows {
		if row.IsActive && row.PropertyID == propertyID {
			out = append(out, *row)
		}
	}
	return out
}

func ledgerFixture() (*memoryLedger, *OwnershipLedger) {
	store := newMemoryLedger()
	store.owners[1] = &models.Owner{ID: 1, FullName: "Asha Patil", UserID: ptr("citizen-1")}
	store.owners[2] = &models.Owner{ID: 2, FullName: "Ravi Kulkarni"}
	store.seed(models.Ownership{
		ID:              10,
		PropertyID:      7,
		OwnerID:         1,
		Percentage:      100,
		OwnershipType:   models.OwnershipTypeSole,
		AcquisitionDate: time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC),
		AcquisitionMode: models.AcquisitionInheritance,
	})
	return store, NewOwnershipLedger(store, store, nil)
}

func TestLedgerSaleMovesFullShare(t *testing.T) {
	store, ledger := ledgerFixture()
	effective := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	change, err := ledger.Apply(context.Background(), nil, &models.Mutation{
		ID: 12, PropertyID: 7, MutationType: models.MutationTypeSale,
		FromOwnershipID: ptr(int64(10)), ToOwnerID: ptr(int64(2)),
	}, effective)
	require.NoError(t, err)

	assert.Equal(t, []int64{10}, change.Closed)
	require.Len(t, change.Opened, 1)
	assert.False(t, store.rows[10].IsActive)
	assert.Equal(t, effective, *store.rows[10].EndDate)

	active := store.active(7)
	require.Len(t, active, 1)
	assert.Equal(t, int64(2), active[0].OwnerID)
	assert.Equal(t, 100.0, active[0].Percentage)
	assert.Equal(t, models.OwnershipTypeSole, active[0].OwnershipType)
	assert.Equal(t, models.AcquisitionPurchase, active[0].AcquisitionMode)
}

func TestLedgerPartialGiftKeepsRemainder(t *testing.T) {
	store, ledger := ledgerFixture()

	change, err := ledger.Apply(context.Background(), nil, &models.Mutation{
		ID: 13, PropertyID: 7, MutationType: models.MutationTypeGift,
		FromOwnershipID: ptr(int64(10)), ToOwnerID: ptr(int64(2)), TransferredPercentage: ptr(30.0),
	}, time.Now())
	require.NoError(t, err)
	assert.Len(t, change.Opened, 2)

	shares := map[int64]models.Ownership{}
	for _, row := range store.active(7) {
		shares[row.OwnerID] = row
	}
	assert.Equal(t, 70.0, shares[1].Percentage)
	assert.Equal(t, models.AcquisitionInheritance, shares[1].AcquisitionMode)
	assert.Equal(t, models.OwnershipTypeJoint, shares[1].OwnershipType)
	assert.Equal(t, 30.0, shares[2].Percentage)
	assert.Equal(t, models.AcquisitionGift, shares[2].AcquisitionMode)
}

func TestLedgerPartitionNeedsPartialShare(t *testing.T) {
	_, ledger := ledgerFixture()

	_, err := ledger.Apply(context.Background(), nil, &models.Mutation{
		ID: 14, PropertyID: 7, MutationType: models.MutationTypePartition,
		FromOwnershipID: ptr(int64(10)), ToOwnerID: ptr(int64(2)),
	}, time.Now())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLedgerRejectsInactiveOrForeignSource(t *testing.T) {
	store, ledger := ledgerFixture()
	store.rows[10].IsActive = false

	_, err := ledger.Apply(context.Background(), nil, &models.Mutation{
		ID: 15, PropertyID: 7, MutationType: models.MutationTypeSale,
		FromOwnershipID: ptr(int64(10)), ToOwnerID: ptr(int64(2)),
	}, time.Now())
	assert.Equal(t, appErrors.ErrOwnershipNotFound.Code, appErrors.FromError(err).Code)

	store.rows[10].IsActive = true
	_, err = ledger.Apply(context.Background(), nil, &models.Mutation{
		ID: 16, PropertyID: 8, MutationType: models.MutationTypeSale,
		FromOwnershipID: ptr(int64(10)), ToOwnerID: ptr(int64(2)),
	}, time.Now())
	assert.Equal(t, appErrors.ErrOwnershipNotFound.Code, appErrors.FromError(err).Code)

	_, err = ledger.Apply(context.Background(), nil, &models.Mutation{
		ID: 17, PropertyID: 7, MutationType: models.MutationTypeSale,
		FromOwnershipID: ptr(int64(999)), ToOwnerID: ptr(int64(2)),
	}, time.Now())
	assert.Equal(t, appErrors.ErrOwnershipNotFound.Code, appErrors.FromError(err).Code)
}

func TestLedgerAdditionCannotExceedWhole(t *testing.T) {
	_, ledger := ledgerFixture()

	_, err := ledger.Apply(context.Background(), nil, &models.Mutation{
		ID: 18, PropertyID: 7, MutationType: models.MutationTypeAddition,
		ToOwnerID: ptr(int64(2)), TransferredPercentage: ptr(10.0),
	}, time.Now())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLedgerRemovalAndCorrection(t *testing.T) {
	store, ledger := ledgerFixture()

	change, err := ledger.Apply(context.Background(), nil, &models.Mutation{
		ID: 19, PropertyID: 7, MutationType: models.MutationTypeCorrection,
	}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, change.Closed)
	assert.Empty(t, change.Opened)

	change, err = ledger.Apply(context.Background(), nil, &models.Mutation{
		ID: 20, PropertyID: 7, MutationType: models.MutationTypeRemoval, FromOwnershipID: ptr(int64(10)),
	}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, change.Closed)
	assert.Empty(t, store.active(7))
}

func TestLedgerUnknownTargetOwner(t *testing.T) {
	_, ledger := ledgerFixture()

	_, err := ledger.Apply(context.Background(), nil, &models.Mutation{
		ID: 21, PropertyID: 7, MutationType: models.MutationTypeTransfer,
		FromOwnershipID: ptr(int64(10)), ToOwnerID: ptr(int64(404)),
	}, time.Now())
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
