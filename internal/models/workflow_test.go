package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPropertyPendingAndDays(t *testing.T) {
	submitted := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	now := submitted.Add(49 * time.Hour)

	p := &Property{Status: PropertyStatusDocumentsVerified, CreatedAt: submitted}
	assert.True(t, p.IsPending())
	assert.Equal(t, 2, p.DaysPending(now))
	assert.False(t, p.IsRegistered())

	p.Status = PropertyStatusActive
	assert.False(t, p.IsPending())
	assert.Zero(t, p.DaysPending(now))
	assert.True(t, p.IsRegistered())
	assert.True(t, p.Status.IsStanding())

	p.Status = PropertyStatusFrozen
	assert.False(t, p.IsRegistered())
}

func TestMutationView(t *testing.T) {
	submitted := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	m := &Mutation{Status: MutationStatusInformationRequired, CreatedAt: submitted}

	view := m.View(submitted.Add(72 * time.Hour))
	assert.True(t, view.IsPending)
	assert.Equal(t, 3, view.DaysPending)

	m.Status = MutationStatusRejected
	view = m.View(submitted.Add(72 * time.Hour))
	assert.False(t, view.IsPending)
	assert.Zero(t, view.DaysPending)
	assert.Zero(t, m.DaysPending(submitted.Add(-time.Hour)))
}

func TestMutationTypeAcquisitionMode(t *testing.T) {
	assert.Equal(t, AcquisitionPurchase, MutationTypeSale.AcquisitionMode())
	assert.Equal(t, AcquisitionInheritance, MutationTypeInheritance.AcquisitionMode())
	assert.Equal(t, AcquisitionOther, MutationTypeCorrection.AcquisitionMode())
}

func TestCapabilitySplitAndShares(t *testing.T) {
	resource, action := CapMutationReview.Split()
	assert.Equal(t, "mutation", resource)
	assert.Equal(t, "review", action)

	resource, action = Capability("audit").Split()
	assert.Equal(t, "audit", resource)
	assert.Equal(t, "*", action)

	assert.Equal(t, OwnershipTypeSole, OwnershipTypeForShare(100))
	assert.Equal(t, OwnershipTypeJoint, OwnershipTypeForShare(40))
}

func TestNewPaginationDefaults(t *testing.T) {
	p := NewPagination(0, 0, 7)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 7, p.TotalCount)
}
