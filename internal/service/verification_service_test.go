package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/land-registry-api/internal/models"
	appErrors "github.com/noah-isme/land-registry-api/pkg/errors"
)

type verificationFixture struct {
	svc        *VerificationService
	mutations  *mutationStoreStub
	properties *propertyStoreStub
	ownerships *propertyOwnershipStub
}

func newVerificationFixture(cache *CacheService) *verificationFixture {
	approved := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	f := &verificationFixture{
		mutations:  newMutationStoreStub(),
		properties: newPropertyStoreStub(),
		ownerships: &propertyOwnershipStub{ownerUsers: map[int64][]string{}},
	}
	f.properties.items[7] = &models.Property{
		ID: 7, ULPIN: ptr("MAPUNHIN2025000007"), SurveyNumber: "45/2", VillageCity: "Hinjewadi",
		District: "Pune", State: "Maharashtra", Area: 1.5, AreaUnit: "acre",
		PropertyType: models.PropertyTypeAgricultural, Status: models.PropertyStatusActive,
		SubmittedBy: "citizen-1", MarketValue: ptr(2_500_000.0), ApprovalDate: &approved, RegistrationDate: &approved,
	}
	f.properties.items[8] = &models.Property{ID: 8, Status: models.PropertyStatusPending, SubmittedBy: "citizen-1"}
	f.ownerships.rows = []models.Ownership{
		{ID: 1, PropertyID: 7, OwnerID: 2, OwnerName: "Ravi Kulkarni", Percentage: 100, OwnershipType: models.OwnershipTypeSole, IsActive: true},
		{ID: 2, PropertyID: 7, OwnerID: 1, OwnerName: "Asha Patil", Percentage: 100, IsActive: false},
	}
	f.mutations.items[3] = &models.Mutation{
		ID: 3, PropertyID: 7, RequesterID: "citizen-1", MutationType: models.MutationTypeSale,
		Status: models.MutationStatusApproved, MutationNumber: ptr("MUT2025000003"),
		CertificateNumber: ptr("MC2025000003"), CertificateIssuedDate: &approved, ApprovalDate: &approved,
		Reason: ptr("registered sale deed"),
	}
	f.mutations.items[4] = &models.Mutation{ID: 4, PropertyID: 7, RequesterID: "citizen-1", Status: models.MutationStatusPending}
	f.svc = NewVerificationService(f.mutations, f.properties, f.ownerships, cache, nil)
	return f
}

func TestVerifyCertificate(t *testing.T) {
	f := newVerificationFixture(nil)
	ctx := context.Background()

	record, err := f.svc.VerifyCertificate(ctx, " mc2025000003 ")
	require.NoError(t, err)
	assert.Equal(t, "MC2025000003", record.CertificateNumber)
	assert.Equal(t, "MUT2025000003", record.MutationNumber)
	assert.Equal(t, "MAPUNHIN2025000007", record.Property.ULPIN)

	body, err := json.Marshal(record)
	require.NoError(t, err)
	for _, hidden := range []string{"citizen-1", "market_value", "registered sale deed", "requester"} {
		assert.NotContains(t, string(body), hidden)
	}

	_, err = f.svc.VerifyCertificate(ctx, "MC2099000001")
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(err))

	_, err = f.svc.VerifyCertificate(ctx, "  ")
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(err))
}

func TestVerifyPropertyListsOwnersAndApprovedHistory(t *testing.T) {
	f := newVerificationFixture(nil)

	record, err := f.svc.VerifyProperty(context.Background(), "mapunhin2025000007")
	require.NoError(t, err)
	assert.Equal(t, "45/2", record.SurveyNumber)
	require.Len(t, record.Owners, 1)
	assert.Equal(t, "Ravi Kulkarni", record.Owners[0].OwnerName)
	require.Len(t, record.Mutations, 1)
	assert.Equal(t, "MC2025000003", record.Mutations[0].CertificateNumber)
	assert.Equal(t, []models.MutationStatus{models.MutationStatusApproved}, f.mutations.listFilter.Status)
	assert.Equal(t, int64(7), f.mutations.listFilter.PropertyID)

	body, err := json.Marshal(record)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "citizen-1")
	assert.NotContains(t, string(body), "market_value")

	_, err = f.svc.VerifyProperty(context.Background(), "MAPUNHIN2099000001")
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(err))
}

func TestVerifyPropertyUsesCache(t *testing.T) {
	cache := NewCacheService(newMemoryCache(), nil, time.Minute, nil, true)
	f := newVerificationFixture(cache)

	_, err := f.svc.VerifyProperty(context.Background(), "MAPUNHIN2025000007")
	require.NoError(t, err)
	_, err = f.svc.VerifyProperty(context.Background(), "MAPUNHIN2025000007")
	require.NoError(t, err)
	assert.Equal(t, 1, f.properties.ulpinReads)
}
