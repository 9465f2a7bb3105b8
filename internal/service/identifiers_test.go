package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/land-registry-api/internal/models"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestULPINComposition(t *testing.T) {
	gen := NewIdentifierGenerator(fixedClock(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
	property := &models.Property{
		ID:          7,
		State:       "Maharashtra",
		District:    "Nashik",
		VillageCity: "Kasara",
		CreatedAt:   time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC),
	}

	ulpin := gen.ULPIN(property)
	assert.Equal(t, "MANASKAS2024000007", ulpin)
	assert.Len(t, ulpin, 18)
}

func TestULPINNormalisesPlaceNames(t *testing.T) {
	gen := NewIdentifierGenerator(fixedClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	property := &models.Property{ID: 42, State: "  u.p.", District: "", VillageCity: "Ay"}

	assert.Equal(t, "UPXXXAYX2025000042", gen.ULPIN(property))
}

func TestULPINIsIdempotent(t *testing.T) {
	existing := "MANASKAS2024000007"
	property := &models.Property{ID: 99, State: "Kerala", District: "Kollam", VillageCity: "Kundara", ULPIN: &existing}

	assert.Equal(t, existing, GenerateULPIN(property))
	assert.Equal(t, GenerateULPIN(property), GenerateULPIN(property))
}

func TestMutationAndCertificateNumbers(t *testing.T) {
	gen := NewIdentifierGenerator(fixedClock(time.Now()))
	mutation := &models.Mutation{ID: 12, CreatedAt: time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)}

	number := gen.MutationNumber(mutation)
	cert := gen.CertificateNumber(mutation)
	assert.Equal(t, "MUT2025000012", number)
	assert.Equal(t, "MC2025000012", cert)

	mutation.MutationNumber = &number
	mutation.CertificateNumber = &cert
	mutation.ID = 13
	assert.Equal(t, number, gen.MutationNumber(mutation))
	assert.Equal(t, cert, gen.CertificateNumber(mutation))
}

func TestIdentifierYearUsesUTC(t *testing.T) {
	zone := time.FixedZone("IST", 5*3600+1800)
	created := time.Date(2025, 1, 1, 3, 0, 0, 0, zone)
	gen := NewIdentifierGenerator(nil)

	assert.Equal(t, "MUT2024000001", gen.MutationNumber(&models.Mutation{ID: 1, CreatedAt: created}))
}

func TestIdentifierYearFallsBackToClock(t *testing.T) {
	gen := NewIdentifierGenerator(fixedClock(time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)))

	number := gen.MutationNumber(&models.Mutation{ID: 1234567})
	require.Equal(t, "MUT20261234567", number)
}
