package service

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/noah-isme/land-registry-api/internal/models"
)

const (
	stateCodeWidth    = 2
	districtCodeWidth = 3
	villageCodeWidth  = 3

	mutationNumberPrefix    = "MUT"
	certificateNumberPrefix = "MC"
)

// IdentifierGenerator derives the human readable registry identifiers. Every method is idempotent:
// an identifier already present on the entity is returned unchanged.
type IdentifierGenerator struct {
	now func() time.Time
}

// NewIdentifierGenerator builds a generator. now is only consulted for entities without a
// creation timestamp.
func NewIdentifierGenerator(now func() time.Time) *IdentifierGenerator {
	if now == nil {
		now = time.Now
	}
	return &IdentifierGenerator{now: now}
}

var defaultIdentifiers = NewIdentifierGenerator(nil)

// GenerateULPIN returns the parcel identifier for p using the wall clock as year fallback.
func GenerateULPIN(p *models.Property) string { return defaultIdentifiers.ULPIN(p) }

// GenerateMutationNumber returns the mutation number for m using the wall clock as year fallback.
func GenerateMutationNumber(m *models.Mutation) string { return defaultIdentifiers.MutationNumber(m) }

// GenerateCertificateNumber returns the certificate number for m using the wall clock as year fallback.
func GenerateCertificateNumber(m *models.Mutation) string {
	return defaultIdentifiers.CertificateNumber(m)
}

// ULPIN composes STATE(2) DISTRICT(3) VILLAGE(3) YEAR(4) ID(6).
func (g *IdentifierGenerator) ULPIN(p *models.Property) string {
	if p.ULPIN != nil && *p.ULPIN != "" {
		return *p.ULPIN
	}
	return regionCode(p.State, stateCodeWidth) +
		regionCode(p.District, districtCodeWidth) +
		regionCode(p.VillageCity, villageCodeWidth) +
		fmt.Sprintf("%04d%06d", g.year(p.CreatedAt), p.ID)
}

// MutationNumber composes MUT YEAR(4) ID(6).
func (g *IdentifierGenerator) MutationNumber(m *models.Mutation) string {
	if m.MutationNumber != nil && *m.MutationNumber != "" {
		return *m.MutationNumber
	}
	return fmt.Sprintf("%s%04d%06d", mutationNumberPrefix, g.year(m.CreatedAt), m.ID)
}

// CertificateNumber composes MC YEAR(4) ID(6).
func (g *IdentifierGenerator) CertificateNumber(m *models.Mutation) string {
	if m.CertificateNumber != nil && *m.CertificateNumber != "" {
		return *m.CertificateNumber
	}
	return fmt.Sprintf("%s%04d%06d", certificateNumberPrefix, g.year(m.CreatedAt), m.ID)
}

func (g *IdentifierGenerator) year(created time.Time) int {
	if created.IsZero() {
		return g.now().UTC().Year()
	}
	return created.UTC().Year()
}

// regionCode keeps the leading letters and digits of a place name, upper-cased and padded with X.
func regionCode(name string, width int) string {
	var b strings.Builder
	for _, r := range name {
		if b.Len() == width {
			break
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	code := b.String()
	return code + strings.Repeat("X", width-len(code))
}
