package repository

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestWrapWriteErrorDetectsUniqueViolation(t *testing.T) {
	err := wrapWriteError("assign ulpin", &pq.Error{Code: "23505", Constraint: "properties_ulpin_key"})
	assert.ErrorIs(t, err, ErrUniqueViolation)
	assert.Contains(t, err.Error(), "properties_ulpin_key")

	other := wrapWriteError("assign ulpin", errors.New("boom"))
	assert.NotErrorIs(t, other, ErrUniqueViolation)
}

func TestWhereBuilderNumbersPlaceholders(t *testing.T) {
	var w whereBuilder
	w.add("district = $%d", "Nashik")
	w.addIn("status", []string{"pending", "under_review"})
	w.add("submitted_by = $%d", "u-1")

	assert.Equal(t, " WHERE district = $1 AND status IN ($2, $3) AND submitted_by = $4", w.clause())
	assert.Len(t, w.args, 4)
}

func TestPageBounds(t *testing.T) {
	limit, offset := pageBounds(0, 0)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	limit, offset = pageBounds(3, 10)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 20, offset)
}
