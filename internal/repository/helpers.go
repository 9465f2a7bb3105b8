package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

var (
	// ErrUniqueViolation is returned when an insert or update collides with a unique constraint.
	ErrUniqueViolation = errors.New("unique constraint violation")
	// ErrVersionConflict is returned when a conditional update matched no row.
	ErrVersionConflict = errors.New("row changed since it was read")
)

const uniqueViolationCode = "23505"

// wrapWriteError annotates a write failure, surfacing unique violations as ErrUniqueViolation
// together with the violated constraint name.
func wrapWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode {
		return fmt.Errorf("%s: %w (%s)", op, ErrUniqueViolation, pqErr.Constraint)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func pageBounds(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return pageSize, (page - 1) * pageSize
}

// whereBuilder accumulates numbered postgres placeholders for dynamic filters.
type whereBuilder struct {
	conditions []string
	args       []interface{}
}

func (w *whereBuilder) add(format string, value interface{}) {
	w.args = append(w.args, value)
	w.conditions = append(w.conditions, fmt.Sprintf(format, len(w.args)))
}

func (w *whereBuilder) addIn(column string, values []string) {
	if len(values) == 0 {
		return
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		w.args = append(w.args, v)
		placeholders[i] = fmt.Sprintf("$%d", len(w.args))
	}
	w.conditions = append(w.conditions, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
}

func (w *whereBuilder) clause() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conditions, " AND ")
}
