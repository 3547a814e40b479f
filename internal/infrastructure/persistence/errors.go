package persistence

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver and GORM errors onto the domain error taxonomy.
// what names the entity for not-found and duplicate messages.
func translateError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError("%s not found", what)
	}
	if isDuplicateKey(err) {
		return shared.NewConflictError("%s already exists", what)
	}
	return err
}

// isDuplicateKey recognizes unique violations from postgres and sqlite, with
// or without gorm's TranslateError enabled
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505")
}

// companyScope restricts a query to rows owned by one company
func companyScope(companyID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}

// paginate applies the filter's page window
func paginate(filter shared.Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.PageSize > 0 {
			db = db.Limit(filter.PageSize).Offset(filter.Offset())
		}
		return db
	}
}

// orderBy applies a whitelisted ORDER BY clause with id as tie breaker
func orderBy(filter shared.Filter, spec sortSpec) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		dir := sortDirection(filter.OrderDir)
		return db.Order(spec.column(filter.OrderBy) + " " + dir).Order("id " + dir)
	}
}
