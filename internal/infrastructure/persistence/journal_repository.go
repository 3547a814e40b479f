package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/domain/accounting"
	"github.com/ledger/backend/internal/domain/shared"
	"github.com/ledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormJournalRepository implements JournalRepository using GORM
type GormJournalRepository struct {
	db *gorm.DB
}

// NewGormJournalRepository creates a new GormJournalRepository
func NewGormJournalRepository(db *gorm.DB) *GormJournalRepository {
	return &GormJournalRepository{db: db}
}

// FindByID finds a journal by ID within a company
func (r *GormJournalRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*accounting.Journal, error) {
	var model models.JournalModel
	if err := r.db.WithContext(ctx).
		Scopes(companyScope(companyID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "journal")
	}
	return model.ToDomain(), nil
}

// FindByCode finds a journal by its code within a company
func (r *GormJournalRepository) FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*accounting.Journal, error) {
	var model models.JournalModel
	if err := r.db.WithContext(ctx).
		Scopes(companyScope(companyID)).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&model).Error; err != nil {
		return nil, translateError(err, "journal")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a journal and locks its row, serializing number allocation
func (r *GormJournalRepository) FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*accounting.Journal, error) {
	var model models.JournalModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(companyScope(companyID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "journal")
	}
	return model.ToDomain(), nil
}

// FindAll lists the journals of a company
func (r *GormJournalRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]accounting.Journal, error) {
	var rows []models.JournalModel
	if err := r.query(ctx, companyID, filter).
		Scopes(orderBy(filter, journalSort), paginate(filter)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	journals := make([]accounting.Journal, len(rows))
	for i := range rows {
		journals[i] = *rows[i].ToDomain()
	}
	return journals, nil
}

// Count counts the journals of a company
func (r *GormJournalRepository) Count(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.query(ctx, companyID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a journal
func (r *GormJournalRepository) Save(ctx context.Context, journal *accounting.Journal) error {
	model := models.JournalModelFromDomain(journal)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError(err, "journal code "+journal.Code)
	}
	return nil
}

func (r *GormJournalRepository) query(ctx context.Context, companyID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.JournalModel{}).Scopes(companyScope(companyID))
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}
	return query
}

// Ensure GormJournalRepository implements JournalRepository
var _ accounting.JournalRepository = (*GormJournalRepository)(nil)
