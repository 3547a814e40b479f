package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/domain/accounting"
	"github.com/ledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormJournalEntryRepository implements JournalEntryRepository using GORM.
// Entries are read with their journal and lines (ordered by sequence) preloaded.
type GormJournalEntryRepository struct {
	db *gorm.DB
}

// NewGormJournalEntryRepository creates a new GormJournalEntryRepository
func NewGormJournalEntryRepository(db *gorm.DB) *GormJournalEntryRepository {
	return &GormJournalEntryRepository{db: db}
}

// FindByID finds an entry with its lines
func (r *GormJournalEntryRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*accounting.JournalEntry, error) {
	var model models.JournalEntryModel
	if err := r.db.WithContext(ctx).
		Scopes(companyScope(companyID), preloadEntryGraph).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "journal entry")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate locks the entry row and then loads the entry graph in the
// same transaction. Preloads run as separate statements without the lock.
func (r *GormJournalEntryRepository) FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*accounting.JournalEntry, error) {
	var locked models.JournalEntryModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(companyScope(companyID)).
		Select("id").
		Where("id = ?", id).
		First(&locked).Error; err != nil {
		return nil, translateError(err, "journal entry")
	}
	return r.FindByID(ctx, companyID, id)
}

// FindAll lists entries without lines
func (r *GormJournalEntryRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter accounting.JournalEntryFilter) ([]accounting.JournalEntry, error) {
	var rows []models.JournalEntryModel
	if err := r.query(ctx, companyID, filter).
		Preload("Journal").
		Scopes(orderBy(filter.Filter, entrySort), paginate(filter.Filter)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]accounting.JournalEntry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries, nil
}

// Count counts entries matching the filter
func (r *GormJournalEntryRepository) Count(ctx context.Context, companyID uuid.UUID, filter accounting.JournalEntryFilter) (int64, error) {
	var count int64
	if err := r.query(ctx, companyID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save writes the entry header and replaces its lines
func (r *GormJournalEntryRepository) Save(ctx context.Context, entry *accounting.JournalEntry) error {
	model := models.JournalEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return translateError(err, "journal entry number")
		}
		if err := tx.Where("journal_entry_id = ?", model.ID).Delete(&models.JournalLineModel{}).Error; err != nil {
			return err
		}
		if len(model.Lines) == 0 {
			return nil
		}
		return tx.Omit(clause.Associations).Create(&model.Lines).Error
	})
}

func (r *GormJournalEntryRepository) query(ctx context.Context, companyID uuid.UUID, filter accounting.JournalEntryFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.JournalEntryModel{}).Scopes(companyScope(companyID))
	if filter.JournalID != nil {
		query = query.Where("journal_id = ?", *filter.JournalID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", *filter.ToDate)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(number) LIKE ? OR LOWER(memo) LIKE ?", like, like)
	}
	return query
}

func preloadEntryGraph(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Journal").
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Preload("Lines.Account")
}

// Ensure GormJournalEntryRepository implements JournalEntryRepository
var _ accounting.JournalEntryRepository = (*GormJournalEntryRepository)(nil)
