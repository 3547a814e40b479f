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

// GormCompanyRepository implements CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds a company by its ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "company")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a company and locks its row with SELECT ... FOR UPDATE
func (r *GormCompanyRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*accounting.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "company")
	}
	return model.ToDomain(), nil
}

// FindFirst returns the oldest company
func (r *GormCompanyRepository) FindFirst(ctx context.Context) (*accounting.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").First(&model).Error; err != nil {
		return nil, translateError(err, "company")
	}
	return model.ToDomain(), nil
}

// FindAll lists companies matching the filter
func (r *GormCompanyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]accounting.Company, error) {
	var rows []models.CompanyModel
	if err := r.query(ctx, filter).
		Scopes(orderBy(filter, companySort), paginate(filter)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	companies := make([]accounting.Company, len(rows))
	for i := range rows {
		companies[i] = *rows[i].ToDomain()
	}
	return companies, nil
}

// Count counts companies matching the filter
func (r *GormCompanyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.query(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, company *accounting.Company) error {
	model := models.CompanyModelFromDomain(company)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError(err, "company")
	}
	return nil
}

func (r *GormCompanyRepository) query(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.CompanyModel{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	return query
}

// Ensure GormCompanyRepository implements CompanyRepository
var _ accounting.CompanyRepository = (*GormCompanyRepository)(nil)
