package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/domain/accounting"
	"github.com/ledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAccountRepository implements AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by ID within a company
func (r *GormAccountRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*accounting.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		Scopes(companyScope(companyID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "account")
	}
	return model.ToDomain(), nil
}

// FindByCode finds an account by its code within a company
func (r *GormAccountRepository) FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*accounting.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		Scopes(companyScope(companyID)).
		Where("code = ?", strings.TrimSpace(code)).
		First(&model).Error; err != nil {
		return nil, translateError(err, "account")
	}
	return model.ToDomain(), nil
}

// FindByCodes returns the accounts whose codes are listed, ordered by code
func (r *GormAccountRepository) FindByCodes(ctx context.Context, companyID uuid.UUID, codes []string) ([]accounting.Account, error) {
	if len(codes) == 0 {
		return []accounting.Account{}, nil
	}
	var rows []models.AccountModel
	if err := r.db.WithContext(ctx).
		Scopes(companyScope(companyID)).
		Where("code IN ?", codes).
		Order("code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toAccounts(rows), nil
}

// FindFirstByNameContains returns the lowest-coded account of the given type
// whose name contains fragment, ignoring case
func (r *GormAccountRepository) FindFirstByNameContains(ctx context.Context, companyID uuid.UUID, fragment string, accountType accounting.AccountType) (*accounting.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		Scopes(companyScope(companyID)).
		Where("type = ? AND LOWER(name) LIKE ?", accountType, "%"+strings.ToLower(fragment)+"%").
		Order("code ASC").
		First(&model).Error; err != nil {
		return nil, translateError(err, "account")
	}
	return model.ToDomain(), nil
}

// FindAll lists the accounts of a company
func (r *GormAccountRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter accounting.AccountFilter) ([]accounting.Account, error) {
	var rows []models.AccountModel
	if err := r.query(ctx, companyID, filter).
		Scopes(orderBy(filter.Filter, accountSort), paginate(filter.Filter)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toAccounts(rows), nil
}

// Count counts the accounts of a company matching the filter
func (r *GormAccountRepository) Count(ctx context.Context, companyID uuid.UUID, filter accounting.AccountFilter) (int64, error) {
	var count int64
	if err := r.query(ctx, companyID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *accounting.Account) error {
	model := models.AccountModelFromDomain(account)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError(err, "account code "+account.Code)
	}
	return nil
}

func (r *GormAccountRepository) query(ctx context.Context, companyID uuid.UUID, filter accounting.AccountFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.AccountModel{}).Scopes(companyScope(companyID))
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}
	return query
}

func toAccounts(rows []models.AccountModel) []accounting.Account {
	accounts := make([]accounting.Account, len(rows))
	for i := range rows {
		accounts[i] = *rows[i].ToDomain()
	}
	return accounts
}

// Ensure GormAccountRepository implements AccountRepository
var _ accounting.AccountRepository = (*GormAccountRepository)(nil)
