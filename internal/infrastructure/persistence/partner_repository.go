package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ledger/backend/internal/domain/accounting"
	"github.com/ledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPartnerRepository implements PartnerRepository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// FindByID finds a partner by ID within a company
func (r *GormPartnerRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*accounting.Partner, error) {
	var model models.PartnerModel
	if err := r.db.WithContext(ctx).
		Scopes(companyScope(companyID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "partner")
	}
	return model.ToDomain(), nil
}

// FindAll lists the partners of a company
func (r *GormPartnerRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter accounting.PartnerFilter) ([]accounting.Partner, error) {
	var rows []models.PartnerModel
	if err := r.query(ctx, companyID, filter).
		Scopes(orderBy(filter.Filter, partnerSort), paginate(filter.Filter)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	partners := make([]accounting.Partner, len(rows))
	for i := range rows {
		partners[i] = *rows[i].ToDomain()
	}
	return partners, nil
}

// Count counts the partners of a company matching the filter
func (r *GormPartnerRepository) Count(ctx context.Context, companyID uuid.UUID, filter accounting.PartnerFilter) (int64, error) {
	var count int64
	if err := r.query(ctx, companyID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a partner
func (r *GormPartnerRepository) Save(ctx context.Context, partner *accounting.Partner) error {
	model := models.PartnerModelFromDomain(partner)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError(err, "partner with this email")
	}
	return nil
}

func (r *GormPartnerRepository) query(ctx context.Context, companyID uuid.UUID, filter accounting.PartnerFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.PartnerModel{}).Scopes(companyScope(companyID))
	if filter.IsCustomer != nil {
		query = query.Where("is_customer = ?", *filter.IsCustomer)
	}
	if filter.IsVendor != nil {
		query = query.Where("is_vendor = ?", *filter.IsVendor)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	return query
}

// Ensure GormPartnerRepository implements PartnerRepository
var _ accounting.PartnerRepository = (*GormPartnerRepository)(nil)
