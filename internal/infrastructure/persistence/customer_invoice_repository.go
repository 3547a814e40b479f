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

// GormCustomerInvoiceRepository implements CustomerInvoiceRepository using GORM
type GormCustomerInvoiceRepository struct {
	db *gorm.DB
}

// NewGormCustomerInvoiceRepository creates a new GormCustomerInvoiceRepository
func NewGormCustomerInvoiceRepository(db *gorm.DB) *GormCustomerInvoiceRepository {
	return &GormCustomerInvoiceRepository{db: db}
}

// FindByID finds an invoice with its lines
func (r *GormCustomerInvoiceRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*accounting.CustomerInvoice, error) {
	var model models.CustomerInvoiceModel
	if err := r.db.WithContext(ctx).
		Scopes(companyScope(companyID), preloadInvoiceLines).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "customer invoice")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate locks the invoice row and then loads it with its lines
func (r *GormCustomerInvoiceRepository) FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*accounting.CustomerInvoice, error) {
	var locked models.CustomerInvoiceModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(companyScope(companyID)).
		Select("id").
		Where("id = ?", id).
		First(&locked).Error; err != nil {
		return nil, translateError(err, "customer invoice")
	}
	return r.FindByID(ctx, companyID, id)
}

// FindAll lists invoices without lines
func (r *GormCustomerInvoiceRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter accounting.CustomerInvoiceFilter) ([]accounting.CustomerInvoice, error) {
	var rows []models.CustomerInvoiceModel
	if err := r.query(ctx, companyID, filter).
		Scopes(orderBy(filter.Filter, invoiceSort), paginate(filter.Filter)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	invoices := make([]accounting.CustomerInvoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, nil
}

// Count counts invoices matching the filter
func (r *GormCustomerInvoiceRepository) Count(ctx context.Context, companyID uuid.UUID, filter accounting.CustomerInvoiceFilter) (int64, error) {
	var count int64
	if err := r.query(ctx, companyID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save writes the invoice header and replaces its lines
func (r *GormCustomerInvoiceRepository) Save(ctx context.Context, invoice *accounting.CustomerInvoice) error {
	model := models.CustomerInvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return translateError(err, "customer invoice number")
		}
		if err := tx.Where("invoice_id = ?", model.ID).Delete(&models.InvoiceLineModel{}).Error; err != nil {
			return err
		}
		if len(model.Lines) == 0 {
			return nil
		}
		return tx.Omit(clause.Associations).Create(&model.Lines).Error
	})
}

func (r *GormCustomerInvoiceRepository) query(ctx context.Context, companyID uuid.UUID, filter accounting.CustomerInvoiceFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.CustomerInvoiceModel{}).Scopes(companyScope(companyID))
	if filter.PartnerID != nil {
		query = query.Where("partner_id = ?", *filter.PartnerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("invoice_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("invoice_date <= ?", *filter.ToDate)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(number) LIKE ? OR LOWER(memo) LIKE ?", like, like)
	}
	return query
}

func preloadInvoiceLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Preload("Lines.IncomeAccount")
}

// Ensure GormCustomerInvoiceRepository implements CustomerInvoiceRepository
var _ accounting.CustomerInvoiceRepository = (*GormCustomerInvoiceRepository)(nil)
