package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/langbridge/billing/internal/domain/billing"
	"github.com/langbridge/billing/internal/domain/shared"
	"github.com/langbridge/billing/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM.
// All reads go through the jobs join so the derived job UUID is present on
// every returned entity without a second query.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)

// invoiceQuery builds the base read query with job enrichment. The join is a
// LEFT JOIN so invoices without a job still come back, with a nil job UUID.
func (r *GormInvoiceRepository) invoiceQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("invoices.*, jobs.uuid AS job_uuid").
		Joins("LEFT JOIN jobs ON invoices.job_id = jobs.id")
}

// FindByID finds a live invoice by ID with items and job enrichment
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.invoiceQuery(ctx).
		Preload("Items").
		Where("invoices.id = ? AND invoices.deleted = ?", id, false).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	inv := model.ToDomain()
	inv.SortItems()
	return inv, nil
}

// FindByIDIncludingDeleted finds an invoice regardless of the deleted flag
func (r *GormInvoiceRepository) FindByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.invoiceQuery(ctx).
		Preload("Items").
		Where("invoices.id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	inv := model.ToDomain()
	inv.SortItems()
	return inv, nil
}

// FindAll lists live invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	var rows []models.InvoiceModel
	query := r.applyFilter(r.invoiceQuery(ctx).Where("invoices.deleted = ?", false), filter)

	if err := query.Preload("Items").Find(&rows).Error; err != nil {
		return nil, err
	}

	invoices := make([]billing.Invoice, len(rows))
	for i := range rows {
		inv := rows[i].ToDomain()
		inv.SortItems()
		invoices[i] = *inv
	}
	return invoices, nil
}

// Count counts live invoices matching the filter, ignoring pagination
func (r *GormInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).
			Model(&models.InvoiceModel{}).
			Joins("LEFT JOIN jobs ON invoices.job_id = jobs.id").
			Where("invoices.deleted = ?", false),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an invoice and reconciles its line items
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		return saveInvoiceItems(tx, model)
	})
}

// SaveWithLock saves with an optimistic version check. The update is a
// compare-and-swap on version so two concurrent status transitions cannot
// both commit against the same starting state.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveInvoiceLocked(tx, invoice)
	})
}

// Transform commits the sales order's terminal status and the new invoice in
// a single transaction. A failure on either write rolls back both, so a
// Transformed sales order can never exist without its invoice.
func (r *GormInvoiceRepository) Transform(ctx context.Context, salesOrder, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveInvoiceLocked(tx, salesOrder); err != nil {
			return err
		}
		model := models.InvoiceModelFromDomain(invoice)
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		return saveInvoiceItems(tx, model)
	})
}

// saveInvoiceLocked performs the versioned compare-and-swap update and
// reconciles the line items within the caller's transaction.
func saveInvoiceLocked(tx *gorm.DB, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	currentVersion := model.Version
	model.Version++
	model.UpdatedAt = time.Now()

	result := tx.Model(&models.InvoiceModel{}).
		Where("id = ? AND version = ?", model.ID, currentVersion).
		Updates(map[string]interface{}{
			"invoice_number":   model.InvoiceNumber,
			"job_id":           model.JobID,
			"invoice_group_id": model.InvoiceGroupID,
			"invoice_type":     model.InvoiceType,
			"status":           model.Status,
			"previous_status":  model.PreviousStatus,
			"amount":           model.Amount,
			"amount_nett":      model.AmountNett,
			"tax":              model.Tax,
			"tax_rate":         model.TaxRate,
			"currency":         model.Currency,
			"client_name":      model.ClientName,
			"client_email":     model.ClientEmail,
			"source_lang":      model.SourceLang,
			"target_lang":      model.TargetLang,
			"due_date":         model.DueDate,
			"sent_at":          model.SentAt,
			"paid_at":          model.PaidAt,
			"notes":            model.Notes,
			"description":      model.Description,
			"deleted":          model.Deleted,
			"modified_by":      model.ModifiedBy,
			"version":          model.Version,
			"updated_at":       model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	invoice.Version = model.Version
	invoice.UpdatedAt = model.UpdatedAt
	return saveInvoiceItems(tx, model)
}

// saveInvoiceItems reconciles the invoice_items rows with the items currently
// on the aggregate: rows absent from the aggregate are deleted, the rest are
// upserted.
func saveInvoiceItems(tx *gorm.DB, model *models.InvoiceModel) error {
	currentItemIDs := make([]uuid.UUID, len(model.Items))
	for i, item := range model.Items {
		currentItemIDs[i] = item.ID
	}

	if len(currentItemIDs) > 0 {
		if err := tx.Where("invoice_id = ? AND id NOT IN ?", model.ID, currentItemIDs).
			Delete(&models.InvoiceItemModel{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("invoice_id = ?", model.ID).
			Delete(&models.InvoiceItemModel{}).Error; err != nil {
			return err
		}
	}

	for i := range model.Items {
		model.Items[i].InvoiceID = model.ID
		if err := tx.Save(&model.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindItemByID finds a line item by its own ID
func (r *GormInvoiceRepository) FindItemByID(ctx context.Context, itemID uuid.UUID) (*billing.InvoiceItem, error) {
	var model models.InvoiceItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindItems lists an invoice's items in deterministic order: items with no
// target language first, then by item type, then oldest first.
func (r *GormInvoiceRepository) FindItems(ctx context.Context, invoiceID uuid.UUID) ([]billing.InvoiceItem, error) {
	var rows []models.InvoiceItemModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("(target_lang IS NULL OR target_lang = '') DESC, item_type ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]billing.InvoiceItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

// SaveItem creates or updates a single line item
func (r *GormInvoiceRepository) SaveItem(ctx context.Context, item *billing.InvoiceItem) error {
	model := models.InvoiceItemModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteItem removes a line item
func (r *GormInvoiceRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InvoiceItemModel{}, "id = ?", itemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filtering, sorting and pagination to the query
func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("invoices.%s %s", orderBy, orderDir))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}
	return query
}

// applyFilterWithoutPagination applies only the where clauses
func (r *GormInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case billing.FilterStatus:
			query = query.Where("invoices.status = ?", value)
		case billing.FilterInvoiceType:
			query = query.Where("invoices.invoice_type = ?", value)
		case billing.FilterSalesOrders:
			if enabled, ok := value.(bool); ok && enabled {
				query = query.Where("invoices.invoice_type IN ?", []billing.InvoiceType{
					billing.InvoiceTypeProForma, billing.InvoiceTypeSalesOrder,
				})
			}
		case billing.FilterInvoicesOnly:
			if enabled, ok := value.(bool); ok && enabled {
				query = query.Where("invoices.invoice_type NOT IN ?", []billing.InvoiceType{
					billing.InvoiceTypeProForma, billing.InvoiceTypeSalesOrder,
				})
			}
		case billing.FilterJobID:
			query = query.Where("invoices.job_id = ?", value)
		case billing.FilterJobUUID:
			query = query.Where("jobs.uuid = ?", value)
		case billing.FilterGroupID:
			query = query.Where("invoices.invoice_group_id = ?", value)
		case billing.FilterCurrency:
			query = query.Where("invoices.currency = ?", value)
		case billing.FilterClientName:
			query = query.Where("invoices.client_name ILIKE ?", fmt.Sprintf("%%%v%%", value))
		case billing.FilterDateFrom:
			query = query.Where("invoices.created_at >= ?", value)
		case billing.FilterDateTo:
			query = query.Where("invoices.created_at <= ?", value)
		}
	}
	return query
}
