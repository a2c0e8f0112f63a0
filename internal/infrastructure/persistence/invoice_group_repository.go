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
)

// GormInvoiceGroupRepository implements billing.InvoiceGroupRepository using GORM
type GormInvoiceGroupRepository struct {
	db *gorm.DB
}

// NewGormInvoiceGroupRepository creates a new GormInvoiceGroupRepository
func NewGormInvoiceGroupRepository(db *gorm.DB) *GormInvoiceGroupRepository {
	return &GormInvoiceGroupRepository{db: db}
}

var _ billing.InvoiceGroupRepository = (*GormInvoiceGroupRepository)(nil)

// FindByID finds a live invoice group by ID
func (r *GormInvoiceGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.InvoiceGroup, error) {
	var model models.InvoiceGroupModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND deleted = ?", id, false).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDIncludingDeleted finds an invoice group regardless of the deleted flag
func (r *GormInvoiceGroupRepository) FindByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*billing.InvoiceGroup, error) {
	var model models.InvoiceGroupModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists live invoice groups matching the filter
func (r *GormInvoiceGroupRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.InvoiceGroup, error) {
	var rows []models.InvoiceGroupModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.InvoiceGroupModel{}).Where("deleted = ?", false),
		filter,
	)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	groups := make([]billing.InvoiceGroup, len(rows))
	for i := range rows {
		groups[i] = *rows[i].ToDomain()
	}
	return groups, nil
}

// Count counts live invoice groups matching the filter, ignoring pagination
func (r *GormInvoiceGroupRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.InvoiceGroupModel{}).Where("deleted = ?", false),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an invoice group
func (r *GormInvoiceGroupRepository) Save(ctx context.Context, group *billing.InvoiceGroup) error {
	model := models.InvoiceGroupModelFromDomain(group)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with an optimistic version check
func (r *GormInvoiceGroupRepository) SaveWithLock(ctx context.Context, group *billing.InvoiceGroup) error {
	model := models.InvoiceGroupModelFromDomain(group)
	currentVersion := model.Version
	model.Version++
	model.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&models.InvoiceGroupModel{}).
		Where("id = ? AND version = ?", model.ID, currentVersion).
		Updates(map[string]interface{}{
			"status":          model.Status,
			"previous_status": model.PreviousStatus,
			"currency":        model.Currency,
			"amount":          model.Amount,
			"amount_nett":     model.AmountNett,
			"client_name":     model.ClientName,
			"client_email":    model.ClientEmail,
			"notes":           model.Notes,
			"description":     model.Description,
			"incl_invoices":   model.InclInvoices,
			"incl_job_title":  model.InclJobTitle,
			"incl_word_count": model.InclWordCount,
			"incl_po":         model.InclPO,
			"incl_ref":        model.InclRef,
			"deleted":         model.Deleted,
			"modified_by":     model.ModifiedBy,
			"version":         model.Version,
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	group.Version = model.Version
	group.UpdatedAt = model.UpdatedAt
	return nil
}

// FindMembers lists the live invoices assigned to the group, enriched with
// the derived job UUID like every other invoice read.
func (r *GormInvoiceGroupRepository) FindMembers(ctx context.Context, groupID uuid.UUID) ([]billing.Invoice, error) {
	var rows []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("invoices.*, jobs.uuid AS job_uuid").
		Joins("LEFT JOIN jobs ON invoices.job_id = jobs.id").
		Where("invoices.invoice_group_id = ? AND invoices.deleted = ?", groupID, false).
		Order("invoices.created_at ASC").
		Preload("Items").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	members := make([]billing.Invoice, len(rows))
	for i := range rows {
		inv := rows[i].ToDomain()
		inv.SortItems()
		members[i] = *inv
	}
	return members, nil
}

// applyFilter applies filtering, sorting and pagination to the query
func (r *GormInvoiceGroupRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, InvoiceGroupSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}
	return query
}

// applyFilterWithoutPagination applies only the where clauses
func (r *GormInvoiceGroupRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case billing.FilterStatus:
			query = query.Where("status = ?", value)
		case billing.FilterCurrency:
			query = query.Where("currency = ?", value)
		case billing.FilterClientName:
			query = query.Where("client_name ILIKE ?", fmt.Sprintf("%%%v%%", value))
		case billing.FilterDateFrom:
			query = query.Where("created_at >= ?", value)
		case billing.FilterDateTo:
			query = query.Where("created_at <= ?", value)
		}
	}
	return query
}
