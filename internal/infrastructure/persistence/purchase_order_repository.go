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

// GormPurchaseOrderRepository implements billing.PurchaseOrderRepository
// using GORM. Purchase orders reference jobs by UUID, so the enrichment join
// runs the other way round from invoices and yields the numeric job ID.
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

var _ billing.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)

// poQuery builds the base read query with job enrichment
func (r *GormPurchaseOrderRepository) poQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.PurchaseOrderModel{}).
		Select("purchase_orders.*, jobs.id AS job_id").
		Joins("LEFT JOIN jobs ON purchase_orders.job_uuid = jobs.uuid")
}

// FindByID finds a live purchase order with children and job enrichment
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := r.poQuery(ctx).
		Preload("Milestones", func(db *gorm.DB) *gorm.DB {
			return db.Order("milestone ASC")
		}).
		Preload("Disbursements", func(db *gorm.DB) *gorm.DB {
			return db.Order("item_type ASC, created_at ASC")
		}).
		Where("purchase_orders.id = ? AND purchase_orders.deleted = ?", id, false).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDIncludingDeleted finds a purchase order regardless of the deleted flag
func (r *GormPurchaseOrderRepository) FindByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*billing.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := r.poQuery(ctx).
		Preload("Milestones", func(db *gorm.DB) *gorm.DB {
			return db.Order("milestone ASC")
		}).
		Preload("Disbursements", func(db *gorm.DB) *gorm.DB {
			return db.Order("item_type ASC, created_at ASC")
		}).
		Where("purchase_orders.id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists live purchase orders matching the filter
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.PurchaseOrder, error) {
	var rows []models.PurchaseOrderModel
	query := r.applyFilter(r.poQuery(ctx).Where("purchase_orders.deleted = ?", false), filter)

	if err := query.
		Preload("Milestones", func(db *gorm.DB) *gorm.DB {
			return db.Order("milestone ASC")
		}).
		Preload("Disbursements", func(db *gorm.DB) *gorm.DB {
			return db.Order("item_type ASC, created_at ASC")
		}).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	orders := make([]billing.PurchaseOrder, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// Count counts live purchase orders matching the filter, ignoring pagination
func (r *GormPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).
			Model(&models.PurchaseOrderModel{}).
			Joins("LEFT JOIN jobs ON purchase_orders.job_uuid = jobs.uuid").
			Where("purchase_orders.deleted = ?", false),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a purchase order. Children are managed through
// their own methods, so associations are omitted here.
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, po *billing.PurchaseOrder) error {
	model := models.PurchaseOrderModelFromDomain(po)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error; err != nil {
		return err
	}
	// Surface the sequence-assigned order number on create.
	po.OrderNumber = model.OrderNumber
	return nil
}

// SaveWithLock saves with an optimistic version check
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, po *billing.PurchaseOrder) error {
	model := models.PurchaseOrderModelFromDomain(po)
	currentVersion := model.Version
	model.Version++
	model.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).
		Where("id = ? AND version = ?", model.ID, currentVersion).
		Updates(map[string]interface{}{
			"job_uuid":           model.JobUUID,
			"translator_id":      model.TranslatorID,
			"project_manager_id": model.ProjectManagerID,
			"order_date":         model.OrderDate,
			"amount":             model.Amount,
			"amount_nett":        model.AmountNett,
			"currency":           model.Currency,
			"status":             model.Status,
			"previous_status":    model.PreviousStatus,
			"po_type":            model.POType,
			"target_lang":        model.TargetLang,
			"date_start":         model.DateStart,
			"date_due":           model.DateDue,
			"order_notes":        model.OrderNotes,
			"decline_note":       model.DeclineNote,
			"is_internal":        model.IsInternal,
			"is_disputed":        model.IsDisputed,
			"approved_for_pay":   model.ApprovedForPay,
			"approved_at":        model.ApprovedAt,
			"approved_by":        model.ApprovedBy,
			"deleted":            model.Deleted,
			"version":            model.Version,
			"updated_at":         model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	po.Version = model.Version
	po.UpdatedAt = model.UpdatedAt
	return nil
}

// FindMilestones lists milestones ordered by ascending percentage
func (r *GormPurchaseOrderRepository) FindMilestones(ctx context.Context, poID uuid.UUID) ([]billing.POMilestone, error) {
	var rows []models.POMilestoneModel
	if err := r.db.WithContext(ctx).
		Where("purchase_order_id = ?", poID).
		Order("milestone ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	milestones := make([]billing.POMilestone, len(rows))
	for i := range rows {
		milestones[i] = *rows[i].ToDomain()
	}
	return milestones, nil
}

// FindMilestoneByID finds a milestone by its own ID
func (r *GormPurchaseOrderRepository) FindMilestoneByID(ctx context.Context, milestoneID uuid.UUID) (*billing.POMilestone, error) {
	var model models.POMilestoneModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", milestoneID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SaveMilestone creates or updates a milestone
func (r *GormPurchaseOrderRepository) SaveMilestone(ctx context.Context, milestone *billing.POMilestone) error {
	model := models.POMilestoneModelFromDomain(milestone)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindDisbursements lists disbursement items ordered by item type
func (r *GormPurchaseOrderRepository) FindDisbursements(ctx context.Context, poID uuid.UUID) ([]billing.PODisbursementItem, error) {
	var rows []models.PODisbursementItemModel
	if err := r.db.WithContext(ctx).
		Where("purchase_order_id = ?", poID).
		Order("item_type ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]billing.PODisbursementItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

// FindDisbursementByID finds a disbursement item by its own ID
func (r *GormPurchaseOrderRepository) FindDisbursementByID(ctx context.Context, itemID uuid.UUID) (*billing.PODisbursementItem, error) {
	var model models.PODisbursementItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SaveDisbursement creates or updates a disbursement item
func (r *GormPurchaseOrderRepository) SaveDisbursement(ctx context.Context, item *billing.PODisbursementItem) error {
	model := models.PODisbursementItemModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteDisbursement removes a disbursement item
func (r *GormPurchaseOrderRepository) DeleteDisbursement(ctx context.Context, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PODisbursementItemModel{}, "id = ?", itemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filtering, sorting and pagination to the query
func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, PurchaseOrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("purchase_orders.%s %s", orderBy, orderDir))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}
	return query
}

// applyFilterWithoutPagination applies only the where clauses
func (r *GormPurchaseOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case billing.FilterStatus:
			query = query.Where("purchase_orders.status = ?", value)
		case billing.FilterJobUUID:
			query = query.Where("purchase_orders.job_uuid = ?", value)
		case billing.FilterJobID:
			query = query.Where("jobs.id = ?", value)
		case billing.FilterTranslatorID:
			query = query.Where("purchase_orders.translator_id = ?", value)
		case billing.FilterCurrency:
			query = query.Where("purchase_orders.currency = ?", value)
		case billing.FilterApprovedForPay:
			query = query.Where("purchase_orders.approved_for_pay = ?", value)
		case billing.FilterIsInternal:
			query = query.Where("purchase_orders.is_internal = ?", value)
		case billing.FilterIsDisputed:
			query = query.Where("purchase_orders.is_disputed = ?", value)
		case billing.FilterDateFrom:
			query = query.Where("purchase_orders.created_at >= ?", value)
		case billing.FilterDateTo:
			query = query.Where("purchase_orders.created_at <= ?", value)
		}
	}
	return query
}
