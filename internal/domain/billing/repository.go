package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/langbridge/billing/internal/domain/shared"
)

// Filter keys understood by the billing repositories. Services populate
// shared.Filter.Filters with these; unknown keys are ignored.
const (
	FilterStatus         = "status"
	FilterInvoiceType    = "invoice_type"
	FilterSalesOrders    = "sales_orders_only"
	FilterInvoicesOnly   = "invoices_only"
	FilterJobID          = "job_id"
	FilterJobUUID        = "job_uuid"
	FilterGroupID        = "invoice_group_id"
	FilterTranslatorID   = "translator_id"
	FilterCurrency       = "currency"
	FilterClientName     = "client_name"
	FilterDateFrom       = "date_from"
	FilterDateTo         = "date_to"
	FilterApprovedForPay = "approved_for_payment"
	FilterIsInternal     = "is_internal"
	FilterIsDisputed     = "is_disputed"
)

// InvoiceRepository defines persistence for invoices and their line items.
// Reads return entities enriched with the derived job UUID; soft-deleted
// rows are excluded unless the method says otherwise.
type InvoiceRepository interface {
	// FindByID finds a live invoice by ID with items and job enrichment
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByIDIncludingDeleted finds an invoice regardless of the deleted
	// flag. Needed by restore.
	FindByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindAll lists live invoices matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)

	// Count counts live invoices matching the filter, ignoring pagination
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates an invoice and its items
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock saves with an optimistic version check. Status-changing
	// writes must go through here.
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// Transform persists the terminally transformed sales order and the new
	// invoice it produced in one unit of work. Neither write may land
	// without the other.
	Transform(ctx context.Context, salesOrder, invoice *Invoice) error

	// FindItemByID finds a line item by its own ID
	FindItemByID(ctx context.Context, itemID uuid.UUID) (*InvoiceItem, error)

	// FindItems lists an invoice's items in deterministic order
	FindItems(ctx context.Context, invoiceID uuid.UUID) ([]InvoiceItem, error)

	// SaveItem creates or updates a single line item
	SaveItem(ctx context.Context, item *InvoiceItem) error

	// DeleteItem removes a line item
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
}

// InvoiceGroupRepository defines persistence for invoice groups
type InvoiceGroupRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InvoiceGroup, error)
	FindByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*InvoiceGroup, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]InvoiceGroup, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, group *InvoiceGroup) error
	SaveWithLock(ctx context.Context, group *InvoiceGroup) error

	// FindMembers lists the live invoices assigned to the group
	FindMembers(ctx context.Context, groupID uuid.UUID) ([]Invoice, error)
}

// PurchaseOrderRepository defines persistence for purchase orders and their
// milestones and disbursement items
type PurchaseOrderRepository interface {
	// FindByID finds a live purchase order with children and job enrichment
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByIDIncludingDeleted finds a purchase order regardless of the
	// deleted flag. Needed by restore.
	FindByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, po *PurchaseOrder) error
	SaveWithLock(ctx context.Context, po *PurchaseOrder) error

	// FindMilestones lists milestones ordered by ascending percentage
	FindMilestones(ctx context.Context, poID uuid.UUID) ([]POMilestone, error)
	FindMilestoneByID(ctx context.Context, milestoneID uuid.UUID) (*POMilestone, error)
	SaveMilestone(ctx context.Context, milestone *POMilestone) error

	// FindDisbursements lists disbursement items ordered by item type
	FindDisbursements(ctx context.Context, poID uuid.UUID) ([]PODisbursementItem, error)
	FindDisbursementByID(ctx context.Context, itemID uuid.UUID) (*PODisbursementItem, error)
	SaveDisbursement(ctx context.Context, item *PODisbursementItem) error
	DeleteDisbursement(ctx context.Context, itemID uuid.UUID) error
}
