package billing

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/langbridge/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceItem represents a line item owned by an invoice.
// TargetLang is nil for items that are not tied to a language pair.
type InvoiceItem struct {
	ID         uuid.UUID
	InvoiceID  uuid.UUID
	ItemType   ItemType
	SourceLang string
	TargetLang *string
	Currency   string
	UnitPrice  decimal.Decimal
	AmountNett decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewInvoiceItem creates a new invoice line item
func NewInvoiceItem(invoiceID uuid.UUID, itemType ItemType, sourceLang string, targetLang *string, currency string, unitPrice, amountNett decimal.Decimal) (*InvoiceItem, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if !itemType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Item type must be language_pair, additional_item or other")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if amountNett.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}

	now := time.Now()
	return &InvoiceItem{
		ID:         uuid.New(),
		InvoiceID:  invoiceID,
		ItemType:   itemType,
		SourceLang: sourceLang,
		TargetLang: targetLang,
		Currency:   currency,
		UnitPrice:  unitPrice,
		AmountNett: amountNett,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Invoice represents an invoice aggregate root. Sales orders are invoices with
// InvoiceType Pro Forma or Sales Order and follow the sales order workflow.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber  string
	JobID          *int64
	InvoiceGroupID *uuid.UUID
	InvoiceType    InvoiceType
	Status         InvoiceStatus
	// PreviousStatus holds the status at archive time so restore does not
	// have to guess. Nil unless the invoice is archived.
	PreviousStatus *InvoiceStatus
	Amount         decimal.Decimal
	AmountNett     decimal.Decimal
	Tax            decimal.Decimal
	TaxRate        decimal.Decimal
	Currency       string
	ClientName     string
	ClientEmail    string
	SourceLang     string
	TargetLang     string
	DueDate        *time.Time
	SentAt         *time.Time
	PaidAt         *time.Time
	Notes          string
	Description    string
	Deleted        bool
	CreatedBy      string
	ModifiedBy     string
	Items          []InvoiceItem

	// JobUUID is derived at read time from the job join. Never persisted.
	JobUUID *uuid.UUID
}

// NewInvoice creates a new invoice in Draft status
func NewInvoice(jobID *int64, amount decimal.Decimal, currency string, invoiceType InvoiceType, createdBy string) (*Invoice, error) {
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency is required")
	}
	if invoiceType == "" {
		invoiceType = InvoiceTypeTaxInvoice
	}
	if !invoiceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INVOICE_TYPE", "Unknown invoice type")
	}

	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		JobID:             jobID,
		InvoiceType:       invoiceType,
		Status:            InvoiceStatusDraft,
		Amount:            amount,
		AmountNett:        amount,
		Currency:          currency,
		CreatedBy:         createdBy,
		Items:             make([]InvoiceItem, 0),
	}, nil
}

// IsSalesOrder reports whether this invoice is a sales order subtype
func (inv *Invoice) IsSalesOrder() bool {
	return inv.InvoiceType.IsSalesOrder()
}

// IsArchived reports whether the invoice is archived
func (inv *Invoice) IsArchived() bool {
	return inv.Status == InvoiceStatusArchived
}

// ChangeStatus transitions the invoice to target, validating against the
// workflow table for the invoice kind (sales order subtypes use the sales
// order table). Entry timestamps for Sent and Paid are stamped here.
func (inv *Invoice) ChangeStatus(target InvoiceStatus, modifiedBy string) error {
	if inv.IsSalesOrder() {
		if err := ValidateSalesOrderTransition(SalesOrderStatus(inv.Status), SalesOrderStatus(target)); err != nil {
			return err
		}
	} else {
		if err := ValidateInvoiceTransition(inv.Status, target); err != nil {
			return err
		}
	}

	now := time.Now()
	inv.Status = target
	switch target {
	case InvoiceStatusSent:
		inv.SentAt = &now
	case InvoiceStatusPaid:
		inv.PaidAt = &now
	}
	inv.ModifiedBy = modifiedBy
	inv.UpdatedAt = now
	return nil
}

// Approve marks the invoice as paid through the regular workflow
func (inv *Invoice) Approve(modifiedBy string) error {
	return inv.ChangeStatus(InvoiceStatusPaid, modifiedBy)
}

// SoftDelete flags the invoice as deleted. Deleting an already deleted
// invoice is a no-op.
func (inv *Invoice) SoftDelete(modifiedBy string) {
	if inv.Deleted {
		return
	}
	inv.Deleted = true
	inv.ModifiedBy = modifiedBy
	inv.UpdatedAt = time.Now()
}

// Archive stores the current status and moves the invoice to Archived.
// Archiving bypasses the workflow table and is legal from any live state.
func (inv *Invoice) Archive(modifiedBy string) error {
	if inv.Deleted {
		return shared.ErrNotFound
	}
	if inv.IsArchived() {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Invoice is already archived")
	}
	prev := inv.Status
	inv.PreviousStatus = &prev
	inv.Status = InvoiceStatusArchived
	inv.Deleted = true
	inv.ModifiedBy = modifiedBy
	inv.UpdatedAt = time.Now()
	return nil
}

// Restore reverses an archive, returning the invoice to the status it held
// immediately before archiving.
func (inv *Invoice) Restore(modifiedBy string) error {
	if !inv.IsArchived() {
		return shared.NewDomainError("NOT_ARCHIVED", "Invoice is not archived")
	}
	if inv.PreviousStatus != nil {
		inv.Status = *inv.PreviousStatus
	} else {
		inv.Status = InvoiceStatusDraft
	}
	inv.PreviousStatus = nil
	inv.Deleted = false
	inv.ModifiedBy = modifiedBy
	inv.UpdatedAt = time.Now()
	return nil
}

// AssignToGroup places the invoice into an invoice group. Assigning to the
// group it already belongs to is a no-op.
func (inv *Invoice) AssignToGroup(groupID uuid.UUID) {
	if inv.InvoiceGroupID != nil && *inv.InvoiceGroupID == groupID {
		return
	}
	inv.InvoiceGroupID = &groupID
	inv.UpdatedAt = time.Now()
}

// RemoveFromGroup detaches the invoice from its group. Removing an ungrouped
// invoice is a no-op.
func (inv *Invoice) RemoveFromGroup() {
	if inv.InvoiceGroupID == nil {
		return
	}
	inv.InvoiceGroupID = nil
	inv.UpdatedAt = time.Now()
}

// TransformToInvoice terminally marks a sales order as Transformed and
// returns a fresh invoice carrying over its financials and line items. The
// sales order record is kept, never converted in place, so the Transformed
// terminal state stays observable.
func (inv *Invoice) TransformToInvoice(invoiceType InvoiceType, dueDate *time.Time, modifiedBy string) (*Invoice, error) {
	if !inv.IsSalesOrder() {
		return nil, shared.NewDomainError("NOT_SALES_ORDER", "Only sales orders can be transformed to invoices")
	}
	if err := ValidateSalesOrderTransition(SalesOrderStatus(inv.Status), SalesOrderStatusTransformed); err != nil {
		return nil, err
	}
	if invoiceType == "" {
		invoiceType = InvoiceTypeTaxInvoice
	}
	if invoiceType.IsSalesOrder() {
		return nil, shared.NewDomainError("INVALID_INVOICE_TYPE", "Transformation target must be an invoice type")
	}

	created, err := NewInvoice(inv.JobID, inv.Amount, inv.Currency, invoiceType, modifiedBy)
	if err != nil {
		return nil, err
	}
	created.AmountNett = inv.AmountNett
	created.Tax = inv.Tax
	created.TaxRate = inv.TaxRate
	created.ClientName = inv.ClientName
	created.ClientEmail = inv.ClientEmail
	created.SourceLang = inv.SourceLang
	created.TargetLang = inv.TargetLang
	created.Notes = inv.Notes
	created.Description = inv.Description
	created.DueDate = inv.DueDate
	if dueDate != nil {
		created.DueDate = dueDate
	}
	for _, item := range inv.Items {
		copied, err := NewInvoiceItem(created.ID, item.ItemType, item.SourceLang, item.TargetLang, item.Currency, item.UnitPrice, item.AmountNett)
		if err != nil {
			return nil, err
		}
		created.Items = append(created.Items, *copied)
	}

	now := time.Now()
	inv.Status = InvoiceStatus(SalesOrderStatusTransformed)
	inv.ModifiedBy = modifiedBy
	inv.UpdatedAt = now
	return created, nil
}

// SortItems orders line items deterministically: items with no target
// language first, then grouped by item type, then oldest first.
func (inv *Invoice) SortItems() {
	sort.SliceStable(inv.Items, func(i, j int) bool {
		a, b := inv.Items[i], inv.Items[j]
		aNoTarget := a.TargetLang == nil || *a.TargetLang == ""
		bNoTarget := b.TargetLang == nil || *b.TargetLang == ""
		if aNoTarget != bNoTarget {
			return aNoTarget
		}
		if a.ItemType != b.ItemType {
			return a.ItemType < b.ItemType
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

// GetItem returns an item by its ID, or nil if absent
func (inv *Invoice) GetItem(itemID uuid.UUID) *InvoiceItem {
	for idx := range inv.Items {
		if inv.Items[idx].ID == itemID {
			return &inv.Items[idx]
		}
	}
	return nil
}
