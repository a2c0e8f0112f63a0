package billing

import (
	"time"

	"github.com/langbridge/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// GroupDisplayOptions controls which columns appear on a consolidated
// group invoice document.
type GroupDisplayOptions struct {
	InclInvoices  bool
	InclJobTitle  bool
	InclWordCount bool
	InclPO        bool
	InclRef       bool
}

// InvoiceGroup aggregates invoices for consolidated billing
type InvoiceGroup struct {
	shared.BaseAggregateRoot
	Status         InvoiceStatus
	PreviousStatus *InvoiceStatus
	Currency       string
	Amount         decimal.Decimal
	AmountNett     decimal.Decimal
	ClientName     string
	ClientEmail    string
	Notes          string
	Description    string
	DisplayOptions GroupDisplayOptions
	Deleted        bool
	CreatedBy      string
	ModifiedBy     string
}

// NewInvoiceGroup creates a new invoice group in Draft status
func NewInvoiceGroup(currency string, createdBy string) (*InvoiceGroup, error) {
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency is required")
	}
	return &InvoiceGroup{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            InvoiceStatusDraft,
		Currency:          currency,
		Amount:            decimal.Zero,
		AmountNett:        decimal.Zero,
		CreatedBy:         createdBy,
	}, nil
}

// ChangeStatus transitions the group through the invoice workflow table
func (g *InvoiceGroup) ChangeStatus(target InvoiceStatus, modifiedBy string) error {
	if err := ValidateInvoiceTransition(g.Status, target); err != nil {
		return err
	}
	g.Status = target
	g.ModifiedBy = modifiedBy
	g.UpdatedAt = time.Now()
	return nil
}

// SoftDelete flags the group as deleted, idempotently
func (g *InvoiceGroup) SoftDelete(modifiedBy string) {
	if g.Deleted {
		return
	}
	g.Deleted = true
	g.ModifiedBy = modifiedBy
	g.UpdatedAt = time.Now()
}

// Recalculate updates the group totals from its member invoices
func (g *InvoiceGroup) Recalculate(members []Invoice) {
	amount := decimal.Zero
	nett := decimal.Zero
	for _, inv := range members {
		amount = amount.Add(inv.Amount)
		nett = nett.Add(inv.AmountNett)
	}
	g.Amount = amount
	g.AmountNett = nett
	g.UpdatedAt = time.Now()
}
