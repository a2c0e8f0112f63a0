package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/langbridge/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// POMilestone marks a completion percentage on a purchase order
type POMilestone struct {
	ID              uuid.UUID
	PurchaseOrderID uuid.UUID
	Milestone       int
	Confirmed       bool
	CompletedAt     *time.Time
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewPOMilestone creates a milestone. The percentage must be in 1..100.
func NewPOMilestone(poID uuid.UUID, milestone int, notes string) (*POMilestone, error) {
	if poID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PURCHASE_ORDER", "Purchase order ID cannot be empty")
	}
	if milestone < 1 || milestone > 100 {
		return nil, shared.NewDomainError("INVALID_MILESTONE", "Milestone percentage must be between 1 and 100")
	}
	now := time.Now()
	return &POMilestone{
		ID:              uuid.New(),
		PurchaseOrderID: poID,
		Milestone:       milestone,
		Notes:           notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Confirm marks the milestone as reached
func (m *POMilestone) Confirm() {
	if m.Confirmed {
		return
	}
	now := time.Now()
	m.Confirmed = true
	m.CompletedAt = &now
	m.UpdatedAt = now
}

// PODisbursementItem is a cost line attached to a purchase order.
// TotalCost is caller-supplied and checked, not derived.
type PODisbursementItem struct {
	ID              uuid.UUID
	PurchaseOrderID uuid.UUID
	ItemType        string
	ItemTypeInfo    string
	NoOfUnits       int
	RatePerUnit     decimal.Decimal
	TotalCost       decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewPODisbursementItem creates a disbursement line, rejecting a total that
// does not equal units times rate.
func NewPODisbursementItem(poID uuid.UUID, itemType, itemTypeInfo string, noOfUnits int, ratePerUnit, totalCost decimal.Decimal) (*PODisbursementItem, error) {
	if poID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PURCHASE_ORDER", "Purchase order ID cannot be empty")
	}
	if itemType == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Item type is required")
	}
	if noOfUnits <= 0 {
		return nil, shared.NewDomainError("INVALID_UNITS", "Number of units must be positive")
	}
	if ratePerUnit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Rate per unit cannot be negative")
	}
	expected := ratePerUnit.Mul(decimal.NewFromInt(int64(noOfUnits)))
	if !totalCost.Equal(expected) {
		return nil, shared.NewDomainError("INVALID_TOTAL_COST", "Total cost must equal units multiplied by rate per unit")
	}
	now := time.Now()
	return &PODisbursementItem{
		ID:              uuid.New(),
		PurchaseOrderID: poID,
		ItemType:        itemType,
		ItemTypeInfo:    itemTypeInfo,
		NoOfUnits:       noOfUnits,
		RatePerUnit:     ratePerUnit,
		TotalCost:       totalCost,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// PurchaseOrder represents a purchase order aggregate root issued to a
// translator for a job.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber      int64
	JobUUID          *uuid.UUID
	TranslatorID     *uuid.UUID
	ProjectManagerID *uuid.UUID
	OrderDate        *time.Time
	Amount           decimal.Decimal
	AmountNett       decimal.Decimal
	Currency         string
	Status           POStatus
	PreviousStatus   *POStatus
	POType           string
	TargetLang       string
	DateStart        *time.Time
	DateDue          *time.Time
	OrderNotes       string
	DeclineNote      string
	IsInternal       bool
	IsDisputed       bool
	ApprovedForPay   bool
	ApprovedAt       *time.Time
	ApprovedBy       string
	Deleted          bool
	Milestones       []POMilestone
	Disbursements    []PODisbursementItem

	// JobID is derived at read time from the job join. Never persisted.
	JobID *int64
}

// NewPurchaseOrder creates a purchase order in Pending status
func NewPurchaseOrder(jobUUID, translatorID *uuid.UUID, amount decimal.Decimal, currency, poType string) (*PurchaseOrder, error) {
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency is required")
	}
	now := time.Now()
	return &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		JobUUID:           jobUUID,
		TranslatorID:      translatorID,
		OrderDate:         &now,
		Amount:            amount,
		AmountNett:        amount,
		Currency:          currency,
		Status:            POStatusPending,
		POType:            poType,
		Milestones:        make([]POMilestone, 0),
		Disbursements:     make([]PODisbursementItem, 0),
	}, nil
}

// IsArchived reports whether the purchase order is archived
func (po *PurchaseOrder) IsArchived() bool {
	return po.Status == POStatusArchived
}

// ChangeStatus transitions the purchase order, validating against the
// workflow table. The Disputed flag tracks entry into Disputed.
func (po *PurchaseOrder) ChangeStatus(target POStatus) error {
	if err := ValidatePOTransition(po.Status, target); err != nil {
		return err
	}
	po.Status = target
	po.IsDisputed = target == POStatusDisputed
	po.UpdatedAt = time.Now()
	return nil
}

// Approve moves the purchase order to Approved for payment. The workflow
// table restricts this to Completed and Disputed orders.
func (po *PurchaseOrder) Approve(approvedBy string) error {
	if err := ValidatePOTransition(po.Status, POStatusApproved); err != nil {
		return err
	}
	now := time.Now()
	po.Status = POStatusApproved
	po.IsDisputed = false
	po.ApprovedForPay = true
	po.ApprovedAt = &now
	po.ApprovedBy = approvedBy
	po.UpdatedAt = now
	return nil
}

// Dispute flags the order as disputed. Terminal orders cannot be disputed.
func (po *PurchaseOrder) Dispute() error {
	if IsTerminalPOStatus(po.Status) || po.IsArchived() {
		return shared.NewDomainError("INVALID_STATE", "Cannot dispute a terminal purchase order")
	}
	po.Status = POStatusDisputed
	po.IsDisputed = true
	po.UpdatedAt = time.Now()
	return nil
}

// SoftDelete flags the order as deleted, idempotently
func (po *PurchaseOrder) SoftDelete() {
	if po.Deleted {
		return
	}
	po.Deleted = true
	po.UpdatedAt = time.Now()
}

// Archive stores the current status and moves the order to Archived
func (po *PurchaseOrder) Archive() error {
	if po.Deleted {
		return shared.ErrNotFound
	}
	if po.IsArchived() {
		return shared.NewDomainError("ALREADY_ARCHIVED", "Purchase order is already archived")
	}
	prev := po.Status
	po.PreviousStatus = &prev
	po.Status = POStatusArchived
	po.Deleted = true
	po.UpdatedAt = time.Now()
	return nil
}

// Restore reverses an archive using the persisted previous status
func (po *PurchaseOrder) Restore() error {
	if !po.IsArchived() {
		return shared.NewDomainError("NOT_ARCHIVED", "Purchase order is not archived")
	}
	if po.PreviousStatus != nil {
		po.Status = *po.PreviousStatus
	} else {
		po.Status = POStatusPending
	}
	po.PreviousStatus = nil
	po.Deleted = false
	po.UpdatedAt = time.Now()
	return nil
}

// GetMilestone returns a milestone by ID, or nil if absent
func (po *PurchaseOrder) GetMilestone(id uuid.UUID) *POMilestone {
	for idx := range po.Milestones {
		if po.Milestones[idx].ID == id {
			return &po.Milestones[idx]
		}
	}
	return nil
}

// GetDisbursement returns a disbursement item by ID, or nil if absent
func (po *PurchaseOrder) GetDisbursement(id uuid.UUID) *PODisbursementItem {
	for idx := range po.Disbursements {
		if po.Disbursements[idx].ID == id {
			return &po.Disbursements[idx]
		}
	}
	return nil
}
