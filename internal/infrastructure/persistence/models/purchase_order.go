package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/langbridge/billing/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate
// root. OrderNumber comes from a sequence; JobID is read-only and filled by
// the job join on reads.
type PurchaseOrderModel struct {
	AggregateModel
	OrderNumber      int64             `gorm:"autoIncrement;uniqueIndex"`
	JobUUID          *uuid.UUID        `gorm:"type:uuid;index"`
	TranslatorID     *uuid.UUID        `gorm:"type:uuid;index"`
	ProjectManagerID *uuid.UUID        `gorm:"type:uuid;index"`
	OrderDate        *time.Time        `gorm:"index"`
	Amount           decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	AmountNett       decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Currency         string            `gorm:"type:varchar(3);not null"`
	Status           billing.POStatus  `gorm:"type:varchar(20);not null;default:'Pending';index"`
	PreviousStatus   *billing.POStatus `gorm:"type:varchar(20)"`
	POType           string            `gorm:"type:varchar(50)"`
	TargetLang       string            `gorm:"type:varchar(10)"`
	DateStart        *time.Time
	DateDue          *time.Time
	OrderNotes       string `gorm:"type:text"`
	DeclineNote      string `gorm:"type:text"`
	IsInternal       bool   `gorm:"not null;default:false"`
	IsDisputed       bool   `gorm:"not null;default:false;index"`
	ApprovedForPay   bool   `gorm:"not null;default:false;index"`
	ApprovedAt       *time.Time
	ApprovedBy       string                    `gorm:"type:varchar(100)"`
	Deleted          bool                      `gorm:"not null;default:false;index"`
	Milestones       []POMilestoneModel        `gorm:"foreignKey:PurchaseOrderID;references:ID"`
	Disbursements    []PODisbursementItemModel `gorm:"foreignKey:PurchaseOrderID;references:ID"`

	JobID *int64 `gorm:"->"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) ToDomain() *billing.PurchaseOrder {
	po := &billing.PurchaseOrder{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		JobUUID:           m.JobUUID,
		TranslatorID:      m.TranslatorID,
		ProjectManagerID:  m.ProjectManagerID,
		OrderDate:         m.OrderDate,
		Amount:            m.Amount,
		AmountNett:        m.AmountNett,
		Currency:          m.Currency,
		Status:            m.Status,
		PreviousStatus:    m.PreviousStatus,
		POType:            m.POType,
		TargetLang:        m.TargetLang,
		DateStart:         m.DateStart,
		DateDue:           m.DateDue,
		OrderNotes:        m.OrderNotes,
		DeclineNote:       m.DeclineNote,
		IsInternal:        m.IsInternal,
		IsDisputed:        m.IsDisputed,
		ApprovedForPay:    m.ApprovedForPay,
		ApprovedAt:        m.ApprovedAt,
		ApprovedBy:        m.ApprovedBy,
		Deleted:           m.Deleted,
		JobID:             m.JobID,
		Milestones:        make([]billing.POMilestone, len(m.Milestones)),
		Disbursements:     make([]billing.PODisbursementItem, len(m.Disbursements)),
	}
	for i, ms := range m.Milestones {
		po.Milestones[i] = *ms.ToDomain()
	}
	for i, d := range m.Disbursements {
		po.Disbursements[i] = *d.ToDomain()
	}
	return po
}

// FromDomain populates the persistence model from a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) FromDomain(po *billing.PurchaseOrder) {
	m.FromDomainAggregateRoot(po.BaseAggregateRoot)
	m.OrderNumber = po.OrderNumber
	m.JobUUID = po.JobUUID
	m.TranslatorID = po.TranslatorID
	m.ProjectManagerID = po.ProjectManagerID
	m.OrderDate = po.OrderDate
	m.Amount = po.Amount
	m.AmountNett = po.AmountNett
	m.Currency = po.Currency
	m.Status = po.Status
	m.PreviousStatus = po.PreviousStatus
	m.POType = po.POType
	m.TargetLang = po.TargetLang
	m.DateStart = po.DateStart
	m.DateDue = po.DateDue
	m.OrderNotes = po.OrderNotes
	m.DeclineNote = po.DeclineNote
	m.IsInternal = po.IsInternal
	m.IsDisputed = po.IsDisputed
	m.ApprovedForPay = po.ApprovedForPay
	m.ApprovedAt = po.ApprovedAt
	m.ApprovedBy = po.ApprovedBy
	m.Deleted = po.Deleted
	m.Milestones = make([]POMilestoneModel, len(po.Milestones))
	for i, ms := range po.Milestones {
		m.Milestones[i] = *POMilestoneModelFromDomain(&ms)
	}
	m.Disbursements = make([]PODisbursementItemModel, len(po.Disbursements))
	for i, d := range po.Disbursements {
		m.Disbursements[i] = *PODisbursementItemModelFromDomain(&d)
	}
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder entity.
func PurchaseOrderModelFromDomain(po *billing.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{}
	m.FromDomain(po)
	return m
}

// POMilestoneModel is the persistence model for the POMilestone entity.
type POMilestoneModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	PurchaseOrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	Milestone       int       `gorm:"not null"`
	Confirmed       bool      `gorm:"not null;default:false"`
	CompletedAt     *time.Time
	Notes           string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (POMilestoneModel) TableName() string {
	return "po_milestones"
}

// ToDomain converts the persistence model to a domain POMilestone entity.
func (m *POMilestoneModel) ToDomain() *billing.POMilestone {
	return &billing.POMilestone{
		ID:              m.ID,
		PurchaseOrderID: m.PurchaseOrderID,
		Milestone:       m.Milestone,
		Confirmed:       m.Confirmed,
		CompletedAt:     m.CompletedAt,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain POMilestone entity.
func (m *POMilestoneModel) FromDomain(ms *billing.POMilestone) {
	m.ID = ms.ID
	m.PurchaseOrderID = ms.PurchaseOrderID
	m.Milestone = ms.Milestone
	m.Confirmed = ms.Confirmed
	m.CompletedAt = ms.CompletedAt
	m.Notes = ms.Notes
	m.CreatedAt = ms.CreatedAt
	m.UpdatedAt = ms.UpdatedAt
}

// POMilestoneModelFromDomain creates a new persistence model from a domain POMilestone entity.
func POMilestoneModelFromDomain(ms *billing.POMilestone) *POMilestoneModel {
	m := &POMilestoneModel{}
	m.FromDomain(ms)
	return m
}

// PODisbursementItemModel is the persistence model for the PODisbursementItem entity.
type PODisbursementItemModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemType        string          `gorm:"type:varchar(50);not null"`
	ItemTypeInfo    string          `gorm:"type:varchar(200)"`
	NoOfUnits       int             `gorm:"not null"`
	RatePerUnit     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalCost       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PODisbursementItemModel) TableName() string {
	return "po_disbursement_items"
}

// ToDomain converts the persistence model to a domain PODisbursementItem entity.
func (m *PODisbursementItemModel) ToDomain() *billing.PODisbursementItem {
	return &billing.PODisbursementItem{
		ID:              m.ID,
		PurchaseOrderID: m.PurchaseOrderID,
		ItemType:        m.ItemType,
		ItemTypeInfo:    m.ItemTypeInfo,
		NoOfUnits:       m.NoOfUnits,
		RatePerUnit:     m.RatePerUnit,
		TotalCost:       m.TotalCost,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain PODisbursementItem entity.
func (m *PODisbursementItemModel) FromDomain(item *billing.PODisbursementItem) {
	m.ID = item.ID
	m.PurchaseOrderID = item.PurchaseOrderID
	m.ItemType = item.ItemType
	m.ItemTypeInfo = item.ItemTypeInfo
	m.NoOfUnits = item.NoOfUnits
	m.RatePerUnit = item.RatePerUnit
	m.TotalCost = item.TotalCost
	m.CreatedAt = item.CreatedAt
	m.UpdatedAt = item.UpdatedAt
}

// PODisbursementItemModelFromDomain creates a new persistence model from a domain PODisbursementItem entity.
func PODisbursementItemModelFromDomain(item *billing.PODisbursementItem) *PODisbursementItemModel {
	m := &PODisbursementItemModel{}
	m.FromDomain(item)
	return m
}
