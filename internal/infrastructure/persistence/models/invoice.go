package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/langbridge/billing/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
// Sales orders share this table and are distinguished by invoice_type.
// JobUUID is read-only: it is filled by the job join on reads and never
// written back.
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber  string                 `gorm:"type:varchar(50);index"`
	JobID          *int64                 `gorm:"index"`
	InvoiceGroupID *uuid.UUID             `gorm:"type:uuid;index"`
	InvoiceType    billing.InvoiceType    `gorm:"type:varchar(20);not null;default:'Tax Invoice';index"`
	Status         billing.InvoiceStatus  `gorm:"type:varchar(20);not null;default:'Draft';index"`
	PreviousStatus *billing.InvoiceStatus `gorm:"type:varchar(20)"`
	Amount         decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	AmountNett     decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Tax            decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate        decimal.Decimal        `gorm:"type:decimal(8,4);not null;default:0"`
	Currency       string                 `gorm:"type:varchar(3);not null"`
	ClientName     string                 `gorm:"type:varchar(200)"`
	ClientEmail    string                 `gorm:"type:varchar(200)"`
	SourceLang     string                 `gorm:"type:varchar(10)"`
	TargetLang     string                 `gorm:"type:varchar(10)"`
	DueDate        *time.Time             `gorm:"index"`
	SentAt         *time.Time
	PaidAt         *time.Time
	Notes          string             `gorm:"type:text"`
	Description    string             `gorm:"type:text"`
	Deleted        bool               `gorm:"not null;default:false;index"`
	CreatedBy      string             `gorm:"type:varchar(100)"`
	ModifiedBy     string             `gorm:"type:varchar(100)"`
	Items          []InvoiceItemModel `gorm:"foreignKey:InvoiceID;references:ID"`

	JobUUID *uuid.UUID `gorm:"->"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	inv := &billing.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		JobID:             m.JobID,
		InvoiceGroupID:    m.InvoiceGroupID,
		InvoiceType:       m.InvoiceType,
		Status:            m.Status,
		PreviousStatus:    m.PreviousStatus,
		Amount:            m.Amount,
		AmountNett:        m.AmountNett,
		Tax:               m.Tax,
		TaxRate:           m.TaxRate,
		Currency:          m.Currency,
		ClientName:        m.ClientName,
		ClientEmail:       m.ClientEmail,
		SourceLang:        m.SourceLang,
		TargetLang:        m.TargetLang,
		DueDate:           m.DueDate,
		SentAt:            m.SentAt,
		PaidAt:            m.PaidAt,
		Notes:             m.Notes,
		Description:       m.Description,
		Deleted:           m.Deleted,
		CreatedBy:         m.CreatedBy,
		ModifiedBy:        m.ModifiedBy,
		JobUUID:           m.JobUUID,
		Items:             make([]billing.InvoiceItem, len(m.Items)),
	}
	for i, item := range m.Items {
		inv.Items[i] = *item.ToDomain()
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.JobID = inv.JobID
	m.InvoiceGroupID = inv.InvoiceGroupID
	m.InvoiceType = inv.InvoiceType
	m.Status = inv.Status
	m.PreviousStatus = inv.PreviousStatus
	m.Amount = inv.Amount
	m.AmountNett = inv.AmountNett
	m.Tax = inv.Tax
	m.TaxRate = inv.TaxRate
	m.Currency = inv.Currency
	m.ClientName = inv.ClientName
	m.ClientEmail = inv.ClientEmail
	m.SourceLang = inv.SourceLang
	m.TargetLang = inv.TargetLang
	m.DueDate = inv.DueDate
	m.SentAt = inv.SentAt
	m.PaidAt = inv.PaidAt
	m.Notes = inv.Notes
	m.Description = inv.Description
	m.Deleted = inv.Deleted
	m.CreatedBy = inv.CreatedBy
	m.ModifiedBy = inv.ModifiedBy
	m.Items = make([]InvoiceItemModel, len(inv.Items))
	for i, item := range inv.Items {
		m.Items[i] = *InvoiceItemModelFromDomain(&item)
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice entity.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InvoiceItemModel is the persistence model for the InvoiceItem entity.
type InvoiceItemModel struct {
	ID         uuid.UUID        `gorm:"type:uuid;primary_key"`
	InvoiceID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	ItemType   billing.ItemType `gorm:"type:varchar(20);not null"`
	SourceLang string           `gorm:"type:varchar(10)"`
	TargetLang *string          `gorm:"type:varchar(10)"`
	Currency   string           `gorm:"type:varchar(3);not null"`
	UnitPrice  decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	AmountNett decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt  time.Time        `gorm:"not null"`
	UpdatedAt  time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain InvoiceItem entity.
func (m *InvoiceItemModel) ToDomain() *billing.InvoiceItem {
	return &billing.InvoiceItem{
		ID:         m.ID,
		InvoiceID:  m.InvoiceID,
		ItemType:   m.ItemType,
		SourceLang: m.SourceLang,
		TargetLang: m.TargetLang,
		Currency:   m.Currency,
		UnitPrice:  m.UnitPrice,
		AmountNett: m.AmountNett,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain InvoiceItem entity.
func (m *InvoiceItemModel) FromDomain(item *billing.InvoiceItem) {
	m.ID = item.ID
	m.InvoiceID = item.InvoiceID
	m.ItemType = item.ItemType
	m.SourceLang = item.SourceLang
	m.TargetLang = item.TargetLang
	m.Currency = item.Currency
	m.UnitPrice = item.UnitPrice
	m.AmountNett = item.AmountNett
	m.CreatedAt = item.CreatedAt
	m.UpdatedAt = item.UpdatedAt
}

// InvoiceItemModelFromDomain creates a new persistence model from a domain InvoiceItem entity.
func InvoiceItemModelFromDomain(item *billing.InvoiceItem) *InvoiceItemModel {
	m := &InvoiceItemModel{}
	m.FromDomain(item)
	return m
}

// InvoiceGroupModel is the persistence model for the InvoiceGroup aggregate root.
type InvoiceGroupModel struct {
	AggregateModel
	Status         billing.InvoiceStatus  `gorm:"type:varchar(20);not null;default:'Draft';index"`
	PreviousStatus *billing.InvoiceStatus `gorm:"type:varchar(20)"`
	Currency       string                 `gorm:"type:varchar(3);not null"`
	Amount         decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	AmountNett     decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	ClientName     string                 `gorm:"type:varchar(200)"`
	ClientEmail    string                 `gorm:"type:varchar(200)"`
	Notes          string                 `gorm:"type:text"`
	Description    string                 `gorm:"type:text"`
	InclInvoices   bool                   `gorm:"not null;default:false"`
	InclJobTitle   bool                   `gorm:"not null;default:false"`
	InclWordCount  bool                   `gorm:"not null;default:false"`
	InclPO         bool                   `gorm:"not null;default:false"`
	InclRef        bool                   `gorm:"not null;default:false"`
	Deleted        bool                   `gorm:"not null;default:false;index"`
	CreatedBy      string                 `gorm:"type:varchar(100)"`
	ModifiedBy     string                 `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (InvoiceGroupModel) TableName() string {
	return "invoice_groups"
}

// ToDomain converts the persistence model to a domain InvoiceGroup entity.
func (m *InvoiceGroupModel) ToDomain() *billing.InvoiceGroup {
	return &billing.InvoiceGroup{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Status:            m.Status,
		PreviousStatus:    m.PreviousStatus,
		Currency:          m.Currency,
		Amount:            m.Amount,
		AmountNett:        m.AmountNett,
		ClientName:        m.ClientName,
		ClientEmail:       m.ClientEmail,
		Notes:             m.Notes,
		Description:       m.Description,
		DisplayOptions: billing.GroupDisplayOptions{
			InclInvoices:  m.InclInvoices,
			InclJobTitle:  m.InclJobTitle,
			InclWordCount: m.InclWordCount,
			InclPO:        m.InclPO,
			InclRef:       m.InclRef,
		},
		Deleted:    m.Deleted,
		CreatedBy:  m.CreatedBy,
		ModifiedBy: m.ModifiedBy,
	}
}

// FromDomain populates the persistence model from a domain InvoiceGroup entity.
func (m *InvoiceGroupModel) FromDomain(g *billing.InvoiceGroup) {
	m.FromDomainAggregateRoot(g.BaseAggregateRoot)
	m.Status = g.Status
	m.PreviousStatus = g.PreviousStatus
	m.Currency = g.Currency
	m.Amount = g.Amount
	m.AmountNett = g.AmountNett
	m.ClientName = g.ClientName
	m.ClientEmail = g.ClientEmail
	m.Notes = g.Notes
	m.Description = g.Description
	m.InclInvoices = g.DisplayOptions.InclInvoices
	m.InclJobTitle = g.DisplayOptions.InclJobTitle
	m.InclWordCount = g.DisplayOptions.InclWordCount
	m.InclPO = g.DisplayOptions.InclPO
	m.InclRef = g.DisplayOptions.InclRef
	m.Deleted = g.Deleted
	m.CreatedBy = g.CreatedBy
	m.ModifiedBy = g.ModifiedBy
}

// InvoiceGroupModelFromDomain creates a new persistence model from a domain InvoiceGroup entity.
func InvoiceGroupModelFromDomain(g *billing.InvoiceGroup) *InvoiceGroupModel {
	m := &InvoiceGroupModel{}
	m.FromDomain(g)
	return m
}

// JobModel is the read-only projection of the jobs table owned by the jobs
// service. Billing never writes it; it exists for the read-time joins.
type JobModel struct {
	ID    int64     `gorm:"primaryKey"`
	UUID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Title string    `gorm:"type:varchar(300)"`
}

// TableName returns the table name for GORM
func (JobModel) TableName() string {
	return "jobs"
}

// ToDomain converts the persistence model to a domain Job projection.
func (m *JobModel) ToDomain() *billing.Job {
	return &billing.Job{
		ID:    m.ID,
		UUID:  m.UUID,
		Title: m.Title,
	}
}
