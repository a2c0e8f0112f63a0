package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/langbridge/billing/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// ==================== Invoice DTOs ====================

// CreateInvoiceRequest represents a request to create an invoice
type CreateInvoiceRequest struct {
	JobID       *int64          `json:"jobid"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"required,len=3"`
	InvoiceType string          `json:"invoice_type"`
	ClientName  string          `json:"client_name"`
	ClientEmail string          `json:"client_email" binding:"omitempty,email"`
	SourceLang  string          `json:"source_lang"`
	TargetLang  string          `json:"target_lang"`
	DueDate     *time.Time      `json:"due_date"`
	Notes       string          `json:"notes"`
	Description string          `json:"description"`
}

// UpdateInvoiceRequest represents a request to update an invoice. Nil fields
// are left untouched; a non-nil Status is routed through the workflow.
type UpdateInvoiceRequest struct {
	Status      *string          `json:"status"`
	Amount      *decimal.Decimal `json:"amount"`
	AmountNett  *decimal.Decimal `json:"amount_nett"`
	Currency    *string          `json:"currency" binding:"omitempty,len=3"`
	ClientName  *string          `json:"client_name"`
	ClientEmail *string          `json:"client_email" binding:"omitempty,email"`
	SourceLang  *string          `json:"source_lang"`
	TargetLang  *string          `json:"target_lang"`
	DueDate     *time.Time       `json:"due_date"`
	Notes       *string          `json:"notes"`
	Description *string          `json:"description"`
}

// InvoiceListFilter represents filter options for invoice listing
type InvoiceListFilter struct {
	Status      *string    `form:"status"`
	JobID       *int64     `form:"job_id"`
	GroupID     *uuid.UUID `form:"invoice_group_id"`
	Currency    *string    `form:"currency"`
	ClientName  *string    `form:"client_name"`
	InvoiceType *string    `form:"invoice_type"`
	DateFrom    *time.Time `form:"date_from"`
	DateTo      *time.Time `form:"date_to"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// InvoiceItemResponse represents a line item in API responses
type InvoiceItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	InvoiceID  uuid.UUID       `json:"invoice_uuid"`
	ItemType   string          `json:"item_type"`
	SourceLang string          `json:"source_lang,omitempty"`
	TargetLang *string         `json:"target_lang"`
	Currency   string          `json:"currency"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	AmountNett decimal.Decimal `json:"amount_nett"`
	CreatedAt  time.Time       `json:"created"`
	UpdatedAt  time.Time       `json:"modified"`
}

// InvoiceResponse represents an invoice in API responses. JobUUID is the
// enrichment field: null when the referenced job is missing.
type InvoiceResponse struct {
	ID             uuid.UUID             `json:"id"`
	InvoiceNumber  string                `json:"inv_number,omitempty"`
	JobID          *int64                `json:"jobid"`
	JobUUID        *uuid.UUID            `json:"job_uuid"`
	InvoiceGroupID *uuid.UUID            `json:"invoice_groupid,omitempty"`
	InvoiceType    string                `json:"invoice_type"`
	Status         string                `json:"status"`
	PreviousStatus *string               `json:"previous_status,omitempty"`
	Amount         decimal.Decimal       `json:"amount"`
	AmountNett     decimal.Decimal       `json:"amount_nett"`
	Tax            decimal.Decimal       `json:"tax"`
	TaxRate        decimal.Decimal       `json:"tax_rate"`
	Currency       string                `json:"currency"`
	ClientName     string                `json:"client_name,omitempty"`
	ClientEmail    string                `json:"client_email,omitempty"`
	SourceLang     string                `json:"sl,omitempty"`
	TargetLang     string                `json:"tl,omitempty"`
	DueDate        *time.Time            `json:"due_date"`
	SentAt         *time.Time            `json:"sent"`
	PaidAt         *time.Time            `json:"paid"`
	Notes          string                `json:"notes,omitempty"`
	Description    string                `json:"description,omitempty"`
	Deleted        bool                  `json:"deleted"`
	Items          []InvoiceItemResponse `json:"items,omitempty"`
	CreatedBy      string                `json:"created_by,omitempty"`
	ModifiedBy     string                `json:"modified_by,omitempty"`
	CreatedAt      time.Time             `json:"created"`
	UpdatedAt      time.Time             `json:"modified"`
	Version        int                   `json:"version"`
}

// ToInvoiceResponse maps a domain invoice to its API representation
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		JobID:          inv.JobID,
		JobUUID:        inv.JobUUID,
		InvoiceGroupID: inv.InvoiceGroupID,
		InvoiceType:    string(inv.InvoiceType),
		Status:         inv.Status.String(),
		Amount:         inv.Amount,
		AmountNett:     inv.AmountNett,
		Tax:            inv.Tax,
		TaxRate:        inv.TaxRate,
		Currency:       inv.Currency,
		ClientName:     inv.ClientName,
		ClientEmail:    inv.ClientEmail,
		SourceLang:     inv.SourceLang,
		TargetLang:     inv.TargetLang,
		DueDate:        inv.DueDate,
		SentAt:         inv.SentAt,
		PaidAt:         inv.PaidAt,
		Notes:          inv.Notes,
		Description:    inv.Description,
		Deleted:        inv.Deleted,
		CreatedBy:      inv.CreatedBy,
		ModifiedBy:     inv.ModifiedBy,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
		Version:        inv.Version,
	}
	if inv.PreviousStatus != nil {
		prev := inv.PreviousStatus.String()
		resp.PreviousStatus = &prev
	}
	for i := range inv.Items {
		resp.Items = append(resp.Items, ToInvoiceItemResponse(&inv.Items[i]))
	}
	return resp
}

// ToInvoiceItemResponse maps a domain line item to its API representation
func ToInvoiceItemResponse(item *billing.InvoiceItem) InvoiceItemResponse {
	return InvoiceItemResponse{
		ID:         item.ID,
		InvoiceID:  item.InvoiceID,
		ItemType:   string(item.ItemType),
		SourceLang: item.SourceLang,
		TargetLang: item.TargetLang,
		Currency:   item.Currency,
		UnitPrice:  item.UnitPrice,
		AmountNett: item.AmountNett,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

// CreateInvoiceItemRequest represents a request to add a line item
type CreateInvoiceItemRequest struct {
	ItemType   string          `json:"item_type" binding:"required"`
	SourceLang string          `json:"source_lang"`
	TargetLang *string         `json:"target_lang"`
	Currency   string          `json:"currency" binding:"required,len=3"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	AmountNett decimal.Decimal `json:"amount_nett"`
}

// UpdateInvoiceItemRequest represents a request to update a line item
type UpdateInvoiceItemRequest struct {
	ItemType   *string          `json:"item_type"`
	SourceLang *string          `json:"source_lang"`
	TargetLang *string          `json:"target_lang"`
	Currency   *string          `json:"currency" binding:"omitempty,len=3"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
	AmountNett *decimal.Decimal `json:"amount_nett"`
}

// ==================== Invoice group DTOs ====================

// CreateInvoiceGroupRequest represents a request to create an invoice group
type CreateInvoiceGroupRequest struct {
	Currency      string `json:"currency" binding:"required,len=3"`
	ClientName    string `json:"client_name"`
	ClientEmail   string `json:"client_email" binding:"omitempty,email"`
	Notes         string `json:"notes"`
	Description   string `json:"description"`
	InclInvoices  bool   `json:"incl_invoices"`
	InclJobTitle  bool   `json:"incl_job_title"`
	InclWordCount bool   `json:"incl_wordcount"`
	InclPO        bool   `json:"incl_po"`
	InclRef       bool   `json:"incl_ref"`
}

// UpdateInvoiceGroupRequest represents a request to update an invoice group
type UpdateInvoiceGroupRequest struct {
	Status        *string `json:"status"`
	ClientName    *string `json:"client_name"`
	ClientEmail   *string `json:"client_email" binding:"omitempty,email"`
	Notes         *string `json:"notes"`
	Description   *string `json:"description"`
	InclInvoices  *bool   `json:"incl_invoices"`
	InclJobTitle  *bool   `json:"incl_job_title"`
	InclWordCount *bool   `json:"incl_wordcount"`
	InclPO        *bool   `json:"incl_po"`
	InclRef       *bool   `json:"incl_ref"`
}

// InvoiceGroupResponse represents an invoice group in API responses
type InvoiceGroupResponse struct {
	ID            uuid.UUID         `json:"id"`
	Status        string            `json:"status"`
	Currency      string            `json:"currency"`
	Amount        decimal.Decimal   `json:"amount"`
	AmountNett    decimal.Decimal   `json:"amount_nett"`
	ClientName    string            `json:"client_name,omitempty"`
	ClientEmail   string            `json:"client_email,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	Description   string            `json:"description,omitempty"`
	InclInvoices  bool              `json:"incl_invoices"`
	InclJobTitle  bool              `json:"incl_job_title"`
	InclWordCount bool              `json:"incl_wordcount"`
	InclPO        bool              `json:"incl_po"`
	InclRef       bool              `json:"incl_ref"`
	Deleted       bool              `json:"deleted"`
	Invoices      []InvoiceResponse `json:"invoices,omitempty"`
	CreatedAt     time.Time         `json:"created"`
	UpdatedAt     time.Time         `json:"modified"`
	Version       int               `json:"version"`
}

// ToInvoiceGroupResponse maps a domain invoice group to its API representation
func ToInvoiceGroupResponse(g *billing.InvoiceGroup) InvoiceGroupResponse {
	return InvoiceGroupResponse{
		ID:            g.ID,
		Status:        g.Status.String(),
		Currency:      g.Currency,
		Amount:        g.Amount,
		AmountNett:    g.AmountNett,
		ClientName:    g.ClientName,
		ClientEmail:   g.ClientEmail,
		Notes:         g.Notes,
		Description:   g.Description,
		InclInvoices:  g.DisplayOptions.InclInvoices,
		InclJobTitle:  g.DisplayOptions.InclJobTitle,
		InclWordCount: g.DisplayOptions.InclWordCount,
		InclPO:        g.DisplayOptions.InclPO,
		InclRef:       g.DisplayOptions.InclRef,
		Deleted:       g.Deleted,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
		Version:       g.Version,
	}
}

// ==================== Purchase order DTOs ====================

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	JobUUID      *uuid.UUID      `json:"tp_job"`
	TranslatorID *uuid.UUID      `json:"translatorid"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Currency     string          `json:"currency" binding:"required,len=3"`
	POType       string          `json:"po_type"`
	TargetLang   string          `json:"target_lang"`
	DateStart    *time.Time      `json:"date_start"`
	DateDue      *time.Time      `json:"date_due"`
	OrderNotes   string          `json:"order_notes"`
	IsInternal   bool            `json:"is_internal"`
}

// UpdatePurchaseOrderRequest represents a request to update a purchase order
type UpdatePurchaseOrderRequest struct {
	Status      *string          `json:"status"`
	Amount      *decimal.Decimal `json:"amount"`
	AmountNett  *decimal.Decimal `json:"amount_nett"`
	Currency    *string          `json:"currency" binding:"omitempty,len=3"`
	POType      *string          `json:"po_type"`
	TargetLang  *string          `json:"target_lang"`
	DateStart   *time.Time       `json:"date_start"`
	DateDue     *time.Time       `json:"date_due"`
	OrderNotes  *string          `json:"order_notes"`
	DeclineNote *string          `json:"decline_note"`
	IsInternal  *bool            `json:"is_internal"`
}

// PurchaseOrderListFilter represents filter options for purchase order listing
type PurchaseOrderListFilter struct {
	Status         *string    `form:"status"`
	JobUUID        *uuid.UUID `form:"job_uuid"`
	TranslatorID   *uuid.UUID `form:"translator_id"`
	Currency       *string    `form:"currency"`
	ApprovedForPay *bool      `form:"approved_for_payment"`
	IsInternal     *bool      `form:"is_internal"`
	IsDisputed     *bool      `form:"is_disputed"`
	DateFrom       *time.Time `form:"date_from"`
	DateTo         *time.Time `form:"date_to"`
	Page           int        `form:"page" binding:"omitempty,min=1"`
	PageSize       int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string     `form:"order_by"`
	OrderDir       string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// POMilestoneResponse represents a milestone in API responses
type POMilestoneResponse struct {
	ID              uuid.UUID  `json:"id"`
	PurchaseOrderID uuid.UUID  `json:"tp_purchaseorder"`
	Milestone       int        `json:"milestone"`
	Confirmed       bool       `json:"confirmed"`
	CompletedAt     *time.Time `json:"date_completed"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created"`
	UpdatedAt       time.Time  `json:"modified"`
}

// ToPOMilestoneResponse maps a domain milestone to its API representation
func ToPOMilestoneResponse(m *billing.POMilestone) POMilestoneResponse {
	return POMilestoneResponse{
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

// PODisbursementResponse represents a disbursement item in API responses
type PODisbursementResponse struct {
	ID              uuid.UUID       `json:"id"`
	PurchaseOrderID uuid.UUID       `json:"po_uuid"`
	ItemType        string          `json:"item_type"`
	ItemTypeInfo    string          `json:"item_type_info,omitempty"`
	NoOfUnits       int             `json:"no_of_units"`
	RatePerUnit     decimal.Decimal `json:"rate_per_unit"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	CreatedAt       time.Time       `json:"created"`
	UpdatedAt       time.Time       `json:"modified"`
}

// ToPODisbursementResponse maps a domain disbursement item to its API representation
func ToPODisbursementResponse(d *billing.PODisbursementItem) PODisbursementResponse {
	return PODisbursementResponse{
		ID:              d.ID,
		PurchaseOrderID: d.PurchaseOrderID,
		ItemType:        d.ItemType,
		ItemTypeInfo:    d.ItemTypeInfo,
		NoOfUnits:       d.NoOfUnits,
		RatePerUnit:     d.RatePerUnit,
		TotalCost:       d.TotalCost,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// PurchaseOrderResponse represents a purchase order in API responses.
// JobID is the enrichment field: null when the referenced job is missing.
type PurchaseOrderResponse struct {
	ID               uuid.UUID                `json:"id"`
	OrderNumber      int64                    `json:"orderno"`
	JobUUID          *uuid.UUID               `json:"tp_job"`
	JobID            *int64                   `json:"job_id"`
	TranslatorID     *uuid.UUID               `json:"translatorid"`
	ProjectManagerID *uuid.UUID               `json:"projectmanagerid,omitempty"`
	OrderDate        *time.Time               `json:"order_date"`
	Amount           decimal.Decimal          `json:"amount"`
	AmountNett       decimal.Decimal          `json:"amount_nett"`
	Currency         string                   `json:"currency"`
	Status           string                   `json:"status"`
	PreviousStatus   *string                  `json:"previous_status,omitempty"`
	POType           string                   `json:"po_type,omitempty"`
	TargetLang       string                   `json:"target_lang,omitempty"`
	DateStart        *time.Time               `json:"date_start"`
	DateDue          *time.Time               `json:"date_due"`
	OrderNotes       string                   `json:"order_notes,omitempty"`
	DeclineNote      string                   `json:"decline_note,omitempty"`
	IsInternal       bool                     `json:"is_internal"`
	IsDisputed       bool                     `json:"disputed_po"`
	ApprovedForPay   bool                     `json:"approvedforpayment"`
	ApprovedAt       *time.Time               `json:"approveddate"`
	ApprovedBy       string                   `json:"approved_by,omitempty"`
	Deleted          bool                     `json:"is_deleted"`
	Milestones       []POMilestoneResponse    `json:"milestones,omitempty"`
	Disbursements    []PODisbursementResponse `json:"disbursements,omitempty"`
	CreatedAt        time.Time                `json:"created"`
	UpdatedAt        time.Time                `json:"modified"`
	Version          int                      `json:"version"`
}

// ToPurchaseOrderResponse maps a domain purchase order to its API representation
func ToPurchaseOrderResponse(po *billing.PurchaseOrder) PurchaseOrderResponse {
	resp := PurchaseOrderResponse{
		ID:               po.ID,
		OrderNumber:      po.OrderNumber,
		JobUUID:          po.JobUUID,
		JobID:            po.JobID,
		TranslatorID:     po.TranslatorID,
		ProjectManagerID: po.ProjectManagerID,
		OrderDate:        po.OrderDate,
		Amount:           po.Amount,
		AmountNett:       po.AmountNett,
		Currency:         po.Currency,
		Status:           po.Status.String(),
		POType:           po.POType,
		TargetLang:       po.TargetLang,
		DateStart:        po.DateStart,
		DateDue:          po.DateDue,
		OrderNotes:       po.OrderNotes,
		DeclineNote:      po.DeclineNote,
		IsInternal:       po.IsInternal,
		IsDisputed:       po.IsDisputed,
		ApprovedForPay:   po.ApprovedForPay,
		ApprovedAt:       po.ApprovedAt,
		ApprovedBy:       po.ApprovedBy,
		Deleted:          po.Deleted,
		CreatedAt:        po.CreatedAt,
		UpdatedAt:        po.UpdatedAt,
		Version:          po.Version,
	}
	if po.PreviousStatus != nil {
		prev := po.PreviousStatus.String()
		resp.PreviousStatus = &prev
	}
	for i := range po.Milestones {
		resp.Milestones = append(resp.Milestones, ToPOMilestoneResponse(&po.Milestones[i]))
	}
	for i := range po.Disbursements {
		resp.Disbursements = append(resp.Disbursements, ToPODisbursementResponse(&po.Disbursements[i]))
	}
	return resp
}

// CreatePOMilestoneRequest represents a request to add a milestone
type CreatePOMilestoneRequest struct {
	Milestone int    `json:"milestone" binding:"required,min=1,max=100"`
	Notes     string `json:"notes"`
}

// UpdatePOMilestoneRequest represents a request to update a milestone
type UpdatePOMilestoneRequest struct {
	Confirmed *bool   `json:"confirmed"`
	Notes     *string `json:"notes"`
}

// CreatePODisbursementRequest represents a request to add a disbursement item
type CreatePODisbursementRequest struct {
	ItemType     string          `json:"item_type" binding:"required"`
	ItemTypeInfo string          `json:"item_type_info"`
	NoOfUnits    int             `json:"no_of_units" binding:"required,min=1"`
	RatePerUnit  decimal.Decimal `json:"rate_per_unit" binding:"required"`
	TotalCost    decimal.Decimal `json:"total_cost" binding:"required"`
}

// UpdatePODisbursementRequest represents a request to update a disbursement item
type UpdatePODisbursementRequest struct {
	ItemTypeInfo *string          `json:"item_type_info"`
	NoOfUnits    *int             `json:"no_of_units" binding:"omitempty,min=1"`
	RatePerUnit  *decimal.Decimal `json:"rate_per_unit"`
	TotalCost    *decimal.Decimal `json:"total_cost"`
}

// ==================== Sales order DTOs ====================

// CreateSalesOrderRequest represents a request to create a sales order
type CreateSalesOrderRequest struct {
	JobID       *int64          `json:"jobid"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"required,len=3"`
	InvoiceType string          `json:"invoice_type" binding:"omitempty,oneof='Pro Forma' 'Sales Order'"`
	ClientName  string          `json:"client_name"`
	ClientEmail string          `json:"client_email" binding:"omitempty,email"`
	SourceLang  string          `json:"source_lang"`
	TargetLang  string          `json:"target_lang"`
	DueDate     *time.Time      `json:"due_date"`
	Notes       string          `json:"notes"`
}

// SalesOrderListFilter represents filter options for sales order listing
type SalesOrderListFilter struct {
	Status     *string    `form:"status"`
	JobID      *int64     `form:"job_id"`
	Currency   *string    `form:"currency"`
	ClientName *string    `form:"client_name"`
	DateFrom   *time.Time `form:"date_from"`
	DateTo     *time.Time `form:"date_to"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TransformToInvoiceRequest carries options for sales order transformation
type TransformToInvoiceRequest struct {
	InvoiceType string     `json:"invoice_type" binding:"omitempty,oneof='Tax Invoice' 'Credit Note'"`
	DueDate     *time.Time `json:"due_date"`
}

// CancelSalesOrderRequest carries the optional cancellation reason
type CancelSalesOrderRequest struct {
	Reason string `json:"reason"`
}

// TransformResponse returns both sides of a transformation
type TransformResponse struct {
	SalesOrder InvoiceResponse `json:"sales_order"`
	Invoice    InvoiceResponse `json:"invoice"`
}

// ==================== Batch DTOs ====================

// BatchRequest represents a batch operation over purchase order UUIDs
type BatchRequest struct {
	IDs []uuid.UUID `json:"po_uuids" binding:"required"`
}
