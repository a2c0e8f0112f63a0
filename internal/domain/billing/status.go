package billing

// InvoiceStatus represents the lifecycle status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "Draft"
	InvoiceStatusPending   InvoiceStatus = "Pending"
	InvoiceStatusSent      InvoiceStatus = "Sent"
	InvoiceStatusPaid      InvoiceStatus = "Paid"
	InvoiceStatusOverdue   InvoiceStatus = "Overdue"
	InvoiceStatusCancelled InvoiceStatus = "Cancelled"
	InvoiceStatusRefunded  InvoiceStatus = "Refunded"
	InvoiceStatusArchived  InvoiceStatus = "Archived"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusSent,
		InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled,
		InvoiceStatusRefunded, InvoiceStatusArchived:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// POStatus represents the lifecycle status of a purchase order
type POStatus string

const (
	POStatusPending    POStatus = "Pending"
	POStatusAccepted   POStatus = "Accepted"
	POStatusDeclined   POStatus = "Declined"
	POStatusInProgress POStatus = "In Progress"
	POStatusCompleted  POStatus = "Completed"
	POStatusApproved   POStatus = "Approved"
	POStatusPaid       POStatus = "Paid"
	POStatusCancelled  POStatus = "Cancelled"
	POStatusExpired    POStatus = "Expired"
	POStatusDisputed   POStatus = "Disputed"
	POStatusArchived   POStatus = "Archived"
)

// IsValid checks if the status is a valid POStatus
func (s POStatus) IsValid() bool {
	switch s {
	case POStatusPending, POStatusAccepted, POStatusDeclined, POStatusInProgress,
		POStatusCompleted, POStatusApproved, POStatusPaid, POStatusCancelled,
		POStatusExpired, POStatusDisputed, POStatusArchived:
		return true
	}
	return false
}

// String returns the string representation of POStatus
func (s POStatus) String() string {
	return string(s)
}

// SalesOrderStatus represents the lifecycle status of a sales order.
// Sales orders are stored as invoices but follow their own workflow.
type SalesOrderStatus string

const (
	SalesOrderStatusDraft       SalesOrderStatus = "Draft"
	SalesOrderStatusPending     SalesOrderStatus = "Pending"
	SalesOrderStatusSent        SalesOrderStatus = "Sent"
	SalesOrderStatusCancelled   SalesOrderStatus = "Cancelled"
	SalesOrderStatusTransformed SalesOrderStatus = "Transformed"
	SalesOrderStatusArchived    SalesOrderStatus = "Archived"
)

// IsValid checks if the status is a valid SalesOrderStatus
func (s SalesOrderStatus) IsValid() bool {
	switch s {
	case SalesOrderStatusDraft, SalesOrderStatusPending, SalesOrderStatusSent,
		SalesOrderStatusCancelled, SalesOrderStatusTransformed, SalesOrderStatusArchived:
		return true
	}
	return false
}

// String returns the string representation of SalesOrderStatus
func (s SalesOrderStatus) String() string {
	return string(s)
}

// InvoiceType distinguishes regular invoices from sales order subtypes
type InvoiceType string

const (
	InvoiceTypeTaxInvoice InvoiceType = "Tax Invoice"
	InvoiceTypeCreditNote InvoiceType = "Credit Note"
	InvoiceTypeProForma   InvoiceType = "Pro Forma"
	InvoiceTypeSalesOrder InvoiceType = "Sales Order"
)

// IsValid checks if the type is a valid InvoiceType
func (t InvoiceType) IsValid() bool {
	switch t {
	case InvoiceTypeTaxInvoice, InvoiceTypeCreditNote, InvoiceTypeProForma, InvoiceTypeSalesOrder:
		return true
	}
	return false
}

// IsSalesOrder reports whether the type denotes a sales order subtype
func (t InvoiceType) IsSalesOrder() bool {
	return t == InvoiceTypeProForma || t == InvoiceTypeSalesOrder
}

// ItemType classifies invoice line items
type ItemType string

const (
	ItemTypeLanguagePair   ItemType = "language_pair"
	ItemTypeAdditionalItem ItemType = "additional_item"
	ItemTypeOther          ItemType = "other"
)

// IsValid checks if the type is a valid ItemType
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeLanguagePair, ItemTypeAdditionalItem, ItemTypeOther:
		return true
	}
	return false
}
