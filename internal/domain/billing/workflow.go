package billing

import (
	"fmt"
	"sort"
)

// InvalidStatusTransitionError is returned when a requested status change is
// not permitted by the workflow tables. It carries the current status, the
// attempted status and the set of transitions that would have been legal.
type InvalidStatusTransitionError struct {
	Entity    string
	Current   string
	Attempted string
	Allowed   []string
}

// Error implements the error interface
func (e *InvalidStatusTransitionError) Error() string {
	return fmt.Sprintf("cannot transition %s from %q to %q, allowed: %v",
		e.Entity, e.Current, e.Attempted, e.Allowed)
}

// Workflow transition tables. Statuses absent from a table are terminal.
// These are pure data so the rules stay independently testable; services must
// never hand-roll transition conditionals.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:     {InvoiceStatusPending},
	InvoiceStatusPending:   {InvoiceStatusSent, InvoiceStatusCancelled},
	InvoiceStatusSent:      {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusOverdue:   {InvoiceStatusPaid},
	InvoiceStatusPaid:      {InvoiceStatusRefunded},
	InvoiceStatusCancelled: {},
	InvoiceStatusRefunded:  {},
}

var poTransitions = map[POStatus][]POStatus{
	POStatusPending:    {POStatusAccepted, POStatusDeclined, POStatusCancelled},
	POStatusAccepted:   {POStatusInProgress},
	POStatusInProgress: {POStatusCompleted},
	POStatusCompleted:  {POStatusApproved},
	POStatusApproved:   {POStatusPaid},
	POStatusDisputed:   {POStatusApproved, POStatusCancelled},
	POStatusDeclined:   {},
	POStatusCancelled:  {},
	POStatusExpired:    {},
	POStatusPaid:       {},
}

var salesOrderTransitions = map[SalesOrderStatus][]SalesOrderStatus{
	SalesOrderStatusDraft:       {SalesOrderStatusPending},
	SalesOrderStatusPending:     {SalesOrderStatusSent, SalesOrderStatusCancelled},
	SalesOrderStatusSent:        {SalesOrderStatusTransformed, SalesOrderStatusCancelled},
	SalesOrderStatusCancelled:   {},
	SalesOrderStatusTransformed: {},
}

// AllowedInvoiceTransitions returns the legal next statuses for an invoice status
func AllowedInvoiceTransitions(current InvoiceStatus) []InvoiceStatus {
	return invoiceTransitions[current]
}

// AllowedPOTransitions returns the legal next statuses for a purchase order status
func AllowedPOTransitions(current POStatus) []POStatus {
	return poTransitions[current]
}

// AllowedSalesOrderTransitions returns the legal next statuses for a sales order status
func AllowedSalesOrderTransitions(current SalesOrderStatus) []SalesOrderStatus {
	return salesOrderTransitions[current]
}

// IsTerminalInvoiceStatus reports whether no further invoice transitions are permitted
func IsTerminalInvoiceStatus(s InvoiceStatus) bool {
	return len(invoiceTransitions[s]) == 0
}

// IsTerminalPOStatus reports whether no further purchase order transitions are permitted
func IsTerminalPOStatus(s POStatus) bool {
	return len(poTransitions[s]) == 0
}

// IsTerminalSalesOrderStatus reports whether no further sales order transitions are permitted
func IsTerminalSalesOrderStatus(s SalesOrderStatus) bool {
	return len(salesOrderTransitions[s]) == 0
}

// ValidateInvoiceTransition checks whether an invoice may move from current to
// target. A transition to the same status is denied: every status-changing
// call must name a genuinely different allowed target.
func ValidateInvoiceTransition(current, target InvoiceStatus) error {
	if !current.IsValid() || !target.IsValid() {
		return transitionError("invoice", current.String(), target.String(), invoiceStatusStrings(invoiceTransitions[current]))
	}
	for _, allowed := range invoiceTransitions[current] {
		if allowed == target {
			return nil
		}
	}
	return transitionError("invoice", current.String(), target.String(), invoiceStatusStrings(invoiceTransitions[current]))
}

// ValidatePOTransition checks whether a purchase order may move from current to target
func ValidatePOTransition(current, target POStatus) error {
	if !current.IsValid() || !target.IsValid() {
		return transitionError("purchase order", current.String(), target.String(), poStatusStrings(poTransitions[current]))
	}
	for _, allowed := range poTransitions[current] {
		if allowed == target {
			return nil
		}
	}
	return transitionError("purchase order", current.String(), target.String(), poStatusStrings(poTransitions[current]))
}

// ValidateSalesOrderTransition checks whether a sales order may move from current to target
func ValidateSalesOrderTransition(current, target SalesOrderStatus) error {
	if !current.IsValid() || !target.IsValid() {
		return transitionError("sales order", current.String(), target.String(), salesOrderStatusStrings(salesOrderTransitions[current]))
	}
	for _, allowed := range salesOrderTransitions[current] {
		if allowed == target {
			return nil
		}
	}
	return transitionError("sales order", current.String(), target.String(), salesOrderStatusStrings(salesOrderTransitions[current]))
}

func transitionError(entity, current, attempted string, allowed []string) *InvalidStatusTransitionError {
	sort.Strings(allowed)
	return &InvalidStatusTransitionError{
		Entity:    entity,
		Current:   current,
		Attempted: attempted,
		Allowed:   allowed,
	}
}

func invoiceStatusStrings(statuses []InvoiceStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}

func poStatusStrings(statuses []POStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}

func salesOrderStatusStrings(statuses []SalesOrderStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}
