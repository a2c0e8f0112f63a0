package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/langbridge/billing/internal/domain/billing"
	"github.com/langbridge/billing/internal/domain/shared"
)

// SalesOrderService handles sales order business operations. Sales orders
// live in the invoice store under their own invoice types and workflow.
type SalesOrderService struct {
	invoiceRepo billing.InvoiceRepository
}

// NewSalesOrderService creates a new SalesOrderService
func NewSalesOrderService(invoiceRepo billing.InvoiceRepository) *SalesOrderService {
	return &SalesOrderService{invoiceRepo: invoiceRepo}
}

// Create creates a new sales order in Draft status. The type defaults to
// Sales Order when not supplied.
func (s *SalesOrderService) Create(ctx context.Context, req CreateSalesOrderRequest, userID string) (*InvoiceResponse, error) {
	invoiceType := billing.InvoiceType(req.InvoiceType)
	if req.InvoiceType == "" {
		invoiceType = billing.InvoiceTypeSalesOrder
	}
	if !invoiceType.IsSalesOrder() {
		return nil, shared.NewDomainError("INVALID_INVOICE_TYPE", "Sales orders must be of type Pro Forma or Sales Order")
	}

	so, err := billing.NewInvoice(req.JobID, req.Amount, req.Currency, invoiceType, userID)
	if err != nil {
		return nil, err
	}
	so.ClientName = req.ClientName
	so.ClientEmail = req.ClientEmail
	so.SourceLang = req.SourceLang
	so.TargetLang = req.TargetLang
	so.DueDate = req.DueDate
	so.Notes = req.Notes

	if err := s.invoiceRepo.Save(ctx, so); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, so.ID)
}

// GetByID retrieves a live sales order with job enrichment
func (s *SalesOrderService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	so, err := s.findSalesOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	so.SortItems()
	resp := ToInvoiceResponse(so)
	return &resp, nil
}

// List retrieves sales orders matching the filter with a total count
func (s *SalesOrderService) List(ctx context.Context, filter SalesOrderListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
	domainFilter.Filters[billing.FilterSalesOrders] = true
	if filter.Status != nil {
		domainFilter.Filters[billing.FilterStatus] = *filter.Status
	}
	if filter.JobID != nil {
		domainFilter.Filters[billing.FilterJobID] = *filter.JobID
	}
	if filter.Currency != nil {
		domainFilter.Filters[billing.FilterCurrency] = *filter.Currency
	}
	if filter.ClientName != nil {
		domainFilter.Filters[billing.FilterClientName] = *filter.ClientName
	}
	if filter.DateFrom != nil {
		domainFilter.Filters[billing.FilterDateFrom] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		domainFilter.Filters[billing.FilterDateTo] = *filter.DateTo
	}

	orders, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToInvoiceResponse(&orders[i]))
	}
	return responses, total, nil
}

// Update applies the supplied fields; status changes go through the sales
// order workflow.
func (s *SalesOrderService) Update(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest, userID string) (*InvoiceResponse, error) {
	so, err := s.findSalesOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	statusChanged := false
	if req.Status != nil {
		if err := so.ChangeStatus(billing.InvoiceStatus(*req.Status), userID); err != nil {
			return nil, err
		}
		statusChanged = true
	}
	applyInvoiceUpdate(so, req, userID)

	if statusChanged {
		err = s.invoiceRepo.SaveWithLock(ctx, so)
	} else {
		err = s.invoiceRepo.Save(ctx, so)
	}
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete soft-deletes a sales order, idempotently
func (s *SalesOrderService) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	so, err := s.invoiceRepo.FindByIDIncludingDeleted(ctx, id)
	if err != nil {
		return err
	}
	if !so.IsSalesOrder() {
		return shared.ErrNotFound
	}
	if so.Deleted {
		return nil
	}
	so.SoftDelete(userID)
	return s.invoiceRepo.Save(ctx, so)
}

// Transform converts a sent sales order into a new draft invoice. The sales
// order is terminally marked Transformed; both records are returned.
func (s *SalesOrderService) Transform(ctx context.Context, id uuid.UUID, req TransformToInvoiceRequest, userID string) (*TransformResponse, error) {
	so, err := s.findSalesOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	invoiceType := billing.InvoiceTypeTaxInvoice
	if req.InvoiceType != "" {
		invoiceType = billing.InvoiceType(req.InvoiceType)
	}
	inv, err := so.TransformToInvoice(invoiceType, req.DueDate, userID)
	if err != nil {
		return nil, err
	}

	// Both writes commit or neither does; a sales order must never end up
	// Transformed without its invoice.
	if err := s.invoiceRepo.Transform(ctx, so, inv); err != nil {
		return nil, err
	}

	soResp, err := s.GetByID(ctx, so.ID)
	if err != nil {
		return nil, err
	}
	invResp, err := s.invoiceRepo.FindByID(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	return &TransformResponse{
		SalesOrder: *soResp,
		Invoice:    ToInvoiceResponse(invResp),
	}, nil
}

// Cancel cancels a sales order through the workflow, recording the reason
func (s *SalesOrderService) Cancel(ctx context.Context, id uuid.UUID, req CancelSalesOrderRequest, userID string) (*InvoiceResponse, error) {
	so, err := s.findSalesOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := so.ChangeStatus(billing.InvoiceStatus(billing.SalesOrderStatusCancelled), userID); err != nil {
		return nil, err
	}
	if req.Reason != "" {
		so.Notes = req.Reason
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, so); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// findSalesOrder loads a live record and rejects non-sales-order types
func (s *SalesOrderService) findSalesOrder(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	so, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !so.IsSalesOrder() {
		return nil, shared.ErrNotFound
	}
	return so, nil
}
