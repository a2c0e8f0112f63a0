package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/langbridge/billing/internal/domain/billing"
	"github.com/langbridge/billing/internal/domain/shared"
)

// InvoiceService handles invoice business operations
type InvoiceService struct {
	invoiceRepo billing.InvoiceRepository
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository) *InvoiceService {
	return &InvoiceService{invoiceRepo: invoiceRepo}
}

// Create creates a new invoice, defaulting to Draft status, and returns it
// re-read through the enrichment path.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest, userID string) (*InvoiceResponse, error) {
	invoiceType := billing.InvoiceType(req.InvoiceType)
	if req.InvoiceType != "" && invoiceType.IsSalesOrder() {
		return nil, shared.NewDomainError("INVALID_INVOICE_TYPE", "Sales order types are created through the sales order API")
	}

	inv, err := billing.NewInvoice(req.JobID, req.Amount, req.Currency, invoiceType, userID)
	if err != nil {
		return nil, err
	}
	inv.ClientName = req.ClientName
	inv.ClientEmail = req.ClientEmail
	inv.SourceLang = req.SourceLang
	inv.TargetLang = req.TargetLang
	inv.DueDate = req.DueDate
	inv.Notes = req.Notes
	inv.Description = req.Description

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, inv.ID)
}

// GetByID retrieves a live invoice with job enrichment
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.SortItems()
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// List retrieves invoices matching the filter with a total count for the
// filtered, unpaginated result set.
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
	domainFilter.Filters[billing.FilterInvoicesOnly] = true
	if filter.Status != nil {
		domainFilter.Filters[billing.FilterStatus] = *filter.Status
	}
	if filter.JobID != nil {
		domainFilter.Filters[billing.FilterJobID] = *filter.JobID
	}
	if filter.GroupID != nil {
		domainFilter.Filters[billing.FilterGroupID] = *filter.GroupID
	}
	if filter.Currency != nil {
		domainFilter.Filters[billing.FilterCurrency] = *filter.Currency
	}
	if filter.ClientName != nil {
		domainFilter.Filters[billing.FilterClientName] = *filter.ClientName
	}
	if filter.InvoiceType != nil {
		domainFilter.Filters[billing.FilterInvoiceType] = *filter.InvoiceType
	}
	if filter.DateFrom != nil {
		domainFilter.Filters[billing.FilterDateFrom] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		domainFilter.Filters[billing.FilterDateTo] = *filter.DateTo
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, ToInvoiceResponse(&invoices[i]))
	}
	return responses, total, nil
}

// Update applies the supplied fields. A status change is validated through
// the workflow and persisted under the optimistic lock.
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest, userID string) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	statusChanged := false
	if req.Status != nil {
		if err := inv.ChangeStatus(billing.InvoiceStatus(*req.Status), userID); err != nil {
			return nil, err
		}
		statusChanged = true
	}
	applyInvoiceUpdate(inv, req, userID)

	if statusChanged {
		err = s.invoiceRepo.SaveWithLock(ctx, inv)
	} else {
		err = s.invoiceRepo.Save(ctx, inv)
	}
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete soft-deletes an invoice. Deleting an already deleted invoice is a
// no-op success.
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	inv, err := s.invoiceRepo.FindByIDIncludingDeleted(ctx, id)
	if err != nil {
		return err
	}
	if inv.Deleted {
		return nil
	}
	inv.SoftDelete(userID)
	return s.invoiceRepo.Save(ctx, inv)
}

// Approve marks the invoice as paid through the workflow
func (s *InvoiceService) Approve(ctx context.Context, id uuid.UUID, userID string) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.Approve(userID); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Archive stores the current status and parks the invoice
func (s *InvoiceService) Archive(ctx context.Context, id uuid.UUID, userID string) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.Archive(userID); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// Restore returns an archived invoice to its pre-archive status
func (s *InvoiceService) Restore(ctx context.Context, id uuid.UUID, userID string) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDIncludingDeleted(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.Restore(userID); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// ListItems lists line items in deterministic order
func (s *InvoiceService) ListItems(ctx context.Context, invoiceID uuid.UUID) ([]InvoiceItemResponse, error) {
	if _, err := s.invoiceRepo.FindByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	items, err := s.invoiceRepo.FindItems(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	responses := make([]InvoiceItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToInvoiceItemResponse(&items[i]))
	}
	return responses, nil
}

// GetItem retrieves a single line item
func (s *InvoiceService) GetItem(ctx context.Context, itemID uuid.UUID) (*InvoiceItemResponse, error) {
	item, err := s.invoiceRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceItemResponse(item)
	return &resp, nil
}

// CreateItem adds a line item to an invoice
func (s *InvoiceService) CreateItem(ctx context.Context, invoiceID uuid.UUID, req CreateInvoiceItemRequest) (*InvoiceItemResponse, error) {
	if _, err := s.invoiceRepo.FindByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	item, err := billing.NewInvoiceItem(invoiceID, billing.ItemType(req.ItemType), req.SourceLang, req.TargetLang, req.Currency, req.UnitPrice, req.AmountNett)
	if err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	resp := ToInvoiceItemResponse(item)
	return &resp, nil
}

// UpdateItem updates a line item
func (s *InvoiceService) UpdateItem(ctx context.Context, itemID uuid.UUID, req UpdateInvoiceItemRequest) (*InvoiceItemResponse, error) {
	item, err := s.invoiceRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if req.ItemType != nil {
		itemType := billing.ItemType(*req.ItemType)
		if !itemType.IsValid() {
			return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Item type must be language_pair, additional_item or other")
		}
		item.ItemType = itemType
	}
	if req.SourceLang != nil {
		item.SourceLang = *req.SourceLang
	}
	if req.TargetLang != nil {
		item.TargetLang = req.TargetLang
	}
	if req.Currency != nil {
		item.Currency = *req.Currency
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
		}
		item.UnitPrice = *req.UnitPrice
	}
	if req.AmountNett != nil {
		if req.AmountNett.IsNegative() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
		}
		item.AmountNett = *req.AmountNett
	}
	if err := s.invoiceRepo.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	resp := ToInvoiceItemResponse(item)
	return &resp, nil
}

// DeleteItem removes a line item
func (s *InvoiceService) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	if _, err := s.invoiceRepo.FindItemByID(ctx, itemID); err != nil {
		return err
	}
	return s.invoiceRepo.DeleteItem(ctx, itemID)
}

// applyInvoiceUpdate copies the non-status fields of an update request
func applyInvoiceUpdate(inv *billing.Invoice, req UpdateInvoiceRequest, userID string) {
	if req.Amount != nil {
		inv.Amount = *req.Amount
	}
	if req.AmountNett != nil {
		inv.AmountNett = *req.AmountNett
	}
	if req.Currency != nil {
		inv.Currency = *req.Currency
	}
	if req.ClientName != nil {
		inv.ClientName = *req.ClientName
	}
	if req.ClientEmail != nil {
		inv.ClientEmail = *req.ClientEmail
	}
	if req.SourceLang != nil {
		inv.SourceLang = *req.SourceLang
	}
	if req.TargetLang != nil {
		inv.TargetLang = *req.TargetLang
	}
	if req.DueDate != nil {
		inv.DueDate = req.DueDate
	}
	if req.Notes != nil {
		inv.Notes = *req.Notes
	}
	if req.Description != nil {
		inv.Description = *req.Description
	}
	inv.ModifiedBy = userID
}

// buildFilter normalizes pagination defaults into a shared filter
func buildFilter(page, pageSize int, orderBy, orderDir string) shared.Filter {
	f := shared.NewFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	if orderBy != "" {
		f.OrderBy = orderBy
	}
	if orderDir != "" {
		f.OrderDir = orderDir
	}
	return f
}
