package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/langbridge/billing/internal/domain/billing"
	"github.com/langbridge/billing/internal/domain/shared"
)

// InvoiceGroupService handles invoice group business operations
type InvoiceGroupService struct {
	groupRepo   billing.InvoiceGroupRepository
	invoiceRepo billing.InvoiceRepository
}

// NewInvoiceGroupService creates a new InvoiceGroupService
func NewInvoiceGroupService(groupRepo billing.InvoiceGroupRepository, invoiceRepo billing.InvoiceRepository) *InvoiceGroupService {
	return &InvoiceGroupService{groupRepo: groupRepo, invoiceRepo: invoiceRepo}
}

// Create creates a new invoice group in Draft status
func (s *InvoiceGroupService) Create(ctx context.Context, req CreateInvoiceGroupRequest, userID string) (*InvoiceGroupResponse, error) {
	group, err := billing.NewInvoiceGroup(req.Currency, userID)
	if err != nil {
		return nil, err
	}
	group.ClientName = req.ClientName
	group.ClientEmail = req.ClientEmail
	group.Notes = req.Notes
	group.Description = req.Description
	group.DisplayOptions = billing.GroupDisplayOptions{
		InclInvoices:  req.InclInvoices,
		InclJobTitle:  req.InclJobTitle,
		InclWordCount: req.InclWordCount,
		InclPO:        req.InclPO,
		InclRef:       req.InclRef,
	}

	if err := s.groupRepo.Save(ctx, group); err != nil {
		return nil, err
	}
	resp := ToInvoiceGroupResponse(group)
	return &resp, nil
}

// GetByID retrieves a live invoice group
func (s *InvoiceGroupService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceGroupResponse, error) {
	group, err := s.groupRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceGroupResponse(group)
	return &resp, nil
}

// GetWithInvoices retrieves a group with its member invoices attached
func (s *InvoiceGroupService) GetWithInvoices(ctx context.Context, id uuid.UUID) (*InvoiceGroupResponse, error) {
	group, err := s.groupRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.groupRepo.FindMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceGroupResponse(group)
	for i := range members {
		resp.Invoices = append(resp.Invoices, ToInvoiceResponse(&members[i]))
	}
	return &resp, nil
}

// List retrieves invoice groups matching the filter with a total count
func (s *InvoiceGroupService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceGroupResponse, int64, error) {
	domainFilter := buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
	if filter.Status != nil {
		domainFilter.Filters[billing.FilterStatus] = *filter.Status
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

	groups, err := s.groupRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.groupRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceGroupResponse, 0, len(groups))
	for i := range groups {
		responses = append(responses, ToInvoiceGroupResponse(&groups[i]))
	}
	return responses, total, nil
}

// Update applies the supplied fields; a status change goes through the
// invoice workflow under the optimistic lock.
func (s *InvoiceGroupService) Update(ctx context.Context, id uuid.UUID, req UpdateInvoiceGroupRequest, userID string) (*InvoiceGroupResponse, error) {
	group, err := s.groupRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	statusChanged := false
	if req.Status != nil {
		if err := group.ChangeStatus(billing.InvoiceStatus(*req.Status), userID); err != nil {
			return nil, err
		}
		statusChanged = true
	}
	if req.ClientName != nil {
		group.ClientName = *req.ClientName
	}
	if req.ClientEmail != nil {
		group.ClientEmail = *req.ClientEmail
	}
	if req.Notes != nil {
		group.Notes = *req.Notes
	}
	if req.Description != nil {
		group.Description = *req.Description
	}
	if req.InclInvoices != nil {
		group.DisplayOptions.InclInvoices = *req.InclInvoices
	}
	if req.InclJobTitle != nil {
		group.DisplayOptions.InclJobTitle = *req.InclJobTitle
	}
	if req.InclWordCount != nil {
		group.DisplayOptions.InclWordCount = *req.InclWordCount
	}
	if req.InclPO != nil {
		group.DisplayOptions.InclPO = *req.InclPO
	}
	if req.InclRef != nil {
		group.DisplayOptions.InclRef = *req.InclRef
	}
	group.ModifiedBy = userID

	if statusChanged {
		err = s.groupRepo.SaveWithLock(ctx, group)
	} else {
		err = s.groupRepo.Save(ctx, group)
	}
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete soft-deletes a group and detaches its members, idempotently
func (s *InvoiceGroupService) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	group, err := s.groupRepo.FindByIDIncludingDeleted(ctx, id)
	if err != nil {
		return err
	}
	if group.Deleted {
		return nil
	}

	members, err := s.groupRepo.FindMembers(ctx, id)
	if err != nil {
		return err
	}
	for i := range members {
		members[i].RemoveFromGroup()
		if err := s.invoiceRepo.Save(ctx, &members[i]); err != nil {
			return err
		}
	}

	group.SoftDelete(userID)
	return s.groupRepo.Save(ctx, group)
}

// AddInvoice attaches an invoice to the group and refreshes the group
// totals. Adding an invoice that is already a member is a no-op.
func (s *InvoiceGroupService) AddInvoice(ctx context.Context, groupID, invoiceID uuid.UUID, userID string) (*InvoiceGroupResponse, error) {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.IsSalesOrder() {
		return nil, shared.NewDomainError("INVALID_INVOICE_TYPE", "Sales orders cannot be grouped")
	}
	if inv.Currency != group.Currency {
		return nil, shared.NewDomainError("CURRENCY_MISMATCH", "Invoice currency does not match the group currency")
	}
	if inv.InvoiceGroupID != nil && *inv.InvoiceGroupID != groupID {
		return nil, shared.NewDomainError("ALREADY_GROUPED", "Invoice already belongs to another group")
	}

	if inv.InvoiceGroupID == nil {
		inv.AssignToGroup(groupID)
		if err := s.invoiceRepo.Save(ctx, inv); err != nil {
			return nil, err
		}
	}
	return s.recalculate(ctx, group, userID)
}

// RemoveInvoice detaches an invoice from the group and refreshes the group
// totals. Removing a non-member is a no-op.
func (s *InvoiceGroupService) RemoveInvoice(ctx context.Context, groupID, invoiceID uuid.UUID, userID string) (*InvoiceGroupResponse, error) {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if inv.InvoiceGroupID != nil && *inv.InvoiceGroupID == groupID {
		inv.RemoveFromGroup()
		if err := s.invoiceRepo.Save(ctx, inv); err != nil {
			return nil, err
		}
	}
	return s.recalculate(ctx, group, userID)
}

func (s *InvoiceGroupService) recalculate(ctx context.Context, group *billing.InvoiceGroup, userID string) (*InvoiceGroupResponse, error) {
	members, err := s.groupRepo.FindMembers(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	group.Recalculate(members)
	group.ModifiedBy = userID
	if err := s.groupRepo.Save(ctx, group); err != nil {
		return nil, err
	}
	resp := ToInvoiceGroupResponse(group)
	for i := range members {
		resp.Invoices = append(resp.Invoices, ToInvoiceResponse(&members[i]))
	}
	return &resp, nil
}
