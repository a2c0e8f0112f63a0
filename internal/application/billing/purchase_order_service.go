package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/langbridge/billing/internal/domain/billing"
	"github.com/langbridge/billing/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	poRepo billing.PurchaseOrderRepository

	// autoApproveThreshold is the amount below which approval does not
	// require a named approver.
	autoApproveThreshold decimal.Decimal
	maxBatchSize         int
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(poRepo billing.PurchaseOrderRepository, autoApproveThreshold decimal.Decimal, maxBatchSize int) *PurchaseOrderService {
	if maxBatchSize <= 0 {
		maxBatchSize = DefaultMaxBatchSize
	}
	return &PurchaseOrderService{
		poRepo:               poRepo,
		autoApproveThreshold: autoApproveThreshold,
		maxBatchSize:         maxBatchSize,
	}
}

// Create creates a new purchase order in Pending status
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest, userID string) (*PurchaseOrderResponse, error) {
	po, err := billing.NewPurchaseOrder(req.JobUUID, req.TranslatorID, req.Amount, req.Currency, req.POType)
	if err != nil {
		return nil, err
	}
	po.TargetLang = req.TargetLang
	po.DateStart = req.DateStart
	po.DateDue = req.DateDue
	po.OrderNotes = req.OrderNotes
	po.IsInternal = req.IsInternal

	if err := s.poRepo.Save(ctx, po); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, po.ID)
}

// GetByID retrieves a live purchase order with job enrichment
func (s *PurchaseOrderService) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// List retrieves purchase orders matching the filter with a total count
func (s *PurchaseOrderService) List(ctx context.Context, filter PurchaseOrderListFilter) ([]PurchaseOrderResponse, int64, error) {
	domainFilter := buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
	if filter.Status != nil {
		domainFilter.Filters[billing.FilterStatus] = *filter.Status
	}
	if filter.JobUUID != nil {
		domainFilter.Filters[billing.FilterJobUUID] = *filter.JobUUID
	}
	if filter.TranslatorID != nil {
		domainFilter.Filters[billing.FilterTranslatorID] = *filter.TranslatorID
	}
	if filter.Currency != nil {
		domainFilter.Filters[billing.FilterCurrency] = *filter.Currency
	}
	if filter.ApprovedForPay != nil {
		domainFilter.Filters[billing.FilterApprovedForPay] = *filter.ApprovedForPay
	}
	if filter.IsInternal != nil {
		domainFilter.Filters[billing.FilterIsInternal] = *filter.IsInternal
	}
	if filter.IsDisputed != nil {
		domainFilter.Filters[billing.FilterIsDisputed] = *filter.IsDisputed
	}
	if filter.DateFrom != nil {
		domainFilter.Filters[billing.FilterDateFrom] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		domainFilter.Filters[billing.FilterDateTo] = *filter.DateTo
	}

	orders, err := s.poRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.poRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToPurchaseOrderResponse(&orders[i]))
	}
	return responses, total, nil
}

// Update applies the supplied fields; a status change goes through the
// workflow under the optimistic lock.
func (s *PurchaseOrderService) Update(ctx context.Context, id uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	statusChanged := false
	if req.Status != nil {
		if err := po.ChangeStatus(billing.POStatus(*req.Status)); err != nil {
			return nil, err
		}
		statusChanged = true
	}
	if req.Amount != nil {
		po.Amount = *req.Amount
	}
	if req.AmountNett != nil {
		po.AmountNett = *req.AmountNett
	}
	if req.Currency != nil {
		po.Currency = *req.Currency
	}
	if req.POType != nil {
		po.POType = *req.POType
	}
	if req.TargetLang != nil {
		po.TargetLang = *req.TargetLang
	}
	if req.DateStart != nil {
		po.DateStart = req.DateStart
	}
	if req.DateDue != nil {
		po.DateDue = req.DateDue
	}
	if req.OrderNotes != nil {
		po.OrderNotes = *req.OrderNotes
	}
	if req.DeclineNote != nil {
		po.DeclineNote = *req.DeclineNote
	}
	if req.IsInternal != nil {
		po.IsInternal = *req.IsInternal
	}

	if statusChanged {
		err = s.poRepo.SaveWithLock(ctx, po)
	} else {
		err = s.poRepo.Save(ctx, po)
	}
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete soft-deletes a purchase order, idempotently
func (s *PurchaseOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	po, err := s.poRepo.FindByIDIncludingDeleted(ctx, id)
	if err != nil {
		return err
	}
	if po.Deleted {
		return nil
	}
	po.SoftDelete()
	return s.poRepo.Save(ctx, po)
}

// Approve approves a purchase order for payment. Orders below the
// auto-approve threshold need no approver identity; at or above it the
// caller must be named.
func (s *PurchaseOrderService) Approve(ctx context.Context, id uuid.UUID, userID string) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	approver := userID
	if po.Amount.LessThan(s.autoApproveThreshold) {
		if approver == "" {
			approver = "auto-approval"
		}
	} else if approver == "" {
		return nil, shared.ErrForbidden
	}

	if err := po.Approve(approver); err != nil {
		return nil, err
	}
	if err := s.poRepo.SaveWithLock(ctx, po); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Dispute flags a purchase order as disputed. Disputed orders can only move
// on to Approved or Cancelled.
func (s *PurchaseOrderService) Dispute(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := po.Dispute(); err != nil {
		return nil, err
	}
	if err := s.poRepo.SaveWithLock(ctx, po); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Archive stores the current status and parks the purchase order
func (s *PurchaseOrderService) Archive(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := po.Archive(); err != nil {
		return nil, err
	}
	if err := s.poRepo.SaveWithLock(ctx, po); err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// Restore returns an archived purchase order to its pre-archive status
func (s *PurchaseOrderService) Restore(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.poRepo.FindByIDIncludingDeleted(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := po.Restore(); err != nil {
		return nil, err
	}
	if err := s.poRepo.SaveWithLock(ctx, po); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// BatchApprove applies Approve across the given IDs with independent
// per-item outcomes.
func (s *PurchaseOrderService) BatchApprove(ctx context.Context, ids []uuid.UUID, userID string) (*BatchResult, error) {
	return runBatch(ctx, ids, s.maxBatchSize, func(ctx context.Context, id uuid.UUID) error {
		_, err := s.Approve(ctx, id, userID)
		return err
	})
}

// BatchDelete applies Delete across the given IDs with independent
// per-item outcomes.
func (s *PurchaseOrderService) BatchDelete(ctx context.Context, ids []uuid.UUID) (*BatchResult, error) {
	return runBatch(ctx, ids, s.maxBatchSize, func(ctx context.Context, id uuid.UUID) error {
		return s.Delete(ctx, id)
	})
}

// ListMilestones lists milestones by ascending percentage
func (s *PurchaseOrderService) ListMilestones(ctx context.Context, poID uuid.UUID) ([]POMilestoneResponse, error) {
	if _, err := s.poRepo.FindByID(ctx, poID); err != nil {
		return nil, err
	}
	milestones, err := s.poRepo.FindMilestones(ctx, poID)
	if err != nil {
		return nil, err
	}
	responses := make([]POMilestoneResponse, 0, len(milestones))
	for i := range milestones {
		responses = append(responses, ToPOMilestoneResponse(&milestones[i]))
	}
	return responses, nil
}

// GetMilestone retrieves a single milestone
func (s *PurchaseOrderService) GetMilestone(ctx context.Context, milestoneID uuid.UUID) (*POMilestoneResponse, error) {
	milestone, err := s.poRepo.FindMilestoneByID(ctx, milestoneID)
	if err != nil {
		return nil, err
	}
	resp := ToPOMilestoneResponse(milestone)
	return &resp, nil
}

// CreateMilestone adds a milestone to a purchase order
func (s *PurchaseOrderService) CreateMilestone(ctx context.Context, poID uuid.UUID, req CreatePOMilestoneRequest) (*POMilestoneResponse, error) {
	if _, err := s.poRepo.FindByID(ctx, poID); err != nil {
		return nil, err
	}
	milestone, err := billing.NewPOMilestone(poID, req.Milestone, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.poRepo.SaveMilestone(ctx, milestone); err != nil {
		return nil, err
	}
	resp := ToPOMilestoneResponse(milestone)
	return &resp, nil
}

// UpdateMilestone updates confirmation state and notes of a milestone
func (s *PurchaseOrderService) UpdateMilestone(ctx context.Context, milestoneID uuid.UUID, req UpdatePOMilestoneRequest) (*POMilestoneResponse, error) {
	milestone, err := s.poRepo.FindMilestoneByID(ctx, milestoneID)
	if err != nil {
		return nil, err
	}
	if req.Confirmed != nil && *req.Confirmed {
		milestone.Confirm()
	}
	if req.Notes != nil {
		milestone.Notes = *req.Notes
	}
	if err := s.poRepo.SaveMilestone(ctx, milestone); err != nil {
		return nil, err
	}
	resp := ToPOMilestoneResponse(milestone)
	return &resp, nil
}

// ListDisbursements lists disbursement items ordered by item type
func (s *PurchaseOrderService) ListDisbursements(ctx context.Context, poID uuid.UUID) ([]PODisbursementResponse, error) {
	if _, err := s.poRepo.FindByID(ctx, poID); err != nil {
		return nil, err
	}
	items, err := s.poRepo.FindDisbursements(ctx, poID)
	if err != nil {
		return nil, err
	}
	responses := make([]PODisbursementResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToPODisbursementResponse(&items[i]))
	}
	return responses, nil
}

// GetDisbursement retrieves a single disbursement item
func (s *PurchaseOrderService) GetDisbursement(ctx context.Context, itemID uuid.UUID) (*PODisbursementResponse, error) {
	item, err := s.poRepo.FindDisbursementByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	resp := ToPODisbursementResponse(item)
	return &resp, nil
}

// CreateDisbursement adds a disbursement item to a purchase order
func (s *PurchaseOrderService) CreateDisbursement(ctx context.Context, poID uuid.UUID, req CreatePODisbursementRequest) (*PODisbursementResponse, error) {
	if _, err := s.poRepo.FindByID(ctx, poID); err != nil {
		return nil, err
	}
	item, err := billing.NewPODisbursementItem(poID, req.ItemType, req.ItemTypeInfo, req.NoOfUnits, req.RatePerUnit, req.TotalCost)
	if err != nil {
		return nil, err
	}
	if err := s.poRepo.SaveDisbursement(ctx, item); err != nil {
		return nil, err
	}
	resp := ToPODisbursementResponse(item)
	return &resp, nil
}

// UpdateDisbursement updates a disbursement item, re-checking the total
// cost expectation against the resulting values.
func (s *PurchaseOrderService) UpdateDisbursement(ctx context.Context, itemID uuid.UUID, req UpdatePODisbursementRequest) (*PODisbursementResponse, error) {
	item, err := s.poRepo.FindDisbursementByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	units := item.NoOfUnits
	rate := item.RatePerUnit
	total := item.TotalCost
	if req.NoOfUnits != nil {
		units = *req.NoOfUnits
	}
	if req.RatePerUnit != nil {
		rate = *req.RatePerUnit
	}
	if req.TotalCost != nil {
		total = *req.TotalCost
	}
	updated, err := billing.NewPODisbursementItem(item.PurchaseOrderID, item.ItemType, item.ItemTypeInfo, units, rate, total)
	if err != nil {
		return nil, err
	}
	item.NoOfUnits = updated.NoOfUnits
	item.RatePerUnit = updated.RatePerUnit
	item.TotalCost = updated.TotalCost
	if req.ItemTypeInfo != nil {
		item.ItemTypeInfo = *req.ItemTypeInfo
	}

	if err := s.poRepo.SaveDisbursement(ctx, item); err != nil {
		return nil, err
	}
	resp := ToPODisbursementResponse(item)
	return &resp, nil
}

// DeleteDisbursement removes a disbursement item
func (s *PurchaseOrderService) DeleteDisbursement(ctx context.Context, itemID uuid.UUID) error {
	if _, err := s.poRepo.FindDisbursementByID(ctx, itemID); err != nil {
		return err
	}
	return s.poRepo.DeleteDisbursement(ctx, itemID)
}
