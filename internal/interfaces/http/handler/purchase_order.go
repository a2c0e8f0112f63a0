package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/langbridge/billing/internal/application/billing"
)

// PurchaseOrderHandler handles purchase order API endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	poService *billingapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(poService *billingapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{poService: poService}
}

// Create handles POST /purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req billingapp.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	po, err := h.poService.Create(c.Request.Context(), req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, po)
}

// GetByID handles GET /purchase-orders/:id
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	poID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	po, err := h.poService.GetByID(c.Request.Context(), poID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// List handles GET /purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var filter billingapp.PurchaseOrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	orders, total, err := h.poService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Update handles PUT /purchase-orders/:id
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	poID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	var req billingapp.UpdatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	po, err := h.poService.Update(c.Request.Context(), poID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// Delete handles DELETE /purchase-orders/:id (soft delete)
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	poID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	if err := h.poService.Delete(c.Request.Context(), poID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Approve handles POST /purchase-orders/:id/approve. Orders below the
// configured threshold are approved without a named approver; at or above it
// the acting user is required and recorded.
func (h *PurchaseOrderHandler) Approve(c *gin.Context) {
	poID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	po, err := h.poService.Approve(c.Request.Context(), poID, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// Dispute handles POST /purchase-orders/:id/dispute
func (h *PurchaseOrderHandler) Dispute(c *gin.Context) {
	poID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	po, err := h.poService.Dispute(c.Request.Context(), poID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// Archive handles POST /purchase-orders/:id/archive
func (h *PurchaseOrderHandler) Archive(c *gin.Context) {
	poID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	po, err := h.poService.Archive(c.Request.Context(), poID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// Restore handles POST /purchase-orders/:id/restore
func (h *PurchaseOrderHandler) Restore(c *gin.Context) {
	poID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	po, err := h.poService.Restore(c.Request.Context(), poID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, po)
}

// BatchApprove handles POST /purchase-orders/batch-approve. Per-item failures
// are reported in the result, never as a call-level error.
func (h *PurchaseOrderHandler) BatchApprove(c *gin.Context) {
	var req billingapp.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.poService.BatchApprove(c.Request.Context(), req.IDs, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// BatchDelete handles POST /purchase-orders/batch-delete
func (h *PurchaseOrderHandler) BatchDelete(c *gin.Context) {
	var req billingapp.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.poService.BatchDelete(c.Request.Context(), req.IDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListMilestones handles GET /purchase-orders/:id/milestones
func (h *PurchaseOrderHandler) ListMilestones(c *gin.Context) {
	poID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	milestones, err := h.poService.ListMilestones(c.Request.Context(), poID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, milestones)
}

// CreateMilestone handles POST /purchase-orders/:id/milestones
func (h *PurchaseOrderHandler) CreateMilestone(c *gin.Context) {
	poID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	var req billingapp.CreatePOMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	milestone, err := h.poService.CreateMilestone(c.Request.Context(), poID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, milestone)
}

// GetMilestone handles GET /purchase-orders/milestones/:id
func (h *PurchaseOrderHandler) GetMilestone(c *gin.Context) {
	milestoneID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid milestone ID format")
		return
	}

	milestone, err := h.poService.GetMilestone(c.Request.Context(), milestoneID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, milestone)
}

// UpdateMilestone handles PUT /purchase-orders/milestones/:id
func (h *PurchaseOrderHandler) UpdateMilestone(c *gin.Context) {
	milestoneID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid milestone ID format")
		return
	}

	var req billingapp.UpdatePOMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	milestone, err := h.poService.UpdateMilestone(c.Request.Context(), milestoneID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, milestone)
}

// ListDisbursements handles GET /purchase-orders/:id/disbursements
func (h *PurchaseOrderHandler) ListDisbursements(c *gin.Context) {
	poID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	items, err := h.poService.ListDisbursements(c.Request.Context(), poID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// CreateDisbursement handles POST /purchase-orders/:id/disbursements
func (h *PurchaseOrderHandler) CreateDisbursement(c *gin.Context) {
	poID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	var req billingapp.CreatePODisbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.poService.CreateDisbursement(c.Request.Context(), poID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, item)
}

// GetDisbursement handles GET /purchase-orders/disbursements/:id
func (h *PurchaseOrderHandler) GetDisbursement(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid disbursement item ID format")
		return
	}

	item, err := h.poService.GetDisbursement(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// UpdateDisbursement handles PUT /purchase-orders/disbursements/:id
func (h *PurchaseOrderHandler) UpdateDisbursement(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid disbursement item ID format")
		return
	}

	var req billingapp.UpdatePODisbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.poService.UpdateDisbursement(c.Request.Context(), itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// DeleteDisbursement handles DELETE /purchase-orders/disbursements/:id
func (h *PurchaseOrderHandler) DeleteDisbursement(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid disbursement item ID format")
		return
	}

	if err := h.poService.DeleteDisbursement(c.Request.Context(), itemID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
