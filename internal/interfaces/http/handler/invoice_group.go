package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/langbridge/billing/internal/application/billing"
)

// InvoiceGroupHandler handles invoice group API endpoints
type InvoiceGroupHandler struct {
	BaseHandler
	groupService *billingapp.InvoiceGroupService
}

// NewInvoiceGroupHandler creates a new InvoiceGroupHandler
func NewInvoiceGroupHandler(groupService *billingapp.InvoiceGroupService) *InvoiceGroupHandler {
	return &InvoiceGroupHandler{groupService: groupService}
}

// Create handles POST /invoice-groups
func (h *InvoiceGroupHandler) Create(c *gin.Context) {
	var req billingapp.CreateInvoiceGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, group)
}

// GetByID handles GET /invoice-groups/:id
func (h *InvoiceGroupHandler) GetByID(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return
	}

	group, err := h.groupService.GetByID(c.Request.Context(), groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// List handles GET /invoice-groups
func (h *InvoiceGroupHandler) List(c *gin.Context) {
	var filter billingapp.InvoiceListFilter
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

	groups, total, err := h.groupService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, groups, total, filter.Page, filter.PageSize)
}

// Update handles PUT /invoice-groups/:id
func (h *InvoiceGroupHandler) Update(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return
	}

	var req billingapp.UpdateInvoiceGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	group, err := h.groupService.Update(c.Request.Context(), groupID, req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// Delete handles DELETE /invoice-groups/:id (soft delete; member invoices are
// detached, not deleted)
func (h *InvoiceGroupHandler) Delete(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), groupID, getActor(c)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListInvoices handles GET /invoice-groups/:id/invoices
func (h *InvoiceGroupHandler) ListInvoices(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return
	}

	group, err := h.groupService.GetWithInvoices(c.Request.Context(), groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// AddInvoice handles POST /invoice-groups/:id/invoices/:invoice_id
func (h *InvoiceGroupHandler) AddInvoice(c *gin.Context) {
	groupID, invoiceID, ok := h.memberIDs(c)
	if !ok {
		return
	}

	group, err := h.groupService.AddInvoice(c.Request.Context(), groupID, invoiceID, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// RemoveInvoice handles DELETE /invoice-groups/:id/invoices/:invoice_id
func (h *InvoiceGroupHandler) RemoveInvoice(c *gin.Context) {
	groupID, invoiceID, ok := h.memberIDs(c)
	if !ok {
		return
	}

	group, err := h.groupService.RemoveInvoice(c.Request.Context(), groupID, invoiceID, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

func (h *InvoiceGroupHandler) memberIDs(c *gin.Context) (groupID, invoiceID uuid.UUID, ok bool) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return uuid.Nil, uuid.Nil, false
	}
	invoiceID, err = uuid.Parse(c.Param("invoice_id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return groupID, invoiceID, true
}
