package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/langbridge/billing/internal/application/billing"
)

// SalesOrderHandler handles sales order API endpoints. Sales orders share the
// invoice storage but run their own workflow and filters.
type SalesOrderHandler struct {
	BaseHandler
	soService *billingapp.SalesOrderService
}

// NewSalesOrderHandler creates a new SalesOrderHandler
func NewSalesOrderHandler(soService *billingapp.SalesOrderService) *SalesOrderHandler {
	return &SalesOrderHandler{soService: soService}
}

// Create handles POST /sales-orders
func (h *SalesOrderHandler) Create(c *gin.Context) {
	var req billingapp.CreateSalesOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.soService.Create(c.Request.Context(), req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID handles GET /sales-orders/:id
func (h *SalesOrderHandler) GetByID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID format")
		return
	}

	order, err := h.soService.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List handles GET /sales-orders
func (h *SalesOrderHandler) List(c *gin.Context) {
	var filter billingapp.SalesOrderListFilter
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

	orders, total, err := h.soService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Update handles PUT /sales-orders/:id
func (h *SalesOrderHandler) Update(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID format")
		return
	}

	var req billingapp.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.soService.Update(c.Request.Context(), orderID, req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete handles DELETE /sales-orders/:id (soft delete)
func (h *SalesOrderHandler) Delete(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID format")
		return
	}

	if err := h.soService.Delete(c.Request.Context(), orderID, getActor(c)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Transform handles POST /sales-orders/:id/transform-to-invoice. A new draft
// invoice is created carrying the order's commercial fields; the order itself
// ends up in the terminal Transformed status.
func (h *SalesOrderHandler) Transform(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID format")
		return
	}

	var req billingapp.TransformToInvoiceRequest
	// Body is optional: defaults produce a Tax Invoice with no due date
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.soService.Transform(c.Request.Context(), orderID, req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Cancel handles POST /sales-orders/:id/cancel
func (h *SalesOrderHandler) Cancel(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sales order ID format")
		return
	}

	var req billingapp.CancelSalesOrderRequest
	// Allow empty body, reason is optional
	_ = c.ShouldBindJSON(&req)

	order, err := h.soService.Cancel(c.Request.Context(), orderID, req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
