package router

import (
	"github.com/gin-gonic/gin"

	"github.com/langbridge/billing/internal/interfaces/http/handler"
	"github.com/langbridge/billing/internal/interfaces/http/middleware"
)

// Handlers bundles the resource handlers mounted under the versioned API group.
type Handlers struct {
	Invoice       *handler.InvoiceHandler
	InvoiceGroup  *handler.InvoiceGroupHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	SalesOrder    *handler.SalesOrderHandler
	System        *handler.SystemHandler
}

// Config carries the cross-cutting pieces the router needs besides the handlers.
type Config struct {
	Handlers Handlers
	JWT      middleware.JWTMiddlewareConfig
}

// Setup mounts all routes on the engine. Health and system endpoints sit
// outside the versioned group; everything under /v1 requires a valid bearer
// token plus the route's permission.
func Setup(engine *gin.Engine, cfg Config) {
	h := cfg.Handlers

	engine.GET("/health", h.System.Health)
	engine.GET("/system/info", h.System.GetSystemInfo)
	engine.GET("/system/ping", h.System.Ping)

	v1 := engine.Group("/v1")
	v1.Use(middleware.JWTAuthMiddlewareWithConfig(cfg.JWT))

	registerInvoiceRoutes(v1, h.Invoice)
	registerInvoiceGroupRoutes(v1, h.InvoiceGroup)
	registerPurchaseOrderRoutes(v1, h.PurchaseOrder)
	registerSalesOrderRoutes(v1, h.SalesOrder)
}

func registerInvoiceRoutes(rg *gin.RouterGroup, h *handler.InvoiceHandler) {
	invoices := rg.Group("/invoices")

	invoices.GET("", middleware.RequirePermission("invoices:read"), h.List)
	invoices.GET("/:id", middleware.RequirePermission("invoices:read"), h.GetByID)
	invoices.POST("", middleware.RequirePermission("invoices:create"), h.Create)
	invoices.PUT("/:id", middleware.RequirePermission("invoices:update"), h.Update)
	invoices.DELETE("/:id", middleware.RequirePermission("invoices:delete"), h.Delete)

	invoices.POST("/:id/approve", middleware.RequirePermission("invoices:approve"), h.Approve)
	invoices.POST("/:id/archive", middleware.RequirePermission("invoices:archive"), h.Archive)
	invoices.POST("/:id/restore", middleware.RequirePermission("invoices:archive"), h.Restore)

	invoices.GET("/:id/items", middleware.RequirePermission("invoices:read"), h.ListItems)
	invoices.POST("/:id/items", middleware.RequirePermission("invoices:update"), h.CreateItem)
	invoices.GET("/items/:id", middleware.RequirePermission("invoices:read"), h.GetItem)
	invoices.PUT("/items/:id", middleware.RequirePermission("invoices:update"), h.UpdateItem)
	invoices.DELETE("/items/:id", middleware.RequirePermission("invoices:update"), h.DeleteItem)
}

func registerInvoiceGroupRoutes(rg *gin.RouterGroup, h *handler.InvoiceGroupHandler) {
	groups := rg.Group("/invoice-groups")

	groups.GET("", middleware.RequirePermission("invoice_groups:read"), h.List)
	groups.GET("/:id", middleware.RequirePermission("invoice_groups:read"), h.GetByID)
	groups.POST("", middleware.RequirePermission("invoice_groups:create"), h.Create)
	groups.PUT("/:id", middleware.RequirePermission("invoice_groups:update"), h.Update)
	groups.DELETE("/:id", middleware.RequirePermission("invoice_groups:delete"), h.Delete)

	groups.GET("/:id/invoices", middleware.RequirePermission("invoice_groups:read"), h.ListInvoices)
	groups.POST("/:id/invoices/:invoice_id", middleware.RequirePermission("invoice_groups:update"), h.AddInvoice)
	groups.DELETE("/:id/invoices/:invoice_id", middleware.RequirePermission("invoice_groups:update"), h.RemoveInvoice)
}

func registerPurchaseOrderRoutes(rg *gin.RouterGroup, h *handler.PurchaseOrderHandler) {
	pos := rg.Group("/purchase-orders")

	pos.GET("", middleware.RequirePermission("purchase_orders:read"), h.List)
	pos.GET("/:id", middleware.RequirePermission("purchase_orders:read"), h.GetByID)
	pos.POST("", middleware.RequirePermission("purchase_orders:create"), h.Create)
	pos.PUT("/:id", middleware.RequirePermission("purchase_orders:update"), h.Update)
	pos.DELETE("/:id", middleware.RequirePermission("purchase_orders:delete"), h.Delete)

	pos.POST("/:id/approve", middleware.RequirePermission("purchase_orders:approve"), h.Approve)
	pos.POST("/:id/dispute", middleware.RequirePermission("purchase_orders:update"), h.Dispute)
	pos.POST("/:id/archive", middleware.RequirePermission("purchase_orders:archive"), h.Archive)
	pos.POST("/:id/restore", middleware.RequirePermission("purchase_orders:archive"), h.Restore)

	pos.POST("/batch-approve", middleware.RequirePermission("purchase_orders:approve"), h.BatchApprove)
	pos.POST("/batch-delete", middleware.RequirePermission("purchase_orders:delete"), h.BatchDelete)

	pos.GET("/:id/milestones", middleware.RequirePermission("purchase_orders:read"), h.ListMilestones)
	pos.POST("/:id/milestones", middleware.RequirePermission("purchase_orders:update"), h.CreateMilestone)
	pos.GET("/milestones/:id", middleware.RequirePermission("purchase_orders:read"), h.GetMilestone)
	pos.PUT("/milestones/:id", middleware.RequirePermission("purchase_orders:update"), h.UpdateMilestone)

	pos.GET("/:id/disbursements", middleware.RequirePermission("purchase_orders:read"), h.ListDisbursements)
	pos.POST("/:id/disbursements", middleware.RequirePermission("purchase_orders:update"), h.CreateDisbursement)
	pos.GET("/disbursements/:id", middleware.RequirePermission("purchase_orders:read"), h.GetDisbursement)
	pos.PUT("/disbursements/:id", middleware.RequirePermission("purchase_orders:update"), h.UpdateDisbursement)
	pos.DELETE("/disbursements/:id", middleware.RequirePermission("purchase_orders:update"), h.DeleteDisbursement)
}

func registerSalesOrderRoutes(rg *gin.RouterGroup, h *handler.SalesOrderHandler) {
	orders := rg.Group("/sales-orders")

	orders.GET("", middleware.RequirePermission("sales_orders:read"), h.List)
	orders.GET("/:id", middleware.RequirePermission("sales_orders:read"), h.GetByID)
	orders.POST("", middleware.RequirePermission("sales_orders:create"), h.Create)
	orders.PUT("/:id", middleware.RequirePermission("sales_orders:update"), h.Update)
	orders.DELETE("/:id", middleware.RequirePermission("sales_orders:delete"), h.Delete)

	orders.POST("/:id/transform-to-invoice", middleware.RequirePermission("sales_orders:transform"), h.Transform)
	orders.POST("/:id/cancel", middleware.RequirePermission("sales_orders:update"), h.Cancel)
}
