package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	poapp "github.com/ims/backend/internal/application/purchase"
)

// orderDateFormat is the accepted layout of order date range query parameters
const orderDateFormat = "2006-01-02"

// PurchaseOrderHandler handles purchase order API endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *poapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *poapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		orderService: orderService,
	}
}

// RegisterRoutes registers purchase order routes on the given group
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/purchase/orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/overdue", h.ListOverdue)
		orders.GET("/number/:po_number", h.GetByPONumber)
		orders.GET("/:id", h.GetByID)
		orders.PUT("/:id", h.Update)
		orders.POST("/:id/status", h.ChangeStatus)
		orders.POST("/:id/receive", h.Receive)
		orders.DELETE("/:id", h.Delete)
	}
}

// Create creates a new DRAFT purchase order
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req poapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// List returns purchase orders matching the query filters
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if v := c.Query("supplier_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			h.BadRequest(c, "Invalid supplier_id")
			return
		}
		filter.Filters["supplier_id"] = id
	}
	if v := c.Query("status"); v != "" {
		filter.Filters["status"] = v
	}
	if v := c.Query("created_by"); v != "" {
		filter.Filters["created_by"] = v
	}
	if v := c.Query("order_date_from"); v != "" {
		from, err := time.Parse(orderDateFormat, v)
		if err != nil {
			h.BadRequest(c, "Invalid order_date_from")
			return
		}
		filter.Filters["order_date_from"] = from
	}
	if v := c.Query("order_date_to"); v != "" {
		to, err := time.Parse(orderDateFormat, v)
		if err != nil {
			h.BadRequest(c, "Invalid order_date_to")
			return
		}
		filter.Filters["order_date_to"] = to
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// ListOverdue returns open orders whose expected delivery date has passed
func (h *PurchaseOrderHandler) ListOverdue(c *gin.Context) {
	orders, err := h.orderService.ListOverdue(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// GetByID returns a single purchase order with its items
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// GetByPONumber returns a purchase order looked up by its order number
func (h *PurchaseOrderHandler) GetByPONumber(c *gin.Context) {
	poNumber := c.Param("po_number")
	if poNumber == "" {
		h.BadRequest(c, "Order number is required")
		return
	}

	order, err := h.orderService.GetByPONumber(c.Request.Context(), poNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Update updates a DRAFT order
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req poapp.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// ChangeStatus transitions an order along its lifecycle
func (h *PurchaseOrderHandler) ChangeStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req poapp.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.ChangeStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Receive books a goods receipt against an order and credits the stock ledger
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req poapp.ReceiveItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.ReceiveItems(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete deletes a DRAFT order
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
