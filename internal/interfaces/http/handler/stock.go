package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	invapp "github.com/ims/backend/internal/application/inventory"
)

// StockHandler handles stock ledger API endpoints
type StockHandler struct {
	BaseHandler
	stockService *invapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *invapp.StockService) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// RegisterRoutes registers stock routes on the given group
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/inventory/stock")
	{
		stock.POST("", h.AddStock)
		stock.GET("", h.List)
		stock.GET("/low", h.ListLowStock)
		stock.GET("/expiring", h.ListExpiring)
		stock.GET("/:id", h.GetByID)
		stock.POST("/:id/adjust", h.Adjust)
		stock.POST("/:id/transfer", h.Transfer)
	}
	rg.GET("/inventory/products/:id/total", h.TotalQuantity)
}

// AddStock books a quantity onto a product/warehouse/batch record, creating
// the record when it does not exist yet
func (h *StockHandler) AddStock(c *gin.Context) {
	var req invapp.AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.stockService.AddStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, record)
}

// List returns stock records matching the query filters
func (h *StockHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if v := c.Query("product_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			h.BadRequest(c, "Invalid product_id")
			return
		}
		filter.Filters["product_id"] = id
	}
	if v := c.Query("warehouse_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			h.BadRequest(c, "Invalid warehouse_id")
			return
		}
		filter.Filters["warehouse_id"] = id
	}
	if v := c.Query("batch_number"); v != "" {
		filter.Filters["batch_number"] = v
	}
	if v := c.Query("has_stock"); v != "" {
		hasStock, err := strconv.ParseBool(v)
		if err != nil {
			h.BadRequest(c, "Invalid has_stock")
			return
		}
		filter.Filters["has_stock"] = hasStock
	}

	records, total, err := h.stockService.ListRecords(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, records, total, filter.Page, filter.PageSize)
}

// GetByID returns a single stock record
func (h *StockHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	record, err := h.stockService.GetRecord(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// Adjust applies a signed quantity delta to a stock record
func (h *StockHandler) Adjust(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	var req invapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.stockService.AdjustStock(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}

	record, err := h.stockService.GetRecord(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// Transfer moves quantity from a stock record to another warehouse
func (h *StockHandler) Transfer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	var req invapp.TransferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.stockService.TransferStock(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// TotalQuantity returns a product's total stock across all warehouses and batches
func (h *StockHandler) TotalQuantity(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	total, err := h.stockService.TotalQuantity(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, total)
}

// ListLowStock returns records of products below their minimum stock level
func (h *StockHandler) ListLowStock(c *gin.Context) {
	records, err := h.stockService.LowStockRecords(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}

// ListExpiring returns records whose batch expires within the given days
func (h *StockHandler) ListExpiring(c *gin.Context) {
	daysAhead := 30
	if v := c.Query("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			h.BadRequest(c, "Invalid days")
			return
		}
		daysAhead = parsed
	}

	records, err := h.stockService.ExpiringRecords(c.Request.Context(), daysAhead)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}
