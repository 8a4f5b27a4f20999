package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/ims/backend/internal/domain/inventory"
)

// AddStockRequest represents a request to add stock for a product batch
type AddStockRequest struct {
	ProductID   uuid.UUID  `json:"product_id" binding:"required"`
	WarehouseID uuid.UUID  `json:"warehouse_id" binding:"required"`
	BatchNumber string     `json:"batch_number" binding:"max=100"`
	Quantity    int64      `json:"quantity" binding:"min=0"`
	ExpiryDate  *time.Time `json:"expiry_date"`
	Location    string     `json:"location" binding:"max=100"`
}

// AdjustStockRequest represents a signed quantity adjustment on a record
type AdjustStockRequest struct {
	Delta  int64  `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// TransferStockRequest represents a stock transfer between warehouses
type TransferStockRequest struct {
	DestinationWarehouseID uuid.UUID `json:"destination_warehouse_id" binding:"required"`
	Quantity               int64     `json:"quantity" binding:"required,min=1"`
}

// StockRecordResponse represents a stock record in API responses
type StockRecordResponse struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   uuid.UUID  `json:"product_id"`
	WarehouseID uuid.UUID  `json:"warehouse_id"`
	BatchNumber string     `json:"batch_number"`
	Quantity    int64      `json:"quantity"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	Location    string     `json:"location,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

// TotalQuantityResponse represents a product's total stock
type TotalQuantityResponse struct {
	ProductID     uuid.UUID `json:"product_id"`
	TotalQuantity int64     `json:"total_quantity"`
}

// ToStockRecordResponse converts a domain StockRecord to a response DTO
func ToStockRecordResponse(record *inventory.StockRecord) StockRecordResponse {
	return StockRecordResponse{
		ID:          record.ID,
		ProductID:   record.ProductID,
		WarehouseID: record.WarehouseID,
		BatchNumber: record.BatchNumber,
		Quantity:    record.Quantity,
		ExpiryDate:  record.ExpiryDate,
		Location:    record.Location,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
		Version:     record.Version,
	}
}

// ToStockRecordResponses converts a slice of records to response DTOs
func ToStockRecordResponses(records []inventory.StockRecord) []StockRecordResponse {
	responses := make([]StockRecordResponse, len(records))
	for i := range records {
		responses[i] = ToStockRecordResponse(&records[i])
	}
	return responses
}
