package purchase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ims/backend/internal/domain/purchase"
)

// CreateOrderRequest represents a request to create a purchase order
type CreateOrderRequest struct {
	SupplierID           uuid.UUID        `json:"supplier_id" binding:"required"`
	OrderDate            *time.Time       `json:"order_date"`
	ExpectedDeliveryDate *time.Time       `json:"expected_delivery_date"`
	Notes                string           `json:"notes" binding:"max=2000"`
	CreatedBy            string           `json:"created_by" binding:"max=100"`
	Items                []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// OrderItemInput represents one requested line item
type OrderItemInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int64           `json:"quantity" binding:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// UpdateOrderRequest represents a request to update a DRAFT order.
// A non-nil Items slice replaces the entire item set.
type UpdateOrderRequest struct {
	SupplierID           *uuid.UUID       `json:"supplier_id"`
	ExpectedDeliveryDate *time.Time       `json:"expected_delivery_date"`
	Notes                string           `json:"notes" binding:"max=2000"`
	Items                []OrderItemInput `json:"items" binding:"omitempty,min=1,dive"`
}

// ChangeStatusRequest represents a status transition request
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ReceiveLineInput represents one delivered line in a receipt
type ReceiveLineInput struct {
	ItemID      uuid.UUID  `json:"item_id" binding:"required"`
	Quantity    int64      `json:"quantity" binding:"required,min=1"`
	BatchNumber string     `json:"batch_number" binding:"max=100"`
	ExpiryDate  *time.Time `json:"expiry_date"`
}

// ReceiveItemsRequest represents a goods receipt against an order
type ReceiveItemsRequest struct {
	Lines []ReceiveLineInput `json:"lines" binding:"required,min=1,dive"`
}

// OrderItemResponse represents a line item in API responses
type OrderItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Quantity         int64           `json:"quantity"`
	ReceivedQuantity int64           `json:"received_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalPrice       decimal.Decimal `json:"total_price"`
}

// OrderResponse represents a purchase order in API responses
type OrderResponse struct {
	ID                   uuid.UUID           `json:"id"`
	PONumber             string              `json:"po_number"`
	SupplierID           uuid.UUID           `json:"supplier_id"`
	Status               string              `json:"status"`
	OrderDate            time.Time           `json:"order_date"`
	ExpectedDeliveryDate *time.Time          `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate   *time.Time          `json:"actual_delivery_date,omitempty"`
	Items                []OrderItemResponse `json:"items"`
	TotalAmount          decimal.Decimal     `json:"total_amount"`
	Notes                string              `json:"notes,omitempty"`
	CreatedBy            string              `json:"created_by,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
	Version              int                 `json:"version"`
}

// ToOrderItemResponse converts a domain item to a response DTO
func ToOrderItemResponse(item *purchase.PurchaseOrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:               item.ID,
		ProductID:        item.ProductID,
		ProductName:      item.ProductName,
		Quantity:         item.Quantity,
		ReceivedQuantity: item.ReceivedQuantity,
		UnitPrice:        item.UnitPrice,
		TotalPrice:       item.TotalPrice,
	}
}

// ToOrderResponse converts a domain PurchaseOrder to a response DTO
func ToOrderResponse(order *purchase.PurchaseOrder) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i := range order.Items {
		items[i] = ToOrderItemResponse(&order.Items[i])
	}

	return OrderResponse{
		ID:                   order.ID,
		PONumber:             order.PONumber,
		SupplierID:           order.SupplierID,
		Status:               string(order.Status),
		OrderDate:            order.OrderDate,
		ExpectedDeliveryDate: order.ExpectedDeliveryDate,
		ActualDeliveryDate:   order.ActualDeliveryDate,
		Items:                items,
		TotalAmount:          order.TotalAmount,
		Notes:                order.Notes,
		CreatedBy:            order.CreatedBy,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
		Version:              order.Version,
	}
}

// ToOrderResponses converts a slice of orders to response DTOs
func ToOrderResponses(orders []purchase.PurchaseOrder) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
