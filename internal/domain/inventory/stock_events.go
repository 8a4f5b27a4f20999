package inventory

import (
	"github.com/google/uuid"

	"github.com/ims/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeStockRecord = "StockRecord"

// Event type constants
const (
	EventTypeStockAdded       = "StockAdded"
	EventTypeStockAdjusted    = "StockAdjusted"
	EventTypeStockTransferred = "StockTransferred"
)

// StockAddedEvent is raised when stock is added to a record
type StockAddedEvent struct {
	shared.BaseDomainEvent
	StockRecordID uuid.UUID `json:"stock_record_id"`
	ProductID     uuid.UUID `json:"product_id"`
	WarehouseID   uuid.UUID `json:"warehouse_id"`
	BatchNumber   string    `json:"batch_number,omitempty"`
	Quantity      int64     `json:"quantity"`
	NewQuantity   int64     `json:"new_quantity"`
}

// NewStockAddedEvent creates a new StockAddedEvent
func NewStockAddedEvent(record *StockRecord, quantity int64) *StockAddedEvent {
	return &StockAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdded, AggregateTypeStockRecord, record.ID),
		StockRecordID:   record.ID,
		ProductID:       record.ProductID,
		WarehouseID:     record.WarehouseID,
		BatchNumber:     record.BatchNumber,
		Quantity:        quantity,
		NewQuantity:     record.Quantity,
	}
}

// EventType returns the event type name
func (e *StockAddedEvent) EventType() string {
	return EventTypeStockAdded
}

// StockAdjustedEvent is raised when a signed adjustment is applied
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	StockRecordID uuid.UUID `json:"stock_record_id"`
	ProductID     uuid.UUID `json:"product_id"`
	WarehouseID   uuid.UUID `json:"warehouse_id"`
	BatchNumber   string    `json:"batch_number,omitempty"`
	Delta         int64     `json:"delta"`
	NewQuantity   int64     `json:"new_quantity"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(record *StockRecord, delta int64) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeStockRecord, record.ID),
		StockRecordID:   record.ID,
		ProductID:       record.ProductID,
		WarehouseID:     record.WarehouseID,
		BatchNumber:     record.BatchNumber,
		Delta:           delta,
		NewQuantity:     record.Quantity,
	}
}

// EventType returns the event type name
func (e *StockAdjustedEvent) EventType() string {
	return EventTypeStockAdjusted
}

// StockTransferredEvent is raised on the source record when stock moves
// between warehouses
type StockTransferredEvent struct {
	shared.BaseDomainEvent
	ProductID       uuid.UUID `json:"product_id"`
	FromWarehouseID uuid.UUID `json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID `json:"to_warehouse_id"`
	BatchNumber     string    `json:"batch_number,omitempty"`
	Quantity        int64     `json:"quantity"`
}

// NewStockTransferredEvent creates a new StockTransferredEvent
func NewStockTransferredEvent(source *StockRecord, toWarehouseID uuid.UUID, quantity int64) *StockTransferredEvent {
	return &StockTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferred, AggregateTypeStockRecord, source.ID),
		ProductID:       source.ProductID,
		FromWarehouseID: source.WarehouseID,
		ToWarehouseID:   toWarehouseID,
		BatchNumber:     source.BatchNumber,
		Quantity:        quantity,
	}
}

// EventType returns the event type name
func (e *StockTransferredEvent) EventType() string {
	return EventTypeStockTransferred
}
