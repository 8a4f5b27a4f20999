package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/ims/backend/internal/domain/shared"
)

// StockRecord represents the quantity of one product batch held at one
// warehouse. It is the aggregate root for stock operations.
// The composite identifier is ProductID + WarehouseID + BatchNumber; an
// empty batch number identifies unbatched stock and participates in the
// key like any other value.
type StockRecord struct {
	shared.BaseAggregateRoot
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_warehouse_batch,priority:1"`
	WarehouseID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_warehouse_batch,priority:2"`
	BatchNumber string     `gorm:"type:varchar(100);not null;default:'';uniqueIndex:idx_stock_product_warehouse_batch,priority:3"`
	Quantity    int64      `gorm:"not null;default:0;check:quantity >= 0"`
	ExpiryDate  *time.Time `gorm:"type:date"`
	Location    string     `gorm:"type:varchar(100)"` // Shelf/bin position within the warehouse
}

// TableName returns the table name for GORM
func (StockRecord) TableName() string {
	return "stock_records"
}

// NewStockRecord creates a new stock record for a product batch at a warehouse
func NewStockRecord(productID, warehouseID uuid.UUID, batchNumber string, quantity int64) (*StockRecord, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Product ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Warehouse ID cannot be empty")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidQuantity, "Quantity cannot be negative")
	}

	record := &StockRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		WarehouseID:       warehouseID,
		BatchNumber:       batchNumber,
		Quantity:          quantity,
	}

	record.AddDomainEvent(NewStockAddedEvent(record, quantity))

	return record, nil
}

// AddQuantity increases the quantity of an existing record. Expiry date and
// location are overwritten only when the caller provides them; omitted
// values leave the stored ones untouched.
func (r *StockRecord) AddQuantity(quantity int64, expiryDate *time.Time, location string) error {
	if quantity < 0 {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "Quantity cannot be negative")
	}

	r.Quantity += quantity
	if expiryDate != nil {
		r.ExpiryDate = expiryDate
	}
	if location != "" {
		r.Location = location
	}
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewStockAddedEvent(r, quantity))

	return nil
}

// Adjust applies a signed quantity delta. A negative delta that would drive
// the quantity below zero is rejected and the record is left unchanged.
func (r *StockRecord) Adjust(delta int64) error {
	if delta == 0 {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "Adjustment delta cannot be zero")
	}
	if r.Quantity+delta < 0 {
		return shared.NewDomainError(shared.CodeInsufficientStock, "Insufficient stock for adjustment")
	}

	r.Quantity += delta
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewStockAdjustedEvent(r, delta))

	return nil
}

// Remove decreases the quantity for an outbound transfer
func (r *StockRecord) Remove(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "Quantity must be positive")
	}
	if r.Quantity < quantity {
		return shared.NewDomainError(shared.CodeInsufficientStock, "Insufficient stock at source warehouse")
	}

	r.Quantity -= quantity
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// SetExpiryDate sets the expiry date for the batch
func (r *StockRecord) SetExpiryDate(expiryDate *time.Time) {
	r.ExpiryDate = expiryDate
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// SetLocation sets the shelf/bin position
func (r *StockRecord) SetLocation(location string) {
	r.Location = location
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// IsEmpty returns true when no stock remains on the record
func (r *StockRecord) IsEmpty() bool {
	return r.Quantity == 0
}

// IsExpired returns true if the batch expiry date is strictly before the given day
func (r *StockRecord) IsExpired(now time.Time) bool {
	if r.ExpiryDate == nil {
		return false
	}
	return r.ExpiryDate.Before(truncateToDay(now))
}

// ExpiresWithin returns true if the batch expires on or before now+days.
// Records without an expiry date never expire.
func (r *StockRecord) ExpiresWithin(now time.Time, days int) bool {
	if r.ExpiryDate == nil {
		return false
	}
	cutoff := truncateToDay(now).AddDate(0, 0, days)
	return !r.ExpiryDate.After(cutoff)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
