package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ims/backend/internal/domain/shared"
)

// ProductStockSummary aggregates a product's stock across all warehouses
// and batches
type ProductStockSummary struct {
	ProductID     uuid.UUID
	TotalQuantity int64
}

// StockRecordRepository defines the interface for stock record persistence
type StockRecordRepository interface {
	// FindByID finds a stock record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockRecord, error)

	// FindByKey finds the record for a product-warehouse-batch combination
	FindByKey(ctx context.Context, productID, warehouseID uuid.UUID, batchNumber string) (*StockRecord, error)

	// FindByKeyForUpdate finds the record for a combination and locks the row
	// for the duration of the surrounding transaction
	FindByKeyForUpdate(ctx context.Context, productID, warehouseID uuid.UUID, batchNumber string) (*StockRecord, error)

	// FindByIDForUpdate finds a record by ID and locks the row for the
	// duration of the surrounding transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*StockRecord, error)

	// FindByProduct finds all records for a product across warehouses
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]StockRecord, error)

	// FindByWarehouse finds all records in a warehouse
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]StockRecord, error)

	// FindAll finds all records matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StockRecord, error)

	// FindExpiringBefore finds records with stock whose batch expires strictly
	// before the cutoff. Records without an expiry date are excluded.
	FindExpiringBefore(ctx context.Context, cutoff time.Time) ([]StockRecord, error)

	// FindLowStock finds records whose owning product's total quantity across
	// all warehouses and batches is below the product's minimum stock level
	FindLowStock(ctx context.Context) ([]StockRecord, error)

	// SumQuantityByProduct sums total quantity for a product across all
	// warehouses and batches
	SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int64, error)

	// SumQuantityGroupedByProduct sums quantities per product for the given
	// products. Products with no stock records are absent from the result.
	SumQuantityGroupedByProduct(ctx context.Context, productIDs []uuid.UUID) ([]ProductStockSummary, error)

	// Save creates or updates a stock record
	Save(ctx context.Context, record *StockRecord) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, record *StockRecord) error

	// Delete deletes a stock record
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts records matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
