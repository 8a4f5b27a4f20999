package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/shared"
)

// GormStockRecordRepository implements StockRecordRepository using GORM
type GormStockRecordRepository struct {
	db *gorm.DB
}

// NewGormStockRecordRepository creates a new GormStockRecordRepository
func NewGormStockRecordRepository(db *gorm.DB) *GormStockRecordRepository {
	return &GormStockRecordRepository{db: db}
}

// FindByID finds a stock record by its ID
func (r *GormStockRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockRecord, error) {
	var record inventory.StockRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByKey finds the record for a product-warehouse-batch combination
func (r *GormStockRecordRepository) FindByKey(ctx context.Context, productID, warehouseID uuid.UUID, batchNumber string) (*inventory.StockRecord, error) {
	var record inventory.StockRecord
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND warehouse_id = ? AND batch_number = ?", productID, warehouseID, batchNumber).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByKeyForUpdate finds the record for a combination and locks the row
func (r *GormStockRecordRepository) FindByKeyForUpdate(ctx context.Context, productID, warehouseID uuid.UUID, batchNumber string) (*inventory.StockRecord, error) {
	var record inventory.StockRecord
	if err := r.withRowLock(r.db.WithContext(ctx)).
		Where("product_id = ? AND warehouse_id = ? AND batch_number = ?", productID, warehouseID, batchNumber).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByIDForUpdate finds a record by ID and locks the row
func (r *GormStockRecordRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.StockRecord, error) {
	var record inventory.StockRecord
	if err := r.withRowLock(r.db.WithContext(ctx)).
		First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByProduct finds all records for a product across warehouses
func (r *GormStockRecordRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.StockRecord, error) {
	var records []inventory.StockRecord
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("warehouse_id, batch_number").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByWarehouse finds all records in a warehouse
func (r *GormStockRecordRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.StockRecord, error) {
	var records []inventory.StockRecord
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.StockRecord{}).
			Where("warehouse_id = ?", warehouseID),
		filter,
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindAll finds all records matching the filter
func (r *GormStockRecordRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockRecord, error) {
	var records []inventory.StockRecord
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.StockRecord{}), filter)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindExpiringBefore finds records with stock expiring strictly before the cutoff
func (r *GormStockRecordRepository) FindExpiringBefore(ctx context.Context, cutoff time.Time) ([]inventory.StockRecord, error) {
	var records []inventory.StockRecord
	if err := r.db.WithContext(ctx).
		Where("expiry_date IS NOT NULL AND expiry_date < ? AND quantity > 0", cutoff).
		Order("expiry_date").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindLowStock finds records whose owning product's total stock is below
// the product's minimum stock level
func (r *GormStockRecordRepository) FindLowStock(ctx context.Context) ([]inventory.StockRecord, error) {
	var records []inventory.StockRecord

	totals := r.db.Model(&inventory.StockRecord{}).
		Select("product_id, SUM(quantity) AS total_quantity").
		Group("product_id")

	if err := r.db.WithContext(ctx).
		Model(&inventory.StockRecord{}).
		Joins("JOIN (?) AS totals ON totals.product_id = stock_records.product_id", totals).
		Joins("JOIN products ON products.id = stock_records.product_id").
		Where("products.min_stock_level > 0 AND totals.total_quantity < products.min_stock_level").
		Order("stock_records.product_id, stock_records.warehouse_id, stock_records.batch_number").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// SumQuantityByProduct sums total quantity for a product across all
// warehouses and batches
func (r *GormStockRecordRepository) SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var result struct {
		Total int64
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockRecord{}).
		Select("COALESCE(SUM(quantity), 0) AS total").
		Where("product_id = ?", productID).
		Scan(&result).Error; err != nil {
		return 0, err
	}
	return result.Total, nil
}

// SumQuantityGroupedByProduct sums quantities per product for the given products
func (r *GormStockRecordRepository) SumQuantityGroupedByProduct(ctx context.Context, productIDs []uuid.UUID) ([]inventory.ProductStockSummary, error) {
	if len(productIDs) == 0 {
		return []inventory.ProductStockSummary{}, nil
	}

	var summaries []inventory.ProductStockSummary
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockRecord{}).
		Select("product_id, SUM(quantity) AS total_quantity").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Scan(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

// Save creates or updates a stock record
func (r *GormStockRecordRepository) Save(ctx context.Context, record *inventory.StockRecord) error {
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrDuplicateResource
		}
		return err
	}
	return nil
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormStockRecordRepository) SaveWithLock(ctx context.Context, record *inventory.StockRecord) error {
	result := r.db.WithContext(ctx).
		Model(record).
		Where("id = ? AND version = ?", record.ID, record.Version-1).
		Updates(map[string]interface{}{
			"quantity":    record.Quantity,
			"expiry_date": record.ExpiryDate,
			"location":    record.Location,
			"version":     record.Version,
			"updated_at":  record.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes a stock record
func (r *GormStockRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.StockRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts records matching the filter
func (r *GormStockRecordRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&inventory.StockRecord{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// withRowLock adds a FOR UPDATE clause on dialects that support it.
// SQLite serializes writers on its own and rejects the clause.
func (r *GormStockRecordRepository) withRowLock(query *gorm.DB) *gorm.DB {
	if r.db.Dialector.Name() == "sqlite" {
		return query
	}
	return query.Clauses(clause.Locking{Strength: "UPDATE"})
}

// applyFilter applies filter options to the query
func (r *GormStockRecordRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStockRecordRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "batch_number":
			query = query.Where("batch_number = ?", value)
		case "has_stock":
			if value == true {
				query = query.Where("quantity > 0")
			}
		case "empty":
			if value == true {
				query = query.Where("quantity = 0")
			}
		}
	}

	return query
}

var _ inventory.StockRecordRepository = (*GormStockRecordRepository)(nil)
