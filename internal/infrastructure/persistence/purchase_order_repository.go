package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ims/backend/internal/domain/purchase"
	"github.com/ims/backend/internal/domain/shared"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order with its items by ID
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchase.PurchaseOrder, error) {
	var order purchase.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByPONumber finds a purchase order with its items by order number
func (r *GormPurchaseOrderRepository) FindByPONumber(ctx context.Context, poNumber string) (*purchase.PurchaseOrder, error) {
	var order purchase.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("po_number = ?", poNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindBySupplier finds purchase orders for a supplier
func (r *GormPurchaseOrderRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]purchase.PurchaseOrder, error) {
	var orders []purchase.PurchaseOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&purchase.PurchaseOrder{}).
			Where("supplier_id = ?", supplierID),
		filter,
	)

	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds purchase orders in a given status
func (r *GormPurchaseOrderRepository) FindByStatus(ctx context.Context, status purchase.PurchaseOrderStatus, filter shared.Filter) ([]purchase.PurchaseOrder, error) {
	var orders []purchase.PurchaseOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&purchase.PurchaseOrder{}).
			Where("status = ?", status),
		filter,
	)

	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByOrderDateRange finds orders whose order date falls in [from, to]
func (r *GormPurchaseOrderRepository) FindByOrderDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]purchase.PurchaseOrder, error) {
	var orders []purchase.PurchaseOrder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&purchase.PurchaseOrder{}).
			Where("order_date >= ? AND order_date <= ?", from, to),
		filter,
	)

	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindOverdue finds open orders whose expected delivery date has passed
func (r *GormPurchaseOrderRepository) FindOverdue(ctx context.Context, asOf time.Time) ([]purchase.PurchaseOrder, error) {
	var orders []purchase.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("expected_delivery_date IS NOT NULL AND expected_delivery_date < ?", asOf).
		Where("status NOT IN ?", []purchase.PurchaseOrderStatus{
			purchase.StatusReceived,
			purchase.StatusCancelled,
		}).
		Order("expected_delivery_date").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindAll finds purchase orders matching the filter
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]purchase.PurchaseOrder, error) {
	var orders []purchase.PurchaseOrder
	query := r.applyFilter(r.db.WithContext(ctx).Model(&purchase.PurchaseOrder{}), filter)

	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ExistsByPONumber checks whether an order number is already taken
func (r *GormPurchaseOrderRepository) ExistsByPONumber(ctx context.Context, poNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&purchase.PurchaseOrder{}).
		Where("po_number = ?", poNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GeneratePONumber produces an order number that is unique in the store,
// retrying with a fresh random suffix on collision
func (r *GormPurchaseOrderRepository) GeneratePONumber(ctx context.Context) (string, error) {
	today := time.Now()
	for attempt := 0; attempt < purchase.PONumberMaxAttempts; attempt++ {
		candidate := purchase.NewPONumberCandidate(today)
		exists, err := r.ExistsByPONumber(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", shared.NewDomainError(shared.CodeDuplicateResource, "Could not generate a unique PO number")
}

// Save creates or updates an order together with its items.
// Items removed from the aggregate are deleted in the same transaction.
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *purchase.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrDuplicateResource
			}
			return err
		}

		currentItemIDs := make([]uuid.UUID, len(order.Items))
		for i, item := range order.Items {
			currentItemIDs[i] = item.ID
		}

		if len(currentItemIDs) > 0 {
			if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, currentItemIDs).
				Delete(&purchase.PurchaseOrderItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("order_id = ?", order.ID).
				Delete(&purchase.PurchaseOrderItem{}).Error; err != nil {
				return err
			}
		}

		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			if err := tx.Save(&order.Items[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *purchase.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&purchase.PurchaseOrder{}).
			Where("id = ? AND version = ?", order.ID, order.Version-1).
			Updates(map[string]interface{}{
				"supplier_id":            order.SupplierID,
				"status":                 order.Status,
				"order_date":             order.OrderDate,
				"expected_delivery_date": order.ExpectedDeliveryDate,
				"actual_delivery_date":   order.ActualDeliveryDate,
				"total_amount":           order.TotalAmount,
				"notes":                  order.Notes,
				"created_by":             order.CreatedBy,
				"cancelled_at":           order.CancelledAt,
				"version":                order.Version,
				"updated_at":             order.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		currentItemIDs := make([]uuid.UUID, len(order.Items))
		for i, item := range order.Items {
			currentItemIDs[i] = item.ID
		}

		if len(currentItemIDs) > 0 {
			if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, currentItemIDs).
				Delete(&purchase.PurchaseOrderItem{}).Error; err != nil {
				return err
			}
		}

		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			if err := tx.Save(&order.Items[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete deletes an order and its items in one transaction
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).
			Delete(&purchase.PurchaseOrderItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&purchase.PurchaseOrder{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts orders matching the filter
func (r *GormPurchaseOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&purchase.PurchaseOrder{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormPurchaseOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
func (r *GormPurchaseOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "created_by":
			query = query.Where("created_by = ?", value)
		case "order_date_from":
			query = query.Where("order_date >= ?", value)
		case "order_date_to":
			query = query.Where("order_date <= ?", value)
		}
	}

	return query
}

var _ purchase.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
