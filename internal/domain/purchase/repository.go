package purchase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ims/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds an order with its items by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByPONumber finds an order with its items by order number
	FindByPONumber(ctx context.Context, poNumber string) (*PurchaseOrder, error)

	// FindBySupplier finds orders for a supplier
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindByStatus finds orders in a given status
	FindByStatus(ctx context.Context, status PurchaseOrderStatus, filter shared.Filter) ([]PurchaseOrder, error)

	// FindByOrderDateRange finds orders whose order date falls in [from, to]
	FindByOrderDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]PurchaseOrder, error)

	// FindOverdue finds open orders whose expected delivery date has passed.
	// Orders in a terminal status are excluded.
	FindOverdue(ctx context.Context, asOf time.Time) ([]PurchaseOrder, error)

	// FindAll finds orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)

	// ExistsByPONumber checks whether an order number is already taken
	ExistsByPONumber(ctx context.Context, poNumber string) (bool, error)

	// GeneratePONumber produces an order number that is unique in the store,
	// retrying on collision
	GeneratePONumber(ctx context.Context) (string, error)

	// Save creates or updates an order together with its items. Replaced
	// items are removed in the same transaction.
	Save(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error

	// Delete deletes an order and its items in one transaction
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
