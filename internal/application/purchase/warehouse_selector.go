package purchase

import (
	"context"

	"github.com/ims/backend/internal/domain/partner"
	"github.com/ims/backend/internal/domain/shared"
)

// WarehouseSelector chooses the warehouse that incoming goods are booked
// into. Deployments plug in their own policy; the default takes the
// configured default warehouse or, failing that, the first active one.
type WarehouseSelector interface {
	SelectReceivingWarehouse(ctx context.Context) (*partner.Warehouse, error)
}

// DefaultWarehouseSelector selects the default warehouse, falling back to
// the first active warehouse
type DefaultWarehouseSelector struct {
	warehouseRepo partner.WarehouseRepository
}

// NewDefaultWarehouseSelector creates a DefaultWarehouseSelector
func NewDefaultWarehouseSelector(warehouseRepo partner.WarehouseRepository) *DefaultWarehouseSelector {
	return &DefaultWarehouseSelector{warehouseRepo: warehouseRepo}
}

// SelectReceivingWarehouse implements WarehouseSelector
func (s *DefaultWarehouseSelector) SelectReceivingWarehouse(ctx context.Context) (*partner.Warehouse, error) {
	warehouse, err := s.warehouseRepo.FindDefault(ctx)
	if err == nil {
		return warehouse, nil
	}
	if !shared.IsNotFound(err) {
		return nil, err
	}

	active, err := s.warehouseRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, shared.NewDomainError(shared.CodeNotFound, "No active warehouse available for receiving")
	}
	return active[0], nil
}

var _ WarehouseSelector = (*DefaultWarehouseSelector)(nil)
