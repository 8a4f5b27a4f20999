package replenishment

import (
	"github.com/google/uuid"

	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/purchase"
)

// ProductDemand pairs a product with its current total stock across all
// warehouses and batches
type ProductDemand struct {
	Product      *catalog.Product
	CurrentTotal int64
}

// SupplierPlan is the set of order lines to place with one supplier
type SupplierPlan struct {
	SupplierID uuid.UUID
	Lines      []purchase.OrderLine
}

// Plan computes the reorder plan for the given demands. A product qualifies
// when it is active, has a default supplier and its current total is strictly
// below its minimum stock level. Qualifying products are grouped by supplier,
// one plan per supplier, with reorder quantity max(1, minStockLevel-current)
// priced at the product's cost price. Suppliers keep the order in which they
// first appear in the input.
func Plan(demands []ProductDemand) []SupplierPlan {
	plans := make([]SupplierPlan, 0)
	index := make(map[uuid.UUID]int)

	for _, demand := range demands {
		product := demand.Product
		if product == nil || !product.Active || !product.HasDefaultSupplier() {
			continue
		}
		if demand.CurrentTotal >= product.MinStockLevel {
			continue
		}

		quantity := product.MinStockLevel - demand.CurrentTotal
		if quantity < 1 {
			quantity = 1
		}

		line := purchase.OrderLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    quantity,
			UnitPrice:   product.GetCostPriceMoney(),
		}

		supplierID := *product.DefaultSupplierID
		if pos, ok := index[supplierID]; ok {
			plans[pos].Lines = append(plans[pos].Lines, line)
		} else {
			index[supplierID] = len(plans)
			plans = append(plans, SupplierPlan{
				SupplierID: supplierID,
				Lines:      []purchase.OrderLine{line},
			})
		}
	}

	return plans
}
