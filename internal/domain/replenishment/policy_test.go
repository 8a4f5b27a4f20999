package replenishment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/shared/valueobject"
)

func testProduct(t *testing.T, name string, minStock int64, costPrice float64, supplierID uuid.UUID) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("SKU-"+name, name)
	require.NoError(t, err)
	require.NoError(t, product.SetMinStockLevel(minStock))
	require.NoError(t, product.SetPrices(valueobject.ZeroUSD(), valueobject.NewMoneyUSDFromFloat(costPrice)))
	if supplierID != uuid.Nil {
		require.NoError(t, product.SetDefaultSupplier(supplierID))
	}
	return product
}

func TestPlan(t *testing.T) {
	supplierA := uuid.New()
	supplierB := uuid.New()

	t.Run("reorders deficit quantity at cost price", func(t *testing.T) {
		product := testProduct(t, "A", 20, 3.00, supplierA)

		plans := Plan([]ProductDemand{{Product: product, CurrentTotal: 5}})

		require.Len(t, plans, 1)
		assert.Equal(t, supplierA, plans[0].SupplierID)
		require.Len(t, plans[0].Lines, 1)
		line := plans[0].Lines[0]
		assert.Equal(t, product.ID, line.ProductID)
		assert.Equal(t, int64(15), line.Quantity)
		assert.True(t, line.UnitPrice.Amount().Equal(decimal.NewFromFloat(3.00)))
	})

	t.Run("orders at least one unit", func(t *testing.T) {
		product := testProduct(t, "B", 10, 1.00, supplierA)

		plans := Plan([]ProductDemand{{Product: product, CurrentTotal: 9}})

		require.Len(t, plans, 1)
		assert.Equal(t, int64(1), plans[0].Lines[0].Quantity)
	})

	t.Run("groups products by supplier", func(t *testing.T) {
		p1 := testProduct(t, "A", 20, 3.00, supplierA)
		p2 := testProduct(t, "B", 10, 2.00, supplierB)
		p3 := testProduct(t, "C", 30, 1.00, supplierA)

		plans := Plan([]ProductDemand{
			{Product: p1, CurrentTotal: 5},
			{Product: p2, CurrentTotal: 0},
			{Product: p3, CurrentTotal: 10},
		})

		require.Len(t, plans, 2)
		assert.Equal(t, supplierA, plans[0].SupplierID)
		assert.Len(t, plans[0].Lines, 2)
		assert.Equal(t, supplierB, plans[1].SupplierID)
		assert.Len(t, plans[1].Lines, 1)
	})

	t.Run("skips products at or above minimum", func(t *testing.T) {
		product := testProduct(t, "A", 20, 3.00, supplierA)

		plans := Plan([]ProductDemand{{Product: product, CurrentTotal: 20}})

		assert.Empty(t, plans)
	})

	t.Run("skips products without default supplier", func(t *testing.T) {
		product := testProduct(t, "A", 20, 3.00, uuid.Nil)

		plans := Plan([]ProductDemand{{Product: product, CurrentTotal: 0}})

		assert.Empty(t, plans)
	})

	t.Run("skips inactive products", func(t *testing.T) {
		product := testProduct(t, "A", 20, 3.00, supplierA)
		product.Deactivate()

		plans := Plan([]ProductDemand{{Product: product, CurrentTotal: 0}})

		assert.Empty(t, plans)
	})
}
