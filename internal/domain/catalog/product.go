package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/domain/shared/valueobject"
)

// Product represents a product/SKU in the catalog.
// The stock ledger and the purchase order engine treat it as read-only
// reference data: minimum stock level, cost price and default supplier drive
// low-stock detection and automatic reordering.
type Product struct {
	shared.BaseAggregateRoot
	SKU               string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name              string          `gorm:"type:varchar(200);not null"`
	Description       string          `gorm:"type:text"`
	CategoryID        *uuid.UUID      `gorm:"type:uuid;index"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Selling price
	CostPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Purchase cost
	MinStockLevel     int64           `gorm:"not null;default:0"`
	DefaultSupplierID *uuid.UUID      `gorm:"type:uuid;index"`
	Active            bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(sku, name string) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               strings.ToUpper(sku),
		Name:              name,
		UnitPrice:         decimal.Zero,
		CostPrice:         decimal.Zero,
		Active:            true,
	}, nil
}

// SetPrices sets the selling and cost prices
func (p *Product) SetPrices(unitPrice, costPrice valueobject.Money) error {
	if unitPrice.IsNegative() || costPrice.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Prices cannot be negative")
	}

	p.UnitPrice = unitPrice.Amount()
	p.CostPrice = costPrice.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetMinStockLevel sets the minimum stock level used for low-stock detection
func (p *Product) SetMinStockLevel(level int64) error {
	if level < 0 {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "Minimum stock level cannot be negative")
	}

	p.MinStockLevel = level
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetDefaultSupplier sets the supplier used for automatic reordering
func (p *Product) SetDefaultSupplier(supplierID uuid.UUID) error {
	if supplierID == uuid.Nil {
		return shared.NewDomainError(shared.CodeInvalidInput, "Supplier ID cannot be empty")
	}

	p.DefaultSupplierID = &supplierID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// ClearDefaultSupplier removes the default supplier; the product is then
// skipped by automatic order generation.
func (p *Product) ClearDefaultSupplier() {
	p.DefaultSupplierID = nil
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate marks the product as active
func (p *Product) Activate() {
	p.Active = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate marks the product as inactive
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// HasDefaultSupplier returns true if a default supplier is configured
func (p *Product) HasDefaultSupplier() bool {
	return p.DefaultSupplierID != nil && *p.DefaultSupplierID != uuid.Nil
}

// GetCostPriceMoney returns the cost price as Money
func (p *Product) GetCostPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.CostPrice)
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Product SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Product SKU cannot exceed 50 characters")
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Product name cannot exceed 200 characters")
	}
	return nil
}
