package partner

import (
	"strings"
	"time"

	"github.com/ims/backend/internal/domain/shared"
)

// WarehouseStatus represents the status of a warehouse
type WarehouseStatus string

const (
	WarehouseStatusActive   WarehouseStatus = "active"
	WarehouseStatusInactive WarehouseStatus = "inactive"
)

// Warehouse represents a physical stock location
type Warehouse struct {
	shared.BaseAggregateRoot
	Code      string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Status    WarehouseStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Address   string          `gorm:"type:text"`
	IsDefault bool            `gorm:"not null;default:false"` // Receiving target for automatic orders
	Notes     string          `gorm:"type:text"`
	SortOrder int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new warehouse with required fields
func NewWarehouse(code, name string) (*Warehouse, error) {
	if err := validateWarehouseCode(code); err != nil {
		return nil, err
	}
	if err := validateWarehouseName(name); err != nil {
		return nil, err
	}

	return &Warehouse{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            WarehouseStatusActive,
	}, nil
}

// Update updates the warehouse's basic information
func (w *Warehouse) Update(name, address string) error {
	if err := validateWarehouseName(name); err != nil {
		return err
	}

	w.Name = name
	w.Address = address
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// SetDefault marks this warehouse as the default receiving location
func (w *Warehouse) SetDefault(isDefault bool) {
	w.IsDefault = isDefault
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// Activate marks the warehouse as active
func (w *Warehouse) Activate() {
	w.Status = WarehouseStatusActive
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// Deactivate marks the warehouse as inactive
func (w *Warehouse) Deactivate() {
	w.Status = WarehouseStatusInactive
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// IsActive returns true if the warehouse can hold stock movements
func (w *Warehouse) IsActive() bool {
	return w.Status == WarehouseStatusActive
}

func validateWarehouseCode(code string) error {
	if code == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Warehouse code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Warehouse code cannot exceed 50 characters")
	}
	return nil
}

func validateWarehouseName(name string) error {
	if name == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Warehouse name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Warehouse name cannot exceed 200 characters")
	}
	return nil
}
