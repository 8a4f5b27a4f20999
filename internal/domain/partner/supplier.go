package partner

import (
	"strings"
	"time"

	"github.com/ims/backend/internal/domain/shared"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
)

// Supplier represents a goods supplier. Its lead time drives the expected
// delivery date of purchase orders sent to it.
type Supplier struct {
	shared.BaseAggregateRoot
	Code           string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name           string         `gorm:"type:varchar(200);not null"`
	Status         SupplierStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName    string         `gorm:"type:varchar(100)"`
	Phone          string         `gorm:"type:varchar(50)"`
	Email          string         `gorm:"type:varchar(200);index"`
	Address        string         `gorm:"type:text"`
	LeadTimeInDays int            `gorm:"not null;default:0"` // Days from SENT to expected delivery
	Notes          string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier with required fields
func NewSupplier(code, name string) (*Supplier, error) {
	if err := validateSupplierCode(code); err != nil {
		return nil, err
	}
	if err := validateSupplierName(name); err != nil {
		return nil, err
	}

	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            SupplierStatusActive,
	}, nil
}

// Update updates the supplier's basic information
func (s *Supplier) Update(name, contactName, phone, email, address string) error {
	if err := validateSupplierName(name); err != nil {
		return err
	}

	s.Name = name
	s.ContactName = contactName
	s.Phone = phone
	s.Email = email
	s.Address = address
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// SetLeadTime sets the delivery lead time in days
func (s *Supplier) SetLeadTime(days int) error {
	if days < 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Lead time cannot be negative")
	}

	s.LeadTimeInDays = days
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Activate marks the supplier as active
func (s *Supplier) Activate() {
	s.Status = SupplierStatusActive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Deactivate marks the supplier as inactive
func (s *Supplier) Deactivate() {
	s.Status = SupplierStatusInactive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// IsActive returns true if the supplier can receive new purchase orders
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierStatusActive
}

func validateSupplierCode(code string) error {
	if code == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Supplier code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Supplier code cannot exceed 50 characters")
	}
	return nil
}

func validateSupplierName(name string) error {
	if name == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Supplier name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Supplier name cannot exceed 200 characters")
	}
	return nil
}
