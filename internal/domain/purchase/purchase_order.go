package purchase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/domain/shared/valueobject"
)

// PurchaseOrderStatus represents the lifecycle status of a purchase order
type PurchaseOrderStatus string

const (
	StatusDraft           PurchaseOrderStatus = "DRAFT"
	StatusSubmitted       PurchaseOrderStatus = "SUBMITTED"
	StatusApproved        PurchaseOrderStatus = "APPROVED"
	StatusSent            PurchaseOrderStatus = "SENT"
	StatusPartialReceived PurchaseOrderStatus = "PARTIAL_RECEIVED"
	StatusReceived        PurchaseOrderStatus = "RECEIVED"
	StatusCancelled       PurchaseOrderStatus = "CANCELLED"
)

// IsValid returns true if the status is a known value
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusSent,
		StatusPartialReceived, StatusReceived, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo validates a status transition
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case StatusDraft:
		return target == StatusSubmitted || target == StatusCancelled
	case StatusSubmitted:
		return target == StatusApproved || target == StatusCancelled
	case StatusApproved:
		return target == StatusSent || target == StatusCancelled
	case StatusSent:
		return target == StatusPartialReceived || target == StatusReceived || target == StatusCancelled
	case StatusPartialReceived:
		return target == StatusReceived || target == StatusCancelled
	case StatusReceived, StatusCancelled:
		return false // Terminal states
	}
	return false
}

// CanReceive returns true if receiving goods is allowed in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == StatusSent || s == StatusPartialReceived
}

// IsTerminal returns true for states with no outgoing transitions
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == StatusReceived || s == StatusCancelled
}

// PurchaseOrderItem represents a line item in a purchase order
type PurchaseOrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	Quantity         int64           `gorm:"not null"`
	ReceivedQuantity int64           `gorm:"not null;default:0"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Quantity * UnitPrice
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// NewPurchaseOrderItem creates a new purchase order item
func NewPurchaseOrderItem(orderID, productID uuid.UUID, productName string, quantity int64, unitPrice valueobject.Money) (*PurchaseOrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidQuantity, "Item quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unit price cannot be negative")
	}

	now := time.Now()
	return &PurchaseOrderItem{
		ID:               uuid.New(),
		OrderID:          orderID,
		ProductID:        productID,
		ProductName:      productName,
		Quantity:         quantity,
		ReceivedQuantity: 0,
		UnitPrice:        unitPrice.Amount(),
		TotalPrice:       unitPrice.Amount().Mul(decimal.NewFromInt(quantity)),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// RemainingQuantity returns the quantity still to be received
func (i *PurchaseOrderItem) RemainingQuantity() int64 {
	return i.Quantity - i.ReceivedQuantity
}

// IsFullyReceived returns true if the full ordered quantity has arrived
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity >= i.Quantity
}

// AddReceivedQuantity records a delivery against the item. The cumulative
// received quantity can never exceed the ordered quantity.
func (i *PurchaseOrderItem) AddReceivedQuantity(quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "Received quantity must be positive")
	}
	if i.ReceivedQuantity+quantity > i.Quantity {
		return shared.NewDomainError(shared.CodeOverReceipt,
			fmt.Sprintf("Received quantity %d exceeds remaining quantity %d", quantity, i.RemainingQuantity()))
	}

	i.ReceivedQuantity += quantity
	i.UpdatedAt = time.Now()

	return nil
}

// GetUnitPriceMoney returns the unit price as Money
func (i *PurchaseOrderItem) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.UnitPrice)
}

// ReceiveLine describes one delivered line in a receipt
type ReceiveLine struct {
	ItemID      uuid.UUID  `json:"item_id"`
	Quantity    int64      `json:"quantity"`
	BatchNumber string     `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
}

// ReceivedLineInfo describes one accepted line of a receipt, resolved against
// the order item it was booked on. The caller uses it to credit the stock
// ledger.
type ReceivedLineInfo struct {
	ItemID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int64
	BatchNumber string
	ExpiryDate  *time.Time
}

// OrderLine describes one requested line when creating or updating an order
type OrderLine struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int64
	UnitPrice   valueobject.Money
}

// PurchaseOrder represents a purchase order aggregate root.
// It manages the lifecycle of a supplier order from draft to receipt.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	PONumber             string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID           uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status               PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	OrderDate            time.Time           `gorm:"type:date;not null"`
	ExpectedDeliveryDate *time.Time          `gorm:"type:date;index"`
	ActualDeliveryDate   *time.Time          `gorm:"type:date"`
	Items                []PurchaseOrderItem `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount          decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"` // Sum of item totals
	Notes                string              `gorm:"type:text"`
	CreatedBy            string              `gorm:"type:varchar(100)"`
	CancelledAt          *time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in DRAFT status
func NewPurchaseOrder(poNumber string, supplierID uuid.UUID, orderDate time.Time, lines []OrderLine) (*PurchaseOrder, error) {
	if poNumber == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Order number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Supplier ID cannot be empty")
	}
	if orderDate.IsZero() {
		orderDate = time.Now()
	}

	order := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PONumber:          poNumber,
		SupplierID:        supplierID,
		Status:            StatusDraft,
		OrderDate:         orderDate,
		Items:             make([]PurchaseOrderItem, 0, len(lines)),
		TotalAmount:       decimal.Zero,
	}

	if err := order.replaceItems(lines); err != nil {
		return nil, err
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// UpdateDraft updates the mutable fields of a DRAFT order. A non-nil lines
// slice replaces the entire item set; old items are discarded.
func (o *PurchaseOrder) UpdateDraft(supplierID uuid.UUID, expectedDeliveryDate *time.Time, notes string, lines []OrderLine) error {
	if o.Status != StatusDraft {
		return shared.NewDomainError(shared.CodeIllegalState,
			fmt.Sprintf("Cannot update order in %s status", o.Status))
	}

	if supplierID != uuid.Nil {
		o.SupplierID = supplierID
	}
	if expectedDeliveryDate != nil {
		o.ExpectedDeliveryDate = expectedDeliveryDate
	}
	if notes != "" {
		o.Notes = notes
	}
	if lines != nil {
		if err := o.replaceItems(lines); err != nil {
			return err
		}
	}

	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetCreatedBy records the acting user reference
func (o *PurchaseOrder) SetCreatedBy(createdBy string) {
	o.CreatedBy = createdBy
}

// ChangeStatus transitions the order to the target status.
// Transitioning into SENT sets the expected delivery date from the supplier
// lead time only when it is not already set.
func (o *PurchaseOrder) ChangeStatus(target PurchaseOrderStatus, supplierLeadTimeDays int) error {
	if !target.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("Unknown order status %q", string(target)))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidStateTransition,
			fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}

	from := o.Status
	now := time.Now()

	if target == StatusSent && o.ExpectedDeliveryDate == nil {
		expected := now.AddDate(0, 0, supplierLeadTimeDays)
		o.ExpectedDeliveryDate = &expected
	}
	if target == StatusCancelled {
		o.CancelledAt = &now
	}

	o.Status = target
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderStatusChangedEvent(o, from, target))

	return nil
}

// Receive books a delivery against the order. All lines are validated before
// any is applied; a single bad line rejects the whole receipt. On success the
// order moves to RECEIVED (all items complete, actual delivery date set) or
// PARTIAL_RECEIVED.
func (o *PurchaseOrder) Receive(lines []ReceiveLine) ([]ReceivedLineInfo, error) {
	if !o.Status.CanReceive() {
		return nil, shared.NewDomainError(shared.CodeIllegalState,
			fmt.Sprintf("Cannot receive goods for order in %s status", o.Status))
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Receive lines cannot be empty")
	}

	// Validate every line against the current state before mutating anything
	pending := make(map[uuid.UUID]int64, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, shared.NewDomainError(shared.CodeInvalidQuantity,
				fmt.Sprintf("Receive quantity for item %s must be positive", line.ItemID))
		}
		item := o.GetItem(line.ItemID)
		if item == nil {
			return nil, shared.NewDomainError(shared.CodeNotFound,
				fmt.Sprintf("Item %s not found in order", line.ItemID))
		}
		pending[line.ItemID] += line.Quantity
		if item.ReceivedQuantity+pending[line.ItemID] > item.Quantity {
			return nil, shared.NewDomainError(shared.CodeOverReceipt,
				fmt.Sprintf("Received quantity for item %s would exceed ordered quantity %d", line.ItemID, item.Quantity))
		}
	}

	received := make([]ReceivedLineInfo, 0, len(lines))
	for _, line := range lines {
		for idx := range o.Items {
			if o.Items[idx].ID != line.ItemID {
				continue
			}
			if err := o.Items[idx].AddReceivedQuantity(line.Quantity); err != nil {
				return nil, err
			}
			received = append(received, ReceivedLineInfo{
				ItemID:      o.Items[idx].ID,
				ProductID:   o.Items[idx].ProductID,
				ProductName: o.Items[idx].ProductName,
				Quantity:    line.Quantity,
				BatchNumber: line.BatchNumber,
				ExpiryDate:  line.ExpiryDate,
			})
			break
		}
	}

	now := time.Now()
	if o.isAllItemsReceived() {
		o.Status = StatusReceived
		o.ActualDeliveryDate = &now
	} else {
		o.Status = StatusPartialReceived
	}

	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o, received))

	return received, nil
}

// CanDelete returns true if the order may be deleted
func (o *PurchaseOrder) CanDelete() bool {
	return o.Status == StatusDraft
}

// IsOverdue returns true when the expected delivery date has passed and the
// order is still open
func (o *PurchaseOrder) IsOverdue(now time.Time) bool {
	if o.ExpectedDeliveryDate == nil || o.Status.IsTerminal() {
		return false
	}
	return o.ExpectedDeliveryDate.Before(now)
}

// GetItem returns the item with the given ID, or nil
func (o *PurchaseOrder) GetItem(itemID uuid.UUID) *PurchaseOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// GetTotalAmountMoney returns the order total as Money
func (o *PurchaseOrder) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.TotalAmount)
}

// ItemCount returns the number of line items
func (o *PurchaseOrder) ItemCount() int {
	return len(o.Items)
}

func (o *PurchaseOrder) replaceItems(lines []OrderLine) error {
	if len(lines) == 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Order must have at least one item")
	}

	items := make([]PurchaseOrderItem, 0, len(lines))
	for _, line := range lines {
		item, err := NewPurchaseOrderItem(o.ID, line.ProductID, line.ProductName, line.Quantity, line.UnitPrice)
		if err != nil {
			return err
		}
		items = append(items, *item)
	}

	o.Items = items
	o.recalculateTotal()

	return nil
}

func (o *PurchaseOrder) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice)
	}
	o.TotalAmount = total
}

func (o *PurchaseOrder) isAllItemsReceived() bool {
	for _, item := range o.Items {
		if !item.IsFullyReceived() {
			return false
		}
	}
	return len(o.Items) > 0
}
