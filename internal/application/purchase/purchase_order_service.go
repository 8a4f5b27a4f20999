package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/partner"
	"github.com/ims/backend/internal/domain/purchase"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/domain/shared/valueobject"
)

// PurchaseOrderService handles purchase order lifecycle operations
type PurchaseOrderService struct {
	orderRepo         purchase.PurchaseOrderRepository
	productRepo       catalog.ProductRepository
	supplierRepo      partner.SupplierRepository
	warehouseSelector WarehouseSelector
	txScope           TransactionScope
	eventPublisher    shared.EventPublisher
	logger            *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo purchase.PurchaseOrderRepository,
	productRepo catalog.ProductRepository,
	supplierRepo partner.SupplierRepository,
	warehouseSelector WarehouseSelector,
	txScope TransactionScope,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:         orderRepo,
		productRepo:       productRepo,
		supplierRepo:      supplierRepo,
		warehouseSelector: warehouseSelector,
		txScope:           txScope,
		logger:            logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new purchase order in DRAFT status
func (s *PurchaseOrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive() {
		return nil, shared.NewDomainError(shared.CodeIllegalState,
			fmt.Sprintf("Supplier %s is not active", supplier.Code))
	}

	lines, err := s.resolveOrderLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	poNumber, err := s.orderRepo.GeneratePONumber(ctx)
	if err != nil {
		return nil, err
	}

	orderDate := time.Now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	order, err := purchase.NewPurchaseOrder(poNumber, req.SupplierID, orderDate, lines)
	if err != nil {
		return nil, err
	}
	order.ExpectedDeliveryDate = req.ExpectedDeliveryDate
	order.Notes = req.Notes
	if req.CreatedBy != "" {
		order.SetCreatedBy(req.CreatedBy)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	s.logger.Info("purchase order created",
		zap.String("po_number", order.PONumber),
		zap.String("supplier_id", order.SupplierID.String()),
		zap.Int("items", order.ItemCount()),
		zap.String("total_amount", order.TotalAmount.String()),
	)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// GetByPONumber retrieves a purchase order by order number
func (s *PurchaseOrderService) GetByPONumber(ctx context.Context, poNumber string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByPONumber(ctx, poNumber)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders matching the filter
func (s *PurchaseOrderService) List(ctx context.Context, filter shared.Filter) ([]OrderResponse, int64, error) {
	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

// ListBySupplier retrieves orders for a supplier
func (s *PurchaseOrderService) ListBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindBySupplier(ctx, supplierID, filter)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// ListByStatus retrieves orders in a given status
func (s *PurchaseOrderService) ListByStatus(ctx context.Context, status string, filter shared.Filter) ([]OrderResponse, error) {
	parsed := purchase.PurchaseOrderStatus(status)
	if !parsed.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Unknown order status %q", status))
	}
	orders, err := s.orderRepo.FindByStatus(ctx, parsed, filter)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// ListByDateRange retrieves orders whose order date falls in [from, to]
func (s *PurchaseOrderService) ListByDateRange(ctx context.Context, from, to time.Time, filter shared.Filter) ([]OrderResponse, error) {
	if to.Before(from) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Date range end precedes start")
	}
	orders, err := s.orderRepo.FindByOrderDateRange(ctx, from, to, filter)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// ListOverdue retrieves open orders whose expected delivery date has passed
func (s *PurchaseOrderService) ListOverdue(ctx context.Context) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindOverdue(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// Update updates a DRAFT order. A non-nil item list replaces the entire
// item set.
func (s *PurchaseOrderService) Update(ctx context.Context, orderID uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	supplierID := uuid.Nil
	if req.SupplierID != nil {
		supplier, err := s.supplierRepo.FindByID(ctx, *req.SupplierID)
		if err != nil {
			return nil, err
		}
		supplierID = supplier.ID
	}

	var lines []purchase.OrderLine
	if req.Items != nil {
		lines, err = s.resolveOrderLines(ctx, req.Items)
		if err != nil {
			return nil, err
		}
	}

	if err := order.UpdateDraft(supplierID, req.ExpectedDeliveryDate, req.Notes, lines); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// ChangeStatus transitions an order through its lifecycle. The transition is
// validated against the state machine; moving into SENT derives the expected
// delivery date from the supplier lead time when not already set.
func (s *PurchaseOrderService) ChangeStatus(ctx context.Context, orderID uuid.UUID, req ChangeStatusRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	leadTimeDays := 0
	target := purchase.PurchaseOrderStatus(req.Status)
	if target == purchase.StatusSent {
		supplier, err := s.supplierRepo.FindByID(ctx, order.SupplierID)
		if err != nil {
			return nil, err
		}
		leadTimeDays = supplier.LeadTimeInDays
	}

	if err := order.ChangeStatus(target, leadTimeDays); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	s.logger.Info("purchase order status changed",
		zap.String("po_number", order.PONumber),
		zap.String("status", string(order.Status)),
	)

	response := ToOrderResponse(order)
	return &response, nil
}

// ReceiveItems books a delivery against an order and credits the stock
// ledger, all within one transaction. A single invalid line rejects the
// whole receipt.
func (s *PurchaseOrderService) ReceiveItems(ctx context.Context, orderID uuid.UUID, req ReceiveItemsRequest) (*OrderResponse, error) {
	warehouse, err := s.warehouseSelector.SelectReceivingWarehouse(ctx)
	if err != nil {
		return nil, err
	}

	lines := make([]purchase.ReceiveLine, len(req.Lines))
	for i, line := range req.Lines {
		lines[i] = purchase.ReceiveLine{
			ItemID:      line.ItemID,
			Quantity:    line.Quantity,
			BatchNumber: line.BatchNumber,
			ExpiryDate:  line.ExpiryDate,
		}
	}

	var order *purchase.PurchaseOrder
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		received, err := found.Receive(lines)
		if err != nil {
			return err
		}

		for _, line := range received {
			if err := s.creditStock(ctx, repos.StockRecords(), warehouse.ID, line); err != nil {
				return err
			}
		}

		order = found
		return repos.Orders().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	s.logger.Info("purchase order receipt booked",
		zap.String("po_number", order.PONumber),
		zap.String("status", string(order.Status)),
		zap.String("warehouse_id", warehouse.ID.String()),
		zap.Int("lines", len(req.Lines)),
	)

	response := ToOrderResponse(order)
	return &response, nil
}

// Delete deletes an order together with its items. Only DRAFT orders may be
// deleted.
func (s *PurchaseOrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !order.CanDelete() {
		return shared.NewDomainError(shared.CodeIllegalState,
			fmt.Sprintf("Cannot delete order in %s status", order.Status))
	}

	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return err
	}

	s.logger.Info("purchase order deleted", zap.String("po_number", order.PONumber))

	return nil
}

// creditStock merges a received line into the stock ledger at the receiving
// warehouse
func (s *PurchaseOrderService) creditStock(
	ctx context.Context,
	stockRepo inventory.StockRecordRepository,
	warehouseID uuid.UUID,
	line purchase.ReceivedLineInfo,
) error {
	existing, err := stockRepo.FindByKeyForUpdate(ctx, line.ProductID, warehouseID, line.BatchNumber)
	if err != nil && !shared.IsNotFound(err) {
		return err
	}

	if existing != nil {
		if err := existing.AddQuantity(line.Quantity, line.ExpiryDate, ""); err != nil {
			return err
		}
		return stockRepo.Save(ctx, existing)
	}

	record, err := inventory.NewStockRecord(line.ProductID, warehouseID, line.BatchNumber, line.Quantity)
	if err != nil {
		return err
	}
	record.SetExpiryDate(line.ExpiryDate)
	return stockRepo.Save(ctx, record)
}

func (s *PurchaseOrderService) resolveOrderLines(ctx context.Context, items []OrderItemInput) ([]purchase.OrderLine, error) {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	lines := make([]purchase.OrderLine, len(items))
	for i, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, shared.NewDomainError(shared.CodeNotFound,
				fmt.Sprintf("Product %s not found", item.ProductID))
		}
		lines[i] = purchase.OrderLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   valueobject.NewMoneyUSD(item.UnitPrice),
		}
	}
	return lines, nil
}

func (s *PurchaseOrderService) publishEvents(ctx context.Context, order *purchase.PurchaseOrder) {
	if s.eventPublisher == nil || order == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish order events", zap.Error(err))
	}
	order.ClearDomainEvents()
}
