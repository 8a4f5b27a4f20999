package purchase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/purchase"
	"github.com/ims/backend/internal/domain/replenishment"
	"github.com/ims/backend/internal/domain/shared"
)

// AutomaticOrderCreatedBy tags orders generated by the replenishment run
const AutomaticOrderCreatedBy = "system:replenishment"

// ReplenishmentService generates DRAFT purchase orders for products whose
// total stock has fallen below their minimum stock level
type ReplenishmentService struct {
	orderRepo      purchase.PurchaseOrderRepository
	productRepo    catalog.ProductRepository
	stockRepo      inventory.StockRecordRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReplenishmentService creates a new ReplenishmentService
func NewReplenishmentService(
	orderRepo purchase.PurchaseOrderRepository,
	productRepo catalog.ProductRepository,
	stockRepo inventory.StockRecordRepository,
	logger *zap.Logger,
) *ReplenishmentService {
	return &ReplenishmentService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		stockRepo:   stockRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReplenishmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GenerateAutomaticOrders computes products below their minimum stock level
// that have a default supplier, groups them by supplier and creates one
// DRAFT order per supplier. It works from a snapshot of the stock state;
// stock received concurrently may make a created order redundant, which the
// policy accepts.
func (s *ReplenishmentService) GenerateAutomaticOrders(ctx context.Context) ([]OrderResponse, error) {
	products, err := s.productRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]*catalog.Product, 0, len(products))
	ids := make([]uuid.UUID, 0, len(products))
	for _, product := range products {
		if product.HasDefaultSupplier() {
			candidates = append(candidates, product)
			ids = append(ids, product.ID)
		}
	}
	if len(candidates) == 0 {
		return []OrderResponse{}, nil
	}

	summaries, err := s.stockRepo.SumQuantityGroupedByProduct(ctx, ids)
	if err != nil {
		return nil, err
	}
	totals := make(map[uuid.UUID]int64, len(summaries))
	for _, summary := range summaries {
		totals[summary.ProductID] = summary.TotalQuantity
	}

	demands := make([]replenishment.ProductDemand, len(candidates))
	for i, product := range candidates {
		demands[i] = replenishment.ProductDemand{
			Product:      product,
			CurrentTotal: totals[product.ID],
		}
	}

	plans := replenishment.Plan(demands)
	responses := make([]OrderResponse, 0, len(plans))

	for _, plan := range plans {
		poNumber, err := s.orderRepo.GeneratePONumber(ctx)
		if err != nil {
			return nil, err
		}

		order, err := purchase.NewPurchaseOrder(poNumber, plan.SupplierID, time.Now(), plan.Lines)
		if err != nil {
			return nil, err
		}
		order.SetCreatedBy(AutomaticOrderCreatedBy)
		order.Notes = "Automatic replenishment order"

		if err := s.orderRepo.Save(ctx, order); err != nil {
			return nil, err
		}

		s.publishEvents(ctx, order)

		s.logger.Info("automatic purchase order created",
			zap.String("po_number", order.PONumber),
			zap.String("supplier_id", plan.SupplierID.String()),
			zap.Int("items", order.ItemCount()),
		)

		responses = append(responses, ToOrderResponse(order))
	}

	return responses, nil
}

func (s *ReplenishmentService) publishEvents(ctx context.Context, order *purchase.PurchaseOrder) {
	if s.eventPublisher == nil {
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
