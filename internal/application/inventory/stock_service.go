package inventory

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/partner"
	"github.com/ims/backend/internal/domain/shared"
)

// StockService handles stock ledger operations
type StockService struct {
	stockRepo      inventory.StockRecordRepository
	productRepo    catalog.ProductRepository
	warehouseRepo  partner.WarehouseRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(
	stockRepo inventory.StockRecordRepository,
	productRepo catalog.ProductRepository,
	warehouseRepo partner.WarehouseRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		stockRepo:     stockRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		txScope:       txScope,
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// AddStock adds stock for a product batch at a warehouse. When a record for
// the (product, warehouse, batch) combination exists the quantity is merged
// into it; otherwise a new record is created.
func (s *StockService) AddStock(ctx context.Context, req AddStockRequest) (*StockRecordResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}
	if _, err := s.warehouseRepo.FindByID(ctx, req.WarehouseID); err != nil {
		return nil, err
	}

	var record *inventory.StockRecord
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.StockRecords().FindByKeyForUpdate(ctx, req.ProductID, req.WarehouseID, req.BatchNumber)
		if err != nil && !shared.IsNotFound(err) {
			return err
		}

		if existing != nil {
			if err := existing.AddQuantity(req.Quantity, req.ExpiryDate, req.Location); err != nil {
				return err
			}
			record = existing
		} else {
			created, err := inventory.NewStockRecord(req.ProductID, req.WarehouseID, req.BatchNumber, req.Quantity)
			if err != nil {
				return err
			}
			created.SetExpiryDate(req.ExpiryDate)
			if req.Location != "" {
				created.SetLocation(req.Location)
			}
			record = created
		}

		return repos.StockRecords().Save(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, record)

	s.logger.Info("stock added",
		zap.String("product_id", req.ProductID.String()),
		zap.String("warehouse_id", req.WarehouseID.String()),
		zap.String("batch_number", req.BatchNumber),
		zap.Int64("quantity", req.Quantity),
		zap.Int64("new_quantity", record.Quantity),
	)

	response := ToStockRecordResponse(record)
	return &response, nil
}

// AdjustStock applies a signed delta to a record's quantity. The reason is
// logged for audit purposes but not interpreted.
func (s *StockService) AdjustStock(ctx context.Context, recordID uuid.UUID, req AdjustStockRequest) error {
	var record *inventory.StockRecord
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.StockRecords().FindByIDForUpdate(ctx, recordID)
		if err != nil {
			return err
		}
		if err := found.Adjust(req.Delta); err != nil {
			return err
		}
		record = found
		return repos.StockRecords().Save(ctx, record)
	})
	if err != nil {
		return err
	}

	s.publishEvents(ctx, record)

	s.logger.Info("stock adjusted",
		zap.String("record_id", recordID.String()),
		zap.Int64("delta", req.Delta),
		zap.Int64("new_quantity", record.Quantity),
		zap.String("reason", req.Reason),
	)

	return nil
}

// TransferStock atomically moves quantity from a source record to the
// matching batch record at the destination warehouse, creating it if absent.
// Both rows are locked in a consistent order so that two opposing transfers
// cannot deadlock.
func (s *StockService) TransferStock(ctx context.Context, sourceRecordID uuid.UUID, req TransferStockRequest) error {
	if _, err := s.warehouseRepo.FindByID(ctx, req.DestinationWarehouseID); err != nil {
		return err
	}

	var source *inventory.StockRecord
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		peek, err := repos.StockRecords().FindByID(ctx, sourceRecordID)
		if err != nil {
			return err
		}
		if peek.WarehouseID == req.DestinationWarehouseID {
			return shared.NewDomainError(shared.CodeInvalidInput, "Source and destination warehouse are the same")
		}

		dest, err := repos.StockRecords().FindByKey(ctx, peek.ProductID, req.DestinationWarehouseID, peek.BatchNumber)
		if err != nil && !shared.IsNotFound(err) {
			return err
		}

		// Lock both rows in UUID order
		source, dest, err = s.lockTransferPair(ctx, repos, sourceRecordID, dest)
		if err != nil {
			return err
		}

		if err := source.Remove(req.Quantity); err != nil {
			return err
		}

		if dest != nil {
			if err := dest.AddQuantity(req.Quantity, nil, ""); err != nil {
				return err
			}
		} else {
			dest, err = inventory.NewStockRecord(source.ProductID, req.DestinationWarehouseID, source.BatchNumber, req.Quantity)
			if err != nil {
				return err
			}
			dest.SetExpiryDate(source.ExpiryDate)
		}

		source.AddDomainEvent(inventory.NewStockTransferredEvent(source, req.DestinationWarehouseID, req.Quantity))

		if err := repos.StockRecords().Save(ctx, source); err != nil {
			return err
		}
		return repos.StockRecords().Save(ctx, dest)
	})
	if err != nil {
		return err
	}

	s.publishEvents(ctx, source)

	s.logger.Info("stock transferred",
		zap.String("source_record_id", sourceRecordID.String()),
		zap.String("destination_warehouse_id", req.DestinationWarehouseID.String()),
		zap.Int64("quantity", req.Quantity),
	)

	return nil
}

// TotalQuantity returns a product's total stock across all warehouses and
// batches. Unknown products report zero.
func (s *StockService) TotalQuantity(ctx context.Context, productID uuid.UUID) (*TotalQuantityResponse, error) {
	total, err := s.stockRepo.SumQuantityByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &TotalQuantityResponse{ProductID: productID, TotalQuantity: total}, nil
}

// GetRecord returns a single stock record by ID
func (s *StockService) GetRecord(ctx context.Context, recordID uuid.UUID) (*StockRecordResponse, error) {
	record, err := s.stockRepo.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	response := ToStockRecordResponse(record)
	return &response, nil
}

// ListRecords returns stock records matching the filter
func (s *StockService) ListRecords(ctx context.Context, filter shared.Filter) ([]StockRecordResponse, int64, error) {
	records, err := s.stockRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.stockRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToStockRecordResponses(records), total, nil
}

// LowStockRecords returns every record whose owning product's total quantity
// is below the product's minimum stock level. A deficient product with
// several batches contributes one entry per batch.
func (s *StockService) LowStockRecords(ctx context.Context) ([]StockRecordResponse, error) {
	records, err := s.stockRepo.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return ToStockRecordResponses(records), nil
}

// ExpiringRecords returns records with stock whose batch expires within the
// given number of days from today
func (s *StockService) ExpiringRecords(ctx context.Context, daysAhead int) ([]StockRecordResponse, error) {
	if daysAhead < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Days ahead cannot be negative")
	}
	cutoff := time.Now().AddDate(0, 0, daysAhead)
	records, err := s.stockRepo.FindExpiringBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	return ToStockRecordResponses(records), nil
}

func (s *StockService) lockTransferPair(
	ctx context.Context,
	repos TransactionalRepositories,
	sourceID uuid.UUID,
	dest *inventory.StockRecord,
) (*inventory.StockRecord, *inventory.StockRecord, error) {
	if dest == nil {
		source, err := repos.StockRecords().FindByIDForUpdate(ctx, sourceID)
		return source, nil, err
	}

	first, second := sourceID, dest.ID
	if bytes.Compare(second[:], first[:]) < 0 {
		first, second = second, first
	}

	a, err := repos.StockRecords().FindByIDForUpdate(ctx, first)
	if err != nil {
		return nil, nil, err
	}
	b, err := repos.StockRecords().FindByIDForUpdate(ctx, second)
	if err != nil {
		return nil, nil, err
	}

	if a.ID == sourceID {
		return a, b, nil
	}
	return b, a, nil
}

func (s *StockService) publishEvents(ctx context.Context, record *inventory.StockRecord) {
	if s.eventPublisher == nil || record == nil {
		return
	}
	events := record.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish stock events", zap.Error(err))
	}
	record.ClearDomainEvents()
}
