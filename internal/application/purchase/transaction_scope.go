package purchase

import (
	"context"

	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/purchase"
)

// TransactionScope provides transactional access to the purchase order and
// stock record repositories. Receiving goods writes both aggregates and must
// commit or roll back as one unit.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories scoped to the current
// transaction
type TransactionalRepositories interface {
	// Orders returns the purchase order repository scoped to the current transaction
	Orders() purchase.PurchaseOrderRepository
	// StockRecords returns the stock record repository scoped to the current transaction
	StockRecords() inventory.StockRecordRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful in tests where the repositories are in-memory fakes.
type NoOpTransactionScope struct {
	orders       purchase.PurchaseOrderRepository
	stockRecords inventory.StockRecordRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(orders purchase.PurchaseOrderRepository, stockRecords inventory.StockRecordRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{orders: orders, stockRecords: stockRecords}
}

// Execute runs the function without a transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Orders returns the purchase order repository.
func (s *NoOpTransactionScope) Orders() purchase.PurchaseOrderRepository {
	return s.orders
}

// StockRecords returns the stock record repository.
func (s *NoOpTransactionScope) StockRecords() inventory.StockRecordRepository {
	return s.stockRecords
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
