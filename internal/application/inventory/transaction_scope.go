package inventory

import (
	"context"

	"github.com/ims/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the stock record
// repository. All repository operations executed within one scope share the
// same database transaction and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories scoped to the current
// transaction. Row locks taken through them are released when the
// transaction ends.
type TransactionalRepositories interface {
	// StockRecords returns the stock record repository scoped to the current transaction
	StockRecords() inventory.StockRecordRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful in tests where the repositories are in-memory fakes.
type NoOpTransactionScope struct {
	stockRecords inventory.StockRecordRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repository.
func NewNoOpTransactionScope(stockRecords inventory.StockRecordRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{stockRecords: stockRecords}
}

// Execute runs the function without a transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockRecords returns the stock record repository.
func (s *NoOpTransactionScope) StockRecords() inventory.StockRecordRepository {
	return s.stockRecords
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
