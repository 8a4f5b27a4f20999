package persistence

import (
	"context"

	"gorm.io/gorm"

	appinv "github.com/ims/backend/internal/application/inventory"
	apppur "github.com/ims/backend/internal/application/purchase"
	"github.com/ims/backend/internal/domain/inventory"
	"github.com/ims/backend/internal/domain/purchase"
)

// GormTransactionScope implements the application transaction scopes using
// GORM transactions. Repositories handed to the callback share one
// transaction and their row locks are held until it ends.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute implements the inventory transaction scope
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// PurchaseScope adapts the same database handle to the purchase
// transaction scope interface
func (s *GormTransactionScope) PurchaseScope() apppur.TransactionScope {
	return &gormPurchaseTransactionScope{db: s.db}
}

type gormPurchaseTransactionScope struct {
	db *gorm.DB
}

func (s *gormPurchaseTransactionScope) Execute(ctx context.Context, fn func(repos apppur.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides repositories bound to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// StockRecords returns the stock record repository scoped to the current transaction
func (r *gormTransactionalRepositories) StockRecords() inventory.StockRecordRepository {
	return NewGormStockRecordRepository(r.tx)
}

// Orders returns the purchase order repository scoped to the current transaction
func (r *gormTransactionalRepositories) Orders() purchase.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

var _ appinv.TransactionScope = (*GormTransactionScope)(nil)
var _ apppur.TransactionScope = (*gormPurchaseTransactionScope)(nil)
var _ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
var _ apppur.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
