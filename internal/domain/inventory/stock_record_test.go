package inventory

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ims/backend/internal/domain/shared"
)

func createTestStockRecord(t *testing.T, quantity int64) *StockRecord {
	t.Helper()
	record, err := NewStockRecord(uuid.New(), uuid.New(), "BATCH-001", quantity)
	require.NoError(t, err)
	record.ClearDomainEvents()
	return record
}

func TestNewStockRecord(t *testing.T) {
	productID := uuid.New()
	warehouseID := uuid.New()

	t.Run("creates stock record successfully", func(t *testing.T) {
		record, err := NewStockRecord(productID, warehouseID, "BATCH-001", 50)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, record.ID)
		assert.Equal(t, productID, record.ProductID)
		assert.Equal(t, warehouseID, record.WarehouseID)
		assert.Equal(t, "BATCH-001", record.BatchNumber)
		assert.Equal(t, int64(50), record.Quantity)
		assert.Len(t, record.GetDomainEvents(), 1)
	})

	t.Run("allows empty batch number", func(t *testing.T) {
		record, err := NewStockRecord(productID, warehouseID, "", 10)

		require.NoError(t, err)
		assert.Equal(t, "", record.BatchNumber)
	})

	t.Run("fails with nil product ID", func(t *testing.T) {
		record, err := NewStockRecord(uuid.Nil, warehouseID, "BATCH-001", 50)

		require.Error(t, err)
		assert.Nil(t, record)
	})

	t.Run("fails with nil warehouse ID", func(t *testing.T) {
		record, err := NewStockRecord(productID, uuid.Nil, "BATCH-001", 50)

		require.Error(t, err)
		assert.Nil(t, record)
	})

	t.Run("allows zero quantity", func(t *testing.T) {
		record, err := NewStockRecord(productID, warehouseID, "BATCH-001", 0)

		require.NoError(t, err)
		assert.Equal(t, int64(0), record.Quantity)
	})

	t.Run("fails with negative quantity", func(t *testing.T) {
		record, err := NewStockRecord(productID, warehouseID, "BATCH-001", -5)

		require.Error(t, err)
		assert.Nil(t, record)
		assert.True(t, errors.Is(err, shared.ErrInvalidQuantity))
	})
}

func TestStockRecord_AddQuantity(t *testing.T) {
	t.Run("increases quantity", func(t *testing.T) {
		record := createTestStockRecord(t, 50)

		err := record.AddQuantity(30, nil, "")

		require.NoError(t, err)
		assert.Equal(t, int64(80), record.Quantity)
		assert.Len(t, record.GetDomainEvents(), 1)
	})

	t.Run("overwrites expiry and location when provided", func(t *testing.T) {
		record := createTestStockRecord(t, 50)
		oldExpiry := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		record.ExpiryDate = &oldExpiry
		record.Location = "A-01"

		newExpiry := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		err := record.AddQuantity(10, &newExpiry, "B-02")

		require.NoError(t, err)
		assert.Equal(t, newExpiry, *record.ExpiryDate)
		assert.Equal(t, "B-02", record.Location)
	})

	t.Run("keeps existing expiry and location when omitted", func(t *testing.T) {
		record := createTestStockRecord(t, 50)
		expiry := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		record.ExpiryDate = &expiry
		record.Location = "A-01"

		err := record.AddQuantity(10, nil, "")

		require.NoError(t, err)
		assert.Equal(t, expiry, *record.ExpiryDate)
		assert.Equal(t, "A-01", record.Location)
	})

	t.Run("fails with negative quantity", func(t *testing.T) {
		record := createTestStockRecord(t, 50)

		err := record.AddQuantity(-10, nil, "")

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidQuantity))
		assert.Equal(t, int64(50), record.Quantity)
	})
}

func TestStockRecord_Adjust(t *testing.T) {
	t.Run("applies positive delta", func(t *testing.T) {
		record := createTestStockRecord(t, 50)

		err := record.Adjust(25)

		require.NoError(t, err)
		assert.Equal(t, int64(75), record.Quantity)
	})

	t.Run("applies negative delta", func(t *testing.T) {
		record := createTestStockRecord(t, 50)

		err := record.Adjust(-20)

		require.NoError(t, err)
		assert.Equal(t, int64(30), record.Quantity)
	})

	t.Run("allows adjusting down to exactly zero", func(t *testing.T) {
		record := createTestStockRecord(t, 50)

		err := record.Adjust(-50)

		require.NoError(t, err)
		assert.Equal(t, int64(0), record.Quantity)
		assert.True(t, record.IsEmpty())
	})

	t.Run("rejects delta driving quantity below zero", func(t *testing.T) {
		record := createTestStockRecord(t, 50)

		err := record.Adjust(-51)

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
		assert.Equal(t, int64(50), record.Quantity)
	})

	t.Run("rejects zero delta", func(t *testing.T) {
		record := createTestStockRecord(t, 50)

		err := record.Adjust(0)

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidQuantity))
	})
}

func TestStockRecord_Remove(t *testing.T) {
	t.Run("removes quantity", func(t *testing.T) {
		record := createTestStockRecord(t, 50)

		err := record.Remove(20)

		require.NoError(t, err)
		assert.Equal(t, int64(30), record.Quantity)
	})

	t.Run("fails when quantity exceeds stock", func(t *testing.T) {
		record := createTestStockRecord(t, 50)

		err := record.Remove(60)

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
		assert.Equal(t, int64(50), record.Quantity)
	})

	t.Run("fails with non-positive quantity", func(t *testing.T) {
		record := createTestStockRecord(t, 50)

		err := record.Remove(-1)

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidQuantity))
	})
}

func TestStockRecord_ExpiresWithin(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	t.Run("returns false without expiry date", func(t *testing.T) {
		record := createTestStockRecord(t, 10)

		assert.False(t, record.ExpiresWithin(now, 30))
	})

	t.Run("returns true when expiry falls inside the window", func(t *testing.T) {
		record := createTestStockRecord(t, 10)
		expiry := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		record.ExpiryDate = &expiry

		assert.True(t, record.ExpiresWithin(now, 30))
	})

	t.Run("returns false when expiry is beyond the window", func(t *testing.T) {
		record := createTestStockRecord(t, 10)
		expiry := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
		record.ExpiryDate = &expiry

		assert.False(t, record.ExpiresWithin(now, 30))
	})

	t.Run("includes expiry exactly on the cutoff day", func(t *testing.T) {
		record := createTestStockRecord(t, 10)
		expiry := time.Date(2026, 4, 14, 0, 0, 0, 0, time.UTC)
		record.ExpiryDate = &expiry

		assert.True(t, record.ExpiresWithin(now, 30))
	})
}

func TestStockRecord_IsExpired(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	t.Run("expired batch", func(t *testing.T) {
		record := createTestStockRecord(t, 10)
		expiry := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
		record.ExpiryDate = &expiry

		assert.True(t, record.IsExpired(now))
	})

	t.Run("batch expiring today is not expired yet", func(t *testing.T) {
		record := createTestStockRecord(t, 10)
		expiry := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
		record.ExpiryDate = &expiry

		assert.False(t, record.IsExpired(now))
	})
}
