package purchase

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/domain/shared/valueobject"
)

func testOrderLines(t *testing.T) []OrderLine {
	t.Helper()
	return []OrderLine{
		{ProductID: uuid.New(), ProductName: "Widget A", Quantity: 5, UnitPrice: valueobject.NewMoneyUSDFromFloat(2.00)},
		{ProductID: uuid.New(), ProductName: "Widget B", Quantity: 3, UnitPrice: valueobject.NewMoneyUSDFromFloat(10.00)},
	}
}

func createTestOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	order, err := NewPurchaseOrder("PO-20260831-0001", uuid.New(), time.Now(), testOrderLines(t))
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

// advanceTo walks the order through the happy path to the target status
func advanceTo(t *testing.T, order *PurchaseOrder, target PurchaseOrderStatus) {
	t.Helper()
	path := []PurchaseOrderStatus{StatusSubmitted, StatusApproved, StatusSent}
	for _, next := range path {
		if order.Status == target {
			return
		}
		require.NoError(t, order.ChangeStatus(next, 7))
	}
	require.Equal(t, target, order.Status)
}

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("creates order with computed totals", func(t *testing.T) {
		order, err := NewPurchaseOrder("PO-20260831-0001", uuid.New(), time.Now(), testOrderLines(t))

		require.NoError(t, err)
		assert.Equal(t, StatusDraft, order.Status)
		assert.Len(t, order.Items, 2)
		// 5 * 2.00 + 3 * 10.00
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromFloat(40.00)))
		for _, item := range order.Items {
			assert.Equal(t, int64(0), item.ReceivedQuantity)
			assert.True(t, item.TotalPrice.Equal(item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity))))
		}
	})

	t.Run("defaults order date to now", func(t *testing.T) {
		order, err := NewPurchaseOrder("PO-20260831-0002", uuid.New(), time.Time{}, testOrderLines(t))

		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), order.OrderDate, time.Second)
	})

	t.Run("fails without items", func(t *testing.T) {
		order, err := NewPurchaseOrder("PO-20260831-0003", uuid.New(), time.Now(), nil)

		require.Error(t, err)
		assert.Nil(t, order)
	})

	t.Run("fails with nil supplier", func(t *testing.T) {
		order, err := NewPurchaseOrder("PO-20260831-0004", uuid.Nil, time.Now(), testOrderLines(t))

		require.Error(t, err)
		assert.Nil(t, order)
	})

	t.Run("fails with non-positive item quantity", func(t *testing.T) {
		lines := []OrderLine{{ProductID: uuid.New(), Quantity: 0, UnitPrice: valueobject.ZeroUSD()}}
		order, err := NewPurchaseOrder("PO-20260831-0005", uuid.New(), time.Now(), lines)

		require.Error(t, err)
		assert.Nil(t, order)
		assert.True(t, errors.Is(err, shared.ErrInvalidQuantity))
	})
}

func TestPurchaseOrderStatus_CanTransitionTo(t *testing.T) {
	allStatuses := []PurchaseOrderStatus{
		StatusDraft, StatusSubmitted, StatusApproved, StatusSent,
		StatusPartialReceived, StatusReceived, StatusCancelled,
	}

	allowed := map[PurchaseOrderStatus][]PurchaseOrderStatus{
		StatusDraft:           {StatusSubmitted, StatusCancelled},
		StatusSubmitted:       {StatusApproved, StatusCancelled},
		StatusApproved:        {StatusSent, StatusCancelled},
		StatusSent:            {StatusPartialReceived, StatusReceived, StatusCancelled},
		StatusPartialReceived: {StatusReceived, StatusCancelled},
		StatusReceived:        {},
		StatusCancelled:       {},
	}

	for from, targets := range allowed {
		permitted := make(map[PurchaseOrderStatus]bool, len(targets))
		for _, target := range targets {
			permitted[target] = true
		}
		for _, to := range allStatuses {
			got := from.CanTransitionTo(to)
			assert.Equal(t, permitted[to], got, "%s -> %s", from, to)
		}
	}
}

func TestPurchaseOrder_ChangeStatus(t *testing.T) {
	t.Run("walks the happy path", func(t *testing.T) {
		order := createTestOrder(t)

		require.NoError(t, order.ChangeStatus(StatusSubmitted, 7))
		require.NoError(t, order.ChangeStatus(StatusApproved, 7))
		require.NoError(t, order.ChangeStatus(StatusSent, 7))

		assert.Equal(t, StatusSent, order.Status)
	})

	t.Run("rejects illegal transition and leaves status unchanged", func(t *testing.T) {
		order := createTestOrder(t)

		err := order.ChangeStatus(StatusReceived, 7)

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidStateTransition))
		assert.Equal(t, StatusDraft, order.Status)
	})

	t.Run("sent sets expected delivery date from lead time", func(t *testing.T) {
		order := createTestOrder(t)
		advanceTo(t, order, StatusApproved)
		require.Nil(t, order.ExpectedDeliveryDate)

		require.NoError(t, order.ChangeStatus(StatusSent, 5))

		require.NotNil(t, order.ExpectedDeliveryDate)
		assert.WithinDuration(t, time.Now().AddDate(0, 0, 5), *order.ExpectedDeliveryDate, time.Second)
	})

	t.Run("sent keeps an already set expected delivery date", func(t *testing.T) {
		order := createTestOrder(t)
		expected := time.Now().AddDate(0, 0, 30)
		order.ExpectedDeliveryDate = &expected
		advanceTo(t, order, StatusApproved)

		require.NoError(t, order.ChangeStatus(StatusSent, 5))

		assert.Equal(t, expected, *order.ExpectedDeliveryDate)
	})

	t.Run("cancellation records timestamp", func(t *testing.T) {
		order := createTestOrder(t)

		require.NoError(t, order.ChangeStatus(StatusCancelled, 0))

		assert.Equal(t, StatusCancelled, order.Status)
		require.NotNil(t, order.CancelledAt)
	})

	t.Run("terminal states reject every transition", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.ChangeStatus(StatusCancelled, 0))

		err := order.ChangeStatus(StatusDraft, 0)

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidStateTransition))
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		order := createTestOrder(t)

		err := order.ChangeStatus(PurchaseOrderStatus("SHIPPED"), 0)

		require.Error(t, err)
	})
}

func TestPurchaseOrder_UpdateDraft(t *testing.T) {
	t.Run("replaces items wholesale and recomputes total", func(t *testing.T) {
		order := createTestOrder(t)
		newLines := []OrderLine{
			{ProductID: uuid.New(), ProductName: "Widget C", Quantity: 2, UnitPrice: valueobject.NewMoneyUSDFromFloat(7.50)},
		}

		err := order.UpdateDraft(uuid.Nil, nil, "urgent", newLines)

		require.NoError(t, err)
		assert.Len(t, order.Items, 1)
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromFloat(15.00)))
		assert.Equal(t, "urgent", order.Notes)
	})

	t.Run("keeps items when lines are nil", func(t *testing.T) {
		order := createTestOrder(t)

		err := order.UpdateDraft(uuid.Nil, nil, "note only", nil)

		require.NoError(t, err)
		assert.Len(t, order.Items, 2)
	})

	t.Run("fails outside draft", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.ChangeStatus(StatusSubmitted, 0))

		err := order.UpdateDraft(uuid.Nil, nil, "too late", nil)

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrIllegalState))
	})
}

func TestPurchaseOrder_Receive(t *testing.T) {
	singleItemOrder := func(t *testing.T, qty int64) *PurchaseOrder {
		t.Helper()
		lines := []OrderLine{{ProductID: uuid.New(), ProductName: "Widget", Quantity: qty, UnitPrice: valueobject.NewMoneyUSDFromFloat(1.00)}}
		order, err := NewPurchaseOrder("PO-20260831-0100", uuid.New(), time.Now(), lines)
		require.NoError(t, err)
		advanceTo(t, order, StatusSent)
		order.ClearDomainEvents()
		return order
	}

	t.Run("partial receipt moves to partial received", func(t *testing.T) {
		order := singleItemOrder(t, 10)
		itemID := order.Items[0].ID

		received, err := order.Receive([]ReceiveLine{{ItemID: itemID, Quantity: 6}})

		require.NoError(t, err)
		assert.Len(t, received, 1)
		assert.Equal(t, int64(6), order.Items[0].ReceivedQuantity)
		assert.Equal(t, StatusPartialReceived, order.Status)
		assert.Nil(t, order.ActualDeliveryDate)
	})

	t.Run("completing receipt sets received and actual delivery date", func(t *testing.T) {
		order := singleItemOrder(t, 10)
		itemID := order.Items[0].ID
		_, err := order.Receive([]ReceiveLine{{ItemID: itemID, Quantity: 6}})
		require.NoError(t, err)

		_, err = order.Receive([]ReceiveLine{{ItemID: itemID, Quantity: 4}})

		require.NoError(t, err)
		assert.Equal(t, int64(10), order.Items[0].ReceivedQuantity)
		assert.Equal(t, StatusReceived, order.Status)
		require.NotNil(t, order.ActualDeliveryDate)
		assert.WithinDuration(t, time.Now(), *order.ActualDeliveryDate, time.Second)
	})

	t.Run("over receipt rejects the whole call without partial effect", func(t *testing.T) {
		order := singleItemOrder(t, 10)
		itemID := order.Items[0].ID
		_, err := order.Receive([]ReceiveLine{{ItemID: itemID, Quantity: 6}})
		require.NoError(t, err)

		_, err = order.Receive([]ReceiveLine{{ItemID: itemID, Quantity: 5}})

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrOverReceipt))
		assert.Equal(t, int64(6), order.Items[0].ReceivedQuantity)
		assert.Equal(t, StatusPartialReceived, order.Status)
	})

	t.Run("duplicate lines for one item are summed during validation", func(t *testing.T) {
		order := singleItemOrder(t, 10)
		itemID := order.Items[0].ID

		_, err := order.Receive([]ReceiveLine{
			{ItemID: itemID, Quantity: 6},
			{ItemID: itemID, Quantity: 5},
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrOverReceipt))
		assert.Equal(t, int64(0), order.Items[0].ReceivedQuantity)
	})

	t.Run("unknown item rejects the whole call", func(t *testing.T) {
		order := singleItemOrder(t, 10)
		itemID := order.Items[0].ID

		_, err := order.Receive([]ReceiveLine{
			{ItemID: itemID, Quantity: 2},
			{ItemID: uuid.New(), Quantity: 1},
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		assert.Equal(t, int64(0), order.Items[0].ReceivedQuantity)
		assert.Equal(t, StatusSent, order.Status)
	})

	t.Run("fails outside sent or partial received", func(t *testing.T) {
		order := createTestOrder(t)

		_, err := order.Receive([]ReceiveLine{{ItemID: order.Items[0].ID, Quantity: 1}})

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrIllegalState))
	})

	t.Run("carries batch and expiry through to received lines", func(t *testing.T) {
		order := singleItemOrder(t, 10)
		itemID := order.Items[0].ID
		expiry := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

		received, err := order.Receive([]ReceiveLine{{ItemID: itemID, Quantity: 3, BatchNumber: "B-77", ExpiryDate: &expiry}})

		require.NoError(t, err)
		require.Len(t, received, 1)
		assert.Equal(t, "B-77", received[0].BatchNumber)
		assert.Equal(t, expiry, *received[0].ExpiryDate)
		assert.Equal(t, order.Items[0].ProductID, received[0].ProductID)
	})
}

func TestPurchaseOrder_IsOverdue(t *testing.T) {
	now := time.Now()

	t.Run("overdue when expected date passed and order open", func(t *testing.T) {
		order := createTestOrder(t)
		expected := now.AddDate(0, 0, -1)
		order.ExpectedDeliveryDate = &expected

		assert.True(t, order.IsOverdue(now))
	})

	t.Run("not overdue without expected date", func(t *testing.T) {
		order := createTestOrder(t)

		assert.False(t, order.IsOverdue(now))
	})

	t.Run("terminal orders are never overdue", func(t *testing.T) {
		order := createTestOrder(t)
		expected := now.AddDate(0, 0, -1)
		order.ExpectedDeliveryDate = &expected
		require.NoError(t, order.ChangeStatus(StatusCancelled, 0))

		assert.False(t, order.IsOverdue(now))
	})
}

func TestPurchaseOrder_CanDelete(t *testing.T) {
	order := createTestOrder(t)
	assert.True(t, order.CanDelete())

	require.NoError(t, order.ChangeStatus(StatusSubmitted, 0))
	assert.False(t, order.CanDelete())
}

func TestNewPONumberCandidate(t *testing.T) {
	day := time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC)

	candidate := NewPONumberCandidate(day)

	assert.Regexp(t, regexp.MustCompile(`^PO-20260831-\d{4}$`), candidate)
}
