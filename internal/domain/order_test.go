package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCanceled},
		{StatusConfirmed, StatusOutForDelivery},
		{StatusConfirmed, StatusCanceled},
		{StatusOutForDelivery, StatusDelivered},
		{StatusOutForDelivery, StatusCanceled},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr.from, tr.to), "%s -> %s should be legal", tr.from, tr.to)
	}

	denied := []struct{ from, to OrderStatus }{
		{StatusPending, StatusOutForDelivery},
		{StatusPending, StatusDelivered},
		{StatusConfirmed, StatusPending},
		{StatusConfirmed, StatusDelivered},
		{StatusOutForDelivery, StatusPending},
		{StatusOutForDelivery, StatusConfirmed},
		{StatusDelivered, StatusCanceled},
		{StatusDelivered, StatusPending},
		{StatusCanceled, StatusPending},
		{StatusCanceled, StatusConfirmed},
		{StatusPending, StatusPending},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr.from, tr.to), "%s -> %s should be illegal", tr.from, tr.to)
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCanceled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.False(t, StatusOutForDelivery.Terminal())
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusConfirmed, StatusOutForDelivery, StatusDelivered, StatusCanceled} {
		assert.True(t, s.Valid())
	}
	assert.False(t, OrderStatus("shipped").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestNextStatuses(t *testing.T) {
	assert.ElementsMatch(t, []OrderStatus{StatusConfirmed, StatusCanceled}, NextStatuses(StatusPending))
	assert.Empty(t, NextStatuses(StatusDelivered))
	assert.Empty(t, NextStatuses(StatusCanceled))
}

func TestStatusSets(t *testing.T) {
	seen := map[OrderStatus]bool{}
	for _, s := range append(append([]OrderStatus{}, ActiveStatuses...), HistoryStatuses...) {
		assert.True(t, s.Valid())
		assert.False(t, seen[s], "status %s appears in both sets", s)
		seen[s] = true
	}
	assert.Len(t, seen, 5)
}

func TestOrderItem_LineTotal(t *testing.T) {
	item := OrderItem{Quantity: 3, UnitPriceCents: 1500}
	assert.Equal(t, int64(4500), item.LineTotal())
}
