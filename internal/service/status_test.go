package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/portomercado/porto/internal/domain"
)

func makeStatusFixture(t *testing.T, status domain.OrderStatus) (*mockOrderStore, domain.OrderStatusService, uuid.UUID) {
	t.Helper()
	orders := newMockOrderStore()
	orderID := uuid.New()
	orders.orders[orderID] = &domain.Order{
		ID:     orderID,
		UserID: uuid.New(),
		Status: status,
	}
	allowList := domain.NewOperatorAllowList([]string{"staff@portomercado.com"})
	svc := NewOrderStatusService(orders, allowList, newRecordingMetrics(), discardLogger())
	return orders, svc, orderID
}

func operatorContext(email string) context.Context {
	return domain.NewContextWithOperator(context.Background(), &domain.Operator{
		ID:    uuid.New(),
		Email: email,
	})
}

func TestStatusService_UpdateStatus_LegalTransition(t *testing.T) {
	orders, svc, orderID := makeStatusFixture(t, domain.StatusPending)
	ctx := operatorContext("staff@portomercado.com")

	updated, err := svc.UpdateStatus(ctx, orderID, domain.StatusConfirmed)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)
	assert.Equal(t, domain.StatusConfirmed, orders.orders[orderID].Status)
}

func TestStatusService_UpdateStatus_FullLifecycle(t *testing.T) {
	_, svc, orderID := makeStatusFixture(t, domain.StatusPending)
	ctx := operatorContext("STAFF@portomercado.com") // case-insensitive match

	for _, next := range []domain.OrderStatus{
		domain.StatusConfirmed,
		domain.StatusOutForDelivery,
		domain.StatusDelivered,
	} {
		updated, err := svc.UpdateStatus(ctx, orderID, next)
		assert.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	// delivered is terminal
	_, err := svc.UpdateStatus(ctx, orderID, domain.StatusCanceled)
	assert.True(t, errors.Is(err, domain.ErrOrderTerminal))
}

func TestStatusService_UpdateStatus_IllegalJump(t *testing.T) {
	_, svc, orderID := makeStatusFixture(t, domain.StatusPending)
	ctx := operatorContext("staff@portomercado.com")

	_, err := svc.UpdateStatus(ctx, orderID, domain.StatusDelivered)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
}

func TestStatusService_UpdateStatus_CancelFromAnyActive(t *testing.T) {
	for _, from := range []domain.OrderStatus{
		domain.StatusPending,
		domain.StatusConfirmed,
		domain.StatusOutForDelivery,
	} {
		_, svc, orderID := makeStatusFixture(t, from)
		ctx := operatorContext("staff@portomercado.com")

		updated, err := svc.UpdateStatus(ctx, orderID, domain.StatusCanceled)
		assert.NoError(t, err, "cancel from %s", from)
		assert.Equal(t, domain.StatusCanceled, updated.Status)
	}
}

func TestStatusService_UpdateStatus_RequiresOperator(t *testing.T) {
	_, svc, orderID := makeStatusFixture(t, domain.StatusPending)

	t.Run("no operator in context", func(t *testing.T) {
		_, err := svc.UpdateStatus(context.Background(), orderID, domain.StatusConfirmed)
		assert.True(t, errors.Is(err, domain.ErrOperatorOnly))
	})

	t.Run("operator not on allow-list", func(t *testing.T) {
		_, err := svc.UpdateStatus(operatorContext("intruder@evil.com"), orderID, domain.StatusConfirmed)
		assert.True(t, errors.Is(err, domain.ErrOperatorOnly))
	})
}

func TestStatusService_UpdateStatus_UnknownStatus(t *testing.T) {
	_, svc, orderID := makeStatusFixture(t, domain.StatusPending)
	ctx := operatorContext("staff@portomercado.com")

	_, err := svc.UpdateStatus(ctx, orderID, "shipped")
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestStatusService_UpdateStatus_MissingOrder(t *testing.T) {
	_, svc, _ := makeStatusFixture(t, domain.StatusPending)
	ctx := operatorContext("staff@portomercado.com")

	_, err := svc.UpdateStatus(ctx, uuid.New(), domain.StatusConfirmed)
	assert.True(t, errors.Is(err, domain.ErrOrderNotFound))
}

func TestStatusService_ListAll(t *testing.T) {
	orders, svc, orderID := makeStatusFixture(t, domain.StatusPending)
	_ = orderID

	t.Run("operator sees orders", func(t *testing.T) {
		list, err := svc.ListAll(operatorContext("staff@portomercado.com"), nil, 50)
		assert.NoError(t, err)
		assert.Len(t, list, len(orders.orders))
	})

	t.Run("status filter applies", func(t *testing.T) {
		list, err := svc.ListAll(operatorContext("staff@portomercado.com"),
			[]domain.OrderStatus{domain.StatusDelivered}, 50)
		assert.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("non-operator denied", func(t *testing.T) {
		_, err := svc.ListAll(context.Background(), nil, 50)
		assert.True(t, errors.Is(err, domain.ErrOperatorOnly))
	})

	t.Run("bad status rejected", func(t *testing.T) {
		_, err := svc.ListAll(operatorContext("staff@portomercado.com"),
			[]domain.OrderStatus{"bogus"}, 50)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})
}
