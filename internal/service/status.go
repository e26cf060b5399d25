package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/portomercado/porto/internal/domain"
)

// TransitionMetrics records status machine activity. *telemetry.BusinessMetrics
// satisfies it.
type TransitionMetrics interface {
	OrderTransition(from, to string)
}

type statusService struct {
	orders    OrderStore
	allowList *domain.OperatorAllowList
	metrics   TransitionMetrics
	logger    *slog.Logger
}

// NewOrderStatusService wires the operator-driven status machine.
func NewOrderStatusService(orders OrderStore, allowList *domain.OperatorAllowList, metrics TransitionMetrics, logger *slog.Logger) domain.OrderStatusService {
	return &statusService{
		orders:    orders,
		allowList: allowList,
		metrics:   metrics,
		logger:    logger,
	}
}

// UpdateStatus applies one transition. The operator check and the
// transition table both run here, so no client can bypass them.
func (s *statusService) UpdateStatus(ctx context.Context, orderID uuid.UUID, next domain.OrderStatus) (*domain.Order, error) {
	operator := domain.OperatorFromContext(ctx)
	if operator == nil || !s.allowList.Allows(operator.Email) {
		return nil, domain.ErrOperatorOnly
	}

	if !next.Valid() {
		return nil, domain.Errorf(domain.EINVALID, "order.update_status", "unknown status: %s", next)
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, domain.ErrOrderTerminal
	}
	if !domain.CanTransition(order.Status, next) {
		return nil, domain.Errorf(domain.ECONFLICT, "order.update_status",
			"cannot move order from %s to %s", order.Status, next)
	}

	// Conditional update: if another operator won the race the store
	// reports the conflict.
	updated, err := s.orders.TransitionStatus(ctx, orderID, order.Status, next)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrderTransition(string(order.Status), string(next))
	}
	s.logger.Info("order status updated",
		"order_id", orderID,
		"from", order.Status,
		"to", next,
		"operator", operator.Email)

	return updated, nil
}

func (s *statusService) ListAll(ctx context.Context, statuses []domain.OrderStatus, limit int) ([]domain.AdminOrder, error) {
	operator := domain.OperatorFromContext(ctx)
	if operator == nil || !s.allowList.Allows(operator.Email) {
		return nil, domain.ErrOperatorOnly
	}
	for _, status := range statuses {
		if !status.Valid() {
			return nil, domain.Errorf(domain.EINVALID, "order.list_all", "unknown status: %s", status)
		}
	}
	return s.orders.ListAll(ctx, statuses, limit)
}
