package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mercadito/backend/internal/entity"
	"github.com/mercadito/backend/internal/messaging"
	"github.com/mercadito/backend/internal/repository"
)

const topicOrdersStatusChanged = "orders.status_changed"

// OrderService handles order reads and the admin-driven status lifecycle.
type OrderService struct {
	orderRepo repository.OrderRepository
	publisher messaging.Publisher
}

func NewOrderService(orderRepo repository.OrderRepository, publisher messaging.Publisher) *OrderService {
	return &OrderService{orderRepo: orderRepo, publisher: publisher}
}

// UserOrders returns a customer's own orders, newest first.
func (s *OrderService) UserOrders(ctx context.Context, userID string) ([]entity.Order, error) {
	return s.orderRepo.FindByUser(ctx, userID)
}

// Order returns one order. Non-admin callers only get their own.
func (s *OrderService) Order(ctx context.Context, id, userID string, admin bool) (*entity.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !admin && o.UserID != userID {
		return nil, entity.ErrNotFound
	}
	return o, nil
}

// AllOrders returns every order with customer info for the admin dashboard.
func (s *OrderService) AllOrders(ctx context.Context) ([]entity.Order, error) {
	return s.orderRepo.FindAll(ctx)
}

// UpdateStatus advances an order along the lifecycle. Only single forward
// steps and cancellation of non-terminal orders are accepted. The status
// email notification is fire-and-forget.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, next entity.OrderStatus) (*entity.Order, error) {
	if !next.Valid() {
		return nil, entity.ErrInvalidTransition
	}

	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	prev := o.Status
	if !prev.CanTransitionTo(next) {
		return nil, entity.ErrInvalidTransition
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, prev, next); err != nil {
		return nil, err
	}
	o.Status = next

	slog.Info("Order status updated", "order_id", orderID, "from", prev, "to", next)

	event := entity.OrderStatusChanged{
		OrderID:        o.ID,
		UserID:         o.UserID,
		PreviousStatus: prev,
		NewStatus:      next,
		ChangedAt:      time.Now(),
	}
	if err := s.publisher.PublishEvent(ctx, topicOrdersStatusChanged, o.ID, event); err != nil {
		slog.Error("Failed to publish OrderStatusChanged", "order_id", o.ID, "err", err)
	}

	return o, nil
}
