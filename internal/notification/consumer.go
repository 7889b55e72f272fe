// Package notification turns order events into customer emails. Delivery is
// best-effort and at-most-once: a failed email is logged and dropped, never
// retried, and never blocks the action that triggered it.
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mercadito/backend/internal/entity"
	"github.com/mercadito/backend/internal/messaging"
	"github.com/mercadito/backend/internal/repository"
)

const (
	topicOrdersPlaced        = "orders.placed"
	topicOrdersStatusChanged = "orders.status_changed"
	consumerGroup            = "mercadito-notifications"
)

// Service consumes order events and sends the corresponding emails.
type Service struct {
	orderRepo   repository.OrderRepository
	profileRepo repository.ProfileRepository
	mailer      Mailer
}

func NewService(orderRepo repository.OrderRepository, profileRepo repository.ProfileRepository, mailer Mailer) *Service {
	return &Service{orderRepo: orderRepo, profileRepo: profileRepo, mailer: mailer}
}

// Run starts the consumers and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context, sub messaging.Subscriber) {
	go sub.Consume(ctx, topicOrdersPlaced, consumerGroup, s.handleOrderPlaced)
	go sub.Consume(ctx, topicOrdersStatusChanged, consumerGroup, s.handleStatusChanged)
	<-ctx.Done()
}

func (s *Service) handleOrderPlaced(ctx context.Context, payload []byte) error {
	var event entity.OrderPlaced
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to unmarshal OrderPlaced: %w", err)
	}

	order, name, email, err := s.lookupRecipient(ctx, event.OrderID)
	if err != nil {
		return err
	}
	if email == "" {
		slog.Info("No customer email, skipping confirmation", "order_id", event.OrderID)
		return nil
	}

	subject, html := ConfirmationEmail(order, name)
	if err := s.mailer.Send(ctx, email, subject, html); err != nil {
		// At-most-once: log and drop.
		slog.Error("Failed to send confirmation email", "order_id", event.OrderID, "err", err)
	}
	return nil
}

func (s *Service) handleStatusChanged(ctx context.Context, payload []byte) error {
	var event entity.OrderStatusChanged
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to unmarshal OrderStatusChanged: %w", err)
	}

	if event.PreviousStatus == event.NewStatus {
		return nil
	}

	order, name, email, err := s.lookupRecipient(ctx, event.OrderID)
	if err != nil {
		return err
	}
	if email == "" {
		slog.Info("No customer email, skipping status notification", "order_id", event.OrderID)
		return nil
	}

	subject, html := StatusEmail(order, name, event.PreviousStatus, event.NewStatus)
	if err := s.mailer.Send(ctx, email, subject, html); err != nil {
		slog.Error("Failed to send status email", "order_id", event.OrderID, "err", err)
	}
	return nil
}

func (s *Service) lookupRecipient(ctx context.Context, orderID string) (*entity.Order, string, string, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to load order %s: %w", orderID, err)
	}

	name := "Cliente"
	email := ""
	profile, err := s.profileRepo.FindByUser(ctx, order.UserID)
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		return nil, "", "", fmt.Errorf("failed to load profile for %s: %w", order.UserID, err)
	}
	if profile != nil {
		if profile.FullName != "" {
			name = profile.FullName
		}
		email = profile.Email
	}
	return order, name, email, nil
}
