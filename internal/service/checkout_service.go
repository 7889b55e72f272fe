package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mercadito/backend/internal/cart"
	"github.com/mercadito/backend/internal/checkout"
	"github.com/mercadito/backend/internal/entity"
	"github.com/mercadito/backend/internal/messaging"
	"github.com/mercadito/backend/internal/repository"
)

const topicOrdersPlaced = "orders.placed"

// StockCheckResult aggregates per-item availability for a whole cart.
type StockCheckResult struct {
	AllAvailable bool                `json:"all_available"`
	Results      []entity.StockCheck `json:"results"`
}

// CheckoutService drives the checkout flow: per-session step state, stock
// validation and the final order submission.
type CheckoutService struct {
	carts       *cart.Store
	checkouts   *checkout.Store
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	profileRepo repository.ProfileRepository
	publisher   messaging.Publisher
}

func NewCheckoutService(
	carts *cart.Store,
	checkouts *checkout.Store,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	profileRepo repository.ProfileRepository,
	publisher messaging.Publisher,
) *CheckoutService {
	return &CheckoutService{
		carts:       carts,
		checkouts:   checkouts,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		profileRepo: profileRepo,
		publisher:   publisher,
	}
}

// Checkout returns the session's checkout state machine.
func (s *CheckoutService) Checkout(userID string) *checkout.Checkout {
	return s.checkouts.Get(userID)
}

// CheckStock validates the session's cart against current stock. Advisory:
// nothing is reserved, the transactional decrement at submission is what
// actually closes the race.
func (s *CheckoutService) CheckStock(ctx context.Context, userID string) (*StockCheckResult, error) {
	c := s.carts.Get(userID)
	results, err := s.productRepo.CheckStock(ctx, c.OrderItems())
	if err != nil {
		return nil, fmt.Errorf("failed to check stock availability: %w", err)
	}

	all := true
	for _, r := range results {
		if !r.IsAvailable {
			all = false
			break
		}
	}
	return &StockCheckResult{AllAvailable: all, Results: results}, nil
}

// Submit re-validates the whole form, checks stock, creates the order with
// its items atomically, best-effort saves the profile, clears the cart and
// publishes the OrderPlaced event. On any order-creation failure the cart
// is left intact so the user can retry.
func (s *CheckoutService) Submit(ctx context.Context, userID string) (*entity.Order, error) {
	c := s.carts.Get(userID)
	if c.Len() == 0 {
		return nil, entity.ErrEmptyCart
	}

	co := s.checkouts.Get(userID)
	if err := co.Validate(); err != nil {
		return nil, err
	}
	form := co.Form()

	check, err := s.CheckStock(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !check.AllAvailable {
		return nil, entity.ErrInsufficientStock
	}

	order := &entity.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Status:          entity.StatusPending,
		TotalAmount:     c.TotalPrice(),
		DeliveryAddress: form.Address,
		Municipality:    form.Municipality,
		Phone:           form.Phone,
		DeliveryTime:    form.DeliveryTime,
		PaymentMethod:   form.PaymentMethod,
		Notes:           form.Notes,
		CreatedAt:       time.Now(),
		Items:           c.OrderItems(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	slog.Info("Order placed", "order_id", order.ID, "user_id", userID,
		"items", len(order.Items), "total", order.TotalAmount)

	// Profile save is best-effort: it must never block order placement.
	if form.SaveProfile {
		profile := &entity.Profile{
			UserID:       userID,
			FullName:     form.FullName,
			Phone:        form.Phone,
			Email:        form.Email,
			Address:      form.Address,
			Municipality: form.Municipality,
		}
		if err := s.profileRepo.Upsert(ctx, profile); err != nil {
			slog.Error("Failed to save profile after checkout", "user_id", userID, "err", err)
		}
	}

	c.Clear()
	co.Reset()

	event := entity.OrderPlaced{
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Items:       order.Items,
		PlacedAt:    order.CreatedAt,
	}
	if err := s.publisher.PublishEvent(ctx, topicOrdersPlaced, order.ID, event); err != nil {
		// Fire and forget: the order stands even if the event never leaves.
		slog.Error("Failed to publish OrderPlaced", "order_id", order.ID, "err", err)
	}

	return order, nil
}
