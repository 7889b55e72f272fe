package repository

import (
	"context"
	"time"

	"github.com/mercadito/backend/internal/entity"
)

// ProductRepository handles persistence for products and categories.
type ProductRepository interface {
	FindActive(ctx context.Context) ([]entity.Product, error)
	FindAll(ctx context.Context) ([]entity.Product, error)
	FindByID(ctx context.Context, id string) (*entity.Product, error)
	Create(ctx context.Context, p *entity.Product) error
	Update(ctx context.Context, p *entity.Product) error
	// Deactivate soft-deletes a product; rows are never removed.
	Deactivate(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]entity.Category, error)
	// CheckStock reports requested vs available stock for each item.
	CheckStock(ctx context.Context, items []entity.OrderItem) ([]entity.StockCheck, error)
	LowStock(ctx context.Context, threshold, limit int) ([]entity.Product, error)
	Count(ctx context.Context) (int, error)
	// Seed inserts initial categories and products if none exist.
	Seed(ctx context.Context, categories []entity.Category, products []entity.Product) error
}

// OrderRepository handles persistence for orders and their items.
type OrderRepository interface {
	// Create writes the order header, its items and the stock decrement in
	// a single transaction. Returns entity.ErrInsufficientStock when any
	// decrement would go negative.
	Create(ctx context.Context, o *entity.Order) error
	FindByID(ctx context.Context, id string) (*entity.Order, error)
	FindByUser(ctx context.Context, userID string) ([]entity.Order, error)
	// FindAll returns every order with items and customer contact info,
	// newest first. Admin use only.
	FindAll(ctx context.Context) ([]entity.Order, error)
	FindSince(ctx context.Context, since time.Time) ([]entity.Order, error)
	// UpdateStatus moves an order from expected current status to next,
	// guarded so a concurrent change loses instead of double-applying.
	UpdateStatus(ctx context.Context, id string, from, to entity.OrderStatus) error
	// HasQualifyingPurchase reports whether the user has an order containing
	// the product with a status that makes them eligible to review it.
	HasQualifyingPurchase(ctx context.Context, userID, productID string) (bool, error)
}

// ReviewRepository handles persistence for reviews.
type ReviewRepository interface {
	FindByProduct(ctx context.Context, productID string) ([]entity.Review, error)
	FindUserReview(ctx context.Context, userID, productID string) (*entity.Review, error)
	Insert(ctx context.Context, r *entity.Review) error
	Update(ctx context.Context, r *entity.Review) error
	Delete(ctx context.Context, id, userID string) error
}

// FavoriteRepository handles the (user, product) favorite pairs.
type FavoriteRepository interface {
	FindByUser(ctx context.Context, userID string) ([]entity.Favorite, error)
	Exists(ctx context.Context, userID, productID string) (bool, error)
	Insert(ctx context.Context, userID, productID string) error
	Delete(ctx context.Context, userID, productID string) error
}

// RoleRepository exposes the role claims mirrored from the auth service.
type RoleRepository interface {
	// FindRole returns "admin" or "user"; missing rows default to "user".
	FindRole(ctx context.Context, userID string) (string, error)
	FindAll(ctx context.Context) (map[string]string, error)
}

// ProfileRepository handles per-user contact/delivery defaults.
type ProfileRepository interface {
	FindByUser(ctx context.Context, userID string) (*entity.Profile, error)
	Upsert(ctx context.Context, p *entity.Profile) error
	Count(ctx context.Context) (int, error)
}
