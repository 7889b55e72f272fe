package entity

import (
	"time"
)

// Product represents a product in the store. Prices are integer currency
// units (CUP), so totals never need rounding.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"image_url"`
	CategoryID  string    `json:"category_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Category is static reference data for grouping products.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// OrderItem is a line item within an order. Name and price are snapshots
// taken at purchase time and never change afterwards, even if the product
// is edited or deactivated.
type OrderItem struct {
	OrderID         string `json:"order_id,omitempty"`
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
	Quantity        int    `json:"quantity"`
	PriceAtPurchase int64  `json:"price_at_purchase"`
}

// Order represents a customer order.
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Status          OrderStatus `json:"status"`
	TotalAmount     int64       `json:"total_amount"`
	DeliveryAddress string      `json:"delivery_address"`
	Municipality    string      `json:"municipality"`
	Phone           string      `json:"phone"`
	DeliveryTime    string      `json:"delivery_time"`
	PaymentMethod   string      `json:"payment_method"`
	Notes           string      `json:"notes,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	Items           []OrderItem `json:"items,omitempty"`

	// Filled only for admin listings.
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

// Review is a per-user, per-product rating with an optional comment.
// At most one review exists per (user, product) pair.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ReviewerName string `json:"reviewer_name,omitempty"`
}

// Favorite marks a product as saved by a user.
type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
	Product   *Product  `json:"product,omitempty"`
}

// Profile holds per-user contact and delivery defaults, upserted from the
// checkout or profile-edit forms.
type Profile struct {
	UserID       string    `json:"user_id"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email,omitempty"`
	Address      string    `json:"address,omitempty"`
	Municipality string    `json:"municipality,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// StockCheck is the per-item result of a cart availability check.
type StockCheck struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
	IsAvailable bool   `json:"is_available"`
}

// --- Events ---

// OrderPlaced is emitted after an order and its items are committed.
type OrderPlaced struct {
	OrderID     string      `json:"order_id"`
	UserID      string      `json:"user_id"`
	TotalAmount int64       `json:"total_amount"`
	Items       []OrderItem `json:"items"`
	PlacedAt    time.Time   `json:"placed_at"`
}

// OrderStatusChanged is emitted after an admin advances an order's status.
type OrderStatusChanged struct {
	OrderID        string      `json:"order_id"`
	UserID         string      `json:"user_id"`
	PreviousStatus OrderStatus `json:"previous_status"`
	NewStatus      OrderStatus `json:"new_status"`
	ChangedAt      time.Time   `json:"changed_at"`
}
