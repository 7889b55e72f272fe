package cart

import (
	"fmt"

	"github.com/mercadito/backend/internal/entity"
)

// Item is a product snapshot plus the quantity the customer wants. The
// snapshot decouples the cart from later product edits; prices are captured
// at add time, not re-fetched at checkout.
type Item struct {
	Product  entity.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Cart holds the in-progress purchase selection for one session. It is a
// convenience cache, never persisted; losing it on restart is acceptable.
type Cart struct {
	items []Item
}

func New() *Cart {
	return &Cart{}
}

// AddItem increments the quantity by one when the product is already in the
// cart, otherwise inserts it with quantity 1. No stock check happens here;
// availability is validated at checkout.
func (c *Cart) AddItem(p entity.Product) {
	for i := range c.items {
		if c.items[i].Product.ID == p.ID {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, Item{Product: p, Quantity: 1})
}

// UpdateQuantity sets the quantity for a product, rejecting values outside
// [1, stock]. Removing an item goes through RemoveItem, not quantity 0.
func (c *Cart) UpdateQuantity(productID string, qty int) error {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			if qty < 1 || qty > c.items[i].Product.Stock {
				return fmt.Errorf("%w: requested %d, stock %d",
					entity.ErrQuantityOutOfRange, qty, c.items[i].Product.Stock)
			}
			c.items[i].Quantity = qty
			return nil
		}
	}
	return entity.ErrNotFound
}

// RemoveItem deletes one entry. Removing an absent product is a no-op.
func (c *Cart) RemoveItem(productID string) {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the cart entries.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// TotalPrice is the sum of price times quantity over all entries.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, it := range c.items {
		total += it.Product.Price * int64(it.Quantity)
	}
	return total
}

// Len returns the number of distinct products in the cart.
func (c *Cart) Len() int {
	return len(c.items)
}

// OrderItems converts the cart entries into order line items, snapshotting
// the product name and the price captured at add time.
func (c *Cart) OrderItems() []entity.OrderItem {
	items := make([]entity.OrderItem, 0, len(c.items))
	for _, it := range c.items {
		items = append(items, entity.OrderItem{
			ProductID:       it.Product.ID,
			ProductName:     it.Product.Name,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.Product.Price,
		})
	}
	return items
}
