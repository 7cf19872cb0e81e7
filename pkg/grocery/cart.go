// Package grocery implements the GroceryBot demo agent: an in-process
// shopping cart with a mock delivery-status simulation.
package grocery

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one cart line.
type Item struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal returns quantity × unit price for this line.
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Delivery is a checked-out order in the mock delivery pipeline.
type Delivery struct {
	ID       string
	PlacedAt time.Time
	Total    decimal.Decimal
	Items    []Item
}

// Delivery statuses, in timeline order.
const (
	StatusConfirmed      = "confirmed"
	StatusShopping       = "shopping"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
)

// Mock delivery timeline: elapsed time since checkout decides the
// status.
const (
	shoppingAfter  = 30 * time.Second
	outAfter       = 2 * time.Minute
	deliveredAfter = 5 * time.Minute
)

// Status derives the delivery state from time elapsed since checkout.
func (d Delivery) Status(now time.Time) string {
	elapsed := now.Sub(d.PlacedAt)
	switch {
	case elapsed >= deliveredAfter:
		return StatusDelivered
	case elapsed >= outAfter:
		return StatusOutForDelivery
	case elapsed >= shoppingAfter:
		return StatusShopping
	default:
		return StatusConfirmed
	}
}

// ErrEmptyCart indicates a checkout with nothing in the cart.
var ErrEmptyCart = fmt.Errorf("grocery: cart is empty")

// Cart is the mutable in-process shopping cart plus the last placed
// delivery. Safe for concurrent use.
type Cart struct {
	mu       sync.Mutex
	items    map[string]Item
	delivery *Delivery

	now func() time.Time
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{
		items: make(map[string]Item),
		now:   time.Now,
	}
}

// prices is the mock store price list; unknown items get a flat price.
var prices = map[string]string{
	"milk":    "3.50",
	"bread":   "2.80",
	"eggs":    "4.20",
	"bananas": "1.10",
	"coffee":  "9.90",
	"butter":  "4.75",
	"rice":    "6.30",
	"apples":  "3.90",
}

const fallbackPrice = "2.50"

func priceFor(name string) decimal.Decimal {
	p, ok := prices[name]
	if !ok {
		p = fallbackPrice
	}
	return decimal.RequireFromString(p)
}

// Add puts quantity of an item into the cart, merging with an existing
// line of the same name.
func (c *Cart) Add(name string, quantity int) (Item, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Item{}, fmt.Errorf("grocery: item name is required")
	}
	if quantity <= 0 {
		return Item{}, fmt.Errorf("grocery: quantity must be positive, got %d", quantity)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		item = Item{Name: key, UnitPrice: priceFor(key)}
	}
	item.Quantity += quantity
	c.items[key] = item
	return item, nil
}

// Remove deletes an item line. Returns false if it wasn't in the cart.
func (c *Cart) Remove(name string) bool {
	key := strings.ToLower(strings.TrimSpace(name))

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; !ok {
		return false
	}
	delete(c.items, key)
	return true
}

// Items returns the cart lines sorted by name.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Item, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Total returns the cart total.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Checkout turns the cart into a delivery and empties it.
func (c *Cart) Checkout() (Delivery, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) == 0 {
		return Delivery{}, ErrEmptyCart
	}

	items := make([]Item, 0, len(c.items))
	total := decimal.Zero
	for _, item := range c.items {
		items = append(items, item)
		total = total.Add(item.Subtotal())
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	d := Delivery{
		ID:       uuid.New().String(),
		PlacedAt: c.now(),
		Total:    total,
		Items:    items,
	}
	c.delivery = &d
	c.items = make(map[string]Item)
	return d, nil
}

// LastDelivery returns the most recent checkout, if any.
func (c *Cart) LastDelivery() (Delivery, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.delivery == nil {
		return Delivery{}, false
	}
	return *c.delivery, true
}
