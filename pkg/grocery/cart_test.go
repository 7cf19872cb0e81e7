package grocery

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/velvetlabs/chorus/pkg/agent"
)

func TestAddMergesLines(t *testing.T) {
	c := NewCart()

	if _, err := c.Add("Milk", 1); err != nil {
		t.Fatal(err)
	}
	item, err := c.Add("milk", 2)
	if err != nil {
		t.Fatal(err)
	}
	if item.Quantity != 3 {
		t.Fatalf("merged quantity = %d, want 3", item.Quantity)
	}
	if len(c.Items()) != 1 {
		t.Fatalf("cart has %d lines, want 1", len(c.Items()))
	}
}

func TestAddValidation(t *testing.T) {
	c := NewCart()

	if _, err := c.Add("", 1); err == nil {
		t.Error("empty item name accepted")
	}
	if _, err := c.Add("milk", 0); err == nil {
		t.Error("zero quantity accepted")
	}
	if len(c.Items()) != 0 {
		t.Fatal("rejected adds left items in the cart")
	}
}

func TestUnknownItemGetsFallbackPrice(t *testing.T) {
	c := NewCart()

	item, err := c.Add("dragonfruit", 1)
	if err != nil {
		t.Fatal(err)
	}
	if !item.UnitPrice.Equal(decimal.RequireFromString(fallbackPrice)) {
		t.Fatalf("unknown item price = %s, want %s", item.UnitPrice, fallbackPrice)
	}
}

func TestTotalAndRemove(t *testing.T) {
	c := NewCart()
	c.Add("milk", 2)   // 7.00
	c.Add("coffee", 1) // 9.90

	want := decimal.RequireFromString("16.90")
	if !c.Total().Equal(want) {
		t.Fatalf("total = %s, want %s", c.Total(), want)
	}

	if !c.Remove("milk") {
		t.Fatal("Remove(milk) reported missing")
	}
	if c.Remove("milk") {
		t.Fatal("second Remove(milk) reported success")
	}
	if !c.Total().Equal(decimal.RequireFromString("9.90")) {
		t.Fatalf("total after remove = %s", c.Total())
	}
}

func TestCheckoutEmptiesCart(t *testing.T) {
	c := NewCart()

	if _, err := c.Checkout(); err != ErrEmptyCart {
		t.Fatalf("empty checkout err = %v, want ErrEmptyCart", err)
	}

	c.Add("bread", 1)
	c.Add("eggs", 2)

	d, err := c.Checkout()
	if err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}
	if d.ID == "" {
		t.Error("delivery has no ID")
	}
	want := decimal.RequireFromString("11.20")
	if !d.Total.Equal(want) {
		t.Errorf("delivery total = %s, want %s", d.Total, want)
	}
	if len(d.Items) != 2 {
		t.Errorf("delivery has %d items, want 2", len(d.Items))
	}

	if len(c.Items()) != 0 {
		t.Fatal("cart not emptied after checkout")
	}
	if got, ok := c.LastDelivery(); !ok || got.ID != d.ID {
		t.Fatal("LastDelivery does not return the checkout")
	}
}

func TestDeliveryStatusTimeline(t *testing.T) {
	placed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	d := Delivery{PlacedAt: placed}

	cases := []struct {
		elapsed time.Duration
		want    string
	}{
		{0, StatusConfirmed},
		{10 * time.Second, StatusConfirmed},
		{30 * time.Second, StatusShopping},
		{90 * time.Second, StatusShopping},
		{2 * time.Minute, StatusOutForDelivery},
		{4 * time.Minute, StatusOutForDelivery},
		{5 * time.Minute, StatusDelivered},
		{time.Hour, StatusDelivered},
	}
	for _, tc := range cases {
		if got := d.Status(placed.Add(tc.elapsed)); got != tc.want {
			t.Errorf("Status after %s = %s, want %s", tc.elapsed, got, tc.want)
		}
	}
}

func TestCartConcurrent(t *testing.T) {
	c := NewCart()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add("milk", 1)
			c.Items()
			c.Total()
		}()
	}
	wg.Wait()

	items := c.Items()
	if len(items) != 1 || items[0].Quantity != 8 {
		t.Fatalf("after concurrent adds: %+v", items)
	}
}

func TestGroceryTools(t *testing.T) {
	cart := NewCart()
	tools := Tools(cart)

	byName := make(map[string]agent.Tool, len(tools))
	for _, tool := range tools {
		byName[tool.Name] = tool
	}
	for _, name := range []string{"add_to_cart", "remove_from_cart", "view_cart", "checkout", "delivery_status"} {
		if byName[name].Handler == nil {
			t.Fatalf("tool %s not registered", name)
		}
	}

	out, err := byName["delivery_status"].Handler(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "don't have an active order") {
		t.Errorf("no-order status = %q", out)
	}

	out, err = byName["add_to_cart"].Handler(map[string]any{"item": "Milk", "quantity": float64(2)})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "2x milk") {
		t.Errorf("add reply = %q", out)
	}

	out, err = byName["view_cart"].Handler(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Total: $7") {
		t.Errorf("view reply = %q", out)
	}

	out, err = byName["checkout"].Handler(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Order placed!") {
		t.Errorf("checkout reply = %q", out)
	}

	// Fresh order reports as confirmed.
	out, err = byName["delivery_status"].Handler(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "confirmed") {
		t.Errorf("status reply = %q", out)
	}

	// Advance the clock past the delivered threshold.
	cart.now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	out, err = byName["delivery_status"].Handler(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "delivered") {
		t.Errorf("late status reply = %q", out)
	}
}
