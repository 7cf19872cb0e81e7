package merchant

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/velvetlabs/chorus/pkg/agent"
)

func testTools(t *testing.T) ([]agent.Tool, *Store) {
	t.Helper()

	catalog := testCatalog()
	store, err := NewStore(filepath.Join(t.TempDir(), "orders.json"), catalog)
	if err != nil {
		t.Fatal(err)
	}
	return Tools(ToolsConfig{Catalog: catalog, Store: store}), store
}

func findTool(t *testing.T, tools []agent.Tool, name string) agent.Tool {
	t.Helper()
	for _, tool := range tools {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("tool %s not registered", name)
	return agent.Tool{}
}

func TestToolNames(t *testing.T) {
	tools, _ := testTools(t)

	want := []string{"search_catalog", "place_order", "check_last_order"}
	if len(tools) != len(want) {
		t.Fatalf("got %d tools, want %d", len(tools), len(want))
	}
	for _, name := range want {
		findTool(t, tools, name)
	}
}

func TestSearchCatalogTool(t *testing.T) {
	tools, _ := testTools(t)
	search := findTool(t, tools, "search_catalog")

	out, err := search.Handler(map[string]any{"query": "hoodie", "max_price": "$46"})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !strings.Contains(out, "Found these items:") {
		t.Errorf("output missing header: %q", out)
	}
	if !strings.Contains(out, "Black Hoodie ($45)") {
		t.Errorf("output missing match: %q", out)
	}
	if !strings.Contains(out, "color: black") {
		t.Errorf("output missing attributes: %q", out)
	}
	if strings.Contains(out, "Red Hoodie") {
		t.Errorf("price filter leaked through: %q", out)
	}

	out, err = search.Handler(map[string]any{"query": "spaceship"})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if out != "No products found matching those criteria." {
		t.Errorf("empty result message = %q", out)
	}
}

func TestPlaceOrderTool(t *testing.T) {
	tools, store := testTools(t)
	place := findTool(t, tools, "place_order")

	out, err := place.Handler(map[string]any{
		"product_name":  "keyboard",
		"customer_name": "Ada",
		"quantity":      float64(2),
	})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !strings.Contains(out, "Order confirmed!") || !strings.Contains(out, "259.98") {
		t.Errorf("confirmation = %q", out)
	}
	if store.Count() != 1 {
		t.Fatalf("Count = %d, want 1", store.Count())
	}

	// Quantity defaults to 1 when the model omits it.
	if _, err := place.Handler(map[string]any{
		"product_name":  "mug",
		"customer_name": "Ada",
	}); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	order, ok, err := store.LastOrder()
	if err != nil || !ok {
		t.Fatal("expected a second order")
	}
	if order.Items[0].Quantity != 1 {
		t.Errorf("default quantity = %d, want 1", order.Items[0].Quantity)
	}
}

func TestPlaceOrderToolConversationalMisses(t *testing.T) {
	tools, store := testTools(t)
	place := findTool(t, tools, "place_order")

	// Unknown product is a conversational reply, not an error.
	out, err := place.Handler(map[string]any{
		"product_name":  "spaceship",
		"customer_name": "Ada",
	})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !strings.Contains(out, "couldn't find") {
		t.Errorf("miss message = %q", out)
	}
	if store.Count() != 0 {
		t.Fatal("miss wrote an order")
	}

	// Missing arguments prompt for them.
	out, _ = place.Handler(map[string]any{"customer_name": "Ada"})
	if !strings.Contains(out, "Which product") {
		t.Errorf("missing product prompt = %q", out)
	}
	out, _ = place.Handler(map[string]any{"product_name": "mug"})
	if !strings.Contains(out, "name") {
		t.Errorf("missing customer prompt = %q", out)
	}
}

func TestCheckLastOrderTool(t *testing.T) {
	tools, store := testTools(t)
	check := findTool(t, tools, "check_last_order")

	out, err := check.Handler(nil)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if out != "You haven't placed any orders yet." {
		t.Errorf("empty history message = %q", out)
	}

	if _, err := store.CreateOrder("red hoodie", 2, "Grace"); err != nil {
		t.Fatal(err)
	}

	out, err = check.Handler(nil)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !strings.Contains(out, "2x Red Hoodie") || !strings.Contains(out, "Total: $98") {
		t.Errorf("last order message = %q", out)
	}
}

func TestCheckLastOrderToolCorruptLog(t *testing.T) {
	tools, store := testTools(t)
	check := findTool(t, tools, "check_last_order")

	if err := os.WriteFile(store.Path(), []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := check.Handler(nil)
	if err != nil {
		t.Fatalf("corrupt log surfaced as error: %v", err)
	}
	if !strings.Contains(out, "couldn't read") {
		t.Errorf("corrupt log message = %q", out)
	}
}
