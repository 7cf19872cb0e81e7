package merchant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/velvetlabs/chorus/pkg/agent"
)

// Instructions is the ShopBot persona prompt sent with the session
// configuration.
const Instructions = `You are 'ShopBot', an AI shopping assistant.

YOUR JOB:
Help users browse the catalog, find deals, and place orders.

CAPABILITIES:
1. Browse: Use search_catalog to find items.
   - If a user asks for "hoodies", search for "hoodie".
   - If they ask for "electronics", use category="electronics".
   - Always call search_catalog when users ask about products.
2. Buy: Use place_order when the user confirms a purchase.
   - Ask for the quantity if not specified.
   - Ask for their name if you don't know it.
3. History: Use check_last_order if they ask "What did I buy?".

IMPORTANT: Always use the tools available to you. Don't just talk about
products - actually search for them.

TONE: Efficient, polite, and transactional.`

// ToolsConfig holds dependencies for the merchant tools.
type ToolsConfig struct {
	Catalog *Catalog
	Store   *Store
}

// Tools returns the ShopBot function tools: catalog search, order
// placement, and last-order lookup.
func Tools(cfg ToolsConfig) []agent.Tool {
	return []agent.Tool{
		{
			Name:        "search_catalog",
			Description: "Search for products in the catalog. Use this whenever a user asks about products.",
			Parameters: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search keyword (e.g. 'hoodie', 'keyboard', 'mug')",
				},
				"category": map[string]any{
					"type":        "string",
					"description": "Category filter: 'clothing', 'electronics', or 'home'",
				},
				"max_price": map[string]any{
					"type":        "string",
					"description": "Maximum price filter in dollars",
				},
			},
			Handler: func(args map[string]any) (string, error) {
				query := agent.StringArg(args, "query")
				category := agent.StringArg(args, "category")
				maxPrice := agent.StringArg(args, "max_price")

				results := cfg.Catalog.Search(query, category, maxPrice)
				if len(results) == 0 {
					return "No products found matching those criteria.", nil
				}

				var b strings.Builder
				b.WriteString("Found these items:\n")
				for _, p := range results {
					fmt.Fprintf(&b, "- %s ($%s) [%s]\n", p.Name, p.Price.String(), formatAttributes(p.Attributes))
				}
				return b.String(), nil
			},
		},
		{
			Name:        "place_order",
			Description: "Place an order for a product and save it to the order log.",
			Parameters: map[string]any{
				"product_name": map[string]any{
					"type":        "string",
					"description": "Name of product to buy",
				},
				"customer_name": map[string]any{
					"type":        "string",
					"description": "Name of the customer",
				},
				"quantity": map[string]any{
					"type":        "integer",
					"description": "Quantity to purchase",
				},
			},
			Handler: func(args map[string]any) (string, error) {
				productName := agent.StringArg(args, "product_name")
				customer := agent.StringArg(args, "customer_name")
				quantity := agent.IntArg(args, "quantity", 1)

				if productName == "" {
					return "Which product would you like to order?", nil
				}
				if customer == "" {
					return "Can I get a name for the order?", nil
				}

				order, err := cfg.Store.CreateOrder(productName, quantity, customer)
				if IsNotFound(err) {
					return fmt.Sprintf("I couldn't find %q in the catalog. Want me to search for something similar?", productName), nil
				}
				if err != nil {
					return "", err
				}

				return fmt.Sprintf("Order confirmed! ID: %s. Total: $%s %s.",
					order.ID, order.TotalAmount.String(), order.Currency), nil
			},
		},
		{
			Name:        "check_last_order",
			Description: "Retrieve the details of the last order placed.",
			Parameters:  map[string]any{},
			Handler: func(args map[string]any) (string, error) {
				order, ok, err := cfg.Store.LastOrder()
				if IsCorruptLog(err) {
					return "I couldn't read your order history just now.", nil
				}
				if err != nil {
					return "", err
				}
				if !ok {
					return "You haven't placed any orders yet.", nil
				}

				item := order.Items[0]
				return fmt.Sprintf("Your last order was for %dx %s on %s. Total: $%s.",
					item.Quantity, item.Name,
					order.CreatedAt.Format("January 2 at 3:04 PM"),
					order.TotalAmount.String()), nil
			},
		},
	}
}

// formatAttributes renders attributes as "color: black, material: cotton".
func formatAttributes(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, attrs[k]))
	}
	return strings.Join(parts, ", ")
}
