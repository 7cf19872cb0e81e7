package grocery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/velvetlabs/chorus/internal/log"
	"github.com/velvetlabs/chorus/pkg/agent"
)

// Instructions is the GroceryBot persona prompt.
const Instructions = `You are 'GroceryBot', a voice assistant for grocery shopping.

YOUR JOB:
Build the user's cart, check them out, and keep them posted on their
delivery.

CAPABILITIES:
1. Use add_to_cart when the user asks for an item ("two litres of milk"
   means add_to_cart(item="milk", quantity=2)).
2. Use remove_from_cart when they change their mind.
3. Use view_cart before checkout so they can confirm.
4. Use checkout only after the user confirms the order.
5. Use delivery_status when they ask where their order is.

IMPORTANT: Always confirm the cart contents and total before checking
out. Never invent delivery times beyond what the status tool reports.

TONE: Quick, friendly, and helpful.`

// statusLine maps a delivery status to what the agent tells the user.
func statusLine(status string) string {
	switch status {
	case StatusConfirmed:
		return "Your order is confirmed and the store has it in the queue."
	case StatusShopping:
		return "A shopper is picking your items right now."
	case StatusOutForDelivery:
		return "Your order is out for delivery!"
	case StatusDelivered:
		return "Your order has been delivered. Enjoy!"
	default:
		return "I can't tell where your order is right now."
	}
}

// Tools returns the GroceryBot function tools bound to cart.
func Tools(cart *Cart) []agent.Tool {
	return []agent.Tool{
		{
			Name:        "add_to_cart",
			Description: "Add an item to the shopping cart.",
			Parameters: map[string]any{
				"item": map[string]any{
					"type":        "string",
					"description": "Item name (e.g. 'milk', 'bread')",
				},
				"quantity": map[string]any{
					"type":        "integer",
					"description": "How many to add",
				},
			},
			Handler: func(args map[string]any) (string, error) {
				name := agent.StringArg(args, "item")
				quantity := agent.IntArg(args, "quantity", 1)

				if name == "" {
					return "What would you like to add?", nil
				}

				item, err := cart.Add(name, quantity)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Added. You now have %dx %s ($%s each).",
					item.Quantity, item.Name, item.UnitPrice.String()), nil
			},
		},
		{
			Name:        "remove_from_cart",
			Description: "Remove an item from the shopping cart.",
			Parameters: map[string]any{
				"item": map[string]any{
					"type":        "string",
					"description": "Item name to remove",
				},
			},
			Handler: func(args map[string]any) (string, error) {
				name := agent.StringArg(args, "item")
				if !cart.Remove(name) {
					return fmt.Sprintf("There's no %s in your cart.", name), nil
				}
				return fmt.Sprintf("Removed %s from your cart.", name), nil
			},
		},
		{
			Name:        "view_cart",
			Description: "List the cart contents and the running total.",
			Parameters:  map[string]any{},
			Handler: func(args map[string]any) (string, error) {
				items := cart.Items()
				if len(items) == 0 {
					return "Your cart is empty.", nil
				}

				var b strings.Builder
				b.WriteString("In your cart:\n")
				for _, item := range items {
					fmt.Fprintf(&b, "- %dx %s ($%s)\n", item.Quantity, item.Name, item.Subtotal().String())
				}
				fmt.Fprintf(&b, "Total: $%s", cart.Total().String())
				return b.String(), nil
			},
		},
		{
			Name:        "checkout",
			Description: "Place the order for everything in the cart.",
			Parameters:  map[string]any{},
			Handler: func(args map[string]any) (string, error) {
				d, err := cart.Checkout()
				if errors.Is(err, ErrEmptyCart) {
					return "Your cart is empty, nothing to check out.", nil
				}
				if err != nil {
					return "", err
				}

				log.Info("grocery order placed", "delivery_id", d.ID, "total", d.Total.String())
				return fmt.Sprintf("Order placed! Total: $%s. Delivery ID: %s. I'll keep you posted.",
					d.Total.String(), d.ID), nil
			},
		},
		{
			Name:        "delivery_status",
			Description: "Check where the user's latest order is.",
			Parameters:  map[string]any{},
			Handler: func(args map[string]any) (string, error) {
				d, ok := cart.LastDelivery()
				if !ok {
					return "You don't have an active order yet.", nil
				}
				return statusLine(d.Status(cart.now())), nil
			},
		},
	}
}
