// Package merchant implements the catalog and order store behind the
// ShopBot demo agent: keyword search over a static product catalog and
// an append-only, JSON-backed order log.
package merchant

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a single catalog entry. Products are immutable: the
// catalog is loaded once at startup and never mutated at runtime.
type Product struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Category   string            `json:"category"`
	Price      decimal.Decimal   `json:"price"`
	Currency   string            `json:"currency"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// searchText returns the lowercased blob a keyword query matches
// against: name, category, and every attribute value. Attribute keys
// are sorted so the blob is deterministic.
func (p Product) searchText() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(p.Name))
	b.WriteByte(' ')
	b.WriteString(strings.ToLower(p.Category))

	keys := make([]string, 0, len(p.Attributes))
	for k := range p.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(strings.ToLower(p.Attributes[k]))
	}
	return b.String()
}

// Catalog is an immutable set of products, injected at construction.
type Catalog struct {
	products []Product
}

// NewCatalog creates a catalog from a product slice. The slice is
// copied; callers cannot mutate the catalog afterwards.
func NewCatalog(products []Product) *Catalog {
	copied := make([]Product, len(products))
	copy(copied, products)
	return &Catalog{products: copied}
}

// LoadCatalog reads a product list from a JSON file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("merchant: read catalog: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("merchant: parse catalog: %w", err)
	}

	return NewCatalog(products), nil
}

// Products returns a copy of the full product list in catalog order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products in the catalog.
func (c *Catalog) Len() int {
	return len(c.products)
}

// priceCleaner strips the currency noise models tend to pass along
// with a price filter ("$100", "1,200").
var priceCleaner = strings.NewReplacer("$", "", ",", "")

// Search filters the catalog. All filters are optional:
//
//   - category keeps products whose category contains it
//     (case-insensitive substring)
//   - maxPrice is parsed tolerantly ("$100", "100", "100.00" are
//     equivalent); an unparsable value silently disables the filter
//   - query is split into whitespace-separated terms; a product matches
//     when every term appears somewhere in its name, category, or
//     attribute values (case-insensitive, AND semantics)
//
// Results keep their original catalog order. Search never mutates the
// catalog and has no side effects.
func (c *Catalog) Search(query, category, maxPrice string) []Product {
	results := c.products

	if category != "" {
		cat := strings.ToLower(category)
		var filtered []Product
		for _, p := range results {
			if strings.Contains(strings.ToLower(p.Category), cat) {
				filtered = append(filtered, p)
			}
		}
		results = filtered
	}

	if maxPrice != "" {
		cleaned := strings.TrimSpace(priceCleaner.Replace(maxPrice))
		if max, err := decimal.NewFromString(cleaned); err == nil {
			var filtered []Product
			for _, p := range results {
				if p.Price.LessThanOrEqual(max) {
					filtered = append(filtered, p)
				}
			}
			results = filtered
		}
		// An unparsable price filter is ignored, not an error: the
		// model sometimes passes things like "around fifty bucks".
	}

	if query != "" {
		terms := strings.Fields(strings.ToLower(query))
		var filtered []Product
		for _, p := range results {
			text := p.searchText()
			match := true
			for _, term := range terms {
				if !strings.Contains(text, term) {
					match = false
					break
				}
			}
			if match {
				filtered = append(filtered, p)
			}
		}
		results = filtered
	}

	out := make([]Product, len(results))
	copy(out, results)
	return out
}

// FindByName resolves a free-text product name by case-insensitive
// substring match against catalog names. First match wins; ambiguous
// matches are not disambiguated.
func (c *Catalog) FindByName(name string) (Product, bool) {
	needle := strings.ToLower(name)
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			return p, true
		}
	}
	return Product{}, false
}

// DefaultCatalog returns the built-in demo catalog, used when no
// catalog file is supplied.
func DefaultCatalog() *Catalog {
	d := func(s string) decimal.Decimal {
		v, _ := decimal.NewFromString(s)
		return v
	}

	return NewCatalog([]Product{
		{
			ID: "p1", Name: "Developer Hoodie", Category: "clothing",
			Price: d("45"), Currency: "USD",
			Attributes: map[string]string{"color": "black", "material": "cotton"},
		},
		{
			ID: "p2", Name: "Mechanical Keyboard", Category: "electronics",
			Price: d("129.99"), Currency: "USD",
			Attributes: map[string]string{"switches": "brown", "layout": "tenkeyless"},
		},
		{
			ID: "p3", Name: "Espresso Mug", Category: "home",
			Price: d("14.50"), Currency: "USD",
			Attributes: map[string]string{"color": "white", "capacity": "90ml"},
		},
		{
			ID: "p4", Name: "Noise-Cancelling Headphones", Category: "electronics",
			Price: d("249"), Currency: "USD",
			Attributes: map[string]string{"color": "black", "connectivity": "bluetooth"},
		},
		{
			ID: "p5", Name: "Canvas Tote Bag", Category: "clothing",
			Price: d("19.99"), Currency: "USD",
			Attributes: map[string]string{"color": "natural", "material": "canvas"},
		},
		{
			ID: "p6", Name: "Desk Plant Kit", Category: "home",
			Price: d("32"), Currency: "USD",
			Attributes: map[string]string{"plant": "succulent", "pot": "ceramic"},
		},
	})
}
