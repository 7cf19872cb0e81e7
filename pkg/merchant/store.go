package merchant

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/velvetlabs/chorus/internal/log"
)

// Store persists the order log. Every write is a locked
// read-modify-write cycle finished with an atomic rename, so concurrent
// tool handlers cannot lose orders and a crashed write never truncates
// the log.
type Store struct {
	path    string
	catalog *Catalog
	mu      sync.Mutex

	// now is swappable for tests.
	now func() time.Time
}

// NewStore creates an order store writing to path, resolving products
// against catalog. The log file is created on first order.
func NewStore(path string, catalog *Catalog) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("merchant: create order log directory: %w", err)
		}
	}

	return &Store{
		path:    path,
		catalog: catalog,
		now:     time.Now,
	}, nil
}

// Path returns the order log file path.
func (s *Store) Path() string {
	return s.path
}

// CreateOrder resolves productName against the catalog, builds an
// order, and appends it to the log. A name that matches nothing returns
// *NotFoundError and writes nothing.
func (s *Store) CreateOrder(productName string, quantity int, customer string) (Order, error) {
	if quantity <= 0 {
		return Order{}, fmt.Errorf("%w, got %d", ErrInvalidQuantity, quantity)
	}

	product, ok := s.catalog.FindByName(productName)
	if !ok {
		return Order{}, &NotFoundError{Product: productName}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A corrupt log must not block new orders; recover by starting over
	// from empty, loudly.
	existing, err := s.readLog()
	if err != nil {
		log.Warn("order log unreadable, starting a fresh log", "path", s.path, "error", err)
		existing = nil
	}

	now := s.now()
	item := OrderItem{
		ProductID: product.ID,
		Name:      product.Name,
		Quantity:  quantity,
		UnitPrice: product.Price,
	}

	order := Order{
		ID:          s.nextID(existing, now),
		CreatedAt:   now,
		Customer:    customer,
		Items:       []OrderItem{item},
		TotalAmount: item.Subtotal(),
		Currency:    product.Currency,
		Status:      StatusConfirmed,
	}

	existing = append(existing, order)
	if err := s.writeLog(existing); err != nil {
		return Order{}, err
	}

	log.Info("order created",
		"order_id", order.ID,
		"product", product.Name,
		"quantity", quantity,
		"total", order.TotalAmount.String(),
	)
	return order, nil
}

// LastOrder returns the most recent order. ok is false when the log is
// missing or empty; a log that exists but cannot be parsed returns a
// *CorruptLogError so callers can tell the two apart.
func (s *Store) LastOrder() (Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.readLog()
	if err != nil {
		return Order{}, false, err
	}
	if len(orders) == 0 {
		return Order{}, false, nil
	}
	return orders[len(orders)-1], true, nil
}

// Orders returns the full order log, oldest first.
func (s *Store) Orders() ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLog()
}

// Count returns the number of persisted orders, ignoring a corrupt log.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.readLog()
	if err != nil {
		return 0
	}
	return len(orders)
}

// nextID derives a time-based order ID, suffixed when two orders land
// in the same second.
func (s *Store) nextID(existing []Order, now time.Time) string {
	base := fmt.Sprintf("ORD-%d", now.Unix())

	taken := make(map[string]bool, len(existing))
	for _, o := range existing {
		taken[o.ID] = true
	}

	if !taken[base] {
		return base
	}
	for n := 2; ; n++ {
		id := fmt.Sprintf("%s-%d", base, n)
		if !taken[id] {
			return id
		}
	}
}

// readLog loads the persisted order list. Callers must hold s.mu.
func (s *Store) readLog() ([]Order, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("merchant: read order log: %w", err)
	}

	var orders []Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, &CorruptLogError{Path: s.path, Err: err}
	}
	return orders, nil
}

// writeLog rewrites the whole log via temp file + rename. Callers must
// hold s.mu.
func (s *Store) writeLog(orders []Order) error {
	data, err := json.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("merchant: marshal order log: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("merchant: write order log: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("merchant: replace order log: %w", err)
	}
	return nil
}
