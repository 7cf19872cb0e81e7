package merchant

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is a snapshot of one purchased line: the product reference
// plus the name and unit price at purchase time, so later catalog
// changes never rewrite history.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Subtotal returns quantity × unit price for this line.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is an immutable record of a completed purchase. Orders are
// appended to the log exactly once and never mutated afterwards.
//
// Invariants: Items is never empty, and TotalAmount equals the sum of
// the item subtotals at creation time.
type Order struct {
	ID          string          `json:"order_id"`
	CreatedAt   time.Time       `json:"timestamp"`
	Customer    string          `json:"customer"`
	Items       []OrderItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
}

// StatusConfirmed is the status every new order is created with.
const StatusConfirmed = "confirmed"

// Sentinel errors for the merchant package.
var (
	// ErrInvalidQuantity indicates a non-positive order quantity.
	ErrInvalidQuantity = errors.New("merchant: quantity must be positive")
)

// NotFoundError indicates a product name matched nothing in the
// catalog. It is an error value returned across the component
// boundary, never a panic.
type NotFoundError struct {
	Product string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("merchant: no product matching %q", e.Product)
}

// IsNotFound reports whether err is a product lookup miss.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// CorruptLogError indicates the order log exists but cannot be parsed.
// Reads surface it so callers can distinguish "no orders yet" from
// "log unreadable"; writes recover by treating the log as empty.
type CorruptLogError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *CorruptLogError) Error() string {
	return fmt.Sprintf("merchant: order log %s is corrupt: %v", e.Path, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *CorruptLogError) Unwrap() error {
	return e.Err
}

// IsCorruptLog reports whether err is an unreadable order log.
func IsCorruptLog(err error) bool {
	var cl *CorruptLogError
	return errors.As(err, &cl)
}
