package domain

import (
	"strings"
	"time"
)

// Status represents the lifecycle stage of an order.
// The value is always the normalized (lower-cased) form; raw values that do
// not match a known stage are kept verbatim so they can still be displayed.
type Status string

const (
	// StatusPlaced is the baseline state assigned when the store sends no status.
	StatusPlaced Status = "placed"
	// StatusConfirmed indicates the seller has accepted the order.
	StatusConfirmed Status = "confirmed"
	// StatusShipped indicates the order has been handed to the carrier.
	StatusShipped Status = "shipped"
	// StatusDelivered indicates the order reached the buyer.
	StatusDelivered Status = "delivered"
	// StatusCancelled indicates the order was cancelled before delivery.
	StatusCancelled Status = "cancelled"
	// StatusReturned indicates the buyer sent the order back.
	StatusReturned Status = "returned"
	// StatusRefunded indicates the amount was returned to the buyer.
	StatusRefunded Status = "refunded"
)

// BucketUnknown is the aggregation bucket for statuses outside the enumeration.
const BucketUnknown = "unknown"

var knownStatuses = map[Status]struct{}{
	StatusPlaced:    {},
	StatusConfirmed: {},
	StatusShipped:   {},
	StatusDelivered: {},
	StatusCancelled: {},
	StatusReturned:  {},
	StatusRefunded:  {},
}

// NormalizeStatus canonicalizes a raw status value. Empty input defaults to
// StatusPlaced. The operation is idempotent: normalizing an already
// normalized value returns it unchanged.
func NormalizeStatus(raw string) Status {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return StatusPlaced
	}
	return Status(s)
}

// Known reports whether the status is one of the enumerated lifecycle stages.
func (s Status) Known() bool {
	_, ok := knownStatuses[s]
	return ok
}

// Bucket returns the aggregation key for this status. Known stages bucket
// under their own name, anything else under BucketUnknown. The raw value is
// still available on the order for display.
func (s Status) Bucket() string {
	if s.Known() {
		return string(s)
	}
	return BucketUnknown
}

// IsRefundLike reports whether amounts in this status count toward the refund
// total. Substring match on purpose: upstream vocabularies are inconsistent,
// so "cancelled", "cancel_requested" and "refunded" all qualify.
func (s Status) IsRefundLike() bool {
	return strings.Contains(string(s), "cancel") || strings.Contains(string(s), "refund")
}

// Order represents a single order in the seller's console.
type Order struct {
	// ID is the external order identifier used for mutations. Adapters fall
	// back to a suffix of the store's internal record id when absent.
	ID string `json:"order_id"`
	// Status is the normalized lifecycle stage.
	Status Status `json:"status"`
	// Items contains the ordered line items, possibly empty.
	Items []OrderItem `json:"items"`
	// Total is the resolved monetary total for the order.
	Total float64 `json:"total_amount"`
	// CreatedAt is when the order was placed. Zero means unknown; such
	// orders are excluded from every time-range filter.
	CreatedAt time.Time `json:"created_at"`
	// ShippingAddress is a flattened display form of the destination.
	ShippingAddress string `json:"shipping_address,omitempty"`
	// PaymentStatus is a free-form descriptor from the store.
	PaymentStatus string `json:"payment_status,omitempty"`
	// PaymentMethod is a free-form descriptor from the store.
	PaymentMethod string `json:"payment_method,omitempty"`
}

// OrderItem represents an individual line within an order. Price and
// Subtotal are reconciled at the store boundary, so both are always set when
// either was derivable.
type OrderItem struct {
	// Name is the product display name.
	Name string `json:"name"`
	// Brand is the product brand, if the store supplied one.
	Brand string `json:"brand,omitempty"`
	// Quantity is the number of units, at least 1.
	Quantity int `json:"quantity"`
	// Price is the per-unit price.
	Price float64 `json:"price"`
	// Subtotal is the line total.
	Subtotal float64 `json:"subtotal"`
}
