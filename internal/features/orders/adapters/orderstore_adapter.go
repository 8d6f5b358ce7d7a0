package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront-console/internal/core/config"
	"storefront-console/internal/core/httpclient"
	"storefront-console/internal/core/logger"
	"storefront-console/internal/features/orders/domain"

	"go.uber.org/zap"
)

// idSuffixLen is how many trailing characters of the store's internal record
// id are used when the external order id is missing.
const idSuffixLen = 6

// OrderStoreAdapter implements the OrderStore port against the order-store
// REST API. All field-alias handling happens here, so the rest of the system
// only ever sees canonical domain records.
type OrderStoreAdapter struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// config holds the order store connection details.
	config config.OrderStoreConfig
}

// NewOrderStoreAdapter creates a new instance of OrderStoreAdapter.
func NewOrderStoreAdapter(cfg config.OrderStoreConfig, timeout time.Duration) *OrderStoreAdapter {
	return &OrderStoreAdapter{
		client: httpclient.NewBearerClient(timeout, cfg.Token),
		config: cfg,
	}
}

// ListOrders fetches all orders for a seller and maps them to domain entities.
func (a *OrderStoreAdapter) ListOrders(ctx context.Context, sellerID string) ([]domain.Order, error) {
	url := fmt.Sprintf("%s/sellers/%s/orders", a.config.URL, sellerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("order store returned status: %d", resp.StatusCode)
	}

	var raw []storeOrder
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	orders := make([]domain.Order, 0, len(raw))
	for _, r := range raw {
		orders = append(orders, mapToDomain(r))
	}

	return orders, nil
}

// UpdateStatus pushes a status change to the store and returns the
// authoritative updated record.
func (a *OrderStoreAdapter) UpdateStatus(ctx context.Context, orderID string, status domain.Status) (*domain.Order, error) {
	url := fmt.Sprintf("%s/orders/%s/status", a.config.URL, orderID)

	body, err := json.Marshal(statusUpdateRequest{
		OrderID: orderID,
		Status:  string(status),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("order not found: %s", orderID)
		}
		return nil, fmt.Errorf("order store returned status: %d", resp.StatusCode)
	}

	var raw storeOrder
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	order := mapToDomain(raw)
	return &order, nil
}

// HealthCheck verifies that the order store is reachable and the token is valid.
func (a *OrderStoreAdapter) HealthCheck(ctx context.Context) error {
	url := fmt.Sprintf("%s/health", a.config.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("health check failed to create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}

	return nil
}

// mapToDomain converts a raw store order into a canonical domain Order.
func mapToDomain(r storeOrder) domain.Order {
	return domain.Order{
		ID:              resolveID(r),
		Status:          domain.NormalizeStatus(resolveStatus(r)),
		Items:           mapItems(r.Items),
		Total:           resolveAmount(r),
		CreatedAt:       time.Time(r.CreatedAt),
		ShippingAddress: flattenAddress(r.ShippingAddress),
		PaymentStatus:   r.PaymentStatus,
		PaymentMethod:   r.PaymentMethod,
	}
}

// resolveID picks the external order id, falling back to a suffix of the
// internal record id when the store did not assign one.
func resolveID(r storeOrder) string {
	if r.OrderID != "" {
		return r.OrderID
	}
	if r.InternalID == "" {
		return ""
	}
	if len(r.InternalID) <= idSuffixLen {
		return r.InternalID
	}
	return r.InternalID[len(r.InternalID)-idSuffixLen:]
}

// resolveAmount normalizes the order total from heterogeneous field shapes.
// Priority: totalAmount, total_amount, amount. The first value that parses
// to a finite number wins; anything else degrades to 0, never an error.
func resolveAmount(r storeOrder) float64 {
	for _, candidate := range []flexNumber{r.TotalAmount, r.TotalAmountAlt, r.Amount} {
		if candidate.ok {
			return candidate.value
		}
	}
	return 0
}

// resolveStatus extracts a raw status string from the possible shapes the
// store sends: a plain string, an object carrying status/order_status, or a
// top-level order_status alias. Absence resolves to "" and the normalizer
// turns that into the baseline state.
func resolveStatus(r storeOrder) string {
	if len(r.Status) > 0 && string(r.Status) != "null" {
		var s string
		if err := json.Unmarshal(r.Status, &s); err == nil {
			return s
		}

		var obj struct {
			Status      string `json:"status"`
			OrderStatus string `json:"order_status"`
		}
		if err := json.Unmarshal(r.Status, &obj); err == nil {
			if obj.Status != "" {
				return obj.Status
			}
			if obj.OrderStatus != "" {
				return obj.OrderStatus
			}
		}
	}

	return r.OrderStatus
}

// mapItems converts raw line items, reconciling price and subtotal so that
// both are set whenever either was derivable.
func mapItems(raw []storeItem) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(raw))

	for _, it := range raw {
		qty := 1
		if it.Quantity != nil && *it.Quantity > 0 {
			qty = *it.Quantity
		}

		price, subtotal := reconcileLine(it.Price, it.Subtotal, qty)

		name := it.Name
		if name == "" {
			name = it.ProductName
		}
		brand := it.Brand
		if brand == "" {
			brand = it.BrandName
		}

		items = append(items, domain.OrderItem{
			Name:     name,
			Brand:    brand,
			Quantity: qty,
			Price:    price,
			Subtotal: subtotal,
		})
	}

	return items
}

// reconcileLine derives the missing side of the price/subtotal pair.
// Both missing values the line at 0.
func reconcileLine(price, subtotal flexNumber, qty int) (float64, float64) {
	switch {
	case price.ok && subtotal.ok:
		return price.value, subtotal.value
	case price.ok:
		return price.value, price.value * float64(qty)
	case subtotal.ok:
		return subtotal.value / float64(qty), subtotal.value
	default:
		return 0, 0
	}
}

// flattenAddress turns a structured or free-text address into one display line.
func flattenAddress(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}

	parts := make([]string, 0, 6)
	for _, key := range []string{"address", "street", "city", "state", "pincode", "country"} {
		if v, ok := obj[key].(string); ok && v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// statusUpdateRequest is the payload for the status mutation endpoint.
type statusUpdateRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// internal structs for mapping

// storeOrder represents the JSON structure of an order from the order store.
// Several fields arrive under more than one name depending on which upstream
// wrote the record, hence the alias fields and flexible types.
type storeOrder struct {
	// OrderID is the external order identifier.
	OrderID string `json:"orderId"`
	// InternalID is the store's own record id, used as an id fallback.
	InternalID string `json:"_id"`
	// Status may be a string or an object with status/order_status.
	Status json.RawMessage `json:"status"`
	// OrderStatus is a legacy top-level alias for Status.
	OrderStatus string `json:"order_status"`
	// TotalAmount is the preferred total field.
	TotalAmount flexNumber `json:"totalAmount"`
	// TotalAmountAlt is the snake_case alias some upstreams emit.
	TotalAmountAlt flexNumber `json:"total_amount"`
	// Amount is the last-resort total alias.
	Amount flexNumber `json:"amount"`
	// Items contains the ordered products.
	Items []storeItem `json:"items"`
	// CreatedAt is the order creation timestamp.
	CreatedAt storeTime `json:"createdAt"`
	// ShippingAddress is either a string or a structured object.
	ShippingAddress json.RawMessage `json:"shippingAddress"`
	// PaymentStatus is a free-form payment descriptor.
	PaymentStatus string `json:"paymentStatus"`
	// PaymentMethod is a free-form payment descriptor.
	PaymentMethod string `json:"paymentMethod"`
}

// storeItem represents a raw line item with its aliases.
type storeItem struct {
	// Name is the product name.
	Name string `json:"name"`
	// ProductName is an alias for Name.
	ProductName string `json:"product_name"`
	// Brand is the product brand.
	Brand string `json:"brand"`
	// BrandName is an alias for Brand.
	BrandName string `json:"brand_name"`
	// Quantity is the unit count, defaulting to 1 when absent.
	Quantity *int `json:"quantity"`
	// Price is the per-unit price, possibly absent.
	Price flexNumber `json:"price"`
	// Subtotal is the line total, possibly absent.
	Subtotal flexNumber `json:"subtotal"`
}

// flexNumber accepts a JSON number or a numeric string and records whether a
// finite value was present. It never fails decoding: malformed input just
// leaves ok unset, which the resolvers treat as absent.
type flexNumber struct {
	value float64
	ok    bool
}

// UnmarshalJSON parses numbers and numeric strings, rejecting non-finite values.
func (f *flexNumber) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "" || s == "null" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	f.value = v
	f.ok = true
	return nil
}

// storeTime is a custom helper struct to handle the store's date formats.
type storeTime time.Time

// UnmarshalJSON parses RFC3339 timestamps as well as the bare ISO8601 form
// without timezone. Unparseable dates resolve to the zero time rather than
// failing the whole record.
func (t *storeTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "" || s == "null" {
		*t = storeTime(time.Time{})
		return nil
	}

	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		parsed, err = time.Parse("2006-01-02T15:04:05", s)
	}
	if err != nil {
		logger.Get().Warn("Failed to parse date", zap.String("date", s), zap.Error(err))
		return nil
	}
	*t = storeTime(parsed)
	return nil
}
