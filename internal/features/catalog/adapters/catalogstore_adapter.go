package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"storefront-console/internal/core/config"
	"storefront-console/internal/core/httpclient"
	"storefront-console/internal/features/catalog/domain"
)

// CatalogStoreAdapter implements the CatalogStore port against the
// catalog-store REST API. The stock/quantity alias is resolved here so the
// rest of the system only sees the canonical Stock field.
type CatalogStoreAdapter struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// config holds the catalog store connection details.
	config config.CatalogStoreConfig
}

// NewCatalogStoreAdapter creates a new instance of CatalogStoreAdapter.
func NewCatalogStoreAdapter(cfg config.CatalogStoreConfig, timeout time.Duration) *CatalogStoreAdapter {
	return &CatalogStoreAdapter{
		client: httpclient.NewBearerClient(timeout, cfg.Token),
		config: cfg,
	}
}

// ListProducts fetches all products for a seller.
func (a *CatalogStoreAdapter) ListProducts(ctx context.Context, sellerID string) ([]domain.Product, error) {
	url := fmt.Sprintf("%s/sellers/%s/products", a.config.URL, sellerID)

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
		return nil, fmt.Errorf("catalog store returned status: %d", resp.StatusCode)
	}

	var raw []storeProduct
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	products := make([]domain.Product, 0, len(raw))
	for _, r := range raw {
		products = append(products, mapProduct(r))
	}
	return products, nil
}

// CreateProduct submits a new product to the catalog store.
func (a *CatalogStoreAdapter) CreateProduct(ctx context.Context, sellerID string, p domain.Product) (*domain.Product, error) {
	url := fmt.Sprintf("%s/sellers/%s/products", a.config.URL, sellerID)
	return a.submit(ctx, http.MethodPost, url, p)
}

// UpdateProduct replaces a product's metadata.
func (a *CatalogStoreAdapter) UpdateProduct(ctx context.Context, sellerID, productID string, p domain.Product) (*domain.Product, error) {
	url := fmt.Sprintf("%s/sellers/%s/products/%s", a.config.URL, sellerID, productID)
	return a.submit(ctx, http.MethodPut, url, p)
}

// DeleteProduct removes a product from the catalog.
func (a *CatalogStoreAdapter) DeleteProduct(ctx context.Context, sellerID, productID string) error {
	url := fmt.Sprintf("%s/sellers/%s/products/%s", a.config.URL, sellerID, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		if resp.StatusCode == http.StatusNotFound {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("catalog store returned status: %d", resp.StatusCode)
	}
	return nil
}

// submit sends a product payload and decodes the authoritative record.
func (a *CatalogStoreAdapter) submit(ctx context.Context, method, url string, p domain.Product) (*domain.Product, error) {
	body, err := json.Marshal(productPayload{
		Name:     p.Name,
		Category: p.Category,
		Brand:    p.Brand,
		Price:    p.Price,
		Stock:    p.Stock,
		Images:   p.Images,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("catalog store returned status: %d", resp.StatusCode)
	}

	var raw storeProduct
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	product := mapProduct(raw)
	return &product, nil
}

// mapProduct converts a raw store product into the canonical domain entity.
func mapProduct(r storeProduct) domain.Product {
	return domain.Product{
		ID:       r.ProductID,
		Name:     r.Name,
		Category: r.Category,
		Brand:    r.Brand,
		Price:    r.Price,
		Stock:    resolveStock(r),
		Images:   r.Images,
	}
}

// resolveStock picks stock over the legacy quantity alias, defaulting to 0
// and clamping negatives.
func resolveStock(r storeProduct) int {
	var n int
	switch {
	case r.Stock != nil:
		n = *r.Stock
	case r.Quantity != nil:
		n = *r.Quantity
	}
	if n < 0 {
		return 0
	}
	return n
}

// productPayload is the write shape; only canonical field names are sent.
type productPayload struct {
	Name     string   `json:"name"`
	Category string   `json:"category,omitempty"`
	Brand    string   `json:"brand,omitempty"`
	Price    float64  `json:"price"`
	Stock    int      `json:"stock"`
	Images   []string `json:"images"`
}

// storeProduct represents the JSON structure of a product from the catalog
// store, including the legacy quantity alias.
type storeProduct struct {
	// ProductID is the store-assigned identifier.
	ProductID string `json:"productId"`
	// Name is the product name.
	Name string `json:"name"`
	// Category is the catalog category.
	Category string `json:"category"`
	// Brand is the product brand.
	Brand string `json:"brand"`
	// Price is the listed unit price.
	Price float64 `json:"price"`
	// Stock is the preferred stock field.
	Stock *int `json:"stock"`
	// Quantity is the legacy alias for Stock.
	Quantity *int `json:"quantity"`
	// Images holds the hosted image URLs.
	Images []string `json:"images"`
}
