package ports

import (
	"context"
	"io"

	"storefront-console/internal/features/catalog/domain"
)

// CatalogStore defines the interface for the external catalog-store
// collaborator. This is a Secondary Port (Driven Port).
type CatalogStore interface {
	// ListProducts retrieves every product belonging to a seller.
	ListProducts(ctx context.Context, sellerID string) ([]domain.Product, error)

	// CreateProduct submits a new product; Images must already be hosted URLs.
	CreateProduct(ctx context.Context, sellerID string, p domain.Product) (*domain.Product, error)

	// UpdateProduct replaces a product's metadata.
	UpdateProduct(ctx context.Context, sellerID, productID string, p domain.Product) (*domain.Product, error)

	// DeleteProduct removes a product from the catalog.
	DeleteProduct(ctx context.Context, sellerID, productID string) error
}

// AssetHost defines the interface for the image-hosting collaborator.
// One file per call; the returned string is the hosted URL.
type AssetHost interface {
	Upload(ctx context.Context, filename string, content io.Reader) (string, error)
}
