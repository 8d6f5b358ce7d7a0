package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"storefront-console/internal/core/logger"
	"storefront-console/internal/features/catalog/domain"
	"storefront-console/internal/features/catalog/ports"

	"go.uber.org/zap"
)

var (
	// ErrImageUploadFailed is returned when any image upload fails; the
	// catalog mutation is not attempted.
	ErrImageUploadFailed = errors.New("image upload failed")
	// ErrFetchFailed is returned when the product list could not be loaded.
	ErrFetchFailed = errors.New("failed to fetch products")
)

// ImageFile is one image selected for upload.
type ImageFile struct {
	// Name is the original filename.
	Name string
	// Content is the file body.
	Content io.Reader
}

// CatalogService orchestrates product CRUD against the catalog store and
// enforces the image publishing policy.
type CatalogService struct {
	store ports.CatalogStore
	host  ports.AssetHost
	log   *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(store ports.CatalogStore, host ports.AssetHost) *CatalogService {
	return &CatalogService{
		store: store,
		host:  host,
		log:   logger.Named("catalog"),
	}
}

// ListProducts returns the seller's products.
func (s *CatalogService) ListProducts(ctx context.Context, sellerID string) ([]domain.Product, error) {
	products, err := s.store.ListProducts(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return products, nil
}

// CreateProduct publishes a new product: validate the image count, upload
// every file, then submit metadata referencing the hosted URLs. Nothing is
// written to the catalog unless all uploads succeed.
func (s *CatalogService) CreateProduct(ctx context.Context, sellerID string, p domain.Product, images []ImageFile) (*domain.Product, error) {
	if err := domain.ValidateImageCount(len(images)); err != nil {
		return nil, err
	}

	urls, err := s.uploadAll(ctx, images)
	if err != nil {
		return nil, err
	}
	p.Images = urls

	created, err := s.store.CreateProduct(ctx, sellerID, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.log.Info("Product created",
		zap.String("seller_id", sellerID),
		zap.String("product_id", created.ID),
		zap.Int("images", len(created.Images)),
	)

	return created, nil
}

// UpdateProduct replaces a product's metadata. When images are provided they
// replace the existing set under the same minimum-count gate; with no images
// the current set is kept untouched.
func (s *CatalogService) UpdateProduct(ctx context.Context, sellerID, productID string, p domain.Product, images []ImageFile) (*domain.Product, error) {
	if len(images) > 0 {
		if err := domain.ValidateImageCount(len(images)); err != nil {
			return nil, err
		}

		urls, err := s.uploadAll(ctx, images)
		if err != nil {
			return nil, err
		}
		p.Images = urls
	}

	updated, err := s.store.UpdateProduct(ctx, sellerID, productID, p)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return updated, nil
}

// DeleteProduct removes a product from the catalog.
func (s *CatalogService) DeleteProduct(ctx context.Context, sellerID, productID string) error {
	if err := s.store.DeleteProduct(ctx, sellerID, productID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// uploadAll sends every file to the asset host, one request per file. A
// single failure or a short URL list aborts the whole operation.
func (s *CatalogService) uploadAll(ctx context.Context, images []ImageFile) ([]string, error) {
	urls := make([]string, 0, len(images))

	for _, img := range images {
		url, err := s.host.Upload(ctx, img.Name, img.Content)
		if err != nil {
			s.log.Error("Image upload failed",
				zap.String("file", img.Name),
				zap.Error(err),
			)
			return nil, fmt.Errorf("%w: %s", ErrImageUploadFailed, img.Name)
		}
		urls = append(urls, url)
	}

	if len(urls) < len(images) {
		return nil, ErrImageUploadFailed
	}

	return urls, nil
}
