package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"storefront-console/internal/features/catalog/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCatalogStore is a mock implementation of the CatalogStore port.
type mockCatalogStore struct {
	products  []domain.Product
	listErr   error
	createErr error
	updateErr error
	deleteErr error

	createCalls int
	lastCreated domain.Product
}

func (m *mockCatalogStore) ListProducts(ctx context.Context, sellerID string) ([]domain.Product, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.products, nil
}

func (m *mockCatalogStore) CreateProduct(ctx context.Context, sellerID string, p domain.Product) (*domain.Product, error) {
	m.createCalls++
	m.lastCreated = p
	if m.createErr != nil {
		return nil, m.createErr
	}
	created := p
	created.ID = "P-NEW"
	return &created, nil
}

func (m *mockCatalogStore) UpdateProduct(ctx context.Context, sellerID, productID string, p domain.Product) (*domain.Product, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	updated := p
	updated.ID = productID
	return &updated, nil
}

func (m *mockCatalogStore) DeleteProduct(ctx context.Context, sellerID, productID string) error {
	return m.deleteErr
}

// mockAssetHost is a mock implementation of the AssetHost port.
type mockAssetHost struct {
	failOn      string
	uploadCalls int
}

func (m *mockAssetHost) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	m.uploadCalls++
	if filename == m.failOn {
		return "", errors.New("host unavailable")
	}
	return "https://cdn.test/" + filename, nil
}

func images(names ...string) []ImageFile {
	files := make([]ImageFile, 0, len(names))
	for _, n := range names {
		files = append(files, ImageFile{Name: n, Content: strings.NewReader("bytes")})
	}
	return files
}

// TestCatalogService_CreateProduct_Success verifies the upload-then-submit flow.
func TestCatalogService_CreateProduct_Success(t *testing.T) {
	store := &mockCatalogStore{}
	host := &mockAssetHost{}
	svc := NewCatalogService(store, host)

	created, err := svc.CreateProduct(context.Background(), "seller-1",
		domain.Product{Name: "Mug", Price: 12, Stock: 4},
		images("a.jpg", "b.jpg", "c.jpg"))

	require.NoError(t, err)
	assert.Equal(t, "P-NEW", created.ID)
	assert.Equal(t, 3, host.uploadCalls)
	assert.Equal(t, []string{
		"https://cdn.test/a.jpg",
		"https://cdn.test/b.jpg",
		"https://cdn.test/c.jpg",
	}, store.lastCreated.Images)
}

// TestCatalogService_CreateProduct_InsufficientImages verifies the minimum
// image gate blocks the whole operation.
func TestCatalogService_CreateProduct_InsufficientImages(t *testing.T) {
	store := &mockCatalogStore{}
	host := &mockAssetHost{}
	svc := NewCatalogService(store, host)

	created, err := svc.CreateProduct(context.Background(), "seller-1",
		domain.Product{Name: "Mug"},
		images("a.jpg", "b.jpg"))

	assert.Nil(t, created)
	assert.ErrorIs(t, err, domain.ErrInsufficientImages)
	assert.Equal(t, 0, host.uploadCalls)
	assert.Equal(t, 0, store.createCalls)
}

// TestCatalogService_CreateProduct_UploadFailure verifies that a failed
// upload aborts before any catalog mutation.
func TestCatalogService_CreateProduct_UploadFailure(t *testing.T) {
	store := &mockCatalogStore{}
	host := &mockAssetHost{failOn: "b.jpg"}
	svc := NewCatalogService(store, host)

	created, err := svc.CreateProduct(context.Background(), "seller-1",
		domain.Product{Name: "Mug"},
		images("a.jpg", "b.jpg", "c.jpg"))

	assert.Nil(t, created)
	assert.ErrorIs(t, err, ErrImageUploadFailed)
	assert.Equal(t, 0, store.createCalls)
}

// TestCatalogService_UpdateProduct_KeepsImagesWhenNoneProvided verifies a
// metadata-only update skips the image pipeline.
func TestCatalogService_UpdateProduct_KeepsImagesWhenNoneProvided(t *testing.T) {
	store := &mockCatalogStore{}
	host := &mockAssetHost{}
	svc := NewCatalogService(store, host)

	updated, err := svc.UpdateProduct(context.Background(), "seller-1", "P1",
		domain.Product{Name: "Renamed", Price: 15, Stock: 9}, nil)

	require.NoError(t, err)
	assert.Equal(t, "P1", updated.ID)
	assert.Equal(t, 0, host.uploadCalls)
}

// TestCatalogService_UpdateProduct_ReplaceImagesGate verifies replacement is
// held to the same minimum count.
func TestCatalogService_UpdateProduct_ReplaceImagesGate(t *testing.T) {
	store := &mockCatalogStore{}
	host := &mockAssetHost{}
	svc := NewCatalogService(store, host)

	updated, err := svc.UpdateProduct(context.Background(), "seller-1", "P1",
		domain.Product{Name: "Renamed"}, images("only.jpg"))

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, domain.ErrInsufficientImages)
	assert.Equal(t, 0, host.uploadCalls)
}

// TestCatalogService_ListProducts_FetchFailed verifies read-error wrapping.
func TestCatalogService_ListProducts_FetchFailed(t *testing.T) {
	store := &mockCatalogStore{listErr: errors.New("store down")}
	svc := NewCatalogService(store, &mockAssetHost{})

	products, err := svc.ListProducts(context.Background(), "seller-1")

	assert.Nil(t, products)
	assert.ErrorIs(t, err, ErrFetchFailed)
}

// TestCatalogService_DeleteProduct verifies delete passthrough.
func TestCatalogService_DeleteProduct(t *testing.T) {
	svc := NewCatalogService(&mockCatalogStore{}, &mockAssetHost{})
	assert.NoError(t, svc.DeleteProduct(context.Background(), "seller-1", "P1"))

	svc = NewCatalogService(&mockCatalogStore{deleteErr: errors.New("nope")}, &mockAssetHost{})
	assert.Error(t, svc.DeleteProduct(context.Background(), "seller-1", "P1"))
}
