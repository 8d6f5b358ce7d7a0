package ports

import (
	"context"

	"storefront-console/internal/features/orders/domain"
)

// OrderStore defines the interface for the external order-store collaborator.
// This is a Secondary Port (Driven Port).
type OrderStore interface {
	// ListOrders retrieves every order belonging to a seller.
	ListOrders(ctx context.Context, sellerID string) ([]domain.Order, error)

	// UpdateStatus requests a status change for one order and returns the
	// authoritative updated record from the store.
	UpdateStatus(ctx context.Context, orderID string, status domain.Status) (*domain.Order, error)
}
