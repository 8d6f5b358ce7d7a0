package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"storefront-console/internal/core/logger"
	"storefront-console/internal/features/orders/domain"
	"storefront-console/internal/features/orders/ports"

	"go.uber.org/zap"
)

var (
	// ErrMissingIdentifier is returned when an order carries no external id.
	ErrMissingIdentifier = errors.New("order has no identifier")
	// ErrNotConfirmed is returned when the caller skipped the confirmation gate.
	ErrNotConfirmed = errors.New("status change not confirmed")
	// ErrUpdateInFlight is returned when the same order already has a pending
	// status mutation.
	ErrUpdateInFlight = errors.New("status update already in flight")
	// ErrStatusUpdateFailed is returned when the remote store rejected or
	// failed the mutation; the local record has been rolled back.
	ErrStatusUpdateFailed = errors.New("status update failed")
	// ErrOrderNotFound is returned when the order is not in the snapshot.
	ErrOrderNotFound = errors.New("order not found")
	// ErrFetchFailed is returned when the order list could not be refreshed.
	ErrFetchFailed = errors.New("failed to fetch orders")
)

// OrderService owns the per-seller order snapshots and the status-change
// state machine.
type OrderService struct {
	store ports.OrderStore
	log   *zap.Logger

	mu        sync.Mutex
	snapshots map[string]*Snapshot
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(store ports.OrderStore) *OrderService {
	return &OrderService{
		store:     store,
		log:       logger.Named("orders"),
		snapshots: make(map[string]*Snapshot),
	}
}

// snapshotFor returns the snapshot owned by a seller, creating it on first use.
func (s *OrderService) snapshotFor(sellerID string) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.snapshots[sellerID]
	if !ok {
		snap = NewSnapshot()
		s.snapshots[sellerID] = snap
	}
	return snap
}

// Refresh refetches the seller's orders from the store. On failure the prior
// snapshot is left untouched.
func (s *OrderService) Refresh(ctx context.Context, sellerID string) error {
	orders, err := s.store.ListOrders(ctx, sellerID)
	if err != nil {
		s.log.Error("Order refresh failed",
			zap.String("seller_id", sellerID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	s.snapshotFor(sellerID).ReplaceAll(orders)
	return nil
}

// List returns the seller's orders, refreshing the snapshot first when it has
// never been loaded.
func (s *OrderService) List(ctx context.Context, sellerID string) ([]domain.Order, error) {
	snap := s.snapshotFor(sellerID)

	if snap.Len() == 0 {
		if err := s.Refresh(ctx, sellerID); err != nil {
			return nil, err
		}
	}

	return snap.List(), nil
}

// ChangeStatus applies a status transition for one order: optimistic local
// patch, remote mutation, then either an authoritative merge or a targeted
// rollback of the affected record. The flat status enumeration allows any
// stage to move to any other; what is guarded here is safe application, not
// transition legality.
func (s *OrderService) ChangeStatus(ctx context.Context, sellerID, orderID string, newStatus domain.Status, confirmed bool) (*domain.Order, error) {
	if orderID == "" {
		return nil, ErrMissingIdentifier
	}
	if !confirmed {
		return nil, ErrNotConfirmed
	}

	snap := s.snapshotFor(sellerID)
	if snap.Len() == 0 {
		if err := s.Refresh(ctx, sellerID); err != nil {
			return nil, err
		}
	}

	order, ok := snap.Get(orderID)
	if !ok {
		return nil, ErrOrderNotFound
	}

	normalized := domain.NormalizeStatus(string(newStatus))

	// Idempotent no-op: same status means no store call and no patch.
	if normalized == order.Status {
		return &order, nil
	}

	if !snap.BeginUpdate(orderID) {
		return nil, ErrUpdateInFlight
	}
	defer snap.EndUpdate(orderID)

	// Optimistic apply before the remote call so the caller's view stays
	// responsive; prev is the rollback point.
	patched := order
	patched.Status = normalized
	prev, _ := snap.Apply(patched)

	updated, err := s.store.UpdateStatus(ctx, orderID, normalized)
	if err != nil {
		snap.Restore(prev)
		s.log.Error("Status update failed, rolled back",
			zap.String("seller_id", sellerID),
			zap.String("order_id", orderID),
			zap.String("status", string(normalized)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrStatusUpdateFailed, err)
	}

	// Replace the optimistic record with the authoritative one, which may
	// carry server-computed fields.
	snap.Apply(*updated)

	s.log.Info("Order status changed",
		zap.String("seller_id", sellerID),
		zap.String("order_id", orderID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(normalized)),
	)

	return updated, nil
}
