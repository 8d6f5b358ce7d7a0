package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-console/internal/features/orders/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockOrderStore is a mock implementation of the OrderStore port.
type mockOrderStore struct {
	orders       []domain.Order
	listErr      error
	updateResult *domain.Order
	updateErr    error

	listCalls   int
	updateCalls int
}

// ListOrders implements ports.OrderStore.
func (m *mockOrderStore) ListOrders(ctx context.Context, sellerID string) ([]domain.Order, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.orders, nil
}

// UpdateStatus implements ports.OrderStore.
func (m *mockOrderStore) UpdateStatus(ctx context.Context, orderID string, status domain.Status) (*domain.Order, error) {
	m.updateCalls++
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	if m.updateResult != nil {
		return m.updateResult, nil
	}
	return &domain.Order{ID: orderID, Status: status}, nil
}

func testOrders() []domain.Order {
	return []domain.Order{
		{ID: "ORD-1", Status: domain.StatusPlaced, Total: 100, CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "ORD-2", Status: domain.StatusShipped, Total: 200, CreatedAt: time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)},
	}
}

// TestOrderService_List_RefreshesOnce verifies lazy loading of the snapshot.
func TestOrderService_List_RefreshesOnce(t *testing.T) {
	store := &mockOrderStore{orders: testOrders()}
	svc := NewOrderService(store)

	orders, err := svc.List(context.Background(), "seller-1")
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, 1, store.listCalls)

	// Second call serves from the snapshot.
	_, err = svc.List(context.Background(), "seller-1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.listCalls)
}

// TestOrderService_Refresh_FailureKeepsSnapshot verifies that a failed
// refetch leaves the prior snapshot untouched.
func TestOrderService_Refresh_FailureKeepsSnapshot(t *testing.T) {
	store := &mockOrderStore{orders: testOrders()}
	svc := NewOrderService(store)

	require.NoError(t, svc.Refresh(context.Background(), "seller-1"))

	store.listErr = errors.New("store down")
	err := svc.Refresh(context.Background(), "seller-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)

	orders, err := svc.List(context.Background(), "seller-1")
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

// TestOrderService_ChangeStatus_MissingIdentifier verifies the precondition.
func TestOrderService_ChangeStatus_MissingIdentifier(t *testing.T) {
	store := &mockOrderStore{orders: testOrders()}
	svc := NewOrderService(store)

	order, err := svc.ChangeStatus(context.Background(), "seller-1", "", domain.StatusShipped, true)

	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrMissingIdentifier)
	assert.Equal(t, 0, store.updateCalls)
}

// TestOrderService_ChangeStatus_ConfirmationGate verifies that an
// unconfirmed request performs no mutation.
func TestOrderService_ChangeStatus_ConfirmationGate(t *testing.T) {
	store := &mockOrderStore{orders: testOrders()}
	svc := NewOrderService(store)

	order, err := svc.ChangeStatus(context.Background(), "seller-1", "ORD-1", domain.StatusShipped, false)

	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Equal(t, 0, store.updateCalls)
}

// TestOrderService_ChangeStatus_NoOp verifies that setting the current status
// issues no store call and leaves the collection unchanged.
func TestOrderService_ChangeStatus_NoOp(t *testing.T) {
	store := &mockOrderStore{orders: testOrders()}
	svc := NewOrderService(store)

	before, err := svc.List(context.Background(), "seller-1")
	require.NoError(t, err)

	order, err := svc.ChangeStatus(context.Background(), "seller-1", "ORD-2", domain.StatusShipped, true)

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, domain.StatusShipped, order.Status)
	assert.Equal(t, 0, store.updateCalls)

	after, err := svc.List(context.Background(), "seller-1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

// TestOrderService_ChangeStatus_NoOp_CaseInsensitive verifies the no-op guard
// runs on normalized values.
func TestOrderService_ChangeStatus_NoOp_CaseInsensitive(t *testing.T) {
	store := &mockOrderStore{orders: testOrders()}
	svc := NewOrderService(store)

	_, err := svc.ChangeStatus(context.Background(), "seller-1", "ORD-2", domain.Status("SHIPPED"), true)

	require.NoError(t, err)
	assert.Equal(t, 0, store.updateCalls)
}

// TestOrderService_ChangeStatus_Success verifies the authoritative record
// replaces the optimistic patch.
func TestOrderService_ChangeStatus_Success(t *testing.T) {
	authoritative := &domain.Order{ID: "ORD-1", Status: domain.StatusShipped, Total: 100, PaymentStatus: "captured"}
	store := &mockOrderStore{orders: testOrders(), updateResult: authoritative}
	svc := NewOrderService(store)

	order, err := svc.ChangeStatus(context.Background(), "seller-1", "ORD-1", domain.StatusShipped, true)

	require.NoError(t, err)
	assert.Equal(t, 1, store.updateCalls)
	assert.Equal(t, domain.StatusShipped, order.Status)
	assert.Equal(t, "captured", order.PaymentStatus)

	// Snapshot carries the server-computed fields, not just the patch.
	orders, err := svc.List(context.Background(), "seller-1")
	require.NoError(t, err)
	for _, o := range orders {
		if o.ID == "ORD-1" {
			assert.Equal(t, "captured", o.PaymentStatus)
		}
	}
}

// TestOrderService_ChangeStatus_RollbackOnFailure verifies that a failed
// remote call restores the pre-mutation record.
func TestOrderService_ChangeStatus_RollbackOnFailure(t *testing.T) {
	store := &mockOrderStore{orders: testOrders(), updateErr: errors.New("store rejected")}
	svc := NewOrderService(store)

	before, err := svc.List(context.Background(), "seller-1")
	require.NoError(t, err)

	order, err := svc.ChangeStatus(context.Background(), "seller-1", "ORD-1", domain.StatusDelivered, true)

	assert.Nil(t, order)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatusUpdateFailed)

	after, err := svc.List(context.Background(), "seller-1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

// TestOrderService_ChangeStatus_NotFound verifies unknown order handling.
func TestOrderService_ChangeStatus_NotFound(t *testing.T) {
	store := &mockOrderStore{orders: testOrders()}
	svc := NewOrderService(store)

	order, err := svc.ChangeStatus(context.Background(), "seller-1", "ORD-404", domain.StatusShipped, true)

	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Equal(t, 0, store.updateCalls)
}

// TestOrderService_ChangeStatus_InFlightGuard verifies that a second request
// for the same order is rejected while one is pending.
func TestOrderService_ChangeStatus_InFlightGuard(t *testing.T) {
	store := &mockOrderStore{orders: testOrders()}
	svc := NewOrderService(store)

	_, err := svc.List(context.Background(), "seller-1")
	require.NoError(t, err)

	snap := svc.snapshotFor("seller-1")
	require.True(t, snap.BeginUpdate("ORD-1"))
	defer snap.EndUpdate("ORD-1")

	order, err := svc.ChangeStatus(context.Background(), "seller-1", "ORD-1", domain.StatusShipped, true)

	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrUpdateInFlight)
	assert.Equal(t, 0, store.updateCalls)
}

// TestOrderService_SellersIsolated verifies that snapshots are per seller.
func TestOrderService_SellersIsolated(t *testing.T) {
	store := &mockOrderStore{orders: testOrders()}
	svc := NewOrderService(store)

	_, err := svc.List(context.Background(), "seller-1")
	require.NoError(t, err)

	store.orders = []domain.Order{{ID: "OTHER-1", Status: domain.StatusPlaced}}
	others, err := svc.List(context.Background(), "seller-2")
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, "OTHER-1", others[0].ID)

	mine, err := svc.List(context.Background(), "seller-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
