package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-console/internal/core/cache"
	orders "storefront-console/internal/features/orders/domain"
	"storefront-console/internal/features/revenue/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// mockOrderStore is a mock implementation of the OrderStore port.
type mockOrderStore struct {
	orders    []orders.Order
	listErr   error
	listCalls int
}

func (m *mockOrderStore) ListOrders(ctx context.Context, sellerID string) ([]orders.Order, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.orders, nil
}

func (m *mockOrderStore) UpdateStatus(ctx context.Context, orderID string, status orders.Status) (*orders.Order, error) {
	return nil, errors.New("not used")
}

func testCache(t *testing.T) cache.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	adapter, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })
	return adapter
}

func sampleOrders() []orders.Order {
	return []orders.Order{
		{ID: "A", Total: 100, Status: orders.StatusDelivered, CreatedAt: testNow.Add(-2 * time.Hour)},
		{ID: "B", Total: 200, Status: orders.StatusCancelled, CreatedAt: testNow.Add(-26 * time.Hour)},
		{ID: "C", Total: 300, Status: orders.StatusShipped, CreatedAt: testNow.Add(-40 * 24 * time.Hour)},
	}
}

// TestRevenueService_GetOverview_Computes verifies filtering, aggregation and
// growth composition.
func TestRevenueService_GetOverview_Computes(t *testing.T) {
	store := &mockOrderStore{orders: sampleOrders()}
	svc := NewRevenueService(store, testCache(t), time.Minute)

	overview, err := svc.GetOverview(context.Background(), "seller-1", domain.RangeWeek, testNow)

	require.NoError(t, err)
	assert.Equal(t, domain.RangeWeek, overview.Range)
	// Orders A and B fall inside 7d; C is 40 days old.
	assert.Equal(t, 300.0, overview.TotalRevenue)
	assert.Equal(t, 2, overview.TotalOrders)
	assert.Equal(t, 150.0, overview.AvgOrderValue)
	assert.Equal(t, 200.0, overview.RefundAmount)
	// Growth runs over the unfiltered set.
	assert.Equal(t, 1, overview.Growth.OrdersToday)
	assert.Equal(t, 1, overview.Growth.OrdersYesterday)
	assert.Equal(t, 0.0, overview.Growth.GrowthPercent)
}

// TestRevenueService_GetOverview_CacheHit verifies the second read skips the
// order store.
func TestRevenueService_GetOverview_CacheHit(t *testing.T) {
	store := &mockOrderStore{orders: sampleOrders()}
	svc := NewRevenueService(store, testCache(t), time.Minute)

	first, err := svc.GetOverview(context.Background(), "seller-1", domain.RangeWeek, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, store.listCalls)

	second, err := svc.GetOverview(context.Background(), "seller-1", domain.RangeWeek, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, store.listCalls)
	assert.Equal(t, first.TotalRevenue, second.TotalRevenue)
	assert.Equal(t, first.StatusBreakdown, second.StatusBreakdown)
}

// TestRevenueService_GetOverview_RangesCachedSeparately verifies per-range keys.
func TestRevenueService_GetOverview_RangesCachedSeparately(t *testing.T) {
	store := &mockOrderStore{orders: sampleOrders()}
	svc := NewRevenueService(store, testCache(t), time.Minute)

	_, err := svc.GetOverview(context.Background(), "seller-1", domain.RangeWeek, testNow)
	require.NoError(t, err)

	monthly, err := svc.GetOverview(context.Background(), "seller-1", domain.RangeMonth30, testNow)
	require.NoError(t, err)
	assert.Equal(t, 2, store.listCalls)
	assert.Equal(t, 2, monthly.TotalOrders)
}

// TestRevenueService_Invalidate verifies that invalidation forces a recompute.
func TestRevenueService_Invalidate(t *testing.T) {
	store := &mockOrderStore{orders: sampleOrders()}
	svc := NewRevenueService(store, testCache(t), time.Minute)

	_, err := svc.GetOverview(context.Background(), "seller-1", domain.RangeWeek, testNow)
	require.NoError(t, err)

	svc.Invalidate(context.Background(), "seller-1")

	_, err = svc.GetOverview(context.Background(), "seller-1", domain.RangeWeek, testNow)
	require.NoError(t, err)
	assert.Equal(t, 2, store.listCalls)
}

// TestRevenueService_GetOverview_NoCache verifies the service works without a
// cache configured.
func TestRevenueService_GetOverview_NoCache(t *testing.T) {
	store := &mockOrderStore{orders: sampleOrders()}
	svc := NewRevenueService(store, nil, time.Minute)

	overview, err := svc.GetOverview(context.Background(), "seller-1", domain.RangeToday, testNow)

	require.NoError(t, err)
	assert.Equal(t, 1, overview.TotalOrders)
	assert.Equal(t, 100.0, overview.TotalRevenue)
}

// TestRevenueService_GetOverview_FetchFailed verifies store errors surface as
// ErrFetchFailed.
func TestRevenueService_GetOverview_FetchFailed(t *testing.T) {
	store := &mockOrderStore{listErr: errors.New("store down")}
	svc := NewRevenueService(store, testCache(t), time.Minute)

	overview, err := svc.GetOverview(context.Background(), "seller-1", domain.RangeWeek, testNow)

	assert.Nil(t, overview)
	assert.ErrorIs(t, err, ErrFetchFailed)
}
