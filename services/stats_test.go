package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Kariqs/tannaro-api/models"
	"github.com/Kariqs/tannaro-api/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrder(t *testing.T, store *repository.MemoryStore, number string, status models.OrderStatus, total float64) {
	t.Helper()
	order := models.Order{OrderNumber: number, Status: status, Total: total, CreatedAt: time.Now()}
	require.NoError(t, store.InsertOrder(context.Background(), &order))
}

func TestDashboard(t *testing.T) {
	store := repository.NewMemoryStore()
	ctx := context.Background()

	for _, p := range []models.Product{
		{Name: "A", Stock: 0, Status: models.ProductStatusActive, Featured: true},
		{Name: "B", Stock: 5, Status: models.ProductStatusActive},
		{Name: "C", Stock: 50, Status: models.ProductStatusInactive},
	} {
		require.NoError(t, store.InsertProduct(ctx, &p))
	}

	seedOrder(t, store, "ORD-000001", models.OrderStatusPending, 2060)
	seedOrder(t, store, "ORD-000002", models.OrderStatusDelivered, 100.1)
	seedOrder(t, store, "ORD-000003", models.OrderStatusDelivered, 0.2)
	seedOrder(t, store, "ORD-000004", models.OrderStatusCancelled, 999)

	stats, err := NewStatsService(store, nil).Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, models.ProductStats{Total: 3, Active: 2, Inactive: 1, OutOfStock: 1, LowStock: 1, Featured: 1}, stats.Products)
	assert.EqualValues(t, 4, stats.Orders.Total)
	assert.EqualValues(t, 1, stats.Orders.Pending)
	assert.EqualValues(t, 2, stats.Orders.Delivered)
	assert.EqualValues(t, 1, stats.Orders.Cancelled)
	assert.Zero(t, stats.Orders.Shipped)
	assert.Equal(t, 2160.3, stats.Orders.Revenue, "cancelled orders do not count")
	assert.Equal(t, 100.3, stats.Orders.DeliveredRevenue)
}

func TestDashboardEmpty(t *testing.T) {
	stats, err := NewStatsService(repository.NewMemoryStore(), nil).Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DashboardStats{}, stats)
}

type brokenSums struct {
	*repository.MemoryStore
}

func (brokenSums) SumOrderTotals(context.Context, repository.OrderQuery) (float64, error) {
	return 0, errors.New("aggregate failed")
}

func TestDashboardFailure(t *testing.T) {
	_, err := NewStatsService(brokenSums{repository.NewMemoryStore()}, nil).Dashboard(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aggregate failed")
}
