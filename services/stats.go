package services

import (
	"context"
	"log/slog"

	"github.com/Kariqs/tannaro-api/models"
	"github.com/Kariqs/tannaro-api/repository"
	"github.com/Kariqs/tannaro-api/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const statsConcurrency = 4

type statsStore interface {
	repository.OrderRepository
	repository.ProductRepository
}

// StatsService computes dashboard figures fresh on each call.
type StatsService struct {
	store statsStore
	log   *slog.Logger
}

func NewStatsService(store statsStore, logger *slog.Logger) *StatsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsService{store: store, log: logger}
}

func roundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func (s *StatsService) Dashboard(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	p, o := &stats.Products, &stats.Orders

	featured := true
	productCounts := []struct {
		dst *int64
		q   repository.ProductQuery
	}{
		{&p.Total, repository.ProductQuery{}},
		{&p.Active, repository.ProductQuery{Status: models.ProductStatusActive}},
		{&p.Inactive, repository.ProductQuery{Status: models.ProductStatusInactive}},
		{&p.OutOfStock, repository.ProductQuery{Stock: repository.StockOut}},
		{&p.LowStock, repository.ProductQuery{Stock: repository.StockLow}},
		{&p.Featured, repository.ProductQuery{Featured: &featured}},
	}
	orderCounts := []struct {
		dst *int64
		q   repository.OrderQuery
	}{
		{&o.Total, repository.OrderQuery{}},
		{&o.Pending, repository.OrderQuery{Statuses: []models.OrderStatus{models.OrderStatusPending}}},
		{&o.Processing, repository.OrderQuery{Statuses: []models.OrderStatus{models.OrderStatusProcessing}}},
		{&o.Shipped, repository.OrderQuery{Statuses: []models.OrderStatus{models.OrderStatusShipped}}},
		{&o.Delivered, repository.OrderQuery{Statuses: []models.OrderStatus{models.OrderStatusDelivered}}},
		{&o.Cancelled, repository.OrderQuery{Statuses: []models.OrderStatus{models.OrderStatusCancelled}}},
	}
	revenues := []struct {
		dst *float64
		q   repository.OrderQuery
	}{
		{&o.Revenue, repository.OrderQuery{Statuses: models.RevenueStatuses}},
		{&o.DeliveredRevenue, repository.OrderQuery{Statuses: []models.OrderStatus{models.OrderStatusDelivered}}},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statsConcurrency)
	for _, c := range productCounts {
		g.Go(func() error {
			n, err := s.store.CountProducts(gctx, c.q)
			*c.dst = n
			return err
		})
	}
	for _, c := range orderCounts {
		g.Go(func() error {
			n, err := s.store.CountOrders(gctx, c.q)
			*c.dst = n
			return err
		})
	}
	for _, r := range revenues {
		g.Go(func() error {
			sum, err := s.store.SumOrderTotals(gctx, r.q)
			*r.dst = roundMoney(sum)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		s.log.Error("failed to compute dashboard stats", "error", err)
		return models.DashboardStats{}, utils.Dependency("compute stats", err)
	}
	return stats, nil
}
