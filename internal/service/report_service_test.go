package service

import (
	"context"
	"testing"
	"time"

	"orderdesk/internal/model"
	"orderdesk/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthly(t *testing.T) {
	repo := &mockOrderRepo{
		findAllFn: func(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
			assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), *filter.From)
			assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *filter.To)
			return []model.Order{
				{Date: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), Process: model.StatusDelivered,
					Products: []model.Product{{Quantity: "2", Price: "10", Cost: "4"}}},
				{Date: time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC), Process: model.StatusInTransfer,
					Products: []model.Product{{Quantity: "1", Price: "5"}}},
			}, nil
		},
	}
	stats, err := NewReportService(repo).Monthly(context.Background(), 2024, time.February)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, "25.00", stats.Revenue.StringFixed(2))
	assert.Equal(t, "17.00", stats.Margin.StringFixed(2))
	assert.Equal(t, int64(1), stats.Counts.Delivered)
	assert.Equal(t, int64(1), stats.Counts.InTransfer)
}

func TestMonthly_InvalidMonth(t *testing.T) {
	svc := NewReportService(&mockOrderRepo{})
	_, err := svc.Monthly(context.Background(), 2024, time.Month(13))
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Monthly(context.Background(), 2024, time.Month(0))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCalendar(t *testing.T) {
	repo := &mockOrderRepo{
		findAllFn: func(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
			return []model.Order{
				{Date: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)},
				{Date: time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)},
				{Date: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)},
			}, nil
		},
	}
	marks, err := NewReportService(repo).Calendar(context.Background())
	require.NoError(t, err)
	assert.Len(t, marks, 2)
	assert.True(t, marks["2024-05-01"].Marked)
	assert.True(t, marks["2024-05-03"].Marked)
}

func TestCalendar_Unavailable(t *testing.T) {
	repo := &mockOrderRepo{
		findAllFn: func(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
			return nil, repository.ErrUnavailable
		},
	}
	_, err := NewReportService(repo).Calendar(context.Background())
	assert.ErrorIs(t, err, repository.ErrUnavailable)
}

func TestDashboard(t *testing.T) {
	repo := &mockOrderRepo{
		countByProcessFn: func(ctx context.Context) (map[model.OrderStatus]int64, error) {
			return map[model.OrderStatus]int64{model.StatusDelivered: 4, model.StatusCreated: 1}, nil
		},
		findAllFn: func(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
			assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *filter.From)
			return []model.Order{
				{Date: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), Process: model.StatusDelivered,
					Products: []model.Product{{Quantity: "1", Price: "30", Cost: "10"}}},
				{Date: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), Process: model.StatusCreated,
					Products: []model.Product{{Quantity: "1", Price: "10"}}},
			}, nil
		},
	}
	svc := &reportService{repo: repo, now: func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }}

	d, err := svc.Dashboard(context.Background(), model.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, int64(5), d.TotalOrders)
	assert.Equal(t, 2, d.MonthOrders)
	require.NotNil(t, d.Financials)
	assert.Equal(t, "40.00", d.Financials.Revenue.StringFixed(2))
	assert.Equal(t, "30.00", d.Financials.NetProfit.StringFixed(2))
	assert.Equal(t, "20.00", d.Financials.AverageOrder.StringFixed(2))

	staffView, err := svc.Dashboard(context.Background(), model.RoleWarehouseStaff)
	require.NoError(t, err)
	assert.Nil(t, staffView.Financials)
	assert.Equal(t, int64(5), staffView.TotalOrders)
}
