package service

import (
	"context"
	"fmt"
	"time"

	"orderdesk/internal/model"
	"orderdesk/internal/report"
	"orderdesk/internal/repository"
)

// ReportService serves the read-only views over stored orders
type ReportService interface {
	Monthly(ctx context.Context, year int, month time.Month) (report.MonthlyStats, error)
	Calendar(ctx context.Context) (report.CalendarMarks, error)
	Dashboard(ctx context.Context, viewer model.Role) (report.Dashboard, error)
}

type reportService struct {
	repo repository.OrderRepository
	now  func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(repo repository.OrderRepository) ReportService {
	return &reportService{repo: repo, now: time.Now}
}

func (s *reportService) monthOrders(ctx context.Context, year int, month time.Month) ([]model.Order, error) {
	from, to := report.MonthWindow(year, month)
	orders, err := s.repo.FindAll(ctx, model.OrderFilter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("failed to load orders for %d-%02d: %w", year, month, err)
	}
	return orders, nil
}

func (s *reportService) Monthly(ctx context.Context, year int, month time.Month) (report.MonthlyStats, error) {
	if month < time.January || month > time.December {
		return report.MonthlyStats{}, fmt.Errorf("%w: month must be between 1 and 12", ErrValidation)
	}
	if year < 1 || year > 9999 {
		return report.MonthlyStats{}, fmt.Errorf("%w: year out of range", ErrValidation)
	}
	orders, err := s.monthOrders(ctx, year, month)
	if err != nil {
		return report.MonthlyStats{}, err
	}
	return report.Monthly(orders, year, month), nil
}

func (s *reportService) Calendar(ctx context.Context) (report.CalendarMarks, error) {
	orders, err := s.repo.FindAll(ctx, model.OrderFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load orders for calendar: %w", err)
	}
	return report.Calendar(orders), nil
}

// Dashboard combines all-time status counts with the current UTC month.
// Money figures are only returned to the Owner.
func (s *reportService) Dashboard(ctx context.Context, viewer model.Role) (report.Dashboard, error) {
	tally, err := s.repo.CountByProcess(ctx)
	if err != nil {
		return report.Dashboard{}, fmt.Errorf("failed to count orders: %w", err)
	}

	now := s.now().UTC()
	orders, err := s.monthOrders(ctx, now.Year(), now.Month())
	if err != nil {
		return report.Dashboard{}, err
	}

	d := report.BuildDashboard(report.CountsFrom(tally), report.Monthly(orders, now.Year(), now.Month()))
	if viewer != model.RoleOwner {
		return d.Redacted(), nil
	}
	return d, nil
}
