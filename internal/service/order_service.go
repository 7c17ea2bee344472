package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"orderdesk/internal/model"
	"orderdesk/internal/pricing"
	"orderdesk/internal/report"
	"orderdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrStatusConflict    = errors.New("order status was changed concurrently")
)

// OrderService defines operations for orders
type OrderService interface {
	CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error)
	ListOrders(ctx context.Context, day *time.Time) ([]model.Order, error)
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	SetOrderStatus(ctx context.Context, actor model.Role, orderID, target string) (*model.Order, error)
	Quote(products []model.Product) pricing.Summary
}

type orderService struct {
	repo repository.OrderRepository
}

// NewOrderService creates a new OrderService
func NewOrderService(repo repository.OrderRepository) OrderService {
	return &orderService{repo: repo}
}

// CreateOrder stores a new order in the Created state. Line items are kept
// as submitted; the pricing total is frozen alongside them.
func (s *orderService) CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error) {
	if strings.TrimSpace(req.OrderNo) == "" {
		return nil, fmt.Errorf("%w: orderNo is required", ErrValidation)
	}
	if len(req.Products) == 0 {
		return nil, fmt.Errorf("%w: at least one product is required", ErrValidation)
	}
	date, err := model.ParseOrderDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	total := pricing.Total(req.Products)
	if total.GreaterThan(pricing.MaxTotal) {
		return nil, fmt.Errorf("%w: order total exceeds %s", ErrValidation, pricing.Format(pricing.MaxTotal))
	}

	now := time.Now().UTC()
	order := &model.Order{
		ID:        uuid.NewString(),
		OrderNo:   strings.TrimSpace(req.OrderNo),
		Date:      date,
		Location:  req.Location,
		Customer:  req.CustomerInfo,
		Shipping:  req.Shipping,
		Products:  req.Products,
		Process:   model.StatusCreated,
		Total:     total,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrValueOutOfRange) {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return nil, fmt.Errorf("failed to create order in repo: %w", err)
	}
	return order, nil
}

// ListOrders returns orders newest first, restricted to one UTC day when
// day is set.
func (s *orderService) ListOrders(ctx context.Context, day *time.Time) ([]model.Order, error) {
	var filter model.OrderFilter
	if day != nil {
		from := report.Day(*day)
		to := from.AddDate(0, 0, 1)
		filter.From, filter.To = &from, &to
	}
	orders, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if day != nil {
		orders = report.OrdersOn(orders, *day)
	}
	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// SetOrderStatus moves an order along one lifecycle edge. The write only
// lands if the stored state is still the one the edge was checked against.
func (s *orderService) SetOrderStatus(ctx context.Context, actor model.Role, orderID, target string) (*model.Order, error) {
	next, err := model.ParseOrderStatus(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}
	if !CanChangeOrderStatus(actor) {
		return nil, fmt.Errorf("%w: role %q may not change order status", ErrForbidden, actor)
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	current := order.Process
	if !current.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
	}

	updated, err := s.repo.UpdateProcess(ctx, orderID, current, next)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if !updated {
		// Either the row vanished or another request moved it first.
		latest, err := s.repo.FindByID(ctx, orderID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload order: %w", err)
		}
		if latest == nil {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%w: now %s", ErrStatusConflict, latest.Process)
	}

	log.Info().Str("order_id", orderID).Str("from", string(current)).Str("to", string(next)).
		Str("actor_role", string(actor)).Msg("order status changed")
	order.Process = next
	order.UpdatedAt = time.Now().UTC()
	return order, nil
}

// Quote prices a product list without storing anything
func (s *orderService) Quote(products []model.Product) pricing.Summary {
	return pricing.Summarize(products)
}
