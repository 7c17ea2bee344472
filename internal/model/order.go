package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order ("process").
type OrderStatus string

const (
	StatusCreated    OrderStatus = "Created"
	StatusInTransfer OrderStatus = "InTransfer"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

var ErrUnknownStatus = errors.New("unknown order status")

var Statuses = []OrderStatus{StatusCreated, StatusInTransfer, StatusDelivered, StatusCancelled}

// ParseOrderStatus accepts the status identifier or the label used by the mobile app.
func ParseOrderStatus(s string) (OrderStatus, error) {
	s = strings.TrimSpace(s)
	for _, st := range Statuses {
		if strings.EqualFold(s, string(st)) || s == st.Label() {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

func (s OrderStatus) Label() string {
	switch s {
	case StatusCreated:
		return "Sipariş Oluşturuldu"
	case StatusInTransfer:
		return "Transfer Aşamasında"
	case StatusDelivered:
		return "Teslim Edildi"
	case StatusCancelled:
		return "İptal Edildi"
	default:
		return ""
	}
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusInTransfer, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether no transition may leave the state.
func (s OrderStatus) Terminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled:
		return true
	case StatusCreated, StatusInTransfer:
		return false
	default:
		return false
	}
}

// CanTransitionTo reports whether s -> next is an edge of the order lifecycle:
// Created -> InTransfer | Cancelled, InTransfer -> Delivered | Cancelled.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case StatusCreated:
		return next == StatusInTransfer || next == StatusCancelled
	case StatusInTransfer:
		return next == StatusDelivered || next == StatusCancelled
	case StatusDelivered, StatusCancelled:
		return false
	default:
		return false
	}
}

// Customer holds the buyer's contact details
type Customer struct {
	Name    string `json:"nameSurname"`
	Address string `json:"address"`
	Country string `json:"country"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Shipping holds sales metadata. Salesman is a free-text label, not a user reference.
type Shipping struct {
	Salesman   string `json:"salesman"`
	Conference string `json:"conference"`
	Agency     string `json:"agency"`
	Guide      string `json:"guide"`
}

// Product is a line item embedded in an order. Numeric fields travel as text.
type Product struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Size     string `json:"size"`
	Price    string `json:"price"`
	Cost     string `json:"cost"`
	Notes    string `json:"notes"`
}

// Order represents a customer order with its line items
type Order struct {
	ID        string          `json:"id"`
	OrderNo   string          `json:"orderNo"`
	Date      time.Time       `json:"date"`
	Location  string          `json:"location"`
	Customer  Customer        `json:"customerInfo"`
	Shipping  Shipping        `json:"shipping"`
	Products  []Product       `json:"products"`
	Process   OrderStatus     `json:"process"`
	Total     decimal.Decimal `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MarshalJSON renders Total with exactly two fraction digits.
func (o Order) MarshalJSON() ([]byte, error) {
	type plain Order
	return json.Marshal(struct {
		plain
		Total string `json:"total"`
	}{plain(o), o.Total.StringFixed(2)})
}

// CreateOrderRequest is used for creating a new order
type CreateOrderRequest struct {
	Date         string    `json:"date" binding:"required"`
	OrderNo      string    `json:"orderNo" binding:"required"`
	Location     string    `json:"location"`
	CustomerInfo Customer  `json:"customerInfo"`
	Shipping     Shipping  `json:"shipping"`
	Products     []Product `json:"products" binding:"required,min=1"`
}

// UpdateProcessRequest carries the target state of a transition
type UpdateProcessRequest struct {
	Process string `json:"process" binding:"required"`
}

// OrderFilter narrows order listings by date, From inclusive and To exclusive.
type OrderFilter struct {
	From *time.Time
	To   *time.Time
}

// ParseOrderDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func ParseOrderDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}
