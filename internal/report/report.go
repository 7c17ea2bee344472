// Package report aggregates orders for statistics and calendar marking.
// Every function is a pure read over the slice it is given. Calendar days
// are UTC days.
package report

import (
	"encoding/json"
	"time"

	"orderdesk/internal/model"
	"orderdesk/internal/pricing"

	"github.com/shopspring/decimal"
)

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey formats the calendar day of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return Day(t).Format(time.DateOnly)
}

// MonthWindow returns [first day of month, first day of next month).
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// OrdersOn keeps the orders whose calendar day equals day.
func OrdersOn(orders []model.Order, day time.Time) []model.Order {
	d := Day(day)
	out := make([]model.Order, 0)
	for _, o := range orders {
		if Day(o.Date).Equal(d) {
			out = append(out, o)
		}
	}
	return out
}

// InMonth keeps the orders dated within the month window.
func InMonth(orders []model.Order, year int, month time.Month) []model.Order {
	start, end := MonthWindow(year, month)
	out := make([]model.Order, 0)
	for _, o := range orders {
		if !o.Date.Before(start) && o.Date.Before(end) {
			out = append(out, o)
		}
	}
	return out
}

// StatusCounts tallies orders per lifecycle state.
type StatusCounts struct {
	Created    int64 `json:"created"`
	InTransfer int64 `json:"inTransfer"`
	Delivered  int64 `json:"delivered"`
	Cancelled  int64 `json:"cancelled"`
}

func (c *StatusCounts) add(st model.OrderStatus, n int64) {
	switch st {
	case model.StatusCreated:
		c.Created += n
	case model.StatusInTransfer:
		c.InTransfer += n
	case model.StatusDelivered:
		c.Delivered += n
	case model.StatusCancelled:
		c.Cancelled += n
	}
}

func (c StatusCounts) Total() int64 {
	return c.Created + c.InTransfer + c.Delivered + c.Cancelled
}

// CountsFrom builds StatusCounts from a per-status tally.
func CountsFrom(tally map[model.OrderStatus]int64) StatusCounts {
	var c StatusCounts
	for st, n := range tally {
		c.add(st, n)
	}
	return c
}

// MonthlyStats summarizes one calendar month.
type MonthlyStats struct {
	Year        int
	Month       time.Month
	TotalOrders int
	Revenue     decimal.Decimal
	Cost        decimal.Decimal
	Margin      decimal.Decimal
	Counts      StatusCounts
}

// Monthly computes statistics over the orders dated within year/month.
// Revenue is the sum of each order's pricing total.
func Monthly(orders []model.Order, year int, month time.Month) MonthlyStats {
	in := InMonth(orders, year, month)
	stats := MonthlyStats{Year: year, Month: month, TotalOrders: len(in)}
	revenue, cost := decimal.Zero, decimal.Zero
	for _, o := range in {
		s := pricing.Summarize(o.Products)
		revenue = revenue.Add(s.Revenue)
		cost = cost.Add(s.Cost)
		stats.Counts.add(o.Process, 1)
	}
	stats.Revenue = pricing.Round(revenue)
	stats.Cost = pricing.Round(cost)
	stats.Margin = pricing.Round(revenue.Sub(cost))
	return stats
}

func (m MonthlyStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Year        int          `json:"year"`
		Month       int          `json:"month"`
		TotalOrders int          `json:"totalOrders"`
		Revenue     string       `json:"revenue"`
		Cost        string       `json:"cost"`
		Margin      string       `json:"margin"`
		Delivered   int64        `json:"deliveredOrders"`
		InTransfer  int64        `json:"inTransferOrders"`
		Counts      StatusCounts `json:"byStatus"`
	}{
		m.Year, int(m.Month), m.TotalOrders,
		pricing.Format(m.Revenue), pricing.Format(m.Cost), pricing.Format(m.Margin),
		m.Counts.Delivered, m.Counts.InTransfer, m.Counts,
	})
}

// Mark flags a day that has at least one order.
type Mark struct {
	Marked bool `json:"marked"`
}

// CalendarMarks maps YYYY-MM-DD to a mark.
type CalendarMarks map[string]Mark

// Calendar marks every distinct order day.
func Calendar(orders []model.Order) CalendarMarks {
	marks := make(CalendarMarks, len(orders))
	for _, o := range orders {
		marks[DayKey(o.Date)] = Mark{Marked: true}
	}
	return marks
}

// Financials is the money side of the dashboard.
type Financials struct {
	Revenue      decimal.Decimal
	Expenses     decimal.Decimal
	NetProfit    decimal.Decimal
	AverageOrder decimal.Decimal
}

func (f Financials) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Revenue      string `json:"monthlyRevenue"`
		Expenses     string `json:"monthlyExpenses"`
		NetProfit    string `json:"netProfit"`
		AverageOrder string `json:"averageOrderValue"`
	}{pricing.Format(f.Revenue), pricing.Format(f.Expenses), pricing.Format(f.NetProfit), pricing.Format(f.AverageOrder)})
}

// Dashboard is the home screen summary. Financials is nil unless the viewer
// may see money figures.
type Dashboard struct {
	TotalOrders int64        `json:"totalOrders"`
	Counts      StatusCounts `json:"byStatus"`
	MonthOrders int          `json:"monthOrders"`
	Financials  *Financials  `json:"financials,omitempty"`
}

// BuildDashboard combines all-time status counts with the current month.
func BuildDashboard(counts StatusCounts, month MonthlyStats) Dashboard {
	avg := decimal.Zero
	if month.TotalOrders > 0 {
		avg = month.Revenue.Div(decimal.NewFromInt(int64(month.TotalOrders)))
	}
	return Dashboard{
		TotalOrders: counts.Total(),
		Counts:      counts,
		MonthOrders: month.TotalOrders,
		Financials: &Financials{
			Revenue:      month.Revenue,
			Expenses:     month.Cost,
			NetProfit:    month.Margin,
			AverageOrder: pricing.Round(avg),
		},
	}
}

// Redacted drops money figures.
func (d Dashboard) Redacted() Dashboard {
	d.Financials = nil
	return d
}
