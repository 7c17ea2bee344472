// Package pricing derives line and order totals from product line items.
//
// Quantities and amounts arrive as free text. Parsing is tolerant: a value
// that does not parse, parses negative or is out of range counts as zero so
// that one bad line never aborts an aggregate.
package pricing

import (
	"encoding/json"
	"strings"

	"orderdesk/internal/model"

	"github.com/shopspring/decimal"
)

// Places is the number of fraction digits of presented amounts.
const Places = 2

// MaxQuantity is the largest quantity a line may carry.
const MaxQuantity = 1_000_000_000

// maxInputLen bounds the text of a single number. Exponent notation is not
// accepted at all.
const maxInputLen = 32

var (
	// amounts must stay below 10^12
	maxAmount = decimal.New(1, 12)

	// MaxTotal is the largest order total the orders table can hold.
	MaxTotal = decimal.RequireFromString("999999999999.99")
)

func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxInputLen || strings.ContainsAny(s, "eE") {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// ParseQuantity reads a whole quantity. Decimal input is truncated toward zero.
func ParseQuantity(s string) int64 {
	d, ok := parseDecimal(s)
	if !ok || d.GreaterThan(decimal.NewFromInt(MaxQuantity)) {
		return 0
	}
	return d.IntPart()
}

// ParseAmount reads a monetary amount.
func ParseAmount(s string) decimal.Decimal {
	d, ok := parseDecimal(s)
	if !ok || d.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero
	}
	return d
}

// LineRevenue is price x quantity.
func LineRevenue(p model.Product) decimal.Decimal {
	return ParseAmount(p.Price).Mul(decimal.NewFromInt(ParseQuantity(p.Quantity)))
}

// LineCost is cost x quantity.
func LineCost(p model.Product) decimal.Decimal {
	return ParseAmount(p.Cost).Mul(decimal.NewFromInt(ParseQuantity(p.Quantity)))
}

// Line is the computed view of one product.
type Line struct {
	Name      string
	Quantity  int64
	UnitPrice decimal.Decimal
	UnitCost  decimal.Decimal
	Revenue   decimal.Decimal
	Cost      decimal.Decimal
}

// Summary aggregates a product list. Amounts are rounded to Places.
type Summary struct {
	Lines   []Line
	Revenue decimal.Decimal
	Cost    decimal.Decimal
	Margin  decimal.Decimal
}

// Summarize computes per-line and order totals. Rounding happens once on the
// final sums, not per line.
func Summarize(products []model.Product) Summary {
	s := Summary{Lines: make([]Line, 0, len(products))}
	revenue, cost := decimal.Zero, decimal.Zero
	for _, p := range products {
		l := Line{
			Name:      p.Name,
			Quantity:  ParseQuantity(p.Quantity),
			UnitPrice: ParseAmount(p.Price),
			UnitCost:  ParseAmount(p.Cost),
		}
		l.Revenue = l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
		l.Cost = l.UnitCost.Mul(decimal.NewFromInt(l.Quantity))
		revenue = revenue.Add(l.Revenue)
		cost = cost.Add(l.Cost)

		l.Revenue = Round(l.Revenue)
		l.Cost = Round(l.Cost)
		s.Lines = append(s.Lines, l)
	}
	s.Revenue = Round(revenue)
	s.Cost = Round(cost)
	s.Margin = Round(revenue.Sub(cost))
	return s
}

// Total is the order total (revenue) of a product list.
func Total(products []model.Product) decimal.Decimal {
	return Summarize(products).Revenue
}

// Round rounds half away from zero to Places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Format renders d with exactly Places fraction digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

func (l Line) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name      string `json:"name"`
		Quantity  int64  `json:"quantity"`
		UnitPrice string `json:"unitPrice"`
		UnitCost  string `json:"unitCost"`
		Revenue   string `json:"lineTotal"`
		Cost      string `json:"lineCost"`
	}{l.Name, l.Quantity, Format(l.UnitPrice), Format(l.UnitCost), Format(l.Revenue), Format(l.Cost)})
}

func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Lines   []Line `json:"lines"`
		Revenue string `json:"total"`
		Cost    string `json:"costTotal"`
		Margin  string `json:"margin"`
	}{s.Lines, Format(s.Revenue), Format(s.Cost), Format(s.Margin)})
}
