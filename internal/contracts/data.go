package contracts

import (
	"fmt"
	"strings"
)

// NormalizeSymbol canonicalizes a ticker (uppercase, trimmed)
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Metadata holds sector/industry/market-cap classification for one symbol
type Metadata struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name,omitempty"`
	Sector    string  `json:"sector"`
	Industry  string  `json:"industry"`
	MarketCap float64 `json:"market_cap"`
}

// PriceSeries holds an ordered close-price history for one symbol.
// Returns[i] is the day-over-day change from Closes[i] to Closes[i+1].
type PriceSeries struct {
	Symbol  string    `json:"symbol"`
	Dates   []string  `json:"dates"`
	Closes  []float64 `json:"closes"`
	Returns []float64 `json:"returns"`
}

// NewPriceSeries builds a series and derives daily returns.
// A series with fewer than 2 closes carries no return information and is
// rejected so callers treat it as a fetch failure, not a zero return.
func NewPriceSeries(symbol string, dates []string, closes []float64) (*PriceSeries, error) {
	if len(closes) < 2 {
		return nil, fmt.Errorf("%w: price series for %s has %d points", ErrUpstreamUnavailable, symbol, len(closes))
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
	}

	return &PriceSeries{
		Symbol:  NormalizeSymbol(symbol),
		Dates:   dates,
		Closes:  closes,
		Returns: returns,
	}, nil
}

// CurrentPrice returns the most recent close
func (p *PriceSeries) CurrentPrice() float64 {
	if len(p.Closes) == 0 {
		return 0
	}
	return p.Closes[len(p.Closes)-1]
}

// TotalReturnPct returns the full-window return in percent
func (p *PriceSeries) TotalReturnPct() (float64, bool) {
	if len(p.Closes) < 2 || p.Closes[0] <= 0 {
		return 0, false
	}
	first := p.Closes[0]
	last := p.Closes[len(p.Closes)-1]
	return (last - first) / first * 100, true
}

// Periodicity selects statement cadence for financial history
type Periodicity string

const (
	PeriodicityAnnual    Periodicity = "annual"
	PeriodicityQuarterly Periodicity = "quarterly"
)

// FinancialPeriod holds income statement line items for one period.
// Zero means not reported; engines guard on Revenue > 0 before ratios.
type FinancialPeriod struct {
	Label           string  `json:"label"` // "2023" or "Q3 2024"
	EndDate         string  `json:"end_date"`
	Revenue         float64 `json:"revenue"`
	GrossProfit     float64 `json:"gross_profit"`
	OperatingIncome float64 `json:"operating_income"`
	NetIncome       float64 `json:"net_income"`
	RDExpense       float64 `json:"rd_expense"`
}

// FinancialHistory holds per-period statement line items, oldest first
type FinancialHistory struct {
	Symbol      string            `json:"symbol"`
	Name        string            `json:"name,omitempty"`
	Periodicity Periodicity       `json:"periodicity"`
	Periods     []FinancialPeriod `json:"periods"`
}

// Revenues returns the revenue series in period order
func (f *FinancialHistory) Revenues() []float64 {
	out := make([]float64, len(f.Periods))
	for i, p := range f.Periods {
		out[i] = p.Revenue
	}
	return out
}
