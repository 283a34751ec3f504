package contracts

// Metric names the closed set of comparable fundamentals.
// Percentile/median logic operates over this enumerated schema only, so a
// typo in a metric name is a compile-time or lookup failure, never a
// silently-empty population.
type Metric string

const (
	MetricPERatio         Metric = "pe_ratio"
	MetricForwardPE       Metric = "forward_pe"
	MetricPEGRatio        Metric = "peg_ratio"
	MetricPBRatio         Metric = "pb_ratio"
	MetricPSRatio         Metric = "ps_ratio"
	MetricEVEBITDA        Metric = "ev_ebitda"
	MetricDebtToEquity    Metric = "debt_to_equity"
	MetricProfitMargin    Metric = "profit_margin"
	MetricOperatingMargin Metric = "operating_margin"
	MetricRevenueGrowth   Metric = "revenue_growth"
	MetricEarningsGrowth  Metric = "earnings_growth"
	MetricROE             Metric = "roe"
	MetricROA             Metric = "roa"
	MetricDividendYield   Metric = "dividend_yield"
	MetricBeta            Metric = "beta"
)

// AllMetrics is the canonical iteration order for aggregates
var AllMetrics = []Metric{
	MetricPERatio,
	MetricForwardPE,
	MetricPEGRatio,
	MetricPBRatio,
	MetricPSRatio,
	MetricEVEBITDA,
	MetricDebtToEquity,
	MetricProfitMargin,
	MetricOperatingMargin,
	MetricRevenueGrowth,
	MetricEarningsGrowth,
	MetricROE,
	MetricROA,
	MetricDividendYield,
	MetricBeta,
}

// MetricSnapshot is a point-in-time fundamentals snapshot for one symbol.
// nil means "not reported", never zero.
type MetricSnapshot struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	MarketCap float64 `json:"market_cap"`
	Sector    string  `json:"sector"`
	Industry  string  `json:"industry"`

	PERatio         *float64 `json:"pe_ratio,omitempty"`
	ForwardPE       *float64 `json:"forward_pe,omitempty"`
	PEGRatio        *float64 `json:"peg_ratio,omitempty"`
	PBRatio         *float64 `json:"pb_ratio,omitempty"`
	PSRatio         *float64 `json:"ps_ratio,omitempty"`
	EVEBITDA        *float64 `json:"ev_ebitda,omitempty"`
	DebtToEquity    *float64 `json:"debt_to_equity,omitempty"`
	ProfitMargin    *float64 `json:"profit_margin,omitempty"`
	OperatingMargin *float64 `json:"operating_margin,omitempty"`
	RevenueGrowth   *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth  *float64 `json:"earnings_growth,omitempty"`
	ROE             *float64 `json:"roe,omitempty"`
	ROA             *float64 `json:"roa,omitempty"`
	DividendYield   *float64 `json:"dividend_yield,omitempty"`
	Beta            *float64 `json:"beta,omitempty"`
}

// Value returns the snapshot's value for a metric, false when unreported
func (s *MetricSnapshot) Value(m Metric) (float64, bool) {
	var ptr *float64
	switch m {
	case MetricPERatio:
		ptr = s.PERatio
	case MetricForwardPE:
		ptr = s.ForwardPE
	case MetricPEGRatio:
		ptr = s.PEGRatio
	case MetricPBRatio:
		ptr = s.PBRatio
	case MetricPSRatio:
		ptr = s.PSRatio
	case MetricEVEBITDA:
		ptr = s.EVEBITDA
	case MetricDebtToEquity:
		ptr = s.DebtToEquity
	case MetricProfitMargin:
		ptr = s.ProfitMargin
	case MetricOperatingMargin:
		ptr = s.OperatingMargin
	case MetricRevenueGrowth:
		ptr = s.RevenueGrowth
	case MetricEarningsGrowth:
		ptr = s.EarningsGrowth
	case MetricROE:
		ptr = s.ROE
	case MetricROA:
		ptr = s.ROA
	case MetricDividendYield:
		ptr = s.DividendYield
	case MetricBeta:
		ptr = s.Beta
	}
	if ptr == nil {
		return 0, false
	}
	return *ptr, true
}

// Set assigns a metric value on the snapshot
func (s *MetricSnapshot) Set(m Metric, value float64) {
	v := value
	switch m {
	case MetricPERatio:
		s.PERatio = &v
	case MetricForwardPE:
		s.ForwardPE = &v
	case MetricPEGRatio:
		s.PEGRatio = &v
	case MetricPBRatio:
		s.PBRatio = &v
	case MetricPSRatio:
		s.PSRatio = &v
	case MetricEVEBITDA:
		s.EVEBITDA = &v
	case MetricDebtToEquity:
		s.DebtToEquity = &v
	case MetricProfitMargin:
		s.ProfitMargin = &v
	case MetricOperatingMargin:
		s.OperatingMargin = &v
	case MetricRevenueGrowth:
		s.RevenueGrowth = &v
	case MetricEarningsGrowth:
		s.EarningsGrowth = &v
	case MetricROE:
		s.ROE = &v
	case MetricROA:
		s.ROA = &v
	case MetricDividendYield:
		s.DividendYield = &v
	case MetricBeta:
		s.Beta = &v
	}
}
