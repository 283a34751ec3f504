package marketdata

// Upstream wire shapes. The quote API wraps every numeric field in a
// {raw, fmt} pair; rawValue keeps the numeric side and drops the display
// string at the decode boundary.

type rawValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

// ptr returns the numeric value as a nullable pointer
func (r *rawValue) ptr() *float64 {
	if r == nil || r.Raw == nil {
		return nil
	}
	v := *r.Raw
	return &v
}

// val returns the numeric value, zero when absent
func (r *rawValue) val() float64 {
	if r == nil || r.Raw == nil {
		return 0
	}
	return *r.Raw
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	SummaryProfile *struct {
		Sector   string `json:"sector"`
		Industry string `json:"industry"`
	} `json:"summaryProfile"`

	Price *struct {
		Symbol             string    `json:"symbol"`
		LongName           string    `json:"longName"`
		ShortName          string    `json:"shortName"`
		RegularMarketPrice *rawValue `json:"regularMarketPrice"`
		MarketCap          *rawValue `json:"marketCap"`
	} `json:"price"`

	SummaryDetail *struct {
		TrailingPE    *rawValue `json:"trailingPE"`
		ForwardPE     *rawValue `json:"forwardPE"`
		PriceToSales  *rawValue `json:"priceToSalesTrailing12Months"`
		DividendYield *rawValue `json:"dividendYield"`
		Beta          *rawValue `json:"beta"`
	} `json:"summaryDetail"`

	DefaultKeyStatistics *struct {
		PegRatio       *rawValue `json:"pegRatio"`
		PriceToBook    *rawValue `json:"priceToBook"`
		EVToEBITDA     *rawValue `json:"enterpriseToEbitda"`
		EarningsGrowth *rawValue `json:"earningsQuarterlyGrowth"`
	} `json:"defaultKeyStatistics"`

	FinancialData *struct {
		DebtToEquity     *rawValue `json:"debtToEquity"`
		ProfitMargins    *rawValue `json:"profitMargins"`
		OperatingMargins *rawValue `json:"operatingMargins"`
		RevenueGrowth    *rawValue `json:"revenueGrowth"`
		ReturnOnEquity   *rawValue `json:"returnOnEquity"`
		ReturnOnAssets   *rawValue `json:"returnOnAssets"`
	} `json:"financialData"`

	IncomeStatementHistory *struct {
		Statements []incomeStatement `json:"incomeStatementHistory"`
	} `json:"incomeStatementHistory"`

	IncomeStatementHistoryQuarterly *struct {
		Statements []incomeStatement `json:"incomeStatementHistory"`
	} `json:"incomeStatementHistoryQuarterly"`
}

type incomeStatement struct {
	EndDate             *rawValue `json:"endDate"` // unix seconds in raw
	TotalRevenue        *rawValue `json:"totalRevenue"`
	GrossProfit         *rawValue `json:"grossProfit"`
	OperatingIncome     *rawValue `json:"operatingIncome"`
	NetIncome           *rawValue `json:"netIncome"`
	ResearchDevelopment *rawValue `json:"researchDevelopment"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
