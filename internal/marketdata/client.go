// Package marketdata implements the upstream quote-API provider behind
// contracts.MarketDataProvider. All engine data flows through here.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/quantlens/backend/internal/contracts"
	"github.com/wonny/quantlens/backend/pkg/config"
	"github.com/wonny/quantlens/backend/pkg/httputil"
	"github.com/wonny/quantlens/backend/pkg/logger"
)

const (
	chartPath        = "/v8/finance/chart"
	quoteSummaryPath = "/v10/finance/quoteSummary"

	snapshotModules  = "summaryProfile,price,summaryDetail,defaultKeyStatistics,financialData"
	metadataModules  = "summaryProfile,price"
	annualModule     = "incomeStatementHistory,price"
	quarterlyModule  = "incomeStatementHistoryQuarterly,price"
	defaultPeriod    = "1y"
	historyIntervals = "1d"
)

// Provider fetches quotes, profiles and statements from the upstream API
// ⭐ SSOT: 업스트림 API 호출은 여기서만
type Provider struct {
	http    *httputil.Client
	baseURL string
	limiter *rate.Limiter
	scraper *profileScraper
	logger  *logger.Logger
}

// NewProvider creates the upstream provider. The in-process limiter
// keeps request pacing polite toward the upstream even when the
// distributed limiter is disabled.
func NewProvider(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Provider {
	rps := cfg.MarketData.RequestsPerSec
	if rps <= 0 {
		rps = 10
	}
	burst := cfg.MarketData.Burst
	if burst < 1 {
		burst = 1
	}

	return &Provider{
		http:    httpClient,
		baseURL: cfg.MarketData.BaseURL,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		scraper: newProfileScraper(httpClient, log),
		logger:  log,
	}
}

var _ contracts.MarketDataProvider = (*Provider)(nil)

// GetMetadata fetches sector/industry/market-cap classification.
// When the summary API omits the profile, the HTML profile page is
// scraped as a fallback before giving up.
func (p *Provider) GetMetadata(ctx context.Context, symbol string) (*contracts.Metadata, error) {
	symbol = contracts.NormalizeSymbol(symbol)

	result, err := p.fetchQuoteSummary(ctx, symbol, metadataModules)
	if err != nil {
		return nil, err
	}

	meta := &contracts.Metadata{Symbol: symbol}
	if result.Price != nil {
		meta.Name = displayName(result.Price.LongName, result.Price.ShortName)
		meta.MarketCap = result.Price.MarketCap.val()
	}
	if result.SummaryProfile != nil {
		meta.Sector = result.SummaryProfile.Sector
		meta.Industry = result.SummaryProfile.Industry
	}

	if meta.Sector == "" || meta.Industry == "" {
		if prof, scrapeErr := p.scraper.fetch(ctx, symbol); scrapeErr == nil {
			if meta.Sector == "" {
				meta.Sector = prof.Sector
			}
			if meta.Industry == "" {
				meta.Industry = prof.Industry
			}
		} else {
			p.logger.WithField("symbol", symbol).WithError(scrapeErr).
				Debug("profile scrape fallback failed")
		}
	}

	return meta, nil
}

// GetPriceHistory fetches the daily close series for the period
// (e.g. "5d", "1mo", "1y", "2y"). Gaps in the upstream series are
// dropped, not zero-filled.
func (p *Provider) GetPriceHistory(ctx context.Context, symbol string, period string) (*contracts.PriceSeries, error) {
	symbol = contracts.NormalizeSymbol(symbol)
	if period == "" {
		period = defaultPeriod
	}

	endpoint := fmt.Sprintf("%s%s/%s?range=%s&interval=%s",
		p.baseURL, chartPath, url.PathEscape(symbol), url.QueryEscape(period), historyIntervals)

	var decoded chartResponse
	if err := p.fetchJSON(ctx, endpoint, symbol, &decoded); err != nil {
		return nil, err
	}

	if decoded.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", contracts.ErrNotFound, symbol, decoded.Chart.Error.Description)
	}
	if len(decoded.Chart.Result) == 0 || len(decoded.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: no chart data for %s", contracts.ErrNotFound, symbol)
	}

	result := decoded.Chart.Result[0]
	rawCloses := result.Indicators.Quote[0].Close

	dates := make([]string, 0, len(rawCloses))
	closes := make([]float64, 0, len(rawCloses))
	for i, c := range rawCloses {
		if c == nil || i >= len(result.Timestamp) {
			continue
		}
		dates = append(dates, time.Unix(result.Timestamp[i], 0).UTC().Format("2006-01-02"))
		closes = append(closes, *c)
	}

	return contracts.NewPriceSeries(symbol, dates, closes)
}

// GetMetricSnapshot fetches the point-in-time fundamentals snapshot
func (p *Provider) GetMetricSnapshot(ctx context.Context, symbol string) (*contracts.MetricSnapshot, error) {
	symbol = contracts.NormalizeSymbol(symbol)

	result, err := p.fetchQuoteSummary(ctx, symbol, snapshotModules)
	if err != nil {
		return nil, err
	}

	snap := &contracts.MetricSnapshot{Symbol: symbol}
	if result.Price != nil {
		snap.Price = result.Price.RegularMarketPrice.val()
		snap.MarketCap = result.Price.MarketCap.val()
	}
	if result.SummaryProfile != nil {
		snap.Sector = result.SummaryProfile.Sector
		snap.Industry = result.SummaryProfile.Industry
	}
	if d := result.SummaryDetail; d != nil {
		snap.PERatio = d.TrailingPE.ptr()
		snap.ForwardPE = d.ForwardPE.ptr()
		snap.PSRatio = d.PriceToSales.ptr()
		snap.DividendYield = d.DividendYield.ptr()
		snap.Beta = d.Beta.ptr()
	}
	if k := result.DefaultKeyStatistics; k != nil {
		snap.PEGRatio = k.PegRatio.ptr()
		snap.PBRatio = k.PriceToBook.ptr()
		snap.EVEBITDA = k.EVToEBITDA.ptr()
		snap.EarningsGrowth = k.EarningsGrowth.ptr()
	}
	if f := result.FinancialData; f != nil {
		snap.DebtToEquity = f.DebtToEquity.ptr()
		snap.ProfitMargin = f.ProfitMargins.ptr()
		snap.OperatingMargin = f.OperatingMargins.ptr()
		snap.RevenueGrowth = f.RevenueGrowth.ptr()
		snap.ROE = f.ReturnOnEquity.ptr()
		snap.ROA = f.ReturnOnAssets.ptr()
	}

	return snap, nil
}

// GetFinancialHistory fetches income statement periods, oldest first
func (p *Provider) GetFinancialHistory(ctx context.Context, symbol string, periodicity contracts.Periodicity) (*contracts.FinancialHistory, error) {
	symbol = contracts.NormalizeSymbol(symbol)

	modules := annualModule
	if periodicity == contracts.PeriodicityQuarterly {
		modules = quarterlyModule
	}

	result, err := p.fetchQuoteSummary(ctx, symbol, modules)
	if err != nil {
		return nil, err
	}

	var statements []incomeStatement
	switch periodicity {
	case contracts.PeriodicityQuarterly:
		if result.IncomeStatementHistoryQuarterly != nil {
			statements = result.IncomeStatementHistoryQuarterly.Statements
		}
	default:
		if result.IncomeStatementHistory != nil {
			statements = result.IncomeStatementHistory.Statements
		}
	}
	if len(statements) == 0 {
		return nil, fmt.Errorf("%w: no %s statements for %s", contracts.ErrNotFound, periodicity, symbol)
	}

	history := &contracts.FinancialHistory{
		Symbol:      symbol,
		Periodicity: periodicity,
		Periods:     make([]contracts.FinancialPeriod, 0, len(statements)),
	}
	if result.Price != nil {
		history.Name = displayName(result.Price.LongName, result.Price.ShortName)
	}

	// Upstream sends newest first; engines want oldest first
	for i := len(statements) - 1; i >= 0; i-- {
		s := statements[i]
		end := time.Unix(int64(s.EndDate.val()), 0).UTC()
		history.Periods = append(history.Periods, contracts.FinancialPeriod{
			Label:           periodLabel(end, periodicity),
			EndDate:         end.Format("2006-01-02"),
			Revenue:         s.TotalRevenue.val(),
			GrossProfit:     s.GrossProfit.val(),
			OperatingIncome: s.OperatingIncome.val(),
			NetIncome:       s.NetIncome.val(),
			RDExpense:       s.ResearchDevelopment.val(),
		})
	}

	return history, nil
}

// fetchQuoteSummary calls the quoteSummary endpoint and unwraps the
// single-result envelope
func (p *Provider) fetchQuoteSummary(ctx context.Context, symbol, modules string) (*quoteSummaryResult, error) {
	endpoint := fmt.Sprintf("%s%s/%s?modules=%s",
		p.baseURL, quoteSummaryPath, url.PathEscape(symbol), url.QueryEscape(modules))

	var decoded quoteSummaryResponse
	if err := p.fetchJSON(ctx, endpoint, symbol, &decoded); err != nil {
		return nil, err
	}

	if decoded.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", contracts.ErrNotFound, symbol, decoded.QuoteSummary.Error.Description)
	}
	if len(decoded.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: no summary data for %s", contracts.ErrNotFound, symbol)
	}

	return &decoded.QuoteSummary.Result[0], nil
}

// fetchJSON performs one rate-limited GET and decodes the body
func (p *Provider) fetchJSON(ctx context.Context, endpoint, symbol string, dest interface{}) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	resp, err := p.http.Get(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", contracts.ErrUpstreamUnavailable, symbol, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", contracts.ErrNotFound, symbol)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: %s: upstream returned %d", contracts.ErrUpstreamUnavailable, symbol, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: %s: decode failed: %v", contracts.ErrUpstreamUnavailable, symbol, err)
	}
	return nil
}

// periodLabel renders "2023" for annual periods, "Q3 2024" for quarterly
func periodLabel(end time.Time, periodicity contracts.Periodicity) string {
	if periodicity == contracts.PeriodicityQuarterly {
		quarter := (int(end.Month())-1)/3 + 1
		return fmt.Sprintf("Q%d %d", quarter, end.Year())
	}
	return fmt.Sprintf("%d", end.Year())
}

func displayName(long, short string) string {
	if long != "" {
		return long
	}
	return short
}
