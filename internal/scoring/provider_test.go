package scoring

import (
	"context"
	"fmt"
	"sync"

	"github.com/wonny/quantlens/backend/internal/contracts"
	"github.com/wonny/quantlens/backend/pkg/logger"
)

type fakeProvider struct {
	mu         sync.Mutex
	financials map[string]map[contracts.Periodicity]*contracts.FinancialHistory
	metadata   map[string]*contracts.Metadata
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		financials: make(map[string]map[contracts.Periodicity]*contracts.FinancialHistory),
		metadata:   make(map[string]*contracts.Metadata),
	}
}

func (f *fakeProvider) addFinancials(history *contracts.FinancialHistory) {
	if f.financials[history.Symbol] == nil {
		f.financials[history.Symbol] = make(map[contracts.Periodicity]*contracts.FinancialHistory)
	}
	f.financials[history.Symbol][history.Periodicity] = history
}

func (f *fakeProvider) GetFinancialHistory(_ context.Context, symbol string, periodicity contracts.Periodicity) (*contracts.FinancialHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if byPeriodicity, ok := f.financials[symbol]; ok {
		if history, ok := byPeriodicity[periodicity]; ok {
			return history, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", contracts.ErrNotFound, symbol)
}

func (f *fakeProvider) GetMetadata(_ context.Context, symbol string) (*contracts.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if meta, ok := f.metadata[symbol]; ok {
		return meta, nil
	}
	return nil, fmt.Errorf("%w: %s", contracts.ErrNotFound, symbol)
}

func (f *fakeProvider) GetPriceHistory(_ context.Context, symbol string, _ string) (*contracts.PriceSeries, error) {
	return nil, fmt.Errorf("%w: %s", contracts.ErrNotFound, symbol)
}

func (f *fakeProvider) GetMetricSnapshot(_ context.Context, symbol string) (*contracts.MetricSnapshot, error) {
	return nil, fmt.Errorf("%w: %s", contracts.ErrNotFound, symbol)
}

func testLogger() *logger.Logger {
	return logger.NewNop()
}

// annualPeriod builds one annual statement line
func annualPeriod(year string, revenue, gross, operating, net, rd float64) contracts.FinancialPeriod {
	return contracts.FinancialPeriod{
		Label:           year,
		EndDate:         year + "-12-31",
		Revenue:         revenue,
		GrossProfit:     gross,
		OperatingIncome: operating,
		NetIncome:       net,
		RDExpense:       rd,
	}
}
