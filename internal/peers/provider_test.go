package peers

import (
	"context"
	"fmt"
	"sync"

	"github.com/wonny/quantlens/backend/internal/contracts"
	"github.com/wonny/quantlens/backend/pkg/config"
	"github.com/wonny/quantlens/backend/pkg/logger"
)

// fakeProvider serves canned metadata/snapshots and counts calls.
// Safe for concurrent use since the engines fan out.
type fakeProvider struct {
	mu            sync.Mutex
	metadata      map[string]*contracts.Metadata
	snapshots     map[string]*contracts.MetricSnapshot
	metadataCalls map[string]int
	snapshotCalls map[string]int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		metadata:      make(map[string]*contracts.Metadata),
		snapshots:     make(map[string]*contracts.MetricSnapshot),
		metadataCalls: make(map[string]int),
		snapshotCalls: make(map[string]int),
	}
}

func (f *fakeProvider) addCompany(symbol, sector, industry string, marketCap float64) {
	f.metadata[symbol] = &contracts.Metadata{
		Symbol:    symbol,
		Sector:    sector,
		Industry:  industry,
		MarketCap: marketCap,
	}
}

func (f *fakeProvider) addSnapshot(snap *contracts.MetricSnapshot) {
	f.snapshots[snap.Symbol] = snap
}

func (f *fakeProvider) GetMetadata(_ context.Context, symbol string) (*contracts.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metadataCalls[symbol]++
	if meta, ok := f.metadata[symbol]; ok {
		return meta, nil
	}
	return nil, fmt.Errorf("%w: %s", contracts.ErrNotFound, symbol)
}

func (f *fakeProvider) GetMetricSnapshot(_ context.Context, symbol string) (*contracts.MetricSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshotCalls[symbol]++
	if snap, ok := f.snapshots[symbol]; ok {
		return snap, nil
	}
	return nil, fmt.Errorf("%w: %s", contracts.ErrNotFound, symbol)
}

func (f *fakeProvider) GetPriceHistory(_ context.Context, symbol string, _ string) (*contracts.PriceSeries, error) {
	return nil, fmt.Errorf("%w: %s", contracts.ErrNotFound, symbol)
}

func (f *fakeProvider) GetFinancialHistory(_ context.Context, symbol string, _ contracts.Periodicity) (*contracts.FinancialHistory, error) {
	return nil, fmt.Errorf("%w: %s", contracts.ErrNotFound, symbol)
}

func (f *fakeProvider) metadataCallCount(symbol string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.metadataCalls[symbol]
}

func testConfig() *config.Config {
	return &config.Config{
		Engine: config.EngineConfig{
			DiscoveryWorkers:   4,
			FetchWorkers:       4,
			DefaultPeerLimit:   5,
			DeviationThreshold: 20,
			ValuationThreshold: 30,
		},
	}
}

func testLogger() *logger.Logger {
	return logger.NewNop()
}
