package contracts

import "context"

// MarketDataProvider is the upstream data capability consumed by every engine
// ⭐ SSOT: 시장 데이터 접근 인터페이스
//
// All four calls may fail independently per symbol. Engines treat a failure
// as "drop this symbol from this batch", never as a crash.
type MarketDataProvider interface {
	GetMetadata(ctx context.Context, symbol string) (*Metadata, error)
	GetPriceHistory(ctx context.Context, symbol string, period string) (*PriceSeries, error)
	GetMetricSnapshot(ctx context.Context, symbol string) (*MetricSnapshot, error)
	GetFinancialHistory(ctx context.Context, symbol string, periodicity Periodicity) (*FinancialHistory, error)
}

// PeerDiscoverer finds comparable companies for a target symbol
type PeerDiscoverer interface {
	DiscoverPeers(ctx context.Context, symbol string, limit int) (*PeerDiscoveryResult, error)
}

// PeerComparer performs cross-sectional metric comparison
type PeerComparer interface {
	Compare(ctx context.Context, symbol string, peers []string) (*ComparisonResult, error)
}

// ThemeAnalyzer runs the full thematic basket analysis
type ThemeAnalyzer interface {
	Analyze(ctx context.Context, themeID string) (*ThemeAnalysisResult, error)
}
