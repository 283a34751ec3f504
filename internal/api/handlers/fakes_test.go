package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/gorilla/mux"

	"github.com/wonny/quantlens/backend/internal/contracts"
	"github.com/wonny/quantlens/backend/pkg/logger"
)

// fakeDiscoverer returns a canned discovery result and records the call
type fakeDiscoverer struct {
	result    *contracts.PeerDiscoveryResult
	err       error
	calls     int
	lastLimit int
}

func (f *fakeDiscoverer) DiscoverPeers(_ context.Context, symbol string, limit int) (*contracts.PeerDiscoveryResult, error) {
	f.calls++
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// fakeComparer returns a canned comparison result and records the peer group
type fakeComparer struct {
	result    *contracts.ComparisonResult
	err       error
	calls     int
	lastPeers []string
}

func (f *fakeComparer) Compare(_ context.Context, symbol string, peers []string) (*contracts.ComparisonResult, error) {
	f.calls++
	f.lastPeers = peers
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// fakeAnalyzer returns a canned theme analysis result
type fakeAnalyzer struct {
	result *contracts.ThemeAnalysisResult
	err    error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, themeID string) (*contracts.ThemeAnalysisResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// fakeFinancials backs the real scorers with canned statements so the
// score endpoints run end to end
type fakeFinancials struct {
	metadata   map[string]*contracts.Metadata
	financials map[string]*contracts.FinancialHistory
	errors     map[string]error
}

func newFakeFinancials() *fakeFinancials {
	return &fakeFinancials{
		metadata:   make(map[string]*contracts.Metadata),
		financials: make(map[string]*contracts.FinancialHistory),
		errors:     make(map[string]error),
	}
}

func (f *fakeFinancials) GetMetadata(_ context.Context, symbol string) (*contracts.Metadata, error) {
	if meta, ok := f.metadata[symbol]; ok {
		return meta, nil
	}
	return nil, fmt.Errorf("%w: %s", contracts.ErrNotFound, symbol)
}

func (f *fakeFinancials) GetFinancialHistory(_ context.Context, symbol string, _ contracts.Periodicity) (*contracts.FinancialHistory, error) {
	if err, ok := f.errors[symbol]; ok {
		return nil, err
	}
	if history, ok := f.financials[symbol]; ok {
		return history, nil
	}
	return nil, fmt.Errorf("%w: %s", contracts.ErrNotFound, symbol)
}

func (f *fakeFinancials) GetPriceHistory(_ context.Context, symbol string, _ string) (*contracts.PriceSeries, error) {
	return nil, fmt.Errorf("%w: %s", contracts.ErrNotFound, symbol)
}

func (f *fakeFinancials) GetMetricSnapshot(_ context.Context, symbol string) (*contracts.MetricSnapshot, error) {
	return nil, fmt.Errorf("%w: %s", contracts.ErrNotFound, symbol)
}

func testLogger() *logger.Logger {
	return logger.NewNop()
}

// serve routes one request through a mux router and captures the response
func serve(router *mux.Router, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
