package peers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/quantlens/backend/internal/contracts"
)

func TestSimilarityScore(t *testing.T) {
	target := &contracts.Metadata{Symbol: "AAPL", Sector: "Technology", Industry: "Consumer Electronics", MarketCap: 3e12}

	tests := []struct {
		name      string
		candidate *contracts.Metadata
		want      float64
	}{
		{
			name:      "same industry and comparable cap",
			candidate: &contracts.Metadata{Symbol: "SONY", Sector: "Technology", Industry: "Consumer Electronics", MarketCap: 1e12},
			want:      20, // 5 sector + 10 industry + 5 cap
		},
		{
			name:      "same sector different industry",
			candidate: &contracts.Metadata{Symbol: "MSFT", Sector: "Technology", Industry: "Software - Infrastructure", MarketCap: 3e12},
			want:      10, // 5 sector + 5 cap
		},
		{
			name:      "sector match with distant cap",
			candidate: &contracts.Metadata{Symbol: "SMCI", Sector: "Technology", Industry: "Computer Hardware", MarketCap: 4e11},
			want:      7, // 5 sector + 2 loose cap (ratio 0.13)
		},
		{
			name:      "unrelated company",
			candidate: &contracts.Metadata{Symbol: "XOM", Sector: "Energy", Industry: "Oil & Gas Integrated", MarketCap: 4e11},
			want:      2, // loose cap bonus only
		},
		{
			name:      "no cap data",
			candidate: &contracts.Metadata{Symbol: "PRIV", Sector: "Technology", Industry: "Consumer Electronics"},
			want:      15, // classification bonuses still apply
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, similarityScore(target, tt.candidate))
		})
	}
}

func TestDiscoverPeers(t *testing.T) {
	provider := newFakeProvider()
	provider.addCompany("AAPL", "Technology", "Consumer Electronics", 3e12)
	provider.addCompany("MSFT", "Technology", "Software - Infrastructure", 3e12) // 10
	provider.addCompany("NVDA", "Technology", "Semiconductors", 2.5e12)          // 10
	provider.addCompany("SONY", "Technology", "Consumer Electronics", 1e12)      // 20
	provider.addCompany("XOM", "Energy", "Oil & Gas Integrated", 4e11)           // 2, discarded
	provider.addCompany("JPM", "Financial Services", "Banks", 6e11)              // 2, discarded

	d := NewDiscovery(testConfig(), provider, testLogger()).
		WithUniverse([]string{"AAPL", "MSFT", "NVDA", "SONY", "XOM", "JPM", "GHOST"})

	result, err := d.DiscoverPeers(context.Background(), "aapl", 5)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", result.Symbol)
	assert.Equal(t, "Technology", result.TargetSector)
	assert.False(t, result.FromCache)
	assert.NotContains(t, result.Peers, "AAPL", "the target is never its own peer")
	assert.NotContains(t, result.Peers, "XOM", "below the similarity floor")
	assert.Equal(t, []string{"SONY", "MSFT", "NVDA"}, result.Peers, "most similar first, universe order breaks ties")
	assert.Equal(t, 3, result.PeerCount)
}

func TestDiscoverPeersLimit(t *testing.T) {
	provider := newFakeProvider()
	provider.addCompany("AAPL", "Technology", "Consumer Electronics", 3e12)
	provider.addCompany("MSFT", "Technology", "Software", 3e12)
	provider.addCompany("NVDA", "Technology", "Semiconductors", 2.5e12)
	provider.addCompany("AMD", "Technology", "Semiconductors", 2e11)

	d := NewDiscovery(testConfig(), provider, testLogger()).
		WithUniverse([]string{"MSFT", "NVDA", "AMD"})

	result, err := d.DiscoverPeers(context.Background(), "AAPL", 2)
	require.NoError(t, err)
	assert.Len(t, result.Peers, 2)
}

func TestDiscoverPeersCacheHitRefreshesTarget(t *testing.T) {
	provider := newFakeProvider()
	provider.addCompany("AAPL", "Technology", "Consumer Electronics", 3e12)
	provider.addCompany("MSFT", "Technology", "Software", 3e12)

	d := NewDiscovery(testConfig(), provider, testLogger()).
		WithUniverse([]string{"MSFT"})

	first, err := d.DiscoverPeers(context.Background(), "AAPL", 5)
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := d.DiscoverPeers(context.Background(), "AAPL", 5)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Peers, second.Peers)

	// Target classification is re-fetched on the hit; the universe scan is not
	assert.Equal(t, 2, provider.metadataCallCount("AAPL"))
	assert.Equal(t, 1, provider.metadataCallCount("MSFT"))
}

func TestDiscoverPeersUnknownSymbol(t *testing.T) {
	d := NewDiscovery(testConfig(), newFakeProvider(), testLogger())

	_, err := d.DiscoverPeers(context.Background(), "NOPE", 5)
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestDiscoverPeersMissingSector(t *testing.T) {
	provider := newFakeProvider()
	provider.addCompany("BLANK", "", "", 1e9)

	d := NewDiscovery(testConfig(), provider, testLogger())

	_, err := d.DiscoverPeers(context.Background(), "BLANK", 5)
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestDiscoverPeersTiesKeepUniverseOrder(t *testing.T) {
	// MSFT and NVDA both score 10 against AAPL; ORCL scores 7. The tied
	// pair must come out in universe order, not alphabetical order.
	build := func(universe []string) []string {
		provider := newFakeProvider()
		provider.addCompany("AAPL", "Technology", "Consumer Electronics", 3e12)
		provider.addCompany("MSFT", "Technology", "Software", 3e12)
		provider.addCompany("NVDA", "Technology", "Semiconductors", 2.5e12)
		provider.addCompany("ORCL", "Technology", "Software", 5e11)

		d := NewDiscovery(testConfig(), provider, testLogger()).WithUniverse(universe)
		result, err := d.DiscoverPeers(context.Background(), "AAPL", 5)
		require.NoError(t, err)
		return result.Peers
	}

	assert.Equal(t, []string{"NVDA", "MSFT", "ORCL"}, build([]string{"NVDA", "MSFT", "ORCL"}))
	assert.Equal(t, []string{"MSFT", "NVDA", "ORCL"}, build([]string{"ORCL", "MSFT", "NVDA"}),
		"higher scores still rank first; only ties follow the universe")

	// Concurrent scan arrival order never leaks into the ranking
	universe := []string{"NVDA", "MSFT", "ORCL"}
	first := build(universe)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, build(universe))
	}
}
