// Package peers implements peer discovery and cross-sectional metric
// comparison for a target symbol.
package peers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/wonny/quantlens/backend/internal/contracts"
	"github.com/wonny/quantlens/backend/pkg/config"
	"github.com/wonny/quantlens/backend/pkg/logger"
)

// Similarity scoring per candidate, applied against the target:
//   - same sector      +5
//   - same industry   +10 (on top of the sector bonus)
//   - market cap within 0.25x–4x   +5
//   - else market cap within 0.1x–10x  +2
//
// Candidates below minSimilarityScore never qualify, so a bare
// cap-size match alone is not peerhood.
const (
	sectorBonus        = 5.0
	industryBonus      = 10.0
	capCloseBonus      = 5.0
	capLooseBonus      = 2.0
	minSimilarityScore = 5.0
)

// Discovery finds comparable companies by scanning the candidate
// universe with bounded concurrency
// ⭐ SSOT: 피어 선정 로직은 여기서만
type Discovery struct {
	provider     contracts.MarketDataProvider
	cache        *discoveryCache
	universe     []string
	workers      int
	defaultLimit int
	logger       *logger.Logger
}

// NewDiscovery creates a discovery engine over the default universe
func NewDiscovery(cfg *config.Config, provider contracts.MarketDataProvider, log *logger.Logger) *Discovery {
	return &Discovery{
		provider:     provider,
		cache:        newDiscoveryCache(),
		universe:     DefaultUniverse,
		workers:      cfg.Engine.DiscoveryWorkers,
		defaultLimit: cfg.Engine.DefaultPeerLimit,
		logger:       log,
	}
}

// WithUniverse replaces the candidate pool (tests, custom screens)
func (d *Discovery) WithUniverse(universe []string) *Discovery {
	d.universe = universe
	return d
}

var _ contracts.PeerDiscoverer = (*Discovery)(nil)

// scoredCandidate pairs a symbol with its similarity score and its
// position in the candidate universe
type scoredCandidate struct {
	symbol string
	score  float64
	rank   int
}

// DiscoverPeers returns up to limit peers for the target symbol,
// ordered most-similar first. The peer list is memoized per symbol;
// target classification is always re-fetched so the result header
// stays current even on a cache hit.
func (d *Discovery) DiscoverPeers(ctx context.Context, symbol string, limit int) (*contracts.PeerDiscoveryResult, error) {
	symbol = contracts.NormalizeSymbol(symbol)
	if limit <= 0 {
		limit = d.defaultLimit
	}

	target, err := d.provider.GetMetadata(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("target metadata for %s: %w", symbol, err)
	}
	if target.Sector == "" {
		return nil, fmt.Errorf("%w: %s has no sector classification", contracts.ErrNotFound, symbol)
	}

	if cached, ok := d.cache.get(symbol); ok {
		if len(cached) > limit {
			cached = cached[:limit]
		}
		return d.buildResult(target, cached, true), nil
	}

	candidates := d.scanUniverse(ctx, target)

	// Most similar first; ties keep the candidate-universe order so the
	// ranking is deterministic across runs
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].rank < candidates[j].rank
	})

	peers := make([]string, 0, len(candidates))
	for _, c := range candidates {
		peers = append(peers, c.symbol)
	}
	d.cache.put(symbol, peers)

	if len(peers) > limit {
		peers = peers[:limit]
	}

	d.logger.WithFields(map[string]interface{}{
		"symbol":     symbol,
		"candidates": len(candidates),
		"returned":   len(peers),
	}).Info("Peer discovery completed")

	return d.buildResult(target, peers, false), nil
}

// scanUniverse scores every universe candidate against the target with
// a bounded worker pool. Candidates whose metadata cannot be fetched
// are skipped, never fatal.
func (d *Discovery) scanUniverse(ctx context.Context, target *contracts.Metadata) []scoredCandidate {
	type job struct {
		symbol string
		rank   int
	}

	jobs := make(chan job, len(d.universe))
	results := make(chan scoredCandidate, len(d.universe))

	var wg sync.WaitGroup
	for w := 0; w < d.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				meta, err := d.provider.GetMetadata(ctx, j.symbol)
				if err != nil {
					d.logger.WithField("symbol", j.symbol).WithError(err).
						Debug("candidate metadata fetch failed, skipping")
					continue
				}
				if score := similarityScore(target, meta); score >= minSimilarityScore {
					results <- scoredCandidate{symbol: meta.Symbol, score: score, rank: j.rank}
				}
			}
		}()
	}

	for i, candidate := range d.universe {
		if contracts.NormalizeSymbol(candidate) == target.Symbol {
			continue // the target is never its own peer
		}
		jobs <- job{symbol: candidate, rank: i}
	}
	close(jobs)

	wg.Wait()
	close(results)

	candidates := make([]scoredCandidate, 0, len(results))
	for c := range results {
		candidates = append(candidates, c)
	}
	return candidates
}

// similarityScore rates how comparable candidate is to target
func similarityScore(target, candidate *contracts.Metadata) float64 {
	score := 0.0

	if candidate.Sector != "" && candidate.Sector == target.Sector {
		score += sectorBonus
	}
	if candidate.Industry != "" && candidate.Industry == target.Industry {
		score += industryBonus
	}

	if target.MarketCap > 0 && candidate.MarketCap > 0 {
		ratio := candidate.MarketCap / target.MarketCap
		switch {
		case ratio >= 0.25 && ratio <= 4:
			score += capCloseBonus
		case ratio >= 0.1 && ratio <= 10:
			score += capLooseBonus
		}
	}

	return score
}

func (d *Discovery) buildResult(target *contracts.Metadata, peers []string, fromCache bool) *contracts.PeerDiscoveryResult {
	return &contracts.PeerDiscoveryResult{
		Symbol:          target.Symbol,
		TargetSector:    target.Sector,
		TargetIndustry:  target.Industry,
		TargetMarketCap: target.MarketCap,
		Peers:           peers,
		PeerCount:       len(peers),
		FromCache:       fromCache,
	}
}
