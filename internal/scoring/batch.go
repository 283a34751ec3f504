package scoring

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wonny/quantlens/backend/internal/contracts"
	"github.com/wonny/quantlens/backend/pkg/config"
	"github.com/wonny/quantlens/backend/pkg/logger"
)

// BatchScorer ranks disruption profiles across a symbol list with
// bounded concurrency. Per-symbol failures become error rows instead
// of sinking the batch.
type BatchScorer struct {
	scorer  *DisruptionScorer
	workers int
	logger  *logger.Logger
}

// NewBatchScorer creates the batch ranking runner
func NewBatchScorer(cfg *config.Config, scorer *DisruptionScorer, log *logger.Logger) *BatchScorer {
	return &BatchScorer{
		scorer:  scorer,
		workers: cfg.Engine.FetchWorkers,
		logger:  log,
	}
}

// ScoreBatch scores every symbol and returns them most disruptive
// first. Symbols that fail keep a row with the error message so the
// caller sees a complete roster.
func (b *BatchScorer) ScoreBatch(ctx context.Context, symbols []string) *contracts.DisruptionRanking {
	jobs := make(chan string, len(symbols))
	results := make(chan contracts.DisruptionRankingEntry, len(symbols))

	var wg sync.WaitGroup
	for w := 0; w < b.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				results <- b.scoreOne(ctx, symbol)
			}
		}()
	}

	seen := make(map[string]bool, len(symbols))
	for _, symbol := range symbols {
		symbol = contracts.NormalizeSymbol(symbol)
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		jobs <- symbol
	}
	close(jobs)

	wg.Wait()
	close(results)

	entries := make([]contracts.DisruptionRankingEntry, 0, len(symbols))
	scored := 0
	for entry := range results {
		if entry.Error == "" {
			scored++
		}
		entries = append(entries, entry)
	}

	// Scored rows first by score, then errors; symbol breaks ties
	sort.Slice(entries, func(i, j int) bool {
		ei, ej := entries[i], entries[j]
		if (ei.Error == "") != (ej.Error == "") {
			return ei.Error == ""
		}
		if ei.Score != ej.Score {
			return ei.Score > ej.Score
		}
		return ei.Symbol < ej.Symbol
	})

	ranking := &contracts.DisruptionRanking{
		Compared:   scored,
		Entries:    entries,
		AnalyzedAt: time.Now().UTC(),
	}
	if scored > 0 {
		ranking.MostDisruptive = entries[0].Symbol
	}
	return ranking
}

func (b *BatchScorer) scoreOne(ctx context.Context, symbol string) contracts.DisruptionRankingEntry {
	result, err := b.scorer.Score(ctx, symbol)
	if err != nil {
		b.logger.WithField("symbol", symbol).WithError(err).Warn("disruption scoring failed")
		return contracts.DisruptionRankingEntry{Symbol: symbol, Error: err.Error()}
	}

	return contracts.DisruptionRankingEntry{
		Symbol:         result.Symbol,
		Name:           result.Name,
		Industry:       result.Industry,
		Score:          result.Score,
		Classification: result.Classification,
		RDIntensityPct: result.RDIntensity.CurrentPct,
		GrowthPct:      result.Revenue.YoYGrowthPct,
		MarginTrend:    result.Margins.Trend,
	}
}
