package commands

import (
	"fmt"

	"github.com/wonny/quantlens/backend/internal/contracts"
	"github.com/wonny/quantlens/backend/internal/marketdata"
	"github.com/wonny/quantlens/backend/internal/peers"
	"github.com/wonny/quantlens/backend/internal/scoring"
	"github.com/wonny/quantlens/backend/internal/themes"
	"github.com/wonny/quantlens/backend/pkg/config"
	"github.com/wonny/quantlens/backend/pkg/httputil"
	"github.com/wonny/quantlens/backend/pkg/logger"
	"github.com/wonny/quantlens/backend/pkg/redis"
)

// deps holds the wired engine stack shared by every command
type deps struct {
	cfg      *config.Config
	log      *logger.Logger
	redis    *redis.Client
	provider contracts.MarketDataProvider

	discovery *peers.Discovery
	comparer  *peers.Comparer

	themeStore *themes.Store
	analytics  *themes.Analytics

	disruption *scoring.DisruptionScorer
	batch      *scoring.BatchScorer
	earnings   *scoring.EarningsQualityGrader
}

// buildDeps loads config and wires the full provider/engine stack
// ⭐ SSOT: 의존성 조립은 여기서만
func buildDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		// Cache is an optimization; the engines work without it
		log.WithError(err).Warn("Redis unavailable, running without cache")
		redisClient = redis.Disabled()
	}

	httpClient := httputil.New(cfg, log)
	if redisClient.Enabled() {
		httpClient = httpClient.WithRateLimiter(redis.NewRateLimiter(redisClient, "quantlens"), redis.QuoteAPIRateLimit)
	}

	var provider contracts.MarketDataProvider = marketdata.NewProvider(cfg, httpClient, log)
	provider = marketdata.NewCachedProvider(provider, redis.NewCache(redisClient, "quantlens"), log)

	themeStore, err := themes.NewStore(cfg.ThemesPath)
	if err != nil {
		return nil, fmt.Errorf("load themes: %w", err)
	}

	// Theme constituents extend the discovery pool so thematic names
	// surface as peer candidates too
	lists := [][]string{peers.DefaultUniverse}
	for _, theme := range themeStore.List() {
		lists = append(lists, theme.Constituents)
	}
	discovery := peers.NewDiscovery(cfg, provider, log).WithUniverse(peers.UnionUniverse(lists...))

	disruption := scoring.NewDisruptionScorer(provider, log)

	return &deps{
		cfg:        cfg,
		log:        log,
		redis:      redisClient,
		provider:   provider,
		discovery:  discovery,
		comparer:   peers.NewComparer(cfg, provider, log),
		themeStore: themeStore,
		analytics:  themes.NewAnalytics(cfg, themeStore, provider, log),
		disruption: disruption,
		batch:      scoring.NewBatchScorer(cfg, disruption, log),
		earnings:   scoring.NewEarningsQualityGrader(provider, log),
	}, nil
}

// close releases shared resources
func (d *deps) close() {
	if d.redis != nil {
		d.redis.Close()
	}
}
