package peers

import "github.com/wonny/quantlens/backend/internal/contracts"

// DefaultUniverse is the candidate pool scanned during peer discovery.
// Large/mid-cap US names spread across sectors so sector matching has
// real discriminating power. Discovery never returns symbols outside
// this pool unless the caller supplies their own universe.
var DefaultUniverse = []string{
	// Technology
	"AAPL", "MSFT", "NVDA", "AVGO", "ORCL", "CRM", "ADBE", "AMD", "INTC",
	"QCOM", "TXN", "IBM", "NOW", "INTU", "PANW", "SNPS", "CDNS", "MU",
	"ANET", "KLAC", "LRCX", "AMAT", "CRWD", "DDOG", "SNOW", "PLTR",
	// Communication Services
	"GOOGL", "META", "NFLX", "DIS", "CMCSA", "TMUS", "VZ", "T", "EA", "TTWO",
	// Consumer Cyclical
	"AMZN", "TSLA", "HD", "MCD", "NKE", "SBUX", "LOW", "BKNG", "TJX",
	"ABNB", "UBER", "CMG", "ORLY", "MAR",
	// Consumer Defensive
	"WMT", "PG", "KO", "PEP", "COST", "PM", "MDLZ", "CL", "TGT", "KMB",
	// Financial Services
	"JPM", "BAC", "WFC", "GS", "MS", "BLK", "SCHW", "AXP", "V", "MA",
	"C", "SPGI", "PGR", "CB",
	// Healthcare
	"UNH", "JNJ", "LLY", "PFE", "ABBV", "MRK", "TMO", "ABT", "DHR",
	"BMY", "AMGN", "GILD", "ISRG", "VRTX", "REGN", "MRNA", "CVS",
	// Industrials
	"CAT", "BA", "HON", "UPS", "RTX", "LMT", "DE", "GE", "UNP", "ETN",
	"ADP", "MMM", "FDX",
	// Energy
	"XOM", "CVX", "COP", "SLB", "EOG", "MPC", "PSX", "OXY",
	// Utilities
	"NEE", "DUK", "SO", "D", "AEP",
	// Real Estate
	"PLD", "AMT", "EQIX", "SPG", "O",
	// Basic Materials
	"LIN", "APD", "SHW", "FCX", "NEM",
}

// UnionUniverse merges symbol lists into one deduplicated candidate
// pool, preserving first-seen order. Used to extend the default pool
// with theme constituents so thematic names are discoverable as peers.
func UnionUniverse(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range lists {
		for _, symbol := range list {
			normalized := contracts.NormalizeSymbol(symbol)
			if normalized == "" {
				continue
			}
			if _, dup := seen[normalized]; dup {
				continue
			}
			seen[normalized] = struct{}{}
			out = append(out, normalized)
		}
	}
	return out
}
