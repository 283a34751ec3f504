package contracts

import "time"

// ConstituentReturn ranks one theme member by total-window return
type ConstituentReturn struct {
	Symbol    string  `json:"symbol"`
	ReturnPct float64 `json:"return_pct"`
}

// SectorWeight describes one sector's share of a theme basket
type SectorWeight struct {
	Sector string  `json:"sector"`
	Count  int     `json:"count"`
	Pct    float64 `json:"pct"`
}

// ThemeRisk summarizes intra-theme correlation and diversification
type ThemeRisk struct {
	IntraCorrelation *float64 `json:"intra_correlation"` // nil when insufficient data
	Diversification  string   `json:"diversification_score"`
	Description      string   `json:"diversification_description"`
}

// HealthComponents breaks the theme health score into its factors
type HealthComponents struct {
	Performance     float64 `json:"performance_score"`
	Momentum        float64 `json:"momentum_score"`
	Diversification float64 `json:"diversification_score"`
	Risk            float64 `json:"risk_score"`
}

// ConstituentDetail is the per-symbol summary attached to a theme result
type ConstituentDetail struct {
	Name         string   `json:"name"`
	CurrentPrice float64  `json:"current_price"`
	ReturnPct    *float64 `json:"total_return_pct"`
	MarketCap    float64  `json:"market_cap"`
	Sector       string   `json:"sector"`
}

// ThemeAnalysisResult is the output of a full theme analysis.
// Performance values are nil for horizons with no computable returns ("N/A"
// belongs to the serialization boundary, not to this struct).
type ThemeAnalysisResult struct {
	ThemeID            string                       `json:"theme_id"`
	Name               string                       `json:"theme"`
	Description        string                       `json:"description"`
	Constituents       []string                     `json:"constituents"`
	ReferenceETFs      []string                     `json:"reference_etfs,omitempty"`
	RiskLevel          string                       `json:"risk_level"`
	GrowthStage        string                       `json:"growth_stage"`
	Performance        map[string]*float64          `json:"theme_performance"`
	TopPerformers      []ConstituentReturn          `json:"top_performers"`
	Laggards           []ConstituentReturn          `json:"laggards"`
	SectorOverlap      []SectorWeight               `json:"sector_overlap"`
	MomentumScore      int                          `json:"momentum_score"`
	Risk               ThemeRisk                    `json:"theme_risk"`
	HealthScore        int                          `json:"theme_health_score"`
	HealthComponents   HealthComponents             `json:"health_components"`
	ConstituentDetails map[string]ConstituentDetail `json:"constituent_details"`
	FailedConstituents []string                     `json:"failed_constituents"`
	TotalConstituents  int                          `json:"total_constituents"`
	ValidConstituents  int                          `json:"valid_constituents"`
	AnalyzedAt         time.Time                    `json:"analyzed_at"`
}
