// Package themes implements thematic basket definitions and analytics.
package themes

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wonny/quantlens/backend/internal/contracts"
)

// Theme is one investable basket definition
type Theme struct {
	ID            string   `yaml:"id" json:"id"`
	Name          string   `yaml:"name" json:"name"`
	Description   string   `yaml:"description" json:"description"`
	Constituents  []string `yaml:"constituents" json:"constituents"`
	ReferenceETFs []string `yaml:"reference_etfs" json:"reference_etfs,omitempty"`
	RiskLevel     string   `yaml:"risk_level" json:"risk_level"`
	GrowthStage   string   `yaml:"growth_stage" json:"growth_stage"`
}

// MomentumWeights blend the short/medium/long horizon buckets
type MomentumWeights struct {
	ShortTerm  float64 `yaml:"short_term_weight" json:"short_term_weight"`
	MediumTerm float64 `yaml:"medium_term_weight" json:"medium_term_weight"`
	LongTerm   float64 `yaml:"long_term_weight" json:"long_term_weight"`
}

// HealthWeights blend the four theme health factors
type HealthWeights struct {
	Performance     float64 `yaml:"performance_weight" json:"performance_weight"`
	Momentum        float64 `yaml:"momentum_weight" json:"momentum_weight"`
	Diversification float64 `yaml:"diversification_weight" json:"diversification_weight"`
	Risk            float64 `yaml:"risk_weight" json:"risk_weight"`
}

// ScoringConfig holds the tunable analytics weights, loaded alongside
// the theme definitions
type ScoringConfig struct {
	Momentum MomentumWeights `yaml:"momentum" json:"momentum"`
	Health   HealthWeights   `yaml:"health" json:"health"`
}

// defaultScoring fills any weight left unset in the file
var defaultScoring = ScoringConfig{
	Momentum: MomentumWeights{ShortTerm: 0.3, MediumTerm: 0.4, LongTerm: 0.3},
	Health:   HealthWeights{Performance: 0.35, Momentum: 0.25, Diversification: 0.20, Risk: 0.20},
}

// themeFile is the on-disk document shape
type themeFile struct {
	Themes  []Theme       `yaml:"themes"`
	Scoring ScoringConfig `yaml:"scoring"`
}

// Store holds theme definitions loaded from YAML. Reload swaps the
// whole set atomically so readers never observe a partial file.
// ⭐ SSOT: 테마 정의는 여기서만
type Store struct {
	mu      sync.RWMutex
	path    string
	byID    map[string]*Theme
	sorted  []string // IDs in listing order
	scoring ScoringConfig
}

// NewStore loads theme definitions from path
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the YAML file and swaps the definition set in one
// step. A broken file leaves the previous set in place.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read themes file %s: %w", s.path, err)
	}

	var doc themeFile
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return fmt.Errorf("parse themes file %s: %w", s.path, err)
	}
	if len(doc.Themes) == 0 {
		return fmt.Errorf("themes file %s defines no themes", s.path)
	}

	byID := make(map[string]*Theme, len(doc.Themes))
	sorted := make([]string, 0, len(doc.Themes))
	for i := range doc.Themes {
		theme := &doc.Themes[i]
		if theme.ID == "" {
			return fmt.Errorf("themes file %s: theme %q has no id", s.path, theme.Name)
		}
		id := strings.ToLower(theme.ID)
		if _, dup := byID[id]; dup {
			return fmt.Errorf("themes file %s: duplicate theme id %q", s.path, id)
		}
		for j, symbol := range theme.Constituents {
			theme.Constituents[j] = contracts.NormalizeSymbol(symbol)
		}
		byID[id] = theme
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	scoring := doc.Scoring
	applyScoringDefaults(&scoring)

	s.mu.Lock()
	s.byID = byID
	s.sorted = sorted
	s.scoring = scoring
	s.mu.Unlock()
	return nil
}

// applyScoringDefaults backfills weights the file leaves at zero
func applyScoringDefaults(cfg *ScoringConfig) {
	if cfg.Momentum.ShortTerm == 0 && cfg.Momentum.MediumTerm == 0 && cfg.Momentum.LongTerm == 0 {
		cfg.Momentum = defaultScoring.Momentum
	}
	h := &cfg.Health
	if h.Performance == 0 && h.Momentum == 0 && h.Diversification == 0 && h.Risk == 0 {
		cfg.Health = defaultScoring.Health
	}
}

// Scoring returns the analytics weights loaded with the definitions
func (s *Store) Scoring() ScoringConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scoring
}

// List returns all themes in ID order
func (s *Store) List() []*Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Theme, 0, len(s.sorted))
	for _, id := range s.sorted {
		out = append(out, s.byID[id])
	}
	return out
}

// Get returns the theme with the given ID (case-insensitive)
func (s *Store) Get(id string) (*Theme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if theme, ok := s.byID[strings.ToLower(strings.TrimSpace(id))]; ok {
		return theme, nil
	}
	return nil, fmt.Errorf("%w: theme %q", contracts.ErrNotFound, id)
}

// GetByName resolves a theme by display name (case-insensitive), for
// callers holding a human label instead of an ID
func (s *Store) GetByName(name string) (*Theme, error) {
	needle := strings.ToLower(strings.TrimSpace(name))

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.sorted {
		if strings.ToLower(s.byID[id].Name) == needle {
			return s.byID[id], nil
		}
	}
	return nil, fmt.Errorf("%w: theme named %q", contracts.ErrNotFound, name)
}
