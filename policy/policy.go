// Package policy holds the knobs that govern how fights are resolved and how
// their results are written back into fighter careers.
package policy

import (
	"errors"
	"fmt"
)

var ErrInvalidPolicy = errors.New("invalid simulation policy")

const (
	TieBreakDamage = "damage"
	TieBreakDraw   = "draw"
)

// SimulationPolicy is passed explicitly to the resolver, the career engine and
// the ranking sort. There is no package-level toggle.
type SimulationPolicy struct {
	// PersistRecords gates record, score, popularity, progression and history
	// updates. Title transfers are applied either way.
	PersistRecords     bool    `env:"PERSIST_RECORDS" envDefault:"true" json:"persist_records"`
	AllowCrossDivision bool    `env:"ALLOW_CROSS_DIVISION" envDefault:"false" json:"allow_cross_division"`
	KOChinDecay        float64 `env:"KO_CHIN_DECAY" envDefault:"0.5" json:"ko_chin_decay"`
	ExchangesPerRound  int     `env:"EXCHANGES_PER_ROUND" envDefault:"5" json:"exchanges_per_round"`
	DecisionTieBreak   string  `env:"DECISION_TIE_BREAK" envDefault:"damage" json:"decision_tie_break"`
	RankByScore        bool    `env:"RANK_BY_SCORE" envDefault:"true" json:"rank_by_score"`

	ClampStats  bool `env:"CLAMP_STATS" envDefault:"true" json:"clamp_stats"`
	StatFloor   int  `env:"STAT_FLOOR" envDefault:"0" json:"stat_floor"`
	StatCeiling int  `env:"STAT_CEILING" envDefault:"100" json:"stat_ceiling"`

	ProgressionCap    int `env:"PROGRESSION_CAP" envDefault:"95" json:"progression_cap"`
	PopularityGainCap int `env:"POPULARITY_GAIN_CAP" envDefault:"90" json:"popularity_gain_cap"`
	PopularityMax     int `env:"POPULARITY_MAX" envDefault:"100" json:"popularity_max"`
	YoungFighterAge   int `env:"YOUNG_FIGHTER_AGE" envDefault:"28" json:"young_fighter_age"`
	KOChinLoss        int `env:"KO_CHIN_LOSS" envDefault:"1" json:"ko_chin_loss"`
}

// Default mirrors the envDefault tags for callers that do not read the environment.
func Default() SimulationPolicy {
	return SimulationPolicy{
		PersistRecords:    true,
		KOChinDecay:       0.5,
		ExchangesPerRound: 5,
		DecisionTieBreak:  TieBreakDamage,
		RankByScore:       true,
		ClampStats:        true,
		StatFloor:         0,
		StatCeiling:       100,
		ProgressionCap:    95,
		PopularityGainCap: 90,
		PopularityMax:     100,
		YoungFighterAge:   28,
		KOChinLoss:        1,
	}
}

func (p SimulationPolicy) Validate() error {
	switch {
	case p.ExchangesPerRound < 1:
		return fmt.Errorf("%w: exchanges per round must be positive, got %d", ErrInvalidPolicy, p.ExchangesPerRound)
	case p.KOChinDecay < 0:
		return fmt.Errorf("%w: ko chin decay must not be negative, got %v", ErrInvalidPolicy, p.KOChinDecay)
	case p.DecisionTieBreak != TieBreakDamage && p.DecisionTieBreak != TieBreakDraw:
		return fmt.Errorf("%w: unknown decision tie break %q", ErrInvalidPolicy, p.DecisionTieBreak)
	case p.StatFloor > p.StatCeiling:
		return fmt.Errorf("%w: stat floor %d above ceiling %d", ErrInvalidPolicy, p.StatFloor, p.StatCeiling)
	case p.PopularityGainCap > p.PopularityMax:
		return fmt.Errorf("%w: popularity gain cap %d above max %d", ErrInvalidPolicy, p.PopularityGainCap, p.PopularityMax)
	case p.KOChinLoss < 0:
		return fmt.Errorf("%w: ko chin loss must not be negative, got %d", ErrInvalidPolicy, p.KOChinLoss)
	}
	return nil
}

// ClampStat applies the stat bounds when clamping is enabled.
func (p SimulationPolicy) ClampStat(v int) int {
	if !p.ClampStats {
		return v
	}
	return min(max(v, p.StatFloor), p.StatCeiling)
}
