// Package ranking orders each division into rank numbers.
package ranking

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"fightnight/policy"
	"fightnight/roster"
)

var ErrMixedDivisions = errors.New("fighters from more than one division")

// RecordScore is the record-based ordering used when ranking scores are off:
// wins*10 - losses*3 plus the average of striking and grappling.
func RecordScore(f *roster.Fighter) int {
	return f.Record.Wins*10 - f.Record.Losses*3 + (f.Stats.Striking+f.Stats.Grappling)/2
}

// Score is the value contenders are sorted by, highest first.
func Score(f *roster.Fighter, p policy.SimulationPolicy) int {
	if p.RankByScore {
		return f.RankingScore
	}
	return RecordScore(f)
}

// RerankDivision recomputes every rank in one division from scratch. The
// champion gets 0, active contenders get 1..N by descending score with ties
// going to the lower id, and retired fighters drop to UnrankedRank. Only the
// Rank field is written.
func RerankDivision(fighters []*roster.Fighter, p policy.SimulationPolicy) error {
	if len(fighters) == 0 {
		return nil
	}

	division := fighters[0].WeightClass
	var champion *roster.Fighter
	contenders := make([]*roster.Fighter, 0, len(fighters))
	for _, f := range fighters {
		if f.WeightClass != division {
			return fmt.Errorf("%w: %s and %s", ErrMixedDivisions, division, f.WeightClass)
		}
		switch {
		case f.IsChampion:
			if champion != nil {
				return fmt.Errorf("%w: %s (fighters %d and %d)", roster.ErrMultipleChampions, division, champion.ID, f.ID)
			}
			champion = f
		case f.Retired:
		default:
			contenders = append(contenders, f)
		}
	}

	slices.SortFunc(contenders, func(a, b *roster.Fighter) int {
		if c := cmp.Compare(Score(b, p), Score(a, p)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	for _, f := range fighters {
		if f.Retired && !f.IsChampion {
			f.Rank = roster.UnrankedRank
		}
	}
	if champion != nil {
		champion.Rank = 0
	}
	for i, f := range contenders {
		f.Rank = i + 1
	}
	return nil
}

// Rerank runs RerankDivision for every weight class. Divisions are never
// compared with each other.
func Rerank(r roster.Roster, p policy.SimulationPolicy) error {
	for _, w := range roster.WeightClasses() {
		if err := RerankDivision(r.Division(w), p); err != nil {
			return fmt.Errorf("rerank %s: %w", w, err)
		}
	}
	return nil
}
