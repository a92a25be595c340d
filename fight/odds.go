package fight

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"fightnight/roster"
	"fightnight/utils"

	"golang.org/x/sync/errgroup"
)

// Odds summarizes repeated simulations of the same matchup.
type Odds struct {
	Trials   int            `json:"trials"`
	AID      int            `json:"a_id"`
	BID      int            `json:"b_id"`
	AWins    int            `json:"a_wins"`
	BWins    int            `json:"b_wins"`
	Draws    int            `json:"draws"`
	Finishes int            `json:"finishes"`
	Methods  map[Method]int `json:"methods"`
}

func (o *Odds) AProbability() float64 {
	if o.Trials == 0 {
		return 0
	}
	return float64(o.AWins) / float64(o.Trials)
}

// Moneyline converts a win probability into American odds.
func Moneyline(p float64) int {
	switch {
	case p <= 0 || p >= 1:
		return 0
	case p >= 0.5:
		return -int(math.Round(100 * p / (1 - p)))
	}
	return int(math.Round(100 * (1 - p) / p))
}

// EstimateOdds resolves the matchup `trials` times on copies of the fighters,
// so the originals are never touched. Trial i is seeded with seed+i, which
// makes the estimate reproducible regardless of scheduling.
func EstimateOdds(ctx context.Context, e *Engine, a, b *roster.Fighter, bout Bout, trials int, seed int64) (*Odds, error) {
	if trials < 1 {
		return nil, fmt.Errorf("estimate odds: %w, got %d", ErrInvalidTrials, trials)
	}
	if err := e.Validate(a, b); err != nil {
		return nil, fmt.Errorf("estimate odds: %w", err)
	}

	results := make([]*Outcome, trials)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < trials; i++ {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			rng := utils.NewSeededRNG(seed + int64(i))
			out, _, err := e.Resolve(rng, a.Clone(), b.Clone(), bout)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("estimate odds: %w", err)
	}

	odds := &Odds{Trials: trials, AID: a.ID, BID: b.ID, Methods: make(map[Method]int)}
	for _, out := range results {
		odds.Methods[out.Method]++
		if out.Method.IsFinish() {
			odds.Finishes++
		}
		switch out.WinnerID {
		case a.ID:
			odds.AWins++
		case b.ID:
			odds.BWins++
		default:
			odds.Draws++
		}
	}
	return odds, nil
}
