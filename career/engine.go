// Package career writes fight results and the passage of time back into
// fighter careers.
package career

import (
	"errors"
	"fmt"
	"math/rand"

	"fightnight/fight"
	"fightnight/policy"
	"fightnight/roster"
	"fightnight/utils"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrNilArgument     = errors.New("outcome and both fighters are required")
	ErrSameFighter     = errors.New("winner and loser are the same fighter")
	ErrOutcomeMismatch = errors.New("fighters do not match the outcome")
	ErrDualChampion    = errors.New("update would leave a division with two champions")
)

const (
	POPULARITY_GAIN_MIN = 1
	POPULARITY_GAIN_MAX = 3
	PROGRESSION_CHANCE  = 50
)

// Engine applies results. It draws from a single *rand.Rand and is not safe
// for concurrent use; cards are processed one bout at a time anyway.
type Engine struct {
	policy policy.SimulationPolicy
	rng    *rand.Rand
}

func NewEngine(p policy.SimulationPolicy, rng *rand.Rand) *Engine {
	return &Engine{policy: p, rng: rng}
}

// Report describes what ApplyResult changed.
type Report struct {
	WinnerID     int      `json:"winner_id"`
	LoserID      int      `json:"loser_id"`
	TitleChanged bool     `json:"title_changed"`
	PointsGained int      `json:"points_gained"`
	UpsetBonus   int      `json:"upset_bonus"`
	PointsLost   int      `json:"points_lost"`
	Notes        []string `json:"notes"`
}

func (r *Report) note(format string, args ...any) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

// ApplyResult mutates both fighters for a finished fight. For a draw pass the
// two participants in either order. It must be called exactly once per
// outcome; a second call counts the fight twice.
func (e *Engine) ApplyResult(o *fight.Outcome, winner, loser *roster.Fighter) (*Report, error) {
	if o == nil || winner == nil || loser == nil {
		return nil, ErrNilArgument
	}
	if winner == loser || winner.ID == loser.ID {
		return nil, fmt.Errorf("%w: fighter %d", ErrSameFighter, winner.ID)
	}
	if err := matchOutcome(o, winner, loser); err != nil {
		return nil, err
	}
	if err := checkTitle(o, winner, loser); err != nil {
		return nil, err
	}

	var historyIDs [2]string
	if e.policy.PersistRecords {
		for i := range historyIDs {
			id, err := gonanoid.New()
			if err != nil {
				return nil, fmt.Errorf("generate history id: %w", err)
			}
			historyIDs[i] = id
		}
	}

	report := &Report{WinnerID: winner.ID, LoserID: loser.ID}
	if o.TitleChanged {
		transferTitle(winner, loser)
		report.TitleChanged = true
		report.note("%s is the new %s champion", winner.Name, winner.WeightClass)
	}

	if !e.policy.PersistRecords {
		return report, nil
	}

	if o.Draw {
		winner.Record.Draws++
		loser.Record.Draws++
	} else {
		e.recordWin(o, winner, loser, report)
	}

	appendHistory(o, winner, loser, historyIDs)

	if e.policy.ClampStats {
		winner.ClampStats(e.policy.StatFloor, e.policy.StatCeiling)
		loser.ClampStats(e.policy.StatFloor, e.policy.StatCeiling)
	}
	return report, nil
}

func matchOutcome(o *fight.Outcome, winner, loser *roster.Fighter) error {
	if o.Draw {
		ids := map[int]bool{o.RedID: true, o.BlueID: true}
		if !ids[winner.ID] || !ids[loser.ID] {
			return fmt.Errorf("%w: draw between %d and %d, got %d and %d", ErrOutcomeMismatch, o.RedID, o.BlueID, winner.ID, loser.ID)
		}
		return nil
	}
	if o.WinnerID != winner.ID || o.LoserID != loser.ID {
		return fmt.Errorf("%w: outcome %d def. %d, got %d and %d", ErrOutcomeMismatch, o.WinnerID, o.LoserID, winner.ID, loser.ID)
	}
	return nil
}

func checkTitle(o *fight.Outcome, winner, loser *roster.Fighter) error {
	if winner.IsChampion && loser.IsChampion && winner.WeightClass == loser.WeightClass {
		return fmt.Errorf("%w: %d and %d both hold the %s belt", ErrDualChampion, winner.ID, loser.ID, winner.WeightClass)
	}
	if !o.TitleChanged {
		if o.IsTitleFight && !o.Draw && !winner.IsChampion {
			return fmt.Errorf("%w: title retained but winner %d is not champion", ErrOutcomeMismatch, winner.ID)
		}
		return nil
	}

	switch {
	case o.Draw || !o.IsTitleFight:
		return fmt.Errorf("%w: title change on a non-title or drawn fight", ErrOutcomeMismatch)
	case winner.IsChampion:
		return fmt.Errorf("%w: winner %d already holds a belt", ErrDualChampion, winner.ID)
	case !loser.IsChampion || loser.WeightClass != winner.WeightClass:
		return fmt.Errorf("%w: loser %d does not hold the %s belt", ErrDualChampion, loser.ID, winner.WeightClass)
	}
	return nil
}

// transferTitle moves the belt in one step so no caller can observe a
// division with zero or two champions.
func transferTitle(winner, loser *roster.Fighter) {
	winner.IsChampion, loser.IsChampion = true, false
	winner.Rank, loser.Rank = 0, 1
}

func (e *Engine) recordWin(o *fight.Outcome, winner, loser *roster.Fighter, report *Report) {
	finish := o.Method.IsFinish()

	winner.Record.Wins++
	loser.Record.Losses++
	winner.AnnualStats.Wins++
	if finish {
		winner.AnnualStats.Finishes++
	}

	base, upset, finishBonus := WinPoints(winner.RankingScore, loser.RankingScore, finish)
	penalty := LossPenalty(loser.RankingScore)
	winner.RankingScore += base + upset + finishBonus
	loser.RankingScore = max(0, loser.RankingScore-penalty)

	report.PointsGained = base + upset + finishBonus
	report.UpsetBonus = upset
	report.PointsLost = penalty
	if upset > 0 {
		report.note("upset bonus: %s +%d", winner.Name, upset)
	}

	if winner.Popularity < e.policy.PopularityGainCap {
		gain := utils.Uniform(e.rng, POPULARITY_GAIN_MIN, POPULARITY_GAIN_MAX)
		winner.Popularity = min(winner.Popularity+gain, e.policy.PopularityMax)
	}

	if winner.Age < e.policy.YoungFighterAge && e.rng.Intn(100) < PROGRESSION_CHANCE {
		e.progress(winner, report)
	}

	if o.Method == fight.MethodKnockout && e.policy.KOChinLoss > 0 {
		loser.Stats.Chin = e.policy.ClampStat(loser.Stats.Chin - e.policy.KOChinLoss)
		report.note("%s's chin took permanent damage (-%d)", loser.Name, e.policy.KOChinLoss)
	}
}

func (e *Engine) progress(f *roster.Fighter, report *Report) {
	stats := []struct {
		name string
		val  *int
	}{
		{"striking", &f.Stats.Striking},
		{"grappling", &f.Stats.Grappling},
		{"tdd", &f.Stats.TDD},
	}
	pick := stats[e.rng.Intn(len(stats))]
	if *pick.val < e.policy.ProgressionCap {
		*pick.val++
		report.note("%s improved %s (+1)", f.Name, pick.name)
	}
}

func appendHistory(o *fight.Outcome, winner, loser *roster.Fighter, ids [2]string) {
	winResult, lossResult := roster.ResultWin, roster.ResultLoss
	if o.Draw {
		winResult, lossResult = roster.ResultDraw, roster.ResultDraw
	}

	for i, side := range []struct {
		self, opp *roster.Fighter
		result    string
	}{
		{winner, loser, winResult},
		{loser, winner, lossResult},
	} {
		side.self.History = append(side.self.History, roster.HistoryEntry{
			ID:           ids[i],
			OpponentID:   side.opp.ID,
			OpponentName: side.opp.Name,
			Result:       side.result,
			Method:       string(o.Method),
			Round:        o.Round,
			Event:        o.Event,
			Scores:       o.ScoresFor(side.self.ID),
		})
	}
}
