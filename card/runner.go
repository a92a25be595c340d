package card

import (
	"context"
	"fmt"
	"math/rand"

	"fightnight/career"
	"fightnight/fight"
	"fightnight/roster"
	"fightnight/utils"

	"github.com/rs/zerolog"
)

// Event economics
const (
	BASE_BUYS          = 100000
	POPULARITY_BUYS    = 4000
	QUALITY_BUYS       = 25000
	BUYS_SWING         = 20000
	AWARD_POPULARITY   = 5
	EVENT_RATING_FLOOR = 1
	EVENT_RATING_CAP   = 5
)

type BoutResult struct {
	Slot      string           `json:"slot"`
	RedID     int              `json:"red_id"`
	BlueID    int              `json:"blue_id"`
	Winner    string           `json:"winner"`
	Loser     string           `json:"loser"`
	Outcome   *fight.Outcome   `json:"outcome"`
	Report    *career.Report   `json:"report"`
	Meetings  int              `json:"previous_meetings"`
	News      []string         `json:"news"`
	Narration *fight.Narration `json:"-"`
}

// Award names the bout or fighter honored after the event.
type Award struct {
	Slot       string `json:"slot"`
	FighterIDs []int  `json:"fighter_ids"`
	Label      string `json:"label"`
}

type EventReport struct {
	Name                  string       `json:"name"`
	Date                  string       `json:"date"`
	Results               []BoutResult `json:"results"`
	FightOfTheNight       *Award       `json:"fight_of_the_night,omitempty"`
	PerformanceOfTheNight *Award       `json:"performance_of_the_night,omitempty"`
	AverageStars          float64      `json:"average_stars"`
	Buys                  int          `json:"buys"`
	Rating                int          `json:"rating"`
	News                  []string     `json:"news"`
}

// Runner resolves a card bout by bout and feeds each result to the career
// engine before the next bout starts.
type Runner struct {
	engine *fight.Engine
	career *career.Engine
	logger zerolog.Logger
}

func NewRunner(engine *fight.Engine, careerEngine *career.Engine, logger zerolog.Logger) *Runner {
	return &Runner{engine: engine, career: careerEngine, logger: logger}
}

// Run resolves the card from the last prelim up to the main event. Bouts run
// strictly in sequence so a belt won earlier on the card is already in place
// for later bouts. Cancellation is honored between bouts; bouts already
// resolved stay applied.
func (r *Runner) Run(ctx context.Context, c *Card, rng *rand.Rand) (*EventReport, error) {
	p := r.engine.Policy()
	if err := c.Validate(p); err != nil {
		return nil, fmt.Errorf("validate card %s: %w", c.Name, err)
	}

	report := &EventReport{Name: c.Name, Date: c.Date, Results: make([]BoutResult, len(c.Bouts))}
	main := c.Bouts[MainEvent]
	mainEventPopularity := main.Red.Popularity + main.Blue.Popularity

	r.logger.Info().Str("event", c.Name).Int("bouts", len(c.Bouts)).Msg("event starting")

	// Each bout gets its own stream so a change to one bout never reshuffles
	// the rest of the card.
	eventSeed := rng.Int63()

	for i := len(c.Bouts) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("event %s interrupted before %s: %w", c.Name, c.Bouts[i].Slot, err)
		}
		res, err := r.runBout(c, i, utils.NewSeededRNG(utils.BoutSeed(eventSeed, i)))
		if err != nil {
			return nil, err
		}
		report.Results[i] = *res
		report.News = append(report.News, res.News...)
	}

	r.awards(report)
	if p.PersistRecords {
		r.awardBonuses(report, c)
	}

	total := 0
	for _, res := range report.Results {
		total += res.Outcome.Stars
	}
	report.AverageStars = float64(total) / float64(len(report.Results))
	report.Buys = int(BASE_BUYS + float64(mainEventPopularity*POPULARITY_BUYS) + report.AverageStars*QUALITY_BUYS + float64(utils.Uniform(rng, -BUYS_SWING, BUYS_SWING)))
	report.Rating = min(max(int(report.AverageStars), EVENT_RATING_FLOOR), EVENT_RATING_CAP)

	r.logger.Info().
		Str("event", c.Name).
		Str("buys", utils.FormatNumber(report.Buys)).
		Int("rating", report.Rating).
		Msg("event complete")
	return report, nil
}

func (r *Runner) runBout(c *Card, i int, rng *rand.Rand) (*BoutResult, error) {
	b := c.Bouts[i]
	res := &BoutResult{Slot: b.Slot, Meetings: b.Red.CountFightsAgainst(b.Blue.ID)}
	if res.Meetings > 0 {
		res.News = append(res.News, fmt.Sprintf("RIVALRY: %s and %s meet for fight #%d.", b.Red.Name, b.Blue.Name, res.Meetings+1))
	}

	outcome, narration, err := r.engine.Resolve(rng, b.Red, b.Blue, c.BoutContext(i))
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", c.Name, b.Slot, err)
	}
	res.Outcome, res.Narration = outcome, narration
	res.RedID, res.BlueID = outcome.RedID, outcome.BlueID

	winner, loser := b.Red, b.Blue
	if outcome.Draw {
		if winner.ID != outcome.RedID {
			winner, loser = loser, winner
		}
	} else if winner.ID != outcome.WinnerID {
		winner, loser = loser, winner
	}
	res.Winner, res.Loser = winner.Name, loser.Name

	report, err := r.career.ApplyResult(outcome, winner, loser)
	if err != nil {
		return nil, fmt.Errorf("%s %s: apply result: %w", c.Name, b.Slot, err)
	}
	res.Report = report
	res.News = append(res.News, r.career.PostFightNews(outcome, winner, loser)...)

	r.logger.Info().
		Str("event", c.Name).
		Str("slot", b.Slot).
		Int("winner_id", outcome.WinnerID).
		Int("loser_id", outcome.LoserID).
		Str("method", string(outcome.Method)).
		Int("round", outcome.Round).
		Int("stars", outcome.Stars).
		Bool("title_changed", outcome.TitleChanged).
		Msg("bout complete")
	return res, nil
}

// fightOfTheNight returns the index of the bout with the most stars. Results
// run from the last index down, so an earlier-run bout keeps a tie unless the
// main event matches it.
func fightOfTheNight(results []BoutResult) int {
	best := -1
	for i := len(results) - 1; i >= 0; i-- {
		stars := results[i].Outcome.Stars
		switch {
		case best < 0, stars > results[best].Outcome.Stars:
			best = i
		case i == MainEvent && stars == results[best].Outcome.Stars:
			best = i
		}
	}
	return best
}

// awards picks Fight of the Night (most stars, the main event wins ties) and
// Performance of the Night (earliest finish, the first one run wins ties).
func (r *Runner) awards(report *EventReport) {
	if best := fightOfTheNight(report.Results); best >= 0 {
		res := report.Results[best]
		report.FightOfTheNight = &Award{
			Slot:       res.Slot,
			FighterIDs: []int{res.RedID, res.BlueID},
			Label:      res.Winner + " vs " + res.Loser,
		}
	}

	fastest := -1
	for i := len(report.Results) - 1; i >= 0; i-- {
		o := report.Results[i].Outcome
		if !o.Method.IsFinish() {
			continue
		}
		if fastest < 0 || o.Round < report.Results[fastest].Outcome.Round {
			fastest = i
		}
	}
	if fastest >= 0 {
		res := report.Results[fastest]
		report.PerformanceOfTheNight = &Award{
			Slot:       res.Slot,
			FighterIDs: []int{res.Outcome.WinnerID},
			Label:      res.Winner,
		}
	}
}

func (r *Runner) awardBonuses(report *EventReport, c *Card) {
	maxPopularity := r.engine.Policy().PopularityMax
	fighters := make(map[int]*roster.Fighter, len(c.Bouts)*2)
	for _, b := range c.Bouts {
		fighters[b.Red.ID] = b.Red
		fighters[b.Blue.ID] = b.Blue
	}
	for _, award := range []*Award{report.FightOfTheNight, report.PerformanceOfTheNight} {
		if award == nil {
			continue
		}
		for _, id := range award.FighterIDs {
			if f, ok := fighters[id]; ok {
				f.Popularity = min(f.Popularity+AWARD_POPULARITY, maxPopularity)
			}
		}
	}
}
