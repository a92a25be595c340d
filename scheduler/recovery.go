package scheduler

import (
	"fmt"
	"math/rand"

	"fightnight/card"
	"fightnight/roster"
	"fightnight/utils"

	"github.com/rs/zerolog"
)

// FIGHT_WEEK_PULLOUT_ODDS is the percent chance that a booked fighter
// withdraws during fight week.
const FIGHT_WEEK_PULLOUT_ODDS = 2

var pulloutReasons = []string{
	"tore a knee ligament in sparring",
	"was hospitalized during the weight cut",
	"failed the pre-fight medical",
	"suffered a cut in training",
	"withdrew with a back injury",
	"came down with a staph infection",
}

type Recovery struct {
	logger zerolog.Logger
}

func NewRecovery(logger zerolog.Logger) *Recovery {
	return &Recovery{logger: logger}
}

// FightWeekPullouts rolls a withdrawal for every booked fighter. A fighter
// who pulls out is injured for a month. It returns one headline per pullout.
func (r *Recovery) FightWeekPullouts(c *card.Card, rng *rand.Rand) []string {
	var news []string
	for _, b := range c.Bouts {
		for _, f := range []*roster.Fighter{b.Red, b.Blue} {
			if !utils.Chance(rng, FIGHT_WEEK_PULLOUT_ODDS, 100) {
				continue
			}
			reason := pulloutReasons[rng.Intn(len(pulloutReasons))]
			f.InjuryMonths = max(f.InjuryMonths, 1)
			news = append(news, fmt.Sprintf("PULLOUT: %s %s and is off %s.", f.Name, reason, c.Name))
		}
	}
	return news
}

// VoidUnavailableBouts returns a copy of the card without the bouts that have
// an injured or retired fighter. The remaining bouts move up the billing, so
// the best surviving bout becomes the main event.
func (r *Recovery) VoidUnavailableBouts(c *card.Card) *card.Card {
	out := card.New(c.Name, c.Date)
	for _, b := range c.Bouts {
		if reason := unavailable(b.Red, b.Blue); reason != "" {
			r.logger.Warn().
				Str("event", c.Name).
				Str("slot", b.Slot).
				Int("red_id", b.Red.ID).
				Int("blue_id", b.Blue.ID).
				Str("reason", reason).
				Msg("bout voided")
			continue
		}
		// Capacity cannot be exceeded: out never holds more bouts than c.
		_ = out.Book(b.Red, b.Blue)
	}
	return out
}

func unavailable(fighters ...*roster.Fighter) string {
	for _, f := range fighters {
		switch {
		case f.Retired:
			return f.Name + " is retired"
		case !f.Healthy():
			return f.Name + " is injured"
		}
	}
	return ""
}
