package career

import (
	"fmt"

	"fightnight/fight"
	"fightnight/roster"
)

const (
	CALLOUT_CHANCE      = 20
	TRASH_TALKER_CHANCE = 70
	SHOWMAN_CHANCE      = 50
	RUMOR_AGE           = 36
	RUMOR_LOSSES        = 10
	RUMOR_CHANCE        = 30
)

// PostFightNews produces the headlines a result generates: callouts from
// the winner, retirement talk around a fading loser, and booing after a split.
func (e *Engine) PostFightNews(o *fight.Outcome, winner, loser *roster.Fighter) []string {
	var news []string
	if o.Draw {
		return []string{fmt.Sprintf("DEADLOCK: %s and %s fight to a draw.", winner.Name, loser.Name)}
	}

	chance := CALLOUT_CHANCE
	switch {
	case winner.HasTrait(roster.TraitTrashTalker):
		chance = TRASH_TALKER_CHANCE
	case winner.HasTrait(roster.TraitShowman):
		chance = SHOWMAN_CHANCE
	}
	if e.rng.Intn(100) < chance {
		target := "the Champion"
		if winner.IsChampion {
			target = "the #1 Contender"
		}
		msgs := []string{
			fmt.Sprintf("MIC SKILLS: %s demands a title shot!", winner.Name),
			fmt.Sprintf("CALLOUT: %s says %s is ducking them!", winner.Name, target),
			fmt.Sprintf("POST-FIGHT: %s claims they are the GOAT.", winner.Name),
		}
		news = append(news, msgs[e.rng.Intn(len(msgs))])
	}

	if loser.Age >= RUMOR_AGE && loser.Record.Losses >= RUMOR_LOSSES && e.rng.Intn(100) < RUMOR_CHANCE {
		news = append(news, fmt.Sprintf("RUMOR: %s hints at retirement.", loser.Name))
	}
	if o.Method == fight.MethodSplitDecision {
		news = append(news, fmt.Sprintf("CONTROVERSY: Fans booing the decision in %s vs %s.", winner.Name, loser.Name))
	}
	return news
}
