package fight

import (
	"fmt"
	"strings"

	"fightnight/policy"
	"fightnight/utils"
)

const (
	JUDGE_VARIANCE  = 2
	DOMINANT_MARGIN = 25
	MUST_WIN_SCORE  = 10
	STARS_MIN       = 1
	STARS_MAX       = 5
	STARS_BASE      = 2
	WAR_DAMAGE      = 100
	SNOOZER_DAMAGE  = 30
)

// RoundScore scores one round on the 10-point must system. A round winner who
// scored a knockdown, or won by more than DOMINANT_MARGIN, takes it 10-8.
func RoundScore(red, blue int, redKnockdown, blueKnockdown bool) (int, int) {
	switch {
	case red > blue:
		if redKnockdown || red-blue > DOMINANT_MARGIN {
			return MUST_WIN_SCORE, MUST_WIN_SCORE - 2
		}
		return MUST_WIN_SCORE, MUST_WIN_SCORE - 1
	case blue > red:
		if blueKnockdown || blue-red > DOMINANT_MARGIN {
			return MUST_WIN_SCORE - 2, MUST_WIN_SCORE
		}
		return MUST_WIN_SCORE - 1, MUST_WIN_SCORE
	}
	return MUST_WIN_SCORE, MUST_WIN_SCORE
}

// scoreRound has each judge read the round with a little independent noise.
func (s *fightState) scoreRound() {
	var reads []string
	for j := range s.cards {
		variance := utils.Uniform(s.rng, -JUDGE_VARIANCE, JUDGE_VARIANCE)
		r, b := RoundScore(s.red.roundPoints+variance, s.blue.roundPoints, s.red.knockdown, s.blue.knockdown)
		s.cards[j].Red += r
		s.cards[j].Blue += b
		reads = append(reads, fmt.Sprintf("%d-%d", r, b))
	}
	s.narration.add(Event{
		Kind:   KindRoundEnd,
		Round:  s.round,
		Action: fmt.Sprintf("End of round %d. Judges: %s", s.round, strings.Join(reads, ", ")),
	})
}

// Votes counts the judges favoring each corner. Even cards count for nobody.
func Votes(cards [JUDGES]Scorecard) (red, blue int) {
	for _, c := range cards {
		switch {
		case c.Red > c.Blue:
			red++
		case c.Blue > c.Red:
			blue++
		}
	}
	return red, blue
}

// DecisionMethod labels a decision from the judge votes. A winner with no
// dissenting card gets DECISION, otherwise SPLIT DECISION. ok is false when
// the vote has no majority.
func DecisionMethod(redVotes, blueVotes int) (redWins bool, m Method, ok bool) {
	switch {
	case redVotes > blueVotes:
		if blueVotes == 0 {
			return true, MethodDecision, true
		}
		return true, MethodSplitDecision, true
	case blueVotes > redVotes:
		if redVotes == 0 {
			return false, MethodDecision, true
		}
		return false, MethodSplitDecision, true
	}
	return false, "", false
}

func (s *fightState) decide() (*corner, Method) {
	redVotes, blueVotes := Votes(s.cards)
	if redWins, m, ok := DecisionMethod(redVotes, blueVotes); ok {
		if redWins {
			return s.red, m
		}
		return s.blue, m
	}

	// no majority on the cards
	if s.engine.policy.DecisionTieBreak == policy.TieBreakDamage {
		switch {
		case s.red.damageDealt > s.blue.damageDealt:
			return s.red, MethodSplitDecision
		case s.blue.damageDealt > s.red.damageDealt:
			return s.blue, MethodSplitDecision
		}
	}
	return nil, MethodDraw
}

// FightStars rates a fight from 1 to 5 for bonus and event purposes.
func FightStars(m Method, round, heavyDamage int, title bool) int {
	stars := STARS_BASE
	switch m {
	case MethodKnockout:
		stars += 2
	case MethodSubmission:
		stars++
	}
	if m.IsFinish() && round == 1 {
		stars++
	}
	if heavyDamage > WAR_DAMAGE {
		stars++
	}
	if m.IsDecision() && heavyDamage < SNOOZER_DAMAGE {
		stars--
	}
	if title {
		stars++
	}
	return min(max(stars, STARS_MIN), STARS_MAX)
}
