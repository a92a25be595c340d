package fight

import (
	"errors"
	"fmt"
	"math/rand"

	"fightnight/policy"
	"fightnight/roster"
)

var (
	ErrNilFighter    = errors.New("fighter is nil")
	ErrSameFighter   = errors.New("a fighter cannot be booked against themselves")
	ErrCrossDivision = errors.New("fighters are in different weight classes")
	ErrInvalidTrials = errors.New("trials must be positive")
)

// Fight engine constants - adjust these to tune gameplay
const (
	TITLE_ROUNDS    = 5
	STANDARD_ROUNDS = 3
	JUDGES          = 3

	STARTING_STAMINA     = 100.0
	BASE_RECOVERY        = 10.0
	CARDIO_RECOVERY_RATE = 0.1
	GASSED_THRESHOLD     = 40.0
	GASSED_PENALTY       = 0.6

	EXCHANGE_COST         = 8.0
	TAKEDOWN_COST         = 5.0
	STUFFED_TAKEDOWN_COST = 12.0
	BODY_SHOT_DRAIN       = 15.0

	ROLL_SPREAD = 20

	TAKEDOWN_OVERRIDE_CHANCE    = 15
	WRESTLER_OVERRIDE_CHANCE    = 40
	HEAD_HUNTER_OVERRIDE_CHANCE = 5
	TAKEDOWN_POINTS             = 10
	TAKEDOWN_DAMAGE             = 5
	LEG_DAMAGE_TDD_THRESHOLD    = 30
	LEG_DAMAGE_TDD_PENALTY      = 15

	SUB_ROLL_MAX       = 20
	SUB_THRESHOLD      = 30
	SUB_NEAR_MISS      = 15
	SUB_MAGICIAN_BONUS = 5

	KNOCKDOWN_WINDOW = 15
	KNOCKDOWN_POINTS = 20
)

// Engine resolves single fights. It holds no per-fight state and is safe to
// share between goroutines as long as each call gets its own *rand.Rand.
type Engine struct {
	policy policy.SimulationPolicy
}

func NewEngine(p policy.SimulationPolicy) *Engine {
	return &Engine{policy: p}
}

func (e *Engine) Policy() policy.SimulationPolicy {
	return e.policy
}

// corner is the fight-scoped state of one participant.
type corner struct {
	f           *roster.Fighter
	stamina     float64
	gassed      bool
	headDamage  int
	bodyDamage  int
	legDamage   int
	damageDealt int
	roundPoints int
	knockdown   bool
}

func newCorner(f *roster.Fighter) *corner {
	return &corner{f: f, stamina: STARTING_STAMINA}
}

func (c *corner) penalty() float64 {
	if c.gassed {
		return GASSED_PENALTY
	}
	return 1
}

func (c *corner) spend(amount float64) {
	c.stamina = max(c.stamina-amount, 0)
}

type finish struct {
	winner *corner
	method Method
}

type fightState struct {
	engine    *Engine
	rng       *rand.Rand
	voice     *Commentator
	narration *Narration
	red       *corner
	blue      *corner
	round     int
	rounds    int
	cards     [JUDGES]Scorecard
	// damage landed with heavy shots by both sides, used for the star rating
	heavyExchanged int
}

// Validate checks whether two fighters may be booked against each other.
func (e *Engine) Validate(a, b *roster.Fighter) error {
	if a == nil || b == nil {
		return ErrNilFighter
	}
	if a == b || a.ID == b.ID {
		return fmt.Errorf("%w: fighter %d", ErrSameFighter, a.ID)
	}
	if a.WeightClass != b.WeightClass && !e.policy.AllowCrossDivision {
		return fmt.Errorf("%w: %s vs %s", ErrCrossDivision, a.WeightClass, b.WeightClass)
	}
	return nil
}

// IsTitleFight requires the caller's flag, a current champion in the bout and
// a shared division.
func IsTitleFight(a, b *roster.Fighter, bout Bout) bool {
	return bout.TitleEligible && a.WeightClass == b.WeightClass && (a.IsChampion || b.IsChampion)
}

// Resolve runs one fight to completion. The only fighter state it touches is
// TotalDamageTaken, which is reset for both participants before the opening
// bell. Title flags, records and ranks are left to the career engine.
func (e *Engine) Resolve(rng *rand.Rand, a, b *roster.Fighter, bout Bout) (*Outcome, *Narration, error) {
	if err := e.Validate(a, b); err != nil {
		return nil, nil, err
	}

	title := IsTitleFight(a, b, bout)
	red, blue := a, b
	if blue.IsChampion && !red.IsChampion {
		red, blue = blue, red
	}

	rounds := STANDARD_ROUNDS
	if title || bout.MainEvent {
		rounds = TITLE_ROUNDS
	}

	red.TotalDamageTaken = 0
	blue.TotalDamageTaken = 0

	s := &fightState{
		engine:    e,
		rng:       rng,
		voice:     NewCommentator(rand.New(rand.NewSource(rng.Int63()))),
		narration: &Narration{},
		red:       newCorner(red),
		blue:      newCorner(blue),
		rounds:    rounds,
	}

	var end *finish
	for s.round = 1; s.round <= rounds && end == nil; s.round++ {
		s.startRound()
		for slot := 0; slot < e.policy.ExchangesPerRound; slot++ {
			if end = s.exchange(slot); end != nil {
				break
			}
		}
		if end == nil {
			s.scoreRound()
		}
	}
	// the loop post-increments past the last round played
	s.round--

	outcome := &Outcome{
		RedID:        red.ID,
		BlueID:       blue.ID,
		Round:        s.round,
		TotalRounds:  rounds,
		Scorecards:   s.cards,
		IsTitleFight: title,
		RedDamage:    s.red.damageDealt,
		BlueDamage:   s.blue.damageDealt,
		Event:        bout.EventName,
	}

	var winner *corner
	if end != nil {
		winner = end.winner
		outcome.Method = end.method
	} else {
		winner, outcome.Method = s.decide()
	}

	if winner == nil {
		outcome.Draw = true
	} else {
		loser := s.opponent(winner)
		outcome.WinnerID = winner.f.ID
		outcome.LoserID = loser.f.ID
	}

	if title {
		outcome.StillChampion = winner == nil || winner.f.IsChampion
		outcome.TitleChanged = !outcome.StillChampion
	}
	outcome.Stars = FightStars(outcome.Method, outcome.Round, s.heavyExchanged, title)

	s.announceResult(outcome, winner)
	return outcome, s.narration, nil
}

func (s *fightState) opponent(c *corner) *corner {
	if c == s.red {
		return s.blue
	}
	return s.red
}

func (s *fightState) startRound() {
	s.narration.add(Event{Kind: KindRoundStart, Round: s.round, Action: RoundStartAction(s.round, s.rounds)})

	for _, c := range []*corner{s.red, s.blue} {
		recovery := BASE_RECOVERY + float64(c.f.Stats.Cardio)*CARDIO_RECOVERY_RATE
		c.stamina = min(STARTING_STAMINA, c.stamina+recovery)
		c.roundPoints = 0
		c.knockdown = false

		wasGassed := c.gassed
		c.gassed = c.stamina < GASSED_THRESHOLD
		if c.gassed && !wasGassed {
			s.narration.add(Event{
				Kind:     KindGassed,
				Round:    s.round,
				Attacker: c.f.Name,
				Action:   s.voice.Action(KindGassed, c.f.Name),
			})
		}
	}
}

func (s *fightState) announceResult(o *Outcome, winner *corner) {
	if winner == nil {
		s.narration.add(Event{Kind: KindDecision, Round: o.Round, Action: "This one is scored a " + o.Summary()})
		return
	}
	action := fmt.Sprintf("%s wins by %s", winner.f.DisplayName(), o.Summary())
	switch {
	case o.TitleChanged:
		action += " ...AND NEW " + winner.f.WeightClass.String() + " CHAMPION!"
	case o.IsTitleFight:
		action += " ...AND STILL " + winner.f.WeightClass.String() + " CHAMPION!"
	}
	s.narration.add(Event{Kind: KindDecision, Round: o.Round, Attacker: winner.f.Name, Action: action})
}
