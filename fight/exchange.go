package fight

import (
	"fightnight/roster"
	"fightnight/utils"
)

type strikeKind struct {
	kind   Kind
	points int
	damage int
	head   int
	body   int
	legs   int
	drain  float64
	heavy  bool
}

// strikeTable is indexed by a d10 roll minus one.
var strikeTable = func() [10]strikeKind {
	leg := strikeKind{kind: KindLegKick, points: 5, damage: 5, legs: 15}
	body := strikeKind{kind: KindBodyShot, points: 8, damage: 8, body: 15, drain: BODY_SHOT_DRAIN}
	light := strikeKind{kind: KindStrikeLight, points: 5, damage: 5, head: 8}
	heavy := strikeKind{kind: KindStrikeHeavy, points: 15, damage: 20, head: 20, heavy: true}
	return [10]strikeKind{leg, leg, body, body, light, light, light, light, heavy, heavy}
}()

func (s *fightState) exchange(slot int) *finish {
	att, def := s.red, s.blue
	if s.rng.Intn(2) == 1 {
		att, def = def, att
	}
	att.spend(EXCHANGE_COST)
	clock := s.voice.Clock(slot, s.engine.policy.ExchangesPerRound)

	if s.wantsTakedown(att, def) {
		return s.takedown(att, def, clock)
	}
	return s.strike(att, def, clock)
}

// wantsTakedown compares the attacker's grappling against the defender's
// striking; a trait-dependent override lets anyone change levels now and then.
func (s *fightState) wantsTakedown(att, def *corner) bool {
	if att.f.Stats.Grappling > def.f.Stats.Striking {
		return true
	}
	chance := TAKEDOWN_OVERRIDE_CHANCE
	switch {
	case att.f.HasTrait(roster.TraitWrestler):
		chance = WRESTLER_OVERRIDE_CHANCE
	case att.f.HasTrait(roster.TraitHeadHunter):
		chance = HEAD_HUNTER_OVERRIDE_CHANCE
	}
	return s.rng.Intn(100) < chance
}

func (s *fightState) takedown(att, def *corner, clock string) *finish {
	offense := float64(att.f.Stats.Grappling)*att.penalty() + float64(utils.Uniform(s.rng, -ROLL_SPREAD, ROLL_SPREAD))
	defense := float64(def.f.Stats.TDD) * def.penalty()
	if def.legDamage > LEG_DAMAGE_TDD_THRESHOLD {
		defense -= LEG_DAMAGE_TDD_PENALTY
	}

	if offense <= defense {
		att.spend(STUFFED_TAKEDOWN_COST)
		s.narration.add(Event{
			Kind: KindTakedownStuff, Round: s.round, Clock: clock,
			Attacker: att.f.Name, Defender: def.f.Name,
			Action: s.voice.Action(KindTakedownStuff, def.f.Name),
		})
		return nil
	}

	att.roundPoints += TAKEDOWN_POINTS
	att.damageDealt += TAKEDOWN_DAMAGE
	att.spend(TAKEDOWN_COST)
	s.narration.add(Event{
		Kind: KindTakedown, Round: s.round, Clock: clock,
		Attacker: att.f.Name, Defender: def.f.Name,
		Action: s.voice.Action(KindTakedown, att.f.Name),
	})

	roll := att.f.Stats.SubOff + s.rng.Intn(SUB_ROLL_MAX+1)
	if att.f.HasTrait(roster.TraitSubmissionMagician) {
		roll += SUB_MAGICIAN_BONUS
	}
	switch {
	case roll > def.f.Stats.SubDef+SUB_THRESHOLD:
		_, action := s.voice.Submission(att.f.Name)
		e := Event{Kind: KindSubmission, Round: s.round, Clock: clock, Attacker: att.f.Name, Defender: def.f.Name, Action: action}
		s.voice.Color(&e)
		s.narration.add(e)
		return &finish{winner: att, method: MethodSubmission}
	case roll > def.f.Stats.SubDef+SUB_NEAR_MISS:
		s.narration.add(Event{
			Kind: KindSubAttempt, Round: s.round, Clock: clock,
			Attacker: att.f.Name, Defender: def.f.Name,
			Action: s.voice.SubmissionAttempt(att.f.Name) + " " + def.f.Name + " escapes.",
		})
	}
	return nil
}

func (s *fightState) strike(att, def *corner, clock string) *finish {
	offense := float64(att.f.Stats.Striking)*att.penalty() + float64(utils.Uniform(s.rng, -ROLL_SPREAD, ROLL_SPREAD))
	defense := float64(def.f.Stats.Striking) * def.penalty()
	if offense <= defense {
		s.narration.add(Event{
			Kind: KindStrikeMiss, Round: s.round, Clock: clock,
			Attacker: att.f.Name, Defender: def.f.Name,
			Action: s.voice.Action(KindStrikeMiss, att.f.Name),
		})
		return nil
	}

	st := strikeTable[s.rng.Intn(len(strikeTable))]
	att.roundPoints += st.points
	att.damageDealt += st.damage
	def.f.TotalDamageTaken += st.damage
	def.headDamage += st.head
	def.bodyDamage += st.body
	def.legDamage += st.legs
	def.spend(st.drain)

	e := Event{
		Kind: st.kind, Round: s.round, Clock: clock,
		Attacker: att.f.Name, Defender: def.f.Name,
		Action: s.voice.Action(st.kind, att.f.Name),
	}
	if !st.heavy {
		s.narration.add(e)
		return nil
	}
	s.heavyExchanged += st.damage

	resist := s.engine.chinResistance(def.f)
	roll := float64(s.rng.Intn(101))
	switch {
	case roll > resist:
		e.Kind = KindKnockout
		e.Action += " " + Line(s.voice.rng, KindKnockout)
		s.voice.Color(&e)
		s.narration.add(e)
		return &finish{winner: att, method: MethodKnockout}
	case roll > resist-KNOCKDOWN_WINDOW:
		att.roundPoints += KNOCKDOWN_POINTS
		att.knockdown = true
		e.Kind = KindKnockdown
		e.Action += " " + s.voice.Action(KindKnockdown, att.f.Name)
		s.voice.Color(&e)
	}
	s.narration.add(e)
	return nil
}

// chinResistance is the knockout threshold: it falls as damage piles up.
func (e *Engine) chinResistance(f *roster.Fighter) float64 {
	return float64(f.Stats.Chin) - e.policy.KOChinDecay*float64(f.TotalDamageTaken)
}

// KnockoutChance is the probability that a heavy shot finishes f right now.
func (e *Engine) KnockoutChance(f *roster.Fighter) float64 {
	resist := e.chinResistance(f)
	// rolls are uniform over 0..100 inclusive
	wins := 100 - int(resist)
	if resist < 0 {
		wins = 101
	}
	return float64(min(max(wins, 0), 101)) / 101
}
