package career

import (
	"cmp"
	"fmt"
	"slices"

	"fightnight/roster"
	"fightnight/utils"
)

// Monthly career event tuning
const (
	RETIREMENT_AGE        = 42
	DECLINE_AGE           = 38
	MEDICAL_CHIN          = 40
	REGRESSION_AGE        = 34
	REGRESSION_CHANCE     = 35
	REGRESSION_FLOOR      = 50
	REGRESSION_AMOUNT     = 3
	ROOKIE_AGE            = 25
	AWARD_POPULARITY      = 10
	SCANDAL_ODDS          = 3 // in 1000
	SCANDAL_MONTHS        = 6
	SCANDAL_POPULARITY    = 10
	VIRAL_ODDS            = 5 // in 500
	VIRAL_GAIN_MIN        = 10
	VIRAL_GAIN_MAX        = 20
	CAMP_SWITCH_ODDS      = 5 // in 300
	CAMP_SWITCH_SWING     = 3
	INJURY_CHANCE         = 2 // percent
	FRAGILE_INJURY_CHANCE = 5
	DURABLE_INJURY_CHANCE = 1
)

type Retirement struct {
	FighterID int    `json:"fighter_id"`
	Name      string `json:"name"`
	Reason    string `json:"reason"`
}

type Injury struct {
	FighterID int    `json:"fighter_id"`
	Name      string `json:"name"`
	Severity  string `json:"severity"`
	Months    int    `json:"months"`
}

// MonthlyReport lists what happened to the roster between events.
type MonthlyReport struct {
	Date          string       `json:"date"`
	News          []string     `json:"news"`
	Retirements   []Retirement `json:"retirements"`
	Injuries      []Injury     `json:"injuries"`
	Cleared       []int        `json:"cleared"`
	FighterOfYear int          `json:"fighter_of_year,omitempty"`
	RookieOfYear  int          `json:"rookie_of_year,omitempty"`
}

func (m *MonthlyReport) add(format string, args ...any) {
	m.News = append(m.News, fmt.Sprintf(format, args...))
}

// ProcessMonth ages the roster and rolls the random career events for one
// month. Retired fighters are flagged, never removed, and skipped from then on.
// Fighters are visited in id order so a seeded run is reproducible.
func (e *Engine) ProcessMonth(r roster.Roster, cal Calendar) *MonthlyReport {
	report := &MonthlyReport{Date: cal.DateString()}

	active := make([]*roster.Fighter, 0, len(r))
	for _, f := range r {
		if f.Active() {
			active = append(active, f)
		}
	}
	slices.SortFunc(active, func(a, b *roster.Fighter) int { return cmp.Compare(a.ID, b.ID) })

	if cal.IsJanuary() {
		report.add("HAPPY NEW YEAR! Contracts reviewed.")
	}
	if cal.IsDecember() {
		e.yearEndAwards(active, report)
	}

	e.retirements(active, cal, report)
	active = slices.DeleteFunc(active, func(f *roster.Fighter) bool { return f.Retired })

	for _, f := range active {
		e.narrativeEvents(f, report)
	}
	for _, f := range active {
		e.injuryCheck(f, report)
	}

	if e.policy.ClampStats {
		for _, f := range active {
			f.ClampStats(e.policy.StatFloor, e.policy.StatCeiling)
		}
	}
	return report
}

func (e *Engine) yearEndAwards(active []*roster.Fighter, report *MonthlyReport) {
	var best, rookie *roster.Fighter
	for _, f := range active {
		if best == nil || f.AnnualStats.Wins > best.AnnualStats.Wins {
			best = f
		}
		if f.Age <= ROOKIE_AGE && (rookie == nil || f.AnnualStats.Wins > rookie.AnnualStats.Wins) {
			rookie = f
		}
	}

	if best != nil {
		report.FighterOfYear = best.ID
		report.add("AWARDS: Fighter of the Year: %s (%d wins)", best.Name, best.AnnualStats.Wins)
		best.Popularity = min(best.Popularity+AWARD_POPULARITY, e.policy.PopularityMax)
	}
	if rookie != nil {
		report.RookieOfYear = rookie.ID
		report.add("AWARDS: Rookie of the Year: %s", rookie.Name)
		rookie.Popularity = min(rookie.Popularity+AWARD_POPULARITY, e.policy.PopularityMax)
	}
	for _, f := range active {
		f.AnnualStats = roster.AnnualStats{}
	}
}

func (e *Engine) retirements(active []*roster.Fighter, cal Calendar, report *MonthlyReport) {
	for _, f := range active {
		reason := ""
		if cal.IsJanuary() {
			f.Age++
			switch {
			case f.Age >= RETIREMENT_AGE:
				reason = "Age"
			case f.Age >= DECLINE_AGE && f.Record.Losses > f.Record.Wins:
				reason = "Decline"
			}
			if f.Age > REGRESSION_AGE && reason == "" {
				e.ageRegression(f, report)
			}
		}
		if f.Stats.Chin < MEDICAL_CHIN {
			reason = "Medical (Chin)"
		}

		if reason == "" || f.IsChampion {
			continue
		}
		f.Retired = true
		f.Rank = roster.UnrankedRank
		report.Retirements = append(report.Retirements, Retirement{FighterID: f.ID, Name: f.Name, Reason: reason})
		report.add("RETIREMENT: %s has retired (%s).", f.Name, reason)
	}
}

func (e *Engine) ageRegression(f *roster.Fighter, report *MonthlyReport) {
	if e.rng.Intn(100) >= REGRESSION_CHANCE {
		return
	}
	stats := []struct {
		name string
		val  *int
	}{
		{"Chin", &f.Stats.Chin},
		{"Cardio", &f.Stats.Cardio},
		{"Striking", &f.Stats.Striking},
	}
	pick := stats[e.rng.Intn(len(stats))]
	if *pick.val > REGRESSION_FLOOR {
		*pick.val -= REGRESSION_AMOUNT
		report.add("REGRESSION: %s (-%d %s) due to age.", f.Name, REGRESSION_AMOUNT, pick.name)
	}
}

func (e *Engine) narrativeEvents(f *roster.Fighter, report *MonthlyReport) {
	if utils.Chance(e.rng, SCANDAL_ODDS, 1000) {
		f.InjuryMonths = SCANDAL_MONTHS
		f.Popularity = max(0, f.Popularity-SCANDAL_POPULARITY)
		report.add("SCANDAL: %s failed a drug test! Suspended %d months.", f.Name, SCANDAL_MONTHS)
	}
	if utils.Chance(e.rng, VIRAL_ODDS, 500) {
		gain := utils.Uniform(e.rng, VIRAL_GAIN_MIN, VIRAL_GAIN_MAX)
		f.Popularity = min(e.policy.PopularityMax, f.Popularity+gain)
		report.add("VIRAL: %s blows up on social media! Popularity +%d.", f.Name, gain)
	}
	if utils.Chance(e.rng, CAMP_SWITCH_ODDS, 300) {
		f.Stats.Striking += utils.Uniform(e.rng, -CAMP_SWITCH_SWING, CAMP_SWITCH_SWING)
		f.Stats.Grappling += utils.Uniform(e.rng, -CAMP_SWITCH_SWING, CAMP_SWITCH_SWING)
		report.add("CAMP SWITCH: %s moves to a new gym.", f.Name)
	}
}

// InjuryChance is the monthly percent chance of a healthy fighter getting hurt.
func InjuryChance(f *roster.Fighter) int {
	switch {
	case f.HasTrait(roster.TraitFragile):
		return FRAGILE_INJURY_CHANCE
	case f.HasTrait(roster.TraitHardToKill):
		return DURABLE_INJURY_CHANCE
	}
	return INJURY_CHANCE
}

func (e *Engine) injuryCheck(f *roster.Fighter, report *MonthlyReport) {
	if f.InjuryMonths > 0 {
		f.InjuryMonths--
		if f.InjuryMonths == 0 {
			report.Cleared = append(report.Cleared, f.ID)
			report.add("MEDICAL: %s cleared to fight.", f.Name)
		}
		return
	}
	if e.rng.Intn(100) >= InjuryChance(f) {
		return
	}

	var severity string
	var months int
	switch roll := utils.Uniform(e.rng, 1, 10); {
	case roll <= 6:
		severity, months = "Minor Injury", utils.Uniform(e.rng, 1, 2)
	case roll <= 9:
		severity, months = "Moderate Injury", utils.Uniform(e.rng, 3, 5)
	default:
		severity, months = "Major Injury", utils.Uniform(e.rng, 6, 12)
	}
	f.InjuryMonths = months
	report.Injuries = append(report.Injuries, Injury{FighterID: f.ID, Name: f.Name, Severity: severity, Months: months})
	report.add("INJURY: %s suffered a %s (%d mo).", f.Name, severity, months)
}
