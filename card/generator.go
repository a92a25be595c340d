package card

import (
	"cmp"
	"fmt"
	"slices"

	"fightnight/career"
	"fightnight/roster"
)

// Matchmaker builds the next card from the current standings.
type Matchmaker struct {
	promotion string
}

func NewMatchmaker(promotion string) *Matchmaker {
	return &Matchmaker{promotion: promotion}
}

// Pairings returns every bout the standings suggest: in each division the
// champion meets the top contender and the remaining fighters are paired
// with their neighbour in the rankings. Injured and retired fighters sit out.
func (m *Matchmaker) Pairings(r roster.Roster) [][2]*roster.Fighter {
	var pairs [][2]*roster.Fighter
	for _, w := range roster.WeightClasses() {
		var available []*roster.Fighter
		for _, f := range r.Standings(w) {
			if f.Healthy() {
				available = append(available, f)
			}
		}
		for i := 0; i+1 < len(available); i += 2 {
			pairs = append(pairs, [2]*roster.Fighter{available[i], available[i+1]})
		}
	}

	slices.SortFunc(pairs, func(a, b [2]*roster.Fighter) int {
		aTitle, bTitle := a[0].IsChampion || a[1].IsChampion, b[0].IsChampion || b[1].IsChampion
		if aTitle != bTitle {
			if aTitle {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(b[0].Popularity+b[1].Popularity, a[0].Popularity+a[1].Popularity); c != 0 {
			return c
		}
		return cmp.Compare(a[0].ID, b[0].ID)
	})
	return pairs
}

// Build books the strongest pairings into the card for the calendar's next
// event, best bout on top.
func (m *Matchmaker) Build(r roster.Roster, cal career.Calendar) (*Card, error) {
	name, date := cal.EventName(m.promotion), cal.DateString()
	pairs := m.Pairings(r)
	if len(pairs) == 0 {
		return nil, fmt.Errorf("build %s: %w", name, ErrEmptyCard)
	}
	if len(pairs) > len(Slots) {
		pairs = pairs[:len(Slots)]
	}

	c := New(name, date)
	for _, p := range pairs {
		if err := c.Book(p[0], p[1]); err != nil {
			return nil, fmt.Errorf("build %s: %w", name, err)
		}
	}
	return c, nil
}
