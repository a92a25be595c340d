package roster

import (
	"cmp"
	"fmt"
	"slices"
)

// Roster is the full set of fighters across every division.
type Roster []*Fighter

// ByID indexes the roster. Duplicate ids are an error.
func (r Roster) ByID() (map[int]*Fighter, error) {
	idx := make(map[int]*Fighter, len(r))
	for _, f := range r {
		if _, ok := idx[f.ID]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, f.ID)
		}
		idx[f.ID] = f
	}
	return idx, nil
}

func (r Roster) Find(id int) (*Fighter, bool) {
	for _, f := range r {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// Division returns the fighters of one weight class ordered by id.
func (r Roster) Division(w WeightClass) []*Fighter {
	var out []*Fighter
	for _, f := range r {
		if f.WeightClass == w {
			out = append(out, f)
		}
	}
	slices.SortFunc(out, func(a, b *Fighter) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Standings returns a division's active fighters ordered by rank, then id.
func (r Roster) Standings(w WeightClass) []*Fighter {
	var out []*Fighter
	for _, f := range r.Division(w) {
		if f.Active() {
			out = append(out, f)
		}
	}
	slices.SortStableFunc(out, func(a, b *Fighter) int { return cmp.Compare(a.Rank, b.Rank) })
	return out
}

func (r Roster) Champion(w WeightClass) *Fighter {
	for _, f := range r {
		if f.WeightClass == w && f.IsChampion {
			return f
		}
	}
	return nil
}

// ValidateChampions checks that no division has two belt holders.
func (r Roster) ValidateChampions() error {
	seen := make(map[WeightClass]int)
	for _, f := range r {
		if !f.IsChampion {
			continue
		}
		if prev, ok := seen[f.WeightClass]; ok {
			return fmt.Errorf("%w: %s (fighters %d and %d)", ErrMultipleChampions, f.WeightClass, prev, f.ID)
		}
		seen[f.WeightClass] = f.ID
	}
	return nil
}

func (r Roster) NextID() int {
	next := 1
	for _, f := range r {
		if f.ID >= next {
			next = f.ID + 1
		}
	}
	return next
}
