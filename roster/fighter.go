package roster

import (
	"errors"
	"slices"
)

var (
	ErrUnknownWeightClass = errors.New("unknown weight class")
	ErrMultipleChampions  = errors.New("division has more than one champion")
	ErrDuplicateID        = errors.New("duplicate fighter id")
)

// UnrankedRank is the rank given to fighters outside the division order.
const UnrankedRank = 999

const (
	TraitWrestler           = "Wrestler"
	TraitHeadHunter         = "Head Hunter"
	TraitSubmissionMagician = "Submission Magician"
	TraitWellRounded        = "Well Rounded"
	TraitFragile            = "Fragile"
	TraitHardToKill         = "Hard to Kill"
	TraitTrashTalker        = "Trash Talker"
	TraitShowman            = "Showman"
)

const (
	ResultWin  = "Win"
	ResultLoss = "Loss"
	ResultDraw = "Draw"
)

type Stats struct {
	Striking  int `json:"striking"`
	Grappling int `json:"grappling"`
	TDD       int `json:"tdd"`
	SubOff    int `json:"sub_off"`
	SubDef    int `json:"sub_def"`
	Chin      int `json:"chin"`
	Cardio    int `json:"cardio"`
}

type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

type AnnualStats struct {
	Wins     int `json:"wins"`
	Finishes int `json:"finishes"`
}

// HistoryEntry is one past fight from the owning fighter's point of view.
type HistoryEntry struct {
	ID           string   `json:"id"`
	OpponentID   int      `json:"opponent_id"`
	OpponentName string   `json:"opponent"`
	Result       string   `json:"result"`
	Method       string   `json:"method"`
	Round        int      `json:"round"`
	Event        string   `json:"event"`
	Scores       []string `json:"scores,omitempty"`
}

// Fighter is keyed by ID everywhere; Name is display only and may repeat.
type Fighter struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Nickname    string      `json:"nickname"`
	WeightClass WeightClass `json:"weight_class"`
	Stats       Stats       `json:"stats"`
	Traits      []string    `json:"traits"`

	Record           Record         `json:"record"`
	IsChampion       bool           `json:"is_champion"`
	Rank             int            `json:"rank"`
	TotalDamageTaken int            `json:"-"`
	Age              int            `json:"age"`
	Popularity       int            `json:"popularity"`
	InjuryMonths     int            `json:"injury_months"`
	RankingScore     int            `json:"ranking_score"`
	AnnualStats      AnnualStats    `json:"annual_stats"`
	Retired          bool           `json:"retired"`
	History          []HistoryEntry `json:"history"`
}

func (f *Fighter) HasTrait(trait string) bool {
	return slices.Contains(f.Traits, trait)
}

func (f *Fighter) Healthy() bool {
	return f.InjuryMonths <= 0
}

// Active fighters can be booked and ranked.
func (f *Fighter) Active() bool {
	return !f.Retired
}

// DisplayName renders the name with the nickname in quotes when there is one.
func (f *Fighter) DisplayName() string {
	if f.Nickname == "" {
		return f.Name
	}
	return f.Name + " \"" + f.Nickname + "\""
}

// Clone returns a deep copy that shares no slices with f.
func (f *Fighter) Clone() *Fighter {
	c := *f
	c.Traits = slices.Clone(f.Traits)
	c.History = make([]HistoryEntry, len(f.History))
	for i, h := range f.History {
		h.Scores = slices.Clone(h.Scores)
		c.History[i] = h
	}
	return &c
}

// ClampStats bounds every skill stat to [floor, ceil].
func (f *Fighter) ClampStats(floor, ceil int) {
	for _, s := range f.statRefs() {
		*s = min(max(*s, floor), ceil)
	}
}

func (f *Fighter) statRefs() []*int {
	s := &f.Stats
	return []*int{&s.Striking, &s.Grappling, &s.TDD, &s.SubOff, &s.SubDef, &s.Chin, &s.Cardio}
}

// InitialRankingScore is the score a fighter without one starts from.
func InitialRankingScore(r Record, champion bool) int {
	if champion {
		return 2000
	}
	return min(r.Wins*50-r.Losses*10, 1500)
}

// CountFightsAgainst returns how many times f has met the opponent.
func (f *Fighter) CountFightsAgainst(opponentID int) int {
	n := 0
	for _, h := range f.History {
		if h.OpponentID == opponentID {
			n++
		}
	}
	return n
}
