package fight

import (
	"fmt"
	"iter"
	"strings"
)

type Method string

const (
	MethodKnockout      Method = "KO/TKO"
	MethodSubmission    Method = "SUBMISSION"
	MethodDecision      Method = "DECISION"
	MethodSplitDecision Method = "SPLIT DECISION"
	MethodDraw          Method = "DRAW"
)

func (m Method) IsFinish() bool {
	return m == MethodKnockout || m == MethodSubmission
}

func (m Method) IsDecision() bool {
	return m == MethodDecision || m == MethodSplitDecision || m == MethodDraw
}

// Bout is the caller's booking context for a single fight.
type Bout struct {
	TitleEligible bool
	MainEvent     bool
	EventName     string
}

// Scorecard is one judge's accumulated totals, red corner first.
type Scorecard struct {
	Red  int `json:"red"`
	Blue int `json:"blue"`
}

func (s Scorecard) String() string {
	return fmt.Sprintf("%d-%d", s.Red, s.Blue)
}

// Outcome is the terminal result of a resolved fight. For draws WinnerID and
// LoserID are zero and RedID/BlueID identify the participants.
type Outcome struct {
	RedID         int          `json:"red_id"`
	BlueID        int          `json:"blue_id"`
	WinnerID      int          `json:"winner_id"`
	LoserID       int          `json:"loser_id"`
	Draw          bool         `json:"draw"`
	Method        Method       `json:"method"`
	Round         int          `json:"round"`
	TotalRounds   int          `json:"total_rounds"`
	Scorecards    [3]Scorecard `json:"scorecards"`
	IsTitleFight  bool         `json:"is_title_fight"`
	TitleChanged  bool         `json:"title_changed"`
	StillChampion bool         `json:"still_champion"`
	Stars         int          `json:"stars"`
	RedDamage     int          `json:"red_damage_dealt"`
	BlueDamage    int          `json:"blue_damage_dealt"`
	Event         string       `json:"event"`
}

// ScoresFor renders the three cards from one participant's side, e.g. "29-28".
func (o *Outcome) ScoresFor(fighterID int) []string {
	if !o.Method.IsDecision() {
		return nil
	}
	out := make([]string, 0, len(o.Scorecards))
	for _, s := range o.Scorecards {
		if fighterID == o.BlueID {
			s = Scorecard{Red: s.Blue, Blue: s.Red}
		}
		out = append(out, s.String())
	}
	return out
}

func (o *Outcome) Summary() string {
	if o.Draw {
		return fmt.Sprintf("DRAW after %d rounds (%s)", o.Round, strings.Join(o.ScoresFor(o.RedID), ", "))
	}
	if o.Method.IsDecision() {
		return fmt.Sprintf("%s (%s)", o.Method, strings.Join(o.ScoresFor(o.WinnerID), ", "))
	}
	return fmt.Sprintf("%s in round %d", o.Method, o.Round)
}

// Narration is the ordered play-by-play recorded while resolving a fight.
// It is a by-product of the outcome and can be dropped unread.
type Narration struct {
	events []Event
}

func (n *Narration) Len() int {
	if n == nil {
		return 0
	}
	return len(n.events)
}

func (n *Narration) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		if n == nil {
			return
		}
		for _, e := range n.events {
			if !yield(e) {
				return
			}
		}
	}
}

// Lines yields each event formatted for a text log.
func (n *Narration) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		for e := range n.Events() {
			if !yield(e.String()) {
				return
			}
		}
	}
}

func (n *Narration) add(e Event) {
	n.events = append(n.events, e)
}
