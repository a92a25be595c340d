package roster

import (
	"encoding/json"
	"fmt"
	"io"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// rosterFile accepts ranking_score as optional so legacy files can be backfilled.
type rosterFile struct {
	Fighter
	RankingScore *int          `json:"ranking_score"`
	History      []historyFile `json:"history"`
}

// historyFile takes judge scores either as "29-28" strings or as [29, 28] pairs.
type historyFile struct {
	HistoryEntry
	Scores []json.RawMessage `json:"scores"`
}

func (h historyFile) entry() (HistoryEntry, error) {
	e := h.HistoryEntry
	e.Scores = nil
	for _, raw := range h.Scores {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			e.Scores = append(e.Scores, s)
			continue
		}
		var pair []int
		if err := json.Unmarshal(raw, &pair); err != nil || len(pair) != 2 {
			return e, fmt.Errorf("judge score %s is neither a string nor a pair", raw)
		}
		e.Scores = append(e.Scores, fmt.Sprintf("%d-%d", pair[0], pair[1]))
	}
	return e, nil
}

// DecodeJSON reads a JSON array of fighters. Missing ranking scores are
// derived from the record, and every fighter starts unranked. History
// entries without an id get a fresh one, and a missing opponent id is
// resolved from the opponent's name when that name is unique.
func DecodeJSON(r io.Reader) (Roster, error) {
	var raw []rosterFile
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}

	out := make(Roster, 0, len(raw))
	for i := range raw {
		f := raw[i].Fighter
		if f.Name == "" {
			return nil, fmt.Errorf("decode roster: fighter at index %d has no name", i)
		}
		if raw[i].RankingScore != nil {
			f.RankingScore = *raw[i].RankingScore
		} else {
			f.RankingScore = InitialRankingScore(f.Record, f.IsChampion)
		}
		if f.Age == 0 {
			f.Age = 25
		}
		if f.Popularity == 0 {
			f.Popularity = 10
		}
		f.Rank = UnrankedRank

		f.History = make([]HistoryEntry, 0, len(raw[i].History))
		for j, h := range raw[i].History {
			e, err := h.entry()
			if err != nil {
				return nil, fmt.Errorf("decode roster: %s history %d: %w", f.Name, j, err)
			}
			if e.ID == "" {
				id, err := gonanoid.New()
				if err != nil {
					return nil, fmt.Errorf("generate history id: %w", err)
				}
				e.ID = id
			}
			f.History = append(f.History, e)
		}
		out = append(out, &f)
	}

	next := out.NextID()
	for _, f := range out {
		if f.ID == 0 {
			f.ID = next
			next++
		}
	}
	if _, err := out.ByID(); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	if err := out.ValidateChampions(); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	out.linkOpponents()
	return out, nil
}

// linkOpponents fills OpponentID for history entries that only carry a name.
func (r Roster) linkOpponents() {
	byName := make(map[string]int, len(r))
	for _, f := range r {
		if _, seen := byName[f.Name]; seen {
			byName[f.Name] = 0
			continue
		}
		byName[f.Name] = f.ID
	}
	for _, f := range r {
		for i := range f.History {
			h := &f.History[i]
			if h.OpponentID == 0 && h.OpponentName != "" {
				h.OpponentID = byName[h.OpponentName]
			}
		}
	}
}
