package database

import (
	"database/sql"
	"strings"
	"time"

	"fightnight/career"
	"fightnight/roster"
)

const listSeparator = "|"

type FighterRow struct {
	ID             int           `db:"id"`
	Name           string        `db:"name"`
	Nickname       string        `db:"nickname"`
	WeightClass    string        `db:"weight_class"`
	Striking       int           `db:"striking"`
	Grappling      int           `db:"grappling"`
	TDD            int           `db:"tdd"`
	SubOff         int           `db:"sub_off"`
	SubDef         int           `db:"sub_def"`
	Chin           int           `db:"chin"`
	Cardio         int           `db:"cardio"`
	Traits         string        `db:"traits"`
	Wins           int           `db:"wins"`
	Losses         int           `db:"losses"`
	Draws          int           `db:"draws"`
	IsChampion     bool          `db:"is_champion"`
	Rank           int           `db:"rank"`
	Age            int           `db:"age"`
	Popularity     int           `db:"popularity"`
	InjuryMonths   int           `db:"injury_months"`
	RankingScore   sql.NullInt64 `db:"ranking_score"`
	AnnualWins     int           `db:"annual_wins"`
	AnnualFinishes int           `db:"annual_finishes"`
	Retired        bool          `db:"retired"`
	Fingerprint    string        `db:"fingerprint"`
	UpdatedAt      time.Time     `db:"updated_at"`
}

type HistoryRow struct {
	ID           string `db:"id"`
	FighterID    int    `db:"fighter_id"`
	Seq          int    `db:"seq"`
	OpponentID   int    `db:"opponent_id"`
	OpponentName string `db:"opponent_name"`
	Result       string `db:"result"`
	Method       string `db:"method"`
	Round        int    `db:"round"`
	Event        string `db:"event"`
	Scores       string `db:"scores"`
}

// EventRecord is an archived event. Report holds the full JSON event report.
type EventRecord struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Date      string    `db:"date" json:"date"`
	MainEvent string    `db:"main_event" json:"main_event"`
	Buys      int       `db:"buys" json:"buys"`
	Rating    int       `db:"rating" json:"rating"`
	Stars     float64   `db:"stars" json:"stars"`
	Report    string    `db:"report" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type NewsItem struct {
	ID        int       `db:"id" json:"id"`
	Date      string    `db:"date" json:"date"`
	Headline  string    `db:"headline" json:"headline"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type gameStateRow struct {
	ID int `db:"id"`
	career.Calendar
}

func joinList(items []string) string {
	return strings.Join(items, listSeparator)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSeparator)
}

func newFighterRow(f *roster.Fighter) FighterRow {
	return FighterRow{
		ID:             f.ID,
		Name:           f.Name,
		Nickname:       f.Nickname,
		WeightClass:    f.WeightClass.String(),
		Striking:       f.Stats.Striking,
		Grappling:      f.Stats.Grappling,
		TDD:            f.Stats.TDD,
		SubOff:         f.Stats.SubOff,
		SubDef:         f.Stats.SubDef,
		Chin:           f.Stats.Chin,
		Cardio:         f.Stats.Cardio,
		Traits:         joinList(f.Traits),
		Wins:           f.Record.Wins,
		Losses:         f.Record.Losses,
		Draws:          f.Record.Draws,
		IsChampion:     f.IsChampion,
		Rank:           f.Rank,
		Age:            f.Age,
		Popularity:     f.Popularity,
		InjuryMonths:   f.InjuryMonths,
		RankingScore:   sql.NullInt64{Int64: int64(f.RankingScore), Valid: true},
		AnnualWins:     f.AnnualStats.Wins,
		AnnualFinishes: f.AnnualStats.Finishes,
		Retired:        f.Retired,
		Fingerprint:    f.Fingerprint(),
	}
}

// toFighter converts a stored row. A missing ranking score is derived from
// the record.
func (r FighterRow) toFighter() (*roster.Fighter, error) {
	w, err := roster.ParseWeightClass(r.WeightClass)
	if err != nil {
		return nil, err
	}
	f := &roster.Fighter{
		ID:          r.ID,
		Name:        r.Name,
		Nickname:    r.Nickname,
		WeightClass: w,
		Stats: roster.Stats{
			Striking:  r.Striking,
			Grappling: r.Grappling,
			TDD:       r.TDD,
			SubOff:    r.SubOff,
			SubDef:    r.SubDef,
			Chin:      r.Chin,
			Cardio:    r.Cardio,
		},
		Traits:       splitList(r.Traits),
		Record:       roster.Record{Wins: r.Wins, Losses: r.Losses, Draws: r.Draws},
		IsChampion:   r.IsChampion,
		Rank:         r.Rank,
		Age:          r.Age,
		Popularity:   r.Popularity,
		InjuryMonths: r.InjuryMonths,
		AnnualStats:  roster.AnnualStats{Wins: r.AnnualWins, Finishes: r.AnnualFinishes},
		Retired:      r.Retired,
	}
	if r.RankingScore.Valid {
		f.RankingScore = int(r.RankingScore.Int64)
	} else {
		f.RankingScore = roster.InitialRankingScore(f.Record, f.IsChampion)
	}
	return f, nil
}

func newHistoryRow(fighterID, seq int, h roster.HistoryEntry) HistoryRow {
	return HistoryRow{
		ID:           h.ID,
		FighterID:    fighterID,
		Seq:          seq,
		OpponentID:   h.OpponentID,
		OpponentName: h.OpponentName,
		Result:       h.Result,
		Method:       h.Method,
		Round:        h.Round,
		Event:        h.Event,
		Scores:       joinList(h.Scores),
	}
}

func (h HistoryRow) toEntry() roster.HistoryEntry {
	return roster.HistoryEntry{
		ID:           h.ID,
		OpponentID:   h.OpponentID,
		OpponentName: h.OpponentName,
		Result:       h.Result,
		Method:       h.Method,
		Round:        h.Round,
		Event:        h.Event,
		Scores:       splitList(h.Scores),
	}
}
