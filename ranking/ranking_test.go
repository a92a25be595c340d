package ranking

import (
	"errors"
	"testing"

	"fightnight/policy"
	"fightnight/roster"
)

func fighter(id, score int) *roster.Fighter {
	return &roster.Fighter{ID: id, WeightClass: roster.Middleweight, RankingScore: score, Rank: roster.UnrankedRank}
}

func TestRerankChampionAndFourContenders(t *testing.T) {
	champ := fighter(1, 100)
	champ.IsChampion = true
	a, b, c, d := fighter(2, 400), fighter(3, 900), fighter(4, 700), fighter(5, 200)

	if err := RerankDivision([]*roster.Fighter{champ, a, b, c, d}, policy.Default()); err != nil {
		t.Fatalf("RerankDivision: %v", err)
	}

	want := map[int]int{champ.ID: 0, b.ID: 1, c.ID: 2, a.ID: 3, d.ID: 4}
	for _, f := range []*roster.Fighter{champ, a, b, c, d} {
		if f.Rank != want[f.ID] {
			t.Errorf("fighter %d rank = %d, want %d", f.ID, f.Rank, want[f.ID])
		}
	}
}

func TestRerankTiesBreakByID(t *testing.T) {
	x, y, z := fighter(9, 500), fighter(3, 500), fighter(5, 500)
	if err := RerankDivision([]*roster.Fighter{x, y, z}, policy.Default()); err != nil {
		t.Fatalf("RerankDivision: %v", err)
	}
	if y.Rank != 1 || z.Rank != 2 || x.Rank != 3 {
		t.Fatalf("ranks %d/%d/%d, want ids in ascending order", y.Rank, z.Rank, x.Rank)
	}
}

func TestRerankDenseWithRetiredAndNoChampion(t *testing.T) {
	a, b, gone, c := fighter(1, 300), fighter(2, 200), fighter(3, 999), fighter(4, 100)
	gone.Retired = true
	gone.Rank = 1

	if err := RerankDivision([]*roster.Fighter{a, b, gone, c}, policy.Default()); err != nil {
		t.Fatalf("RerankDivision: %v", err)
	}
	if a.Rank != 1 || b.Rank != 2 || c.Rank != 3 {
		t.Fatalf("ranks %d/%d/%d, want 1/2/3", a.Rank, b.Rank, c.Rank)
	}
	if gone.Rank != roster.UnrankedRank {
		t.Fatalf("retired rank = %d", gone.Rank)
	}
}

func TestRerankRecordScore(t *testing.T) {
	p := policy.Default()
	p.RankByScore = false

	a := fighter(1, 5000)
	a.Record = roster.Record{Wins: 2, Losses: 5}
	b := fighter(2, 0)
	b.Record = roster.Record{Wins: 10}

	if err := RerankDivision([]*roster.Fighter{a, b}, p); err != nil {
		t.Fatalf("RerankDivision: %v", err)
	}
	if b.Rank != 1 || a.Rank != 2 {
		t.Fatalf("record ordering ignored: a=%d b=%d", a.Rank, b.Rank)
	}
	if got := RecordScore(&roster.Fighter{Record: roster.Record{Wins: 3, Losses: 1}, Stats: roster.Stats{Striking: 80, Grappling: 61}}); got != 97 {
		t.Fatalf("RecordScore = %d, want 97", got)
	}
}

func TestRerankRejects(t *testing.T) {
	c1, c2 := fighter(1, 0), fighter(2, 0)
	c1.IsChampion, c2.IsChampion = true, true
	if err := RerankDivision([]*roster.Fighter{c1, c2}, policy.Default()); !errors.Is(err, roster.ErrMultipleChampions) {
		t.Fatalf("err = %v, want ErrMultipleChampions", err)
	}

	heavy := fighter(3, 0)
	heavy.WeightClass = roster.Heavyweight
	if err := RerankDivision([]*roster.Fighter{fighter(4, 0), heavy}, policy.Default()); !errors.Is(err, ErrMixedDivisions) {
		t.Fatalf("err = %v, want ErrMixedDivisions", err)
	}
}

func TestRerankRosterPerDivision(t *testing.T) {
	lw1 := fighter(1, 100)
	lw1.WeightClass = roster.Lightweight
	lw2 := fighter(2, 900)
	lw2.WeightClass = roster.Lightweight
	hw := fighter(3, 50)
	hw.WeightClass = roster.Heavyweight
	hwChamp := fighter(4, 10)
	hwChamp.WeightClass, hwChamp.IsChampion = roster.Heavyweight, true

	r := roster.Roster{lw1, lw2, hw, hwChamp}
	if err := Rerank(r, policy.Default()); err != nil {
		t.Fatalf("Rerank: %v", err)
	}
	if lw2.Rank != 1 || lw1.Rank != 2 || hwChamp.Rank != 0 || hw.Rank != 1 {
		t.Fatalf("ranks lw=%d/%d hw=%d/%d", lw2.Rank, lw1.Rank, hwChamp.Rank, hw.Rank)
	}
}
