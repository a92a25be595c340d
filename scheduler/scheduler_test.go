package scheduler

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"fightnight/card"
	"fightnight/career"
	"fightnight/database"
	"fightnight/policy"
	"fightnight/roster"
	"fightnight/utils"

	"github.com/rs/zerolog"
)

func seedRoster() roster.Roster {
	var r roster.Roster
	id := 1
	for _, w := range []roster.WeightClass{roster.Lightweight, roster.Welterweight} {
		for i := range 6 {
			r = append(r, &roster.Fighter{
				ID:           id,
				Name:         fmt.Sprintf("Fighter %d", id),
				WeightClass:  w,
				Stats:        roster.Stats{Striking: 60 + i, Grappling: 60, TDD: 60, SubOff: 55, SubDef: 55, Chin: 70, Cardio: 60},
				Record:       roster.Record{Wins: 10 - i, Losses: i},
				IsChampion:   i == 0,
				Rank:         i,
				Age:          28,
				Popularity:   20,
				RankingScore: roster.InitialRankingScore(roster.Record{Wins: 10 - i, Losses: i}, i == 0),
			})
			id++
		}
	}
	return r
}

func newTestScheduler(t *testing.T, p policy.SimulationPolicy) (*Scheduler, *database.Repository) {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := database.Open(filepath.Join(t.TempDir(), "season.db"), logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := database.NewRepository(db, logger)
	if err := repo.ImportRoster(context.Background(), seedRoster()); err != nil {
		t.Fatalf("ImportRoster: %v", err)
	}
	return NewScheduler(repo, p, card.NewMatchmaker("FNC"), 42, career.NewCalendar(2012, 142), logger), repo
}

func TestSimulateAdvancesSeason(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestScheduler(t, policy.Default())

	reports, err := s.Simulate(ctx, 3)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if len(reports) == 0 {
		t.Fatal("no events ran")
	}

	cal, err := s.Calendar(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := (career.Calendar{MonthIndex: 3, Year: 2012, EventNumber: 145}); cal != want {
		t.Errorf("calendar = %+v, want %+v", cal, want)
	}

	events, err := repo.GetEvents(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != len(reports) {
		t.Errorf("archived %d events, ran %d", len(events), len(reports))
	}

	fighters, err := repo.GetAllFighters(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := fighters.ValidateChampions(); err != nil {
		t.Errorf("stored roster: %v", err)
	}
	fights := 0
	for _, f := range fighters {
		fights += f.Record.Wins + f.Record.Losses + f.Record.Draws
		if len(f.History) > 0 && f.History[len(f.History)-1].ID == "" {
			t.Errorf("fighter %d has a history entry without id", f.ID)
		}
	}
	if fights == 0 {
		t.Error("no results were persisted")
	}
}

func TestRunNextEventWithoutPersistence(t *testing.T) {
	ctx := context.Background()
	p := policy.Default()
	p.PersistRecords = false
	s, repo := newTestScheduler(t, p)

	before, err := repo.GetAllFighters(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.RunNextEvent(ctx); err != nil {
		t.Fatalf("RunNextEvent: %v", err)
	}
	after, err := repo.GetAllFighters(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for i := range before {
		if before[i].Record != after[i].Record {
			t.Errorf("fighter %d record changed with persistence off", before[i].ID)
		}
	}
	if cal, _ := s.Calendar(ctx); cal.EventNumber != 143 {
		t.Errorf("calendar did not advance: %+v", cal)
	}
}

func TestSameSeedSameSeason(t *testing.T) {
	ctx := context.Background()
	run := func() []*card.EventReport {
		s, _ := newTestScheduler(t, policy.Default())
		reports, err := s.Simulate(ctx, 2)
		if err != nil {
			t.Fatalf("Simulate: %v", err)
		}
		return reports
	}
	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("ran %d vs %d events", len(a), len(b))
	}
	for i := range a {
		if a[i].Buys != b[i].Buys || len(a[i].Results) != len(b[i].Results) {
			t.Errorf("event %d differs", i)
		}
	}
}

func TestVoidUnavailableBouts(t *testing.T) {
	r := seedRoster()
	c := card.New("FNC 1", "JAN 2012")
	for i := 0; i+1 < 6; i += 2 {
		if err := c.Book(r[i], r[i+1]); err != nil {
			t.Fatal(err)
		}
	}
	r[0].InjuryMonths = 2
	r[3].Retired = true

	out := NewRecovery(zerolog.New(io.Discard)).VoidUnavailableBouts(c)
	if len(out.Bouts) != 1 {
		t.Fatalf("kept %d bouts, want 1", len(out.Bouts))
	}
	if out.Bouts[0].Slot != card.Slots[card.MainEvent] || out.Bouts[0].Red.ID != 5 {
		t.Errorf("surviving bout = %s %d vs %d", out.Bouts[0].Slot, out.Bouts[0].Red.ID, out.Bouts[0].Blue.ID)
	}
}

func TestFightWeekPulloutsInjure(t *testing.T) {
	r := seedRoster()
	rec := NewRecovery(zerolog.New(io.Discard))
	rng := utils.NewSeededRNG(3)

	pulled := 0
	for range 200 {
		c := card.New("FNC 1", "JAN 2012")
		if err := c.Book(r[0], r[1]); err != nil {
			t.Fatal(err)
		}
		r[0].InjuryMonths, r[1].InjuryMonths = 0, 0
		news := rec.FightWeekPullouts(c, rng)
		pulled += len(news)
		injured := 0
		for _, f := range r[:2] {
			if !f.Healthy() {
				injured++
			}
		}
		if injured != len(news) {
			t.Fatalf("%d headlines for %d injured fighters", len(news), injured)
		}
	}
	if pulled == 0 {
		t.Error("no pullouts in 400 rolls at 2%")
	}
}
