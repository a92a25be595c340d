package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"fightnight/card"
	"fightnight/career"
	"fightnight/database"
	"fightnight/fight"
	"fightnight/policy"
	"fightnight/roster"
	"fightnight/scheduler"

	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := database.Open(filepath.Join(t.TempDir(), "web.db"), logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	var r roster.Roster
	for i := range 4 {
		r = append(r, &roster.Fighter{
			ID:           i + 1,
			Name:         fmt.Sprintf("Fighter %d", i+1),
			WeightClass:  roster.Featherweight,
			Stats:        roster.Stats{Striking: 60, Grappling: 60, TDD: 60, SubOff: 60, SubDef: 60, Chin: 60, Cardio: 60},
			IsChampion:   i == 0,
			Rank:         i,
			Age:          26,
			Popularity:   15,
			RankingScore: 100,
		})
	}
	repo := database.NewRepository(db, logger)
	if err := repo.ImportRoster(context.Background(), r); err != nil {
		t.Fatalf("ImportRoster: %v", err)
	}

	p := policy.Default()
	sched := scheduler.NewScheduler(repo, p, card.NewMatchmaker("FNC"), 11, career.NewCalendar(2012, 142), logger)
	return NewServer(repo, sched, fight.NewEngine(p), logger)
}

func do(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		method string
		target string
		status int
	}{
		{"GET", "/fighters", http.StatusOK},
		{"GET", "/fighters?division=featherweight", http.StatusOK},
		{"GET", "/fighters?division=catchweight", http.StatusBadRequest},
		{"GET", "/fighters/1", http.StatusOK},
		{"GET", "/fighters/99", http.StatusNotFound},
		{"GET", "/rankings/Featherweight", http.StatusOK},
		{"GET", "/rankings/nope", http.StatusBadRequest},
		{"GET", "/events", http.StatusOK},
		{"GET", "/events/FNC%20999", http.StatusNotFound},
		{"GET", "/news", http.StatusOK},
		{"GET", "/calendar", http.StatusOK},
		{"GET", "/odds?red=1&blue=2&trials=20", http.StatusOK},
		{"GET", "/odds?red=1&blue=1", http.StatusBadRequest},
		{"GET", "/odds?red=1&blue=42", http.StatusNotFound},
		{"GET", "/odds?red=x&blue=2", http.StatusBadRequest},
		{"GET", "/odds?red=1&blue=2&trials=0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.target)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Error("missing X-Request-ID")
			}
		})
	}
}

func TestFightersDivisionFilter(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, "GET", "/fighters?division=heavyweight")
	var out []fighterSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Errorf("heavyweight returned %d fighters", len(out))
	}
}

func TestOddsResponse(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, "GET", "/odds?red=1&blue=2&trials=50")
	var out oddsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Odds.Trials != 50 || out.Odds.AWins+out.Odds.BWins+out.Odds.Draws != 50 {
		t.Errorf("odds = %+v", out.Odds)
	}
	again := do(t, s, "GET", "/odds?red=1&blue=2&trials=50")
	if again.Body.String() != rec.Body.String() {
		t.Error("odds for the same matchup changed between requests")
	}
}

func TestRunNextEventEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, "POST", "/events/next")
	if rec.Code != http.StatusCreated && rec.Code != http.StatusConflict {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if rec.Code == http.StatusConflict {
		return
	}

	var report card.EventReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.Name != "FNC 142" {
		t.Errorf("event name = %q", report.Name)
	}
	if got := do(t, s, "GET", "/events/FNC%20142"); got.Code != http.StatusOK {
		t.Errorf("archived event status = %d", got.Code)
	}

	var events []database.EventRecord
	if err := json.Unmarshal(do(t, s, "GET", "/events").Body.Bytes(), &events); err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Errorf("got %d events, want 1", len(events))
	}
}

func TestGetNotAllowedOnNextEvent(t *testing.T) {
	s := newTestServer(t)
	if rec := do(t, s, "GET", "/events/next"); rec.Code != http.StatusNotFound {
		t.Errorf("GET /events/next = %d, want 404", rec.Code)
	}
}

func TestRankingsIncludeChampion(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, "GET", "/rankings/featherweight")
	var out struct {
		Champion *fighterSummary `json:"champion"`
		Rankings []rankingEntry  `json:"rankings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Champion == nil || out.Champion.ID != 1 {
		t.Fatalf("champion = %+v", out.Champion)
	}
	if len(out.Rankings) != 4 || out.Rankings[0].Fighter.ID != 1 {
		t.Errorf("rankings = %+v", out.Rankings)
	}
}

func TestOddsErrorStatus(t *testing.T) {
	s := newTestServer(t)
	red := &roster.Fighter{ID: 1, Name: "Red", WeightClass: roster.Featherweight, Stats: roster.Stats{Striking: 60, Grappling: 60, TDD: 60, SubOff: 60, SubDef: 60, Chin: 60, Cardio: 60}}
	blue := red.Clone()
	blue.ID, blue.Name = 2, "Blue"
	heavy := red.Clone()
	heavy.ID, heavy.WeightClass = 3, roster.Heavyweight

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name   string
		ctx    context.Context
		blue   *roster.Fighter
		trials int
		want   int
	}{
		{"ok", context.Background(), blue, 10, http.StatusOK},
		{"same fighter", context.Background(), red, 10, http.StatusBadRequest},
		{"cross division", context.Background(), heavy, 10, http.StatusBadRequest},
		{"no trials", context.Background(), blue, 0, http.StatusBadRequest},
		{"request cancelled", cancelled, blue, 50, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/odds", nil).WithContext(tt.ctx)
			s.writeOdds(rec, req, red, tt.blue, tt.trials)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}
