package roster

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestParseWeightClass(t *testing.T) {
	tests := []struct {
		in      string
		want    WeightClass
		wantErr bool
	}{
		{"Lightweight", Lightweight, false},
		{"light heavyweight", LightHeavyweight, false},
		{"LightHeavyweight", LightHeavyweight, false},
		{" Flyweight ", Flyweight, false},
		{"Cruiserweight", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeightClass(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownWeightClass) {
					t.Fatalf("err = %v, want ErrUnknownWeightClass", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeightLimits(t *testing.T) {
	if Heavyweight.Limit() != 265 || Flyweight.Limit() != 125 {
		t.Fatalf("unexpected limits: %d %d", Flyweight.Limit(), Heavyweight.Limit())
	}
	if len(WeightClasses()) != 8 {
		t.Fatalf("want 8 divisions, got %d", len(WeightClasses()))
	}
}

func TestValidateChampions(t *testing.T) {
	r := Roster{
		{ID: 1, WeightClass: Lightweight, IsChampion: true},
		{ID: 2, WeightClass: Welterweight, IsChampion: true},
		{ID: 3, WeightClass: Lightweight},
	}
	if err := r.ValidateChampions(); err != nil {
		t.Fatalf("ValidateChampions() = %v", err)
	}
	r[2].IsChampion = true
	if err := r.ValidateChampions(); !errors.Is(err, ErrMultipleChampions) {
		t.Fatalf("ValidateChampions() = %v, want ErrMultipleChampions", err)
	}
}

func TestByIDRejectsDuplicates(t *testing.T) {
	r := Roster{{ID: 1, Name: "Same"}, {ID: 1, Name: "Same"}}
	if _, err := r.ByID(); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("ByID() = %v, want ErrDuplicateID", err)
	}
}

func TestDivisionKeysByID(t *testing.T) {
	r := Roster{
		{ID: 3, Name: "Alex Silva", WeightClass: Lightweight},
		{ID: 1, Name: "Alex Silva", WeightClass: Lightweight},
		{ID: 2, Name: "Other", WeightClass: Heavyweight},
	}
	div := r.Division(Lightweight)
	if len(div) != 2 || div[0].ID != 1 || div[1].ID != 3 {
		t.Fatalf("unexpected division order: %+v", div)
	}
	if f, ok := r.Find(3); !ok || f.ID != 3 {
		t.Fatalf("Find(3) = %v, %v", f, ok)
	}
}

func TestCloneIsDeep(t *testing.T) {
	f := &Fighter{ID: 1, Traits: []string{TraitFragile}, History: []HistoryEntry{{Scores: []string{"29-28"}}}}
	c := f.Clone()
	c.Traits[0] = TraitHardToKill
	c.History[0].Scores[0] = "30-27"
	c.Stats.Chin = 10
	if f.Traits[0] != TraitFragile || f.History[0].Scores[0] != "29-28" || f.Stats.Chin != 0 {
		t.Fatal("clone shares state with original")
	}
}

func TestFingerprintTracksMutableState(t *testing.T) {
	f := &Fighter{ID: 1, Name: "A", Stats: Stats{Striking: 50}}
	before := f.Fingerprint()
	f.TotalDamageTaken = 40
	if f.Fingerprint() != before {
		t.Fatal("fight-scoped damage must not change the fingerprint")
	}
	f.Record.Wins++
	if f.Fingerprint() == before {
		t.Fatal("record change must change the fingerprint")
	}
}

func TestClampStats(t *testing.T) {
	f := &Fighter{Stats: Stats{Striking: 104, Chin: -2, Cardio: 60}}
	f.ClampStats(0, 100)
	if f.Stats.Striking != 100 || f.Stats.Chin != 0 || f.Stats.Cardio != 60 {
		t.Fatalf("unexpected stats after clamp: %+v", f.Stats)
	}
}

func TestScoutGrade(t *testing.T) {
	tests := []struct {
		name string
		stat int
		age  int
		want string
	}{
		{"young elite", 90, 22, "A+"},
		{"prime solid", 80, 27, "B+"},
		{"veteran", 80, 37, "C"},
		{"journeyman", 55, 31, "F"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.stat
			f := &Fighter{Age: tt.age, Stats: Stats{Striking: s, Grappling: s, TDD: s, Chin: s, Cardio: s}}
			if got := f.ScoutGrade(); got != tt.want {
				t.Fatalf("ScoutGrade() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	const in = `[
		{"id": 4, "name": "Champ", "weight_class": "Lightweight", "is_champion": true,
		 "stats": {"striking": 80, "grappling": 70, "tdd": 70, "sub_off": 60, "sub_def": 60, "chin": 80, "cardio": 80},
		 "record": {"wins": 20, "losses": 2, "draws": 0}},
		{"name": "Prospect", "weight_class": "Light Heavyweight", "record": {"wins": 40, "losses": 1},
		 "traits": ["Fragile"], "ranking_score": 640, "age": 22}
	]`
	r, err := DecodeJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if len(r) != 2 {
		t.Fatalf("want 2 fighters, got %d", len(r))
	}
	if r[0].RankingScore != 2000 {
		t.Errorf("champion score = %d, want 2000", r[0].RankingScore)
	}
	if r[1].ID != 5 {
		t.Errorf("assigned id = %d, want 5", r[1].ID)
	}
	if r[1].RankingScore != 640 || r[1].WeightClass != LightHeavyweight || !r[1].HasTrait(TraitFragile) {
		t.Errorf("unexpected prospect: %+v", r[1])
	}
	if r[0].Rank != UnrankedRank || r[0].Popularity != 10 || r[0].Age != 25 {
		t.Errorf("defaults not applied: %+v", r[0])
	}
}

func TestInitialRankingScoreIsSquashed(t *testing.T) {
	if got := InitialRankingScore(Record{Wins: 40}, false); got != 1500 {
		t.Fatalf("got %d, want 1500", got)
	}
	if got := InitialRankingScore(Record{Wins: 3, Losses: 2}, false); got != 130 {
		t.Fatalf("got %d, want 130", got)
	}
}

func TestDecodeJSONHistory(t *testing.T) {
	const in = `[
		{"id": 1, "name": "Alpha", "weight_class": "Welterweight",
		 "history": [
			{"result": "Win", "opponent": "Bravo", "method": "SPLIT DECISION", "round": 3, "event": "FNC 12",
			 "scores": [[29, 28], [28, 29], [29, 28]]},
			{"id": "kept", "result": "Win", "opponent": "Twin", "method": "UNANIMOUS DECISION", "round": 3, "event": "FNC 11",
			 "scores": ["30-27", "30-27", "29-28"]},
			{"result": "Loss", "opponent": "Nobody", "method": "SUBMISSION", "round": 2, "event": "FNC 10", "scores": []}
		 ]},
		{"id": 2, "name": "Bravo", "weight_class": "Welterweight"},
		{"id": 3, "name": "Twin", "weight_class": "Welterweight"},
		{"id": 4, "name": "Twin", "weight_class": "Welterweight"}
	]`
	r, err := DecodeJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	h := r[0].History
	if len(h) != 3 {
		t.Fatalf("history entries = %d, want 3", len(h))
	}

	tests := []struct {
		name     string
		entry    HistoryEntry
		scores   []string
		opponent int
	}{
		{"pair scores", h[0], []string{"29-28", "28-29", "29-28"}, 2},
		{"string scores", h[1], []string{"30-27", "30-27", "29-28"}, 0},
		{"unknown opponent", h[2], nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !slices.Equal(tt.entry.Scores, tt.scores) {
				t.Errorf("scores = %v, want %v", tt.entry.Scores, tt.scores)
			}
			if tt.entry.OpponentID != tt.opponent {
				t.Errorf("opponent id = %d, want %d", tt.entry.OpponentID, tt.opponent)
			}
			if tt.entry.ID == "" {
				t.Error("history entry has no id")
			}
		})
	}
	if h[1].ID != "kept" {
		t.Errorf("existing id replaced with %q", h[1].ID)
	}
	if h[0].ID == h[2].ID {
		t.Errorf("generated ids collide: %q", h[0].ID)
	}

	if _, err := DecodeJSON(strings.NewReader(`[{"name": "Bad", "history": [{"scores": [[30]]}]}]`)); err == nil {
		t.Error("want error for a malformed judge score")
	}
}
