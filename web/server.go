// Package web serves the league over a JSON HTTP API.
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"fightnight/database"
	"fightnight/fight"
	"fightnight/roster"
	"fightnight/scheduler"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const (
	DEFAULT_LIST_LIMIT = 20
	MAX_LIST_LIMIT     = 200
	DEFAULT_TRIALS     = 500
	MAX_TRIALS         = 5000
)

type Server struct {
	router    *mux.Router
	repo      *database.Repository
	scheduler *scheduler.Scheduler
	engine    *fight.Engine
	logger    zerolog.Logger
}

func NewServer(repo *database.Repository, sched *scheduler.Scheduler, engine *fight.Engine, logger zerolog.Logger) *Server {
	s := &Server{
		router:    mux.NewRouter().StrictSlash(true),
		repo:      repo,
		scheduler: sched,
		engine:    engine,
		logger:    logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(RequestLogger(s.logger))

	api := s.router.PathPrefix("").Subrouter()
	api.HandleFunc("/fighters", s.handleFighters).Methods("GET")
	api.HandleFunc("/fighters/{id:[0-9]+}", s.handleFighter).Methods("GET")
	api.HandleFunc("/rankings/{division}", s.handleRankings).Methods("GET")
	api.HandleFunc("/events", s.handleEvents).Methods("GET")
	api.HandleFunc("/events/next", s.handleNextEvent).Methods("POST")
	api.HandleFunc("/events/{name}", s.handleEvent).Methods("GET")
	api.HandleFunc("/news", s.handleNews).Methods("GET")
	api.HandleFunc("/odds", s.handleOdds).Methods("GET")
	api.HandleFunc("/calendar", s.handleCalendar).Methods("GET")
}

// Handler wraps the router with CORS and panic recovery.
func (s *Server) Handler() http.Handler {
	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"*"}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.logger}),
		handlers.PrintRecoveryStack(false),
	)
	return recovery(corsHandler(s.router))
}

type recoveryLogger struct {
	logger zerolog.Logger
}

func (l recoveryLogger) Println(args ...any) {
	l.logger.Error().Interface("panic", args).Msg("handler panicked")
}

type fighterSummary struct {
	ID           int                `json:"id"`
	Name         string             `json:"name"`
	Nickname     string             `json:"nickname,omitempty"`
	WeightClass  roster.WeightClass `json:"weight_class"`
	Record       roster.Record      `json:"record"`
	Rank         int                `json:"rank"`
	IsChampion   bool               `json:"is_champion"`
	RankingScore int                `json:"ranking_score"`
	Age          int                `json:"age"`
	Popularity   int                `json:"popularity"`
	InjuryMonths int                `json:"injury_months"`
	Retired      bool               `json:"retired"`
	Grade        string             `json:"grade"`
}

func summarize(f *roster.Fighter) fighterSummary {
	return fighterSummary{
		ID:           f.ID,
		Name:         f.Name,
		Nickname:     f.Nickname,
		WeightClass:  f.WeightClass,
		Record:       f.Record,
		Rank:         f.Rank,
		IsChampion:   f.IsChampion,
		RankingScore: f.RankingScore,
		Age:          f.Age,
		Popularity:   f.Popularity,
		InjuryMonths: f.InjuryMonths,
		Retired:      f.Retired,
		Grade:        f.ScoutGrade(),
	}
}

func (s *Server) handleFighters(w http.ResponseWriter, r *http.Request) {
	fighters, err := s.repo.GetAllFighters(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	if q := r.URL.Query().Get("division"); q != "" {
		wc, err := roster.ParseWeightClass(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		fighters = fighters.Division(wc)
	}

	out := make([]fighterSummary, 0, len(fighters))
	for _, f := range fighters {
		out = append(out, summarize(f))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFighter(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	f, err := s.repo.GetFighter(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "fighter not found")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"fighter":         f,
		"grade":           f.ScoutGrade(),
		"knockout_chance": s.engine.KnockoutChance(f),
	})
}

type rankingEntry struct {
	Rank    int            `json:"rank"`
	Fighter fighterSummary `json:"fighter"`
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	wc, err := roster.ParseWeightClass(mux.Vars(r)["division"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	fighters, err := s.repo.GetAllFighters(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	standings := fighters.Standings(wc)
	out := make([]rankingEntry, 0, len(standings))
	for _, f := range standings {
		out = append(out, rankingEntry{Rank: f.Rank, Fighter: summarize(f)})
	}
	resp := map[string]any{
		"division": wc,
		"limit":    wc.Limit(),
		"rankings": out,
	}
	if champ := fighters.Champion(wc); champ != nil {
		resp["champion"] = summarize(champ)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.repo.GetEvents(r.Context(), listLimit(r))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	report, err := s.repo.GetEventReport(r.Context(), mux.Vars(r)["name"])
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleNextEvent(w http.ResponseWriter, r *http.Request) {
	report, err := s.scheduler.RunNextEvent(r.Context())
	if errors.Is(err, scheduler.ErrEventCancelled) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	items, err := s.repo.GetNews(r.Context(), listLimit(r))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	cal, err := s.scheduler.Calendar(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"calendar": cal,
		"date":     cal.DateString(),
	})
}

type oddsResponse struct {
	Red            fighterSummary `json:"red"`
	Blue           fighterSummary `json:"blue"`
	Odds           *fight.Odds    `json:"odds"`
	RedProbability float64        `json:"red_probability"`
	RedMoneyline   int            `json:"red_moneyline"`
	BlueMoneyline  int            `json:"blue_moneyline"`
}

func (s *Server) handleOdds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	redID, err1 := strconv.Atoi(q.Get("red"))
	blueID, err2 := strconv.Atoi(q.Get("blue"))
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "red and blue must be fighter ids")
		return
	}
	trials := DEFAULT_TRIALS
	if t := q.Get("trials"); t != "" {
		n, err := strconv.Atoi(t)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "trials must be a positive integer")
			return
		}
		trials = min(n, MAX_TRIALS)
	}

	red, ok := s.lookupFighter(w, r, redID)
	if !ok {
		return
	}
	blue, ok := s.lookupFighter(w, r, blueID)
	if !ok {
		return
	}
	s.writeOdds(w, r, red, blue, trials)
}

// lookupFighter writes the error response itself when the fighter cannot be
// loaded.
func (s *Server) lookupFighter(w http.ResponseWriter, r *http.Request, id int) (*roster.Fighter, bool) {
	f, err := s.repo.GetFighter(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	if err != nil {
		s.serverError(w, r, err)
		return nil, false
	}
	return f, true
}

func (s *Server) writeOdds(w http.ResponseWriter, r *http.Request, red, blue *roster.Fighter, trials int) {
	// A fixed seed per matchup keeps the quoted line stable between requests.
	seed := int64(red.ID)*100003 + int64(blue.ID)
	odds, err := fight.EstimateOdds(r.Context(), s.engine, red, blue, fight.Bout{TitleEligible: true}, trials, seed)
	switch {
	case errors.Is(err, fight.ErrSameFighter), errors.Is(err, fight.ErrCrossDivision), errors.Is(err, fight.ErrInvalidTrials):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.serverError(w, r, err)
		return
	}

	p := odds.AProbability()
	pBlue := 0.0
	if odds.Trials > 0 {
		pBlue = float64(odds.BWins) / float64(odds.Trials)
	}
	writeJSON(w, http.StatusOK, oddsResponse{
		Red:            summarize(red),
		Blue:           summarize(blue),
		Odds:           odds,
		RedProbability: p,
		RedMoneyline:   fight.Moneyline(p),
		BlueMoneyline:  fight.Moneyline(pBlue),
	})
}

func listLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n < 1 {
		return DEFAULT_LIST_LIMIT
	}
	return min(n, MAX_LIST_LIMIT)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}
