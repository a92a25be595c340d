package database

import (
	"cmp"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"fightnight/card"
	"fightnight/career"
	"fightnight/roster"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	db     *sqlx.DB
	logger zerolog.Logger

	mu           sync.Mutex
	fingerprints map[int]string
}

func NewRepository(db *sqlx.DB, logger zerolog.Logger) *Repository {
	return &Repository{db: db, logger: logger, fingerprints: make(map[int]string)}
}

// GetAllFighters loads the whole roster with fight histories, ordered by id.
func (r *Repository) GetAllFighters(ctx context.Context) (roster.Roster, error) {
	var rows []FighterRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT * FROM fighters ORDER BY id"); err != nil {
		return nil, fmt.Errorf("select fighters: %w", err)
	}
	var history []HistoryRow
	if err := r.db.SelectContext(ctx, &history, "SELECT * FROM fight_history ORDER BY fighter_id, seq"); err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}

	byID := make(map[int]*roster.Fighter, len(rows))
	out := make(roster.Roster, 0, len(rows))
	for _, row := range rows {
		f, err := row.toFighter()
		if err != nil {
			return nil, fmt.Errorf("fighter %d: %w", row.ID, err)
		}
		byID[f.ID] = f
		out = append(out, f)
	}
	for _, h := range history {
		if f, ok := byID[h.FighterID]; ok {
			f.History = append(f.History, h.toEntry())
		}
	}

	r.mu.Lock()
	for _, f := range out {
		r.fingerprints[f.ID] = f.Fingerprint()
	}
	r.mu.Unlock()
	return out, nil
}

func (r *Repository) GetFighter(ctx context.Context, id int) (*roster.Fighter, error) {
	var row FighterRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM fighters WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("fighter %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select fighter %d: %w", id, err)
	}
	f, err := row.toFighter()
	if err != nil {
		return nil, fmt.Errorf("fighter %d: %w", id, err)
	}

	var history []HistoryRow
	if err := r.db.SelectContext(ctx, &history, "SELECT * FROM fight_history WHERE fighter_id = ? ORDER BY seq", id); err != nil {
		return nil, fmt.Errorf("select history for %d: %w", id, err)
	}
	for _, h := range history {
		f.History = append(f.History, h.toEntry())
	}
	return f, nil
}

func (r *Repository) CountFighters(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(1) FROM fighters"); err != nil {
		return 0, fmt.Errorf("count fighters: %w", err)
	}
	return n, nil
}

// ImportRoster stores a freshly decoded roster. It refuses a roster with two
// champions in one division.
func (r *Repository) ImportRoster(ctx context.Context, fighters roster.Roster) error {
	if err := fighters.ValidateChampions(); err != nil {
		return fmt.Errorf("import roster: %w", err)
	}
	n, err := r.SaveFighters(ctx, fighters)
	if err != nil {
		return fmt.Errorf("import roster: %w", err)
	}
	r.logger.Info().Int("fighters", n).Msg("roster imported")
	return nil
}

const upsertFighter = `
	INSERT INTO fighters (
		id, name, nickname, weight_class, striking, grappling, tdd, sub_off, sub_def, chin, cardio,
		traits, wins, losses, draws, is_champion, rank, age, popularity, injury_months,
		ranking_score, annual_wins, annual_finishes, retired, fingerprint, updated_at
	) VALUES (
		:id, :name, :nickname, :weight_class, :striking, :grappling, :tdd, :sub_off, :sub_def, :chin, :cardio,
		:traits, :wins, :losses, :draws, :is_champion, :rank, :age, :popularity, :injury_months,
		:ranking_score, :annual_wins, :annual_finishes, :retired, :fingerprint, datetime('now')
	)
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		nickname = excluded.nickname,
		weight_class = excluded.weight_class,
		striking = excluded.striking,
		grappling = excluded.grappling,
		tdd = excluded.tdd,
		sub_off = excluded.sub_off,
		sub_def = excluded.sub_def,
		chin = excluded.chin,
		cardio = excluded.cardio,
		traits = excluded.traits,
		wins = excluded.wins,
		losses = excluded.losses,
		draws = excluded.draws,
		is_champion = excluded.is_champion,
		rank = excluded.rank,
		age = excluded.age,
		popularity = excluded.popularity,
		injury_months = excluded.injury_months,
		ranking_score = excluded.ranking_score,
		annual_wins = excluded.annual_wins,
		annual_finishes = excluded.annual_finishes,
		retired = excluded.retired,
		fingerprint = excluded.fingerprint,
		updated_at = excluded.updated_at`

const insertHistory = `
	INSERT OR IGNORE INTO fight_history (id, fighter_id, seq, opponent_id, opponent_name, result, method, round, event, scores)
	VALUES (:id, :fighter_id, :seq, :opponent_id, :opponent_name, :result, :method, :round, :event, :scores)`

// SaveFighters writes every fighter whose fingerprint changed since it was
// last loaded or saved, in one transaction. It returns how many were written.
func (r *Repository) SaveFighters(ctx context.Context, fighters roster.Roster) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var changed []FighterRow
	var owners []*roster.Fighter
	for _, f := range fighters {
		row := newFighterRow(f)
		if r.fingerprints[f.ID] == row.Fingerprint {
			continue
		}
		changed = append(changed, row)
		owners = append(owners, f)
	}
	if len(changed) == 0 {
		return 0, nil
	}

	// Belts are released before they are awarded so the one-champion index
	// holds after every statement.
	order := make([]int, len(changed))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(boolRank(changed[a].IsChampion), boolRank(changed[b].IsChampion))
	})

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	for _, i := range order {
		if _, err := tx.NamedExecContext(ctx, upsertFighter, changed[i]); err != nil {
			return 0, fmt.Errorf("save fighter %d: %w", changed[i].ID, err)
		}
		for seq, h := range owners[i].History {
			if _, err := tx.NamedExecContext(ctx, insertHistory, newHistoryRow(owners[i].ID, seq, h)); err != nil {
				return 0, fmt.Errorf("save history %s: %w", h.ID, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit save: %w", err)
	}

	for _, row := range changed {
		r.fingerprints[row.ID] = row.Fingerprint
	}
	r.logger.Debug().Int("fighters", len(changed)).Msg("fighters saved")
	return len(changed), nil
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// BackfillRankingScores fills in a ranking score for every fighter stored
// without one.
func (r *Repository) BackfillRankingScores(ctx context.Context) error {
	var rows []FighterRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT * FROM fighters WHERE ranking_score IS NULL ORDER BY id"); err != nil {
		return fmt.Errorf("select fighters without score: %w", err)
	}
	if len(rows) == 0 {
		r.logger.Debug().Msg("ranking score backfill: nothing to do")
		return nil
	}

	remaining := len(rows)
	for _, row := range rows {
		score := roster.InitialRankingScore(roster.Record{Wins: row.Wins, Losses: row.Losses, Draws: row.Draws}, row.IsChampion)
		if _, err := r.db.ExecContext(ctx, "UPDATE fighters SET ranking_score = ? WHERE id = ?", score, row.ID); err != nil {
			return fmt.Errorf("backfill fighter %d: %w", row.ID, err)
		}
		remaining--
		r.logger.Info().
			Int("fighter_id", row.ID).
			Str("name", row.Name).
			Int("ranking_score", score).
			Int("remaining", remaining).
			Msg("ranking score backfill")
	}
	r.logger.Info().Int("updated", len(rows)).Msg("ranking score backfill complete")
	return nil
}

// ArchiveEvent stores a finished event with its full report.
func (r *Repository) ArchiveEvent(ctx context.Context, report *card.EventReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", report.Name, err)
	}
	mainEvent := ""
	if len(report.Results) > 0 {
		main := report.Results[card.MainEvent]
		mainEvent = main.Winner + " def. " + main.Loser
		if main.Outcome.Draw {
			mainEvent = main.Winner + " vs " + main.Loser + " (draw)"
		}
	}

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO events (name, date, main_event, buys, rating, stars, report)
		VALUES (:name, :date, :main_event, :buys, :rating, :stars, :report)`,
		EventRecord{
			Name:      report.Name,
			Date:      report.Date,
			MainEvent: mainEvent,
			Buys:      report.Buys,
			Rating:    report.Rating,
			Stars:     report.AverageStars,
			Report:    string(payload),
		})
	if err != nil {
		return fmt.Errorf("archive event %s: %w", report.Name, err)
	}
	return nil
}

// GetEvents returns archived events, newest first.
func (r *Repository) GetEvents(ctx context.Context, limit int) ([]EventRecord, error) {
	events := []EventRecord{}
	if err := r.db.SelectContext(ctx, &events, "SELECT * FROM events ORDER BY id DESC LIMIT ?", limit); err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	return events, nil
}

func (r *Repository) GetEventReport(ctx context.Context, name string) (*card.EventReport, error) {
	var payload string
	err := r.db.GetContext(ctx, &payload, "SELECT report FROM events WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select event %q: %w", name, err)
	}
	var report card.EventReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("decode event %q: %w", name, err)
	}
	return &report, nil
}

func (r *Repository) AddNews(ctx context.Context, date string, headlines []string) error {
	if len(headlines) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin news: %w", err)
	}
	defer tx.Rollback()

	for _, h := range headlines {
		if _, err := tx.ExecContext(ctx, "INSERT INTO news (date, headline) VALUES (?, ?)", date, h); err != nil {
			return fmt.Errorf("insert news: %w", err)
		}
	}
	return tx.Commit()
}

// GetNews returns the latest headlines, newest first.
func (r *Repository) GetNews(ctx context.Context, limit int) ([]NewsItem, error) {
	items := []NewsItem{}
	if err := r.db.SelectContext(ctx, &items, "SELECT * FROM news ORDER BY id DESC LIMIT ?", limit); err != nil {
		return nil, fmt.Errorf("select news: %w", err)
	}
	return items, nil
}

// LoadCalendar returns the stored calendar. ok is false on a fresh database.
func (r *Repository) LoadCalendar(ctx context.Context) (cal career.Calendar, ok bool, err error) {
	var row gameStateRow
	err = r.db.GetContext(ctx, &row, "SELECT * FROM game_state WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return career.Calendar{}, false, nil
	}
	if err != nil {
		return career.Calendar{}, false, fmt.Errorf("select game state: %w", err)
	}
	return row.Calendar, true, nil
}

func (r *Repository) SaveCalendar(ctx context.Context, cal career.Calendar) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO game_state (id, month_index, year, event_number)
		VALUES (1, :month_index, :year, :event_number)
		ON CONFLICT (id) DO UPDATE SET
			month_index = excluded.month_index,
			year = excluded.year,
			event_number = excluded.event_number`, cal)
	if err != nil {
		return fmt.Errorf("save game state: %w", err)
	}
	return nil
}
