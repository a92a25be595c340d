// Package scheduler runs the season: one event and one month of career
// events per step, persisted between steps.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fightnight/card"
	"fightnight/career"
	"fightnight/database"
	"fightnight/fight"
	"fightnight/policy"
	"fightnight/ranking"
	"fightnight/utils"

	"github.com/rs/zerolog"
)

// ErrEventCancelled means every bout fell through. The month still advances.
var ErrEventCancelled = errors.New("event cancelled: no bouts left")

type Scheduler struct {
	repo       *database.Repository
	policy     policy.SimulationPolicy
	matchmaker *card.Matchmaker
	recovery   *Recovery
	logger     zerolog.Logger
	seed       int64
	start      career.Calendar

	mu sync.Mutex
}

func NewScheduler(repo *database.Repository, p policy.SimulationPolicy, matchmaker *card.Matchmaker, seed int64, start career.Calendar, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		repo:       repo,
		policy:     p,
		matchmaker: matchmaker,
		recovery:   NewRecovery(logger),
		logger:     logger,
		seed:       seed,
		start:      start,
	}
}

// Calendar returns the stored calendar, or the starting one on a fresh
// database.
func (s *Scheduler) Calendar(ctx context.Context) (career.Calendar, error) {
	cal, ok, err := s.repo.LoadCalendar(ctx)
	if err != nil {
		return career.Calendar{}, err
	}
	if !ok {
		return s.start, nil
	}
	return cal, nil
}

// RunNextEvent books, runs and archives the next event, then advances the
// calendar and processes the month that follows it. Only one step runs at a
// time. A failure before the event is archived leaves the stored roster
// untouched.
func (s *Scheduler) RunNextEvent(ctx context.Context) (*card.EventReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cal, err := s.Calendar(ctx)
	if err != nil {
		return nil, fmt.Errorf("load calendar: %w", err)
	}
	fighters, err := s.repo.GetAllFighters(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	if err := ranking.Rerank(fighters, s.policy); err != nil {
		return nil, fmt.Errorf("rerank before event %d: %w", cal.EventNumber, err)
	}

	c, err := s.matchmaker.Build(fighters, cal)
	if err != nil {
		return nil, fmt.Errorf("book event: %w", err)
	}

	eventRNG := utils.NewSeededRNG(utils.EventSeed(s.seed, cal.EventNumber))
	careerEngine := career.NewEngine(s.policy, utils.NewSeededRNG(utils.MonthSeed(s.seed, cal.Year, cal.MonthIndex)))

	news := s.recovery.FightWeekPullouts(c, eventRNG)
	c = s.recovery.VoidUnavailableBouts(c)

	var report *card.EventReport
	if len(c.Bouts) > 0 {
		runner := card.NewRunner(fight.NewEngine(s.policy), careerEngine, s.logger)
		report, err = runner.Run(ctx, c, eventRNG)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", c.Name, err)
		}
		if err := s.repo.ArchiveEvent(ctx, report); err != nil {
			return nil, err
		}
		news = append(news, report.News...)
	} else {
		s.logger.Warn().Str("event", c.Name).Msg("event cancelled")
		news = append(news, fmt.Sprintf("%s has been cancelled after every bout fell through.", c.Name))
	}

	eventDate := cal.DateString()
	cal.Advance()
	monthly := careerEngine.ProcessMonth(fighters, cal)
	if err := ranking.Rerank(fighters, s.policy); err != nil {
		return nil, fmt.Errorf("rerank after %s: %w", c.Name, err)
	}

	if s.policy.PersistRecords {
		n, err := s.repo.SaveFighters(ctx, fighters)
		if err != nil {
			return nil, err
		}
		s.logger.Debug().Int("fighters", n).Msg("roster persisted")
	}
	if err := s.repo.AddNews(ctx, eventDate, news); err != nil {
		return nil, err
	}
	if err := s.repo.AddNews(ctx, monthly.Date, monthly.News); err != nil {
		return nil, err
	}
	if err := s.repo.SaveCalendar(ctx, cal); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("date", monthly.Date).
		Int("retirements", len(monthly.Retirements)).
		Int("injuries", len(monthly.Injuries)).
		Msg("month processed")

	if report == nil {
		return nil, fmt.Errorf("%s: %w", c.Name, ErrEventCancelled)
	}
	return report, nil
}

// Simulate runs the given number of monthly steps, stopping at the first
// error other than a cancelled event.
func (s *Scheduler) Simulate(ctx context.Context, months int) ([]*card.EventReport, error) {
	var reports []*card.EventReport
	for range months {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		report, err := s.RunNextEvent(ctx)
		if errors.Is(err, ErrEventCancelled) {
			continue
		}
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}
