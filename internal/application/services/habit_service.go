package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/habitmaster/core/internal/domain/entities"
	"github.com/habitmaster/core/internal/domain/streak"
	"github.com/habitmaster/core/internal/infrastructure/logger"
	"github.com/habitmaster/core/internal/ports"
)

var _ ports.HabitService = (*HabitService)(nil)

// Clock returns the current time. Today is its local calendar date.
type Clock func() time.Time

// SystemClock reads the wall clock
var SystemClock Clock = time.Now

// HabitService owns the in-memory habit store for the life of the process.
// It is not safe for concurrent use; callers serialize access.
type HabitService struct {
	repo     ports.HabitRepository
	store    *entities.HabitStore
	validate *validator.Validate
	clock    Clock
	metrics  ports.HabitMetrics
	logger   *logger.Logger
}

// NewHabitService loads the store through repo and returns a service owning it.
// A nil clock means SystemClock; nil metrics are discarded.
func NewHabitService(ctx context.Context, repo ports.HabitRepository, validate *validator.Validate, clock Clock, metrics ports.HabitMetrics, logger *logger.Logger) (*HabitService, error) {
	store, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load habits: %w", err)
	}

	if validate == nil {
		validate = NewValidator()
	}
	if clock == nil {
		clock = SystemClock
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &HabitService{
		repo:     repo,
		store:    store,
		validate: validate,
		clock:    clock,
		metrics:  metrics,
		logger:   logger.WithComponent("habit_service"),
	}, nil
}

// AddHabit creates a new habit with no completions
func (s *HabitService) AddHabit(ctx context.Context, req ports.AddHabitRequest) (*entities.HabitSummary, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be blank", entities.ErrInvalidInput)
	}

	habit := &entities.Habit{Category: req.Category, Dates: []string{}}
	if err := s.store.Insert(req.Name, habit); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, s.store); err != nil {
		s.store.Remove(req.Name)
		return nil, fmt.Errorf("failed to save habit: %w", err)
	}

	s.metrics.HabitAdded()
	s.logger.LogHabitAction(req.Name, "added", map[string]interface{}{"category": req.Category})

	return summarize(req.Name, habit), nil
}

// MarkCompleted records a completion of the named habit on req.Date, or today
// when no date is given. Marking an already-marked day changes nothing.
func (s *HabitService) MarkCompleted(ctx context.Context, req ports.MarkCompletedRequest) (*ports.MarkCompletedResult, error) {
	if err := validateRequest(s.validate, req); err != nil {
		return nil, err
	}

	date := req.Date
	if date == "" {
		date = s.Today()
	}

	habit, ok := s.store.Get(req.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", entities.ErrHabitNotFound, req.Name)
	}

	result := &ports.MarkCompletedResult{Name: req.Name, Date: date}
	if habit.HasDate(date) {
		s.logger.Debugw("Habit already marked", "habit", req.Name, "date", date)
		return result, nil
	}

	habit.Dates = append(habit.Dates, date)
	if err := s.repo.Save(ctx, s.store); err != nil {
		habit.Dates = habit.Dates[:len(habit.Dates)-1]
		return nil, fmt.Errorf("failed to save completion: %w", err)
	}

	result.Marked = true
	s.metrics.CompletionRecorded()
	s.logger.LogHabitAction(req.Name, "completed", map[string]interface{}{"date": date})

	return result, nil
}

// GetHabit returns a snapshot of one habit
func (s *HabitService) GetHabit(ctx context.Context, name string) (*entities.HabitSummary, error) {
	habit, ok := s.store.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", entities.ErrHabitNotFound, name)
	}
	return summarize(name, habit), nil
}

// ListHabits returns every habit in insertion order
func (s *HabitService) ListHabits(ctx context.Context) ([]entities.HabitSummary, error) {
	names := s.store.Names()
	habits := make([]entities.HabitSummary, 0, len(names))
	for _, name := range names {
		habit, _ := s.store.Get(name)
		habits = append(habits, *summarize(name, habit))
	}
	return habits, nil
}

// ViewStreaks computes streaks for every habit as of today
func (s *HabitService) ViewStreaks(ctx context.Context) ([]entities.HabitStreak, error) {
	return s.StreaksAsOf(ctx, s.clock())
}

// StreaksAsOf computes streaks for every habit relative to the calendar day of asOf
func (s *HabitService) StreaksAsOf(ctx context.Context, asOf time.Time) ([]entities.HabitStreak, error) {
	names := s.store.Names()
	streaks := make([]entities.HabitStreak, 0, len(names))
	for _, name := range names {
		habit, _ := s.store.Get(name)

		dates := make([]time.Time, 0, len(habit.Dates))
		for _, value := range habit.Dates {
			d, err := entities.ParseDate(value)
			if err != nil {
				return nil, fmt.Errorf("%w: habit %q: %v", entities.ErrStorageCorrupt, name, err)
			}
			dates = append(dates, d)
		}

		stats := streak.Compute(dates, asOf)
		hs := entities.HabitStreak{
			Name:          name,
			CurrentStreak: stats.Current,
			LongestStreak: stats.Longest,
			Total:         stats.Total,
		}
		if stats.Total > 0 {
			hs.LastCompleted = entities.FormatDate(stats.Last)
		}
		streaks = append(streaks, hs)
	}
	return streaks, nil
}

// Today returns the clock's local calendar date
func (s *HabitService) Today() string {
	return entities.FormatDate(s.clock())
}

func summarize(name string, habit *entities.Habit) *entities.HabitSummary {
	c := habit.Clone()
	return &entities.HabitSummary{Name: name, Category: c.Category, Dates: c.Dates}
}

type nopMetrics struct{}

func (nopMetrics) HabitAdded()         {}
func (nopMetrics) CompletionRecorded() {}
