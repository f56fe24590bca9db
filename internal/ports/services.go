package ports

import (
	"context"
	"time"

	"github.com/habitmaster/core/internal/domain/entities"
)

// HabitService interface for habit tracking operations
type HabitService interface {
	AddHabit(ctx context.Context, req AddHabitRequest) (*entities.HabitSummary, error)
	MarkCompleted(ctx context.Context, req MarkCompletedRequest) (*MarkCompletedResult, error)
	GetHabit(ctx context.Context, name string) (*entities.HabitSummary, error)
	ListHabits(ctx context.Context) ([]entities.HabitSummary, error)
	ViewStreaks(ctx context.Context) ([]entities.HabitStreak, error)
	StreaksAsOf(ctx context.Context, asOf time.Time) ([]entities.HabitStreak, error)
}

// Request/Response Types

type AddHabitRequest struct {
	Name     string `json:"name" validate:"required,utf8_text"`
	Category string `json:"category" validate:"utf8_text"`
}

// MarkCompletedRequest records a completion. An empty Date means today.
type MarkCompletedRequest struct {
	Name string `json:"name" validate:"required"`
	Date string `json:"date" validate:"omitempty,calendar_date"`
}

type MarkCompletedResult struct {
	Name   string `json:"name"`
	Date   string `json:"date"`
	Marked bool   `json:"marked"`
}

// HabitMetrics receives counts of successful mutations
type HabitMetrics interface {
	HabitAdded()
	CompletionRecorded()
}
