package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/templui/keystone/internal/apperr"
	"github.com/templui/keystone/internal/metrics"
	"github.com/templui/keystone/internal/model"
	"github.com/templui/keystone/internal/repository"
	"github.com/templui/keystone/internal/streak"
)

const msgAlreadyCompleted = "Habit already completed for this day."

// CompletionLedger records at most one completion per habit per calendar day.
type CompletionLedger struct {
	habits      repository.HabitRepository
	completions repository.CompletionRepository
	loc         *time.Location
}

func NewCompletionLedger(habits repository.HabitRepository, completions repository.CompletionRepository, loc *time.Location) *CompletionLedger {
	if loc == nil {
		loc = time.UTC
	}
	return &CompletionLedger{
		habits:      habits,
		completions: completions,
		loc:         loc,
	}
}

// Record normalizes at to a calendar day and stores a completion for it.
// The lookup gives a friendly error for the common case; the store's unique
// constraint catches concurrent requests that both pass it.
func (l *CompletionLedger) Record(ctx context.Context, userID, habitID string, at time.Time) (*model.HabitCompletion, error) {
	_, err := l.habits.ByID(ctx, userID, habitID)
	if errors.Is(err, repository.ErrHabitNotFound) {
		return nil, apperr.NotFound("Habit not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load habit: %w", err)
	}

	day := streak.DateOf(at, l.loc)

	_, err = l.completions.ByDate(ctx, habitID, day)
	if err == nil {
		metrics.HabitCompletions.WithLabelValues(metrics.CompletionDuplicate).Inc()
		return nil, apperr.Conflict(msgAlreadyCompleted)
	}
	if !errors.Is(err, repository.ErrCompletionNotFound) {
		return nil, fmt.Errorf("failed to check completion: %w", err)
	}

	completion := &model.HabitCompletion{
		ID:             uuid.New().String(),
		HabitID:        habitID,
		CompletionDate: day,
		CreatedAt:      timeNow(),
	}

	err = l.completions.Create(ctx, completion)
	if errors.Is(err, repository.ErrDuplicateCompletion) {
		metrics.HabitCompletions.WithLabelValues(metrics.CompletionDuplicateRace).Inc()
		slog.Warn("concurrent habit completion rejected by store", "habit_id", habitID, "date", day)
		return nil, apperr.Wrap(apperr.KindConflict, msgAlreadyCompleted, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record completion: %w", err)
	}

	metrics.HabitCompletions.WithLabelValues(metrics.CompletionRecorded).Inc()
	slog.Info("habit completed", "user_id", userID, "habit_id", habitID, "date", day)

	return completion, nil
}
