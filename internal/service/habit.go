package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/templui/keystone/internal/apperr"
	"github.com/templui/keystone/internal/model"
	"github.com/templui/keystone/internal/repository"
	"github.com/templui/keystone/internal/streak"
	"github.com/templui/keystone/internal/validation"
)

const DefaultWindowDays = 90

type CreateHabitInput struct {
	Title       string `json:"title" validate:"notblank,max=100"`
	Description string `json:"description" validate:"max=500"`
	Cue         string `json:"cue" validate:"max=200"`
}

type HabitPatch struct {
	Title       *string `json:"title" validate:"omitempty,notblank,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Cue         *string `json:"cue" validate:"omitempty,max=200"`
}

type HabitService struct {
	habits      repository.HabitRepository
	completions repository.CompletionRepository
	ledger      *CompletionLedger
	loc         *time.Location
	windowDays  int
}

func NewHabitService(
	habits repository.HabitRepository,
	completions repository.CompletionRepository,
	ledger *CompletionLedger,
	loc *time.Location,
	windowDays int,
) *HabitService {
	if loc == nil {
		loc = time.UTC
	}
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &HabitService{
		habits:      habits,
		completions: completions,
		ledger:      ledger,
		loc:         loc,
		windowDays:  windowDays,
	}
}

func (s *HabitService) Create(ctx context.Context, userID string, in CreateHabitInput) (*model.HabitView, error) {
	err := validation.Struct(in)
	if err != nil {
		return nil, err
	}

	now := timeNow()
	habit := &model.Habit{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Cue:         in.Cue,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.habits.Create(ctx, habit)
	if err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	slog.Info("habit created", "user_id", userID, "habit_id", habit.ID)

	return Enrich(habit, nil, s.windowDays, s.today()), nil
}

func (s *HabitService) ByID(ctx context.Context, userID, habitID string, windowDays int) (*model.HabitView, error) {
	window, err := s.window(windowDays)
	if err != nil {
		return nil, err
	}

	habit, err := s.lookup(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	completions, err := s.completions.Completions(ctx, habit.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}

	return Enrich(habit, completions, window, s.today()), nil
}

// Habits lists the owner's habits newest first, each enriched with stats.
func (s *HabitService) Habits(ctx context.Context, userID string, windowDays int) ([]*model.HabitView, error) {
	window, err := s.window(windowDays)
	if err != nil {
		return nil, err
	}

	habits, err := s.habits.Habits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}

	ids := make([]string, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
	}

	byHabit, err := s.completions.ForHabits(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}

	today := s.today()
	views := make([]*model.HabitView, 0, len(habits))
	for _, h := range habits {
		views = append(views, Enrich(h, byHabit[h.ID], window, today))
	}
	return views, nil
}

func (s *HabitService) Update(ctx context.Context, userID, habitID string, patch HabitPatch) (*model.HabitView, error) {
	err := validation.Struct(patch)
	if err != nil {
		return nil, err
	}

	habit, err := s.lookup(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		habit.Title = *patch.Title
	}
	if patch.Description != nil {
		habit.Description = *patch.Description
	}
	if patch.Cue != nil {
		habit.Cue = *patch.Cue
	}
	habit.UpdatedAt = timeNow()

	err = s.habits.Update(ctx, habit)
	if errors.Is(err, repository.ErrHabitNotFound) {
		return nil, apperr.NotFound("Habit not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}

	completions, err := s.completions.Completions(ctx, habit.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}

	return Enrich(habit, completions, s.windowDays, s.today()), nil
}

// Delete removes the habit together with its completions.
func (s *HabitService) Delete(ctx context.Context, userID, habitID string) error {
	err := s.habits.Delete(ctx, userID, habitID)
	if errors.Is(err, repository.ErrHabitNotFound) {
		return apperr.NotFound("Habit not found.")
	}
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	slog.Info("habit deleted", "user_id", userID, "habit_id", habitID)
	return nil
}

// Complete records a completion for the day containing at, or today when at is nil.
func (s *HabitService) Complete(ctx context.Context, userID, habitID string, at *time.Time) (*model.HabitCompletion, error) {
	when := timeNow()
	if at != nil {
		when = *at
	}
	return s.ledger.Record(ctx, userID, habitID, when)
}

// CompleteOn records a completion for a calendar day in the configured timezone.
func (s *HabitService) CompleteOn(ctx context.Context, userID, habitID string, day streak.Date) (*model.HabitCompletion, error) {
	if day.IsZero() {
		return s.Complete(ctx, userID, habitID, nil)
	}
	at := day.Time(s.loc)
	return s.Complete(ctx, userID, habitID, &at)
}

// Completions returns the habit's completions inside the window, oldest first.
func (s *HabitService) Completions(ctx context.Context, userID, habitID string, windowDays int) ([]*model.HabitCompletion, error) {
	window, err := s.window(windowDays)
	if err != nil {
		return nil, err
	}

	_, err = s.lookup(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	today := s.today()
	since, err := s.completions.CompletionsSince(ctx, habitID, streak.WindowStart(today, window))
	if err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}

	completions := make([]*model.HabitCompletion, 0, len(since))
	for _, c := range since {
		if c.CompletionDate.After(today) {
			continue
		}
		completions = append(completions, c)
	}
	return completions, nil
}

// Enrich attaches streaks, completion rate and today's status to a habit.
func Enrich(habit *model.Habit, completions []*model.HabitCompletion, windowDays int, today streak.Date) *model.HabitView {
	days := make([]streak.Date, len(completions))
	for i, c := range completions {
		days[i] = c.CompletionDate
	}
	days = streak.Normalize(days)

	return &model.HabitView{
		Habit: habit,
		HabitStats: model.HabitStats{
			CurrentStreak:    streak.Current(days, today),
			LongestStreak:    streak.Longest(days),
			CompletionRate:   streak.Rate(streak.InWindow(days, today, windowDays), windowDays),
			IsCompletedToday: streak.Contains(days, today),
		},
		WindowDays: windowDays,
	}
}

func (s *HabitService) lookup(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	habit, err := s.habits.ByID(ctx, userID, habitID)
	if errors.Is(err, repository.ErrHabitNotFound) {
		return nil, apperr.NotFound("Habit not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load habit: %w", err)
	}
	return habit, nil
}

// window resolves a requested window; 0 selects the configured default.
func (s *HabitService) window(windowDays int) (int, error) {
	if windowDays < 0 {
		return 0, apperr.Validation("days must be a positive number.")
	}
	if windowDays == 0 {
		return s.windowDays, nil
	}
	return windowDays, nil
}

func (s *HabitService) today() streak.Date {
	return streak.DateOf(timeNow(), s.loc)
}
