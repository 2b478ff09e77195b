package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/keystone/internal/db/dbtest"
	"github.com/templui/keystone/internal/model"
	"github.com/templui/keystone/internal/repository"
	"github.com/templui/keystone/internal/streak"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newGoal(userID string, level model.Level, parent *model.Goal, offset int) *model.Goal {
	g := &model.Goal{
		ID:        uuid.New().String(),
		UserID:    userID,
		Level:     level,
		Title:     string(level) + " goal",
		Status:    model.StatusNotStarted,
		CreatedAt: base.Add(time.Duration(offset) * time.Minute),
		UpdatedAt: base.Add(time.Duration(offset) * time.Minute),
	}
	if parent != nil {
		g.ParentID = &parent.ID
	}
	return g
}

func TestGoalRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGoalRepository(dbtest.New(t))

	target := base.AddDate(1, 0, 0)
	k := newGoal("u1", model.LevelKeystone, nil, 0)
	k.TargetDate = &target
	k.IsHypothesis = true
	k.HypothesisTest = "ship a landing page"
	require.NoError(t, repo.Create(ctx, k))

	got, err := repo.ByID(ctx, "u1", k.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LevelKeystone, got.Level)
	assert.Nil(t, got.ParentID)
	assert.True(t, got.IsHypothesis)
	assert.Equal(t, "ship a landing page", got.HypothesisTest)
	require.NotNil(t, got.TargetDate)
	assert.True(t, target.Equal(*got.TargetDate))

	_, err = repo.ByID(ctx, "u2", k.ID)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	got.Status = model.StatusLearningInProgress
	got.Learnings = "pivoted"
	got.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.ByID(ctx, "u1", k.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusLearningInProgress, again.Status)
	assert.Equal(t, "pivoted", again.Learnings)

	got.UserID = "u2"
	assert.ErrorIs(t, repo.Update(ctx, got), repository.ErrGoalNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "u2", k.ID), repository.ErrGoalNotFound)
	require.NoError(t, repo.Delete(ctx, "u1", k.ID))
	_, err = repo.ByID(ctx, "u1", k.ID)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)
}

func TestGoalRepository_FilterAndCountChildren(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGoalRepository(dbtest.New(t))

	k := newGoal("u1", model.LevelKeystone, nil, 0)
	a1 := newGoal("u1", model.LevelAnnual, k, 1)
	a2 := newGoal("u1", model.LevelAnnual, k, 2)
	a2.Status = model.StatusComplete
	other := newGoal("u2", model.LevelKeystone, nil, 3)
	for _, g := range []*model.Goal{k, a1, a2, other} {
		require.NoError(t, repo.Create(ctx, g))
	}

	all, err := repo.Goals(ctx, "u1", repository.GoalFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, k.ID, all[0].ID)

	annual, err := repo.Goals(ctx, "u1", repository.GoalFilter{Level: model.LevelAnnual})
	require.NoError(t, err)
	assert.Len(t, annual, 2)

	done, err := repo.Goals(ctx, "u1", repository.GoalFilter{Level: model.LevelAnnual, Status: model.StatusComplete})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, a2.ID, done[0].ID)

	n, err := repo.CountChildren(ctx, "u1", k.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.CountChildren(ctx, "u2", k.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	none, err := repo.Goals(ctx, "nobody", repository.GoalFilter{})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func newHabit(userID, title string, offset int) *model.Habit {
	return &model.Habit{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		CreatedAt: base.Add(time.Duration(offset) * time.Minute),
		UpdatedAt: base.Add(time.Duration(offset) * time.Minute),
	}
}

func newCompletion(habitID string, day streak.Date) *model.HabitCompletion {
	return &model.HabitCompletion{
		ID:             uuid.New().String(),
		HabitID:        habitID,
		CompletionDate: day,
		CreatedAt:      base,
	}
}

func TestHabitRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	habits := repository.NewHabitRepository(database)
	completions := repository.NewCompletionRepository(database)

	h1 := newHabit("u1", "Read one page", 0)
	h2 := newHabit("u1", "One push-up", 1)
	require.NoError(t, habits.Create(ctx, h1))
	require.NoError(t, habits.Create(ctx, h2))

	list, err := habits.Habits(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, h2.ID, list[0].ID, "newest first")

	h1.Cue = "After my morning coffee"
	require.NoError(t, habits.Update(ctx, h1))
	got, err := habits.ByID(ctx, "u1", h1.ID)
	require.NoError(t, err)
	assert.Equal(t, "After my morning coffee", got.Cue)

	_, err = habits.ByID(ctx, "u2", h1.ID)
	assert.ErrorIs(t, err, repository.ErrHabitNotFound)

	require.NoError(t, completions.Create(ctx, newCompletion(h1.ID, streak.NewDate(2026, 3, 1))))
	require.NoError(t, habits.Delete(ctx, "u1", h1.ID))

	left, err := completions.Completions(ctx, h1.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	assert.ErrorIs(t, habits.Delete(ctx, "u1", h1.ID), repository.ErrHabitNotFound)
}

func TestCompletionRepository_UniquePerDay(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	habits := repository.NewHabitRepository(database)
	completions := repository.NewCompletionRepository(database)

	h := newHabit("u1", "Write 50 words", 0)
	require.NoError(t, habits.Create(ctx, h))

	day := streak.NewDate(2026, 3, 10)
	require.NoError(t, completions.Create(ctx, newCompletion(h.ID, day)))

	err := completions.Create(ctx, newCompletion(h.ID, day))
	assert.True(t, errors.Is(err, repository.ErrDuplicateCompletion), "got %v", err)

	require.NoError(t, completions.Create(ctx, newCompletion(h.ID, day.AddDays(1))))

	found, err := completions.ByDate(ctx, h.ID, day)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", found.CompletionDate.String())

	_, err = completions.ByDate(ctx, h.ID, day.AddDays(5))
	assert.ErrorIs(t, err, repository.ErrCompletionNotFound)
}

func TestCompletionRepository_Queries(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	habits := repository.NewHabitRepository(database)
	completions := repository.NewCompletionRepository(database)

	h1 := newHabit("u1", "Read", 0)
	h2 := newHabit("u1", "Stretch", 1)
	require.NoError(t, habits.Create(ctx, h1))
	require.NoError(t, habits.Create(ctx, h2))

	start := streak.NewDate(2026, 3, 1)
	for _, offset := range []int{5, 0, 10} {
		require.NoError(t, completions.Create(ctx, newCompletion(h1.ID, start.AddDays(offset))))
	}
	require.NoError(t, completions.Create(ctx, newCompletion(h2.ID, start)))

	all, err := completions.Completions(ctx, h1.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2026-03-01", all[0].CompletionDate.String())
	assert.Equal(t, "2026-03-11", all[2].CompletionDate.String())

	since, err := completions.CompletionsSince(ctx, h1.ID, start.AddDays(5))
	require.NoError(t, err)
	assert.Len(t, since, 2)

	byHabit, err := completions.ForHabits(ctx, []string{h1.ID, h2.ID, "missing"})
	require.NoError(t, err)
	assert.Len(t, byHabit[h1.ID], 3)
	assert.Len(t, byHabit[h2.ID], 1)
	assert.Empty(t, byHabit["missing"])

	empty, err := completions.ForHabits(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
