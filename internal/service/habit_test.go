package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/keystone/internal/apperr"
	"github.com/templui/keystone/internal/db/dbtest"
	"github.com/templui/keystone/internal/model"
	"github.com/templui/keystone/internal/repository"
	"github.com/templui/keystone/internal/streak"
)

var now = time.Date(2026, 3, 15, 21, 45, 0, 0, time.UTC)

func newHabitService(t *testing.T, completions func(repository.CompletionRepository) repository.CompletionRepository) *HabitService {
	t.Helper()
	freeze(t, now)

	database := dbtest.New(t)
	habits := repository.NewHabitRepository(database)
	store := repository.NewCompletionRepository(database)
	if completions != nil {
		store = completions(store)
	}

	ledger := NewCompletionLedger(habits, store, time.UTC)
	return NewHabitService(habits, store, ledger, time.UTC, 30)
}

func mustHabit(t *testing.T, s *HabitService, userID string) *model.HabitView {
	t.Helper()
	h, err := s.Create(context.Background(), userID, CreateHabitInput{Title: "Read one page", Cue: "After coffee"})
	require.NoError(t, err)
	return h
}

func daysAgo(n int) *time.Time {
	at := now.AddDate(0, 0, -n)
	return &at
}

func TestHabitService_CreateReturnsEmptyStats(t *testing.T) {
	s := newHabitService(t, nil)
	h := mustHabit(t, s, "u1")

	assert.Equal(t, "Read one page", h.Title)
	assert.Equal(t, "After coffee", h.Cue)
	assert.Equal(t, model.HabitStats{}, h.HabitStats)
	assert.Equal(t, 30, h.WindowDays)
}

func TestHabitService_CreateValidatesTitle(t *testing.T) {
	s := newHabitService(t, nil)

	_, err := s.Create(context.Background(), "u1", CreateHabitInput{Title: ""})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}
	_, err = s.Create(context.Background(), "u1", CreateHabitInput{Title: string(long)})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "title is too long (max 100 characters)", err.Error())
}

func TestHabitService_CompleteSameDayTwice(t *testing.T) {
	ctx := context.Background()
	s := newHabitService(t, nil)
	h := mustHabit(t, s, "u1")

	morning := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)

	c, err := s.Complete(ctx, "u1", h.ID, &morning)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", c.CompletionDate.String())

	_, err = s.Complete(ctx, "u1", h.ID, &evening)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "Habit already completed for this day.", err.Error())

	nextDay := morning.AddDate(0, 0, 1)
	_, err = s.Complete(ctx, "u1", h.ID, &nextDay)
	assert.NoError(t, err)
}

func TestHabitService_CompleteDefaultsToToday(t *testing.T) {
	ctx := context.Background()
	s := newHabitService(t, nil)
	h := mustHabit(t, s, "u1")

	c, err := s.Complete(ctx, "u1", h.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", c.CompletionDate.String())

	got, err := s.ByID(ctx, "u1", h.ID, 0)
	require.NoError(t, err)
	assert.True(t, got.IsCompletedToday)
	assert.Equal(t, 1, got.CurrentStreak)
}

func TestHabitService_CompleteUnknownHabit(t *testing.T) {
	ctx := context.Background()
	s := newHabitService(t, nil)
	h := mustHabit(t, s, "u1")

	_, err := s.Complete(ctx, "u2", h.ID, nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = s.Complete(ctx, "u1", "missing", nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestHabitService_Streaks(t *testing.T) {
	ctx := context.Background()
	s := newHabitService(t, nil)
	h := mustHabit(t, s, "u1")

	// runs of 3, 5 and 2 days, the last ending yesterday
	for _, n := range []int{20, 19, 18, 14, 13, 12, 11, 10, 2, 1} {
		_, err := s.Complete(ctx, "u1", h.ID, daysAgo(n))
		require.NoError(t, err)
	}

	got, err := s.ByID(ctx, "u1", h.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentStreak)
	assert.Equal(t, 5, got.LongestStreak)
	assert.False(t, got.IsCompletedToday)
	assert.Equal(t, 33, got.CompletionRate) // 10 of 30

	got, err = s.ByID(ctx, "u1", h.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 29, got.CompletionRate) // 2 of 7
	assert.Equal(t, 7, got.WindowDays)
}

func TestHabitService_FiveDaysEndingToday(t *testing.T) {
	ctx := context.Background()
	s := newHabitService(t, nil)
	h := mustHabit(t, s, "u1")

	for n := 4; n >= 0; n-- {
		_, err := s.Complete(ctx, "u1", h.ID, daysAgo(n))
		require.NoError(t, err)
	}

	list, err := s.Habits(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 5, list[0].CurrentStreak)
	assert.True(t, list[0].IsCompletedToday)
}

func TestHabitService_BrokenChain(t *testing.T) {
	ctx := context.Background()
	s := newHabitService(t, nil)
	h := mustHabit(t, s, "u1")

	for _, n := range []int{5, 4, 3} {
		_, err := s.Complete(ctx, "u1", h.ID, daysAgo(n))
		require.NoError(t, err)
	}

	got, err := s.ByID(ctx, "u1", h.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentStreak)
	assert.Equal(t, 3, got.LongestStreak)
}

func TestHabitService_HabitsScopedToOwner(t *testing.T) {
	ctx := context.Background()
	s := newHabitService(t, nil)
	mustHabit(t, s, "u1")
	mustHabit(t, s, "u1")
	mustHabit(t, s, "u2")

	list, err := s.Habits(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	none, err := s.Habits(ctx, "nobody", 0)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = s.Habits(ctx, "u1", -1)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestHabitService_Completions(t *testing.T) {
	ctx := context.Background()
	s := newHabitService(t, nil)
	h := mustHabit(t, s, "u1")

	for _, n := range []int{40, 10, 0} {
		_, err := s.Complete(ctx, "u1", h.ID, daysAgo(n))
		require.NoError(t, err)
	}
	future := now.AddDate(0, 0, 2)
	_, err := s.Complete(ctx, "u1", h.ID, &future)
	require.NoError(t, err)

	list, err := s.Completions(ctx, "u1", h.ID, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2026-03-05", list[0].CompletionDate.String())
	assert.Equal(t, "2026-03-15", list[1].CompletionDate.String())

	list, err = s.Completions(ctx, "u1", h.ID, 60)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	_, err = s.Completions(ctx, "u2", h.ID, 0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestHabitService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newHabitService(t, nil)
	h := mustHabit(t, s, "u1")
	_, err := s.Complete(ctx, "u1", h.ID, nil)
	require.NoError(t, err)

	got, err := s.Update(ctx, "u1", h.ID, HabitPatch{Cue: ptr("After brushing teeth")})
	require.NoError(t, err)
	assert.Equal(t, "After brushing teeth", got.Cue)
	assert.Equal(t, "Read one page", got.Title)
	assert.True(t, got.IsCompletedToday)

	_, err = s.Update(ctx, "u1", h.ID, HabitPatch{Title: ptr(" ")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = s.Update(ctx, "u2", h.ID, HabitPatch{Cue: ptr("x")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, "u2", h.ID), apperr.ErrNotFound)
	require.NoError(t, s.Delete(ctx, "u1", h.ID))

	_, err = s.ByID(ctx, "u1", h.ID, 0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// blindLookup never sees an existing completion, as when two requests for
// the same day pass the lookup before either inserts.
type blindLookup struct {
	repository.CompletionRepository
}

func (blindLookup) ByDate(context.Context, string, streak.Date) (*model.HabitCompletion, error) {
	return nil, repository.ErrCompletionNotFound
}

func TestHabitService_ConcurrentDuplicateRejectedByStore(t *testing.T) {
	ctx := context.Background()
	s := newHabitService(t, func(r repository.CompletionRepository) repository.CompletionRepository {
		return blindLookup{r}
	})
	h := mustHabit(t, s, "u1")

	_, err := s.Complete(ctx, "u1", h.ID, nil)
	require.NoError(t, err)

	_, err = s.Complete(ctx, "u1", h.ID, nil)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.ErrorIs(t, err, repository.ErrDuplicateCompletion)
	assert.Equal(t, "Habit already completed for this day.", err.Error())
}

func TestEnrich(t *testing.T) {
	today := streak.NewDate(2026, 3, 15)
	completions := []*model.HabitCompletion{
		{CompletionDate: today},
		{CompletionDate: today.AddDays(-1)},
		{CompletionDate: today.AddDays(-1)},
	}

	v := Enrich(&model.Habit{ID: "h1"}, completions, 30, today)
	assert.Equal(t, 2, v.CurrentStreak)
	assert.Equal(t, 2, v.LongestStreak)
	assert.Equal(t, 7, v.CompletionRate)
	assert.True(t, v.IsCompletedToday)

	v = Enrich(&model.Habit{ID: "h1"}, nil, 0, today)
	assert.Equal(t, 0, v.CompletionRate)
}
