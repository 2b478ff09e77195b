package model

import (
	"time"

	"github.com/templui/keystone/internal/streak"
)

type Habit struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Cue         string    `db:"cue" json:"cue,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// HabitCompletion records that a habit was done on a calendar day.
// (HabitID, CompletionDate) is unique.
type HabitCompletion struct {
	ID             string      `db:"id" json:"id"`
	HabitID        string      `db:"habit_id" json:"habit_id"`
	CompletionDate streak.Date `db:"completion_date" json:"completion_date"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
}

// HabitStats are derived on read and never persisted.
type HabitStats struct {
	CurrentStreak    int  `json:"current_streak"`
	LongestStreak    int  `json:"longest_streak"`
	CompletionRate   int  `json:"completion_rate"`
	IsCompletedToday bool `json:"is_completed_today"`
}

// HabitView is what callers get back: the stored habit plus its stats.
type HabitView struct {
	*Habit
	HabitStats
	WindowDays int `json:"window_days"`
}
