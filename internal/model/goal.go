package model

import (
	"time"
)

// Level is a rung of the goal hierarchy, from long-horizon vision down to today.
type Level string

const (
	LevelKeystone    Level = "KEYSTONE"
	LevelAnnual      Level = "ANNUAL"
	LevelQuarterly   Level = "QUARTERLY"
	LevelWeekly      Level = "WEEKLY"
	LevelDailyAtomic Level = "DAILY_ATOMIC"
)

// Levels lists every level, top rung first.
var Levels = []Level{LevelKeystone, LevelAnnual, LevelQuarterly, LevelWeekly, LevelDailyAtomic}

func (l Level) Valid() bool {
	for _, v := range Levels {
		if l == v {
			return true
		}
	}
	return false
}

// Status has no failed state. A goal that missed its aim is LEARNING_IN_PROGRESS.
type Status string

const (
	StatusNotStarted         Status = "NOT_STARTED"
	StatusInProgress         Status = "IN_PROGRESS"
	StatusComplete           Status = "COMPLETE"
	StatusLearningInProgress Status = "LEARNING_IN_PROGRESS"
)

var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusComplete, StatusLearningInProgress}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type Goal struct {
	ID               string     `db:"id" json:"id"`
	UserID           string     `db:"user_id" json:"user_id"`
	Level            Level      `db:"level" json:"level"`
	Title            string     `db:"title" json:"title"`
	Description      string     `db:"description" json:"description"`
	Status           Status     `db:"status" json:"status"`
	ParentID         *string    `db:"parent_id" json:"parent_id,omitempty"`
	SpecificMeasure  string     `db:"specific_measure" json:"specific_measure,omitempty"`
	TargetDate       *time.Time `db:"target_date" json:"target_date,omitempty"`
	IsHypothesis     bool       `db:"is_hypothesis" json:"is_hypothesis"`
	HypothesisTest   string     `db:"hypothesis_test" json:"hypothesis_test,omitempty"`
	HypothesisMetric string     `db:"hypothesis_metric" json:"hypothesis_metric,omitempty"`
	Learnings        string     `db:"learnings" json:"learnings,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

func (g *Goal) HasParent() bool {
	return g.ParentID != nil && *g.ParentID != ""
}

// GoalNode is a goal with its descendants attached, used for tree views.
type GoalNode struct {
	*Goal
	Children []*GoalNode `json:"children"`
}

// GoalWithParent carries a goal and its immediate parent for context.
type GoalWithParent struct {
	*Goal
	Parent *Goal `json:"parent,omitempty"`
}
