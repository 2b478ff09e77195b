package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/templui/keystone/internal/apperr"
	"github.com/templui/keystone/internal/hierarchy"
	"github.com/templui/keystone/internal/metrics"
	"github.com/templui/keystone/internal/model"
	"github.com/templui/keystone/internal/repository"
	"github.com/templui/keystone/internal/validation"
)

const levelTags = "KEYSTONE, ANNUAL, QUARTERLY, WEEKLY, DAILY_ATOMIC"

type CreateGoalInput struct {
	Level            model.Level `json:"level" validate:"required,oneof=KEYSTONE ANNUAL QUARTERLY WEEKLY DAILY_ATOMIC"`
	Title            string      `json:"title" validate:"notblank,max=200"`
	Description      string      `json:"description" validate:"max=2000"`
	ParentID         *string     `json:"parent_id"`
	SpecificMeasure  string      `json:"specific_measure" validate:"max=500"`
	TargetDate       *time.Time  `json:"target_date"`
	IsHypothesis     bool        `json:"is_hypothesis"`
	HypothesisTest   string      `json:"hypothesis_test" validate:"max=2000"`
	HypothesisMetric string      `json:"hypothesis_metric" validate:"max=500"`
}

// GoalPatch is a partial update. Level and parent are fixed at creation.
type GoalPatch struct {
	Title            *string       `json:"title" validate:"omitempty,notblank,max=200"`
	Description      *string       `json:"description" validate:"omitempty,max=2000"`
	Status           *model.Status `json:"status" validate:"omitempty,oneof=NOT_STARTED IN_PROGRESS COMPLETE LEARNING_IN_PROGRESS"`
	SpecificMeasure  *string       `json:"specific_measure" validate:"omitempty,max=500"`
	TargetDate       *time.Time    `json:"target_date"`
	IsHypothesis     *bool         `json:"is_hypothesis"`
	HypothesisTest   *string       `json:"hypothesis_test" validate:"omitempty,max=2000"`
	HypothesisMetric *string       `json:"hypothesis_metric" validate:"omitempty,max=500"`
	Learnings        *string       `json:"learnings" validate:"omitempty,max=5000"`
}

type GoalService struct {
	repo repository.GoalRepository
}

func NewGoalService(repo repository.GoalRepository) *GoalService {
	return &GoalService{
		repo: repo,
	}
}

func (s *GoalService) Create(ctx context.Context, userID string, in CreateGoalInput) (*model.Goal, error) {
	err := validation.Struct(in)
	if err != nil {
		return nil, err
	}

	err = hierarchy.ValidateCreate(ctx, hierarchy.CreateCheck{
		UserID:   userID,
		Level:    in.Level,
		ParentID: in.ParentID,
	}, s.lookup)
	if err != nil {
		rejected("create", err)
		return nil, err
	}

	var parentID *string
	if in.ParentID != nil && *in.ParentID != "" {
		parentID = in.ParentID
	}

	now := timeNow()
	goal := &model.Goal{
		ID:               uuid.New().String(),
		UserID:           userID,
		Level:            in.Level,
		Title:            in.Title,
		Description:      in.Description,
		Status:           model.StatusNotStarted,
		ParentID:         parentID,
		SpecificMeasure:  in.SpecificMeasure,
		TargetDate:       in.TargetDate,
		IsHypothesis:     in.IsHypothesis,
		HypothesisTest:   in.HypothesisTest,
		HypothesisMetric: in.HypothesisMetric,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = s.repo.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	metrics.GoalsCreated.WithLabelValues(string(goal.Level)).Inc()
	slog.Info("goal created", "user_id", userID, "goal_id", goal.ID, "level", goal.Level)

	return goal, nil
}

func (s *GoalService) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	return s.lookup(ctx, userID, goalID)
}

// Goals lists the owner's goals oldest first, optionally filtered.
func (s *GoalService) Goals(ctx context.Context, userID string, filter repository.GoalFilter) ([]*model.Goal, error) {
	if filter.Level != "" && !filter.Level.Valid() {
		return nil, apperr.Validationf("level must be one of: %s", levelTags)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperr.Validationf("Unknown goal status %q.", filter.Status)
	}

	goals, err := s.repo.Goals(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

func (s *GoalService) ByLevel(ctx context.Context, userID string, level model.Level) ([]*model.Goal, error) {
	return s.Goals(ctx, userID, repository.GoalFilter{Level: level})
}

// Hierarchy returns the owner's Keystones, each with its full subtree.
func (s *GoalService) Hierarchy(ctx context.Context, userID string) ([]*model.GoalNode, error) {
	goals, err := s.repo.Goals(ctx, userID, repository.GoalFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}
	return hierarchy.BuildForest(goals), nil
}

// TodaysTasks returns not-started daily atomic goals with their weekly parent.
func (s *GoalService) TodaysTasks(ctx context.Context, userID string) ([]*model.GoalWithParent, error) {
	goals, err := s.repo.Goals(ctx, userID, repository.GoalFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}

	byID := make(map[string]*model.Goal, len(goals))
	for _, g := range goals {
		byID[g.ID] = g
	}

	tasks := []*model.GoalWithParent{}
	for _, g := range goals {
		if g.Level != model.LevelDailyAtomic || g.Status != model.StatusNotStarted {
			continue
		}
		task := &model.GoalWithParent{Goal: g}
		if g.HasParent() {
			task.Parent = byID[*g.ParentID]
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (s *GoalService) Update(ctx context.Context, userID, goalID string, patch GoalPatch) (*model.Goal, error) {
	err := validation.Struct(patch)
	if err != nil {
		return nil, err
	}

	goal, err := s.lookup(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	previous := goal.Status
	err = hierarchy.ValidateUpdate(previous, hierarchy.StatusPatch{
		Status:    patch.Status,
		Learnings: patch.Learnings,
	})
	if err != nil {
		rejected("update", err)
		return nil, err
	}

	applyPatch(goal, patch)
	goal.UpdatedAt = timeNow()

	err = s.repo.Update(ctx, goal)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, apperr.NotFound("Goal not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	if goal.Status != previous {
		metrics.GoalStatusChanges.WithLabelValues(string(goal.Status)).Inc()
		slog.Info("goal status changed", "user_id", userID, "goal_id", goalID, "from", previous, "to", goal.Status)
	}

	return goal, nil
}

func (s *GoalService) MarkComplete(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	status := model.StatusComplete
	return s.Update(ctx, userID, goalID, GoalPatch{Status: &status})
}

// MarkLearning reframes a goal that missed its aim, keeping what was learned.
func (s *GoalService) MarkLearning(ctx context.Context, userID, goalID, learnings string) (*model.Goal, error) {
	status := model.StatusLearningInProgress
	return s.Update(ctx, userID, goalID, GoalPatch{Status: &status, Learnings: &learnings})
}

func (s *GoalService) Delete(ctx context.Context, userID, goalID string) error {
	// Verify ownership
	_, err := s.lookup(ctx, userID, goalID)
	if err != nil {
		return err
	}

	err = hierarchy.CanDelete(ctx, goalID, userID, s.repo.CountChildren)
	if err != nil {
		rejected("delete", err)
		return err
	}

	err = s.repo.Delete(ctx, userID, goalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return apperr.NotFound("Goal not found.")
	}
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	slog.Info("goal deleted", "user_id", userID, "goal_id", goalID)
	return nil
}

// lookup loads a goal scoped to its owner; other users' goals are reported as missing.
func (s *GoalService) lookup(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goal, err := s.repo.ByID(ctx, userID, goalID)
	if errors.Is(err, repository.ErrGoalNotFound) {
		return nil, apperr.NotFound("Goal not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load goal: %w", err)
	}
	return goal, nil
}

func applyPatch(goal *model.Goal, patch GoalPatch) {
	if patch.Title != nil {
		goal.Title = *patch.Title
	}
	if patch.Description != nil {
		goal.Description = *patch.Description
	}
	if patch.Status != nil {
		goal.Status = *patch.Status
	}
	if patch.SpecificMeasure != nil {
		goal.SpecificMeasure = *patch.SpecificMeasure
	}
	if patch.TargetDate != nil {
		goal.TargetDate = patch.TargetDate
	}
	if patch.IsHypothesis != nil {
		goal.IsHypothesis = *patch.IsHypothesis
	}
	if patch.HypothesisTest != nil {
		goal.HypothesisTest = *patch.HypothesisTest
	}
	if patch.HypothesisMetric != nil {
		goal.HypothesisMetric = *patch.HypothesisMetric
	}
	if patch.Learnings != nil {
		goal.Learnings = *patch.Learnings
	}
}

func rejected(operation string, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		return
	}
	metrics.GoalRejections.WithLabelValues(operation, kind.String()).Inc()
}
