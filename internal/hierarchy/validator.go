package hierarchy

import (
	"context"
	"errors"

	"github.com/templui/keystone/internal/apperr"
	"github.com/templui/keystone/internal/model"
)

// ParentLookup loads a goal owned by userID. It must return an error matching
// apperr.ErrNotFound when the goal is missing or belongs to someone else.
type ParentLookup func(ctx context.Context, userID, goalID string) (*model.Goal, error)

// CreateCheck describes a goal about to be created.
type CreateCheck struct {
	UserID   string
	Level    model.Level
	ParentID *string
}

// ValidateCreate accepts or rejects a new goal before anything is written.
func ValidateCreate(ctx context.Context, in CreateCheck, lookup ParentLookup) error {
	if !in.Level.Valid() {
		return apperr.Validationf("Unknown goal level %q.", in.Level)
	}

	hasParent := in.ParentID != nil && *in.ParentID != ""

	if in.Level == model.LevelKeystone && hasParent {
		return apperr.Validation("Keystone goals cannot have a parent.")
	}
	if in.Level != model.LevelKeystone && !hasParent {
		return apperr.Validation("All goals except Keystones must have a parent.")
	}
	if !hasParent {
		return nil
	}

	parent, err := lookup(ctx, in.UserID, *in.ParentID)
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.NotFound("Parent goal not found.")
	}
	if err != nil {
		return err
	}
	if parent == nil || parent.UserID != in.UserID {
		return apperr.NotFound("Parent goal not found.")
	}

	if !IsValidPair(in.Level, &parent.Level) {
		return apperr.Validationf("Invalid hierarchy: %s cannot be a child of %s.", in.Level, parent.Level)
	}

	return nil
}
