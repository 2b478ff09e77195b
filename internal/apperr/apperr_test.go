package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	err := Conflict("Habit already completed for this day.")

	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Habit already completed for this day.", err.Error())
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("complete habit: %w", NotFound("Habit not found."))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed")
	err := Wrap(KindConflict, "duplicate", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, "internal", KindOf(nil).String())
}

func TestValidationf(t *testing.T) {
	err := Validationf("Invalid hierarchy: %s cannot be a child of %s.", "WEEKLY", "KEYSTONE")

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Invalid hierarchy: WEEKLY cannot be a child of KEYSTONE.", err.Error())
}
