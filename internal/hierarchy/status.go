package hierarchy

import (
	"strings"

	"github.com/templui/keystone/internal/apperr"
	"github.com/templui/keystone/internal/model"
)

const msgLearningsRequired = "A goal in Learning in Progress requires capturing what was learned."

// Transition describes the side constraints of moving into a status.
type Transition struct {
	RequiresLearnings bool
}

var (
	plain         = Transition{}
	enterLearning = Transition{RequiresLearnings: true}
)

// transitions is the full status table. Every status may move to every other
// status; the only constraint is the learning note on LEARNING_IN_PROGRESS.
var transitions = map[model.Status]map[model.Status]Transition{
	model.StatusNotStarted: {
		model.StatusNotStarted:         plain,
		model.StatusInProgress:         plain,
		model.StatusComplete:           plain,
		model.StatusLearningInProgress: enterLearning,
	},
	model.StatusInProgress: {
		model.StatusNotStarted:         plain,
		model.StatusInProgress:         plain,
		model.StatusComplete:           plain,
		model.StatusLearningInProgress: enterLearning,
	},
	model.StatusComplete: {
		model.StatusNotStarted:         plain,
		model.StatusInProgress:         plain,
		model.StatusComplete:           plain,
		model.StatusLearningInProgress: enterLearning,
	},
	model.StatusLearningInProgress: {
		model.StatusNotStarted:         plain,
		model.StatusInProgress:         plain,
		model.StatusComplete:           plain,
		model.StatusLearningInProgress: enterLearning,
	},
}

// TransitionFor returns the table entry for from -> to.
func TransitionFor(from, to model.Status) (Transition, bool) {
	t, ok := transitions[from][to]
	return t, ok
}

// StatusPatch is the part of a goal update the status policy cares about.
// Nil fields are not being changed.
type StatusPatch struct {
	Status    *model.Status
	Learnings *string
}

// ValidateUpdate checks a status change against the transition table. A goal
// that stays in LEARNING_IN_PROGRESS cannot have its learning note cleared.
func ValidateUpdate(current model.Status, patch StatusPatch) error {
	if patch.Status == nil {
		if current == model.StatusLearningInProgress && patch.Learnings != nil && blank(*patch.Learnings) {
			return apperr.Validation(msgLearningsRequired)
		}
		return nil
	}

	next := *patch.Status
	if !next.Valid() {
		return apperr.Validationf("Unknown goal status %q.", next)
	}

	t, ok := TransitionFor(current, next)
	if !ok {
		return apperr.Validationf("A goal cannot move from %s to %s.", current, next)
	}

	if t.RequiresLearnings && (patch.Learnings == nil || blank(*patch.Learnings)) {
		return apperr.Validation(msgLearningsRequired)
	}

	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
