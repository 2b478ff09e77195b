// Package hierarchy holds the structural rules of the goal tree: which level
// may sit under which, which status moves are legal, and when a goal may be
// removed. Nothing here touches storage; lookups are passed in by the caller.
package hierarchy

import "github.com/templui/keystone/internal/model"

var parentLevels = map[model.Level]model.Level{
	model.LevelAnnual:      model.LevelKeystone,
	model.LevelQuarterly:   model.LevelAnnual,
	model.LevelWeekly:      model.LevelQuarterly,
	model.LevelDailyAtomic: model.LevelWeekly,
}

// RequiredParentLevel returns the only level a parent of level may have.
// ok is false for Keystone (and unknown levels), which take no parent.
func RequiredParentLevel(level model.Level) (parent model.Level, ok bool) {
	parent, ok = parentLevels[level]
	return parent, ok
}

// IsValidPair reports whether a goal of level may sit under a parent of
// parentLevel. A nil parentLevel means "no parent", valid only for Keystone.
func IsValidPair(level model.Level, parentLevel *model.Level) bool {
	if !level.Valid() {
		return false
	}
	want, ok := RequiredParentLevel(level)
	if parentLevel == nil {
		return !ok
	}
	return ok && *parentLevel == want
}
