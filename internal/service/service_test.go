package service

import (
	"testing"
	"time"
)

// freeze pins timeNow to at for the duration of the test.
func freeze(t *testing.T, at time.Time) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = prev })
}

func ptr[T any](v T) *T { return &v }
