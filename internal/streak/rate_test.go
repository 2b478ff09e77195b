package streak

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRate(t *testing.T) {
	tests := []struct {
		name        string
		completions int
		window      int
		want        int
	}{
		{"rounds up", 20, 30, 67},
		{"zero window", 0, 0, 0},
		{"negative window", 5, -1, 0},
		{"full window", 90, 90, 100},
		{"nothing done", 0, 90, 0},
		{"rounds down", 1, 3, 33},
		{"half rounds away from zero", 1, 8, 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rate(tt.completions, tt.window))
		})
	}
}

func TestWindowStart(t *testing.T) {
	assert.Equal(t, today, WindowStart(today, 1))
	assert.Equal(t, today.AddDays(-29), WindowStart(today, 30))
}

func TestInWindow(t *testing.T) {
	days := []Date{
		today,
		today.AddDays(-6),
		today.AddDays(-7), // first day outside a 7 day window
		today.AddDays(2),  // future days never count
		today,
	}

	assert.Equal(t, 2, InWindow(days, today, 7))
	assert.Equal(t, 3, InWindow(days, today, 8))
	assert.Equal(t, 0, InWindow(days, today, 0))
}
