// Package streak derives engagement metrics from a habit's completion days.
// Every function here is pure: callers pass the days and "today" explicitly.
package streak

import "sort"

// Normalize returns the distinct days in ascending order.
func Normalize(days []Date) []Date {
	out := make([]Date, 0, len(days))
	for _, d := range days {
		if !d.IsZero() {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })

	uniq := out[:0]
	for i, d := range out {
		if i > 0 && d.Equal(uniq[len(uniq)-1]) {
			continue
		}
		uniq = append(uniq, d)
	}
	return uniq
}

// Current counts consecutive days ending at the latest completion, provided
// that completion is today or yesterday. Days after today are ignored.
func Current(days []Date, today Date) int {
	sorted := Normalize(days)
	for len(sorted) > 0 && sorted[len(sorted)-1].After(today) {
		sorted = sorted[:len(sorted)-1]
	}
	if len(sorted) == 0 {
		return 0
	}

	latest := sorted[len(sorted)-1]
	if today.DaysSince(latest) > 1 {
		return 0
	}

	count := 1
	cursor := latest
	for i := len(sorted) - 2; i >= 0; i-- {
		if !sorted[i].AddDays(1).Equal(cursor) {
			break
		}
		count++
		cursor = sorted[i]
	}
	return count
}

// Longest returns the longest run of consecutive days anywhere in history.
func Longest(days []Date) int {
	sorted := Normalize(days)
	if len(sorted) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i].DaysSince(sorted[i-1]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// Contains reports whether day is among days.
func Contains(days []Date, day Date) bool {
	for _, d := range days {
		if d.Equal(day) {
			return true
		}
	}
	return false
}
