package streak

import "math"

// Rate is the rounded percentage of completions over a window of windowDays.
// A non-positive window yields 0.
func Rate(completions, windowDays int) int {
	if windowDays <= 0 {
		return 0
	}
	return int(math.Round(float64(completions) / float64(windowDays) * 100))
}

// WindowStart is the first day of a window of windowDays days ending today.
func WindowStart(today Date, windowDays int) Date {
	if windowDays <= 0 {
		return today.AddDays(1)
	}
	return today.AddDays(-(windowDays - 1))
}

// InWindow counts distinct days in [WindowStart(today, windowDays), today].
func InWindow(days []Date, today Date, windowDays int) int {
	start := WindowStart(today, windowDays)
	n := 0
	for _, d := range Normalize(days) {
		if !d.Before(start) && !d.After(today) {
			n++
		}
	}
	return n
}
