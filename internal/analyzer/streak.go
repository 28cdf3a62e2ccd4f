// Package analyzer derives statistics from a user's contribution calendar.
// Every function here is pure: inputs are never mutated and no errors are
// returned for well-formed datasets, including empty ones.
package analyzer

import (
	"sort"
	"time"

	"github.com/naka-gawa/github-year-review/internal/domain"
)

// LongestStreak returns the longest run of calendar-adjacent days that each
// have at least one contribution. The dataset may be in any order.
// A missing date breaks a run just like a zero-count day does.
// When two runs have the same length the earlier one is reported.
func LongestStreak(dataset domain.ContributionDataset) domain.StreakResult {
	var best domain.StreakResult
	var runStart, prev time.Time
	current := 0

	for _, day := range sortedByDate(dataset) {
		if day.Count <= 0 {
			current = 0
			continue
		}
		date := domain.CalendarDate(day.Date)
		if current > 0 && prev.AddDate(0, 0, 1).Equal(date) {
			current++
		} else {
			current = 1
			runStart = date
		}
		prev = date

		if current > best.MaxStreak {
			best = domain.StreakResult{MaxStreak: current, Start: runStart, End: date}
		}
	}
	return best
}

// sortedByDate returns a chronologically sorted copy of the dataset.
func sortedByDate(dataset domain.ContributionDataset) domain.ContributionDataset {
	days := make(domain.ContributionDataset, len(dataset))
	copy(days, dataset)
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}
