// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar date format used by GitHub's contribution calendar.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a calendar date string cannot be parsed.
var ErrInvalidDate = errors.New("invalid calendar date")

// ContributionDay is the number of contributions a user made on one calendar day.
// Date is always midnight UTC.
type ContributionDay struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// ContributionDataset is a collection of daily contribution counts covering
// one or more years. Entries have unique dates but are not required to be sorted.
type ContributionDataset []ContributionDay

// Counts returns the contribution counts in dataset order.
func (d ContributionDataset) Counts() []int {
	counts := make([]int, len(d))
	for i, day := range d {
		counts[i] = day.Count
	}
	return counts
}

// ParseDate parses a YYYY-MM-DD string into a calendar date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, s, err)
	}
	return t, nil
}

// CalendarDate truncates t to midnight UTC of its own calendar day.
func CalendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StreakResult is the longest run of consecutive calendar days with at least one contribution.
type StreakResult struct {
	MaxStreak int       `json:"max_streak"`
	Start     time.Time `json:"start,omitzero"`
	End       time.Time `json:"end,omitzero"`
}

// PeakDayResult is the highest contribution count observed on a single day.
type PeakDayResult struct {
	MaxContributions int       `json:"max_contributions"`
	Date             time.Time `json:"date,omitzero"`
}
