package analyzer

import (
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-year-review/internal/domain"
)

// MaxContributionsInADay returns the highest single-day contribution count
// and the earliest day it occurred on. An empty or all-zero dataset yields 0
// with a zero date.
func MaxContributionsInADay(dataset domain.ContributionDataset) domain.PeakDayResult {
	maxCount, err := stats.Max(stats.LoadRawData(dataset.Counts()))
	if err != nil || maxCount <= 0 {
		// stats.Max only fails on empty input.
		return domain.PeakDayResult{}
	}

	peak := domain.PeakDayResult{MaxContributions: int(maxCount)}
	var peakDate time.Time
	for _, day := range dataset {
		if day.Count != peak.MaxContributions {
			continue
		}
		date := domain.CalendarDate(day.Date)
		if peakDate.IsZero() || date.Before(peakDate) {
			peakDate = date
		}
	}
	peak.Date = peakDate
	return peak
}

// TotalContributions returns the sum of all daily counts.
func TotalContributions(dataset domain.ContributionDataset) int {
	total, err := stats.Sum(stats.LoadRawData(dataset.Counts()))
	if err != nil {
		return 0
	}
	return int(total)
}
