// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-year-review/internal/analyzer"
	"github.com/naka-gawa/github-year-review/internal/domain"
	"github.com/naka-gawa/github-year-review/internal/gateway"
)

// Reviewer is the use case for building a year-in-review report.
// It orchestrates the fetching of summaries and contributions and derives
// the contribution statistics.
type Reviewer struct {
	summaries     gateway.SummaryFetcher
	contributions gateway.ContributionFetcher
	logger        *zap.Logger
}

// NewReviewer creates a new Reviewer instance.
func NewReviewer(summaries gateway.SummaryFetcher, contributions gateway.ContributionFetcher, logger *zap.Logger) *Reviewer {
	return &Reviewer{
		summaries:     summaries,
		contributions: contributions,
		logger:        logger,
	}
}

// Review fetches everything needed for the given years concurrently and builds the report.
// A failed fetch never fails the review: the affected summary or statistic is
// left nil so the caller can show it as unavailable. Only cancellation of ctx
// is returned as an error.
func (r *Reviewer) Review(ctx context.Context, user string, years []int) (*domain.Review, error) {
	years = normalizeYears(years)
	r.logger.Info("Starting year review", zap.String("user", user), zap.Ints("years", years))

	yearSummaries := make([]domain.YearSummary, len(years))
	var dataset domain.ContributionDataset
	var contributionsOK bool

	eg, egCtx := errgroup.WithContext(ctx)

	for i, year := range years {
		yearSummaries[i].Year = year

		eg.Go(func() error {
			repos, err := r.summaries.FetchReposCreated(egCtx, user, year)
			if err != nil {
				r.logger.Warn("Repository summary unavailable", zap.Int("year", year), zap.Error(err))
				return nil
			}
			yearSummaries[i].Repos = repos
			return nil
		})

		eg.Go(func() error {
			issues, err := r.summaries.FetchIssuesCreated(egCtx, user, year)
			if err != nil {
				r.logger.Warn("Issue summary unavailable", zap.Int("year", year), zap.Error(err))
				return nil
			}
			yearSummaries[i].Issues = issues
			return nil
		})
	}

	eg.Go(func() error {
		data, err := r.contributions.FetchContributions(egCtx, user, years)
		if err != nil {
			r.logger.Warn("Contribution calendar unavailable", zap.Error(err))
			return nil
		}
		if err := analyzer.Validate(data); err != nil {
			r.logger.Warn("Contribution calendar rejected", zap.Error(err))
			return nil
		}
		dataset, contributionsOK = data, true
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.logger.Info("All data fetched", zap.Bool("contributions", contributionsOK))

	review := &domain.Review{
		User:          user,
		Years:         years,
		YearSummaries: yearSummaries,
	}

	issueSummaries := make([]*domain.IssueSummary, 0, len(yearSummaries))
	for _, ys := range yearSummaries {
		issueSummaries = append(issueSummaries, ys.Issues)
	}
	review.IssuesByRepo = analyzer.IssuesByRepository(issueSummaries...)

	if contributionsOK {
		streak := analyzer.LongestStreak(dataset)
		peak := analyzer.MaxContributionsInADay(dataset)
		review.Streak = &streak
		review.PeakDay = &peak
		review.TotalContributions = analyzer.TotalContributions(dataset)
	}

	r.logger.Info("Year review complete")
	return review, nil
}

// normalizeYears returns the distinct years in ascending order.
func normalizeYears(years []int) []int {
	seen := make(map[int]struct{}, len(years))
	result := make([]int, 0, len(years))
	for _, y := range years {
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		result = append(result, y)
	}
	sort.Ints(result)
	return result
}
