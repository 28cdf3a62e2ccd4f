// Package render writes a year-in-review report as a card table or as JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/naka-gawa/github-year-review/internal/domain"
)

// unavailable is shown in place of a value whose source could not be loaded.
const unavailable = "n/a"

// maxIssueRepos limits the per-repository issue breakdown.
const maxIssueRepos = 5

// JSON writes the review as indented JSON.
func JSON(w io.Writer, review *domain.Review) error {
	data, err := json.MarshalIndent(review, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal review to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// Table writes the review as a set of cards followed by the issue breakdown.
func Table(w io.Writer, review *domain.Review) error {
	title := color.New(color.Bold).Sprintf("Year in review: %s (%s)", review.User, joinYears(review.Years))
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}

	cards := table.NewWriter()
	cards.SetOutputMirror(w)
	cards.SetStyle(table.StyleRounded)
	cards.AppendHeader(table.Row{"Card", "Value"})
	cards.AppendRow(table.Row{"Longest Streak", streakValue(review.Streak)})
	cards.AppendRow(table.Row{"Max Contributions in a Day", peakValue(review.PeakDay)})
	if review.Streak != nil {
		cards.AppendRow(table.Row{"Total Contributions", humanize.Comma(int64(review.TotalContributions))})
	}
	for _, ys := range review.YearSummaries {
		cards.AppendRow(table.Row{fmt.Sprintf("Repos Created in %d", ys.Year), repoValue(ys.Repos)})
		cards.AppendRow(table.Row{fmt.Sprintf("Issues in %d", ys.Year), issueValue(ys.Issues)})
	}
	cards.Render()

	if len(review.IssuesByRepo) == 0 {
		return nil
	}
	repos := table.NewWriter()
	repos.SetOutputMirror(w)
	repos.SetStyle(table.StyleLight)
	repos.AppendHeader(table.Row{"Repository", "Issues"})
	shown := review.IssuesByRepo
	if len(shown) > maxIssueRepos {
		shown = shown[:maxIssueRepos]
	}
	for _, r := range shown {
		repos.AppendRow(table.Row{r.Name, humanize.Comma(int64(r.Issues))})
	}
	if hidden := len(review.IssuesByRepo) - len(shown); hidden > 0 {
		repos.AppendFooter(table.Row{fmt.Sprintf("+%d more", hidden), ""})
	}
	repos.Render()
	return nil
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ", ")
}

func unavailableValue() string {
	return color.YellowString(unavailable)
}

func streakValue(s *domain.StreakResult) string {
	if s == nil {
		return unavailableValue()
	}
	if s.MaxStreak == 0 {
		return "0 days"
	}
	unit := "days"
	if s.MaxStreak == 1 {
		unit = "day"
	}
	return fmt.Sprintf("%s %s (%s → %s)", humanize.Comma(int64(s.MaxStreak)), unit,
		s.Start.Format(domain.DateLayout), s.End.Format(domain.DateLayout))
}

func peakValue(p *domain.PeakDayResult) string {
	if p == nil {
		return unavailableValue()
	}
	if p.MaxContributions == 0 {
		return "0"
	}
	return fmt.Sprintf("%s (%s)", humanize.Comma(int64(p.MaxContributions)), p.Date.Format(domain.DateLayout))
}

func repoValue(r *domain.RepoSummary) string {
	if r == nil {
		return unavailableValue()
	}
	return humanize.Comma(int64(r.Count))
}

func issueValue(i *domain.IssueSummary) string {
	if i == nil {
		return unavailableValue()
	}
	return humanize.Comma(int64(i.Count))
}
