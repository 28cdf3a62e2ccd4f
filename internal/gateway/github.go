// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/github-year-review/internal/domain"
)

// SummaryFetcher fetches the per-year repository and issue summaries.
type SummaryFetcher interface {
	FetchReposCreated(ctx context.Context, user string, year int) (*domain.RepoSummary, error)
	FetchIssuesCreated(ctx context.Context, user string, year int) (*domain.IssueSummary, error)
}

// ContributionFetcher fetches the daily contribution calendar for one or more years.
type ContributionFetcher interface {
	FetchContributions(ctx context.Context, user string, years []int) (domain.ContributionDataset, error)
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	SummaryFetcher
	ContributionFetcher
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *zap.Logger
}

// searchIssuesQuery lists issues authored by a user, one page at a time.
type searchIssuesQuery struct {
	Search struct {
		IssueCount int
		PageInfo   struct {
			HasNextPage bool
			EndCursor   githubv4.String
		}
		Edges []struct {
			Node struct {
				Typename string `graphql:"__typename"`
				Issue    struct {
					Title      string
					CreatedAt  githubv4.DateTime
					Repository struct {
						NameWithOwner string
					}
				} `graphql:"... on Issue"`
			}
		}
	} `graphql:"search(query: $query, type: ISSUE, first: 100, after: $cursor)"`
}

// contributionCalendarQuery reads the contribution calendar for a single year.
// GitHub rejects ranges longer than one year, so callers issue one query per year.
type contributionCalendarQuery struct {
	User struct {
		ContributionsCollection struct {
			ContributionCalendar struct {
				Weeks []struct {
					ContributionDays []struct {
						Date              string
						ContributionCount int
					}
				}
			}
		} `graphql:"contributionsCollection(from: $from, to: $to)"`
	} `graphql:"user(login: $login)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// When enterpriseURL is non-empty the clients target that GitHub Enterprise host.
func NewGitHubGateway(token, enterpriseURL string, logger *zap.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	graphqlClient := githubv4.NewClient(httpClient)
	if enterpriseURL != "" {
		base := strings.TrimSuffix(enterpriseURL, "/")
		restClient, err = restClient.WithEnterpriseURLs(base+"/api/v3/", base+"/api/uploads/")
		if err != nil {
			return nil, fmt.Errorf("failed to configure enterprise URL: %w", err)
		}
		graphqlClient = githubv4.NewEnterpriseClient(base+"/api/graphql", httpClient)
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
	}, nil
}

// yearRange renders the search qualifier value covering a whole calendar year.
func yearRange(year int) string {
	return fmt.Sprintf("%04d-01-01..%04d-12-31", year, year)
}

// FetchReposCreated lists the repositories owned by user that were created in year.
func (g *GitHubGateway) FetchReposCreated(ctx context.Context, user string, year int) (*domain.RepoSummary, error) {
	g.logger.Debug("Fetching created repositories using REST API", zap.String("user", user), zap.Int("year", year))
	query := fmt.Sprintf("user:%s created:%s", user, yearRange(year))
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 100}}
	summary := &domain.RepoSummary{Repos: []domain.CreatedRepo{}}
	for {
		result, resp, err := g.restClient.Search.Repositories(ctx, query, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to search repositories with REST API: %w", err)
		}
		summary.Count = result.GetTotal()
		for _, repo := range result.Repositories {
			summary.Repos = append(summary.Repos, domain.CreatedRepo{
				Name:      repo.GetName(),
				CreatedAt: domain.ISOTime{Time: repo.GetCreatedAt().Time},
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debug("Fetching next page of repositories", zap.Int("page", resp.NextPage))
	}
	g.logger.Debug("Completed fetching created repositories", zap.Int("count", summary.Count))
	return summary, nil
}

// FetchIssuesCreated lists the issues user opened in year.
func (g *GitHubGateway) FetchIssuesCreated(ctx context.Context, user string, year int) (*domain.IssueSummary, error) {
	g.logger.Debug("Fetching created issues using GraphQL API", zap.String("user", user), zap.Int("year", year))
	query := fmt.Sprintf("author:%s is:issue created:%s", user, yearRange(year))
	variables := map[string]interface{}{"query": githubv4.String(query), "cursor": (*githubv4.String)(nil)}
	summary := &domain.IssueSummary{Issues: []domain.CreatedIssue{}}
	for {
		var q searchIssuesQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("failed to execute GraphQL query for issues: %w", err)
		}
		summary.Count = q.Search.IssueCount
		for _, edge := range q.Search.Edges {
			if edge.Node.Typename != "Issue" {
				continue
			}
			issue := edge.Node.Issue
			summary.Issues = append(summary.Issues, domain.CreatedIssue{
				Title:      issue.Title,
				CreatedAt:  domain.ISOTime{Time: issue.CreatedAt.Time},
				Repository: domain.IssueRepository{NameWithOwner: issue.Repository.NameWithOwner},
			})
		}
		if !q.Search.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Search.PageInfo.EndCursor)
		g.logger.Debug("Fetching next page of issues")
	}
	g.logger.Debug("Completed fetching created issues", zap.Int("count", summary.Count))
	return summary, nil
}

// FetchContributions reads the contribution calendar for every requested year
// and merges the days into a single dataset.
func (g *GitHubGateway) FetchContributions(ctx context.Context, user string, years []int) (domain.ContributionDataset, error) {
	var dataset domain.ContributionDataset
	for _, year := range years {
		g.logger.Debug("Fetching contribution calendar", zap.String("user", user), zap.Int("year", year))
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
		variables := map[string]interface{}{
			"login": githubv4.String(user),
			"from":  githubv4.DateTime{Time: from},
			"to":    githubv4.DateTime{Time: to},
		}

		var q contributionCalendarQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("failed to execute GraphQL query for contributions in %d: %w", year, err)
		}
		for _, week := range q.User.ContributionsCollection.ContributionCalendar.Weeks {
			for _, d := range week.ContributionDays {
				date, err := domain.ParseDate(d.Date)
				if err != nil {
					return nil, fmt.Errorf("failed to parse contribution day: %w", err)
				}
				dataset = append(dataset, domain.ContributionDay{Date: date, Count: d.ContributionCount})
			}
		}
	}
	g.logger.Debug("Completed fetching contribution calendar", zap.Int("days", len(dataset)))
	return dataset, nil
}
