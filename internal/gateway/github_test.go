package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/naka-gawa/github-year-review/internal/domain"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler) (*GitHubGateway, *httptest.Server) {
	server := httptest.NewServer(handler)

	// Setup REST client to point to the mock server.
	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	// Use NewEnterpriseClient to point the GraphQL client to our mock server's URL.
	graphqlClient := githubv4.NewEnterpriseClient(server.URL, server.Client())

	gateway := &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        zap.NewNop(),
	}

	return gateway, server
}

func mustTime(t *testing.T, s string) domain.ISOTime {
	t.Helper()
	ts, err := domain.ParseISOTime(s)
	require.NoError(t, err)
	return ts
}

func TestGitHubGateway_FetchReposCreated(t *testing.T) {
	testCases := []struct {
		name           string
		handlerFunc    func(w http.ResponseWriter, r *http.Request)
		expected       *domain.RepoSummary
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "happy path - lists repositories created in the year",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/search/repositories", r.URL.Path)
				assert.Equal(t, "user:octocat created:2024-01-01..2024-12-31", r.URL.Query().Get("q"))
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, `{"total_count": 2, "items": [
					{"name": "dotfiles", "created_at": "2024-02-01T09:00:00Z"},
					{"name": "blog", "created_at": "2024-11-20T18:30:00Z"}]}`)
			},
			expected: &domain.RepoSummary{
				Count: 2,
				Repos: []domain.CreatedRepo{
					{Name: "dotfiles", CreatedAt: mustTime(t, "2024-02-01T09:00:00Z")},
					{Name: "blog", CreatedAt: mustTime(t, "2024-11-20T18:30:00Z")},
				},
			},
		},
		{
			name: "no repositories - empty list rather than nil",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, `{"total_count": 0, "items": []}`)
			},
			expected: &domain.RepoSummary{Count: 0, Repos: []domain.CreatedRepo{}},
		},
		{
			name: "error case - GitHub API returns an error",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"message": "Internal Server Error"}`)
			},
			expectError:    true,
			expectedErrMsg: "failed to search repositories with REST API",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gateway, server := setupTestGateway(t, http.HandlerFunc(tc.handlerFunc))
			defer server.Close()
			summary, err := gateway.FetchReposCreated(context.Background(), "octocat", 2024)
			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, summary)
			}
		})
	}
}

func TestGitHubGateway_FetchIssuesCreated(t *testing.T) {
	testCases := []struct {
		name           string
		responseBody   string
		expected       *domain.IssueSummary
		expectError    bool
		expectedErrMsg string
	}{
		{
			name: "happy path",
			// Inline fragment fields are flattened into the node, as GitHub returns them.
			responseBody: `{"data":{"search":{"issueCount":2,"pageInfo":{"hasNextPage":false,"endCursor":"Y3Vyc29yOjI="},"edges":[
				{"node":{"__typename":"Issue","title":"Crash on start","createdAt":"2024-03-01T10:00:00Z","repository":{"nameWithOwner":"org/app"}}},
				{"node":{"__typename":"PullRequest"}}]}}}`,
			expected: &domain.IssueSummary{
				Count: 2,
				Issues: []domain.CreatedIssue{
					{
						Title:      "Crash on start",
						CreatedAt:  mustTime(t, "2024-03-01T10:00:00Z"),
						Repository: domain.IssueRepository{NameWithOwner: "org/app"},
					},
				},
			},
		},
		{
			name:           "error case",
			responseBody:   `{"errors":[{"message":"Something went wrong"}]}`,
			expectError:    true,
			expectedErrMsg: "failed to execute GraphQL query for issues",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), "author:octocat is:issue created:2024-01-01..2024-12-31")

				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, tc.responseBody)
			}
			gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
			defer server.Close()

			summary, err := gateway.FetchIssuesCreated(context.Background(), "octocat", 2024)

			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, summary)
			}
		})
	}
}

func TestGitHubGateway_FetchIssuesCreated_Paginates(t *testing.T) {
	pages := []string{
		`{"data":{"search":{"issueCount":2,"pageInfo":{"hasNextPage":true,"endCursor":"page-2"},"edges":[
			{"node":{"__typename":"Issue","title":"first","createdAt":"2024-01-05T00:00:00Z","repository":{"nameWithOwner":"org/a"}}}]}}}`,
		`{"data":{"search":{"issueCount":2,"pageInfo":{"hasNextPage":false,"endCursor":"page-3"},"edges":[
			{"node":{"__typename":"Issue","title":"second","createdAt":"2024-01-06T00:00:00Z","repository":{"nameWithOwner":"org/b"}}}]}}}`,
	}
	calls := 0
	handler := func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if calls == 0 {
			assert.Nil(t, req.Variables["cursor"])
		} else {
			assert.Equal(t, "page-2", req.Variables["cursor"])
		}
		fmt.Fprint(w, pages[calls])
		calls++
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	summary, err := gateway.FetchIssuesCreated(context.Background(), "octocat", 2024)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, summary.Count)
	require.Len(t, summary.Issues, 2)
	assert.Equal(t, "org/b", summary.Issues[1].Repository.NameWithOwner)
}

func TestGitHubGateway_FetchContributions(t *testing.T) {
	calendars := map[string]string{
		"2023": `{"data":{"user":{"contributionsCollection":{"contributionCalendar":{"weeks":[
			{"contributionDays":[{"date":"2023-12-30","contributionCount":0},{"date":"2023-12-31","contributionCount":4}]}]}}}}}`,
		"2024": `{"data":{"user":{"contributionsCollection":{"contributionCalendar":{"weeks":[
			{"contributionDays":[{"date":"2024-01-01","contributionCount":2}]},
			{"contributionDays":[{"date":"2024-01-07","contributionCount":1}]}]}}}}}`,
	}
	handler := func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "contributionsCollection(from: $from, to: $to)")
		assert.Equal(t, "octocat", req.Variables["login"])
		from, _ := req.Variables["from"].(string)
		require.GreaterOrEqual(t, len(from), 4)
		fmt.Fprint(w, calendars[from[:4]])
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	dataset, err := gateway.FetchContributions(context.Background(), "octocat", []int{2023, 2024})
	require.NoError(t, err)

	day := func(s string, n int) domain.ContributionDay {
		d, err := domain.ParseDate(s)
		require.NoError(t, err)
		return domain.ContributionDay{Date: d, Count: n}
	}
	assert.Equal(t, domain.ContributionDataset{
		day("2023-12-30", 0),
		day("2023-12-31", 4),
		day("2024-01-01", 2),
		day("2024-01-07", 1),
	}, dataset)
}

func TestGitHubGateway_FetchContributions_Errors(t *testing.T) {
	testCases := []struct {
		name           string
		responseBody   string
		expectedErrMsg string
	}{
		{
			name:           "GraphQL error",
			responseBody:   `{"errors":[{"message":"Could not resolve to a User with the login of 'ghost'."}]}`,
			expectedErrMsg: "failed to execute GraphQL query for contributions in 2024",
		},
		{
			name: "malformed date",
			responseBody: `{"data":{"user":{"contributionsCollection":{"contributionCalendar":{"weeks":[
				{"contributionDays":[{"date":"01/01/2024","contributionCount":1}]}]}}}}}`,
			expectedErrMsg: "failed to parse contribution day",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tc.responseBody)
			}
			gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
			defer server.Close()

			dataset, err := gateway.FetchContributions(context.Background(), "ghost", []int{2024})
			assert.Nil(t, dataset)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedErrMsg)
		})
	}
}

func TestNewGitHubGateway(t *testing.T) {
	testCases := []struct {
		name            string
		enterpriseURL   string
		expectedBaseURL string
	}{
		{name: "github.com", expectedBaseURL: "https://api.github.com/"},
		{name: "enterprise host", enterpriseURL: "https://ghe.example.com/", expectedBaseURL: "https://ghe.example.com/api/v3/"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher, err := NewGitHubGateway("token", tc.enterpriseURL, zap.NewNop())
			require.NoError(t, err)

			// The same value serves both the summary and contribution sides of the review.
			var summaries SummaryFetcher = fetcher
			var contributions ContributionFetcher = fetcher
			assert.Same(t, summaries, contributions)

			gateway, ok := fetcher.(*GitHubGateway)
			require.True(t, ok)
			assert.Equal(t, tc.expectedBaseURL, gateway.restClient.BaseURL.String())
		})
	}
}
