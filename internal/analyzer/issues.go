package analyzer

import (
	"sort"

	"github.com/naka-gawa/github-year-review/internal/domain"
)

// IssuesByRepository counts issues per repository across all given summaries.
// The result is ordered by issue count descending, then by repository name.
// Nil summaries are skipped.
func IssuesByRepository(summaries ...*domain.IssueSummary) []domain.RepoIssueCount {
	counts := make(map[string]int)
	for _, summary := range summaries {
		if summary == nil {
			continue
		}
		for _, issue := range summary.Issues {
			if name := issue.Repository.NameWithOwner; name != "" {
				counts[name]++
			}
		}
	}

	result := make([]domain.RepoIssueCount, 0, len(counts))
	for name, n := range counts {
		result = append(result, domain.RepoIssueCount{Name: name, Issues: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Issues != result[j].Issues {
			return result[i].Issues > result[j].Issues
		}
		return result[i].Name < result[j].Name
	})
	return result
}
