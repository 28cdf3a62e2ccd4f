package domain

// YearSummary groups the per-year summaries. A nil summary means the data
// was not available, which is distinct from a zero count.
type YearSummary struct {
	Year   int           `json:"year"`
	Repos  *RepoSummary  `json:"repos"`
	Issues *IssueSummary `json:"issues"`
}

// Review is the year-in-review report for a single user.
// It is the core domain entity of this application.
// Streak and PeakDay are nil when the contribution calendar could not be loaded.
type Review struct {
	User               string           `json:"user"`
	Years              []int            `json:"years"`
	YearSummaries      []YearSummary    `json:"year_summaries"`
	Streak             *StreakResult    `json:"streak"`
	PeakDay            *PeakDayResult   `json:"peak_day"`
	TotalContributions int              `json:"total_contributions"`
	IssuesByRepo       []RepoIssueCount `json:"issues_by_repo"`
}
