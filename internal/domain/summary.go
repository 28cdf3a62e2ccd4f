package domain

// CreatedRepo is a repository the user created within the requested year.
type CreatedRepo struct {
	Name      string  `json:"name"`
	CreatedAt ISOTime `json:"createdAt"`
}

// RepoSummary counts the repositories a user created in one year.
type RepoSummary struct {
	Count int           `json:"count"`
	Repos []CreatedRepo `json:"repos"`
}

// IssueRepository identifies the repository an issue was opened in.
type IssueRepository struct {
	NameWithOwner string `json:"nameWithOwner"`
}

// CreatedIssue is an issue the user opened within the requested year.
type CreatedIssue struct {
	Title      string          `json:"title"`
	CreatedAt  ISOTime         `json:"createdAt"`
	Repository IssueRepository `json:"repository"`
}

// IssueSummary counts the issues a user opened in one year.
type IssueSummary struct {
	Count  int            `json:"count"`
	Issues []CreatedIssue `json:"issues"`
}

// RepoIssueCount is the number of issues opened in a single repository.
type RepoIssueCount struct {
	Name   string `json:"name"`
	Issues int    `json:"issues"`
}
