package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/naka-gawa/github-year-review/internal/contract"
	"github.com/naka-gawa/github-year-review/internal/domain"
)

// ErrNoData is returned when the dashboard backend answers with a non-success status.
var ErrNoData = errors.New("no data available")

const defaultDashboardTimeout = 10 * time.Second

var _ SummaryFetcher = (*DashboardClient)(nil)

// DashboardClient reads year summaries from a dashboard backend that exposes
// /api/repos and /api/issues. Every response body is checked against its
// contract before it is decoded.
type DashboardClient struct {
	client  *http.Client
	baseURL string
	logger  *zap.Logger
}

// NewDashboardClient creates a client for the dashboard backend at baseURL.
// A nil httpClient gets a client with a default timeout.
func NewDashboardClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *DashboardClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultDashboardTimeout}
	}
	return &DashboardClient{
		client:  httpClient,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// FetchReposCreated calls GET /api/repos?username=&year=.
func (c *DashboardClient) FetchReposCreated(ctx context.Context, user string, year int) (*domain.RepoSummary, error) {
	var summary domain.RepoSummary
	if err := c.get(ctx, "/api/repos", contract.Repos, user, year, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// FetchIssuesCreated calls GET /api/issues?username=&year=.
func (c *DashboardClient) FetchIssuesCreated(ctx context.Context, user string, year int) (*domain.IssueSummary, error) {
	var summary domain.IssueSummary
	if err := c.get(ctx, "/api/issues", contract.Issues, user, year, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *DashboardClient) get(ctx context.Context, path string, schema contract.Schema, user string, year int, out any) error {
	query := url.Values{}
	query.Set("username", user)
	query.Set("year", strconv.Itoa(year))
	endpoint := c.baseURL + path + "?" + query.Encode()

	c.logger.Debug("Fetching dashboard summary", zap.String("endpoint", endpoint))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d from %s", ErrNoData, resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := contract.Validate(schema, body); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
