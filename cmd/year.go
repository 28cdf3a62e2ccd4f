package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/naka-gawa/github-year-review/internal/config"
	"github.com/naka-gawa/github-year-review/internal/gateway"
	"github.com/naka-gawa/github-year-review/internal/render"
	"github.com/naka-gawa/github-year-review/internal/usecase"
)

// firstGitHubYear is the year GitHub launched; there is no activity before it.
const firstGitHubYear = 2008

var yearCmd = &cobra.Command{
	Use:   "year",
	Short: "Shows a year-in-review for a GitHub user",
	Long: `Shows the longest contribution streak, the maximum contributions in a day,
and the number of repositories created and issues opened for each requested year.
Sources that cannot be loaded are shown as n/a.`,
	Example: `  github-year-review year --user octocat
  github-year-review year -u octocat -y 2023 -y 2024 --format json`,
	RunE: runYear,
}

func init() {
	rootCmd.AddCommand(yearCmd)
	yearCmd.Flags().StringP("user", "u", "", "Target GitHub user name (required)")
	yearCmd.MarkFlagRequired("user")
	yearCmd.Flags().IntSliceP("year", "y", nil, "Year to review, repeatable (default is the current year)")
	yearCmd.Flags().StringP("format", "f", "", "Output format: table or json (overrides config)")
	yearCmd.Flags().String("dashboard-url", "", "Read repo and issue summaries from this dashboard backend (overrides config)")
}

func runYear(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.InheritedFlags().GetBool("verbose")
	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	configPath, _ := cmd.InheritedFlags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		cfg.Format = format
	}
	if dashboardURL, _ := cmd.Flags().GetString("dashboard-url"); dashboardURL != "" {
		cfg.Dashboard.BaseURL = dashboardURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	user, _ := cmd.Flags().GetString("user")
	years, _ := cmd.Flags().GetIntSlice("year")
	years, err = resolveYears(years, time.Now())
	if err != nil {
		return err
	}

	// Inject dependencies and run the main business logic.
	githubGateway, err := gateway.NewGitHubGateway(cfg.Token, cfg.GitHub.EnterpriseURL, logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	var summaries gateway.SummaryFetcher = githubGateway
	if cfg.Dashboard.BaseURL != "" {
		logger.Debug("Using dashboard backend for summaries", zap.String("base_url", cfg.Dashboard.BaseURL))
		summaries = gateway.NewDashboardClient(cfg.Dashboard.BaseURL, nil, logger)
	}
	reviewer := usecase.NewReviewer(summaries, githubGateway, logger)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	review, err := reviewer.Review(ctx, user, years)
	if err != nil {
		return fmt.Errorf("failed to build year review: %w", err)
	}

	if cfg.Format == config.FormatJSON {
		return render.JSON(os.Stdout, review)
	}
	return render.Table(os.Stdout, review)
}

// resolveYears defaults to the current year and rejects years GitHub has no data for.
func resolveYears(years []int, now time.Time) ([]int, error) {
	if len(years) == 0 {
		return []int{now.Year()}, nil
	}
	for _, y := range years {
		if y < firstGitHubYear || y > now.Year() {
			return nil, fmt.Errorf("invalid --year %d: must be between %d and %d", y, firstGitHubYear, now.Year())
		}
	}
	return years, nil
}
