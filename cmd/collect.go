package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/pr-reactions/internal/config"
	"github.com/naka-gawa/pr-reactions/internal/domain"
	"github.com/naka-gawa/pr-reactions/internal/gateway"
	"github.com/naka-gawa/pr-reactions/internal/report"
	"github.com/naka-gawa/pr-reactions/internal/usecase"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collects pull request reactions and outputs records or a summary",
	Long: `Searches pull requests created within a date range in each repository, fetches
the reactions left on their comments, reviews and review comments, and prints
them as date,repository,user,points records. By default only units written by
the target author are considered; use --all-users to include everyone.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		logger := newLogger(cmd)
		config.LoadEnv()

		repos, _ := cmd.Flags().GetStringSlice("repos")
		startDate, _ := cmd.Flags().GetString("start-date")
		endDate, _ := cmd.Flags().GetString("end-date")
		allUsers, _ := cmd.Flags().GetBool("all-users")
		author, _ := cmd.Flags().GetString("author")
		prNumber, _ := cmd.Flags().GetInt("pr")
		summary, _ := cmd.Flags().GetBool("summary")
		formatStr, _ := cmd.Flags().GetString("format")
		top, _ := cmd.Flags().GetInt("top")
		pointsPath, _ := cmd.Flags().GetString("points")
		pageLimit, _ := cmd.Flags().GetInt("page-limit")
		waitRateLimit, _ := cmd.Flags().GetBool("wait-rate-limit")

		dateRange, err := domain.ParseDateRange(startDate, endDate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid date range. Please use YYYY-MM-DD. Error: %v\n", err)
			os.Exit(1)
		}
		format, err := report.ParseFormat(formatStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		points, err := config.PointTable(pointsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load point table: %v\n", err)
			os.Exit(1)
		}
		token, source, err := config.GitHubToken()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger.Printf("Using GitHub token from %s\n", source)

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(gateway.Options{
			Token:         token,
			PageLimit:     pageLimit,
			WaitRateLimit: waitRateLimit,
		}, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		collector := usecase.NewCollector(githubGateway, logger)

		collection := collector.Collect(ctx, usecase.CollectRequest{
			Repositories: repos,
			DateRange:    dateRange,
			Filter:       domain.Filter{TargetAuthor: author, AllUsers: allUsers},
			Points:       points,
			PullRequest:  prNumber,
		})
		// Nothing is printed for an interrupted run.
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "Interrupted.")
			os.Exit(1)
		}

		if !summary {
			for _, scope := range collection.NoParticipation {
				logger.Printf("No activity by %s in %s\n", author, scope)
			}
			fmt.Println(collection.Records.String())
			return
		}
		printSummary(newSummaryOutput(logger, format, top), collection.Records.String(), collection.NoParticipation)
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().StringSliceP("repos", "r", nil, "Repositories to scan, e.g. owner/repo (required)")
	collectCmd.MarkFlagRequired("repos")
	collectCmd.Flags().String("start-date", "2025-05-01", "First creation date of pull requests (YYYY-MM-DD)")
	collectCmd.Flags().String("end-date", "2025-06-26", "Last creation date of pull requests (YYYY-MM-DD)")
	collectCmd.Flags().BoolP("all-users", "a", false, "Collect reactions on units written by any author")
	collectCmd.Flags().String("author", domain.DefaultTargetAuthor, "Target author whose comments and reviews are scored")
	collectCmd.Flags().Int("pr", 0, "Fetch this pull request number instead of searching")
	collectCmd.Flags().MarkHidden("pr")
	collectCmd.Flags().BoolP("summary", "s", false, "Show a summary instead of records")
	collectCmd.Flags().String("format", string(report.FormatTable), "Summary format: table or json")
	collectCmd.Flags().Int("top", report.DefaultTop, "Number of reactors listed in the summary table (0 for all)")
	collectCmd.Flags().String("points", "", "YAML file mapping reaction kinds to points")
	collectCmd.Flags().Int("page-limit", gateway.DefaultPageLimit, "Items fetched per comment, review and reaction list; larger pull requests undercount")
	collectCmd.Flags().Bool("wait-rate-limit", false, "Sleep through GitHub secondary rate limits instead of failing the request")
}
