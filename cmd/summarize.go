package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/pr-reactions/internal/domain"
	"github.com/naka-gawa/pr-reactions/internal/report"
	"github.com/naka-gawa/pr-reactions/internal/usecase"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarizes an existing record file",
	Long:  `Reads a date,repository,user,points record file produced by "collect" and prints daily, weekly, per-emoji and per-user summaries without calling GitHub.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)
		path, _ := cmd.Flags().GetString("file")
		formatStr, _ := cmd.Flags().GetString("format")
		top, _ := cmd.Flags().GetInt("top")

		format, err := report.ParseFormat(formatStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		records, err := usecase.ReadRecordFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", path)
			} else {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			os.Exit(1)
		}
		printSummary(newSummaryOutput(logger, format, top), records, nil)
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().StringP("file", "f", "", "Record file written by collect (required)")
	summarizeCmd.MarkFlagRequired("file")
	summarizeCmd.Flags().String("format", string(report.FormatTable), "Summary format: table or json")
	summarizeCmd.Flags().Int("top", report.DefaultTop, "Number of reactors listed in the summary table (0 for all)")
}

type summaryOutput struct {
	aggregator *usecase.Aggregator
	format     report.Format
	top        int
}

func newSummaryOutput(logger *log.Logger, format report.Format, top int) summaryOutput {
	return summaryOutput{
		aggregator: usecase.NewAggregator(logger),
		format:     format,
		top:        top,
	}
}

// printSummary aggregates records and writes the summary to standard output.
// An empty record set is reported and is not an error.
func printSummary(out summaryOutput, records string, noParticipation []domain.PullRequestScope) {
	summary, err := out.aggregator.Summarize(records, noParticipation)
	if errors.Is(err, usecase.ErrNoData) {
		fmt.Println("No data to summarize.")
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to summarize records: %v\n", err)
		os.Exit(1)
	}
	if err := report.Write(os.Stdout, summary, out.format, out.top); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write summary: %v\n", err)
		os.Exit(1)
	}
}
