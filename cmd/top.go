package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/aggregator"
	"github.com/pable/go-match-stats/internal/report"
)

var topN int

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Highest-scoring matches for a competition",
	Long: `List the N matches with the most total goals. Matches with equal totals keep
their input order.`,
	Args: cobra.NoArgs,
	RunE: runTop,
}

func init() {
	addCriteriaFlags(topCmd)
	topCmd.Flags().IntVarP(&topN, "n", "n", 0, "number of matches (default top_matches from config)")
}

func runTop(cmd *cobra.Command, args []string) error {
	_, rows, err := filtered()
	if err != nil {
		return emptyResult(cmd, err)
	}
	n := topN
	if n <= 0 {
		n = cfg.TopMatches
	}
	matches := aggregator.TopNByGoals(rows, n)

	out := cmd.OutOrStdout()
	report.Section(out, fmt.Sprintf("Top %d Highest Scoring Matches", len(matches)))
	report.PrintTopMatchesTable(out, matches)
	return nil
}
