package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/aggregator"
	"github.com/pable/go-match-stats/internal/report"
)

var averagesBy string

var groupKeys = map[string]aggregator.GroupKey{
	"stage":   aggregator.ByStage,
	"status":  aggregator.ByStatus,
	"referee": aggregator.ByReferee,
}

var averagesCmd = &cobra.Command{
	Use:   "averages",
	Short: "Average goals per match grouped by stage, status or referee",
	Long: `Group the selected matches by a categorical column and print the mean total
goals of each group. Matches with no value for the column are left out.`,
	Args: cobra.NoArgs,
	RunE: runAverages,
}

func init() {
	addCriteriaFlags(averagesCmd)
	averagesCmd.Flags().StringVar(&averagesBy, "by", "stage", "group column: stage, status or referee")
}

func runAverages(cmd *cobra.Command, args []string) error {
	key, ok := groupKeys[averagesBy]
	if !ok {
		return fmt.Errorf("unknown group column %q (use stage, status or referee)", averagesBy)
	}
	_, rows, err := filtered()
	if err != nil {
		return emptyResult(cmd, err)
	}

	groups := aggregator.AverageGoalsByGroup(rows, key)
	out := cmd.OutOrStdout()
	if len(groups) == 0 {
		fmt.Fprintf(out, "No %s values in the selected matches.\n", averagesBy)
		return nil
	}
	report.Section(out, "Average Goals by "+averagesBy)
	report.PrintGroupAverageTable(out, averagesBy, groups)
	return nil
}
