package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/aggregator"
	"github.com/pable/go-match-stats/internal/model"
	"github.com/pable/go-match-stats/internal/report"
)

var cumulativeTeams []string

var cumulativeCmd = &cobra.Command{
	Use:   "cumulative",
	Short: "Running goal total per team, match by match",
	Long: `Print each team's cumulative goals scored, home and away, in the order its
matches appear in the data. Repeat --team to restrict the output.`,
	Args: cobra.NoArgs,
	RunE: runCumulative,
}

func init() {
	addCriteriaFlags(cumulativeCmd)
	cumulativeCmd.Flags().StringSliceVarP(&cumulativeTeams, "team", "t", nil, "only show these teams")
}

func runCumulative(cmd *cobra.Command, args []string) error {
	_, rows, err := filtered()
	if err != nil {
		return emptyResult(cmd, err)
	}
	series := aggregator.CumulativeSeries(rows)
	if len(cumulativeTeams) > 0 {
		series = selectSeries(series, cumulativeTeams)
		if len(series) == 0 {
			return fmt.Errorf("no matches for %v in the selected filters", cumulativeTeams)
		}
	}

	out := cmd.OutOrStdout()
	report.Section(out, "Cumulative Goals by Team")
	report.PrintCumulativeTable(out, series)
	return nil
}

func selectSeries(series []model.TeamSeries, teams []string) []model.TeamSeries {
	want := make(map[string]bool, len(teams))
	for _, t := range teams {
		want[t] = true
	}
	var out []model.TeamSeries
	for _, s := range series {
		if want[s.Team] {
			out = append(out, s)
		}
	}
	return out
}
