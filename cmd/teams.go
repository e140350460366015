package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/aggregator"
	"github.com/pable/go-match-stats/internal/report"
)

var teamsTop int

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Goal tally per team for a competition",
	Long: `Sum the goals each team scored, home and away, across the selected matches.
Teams are ranked by goals, ties broken by team name.`,
	Args: cobra.NoArgs,
	RunE: runTeams,
}

func init() {
	addCriteriaFlags(teamsCmd)
	teamsCmd.Flags().IntVarP(&teamsTop, "top", "n", 0, "show only the top N teams (0 = all)")
}

func runTeams(cmd *cobra.Command, args []string) error {
	criteria, rows, err := filtered()
	if err != nil {
		return emptyResult(cmd, err)
	}
	teams := aggregator.TeamGoalTally(rows)
	if teamsTop > 0 {
		teams = aggregator.TopScoringTeams(rows, teamsTop)
	}

	out := cmd.OutOrStdout()
	report.Section(out, fmt.Sprintf("Team Goals: %s / %s", criteria.Competition, criteria.Stage))
	report.PrintTeamGoalsTable(out, teams)
	return nil
}
