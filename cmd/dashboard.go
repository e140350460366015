package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/aggregator"
	"github.com/pable/go-match-stats/internal/model"
	"github.com/pable/go-match-stats/internal/report"
)

var (
	filterCompetition string
	filterStage       string
	dashboardTop      int
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show KPIs and every derived table for a competition",
	Long: `Filter the match table to one competition (and optionally one stage) and
print the headline KPIs followed by the goal, outcome, team and score-line
tables. Tables whose source column is absent from the data are skipped.

When --competition is omitted the first competition in alphabetical order is used.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	addCriteriaFlags(dashboardCmd)
	dashboardCmd.Flags().IntVar(&dashboardTop, "top", 0, "number of top scoring teams (default from config)")
}

// addCriteriaFlags registers --competition and --stage on c.
func addCriteriaFlags(c *cobra.Command) {
	c.Flags().StringVarP(&filterCompetition, "competition", "c", "", "competition name")
	c.Flags().StringVarP(&filterStage, "stage", "s", model.AllStages, "stage name, or All")
}

// resolveCriteria builds the filter selection, defaulting the competition to
// the first one available in table.
func resolveCriteria(table *model.Table) (model.FilterCriteria, error) {
	criteria := model.FilterCriteria{Competition: filterCompetition, Stage: filterStage}
	if criteria.Competition != "" {
		return criteria, nil
	}
	comps := aggregator.Competitions(table)
	if len(comps) == 0 {
		return criteria, fmt.Errorf("%w: no competitions in data", model.ErrDatasetUnavailable)
	}
	criteria.Competition = comps[0]
	log.WithField("competition", criteria.Competition).Info("no --competition given, using first available")
	return criteria, nil
}

// filtered loads the table and applies the command's criteria.
func filtered() (model.FilterCriteria, []model.MatchRecord, error) {
	table, err := loadTable()
	if err != nil {
		return model.FilterCriteria{}, nil, err
	}
	criteria, err := resolveCriteria(table)
	if err != nil {
		return criteria, nil, err
	}
	rows, err := aggregator.Filter(table, criteria)
	return criteria, rows, err
}

// emptyResult prints the explicit empty-selection message and swallows
// ErrEmptyResult; any other error is returned unchanged.
func emptyResult(cmd *cobra.Command, err error) error {
	if errors.Is(err, model.ErrEmptyResult) {
		fmt.Fprintln(cmd.OutOrStdout(), "No matches for the selected filters.")
		return nil
	}
	return err
}

func dashboardOptions() aggregator.DashboardOptions {
	opts := aggregator.DashboardOptions{
		TopTeams:    cfg.TopTeams,
		TopMatches:  cfg.TopMatches,
		TopReferees: cfg.TopReferees,
	}
	if dashboardTop > 0 {
		opts.TopTeams = dashboardTop
	}
	return opts
}

func runDashboard(cmd *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}
	criteria, err := resolveCriteria(table)
	if err != nil {
		return err
	}

	rep, err := aggregator.Dashboard(table, criteria, dashboardOptions())
	if err != nil {
		return emptyResult(cmd, err)
	}
	report.PrintDashboard(cmd.OutOrStdout(), rep)
	return nil
}
