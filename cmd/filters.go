package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/report"
)

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "List competitions and their selectable stages",
	Args:  cobra.NoArgs,
	RunE:  runFilters,
}

func runFilters(cmd *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}
	report.PrintFilterOptions(cmd.OutOrStdout(), table)
	return nil
}
