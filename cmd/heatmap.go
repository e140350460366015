package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/aggregator"
	"github.com/pable/go-match-stats/internal/report"
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Home vs away score-line frequency grid",
	Args:  cobra.NoArgs,
	RunE:  runHeatmap,
}

func init() {
	addCriteriaFlags(heatmapCmd)
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	_, rows, err := filtered()
	if err != nil {
		return emptyResult(cmd, err)
	}
	out := cmd.OutOrStdout()
	report.Section(out, "Home vs Away Goals Heatmap")
	report.PrintHeatmap(out, aggregator.HeatmapCells(rows))
	return nil
}
