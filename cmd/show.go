package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/aggregator"
	"github.com/pable/go-match-stats/internal/report"
	"github.com/pable/go-match-stats/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show [hash-prefix]",
	Short: "Show a stored import and check its derived columns",
	Long: `Show the metadata of a stored import (the latest one when no prefix is given),
the competitions it covers and any rows whose total_goals, goal_difference or
match_outcome disagree with the full-time score.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}
	out := cmd.OutOrStdout()
	if !dbExists() {
		fmt.Fprintln(out, "No imports stored yet. Run 'matchstats import <file.csv>' to add one.")
		return nil
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	table, imp, err := db.LoadTable(prefix)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nImport   : %s\n", imp.SourceHash)
	fmt.Fprintf(out, "Source   : %s\n", imp.SourceName)
	fmt.Fprintf(out, "Imported : %s\n", imp.ImportedAt)
	fmt.Fprintf(out, "Matches  : %d\n", table.Len())
	fmt.Fprintf(out, "Optional : %s\n", columnList(imp.Columns))

	report.Section(out, "Competitions")
	report.PrintFilterOptions(out, table)

	issues := aggregator.Validate(table)
	if len(issues) == 0 {
		fmt.Fprintln(out, "\nAll derived columns agree with the full-time scores.")
		return nil
	}
	report.Section(out, fmt.Sprintf("Derived Column Mismatches (%d)", len(issues)))
	report.PrintIssuesTable(out, issues)
	return nil
}
