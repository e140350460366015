package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored imports",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
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

	imports, err := db.ListImports()
	if err != nil {
		return fmt.Errorf("list imports: %w", err)
	}
	if len(imports) == 0 {
		fmt.Fprintln(out, "No imports stored yet. Run 'matchstats import <file.csv>' to add one.")
		return nil
	}

	fmt.Fprintf(out, "%-14s  %-24s  %-20s  %7s  %s\n",
		"HASH", "SOURCE", "IMPORTED", "MATCHES", "OPTIONAL COLUMNS")
	fmt.Fprintf(out, "%-14s  %-24s  %-20s  %7s  %s\n",
		"──────────────", "────────────────────────", "────────────────────", "───────", "────────────────")
	for _, imp := range imports {
		fmt.Fprintf(out, "%-14s  %-24s  %-20s  %7d  %s\n",
			storage.ShortHash(imp.SourceHash), imp.SourceName, imp.ImportedAt, imp.Matches, columnList(imp.Columns))
	}
	return nil
}
