package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/aggregator"
	"github.com/pable/go-match-stats/internal/model"
	"github.com/pable/go-match-stats/internal/parser"
	"github.com/pable/go-match-stats/internal/report"
	"github.com/pable/go-match-stats/internal/storage"
)

var importForce bool

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Parse a match CSV and store it",
	Long: `Parse a match results CSV, check its derived columns against the full-time
scores and store it in the database keyed by the file's SHA-256.

Importing the same file twice is a no-op unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&importForce, "force", "f", false, "replace an import with the same hash")
}

func runImport(cmd *cobra.Command, args []string) error {
	csvFile := args[0]
	out := cmd.OutOrStdout()

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	log.WithField("file", csvFile).Info("parsing")
	res, err := parser.ParseFile(csvFile)
	if err != nil {
		return err
	}
	short := storage.ShortHash(res.SourceHash)

	exists, err := db.ImportExists(res.SourceHash)
	if err != nil {
		return fmt.Errorf("check import: %w", err)
	}
	if exists && !importForce {
		fmt.Fprintf(out, "Import %s already stored. Use --force to replace it.\n", short)
		return nil
	}

	if issues := aggregator.Validate(res.Table); len(issues) > 0 {
		log.WithField("rows", len(issues)).Warn("derived columns disagree with full-time score")
		report.Section(out, "Derived Column Mismatches")
		report.PrintIssuesTable(out, issues)
	}

	summary := model.ImportSummary{
		SourceHash: res.SourceHash,
		SourceName: filepath.Base(csvFile),
		ImportedAt: time.Now().UTC().Format(time.RFC3339),
		Matches:    res.Table.Len(),
		Columns:    res.Table.Columns,
	}
	if err := db.InsertImport(summary, res.Table); err != nil {
		return fmt.Errorf("insert import: %w", err)
	}
	log.WithFields(logrus.Fields{
		"import":  short,
		"matches": summary.Matches,
		"skipped": len(res.Skipped),
	}).Info("stored")

	if len(res.Skipped) > 0 {
		report.Section(out, fmt.Sprintf("Skipped %d Rows", len(res.Skipped)))
		report.PrintSkippedTable(out, res.Skipped)
	}
	fmt.Fprintf(out, "\nImported %d matches from %s as %s\n", summary.Matches, summary.SourceName, short)
	fmt.Fprintf(out, "Optional columns: %s\n", columnList(summary.Columns))
	return nil
}

// columnList names the optional columns present in cols.
func columnList(cols model.ColumnSet) string {
	var names []string
	if cols.Matchday {
		names = append(names, "matchday")
	}
	if cols.Referee {
		names = append(names, "referee")
	}
	if cols.Status {
		names = append(names, "status")
	}
	if cols.HomePoints {
		names = append(names, "home_points")
	}
	if cols.AwayPoints {
		names = append(names, "away_points")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
