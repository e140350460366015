package cmd

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the match database",
	Long: `Run an arbitrary SQL query against the match database and print results as a table.

Schema overview:
  imports(hash, source_name, imported_at, matches,
    has_matchday, has_referee, has_status, has_home_points, has_away_points)
  matches(import_hash, row_num, competition_name, stage, date_utc,
    home_team, away_team, fulltime_home, fulltime_away,
    total_goals, goal_difference, match_outcome,
    matchday, referee, status, home_points, away_points)

match_outcome is stored as its H/A/D label; date_utc as RFC 3339 text.
Example: SELECT home_team, SUM(fulltime_home) FROM matches GROUP BY home_team`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	out := cmd.OutOrStdout()
	if !dbExists() {
		return fmt.Errorf("no database at %s", dbPath)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	log.WithField("query", query).Debug("sql")
	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "(no rows)")
		return nil
	}

	table := tablewriter.NewTable(out, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(out, "\n(%d rows)\n", len(rows))
	return nil
}

