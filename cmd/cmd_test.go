package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-match-stats/internal/config"
	"github.com/pable/go-match-stats/internal/model"
)

const testCSV = `competition_name,stage,date_utc,home_team,away_team,fulltime_home,fulltime_away,referee
Premier League,REGULAR_SEASON,2024-08-17 14:00:00+00:00,TeamA,TeamB,2,1,Michael Oliver
Premier League,REGULAR_SEASON,2024-08-24 14:00:00+00:00,TeamB,TeamA,0,3,Anthony Taylor
UEFA Champions League,LEAGUE_STAGE,2024-09-18 19:00:00+00:00,TeamA,TeamC,1,1,Szymon Marciniak
`

// resetFlags restores every flag to its default so runs do not leak state.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns its stdout.
func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// testEnv isolates HOME and returns paths to a fresh CSV and database.
func testEnv(t *testing.T) (csvFile, db string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	csvFile = filepath.Join(home, "matches.csv")
	require.NoError(t, os.WriteFile(csvFile, []byte(testCSV), 0644))
	return csvFile, filepath.Join(home, "data", "matches.db")
}

func TestCLI_ImportThenReport(t *testing.T) {
	csvFile, db := testEnv(t)

	out, err := runCmd(t, "", "import", "--db", db, csvFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 matches from matches.csv")
	assert.Contains(t, out, "Optional columns: referee")

	out, err = runCmd(t, "", "import", "--db", db, csvFile)
	require.NoError(t, err)
	assert.Contains(t, out, "already stored")

	out, err = runCmd(t, "", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "matches.csv")

	out, err = runCmd(t, "", "teams", "--db", db, "--competition", "Premier League")
	require.NoError(t, err)
	assert.Contains(t, out, "TeamA")
	assert.Contains(t, out, "5")

	out, err = runCmd(t, "", "dashboard", "--db", db, "--competition", "Premier League", "--top", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Top 1 Scoring Teams")
	assert.Contains(t, out, "Michael Oliver")
	assert.NotContains(t, out, "Goals Trend by Matchday")
}

func TestCLI_DashboardDefaultsToFirstCompetition(t *testing.T) {
	csvFile, _ := testEnv(t)

	out, err := runCmd(t, "", "dashboard", "--csv", csvFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Premier League")
}

func TestCLI_EmptySelectionPrintsMessage(t *testing.T) {
	csvFile, _ := testEnv(t)

	out, err := runCmd(t, "", "dashboard", "--csv", csvFile, "--competition", "Premier League", "--stage", "FINAL")
	require.NoError(t, err)
	assert.Contains(t, out, "No matches for the selected filters.")
}

func TestCLI_NoDatabaseIsUnavailable(t *testing.T) {
	_, db := testEnv(t)

	_, err := runCmd(t, "", "dashboard", "--db", db, "--competition", "Premier League")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDatasetUnavailable)
}

func TestCLI_ExportJSON(t *testing.T) {
	csvFile, _ := testEnv(t)
	outFile := filepath.Join(t.TempDir(), "report.json")

	_, err := runCmd(t, "", "export", "--csv", csvFile, "--competition", "Premier League", "--out", outFile)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	var rep model.DashboardReport
	require.NoError(t, json.Unmarshal(data, &rep))
	assert.NotEmpty(t, rep.ReportID)
	assert.Equal(t, model.AllStages, rep.Criteria.Stage)
	assert.Equal(t, 2, rep.KPIs.TotalMatches)
	assert.Equal(t, "TeamA", rep.KPIs.TopScoringTeam)
	assert.Equal(t, 2, rep.OutcomeCounts[model.OutcomeAway]+rep.OutcomeCounts[model.OutcomeHome])
}

func TestCLI_ExportRejectsUnknownFormat(t *testing.T) {
	csvFile, _ := testEnv(t)

	_, err := runCmd(t, "", "export", "--csv", csvFile, "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestCLI_DropImport(t *testing.T) {
	csvFile, db := testEnv(t)
	_, err := runCmd(t, "", "import", "--db", db, csvFile)
	require.NoError(t, err)

	out, err := runCmd(t, "", "list", "--db", db)
	require.NoError(t, err)
	hash := strings.Fields(strings.Split(out, "\n")[2])[0]

	out, err = runCmd(t, "", "drop", "--db", db, hash)
	require.NoError(t, err)
	assert.Contains(t, out, "Re-run with --force")

	out, err = runCmd(t, "", "drop", "--db", db, "--force", hash)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted import "+hash)

	out, err = runCmd(t, "", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No imports stored yet")
}

func TestCLI_ShellSelectsStage(t *testing.T) {
	csvFile, _ := testEnv(t)

	script := "stages\nstage REGULAR_SEASON\ncompetition 9\nbogus\nexit\n"
	out, err := runCmd(t, script, "shell", "--csv", csvFile)
	require.NoError(t, err)
	assert.Contains(t, out, "REGULAR_SEASON")
	assert.Contains(t, out, "Premier League  |  Stage: REGULAR_SEASON")
	assert.Contains(t, out, `no competition "9"`)
	assert.Contains(t, out, `unknown command "bogus"`)
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	testEnv(t)

	out, err := runCmd(t, "", "config", "set", "top_teams", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved top_teams")

	out, err = runCmd(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "top_teams: 7")

	_, err = runCmd(t, "", "config", "set", "top_teams", "zero")
	assert.Error(t, err)
}

func TestCLI_ConfigSetKeepsEnvOutOfFile(t *testing.T) {
	testEnv(t)
	t.Setenv("MATCHSTATS_LISTEN_ADDR", ":9999")

	_, err := runCmd(t, "", "config", "set", "top_matches", "3")
	require.NoError(t, err)

	saved, err := os.ReadFile(filepath.Join(config.Dir(), "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(saved), "top_matches: 3")
	assert.NotContains(t, string(saved), ":9999")

	out, err := runCmd(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "listen_addr: :9999", "env still applies at run time")
}

func TestCLI_ConfigFileSuppliesCSVPath(t *testing.T) {
	csvFile, db := testEnv(t)

	_, err := runCmd(t, "", "config", "set", "csv_path", csvFile)
	require.NoError(t, err)

	out, err := runCmd(t, "", "teams", "--competition", "Premier League")
	require.NoError(t, err)
	assert.Contains(t, out, "TeamA")

	_, err = runCmd(t, "", "teams", "--csv", "", "--db", db, "--competition", "Premier League")
	assert.ErrorIs(t, err, model.ErrDatasetUnavailable, "--csv '' overrides the configured csv_path")
}
