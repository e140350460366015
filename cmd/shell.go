package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-match-stats/internal/aggregator"
	"github.com/pable/go-match-stats/internal/model"
	"github.com/pable/go-match-stats/internal/report"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive filter session",
	Long: `Load the match table once and pick a competition and stage interactively.
Every selection re-renders the dashboard. Type 'help' for available commands.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

// shellSession holds the table and the current selection of one REPL.
type shellSession struct {
	table    *model.Table
	criteria model.FilterCriteria
	opts     aggregator.DashboardOptions
	out      io.Writer
	errOut   io.Writer
}

func runShell(cmd *cobra.Command, _ []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}
	s := &shellSession{
		table:  table,
		opts:   dashboardOptions(),
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}
	if comps := aggregator.Competitions(table); len(comps) > 0 {
		s.criteria = model.FilterCriteria{Competition: comps[0], Stage: model.AllStages}
	}

	cGreeting.Fprintln(s.out, "matchstats shell")
	cMuted.Fprintln(s.out, "type 'help' or 'exit'")
	fmt.Fprintln(s.out)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cPrompt.Fprint(s.out, s.prompt())
		cMuted.Fprint(s.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			break
		}
		if !s.exec(scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

func (s *shellSession) prompt() string {
	if s.criteria.Competition == "" {
		return "matchstats"
	}
	return fmt.Sprintf("%s/%s", s.criteria.Competition, s.criteria.Stage)
}

// exec runs one input line. It returns false when the session should end.
func (s *shellSession) exec(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "exit", "quit":
		return false
	case "help":
		s.help()
	case "competitions":
		s.listCompetitions()
	case "stages":
		s.listStages()
	case "competition", "c":
		s.selectCompetition(arg)
	case "stage", "s":
		s.selectStage(arg)
	case "dashboard", "d":
		s.dashboard()
	case "teams":
		s.teams()
	default:
		cWarn.Fprintf(s.errOut, "unknown command %q, type 'help'\n", cmd)
	}
	return true
}

func (s *shellSession) help() {
	fmt.Fprintln(s.out)
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"competitions", "list competitions"},
		{"competition <name|#>", "select a competition (stage resets to All)"},
		{"stages", "list stages of the selected competition"},
		{"stage <name|#>", "select a stage, or All"},
		{"dashboard", "render the dashboard for the selection"},
		{"teams", "goal tally for the selection"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Fprint(s.out, "  ")
		cCmd.Fprintf(s.out, "%-24s", r.cmd)
		fmt.Fprintln(s.out, r.desc)
	}
	fmt.Fprintln(s.out)
}

func (s *shellSession) listCompetitions() {
	for i, c := range aggregator.Competitions(s.table) {
		fmt.Fprintf(s.out, "  %2d  %s\n", i+1, c)
	}
}

func (s *shellSession) listStages() {
	for i, st := range aggregator.Stages(s.table, s.criteria.Competition) {
		fmt.Fprintf(s.out, "  %2d  %s\n", i+1, st)
	}
}

// pick resolves arg as a 1-based index into options or an exact option value.
func pick(options []string, arg string) (string, bool) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		return "", false
	}
	for _, o := range options {
		if o == arg {
			return o, true
		}
	}
	return "", false
}

func (s *shellSession) selectCompetition(arg string) {
	comp, ok := pick(aggregator.Competitions(s.table), arg)
	if !ok {
		cError.Fprintf(s.errOut, "no competition %q, see 'competitions'\n", arg)
		return
	}
	s.criteria = model.FilterCriteria{Competition: comp, Stage: model.AllStages}
	s.dashboard()
}

func (s *shellSession) selectStage(arg string) {
	stage, ok := pick(aggregator.Stages(s.table, s.criteria.Competition), arg)
	if !ok {
		cError.Fprintf(s.errOut, "no stage %q, see 'stages'\n", arg)
		return
	}
	s.criteria.Stage = stage
	s.dashboard()
}

func (s *shellSession) dashboard() {
	rep, err := aggregator.Dashboard(s.table, s.criteria, s.opts)
	if err != nil {
		s.reportError(err)
		return
	}
	report.PrintDashboard(s.out, rep)
}

func (s *shellSession) teams() {
	rows, err := aggregator.Filter(s.table, s.criteria)
	if err != nil {
		s.reportError(err)
		return
	}
	report.PrintTeamGoalsTable(s.out, aggregator.TeamGoalTally(rows))
}

func (s *shellSession) reportError(err error) {
	if errors.Is(err, model.ErrEmptyResult) {
		cWarn.Fprintln(s.errOut, "No matches for the selected filters.")
		return
	}
	cError.Fprintf(s.errOut, "error: %v\n", err)
}
