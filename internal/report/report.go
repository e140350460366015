package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-match-stats/internal/aggregator"
	"github.com/pable/go-match-stats/internal/model"
	"github.com/pable/go-match-stats/internal/parser"
)

var heading = color.New(color.FgYellow, color.Bold)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// Section prints a coloured section heading.
func Section(w io.Writer, title string) {
	heading.Fprintf(w, "\n--- %s ---\n\n", title)
}

func criteriaLabel(c model.FilterCriteria) string {
	stage := c.Stage
	if c.AllStagesSelected() {
		stage = model.AllStages
	}
	return fmt.Sprintf("%s  |  Stage: %s", c.Competition, stage)
}

// PrintKPIs prints the headline numbers as a single-row table.
func PrintKPIs(w io.Writer, c model.FilterCriteria, k model.KPIReport) {
	fmt.Fprintf(w, "\nCompetition: %s\n\n", criteriaLabel(c))
	table := newTable(w)
	table.Header("MATCHES", "AVG GOALS", "HOME WIN%", "AWAY WIN%", "DRAW%", "TOP SCORING TEAM")
	table.Append(
		strconv.Itoa(k.TotalMatches),
		fmt.Sprintf("%.2f", k.AvgGoalsPerMatch),
		fmt.Sprintf("%.1f%%", k.HomeWinPct()),
		fmt.Sprintf("%.1f%%", k.AwayWinPct()),
		fmt.Sprintf("%.1f%%", k.DrawPct()),
		k.TopScoringTeam,
	)
	table.Render()
}

// PrintTeamGoalsTable prints a ranked team goal tally.
func PrintTeamGoalsTable(w io.Writer, teams []model.TeamGoals) {
	table := newTable(w)
	table.Header("#", "TEAM", "GOALS")
	for i, t := range teams {
		table.Append(strconv.Itoa(i+1), t.Team, strconv.Itoa(t.Goals))
	}
	table.Render()
}

// PrintTopMatchesTable prints the highest-scoring matches.
func PrintTopMatchesTable(w io.Writer, matches []model.MatchRecord) {
	table := newTable(w)
	table.Header("DATE", "HOME", "AWAY", "SCORE", "GOALS", "STAGE")
	for _, m := range matches {
		stage := m.Stage
		if stage == "" {
			stage = "-"
		}
		table.Append(
			m.DateUTC.Format("2006-01-02"),
			m.HomeTeam,
			m.AwayTeam,
			fmt.Sprintf("%d-%d", m.FulltimeHome, m.FulltimeAway),
			strconv.Itoa(m.TotalGoals),
			stage,
		)
	}
	table.Render()
}

// PrintGroupAverageTable prints mean goals per group with a sample-size flag.
func PrintGroupAverageTable(w io.Writer, label string, groups []model.GroupAverage) {
	table := newTable(w)
	table.Header(strings.ToUpper(label), "MATCHES", "AVG GOALS", "SAMPLE")
	for _, g := range groups {
		table.Append(g.Group, strconv.Itoa(g.Matches), fmt.Sprintf("%.2f", g.AvgGoals), sampleFlag(g.Matches))
	}
	table.Render()
}

func sampleFlag(n int) string {
	switch {
	case n >= 30:
		return "OK"
	case n >= 10:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

// PrintOutcomeTable prints match counts and shares per outcome.
func PrintOutcomeTable(w io.Writer, counts map[model.Outcome]int, k model.KPIReport) {
	table := newTable(w)
	table.Header("OUTCOME", "MATCHES", "SHARE")
	names := map[model.Outcome]string{
		model.OutcomeHome: "Home win",
		model.OutcomeAway: "Away win",
		model.OutcomeDraw: "Draw",
	}
	for _, o := range model.Outcomes {
		table.Append(
			fmt.Sprintf("%s (%s)", names[o], o),
			strconv.Itoa(counts[o]),
			fmt.Sprintf("%.1f%%", k.OutcomePercentages[o]),
		)
	}
	table.Render()
}

// PrintHistogramTable prints a value/count histogram with a text bar.
func PrintHistogramTable(w io.Writer, label string, buckets []model.ValueCount) {
	maxCount := 0
	for _, b := range buckets {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	table := newTable(w)
	table.Header(strings.ToUpper(label), "MATCHES", "")
	for _, b := range buckets {
		table.Append(strconv.Itoa(b.Value), strconv.Itoa(b.Count), bar(b.Count, maxCount, 30))
	}
	table.Render()
}

func bar(n, maxN, width int) string {
	if maxN == 0 {
		return ""
	}
	return strings.Repeat("█", n*width/maxN)
}

// PrintSideSummaryTable prints the home vs away goal distributions.
func PrintSideSummaryTable(w io.Writer, s model.SideSummary) {
	table := newTable(w)
	table.Header("SIDE", "MIN", "Q1", "MEDIAN", "Q3", "MAX", "MEAN")
	for _, row := range []struct {
		name string
		d    model.Distribution
	}{{"Home", s.Home}, {"Away", s.Away}} {
		table.Append(
			row.name,
			fmt.Sprintf("%.0f", row.d.Min),
			fmt.Sprintf("%.2f", row.d.Q1),
			fmt.Sprintf("%.2f", row.d.Median),
			fmt.Sprintf("%.2f", row.d.Q3),
			fmt.Sprintf("%.0f", row.d.Max),
			fmt.Sprintf("%.2f", row.d.Mean),
		)
	}
	table.Render()
}

// PrintHeatmap prints the score-line heatmap as a dense grid. Unobserved
// cells print as ".".
func PrintHeatmap(w io.Writer, cells []model.HeatmapCell) {
	if len(cells) == 0 {
		return
	}
	maxHome, maxAway := 0, 0
	counts := make(map[model.ScoreLine]int, len(cells))
	for _, c := range cells {
		counts[c.ScoreLine] = c.Matches
		maxHome = max(maxHome, c.Home)
		maxAway = max(maxAway, c.Away)
	}

	header := []any{"HOME \\ AWAY"}
	for a := 0; a <= maxAway; a++ {
		header = append(header, strconv.Itoa(a))
	}
	table := newTable(w)
	table.Header(header...)
	for h := 0; h <= maxHome; h++ {
		row := []any{strconv.Itoa(h)}
		for a := 0; a <= maxAway; a++ {
			cell := "."
			if n := counts[model.ScoreLine{Home: h, Away: a}]; n > 0 {
				cell = strconv.Itoa(n)
			}
			row = append(row, cell)
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintCumulativeTable prints each team's running goal total, one column per
// team match.
func PrintCumulativeTable(w io.Writer, series []model.TeamSeries) {
	longest := 0
	for _, s := range series {
		longest = max(longest, len(s.Cumulative))
	}
	header := []any{"TEAM"}
	for i := 1; i <= longest; i++ {
		header = append(header, "M"+strconv.Itoa(i))
	}
	table := newTable(w)
	table.Header(header...)
	for _, s := range series {
		row := []any{s.Team}
		for i := 0; i < longest; i++ {
			cell := ""
			if i < len(s.Cumulative) {
				cell = strconv.Itoa(s.Cumulative[i])
			}
			row = append(row, cell)
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintMatchdayTable prints total goals per matchday.
func PrintMatchdayTable(w io.Writer, days []model.MatchdayGoals) {
	table := newTable(w)
	table.Header("MATCHDAY", "GOALS")
	for _, d := range days {
		table.Append(strconv.Itoa(d.Matchday), strconv.Itoa(d.Goals))
	}
	table.Render()
}

// PrintRefereeTable prints referees ranked by matches officiated.
func PrintRefereeTable(w io.Writer, refs []model.GroupCount) {
	table := newTable(w)
	table.Header("REFEREE", "MATCHES")
	for _, r := range refs {
		table.Append(r.Group, strconv.Itoa(r.Matches))
	}
	table.Render()
}

// PrintStatusTable prints total goals per match status.
func PrintStatusTable(w io.Writer, statuses []model.GroupTotal) {
	table := newTable(w)
	table.Header("STATUS", "GOALS")
	for _, s := range statuses {
		table.Append(s.Group, strconv.Itoa(s.Goals))
	}
	table.Render()
}

// PrintFilterOptions prints each competition with its selectable stages.
func PrintFilterOptions(w io.Writer, table *model.Table) {
	t := newTable(w)
	t.Header("COMPETITION", "MATCHES", "STAGES")
	counts := make(map[string]int)
	for _, r := range table.Records {
		counts[r.CompetitionName]++
	}
	for _, c := range aggregator.Competitions(table) {
		t.Append(c, strconv.Itoa(counts[c]), strings.Join(aggregator.Stages(table, c), ", "))
	}
	t.Render()
}

// PrintIssuesTable prints rows whose derived columns disagree with the score.
func PrintIssuesTable(w io.Writer, issues []model.RecordIssue) {
	table := newTable(w)
	table.Header("ROW", "FIELD", "EXPECTED", "FOUND")
	for _, is := range issues {
		table.Append(strconv.Itoa(is.Row+1), is.Field, is.Want, is.Got)
	}
	table.Render()
}

// PrintSkippedTable prints CSV rows dropped during parsing.
func PrintSkippedTable(w io.Writer, skipped []parser.RowError) {
	table := newTable(w)
	table.Header("LINE", "REASON")
	for _, s := range skipped {
		table.Append(strconv.Itoa(s.Line), s.Err.Error())
	}
	table.Render()
}

// PrintDashboard prints every section of a dashboard report. Optional tables
// absent from the report are skipped.
func PrintDashboard(w io.Writer, rep *model.DashboardReport) {
	PrintKPIs(w, rep.Criteria, rep.KPIs)

	Section(w, "Goals per Match")
	PrintHistogramTable(w, "goals", rep.TotalGoalsHistogram)

	Section(w, "Home vs Away Goals")
	PrintSideSummaryTable(w, rep.SideGoals)

	Section(w, "Match Outcomes")
	PrintOutcomeTable(w, rep.OutcomeCounts, rep.KPIs)

	Section(w, fmt.Sprintf("Top %d Highest Scoring Matches", len(rep.TopMatches)))
	PrintTopMatchesTable(w, rep.TopMatches)

	if len(rep.AvgGoalsByStage) > 0 {
		Section(w, "Average Goals by Stage")
		PrintGroupAverageTable(w, "stage", rep.AvgGoalsByStage)
	}

	Section(w, fmt.Sprintf("Top %d Scoring Teams", len(rep.TopTeams)))
	PrintTeamGoalsTable(w, rep.TopTeams)

	if rep.GoalsByMatchday != nil {
		Section(w, "Goals Trend by Matchday")
		PrintMatchdayTable(w, rep.GoalsByMatchday)
	}

	Section(w, "Goal Difference Distribution")
	PrintHistogramTable(w, "goal diff", rep.GoalDifferenceHistogram)

	Section(w, "Home vs Away Goals Heatmap")
	PrintHeatmap(w, rep.Heatmap)

	if rep.TopReferees != nil {
		Section(w, fmt.Sprintf("Top %d Referees by Matches", len(rep.TopReferees)))
		PrintRefereeTable(w, rep.TopReferees)
	}
	if rep.GoalsByStatus != nil {
		Section(w, "Total Goals by Match Status")
		PrintStatusTable(w, rep.GoalsByStatus)
	}
}
