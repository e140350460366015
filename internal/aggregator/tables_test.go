package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-match-stats/internal/model"
)

func withExtras(r model.MatchRecord, matchday int, referee, status string) model.MatchRecord {
	r.Matchday = matchday
	r.Referee = referee
	r.Status = status
	return r
}

func fullColumns() model.ColumnSet {
	return model.ColumnSet{Matchday: true, Referee: true, Status: true}
}

func TestOutcomeCounts_AlwaysThreeKeys(t *testing.T) {
	got := OutcomeCounts([]model.MatchRecord{
		match(compPL, stageRS, "A", "B", 2, 0),
		match(compPL, stageRS, "C", "D", 3, 1),
	})
	assert.Equal(t, map[model.Outcome]int{
		model.OutcomeHome: 2,
		model.OutcomeAway: 0,
		model.OutcomeDraw: 0,
	}, got)
}

func TestHistograms(t *testing.T) {
	rows := mixedTable().Records
	assert.Equal(t, []model.ValueCount{
		{Value: 2, Count: 2}, {Value: 3, Count: 2}, {Value: 5, Count: 2},
	}, TotalGoalsHistogram(rows))
	assert.Equal(t, []model.ValueCount{
		{Value: -3, Count: 2}, {Value: 0, Count: 1}, {Value: 1, Count: 2}, {Value: 2, Count: 1},
	}, GoalDifferenceHistogram(rows))
}

func TestSideGoalSummary_Quartiles(t *testing.T) {
	rows := []model.MatchRecord{
		match(compPL, stageRS, "A", "B", 3, 0),
		match(compPL, stageRS, "A", "B", 0, 0),
		match(compPL, stageRS, "A", "B", 2, 1),
		match(compPL, stageRS, "A", "B", 1, 1),
	}
	s := SideGoalSummary(rows)
	assert.Equal(t, model.Distribution{Min: 0, Q1: 0.75, Median: 1.5, Q3: 2.25, Max: 3, Mean: 1.5}, s.Home)
	assert.InDelta(t, 0.5, s.Away.Median, 1e-9)
	assert.InDelta(t, 0.5, s.Away.Mean, 1e-9)
	assert.Equal(t, 1.0, s.Away.Max)

	assert.Equal(t, model.SideSummary{}, SideGoalSummary(nil))
}

func TestGoalsByMatchday(t *testing.T) {
	rows := []model.MatchRecord{
		withExtras(match(compPL, stageRS, "A", "B", 2, 1), 2, "", ""),
		withExtras(match(compPL, stageRS, "C", "D", 1, 0), 1, "", ""),
		withExtras(match(compPL, stageRS, "E", "F", 0, 4), 2, "", ""),
		withExtras(match(compPL, stageRS, "G", "H", 5, 5), 0, "", ""),
	}
	got, ok := GoalsByMatchday(rows, fullColumns())
	require.True(t, ok)
	assert.Equal(t, []model.MatchdayGoals{{Matchday: 1, Goals: 1}, {Matchday: 2, Goals: 7}}, got)

	got, ok = GoalsByMatchday(rows, model.ColumnSet{})
	assert.False(t, ok, "absent column omits the table")
	assert.Nil(t, got)
}

func TestTopReferees(t *testing.T) {
	rows := []model.MatchRecord{
		withExtras(match(compPL, stageRS, "A", "B", 0, 0), 1, "Taylor", ""),
		withExtras(match(compPL, stageRS, "A", "B", 0, 0), 1, "Oliver", ""),
		withExtras(match(compPL, stageRS, "A", "B", 0, 0), 1, "Taylor", ""),
		withExtras(match(compPL, stageRS, "A", "B", 0, 0), 1, "Attwell", ""),
		withExtras(match(compPL, stageRS, "A", "B", 0, 0), 1, "", ""),
	}
	got, ok := TopReferees(rows, fullColumns(), 2)
	require.True(t, ok)
	assert.Equal(t, []model.GroupCount{{Group: "Taylor", Matches: 2}, {Group: "Attwell", Matches: 1}}, got)

	_, ok = TopReferees(rows, model.ColumnSet{Matchday: true}, 2)
	assert.False(t, ok)
}

func TestGoalsByStatus(t *testing.T) {
	rows := []model.MatchRecord{
		withExtras(match(compPL, stageRS, "A", "B", 2, 2), 1, "", "FINISHED"),
		withExtras(match(compPL, stageRS, "A", "B", 1, 0), 1, "", "AWARDED"),
		withExtras(match(compPL, stageRS, "A", "B", 3, 0), 1, "", "FINISHED"),
	}
	got, ok := GoalsByStatus(rows, fullColumns())
	require.True(t, ok)
	assert.Equal(t, []model.GroupTotal{{Group: "AWARDED", Goals: 1}, {Group: "FINISHED", Goals: 7}}, got)
}

func TestCompetitionsAndStages(t *testing.T) {
	table := mixedTable()
	table.Records = append(table.Records, match(compPL, "", "A", "B", 0, 0))

	assert.Equal(t, []string{compPL, compCL}, Competitions(table))
	assert.Equal(t, []string{model.AllStages, stageGS, stageKO}, Stages(table, compCL))
	assert.Equal(t, []string{model.AllStages, stageRS}, Stages(table, compPL))
	assert.Equal(t, []string{model.AllStages, stageGS, stageKO, stageRS}, Stages(table, ""))
	assert.Equal(t, []string{model.AllStages}, Stages(nil, compPL))
}

func TestValidate(t *testing.T) {
	good := match(compPL, stageRS, "A", "B", 2, 1)
	bad := good
	bad.TotalGoals = 4
	bad.GoalDifference = -1
	bad.Outcome = model.OutcomeDraw

	issues := Validate(tableOf(good, bad))
	require.Len(t, issues, 3)
	for _, is := range issues {
		assert.Equal(t, 1, is.Row)
	}
	assert.Equal(t, model.RecordIssue{Row: 1, Field: "total_goals", Want: "3", Got: "4"}, issues[0])
	assert.Equal(t, "goal_difference", issues[1].Field)
	assert.Equal(t, model.RecordIssue{Row: 1, Field: "match_outcome", Want: "H", Got: "D"}, issues[2])

	assert.Empty(t, Validate(mixedTable()))
}

func TestDashboard(t *testing.T) {
	table := mixedTable()
	table.Columns = model.ColumnSet{Referee: true}
	for i := range table.Records {
		table.Records[i].Referee = "Ref"
	}

	rep, err := Dashboard(table, model.FilterCriteria{Competition: compPL}, DashboardOptions{TopTeams: 2})
	require.NoError(t, err)
	assert.NotEmpty(t, rep.ReportID)
	assert.Equal(t, model.AllStages, rep.Criteria.Stage)
	assert.Equal(t, 3, rep.KPIs.TotalMatches)
	assert.Equal(t, "Arsenal", rep.KPIs.TopScoringTeam)
	assert.Len(t, rep.TopTeams, 2)
	assert.Len(t, rep.TopMatches, 3)
	assert.Nil(t, rep.GoalsByMatchday, "matchday column absent")
	assert.Nil(t, rep.GoalsByStatus, "status column absent")
	assert.Equal(t, []model.GroupCount{{Group: "Ref", Matches: 3}}, rep.TopReferees)
	assert.Len(t, rep.AvgGoalsByStage, 1)
	assert.Len(t, rep.CumulativeGoals, 3)

	_, err = Dashboard(table, model.FilterCriteria{Competition: compPL, Stage: stageGS}, DefaultDashboardOptions())
	assert.ErrorIs(t, err, model.ErrEmptyResult)
}
