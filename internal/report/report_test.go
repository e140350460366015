package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pable/go-match-stats/internal/model"
)

func TestPrintHeatmap_FillsUnobservedCells(t *testing.T) {
	var buf bytes.Buffer
	PrintHeatmap(&buf, []model.HeatmapCell{
		{ScoreLine: model.ScoreLine{Home: 0, Away: 0}, Matches: 4},
		{ScoreLine: model.ScoreLine{Home: 2, Away: 1}, Matches: 7},
	})
	out := buf.String()
	assert.Contains(t, out, "4")
	assert.Contains(t, out, "7")
	// 3 home rows x 2 away columns = 6 cells, 2 observed.
	assert.Equal(t, 4, strings.Count(out, "."))
}

func TestPrintDashboard_SkipsAbsentTables(t *testing.T) {
	rep := &model.DashboardReport{
		Criteria: model.FilterCriteria{Competition: "Premier League", Stage: model.AllStages},
		KPIs: model.KPIReport{
			TotalMatches:     2,
			AvgGoalsPerMatch: 3,
			OutcomePercentages: map[model.Outcome]float64{
				model.OutcomeHome: 50, model.OutcomeAway: 50, model.OutcomeDraw: 0,
			},
			TopScoringTeam: "TeamA",
		},
		TopTeams:    []model.TeamGoals{{Team: "TeamA", Goals: 5}, {Team: "TeamB", Goals: 1}},
		TopReferees: []model.GroupCount{{Group: "Michael Oliver", Matches: 2}},
	}

	var buf bytes.Buffer
	PrintDashboard(&buf, rep)
	out := buf.String()

	assert.Contains(t, out, "Premier League")
	assert.Contains(t, out, "TeamA")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "Top 2 Scoring Teams")
	assert.Contains(t, out, "Michael Oliver")
	assert.NotContains(t, out, "Goals Trend by Matchday")
	assert.NotContains(t, out, "Total Goals by Match Status")
}
