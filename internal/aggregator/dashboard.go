package aggregator

import (
	"time"

	"github.com/google/uuid"

	"github.com/pable/go-match-stats/internal/model"
)

// DashboardOptions sizes the "top N" tables of a dashboard.
type DashboardOptions struct {
	TopTeams    int
	TopMatches  int
	TopReferees int
}

// DefaultDashboardOptions returns the default "top N" table sizes.
func DefaultDashboardOptions() DashboardOptions {
	return DashboardOptions{TopTeams: DefaultTopTeams, TopMatches: 10, TopReferees: 10}
}

func (o DashboardOptions) withDefaults() DashboardOptions {
	def := DefaultDashboardOptions()
	if o.TopTeams <= 0 {
		o.TopTeams = def.TopTeams
	}
	if o.TopMatches <= 0 {
		o.TopMatches = def.TopMatches
	}
	if o.TopReferees <= 0 {
		o.TopReferees = def.TopReferees
	}
	return o
}

// Dashboard filters table by criteria and computes every KPI and derived table.
// It returns model.ErrEmptyResult (wrapped) without computing anything when no
// rows match.
func Dashboard(table *model.Table, criteria model.FilterCriteria, opts DashboardOptions) (*model.DashboardReport, error) {
	rows, err := Filter(table, criteria)
	if err != nil {
		return nil, err
	}
	kpis, err := ComputeKPIs(rows)
	if err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	if criteria.AllStagesSelected() {
		criteria.Stage = model.AllStages
	}
	rep := &model.DashboardReport{
		ReportID:                uuid.NewString(),
		GeneratedAt:             time.Now().UTC(),
		Criteria:                criteria,
		KPIs:                    kpis,
		OutcomeCounts:           OutcomeCounts(rows),
		TotalGoalsHistogram:     TotalGoalsHistogram(rows),
		GoalDifferenceHistogram: GoalDifferenceHistogram(rows),
		SideGoals:               SideGoalSummary(rows),
		TopMatches:              TopNByGoals(rows, opts.TopMatches),
		AvgGoalsByStage:         AverageGoalsByGroup(rows, ByStage),
		TopTeams:                TopScoringTeams(rows, opts.TopTeams),
		Heatmap:                 HeatmapCells(rows),
		CumulativeGoals:         CumulativeSeries(rows),
	}
	if md, ok := GoalsByMatchday(rows, table.Columns); ok {
		rep.GoalsByMatchday = md
	}
	if refs, ok := TopReferees(rows, table.Columns, opts.TopReferees); ok {
		rep.TopReferees = refs
	}
	if st, ok := GoalsByStatus(rows, table.Columns); ok {
		rep.GoalsByStatus = st
	}
	return rep, nil
}
