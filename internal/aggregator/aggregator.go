// Package aggregator is the match-statistics engine: pure functions over a
// read-only match table. Nothing here mutates its input; every result is a
// freshly allocated value.
package aggregator

import (
	"fmt"
	"sort"

	"github.com/pable/go-match-stats/internal/model"
)

// DefaultTopTeams is the size of the "top scoring teams" table when unset.
const DefaultTopTeams = 5

// Filter returns the rows of table matching criteria, in table order.
func Filter(table *model.Table, criteria model.FilterCriteria) ([]model.MatchRecord, error) {
	if table == nil {
		return nil, model.ErrDatasetUnavailable
	}
	return FilterRecords(table.Records, criteria)
}

// FilterRecords applies criteria to an arbitrary row slice. Applying it to its
// own output yields the same rows.
func FilterRecords(rows []model.MatchRecord, criteria model.FilterCriteria) ([]model.MatchRecord, error) {
	if criteria.Competition == "" {
		return nil, fmt.Errorf("%w: competition is required", model.ErrInvalidCriteria)
	}
	allStages := criteria.AllStagesSelected()

	var out []model.MatchRecord
	for _, r := range rows {
		if r.CompetitionName != criteria.Competition {
			continue
		}
		if !allStages && r.Stage != criteria.Stage {
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: competition=%q stage=%q", model.ErrEmptyResult, criteria.Competition, stageLabel(criteria))
	}
	return out, nil
}

func stageLabel(c model.FilterCriteria) string {
	if c.AllStagesSelected() {
		return model.AllStages
	}
	return c.Stage
}

// ComputeKPIs computes the headline numbers for a non-empty filtered set.
func ComputeKPIs(rows []model.MatchRecord) (model.KPIReport, error) {
	if len(rows) == 0 {
		return model.KPIReport{}, model.ErrEmptyResult
	}

	totalGoals := 0
	counts := make(map[model.Outcome]int, len(model.Outcomes))
	for _, r := range rows {
		totalGoals += r.TotalGoals
		counts[r.Outcome]++
	}

	n := float64(len(rows))
	pct := make(map[model.Outcome]float64, len(model.Outcomes))
	for _, o := range model.Outcomes {
		pct[o] = float64(counts[o]) / n * 100
	}

	tally := TeamGoalTally(rows)
	top := ""
	if len(tally) > 0 {
		top = tally[0].Team
	}

	return model.KPIReport{
		TotalMatches:       len(rows),
		AvgGoalsPerMatch:   float64(totalGoals) / n,
		OutcomePercentages: pct,
		TopScoringTeam:     top,
	}, nil
}

// TeamGoalTally sums goals scored per team across both home and away roles.
// Sorted by goals descending, ties broken by team name ascending.
func TeamGoalTally(rows []model.MatchRecord) []model.TeamGoals {
	// Normalise both roles into (team, goals) before summing.
	goals := make(map[string]int)
	for _, r := range rows {
		goals[r.HomeTeam] += r.FulltimeHome
		goals[r.AwayTeam] += r.FulltimeAway
	}

	out := make([]model.TeamGoals, 0, len(goals))
	for team, g := range goals {
		out = append(out, model.TeamGoals{Team: team, Goals: g})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Goals != out[j].Goals {
			return out[i].Goals > out[j].Goals
		}
		return out[i].Team < out[j].Team
	})
	return out
}

// TopScoringTeams returns the first n entries of the goal tally.
// n <= 0 selects DefaultTopTeams.
func TopScoringTeams(rows []model.MatchRecord, n int) []model.TeamGoals {
	if n <= 0 {
		n = DefaultTopTeams
	}
	tally := TeamGoalTally(rows)
	if n < len(tally) {
		tally = tally[:n]
	}
	return tally
}

// GroupKey extracts the grouping value from a row. Rows yielding "" are not
// grouped.
type GroupKey func(model.MatchRecord) string

// ByStage groups by competition phase.
func ByStage(r model.MatchRecord) string { return r.Stage }

// ByStatus groups by match status label.
func ByStatus(r model.MatchRecord) string { return r.Status }

// ByReferee groups by referee name.
func ByReferee(r model.MatchRecord) string { return r.Referee }

// AverageGoalsByGroup returns the mean total goals for every group value
// present in rows, sorted by group value.
func AverageGoalsByGroup(rows []model.MatchRecord, key GroupKey) []model.GroupAverage {
	type accum struct{ matches, goals int }
	groups := make(map[string]*accum)
	for _, r := range rows {
		g := key(r)
		if g == "" {
			continue
		}
		a, ok := groups[g]
		if !ok {
			a = &accum{}
			groups[g] = a
		}
		a.matches++
		a.goals += r.TotalGoals
	}

	out := make([]model.GroupAverage, 0, len(groups))
	for g, a := range groups {
		out = append(out, model.GroupAverage{
			Group:    g,
			Matches:  a.matches,
			AvgGoals: float64(a.goals) / float64(a.matches),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	return out
}

// TopNByGoals returns up to n rows with the highest total goals. Rows with
// equal totals keep their input order.
func TopNByGoals(rows []model.MatchRecord, n int) []model.MatchRecord {
	if n <= 0 {
		return nil
	}
	sorted := make([]model.MatchRecord, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalGoals > sorted[j].TotalGoals
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// GoalsHeatmap counts matches per observed full-time score line. Unobserved
// score lines are absent.
func GoalsHeatmap(rows []model.MatchRecord) map[model.ScoreLine]int {
	out := make(map[model.ScoreLine]int)
	for _, r := range rows {
		out[model.ScoreLine{Home: r.FulltimeHome, Away: r.FulltimeAway}]++
	}
	return out
}

// HeatmapCells returns the heatmap as a slice ordered by home then away goals.
func HeatmapCells(rows []model.MatchRecord) []model.HeatmapCell {
	hm := GoalsHeatmap(rows)
	out := make([]model.HeatmapCell, 0, len(hm))
	for sl, c := range hm {
		out = append(out, model.HeatmapCell{ScoreLine: sl, Matches: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Home != out[j].Home {
			return out[i].Home < out[j].Home
		}
		return out[i].Away < out[j].Away
	})
	return out
}

// CumulativeGoalsByTeam returns, per team, the running total of goals that
// team scored over its own matches in row order.
func CumulativeGoalsByTeam(rows []model.MatchRecord) map[string][]int {
	out := make(map[string][]int)
	add := func(team string, goals int) {
		series := out[team]
		prev := 0
		if len(series) > 0 {
			prev = series[len(series)-1]
		}
		out[team] = append(series, prev+goals)
	}
	for _, r := range rows {
		add(r.HomeTeam, r.FulltimeHome)
		add(r.AwayTeam, r.FulltimeAway)
	}
	return out
}

// CumulativeSeries returns CumulativeGoalsByTeam as a team-sorted slice.
func CumulativeSeries(rows []model.MatchRecord) []model.TeamSeries {
	cum := CumulativeGoalsByTeam(rows)
	out := make([]model.TeamSeries, 0, len(cum))
	for team, s := range cum {
		out = append(out, model.TeamSeries{Team: team, Cumulative: s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Team < out[j].Team })
	return out
}
