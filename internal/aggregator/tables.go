package aggregator

import (
	"sort"
	"strconv"

	"github.com/pable/go-match-stats/internal/model"
)

// OutcomeCounts returns the number of matches per outcome. All three outcomes
// are present even when zero.
func OutcomeCounts(rows []model.MatchRecord) map[model.Outcome]int {
	out := make(map[model.Outcome]int, len(model.Outcomes))
	for _, o := range model.Outcomes {
		out[o] = 0
	}
	for _, r := range rows {
		if _, ok := out[r.Outcome]; ok {
			out[r.Outcome]++
		}
	}
	return out
}

// TotalGoalsHistogram counts matches per total-goals value.
func TotalGoalsHistogram(rows []model.MatchRecord) []model.ValueCount {
	return histogram(rows, func(r model.MatchRecord) int { return r.TotalGoals })
}

// GoalDifferenceHistogram counts matches per goal-difference value.
func GoalDifferenceHistogram(rows []model.MatchRecord) []model.ValueCount {
	return histogram(rows, func(r model.MatchRecord) int { return r.GoalDifference })
}

func histogram(rows []model.MatchRecord, value func(model.MatchRecord) int) []model.ValueCount {
	counts := make(map[int]int)
	for _, r := range rows {
		counts[value(r)]++
	}
	out := make([]model.ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, model.ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// SideGoalSummary describes the distribution of home and away goals.
func SideGoalSummary(rows []model.MatchRecord) model.SideSummary {
	home := make([]float64, 0, len(rows))
	away := make([]float64, 0, len(rows))
	for _, r := range rows {
		home = append(home, float64(r.FulltimeHome))
		away = append(away, float64(r.FulltimeAway))
	}
	return model.SideSummary{Home: describe(home), Away: describe(away)}
}

func describe(vals []float64) model.Distribution {
	if len(vals) == 0 {
		return model.Distribution{}
	}
	sort.Float64s(vals)
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return model.Distribution{
		Min:    vals[0],
		Q1:     quantile(vals, 0.25),
		Median: median(vals),
		Q3:     quantile(vals, 0.75),
		Max:    vals[len(vals)-1],
		Mean:   sum / float64(len(vals)),
	}
}

// median returns the median of a pre-sorted (ascending) slice of float64.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// quantile uses linear interpolation between closest ranks on a pre-sorted slice.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	pos := q * float64(n-1)
	lo := int(pos)
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// GoalsByMatchday sums total goals per matchday. ok is false when the source
// table has no matchday column, in which case the table should be omitted.
func GoalsByMatchday(rows []model.MatchRecord, cols model.ColumnSet) ([]model.MatchdayGoals, bool) {
	if !cols.Matchday {
		return nil, false
	}
	goals := make(map[int]int)
	for _, r := range rows {
		if r.Matchday <= 0 {
			continue
		}
		goals[r.Matchday] += r.TotalGoals
	}
	out := make([]model.MatchdayGoals, 0, len(goals))
	for md, g := range goals {
		out = append(out, model.MatchdayGoals{Matchday: md, Goals: g})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Matchday < out[j].Matchday })
	return out, true
}

// TopReferees returns the n referees with the most matches (count desc, name asc).
func TopReferees(rows []model.MatchRecord, cols model.ColumnSet, n int) ([]model.GroupCount, bool) {
	if !cols.Referee {
		return nil, false
	}
	counts := make(map[string]int)
	for _, r := range rows {
		if r.Referee == "" {
			continue
		}
		counts[r.Referee]++
	}
	out := make([]model.GroupCount, 0, len(counts))
	for ref, c := range counts {
		out = append(out, model.GroupCount{Group: ref, Matches: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Matches != out[j].Matches {
			return out[i].Matches > out[j].Matches
		}
		return out[i].Group < out[j].Group
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out, true
}

// GoalsByStatus sums total goals per match status label.
func GoalsByStatus(rows []model.MatchRecord, cols model.ColumnSet) ([]model.GroupTotal, bool) {
	if !cols.Status {
		return nil, false
	}
	goals := make(map[string]int)
	for _, r := range rows {
		if r.Status == "" {
			continue
		}
		goals[r.Status] += r.TotalGoals
	}
	out := make([]model.GroupTotal, 0, len(goals))
	for s, g := range goals {
		out = append(out, model.GroupTotal{Group: s, Goals: g})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	return out, true
}

// Competitions returns the sorted distinct competition names in table.
func Competitions(table *model.Table) []string {
	if table == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, r := range table.Records {
		if r.CompetitionName != "" {
			seen[r.CompetitionName] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// Stages returns the stage selector values for a competition: "All" followed
// by the sorted distinct non-null stages. An empty competition spans all rows.
func Stages(table *model.Table, competition string) []string {
	out := []string{model.AllStages}
	if table == nil {
		return out
	}
	seen := make(map[string]struct{})
	for _, r := range table.Records {
		if competition != "" && r.CompetitionName != competition {
			continue
		}
		if r.Stage != "" {
			seen[r.Stage] = struct{}{}
		}
	}
	return append(out, sortedKeys(seen)...)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Validate checks the derived columns of every row against its full-time score.
func Validate(table *model.Table) []model.RecordIssue {
	if table == nil {
		return nil
	}
	var issues []model.RecordIssue
	for i := range table.Records {
		r := &table.Records[i]
		if want := r.ExpectedTotalGoals(); r.TotalGoals != want {
			issues = append(issues, model.RecordIssue{
				Row: i, Field: "total_goals",
				Want: strconv.Itoa(want), Got: strconv.Itoa(r.TotalGoals),
			})
		}
		if want := r.ExpectedGoalDifference(); r.GoalDifference != want {
			issues = append(issues, model.RecordIssue{
				Row: i, Field: "goal_difference",
				Want: strconv.Itoa(want), Got: strconv.Itoa(r.GoalDifference),
			})
		}
		if want := r.ExpectedOutcome(); r.Outcome != want {
			issues = append(issues, model.RecordIssue{
				Row: i, Field: "match_outcome",
				Want: want.String(), Got: r.Outcome.String(),
			})
		}
	}
	return issues
}
