package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDatasetUnavailable is returned when no match table can be produced.
	ErrDatasetUnavailable = errors.New("dataset unavailable")
	// ErrEmptyResult is returned when a filter selects zero matches.
	ErrEmptyResult = errors.New("no matches for selected filters")
	// ErrInvalidCriteria is returned for filter criteria that can never match.
	ErrInvalidCriteria = errors.New("invalid filter criteria")
)

// AllStages is the stage selector value that disables stage filtering.
const AllStages = "All"

// Outcome is the full-time result of a match from the home side's view.
type Outcome int

const (
	OutcomeUnknown Outcome = 0 // label missing or unrecognised
	OutcomeHome    Outcome = 1 // home win, "H"
	OutcomeAway    Outcome = 2 // away win, "A"
	OutcomeDraw    Outcome = 3 // draw, "D"
)

// Outcomes lists the valid outcomes in display order.
var Outcomes = []Outcome{OutcomeHome, OutcomeAway, OutcomeDraw}

// String returns the H/A/D label, or "?" for OutcomeUnknown.
func (o Outcome) String() string {
	switch o {
	case OutcomeHome:
		return "H"
	case OutcomeAway:
		return "A"
	case OutcomeDraw:
		return "D"
	default:
		return "?"
	}
}

// MarshalText lets Outcome be used as a JSON/YAML map key.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText parses the H/A/D label.
func (o *Outcome) UnmarshalText(b []byte) error {
	*o = ParseOutcome(string(b))
	if *o == OutcomeUnknown {
		return fmt.Errorf("unknown match outcome %q", b)
	}
	return nil
}

// ParseOutcome maps the H/A/D column label to an Outcome.
func ParseOutcome(s string) Outcome {
	switch s {
	case "H", "h":
		return OutcomeHome
	case "A", "a":
		return OutcomeAway
	case "D", "d":
		return OutcomeDraw
	default:
		return OutcomeUnknown
	}
}

// OutcomeFor derives the outcome from a full-time score.
func OutcomeFor(home, away int) Outcome {
	switch {
	case home > away:
		return OutcomeHome
	case home < away:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

// MatchRecord is one row of the match table.
type MatchRecord struct {
	CompetitionName string    `json:"competition_name" yaml:"competition_name"`
	Stage           string    `json:"stage,omitempty" yaml:"stage,omitempty"` // empty when the source value is null
	DateUTC         time.Time `json:"date_utc" yaml:"date_utc"`
	HomeTeam        string    `json:"home_team" yaml:"home_team"`
	AwayTeam        string    `json:"away_team" yaml:"away_team"`
	FulltimeHome    int       `json:"fulltime_home" yaml:"fulltime_home"`
	FulltimeAway    int       `json:"fulltime_away" yaml:"fulltime_away"`
	TotalGoals      int       `json:"total_goals" yaml:"total_goals"`
	GoalDifference  int       `json:"goal_difference" yaml:"goal_difference"`
	Outcome         Outcome   `json:"match_outcome" yaml:"match_outcome"`

	// Optional columns; see ColumnSet for presence.
	Matchday   int    `json:"matchday,omitempty" yaml:"matchday,omitempty"`
	Referee    string `json:"referee,omitempty" yaml:"referee,omitempty"`
	Status     string `json:"status,omitempty" yaml:"status,omitempty"`
	HomePoints int    `json:"home_points,omitempty" yaml:"home_points,omitempty"`
	AwayPoints int    `json:"away_points,omitempty" yaml:"away_points,omitempty"`
}

// ExpectedTotalGoals is the total implied by the full-time score.
func (r *MatchRecord) ExpectedTotalGoals() int {
	return r.FulltimeHome + r.FulltimeAway
}

// ExpectedGoalDifference is the difference implied by the full-time score.
func (r *MatchRecord) ExpectedGoalDifference() int {
	return r.FulltimeHome - r.FulltimeAway
}

// ExpectedOutcome is the outcome implied by the full-time score.
func (r *MatchRecord) ExpectedOutcome() Outcome {
	return OutcomeFor(r.FulltimeHome, r.FulltimeAway)
}

// ColumnSet records which optional columns the source schema carried.
type ColumnSet struct {
	Matchday   bool
	Referee    bool
	Status     bool
	HomePoints bool
	AwayPoints bool
}

// Table is an immutable snapshot of the loaded match data.
type Table struct {
	Records []MatchRecord
	Columns ColumnSet
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// FilterCriteria selects a competition and optionally a single stage.
type FilterCriteria struct {
	Competition string `json:"competition" yaml:"competition"`
	Stage       string `json:"stage" yaml:"stage"`
}

// AllStagesSelected reports whether stage filtering is disabled.
func (c FilterCriteria) AllStagesSelected() bool {
	return c.Stage == "" || c.Stage == AllStages
}

// ---- Engine outputs ----

// KPIReport holds the headline numbers for a filtered set.
type KPIReport struct {
	TotalMatches       int                 `json:"total_matches" yaml:"total_matches"`
	AvgGoalsPerMatch   float64             `json:"avg_goals_per_match" yaml:"avg_goals_per_match"`
	OutcomePercentages map[Outcome]float64 `json:"outcome_percentages" yaml:"outcome_percentages"`
	TopScoringTeam     string              `json:"top_scoring_team" yaml:"top_scoring_team"`
}

// HomeWinPct returns the share of home wins, 0-100.
func (k *KPIReport) HomeWinPct() float64 { return k.OutcomePercentages[OutcomeHome] }

// AwayWinPct returns the share of away wins, 0-100.
func (k *KPIReport) AwayWinPct() float64 { return k.OutcomePercentages[OutcomeAway] }

// DrawPct returns the share of draws, 0-100.
func (k *KPIReport) DrawPct() float64 { return k.OutcomePercentages[OutcomeDraw] }

// TeamGoals is one row of the team goal tally.
type TeamGoals struct {
	Team  string `json:"team" yaml:"team"`
	Goals int    `json:"goals" yaml:"goals"`
}

// GroupAverage is the mean total goals for one group value.
type GroupAverage struct {
	Group    string  `json:"group" yaml:"group"`
	Matches  int     `json:"matches" yaml:"matches"`
	AvgGoals float64 `json:"avg_goals" yaml:"avg_goals"`
}

// GroupCount is a match count for one group value.
type GroupCount struct {
	Group   string `json:"group" yaml:"group"`
	Matches int    `json:"matches" yaml:"matches"`
}

// GroupTotal is a goal total for one group value.
type GroupTotal struct {
	Group string `json:"group" yaml:"group"`
	Goals int    `json:"goals" yaml:"goals"`
}

// MatchdayGoals is the goal total for one round number.
type MatchdayGoals struct {
	Matchday int `json:"matchday" yaml:"matchday"`
	Goals    int `json:"goals" yaml:"goals"`
}

// ScoreLine is a (home, away) full-time score pair.
type ScoreLine struct {
	Home int `json:"home" yaml:"home"`
	Away int `json:"away" yaml:"away"`
}

// HeatmapCell is one observed score line and how many matches ended with it.
type HeatmapCell struct {
	ScoreLine `yaml:",inline"`
	Matches   int `json:"matches" yaml:"matches"`
}

// TeamSeries is a per-team running total of goals scored.
type TeamSeries struct {
	Team       string `json:"team" yaml:"team"`
	Cumulative []int  `json:"cumulative" yaml:"cumulative"`
}

// ValueCount is one histogram bucket.
type ValueCount struct {
	Value int `json:"value" yaml:"value"`
	Count int `json:"count" yaml:"count"`
}

// Distribution summarises an integer sample (box-plot source).
type Distribution struct {
	Min    float64 `json:"min" yaml:"min"`
	Q1     float64 `json:"q1" yaml:"q1"`
	Median float64 `json:"median" yaml:"median"`
	Q3     float64 `json:"q3" yaml:"q3"`
	Max    float64 `json:"max" yaml:"max"`
	Mean   float64 `json:"mean" yaml:"mean"`
}

// SideSummary holds the home and away goal distributions.
type SideSummary struct {
	Home Distribution `json:"home" yaml:"home"`
	Away Distribution `json:"away" yaml:"away"`
}

// RecordIssue describes a derived-field invariant violated by one row.
type RecordIssue struct {
	Row   int    // zero-based index into Table.Records
	Field string // total_goals, goal_difference or match_outcome
	Want  string
	Got   string
}

// DashboardReport bundles every KPI and derived table for one filter selection.
// Optional tables are nil when their source column is absent.
type DashboardReport struct {
	ReportID                string          `json:"report_id" yaml:"report_id"`
	GeneratedAt             time.Time       `json:"generated_at" yaml:"generated_at"`
	Criteria                FilterCriteria  `json:"criteria" yaml:"criteria"`
	KPIs                    KPIReport       `json:"kpis" yaml:"kpis"`
	OutcomeCounts           map[Outcome]int `json:"outcome_counts" yaml:"outcome_counts"`
	TotalGoalsHistogram     []ValueCount    `json:"total_goals_histogram" yaml:"total_goals_histogram"`
	GoalDifferenceHistogram []ValueCount    `json:"goal_difference_histogram" yaml:"goal_difference_histogram"`
	SideGoals               SideSummary     `json:"side_goals" yaml:"side_goals"`
	TopMatches              []MatchRecord   `json:"top_matches" yaml:"top_matches"`
	AvgGoalsByStage         []GroupAverage  `json:"avg_goals_by_stage" yaml:"avg_goals_by_stage"`
	TopTeams                []TeamGoals     `json:"top_teams" yaml:"top_teams"`
	GoalsByMatchday         []MatchdayGoals `json:"goals_by_matchday,omitempty" yaml:"goals_by_matchday,omitempty"`
	Heatmap                 []HeatmapCell   `json:"heatmap" yaml:"heatmap"`
	TopReferees             []GroupCount    `json:"top_referees,omitempty" yaml:"top_referees,omitempty"`
	GoalsByStatus           []GroupTotal    `json:"goals_by_status,omitempty" yaml:"goals_by_status,omitempty"`
	CumulativeGoals         []TeamSeries    `json:"cumulative_goals" yaml:"cumulative_goals"`
}

// ImportSummary is a lightweight record for the list command.
type ImportSummary struct {
	SourceHash string
	SourceName string
	ImportedAt string
	Matches    int
	Columns    ColumnSet
}
