package parser

import (
	"crypto/sha256"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pable/go-match-stats/internal/model"
)

// Column names of the match CSV.
const (
	colCompetition    = "competition_name"
	colStage          = "stage"
	colDate           = "date_utc"
	colHomeTeam       = "home_team"
	colAwayTeam       = "away_team"
	colFulltimeHome   = "fulltime_home"
	colFulltimeAway   = "fulltime_away"
	colTotalGoals     = "total_goals"
	colGoalDifference = "goal_difference"
	colOutcome        = "match_outcome"
	colMatchday       = "matchday"
	colReferee        = "referee"
	colStatus         = "status"
	colHomePoints     = "home_points"
	colAwayPoints     = "away_points"
)

var requiredColumns = []string{
	colCompetition, colStage, colDate,
	colHomeTeam, colAwayTeam, colFulltimeHome, colFulltimeAway,
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// RowError describes a data row that could not be parsed and was skipped.
type RowError struct {
	Line int // 1-based line number in the source, header is line 1
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Result is a parsed match table plus parse diagnostics.
type Result struct {
	Table      *model.Table
	SourceHash string     // sha256 of the raw bytes; empty for Parse
	Skipped    []RowError // rows dropped because a required value was malformed
}

// ParseFile reads the CSV at path. A missing or empty file yields an error
// wrapping model.ErrDatasetUnavailable.
func ParseFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", model.ErrDatasetUnavailable, path)
		}
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	// Hash file for idempotency key.
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hash csv: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek csv: %w", err)
	}

	res, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	res.SourceHash = fmt.Sprintf("%x", h.Sum(nil))
	return res, nil
}

// Parse reads a header-led match CSV. total_goals, goal_difference and
// match_outcome are taken from the source when present and derived from the
// score otherwise.
func Parse(r io.Reader) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty csv", model.ErrDatasetUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := indexHeader(header)
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%w: missing required column %q", model.ErrDatasetUnavailable, c)
		}
	}

	table := &model.Table{Columns: model.ColumnSet{
		Matchday:   idx.has(colMatchday),
		Referee:    idx.has(colReferee),
		Status:     idx.has(colStatus),
		HomePoints: idx.has(colHomePoints),
		AwayPoints: idx.has(colAwayPoints),
	}}
	res := &Result{Table: table}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				res.Skipped = append(res.Skipped, RowError{Line: pe.StartLine, Err: pe.Err})
				continue
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}
		m, err := parseRow(idx, rec)
		if err != nil {
			// Line of the record start, which differs from the record count
			// once a quoted field spans lines.
			line, _ := cr.FieldPos(0)
			res.Skipped = append(res.Skipped, RowError{Line: line, Err: err})
			continue
		}
		table.Records = append(table.Records, m)
	}

	if len(table.Records) == 0 {
		return nil, fmt.Errorf("%w: no valid match rows", model.ErrDatasetUnavailable)
	}
	return res, nil
}

type headerIndex map[string]int

func indexHeader(header []string) headerIndex {
	idx := make(headerIndex, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	return idx
}

func (h headerIndex) has(col string) bool {
	_, ok := h[col]
	return ok
}

// get returns the trimmed cell for col, or "" when the column or cell is absent.
func (h headerIndex) get(rec []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func parseRow(idx headerIndex, rec []string) (model.MatchRecord, error) {
	var m model.MatchRecord
	var err error

	m.CompetitionName = idx.get(rec, colCompetition)
	if m.CompetitionName == "" {
		return m, fmt.Errorf("empty %s", colCompetition)
	}
	m.HomeTeam = idx.get(rec, colHomeTeam)
	m.AwayTeam = idx.get(rec, colAwayTeam)
	if m.HomeTeam == "" || m.AwayTeam == "" {
		return m, fmt.Errorf("empty team name")
	}
	m.Stage = nullable(idx.get(rec, colStage))

	if m.DateUTC, err = parseDate(idx.get(rec, colDate)); err != nil {
		return m, fmt.Errorf("%s: %w", colDate, err)
	}
	if m.FulltimeHome, err = parseGoals(idx.get(rec, colFulltimeHome)); err != nil {
		return m, fmt.Errorf("%s: %w", colFulltimeHome, err)
	}
	if m.FulltimeAway, err = parseGoals(idx.get(rec, colFulltimeAway)); err != nil {
		return m, fmt.Errorf("%s: %w", colFulltimeAway, err)
	}

	m.TotalGoals = m.ExpectedTotalGoals()
	if v := idx.get(rec, colTotalGoals); !isNull(v) {
		if m.TotalGoals, err = parseInt(v); err != nil {
			return m, fmt.Errorf("%s: %w", colTotalGoals, err)
		}
	}
	m.GoalDifference = m.ExpectedGoalDifference()
	if v := idx.get(rec, colGoalDifference); !isNull(v) {
		if m.GoalDifference, err = parseInt(v); err != nil {
			return m, fmt.Errorf("%s: %w", colGoalDifference, err)
		}
	}
	m.Outcome = model.ParseOutcome(idx.get(rec, colOutcome))
	if m.Outcome == model.OutcomeUnknown {
		m.Outcome = m.ExpectedOutcome()
	}

	// Optional columns: malformed or null cells read as zero values.
	m.Matchday, _ = parseInt(idx.get(rec, colMatchday))
	m.Referee = nullable(idx.get(rec, colReferee))
	m.Status = nullable(idx.get(rec, colStatus))
	m.HomePoints, _ = parseInt(idx.get(rec, colHomePoints))
	m.AwayPoints, _ = parseInt(idx.get(rec, colAwayPoints))
	return m, nil
}

func isNull(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "null", "none", "na", "n/a":
		return true
	}
	return false
}

func nullable(s string) string {
	if isNull(s) {
		return ""
	}
	return s
}

// parseInt accepts integral values written as floats ("2.0").
func parseInt(s string) (int, error) {
	if isNull(s) {
		return 0, fmt.Errorf("missing value")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}

func parseGoals(s string) (int, error) {
	n, err := parseInt(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative goals: %d", n)
	}
	return n, nil
}

func parseDate(s string) (time.Time, error) {
	if isNull(s) {
		return time.Time{}, fmt.Errorf("missing value")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
