package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pable/go-match-stats/internal/model"
)

// ImportExists returns true if a source with the given hash is already stored.
func (db *DB) ImportExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM imports WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertImport stores a parsed table under its source hash. Re-importing the
// same hash replaces the previous rows.
func (db *DB) InsertImport(summary model.ImportSummary, table *model.Table) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	cols := table.Columns
	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO imports(hash, source_name, imported_at, matches,
			has_matchday, has_referee, has_status, has_home_points, has_away_points)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.SourceHash, summary.SourceName, summary.ImportedAt, table.Len(),
		boolInt(cols.Matchday), boolInt(cols.Referee), boolInt(cols.Status),
		boolInt(cols.HomePoints), boolInt(cols.AwayPoints),
	); err != nil {
		return fmt.Errorf("insert import: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM matches WHERE import_hash = ?", summary.SourceHash); err != nil {
		return fmt.Errorf("clear matches: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO matches(
			import_hash, row_num, competition_name, stage, date_utc,
			home_team, away_team, fulltime_home, fulltime_away,
			total_goals, goal_difference, match_outcome,
			matchday, referee, status, home_points, away_points
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range table.Records {
		_, err = stmt.Exec(
			summary.SourceHash, i, r.CompetitionName, r.Stage, r.DateUTC.UTC().Format(time.RFC3339),
			r.HomeTeam, r.AwayTeam, r.FulltimeHome, r.FulltimeAway,
			r.TotalGoals, r.GoalDifference, r.Outcome.String(),
			r.Matchday, r.Referee, r.Status, r.HomePoints, r.AwayPoints,
		)
		if err != nil {
			return fmt.Errorf("insert match row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// ListImports returns all stored imports ordered by imported_at desc.
func (db *DB) ListImports() ([]model.ImportSummary, error) {
	rows, err := db.conn.Query(`
		SELECT hash, source_name, imported_at, matches,
		       has_matchday, has_referee, has_status, has_home_points, has_away_points
		FROM imports ORDER BY imported_at DESC, hash`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ImportSummary
	for rows.Next() {
		s, err := scanImport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetImportByPrefix finds the first import whose hash starts with the given
// prefix. An empty prefix selects the most recent import.
func (db *DB) GetImportByPrefix(prefix string) (*model.ImportSummary, error) {
	row := db.conn.QueryRow(`
		SELECT hash, source_name, imported_at, matches,
		       has_matchday, has_referee, has_status, has_home_points, has_away_points
		FROM imports WHERE hash LIKE ?
		ORDER BY imported_at DESC, hash LIMIT 1`, prefix+"%")
	s, err := scanImport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadTable reads back the match table of the import matching prefix (the
// latest import when prefix is empty), in source row order.
func (db *DB) LoadTable(prefix string) (*model.Table, *model.ImportSummary, error) {
	imp, err := db.GetImportByPrefix(prefix)
	if err != nil {
		return nil, nil, fmt.Errorf("query import: %w", err)
	}
	if imp == nil {
		if prefix == "" {
			return nil, nil, fmt.Errorf("%w: database has no imports", model.ErrDatasetUnavailable)
		}
		return nil, nil, fmt.Errorf("%w: no import with hash prefix %q", model.ErrDatasetUnavailable, prefix)
	}

	rows, err := db.conn.Query(`
		SELECT competition_name, stage, date_utc, home_team, away_team,
		       fulltime_home, fulltime_away, total_goals, goal_difference, match_outcome,
		       matchday, referee, status, home_points, away_points
		FROM matches WHERE import_hash = ?
		ORDER BY row_num`, imp.SourceHash)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	table := &model.Table{Columns: imp.Columns}
	for row := 0; rows.Next(); row++ {
		var r model.MatchRecord
		var dateStr, outcomeStr string
		if err := rows.Scan(
			&r.CompetitionName, &r.Stage, &dateStr, &r.HomeTeam, &r.AwayTeam,
			&r.FulltimeHome, &r.FulltimeAway, &r.TotalGoals, &r.GoalDifference, &outcomeStr,
			&r.Matchday, &r.Referee, &r.Status, &r.HomePoints, &r.AwayPoints,
		); err != nil {
			return nil, nil, err
		}
		if r.DateUTC, err = time.Parse(time.RFC3339, dateStr); err != nil {
			return nil, nil, fmt.Errorf("row %d: date_utc: %w", row, err)
		}
		r.Outcome = model.ParseOutcome(outcomeStr)
		table.Records = append(table.Records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	if table.Len() == 0 {
		return nil, nil, fmt.Errorf("%w: import %s has no rows", model.ErrDatasetUnavailable, ShortHash(imp.SourceHash))
	}
	return table, imp, nil
}

// DeleteImport removes an import and its rows. It reports whether anything was deleted.
func (db *DB) DeleteImport(hash string) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM matches WHERE import_hash = ?", hash); err != nil {
		return false, fmt.Errorf("delete matches: %w", err)
	}
	res, err := tx.Exec("DELETE FROM imports WHERE hash = ?", hash)
	if err != nil {
		return false, fmt.Errorf("delete import: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}

// QueryRaw runs an arbitrary read query and returns column names and
// stringified cells.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanImport(s scanner) (model.ImportSummary, error) {
	var imp model.ImportSummary
	var md, ref, st, hp, ap int
	if err := s.Scan(&imp.SourceHash, &imp.SourceName, &imp.ImportedAt, &imp.Matches,
		&md, &ref, &st, &hp, &ap); err != nil {
		return imp, err
	}
	imp.Columns = model.ColumnSet{
		Matchday:   md != 0,
		Referee:    ref != 0,
		Status:     st != 0,
		HomePoints: hp != 0,
		AwayPoints: ap != 0,
	}
	return imp, nil
}

// ShortHash returns the 12-character display prefix of a source hash.
func ShortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
