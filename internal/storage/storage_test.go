package storage

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pable/go-match-stats/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleTable() *model.Table {
	kick := time.Date(2024, 8, 16, 19, 0, 0, 0, time.UTC)
	return &model.Table{
		Columns: model.ColumnSet{Matchday: true, Referee: true},
		Records: []model.MatchRecord{
			{
				CompetitionName: "Premier League", Stage: "REGULAR_SEASON", DateUTC: kick,
				HomeTeam: "Arsenal", AwayTeam: "Wolves", FulltimeHome: 2, FulltimeAway: 0,
				TotalGoals: 2, GoalDifference: 2, Outcome: model.OutcomeHome,
				Matchday: 1, Referee: "John Brooks",
			},
			{
				CompetitionName: "Premier League", Stage: "REGULAR_SEASON", DateUTC: kick.Add(24 * time.Hour),
				HomeTeam: "Everton", AwayTeam: "Brighton", FulltimeHome: 0, FulltimeAway: 3,
				TotalGoals: 3, GoalDifference: -3, Outcome: model.OutcomeAway,
				Matchday: 1, Referee: "Simon Hooper",
			},
			{
				CompetitionName: "UEFA Champions League", DateUTC: kick.Add(48 * time.Hour),
				HomeTeam: "Young Boys", AwayTeam: "Aston Villa", FulltimeHome: 0, FulltimeAway: 0,
				TotalGoals: 0, GoalDifference: 0, Outcome: model.OutcomeDraw,
			},
		},
	}
}

func TestImportInsertAndExists(t *testing.T) {
	db := openMemDB(t)

	summary := model.ImportSummary{SourceHash: "abc123", SourceName: "matches.csv", ImportedAt: "2025-01-01T00:00:00Z"}
	if err := db.InsertImport(summary, sampleTable()); err != nil {
		t.Fatalf("InsertImport: %v", err)
	}

	exists, err := db.ImportExists("abc123")
	if err != nil {
		t.Fatalf("ImportExists: %v", err)
	}
	if !exists {
		t.Error("expected import to exist after insert")
	}

	exists2, _ := db.ImportExists("nonexistent")
	if exists2 {
		t.Error("expected non-existent import to not exist")
	}
}

func TestListImports(t *testing.T) {
	db := openMemDB(t)

	db.InsertImport(model.ImportSummary{SourceHash: "h1", SourceName: "a.csv", ImportedAt: "2025-01-01T00:00:00Z"}, sampleTable())
	db.InsertImport(model.ImportSummary{SourceHash: "h2", SourceName: "b.csv", ImportedAt: "2025-02-01T00:00:00Z"}, sampleTable())

	list, err := db.ListImports()
	if err != nil {
		t.Fatalf("ListImports: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 imports, got %d", len(list))
	}
	// Ordered by imported_at DESC, so h2 comes first.
	if list[0].SourceHash != "h2" {
		t.Errorf("expected h2 first (newest), got %s", list[0].SourceHash)
	}
	if list[0].Matches != 3 {
		t.Errorf("expected 3 matches recorded, got %d", list[0].Matches)
	}
	if !list[0].Columns.Matchday || list[0].Columns.Status {
		t.Errorf("column set not round-tripped: %+v", list[0].Columns)
	}
}

func TestLoadTableRoundTrip(t *testing.T) {
	db := openMemDB(t)
	in := sampleTable()
	if err := db.InsertImport(model.ImportSummary{SourceHash: "deadbeef1234", SourceName: "m.csv", ImportedAt: "2025-01-01T00:00:00Z"}, in); err != nil {
		t.Fatalf("InsertImport: %v", err)
	}

	out, imp, err := db.LoadTable("deadb")
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if imp.SourceHash != "deadbeef1234" {
		t.Errorf("unexpected hash %s", imp.SourceHash)
	}
	if out.Columns != in.Columns {
		t.Errorf("columns: want %+v, got %+v", in.Columns, out.Columns)
	}
	if out.Len() != in.Len() {
		t.Fatalf("rows: want %d, got %d", in.Len(), out.Len())
	}
	for i := range in.Records {
		want, got := in.Records[i], out.Records[i]
		if !want.DateUTC.Equal(got.DateUTC) {
			t.Errorf("row %d date: want %v, got %v", i, want.DateUTC, got.DateUTC)
		}
		got.DateUTC = want.DateUTC
		if want != got {
			t.Errorf("row %d mismatch:\nwant %+v\ngot  %+v", i, want, got)
		}
	}
}

func TestLoadTableLatestByDefault(t *testing.T) {
	db := openMemDB(t)

	older := sampleTable()
	older.Records = older.Records[:1]
	db.InsertImport(model.ImportSummary{SourceHash: "old", SourceName: "a.csv", ImportedAt: "2025-01-01T00:00:00Z"}, older)
	db.InsertImport(model.ImportSummary{SourceHash: "new", SourceName: "b.csv", ImportedAt: "2025-03-01T00:00:00Z"}, sampleTable())

	table, imp, err := db.LoadTable("")
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if imp.SourceHash != "new" || table.Len() != 3 {
		t.Errorf("expected latest import with 3 rows, got %s with %d", imp.SourceHash, table.Len())
	}
}

func TestLoadTableUnavailable(t *testing.T) {
	db := openMemDB(t)

	if _, _, err := db.LoadTable(""); !errors.Is(err, model.ErrDatasetUnavailable) {
		t.Errorf("empty db: expected ErrDatasetUnavailable, got %v", err)
	}
	if _, _, err := db.LoadTable("ffff"); !errors.Is(err, model.ErrDatasetUnavailable) {
		t.Errorf("unknown prefix: expected ErrDatasetUnavailable, got %v", err)
	}
}

func TestLoadTableRejectsCorruptDate(t *testing.T) {
	db := openMemDB(t)
	db.InsertImport(model.ImportSummary{SourceHash: "bad", SourceName: "m.csv", ImportedAt: "2025-01-01T00:00:00Z"}, sampleTable())
	if _, err := db.conn.Exec("UPDATE matches SET date_utc = 'yesterday' WHERE row_num = 1"); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	_, _, err := db.LoadTable("bad")
	if err == nil {
		t.Fatal("expected an error for an unparseable date_utc")
	}
	if !strings.Contains(err.Error(), "row 1") {
		t.Errorf("error should name the row, got %v", err)
	}
}

func TestInsertIdempotency(t *testing.T) {
	db := openMemDB(t)

	s := model.ImportSummary{SourceHash: "idem1", SourceName: "m.csv", ImportedAt: "2025-01-01T00:00:00Z"}
	db.InsertImport(s, sampleTable())
	// Second insert should not error (INSERT OR REPLACE) nor duplicate rows.
	if err := db.InsertImport(s, sampleTable()); err != nil {
		t.Errorf("second InsertImport should succeed (idempotent): %v", err)
	}
	table, _, err := db.LoadTable("idem1")
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if table.Len() != 3 {
		t.Errorf("expected 3 rows after re-import, got %d", table.Len())
	}
}

func TestDeleteImport(t *testing.T) {
	db := openMemDB(t)
	db.InsertImport(model.ImportSummary{SourceHash: "gone", SourceName: "m.csv", ImportedAt: "2025-01-01T00:00:00Z"}, sampleTable())

	deleted, err := db.DeleteImport("gone")
	if err != nil {
		t.Fatalf("DeleteImport: %v", err)
	}
	if !deleted {
		t.Error("expected delete to report a removed import")
	}
	_, rows, err := db.QueryRaw("SELECT COUNT(*) FROM matches")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if rows[0][0] != "0" {
		t.Errorf("expected matches to be removed, got %s", rows[0][0])
	}

	deleted, _ = db.DeleteImport("gone")
	if deleted {
		t.Error("second delete should report nothing removed")
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	db.InsertImport(model.ImportSummary{SourceHash: "q1", SourceName: "m.csv", ImportedAt: "2025-01-01T00:00:00Z"}, sampleTable())

	cols, rows, err := db.QueryRaw(`SELECT home_team, total_goals FROM matches WHERE competition_name = 'Premier League' ORDER BY row_num`)
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 2 || cols[0] != "home_team" {
		t.Errorf("unexpected columns %v", cols)
	}
	if len(rows) != 2 || rows[1][0] != "Everton" || rows[1][1] != "3" {
		t.Errorf("unexpected rows %v", rows)
	}
}
