package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/pable/wordle-stats/internal/model"
)

var pair = model.Pair{First: "Hugo", Second: "Sylvain"}

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleTables() (*model.PlayerYearTable, *model.HeadToHeadTable) {
	py := model.NewPlayerYearTable()
	h := py.GetOrCreate(model.PlayerYearKey{Player: "Hugo", Year: 2023})
	h.Add(3)
	h.Add(model.Failed)
	s := py.GetOrCreate(model.PlayerYearKey{Player: "Sylvain", Year: 2023})
	s.Add(5)
	s.Add(6)
	py.GetOrCreate(model.PlayerYearKey{Player: "Hugo", Year: 2022}).Add(1)

	h2h := model.NewHeadToHeadTable(pair)
	y := h2h.GetOrCreate(2023)
	y.FirstWins, y.SecondWins = 1, 1
	return py, h2h
}

// exportFile writes one run to a fresh export file under t.TempDir.
func exportFile(t *testing.T, path string, run Run) {
	t.Helper()
	db, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	py, h2h := sampleTables()
	if err := db.SaveRun(run, py, h2h); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestSaveRunRoundTrip(t *testing.T) {
	db := openMemDB(t)
	py, h2h := sampleTables()

	run := NewRun("history_dump/messages*.html", pair, 5)
	if run.ID == "" {
		t.Fatal("expected a run ID")
	}
	if err := db.SaveRun(run, py, h2h); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := db.GetRun()
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.ID != run.ID || got.Pair != pair || got.Records != 5 || got.InputGlob != run.InputGlob {
		t.Errorf("unexpected run %+v", *got)
	}

	rows, err := db.GetPlayerYearStats(run.ID)
	if err != nil {
		t.Fatalf("GetPlayerYearStats: %v", err)
	}
	want := py.Rows()
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d: got %+v, want %+v", i, rows[i], want[i])
		}
	}

	hrows, err := db.GetHeadToHeadStats(run.ID)
	if err != nil {
		t.Fatalf("GetHeadToHeadStats: %v", err)
	}
	if len(hrows) != 1 || hrows[0].FirstWins != 1 || hrows[0].SecondWins != 1 || hrows[0].Ties != 0 {
		t.Errorf("unexpected head-to-head rows %+v", hrows)
	}
}

func TestGetRunEmpty(t *testing.T) {
	db := openMemDB(t)
	if _, err := db.GetRun(); !errors.Is(err, ErrNoRun) {
		t.Errorf("expected ErrNoRun, got %v", err)
	}
}

func TestCreateReplacesPreviousExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordle_stats.db")
	first := NewRun("a/*.html", pair, 1)
	second := NewRun("b/*.html", pair, 2)
	exportFile(t, path, first)
	exportFile(t, path, second)

	db, err := OpenExisting(path)
	if err != nil {
		t.Fatalf("OpenExisting: %v", err)
	}
	defer db.Close()

	_, rows, err := db.QueryRaw("SELECT id FROM runs")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(rows) != 1 || rows[0][0] != second.ID {
		t.Errorf("expected only run %s, got %v", second.ID, rows)
	}
}

func TestOpenExistingMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	if _, err := OpenExisting(path); !errors.Is(err, ErrNoDatabase) {
		t.Fatalf("expected ErrNoDatabase, got %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("OpenExisting must not create %s (stat err %v)", path, err)
	}
}

func TestOpenExistingIsReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordle_stats.db")
	exportFile(t, path, NewRun("x", pair, 5))

	db, err := OpenExisting(path)
	if err != nil {
		t.Fatalf("OpenExisting: %v", err)
	}
	defer db.Close()

	if _, _, err := db.QueryRaw("DELETE FROM runs"); err == nil {
		t.Error("expected DELETE to be rejected")
	}
	if _, rows, err := db.QueryRaw("SELECT COUNT(*) FROM runs"); err != nil || rows[0][0] != "1" {
		t.Errorf("expected the run to survive, got %v (err %v)", rows, err)
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	py, h2h := sampleTables()
	if err := db.SaveRun(NewRun("x", pair, 5), py, h2h); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	cols, rows, err := db.QueryRaw("SELECT player, SUM(total) AS games FROM player_year_stats GROUP BY player ORDER BY player")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 2 || cols[1] != "games" {
		t.Errorf("unexpected columns %v", cols)
	}
	if len(rows) != 2 || rows[0][0] != "Hugo" || rows[0][1] != "3" {
		t.Errorf("unexpected rows %v", rows)
	}

	if _, _, err := db.QueryRaw("SELECT * FROM nope"); err == nil {
		t.Error("expected error for unknown table")
	}
}
