package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pable/wordle-stats/internal/aggregator"
	"github.com/pable/wordle-stats/internal/model"
	"github.com/pable/wordle-stats/internal/parser"
)

var pair = model.Pair{First: "Hugo", Second: "Sylvain"}

func init() {
	SetColor(false)
}

func record(t *testing.T, player string, year, puzzle int, a model.Attempts) model.ResultRecord {
	t.Helper()
	r, err := model.NewResultRecord(player, puzzle, a, time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestPrintPlayerYearTableOrdering(t *testing.T) {
	records := []model.ResultRecord{
		record(t, "Sylvain", 2024, 1000, 4),
		record(t, "Hugo", 2024, 1000, 3),
		record(t, "Hugo", 2023, 700, model.Failed),
		record(t, "Hugo", 2023, 701, 2),
	}
	var buf bytes.Buffer
	PrintPlayerYearTable(&buf, aggregator.PlayerYear(records), pair)
	out := buf.String()

	h23 := strings.Index(out, "2023")
	h24 := strings.Index(out, "2024")
	s := strings.Index(out, "Sylvain")
	if h23 < 0 || h24 < 0 || s < 0 {
		t.Fatalf("missing rows in output:\n%s", out)
	}
	if !(h23 < h24 && h24 < s) {
		t.Errorf("expected Hugo 2023, Hugo 2024, then Sylvain:\n%s", out)
	}
	if !strings.Contains(out, "50.0%") {
		t.Errorf("expected Hugo 2023 win rate 50.0%%:\n%s", out)
	}
	if !strings.Contains(out, "2:1") {
		t.Errorf("expected distribution bucket 2:1:\n%s", out)
	}
}

func TestPrintPlayerYearTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintPlayerYearTable(&buf, model.NewPlayerYearTable(), pair)
	if !strings.Contains(buf.String(), "No Wordle results found.") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestPrintHeadToHeadTable(t *testing.T) {
	tbl := model.NewHeadToHeadTable(pair)
	s := tbl.GetOrCreate(2024)
	s.FirstWins, s.SecondWins, s.Ties = 2, 1, 1

	var buf bytes.Buffer
	PrintHeadToHeadTable(&buf, tbl)
	out := buf.String()
	for _, want := range []string{"HUGO", "SYLVAIN", "50.0%", "25.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPrintHeadToHeadTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintHeadToHeadTable(&buf, model.NewHeadToHeadTable(pair))
	if !strings.Contains(buf.String(), "No puzzles played by both Hugo and Sylvain.") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestPrintDistributionTable(t *testing.T) {
	records := []model.ResultRecord{
		record(t, "Hugo", 2023, 700, model.Failed),
		record(t, "Hugo", 2024, 1000, 3),
	}
	var buf bytes.Buffer
	PrintDistributionTable(&buf, aggregator.Distributions(aggregator.PlayerYear(records)), pair)
	if !strings.Contains(buf.String(), "Hugo") {
		t.Errorf("expected Hugo row:\n%s", buf.String())
	}
}

func TestPrintRecordsGroupsLargeNumbers(t *testing.T) {
	var buf bytes.Buffer
	PrintRecords(&buf, []model.ResultRecord{record(t, "Hugo", 2024, 1292, model.Failed)})
	out := buf.String()
	if !strings.Contains(out, "1,292") || !strings.Contains(out, "X") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintRunSummary(&buf, parser.Stats{Files: 2, Blocks: 1500, Records: 40}, aggregator.Dedup{Overwritten: 3})
	out := buf.String()
	if !strings.Contains(out, "Messages: 1,500") || !strings.Contains(out, "same puzzle: 3") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestPrintQueryResult(t *testing.T) {
	var buf bytes.Buffer
	rows := make([][]string, 1200)
	for i := range rows {
		rows[i] = []string{"Hugo", "2024"}
	}
	rows[0] = []string{"Sylvain", "NULL"}
	PrintQueryResult(&buf, []string{"player", "year"}, rows)
	out := buf.String()
	for _, want := range []string{"PLAYER", "Sylvain", "NULL", "(1,200 rows)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestPrintQueryResultEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintQueryResult(&buf, []string{"player"}, nil)
	if strings.TrimSpace(buf.String()) != "(no rows)" {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
