package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pable/wordle-stats/internal/aggregator"
	"github.com/pable/wordle-stats/internal/model"
	"github.com/pable/wordle-stats/internal/parser"
)

var (
	numbers = message.NewPrinter(language.English)

	cFirst  = color.New(color.FgBlue, color.Bold)
	cSecond = color.New(color.FgRed, color.Bold)
	cHeader = color.New(color.FgCyan, color.Bold)
)

// SetColor enables or disables ANSI colors in all report output.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n\n", cHeader.Sprintf("=== %s ===", title))
}

// playerLabel colors the members of pair; everyone else is printed plain.
func playerLabel(name string, pair model.Pair) string {
	switch name {
	case pair.First:
		return cFirst.Sprint(name)
	case pair.Second:
		return cSecond.Sprint(name)
	default:
		return name
	}
}

func count(n int) string {
	return numbers.Sprintf("%d", n)
}

func pct(v float64) string {
	return numbers.Sprintf("%.1f%%", v)
}

// PrintRunSummary prints a one-line account of what extraction found.
func PrintRunSummary(w io.Writer, s parser.Stats, dedup aggregator.Dedup) {
	fmt.Fprintf(w, "\nFiles: %s  |  Messages: %s  |  Results: %s  |  Skipped (no author): %s  |  Skipped (bad date): %s\n",
		count(s.Files), count(s.Blocks), count(s.Records), count(s.SkippedAuthor), count(s.SkippedDate))
	if dedup.Overwritten > 0 {
		fmt.Fprintf(w, "Repeated results for the same puzzle: %s (latest post used head-to-head)\n", count(dedup.Overwritten))
	}
}

// PrintPlayerYearTable prints one row per (player, year), players by name and years ascending.
func PrintPlayerYearTable(w io.Writer, tbl *model.PlayerYearTable, pair model.Pair) {
	section(w, "Wordle Statistics")
	if tbl.Len() == 0 {
		fmt.Fprintln(w, "No Wordle results found.")
		return
	}

	table := newTable(w)
	table.Header("PLAYER", "YEAR", "GAMES", "WINS", "WIN%", "LOSSES", "AVG", "DISTRIBUTION")
	for _, s := range tbl.Rows() {
		table.Append(
			playerLabel(s.Player, pair),
			strconv.Itoa(s.Year),
			count(s.TotalGames),
			count(s.Wins),
			pct(s.WinRate()),
			count(s.Losses),
			fmt.Sprintf("%.2f", s.MeanAttempts()),
			formatBuckets(&s),
		)
	}
	table.Render()
}

// formatBuckets renders non-zero distribution buckets as "n:count", ascending.
func formatBuckets(s *model.PlayerYearStats) string {
	buckets := s.Buckets()
	if len(buckets) == 0 {
		return "—"
	}
	parts := make([]string, 0, len(buckets))
	for _, n := range buckets {
		parts = append(parts, fmt.Sprintf("%d:%d", n, s.Distribution[n]))
	}
	return strings.Join(parts, " ")
}

// PrintHeadToHeadTable prints daily wins for each member of the pair, per year.
func PrintHeadToHeadTable(w io.Writer, tbl *model.HeadToHeadTable) {
	section(w, "Head-to-Head (Daily Wins)")
	rows := tbl.Rows()
	if len(rows) == 0 {
		fmt.Fprintf(w, "No puzzles played by both %s and %s.\n", tbl.Pair.First, tbl.Pair.Second)
		return
	}

	table := newTable(w)
	table.Header("YEAR", strings.ToUpper(tbl.Pair.First), "%", strings.ToUpper(tbl.Pair.Second), "%", "TIES", "%", "TOTAL")
	for _, s := range rows {
		table.Append(
			strconv.Itoa(s.Year),
			cFirst.Sprint(count(s.FirstWins)),
			pct(s.Share(s.FirstWins)),
			cSecond.Sprint(count(s.SecondWins)),
			pct(s.Share(s.SecondWins)),
			count(s.Ties),
			pct(s.Share(s.Ties)),
			count(s.Total()),
		)
	}
	table.Render()
}

// PrintDistributionTable prints each player's guesses histogram over all years,
// with unsolved puzzles in the X column.
func PrintDistributionTable(w io.Writer, dists []aggregator.Distribution, pair model.Pair) {
	section(w, "Distribution of Attempts (All Years)")
	if len(dists) == 0 {
		fmt.Fprintln(w, "No Wordle results found.")
		return
	}

	table := newTable(w)
	table.Header("PLAYER", "1", "2", "3", "4", "5", "6", "X")
	for _, d := range dists {
		row := []any{playerLabel(d.Player, pair)}
		for n := 1; n <= model.MaxAttempts; n++ {
			row = append(row, count(d.Wins[n]))
		}
		row = append(row, count(d.Losses))
		table.Append(row...)
	}
	table.Render()
}

// PrintRecords lists extracted results in extraction order.
func PrintRecords(w io.Writer, records []model.ResultRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No Wordle results found.")
		return
	}
	table := newTable(w)
	table.Header("DATE", "PLAYER", "PUZZLE", "ATTEMPTS")
	for _, r := range records {
		table.Append(
			r.Date.Format("2006-01-02"),
			r.Player,
			count(r.PuzzleNumber),
			r.Attempts.String(),
		)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%s results)\n", count(len(records)))
}

// PrintQueryResult prints the columns and stringified rows of an ad-hoc query.
func PrintQueryResult(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	table := newTable(w)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%s rows)\n", count(len(rows)))
}
