package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/pable/wordle-stats/internal/aggregator"
	"github.com/pable/wordle-stats/internal/model"
	"github.com/pable/wordle-stats/internal/storage"
)

// defaultExportDB is where the sqlite export is written and read by default.
const defaultExportDB = "wordle_stats.db"

var (
	exportFormat string
	exportOut    string
)

// exportDoc is the JSON schema consumed by chart renderers. Map keys are
// player names and years, emitted in sorted order.
type exportDoc struct {
	RunID       string                                `json:"run_id"`
	GeneratedAt string                                `json:"generated_at"`
	InputGlob   string                                `json:"input_glob"`
	Records     int                                   `json:"records"`
	Pair        exportPair                            `json:"pair"`
	Players     map[string]map[string]exportYearStats `json:"players"`
	HeadToHead  map[string]exportHeadToHead           `json:"head_to_head"`
}

type exportPair struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

type exportYearStats struct {
	Total         int            `json:"total"`
	Wins          int            `json:"wins"`
	Losses        int            `json:"losses"`
	TotalAttempts int            `json:"total_attempts"`
	WinRate       float64        `json:"win_rate"`
	MeanAttempts  float64        `json:"mean_attempts"`
	Distribution  map[string]int `json:"distribution"`
}

type exportHeadToHead struct {
	FirstWins  int `json:"first_wins"`
	SecondWins int `json:"second_wins"`
	Ties       int `json:"ties"`
	Total      int `json:"total"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the aggregates for chart rendering",
	Long: `Run the pipeline and write both aggregate views to an external sink.

  --format sqlite  write a fresh SQLite file to --out (default: `+defaultExportDB+`),
                   replacing any earlier export; read it with 'show' and 'sql'
  --format json    write a JSON document to --out (default: stdout)

Example:
  wordlestats export --format json --out wordle_stats.json
  wordlestats export --out stats/wordle_stats.db`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "sqlite", "export format: sqlite or json")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default: stdout for json, "+defaultExportDB+" for sqlite)")
}

func runExport(cmd *cobra.Command, _ []string) error {
	if exportFormat != "sqlite" && exportFormat != "json" {
		return fmt.Errorf("unknown export format %q (want sqlite or json)", exportFormat)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	run, err := runPipeline(cfg)
	if err != nil {
		return err
	}
	meta := storage.NewRun(cfg.Glob, cfg.Pair, len(run.records))

	if exportFormat == "json" {
		return exportJSON(meta, run.agg)
	}

	out := exportOut
	if out == "" {
		out = defaultExportDB
	}
	if err := exportSQLite(out, meta, run.agg); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Exported run %s (%d results) to %s\n", meta.ID, meta.Records, out)
	return nil
}

// exportSQLite writes meta and both aggregate tables to a fresh file at path.
func exportSQLite(path string, meta storage.Run, agg *aggregator.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	db, err := storage.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	defer db.Close()

	if err := db.SaveRun(meta, agg.PlayerYear, agg.HeadToHead); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func exportJSON(meta storage.Run, agg *aggregator.Result) error {
	var w io.Writer = os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(buildExportDoc(meta, agg)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	if exportOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", exportOut)
	}
	return nil
}

func buildExportDoc(meta storage.Run, agg *aggregator.Result) exportDoc {
	doc := exportDoc{
		RunID:       meta.ID,
		GeneratedAt: meta.CreatedAt.Format(time.RFC3339),
		InputGlob:   meta.InputGlob,
		Records:     meta.Records,
		Pair:        exportPair{First: meta.Pair.First, Second: meta.Pair.Second},
		Players:     make(map[string]map[string]exportYearStats),
		HeadToHead:  make(map[string]exportHeadToHead),
	}

	for _, s := range agg.PlayerYear.Rows() {
		years, ok := doc.Players[s.Player]
		if !ok {
			years = make(map[string]exportYearStats)
			doc.Players[s.Player] = years
		}
		dist := make(map[string]int, model.MaxAttempts)
		for n := 1; n <= model.MaxAttempts; n++ {
			dist[strconv.Itoa(n)] = s.Distribution[n]
		}
		years[strconv.Itoa(s.Year)] = exportYearStats{
			Total:         s.TotalGames,
			Wins:          s.Wins,
			Losses:        s.Losses,
			TotalAttempts: s.TotalAttempts,
			WinRate:       s.WinRate(),
			MeanAttempts:  s.MeanAttempts(),
			Distribution:  dist,
		}
	}

	for _, s := range agg.HeadToHead.Rows() {
		doc.HeadToHead[strconv.Itoa(s.Year)] = exportHeadToHead{
			FirstWins:  s.FirstWins,
			SecondWins: s.SecondWins,
			Ties:       s.Ties,
			Total:      s.Total(),
		}
	}
	return doc
}
