package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/wordle-stats/internal/aggregator"
	"github.com/pable/wordle-stats/internal/model"
	"github.com/pable/wordle-stats/internal/report"
	"github.com/pable/wordle-stats/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the tables stored in an exported SQLite file",
	Long: `Reprint the statistics written by 'wordlestats export --format sqlite'
without rescanning the chat export.

Example:
  wordlestats show --db wordle_stats.db`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&dbPath, "db", defaultExportDB, "export file to read")
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := storage.OpenExisting(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.GetRun()
	if err != nil {
		return fmt.Errorf("%s: %w", dbPath, err)
	}
	rows, err := db.GetPlayerYearStats(run.ID)
	if err != nil {
		return fmt.Errorf("get player stats: %w", err)
	}
	hrows, err := db.GetHeadToHeadStats(run.ID)
	if err != nil {
		return fmt.Errorf("get head-to-head stats: %w", err)
	}

	py := model.NewPlayerYearTable()
	for _, r := range rows {
		*py.GetOrCreate(model.PlayerYearKey{Player: r.Player, Year: r.Year}) = r
	}
	h2h := model.NewHeadToHeadTable(run.Pair)
	for _, r := range hrows {
		*h2h.GetOrCreate(r.Year) = r
	}

	fmt.Fprintf(os.Stdout, "\nRun: %s  |  Created: %s  |  Input: %s  |  Results: %d\n",
		run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), run.InputGlob, run.Records)
	report.PrintPlayerYearTable(os.Stdout, py, run.Pair)
	report.PrintDistributionTable(os.Stdout, aggregator.Distributions(py), run.Pair)
	report.PrintHeadToHeadTable(os.Stdout, h2h)
	return nil
}
