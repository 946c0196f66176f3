package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/wordle-stats/internal/report"
	"github.com/pable/wordle-stats/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Query an exported SQLite file",
	Long: `Run a read-only SQL query against a file written by 'wordlestats export'
and print the result as a table. Statements that modify the file are rejected.

Schema overview:
  runs(id, created_at, input_glob, first_player, second_player, records)
  player_year_stats(run_id, player, year, total, wins, losses, total_attempts, d1..d6)
  head_to_head_stats(run_id, year, first_wins, second_wins, ties)

Example:
  wordlestats sql --db wordle_stats.db "SELECT player, year, wins FROM player_year_stats ORDER BY wins DESC"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func init() {
	sqlCmd.Flags().StringVar(&dbPath, "db", defaultExportDB, "export file to query")
}

func runSQL(cmd *cobra.Command, args []string) error {
	db, err := storage.OpenExisting(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(strings.Join(args, " "))
	if err != nil {
		return err
	}
	report.PrintQueryResult(os.Stdout, cols, rows)
	return nil
}
