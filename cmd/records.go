package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/wordle-stats/internal/model"
	"github.com/pable/wordle-stats/internal/report"
)

var recordsPlayer string

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List every Wordle result found in the export",
	Args:  cobra.NoArgs,
	RunE:  runRecords,
}

func init() {
	recordsCmd.Flags().StringVar(&recordsPlayer, "player", "", "only list results by this player")
}

func runRecords(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	run, err := runPipeline(cfg)
	if err != nil {
		return err
	}

	records := run.records
	if recordsPlayer != "" {
		var filtered []model.ResultRecord
		for _, r := range records {
			if r.Player == recordsPlayer {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}
	report.PrintRecords(os.Stdout, records)
	return nil
}
