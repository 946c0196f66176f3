package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/wordle-stats/internal/aggregator"
	"github.com/pable/wordle-stats/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print per-player yearly stats and the head-to-head comparison",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	run, err := runPipeline(cfg)
	if err != nil {
		return err
	}

	report.PrintRunSummary(os.Stdout, run.stats, run.agg.Dedup)
	report.PrintPlayerYearTable(os.Stdout, run.agg.PlayerYear, cfg.Pair)
	report.PrintDistributionTable(os.Stdout, aggregator.Distributions(run.agg.PlayerYear), cfg.Pair)
	report.PrintHeadToHeadTable(os.Stdout, run.agg.HeadToHead)
	return nil
}
