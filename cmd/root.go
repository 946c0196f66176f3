package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/wordle-stats/internal/config"
	"github.com/pable/wordle-stats/internal/report"
)

var (
	dbPath       string
	globPattern  string
	firstPlayer  string
	secondPlayer string
	envFile      string
	noColor      bool
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "wordlestats",
	Short: "Wordle statistics from a Telegram chat export",
	Long: `Scan Telegram HTML export pages for shared Wordle results, then report
per-player yearly statistics and a head-to-head comparison between two players.

Running without a subcommand is the same as 'wordlestats report'.`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: setup,
	RunE:              runReport,
	SilenceUsage:      true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globPattern, "glob", "", "export pages to scan (default $WORDLESTATS_GLOB or "+config.DefaultGlob+")")
	pf.StringVar(&firstPlayer, "first", config.DefaultFirst, "first head-to-head player")
	pf.StringVar(&secondPlayer, "second", config.DefaultSecond, "second head-to-head player")
	pf.StringVar(&envFile, "env-file", ".env", "optional dotenv file")
	pf.BoolVar(&noColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log skipped messages")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(sqlCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	if noColor {
		report.SetColor(false)
	}
	return nil
}

// loadConfig merges the environment with command-line flags; flags win.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("glob") {
		cfg.Glob = globPattern
	}
	cfg.Pair.First = firstPlayer
	cfg.Pair.Second = secondPlayer
	if err := cfg.Pair.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
