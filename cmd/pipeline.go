package cmd

import (
	"fmt"
	"log/slog"

	"github.com/pable/wordle-stats/internal/aggregator"
	"github.com/pable/wordle-stats/internal/config"
	"github.com/pable/wordle-stats/internal/model"
	"github.com/pable/wordle-stats/internal/parser"
)

// pipelineRun is everything one pass over the export produces.
type pipelineRun struct {
	cfg     config.Config
	records []model.ResultRecord
	stats   parser.Stats
	agg     *aggregator.Result
}

// runPipeline extracts every record, then computes both aggregates. Nothing is
// printed until the whole export has been read.
func runPipeline(cfg config.Config) (*pipelineRun, error) {
	ext := parser.NewExtractor(slog.Default())
	records, err := ext.ExtractGlob(cfg.Glob)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	slog.Info("extracted", "results", len(records), "files", ext.Stats.Files)

	agg, err := aggregator.Aggregate(records, cfg.Pair)
	if err != nil {
		return nil, err
	}
	if agg.Dedup.Overwritten > 0 {
		slog.Info("repeated results for the same puzzle; using the latest", "count", agg.Dedup.Overwritten)
	}
	return &pipelineRun{cfg: cfg, records: records, stats: ext.Stats, agg: agg}, nil
}
