package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"guardrails/internal/audit"
	"guardrails/internal/impact"
	"guardrails/internal/risk"
	"guardrails/internal/storage"
)

var (
	analyzeDiff    string
	analyzeChanges string
	analyzeAuthor  string
	analyzeFormat  string
	analyzeFailOn  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the impact of proposed changes",
	Long: `Analyze proposed changes one by one: classification, breaking
changes, affected files and components, risk level, and mitigation
strategies. Breaking changes are recorded in the audit trail.

Examples:
  guardrails analyze --diff changes.patch
  git diff | guardrails analyze --diff -
  guardrails analyze --changes changes.json --format=json
  guardrails analyze --diff - --fail-on=high`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeDiff, "diff", "", "Unified diff file to analyze (- for stdin)")
	analyzeCmd.Flags().StringVar(&analyzeChanges, "changes", "", "JSON change-set file to analyze")
	analyzeCmd.Flags().StringVar(&analyzeAuthor, "author", "", "Author to attribute diff changes to")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "human", "Output format (json, human)")
	analyzeCmd.Flags().StringVar(&analyzeFailOn, "fail-on", "", "Exit non-zero when any change reaches this risk level (medium, high, critical)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, analyzeFormat)

	changes, err := loadChanges(analyzeDiff, analyzeChanges, analyzeAuthor)
	if err != nil {
		return err
	}

	analyzer, err := loadEngine(cfg, logger)
	if err != nil {
		return err
	}

	var recorder *audit.Recorder
	if cfg.Audit.Enabled {
		db, err := storage.Open(repoRootFlag, logger)
		if err != nil {
			return fmt.Errorf("failed to open audit storage: %w", err)
		}
		defer db.Close()
		recorder = audit.NewRecorder(db, logger, time.Duration(cfg.Audit.CacheTtlSeconds)*time.Second)
	}

	ctx := context.Background()
	analyses := make([]*impact.Analysis, 0, len(changes))
	for i := range changes {
		analysis, err := analyzer.AnalyzeChange(ctx, &changes[i])
		if err != nil {
			return err
		}
		analyses = append(analyses, analysis)

		if recorder != nil {
			if err := recorder.RecordAnalysis(analysis); err != nil {
				logger.Warn("failed to record audit event", map[string]interface{}{
					"changeId": analysis.Change.ID,
					"error":    err.Error(),
				})
			}
		}
	}

	output, err := FormatAnalyses(analyses, OutputFormat(analyzeFormat))
	if err != nil {
		return err
	}
	fmt.Println(output)

	if analyzeFailOn != "" {
		threshold := risk.Level(analyzeFailOn)
		for _, a := range analyses {
			if a.RiskLevel.AtLeast(threshold) {
				fmt.Fprintf(os.Stderr, "change %s reaches risk level %s (threshold %s)\n",
					a.Change.ID, a.RiskLevel, threshold)
				os.Exit(2)
			}
		}
	}
	return nil
}
