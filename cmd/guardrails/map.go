package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"guardrails/internal/render"
)

var (
	mapDiff    string
	mapChanges string
	mapAuthor  string
	mapFormat  string
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Build an impact map for a batch of changes",
	Long: `Analyze a batch of changes together and merge the results into one
impact map: one node per affected file, connections between changed
files and their blast area, and an aggregate risk assessment.

Examples:
  guardrails map --diff changes.patch
  guardrails map --changes changes.json --format=dot | dot -Tsvg > impact.svg`,
	RunE: runMap,
}

func init() {
	mapCmd.Flags().StringVar(&mapDiff, "diff", "", "Unified diff file to analyze (- for stdin)")
	mapCmd.Flags().StringVar(&mapChanges, "changes", "", "JSON change-set file to analyze")
	mapCmd.Flags().StringVar(&mapAuthor, "author", "", "Author to attribute diff changes to")
	mapCmd.Flags().StringVar(&mapFormat, "format", "json", "Output format (json, dot)")
	rootCmd.AddCommand(mapCmd)
}

func runMap(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, mapFormat)

	changes, err := loadChanges(mapDiff, mapChanges, mapAuthor)
	if err != nil {
		return err
	}

	analyzer, err := loadEngine(cfg, logger)
	if err != nil {
		return err
	}

	m, err := analyzer.BuildMap(context.Background(), changes)
	if err != nil {
		return err
	}

	switch mapFormat {
	case "dot":
		fmt.Print(render.DOT(m))
		// The DOT stream must stay machine-clean, so the batch summary
		// goes to stderr.
		if m.BlastRadius != nil {
			fmt.Fprintf(os.Stderr, "blast radius: %d overlapping area(s), %d interconnected, %d isolated change(s)\n",
				len(m.BlastRadius.OverlappingAreas), len(m.BlastRadius.InterconnectedChanges), len(m.BlastRadius.IsolatedChanges))
		}
		if m.Deployment != nil {
			fmt.Fprintf(os.Stderr, "deployment risk: %s (%.1f), rollback %s\n",
				m.Deployment.Score.Level, m.Deployment.Score.Value, m.Deployment.RollbackComplexity)
		}
	case "json":
		data, err := render.JSON(m)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	default:
		return fmt.Errorf("unsupported format: %s", mapFormat)
	}
	return nil
}
