package main

import (
	"guardrails/internal/version"

	"github.com/spf13/cobra"
)

var repoRootFlag string

var rootCmd = &cobra.Command{
	Use:   "guardrails",
	Short: "guardrails - pre-merge change impact analysis",
	Long: `guardrails statically analyzes proposed source-code changes to estimate
blast radius, breaking-change risk, and mitigation strategy before a
change is merged. Changes come from a unified diff or a JSON change set;
results go out as human text, JSON, DOT graphs, or stored reports.`,
	Version: version.Version,
	// main logs execution errors itself; without this cobra would print
	// them a second time.
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("guardrails version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&repoRootFlag, "repo-root", ".", "Repository root to analyze")
}
